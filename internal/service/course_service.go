package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ucao-academy/web-academy-api/internal/dto"
	"github.com/ucao-academy/web-academy-api/internal/models"
	appErrors "github.com/ucao-academy/web-academy-api/pkg/errors"
)

type courseRepository interface {
	FindByID(ctx context.Context, id string) (*models.Course, error)
	List(ctx context.Context, filter models.CourseFilter) ([]models.Course, int, error)
	Create(ctx context.Context, course *models.Course) error
	Update(ctx context.Context, course *models.Course) error
	Delete(ctx context.Context, id string) error
}

type courseCategoryReader interface {
	FindByID(ctx context.Context, id string) (*models.Category, error)
}

type courseFiliereReader interface {
	FindByID(ctx context.Context, id string) (*models.Filiere, error)
}

type courseAuditLogger interface {
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

type courseCache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	InvalidateCourses(ctx context.Context)
}

type cachedCourseList struct {
	Courses []models.Course `json:"courses"`
	Total   int             `json:"total"`
}

// CourseService orchestrates course CRUD and lifecycle transitions.
type CourseService struct {
	repo       courseRepository
	categories courseCategoryReader
	filieres   courseFiliereReader
	audit      courseAuditLogger
	cache      courseCache
	validator  *validator.Validate
	logger     *zap.Logger
}

// NewCourseService constructs a CourseService.
func NewCourseService(repo courseRepository, categories courseCategoryReader, filieres courseFiliereReader, audit courseAuditLogger, cache courseCache, validate *validator.Validate, logger *zap.Logger) *CourseService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourseService{
		repo:       repo,
		categories: categories,
		filieres:   filieres,
		audit:      audit,
		cache:      cache,
		validator:  validate,
		logger:     logger,
	}
}

// List returns courses for the given filter. Students only ever see
// published courses regardless of requested status.
func (s *CourseService) List(ctx context.Context, filter models.CourseFilter, actor *models.JWTClaims) ([]models.Course, *models.Pagination, error) {
	if actor != nil && actor.Role == models.RoleStudent {
		published := models.CourseStatusPublished
		filter.Status = &published
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}

	// Published listings are the hot path for student dashboards, so they go
	// through the cache. Writes invalidate the whole prefix.
	cacheable := s.cache != nil && filter.Status != nil && *filter.Status == models.CourseStatusPublished
	cacheKey := courseListCacheKey(filter, page, pageSize)
	if cacheable {
		var cached cachedCourseList
		if hit, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
			return cached.Courses, &models.Pagination{Page: page, PageSize: pageSize, TotalCount: cached.Total}, nil
		}
	}

	courses, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list courses")
	}

	if cacheable {
		if err := s.cache.Set(ctx, cacheKey, cachedCourseList{Courses: courses, Total: total}, 0); err != nil {
			s.logger.Warn("failed to cache course listing", zap.Error(err))
		}
	}

	return courses, &models.Pagination{Page: page, PageSize: pageSize, TotalCount: total}, nil
}

func courseListCacheKey(filter models.CourseFilter, page, pageSize int) string {
	niveau := ""
	if filter.Niveau != nil {
		niveau = string(*filter.Niveau)
	}
	return fmt.Sprintf("%spublished:%s:%s:%s:%s:%s:%d:%d",
		cacheKeyCoursesPrefix, filter.Search, filter.CategoryID, filter.FiliereID, filter.InstructorID, niveau, page, pageSize)
}

// ListMine returns courses owned by the calling instructor.
func (s *CourseService) ListMine(ctx context.Context, filter models.CourseFilter, actor *models.JWTClaims) ([]models.Course, *models.Pagination, error) {
	if actor == nil {
		return nil, nil, appErrors.ErrUnauthorized
	}
	filter.InstructorID = actor.UserID
	return s.List(ctx, filter, nil)
}

// Get returns a single course. Draft and archived courses stay hidden from
// students.
func (s *CourseService) Get(ctx context.Context, id string, actor *models.JWTClaims) (*models.Course, error) {
	course, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	if actor != nil && actor.Role == models.RoleStudent && course.Status != models.CourseStatusPublished {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
	}
	return course, nil
}

// Create adds a course owned by the calling instructor or admin.
func (s *CourseService) Create(ctx context.Context, req dto.CreateCourseRequest, actor *models.JWTClaims) (*models.Course, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course payload")
	}

	if err := s.ensureCategoryExists(ctx, req.CategoryID); err != nil {
		return nil, err
	}
	if req.FiliereID != nil && *req.FiliereID != "" {
		if err := s.ensureFiliereExists(ctx, *req.FiliereID); err != nil {
			return nil, err
		}
	}

	status := models.CourseStatusDraft
	if req.Status != nil {
		status = *req.Status
	}

	course := &models.Course{
		ID:           uuid.NewString(),
		Title:        req.Title,
		CategoryID:   req.CategoryID,
		FiliereID:    req.FiliereID,
		Niveau:       req.Niveau,
		Status:       status,
		VideoURL:     req.VideoURL,
		CoverURL:     req.CoverURL,
		InstructorID: actor.UserID,
	}
	if req.Description != nil {
		course.Description = *req.Description
	}

	if err := s.repo.Create(ctx, course); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create course")
	}

	s.invalidate(ctx)
	return course, nil
}

// Update edits a course. Only the owning instructor or an admin may edit.
func (s *CourseService) Update(ctx context.Context, id string, req dto.UpdateCourseRequest, actor *models.JWTClaims) (*models.Course, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course payload")
	}

	course, err := s.loadOwned(ctx, id, actor)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		course.Title = *req.Title
	}
	if req.Description != nil {
		course.Description = *req.Description
	}
	if req.CategoryID != nil {
		if err := s.ensureCategoryExists(ctx, *req.CategoryID); err != nil {
			return nil, err
		}
		course.CategoryID = *req.CategoryID
	}
	if req.FiliereID != nil {
		if *req.FiliereID != "" {
			if err := s.ensureFiliereExists(ctx, *req.FiliereID); err != nil {
				return nil, err
			}
		}
		course.FiliereID = req.FiliereID
	}
	if req.Niveau != nil {
		course.Niveau = req.Niveau
	}
	if req.VideoURL != nil {
		course.VideoURL = req.VideoURL
	}
	if req.CoverURL != nil {
		course.CoverURL = req.CoverURL
	}

	if err := s.repo.Update(ctx, course); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update course")
	}

	s.invalidate(ctx)
	return course, nil
}

// UpdateStatus moves a course through its lifecycle. Publishing is audited.
func (s *CourseService) UpdateStatus(ctx context.Context, id string, req dto.UpdateCourseStatusRequest, actor *models.JWTClaims) (*models.Course, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid status payload")
	}

	course, err := s.loadOwned(ctx, id, actor)
	if err != nil {
		return nil, err
	}

	previous := course.Status
	if previous == req.Status {
		return course, nil
	}
	if previous == models.CourseStatusArchived && req.Status == models.CourseStatusPublished {
		return nil, appErrors.Clone(appErrors.ErrValidation, "archived courses must return to draft before publishing")
	}

	course.Status = req.Status
	if err := s.repo.Update(ctx, course); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update course status")
	}

	if req.Status == models.CourseStatusPublished {
		s.emitPublishAudit(ctx, actor, course, previous)
	}

	s.invalidate(ctx)
	return course, nil
}

// Delete removes a course. Only the owning instructor or an admin may delete.
func (s *CourseService) Delete(ctx context.Context, id string, actor *models.JWTClaims) error {
	if _, err := s.loadOwned(ctx, id, actor); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete course")
	}
	s.invalidate(ctx)
	return nil
}

func (s *CourseService) loadOwned(ctx context.Context, id string, actor *models.JWTClaims) (*models.Course, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	course, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	if actor.Role == models.RoleInstructor && course.InstructorID != actor.UserID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "course belongs to another instructor")
	}
	if actor.Role == models.RoleStudent {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "students cannot modify courses")
	}
	return course, nil
}

func (s *CourseService) ensureCategoryExists(ctx context.Context, id string) error {
	if s.categories == nil {
		return nil
	}
	if _, err := s.categories.FindByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrValidation, "category not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to verify category")
	}
	return nil
}

func (s *CourseService) ensureFiliereExists(ctx context.Context, id string) error {
	if s.filieres == nil {
		return nil
	}
	if _, err := s.filieres.FindByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrValidation, "filiere not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to verify filiere")
	}
	return nil
}

func (s *CourseService) emitPublishAudit(ctx context.Context, actor *models.JWTClaims, course *models.Course, previous models.CourseStatus) {
	if s.audit == nil {
		return
	}
	oldBytes, _ := json.Marshal(map[string]string{"status": string(previous)})
	newBytes, _ := json.Marshal(map[string]string{"status": string(course.Status)})
	var actorID *string
	if actor != nil && actor.UserID != "" {
		actorID = &actor.UserID
	}
	log := &models.AuditLog{
		UserID:     actorID,
		Action:     models.AuditActionCoursePublish,
		Resource:   "course",
		ResourceID: &course.ID,
		OldValues:  oldBytes,
		NewValues:  newBytes,
		IPAddress:  "system",
		UserAgent:  "course-service",
	}
	if err := s.audit.CreateAuditLog(ctx, log); err != nil {
		s.logger.Warn("failed to record course publish audit", zap.Error(err))
	}
}

func (s *CourseService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	s.cache.InvalidateCourses(ctx)
}
