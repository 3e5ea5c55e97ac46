package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ucao-academy/web-academy-api/internal/dto"
	"github.com/ucao-academy/web-academy-api/internal/models"
	appErrors "github.com/ucao-academy/web-academy-api/pkg/errors"
)

type scheduleRepository interface {
	FindByID(ctx context.Context, id string) (*models.ScheduleEntry, error)
	List(ctx context.Context, filter models.ScheduleFilter) ([]models.ScheduleEntry, int, error)
	Create(ctx context.Context, entry *models.ScheduleEntry) error
	Update(ctx context.Context, entry *models.ScheduleEntry) error
	Delete(ctx context.Context, id string) error
}

// ScheduleService manages the weekly timetable per filière and level.
type ScheduleService struct {
	repo      scheduleRepository
	courses   courseCategoryReaderForSchedule
	filieres  courseFiliereReader
	validator *validator.Validate
	logger    *zap.Logger
}

type courseCategoryReaderForSchedule interface {
	FindByID(ctx context.Context, id string) (*models.Course, error)
}

// NewScheduleService constructs a ScheduleService.
func NewScheduleService(repo scheduleRepository, courses courseCategoryReaderForSchedule, filieres courseFiliereReader, validate *validator.Validate, logger *zap.Logger) *ScheduleService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleService{repo: repo, courses: courses, filieres: filieres, validator: validate, logger: logger}
}

// List returns timetable entries for a track and level.
func (s *ScheduleService) List(ctx context.Context, filter models.ScheduleFilter) ([]models.ScheduleEntry, *models.Pagination, error) {
	entries, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list schedule entries")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 50
	}

	return entries, &models.Pagination{Page: page, PageSize: pageSize, TotalCount: total}, nil
}

// Get returns one timetable entry.
func (s *ScheduleService) Get(ctx context.Context, id string) (*models.ScheduleEntry, error) {
	entry, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "schedule entry not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule entry")
	}
	return entry, nil
}

// Create adds a timetable entry after validating the time slot.
func (s *ScheduleService) Create(ctx context.Context, req dto.CreateScheduleEntryRequest) (*models.ScheduleEntry, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid schedule payload")
	}
	if err := validateTimeRange(req.StartTime, req.EndTime); err != nil {
		return nil, err
	}
	if err := s.ensureCourseExists(ctx, req.CourseID); err != nil {
		return nil, err
	}
	if err := s.ensureFiliereExists(ctx, req.FiliereID); err != nil {
		return nil, err
	}

	entry := &models.ScheduleEntry{
		ID:        uuid.NewString(),
		FiliereID: req.FiliereID,
		Niveau:    req.Niveau,
		DayOfWeek: req.DayOfWeek,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		CourseID:  req.CourseID,
		Room:      req.Room,
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create schedule entry")
	}
	return entry, nil
}

// Update edits a timetable entry.
func (s *ScheduleService) Update(ctx context.Context, id string, req dto.UpdateScheduleEntryRequest) (*models.ScheduleEntry, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid schedule payload")
	}

	entry, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.FiliereID != nil {
		if err := s.ensureFiliereExists(ctx, *req.FiliereID); err != nil {
			return nil, err
		}
		entry.FiliereID = *req.FiliereID
	}
	if req.Niveau != nil {
		entry.Niveau = *req.Niveau
	}
	if req.DayOfWeek != nil {
		entry.DayOfWeek = *req.DayOfWeek
	}
	if req.StartTime != nil {
		entry.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		entry.EndTime = *req.EndTime
	}
	if req.CourseID != nil {
		if err := s.ensureCourseExists(ctx, *req.CourseID); err != nil {
			return nil, err
		}
		entry.CourseID = *req.CourseID
	}
	if req.Room != nil {
		entry.Room = *req.Room
	}

	if err := validateTimeRange(entry.StartTime, entry.EndTime); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, entry); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update schedule entry")
	}
	return entry, nil
}

// Delete removes a timetable entry.
func (s *ScheduleService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete schedule entry")
	}
	return nil
}

func (s *ScheduleService) ensureCourseExists(ctx context.Context, id string) error {
	if s.courses == nil {
		return nil
	}
	if _, err := s.courses.FindByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrValidation, "course not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to verify course")
	}
	return nil
}

func (s *ScheduleService) ensureFiliereExists(ctx context.Context, id string) error {
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

// validateTimeRange checks HH:MM formatting and slot ordering.
func validateTimeRange(start, end string) error {
	startAt, err := time.Parse("15:04", start)
	if err != nil {
		return appErrors.Clone(appErrors.ErrValidation, "start_time must use HH:MM")
	}
	endAt, err := time.Parse("15:04", end)
	if err != nil {
		return appErrors.Clone(appErrors.ErrValidation, "end_time must use HH:MM")
	}
	if !endAt.After(startAt) {
		return appErrors.Clone(appErrors.ErrValidation, "end_time must be after start_time")
	}
	return nil
}
