package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ucao-academy/web-academy-api/internal/dto"
	"github.com/ucao-academy/web-academy-api/internal/models"
	appErrors "github.com/ucao-academy/web-academy-api/pkg/errors"
)

type examRepository interface {
	FindByID(ctx context.Context, id string) (*models.Exam, error)
	List(ctx context.Context, filter models.ExamFilter) ([]models.Exam, int, error)
	Create(ctx context.Context, exam *models.Exam) error
	Update(ctx context.Context, exam *models.Exam) error
	Delete(ctx context.Context, id string) error
}

// ExamService manages exam sessions.
type ExamService struct {
	repo      examRepository
	courses   courseCategoryReaderForSchedule
	filieres  courseFiliereReader
	validator *validator.Validate
	logger    *zap.Logger
}

// NewExamService constructs an ExamService.
func NewExamService(repo examRepository, courses courseCategoryReaderForSchedule, filieres courseFiliereReader, validate *validator.Validate, logger *zap.Logger) *ExamService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExamService{repo: repo, courses: courses, filieres: filieres, validator: validate, logger: logger}
}

// List returns exams matching the filter.
func (s *ExamService) List(ctx context.Context, filter models.ExamFilter) ([]models.Exam, *models.Pagination, error) {
	exams, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list exams")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 50
	}

	return exams, &models.Pagination{Page: page, PageSize: pageSize, TotalCount: total}, nil
}

// Get returns one exam.
func (s *ExamService) Get(ctx context.Context, id string) (*models.Exam, error) {
	exam, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "exam not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load exam")
	}
	return exam, nil
}

// Create schedules an exam.
func (s *ExamService) Create(ctx context.Context, req dto.CreateExamRequest) (*models.Exam, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid exam payload")
	}
	if err := s.ensureCourseExists(ctx, req.CourseID); err != nil {
		return nil, err
	}
	if err := s.ensureFiliereExists(ctx, req.FiliereID); err != nil {
		return nil, err
	}

	exam := &models.Exam{
		ID:              uuid.NewString(),
		CourseID:        req.CourseID,
		FiliereID:       req.FiliereID,
		Niveau:          req.Niveau,
		Date:            req.Date,
		DurationMinutes: req.DurationMinutes,
		Room:            req.Room,
		Semester:        req.Semester,
	}
	if err := s.repo.Create(ctx, exam); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create exam")
	}
	return exam, nil
}

// Update edits an exam.
func (s *ExamService) Update(ctx context.Context, id string, req dto.UpdateExamRequest) (*models.Exam, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid exam payload")
	}

	exam, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.CourseID != nil {
		if err := s.ensureCourseExists(ctx, *req.CourseID); err != nil {
			return nil, err
		}
		exam.CourseID = *req.CourseID
	}
	if req.FiliereID != nil {
		if err := s.ensureFiliereExists(ctx, *req.FiliereID); err != nil {
			return nil, err
		}
		exam.FiliereID = *req.FiliereID
	}
	if req.Niveau != nil {
		exam.Niveau = *req.Niveau
	}
	if req.Date != nil {
		exam.Date = *req.Date
	}
	if req.DurationMinutes != nil {
		exam.DurationMinutes = *req.DurationMinutes
	}
	if req.Room != nil {
		exam.Room = *req.Room
	}
	if req.Semester != nil {
		exam.Semester = *req.Semester
	}

	if err := s.repo.Update(ctx, exam); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update exam")
	}
	return exam, nil
}

// Delete removes an exam.
func (s *ExamService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete exam")
	}
	return nil
}

func (s *ExamService) ensureCourseExists(ctx context.Context, id string) error {
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

func (s *ExamService) ensureFiliereExists(ctx context.Context, id string) error {
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
