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

type subscriptionRepository interface {
	FindByID(ctx context.Context, id string) (*models.Subscription, error)
	FindActiveForStudent(ctx context.Context, studentID, academicYear string) (*models.Subscription, error)
	List(ctx context.Context, filter models.SubscriptionFilter) ([]models.Subscription, int, error)
	Create(ctx context.Context, sub *models.Subscription) error
	UpdateStatus(ctx context.Context, id string, status models.SubscriptionStatus) error
}

// SubscriptionService manages student enrollment requests.
type SubscriptionService struct {
	repo      subscriptionRepository
	filieres  courseFiliereReader
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSubscriptionService constructs a SubscriptionService.
func NewSubscriptionService(repo subscriptionRepository, filieres courseFiliereReader, validate *validator.Validate, logger *zap.Logger) *SubscriptionService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SubscriptionService{repo: repo, filieres: filieres, validator: validate, logger: logger}
}

// List returns subscriptions. Students only see their own; institute admins
// only see enrollments into their institute's tracks.
func (s *SubscriptionService) List(ctx context.Context, filter models.SubscriptionFilter, actor *models.JWTClaims) ([]models.Subscription, *models.Pagination, error) {
	if actor == nil {
		return nil, nil, appErrors.ErrUnauthorized
	}
	if actor.Role == models.RoleStudent {
		filter.StudentID = actor.UserID
	}

	subs, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list subscriptions")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}

	return subs, &models.Pagination{Page: page, PageSize: pageSize, TotalCount: total}, nil
}

// Get returns one subscription visible to the actor.
func (s *SubscriptionService) Get(ctx context.Context, id string, actor *models.JWTClaims) (*models.Subscription, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	sub, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "subscription not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subscription")
	}
	if actor.Role == models.RoleStudent && sub.StudentID != actor.UserID {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "subscription not found")
	}
	return sub, nil
}

// Create registers a pending enrollment for the calling student. A student
// can hold at most one non-cancelled enrollment per academic year.
func (s *SubscriptionService) Create(ctx context.Context, req dto.CreateSubscriptionRequest, actor *models.JWTClaims) (*models.Subscription, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid subscription payload")
	}

	if s.filieres != nil {
		if _, err := s.filieres.FindByID(ctx, req.FiliereID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.Clone(appErrors.ErrValidation, "filiere not found")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to verify filiere")
		}
	}

	if _, err := s.repo.FindActiveForStudent(ctx, actor.UserID, req.AcademicYear); err == nil {
		return nil, appErrors.Clone(appErrors.ErrConflict, "an enrollment already exists for this academic year")
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check existing enrollment")
	}

	sub := &models.Subscription{
		ID:           uuid.NewString(),
		StudentID:    actor.UserID,
		FiliereID:    req.FiliereID,
		Niveau:       req.Niveau,
		AcademicYear: req.AcademicYear,
		Status:       models.SubscriptionStatusPending,
	}
	if err := s.repo.Create(ctx, sub); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create subscription")
	}
	return sub, nil
}

// UpdateStatus moves an enrollment through its lifecycle. Only admins can
// activate; students may cancel their own pending request.
func (s *SubscriptionService) UpdateStatus(ctx context.Context, id string, req dto.UpdateSubscriptionStatusRequest, actor *models.JWTClaims) (*models.Subscription, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid status payload")
	}

	sub, err := s.Get(ctx, id, actor)
	if err != nil {
		return nil, err
	}

	if actor.Role == models.RoleStudent {
		if req.Status != models.SubscriptionStatusCancelled || sub.Status != models.SubscriptionStatusPending {
			return nil, appErrors.Clone(appErrors.ErrForbidden, "students may only cancel a pending enrollment")
		}
	}
	if sub.Status == models.SubscriptionStatusCancelled {
		return nil, appErrors.Clone(appErrors.ErrValidation, "cancelled enrollments cannot change state")
	}

	if err := s.repo.UpdateStatus(ctx, id, req.Status); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update subscription status")
	}

	sub.Status = req.Status
	return sub, nil
}
