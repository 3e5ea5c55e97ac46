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

type filiereRepository interface {
	FindByID(ctx context.Context, id string) (*models.Filiere, error)
	List(ctx context.Context, institute *models.Institute, search string) ([]models.Filiere, error)
	Create(ctx context.Context, filiere *models.Filiere) error
	Update(ctx context.Context, filiere *models.Filiere) error
	Delete(ctx context.Context, id string) error
}

// FiliereService manages academic tracks.
type FiliereService struct {
	repo      filiereRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewFiliereService constructs a FiliereService.
func NewFiliereService(repo filiereRepository, validate *validator.Validate, logger *zap.Logger) *FiliereService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FiliereService{repo: repo, validator: validate, logger: logger}
}

// List returns filières scoped to the actor. Institute admins only see their
// own institute's tracks.
func (s *FiliereService) List(ctx context.Context, institute *models.Institute, search string, actor *models.JWTClaims) ([]models.Filiere, error) {
	if actor != nil && actor.Role == models.RoleAdmin && !actor.IsSuperAdmin() {
		institute = actor.Institute
	}
	filieres, err := s.repo.List(ctx, institute, search)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list filieres")
	}
	return filieres, nil
}

// Get returns one filière.
func (s *FiliereService) Get(ctx context.Context, id string) (*models.Filiere, error) {
	filiere, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "filiere not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load filiere")
	}
	return filiere, nil
}

// Create adds a filière. Institute admins can only create tracks in their
// own institute.
func (s *FiliereService) Create(ctx context.Context, req dto.CreateFiliereRequest, actor *models.JWTClaims) (*models.Filiere, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid filiere payload")
	}
	if !models.ValidInstitute(req.Institute) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown institute")
	}
	if !actor.IsSuperAdmin() {
		if actor.Institute == nil || *actor.Institute != req.Institute {
			return nil, appErrors.Clone(appErrors.ErrForbidden, "filiere belongs to another institute")
		}
	}

	filiere := &models.Filiere{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Institute:   req.Institute,
		Description: req.Description,
	}
	if err := s.repo.Create(ctx, filiere); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create filiere")
	}
	return filiere, nil
}

// Update edits a filière within the actor's scope.
func (s *FiliereService) Update(ctx context.Context, id string, req dto.UpdateFiliereRequest, actor *models.JWTClaims) (*models.Filiere, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid filiere payload")
	}

	filiere, err := s.loadScoped(ctx, id, actor)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		filiere.Name = *req.Name
	}
	if req.Institute != nil {
		if !models.ValidInstitute(*req.Institute) {
			return nil, appErrors.Clone(appErrors.ErrValidation, "unknown institute")
		}
		if !actor.IsSuperAdmin() {
			return nil, appErrors.Clone(appErrors.ErrForbidden, "only super admins can move a filiere between institutes")
		}
		filiere.Institute = *req.Institute
	}
	if req.Description != nil {
		filiere.Description = req.Description
	}

	if err := s.repo.Update(ctx, filiere); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update filiere")
	}
	return filiere, nil
}

// Delete removes a filière within the actor's scope.
func (s *FiliereService) Delete(ctx context.Context, id string, actor *models.JWTClaims) error {
	if _, err := s.loadScoped(ctx, id, actor); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete filiere")
	}
	return nil
}

func (s *FiliereService) loadScoped(ctx context.Context, id string, actor *models.JWTClaims) (*models.Filiere, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	filiere, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsSuperAdmin() {
		if actor.Institute == nil || *actor.Institute != filiere.Institute {
			return nil, appErrors.Clone(appErrors.ErrForbidden, "filiere belongs to another institute")
		}
	}
	return filiere, nil
}
