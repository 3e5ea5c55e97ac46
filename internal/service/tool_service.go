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

type toolRepository interface {
	FindByID(ctx context.Context, id string) (*models.Tool, error)
	List(ctx context.Context, filter models.ContentFilter) ([]models.Tool, int, error)
	Create(ctx context.Context, tool *models.Tool) error
	Update(ctx context.Context, tool *models.Tool) error
	Delete(ctx context.Context, id string) error
}

// ToolService manages external resources linked from the dashboard.
type ToolService struct {
	repo      toolRepository
	cache     contentCache
	validator *validator.Validate
	logger    *zap.Logger
}

// NewToolService constructs a ToolService.
func NewToolService(repo toolRepository, cache contentCache, validate *validator.Validate, logger *zap.Logger) *ToolService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ToolService{repo: repo, cache: cache, validator: validate, logger: logger}
}

// List returns tools. Students only receive published entries.
func (s *ToolService) List(ctx context.Context, filter models.ContentFilter, actor *models.JWTClaims) ([]models.Tool, *models.Pagination, error) {
	if actor == nil || actor.Role == models.RoleStudent {
		filter.PublishedOnly = true
	}

	tools, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list tools")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}

	return tools, &models.Pagination{Page: page, PageSize: pageSize, TotalCount: total}, nil
}

// Get returns one tool, hiding drafts from students.
func (s *ToolService) Get(ctx context.Context, id string, actor *models.JWTClaims) (*models.Tool, error) {
	tool, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "tool not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load tool")
	}
	if (actor == nil || actor.Role == models.RoleStudent) && tool.Status != models.PublicationStatusPublished {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "tool not found")
	}
	return tool, nil
}

// Create adds a tool. New tools default to published.
func (s *ToolService) Create(ctx context.Context, req dto.CreateToolRequest, actor *models.JWTClaims) (*models.Tool, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid tool payload")
	}

	status := models.PublicationStatusPublished
	if req.Status != nil {
		status = *req.Status
	}
	position := 0
	if req.Position != nil {
		position = *req.Position
	}

	tool := &models.Tool{
		ID:          uuid.NewString(),
		Title:       req.Title,
		URL:         req.URL,
		Description: req.Description,
		Status:      status,
		Position:    position,
		CreatedBy:   actor.UserID,
	}
	if err := s.repo.Create(ctx, tool); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create tool")
	}

	s.invalidate(ctx)
	return tool, nil
}

// Update edits a tool.
func (s *ToolService) Update(ctx context.Context, id string, req dto.UpdateToolRequest, actor *models.JWTClaims) (*models.Tool, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid tool payload")
	}

	tool, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "tool not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load tool")
	}

	if req.Title != nil {
		tool.Title = *req.Title
	}
	if req.URL != nil {
		tool.URL = *req.URL
	}
	if req.Description != nil {
		tool.Description = req.Description
	}
	if req.Status != nil {
		tool.Status = *req.Status
	}
	if req.Position != nil {
		tool.Position = *req.Position
	}

	if err := s.repo.Update(ctx, tool); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update tool")
	}

	s.invalidate(ctx)
	return tool, nil
}

// Delete removes a tool.
func (s *ToolService) Delete(ctx context.Context, id string, actor *models.JWTClaims) error {
	if actor == nil {
		return appErrors.ErrUnauthorized
	}
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "tool not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load tool")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete tool")
	}
	s.invalidate(ctx)
	return nil
}

func (s *ToolService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	s.cache.InvalidateContent(ctx)
}
