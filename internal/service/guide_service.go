package service

import (
	"context"
	"database/sql"
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

type guideRepository interface {
	FindByID(ctx context.Context, id string) (*models.Guide, error)
	List(ctx context.Context, filter models.ContentFilter) ([]models.Guide, int, error)
	Create(ctx context.Context, guide *models.Guide) error
	Update(ctx context.Context, guide *models.Guide) error
	Delete(ctx context.Context, id string) error
}

type contentCache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	InvalidateContent(ctx context.Context)
}

type cachedGuideList struct {
	Guides []models.Guide `json:"guides"`
	Total  int            `json:"total"`
}

// GuideService manages help articles shown to students.
type GuideService struct {
	repo      guideRepository
	cache     contentCache
	validator *validator.Validate
	logger    *zap.Logger
}

// NewGuideService constructs a GuideService.
func NewGuideService(repo guideRepository, cache contentCache, validate *validator.Validate, logger *zap.Logger) *GuideService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GuideService{repo: repo, cache: cache, validator: validate, logger: logger}
}

// List returns guides. Students only receive published entries.
func (s *GuideService) List(ctx context.Context, filter models.ContentFilter, actor *models.JWTClaims) ([]models.Guide, *models.Pagination, error) {
	if actor == nil || actor.Role == models.RoleStudent {
		filter.PublishedOnly = true
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}

	cacheable := s.cache != nil && filter.PublishedOnly
	cacheKey := fmt.Sprintf("%sguides:%s:%d:%d", cacheKeyContentPrefix, filter.Search, page, pageSize)
	if cacheable {
		var cached cachedGuideList
		if hit, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
			return cached.Guides, &models.Pagination{Page: page, PageSize: pageSize, TotalCount: cached.Total}, nil
		}
	}

	guides, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list guides")
	}

	if cacheable {
		if err := s.cache.Set(ctx, cacheKey, cachedGuideList{Guides: guides, Total: total}, 0); err != nil {
			s.logger.Warn("failed to cache guide listing", zap.Error(err))
		}
	}

	return guides, &models.Pagination{Page: page, PageSize: pageSize, TotalCount: total}, nil
}

// Get returns one guide, hiding drafts from students.
func (s *GuideService) Get(ctx context.Context, id string, actor *models.JWTClaims) (*models.Guide, error) {
	guide, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "guide not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load guide")
	}
	if (actor == nil || actor.Role == models.RoleStudent) && guide.Status != models.PublicationStatusPublished {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "guide not found")
	}
	return guide, nil
}

// Create adds a guide. A title alone is enough; new guides default to
// published so a quick note goes live immediately.
func (s *GuideService) Create(ctx context.Context, req dto.CreateGuideRequest, actor *models.JWTClaims) (*models.Guide, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid guide payload")
	}

	status := models.PublicationStatusPublished
	if req.Status != nil {
		status = *req.Status
	}
	position := 0
	if req.Position != nil {
		position = *req.Position
	}

	guide := &models.Guide{
		ID:        uuid.NewString(),
		Title:     req.Title,
		Content:   req.Content,
		Status:    status,
		Position:  position,
		CreatedBy: actor.UserID,
	}
	if err := s.repo.Create(ctx, guide); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create guide")
	}

	s.invalidate(ctx)
	return guide, nil
}

// Update edits a guide.
func (s *GuideService) Update(ctx context.Context, id string, req dto.UpdateGuideRequest, actor *models.JWTClaims) (*models.Guide, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid guide payload")
	}

	guide, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "guide not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load guide")
	}

	if req.Title != nil {
		guide.Title = *req.Title
	}
	if req.Content != nil {
		guide.Content = req.Content
	}
	if req.Status != nil {
		guide.Status = *req.Status
	}
	if req.Position != nil {
		guide.Position = *req.Position
	}

	if err := s.repo.Update(ctx, guide); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update guide")
	}

	s.invalidate(ctx)
	return guide, nil
}

// Delete removes a guide.
func (s *GuideService) Delete(ctx context.Context, id string, actor *models.JWTClaims) error {
	if actor == nil {
		return appErrors.ErrUnauthorized
	}
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "guide not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load guide")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete guide")
	}
	s.invalidate(ctx)
	return nil
}

func (s *GuideService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	s.cache.InvalidateContent(ctx)
}
