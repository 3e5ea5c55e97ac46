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

type newsRepository interface {
	FindByID(ctx context.Context, id string) (*models.News, error)
	List(ctx context.Context, filter models.NewsFilter) ([]models.News, int, error)
	Create(ctx context.Context, item *models.News) error
	Update(ctx context.Context, item *models.News) error
	Delete(ctx context.Context, id string) error
}

type cachedNewsList struct {
	Items []models.News `json:"items"`
	Total int           `json:"total"`
}

// NewsService manages platform announcements.
type NewsService struct {
	repo      newsRepository
	cache     contentCache
	validator *validator.Validate
	logger    *zap.Logger
}

// NewNewsService constructs a NewsService.
func NewNewsService(repo newsRepository, cache contentCache, validate *validator.Validate, logger *zap.Logger) *NewsService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NewsService{repo: repo, cache: cache, validator: validate, logger: logger}
}

// List returns announcements. Students only receive published entries.
func (s *NewsService) List(ctx context.Context, filter models.NewsFilter, actor *models.JWTClaims) ([]models.News, *models.Pagination, error) {
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
	cacheKey := fmt.Sprintf("%snews:%s:%d:%d", cacheKeyContentPrefix, filter.Search, page, pageSize)
	if cacheable {
		var cached cachedNewsList
		if hit, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
			return cached.Items, &models.Pagination{Page: page, PageSize: pageSize, TotalCount: cached.Total}, nil
		}
	}

	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list news")
	}

	if cacheable {
		if err := s.cache.Set(ctx, cacheKey, cachedNewsList{Items: items, Total: total}, 0); err != nil {
			s.logger.Warn("failed to cache news listing", zap.Error(err))
		}
	}

	return items, &models.Pagination{Page: page, PageSize: pageSize, TotalCount: total}, nil
}

// Get returns one announcement, hiding unpublished entries from students.
func (s *NewsService) Get(ctx context.Context, id string, actor *models.JWTClaims) (*models.News, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "news not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load news")
	}
	if (actor == nil || actor.Role == models.RoleStudent) && !item.Published {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "news not found")
	}
	return item, nil
}

// Create adds an announcement authored by the actor.
func (s *NewsService) Create(ctx context.Context, req dto.CreateNewsRequest, actor *models.JWTClaims) (*models.News, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid news payload")
	}

	item := &models.News{
		ID:       uuid.NewString(),
		Title:    req.Title,
		Body:     req.Body,
		ImageURL: req.ImageURL,
		AuthorID: actor.UserID,
	}
	if req.Published != nil && *req.Published {
		item.Published = true
		now := time.Now().UTC()
		item.PublishedAt = &now
	}

	if err := s.repo.Create(ctx, item); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create news")
	}

	s.invalidate(ctx)
	return item, nil
}

// Update edits an announcement. Publishing stamps published_at once.
func (s *NewsService) Update(ctx context.Context, id string, req dto.UpdateNewsRequest, actor *models.JWTClaims) (*models.News, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid news payload")
	}

	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "news not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load news")
	}

	if req.Title != nil {
		item.Title = *req.Title
	}
	if req.Body != nil {
		item.Body = *req.Body
	}
	if req.ImageURL != nil {
		item.ImageURL = req.ImageURL
	}
	if req.Published != nil {
		item.Published = *req.Published
		if item.Published && item.PublishedAt == nil {
			now := time.Now().UTC()
			item.PublishedAt = &now
		}
	}

	if err := s.repo.Update(ctx, item); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update news")
	}

	s.invalidate(ctx)
	return item, nil
}

// Delete removes an announcement.
func (s *NewsService) Delete(ctx context.Context, id string, actor *models.JWTClaims) error {
	if actor == nil {
		return appErrors.ErrUnauthorized
	}
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "news not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load news")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete news")
	}
	s.invalidate(ctx)
	return nil
}

func (s *NewsService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	s.cache.InvalidateContent(ctx)
}
