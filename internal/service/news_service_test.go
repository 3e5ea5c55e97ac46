package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ucao-academy/web-academy-api/internal/models"
	appErrors "github.com/ucao-academy/web-academy-api/pkg/errors"
)

type newsRepoStub struct {
	newsByID   map[string]*models.News
	listFilter models.NewsFilter
	listResult []models.News
	listCalls  int
}

func (s *newsRepoStub) FindByID(ctx context.Context, id string) (*models.News, error) {
	if item, ok := s.newsByID[id]; ok {
		copied := *item
		return &copied, nil
	}
	return nil, sql.ErrNoRows
}

func (s *newsRepoStub) List(ctx context.Context, filter models.NewsFilter) ([]models.News, int, error) {
	s.listFilter = filter
	s.listCalls++
	return s.listResult, len(s.listResult), nil
}

func (s *newsRepoStub) Create(ctx context.Context, item *models.News) error { return nil }

func (s *newsRepoStub) Update(ctx context.Context, item *models.News) error { return nil }

func (s *newsRepoStub) Delete(ctx context.Context, id string) error { return nil }

func TestNewsServiceListForcesPublishedForStudents(t *testing.T) {
	repo := &newsRepoStub{}
	service := NewNewsService(repo, nil, validator.New(), nil)

	_, _, err := service.List(context.Background(), models.NewsFilter{}, studentClaims())
	require.NoError(t, err)
	assert.True(t, repo.listFilter.PublishedOnly)
}

func TestNewsServiceListCachesPublishedListings(t *testing.T) {
	repo := &newsRepoStub{listResult: []models.News{
		{ID: "n-1", Title: "Rentrée académique", Published: true, AuthorID: "admin-1"},
	}}
	cache := &contentCacheStub{}
	service := NewNewsService(repo, cache, validator.New(), nil)

	items, _, err := service.List(context.Background(), models.NewsFilter{}, studentClaims())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 1, repo.listCalls)
	assert.Equal(t, 1, cache.sets)

	items, pagination, err := service.List(context.Background(), models.NewsFilter{}, studentClaims())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 1, pagination.TotalCount)
	assert.Equal(t, 1, repo.listCalls)
	assert.Equal(t, 1, cache.hits)
}

func TestNewsServiceGetHidesUnpublishedFromStudents(t *testing.T) {
	repo := &newsRepoStub{newsByID: map[string]*models.News{
		"n-1": {ID: "n-1", Title: "Brouillon", Published: false, AuthorID: "admin-1"},
	}}
	service := NewNewsService(repo, nil, validator.New(), nil)

	_, err := service.Get(context.Background(), "n-1", studentClaims())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
