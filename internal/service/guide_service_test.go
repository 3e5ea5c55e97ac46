package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ucao-academy/web-academy-api/internal/dto"
	"github.com/ucao-academy/web-academy-api/internal/models"
	appErrors "github.com/ucao-academy/web-academy-api/pkg/errors"
)

type guideRepoStub struct {
	guidesByID map[string]*models.Guide
	listFilter models.ContentFilter
	listResult []models.Guide
	listCalls  int
	created    []*models.Guide
	deletedIDs []string
}

func (s *guideRepoStub) FindByID(ctx context.Context, id string) (*models.Guide, error) {
	if guide, ok := s.guidesByID[id]; ok {
		copied := *guide
		return &copied, nil
	}
	return nil, sql.ErrNoRows
}

func (s *guideRepoStub) List(ctx context.Context, filter models.ContentFilter) ([]models.Guide, int, error) {
	s.listFilter = filter
	s.listCalls++
	return s.listResult, len(s.listResult), nil
}

func (s *guideRepoStub) Create(ctx context.Context, guide *models.Guide) error {
	s.created = append(s.created, guide)
	return nil
}

func (s *guideRepoStub) Update(ctx context.Context, guide *models.Guide) error {
	copied := *guide
	s.guidesByID[guide.ID] = &copied
	return nil
}

func (s *guideRepoStub) Delete(ctx context.Context, id string) error {
	s.deletedIDs = append(s.deletedIDs, id)
	return nil
}

type contentCacheStub struct {
	store         map[string]interface{}
	sets          int
	hits          int
	invalidations int
}

func (s *contentCacheStub) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	value, ok := s.store[key]
	if !ok {
		return false, nil
	}
	switch out := dest.(type) {
	case *cachedGuideList:
		cached, castable := value.(cachedGuideList)
		if !castable {
			return false, nil
		}
		*out = cached
	case *cachedNewsList:
		cached, castable := value.(cachedNewsList)
		if !castable {
			return false, nil
		}
		*out = cached
	default:
		return false, nil
	}
	s.hits++
	return true, nil
}

func (s *contentCacheStub) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if s.store == nil {
		s.store = make(map[string]interface{})
	}
	s.store[key] = value
	s.sets++
	return nil
}

func (s *contentCacheStub) InvalidateContent(ctx context.Context) {
	s.invalidations++
}

func TestGuideServiceListForcesPublishedForAnonymous(t *testing.T) {
	repo := &guideRepoStub{}
	service := NewGuideService(repo, nil, validator.New(), nil)

	_, _, err := service.List(context.Background(), models.ContentFilter{}, nil)
	require.NoError(t, err)
	assert.True(t, repo.listFilter.PublishedOnly)
}

func TestGuideServiceListForcesPublishedForStudents(t *testing.T) {
	repo := &guideRepoStub{}
	service := NewGuideService(repo, nil, validator.New(), nil)

	_, _, err := service.List(context.Background(), models.ContentFilter{}, studentClaims())
	require.NoError(t, err)
	assert.True(t, repo.listFilter.PublishedOnly)
}

func TestGuideServiceListShowsDraftsToAdmins(t *testing.T) {
	repo := &guideRepoStub{}
	service := NewGuideService(repo, nil, validator.New(), nil)

	_, _, err := service.List(context.Background(), models.ContentFilter{}, superAdminClaims())
	require.NoError(t, err)
	assert.False(t, repo.listFilter.PublishedOnly)
}

func TestGuideServiceListCachesPublishedListings(t *testing.T) {
	repo := &guideRepoStub{listResult: []models.Guide{
		{ID: "g-1", Title: "Guide d'inscription", Status: models.PublicationStatusPublished},
	}}
	cache := &contentCacheStub{}
	service := NewGuideService(repo, cache, validator.New(), nil)

	guides, _, err := service.List(context.Background(), models.ContentFilter{}, nil)
	require.NoError(t, err)
	require.Len(t, guides, 1)
	assert.Equal(t, 1, repo.listCalls)
	assert.Equal(t, 1, cache.sets)

	guides, pagination, err := service.List(context.Background(), models.ContentFilter{}, nil)
	require.NoError(t, err)
	require.Len(t, guides, 1)
	assert.Equal(t, 1, pagination.TotalCount)
	assert.Equal(t, 1, repo.listCalls)
	assert.Equal(t, 1, cache.hits)
}

func TestGuideServiceGetHidesDraftFromAnonymous(t *testing.T) {
	repo := &guideRepoStub{guidesByID: map[string]*models.Guide{
		"g-1": {ID: "g-1", Title: "Brouillon", Status: models.PublicationStatusDraft},
	}}
	service := NewGuideService(repo, nil, validator.New(), nil)

	_, err := service.Get(context.Background(), "g-1", nil)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestGuideServiceCreateDefaultsToPublished(t *testing.T) {
	repo := &guideRepoStub{}
	cache := &contentCacheStub{}
	service := NewGuideService(repo, cache, validator.New(), nil)

	guide, err := service.Create(context.Background(), dto.CreateGuideRequest{
		Title: "Guide d'inscription",
	}, superAdminClaims())
	require.NoError(t, err)
	assert.Equal(t, models.PublicationStatusPublished, guide.Status)
	assert.Equal(t, "admin-1", guide.CreatedBy)
	assert.NotEmpty(t, guide.ID)
	assert.Equal(t, 1, cache.invalidations)
}

func TestGuideServiceCreateRequiresTitle(t *testing.T) {
	service := NewGuideService(&guideRepoStub{}, nil, validator.New(), nil)

	_, err := service.Create(context.Background(), dto.CreateGuideRequest{}, superAdminClaims())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestGuideServiceUpdateChangesStatus(t *testing.T) {
	repo := &guideRepoStub{guidesByID: map[string]*models.Guide{
		"g-1": {ID: "g-1", Title: "Guide des bourses", Status: models.PublicationStatusPublished},
	}}
	service := NewGuideService(repo, nil, validator.New(), nil)

	draft := models.PublicationStatusDraft
	guide, err := service.Update(context.Background(), "g-1", dto.UpdateGuideRequest{Status: &draft}, superAdminClaims())
	require.NoError(t, err)
	assert.Equal(t, models.PublicationStatusDraft, guide.Status)
	assert.Equal(t, "Guide des bourses", guide.Title)
}

func TestGuideServiceDeleteUnknownGuide(t *testing.T) {
	service := NewGuideService(&guideRepoStub{}, nil, validator.New(), nil)

	err := service.Delete(context.Background(), "g-missing", superAdminClaims())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
