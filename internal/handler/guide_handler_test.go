package handler

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ucao-academy/web-academy-api/internal/dto"
	"github.com/ucao-academy/web-academy-api/internal/models"
	"github.com/ucao-academy/web-academy-api/internal/service"
)

type guideRepoFake struct {
	guides     map[string]*models.Guide
	listFilter models.ContentFilter
}

func (f *guideRepoFake) FindByID(ctx context.Context, id string) (*models.Guide, error) {
	if guide, ok := f.guides[id]; ok {
		copied := *guide
		return &copied, nil
	}
	return nil, sql.ErrNoRows
}

func (f *guideRepoFake) List(ctx context.Context, filter models.ContentFilter) ([]models.Guide, int, error) {
	f.listFilter = filter
	result := []models.Guide{}
	for _, guide := range f.guides {
		if filter.PublishedOnly && guide.Status != models.PublicationStatusPublished {
			continue
		}
		result = append(result, *guide)
	}
	return result, len(result), nil
}

func (f *guideRepoFake) Create(ctx context.Context, guide *models.Guide) error {
	if f.guides == nil {
		f.guides = make(map[string]*models.Guide)
	}
	copied := *guide
	f.guides[guide.ID] = &copied
	return nil
}

func (f *guideRepoFake) Update(ctx context.Context, guide *models.Guide) error {
	copied := *guide
	f.guides[guide.ID] = &copied
	return nil
}

func (f *guideRepoFake) Delete(ctx context.Context, id string) error {
	delete(f.guides, id)
	return nil
}

func newGuideHandler(repo *guideRepoFake) *GuideHandler {
	return NewGuideHandler(service.NewGuideService(repo, nil, nil, nil))
}

func TestGuideHandlerListAnonymousSeesPublishedOnly(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := &guideRepoFake{guides: map[string]*models.Guide{
		"g-1": {ID: "g-1", Title: "Guide d'inscription", Status: models.PublicationStatusPublished},
		"g-2": {ID: "g-2", Title: "Brouillon", Status: models.PublicationStatusDraft},
	}}
	handler := newGuideHandler(repo)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/guides", nil)
	c.Request = req

	handler.List(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, repo.listFilter.PublishedOnly)

	var envelope struct {
		Data []models.Guide `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data, 1)
	assert.Equal(t, "g-1", envelope.Data[0].ID)
}

func TestGuideHandlerCreateTitleOnly(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := &guideRepoFake{}
	handler := newGuideHandler(repo)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	body, _ := json.Marshal(dto.CreateGuideRequest{Title: "Guide des bourses"})
	req, _ := http.NewRequest(http.MethodPost, "/guides", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	setClaims(c, superAdmin())

	handler.Create(c)
	require.Equal(t, http.StatusCreated, w.Code)

	var envelope struct {
		Data models.Guide `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Equal(t, models.PublicationStatusPublished, envelope.Data.Status)
}

func TestGuideHandlerCreateInvalidBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newGuideHandler(&guideRepoFake{})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/guides", bytes.NewReader([]byte(`invalid`)))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	setClaims(c, superAdmin())

	handler.Create(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGuideHandlerGetUnknownGuide(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newGuideHandler(&guideRepoFake{})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/guides/g-missing", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "g-missing"}}
	setClaims(c, superAdmin())

	handler.Get(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGuideHandlerDelete(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := &guideRepoFake{guides: map[string]*models.Guide{
		"g-1": {ID: "g-1", Title: "Guide d'inscription", Status: models.PublicationStatusPublished},
	}}
	handler := newGuideHandler(repo)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodDelete, "/guides/g-1", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "g-1"}}
	setClaims(c, superAdmin())

	handler.Delete(c)
	c.Writer.WriteHeaderNow()
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, repo.guides)
}
