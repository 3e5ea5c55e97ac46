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
	"github.com/ucao-academy/web-academy-api/internal/middleware"
	"github.com/ucao-academy/web-academy-api/internal/models"
	"github.com/ucao-academy/web-academy-api/internal/service"
)

type settingsRepoFake struct {
	items map[string]models.Setting
}

func (f *settingsRepoFake) ListByKeys(ctx context.Context, keys []string) ([]models.Setting, error) {
	result := []models.Setting{}
	for _, key := range keys {
		if setting, ok := f.items[key]; ok {
			result = append(result, setting)
		}
	}
	return result, nil
}

func (f *settingsRepoFake) Get(ctx context.Context, key string) (*models.Setting, error) {
	if setting, ok := f.items[key]; ok {
		return &setting, nil
	}
	return nil, sql.ErrNoRows
}

func (f *settingsRepoFake) Upsert(ctx context.Context, setting *models.Setting) error {
	if f.items == nil {
		f.items = make(map[string]models.Setting)
	}
	f.items[setting.Key] = *setting
	return nil
}

func (f *settingsRepoFake) BulkUpsert(ctx context.Context, settings []models.Setting) error {
	for _, setting := range settings {
		if err := f.Upsert(ctx, &setting); err != nil {
			return err
		}
	}
	return nil
}

type auditLoggerFake struct{}

func (auditLoggerFake) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	return nil
}

func newSettingsHandler() (*SettingsHandler, *settingsRepoFake) {
	repo := &settingsRepoFake{}
	svc := service.NewSettingsService(repo, auditLoggerFake{}, nil, nil, service.SettingsServiceConfig{})
	return NewSettingsHandler(svc), repo
}

func setClaims(c *gin.Context, claims *models.JWTClaims) {
	if claims != nil {
		c.Set(middleware.ContextUserKey, claims)
	}
}

func superAdmin() *models.JWTClaims {
	return &models.JWTClaims{UserID: "admin-1", Role: models.RoleAdmin}
}

func TestSettingsHandlerListReturnsDefaults(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, _ := newSettingsHandler()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/settings", nil)
	c.Request = req
	setClaims(c, superAdmin())

	handler.List(c)
	require.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Data []dto.SettingItem `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Len(t, envelope.Data, 4)
}

func TestSettingsHandlerUpdateInvalidBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, _ := newSettingsHandler()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPut, "/settings/current_semester", bytes.NewReader([]byte(`invalid`)))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Params = gin.Params{{Key: "key", Value: "current_semester"}}
	setClaims(c, superAdmin())

	handler.Update(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSettingsHandlerUpdateRequiresSuperAdmin(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, _ := newSettingsHandler()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	body, _ := json.Marshal(dto.UpdateSettingRequest{Value: "S2"})
	req, _ := http.NewRequest(http.MethodPut, "/settings/current_semester", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Params = gin.Params{{Key: "key", Value: "current_semester"}}
	inst := models.InstituteDGI
	setClaims(c, &models.JWTClaims{UserID: "admin-2", Role: models.RoleAdmin, Institute: &inst})

	handler.Update(c)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestSettingsHandlerUpdatePersistsValue(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, repo := newSettingsHandler()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	body, _ := json.Marshal(dto.UpdateSettingRequest{Value: "S2"})
	req, _ := http.NewRequest(http.MethodPut, "/settings/current_semester", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Params = gin.Params{{Key: "key", Value: "current_semester"}}
	setClaims(c, superAdmin())

	handler.Update(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "S2", repo.items[models.SettingCurrentSemester].Value)
}

func TestSettingsHandlerBulkUpdateInvalidBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, _ := newSettingsHandler()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPut, "/settings", bytes.NewReader([]byte(`invalid`)))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	setClaims(c, superAdmin())

	handler.BulkUpdate(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
