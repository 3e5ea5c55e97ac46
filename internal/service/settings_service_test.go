package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ucao-academy/web-academy-api/internal/dto"
	"github.com/ucao-academy/web-academy-api/internal/models"
	appErrors "github.com/ucao-academy/web-academy-api/pkg/errors"
)

type settingsRepoStub struct {
	items map[string]models.Setting
	err   error
}

func (s *settingsRepoStub) ListByKeys(ctx context.Context, keys []string) ([]models.Setting, error) {
	if s.err != nil {
		return nil, s.err
	}
	result := []models.Setting{}
	for _, key := range keys {
		if setting, ok := s.items[key]; ok {
			result = append(result, setting)
		}
	}
	return result, nil
}

func (s *settingsRepoStub) Get(ctx context.Context, key string) (*models.Setting, error) {
	if s.err != nil {
		return nil, s.err
	}
	if setting, ok := s.items[key]; ok {
		return &setting, nil
	}
	return nil, sql.ErrNoRows
}

func (s *settingsRepoStub) Upsert(ctx context.Context, setting *models.Setting) error {
	if s.err != nil {
		return s.err
	}
	if s.items == nil {
		s.items = make(map[string]models.Setting)
	}
	s.items[setting.Key] = *setting
	return nil
}

func (s *settingsRepoStub) BulkUpsert(ctx context.Context, settings []models.Setting) error {
	if s.err != nil {
		return s.err
	}
	if s.items == nil {
		s.items = make(map[string]models.Setting)
	}
	for _, setting := range settings {
		s.items[setting.Key] = setting
	}
	return nil
}

type auditLoggerStub struct {
	logs []*models.AuditLog
}

func (a *auditLoggerStub) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	a.logs = append(a.logs, log)
	return nil
}

func superAdminClaims() *models.JWTClaims {
	return &models.JWTClaims{UserID: "admin-1", Role: models.RoleAdmin}
}

func instituteAdminClaims() *models.JWTClaims {
	inst := models.InstituteDGI
	return &models.JWTClaims{UserID: "admin-2", Role: models.RoleAdmin, Institute: &inst}
}

func TestSettingsServiceListFillsDefaults(t *testing.T) {
	service := NewSettingsService(&settingsRepoStub{}, &auditLoggerStub{}, validator.New(), nil, SettingsServiceConfig{})

	items, err := service.List(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 4)

	byKey := map[string]dto.SettingItem{}
	for _, item := range items {
		byKey[item.Key] = item
	}
	assert.Equal(t, "S1", byKey[models.SettingCurrentSemester].Value)
	assert.Equal(t, "10485760", byKey[models.SettingMaxUploadSize].Value)
	assert.Equal(t, "INTEGER", byKey[models.SettingMaxUploadSize].Type)
}

func TestSettingsServiceUpdateRequiresSuperAdmin(t *testing.T) {
	service := NewSettingsService(&settingsRepoStub{}, &auditLoggerStub{}, validator.New(), nil, SettingsServiceConfig{})

	_, err := service.Update(context.Background(), models.SettingCurrentSemester, "S2", instituteAdminClaims())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestSettingsServiceUpdateUnknownKey(t *testing.T) {
	service := NewSettingsService(&settingsRepoStub{}, &auditLoggerStub{}, validator.New(), nil, SettingsServiceConfig{})

	_, err := service.Update(context.Background(), "theme_color", "blue", superAdminClaims())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestSettingsServiceUpdateIntegerValidation(t *testing.T) {
	repo := &settingsRepoStub{}
	audit := &auditLoggerStub{}
	service := NewSettingsService(repo, audit, validator.New(), nil, SettingsServiceConfig{})

	_, err := service.Update(context.Background(), models.SettingMaxUploadSize, "lots", superAdminClaims())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	item, err := service.Update(context.Background(), models.SettingMaxUploadSize, "20971520", superAdminClaims())
	require.NoError(t, err)
	assert.Equal(t, "20971520", item.Value)
	assert.Len(t, audit.logs, 1)
}

func TestSettingsServiceBulkUpdate(t *testing.T) {
	repo := &settingsRepoStub{}
	service := NewSettingsService(repo, &auditLoggerStub{}, validator.New(), nil, SettingsServiceConfig{})

	req := dto.BulkUpdateSettingsRequest{Items: []dto.BulkUpdateSettingsItem{
		{Key: models.SettingCurrentSemester, Value: "S2"},
		{Key: models.SettingAcademicYear, Value: "2026-2027"},
	}}
	items, err := service.BulkUpdate(context.Background(), req, superAdminClaims())
	require.NoError(t, err)
	assert.Len(t, items, 2)
	assert.Equal(t, "S2", repo.items[models.SettingCurrentSemester].Value)
}

func TestSettingsServiceMaxUploadSizeFallsBack(t *testing.T) {
	service := NewSettingsService(&settingsRepoStub{}, nil, validator.New(), nil, SettingsServiceConfig{})

	size := service.MaxUploadSize(context.Background(), 5*1024*1024)
	assert.Equal(t, int64(10485760), size)
}
