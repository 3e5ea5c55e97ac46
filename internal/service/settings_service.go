package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/ucao-academy/web-academy-api/internal/dto"
	"github.com/ucao-academy/web-academy-api/internal/models"
	appErrors "github.com/ucao-academy/web-academy-api/pkg/errors"
)

type settingsRepository interface {
	ListByKeys(ctx context.Context, keys []string) ([]models.Setting, error)
	Get(ctx context.Context, key string) (*models.Setting, error)
	Upsert(ctx context.Context, setting *models.Setting) error
	BulkUpsert(ctx context.Context, settings []models.Setting) error
}

type settingsAuditLogger interface {
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

type allowedSetting struct {
	Key         string
	Type        models.SettingType
	Description string
}

var allowedSettingKeys = []string{
	models.SettingCurrentSemester,
	models.SettingAcademicYear,
	models.SettingMaxUploadSize,
	models.SettingSchoolDisplayName,
}

var allowedSettings = map[string]allowedSetting{
	models.SettingCurrentSemester: {
		Key:         models.SettingCurrentSemester,
		Type:        models.SettingTypeString,
		Description: "Semester currently in progress (e.g. S1, S2)",
	},
	models.SettingAcademicYear: {
		Key:         models.SettingAcademicYear,
		Type:        models.SettingTypeString,
		Description: "Academic year used for enrollments (e.g. 2025-2026)",
	},
	models.SettingMaxUploadSize: {
		Key:         models.SettingMaxUploadSize,
		Type:        models.SettingTypeInteger,
		Description: "Maximum upload size in bytes",
	},
	models.SettingSchoolDisplayName: {
		Key:         models.SettingSchoolDisplayName,
		Type:        models.SettingTypeString,
		Description: "Display name shown in page headers",
	},
}

var builtinSettingDefaults = map[string]string{
	models.SettingCurrentSemester:   "S1",
	models.SettingMaxUploadSize:     "10485760",
	models.SettingSchoolDisplayName: "UCAO Academy",
}

// SettingsServiceConfig tunes runtime behaviour.
type SettingsServiceConfig struct {
	Defaults map[string]string
}

// SettingsService orchestrates the platform settings record. Writes are
// reserved for super admins.
type SettingsService struct {
	repo      settingsRepository
	audit     settingsAuditLogger
	validator *validator.Validate
	logger    *zap.Logger
	defaults  map[string]string
}

// NewSettingsService constructs a SettingsService.
func NewSettingsService(repo settingsRepository, audit settingsAuditLogger, validate *validator.Validate, logger *zap.Logger, cfg SettingsServiceConfig) *SettingsService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	defaults := make(map[string]string, len(builtinSettingDefaults))
	for key, value := range builtinSettingDefaults {
		defaults[key] = value
	}
	for key, value := range cfg.Defaults {
		if value == "" {
			continue
		}
		defaults[key] = value
	}
	return &SettingsService{
		repo:      repo,
		audit:     audit,
		validator: validate,
		logger:    logger,
		defaults:  defaults,
	}
}

// List returns all settings scoped to allowed keys, filling defaults.
func (s *SettingsService) List(ctx context.Context) ([]dto.SettingItem, error) {
	keys := make([]string, len(allowedSettingKeys))
	copy(keys, allowedSettingKeys)

	rows, err := s.repo.ListByKeys(ctx, keys)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list settings")
	}
	existing := make(map[string]models.Setting, len(rows))
	for _, row := range rows {
		existing[row.Key] = row
	}

	items := make([]dto.SettingItem, 0, len(keys))
	for _, key := range keys {
		meta := allowedSettings[key]
		item := dto.SettingItem{
			Key:         key,
			Type:        string(meta.Type),
			Description: meta.Description,
		}
		if row, ok := existing[key]; ok {
			item.Value = row.Value
			if row.Description != nil && *row.Description != "" {
				item.Description = *row.Description
			}
		} else if def, ok := s.defaults[key]; ok {
			item.Value = def
		}
		items = append(items, item)
	}
	return items, nil
}

// Get retrieves a single setting.
func (s *SettingsService) Get(ctx context.Context, key string) (*dto.SettingItem, error) {
	meta, err := requireAllowedSetting(key)
	if err != nil {
		return nil, err
	}
	setting, err := s.repo.Get(ctx, key)
	if err != nil {
		if err == sql.ErrNoRows {
			if def, ok := s.defaults[key]; ok {
				return &dto.SettingItem{
					Key:         key,
					Value:       def,
					Type:        string(meta.Type),
					Description: meta.Description,
				}, nil
			}
			return nil, appErrors.Clone(appErrors.ErrNotFound, "setting not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to get setting")
	}
	description := meta.Description
	if setting.Description != nil && *setting.Description != "" {
		description = *setting.Description
	}
	return &dto.SettingItem{
		Key:         setting.Key,
		Value:       setting.Value,
		Type:        string(setting.Type),
		Description: description,
	}, nil
}

// Update upserts a setting value. Only super admins may write.
func (s *SettingsService) Update(ctx context.Context, key, value string, actor *models.JWTClaims) (*dto.SettingItem, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if !actor.IsSuperAdmin() {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only super admins can change platform settings")
	}
	meta, err := requireAllowedSetting(key)
	if err != nil {
		return nil, err
	}
	value, err = validateSettingValue(meta, value)
	if err != nil {
		return nil, err
	}

	prev, err := s.repo.Get(ctx, key)
	if err != nil && err != sql.ErrNoRows {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch setting")
	}

	setting := &models.Setting{
		Key:         key,
		Value:       value,
		Type:        meta.Type,
		Description: settingDescriptionPtr(meta.Description),
		UpdatedBy:   settingActorPtr(actor),
	}
	if err := s.repo.Upsert(ctx, setting); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update setting")
	}

	s.emitAudit(ctx, actor, key, previousSettingValue(prev), value)

	return &dto.SettingItem{
		Key:         key,
		Value:       value,
		Type:        string(meta.Type),
		Description: meta.Description,
	}, nil
}

// BulkUpdate applies multiple setting updates transactionally.
func (s *SettingsService) BulkUpdate(ctx context.Context, req dto.BulkUpdateSettingsRequest, actor *models.JWTClaims) ([]dto.SettingItem, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if !actor.IsSuperAdmin() {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only super admins can change platform settings")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid bulk payload")
	}

	keys := make([]string, 0, len(req.Items))
	for _, item := range req.Items {
		keys = append(keys, item.Key)
	}
	existing, err := s.repo.ListByKeys(ctx, keys)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load existing settings")
	}
	existingMap := make(map[string]models.Setting, len(existing))
	for _, setting := range existing {
		existingMap[setting.Key] = setting
	}

	toUpsert := make([]models.Setting, 0, len(req.Items))
	for _, item := range req.Items {
		meta, err := requireAllowedSetting(item.Key)
		if err != nil {
			return nil, err
		}
		normalized, err := validateSettingValue(meta, item.Value)
		if err != nil {
			return nil, err
		}
		toUpsert = append(toUpsert, models.Setting{
			Key:         item.Key,
			Value:       normalized,
			Type:        meta.Type,
			Description: settingDescriptionPtr(meta.Description),
			UpdatedBy:   settingActorPtr(actor),
		})
	}

	if err := s.repo.BulkUpsert(ctx, toUpsert); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to bulk update settings")
	}

	result := make([]dto.SettingItem, 0, len(toUpsert))
	for _, setting := range toUpsert {
		result = append(result, dto.SettingItem{
			Key:         setting.Key,
			Value:       setting.Value,
			Type:        string(setting.Type),
			Description: allowedSettings[setting.Key].Description,
		})
		prev := existingMap[setting.Key]
		s.emitAudit(ctx, actor, setting.Key, previousSettingValue(&prev), setting.Value)
	}
	return result, nil
}

// MaxUploadSize returns the configured upload cap in bytes with fallback.
func (s *SettingsService) MaxUploadSize(ctx context.Context, fallback int64) int64 {
	setting, err := s.repo.Get(ctx, models.SettingMaxUploadSize)
	if err != nil {
		if err != sql.ErrNoRows {
			s.logger.Warn("failed to read max upload size setting", zap.Error(err))
		}
		if def, ok := s.defaults[models.SettingMaxUploadSize]; ok {
			if parsed, perr := strconv.ParseInt(def, 10, 64); perr == nil {
				return parsed
			}
		}
		return fallback
	}
	parsed, err := strconv.ParseInt(setting.Value, 10, 64)
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}

// AcademicYear returns the configured academic year, empty when unset.
func (s *SettingsService) AcademicYear(ctx context.Context) string {
	setting, err := s.repo.Get(ctx, models.SettingAcademicYear)
	if err != nil {
		if def, ok := s.defaults[models.SettingAcademicYear]; ok {
			return def
		}
		return ""
	}
	return setting.Value
}

func requireAllowedSetting(key string) (allowedSetting, error) {
	meta, ok := allowedSettings[key]
	if !ok {
		return allowedSetting{}, appErrors.Clone(appErrors.ErrValidation, "unsupported setting key")
	}
	return meta, nil
}

func validateSettingValue(meta allowedSetting, value string) (string, error) {
	value = strings.TrimSpace(value)
	switch meta.Type {
	case models.SettingTypeInteger:
		parsed, err := strconv.ParseInt(value, 10, 64)
		if err != nil || parsed < 0 {
			return "", appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("%s expects a non-negative integer", meta.Key))
		}
		return strconv.FormatInt(parsed, 10), nil
	case models.SettingTypeString:
		if value == "" {
			return "", appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("%s cannot be empty", meta.Key))
		}
		return value, nil
	default:
		return "", appErrors.Clone(appErrors.ErrValidation, "unsupported setting type")
	}
}

func (s *SettingsService) emitAudit(ctx context.Context, actor *models.JWTClaims, key, oldValue, newValue string) {
	if s.audit == nil {
		return
	}
	oldBytes, _ := json.Marshal(map[string]string{"key": key, "value": oldValue})
	newBytes, _ := json.Marshal(map[string]string{"key": key, "value": newValue})
	log := &models.AuditLog{
		UserID:     settingActorPtr(actor),
		Action:     models.AuditActionSettingsUpdate,
		Resource:   "settings",
		ResourceID: &key,
		OldValues:  oldBytes,
		NewValues:  newBytes,
		IPAddress:  "system",
		UserAgent:  "settings-service",
	}
	if err := s.audit.CreateAuditLog(ctx, log); err != nil {
		s.logger.Warn("failed to record settings audit", zap.Error(err))
	}
}

func previousSettingValue(setting *models.Setting) string {
	if setting == nil {
		return ""
	}
	return setting.Value
}

func settingActorPtr(actor *models.JWTClaims) *string {
	if actor == nil || actor.UserID == "" {
		return nil
	}
	return &actor.UserID
}

func settingDescriptionPtr(value string) *string {
	if value == "" {
		return nil
	}
	result := value
	return &result
}
