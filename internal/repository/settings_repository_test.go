package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ucao-academy/web-academy-api/internal/models"
)

func newSettingsRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	sqlxDB := sqlx.NewDb(db, "postgres")
	return sqlxDB, mock, func() {
		sqlxDB.Close()
		db.Close()
	}
}

func TestSettingsRepositoryListByKeys(t *testing.T) {
	db, mock, cleanup := newSettingsRepoMock(t)
	defer cleanup()

	repo := NewSettingsRepository(db)
	rows := sqlmock.NewRows([]string{"key", "value", "type", "description", "updated_by", "updated_at"}).
		AddRow("current_semester", "S1", "STRING", "desc", "admin", time.Now())
	mock.ExpectQuery("SELECT key, value").
		WithArgs("current_semester").
		WillReturnRows(rows)

	result, err := repo.ListByKeys(context.Background(), []string{"current_semester"})
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, "S1", result[0].Value)
}

func TestSettingsRepositoryListByKeysEmpty(t *testing.T) {
	db, _, cleanup := newSettingsRepoMock(t)
	defer cleanup()

	repo := NewSettingsRepository(db)
	result, err := repo.ListByKeys(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, result)
}

func TestSettingsRepositoryUpsert(t *testing.T) {
	db, mock, cleanup := newSettingsRepoMock(t)
	defer cleanup()
	repo := NewSettingsRepository(db)
	mock.ExpectExec("INSERT INTO settings").
		WithArgs("max_upload_size", "20971520", "INTEGER", sqlmock.AnyArg(), "admin", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	setting := &models.Setting{
		Key:       "max_upload_size",
		Value:     "20971520",
		Type:      models.SettingTypeInteger,
		UpdatedBy: strPtr("admin"),
	}
	require.NoError(t, repo.Upsert(context.Background(), setting))
}

func TestSettingsRepositoryBulkUpsert(t *testing.T) {
	db, mock, cleanup := newSettingsRepoMock(t)
	defer cleanup()
	repo := NewSettingsRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO settings").
		WithArgs("current_semester", "S2", "STRING", sqlmock.AnyArg(), "admin", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO settings").
		WithArgs("academic_year", "2026-2027", "STRING", sqlmock.AnyArg(), "admin", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	items := []models.Setting{
		{Key: "current_semester", Value: "S2", Type: models.SettingTypeString, UpdatedBy: strPtr("admin")},
		{Key: "academic_year", Value: "2026-2027", Type: models.SettingTypeString, UpdatedBy: strPtr("admin")},
	}
	require.NoError(t, repo.BulkUpsert(context.Background(), items))
}

func strPtr(value string) *string {
	return &value
}
