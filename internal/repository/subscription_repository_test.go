package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ucao-academy/web-academy-api/internal/models"
)

func subscriptionRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "student_id", "filiere_id", "niveau", "academic_year", "status", "created_at", "updated_at",
	})
}

func TestSubscriptionRepositoryFindActiveForStudent(t *testing.T) {
	db, mock, cleanup := newUserRepoMock(t)
	defer cleanup()

	repo := NewSubscriptionRepository(db)
	rows := subscriptionRows().AddRow(
		"s-1", "u-1", "f-1", "L1", "2026-2027", "pending", time.Now(), time.Now(),
	)
	mock.ExpectQuery("SELECT (.+) FROM subscriptions").
		WithArgs("u-1", "2026-2027", models.SubscriptionStatusCancelled).
		WillReturnRows(rows)

	sub, err := repo.FindActiveForStudent(context.Background(), "u-1", "2026-2027")
	require.NoError(t, err)
	assert.Equal(t, models.SubscriptionStatusPending, sub.Status)
}

func TestSubscriptionRepositoryFindActiveForStudentNone(t *testing.T) {
	db, mock, cleanup := newUserRepoMock(t)
	defer cleanup()

	repo := NewSubscriptionRepository(db)
	mock.ExpectQuery("SELECT (.+) FROM subscriptions").
		WithArgs("u-1", "2026-2027", models.SubscriptionStatusCancelled).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindActiveForStudent(context.Background(), "u-1", "2026-2027")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}
