package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ucao-academy/web-academy-api/internal/models"
)

func guideRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "title", "content", "status", "position", "created_by", "created_at", "updated_at",
	})
}

func TestGuideRepositoryListPublishedOnly(t *testing.T) {
	db, mock, cleanup := newUserRepoMock(t)
	defer cleanup()

	repo := NewGuideRepository(db)
	rows := guideRows().AddRow(
		"g-1", "Guide d'inscription", nil, "published", 1, "admin-1", time.Now(), time.Now(),
	)
	mock.ExpectQuery("SELECT (.+) FROM guides WHERE 1=1 AND status").
		WithArgs(models.PublicationStatusPublished).
		WillReturnRows(rows)
	mock.ExpectQuery("SELECT COUNT").
		WithArgs(models.PublicationStatusPublished).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	guides, total, err := repo.List(context.Background(), models.ContentFilter{PublishedOnly: true})
	require.NoError(t, err)
	require.Len(t, guides, 1)
	assert.Equal(t, 1, total)
	assert.Equal(t, models.PublicationStatusPublished, guides[0].Status)
}

func TestGuideRepositoryCreateAssignsID(t *testing.T) {
	db, mock, cleanup := newUserRepoMock(t)
	defer cleanup()

	repo := NewGuideRepository(db)
	mock.ExpectExec("INSERT INTO guides").
		WillReturnResult(sqlmock.NewResult(1, 1))

	guide := &models.Guide{
		Title:     "Guide des bourses",
		Status:    models.PublicationStatusPublished,
		CreatedBy: "admin-1",
	}
	require.NoError(t, repo.Create(context.Background(), guide))
	assert.NotEmpty(t, guide.ID)
}
