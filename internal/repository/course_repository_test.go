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

func courseRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "title", "description", "category_id", "filiere_id", "niveau",
		"status", "video_url", "cover_url", "instructor_id", "created_at", "updated_at",
	})
}

func TestCourseRepositoryFindByID(t *testing.T) {
	db, mock, cleanup := newUserRepoMock(t)
	defer cleanup()

	repo := NewCourseRepository(db)
	rows := courseRows().AddRow(
		"c-1", "Algorithmique", "Bases", "cat-1", nil, "L1",
		"published", nil, nil, "inst-1", time.Now(), time.Now(),
	)
	mock.ExpectQuery("SELECT (.+) FROM courses WHERE id").
		WithArgs("c-1").
		WillReturnRows(rows)

	course, err := repo.FindByID(context.Background(), "c-1")
	require.NoError(t, err)
	assert.Equal(t, models.CourseStatusPublished, course.Status)
}

func TestCourseRepositoryFindByIDNotFound(t *testing.T) {
	db, mock, cleanup := newUserRepoMock(t)
	defer cleanup()

	repo := NewCourseRepository(db)
	mock.ExpectQuery("SELECT (.+) FROM courses WHERE id").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByID(context.Background(), "missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestCourseRepositoryListFiltersByStatus(t *testing.T) {
	db, mock, cleanup := newUserRepoMock(t)
	defer cleanup()

	repo := NewCourseRepository(db)
	status := models.CourseStatusPublished

	rows := courseRows().AddRow(
		"c-1", "Algorithmique", "Bases", "cat-1", nil, "L1",
		"published", nil, nil, "inst-1", time.Now(), time.Now(),
	)
	mock.ExpectQuery("SELECT (.+) FROM courses WHERE 1=1 AND status").
		WithArgs(status).
		WillReturnRows(rows)
	mock.ExpectQuery("SELECT COUNT").
		WithArgs(status).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	courses, total, err := repo.List(context.Background(), models.CourseFilter{Status: &status})
	require.NoError(t, err)
	assert.Len(t, courses, 1)
	assert.Equal(t, 1, total)
}

func TestCourseRepositoryCreateAssignsID(t *testing.T) {
	db, mock, cleanup := newUserRepoMock(t)
	defer cleanup()

	repo := NewCourseRepository(db)
	mock.ExpectExec("INSERT INTO courses").
		WillReturnResult(sqlmock.NewResult(1, 1))

	course := &models.Course{
		Title:        "Droit civil",
		CategoryID:   "cat-2",
		Status:       models.CourseStatusDraft,
		InstructorID: "inst-2",
	}
	require.NoError(t, repo.Create(context.Background(), course))
	assert.NotEmpty(t, course.ID)
}

func TestCourseRepositoryDelete(t *testing.T) {
	db, mock, cleanup := newUserRepoMock(t)
	defer cleanup()

	repo := NewCourseRepository(db)
	mock.ExpectExec("DELETE FROM courses").
		WithArgs("c-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), "c-1"))
	require.NoError(t, mock.ExpectationsWereMet())
}
