package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ucao-academy/web-academy-api/internal/models"
)

func newUserRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	sqlxDB := sqlx.NewDb(db, "postgres")
	return sqlxDB, mock, func() {
		sqlxDB.Close()
		db.Close()
	}
}

func userRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "email", "password_hash", "first_name", "last_name", "phone",
		"address", "student_number", "role", "institute", "verified", "active",
		"last_login", "created_at", "updated_at",
	})
}

func TestUserRepositoryFindByEmail(t *testing.T) {
	db, mock, cleanup := newUserRepoMock(t)
	defer cleanup()

	repo := NewUserRepository(db)
	rows := userRows().AddRow(
		"u-1", "alice@ucao.example", "hash", "Alice", "Martin", "",
		nil, nil, "student", "DGI", true, true,
		nil, time.Now(), time.Now(),
	)
	mock.ExpectQuery("SELECT (.+) FROM users WHERE email").
		WithArgs("alice@ucao.example").
		WillReturnRows(rows)

	user, err := repo.FindByEmail(context.Background(), "alice@ucao.example")
	require.NoError(t, err)
	assert.Equal(t, "u-1", user.ID)
	assert.Equal(t, models.RoleStudent, user.Role)
}

func TestUserRepositoryFindByEmailNotFound(t *testing.T) {
	db, mock, cleanup := newUserRepoMock(t)
	defer cleanup()

	repo := NewUserRepository(db)
	mock.ExpectQuery("SELECT (.+) FROM users WHERE email").
		WithArgs("ghost@ucao.example").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByEmail(context.Background(), "ghost@ucao.example")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestUserRepositoryList(t *testing.T) {
	db, mock, cleanup := newUserRepoMock(t)
	defer cleanup()

	repo := NewUserRepository(db)
	role := models.RoleStudent
	inst := models.InstituteDGI

	rows := userRows().AddRow(
		"u-1", "alice@ucao.example", "hash", "Alice", "Martin", "",
		nil, "UA-2026-abcd1234", "student", "DGI", true, true,
		nil, time.Now(), time.Now(),
	)
	mock.ExpectQuery("SELECT (.+) FROM users WHERE 1=1 AND role").
		WithArgs(role, inst).
		WillReturnRows(rows)
	mock.ExpectQuery("SELECT COUNT").
		WithArgs(role, inst).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	users, total, err := repo.List(context.Background(), models.UserFilter{Role: &role, Institute: &inst})
	require.NoError(t, err)
	assert.Len(t, users, 1)
	assert.Equal(t, 1, total)
}

func TestUserRepositoryCreateAssignsID(t *testing.T) {
	db, mock, cleanup := newUserRepoMock(t)
	defer cleanup()

	repo := NewUserRepository(db)
	mock.ExpectExec("INSERT INTO users").
		WillReturnResult(sqlmock.NewResult(1, 1))

	user := &models.User{
		Email:        "bob@ucao.example",
		PasswordHash: "hash",
		FirstName:    "Bob",
		LastName:     "Kone",
		Role:         models.RoleInstructor,
		Active:       true,
	}
	require.NoError(t, repo.Create(context.Background(), user))
	assert.NotEmpty(t, user.ID)
	assert.False(t, user.UpdatedAt.IsZero())
}

func TestUserRepositoryDeleteIsSoft(t *testing.T) {
	db, mock, cleanup := newUserRepoMock(t)
	defer cleanup()

	repo := NewUserRepository(db)
	mock.ExpectExec("UPDATE users SET active = FALSE").
		WithArgs("u-1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), "u-1"))
	require.NoError(t, mock.ExpectationsWereMet())
}
