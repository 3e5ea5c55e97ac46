package service

import (
	"context"
	"database/sql"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ucao-academy/web-academy-api/internal/dto"
	"github.com/ucao-academy/web-academy-api/internal/models"
	appErrors "github.com/ucao-academy/web-academy-api/pkg/errors"
)

type userRepoStub struct {
	usersByEmail map[string]*models.User
	usersByID    map[string]*models.User
	listFilter   models.UserFilter
	created      []*models.User
	updated      []*models.User
	deletedIDs   []string
}

func (s *userRepoStub) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if user, ok := s.usersByEmail[email]; ok {
		copied := *user
		return &copied, nil
	}
	return nil, sql.ErrNoRows
}

func (s *userRepoStub) FindByID(ctx context.Context, id string) (*models.User, error) {
	if user, ok := s.usersByID[id]; ok {
		copied := *user
		return &copied, nil
	}
	return nil, sql.ErrNoRows
}

func (s *userRepoStub) List(ctx context.Context, filter models.UserFilter) ([]models.User, int, error) {
	s.listFilter = filter
	return nil, 0, nil
}

func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	s.created = append(s.created, user)
	return nil
}

func (s *userRepoStub) Update(ctx context.Context, user *models.User) error {
	s.updated = append(s.updated, user)
	return nil
}

func (s *userRepoStub) Delete(ctx context.Context, id string) error {
	s.deletedIDs = append(s.deletedIDs, id)
	return nil
}

func TestUserServiceListScopesInstituteAdmins(t *testing.T) {
	repo := &userRepoStub{}
	service := NewUserService(repo, nil, validator.New(), nil)

	_, _, err := service.List(context.Background(), models.UserFilter{}, instituteAdminClaims())
	require.NoError(t, err)
	require.NotNil(t, repo.listFilter.Institute)
	assert.Equal(t, models.InstituteDGI, *repo.listFilter.Institute)
}

func TestUserServiceListSuperAdminUnscoped(t *testing.T) {
	repo := &userRepoStub{}
	service := NewUserService(repo, nil, validator.New(), nil)

	_, _, err := service.List(context.Background(), models.UserFilter{}, superAdminClaims())
	require.NoError(t, err)
	assert.Nil(t, repo.listFilter.Institute)
}

func TestUserServiceListExcludesInactiveByDefault(t *testing.T) {
	repo := &userRepoStub{}
	service := NewUserService(repo, nil, validator.New(), nil)

	_, _, err := service.List(context.Background(), models.UserFilter{}, superAdminClaims())
	require.NoError(t, err)
	require.NotNil(t, repo.listFilter.Active)
	assert.True(t, *repo.listFilter.Active)
}

func TestUserServiceListKeepsExplicitActiveFilter(t *testing.T) {
	repo := &userRepoStub{}
	service := NewUserService(repo, nil, validator.New(), nil)

	inactive := false
	_, _, err := service.List(context.Background(), models.UserFilter{Active: &inactive}, superAdminClaims())
	require.NoError(t, err)
	require.NotNil(t, repo.listFilter.Active)
	assert.False(t, *repo.listFilter.Active)
}

func TestUserServiceCreateGeneratesStudentNumber(t *testing.T) {
	repo := &userRepoStub{}
	service := NewUserService(repo, &auditLoggerStub{}, validator.New(), nil)

	inst := models.InstituteDGI
	user, err := service.Create(context.Background(), dto.CreateUserRequest{
		Email:     "etu@ucao.example",
		Password:  "secret1",
		FirstName: "Aya",
		LastName:  "Kouassi",
		Phone:     "+22501020304",
		Role:      models.RoleStudent,
		Institute: &inst,
	}, superAdminClaims())
	require.NoError(t, err)
	require.NotNil(t, user.StudentNumber)
	assert.True(t, strings.HasPrefix(*user.StudentNumber, "UA-"))
}

func TestUserServiceCreateInstituteAdminForcedToOwnInstitute(t *testing.T) {
	repo := &userRepoStub{}
	service := NewUserService(repo, nil, validator.New(), nil)

	other := models.InstituteISEG
	user, err := service.Create(context.Background(), dto.CreateUserRequest{
		Email:     "prof@ucao.example",
		Password:  "secret1",
		FirstName: "Koffi",
		LastName:  "N'Guessan",
		Phone:     "+22501020304",
		Role:      models.RoleInstructor,
		Institute: &other,
	}, instituteAdminClaims())
	require.NoError(t, err)
	require.NotNil(t, user.Institute)
	assert.Equal(t, models.InstituteDGI, *user.Institute)
}

func TestUserServiceCreateBlocksUnaffiliatedAdminFromInstituteAdmin(t *testing.T) {
	service := NewUserService(&userRepoStub{}, nil, validator.New(), nil)

	_, err := service.Create(context.Background(), dto.CreateUserRequest{
		Email:     "root@ucao.example",
		Password:  "secret1",
		FirstName: "Root",
		LastName:  "Admin",
		Phone:     "+22501020304",
		Role:      models.RoleAdmin,
	}, instituteAdminClaims())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestUserServiceCreateAdminRequiresSuperAdmin(t *testing.T) {
	service := NewUserService(&userRepoStub{}, nil, validator.New(), nil)

	inst := models.InstituteDGI
	_, err := service.Create(context.Background(), dto.CreateUserRequest{
		Email:     "chef@ucao.example",
		Password:  "secret1",
		FirstName: "Chef",
		LastName:  "Dupont",
		Phone:     "+22501020304",
		Role:      models.RoleAdmin,
		Institute: &inst,
	}, instituteAdminClaims())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestUserServiceGetBlocksCrossInstitute(t *testing.T) {
	other := models.InstituteISEG
	repo := &userRepoStub{usersByID: map[string]*models.User{
		"u-9": {ID: "u-9", Role: models.RoleStudent, Institute: &other},
	}}
	service := NewUserService(repo, nil, validator.New(), nil)

	_, err := service.Get(context.Background(), "u-9", instituteAdminClaims())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestUserServiceUpdateBlocksSuperAdminPromotion(t *testing.T) {
	inst := models.InstituteDGI
	repo := &userRepoStub{usersByID: map[string]*models.User{
		"u-2": {ID: "u-2", Role: models.RoleInstructor, Institute: &inst},
	}}
	service := NewUserService(repo, nil, validator.New(), nil)

	role := models.RoleAdmin
	empty := models.Institute("")
	_, err := service.Update(context.Background(), "u-2", dto.UpdateUserRequest{
		Role:      &role,
		Institute: &empty,
	}, instituteAdminClaims())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestUserServiceGetOwnProfileWithoutInstitute(t *testing.T) {
	repo := &userRepoStub{usersByID: map[string]*models.User{
		"etu-9": {ID: "etu-9", Role: models.RoleStudent, Active: true},
	}}
	service := NewUserService(repo, nil, validator.New(), nil)

	actor := &models.JWTClaims{UserID: "etu-9", Role: models.RoleStudent}
	user, err := service.Get(context.Background(), "etu-9", actor)
	require.NoError(t, err)
	assert.Equal(t, "etu-9", user.ID)
}

func TestUserServiceUpdateRoleChangeRequiresSuperAdmin(t *testing.T) {
	inst := models.InstituteDGI
	repo := &userRepoStub{usersByID: map[string]*models.User{
		"u-2": {ID: "u-2", Role: models.RoleStudent, Institute: &inst},
	}}
	service := NewUserService(repo, &auditLoggerStub{}, validator.New(), nil)

	role := models.RoleInstructor
	_, err := service.Update(context.Background(), "u-2", dto.UpdateUserRequest{Role: &role}, instituteAdminClaims())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
	assert.Empty(t, repo.updated)

	updated, err := service.Update(context.Background(), "u-2", dto.UpdateUserRequest{Role: &role}, superAdminClaims())
	require.NoError(t, err)
	assert.Equal(t, models.RoleInstructor, updated.Role)
}

func TestUserServiceDeleteForbidsSelf(t *testing.T) {
	service := NewUserService(&userRepoStub{}, nil, validator.New(), nil)

	err := service.Delete(context.Background(), "admin-1", superAdminClaims())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestUserServiceDeleteSoftDeletes(t *testing.T) {
	inst := models.InstituteDGI
	repo := &userRepoStub{usersByID: map[string]*models.User{
		"u-3": {ID: "u-3", Role: models.RoleStudent, Institute: &inst, Active: true},
	}}
	service := NewUserService(repo, &auditLoggerStub{}, validator.New(), nil)

	require.NoError(t, service.Delete(context.Background(), "u-3", superAdminClaims()))
	assert.Equal(t, []string{"u-3"}, repo.deletedIDs)
}
