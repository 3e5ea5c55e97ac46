package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ucao-academy/web-academy-api/internal/dto"
	"github.com/ucao-academy/web-academy-api/internal/models"
	appErrors "github.com/ucao-academy/web-academy-api/pkg/errors"
)

type courseRepoStub struct {
	coursesByID map[string]*models.Course
	listFilter  models.CourseFilter
	listResult  []models.Course
	listCalls   int
	created     []*models.Course
	updated     []*models.Course
	deletedIDs  []string
}

func (s *courseRepoStub) FindByID(ctx context.Context, id string) (*models.Course, error) {
	if course, ok := s.coursesByID[id]; ok {
		copied := *course
		return &copied, nil
	}
	return nil, sql.ErrNoRows
}

func (s *courseRepoStub) List(ctx context.Context, filter models.CourseFilter) ([]models.Course, int, error) {
	s.listFilter = filter
	s.listCalls++
	return s.listResult, len(s.listResult), nil
}

func (s *courseRepoStub) Create(ctx context.Context, course *models.Course) error {
	s.created = append(s.created, course)
	return nil
}

func (s *courseRepoStub) Update(ctx context.Context, course *models.Course) error {
	s.updated = append(s.updated, course)
	if s.coursesByID != nil {
		copied := *course
		s.coursesByID[course.ID] = &copied
	}
	return nil
}

func (s *courseRepoStub) Delete(ctx context.Context, id string) error {
	s.deletedIDs = append(s.deletedIDs, id)
	return nil
}

type categoryReaderStub struct {
	ids map[string]bool
}

func (s *categoryReaderStub) FindByID(ctx context.Context, id string) (*models.Category, error) {
	if s.ids[id] {
		return &models.Category{ID: id}, nil
	}
	return nil, sql.ErrNoRows
}

type filiereReaderStub struct {
	ids map[string]bool
}

func (s *filiereReaderStub) FindByID(ctx context.Context, id string) (*models.Filiere, error) {
	if s.ids[id] {
		return &models.Filiere{ID: id}, nil
	}
	return nil, sql.ErrNoRows
}

type courseCacheStub struct {
	store         map[string]cachedCourseList
	sets          int
	hits          int
	invalidations int
}

func (s *courseCacheStub) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	cached, ok := s.store[key]
	if !ok {
		return false, nil
	}
	if out, castable := dest.(*cachedCourseList); castable {
		*out = cached
		s.hits++
		return true, nil
	}
	return false, nil
}

func (s *courseCacheStub) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if s.store == nil {
		s.store = make(map[string]cachedCourseList)
	}
	if cached, castable := value.(cachedCourseList); castable {
		s.store[key] = cached
		s.sets++
	}
	return nil
}

func (s *courseCacheStub) InvalidateCourses(ctx context.Context) {
	s.invalidations++
}

func instructorClaims() *models.JWTClaims {
	inst := models.InstituteDGI
	return &models.JWTClaims{UserID: "prof-1", Role: models.RoleInstructor, Institute: &inst}
}

func studentClaims() *models.JWTClaims {
	inst := models.InstituteDGI
	return &models.JWTClaims{UserID: "etu-1", Role: models.RoleStudent, Institute: &inst}
}

func draftCourse(id, instructorID string) *models.Course {
	return &models.Course{
		ID:           id,
		Title:        "Introduction à la comptabilité",
		CategoryID:   "cat-1",
		Status:       models.CourseStatusDraft,
		InstructorID: instructorID,
	}
}

func newCourseService(repo *courseRepoStub, audit *auditLoggerStub, cache *courseCacheStub) *CourseService {
	categories := &categoryReaderStub{ids: map[string]bool{"cat-1": true}}
	filieres := &filiereReaderStub{ids: map[string]bool{"f-1": true}}
	var auditor courseAuditLogger
	if audit != nil {
		auditor = audit
	}
	var invalidator courseCache
	if cache != nil {
		invalidator = cache
	}
	return NewCourseService(repo, categories, filieres, auditor, invalidator, validator.New(), nil)
}

func TestCourseServiceListForcesPublishedForStudents(t *testing.T) {
	repo := &courseRepoStub{}
	service := newCourseService(repo, nil, nil)

	draft := models.CourseStatusDraft
	_, _, err := service.List(context.Background(), models.CourseFilter{Status: &draft}, studentClaims())
	require.NoError(t, err)
	require.NotNil(t, repo.listFilter.Status)
	assert.Equal(t, models.CourseStatusPublished, *repo.listFilter.Status)
}

func TestCourseServiceListKeepsFilterForStaff(t *testing.T) {
	repo := &courseRepoStub{}
	service := newCourseService(repo, nil, nil)

	draft := models.CourseStatusDraft
	_, _, err := service.List(context.Background(), models.CourseFilter{Status: &draft}, instructorClaims())
	require.NoError(t, err)
	require.NotNil(t, repo.listFilter.Status)
	assert.Equal(t, models.CourseStatusDraft, *repo.listFilter.Status)
}

func TestCourseServiceListMineScopesToInstructor(t *testing.T) {
	repo := &courseRepoStub{}
	service := newCourseService(repo, nil, nil)

	_, _, err := service.ListMine(context.Background(), models.CourseFilter{}, instructorClaims())
	require.NoError(t, err)
	assert.Equal(t, "prof-1", repo.listFilter.InstructorID)
}

func TestCourseServiceListCachesPublishedListings(t *testing.T) {
	published := draftCourse("c-1", "prof-1")
	published.Status = models.CourseStatusPublished
	repo := &courseRepoStub{listResult: []models.Course{*published}}
	cache := &courseCacheStub{}
	service := newCourseService(repo, nil, cache)

	courses, pagination, err := service.List(context.Background(), models.CourseFilter{}, studentClaims())
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.Equal(t, 1, repo.listCalls)
	assert.Equal(t, 1, cache.sets)

	courses, pagination, err = service.List(context.Background(), models.CourseFilter{}, studentClaims())
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.Equal(t, 1, pagination.TotalCount)
	assert.Equal(t, 1, repo.listCalls)
	assert.Equal(t, 1, cache.hits)
}

func TestCourseServiceListSkipsCacheForDrafts(t *testing.T) {
	repo := &courseRepoStub{}
	cache := &courseCacheStub{}
	service := newCourseService(repo, nil, cache)

	draft := models.CourseStatusDraft
	_, _, err := service.List(context.Background(), models.CourseFilter{Status: &draft}, instructorClaims())
	require.NoError(t, err)
	assert.Equal(t, 0, cache.sets)
	assert.Equal(t, 0, cache.hits)
}

func TestCourseServiceGetHidesDraftFromStudents(t *testing.T) {
	repo := &courseRepoStub{coursesByID: map[string]*models.Course{
		"c-1": draftCourse("c-1", "prof-1"),
	}}
	service := newCourseService(repo, nil, nil)

	_, err := service.Get(context.Background(), "c-1", studentClaims())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)

	course, err := service.Get(context.Background(), "c-1", instructorClaims())
	require.NoError(t, err)
	assert.Equal(t, "c-1", course.ID)
}

func TestCourseServiceCreateDefaultsToDraft(t *testing.T) {
	repo := &courseRepoStub{}
	cache := &courseCacheStub{}
	service := newCourseService(repo, nil, cache)

	course, err := service.Create(context.Background(), dto.CreateCourseRequest{
		Title:      "Droit des affaires",
		CategoryID: "cat-1",
	}, instructorClaims())
	require.NoError(t, err)
	assert.Equal(t, models.CourseStatusDraft, course.Status)
	assert.Equal(t, "prof-1", course.InstructorID)
	assert.NotEmpty(t, course.ID)
	assert.Equal(t, 1, cache.invalidations)
}

func TestCourseServiceCreateRejectsUnknownCategory(t *testing.T) {
	service := newCourseService(&courseRepoStub{}, nil, nil)

	_, err := service.Create(context.Background(), dto.CreateCourseRequest{
		Title:      "Droit des affaires",
		CategoryID: "cat-missing",
	}, instructorClaims())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestCourseServiceUpdateRejectsForeignInstructor(t *testing.T) {
	repo := &courseRepoStub{coursesByID: map[string]*models.Course{
		"c-1": draftCourse("c-1", "prof-2"),
	}}
	service := newCourseService(repo, nil, nil)

	title := "Nouveau titre"
	_, err := service.Update(context.Background(), "c-1", dto.UpdateCourseRequest{Title: &title}, instructorClaims())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestCourseServiceUpdateAllowsAdminOverForeignCourse(t *testing.T) {
	repo := &courseRepoStub{coursesByID: map[string]*models.Course{
		"c-1": draftCourse("c-1", "prof-2"),
	}}
	service := newCourseService(repo, nil, nil)

	title := "Nouveau titre"
	course, err := service.Update(context.Background(), "c-1", dto.UpdateCourseRequest{Title: &title}, superAdminClaims())
	require.NoError(t, err)
	assert.Equal(t, "Nouveau titre", course.Title)
	require.Len(t, repo.updated, 1)
}

func TestCourseServicePublishEmitsAudit(t *testing.T) {
	repo := &courseRepoStub{coursesByID: map[string]*models.Course{
		"c-1": draftCourse("c-1", "prof-1"),
	}}
	audit := &auditLoggerStub{}
	service := newCourseService(repo, audit, nil)

	course, err := service.UpdateStatus(context.Background(), "c-1", dto.UpdateCourseStatusRequest{
		Status: models.CourseStatusPublished,
	}, instructorClaims())
	require.NoError(t, err)
	assert.Equal(t, models.CourseStatusPublished, course.Status)
	require.Len(t, audit.logs, 1)
	assert.Equal(t, models.AuditActionCoursePublish, audit.logs[0].Action)
}

func TestCourseServiceArchivedCannotPublishDirectly(t *testing.T) {
	archived := draftCourse("c-1", "prof-1")
	archived.Status = models.CourseStatusArchived
	repo := &courseRepoStub{coursesByID: map[string]*models.Course{"c-1": archived}}
	service := newCourseService(repo, nil, nil)

	_, err := service.UpdateStatus(context.Background(), "c-1", dto.UpdateCourseStatusRequest{
		Status: models.CourseStatusPublished,
	}, instructorClaims())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	assert.Empty(t, repo.updated)

	_, err = service.UpdateStatus(context.Background(), "c-1", dto.UpdateCourseStatusRequest{
		Status: models.CourseStatusDraft,
	}, instructorClaims())
	require.NoError(t, err)
}

func TestCourseServiceDeleteInvalidatesCache(t *testing.T) {
	repo := &courseRepoStub{coursesByID: map[string]*models.Course{
		"c-1": draftCourse("c-1", "prof-1"),
	}}
	cache := &courseCacheStub{}
	service := newCourseService(repo, nil, cache)

	require.NoError(t, service.Delete(context.Background(), "c-1", instructorClaims()))
	assert.Equal(t, []string{"c-1"}, repo.deletedIDs)
	assert.Equal(t, 1, cache.invalidations)
}
