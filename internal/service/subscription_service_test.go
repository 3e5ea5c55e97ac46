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

type subscriptionRepoStub struct {
	subsByID   map[string]*models.Subscription
	active     map[string]*models.Subscription
	listFilter models.SubscriptionFilter
	created    []*models.Subscription
	statuses   map[string]models.SubscriptionStatus
}

func (s *subscriptionRepoStub) FindByID(ctx context.Context, id string) (*models.Subscription, error) {
	if sub, ok := s.subsByID[id]; ok {
		copied := *sub
		return &copied, nil
	}
	return nil, sql.ErrNoRows
}

func (s *subscriptionRepoStub) FindActiveForStudent(ctx context.Context, studentID, academicYear string) (*models.Subscription, error) {
	if sub, ok := s.active[studentID+"/"+academicYear]; ok {
		copied := *sub
		return &copied, nil
	}
	return nil, sql.ErrNoRows
}

func (s *subscriptionRepoStub) List(ctx context.Context, filter models.SubscriptionFilter) ([]models.Subscription, int, error) {
	s.listFilter = filter
	return nil, 0, nil
}

func (s *subscriptionRepoStub) Create(ctx context.Context, sub *models.Subscription) error {
	s.created = append(s.created, sub)
	return nil
}

func (s *subscriptionRepoStub) UpdateStatus(ctx context.Context, id string, status models.SubscriptionStatus) error {
	if s.statuses == nil {
		s.statuses = make(map[string]models.SubscriptionStatus)
	}
	s.statuses[id] = status
	return nil
}

func pendingSubscription(id, studentID string) *models.Subscription {
	return &models.Subscription{
		ID:           id,
		StudentID:    studentID,
		FiliereID:    "f-1",
		Niveau:       models.NiveauLicence1,
		AcademicYear: "2026-2027",
		Status:       models.SubscriptionStatusPending,
	}
}

func newSubscriptionService(repo *subscriptionRepoStub) *SubscriptionService {
	filieres := &filiereReaderStub{ids: map[string]bool{"f-1": true}}
	return NewSubscriptionService(repo, filieres, validator.New(), nil)
}

func TestSubscriptionServiceListScopesStudents(t *testing.T) {
	repo := &subscriptionRepoStub{}
	service := newSubscriptionService(repo)

	_, _, err := service.List(context.Background(), models.SubscriptionFilter{}, studentClaims())
	require.NoError(t, err)
	assert.Equal(t, "etu-1", repo.listFilter.StudentID)
}

func TestSubscriptionServiceCreateStartsPending(t *testing.T) {
	repo := &subscriptionRepoStub{}
	service := newSubscriptionService(repo)

	sub, err := service.Create(context.Background(), dto.CreateSubscriptionRequest{
		FiliereID:    "f-1",
		Niveau:       models.NiveauLicence1,
		AcademicYear: "2026-2027",
	}, studentClaims())
	require.NoError(t, err)
	assert.Equal(t, models.SubscriptionStatusPending, sub.Status)
	assert.Equal(t, "etu-1", sub.StudentID)
	assert.NotEmpty(t, sub.ID)
}

func TestSubscriptionServiceCreateRejectsSecondLiveEnrollment(t *testing.T) {
	repo := &subscriptionRepoStub{active: map[string]*models.Subscription{
		"etu-1/2026-2027": pendingSubscription("s-1", "etu-1"),
	}}
	service := newSubscriptionService(repo)

	_, err := service.Create(context.Background(), dto.CreateSubscriptionRequest{
		FiliereID:    "f-1",
		Niveau:       models.NiveauLicence1,
		AcademicYear: "2026-2027",
	}, studentClaims())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
	assert.Empty(t, repo.created)
}

func TestSubscriptionServiceCreateRejectsUnknownFiliere(t *testing.T) {
	service := newSubscriptionService(&subscriptionRepoStub{})

	_, err := service.Create(context.Background(), dto.CreateSubscriptionRequest{
		FiliereID:    "f-missing",
		Niveau:       models.NiveauLicence1,
		AcademicYear: "2026-2027",
	}, studentClaims())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestSubscriptionServiceGetHidesForeignEnrollment(t *testing.T) {
	repo := &subscriptionRepoStub{subsByID: map[string]*models.Subscription{
		"s-1": pendingSubscription("s-1", "etu-2"),
	}}
	service := newSubscriptionService(repo)

	_, err := service.Get(context.Background(), "s-1", studentClaims())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestSubscriptionServiceStudentMayOnlyCancelPending(t *testing.T) {
	active := pendingSubscription("s-1", "etu-1")
	active.Status = models.SubscriptionStatusActive
	repo := &subscriptionRepoStub{subsByID: map[string]*models.Subscription{"s-1": active}}
	service := newSubscriptionService(repo)

	_, err := service.UpdateStatus(context.Background(), "s-1", dto.UpdateSubscriptionStatusRequest{
		Status: models.SubscriptionStatusCancelled,
	}, studentClaims())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestSubscriptionServiceStudentCancelsOwnPending(t *testing.T) {
	repo := &subscriptionRepoStub{subsByID: map[string]*models.Subscription{
		"s-1": pendingSubscription("s-1", "etu-1"),
	}}
	service := newSubscriptionService(repo)

	sub, err := service.UpdateStatus(context.Background(), "s-1", dto.UpdateSubscriptionStatusRequest{
		Status: models.SubscriptionStatusCancelled,
	}, studentClaims())
	require.NoError(t, err)
	assert.Equal(t, models.SubscriptionStatusCancelled, sub.Status)
	assert.Equal(t, models.SubscriptionStatusCancelled, repo.statuses["s-1"])
}

func TestSubscriptionServiceAdminActivatesPending(t *testing.T) {
	repo := &subscriptionRepoStub{subsByID: map[string]*models.Subscription{
		"s-1": pendingSubscription("s-1", "etu-1"),
	}}
	service := newSubscriptionService(repo)

	sub, err := service.UpdateStatus(context.Background(), "s-1", dto.UpdateSubscriptionStatusRequest{
		Status: models.SubscriptionStatusActive,
	}, superAdminClaims())
	require.NoError(t, err)
	assert.Equal(t, models.SubscriptionStatusActive, sub.Status)
}

func TestSubscriptionServiceCancelledIsTerminal(t *testing.T) {
	cancelled := pendingSubscription("s-1", "etu-1")
	cancelled.Status = models.SubscriptionStatusCancelled
	repo := &subscriptionRepoStub{subsByID: map[string]*models.Subscription{"s-1": cancelled}}
	service := newSubscriptionService(repo)

	_, err := service.UpdateStatus(context.Background(), "s-1", dto.UpdateSubscriptionStatusRequest{
		Status: models.SubscriptionStatusPending,
	}, superAdminClaims())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestSubscriptionServiceAdminGetForeignEnrollment(t *testing.T) {
	repo := &subscriptionRepoStub{subsByID: map[string]*models.Subscription{
		"s-1": pendingSubscription("s-1", "etu-2"),
	}}
	service := newSubscriptionService(repo)

	sub, err := service.Get(context.Background(), "s-1", superAdminClaims())
	require.NoError(t, err)
	assert.Equal(t, "etu-2", sub.StudentID)
}
