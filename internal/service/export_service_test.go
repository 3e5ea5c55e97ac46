package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ucao-academy/web-academy-api/internal/models"
	appErrors "github.com/ucao-academy/web-academy-api/pkg/errors"
	"github.com/ucao-academy/web-academy-api/pkg/export"
)

type exportUserRepoStub struct {
	institute *models.Institute
	students  []models.User
}

func (s *exportUserRepoStub) ListStudentsForExport(ctx context.Context, institute *models.Institute) ([]models.User, error) {
	s.institute = institute
	return s.students, nil
}

func rosterStudents() []models.User {
	number := "UA-2026-abcd1234"
	inst := models.InstituteDGI
	return []models.User{{
		Email:         "aya@ucao.example",
		FirstName:     "Aya",
		LastName:      "Kouassi",
		Phone:         "+22501020304",
		StudentNumber: &number,
		Institute:     &inst,
	}}
}

func TestExportServiceStudentRosterCSV(t *testing.T) {
	repo := &exportUserRepoStub{students: rosterStudents()}
	service := NewExportService(repo, export.NewCSVRenderer(), export.NewPDFRenderer(), nil)

	result, err := service.StudentRoster(context.Background(), ExportFormatCSV, nil, superAdminClaims())
	require.NoError(t, err)
	assert.Equal(t, "text/csv", result.ContentType)
	assert.True(t, strings.HasSuffix(result.FileName, ".csv"))

	body := string(result.Data)
	assert.Contains(t, body, "Matricule")
	assert.Contains(t, body, "UA-2026-abcd1234")
	assert.Contains(t, body, "Kouassi")
}

func TestExportServiceStudentRosterPDF(t *testing.T) {
	repo := &exportUserRepoStub{students: rosterStudents()}
	service := NewExportService(repo, export.NewCSVRenderer(), export.NewPDFRenderer(), nil)

	result, err := service.StudentRoster(context.Background(), ExportFormatPDF, nil, superAdminClaims())
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", result.ContentType)
	assert.True(t, strings.HasPrefix(string(result.Data), "%PDF"))
}

func TestExportServiceScopesInstituteAdmins(t *testing.T) {
	repo := &exportUserRepoStub{}
	service := NewExportService(repo, export.NewCSVRenderer(), export.NewPDFRenderer(), nil)

	requested := models.InstituteISEG
	_, err := service.StudentRoster(context.Background(), ExportFormatCSV, &requested, instituteAdminClaims())
	require.NoError(t, err)
	require.NotNil(t, repo.institute)
	assert.Equal(t, models.InstituteDGI, *repo.institute)
}

func TestExportServiceRejectsUnknownFormat(t *testing.T) {
	service := NewExportService(&exportUserRepoStub{}, export.NewCSVRenderer(), export.NewPDFRenderer(), nil)

	_, err := service.StudentRoster(context.Background(), ExportFormat("xlsx"), nil, superAdminClaims())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
