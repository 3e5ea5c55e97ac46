package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ucao-academy/web-academy-api/internal/models"
	appErrors "github.com/ucao-academy/web-academy-api/pkg/errors"
	"github.com/ucao-academy/web-academy-api/pkg/export"
)

type exportUserRepository interface {
	ListStudentsForExport(ctx context.Context, institute *models.Institute) ([]models.User, error)
}

type tableRenderer interface {
	Render(table export.Table) ([]byte, error)
}

// ExportFormat selects the output encoding for roster exports.
type ExportFormat string

const (
	ExportFormatCSV ExportFormat = "csv"
	ExportFormatPDF ExportFormat = "pdf"
)

// ExportResult carries rendered bytes with HTTP metadata.
type ExportResult struct {
	FileName    string
	ContentType string
	Data        []byte
}

// ExportService renders student rosters as downloadable documents.
type ExportService struct {
	users  exportUserRepository
	csv    tableRenderer
	pdf    tableRenderer
	logger *zap.Logger
}

// NewExportService constructs an ExportService.
func NewExportService(users exportUserRepository, csv, pdf tableRenderer, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{users: users, csv: csv, pdf: pdf, logger: logger}
}

// StudentRoster renders the active student roster. Institute admins are
// restricted to their own institute.
func (s *ExportService) StudentRoster(ctx context.Context, format ExportFormat, institute *models.Institute, actor *models.JWTClaims) (*ExportResult, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if !actor.IsSuperAdmin() {
		institute = actor.Institute
	}

	students, err := s.users.ListStudentsForExport(ctx, institute)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load students")
	}

	table := buildRosterTable(students, institute)

	var renderer tableRenderer
	var contentType, extension string
	switch format {
	case ExportFormatCSV:
		renderer = s.csv
		contentType = "text/csv"
		extension = "csv"
	case ExportFormatPDF:
		renderer = s.pdf
		contentType = "application/pdf"
		extension = "pdf"
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}
	if renderer == nil {
		return nil, appErrors.Clone(appErrors.ErrInternal, "renderer not configured")
	}

	data, err := renderer.Render(table)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render roster")
	}

	return &ExportResult{
		FileName:    fmt.Sprintf("students-%s.%s", time.Now().UTC().Format("2006-01-02"), extension),
		ContentType: contentType,
		Data:        data,
	}, nil
}

func buildRosterTable(students []models.User, institute *models.Institute) export.Table {
	title := "Liste des étudiants"
	if institute != nil && *institute != "" {
		title = fmt.Sprintf("Liste des étudiants - %s", *institute)
	}

	rows := make([][]string, 0, len(students))
	for _, student := range students {
		var number, inst string
		if student.StudentNumber != nil {
			number = *student.StudentNumber
		}
		if student.Institute != nil {
			inst = string(*student.Institute)
		}
		rows = append(rows, []string{
			number,
			student.LastName,
			student.FirstName,
			student.Email,
			student.Phone,
			inst,
		})
	}

	return export.Table{
		Title:   title,
		Columns: []string{"Matricule", "Nom", "Prénom", "Email", "Téléphone", "Institut"},
		Rows:    rows,
	}
}
