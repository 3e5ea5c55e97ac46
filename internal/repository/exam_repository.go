package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ucao-academy/web-academy-api/internal/models"
)

const examColumns = `id, course_id, filiere_id, niveau, date, duration_minutes, room, semester, created_at, updated_at`

// ExamRepository provides database access for exam sessions.
type ExamRepository struct {
	db *sqlx.DB
}

// NewExamRepository creates a new instance of ExamRepository.
func NewExamRepository(db *sqlx.DB) *ExamRepository {
	return &ExamRepository{db: db}
}

// FindByID returns an exam by identifier.
func (r *ExamRepository) FindByID(ctx context.Context, id string) (*models.Exam, error) {
	query := fmt.Sprintf(`SELECT %s FROM exams WHERE id = $1 LIMIT 1`, examColumns)
	var exam models.Exam
	if err := r.db.GetContext(ctx, &exam, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find exam by id: %w", err)
	}
	return &exam, nil
}

// List returns exams matching the filter with total count.
func (r *ExamRepository) List(ctx context.Context, filter models.ExamFilter) ([]models.Exam, int, error) {
	baseQuery := `FROM exams WHERE 1=1`
	var args []interface{}

	if filter.FiliereID != "" {
		baseQuery += fmt.Sprintf(" AND filiere_id = $%d", len(args)+1)
		args = append(args, filter.FiliereID)
	}
	if filter.CourseID != "" {
		baseQuery += fmt.Sprintf(" AND course_id = $%d", len(args)+1)
		args = append(args, filter.CourseID)
	}
	if filter.Niveau != nil {
		baseQuery += fmt.Sprintf(" AND niveau = $%d", len(args)+1)
		args = append(args, *filter.Niveau)
	}
	if filter.Semester != "" {
		baseQuery += fmt.Sprintf(" AND semester = $%d", len(args)+1)
		args = append(args, filter.Semester)
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 50
	}
	offset := (page - 1) * pageSize

	listQuery := fmt.Sprintf("SELECT %s %s ORDER BY date ASC LIMIT %d OFFSET %d", examColumns, baseQuery, pageSize, offset)

	var exams []models.Exam
	if err := r.db.SelectContext(ctx, &exams, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list exams: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", baseQuery)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count exams: %w", err)
	}

	return exams, total, nil
}

// Create inserts an exam.
func (r *ExamRepository) Create(ctx context.Context, exam *models.Exam) error {
	if exam.ID == "" {
		exam.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if exam.CreatedAt.IsZero() {
		exam.CreatedAt = now
	}
	exam.UpdatedAt = now

	const query = `INSERT INTO exams (id, course_id, filiere_id, niveau, date, duration_minutes, room, semester, created_at, updated_at)
VALUES (:id, :course_id, :filiere_id, :niveau, :date, :duration_minutes, :room, :semester, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, exam); err != nil {
		return fmt.Errorf("create exam: %w", err)
	}
	return nil
}

// Update updates an exam.
func (r *ExamRepository) Update(ctx context.Context, exam *models.Exam) error {
	exam.UpdatedAt = time.Now().UTC()
	const query = `UPDATE exams SET course_id = :course_id, filiere_id = :filiere_id, niveau = :niveau, date = :date,
duration_minutes = :duration_minutes, room = :room, semester = :semester, updated_at = :updated_at
WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, exam); err != nil {
		return fmt.Errorf("update exam: %w", err)
	}
	return nil
}

// Delete removes the exam row.
func (r *ExamRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM exams WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete exam: %w", err)
	}
	return nil
}
