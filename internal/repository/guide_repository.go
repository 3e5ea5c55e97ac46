package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ucao-academy/web-academy-api/internal/models"
)

const guideColumns = `id, title, content, status, position, created_by, created_at, updated_at`

// GuideRepository provides database access for student guides.
type GuideRepository struct {
	db *sqlx.DB
}

// NewGuideRepository creates a new instance of GuideRepository.
func NewGuideRepository(db *sqlx.DB) *GuideRepository {
	return &GuideRepository{db: db}
}

// FindByID returns a guide by identifier.
func (r *GuideRepository) FindByID(ctx context.Context, id string) (*models.Guide, error) {
	query := fmt.Sprintf(`SELECT %s FROM guides WHERE id = $1 LIMIT 1`, guideColumns)
	var guide models.Guide
	if err := r.db.GetContext(ctx, &guide, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find guide by id: %w", err)
	}
	return &guide, nil
}

// List returns guides matching the filter with total count.
func (r *GuideRepository) List(ctx context.Context, filter models.ContentFilter) ([]models.Guide, int, error) {
	baseQuery := `FROM guides WHERE 1=1`
	var args []interface{}

	if filter.PublishedOnly {
		baseQuery += fmt.Sprintf(" AND status = $%d", len(args)+1)
		args = append(args, models.PublicationStatusPublished)
	}
	if filter.Search != "" {
		baseQuery += fmt.Sprintf(" AND LOWER(title) LIKE $%d", len(args)+1)
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	listQuery := fmt.Sprintf("SELECT %s %s ORDER BY position ASC, created_at DESC LIMIT %d OFFSET %d", guideColumns, baseQuery, pageSize, offset)

	var guides []models.Guide
	if err := r.db.SelectContext(ctx, &guides, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list guides: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", baseQuery)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count guides: %w", err)
	}

	return guides, total, nil
}

// Create inserts a new guide.
func (r *GuideRepository) Create(ctx context.Context, guide *models.Guide) error {
	if guide.ID == "" {
		guide.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if guide.CreatedAt.IsZero() {
		guide.CreatedAt = now
	}
	guide.UpdatedAt = now

	const query = `INSERT INTO guides (id, title, content, status, position, created_by, created_at, updated_at)
VALUES (:id, :title, :content, :status, :position, :created_by, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, guide); err != nil {
		return fmt.Errorf("create guide: %w", err)
	}
	return nil
}

// Update updates a guide.
func (r *GuideRepository) Update(ctx context.Context, guide *models.Guide) error {
	guide.UpdatedAt = time.Now().UTC()
	const query = `UPDATE guides SET title = :title, content = :content, status = :status, position = :position, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, guide); err != nil {
		return fmt.Errorf("update guide: %w", err)
	}
	return nil
}

// Delete removes the guide row.
func (r *GuideRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM guides WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete guide: %w", err)
	}
	return nil
}
