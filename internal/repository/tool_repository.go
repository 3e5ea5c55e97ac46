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

const toolColumns = `id, title, url, description, status, position, created_by, created_at, updated_at`

// ToolRepository provides database access for dashboard tools.
type ToolRepository struct {
	db *sqlx.DB
}

// NewToolRepository creates a new instance of ToolRepository.
func NewToolRepository(db *sqlx.DB) *ToolRepository {
	return &ToolRepository{db: db}
}

// FindByID returns a tool by identifier.
func (r *ToolRepository) FindByID(ctx context.Context, id string) (*models.Tool, error) {
	query := fmt.Sprintf(`SELECT %s FROM tools WHERE id = $1 LIMIT 1`, toolColumns)
	var tool models.Tool
	if err := r.db.GetContext(ctx, &tool, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find tool by id: %w", err)
	}
	return &tool, nil
}

// List returns tools matching the filter with total count.
func (r *ToolRepository) List(ctx context.Context, filter models.ContentFilter) ([]models.Tool, int, error) {
	baseQuery := `FROM tools WHERE 1=1`
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

	listQuery := fmt.Sprintf("SELECT %s %s ORDER BY position ASC, created_at DESC LIMIT %d OFFSET %d", toolColumns, baseQuery, pageSize, offset)

	var tools []models.Tool
	if err := r.db.SelectContext(ctx, &tools, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list tools: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", baseQuery)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count tools: %w", err)
	}

	return tools, total, nil
}

// Create inserts a new tool.
func (r *ToolRepository) Create(ctx context.Context, tool *models.Tool) error {
	if tool.ID == "" {
		tool.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if tool.CreatedAt.IsZero() {
		tool.CreatedAt = now
	}
	tool.UpdatedAt = now

	const query = `INSERT INTO tools (id, title, url, description, status, position, created_by, created_at, updated_at)
VALUES (:id, :title, :url, :description, :status, :position, :created_by, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, tool); err != nil {
		return fmt.Errorf("create tool: %w", err)
	}
	return nil
}

// Update updates a tool.
func (r *ToolRepository) Update(ctx context.Context, tool *models.Tool) error {
	tool.UpdatedAt = time.Now().UTC()
	const query = `UPDATE tools SET title = :title, url = :url, description = :description, status = :status, position = :position, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, tool); err != nil {
		return fmt.Errorf("update tool: %w", err)
	}
	return nil
}

// Delete removes the tool row.
func (r *ToolRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM tools WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete tool: %w", err)
	}
	return nil
}
