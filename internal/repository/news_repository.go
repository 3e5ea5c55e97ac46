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

const newsColumns = `id, title, body, image_url, published, published_at, author_id, created_at, updated_at`

// NewsRepository provides database access for announcements.
type NewsRepository struct {
	db *sqlx.DB
}

// NewNewsRepository creates a new instance of NewsRepository.
func NewNewsRepository(db *sqlx.DB) *NewsRepository {
	return &NewsRepository{db: db}
}

// FindByID returns a news entry by identifier.
func (r *NewsRepository) FindByID(ctx context.Context, id string) (*models.News, error) {
	query := fmt.Sprintf(`SELECT %s FROM news WHERE id = $1 LIMIT 1`, newsColumns)
	var item models.News
	if err := r.db.GetContext(ctx, &item, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find news by id: %w", err)
	}
	return &item, nil
}

// List returns news entries matching the filter with total count.
func (r *NewsRepository) List(ctx context.Context, filter models.NewsFilter) ([]models.News, int, error) {
	baseQuery := `FROM news WHERE 1=1`
	var args []interface{}

	if filter.PublishedOnly {
		baseQuery += " AND published = TRUE"
	}
	if filter.Search != "" {
		idx := len(args) + 1
		baseQuery += fmt.Sprintf(" AND (LOWER(title) LIKE $%d OR LOWER(body) LIKE $%d)", idx, idx)
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

	listQuery := fmt.Sprintf("SELECT %s %s ORDER BY COALESCE(published_at, created_at) DESC LIMIT %d OFFSET %d", newsColumns, baseQuery, pageSize, offset)

	var items []models.News
	if err := r.db.SelectContext(ctx, &items, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list news: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", baseQuery)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count news: %w", err)
	}

	return items, total, nil
}

// Create inserts a news entry.
func (r *NewsRepository) Create(ctx context.Context, item *models.News) error {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if item.CreatedAt.IsZero() {
		item.CreatedAt = now
	}
	item.UpdatedAt = now

	const query = `INSERT INTO news (id, title, body, image_url, published, published_at, author_id, created_at, updated_at)
VALUES (:id, :title, :body, :image_url, :published, :published_at, :author_id, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, item); err != nil {
		return fmt.Errorf("create news: %w", err)
	}
	return nil
}

// Update updates a news entry.
func (r *NewsRepository) Update(ctx context.Context, item *models.News) error {
	item.UpdatedAt = time.Now().UTC()
	const query = `UPDATE news SET title = :title, body = :body, image_url = :image_url, published = :published,
published_at = :published_at, updated_at = :updated_at
WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, item); err != nil {
		return fmt.Errorf("update news: %w", err)
	}
	return nil
}

// Delete removes the news row.
func (r *NewsRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM news WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete news: %w", err)
	}
	return nil
}
