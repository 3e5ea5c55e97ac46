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

// FiliereRepository provides database access for academic tracks.
type FiliereRepository struct {
	db *sqlx.DB
}

// NewFiliereRepository creates a new instance of FiliereRepository.
func NewFiliereRepository(db *sqlx.DB) *FiliereRepository {
	return &FiliereRepository{db: db}
}

// FindByID returns a filière by identifier.
func (r *FiliereRepository) FindByID(ctx context.Context, id string) (*models.Filiere, error) {
	const query = `SELECT id, name, institute, description, created_at, updated_at FROM filieres WHERE id = $1 LIMIT 1`
	var filiere models.Filiere
	if err := r.db.GetContext(ctx, &filiere, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find filiere by id: %w", err)
	}
	return &filiere, nil
}

// List returns filières, optionally scoped to one institute or a search term.
func (r *FiliereRepository) List(ctx context.Context, institute *models.Institute, search string) ([]models.Filiere, error) {
	query := `SELECT id, name, institute, description, created_at, updated_at FROM filieres WHERE 1=1`
	var args []interface{}
	if institute != nil {
		query += fmt.Sprintf(" AND institute = $%d", len(args)+1)
		args = append(args, *institute)
	}
	if search != "" {
		query += fmt.Sprintf(" AND LOWER(name) LIKE $%d", len(args)+1)
		args = append(args, "%"+strings.ToLower(search)+"%")
	}
	query += ` ORDER BY institute ASC, name ASC`

	var filieres []models.Filiere
	if err := r.db.SelectContext(ctx, &filieres, query, args...); err != nil {
		return nil, fmt.Errorf("list filieres: %w", err)
	}
	return filieres, nil
}

// Create inserts a new filière.
func (r *FiliereRepository) Create(ctx context.Context, filiere *models.Filiere) error {
	if filiere.ID == "" {
		filiere.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if filiere.CreatedAt.IsZero() {
		filiere.CreatedAt = now
	}
	filiere.UpdatedAt = now

	const query = `INSERT INTO filieres (id, name, institute, description, created_at, updated_at)
VALUES (:id, :name, :institute, :description, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, filiere); err != nil {
		return fmt.Errorf("create filiere: %w", err)
	}
	return nil
}

// Update updates a filière.
func (r *FiliereRepository) Update(ctx context.Context, filiere *models.Filiere) error {
	filiere.UpdatedAt = time.Now().UTC()
	const query = `UPDATE filieres SET name = :name, institute = :institute, description = :description, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, filiere); err != nil {
		return fmt.Errorf("update filiere: %w", err)
	}
	return nil
}

// Delete removes the filière row.
func (r *FiliereRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM filieres WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete filiere: %w", err)
	}
	return nil
}
