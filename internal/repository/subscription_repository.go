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

const subscriptionColumns = `id, student_id, filiere_id, niveau, academic_year, status, created_at, updated_at`

// SubscriptionRepository provides database access for enrollment requests.
type SubscriptionRepository struct {
	db *sqlx.DB
}

// NewSubscriptionRepository creates a new instance of SubscriptionRepository.
func NewSubscriptionRepository(db *sqlx.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

// FindByID returns a subscription by identifier.
func (r *SubscriptionRepository) FindByID(ctx context.Context, id string) (*models.Subscription, error) {
	query := fmt.Sprintf(`SELECT %s FROM subscriptions WHERE id = $1 LIMIT 1`, subscriptionColumns)
	var sub models.Subscription
	if err := r.db.GetContext(ctx, &sub, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find subscription by id: %w", err)
	}
	return &sub, nil
}

// FindActiveForStudent returns the student's subscription for one academic year
// that is not cancelled, if any.
func (r *SubscriptionRepository) FindActiveForStudent(ctx context.Context, studentID, academicYear string) (*models.Subscription, error) {
	query := fmt.Sprintf(`SELECT %s FROM subscriptions
WHERE student_id = $1 AND academic_year = $2 AND status <> $3
ORDER BY created_at DESC LIMIT 1`, subscriptionColumns)
	var sub models.Subscription
	if err := r.db.GetContext(ctx, &sub, query, studentID, academicYear, models.SubscriptionStatusCancelled); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find active subscription: %w", err)
	}
	return &sub, nil
}

// List returns subscriptions matching the filter with total count.
func (r *SubscriptionRepository) List(ctx context.Context, filter models.SubscriptionFilter) ([]models.Subscription, int, error) {
	baseQuery := `FROM subscriptions WHERE 1=1`
	var args []interface{}

	if filter.StudentID != "" {
		baseQuery += fmt.Sprintf(" AND student_id = $%d", len(args)+1)
		args = append(args, filter.StudentID)
	}
	if filter.FiliereID != "" {
		baseQuery += fmt.Sprintf(" AND filiere_id = $%d", len(args)+1)
		args = append(args, filter.FiliereID)
	}
	if filter.Status != nil {
		baseQuery += fmt.Sprintf(" AND status = $%d", len(args)+1)
		args = append(args, *filter.Status)
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

	listQuery := fmt.Sprintf("SELECT %s %s ORDER BY created_at DESC LIMIT %d OFFSET %d", subscriptionColumns, baseQuery, pageSize, offset)

	var subs []models.Subscription
	if err := r.db.SelectContext(ctx, &subs, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list subscriptions: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", baseQuery)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count subscriptions: %w", err)
	}

	return subs, total, nil
}

// Create inserts a subscription.
func (r *SubscriptionRepository) Create(ctx context.Context, sub *models.Subscription) error {
	if sub.ID == "" {
		sub.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if sub.CreatedAt.IsZero() {
		sub.CreatedAt = now
	}
	sub.UpdatedAt = now

	const query = `INSERT INTO subscriptions (id, student_id, filiere_id, niveau, academic_year, status, created_at, updated_at)
VALUES (:id, :student_id, :filiere_id, :niveau, :academic_year, :status, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, sub); err != nil {
		return fmt.Errorf("create subscription: %w", err)
	}
	return nil
}

// UpdateStatus transitions a subscription to a new status.
func (r *SubscriptionRepository) UpdateStatus(ctx context.Context, id string, status models.SubscriptionStatus) error {
	const query = `UPDATE subscriptions SET status = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, status, time.Now().UTC()); err != nil {
		return fmt.Errorf("update subscription status: %w", err)
	}
	return nil
}

// Delete removes the subscription row.
func (r *SubscriptionRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM subscriptions WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete subscription: %w", err)
	}
	return nil
}
