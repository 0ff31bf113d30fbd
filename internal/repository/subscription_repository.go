package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/nbx-exchange-api/internal/models"
)

// SubscriptionRepository manages user-course-role membership rows.
type SubscriptionRepository struct {
	db *sqlx.DB
}

// NewSubscriptionRepository creates a new instance of SubscriptionRepository.
func NewSubscriptionRepository(db *sqlx.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

// FindBySet returns the subscription for an exact (user, course, role) triple.
func (r *SubscriptionRepository) FindBySet(ctx context.Context, userID, courseID int64, role string) (*models.Subscription, error) {
	const query = `SELECT id, user_id, course_id, role FROM subscriptions WHERE user_id = $1 AND course_id = $2 AND role = $3 LIMIT 1`
	var sub models.Subscription
	if err := r.db.GetContext(ctx, &sub, query, userID, courseID, role); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find subscription: %w", err)
	}
	return &sub, nil
}

// FindOrCreate records membership on first contact. A user may hold several
// roles on the same course as distinct rows; duplicates resolve through the
// unique index and a re-read.
func (r *SubscriptionRepository) FindOrCreate(ctx context.Context, userID, courseID int64, role string) (*models.Subscription, error) {
	const insert = `INSERT INTO subscriptions (user_id, course_id, role) VALUES ($1, $2, $3)
ON CONFLICT (user_id, course_id, role) DO NOTHING
RETURNING id, user_id, course_id, role`
	var sub models.Subscription
	err := r.db.GetContext(ctx, &sub, insert, userID, courseID, role)
	if err == nil {
		return &sub, nil
	}
	if err != sql.ErrNoRows {
		return nil, fmt.Errorf("create subscription: %w", err)
	}
	return r.FindBySet(ctx, userID, courseID, role)
}

// ListForUser returns every membership row for a user, joined with course codes.
func (r *SubscriptionRepository) ListForUser(ctx context.Context, userID int64) ([]models.SubscriptionDetail, error) {
	const query = `SELECT s.id, s.user_id, s.course_id, s.role, c.course_code
FROM subscriptions s
JOIN courses c ON c.id = s.course_id
WHERE s.user_id = $1
ORDER BY s.id`
	var subs []models.SubscriptionDetail
	if err := r.db.SelectContext(ctx, &subs, query, userID); err != nil {
		return nil, fmt.Errorf("list subscriptions for user: %w", err)
	}
	return subs, nil
}
