package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/nbx-exchange-api/internal/models"
)

// UserRepository provides database access for exchange users.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new instance of UserRepository.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindByName returns a user by its natural key. Every lookup carries the
// org id so cross-tenant reads are structurally impossible.
func (r *UserRepository) FindByName(ctx context.Context, orgID int, name string) (*models.User, error) {
	const query = `SELECT id, org_id, name FROM users WHERE org_id = $1 AND name = $2 LIMIT 1`
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, orgID, name); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find user by name: %w", err)
	}
	return &user, nil
}

// FindOrCreate inserts the user on first contact. Two concurrent first
// contacts race on the unique index; the loser falls back to re-reading the
// winning row instead of surfacing the conflict.
func (r *UserRepository) FindOrCreate(ctx context.Context, orgID int, name string) (*models.User, error) {
	const insert = `INSERT INTO users (org_id, name) VALUES ($1, $2)
ON CONFLICT (org_id, name) DO NOTHING
RETURNING id, org_id, name`
	var user models.User
	err := r.db.GetContext(ctx, &user, insert, orgID, name)
	if err == nil {
		return &user, nil
	}
	if err != sql.ErrNoRows {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return r.FindByName(ctx, orgID, name)
}
