package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/nbx-exchange-api/internal/models"
)

// ActionRepository is the append-only ledger. Inserts only; no update or
// delete statements exist against the actions table anywhere in the service.
type ActionRepository struct {
	db *sqlx.DB
}

// NewActionRepository creates a new instance of ActionRepository.
func NewActionRepository(db *sqlx.DB) *ActionRepository {
	return &ActionRepository{db: db}
}

// Record appends one action and returns the stored row with its ledger id.
func (r *ActionRepository) Record(ctx context.Context, action *models.Action) (*models.Action, error) {
	return insertAction(ctx, r.db, action)
}

// ForAssignment returns the full ordered history of one assignment.
func (r *ActionRepository) ForAssignment(ctx context.Context, assignmentID int64) ([]models.Action, error) {
	const query = `SELECT id, user_id, assignment_id, kind, location, timestamp
FROM actions WHERE assignment_id = $1 ORDER BY id`
	var actions []models.Action
	if err := r.db.SelectContext(ctx, &actions, query, assignmentID); err != nil {
		return nil, fmt.Errorf("actions for assignment: %w", err)
	}
	return actions, nil
}

// ForCourse returns the ordered history of every assignment in a course.
func (r *ActionRepository) ForCourse(ctx context.Context, courseID int64) ([]models.Action, error) {
	const query = `SELECT ac.id, ac.user_id, ac.assignment_id, ac.kind, ac.location, ac.timestamp
FROM actions ac
JOIN assignments a ON a.id = ac.assignment_id
WHERE a.course_id = $1
ORDER BY ac.id`
	var actions []models.Action
	if err := r.db.SelectContext(ctx, &actions, query, courseID); err != nil {
		return nil, fmt.Errorf("actions for course: %w", err)
	}
	return actions, nil
}

// FindSubmittedByLocation returns the submitted action recorded for an exact
// artifact path within a course, if any. Collection downloads are vetted
// against this: a path that never appeared in a submitted action is not
// served, whatever else may live on disk.
func (r *ActionRepository) FindSubmittedByLocation(ctx context.Context, courseID int64, location string) (*models.Action, error) {
	const query = `SELECT ac.id, ac.user_id, ac.assignment_id, ac.kind, ac.location, ac.timestamp
FROM actions ac
JOIN assignments a ON a.id = ac.assignment_id
WHERE a.course_id = $1 AND ac.kind = $2 AND ac.location = $3
ORDER BY ac.id DESC LIMIT 1`
	var action models.Action
	if err := r.db.GetContext(ctx, &action, query, courseID, models.ActionSubmitted, location); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find submitted action by location: %w", err)
	}
	return &action, nil
}
