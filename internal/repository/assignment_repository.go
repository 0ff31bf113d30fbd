package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/nbx-exchange-api/internal/models"
)

// AssignmentRepository manages assignments, their notebook sets and the
// transactional write sets around releasing and unreleasing.
type AssignmentRepository struct {
	db *sqlx.DB
}

// NewAssignmentRepository creates a new instance of AssignmentRepository.
func NewAssignmentRepository(db *sqlx.DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

// FindByCode returns the assignment matching the code within the course and
// the requested active state. The latest row wins when a code was recycled.
func (r *AssignmentRepository) FindByCode(ctx context.Context, courseID int64, code string, active bool) (*models.Assignment, error) {
	const query = `SELECT id, course_id, assignment_code, active FROM assignments
WHERE course_id = $1 AND assignment_code = $2 AND active = $3
ORDER BY id DESC LIMIT 1`
	var assignment models.Assignment
	if err := r.db.GetContext(ctx, &assignment, query, courseID, code, active); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find assignment by code: %w", err)
	}
	return &assignment, nil
}

// FindForCourse returns every assignment of the course, active or not, in
// creation order. Listing views include inactive history.
func (r *AssignmentRepository) FindForCourse(ctx context.Context, courseID int64) ([]models.Assignment, error) {
	const query = `SELECT id, course_id, assignment_code, active FROM assignments WHERE course_id = $1 ORDER BY id`
	var assignments []models.Assignment
	if err := r.db.SelectContext(ctx, &assignments, query, courseID); err != nil {
		return nil, fmt.Errorf("find assignments for course: %w", err)
	}
	return assignments, nil
}

// NotebooksForCourse returns notebook rows for every assignment in a course.
func (r *AssignmentRepository) NotebooksForCourse(ctx context.Context, courseID int64) ([]models.Notebook, error) {
	const query = `SELECT n.id, n.assignment_id, n.name
FROM notebooks n
JOIN assignments a ON a.id = n.assignment_id
WHERE a.course_id = $1
ORDER BY n.id`
	var notebooks []models.Notebook
	if err := r.db.SelectContext(ctx, &notebooks, query, courseID); err != nil {
		return nil, fmt.Errorf("find notebooks for course: %w", err)
	}
	return notebooks, nil
}

// ReleaseWrite is the database half of a release: performed after the
// artifact is on disk, committed as a single transaction so the ledger and
// the entity rows never diverge.
type ReleaseWrite struct {
	CourseID       int64
	AssignmentCode string
	Notebooks      []string
	UserID         int64
	Location       string
}

// CreateRelease creates or reactivates the assignment, replaces its notebook
// set and appends the released action, all in one transaction. Re-releasing
// a previously unreleased code reuses the same assignment row.
func (r *AssignmentRepository) CreateRelease(ctx context.Context, rel ReleaseWrite) (*models.Assignment, *models.Action, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("begin release: %w", err)
	}
	commit := false
	defer func() {
		if !commit {
			_ = tx.Rollback()
		}
	}()

	var assignment models.Assignment
	const find = `SELECT id, course_id, assignment_code, active FROM assignments
WHERE course_id = $1 AND assignment_code = $2
ORDER BY id DESC LIMIT 1`
	err = tx.GetContext(ctx, &assignment, find, rel.CourseID, rel.AssignmentCode)
	switch {
	case err == sql.ErrNoRows:
		const insert = `INSERT INTO assignments (course_id, assignment_code, active) VALUES ($1, $2, TRUE)
RETURNING id, course_id, assignment_code, active`
		if err := tx.GetContext(ctx, &assignment, insert, rel.CourseID, rel.AssignmentCode); err != nil {
			return nil, nil, fmt.Errorf("create assignment: %w", err)
		}
	case err != nil:
		return nil, nil, fmt.Errorf("find assignment for release: %w", err)
	default:
		const reactivate = `UPDATE assignments SET active = TRUE WHERE id = $1`
		if _, err := tx.ExecContext(ctx, reactivate, assignment.ID); err != nil {
			return nil, nil, fmt.Errorf("reactivate assignment: %w", err)
		}
		assignment.Active = true
	}

	// Replace the notebook set wholesale.
	if _, err := tx.ExecContext(ctx, `DELETE FROM notebooks WHERE assignment_id = $1`, assignment.ID); err != nil {
		return nil, nil, fmt.Errorf("clear notebooks: %w", err)
	}
	const insertNotebook = `INSERT INTO notebooks (assignment_id, name) VALUES ($1, $2)`
	for _, name := range rel.Notebooks {
		if _, err := tx.ExecContext(ctx, insertNotebook, assignment.ID, name); err != nil {
			return nil, nil, fmt.Errorf("insert notebook: %w", err)
		}
	}

	action, err := insertAction(ctx, tx, &models.Action{
		UserID:       rel.UserID,
		AssignmentID: assignment.ID,
		Kind:         models.ActionReleased,
		Location:     &rel.Location,
	})
	if err != nil {
		return nil, nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("commit release: %w", err)
	}
	commit = true
	return &assignment, action, nil
}

// Deactivate soft-deletes an assignment: active=false and notebook rows
// removed in one transaction. The action ledger is left untouched.
func (r *AssignmentRepository) Deactivate(ctx context.Context, assignmentID int64) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin deactivate: %w", err)
	}
	commit := false
	defer func() {
		if !commit {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx, `UPDATE assignments SET active = FALSE WHERE id = $1 AND active = TRUE`, assignmentID)
	if err != nil {
		return fmt.Errorf("deactivate assignment: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("check deactivate rows: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM notebooks WHERE assignment_id = $1`, assignmentID); err != nil {
		return fmt.Errorf("clear notebooks: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit deactivate: %w", err)
	}
	commit = true
	return nil
}

func insertAction(ctx context.Context, exec sqlx.ExtContext, action *models.Action) (*models.Action, error) {
	if action.Timestamp.IsZero() {
		action.Timestamp = time.Now().UTC()
	}
	const query = `INSERT INTO actions (user_id, assignment_id, kind, location, timestamp)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, user_id, assignment_id, kind, location, timestamp`
	var stored models.Action
	if err := sqlx.GetContext(ctx, exec, &stored, query, action.UserID, action.AssignmentID, action.Kind, action.Location, action.Timestamp); err != nil {
		return nil, fmt.Errorf("insert action: %w", err)
	}
	return &stored, nil
}
