package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/nbx-exchange-api/internal/models"
)

// CourseRepository provides database access for courses.
type CourseRepository struct {
	db *sqlx.DB
}

// NewCourseRepository creates a new instance of CourseRepository.
func NewCourseRepository(db *sqlx.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

// FindByCode returns a course by (org_id, course_code).
func (r *CourseRepository) FindByCode(ctx context.Context, orgID int, code string) (*models.Course, error) {
	const query = `SELECT id, org_id, course_code, course_title FROM courses WHERE org_id = $1 AND course_code = $2 LIMIT 1`
	var course models.Course
	if err := r.db.GetContext(ctx, &course, query, orgID, code); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find course by code: %w", err)
	}
	return &course, nil
}

// FindOrCreate inserts the course on first reference. The title is recorded
// at creation only; concurrent first references resolve through the unique
// index and a re-read.
func (r *CourseRepository) FindOrCreate(ctx context.Context, orgID int, code string, title *string) (*models.Course, error) {
	const insert = `INSERT INTO courses (org_id, course_code, course_title) VALUES ($1, $2, $3)
ON CONFLICT (org_id, course_code) DO NOTHING
RETURNING id, org_id, course_code, course_title`
	var course models.Course
	err := r.db.GetContext(ctx, &course, insert, orgID, code, title)
	if err == nil {
		return &course, nil
	}
	if err != sql.ErrNoRows {
		return nil, fmt.Errorf("create course: %w", err)
	}
	return r.FindByCode(ctx, orgID, code)
}
