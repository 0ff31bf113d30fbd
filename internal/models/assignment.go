package models

// Assignment is a course's released piece of work. assignment_code resolves
// within the course only. active=false marks an unreleased assignment whose
// history is retained; re-releasing the same code reactivates the row rather
// than duplicating it.
type Assignment struct {
	ID             int64  `db:"id" json:"id"`
	CourseID       int64  `db:"course_id" json:"course_id"`
	AssignmentCode string `db:"assignment_code" json:"assignment_code"`
	Active         bool   `db:"active" json:"active"`
}

// Notebook names one notebook file bundled in an assignment's last release.
// The set is replaced wholesale on each release and emptied on unrelease.
type Notebook struct {
	ID           int64  `db:"id" json:"id"`
	AssignmentID int64  `db:"assignment_id" json:"assignment_id"`
	Name         string `db:"name" json:"name"`
}
