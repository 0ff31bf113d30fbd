package models

// Course is created lazily when a caller first references a course code.
// (org_id, course_code) is unique; the title is optional metadata.
type Course struct {
	ID          int64   `db:"id" json:"id"`
	OrgID       int     `db:"org_id" json:"org_id"`
	CourseCode  string  `db:"course_code" json:"course_code"`
	CourseTitle *string `db:"course_title" json:"course_title,omitempty"`
}
