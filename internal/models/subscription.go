package models

import "strings"

// Subscription joins a user to a course under a role. A user may hold several
// roles on the same course as distinct rows; rows are never removed.
type Subscription struct {
	ID       int64  `db:"id" json:"id"`
	UserID   int64  `db:"user_id" json:"user_id"`
	CourseID int64  `db:"course_id" json:"course_id"`
	Role     string `db:"role" json:"role"`
}

// SubscriptionDetail is a membership row joined with its course code, used
// by the identity bootstrap to report every course the user belongs to.
type SubscriptionDetail struct {
	Subscription
	CourseCode string `db:"course_code" json:"course_code"`
}

const (
	RoleInstructor = "instructor"
	RoleStudent    = "student"
)

// IsInstructorRole reports whether the role grants instructor rights.
// Role strings arrive from the identity provider and match case-insensitively.
func IsInstructorRole(role string) bool {
	return strings.EqualFold(role, RoleInstructor)
}
