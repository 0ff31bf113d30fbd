package models

import (
	"github.com/golang-jwt/jwt/v5"
)

// ExchangeClaims is the identity the hub attaches to each request. Course and
// role membership arrives pre-validated; the service trusts it and only
// mirrors it into the entity store.
type ExchangeClaims struct {
	Name          string              `json:"name"`
	OrgID         int                 `json:"org_id"`
	CurrentCourse string              `json:"course"`
	CurrentRole   string              `json:"role"`
	CourseTitle   string              `json:"course_title,omitempty"`
	Courses       map[string][]string `json:"courses"`

	jwt.RegisteredClaims
}

// SubscribedTo reports whether the caller is a member of the course in any role.
func (c *ExchangeClaims) SubscribedTo(courseCode string) bool {
	if c == nil {
		return false
	}
	if c.CurrentCourse == courseCode {
		return true
	}
	_, ok := c.Courses[courseCode]
	return ok
}

// InstructorOn reports whether any of the caller's roles on the course is
// "instructor", matched case-insensitively.
func (c *ExchangeClaims) InstructorOn(courseCode string) bool {
	if c == nil {
		return false
	}
	if c.CurrentCourse == courseCode && IsInstructorRole(c.CurrentRole) {
		return true
	}
	for _, role := range c.Courses[courseCode] {
		if IsInstructorRole(role) {
			return true
		}
	}
	return false
}
