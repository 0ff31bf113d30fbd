package dto

// NotebookRef names one notebook inside an assignment listing entry.
// nbgrader clients expect the list even when empty.
type NotebookRef struct {
	Name string `json:"name"`
}

// AssignmentListItem is one row of the assignment listing or collections
// view. assignment_id and course_id carry the human codes, not surrogate
// ids, and status is the literal action-kind token.
type AssignmentListItem struct {
	AssignmentID string        `json:"assignment_id"`
	CourseID     string        `json:"course_id"`
	Status       string        `json:"status"`
	Path         string        `json:"path"`
	Notebooks    []NotebookRef `json:"notebooks"`
	Timestamp    string        `json:"timestamp"`
}

// UserModel is the identity bootstrap response: who the caller is and every
// course/role membership the store knows about.
type UserModel struct {
	Name          string                    `json:"name"`
	OrgID         int                       `json:"org_id"`
	CurrentCourse string                    `json:"current_course"`
	CurrentRole   string                    `json:"current_role"`
	Courses       map[string]map[string]int `json:"courses"`
}
