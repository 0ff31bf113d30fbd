package models

// User is a lazily created identity scoped to an organisation. Users are
// never deleted; the row exists from first authenticated contact onwards.
type User struct {
	ID    int64  `db:"id" json:"id"`
	OrgID int    `db:"org_id" json:"org_id"`
	Name  string `db:"name" json:"name"`
}
