package models

import "time"

// ActionKind enumerates the lifecycle steps recorded in the ledger. The
// literal tokens are exposed to clients as status strings.
type ActionKind string

const (
	ActionReleased  ActionKind = "released"
	ActionFetched   ActionKind = "fetched"
	ActionSubmitted ActionKind = "submitted"
	ActionCollected ActionKind = "collected"
)

// ActionTimeLayout is the wire format for ledger timestamps, always UTC.
const ActionTimeLayout = "2006-01-02 15:04:05.000000 MST"

// Action is an immutable ledger fact: who did what to which assignment, when,
// and where the artifact lives. Rows are never updated or deleted; all
// derived state (current status, latest release) is computed from the
// ordered sequence. IDs are monotonic, so the greatest id of a kind is the
// most recent.
type Action struct {
	ID           int64      `db:"id" json:"id"`
	UserID       int64      `db:"user_id" json:"user_id"`
	AssignmentID int64      `db:"assignment_id" json:"assignment_id"`
	Kind         ActionKind `db:"kind" json:"kind"`
	Location     *string    `db:"location" json:"location,omitempty"`
	Timestamp    time.Time  `db:"timestamp" json:"timestamp"`
}

// FormatTimestamp renders the action's timestamp in the exchange wire format.
func (a Action) FormatTimestamp() string {
	return a.Timestamp.UTC().Format(ActionTimeLayout)
}
