package service

import (
	"github.com/noah-isme/nbx-exchange-api/internal/dto"
	"github.com/noah-isme/nbx-exchange-api/internal/models"
)

// Status resolution: all caller-visible state is derived by scanning the
// ordered action ledger. No status column exists anywhere.

// visibleToViewer applies the listing policy: release events are a shared
// organisational fact and always visible; every other kind is personal and
// shown only to its author.
func visibleToViewer(viewerID int64, action models.Action) bool {
	if action.Kind == models.ActionReleased {
		return true
	}
	return action.UserID == viewerID
}

// latestRelease selects the authoritative released action: the greatest id
// among kind=released. The slice is ledger-ordered, so the last match wins.
func latestRelease(actions []models.Action) *models.Action {
	for i := len(actions) - 1; i >= 0; i-- {
		if actions[i].Kind == models.ActionReleased {
			return &actions[i]
		}
	}
	return nil
}

// actionsByAssignment groups a ledger-ordered slice without disturbing the
// per-assignment order.
func actionsByAssignment(actions []models.Action) map[int64][]models.Action {
	grouped := make(map[int64][]models.Action)
	for _, action := range actions {
		grouped[action.AssignmentID] = append(grouped[action.AssignmentID], action)
	}
	return grouped
}

// notebooksByAssignment groups notebook rows keyed by assignment id.
func notebooksByAssignment(notebooks []models.Notebook) map[int64][]dto.NotebookRef {
	grouped := make(map[int64][]dto.NotebookRef)
	for _, nb := range notebooks {
		grouped[nb.AssignmentID] = append(grouped[nb.AssignmentID], dto.NotebookRef{Name: nb.Name})
	}
	return grouped
}

func listItem(assignment models.Assignment, courseCode string, action models.Action, notebooks []dto.NotebookRef) dto.AssignmentListItem {
	if notebooks == nil {
		notebooks = []dto.NotebookRef{}
	}
	location := ""
	if action.Location != nil {
		location = *action.Location
	}
	return dto.AssignmentListItem{
		AssignmentID: assignment.AssignmentCode,
		CourseID:     courseCode,
		Status:       string(action.Kind),
		Path:         location,
		Notebooks:    notebooks,
		Timestamp:    action.FormatTimestamp(),
	}
}

// resolveListing builds the per-viewer assignment view (one row per visible
// action, ledger order within each assignment).
func resolveListing(viewerID int64, courseCode string, assignments []models.Assignment, actions []models.Action, notebooks []models.Notebook) []dto.AssignmentListItem {
	grouped := actionsByAssignment(actions)
	nbGrouped := notebooksByAssignment(notebooks)

	items := make([]dto.AssignmentListItem, 0, len(actions))
	for _, assignment := range assignments {
		for _, action := range grouped[assignment.ID] {
			if !visibleToViewer(viewerID, action) {
				continue
			}
			items = append(items, listItem(assignment, courseCode, action, nbGrouped[assignment.ID]))
		}
	}
	return items
}

// resolveCollections builds the collector view: submitted actions only,
// grouped by assignment, release and fetch noise ignored.
func resolveCollections(courseCode string, assignments []models.Assignment, actions []models.Action, notebooks []models.Notebook) []dto.AssignmentListItem {
	grouped := actionsByAssignment(actions)
	nbGrouped := notebooksByAssignment(notebooks)

	items := make([]dto.AssignmentListItem, 0)
	for _, assignment := range assignments {
		for _, action := range grouped[assignment.ID] {
			if action.Kind != models.ActionSubmitted {
				continue
			}
			items = append(items, listItem(assignment, courseCode, action, nbGrouped[assignment.ID]))
		}
	}
	return items
}
