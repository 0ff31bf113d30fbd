package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/nbx-exchange-api/internal/models"
)

func TestVisibleToViewer(t *testing.T) {
	release := models.Action{UserID: 7, Kind: models.ActionReleased}
	ownFetch := models.Action{UserID: 8, Kind: models.ActionFetched}
	otherSubmit := models.Action{UserID: 9, Kind: models.ActionSubmitted}

	assert.True(t, visibleToViewer(8, release))
	assert.True(t, visibleToViewer(8, ownFetch))
	assert.False(t, visibleToViewer(8, otherSubmit))
	assert.True(t, visibleToViewer(9, otherSubmit))
}

func TestLatestReleaseWinsByID(t *testing.T) {
	actions := []models.Action{
		{ID: 1, Kind: models.ActionReleased, Location: strPtr("/first")},
		{ID: 2, Kind: models.ActionFetched},
		{ID: 3, Kind: models.ActionReleased, Location: strPtr("/second")},
		{ID: 4, Kind: models.ActionSubmitted},
	}

	release := latestRelease(actions)
	require.NotNil(t, release)
	assert.Equal(t, int64(3), release.ID)
	assert.Equal(t, "/second", *release.Location)
}

func TestLatestReleaseNone(t *testing.T) {
	actions := []models.Action{
		{ID: 1, Kind: models.ActionFetched},
	}
	assert.Nil(t, latestRelease(actions))
}

func TestResolveListingFiltersOtherUsersActions(t *testing.T) {
	assignments := []models.Assignment{
		{ID: 10, CourseID: 4, AssignmentCode: "assign_1", Active: true},
	}
	now := time.Now().UTC()
	actions := []models.Action{
		{ID: 1, UserID: 7, AssignmentID: 10, Kind: models.ActionReleased, Location: strPtr("/rel"), Timestamp: now},
		{ID: 2, UserID: 8, AssignmentID: 10, Kind: models.ActionFetched, Location: strPtr("/rel"), Timestamp: now},
		{ID: 3, UserID: 9, AssignmentID: 10, Kind: models.ActionSubmitted, Location: strPtr("/sub"), Timestamp: now},
	}
	notebooks := []models.Notebook{
		{ID: 1, AssignmentID: 10, Name: "intro"},
	}

	items := resolveListing(8, "course_2", assignments, actions, notebooks)
	require.Len(t, items, 2)
	assert.Equal(t, "released", items[0].Status)
	assert.Equal(t, "fetched", items[1].Status)
	assert.Equal(t, "assign_1", items[0].AssignmentID)
	require.Len(t, items[0].Notebooks, 1)
	assert.Equal(t, "intro", items[0].Notebooks[0].Name)
}

func TestResolveListingTimestampFormat(t *testing.T) {
	ts := time.Date(2024, 3, 1, 12, 0, 0, 123456000, time.UTC)
	assignments := []models.Assignment{{ID: 10, CourseID: 4, AssignmentCode: "assign_1", Active: true}}
	actions := []models.Action{
		{ID: 1, UserID: 7, AssignmentID: 10, Kind: models.ActionReleased, Timestamp: ts},
	}

	items := resolveListing(7, "course_2", assignments, actions, nil)
	require.Len(t, items, 1)
	assert.Equal(t, "2024-03-01 12:00:00.123456 UTC", items[0].Timestamp)
	assert.NotNil(t, items[0].Notebooks)
	assert.Empty(t, items[0].Notebooks)
}

func TestResolveCollectionsKeepsOnlySubmitted(t *testing.T) {
	assignments := []models.Assignment{
		{ID: 10, CourseID: 4, AssignmentCode: "assign_1", Active: true},
		{ID: 11, CourseID: 4, AssignmentCode: "assign_2", Active: false},
	}
	now := time.Now().UTC()
	actions := []models.Action{
		{ID: 1, UserID: 7, AssignmentID: 10, Kind: models.ActionReleased, Timestamp: now},
		{ID: 2, UserID: 8, AssignmentID: 10, Kind: models.ActionSubmitted, Location: strPtr("/sub1"), Timestamp: now},
		{ID: 3, UserID: 8, AssignmentID: 10, Kind: models.ActionFetched, Timestamp: now},
		{ID: 4, UserID: 9, AssignmentID: 11, Kind: models.ActionSubmitted, Location: strPtr("/sub2"), Timestamp: now},
	}

	items := resolveCollections("course_2", assignments, actions, nil)
	require.Len(t, items, 2)
	assert.Equal(t, "assign_1", items[0].AssignmentID)
	assert.Equal(t, "/sub1", items[0].Path)
	assert.Equal(t, "assign_2", items[1].AssignmentID)
	for _, item := range items {
		assert.Equal(t, "submitted", item.Status)
	}
}
