package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/nbx-exchange-api/internal/models"
	appErrors "github.com/noah-isme/nbx-exchange-api/pkg/errors"
)

func newCollection(identity *fakeIdentity, courses *fakeCourses, assignments *fakeAssignments, actions *fakeActions, artifacts *fakeArtifacts) *CollectionService {
	return NewCollectionService(identity, courses, assignments, actions, artifacts, nil, nil, nil)
}

func TestCollectionsListsSubmittedOnly(t *testing.T) {
	identity := &fakeIdentity{user: &models.User{ID: 7, OrgID: 1, Name: "1-kiz"}}
	courses := &fakeCourses{course: &models.Course{ID: 4, OrgID: 1, CourseCode: "course_2"}}
	assignments := &fakeAssignments{
		assignments: []models.Assignment{{ID: 10, CourseID: 4, AssignmentCode: "assign_1", Active: true}},
	}
	actions := &fakeActions{actions: []models.Action{
		{ID: 1, UserID: 7, AssignmentID: 10, Kind: models.ActionReleased, Timestamp: time.Now()},
		{ID: 2, UserID: 8, AssignmentID: 10, Kind: models.ActionSubmitted, Location: strPtr("/sub"), Timestamp: time.Now()},
		{ID: 3, UserID: 8, AssignmentID: 10, Kind: models.ActionFetched, Timestamp: time.Now()},
	}}
	svc := newCollection(identity, courses, assignments, actions, newFakeArtifacts())

	items, err := svc.Collections(context.Background(), "course_2", "", instructorClaims())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "submitted", items[0].Status)
	assert.Equal(t, "/sub", items[0].Path)
}

func TestCollectionsFiltersByAssignmentCode(t *testing.T) {
	identity := &fakeIdentity{user: &models.User{ID: 7, OrgID: 1, Name: "1-kiz"}}
	courses := &fakeCourses{course: &models.Course{ID: 4, OrgID: 1, CourseCode: "course_2"}}
	assignments := &fakeAssignments{
		assignments: []models.Assignment{
			{ID: 10, CourseID: 4, AssignmentCode: "assign_1", Active: true},
			{ID: 11, CourseID: 4, AssignmentCode: "assign_2", Active: true},
		},
	}
	actions := &fakeActions{actions: []models.Action{
		{ID: 1, UserID: 8, AssignmentID: 10, Kind: models.ActionSubmitted, Location: strPtr("/sub1"), Timestamp: time.Now()},
		{ID: 2, UserID: 8, AssignmentID: 11, Kind: models.ActionSubmitted, Location: strPtr("/sub2"), Timestamp: time.Now()},
	}}
	svc := newCollection(identity, courses, assignments, actions, newFakeArtifacts())

	items, err := svc.Collections(context.Background(), "course_2", "assign_2", instructorClaims())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "assign_2", items[0].AssignmentID)
}

func TestCollectionsRejectsStudent(t *testing.T) {
	svc := newCollection(&fakeIdentity{}, &fakeCourses{}, &fakeAssignments{}, &fakeActions{}, newFakeArtifacts())

	_, err := svc.Collections(context.Background(), "course_2", "", studentClaims())
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotInstructor.Code, appErr.Code)
}

func TestSubmissionsRequiresAssignmentCode(t *testing.T) {
	svc := newCollection(&fakeIdentity{}, &fakeCourses{}, &fakeAssignments{}, &fakeActions{}, newFakeArtifacts())

	_, err := svc.Submissions(context.Background(), "course_2", "", instructorClaims())
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestCollectOneServesSubmissionAndRecordsCollected(t *testing.T) {
	identity := &fakeIdentity{user: &models.User{ID: 7, OrgID: 1, Name: "1-kiz"}}
	courses := &fakeCourses{course: &models.Course{ID: 4, OrgID: 1, CourseCode: "course_2"}}
	actions := &fakeActions{submitted: &models.Action{
		ID: 2, UserID: 8, AssignmentID: 10, Kind: models.ActionSubmitted, Location: strPtr("/data/sub.tar.gz"),
	}}
	artifacts := newFakeArtifacts()
	artifacts.data = []byte("submission")
	svc := newCollection(identity, courses, &fakeAssignments{}, actions, artifacts)

	dl, err := svc.CollectOne(context.Background(), "course_2", "/data/sub.tar.gz", instructorClaims())
	require.NoError(t, err)
	assert.Equal(t, []byte("submission"), dl.Data)

	require.Len(t, actions.recorded, 1)
	assert.Equal(t, models.ActionCollected, actions.recorded[0].Kind)
	assert.Equal(t, int64(7), actions.recorded[0].UserID)
	assert.Equal(t, int64(10), actions.recorded[0].AssignmentID)
	require.NotNil(t, actions.recorded[0].Location)
	assert.Equal(t, "/data/sub.tar.gz", *actions.recorded[0].Location)
}

func TestCollectOneRefusesNonSubmittedPath(t *testing.T) {
	identity := &fakeIdentity{user: &models.User{ID: 7, OrgID: 1, Name: "1-kiz"}}
	courses := &fakeCourses{course: &models.Course{ID: 4, OrgID: 1, CourseCode: "course_2"}}
	actions := &fakeActions{submittedErr: sql.ErrNoRows}
	svc := newCollection(identity, courses, &fakeAssignments{}, actions, newFakeArtifacts())

	_, err := svc.CollectOne(context.Background(), "course_2", "/data/release.tar.gz", instructorClaims())
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
	assert.Empty(t, actions.recorded)
}
