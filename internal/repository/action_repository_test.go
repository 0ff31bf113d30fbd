package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/nbx-exchange-api/internal/models"
)

func TestRecordAction(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewActionRepository(db)

	location := "/data/sub.tar.gz"
	rows := sqlmock.NewRows([]string{"id", "user_id", "assignment_id", "kind", "location", "timestamp"}).
		AddRow(int64(42), int64(7), int64(10), string(models.ActionSubmitted), location, time.Now())
	mock.ExpectQuery("INSERT INTO actions").
		WillReturnRows(rows)

	action, err := repo.Record(context.Background(), &models.Action{
		UserID:       7,
		AssignmentID: 10,
		Kind:         models.ActionSubmitted,
		Location:     &location,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(42), action.ID)
	assert.Equal(t, models.ActionSubmitted, action.Kind)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestActionsForCourseOrdered(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewActionRepository(db)

	rows := sqlmock.NewRows([]string{"id", "user_id", "assignment_id", "kind", "location", "timestamp"}).
		AddRow(int64(1), int64(7), int64(10), string(models.ActionReleased), "/a", time.Now()).
		AddRow(int64(2), int64(8), int64(10), string(models.ActionFetched), "/a", time.Now())
	mock.ExpectQuery("SELECT ac.id, ac.user_id, ac.assignment_id, ac.kind, ac.location, ac.timestamp").
		WithArgs(int64(4)).
		WillReturnRows(rows)

	actions, err := repo.ForCourse(context.Background(), 4)
	require.NoError(t, err)
	require.Len(t, actions, 2)
	assert.Less(t, actions[0].ID, actions[1].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestActionsForAssignmentInsertionOrder(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewActionRepository(db)

	rows := sqlmock.NewRows([]string{"id", "user_id", "assignment_id", "kind", "location", "timestamp"}).
		AddRow(int64(3), int64(7), int64(10), string(models.ActionReleased), "/data/first.tar.gz", time.Now()).
		AddRow(int64(5), int64(8), int64(10), string(models.ActionFetched), "/data/first.tar.gz", time.Now()).
		AddRow(int64(9), int64(7), int64(10), string(models.ActionReleased), "/data/second.tar.gz", time.Now())
	mock.ExpectQuery("SELECT id, user_id, assignment_id, kind, location, timestamp").
		WithArgs(int64(10)).
		WillReturnRows(rows)

	actions, err := repo.ForAssignment(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, actions, 3)
	for i := 1; i < len(actions); i++ {
		assert.Less(t, actions[i-1].ID, actions[i].ID)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindSubmittedByLocationMissing(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewActionRepository(db)

	mock.ExpectQuery("SELECT ac.id, ac.user_id, ac.assignment_id, ac.kind, ac.location, ac.timestamp").
		WithArgs(int64(4), string(models.ActionSubmitted), "/data/not-submitted.tar.gz").
		WillReturnError(sql.ErrNoRows)

	action, err := repo.FindSubmittedByLocation(context.Background(), 4, "/data/not-submitted.tar.gz")
	assert.Nil(t, action)
	assert.Equal(t, sql.ErrNoRows, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
