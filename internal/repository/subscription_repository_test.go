package repository

import (
	"context"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/nbx-exchange-api/internal/models"
)

func TestFindOrCreateSubscription(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewSubscriptionRepository(db)

	rows := sqlmock.NewRows([]string{"id", "user_id", "course_id", "role"}).
		AddRow(int64(1), int64(7), int64(4), models.RoleInstructor)
	mock.ExpectQuery("INSERT INTO subscriptions").
		WithArgs(int64(7), int64(4), models.RoleInstructor).
		WillReturnRows(rows)

	sub, err := repo.FindOrCreate(context.Background(), 7, 4, models.RoleInstructor)
	require.NoError(t, err)
	assert.Equal(t, int64(1), sub.ID)
	assert.Equal(t, models.RoleInstructor, sub.Role)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListSubscriptionsForUser(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewSubscriptionRepository(db)

	rows := sqlmock.NewRows([]string{"id", "user_id", "course_id", "role", "course_code"}).
		AddRow(int64(1), int64(7), int64(4), models.RoleInstructor, "course_2").
		AddRow(int64(2), int64(7), int64(5), models.RoleStudent, "course_3")
	mock.ExpectQuery("SELECT s.id, s.user_id, s.course_id, s.role, c.course_code").
		WithArgs(int64(7)).
		WillReturnRows(rows)

	subs, err := repo.ListForUser(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, subs, 2)
	assert.Equal(t, "course_2", subs[0].CourseCode)
	assert.Equal(t, models.RoleStudent, subs[1].Role)
	assert.NoError(t, mock.ExpectationsWereMet())
}
