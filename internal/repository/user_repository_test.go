package repository

import (
	"context"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	sqlxdb := sqlx.NewDb(db, "sqlmock")
	return sqlxdb, mock, func() {
		db.Close()
	}
}

func TestFindUserByName(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	rows := sqlmock.NewRows([]string{"id", "org_id", "name"}).AddRow(int64(7), 1, "1-kiz")
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, org_id, name FROM users WHERE org_id = $1 AND name = $2 LIMIT 1")).
		WithArgs(1, "1-kiz").
		WillReturnRows(rows)

	user, err := repo.FindByName(context.Background(), 1, "1-kiz")
	require.NoError(t, err)
	assert.Equal(t, int64(7), user.ID)
	assert.Equal(t, "1-kiz", user.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindOrCreateUserInserts(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	rows := sqlmock.NewRows([]string{"id", "org_id", "name"}).AddRow(int64(3), 2, "new-user")
	mock.ExpectQuery("INSERT INTO users").
		WithArgs(2, "new-user").
		WillReturnRows(rows)

	user, err := repo.FindOrCreate(context.Background(), 2, "new-user")
	require.NoError(t, err)
	assert.Equal(t, int64(3), user.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindOrCreateUserLosesRaceAndRereads(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	// ON CONFLICT DO NOTHING returns no rows when another insert won.
	mock.ExpectQuery("INSERT INTO users").
		WithArgs(2, "raced").
		WillReturnRows(sqlmock.NewRows([]string{"id", "org_id", "name"}))

	rows := sqlmock.NewRows([]string{"id", "org_id", "name"}).AddRow(int64(11), 2, "raced")
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, org_id, name FROM users WHERE org_id = $1 AND name = $2 LIMIT 1")).
		WithArgs(2, "raced").
		WillReturnRows(rows)

	user, err := repo.FindOrCreate(context.Background(), 2, "raced")
	require.NoError(t, err)
	assert.Equal(t, int64(11), user.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
