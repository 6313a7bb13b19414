package postgres

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/clinic-api/internal/repository"
)

func newMockBase(t *testing.T) (BaseRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return NewBaseRepository(sqlx.NewDb(db, "postgres")), mock
}

func TestNotFound(t *testing.T) {
	err := notFound("doctor", sql.ErrNoRows)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.Equal(t, "doctor: record not found", err.Error())

	err = notFound("doctor", errors.New("connection reset"))
	assert.NotErrorIs(t, err, repository.ErrNotFound)
	assert.Contains(t, err.Error(), "connection reset")
}

func TestExpectOne(t *testing.T) {
	assert.NoError(t, expectOne("patient", sqlmock.NewResult(0, 1)))
	assert.ErrorIs(t, expectOne("patient", sqlmock.NewResult(0, 0)), repository.ErrNotFound)
	assert.Error(t, expectOne("patient", sqlmock.NewErrorResult(errors.New("no rows info"))))
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(&pq.Error{Code: "23505"}))
	assert.False(t, isUniqueViolation(&pq.Error{Code: "23503"}))
	assert.False(t, isUniqueViolation(errors.New("duplicate")))
}
