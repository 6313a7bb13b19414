package postgres

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/clinic-api/internal/model"
	"github.com/jwalitptl/clinic-api/internal/repository"
)

func TestUserRepository_CreateDuplicateEmail(t *testing.T) {
	base, mock := newMockBase(t)
	repo := NewUserRepository(base)

	mock.ExpectExec("INSERT INTO users").
		WithArgs(sqlmock.AnyArg(), "Ana", "ana@example.com", "hash", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnError(&pq.Error{Code: "23505", Message: "duplicate key value violates unique constraint"})

	err := repo.Create(context.Background(), &model.User{Name: "Ana", Email: "Ana@Example.com", PasswordHash: "hash"})
	require.Error(t, err)
	assert.ErrorIs(t, err, repository.ErrDuplicate)
}

func TestUserRepository_GetByEmailLowercases(t *testing.T) {
	base, mock := newMockBase(t)
	repo := NewUserRepository(base)

	mock.ExpectQuery("FROM users").
		WithArgs("ana@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "password_hash", "created_at", "updated_at"}))

	_, err := repo.GetByEmail(context.Background(), "ANA@example.com")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
