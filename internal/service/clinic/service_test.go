package clinic

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/clinic-api/internal/model"
	"github.com/jwalitptl/clinic-api/internal/repository/mocks"
	apperrors "github.com/jwalitptl/clinic-api/pkg/errors"
	"github.com/jwalitptl/clinic-api/pkg/logger"
)

type mockInvalidator struct {
	mock.Mock
}

func (m *mockInvalidator) InvalidateSession(userID uuid.UUID) {
	m.Called(userID)
}

func TestCreateClinic(t *testing.T) {
	repo := &mocks.ClinicRepository{}
	sessions := &mockInvalidator{}
	svc := NewService(repo, sessions, logger.Nop())

	userID := uuid.New()
	session := &model.Session{User: &model.User{Base: model.Base{ID: userID}}}

	repo.On("CreateForUser", mock.Anything, mock.MatchedBy(func(c *model.Clinic) bool {
		return c.Name == "Clínica Centro" && c.ID != uuid.Nil
	}), userID).Return(nil)
	sessions.On("InvalidateSession", userID).Return()

	clinic, err := svc.CreateClinic(context.Background(), session, &model.CreateClinicRequest{Name: "  Clínica Centro "})
	require.NoError(t, err)
	assert.Equal(t, "Clínica Centro", clinic.Name)

	repo.AssertExpectations(t)
	sessions.AssertExpectations(t)
}

func TestCreateClinic_Errors(t *testing.T) {
	repo := &mocks.ClinicRepository{}
	sessions := &mockInvalidator{}
	svc := NewService(repo, sessions, logger.Nop())
	session := &model.Session{User: &model.User{Base: model.Base{ID: uuid.New()}}}

	_, err := svc.CreateClinic(context.Background(), nil, &model.CreateClinicRequest{Name: "Centro"})
	assert.True(t, apperrors.HasCode(err, apperrors.ErrUnauthorized))

	_, err = svc.CreateClinic(context.Background(), session, &model.CreateClinicRequest{Name: "   "})
	assert.True(t, apperrors.HasCode(err, apperrors.ErrBadRequest))

	repo.On("CreateForUser", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("tx aborted"))
	_, err = svc.CreateClinic(context.Background(), session, &model.CreateClinicRequest{Name: "Centro"})
	assert.True(t, apperrors.HasCode(err, apperrors.ErrInternal))

	sessions.AssertNotCalled(t, "InvalidateSession", mock.Anything)
}
