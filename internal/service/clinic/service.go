package clinic

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/jwalitptl/clinic-api/internal/model"
	"github.com/jwalitptl/clinic-api/internal/repository"
	apperrors "github.com/jwalitptl/clinic-api/pkg/errors"
	"github.com/jwalitptl/clinic-api/pkg/logger"
)

type ClinicServicer interface {
	CreateClinic(ctx context.Context, session *model.Session, req *model.CreateClinicRequest) (*model.Clinic, error)
}

// SessionInvalidator drops cached sessions whose clinic changed.
type SessionInvalidator interface {
	InvalidateSession(userID uuid.UUID)
}

type Service struct {
	repo     repository.ClinicRepository
	sessions SessionInvalidator
	logger   *logger.Logger
}

func NewService(repo repository.ClinicRepository, sessions SessionInvalidator, log *logger.Logger) *Service {
	return &Service{
		repo:     repo,
		sessions: sessions,
		logger:   log.With("clinic"),
	}
}

// CreateClinic creates a clinic and links the caller to it.
func (s *Service) CreateClinic(ctx context.Context, session *model.Session, req *model.CreateClinicRequest) (*model.Clinic, error) {
	if session == nil || session.User == nil {
		return nil, apperrors.Unauthorized(nil)
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperrors.BadRequest("clinic name is required", nil)
	}

	clinic := &model.Clinic{
		Base: model.Base{ID: uuid.New()},
		Name: name,
	}
	if err := s.repo.CreateForUser(ctx, clinic, session.User.ID); err != nil {
		return nil, apperrors.Internal(fmt.Errorf("failed to create clinic: %w", err))
	}

	s.sessions.InvalidateSession(session.User.ID)
	s.logger.Info("clinic created", "clinic_id", clinic.ID.String(), "user_id", session.User.ID.String())
	return clinic, nil
}
