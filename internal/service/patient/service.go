package patient

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/clinic-api/internal/model"
	"github.com/jwalitptl/clinic-api/internal/repository"
	"github.com/jwalitptl/clinic-api/internal/service/event"
	apperrors "github.com/jwalitptl/clinic-api/pkg/errors"
	"github.com/jwalitptl/clinic-api/pkg/logger"
	"github.com/jwalitptl/clinic-api/pkg/metrics"
)

type PatientService interface {
	UpsertPatient(ctx context.Context, session *model.Session, input *model.UpsertPatient) (*model.Patient, error)
	DeletePatient(ctx context.Context, session *model.Session, id uuid.UUID) error
	ListPatients(ctx context.Context, session *model.Session) ([]*model.Patient, error)
}

type Service struct {
	repo     repository.PatientRepository
	notifier event.Notifier
	logger   *logger.Logger
	metrics  *metrics.Metrics
	now      func() time.Time
}

func NewService(repo repository.PatientRepository, notifier event.Notifier, log *logger.Logger, m *metrics.Metrics) *Service {
	return &Service{
		repo:     repo,
		notifier: notifier,
		logger:   log.With("patient"),
		metrics:  m,
		now:      time.Now,
	}
}

// callerClinic returns the clinic every patient operation is scoped to.
func callerClinic(session *model.Session) (uuid.UUID, error) {
	if session == nil {
		return uuid.Nil, apperrors.Unauthorized(nil)
	}
	clinicID, ok := session.ClinicID()
	if !ok {
		return uuid.Nil, apperrors.Forbidden("clinic not found")
	}
	return clinicID, nil
}

// owned loads a patient and checks that it belongs to clinicID.
func (s *Service) owned(ctx context.Context, id, clinicID uuid.UUID, action string) (*model.Patient, error) {
	patient, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("patient", err)
		}
		return nil, apperrors.Internal(fmt.Errorf("failed to get patient: %w", err))
	}
	if patient.ClinicID != clinicID {
		return nil, apperrors.Forbidden("not authorized to " + action + " this patient")
	}
	return patient, nil
}

// UpsertPatient creates a patient, or replaces every field of an existing
// one when input.ID is set, and returns the stored record.
func (s *Service) UpsertPatient(ctx context.Context, session *model.Session, input *model.UpsertPatient) (patient *model.Patient, err error) {
	defer func() { s.metrics.ObserveMutation("patient", "upsert", err) }()

	clinicID, err := callerClinic(session)
	if err != nil {
		return nil, err
	}
	if input.ClinicID != clinicID {
		return nil, apperrors.Forbidden("patients can only be saved to your own clinic")
	}

	if input.ID != nil {
		patient, err = s.owned(ctx, *input.ID, clinicID, "update")
		if err != nil {
			return nil, err
		}

		applyInput(patient, input)
		if err := s.repo.Update(ctx, patient); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, apperrors.NotFound("patient", err)
			}
			return nil, apperrors.Internal(fmt.Errorf("failed to update patient: %w", err))
		}
	} else {
		patient = &model.Patient{Base: model.Base{ID: uuid.New()}}
		applyInput(patient, input)
		if err := s.repo.Create(ctx, patient); err != nil {
			return nil, apperrors.Internal(fmt.Errorf("failed to create patient: %w", err))
		}
	}

	s.logger.Info("patient upserted", "patient_id", patient.ID.String(), "clinic_id", clinicID.String())
	s.notify(ctx, patient.ID, clinicID, model.ChangeActionUpsert)
	return patient, nil
}

func (s *Service) DeletePatient(ctx context.Context, session *model.Session, id uuid.UUID) (err error) {
	defer func() { s.metrics.ObserveMutation("patient", "delete", err) }()

	clinicID, err := callerClinic(session)
	if err != nil {
		return err
	}
	if _, err := s.owned(ctx, id, clinicID, "delete"); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NotFound("patient", err)
		}
		return apperrors.Internal(fmt.Errorf("failed to delete patient: %w", err))
	}

	s.logger.Info("patient deleted", "patient_id", id.String(), "clinic_id", clinicID.String())
	s.notify(ctx, id, clinicID, model.ChangeActionDelete)
	return nil
}

// ListPatients returns the caller's patients, newest first.
func (s *Service) ListPatients(ctx context.Context, session *model.Session) ([]*model.Patient, error) {
	clinicID, err := callerClinic(session)
	if err != nil {
		return nil, err
	}

	patients, err := s.repo.List(ctx, &model.PatientFilters{ClinicID: clinicID})
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("failed to list patients: %w", err))
	}
	return patients, nil
}

func applyInput(patient *model.Patient, input *model.UpsertPatient) {
	patient.ClinicID = input.ClinicID
	patient.Name = input.Name
	patient.Email = input.Email
	patient.Phone = input.Phone
	patient.Sex = input.Sex
}

func (s *Service) notify(ctx context.Context, id, clinicID uuid.UUID, action model.ChangeAction) {
	change := model.ChangeEvent{
		Entity:     "patient",
		Action:     action,
		EntityID:   id,
		ClinicID:   clinicID,
		Path:       event.PathPatients,
		OccurredAt: s.now().UTC(),
	}
	if err := s.notifier.Notify(ctx, change); err != nil {
		s.logger.Error(err, "failed to record patient change", "patient_id", id.String())
	}
}
