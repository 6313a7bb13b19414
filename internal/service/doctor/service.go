package doctor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/clinic-api/internal/model"
	"github.com/jwalitptl/clinic-api/internal/repository"
	"github.com/jwalitptl/clinic-api/internal/schema"
	"github.com/jwalitptl/clinic-api/internal/service/event"
	"github.com/jwalitptl/clinic-api/pkg/availability"
	"github.com/jwalitptl/clinic-api/pkg/currency"
	apperrors "github.com/jwalitptl/clinic-api/pkg/errors"
	"github.com/jwalitptl/clinic-api/pkg/logger"
	"github.com/jwalitptl/clinic-api/pkg/metrics"
)

type DoctorService interface {
	UpsertDoctor(ctx context.Context, session *model.Session, input *model.UpsertDoctor) (*model.Doctor, error)
	DeleteDoctor(ctx context.Context, session *model.Session, id uuid.UUID) error
	ListDoctors(ctx context.Context, session *model.Session) ([]*DoctorView, error)
}

// DoctorView is a doctor with its availability in the clinic's zone and a
// formatted price.
type DoctorView struct {
	*model.Doctor
	Availability     availability.Window `json:"availability"`
	AvailabilityText availability.Labels `json:"availabilityText"`
	AppointmentPrice string              `json:"appointmentPrice"`
}

type Service struct {
	repo     repository.DoctorRepository
	notifier event.Notifier
	loc      *time.Location
	now      func() time.Time
	prices   *currency.Formatter
	logger   *logger.Logger
	metrics  *metrics.Metrics
}

type Option func(*Service)

// WithClock replaces time.Now. The clock picks the day used for time zone
// conversion.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func NewService(
	repo repository.DoctorRepository,
	notifier event.Notifier,
	loc *time.Location,
	prices *currency.Formatter,
	log *logger.Logger,
	opts ...Option,
) *Service {
	s := &Service{
		repo:     repo,
		notifier: notifier,
		loc:      loc,
		now:      time.Now,
		prices:   prices,
		logger:   log.With("doctor"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// UpsertDoctor creates a doctor in the caller's clinic, or updates one when
// input.ID is set. Input times are wall-clock times in the clinic's zone and
// are stored as UTC.
func (s *Service) UpsertDoctor(ctx context.Context, session *model.Session, input *model.UpsertDoctor) (doctor *model.Doctor, err error) {
	defer func() { s.metrics.ObserveMutation("doctor", "upsert", err) }()

	now := s.now()
	fromTime, err := availability.ToUTC(input.AvailableFromTime, s.loc, now)
	if err != nil {
		return nil, apperrors.BadRequest("invalid availableFromTime", err)
	}
	toTime, err := availability.ToUTC(input.AvailableToTime, s.loc, now)
	if err != nil {
		return nil, apperrors.BadRequest("invalid availableToTime", err)
	}
	// Stored windows never wrap past UTC midnight.
	if fromTime >= toTime {
		return nil, apperrors.Validation(schema.Errors{{
			Field:   "availableToTime",
			Message: "availability window cannot cross midnight UTC (" + fromTime + " to " + toTime + ")",
		}})
	}

	if session == nil {
		return nil, apperrors.Unauthorized(nil)
	}
	clinicID, ok := session.ClinicID()
	if !ok {
		return nil, apperrors.Forbidden("clinic not found")
	}

	if input.ID != nil {
		doctor, err = s.repo.Get(ctx, *input.ID)
		if err != nil {
			return nil, lookupError(err)
		}
		if doctor.ClinicID != clinicID {
			return nil, apperrors.Forbidden("not authorized to update this doctor")
		}

		applyInput(doctor, input, fromTime, toTime)
		if err := s.repo.Update(ctx, doctor); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, apperrors.NotFound("doctor", err)
			}
			return nil, apperrors.Internal(fmt.Errorf("failed to update doctor: %w", err))
		}
	} else {
		doctor = &model.Doctor{
			Base:     model.Base{ID: uuid.New()},
			ClinicID: clinicID,
		}
		applyInput(doctor, input, fromTime, toTime)
		if err := s.repo.Create(ctx, doctor); err != nil {
			return nil, apperrors.Internal(fmt.Errorf("failed to create doctor: %w", err))
		}
	}

	s.logger.Info("doctor upserted", "doctor_id", doctor.ID.String(), "clinic_id", clinicID.String())
	s.notify(ctx, doctor.ID, clinicID, model.ChangeActionUpsert)
	return doctor, nil
}

// DeleteDoctor removes a doctor that belongs to the caller's clinic.
func (s *Service) DeleteDoctor(ctx context.Context, session *model.Session, id uuid.UUID) (err error) {
	defer func() { s.metrics.ObserveMutation("doctor", "delete", err) }()

	if session == nil {
		return apperrors.Unauthorized(nil)
	}

	doctor, err := s.repo.Get(ctx, id)
	if err != nil {
		return lookupError(err)
	}

	clinicID, ok := session.ClinicID()
	if !ok || doctor.ClinicID != clinicID {
		return apperrors.Forbidden("not authorized to delete this doctor")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NotFound("doctor", err)
		}
		return apperrors.Internal(fmt.Errorf("failed to delete doctor: %w", err))
	}

	s.logger.Info("doctor deleted", "doctor_id", id.String(), "clinic_id", clinicID.String())
	s.notify(ctx, id, clinicID, model.ChangeActionDelete)
	return nil
}

// ListDoctors returns the caller's doctors ordered by name.
func (s *Service) ListDoctors(ctx context.Context, session *model.Session) ([]*DoctorView, error) {
	if session == nil {
		return nil, apperrors.Unauthorized(nil)
	}
	clinicID, ok := session.ClinicID()
	if !ok {
		return nil, apperrors.Forbidden("clinic not found")
	}

	doctors, err := s.repo.List(ctx, &model.DoctorFilters{ClinicID: clinicID})
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("failed to list doctors: %w", err))
	}

	now := s.now()
	views := make([]*DoctorView, 0, len(doctors))
	for _, d := range doctors {
		window, err := availability.For(availability.Schedule{
			FromWeekDay: d.AvailableFromWeekDay,
			ToWeekDay:   d.AvailableToWeekDay,
			FromTime:    d.AvailableFromTime,
			ToTime:      d.AvailableToTime,
		}, s.loc, now)
		if err != nil {
			return nil, apperrors.Internal(fmt.Errorf("doctor %s has an invalid schedule: %w", d.ID, err))
		}

		views = append(views, &DoctorView{
			Doctor:           d,
			Availability:     window,
			AvailabilityText: window.Labels(),
			AppointmentPrice: s.prices.FormatCents(d.AppointmentPriceInCents),
		})
	}
	return views, nil
}

func applyInput(doctor *model.Doctor, input *model.UpsertDoctor, fromTime, toTime string) {
	doctor.Name = input.Name
	doctor.Specialty = input.Specialty
	doctor.AppointmentPriceInCents = input.AppointmentPriceInCents
	doctor.AvailableFromWeekDay = input.AvailableFromWeekDay
	doctor.AvailableToWeekDay = input.AvailableToWeekDay
	doctor.AvailableFromTime = fromTime
	doctor.AvailableToTime = toTime
}

func lookupError(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NotFound("doctor", err)
	}
	return apperrors.Internal(fmt.Errorf("failed to get doctor: %w", err))
}

// notify logs notification failures instead of returning them.
func (s *Service) notify(ctx context.Context, id, clinicID uuid.UUID, action model.ChangeAction) {
	change := model.ChangeEvent{
		Entity:     "doctor",
		Action:     action,
		EntityID:   id,
		ClinicID:   clinicID,
		Path:       event.PathDoctors,
		OccurredAt: s.now().UTC(),
	}
	if err := s.notifier.Notify(ctx, change); err != nil {
		s.logger.Error(err, "failed to record doctor change", "doctor_id", id.String())
	}
}
