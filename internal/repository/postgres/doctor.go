package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/clinic-api/internal/model"
	"github.com/jwalitptl/clinic-api/internal/repository"
)

const doctorColumns = `
	id, clinic_id, name, specialty, appointment_price_in_cents,
	available_from_week_day, available_to_week_day,
	to_char(available_from_time, 'HH24:MI:SS') AS available_from_time,
	to_char(available_to_time, 'HH24:MI:SS') AS available_to_time,
	created_at, updated_at`

type doctorRepository struct {
	BaseRepository
}

func NewDoctorRepository(base BaseRepository) repository.DoctorRepository {
	return &doctorRepository{base}
}

func (r *doctorRepository) Create(ctx context.Context, doctor *model.Doctor) error {
	query := `
		INSERT INTO doctors (
			id, clinic_id, name, specialty, appointment_price_in_cents,
			available_from_week_day, available_to_week_day,
			available_from_time, available_to_time, created_at, updated_at
		) VALUES (
			:id, :clinic_id, :name, :specialty, :appointment_price_in_cents,
			:available_from_week_day, :available_to_week_day,
			:available_from_time, :available_to_time, :created_at, :updated_at
		)
	`
	if doctor.ID == uuid.Nil {
		doctor.ID = uuid.New()
	}
	doctor.CreatedAt = time.Now().UTC()
	doctor.UpdatedAt = doctor.CreatedAt

	if _, err := r.db.NamedExecContext(ctx, query, doctor); err != nil {
		return fmt.Errorf("failed to create doctor: %w", err)
	}
	return nil
}

func (r *doctorRepository) Get(ctx context.Context, id uuid.UUID) (*model.Doctor, error) {
	query := `SELECT ` + doctorColumns + ` FROM doctors WHERE id = $1`

	var doctor model.Doctor
	if err := r.db.GetContext(ctx, &doctor, query, id); err != nil {
		return nil, notFound("doctor", err)
	}
	return &doctor, nil
}

// Update rewrites every mutable column. The clinic association is never changed.
func (r *doctorRepository) Update(ctx context.Context, doctor *model.Doctor) error {
	query := `
		UPDATE doctors SET
			name = :name,
			specialty = :specialty,
			appointment_price_in_cents = :appointment_price_in_cents,
			available_from_week_day = :available_from_week_day,
			available_to_week_day = :available_to_week_day,
			available_from_time = :available_from_time,
			available_to_time = :available_to_time,
			updated_at = :updated_at
		WHERE id = :id
	`
	doctor.UpdatedAt = time.Now().UTC()

	result, err := r.db.NamedExecContext(ctx, query, doctor)
	if err != nil {
		return fmt.Errorf("failed to update doctor: %w", err)
	}
	return expectOne("doctor", result)
}

func (r *doctorRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM doctors WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete doctor: %w", err)
	}
	return expectOne("doctor", result)
}

func (r *doctorRepository) List(ctx context.Context, filters *model.DoctorFilters) ([]*model.Doctor, error) {
	query := `SELECT ` + doctorColumns + ` FROM doctors WHERE clinic_id = $1 ORDER BY name ASC`

	doctors := []*model.Doctor{}
	if err := r.db.SelectContext(ctx, &doctors, query, filters.ClinicID); err != nil {
		return nil, fmt.Errorf("failed to list doctors: %w", err)
	}
	return doctors, nil
}
