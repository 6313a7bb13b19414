package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/clinic-api/internal/model"
	"github.com/jwalitptl/clinic-api/internal/repository"
)

type clinicRepository struct {
	BaseRepository
}

func NewClinicRepository(base BaseRepository) repository.ClinicRepository {
	return &clinicRepository{base}
}

const insertClinic = `
	INSERT INTO clinics (id, name, created_at, updated_at)
	VALUES ($1, $2, $3, $4)
`

func prepareClinic(clinic *model.Clinic) {
	if clinic.ID == uuid.Nil {
		clinic.ID = uuid.New()
	}
	clinic.CreatedAt = time.Now().UTC()
	clinic.UpdatedAt = clinic.CreatedAt
}

func (r *clinicRepository) Create(ctx context.Context, clinic *model.Clinic) error {
	prepareClinic(clinic)

	_, err := r.db.ExecContext(ctx, insertClinic, clinic.ID, clinic.Name, clinic.CreatedAt, clinic.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create clinic: %w", err)
	}
	return nil
}

func (r *clinicRepository) CreateForUser(ctx context.Context, clinic *model.Clinic, userID uuid.UUID) error {
	prepareClinic(clinic)

	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, insertClinic, clinic.ID, clinic.Name, clinic.CreatedAt, clinic.UpdatedAt); err != nil {
			return fmt.Errorf("failed to create clinic: %w", err)
		}

		link := `
			INSERT INTO users_to_clinics (user_id, clinic_id, created_at)
			VALUES ($1, $2, $3)
		`
		if _, err := tx.ExecContext(ctx, link, userID, clinic.ID, clinic.CreatedAt); err != nil {
			return fmt.Errorf("failed to link user to clinic: %w", err)
		}
		return nil
	})
}

func (r *clinicRepository) Get(ctx context.Context, id uuid.UUID) (*model.Clinic, error) {
	query := `SELECT id, name, created_at, updated_at FROM clinics WHERE id = $1`

	var clinic model.Clinic
	if err := r.db.GetContext(ctx, &clinic, query, id); err != nil {
		return nil, notFound("clinic", err)
	}
	return &clinic, nil
}

func (r *clinicRepository) FirstForUser(ctx context.Context, userID uuid.UUID) (*model.Clinic, error) {
	query := `
		SELECT c.id, c.name, c.created_at, c.updated_at
		FROM clinics c
		JOIN users_to_clinics uc ON uc.clinic_id = c.id
		WHERE uc.user_id = $1
		ORDER BY uc.created_at ASC
		LIMIT 1
	`
	var clinic model.Clinic
	if err := r.db.GetContext(ctx, &clinic, query, userID); err != nil {
		return nil, notFound("clinic", err)
	}
	return &clinic, nil
}
