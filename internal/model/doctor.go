package model

import (
	"github.com/google/uuid"
)

// Doctor is a clinic's practitioner. Available times are stored as UTC
// HH:mm:ss and weekdays as 0 (Sunday) through 6.
type Doctor struct {
	Base
	ClinicID                uuid.UUID `db:"clinic_id" json:"clinicID"`
	Name                    string    `db:"name" json:"name"`
	Specialty               string    `db:"specialty" json:"specialty"`
	AppointmentPriceInCents int64     `db:"appointment_price_in_cents" json:"appointmentPriceInCents"`
	AvailableFromWeekDay    int       `db:"available_from_week_day" json:"availableFromWeekDay"`
	AvailableToWeekDay      int       `db:"available_to_week_day" json:"availableToWeekDay"`
	AvailableFromTime       string    `db:"available_from_time" json:"availableFromTime"`
	AvailableToTime         string    `db:"available_to_time" json:"availableToTime"`
}

// UpsertDoctor is a validated doctor mutation. A nil ID creates a doctor.
// Times are local wall-clock HH:mm:ss until the service normalizes them.
type UpsertDoctor struct {
	ID                      *uuid.UUID
	Name                    string
	Specialty               string
	AppointmentPriceInCents int64
	AvailableFromWeekDay    int
	AvailableToWeekDay      int
	AvailableFromTime       string
	AvailableToTime         string
}

type DoctorFilters struct {
	ClinicID uuid.UUID `json:"clinicID"`
}
