package model

import (
	"github.com/google/uuid"
)

type Sex string

const (
	SexMale   Sex = "male"
	SexFemale Sex = "female"
)

type Patient struct {
	Base
	ClinicID uuid.UUID `db:"clinic_id" json:"clinicID"`
	Name     string    `db:"name" json:"name"`
	Email    string    `db:"email" json:"email"`
	Phone    string    `db:"phone" json:"phone"`
	Sex      Sex       `db:"sex" json:"sex"`
}

// UpsertPatient is a validated patient mutation. A nil ID creates a patient.
type UpsertPatient struct {
	ID       *uuid.UUID
	ClinicID uuid.UUID
	Name     string
	Email    string
	Phone    string
	Sex      Sex
}

type PatientFilters struct {
	ClinicID uuid.UUID `json:"clinicID"`
}
