package model

// Clinic is the tenant boundary: every doctor and patient belongs to exactly one.
type Clinic struct {
	Base
	Name string `db:"name" json:"name"`
}

type CreateClinicRequest struct {
	Name string `json:"name" validate:"required,max=120"`
}
