package schema

import (
	"strings"

	"github.com/google/uuid"

	"github.com/jwalitptl/clinic-api/internal/model"
)

// PatientUpsert is the raw patient create/update input.
type PatientUpsert struct {
	ID       *string `json:"id" validate:"omitempty,uuid"`
	Name     string  `json:"name" validate:"required"`
	Email    string  `json:"email" validate:"required,email"`
	Phone    string  `json:"phone" validate:"required,number"`
	Sex      string  `json:"sex" validate:"required,oneof=male female"`
	ClinicID string  `json:"clinicID" validate:"required,uuid"`
}

// phone masks such as "(11) 99999-9999" are accepted and stored as digits
var phoneFormatting = strings.NewReplacer(" ", "", "(", "", ")", "", "-", "", ".", "", "+", "")

// ValidatePatientUpsert checks a patient mutation. The returned error is
// always of type Errors.
func ValidatePatientUpsert(in PatientUpsert) (*model.UpsertPatient, error) {
	in.ID = blankToNil(in.ID)
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = phoneFormatting.Replace(strings.TrimSpace(in.Phone))
	in.ClinicID = strings.TrimSpace(in.ClinicID)

	if errs := check(&in); len(errs) > 0 {
		return nil, errs
	}

	out := &model.UpsertPatient{
		ClinicID: uuid.MustParse(in.ClinicID),
		Name:     in.Name,
		Email:    in.Email,
		Phone:    in.Phone,
		Sex:      model.Sex(in.Sex),
	}
	if in.ID != nil {
		id := uuid.MustParse(*in.ID)
		out.ID = &id
	}
	return out, nil
}
