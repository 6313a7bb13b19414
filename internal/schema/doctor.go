package schema

import (
	"strings"

	"github.com/google/uuid"

	"github.com/jwalitptl/clinic-api/internal/model"
)

// DoctorUpsert is the raw doctor create/update input.
type DoctorUpsert struct {
	ID                      *string `json:"id" validate:"omitempty,uuid"`
	Name                    string  `json:"name" validate:"required"`
	Specialty               string  `json:"specialty" validate:"required"`
	AppointmentPriceInCents int64   `json:"appointmentPriceInCents" validate:"min=1"`
	AvailableFromWeekDay    *int    `json:"availableFromWeekDay" validate:"required,min=0,max=6"`
	AvailableToWeekDay      *int    `json:"availableToWeekDay" validate:"required,min=0,max=6"`
	AvailableFromTime       string  `json:"availableFromTime" validate:"required,timeofday"`
	AvailableToTime         string  `json:"availableToTime" validate:"required,timeofday"`
}

// ValidateDoctorUpsert checks every field, then the availability window:
// the start time must precede the end time and the start weekday must precede
// the end weekday. The returned error is always of type Errors.
func ValidateDoctorUpsert(in DoctorUpsert) (*model.UpsertDoctor, error) {
	in.ID = blankToNil(in.ID)
	in.Name = strings.TrimSpace(in.Name)
	in.Specialty = strings.TrimSpace(in.Specialty)

	if errs := check(&in); len(errs) > 0 {
		return nil, errs
	}

	fromTime, _ := normalizeClock(in.AvailableFromTime)
	toTime, _ := normalizeClock(in.AvailableToTime)

	var errs Errors
	if fromTime >= toTime {
		errs = append(errs, FieldError{
			Field:   "availableToTime",
			Message: "end time cannot be earlier than or equal to start time",
		})
	}
	if *in.AvailableFromWeekDay >= *in.AvailableToWeekDay {
		errs = append(errs, FieldError{
			Field:   "availableToWeekDay",
			Message: "end day cannot be earlier than or equal to start day",
		})
	}
	if len(errs) > 0 {
		return nil, errs
	}

	out := &model.UpsertDoctor{
		Name:                    in.Name,
		Specialty:               in.Specialty,
		AppointmentPriceInCents: in.AppointmentPriceInCents,
		AvailableFromWeekDay:    *in.AvailableFromWeekDay,
		AvailableToWeekDay:      *in.AvailableToWeekDay,
		AvailableFromTime:       fromTime,
		AvailableToTime:         toTime,
	}
	if in.ID != nil {
		id := uuid.MustParse(*in.ID)
		out.ID = &id
	}
	return out, nil
}
