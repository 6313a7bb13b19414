package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/clinic-api/internal/model"
)

const clinicID = "0b5e2b4c-2f7a-4c55-8d1c-7a4f3e9b6d21"

func validPatient() PatientUpsert {
	return PatientUpsert{
		Name:     "Maria Souza",
		Email:    "maria@example.com",
		Phone:    "11999999999",
		Sex:      "female",
		ClinicID: clinicID,
	}
}

func TestValidatePatientUpsert(t *testing.T) {
	out, err := ValidatePatientUpsert(validPatient())
	require.NoError(t, err)

	assert.Nil(t, out.ID)
	assert.Equal(t, clinicID, out.ClinicID.String())
	assert.Equal(t, "Maria Souza", out.Name)
	assert.Equal(t, "maria@example.com", out.Email)
	assert.Equal(t, "11999999999", out.Phone)
	assert.Equal(t, model.SexFemale, out.Sex)
}

func TestValidatePatientUpsertStripsPhoneMask(t *testing.T) {
	in := validPatient()
	in.Phone = "(11) 99999-9999"

	out, err := ValidatePatientUpsert(in)
	require.NoError(t, err)
	assert.Equal(t, "11999999999", out.Phone)
}

func TestValidatePatientUpsertEmail(t *testing.T) {
	in := validPatient()
	in.Email = "a@b.com"
	_, err := ValidatePatientUpsert(in)
	assert.NoError(t, err)

	in.Email = "not-an-email"
	_, err = ValidatePatientUpsert(in)

	var errs Errors
	require.ErrorAs(t, err, &errs)
	assert.Equal(t, []string{"invalid email"}, errs.Messages("email"))
}

func TestValidatePatientUpsertFieldErrors(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(*PatientUpsert)
		field string
	}{
		{"blank name", func(p *PatientUpsert) { p.Name = " " }, "name"},
		{"missing email", func(p *PatientUpsert) { p.Email = "" }, "email"},
		{"missing phone", func(p *PatientUpsert) { p.Phone = "" }, "phone"},
		{"letters in phone", func(p *PatientUpsert) { p.Phone = "11-CALL-ME" }, "phone"},
		{"unknown sex", func(p *PatientUpsert) { p.Sex = "other" }, "sex"},
		{"missing sex", func(p *PatientUpsert) { p.Sex = "" }, "sex"},
		{"missing clinic", func(p *PatientUpsert) { p.ClinicID = "" }, "clinicID"},
		{"bad clinic", func(p *PatientUpsert) { p.ClinicID = "clinic-1" }, "clinicID"},
		{"bad id", func(p *PatientUpsert) { p.ID = strPtr("42") }, "id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validPatient()
			tt.edit(&in)

			out, err := ValidatePatientUpsert(in)
			assert.Nil(t, out)

			var errs Errors
			require.ErrorAs(t, err, &errs)
			assert.NotEmpty(t, errs.Messages(tt.field), errs.Error())
		})
	}
}

func TestValidatePatientUpsertKeepsID(t *testing.T) {
	in := validPatient()
	in.ID = strPtr("9a7d3c1e-5b2f-4e8a-a6c4-1d0e2f3b4c5d")

	out, err := ValidatePatientUpsert(in)
	require.NoError(t, err)
	require.NotNil(t, out.ID)
	assert.Equal(t, "9a7d3c1e-5b2f-4e8a-a6c4-1d0e2f3b4c5d", out.ID.String())
}
