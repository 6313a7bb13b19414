package schema

import (
	"strings"

	"github.com/jwalitptl/clinic-api/internal/model"
)

func ValidateSignUp(req *model.SignUpRequest) error {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	if errs := check(req); len(errs) > 0 {
		return errs
	}
	return nil
}

func ValidateSignIn(req *model.SignInRequest) error {
	req.Email = strings.TrimSpace(req.Email)
	if errs := check(req); len(errs) > 0 {
		return errs
	}
	return nil
}

func ValidateCreateClinic(req *model.CreateClinicRequest) error {
	req.Name = strings.TrimSpace(req.Name)
	if errs := check(req); len(errs) > 0 {
		return errs
	}
	return nil
}
