package controllers

import (
	"net/http"

	"github.com/madarsaconnect/madarsa-backend/api/responses"
	"github.com/madarsaconnect/madarsa-backend/api/validators"
	"github.com/madarsaconnect/madarsa-backend/internal/institutions"
	"github.com/madarsaconnect/madarsa-backend/pkg/logger"
)

type stepValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors map[string]string `json:"errors"`
}

// WizardValidateStep1 checks the first wizard page without persisting
// anything, so the client can gate the "next" button server-side.
func WizardValidateStep1(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body institutions.Step1Input
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		fieldErrors := institutions.ValidateStep1(body)
		responses.WriteSuccess(w, stepValidationResult{
			Valid:  len(fieldErrors) == 0,
			Errors: fieldErrors,
		})
	}
}

// WizardValidateStep2 checks the second wizard page.
func WizardValidateStep2(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body institutions.Step2Input
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		fieldErrors := institutions.ValidateStep2(body)
		responses.WriteSuccess(w, stepValidationResult{
			Valid:  len(fieldErrors) == 0,
			Errors: fieldErrors,
		})
	}
}
