package controllers

import (
	"net/http"

	"github.com/madarsaconnect/madarsa-backend/api/responses"
	"github.com/madarsaconnect/madarsa-backend/api/validators"
	"github.com/madarsaconnect/madarsa-backend/internal/directory"
	"github.com/madarsaconnect/madarsa-backend/internal/institutions"
	pkgerrors "github.com/madarsaconnect/madarsa-backend/pkg/errors"
	"github.com/madarsaconnect/madarsa-backend/pkg/logger"
)

// DirectoryBrowse serves the public listing with search and location filters.
func DirectoryBrowse(svc directory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "directory service unavailable"))
			return
		}

		criteria := directory.Criteria{
			Search: validators.SanitizeString(r.URL.Query().Get("search"), 128),
			State:  validators.SanitizeString(r.URL.Query().Get("state"), 64),
			City:   validators.SanitizeString(r.URL.Query().Get("city"), 64),
		}

		listing, err := svc.Browse(r.Context(), criteria)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, listing)
	}
}

// DirectoryDetail serves a single public profile without the private fields.
func DirectoryDetail(svc institutions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "institution service unavailable"))
			return
		}

		institutionID, err := institutionIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.GetByID(r.Context(), institutionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, record.PublicView())
	}
}
