package controllers

import (
	"context"
	"net/http"

	"github.com/madarsaconnect/madarsa-backend/api/responses"
	"github.com/madarsaconnect/madarsa-backend/api/validators"
	"github.com/madarsaconnect/madarsa-backend/internal/geocode"
	pkgerrors "github.com/madarsaconnect/madarsa-backend/pkg/errors"
	"github.com/madarsaconnect/madarsa-backend/pkg/logger"
)

type reverseGeocoder interface {
	Reverse(ctx context.Context, lat, lon float64) (*geocode.ReverseResult, error)
}

// GeocodeReverse turns browser coordinates into wizard address fields.
func GeocodeReverse(client reverseGeocoder, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if client == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "geocode client unavailable"))
			return
		}

		lat, err := validators.ParseQueryFloat(r, "lat", -90, 90)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		lon, err := validators.ParseQueryFloat(r, "lon", -180, 180)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := client.Reverse(r.Context(), lat, lon)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}
