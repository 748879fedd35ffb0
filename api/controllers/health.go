package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/madarsaconnect/madarsa-backend/api/responses"
	"github.com/madarsaconnect/madarsa-backend/pkg/config"
	pkgerrors "github.com/madarsaconnect/madarsa-backend/pkg/errors"
	"github.com/madarsaconnect/madarsa-backend/pkg/logger"
)

const readinessTimeout = 2 * time.Second

// Pinger is the health surface shared by the database, redis, and GCS clients.
type Pinger interface {
	Ping(ctx context.Context) error
}

// ReadinessProbe names a dependency checked by the readiness endpoint.
type ReadinessProbe struct {
	Name   string
	Pinger Pinger
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Madarsa-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

func HealthReady(cfg *config.Config, logg *logger.Logger, probes ...ReadinessProbe) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Madarsa-Env", cfg.App.Env)

		for _, probe := range probes {
			if probe.Pinger == nil {
				continue
			}
			ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
			err := probe.Pinger.Ping(ctx)
			cancel()
			if err != nil {
				failure := pkgerrors.Wrap(pkgerrors.CodeDependency, err, "dependency unavailable").
					WithDetails(map[string]any{"dependency": probe.Name})
				responses.WriteError(r.Context(), logg, w, failure)
				return
			}
		}

		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
