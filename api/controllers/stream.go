package controllers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/madarsaconnect/madarsa-backend/api/middleware"
	"github.com/madarsaconnect/madarsa-backend/api/responses"
	"github.com/madarsaconnect/madarsa-backend/internal/changefeed"
	"github.com/madarsaconnect/madarsa-backend/internal/ownership"
	"github.com/madarsaconnect/madarsa-backend/pkg/auth/session"
	pkgerrors "github.com/madarsaconnect/madarsa-backend/pkg/errors"
	"github.com/madarsaconnect/madarsa-backend/pkg/logger"
)

const streamHeartbeat = 25 * time.Second

type ownershipResolver interface {
	Primary(ctx context.Context, userID uuid.UUID) (*ownership.PrimaryAffiliation, error)
	Owns(ctx context.Context, userID, institutionID uuid.UUID) (bool, error)
}

func startEventStream(w http.ResponseWriter) (http.Flusher, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "streaming unsupported")
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	// Opening frame so clients can treat the stream as established before
	// the first change arrives.
	fmt.Fprint(w, "event: ready\ndata: {}\n\n")
	flusher.Flush()
	return flusher, nil
}

func writeChangeEvent(w http.ResponseWriter, flusher http.Flusher, event changefeed.Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		return
	}
	fmt.Fprintf(w, "event: change\ndata: %s\n\n", payload)
	flusher.Flush()
}

func writeHeartbeat(w http.ResponseWriter, flusher http.Flusher) {
	fmt.Fprint(w, ": heartbeat\n\n")
	flusher.Flush()
}

func writeSnapshotEvent(w http.ResponseWriter, flusher http.Flusher, snapshot *ownership.PrimaryAffiliation) {
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return
	}
	fmt.Fprintf(w, "event: snapshot\ndata: %s\n\n", payload)
	flusher.Flush()
}

// DirectoryStream pushes every institution change to public listing pages.
func DirectoryStream(hub *changefeed.Hub, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if hub == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "change feed unavailable"))
			return
		}

		flusher, err := startEventStream(w)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sub := hub.Subscribe("directory")
		defer sub.Close()

		heartbeat := time.NewTicker(streamHeartbeat)
		defer heartbeat.Stop()

		for {
			select {
			case <-r.Context().Done():
				return
			case event, ok := <-sub.C:
				if !ok {
					return
				}
				writeChangeEvent(w, flusher, event)
			case <-heartbeat.C:
				writeHeartbeat(w, flusher)
			}
		}
	}
}

// MeStream keeps the dashboard current: an affiliation snapshot on connect,
// then a refreshed snapshot whenever an owned institution changes. Events for
// institutions the caller does not own are dropped server-side. The access
// session is re-verified for as long as the connection lives, so a logout or
// revocation closes the stream instead of outliving the token check.
func MeStream(owners ownershipResolver, sessions session.AccessSessionChecker, hub *changefeed.Hub, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if owners == nil || hub == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "change feed unavailable"))
			return
		}

		userID, err := requireUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		sessionID := middleware.SessionIDFromContext(r.Context())

		flusher, err := startEventStream(w)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sub := hub.Subscribe("me")
		defer sub.Close()

		sessionAlive := func() bool {
			if sessions == nil || sessionID == "" {
				return true
			}
			ok, err := sessions.HasSession(r.Context(), sessionID)
			if err != nil {
				if logg != nil {
					logg.Warn(r.Context(), "session check failed for stream")
				}
				return false
			}
			return ok
		}

		sendSnapshot := func() {
			snapshot, err := owners.Primary(r.Context(), userID)
			if err != nil {
				if logg != nil {
					logg.Warn(r.Context(), "affiliation snapshot failed for stream")
				}
				return
			}
			writeSnapshotEvent(w, flusher, snapshot)
		}
		sendSnapshot()

		heartbeat := time.NewTicker(streamHeartbeat)
		defer heartbeat.Stop()

		for {
			select {
			case <-r.Context().Done():
				return
			case event, ok := <-sub.C:
				if !ok {
					return
				}
				if !sessionAlive() {
					return
				}
				owned, err := owners.Owns(r.Context(), userID, event.InstitutionID)
				if err != nil {
					if logg != nil {
						logg.Warn(logg.WithFields(r.Context(), map[string]any{
							"institution_id": event.InstitutionID.String(),
						}), "ownership check failed for stream event")
					}
					continue
				}
				if !owned {
					continue
				}
				writeChangeEvent(w, flusher, event)
				sendSnapshot()
			case <-heartbeat.C:
				if !sessionAlive() {
					return
				}
				writeHeartbeat(w, flusher)
			}
		}
	}
}
