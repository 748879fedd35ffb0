package controllers

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/madarsaconnect/madarsa-backend/api/middleware"
	"github.com/madarsaconnect/madarsa-backend/internal/changefeed"
	"github.com/madarsaconnect/madarsa-backend/internal/institutions"
	"github.com/madarsaconnect/madarsa-backend/internal/ownership"
)

type sseRecorder struct {
	mu     sync.Mutex
	header http.Header
	buf    bytes.Buffer
	status int
}

func newSSERecorder() *sseRecorder {
	return &sseRecorder{header: http.Header{}}
}

func (r *sseRecorder) Header() http.Header {
	return r.header
}

func (r *sseRecorder) WriteHeader(status int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.status = status
}

func (r *sseRecorder) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.buf.Write(p)
}

func (r *sseRecorder) Flush() {}

func (r *sseRecorder) body() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.buf.String()
}

func waitFor(t *testing.T, deadline time.Duration, check func() bool) bool {
	t.Helper()
	expire := time.Now().Add(deadline)
	for time.Now().Before(expire) {
		if check() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return check()
}

func TestDirectoryStreamDeliversBroadcasts(t *testing.T) {
	hub := changefeed.NewHub(nil)
	handler := DirectoryStream(hub, nil)

	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest(http.MethodGet, "/api/public/v1/directory/stream", nil).WithContext(ctx)
	rec := newSSERecorder()

	done := make(chan struct{})
	go func() {
		handler.ServeHTTP(rec, req)
		close(done)
	}()

	if !waitFor(t, time.Second, func() bool { return hub.SubscriberCount() == 1 }) {
		t.Fatal("subscriber never registered")
	}

	institutionID := uuid.New()
	hub.Broadcast(changefeed.Event{
		Collection:    changefeed.CollectionInstitutions,
		InstitutionID: institutionID,
		Action:        changefeed.ActionCreated,
		OccurredAt:    time.Now().UTC(),
	})

	if !waitFor(t, time.Second, func() bool { return strings.Contains(rec.body(), "event: change") }) {
		t.Fatalf("change event never delivered, body: %q", rec.body())
	}
	if !strings.Contains(rec.body(), institutionID.String()) {
		t.Fatalf("expected institution id in payload, body: %q", rec.body())
	}
	if !strings.Contains(rec.body(), "event: ready") {
		t.Fatal("expected opening ready frame")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("handler did not stop on context cancel")
	}
	if hub.SubscriberCount() != 0 {
		t.Fatal("subscription leaked after disconnect")
	}
}

type mapOwnershipResolver struct {
	owned map[uuid.UUID]bool
}

func (m mapOwnershipResolver) Owns(_ context.Context, _, institutionID uuid.UUID) (bool, error) {
	return m.owned[institutionID], nil
}

func (m mapOwnershipResolver) Primary(_ context.Context, _ uuid.UUID) (*ownership.PrimaryAffiliation, error) {
	result := &ownership.PrimaryAffiliation{TotalAffiliations: len(m.owned)}
	for id := range m.owned {
		result.Institution = &institutions.InstitutionDTO{ID: id, Name: "Dar-ul-Uloom Test"}
		break
	}
	return result, nil
}

func TestMeStreamFiltersUnownedInstitutions(t *testing.T) {
	hub := changefeed.NewHub(nil)
	ownedID := uuid.New()
	strangerID := uuid.New()
	handler := MeStream(mapOwnershipResolver{owned: map[uuid.UUID]bool{ownedID: true}}, nil, hub, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/institutions/me/stream", nil).WithContext(ctx)
	req = req.WithContext(middleware.WithUserID(req.Context(), uuid.NewString()))
	rec := newSSERecorder()

	done := make(chan struct{})
	go func() {
		handler.ServeHTTP(rec, req)
		close(done)
	}()

	if !waitFor(t, time.Second, func() bool { return hub.SubscriberCount() == 1 }) {
		t.Fatal("subscriber never registered")
	}
	if !waitFor(t, time.Second, func() bool { return strings.Contains(rec.body(), "event: snapshot") }) {
		t.Fatalf("initial affiliation snapshot never sent, body: %q", rec.body())
	}

	hub.Broadcast(changefeed.Event{
		Collection:    changefeed.CollectionInstitutions,
		InstitutionID: strangerID,
		Action:        changefeed.ActionUpdated,
		OccurredAt:    time.Now().UTC(),
	})
	hub.Broadcast(changefeed.Event{
		Collection:    changefeed.CollectionInstitutions,
		InstitutionID: ownedID,
		Action:        changefeed.ActionUpdated,
		OccurredAt:    time.Now().UTC(),
	})

	if !waitFor(t, time.Second, func() bool { return strings.Contains(rec.body(), ownedID.String()) }) {
		t.Fatalf("owned event never delivered, body: %q", rec.body())
	}
	if strings.Contains(rec.body(), strangerID.String()) {
		t.Fatal("unowned institution leaked into the stream")
	}
	if !waitFor(t, time.Second, func() bool { return strings.Count(rec.body(), "event: snapshot") >= 2 }) {
		t.Fatalf("refreshed snapshot never sent after owned change, body: %q", rec.body())
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("handler did not stop on context cancel")
	}
}

type toggleSessionChecker struct {
	mu    sync.Mutex
	alive bool
}

func (c *toggleSessionChecker) HasSession(context.Context, string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.alive, nil
}

func (c *toggleSessionChecker) revoke() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.alive = false
}

func TestMeStreamClosesWhenSessionRevoked(t *testing.T) {
	hub := changefeed.NewHub(nil)
	ownedID := uuid.New()
	sessions := &toggleSessionChecker{alive: true}
	handler := MeStream(mapOwnershipResolver{owned: map[uuid.UUID]bool{ownedID: true}}, sessions, hub, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/institutions/me/stream", nil).WithContext(ctx)
	req = req.WithContext(middleware.WithUserID(req.Context(), uuid.NewString()))
	req = req.WithContext(middleware.WithSessionID(req.Context(), uuid.NewString()))
	rec := newSSERecorder()

	done := make(chan struct{})
	go func() {
		handler.ServeHTTP(rec, req)
		close(done)
	}()

	if !waitFor(t, time.Second, func() bool { return hub.SubscriberCount() == 1 }) {
		t.Fatal("subscriber never registered")
	}

	// An owned change still flows while the session lives.
	hub.Broadcast(changefeed.Event{
		Collection:    changefeed.CollectionInstitutions,
		InstitutionID: ownedID,
		Action:        changefeed.ActionUpdated,
		OccurredAt:    time.Now().UTC(),
	})
	if !waitFor(t, time.Second, func() bool { return strings.Contains(rec.body(), "event: change") }) {
		t.Fatalf("change event never delivered, body: %q", rec.body())
	}

	sessions.revoke()
	hub.Broadcast(changefeed.Event{
		Collection:    changefeed.CollectionInstitutions,
		InstitutionID: ownedID,
		Action:        changefeed.ActionUpdated,
		OccurredAt:    time.Now().UTC(),
	})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("stream survived a revoked session")
	}
	if strings.Count(rec.body(), "event: change") != 1 {
		t.Fatalf("no events may follow revocation, body: %q", rec.body())
	}
}

func TestMeStreamRequiresAuthContext(t *testing.T) {
	hub := changefeed.NewHub(nil)
	handler := MeStream(mapOwnershipResolver{}, nil, hub, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/institutions/me/stream", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rec.Code)
	}
}
