package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/madarsaconnect/madarsa-backend/internal/directory"
	"github.com/madarsaconnect/madarsa-backend/internal/institutions"
)

type stubDirectoryService struct {
	listing *directory.Listing
	err     error

	lastCriteria directory.Criteria
}

func (s *stubDirectoryService) Browse(_ context.Context, criteria directory.Criteria) (*directory.Listing, error) {
	s.lastCriteria = criteria
	if s.err != nil {
		return nil, s.err
	}
	return s.listing, nil
}

func TestDirectoryBrowseForwardsFilters(t *testing.T) {
	svc := &stubDirectoryService{listing: &directory.Listing{
		Results:     []*institutions.InstitutionDTO{},
		Featured:    []*institutions.InstitutionDTO{},
		CityOptions: []string{"Lucknow"},
	}}
	handler := DirectoryBrowse(svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/public/v1/directory?search=jamia&state=Uttar+Pradesh&city=Lucknow", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if svc.lastCriteria.Search != "jamia" || svc.lastCriteria.State != "Uttar Pradesh" || svc.lastCriteria.City != "Lucknow" {
		t.Fatalf("unexpected criteria %+v", svc.lastCriteria)
	}
}

func TestDirectoryDetailStripsPrivateFields(t *testing.T) {
	record := &institutions.InstitutionDTO{
		ID:        uuid.New(),
		JoinCode:  "MDRAB12",
		Name:      "Darul Uloom Test",
		StaffUIDs: []uuid.UUID{uuid.New()},
	}
	handler := DirectoryDetail(&stubInstitutionService{record: record}, nil)

	req := withIDParam(httptest.NewRequest(http.MethodGet, "/api/public/v1/directory/x", nil), record.ID)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}

	var envelope struct {
		Data map[string]any `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if _, present := envelope.Data["join_code"]; present {
		t.Fatal("join code must not leak on the public detail")
	}
	if envelope.Data["name"] != "Darul Uloom Test" {
		t.Fatalf("expected public name, got %v", envelope.Data["name"])
	}
}

func TestDirectoryDetailNotFound(t *testing.T) {
	handler := DirectoryDetail(&stubInstitutionService{}, nil)

	req := withIDParam(httptest.NewRequest(http.MethodGet, "/api/public/v1/directory/x", nil), uuid.New())
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", rec.Code)
	}
}
