package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/madarsaconnect/madarsa-backend/internal/auth"
	"github.com/madarsaconnect/madarsa-backend/internal/changefeed"
	"github.com/madarsaconnect/madarsa-backend/internal/directory"
	"github.com/madarsaconnect/madarsa-backend/internal/geocode"
	"github.com/madarsaconnect/madarsa-backend/internal/institutions"
	"github.com/madarsaconnect/madarsa-backend/internal/ownership"
	"github.com/madarsaconnect/madarsa-backend/internal/staff"
	"github.com/madarsaconnect/madarsa-backend/internal/users"
	"github.com/madarsaconnect/madarsa-backend/pkg/config"
	"github.com/madarsaconnect/madarsa-backend/pkg/enums"
	pkgerrors "github.com/madarsaconnect/madarsa-backend/pkg/errors"
	"github.com/madarsaconnect/madarsa-backend/pkg/logger"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubSessionChecker struct{}

func (stubSessionChecker) HasSession(context.Context, string) (bool, error) {
	return true, nil
}

type stubAuthService struct{}

func (stubAuthService) Login(context.Context, auth.LoginRequest) (*auth.LoginResponse, error) {
	return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
}

func (stubAuthService) Refresh(context.Context, auth.RefreshRequest) (*auth.RefreshResponse, error) {
	return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid refresh token")
}

func (stubAuthService) Logout(context.Context, auth.LogoutRequest) error {
	return nil
}

type stubRegisterService struct{}

func (stubRegisterService) Register(context.Context, auth.RegisterRequest) (*users.UserDTO, error) {
	return &users.UserDTO{}, nil
}

type stubInstitutionService struct{}

func (stubInstitutionService) Create(context.Context, uuid.UUID, string, institutions.CreateInstitutionInput) (*institutions.InstitutionDTO, error) {
	return &institutions.InstitutionDTO{}, nil
}

func (stubInstitutionService) GetByID(context.Context, uuid.UUID) (*institutions.InstitutionDTO, error) {
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "institution not found")
}

func (stubInstitutionService) Update(context.Context, uuid.UUID, uuid.UUID, institutions.UpdateInstitutionInput) (*institutions.InstitutionDTO, error) {
	return &institutions.InstitutionDTO{}, nil
}

func (stubInstitutionService) JoinCode(context.Context, uuid.UUID, uuid.UUID) (string, error) {
	return "", nil
}

type stubOwnershipService struct{}

func (stubOwnershipService) Primary(context.Context, uuid.UUID) (*ownership.PrimaryAffiliation, error) {
	return &ownership.PrimaryAffiliation{}, nil
}

func (stubOwnershipService) Mine(context.Context, uuid.UUID) ([]*institutions.InstitutionDTO, error) {
	return nil, nil
}

func (stubOwnershipService) Owns(context.Context, uuid.UUID, uuid.UUID) (bool, error) {
	return false, nil
}

type stubDirectoryService struct{}

func (stubDirectoryService) Browse(context.Context, directory.Criteria) (*directory.Listing, error) {
	return &directory.Listing{
		Results:     []*institutions.InstitutionDTO{},
		Featured:    []*institutions.InstitutionDTO{},
		CityOptions: []string{},
	}, nil
}

type stubStaffService struct{}

func (stubStaffService) Join(context.Context, uuid.UUID, staff.JoinRequest) (*staff.JoinResponse, error) {
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "invalid code")
}

func (stubStaffService) Roster(context.Context, uuid.UUID) ([]staff.MemberDTO, error) {
	return []staff.MemberDTO{}, nil
}

type stubMediaService struct{}

func (stubMediaService) UploadInstitutionImage(context.Context, uuid.UUID, uuid.UUID, enums.MediaSlot, []byte) (*institutions.InstitutionDTO, error) {
	return &institutions.InstitutionDTO{}, nil
}

func (stubMediaService) UploadStaffPhoto(context.Context, uuid.UUID, uuid.UUID, []byte) (string, error) {
	return "", nil
}

func testRouter(t *testing.T) http.Handler {
	t.Helper()
	cfg := &config.Config{
		App: config.AppConfig{Env: "test", Port: "8080"},
		JWT: config.JWTConfig{Secret: "secret", Issuer: "issuer", ExpirationMinutes: 10},
	}
	logg := logger.New(logger.Options{ServiceName: "router-test", Output: io.Discard})

	return NewRouter(
		cfg,
		logg,
		stubPinger{},
		nil,
		stubPinger{},
		nil,
		stubSessionChecker{},
		stubAuthService{},
		stubRegisterService{},
		stubInstitutionService{},
		stubOwnershipService{},
		stubDirectoryService{},
		stubStaffService{},
		stubMediaService{},
		geocode.NewClient(config.GeocodeConfig{}),
		changefeed.NewHub(nil),
		nil,
	)
}

func TestRouterHealthLive(t *testing.T) {
	router := testRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
}

func TestRouterPublicDirectoryIsOpen(t *testing.T) {
	router := testRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/public/v1/directory", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
}

func TestRouterPublicDetailIsOpen(t *testing.T) {
	router := testRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/public/v1/institutions/"+uuid.NewString(), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 from stub lookup got %d", rec.Code)
	}
}

func TestRouterPublicStaffRosterIsOpen(t *testing.T) {
	router := testRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/public/v1/institutions/"+uuid.NewString()+"/staff", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
}

func TestRouterPublicValidateStepIsOpen(t *testing.T) {
	router := testRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/public/v1/institutions/validate/step1", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
}

func TestRouterManagementRequiresAuth(t *testing.T) {
	router := testRouter(t)

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/v1/institutions"},
		{http.MethodGet, "/api/v1/institutions/me"},
		{http.MethodGet, "/api/v1/institutions/me/stream"},
		{http.MethodGet, "/api/v1/institutions/mine"},
		{http.MethodPost, "/api/v1/institutions/" + uuid.NewString() + "/media"},
		{http.MethodPut, "/api/v1/institutions/" + uuid.NewString()},
		{http.MethodGet, "/api/v1/institutions/" + uuid.NewString() + "/join-code"},
		{http.MethodPost, "/api/v1/staff/join"},
	}

	for _, tc := range paths {
		req := httptest.NewRequest(tc.method, tc.path, strings.NewReader(`{}`))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s %s: expected 401 got %d", tc.method, tc.path, rec.Code)
		}
	}
}

func TestRouterLoginMapsServiceError(t *testing.T) {
	router := testRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{"email":"x@example.com","password":"wrong"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rec.Code)
	}
}

func TestRouterUnknownRoute(t *testing.T) {
	router := testRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/unknown", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code == http.StatusOK {
		t.Fatal("expected unknown route to fail")
	}
}
