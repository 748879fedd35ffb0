package auth

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/madarsaconnect/madarsa-backend/internal/users"
	"github.com/madarsaconnect/madarsa-backend/pkg/config"
	pkgmodels "github.com/madarsaconnect/madarsa-backend/pkg/db/models"
	pkgerrors "github.com/madarsaconnect/madarsa-backend/pkg/errors"
	"github.com/madarsaconnect/madarsa-backend/pkg/security"
)

type stubTxRunner struct{}

func (s stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type stubUserRepository struct {
	data    map[string]*pkgmodels.User
	created *pkgmodels.User
}

func newStubUserRepository() *stubUserRepository {
	return &stubUserRepository{data: map[string]*pkgmodels.User{}}
}

func (s *stubUserRepository) FindByEmail(ctx context.Context, email string) (*pkgmodels.User, error) {
	if user, ok := s.data[email]; ok {
		return user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubUserRepository) Create(ctx context.Context, dto users.CreateUserDTO) (*pkgmodels.User, error) {
	user := dto.ToModel()
	user.ID = uuid.New()
	s.data[dto.Email] = user
	s.created = user
	return user, nil
}

func newRegisterTestSetup(t *testing.T) (RegisterService, *stubUserRepository) {
	t.Helper()
	userRepo := newStubUserRepository()
	svc, err := NewRegisterService(RegisterServiceParams{
		TxRunner: stubTxRunner{},
		UserRepoFactory: func(tx *gorm.DB) registerUserRepository {
			return userRepo
		},
		PasswordConfig: config.PasswordConfig{},
	})
	if err != nil {
		t.Fatalf("new register service: %v", err)
	}
	return svc, userRepo
}

func TestRegisterCreatesUser(t *testing.T) {
	svc, repo := newRegisterTestSetup(t)

	dto, err := svc.Register(context.Background(), RegisterRequest{
		DisplayName: "Jamil Ahmed",
		Email:       "Jamil@Example.com",
		Password:    "Secret123!",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if repo.created == nil {
		t.Fatalf("expected user to be created")
	}
	if repo.created.Email != "jamil@example.com" {
		t.Fatalf("expected lowercased email, got %q", repo.created.Email)
	}
	if dto.Email != "jamil@example.com" {
		t.Fatalf("response email mismatch: %q", dto.Email)
	}
	if !repo.created.IsActive {
		t.Fatalf("expected new user to be active")
	}

	ok, err := security.VerifyPassword("Secret123!", repo.created.PasswordHash)
	if err != nil || !ok {
		t.Fatalf("stored hash does not verify: ok=%v err=%v", ok, err)
	}
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	svc, repo := newRegisterTestSetup(t)
	repo.data["taken@example.com"] = &pkgmodels.User{
		ID:    uuid.New(),
		Email: "taken@example.com",
	}

	_, err := svc.Register(context.Background(), RegisterRequest{
		DisplayName: "Second",
		Email:       "taken@example.com",
		Password:    "Secret123!",
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict error, got %v", err)
	}
	if repo.created != nil {
		t.Fatalf("expected no user creation on duplicate")
	}
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	svc, repo := newRegisterTestSetup(t)

	_, err := svc.Register(context.Background(), RegisterRequest{
		DisplayName: "Shorty",
		Email:       "short@example.com",
		Password:    "abc",
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if repo.created != nil {
		t.Fatalf("expected no user creation on short password")
	}
}
