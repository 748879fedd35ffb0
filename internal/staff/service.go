package staff

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/madarsaconnect/madarsa-backend/internal/institutions"
	"github.com/madarsaconnect/madarsa-backend/pkg/db/models"
	dbtypes "github.com/madarsaconnect/madarsa-backend/pkg/db/types"
	"github.com/madarsaconnect/madarsa-backend/pkg/enums"
	pkgerrors "github.com/madarsaconnect/madarsa-backend/pkg/errors"
)

// JoinRequest is the join-by-code submission. Photos are not accepted
// here; they go through the media upload pipeline where the size and
// content-type limits apply.
type JoinRequest struct {
	JoinCode string `json:"join_code" validate:"required"`
	Name     string `json:"name" validate:"required"`
	Subject  string `json:"subject" validate:"required"`
}

// JoinResponse returns the joined institution so the caller can land on its
// dashboard immediately.
type JoinResponse struct {
	Institution *institutions.InstitutionDTO `json:"institution"`
}

// MemberDTO is one roster entry on the public institution detail page.
type MemberDTO struct {
	Name     string    `json:"name"`
	Subject  string    `json:"subject"`
	PhotoURL *string   `json:"photo_url,omitempty"`
	Role     string    `json:"role"`
	JoinedAt time.Time `json:"joined_at"`
}

// Service handles the staff affiliation flow and the roster read.
type Service interface {
	Join(ctx context.Context, userID uuid.UUID, req JoinRequest) (*JoinResponse, error)
	Roster(ctx context.Context, institutionID uuid.UUID) ([]MemberDTO, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type joinRepository interface {
	UpsertProfile(ctx context.Context, profile *models.StaffProfile) error
	UpdateStaffUIDs(ctx context.Context, institutionID uuid.UUID, uids dbtypes.UUIDArray) error
}

type codeResolver interface {
	FindByJoinCode(ctx context.Context, code string) (*models.Institution, error)
}

type changeNotifier interface {
	InstitutionUpdated(ctx context.Context, id uuid.UUID)
}

type rosterRepository interface {
	ListByInstitution(ctx context.Context, institutionID uuid.UUID) ([]models.StaffProfile, error)
}

// ServiceParams packages the staff service's dependencies.
type ServiceParams struct {
	TxRunner            txRunner
	RepoFactory         func(tx *gorm.DB) joinRepository
	CodeResolverFactory func(tx *gorm.DB) codeResolver
	Roster              rosterRepository
	Notifier            changeNotifier
}

type service struct {
	tx       txRunner
	repo     func(tx *gorm.DB) joinRepository
	resolver func(tx *gorm.DB) codeResolver
	roster   rosterRepository
	notifier changeNotifier
}

// NewService builds the staff service.
func NewService(params ServiceParams) (Service, error) {
	if params.TxRunner == nil {
		return nil, fmt.Errorf("transaction runner is required")
	}
	if params.Roster == nil {
		return nil, fmt.Errorf("roster repository is required")
	}
	if params.RepoFactory == nil {
		params.RepoFactory = func(tx *gorm.DB) joinRepository {
			return NewRepository(tx)
		}
	}
	if params.CodeResolverFactory == nil {
		params.CodeResolverFactory = func(tx *gorm.DB) codeResolver {
			return institutions.NewRepository(tx)
		}
	}
	return &service{
		tx:       params.TxRunner,
		repo:     params.RepoFactory,
		resolver: params.CodeResolverFactory,
		roster:   params.Roster,
		notifier: params.Notifier,
	}, nil
}

// Join resolves the code, then upserts the staff profile and appends the
// caller to the institution's staff identity set in one transaction.
func (s *service) Join(ctx context.Context, userID uuid.UUID, req JoinRequest) (*JoinResponse, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	code := strings.ToUpper(strings.TrimSpace(req.JoinCode))
	if code == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "join code is required")
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	subject := strings.TrimSpace(req.Subject)
	if subject == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "subject is required")
	}

	var joined *models.Institution
	txErr := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		institution, err := s.resolver(tx).FindByJoinCode(ctx, code)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "invalid code")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve join code")
		}

		repo := s.repo(tx)
		profile := &models.StaffProfile{
			ID:            models.StaffProfileID(institution.ID, userID),
			InstitutionID: institution.ID,
			UserID:        userID,
			Name:          name,
			Subject:       subject,
			Role:          enums.StaffRoleTeacher,
		}
		if err := repo.UpsertProfile(ctx, profile); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "upsert staff profile")
		}

		uids, changed := institution.StaffUIDs.Union(userID)
		if changed {
			if err := repo.UpdateStaffUIDs(ctx, institution.ID, uids); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update staff uids")
			}
			institution.StaffUIDs = uids
		}

		joined = institution
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	if s.notifier != nil {
		s.notifier.InstitutionUpdated(ctx, joined.ID)
	}
	return &JoinResponse{Institution: institutions.FromModel(joined)}, nil
}

// Roster lists an institution's staff in join order.
func (s *service) Roster(ctx context.Context, institutionID uuid.UUID) ([]MemberDTO, error) {
	if institutionID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "institution id is required")
	}
	profiles, err := s.roster.ListByInstitution(ctx, institutionID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list staff profiles")
	}
	members := make([]MemberDTO, 0, len(profiles))
	for _, profile := range profiles {
		members = append(members, MemberDTO{
			Name:     profile.Name,
			Subject:  profile.Subject,
			PhotoURL: profile.PhotoURL,
			Role:     profile.Role.String(),
			JoinedAt: profile.JoinedAt,
		})
	}
	return members, nil
}
