package institutions

import (
	"context"
	"errors"
	"net/mail"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/madarsaconnect/madarsa-backend/pkg/db"
	"github.com/madarsaconnect/madarsa-backend/pkg/db/models"
	"github.com/madarsaconnect/madarsa-backend/pkg/enums"
	pkgerrors "github.com/madarsaconnect/madarsa-backend/pkg/errors"
	"github.com/madarsaconnect/madarsa-backend/pkg/types"
)

// joinCodeAttempts bounds the regenerate-and-retry loop when a generated
// code collides with the unique index.
const joinCodeAttempts = 5

type institutionRepository interface {
	Create(ctx context.Context, institution *models.Institution) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Institution, error)
	Update(ctx context.Context, institution *models.Institution) error
}

type changeNotifier interface {
	InstitutionCreated(ctx context.Context, id uuid.UUID)
	InstitutionUpdated(ctx context.Context, id uuid.UUID)
}

// Service exposes institution registration and dashboard mutations.
type Service interface {
	Create(ctx context.Context, userID uuid.UUID, userEmail string, input CreateInstitutionInput) (*InstitutionDTO, error)
	GetByID(ctx context.Context, id uuid.UUID) (*InstitutionDTO, error)
	Update(ctx context.Context, userID, id uuid.UUID, input UpdateInstitutionInput) (*InstitutionDTO, error)
	JoinCode(ctx context.Context, userID, id uuid.UUID) (string, error)
}

type service struct {
	repo     institutionRepository
	notifier changeNotifier
}

// NewService builds an institution service with the provided dependencies.
// The notifier may be nil; change events are then skipped.
func NewService(repo institutionRepository, notifier changeNotifier) (Service, error) {
	if repo == nil {
		return nil, errors.New("institution repository required")
	}
	return &service{repo: repo, notifier: notifier}, nil
}

// Create re-validates both wizard steps, generates a unique join code, and
// inserts the merged record owned by the caller. The caller's account email
// fills the mohatmim email when the wizard left it blank.
func (s *service) Create(ctx context.Context, userID uuid.UUID, userEmail string, input CreateInstitutionInput) (*InstitutionDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}

	fieldErrors := ValidateStep1(input.Step1)
	for field, msg := range ValidateStep2(input.Step2) {
		fieldErrors[field] = msg
	}
	if len(fieldErrors) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "wizard validation failed").
			WithDetails(fieldErrors)
	}

	var lastErr error
	for attempt := 0; attempt < joinCodeAttempts; attempt++ {
		code, err := GenerateJoinCode()
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate join code")
		}

		institution := input.toModel(userID, userEmail, code)
		if err := s.repo.Create(ctx, institution); err != nil {
			if db.IsUniqueViolation(err, "idx_institutions_join_code") {
				lastErr = err
				continue
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create institution")
		}

		if s.notifier != nil {
			s.notifier.InstitutionCreated(ctx, institution.ID)
		}
		return FromModel(institution), nil
	}
	return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, lastErr, "exhausted join code attempts")
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*InstitutionDTO, error) {
	institution, err := s.loadInstitution(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromModel(institution), nil
}

// Update applies only the provided logical groups and restamps updated_at.
// Forbidden unless the caller created the record or joined it as staff.
func (s *service) Update(ctx context.Context, userID, id uuid.UUID, input UpdateInstitutionInput) (*InstitutionDTO, error) {
	institution, err := s.loadInstitution(ctx, id)
	if err != nil {
		return nil, err
	}
	if !institution.OwnedBy(userID) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "not an owner of this institution")
	}

	if fieldErrors := validateUpdate(input); len(fieldErrors) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "settings validation failed").
			WithDetails(fieldErrors)
	}

	applyUpdate(institution, input)

	if err := s.repo.Update(ctx, institution); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update institution")
	}
	if s.notifier != nil {
		s.notifier.InstitutionUpdated(ctx, institution.ID)
	}
	return FromModel(institution), nil
}

// JoinCode returns the record's shareable code for the copy affordance.
func (s *service) JoinCode(ctx context.Context, userID, id uuid.UUID) (string, error) {
	institution, err := s.loadInstitution(ctx, id)
	if err != nil {
		return "", err
	}
	if !institution.OwnedBy(userID) {
		return "", pkgerrors.New(pkgerrors.CodeForbidden, "not an owner of this institution")
	}
	return institution.JoinCode, nil
}

func (s *service) loadInstitution(ctx context.Context, id uuid.UUID) (*models.Institution, error) {
	institution, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "institution not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load institution")
	}
	return institution, nil
}

func validateUpdate(input UpdateInstitutionInput) map[string]string {
	errs := map[string]string{}

	if g := input.BasicInfo; g != nil {
		if len(strings.TrimSpace(g.Name)) < 3 {
			errs["name"] = "name must be at least 3 characters"
		}
		if !yearPattern.MatchString(g.Established) {
			errs["established"] = "established year must be exactly 4 digits"
		}
		switch {
		case strings.TrimSpace(g.Type) == "":
			errs["type"] = "institution type is required"
		case !enums.InstitutionType(g.Type).IsValid():
			errs["type"] = "unknown institution type"
		case enums.InstitutionType(g.Type) == enums.InstitutionTypeOther &&
			strings.TrimSpace(g.OtherType) == "":
			errs["other_type"] = "other type must be specified"
		}
	}

	if g := input.ContactLocation; g != nil {
		if len(strings.TrimSpace(g.Address)) < 10 {
			errs["address"] = "address must be at least 10 characters"
		}
		if len(strings.TrimSpace(g.City)) < 2 {
			errs["city"] = "city must be at least 2 characters"
		}
		if !IsIndianState(g.State) {
			errs["state"] = "state must be selected from the list"
		}
		if !pincodePattern.MatchString(g.Pincode) {
			errs["pincode"] = "pincode must be exactly 6 digits"
		}
		if !phonePattern.MatchString(g.Phone) {
			errs["phone"] = "phone number must be exactly 10 digits"
		}
		if _, err := mail.ParseAddress(strings.TrimSpace(g.Email)); err != nil {
			errs["email"] = "email address is invalid"
		}
		if g.Website != nil && strings.TrimSpace(*g.Website) != "" {
			parsed, err := url.Parse(strings.TrimSpace(*g.Website))
			if err != nil || parsed.Scheme == "" || parsed.Host == "" {
				errs["website"] = "website must be a valid URL"
			}
		}
	}

	if g := input.Mohatmim; g != nil {
		if len(strings.TrimSpace(g.Name)) < 3 {
			errs["mohatmim_name"] = "mohatmim name must be at least 3 characters"
		}
		if email := strings.TrimSpace(g.Email); email != "" {
			if _, err := mail.ParseAddress(email); err != nil {
				errs["mohatmim_email"] = "mohatmim email is invalid"
			}
		}
	}

	if g := input.Academic; g != nil {
		if len(g.Classes) == 0 {
			errs["classes"] = "select at least one class"
		}
		for _, class := range g.Classes {
			if !IsOfferedClass(class) {
				errs["classes"] = "unknown class " + class
				break
			}
		}
		if !digitsPattern.MatchString(g.TotalStudents) {
			errs["total_students"] = "student count must be digits only"
		}
		if !digitsPattern.MatchString(g.TotalTeachers) {
			errs["total_teachers"] = "teacher count must be digits only"
		}
		if g.TotalStaff != "" && !digitsPattern.MatchString(g.TotalStaff) {
			errs["total_staff"] = "staff count must be digits only"
		}
	}

	if g := input.Facilities; g != nil {
		if g.Hostel != "" && !enums.HostelType(g.Hostel).IsValid() {
			errs["hostel"] = "hostel must be boys, girls or both"
		}
		for _, facility := range g.Facilities {
			if !IsFacilityKey(facility) {
				errs["facilities"] = "unknown facility " + facility
				break
			}
		}
	}

	return errs
}

func applyUpdate(institution *models.Institution, input UpdateInstitutionInput) {
	if g := input.BasicInfo; g != nil {
		institution.Name = strings.TrimSpace(g.Name)
		institution.Established, _ = strconv.Atoi(g.Established)
		resolved := g.Type
		if enums.InstitutionType(g.Type) == enums.InstitutionTypeOther {
			resolved = strings.TrimSpace(g.OtherType)
		}
		institution.Type = resolved
	}

	if g := input.ContactLocation; g != nil {
		institution.Address = strings.TrimSpace(g.Address)
		institution.City = strings.TrimSpace(g.City)
		institution.State = g.State
		institution.Pincode = g.Pincode
		institution.Phone = g.Phone
		institution.AltPhone = cloneOptional(g.AltPhone)
		institution.Email = strings.TrimSpace(g.Email)
		institution.Website = cloneOptional(g.Website)
	}

	if g := input.Mohatmim; g != nil {
		institution.MohatmimName = strings.TrimSpace(g.Name)
		if email := strings.TrimSpace(g.Email); email != "" {
			institution.MohatmimEmail = email
		}
	}

	if g := input.Academic; g != nil {
		institution.Classes = pq.StringArray(append([]string(nil), g.Classes...))
		institution.TotalStudents = parseCount(g.TotalStudents)
		institution.TotalTeachers = parseCount(g.TotalTeachers)
		institution.TotalStaff = parseCount(g.TotalStaff)
	}

	if g := input.Facilities; g != nil {
		facilities := types.Facilities{}
		for _, key := range g.Facilities {
			facilities[key] = true
		}
		if g.Hostel != "" {
			facilities[types.HostelKey] = g.Hostel
		}
		institution.Facilities = facilities
	}

	if input.About != nil {
		institution.About = strings.TrimSpace(*input.About)
	}
}

func cloneOptional(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
