package media

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/madarsaconnect/madarsa-backend/internal/institutions"
	"github.com/madarsaconnect/madarsa-backend/pkg/config"
	"github.com/madarsaconnect/madarsa-backend/pkg/db/models"
	"github.com/madarsaconnect/madarsa-backend/pkg/enums"
	pkgerrors "github.com/madarsaconnect/madarsa-backend/pkg/errors"
)

// allowedImageTypes is the sniffed-content allow list for every media slot.
var allowedImageTypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/webp": true,
	"image/gif":  true,
}

type blobStore interface {
	Upload(ctx context.Context, objectPath, contentType string, data []byte) (string, error)
	Delete(ctx context.Context, objectPath string) error
	ObjectPathFromURL(rawURL string) (string, bool)
}

type institutionRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Institution, error)
	Update(ctx context.Context, institution *models.Institution) error
}

type staffProfileRepository interface {
	FindProfile(ctx context.Context, profileID string) (*models.StaffProfile, error)
	UpdatePhotoURL(ctx context.Context, profileID, url string) error
}

type changeNotifier interface {
	InstitutionUpdated(ctx context.Context, id uuid.UUID)
}

// Service handles the dashboard's direct media swaps.
type Service interface {
	UploadInstitutionImage(ctx context.Context, userID, institutionID uuid.UUID, slot enums.MediaSlot, data []byte) (*institutions.InstitutionDTO, error)
	UploadStaffPhoto(ctx context.Context, userID, institutionID uuid.UUID, data []byte) (string, error)
}

// ServiceParams packages the media flow's dependencies.
type ServiceParams struct {
	Repo     institutionRepository
	Staff    staffProfileRepository
	Store    blobStore
	Notifier changeNotifier
	Media    config.MediaConfig
	Now      func() time.Time
}

type service struct {
	repo     institutionRepository
	staff    staffProfileRepository
	store    blobStore
	notifier changeNotifier
	media    config.MediaConfig
	now      func() time.Time
}

// NewService builds the media service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("institution repository required")
	}
	if params.Staff == nil {
		return nil, fmt.Errorf("staff profile repository required")
	}
	if params.Store == nil {
		return nil, fmt.Errorf("blob store required")
	}
	if params.Now == nil {
		params.Now = time.Now
	}
	return &service{
		repo:     params.Repo,
		staff:    params.Staff,
		store:    params.Store,
		notifier: params.Notifier,
		media:    params.Media,
		now:      params.Now,
	}, nil
}

// UploadInstitutionImage validates the file, uploads it, and writes the
// returned URL onto the record's logo or cover slot. The size cap is checked
// before any store or database call so an oversized file costs nothing. The
// displaced object, if any, is reclaimed after the record write commits.
func (s *service) UploadInstitutionImage(ctx context.Context, userID, institutionID uuid.UUID, slot enums.MediaSlot, data []byte) (*institutions.InstitutionDTO, error) {
	if slot != enums.MediaSlotLogo && slot != enums.MediaSlotCover {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "slot must be logo or cover")
	}
	if err := s.checkImage(data, s.media.InstitutionImageMaxBytes()); err != nil {
		return nil, err
	}

	institution, err := s.loadInstitution(ctx, institutionID)
	if err != nil {
		return nil, err
	}
	if !institution.OwnedBy(userID) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "not an owner of this institution")
	}

	var previous string
	switch slot {
	case enums.MediaSlotLogo:
		if institution.LogoURL != nil {
			previous = *institution.LogoURL
		}
	case enums.MediaSlotCover:
		if institution.CoverURL != nil {
			previous = *institution.CoverURL
		}
	}

	objectPath := fmt.Sprintf("institution-media/%s/%s_%d",
		institution.ID, slot, s.now().UTC().Unix())
	url, err := s.store.Upload(ctx, objectPath, http.DetectContentType(data), data)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "upload media")
	}

	switch slot {
	case enums.MediaSlotLogo:
		institution.LogoURL = &url
	case enums.MediaSlotCover:
		institution.CoverURL = &url
	}

	if err := s.repo.Update(ctx, institution); err != nil {
		// The blob is orphaned once the record write fails; reclaim it
		// best-effort and surface the original failure.
		_ = s.store.Delete(ctx, objectPath)
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "write media url")
	}

	s.reclaimDisplaced(ctx, previous, url)

	if s.notifier != nil {
		s.notifier.InstitutionUpdated(ctx, institution.ID)
	}
	return institutions.FromModel(institution), nil
}

// UploadStaffPhoto stores the caller's own profile photo under the tighter
// staff cap. Membership is checked against the institution's staff identity
// set, not ownership, so a mohatmim without a profile cannot write one.
func (s *service) UploadStaffPhoto(ctx context.Context, userID, institutionID uuid.UUID, data []byte) (string, error) {
	if err := s.checkImage(data, s.media.StaffPhotoMaxBytes()); err != nil {
		return "", err
	}

	institution, err := s.loadInstitution(ctx, institutionID)
	if err != nil {
		return "", err
	}
	if !institution.StaffUIDs.Contains(userID) {
		return "", pkgerrors.New(pkgerrors.CodeForbidden, "not a staff member of this institution")
	}

	profileID := models.StaffProfileID(institution.ID, userID)
	profile, err := s.staff.FindProfile(ctx, profileID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", pkgerrors.New(pkgerrors.CodeNotFound, "staff profile not found")
		}
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load staff profile")
	}
	var previous string
	if profile.PhotoURL != nil {
		previous = *profile.PhotoURL
	}

	objectPath := fmt.Sprintf("institution-media/%s/staff_%s_%d",
		institution.ID, userID, s.now().UTC().Unix())
	url, err := s.store.Upload(ctx, objectPath, http.DetectContentType(data), data)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "upload staff photo")
	}

	if err := s.staff.UpdatePhotoURL(ctx, profileID, url); err != nil {
		_ = s.store.Delete(ctx, objectPath)
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "write photo url")
	}

	s.reclaimDisplaced(ctx, previous, url)

	if s.notifier != nil {
		s.notifier.InstitutionUpdated(ctx, institution.ID)
	}
	return url, nil
}

func (s *service) checkImage(data []byte, maxBytes int64) error {
	if len(data) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "empty file")
	}
	if int64(len(data)) > maxBytes {
		return pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("file exceeds the %d byte limit", maxBytes))
	}
	if !allowedImageTypes[http.DetectContentType(data)] {
		return pkgerrors.New(pkgerrors.CodeValidation, "file must be an image")
	}
	return nil
}

func (s *service) loadInstitution(ctx context.Context, institutionID uuid.UUID) (*models.Institution, error) {
	institution, err := s.repo.FindByID(ctx, institutionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "institution not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load institution")
	}
	return institution, nil
}

// reclaimDisplaced deletes the object a successful slot write replaced.
// Only URLs that resolve into our own bucket are touched, and a failed
// delete leaves at worst an orphaned object.
func (s *service) reclaimDisplaced(ctx context.Context, previousURL, currentURL string) {
	if previousURL == "" || previousURL == currentURL {
		return
	}
	if oldPath, ok := s.store.ObjectPathFromURL(previousURL); ok {
		_ = s.store.Delete(ctx, oldPath)
	}
}
