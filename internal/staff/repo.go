package staff

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/madarsaconnect/madarsa-backend/pkg/db/models"
	dbtypes "github.com/madarsaconnect/madarsa-backend/pkg/db/types"
)

// Repository handles staff-profile persistence and the paired staff_uids
// bookkeeping on the institution row.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to staff operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// UpsertProfile inserts the profile or, on re-join, refreshes name and
// subject. An already uploaded photo survives a re-join. The composite
// primary key makes re-joining idempotent.
func (r *Repository) UpsertProfile(ctx context.Context, profile *models.StaffProfile) error {
	if profile == nil {
		return fmt.Errorf("staff profile is required")
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "subject"}),
		}).
		Create(profile).Error
}

// UpdateStaffUIDs overwrites the institution's staff identity set.
func (r *Repository) UpdateStaffUIDs(ctx context.Context, institutionID uuid.UUID, uids dbtypes.UUIDArray) error {
	return r.db.WithContext(ctx).
		Model(&models.Institution{}).
		Where("id = ?", institutionID).
		UpdateColumn("staff_uids", uids).Error
}

// FindProfile loads one staff profile by its composite key.
func (r *Repository) FindProfile(ctx context.Context, profileID string) (*models.StaffProfile, error) {
	var profile models.StaffProfile
	if err := r.db.WithContext(ctx).
		First(&profile, "id = ?", profileID).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// UpdatePhotoURL points the profile at a newly stored photo object.
func (r *Repository) UpdatePhotoURL(ctx context.Context, profileID, url string) error {
	res := r.db.WithContext(ctx).
		Model(&models.StaffProfile{}).
		Where("id = ?", profileID).
		UpdateColumn("photo_url", url)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListByInstitution returns the institution's staff profiles in join order.
func (r *Repository) ListByInstitution(ctx context.Context, institutionID uuid.UUID) ([]models.StaffProfile, error) {
	var profiles []models.StaffProfile
	if err := r.db.WithContext(ctx).
		Where("institution_id = ?", institutionID).
		Order("joined_at ASC").
		Find(&profiles).Error; err != nil {
		return nil, err
	}
	return profiles, nil
}
