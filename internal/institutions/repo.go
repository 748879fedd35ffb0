package institutions

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/madarsaconnect/madarsa-backend/pkg/db/models"
)

// Repository handles institution persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to institution operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a new institution row.
func (r *Repository) Create(ctx context.Context, institution *models.Institution) error {
	if institution == nil {
		return fmt.Errorf("institution is required")
	}
	return r.db.WithContext(ctx).Create(institution).Error
}

// FindByID loads an institution by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Institution, error) {
	var institution models.Institution
	if err := r.db.WithContext(ctx).First(&institution, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &institution, nil
}

// FindByJoinCode resolves a join code by exact match.
func (r *Repository) FindByJoinCode(ctx context.Context, code string) (*models.Institution, error) {
	var institution models.Institution
	if err := r.db.WithContext(ctx).Where("join_code = ?", code).First(&institution).Error; err != nil {
		return nil, err
	}
	return &institution, nil
}

// Update saves the provided institution.
func (r *Repository) Update(ctx context.Context, institution *models.Institution) error {
	if institution == nil {
		return fmt.Errorf("institution is required")
	}
	return r.db.WithContext(ctx).Save(institution).Error
}

// ListAll returns every institution ordered by creation time. The directory
// filters the full set in memory.
func (r *Repository) ListAll(ctx context.Context) ([]models.Institution, error) {
	var institutions []models.Institution
	if err := r.db.WithContext(ctx).
		Order("created_at ASC").
		Find(&institutions).Error; err != nil {
		return nil, err
	}
	return institutions, nil
}
