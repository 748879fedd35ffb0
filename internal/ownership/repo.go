package ownership

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/madarsaconnect/madarsa-backend/pkg/db/models"
)

// Repository resolves which institutions a user created or joined as staff.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to affiliation queries.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindOwned returns every institution the user is affiliated with, creator
// or staff, in creation order.
func (r *Repository) FindOwned(ctx context.Context, userID uuid.UUID) ([]models.Institution, error) {
	var institutions []models.Institution
	if err := r.db.WithContext(ctx).
		Where("created_by = ? OR ? = ANY(staff_uids)", userID, userID).
		Order("created_at ASC").
		Find(&institutions).Error; err != nil {
		return nil, err
	}
	return institutions, nil
}
