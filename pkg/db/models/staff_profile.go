package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/madarsaconnect/madarsa-backend/pkg/enums"
)

// StaffProfile records one identity's affiliation with one institution,
// created through the join-code flow. The composite primary key makes a
// repeated join from the same user an idempotent upsert target.
type StaffProfile struct {
	ID            string          `gorm:"column:id;primaryKey"`
	InstitutionID uuid.UUID       `gorm:"column:institution_id;type:uuid;not null;index"`
	UserID        uuid.UUID       `gorm:"column:user_id;type:uuid;not null"`
	Name          string          `gorm:"column:name;not null"`
	Subject       string          `gorm:"column:subject;not null"`
	PhotoURL      *string         `gorm:"column:photo_url"`
	Role          enums.StaffRole `gorm:"column:role;type:staff_role;not null;default:'teacher'"`
	JoinedAt      time.Time       `gorm:"column:joined_at;autoCreateTime"`
}

// StaffProfileID builds the composite key for an institution/user pair.
func StaffProfileID(institutionID, userID uuid.UUID) string {
	return fmt.Sprintf("%s_%s", institutionID, userID)
}
