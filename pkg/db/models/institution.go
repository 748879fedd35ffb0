package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	dbtypes "github.com/madarsaconnect/madarsa-backend/pkg/db/types"
	"github.com/madarsaconnect/madarsa-backend/pkg/enums"
	"github.com/madarsaconnect/madarsa-backend/pkg/types"
)

// Institution is the central directory entity: one registered madarsa.
type Institution struct {
	ID       uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	JoinCode string    `gorm:"column:join_code;not null;uniqueIndex"`

	Name        string `gorm:"column:name;not null"`
	Established int    `gorm:"column:established;not null"`
	Type        string `gorm:"column:type;not null"`

	Address string `gorm:"column:address;not null"`
	City    string `gorm:"column:city;not null"`
	State   string `gorm:"column:state;not null"`
	Pincode string `gorm:"column:pincode;not null"`

	Phone    string  `gorm:"column:phone;not null"`
	AltPhone *string `gorm:"column:alt_phone"`
	Email    string  `gorm:"column:email;not null"`
	Website  *string `gorm:"column:website"`

	MohatmimName  string `gorm:"column:mohatmim_name;not null"`
	MohatmimEmail string `gorm:"column:mohatmim_email;not null"`

	Classes       pq.StringArray `gorm:"column:classes;type:text[];not null"`
	TotalStudents int            `gorm:"column:total_students;not null;default:0"`
	TotalTeachers int            `gorm:"column:total_teachers;not null;default:0"`
	TotalStaff    int            `gorm:"column:total_staff;not null;default:0"`

	Facilities types.Facilities `gorm:"column:facilities;type:jsonb"`

	LogoURL  *string        `gorm:"column:logo_url"`
	CoverURL *string        `gorm:"column:cover_url"`
	Gallery  pq.StringArray `gorm:"column:gallery;type:text[]"`

	About string `gorm:"column:about;not null;default:''"`

	Status    enums.VerificationStatus `gorm:"column:status;type:verification_status;not null;default:'pending'"`
	CreatedBy uuid.UUID                `gorm:"column:created_by;type:uuid;not null"`
	StaffUIDs dbtypes.UUIDArray        `gorm:"type:uuid[];column:staff_uids;not null;default:ARRAY[]::uuid[]"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// OwnedBy reports whether userID created the record or joined it as staff.
func (i Institution) OwnedBy(userID uuid.UUID) bool {
	return i.CreatedBy == userID || i.StaffUIDs.Contains(userID)
}

// FeaturedEligible reports whether the record qualifies for the landing-page
// highlight list. An absent status counts the same as verified.
func (i Institution) FeaturedEligible() bool {
	return i.Status == "" || i.Status == enums.VerificationStatusVerified
}
