package institutions

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/madarsaconnect/madarsa-backend/pkg/db/models"
	"github.com/madarsaconnect/madarsa-backend/pkg/enums"
	"github.com/madarsaconnect/madarsa-backend/pkg/types"
)

// InstitutionDTO is the transport shape of a full institution record.
type InstitutionDTO struct {
	ID            uuid.UUID                `json:"id"`
	JoinCode      string                   `json:"join_code,omitempty"`
	Name          string                   `json:"name"`
	Established   int                      `json:"established"`
	Type          string                   `json:"type"`
	Address       string                   `json:"address"`
	City          string                   `json:"city"`
	State         string                   `json:"state"`
	Pincode       string                   `json:"pincode"`
	Phone         string                   `json:"phone"`
	AltPhone      *string                  `json:"alt_phone,omitempty"`
	Email         string                   `json:"email"`
	Website       *string                  `json:"website,omitempty"`
	MohatmimName  string                   `json:"mohatmim_name"`
	MohatmimEmail string                   `json:"mohatmim_email"`
	Classes       []string                 `json:"classes"`
	TotalStudents int                      `json:"total_students"`
	TotalTeachers int                      `json:"total_teachers"`
	TotalStaff    int                      `json:"total_staff"`
	Facilities    types.Facilities         `json:"facilities"`
	LogoURL       *string                  `json:"logo_url,omitempty"`
	CoverURL      *string                  `json:"cover_url,omitempty"`
	Gallery       []string                 `json:"gallery"`
	About         string                   `json:"about"`
	Status        enums.VerificationStatus `json:"status"`
	CreatedBy     uuid.UUID                `json:"created_by"`
	StaffUIDs     []uuid.UUID              `json:"staff_uids"`
	CreatedAt     time.Time                `json:"created_at"`
	UpdatedAt     time.Time                `json:"updated_at"`
}

// CreateInstitutionInput is the final wizard submission: both steps merged.
type CreateInstitutionInput struct {
	Step1 Step1Input `json:"step1"`
	Step2 Step2Input `json:"step2"`
}

// BasicInfoUpdate mutates the identity group of the settings form.
type BasicInfoUpdate struct {
	Name        string `json:"name"`
	Established string `json:"established"`
	Type        string `json:"type"`
	OtherType   string `json:"other_type"`
}

// ContactLocationUpdate mutates the location and contact group.
type ContactLocationUpdate struct {
	Address  string  `json:"address"`
	City     string  `json:"city"`
	State    string  `json:"state"`
	Pincode  string  `json:"pincode"`
	Phone    string  `json:"phone"`
	AltPhone *string `json:"alt_phone"`
	Email    string  `json:"email"`
	Website  *string `json:"website"`
}

// MohatmimUpdate mutates the administrator-in-charge group.
type MohatmimUpdate struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// AcademicUpdate mutates the class tags and headcounts. Counts arrive as
// strings, same as the wizard collects them.
type AcademicUpdate struct {
	Classes       []string `json:"classes"`
	TotalStudents string   `json:"total_students"`
	TotalTeachers string   `json:"total_teachers"`
	TotalStaff    string   `json:"total_staff"`
}

// FacilitiesUpdate replaces the facility checkboxes and hostel tri-state.
type FacilitiesUpdate struct {
	Hostel     string   `json:"hostel"`
	Facilities []string `json:"facilities"`
}

// UpdateInstitutionInput is a partial settings save: only non-nil groups are
// applied.
type UpdateInstitutionInput struct {
	BasicInfo       *BasicInfoUpdate       `json:"basic_info,omitempty"`
	ContactLocation *ContactLocationUpdate `json:"contact_location,omitempty"`
	Mohatmim        *MohatmimUpdate        `json:"mohatmim,omitempty"`
	Academic        *AcademicUpdate        `json:"academic,omitempty"`
	Facilities      *FacilitiesUpdate      `json:"facilities,omitempty"`
	About           *string                `json:"about,omitempty"`
}

// FromModel maps the persisted institution into a DTO.
func FromModel(m *models.Institution) *InstitutionDTO {
	if m == nil {
		return nil
	}

	return &InstitutionDTO{
		ID:            m.ID,
		JoinCode:      m.JoinCode,
		Name:          m.Name,
		Established:   m.Established,
		Type:          m.Type,
		Address:       m.Address,
		City:          m.City,
		State:         m.State,
		Pincode:       m.Pincode,
		Phone:         m.Phone,
		AltPhone:      m.AltPhone,
		Email:         m.Email,
		Website:       m.Website,
		MohatmimName:  m.MohatmimName,
		MohatmimEmail: m.MohatmimEmail,
		Classes:       append([]string(nil), []string(m.Classes)...),
		TotalStudents: m.TotalStudents,
		TotalTeachers: m.TotalTeachers,
		TotalStaff:    m.TotalStaff,
		Facilities:    m.Facilities,
		LogoURL:       m.LogoURL,
		CoverURL:      m.CoverURL,
		Gallery:       append([]string(nil), []string(m.Gallery)...),
		About:         m.About,
		Status:        m.Status,
		CreatedBy:     m.CreatedBy,
		StaffUIDs:     append([]uuid.UUID(nil), []uuid.UUID(m.StaffUIDs)...),
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

// PublicView strips owner-only fields from the DTO for unauthenticated reads.
func (d *InstitutionDTO) PublicView() *InstitutionDTO {
	if d == nil {
		return nil
	}
	cpy := *d
	cpy.JoinCode = ""
	cpy.StaffUIDs = nil
	return &cpy
}

// toModel merges both wizard steps into the record shape, defaulting media
// and about to empty, status to pending, and created_by to the caller. An
// omitted mohatmim email falls back to the creating account's email, then
// to the institution contact email.
func (c CreateInstitutionInput) toModel(createdBy uuid.UUID, creatorEmail, joinCode string) *models.Institution {
	established, _ := strconv.Atoi(c.Step1.Established)

	facilities := types.Facilities{}
	for _, key := range c.Step2.Facilities {
		facilities[key] = true
	}
	if c.Step2.Hostel != "" {
		facilities[types.HostelKey] = c.Step2.Hostel
	}

	mohatmimEmail := strings.TrimSpace(c.Step1.MohatmimEmail)
	if mohatmimEmail == "" {
		mohatmimEmail = strings.TrimSpace(creatorEmail)
	}
	if mohatmimEmail == "" {
		mohatmimEmail = strings.TrimSpace(c.Step1.Email)
	}

	return &models.Institution{
		JoinCode:      joinCode,
		Name:          strings.TrimSpace(c.Step1.Name),
		Established:   established,
		Type:          c.Step1.ResolvedType(),
		Address:       strings.TrimSpace(c.Step1.Address),
		City:          strings.TrimSpace(c.Step1.City),
		State:         c.Step1.State,
		Pincode:       c.Step1.Pincode,
		Phone:         c.Step1.Phone,
		AltPhone:      optionalString(c.Step1.AltPhone),
		Email:         strings.TrimSpace(c.Step1.Email),
		Website:       optionalString(c.Step1.Website),
		MohatmimName:  strings.TrimSpace(c.Step1.MohatmimName),
		MohatmimEmail: mohatmimEmail,
		Classes:       pq.StringArray(append([]string(nil), c.Step2.Classes...)),
		TotalStudents: parseCount(c.Step2.TotalStudents),
		TotalTeachers: parseCount(c.Step2.TotalTeachers),
		TotalStaff:    parseCount(c.Step2.TotalStaff),
		Facilities:    facilities,
		Gallery:       pq.StringArray{},
		About:         strings.TrimSpace(c.Step2.About),
		Status:        enums.VerificationStatusPending,
		CreatedBy:     createdBy,
	}
}

func parseCount(value string) int {
	if value == "" {
		return 0
	}
	n, _ := strconv.Atoi(value)
	return n
}

func optionalString(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
