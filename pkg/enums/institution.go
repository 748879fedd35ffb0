package enums

import "fmt"

// InstitutionType represents the registration wizard's type selector. The
// literal "other" is a form-level sentinel and is resolved to free text before
// persistence, so it never appears on a stored record.
type InstitutionType string

const (
	InstitutionTypeDarUlUloom InstitutionType = "dar-ul-uloom"
	InstitutionTypeMadrasa    InstitutionType = "madrasa"
	InstitutionTypeMaktab     InstitutionType = "maktab"
	InstitutionTypeJamia      InstitutionType = "jamia"
	InstitutionTypeOther      InstitutionType = "other"
)

var validInstitutionTypes = []InstitutionType{
	InstitutionTypeDarUlUloom,
	InstitutionTypeMadrasa,
	InstitutionTypeMaktab,
	InstitutionTypeJamia,
	InstitutionTypeOther,
}

// String implements fmt.Stringer.
func (t InstitutionType) String() string {
	return string(t)
}

// IsValid reports whether the value is a known InstitutionType.
func (t InstitutionType) IsValid() bool {
	for _, candidate := range validInstitutionTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseInstitutionType converts raw input into an InstitutionType.
func ParseInstitutionType(value string) (InstitutionType, error) {
	for _, candidate := range validInstitutionTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid institution type %q", value)
}

// VerificationStatus captures the institution-level verification workflow.
// Records enter at pending; transitions happen through an external manual
// review, never through this service.
type VerificationStatus string

const (
	VerificationStatusPending  VerificationStatus = "pending"
	VerificationStatusVerified VerificationStatus = "verified"
	VerificationStatusRejected VerificationStatus = "rejected"
)

var validVerificationStatuses = []VerificationStatus{
	VerificationStatusPending,
	VerificationStatusVerified,
	VerificationStatusRejected,
}

// String implements fmt.Stringer.
func (s VerificationStatus) String() string {
	return string(s)
}

// IsValid reports whether the value matches the persisted enum.
func (s VerificationStatus) IsValid() bool {
	for _, candidate := range validVerificationStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseVerificationStatus converts raw input into a VerificationStatus.
func ParseVerificationStatus(value string) (VerificationStatus, error) {
	for _, candidate := range validVerificationStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid verification status %q", value)
}
