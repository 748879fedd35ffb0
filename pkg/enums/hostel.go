package enums

import "fmt"

// HostelType is the tri-state hostel availability choice. It lives under the
// facilities map's "hostel" key as a string, unlike the boolean facility flags.
type HostelType string

const (
	HostelTypeBoys  HostelType = "boys"
	HostelTypeGirls HostelType = "girls"
	HostelTypeBoth  HostelType = "both"
)

var validHostelTypes = []HostelType{
	HostelTypeBoys,
	HostelTypeGirls,
	HostelTypeBoth,
}

// String implements fmt.Stringer.
func (h HostelType) String() string {
	return string(h)
}

// IsValid reports whether the value is a known HostelType.
func (h HostelType) IsValid() bool {
	for _, candidate := range validHostelTypes {
		if candidate == h {
			return true
		}
	}
	return false
}

// ParseHostelType converts raw input into a HostelType.
func ParseHostelType(value string) (HostelType, error) {
	for _, candidate := range validHostelTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid hostel type %q", value)
}
