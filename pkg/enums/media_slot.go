package enums

import "fmt"

// MediaSlot names the image being replaced by an upload. The logo and
// cover slots live on the institution record; the staff photo slot
// targets the caller's own staff profile.
type MediaSlot string

const (
	MediaSlotLogo       MediaSlot = "logo"
	MediaSlotCover      MediaSlot = "cover"
	MediaSlotStaffPhoto MediaSlot = "staff_photo"
)

var validMediaSlots = []MediaSlot{
	MediaSlotLogo,
	MediaSlotCover,
	MediaSlotStaffPhoto,
}

// String implements fmt.Stringer.
func (s MediaSlot) String() string {
	return string(s)
}

// IsValid reports whether the value is a known MediaSlot.
func (s MediaSlot) IsValid() bool {
	for _, candidate := range validMediaSlots {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseMediaSlot converts raw input into a MediaSlot.
func ParseMediaSlot(value string) (MediaSlot, error) {
	for _, candidate := range validMediaSlots {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid media slot %q", value)
}
