package institutions

// IndianStates is the fixed subdivision enumeration offered by the wizard's
// state selector. Stored values must match an entry exactly.
var IndianStates = []string{
	"Andhra Pradesh",
	"Arunachal Pradesh",
	"Assam",
	"Bihar",
	"Chhattisgarh",
	"Goa",
	"Gujarat",
	"Haryana",
	"Himachal Pradesh",
	"Jharkhand",
	"Karnataka",
	"Kerala",
	"Madhya Pradesh",
	"Maharashtra",
	"Manipur",
	"Meghalaya",
	"Mizoram",
	"Nagaland",
	"Odisha",
	"Punjab",
	"Rajasthan",
	"Sikkim",
	"Tamil Nadu",
	"Telangana",
	"Tripura",
	"Uttar Pradesh",
	"Uttarakhand",
	"West Bengal",
	"Delhi",
	"Jammu and Kashmir",
	"Ladakh",
}

// ClassesOffered is the fixed catalog of class/program tags selectable in
// wizard step two.
var ClassesOffered = []string{
	"hifz",
	"nazra",
	"dars-e-nizami",
	"alim",
	"maulvi",
	"fazilat",
	"takhassus",
	"school",
}

// FacilityKeys is the fixed catalog of boolean facility checkboxes. The
// hostel key is handled separately as a tri-state string.
var FacilityKeys = []string{
	"library",
	"computerLab",
	"sports",
	"transport",
	"dining",
	"medical",
	"prayerHall",
}

// IsIndianState reports whether value matches the enumeration exactly.
func IsIndianState(value string) bool {
	for _, state := range IndianStates {
		if state == value {
			return true
		}
	}
	return false
}

// IsOfferedClass reports whether the tag belongs to the class catalog.
func IsOfferedClass(tag string) bool {
	for _, class := range ClassesOffered {
		if class == tag {
			return true
		}
	}
	return false
}

// IsFacilityKey reports whether key belongs to the facility catalog.
func IsFacilityKey(key string) bool {
	for _, facility := range FacilityKeys {
		if facility == key {
			return true
		}
	}
	return false
}
