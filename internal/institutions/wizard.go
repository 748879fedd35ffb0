package institutions

import (
	"net/mail"
	"net/url"
	"regexp"
	"strings"

	"github.com/madarsaconnect/madarsa-backend/pkg/enums"
)

var (
	yearPattern    = regexp.MustCompile(`^\d{4}$`)
	pincodePattern = regexp.MustCompile(`^\d{6}$`)
	phonePattern   = regexp.MustCompile(`^\d{10}$`)
	digitsPattern  = regexp.MustCompile(`^\d+$`)
)

// Step1Input carries the wizard's first page: identity, location, contact,
// and the administrator-in-charge. Counts stay strings until submission.
type Step1Input struct {
	Name          string `json:"name"`
	Established   string `json:"established"`
	Type          string `json:"type"`
	OtherType     string `json:"other_type"`
	Address       string `json:"address"`
	City          string `json:"city"`
	State         string `json:"state"`
	Pincode       string `json:"pincode"`
	Phone         string `json:"phone"`
	AltPhone      string `json:"alt_phone"`
	Email         string `json:"email"`
	Website       string `json:"website"`
	MohatmimName  string `json:"mohatmim_name"`
	MohatmimEmail string `json:"mohatmim_email"`
}

// Step2Input carries the wizard's second page: academics and facilities.
type Step2Input struct {
	Classes       []string `json:"classes"`
	TotalStudents string   `json:"total_students"`
	TotalTeachers string   `json:"total_teachers"`
	TotalStaff    string   `json:"total_staff"`
	Hostel        string   `json:"hostel"`
	Facilities    []string `json:"facilities"`
	About         string   `json:"about"`
}

// ValidateStep1 applies the first page's rules and returns a field-keyed
// error map. An empty map means the step passes.
func ValidateStep1(in Step1Input) map[string]string {
	errs := map[string]string{}

	if len(strings.TrimSpace(in.Name)) < 3 {
		errs["name"] = "name must be at least 3 characters"
	}
	if !yearPattern.MatchString(in.Established) {
		errs["established"] = "established year must be exactly 4 digits"
	}

	switch {
	case strings.TrimSpace(in.Type) == "":
		errs["type"] = "institution type is required"
	case !enums.InstitutionType(in.Type).IsValid():
		errs["type"] = "unknown institution type"
	case enums.InstitutionType(in.Type) == enums.InstitutionTypeOther &&
		strings.TrimSpace(in.OtherType) == "":
		errs["other_type"] = "other type must be specified"
	}

	if len(strings.TrimSpace(in.Address)) < 10 {
		errs["address"] = "address must be at least 10 characters"
	}
	if len(strings.TrimSpace(in.City)) < 2 {
		errs["city"] = "city must be at least 2 characters"
	}
	if !IsIndianState(in.State) {
		errs["state"] = "state must be selected from the list"
	}
	if !pincodePattern.MatchString(in.Pincode) {
		errs["pincode"] = "pincode must be exactly 6 digits"
	}
	if !phonePattern.MatchString(in.Phone) {
		errs["phone"] = "phone number must be exactly 10 digits"
	}
	if _, err := mail.ParseAddress(strings.TrimSpace(in.Email)); err != nil {
		errs["email"] = "email address is invalid"
	}
	if website := strings.TrimSpace(in.Website); website != "" {
		parsed, err := url.Parse(website)
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			errs["website"] = "website must be a valid URL"
		}
	}
	if len(strings.TrimSpace(in.MohatmimName)) < 3 {
		errs["mohatmim_name"] = "mohatmim name must be at least 3 characters"
	}
	if mohatmimEmail := strings.TrimSpace(in.MohatmimEmail); mohatmimEmail != "" {
		if _, err := mail.ParseAddress(mohatmimEmail); err != nil {
			errs["mohatmim_email"] = "mohatmim email is invalid"
		}
	}

	return errs
}

// ValidateStep2 applies the second page's rules and returns a field-keyed
// error map. An empty map means the step passes.
func ValidateStep2(in Step2Input) map[string]string {
	errs := map[string]string{}

	if len(in.Classes) == 0 {
		errs["classes"] = "select at least one class"
	}
	for _, class := range in.Classes {
		if !IsOfferedClass(class) {
			errs["classes"] = "unknown class " + class
			break
		}
	}

	if !digitsPattern.MatchString(in.TotalStudents) {
		errs["total_students"] = "student count must be digits only"
	}
	if !digitsPattern.MatchString(in.TotalTeachers) {
		errs["total_teachers"] = "teacher count must be digits only"
	}
	if in.TotalStaff != "" && !digitsPattern.MatchString(in.TotalStaff) {
		errs["total_staff"] = "staff count must be digits only"
	}

	if in.Hostel != "" && !enums.HostelType(in.Hostel).IsValid() {
		errs["hostel"] = "hostel must be boys, girls or both"
	}
	for _, facility := range in.Facilities {
		if !IsFacilityKey(facility) {
			errs["facilities"] = "unknown facility " + facility
			break
		}
	}

	return errs
}

// ResolvedType returns the stored institution type: the selected enum value,
// or the free-text override when the "other" sentinel was chosen. The literal
// "other" never reaches a persisted record.
func (in Step1Input) ResolvedType() string {
	if enums.InstitutionType(in.Type) == enums.InstitutionTypeOther {
		return strings.TrimSpace(in.OtherType)
	}
	return in.Type
}
