package institutions

import (
	"testing"
)

func validStep1() Step1Input {
	return Step1Input{
		Name:         "Jamia Ashrafia",
		Established:  "1985",
		Type:         "madrasa",
		Address:      "14 Civil Lines, Near Clock Tower",
		City:         "Lucknow",
		State:        "Uttar Pradesh",
		Pincode:      "226001",
		Phone:        "9876543210",
		Email:        "office@jamia-ashrafia.example",
		MohatmimName: "Maulana Abdul Qadir",
	}
}

func validStep2() Step2Input {
	return Step2Input{
		Classes:       []string{"hifz", "nazra"},
		TotalStudents: "240",
		TotalTeachers: "12",
		Facilities:    []string{"library", "prayerHall"},
	}
}

func TestValidateStep1AcceptsCompleteInput(t *testing.T) {
	if errs := ValidateStep1(validStep1()); len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}
}

func TestValidateStep1FieldRules(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Step1Input)
		field  string
	}{
		{"short name", func(in *Step1Input) { in.Name = "Ja" }, "name"},
		{"established not four digits", func(in *Step1Input) { in.Established = "85" }, "established"},
		{"established non numeric", func(in *Step1Input) { in.Established = "19a5" }, "established"},
		{"missing type", func(in *Step1Input) { in.Type = "" }, "type"},
		{"unknown type", func(in *Step1Input) { in.Type = "academy" }, "type"},
		{"other without override", func(in *Step1Input) { in.Type = "other"; in.OtherType = "" }, "other_type"},
		{"short address", func(in *Step1Input) { in.Address = "14 Lines" }, "address"},
		{"short city", func(in *Step1Input) { in.City = "L" }, "city"},
		{"state off enumeration", func(in *Step1Input) { in.State = "Uttarpradesh" }, "state"},
		{"pincode wrong length", func(in *Step1Input) { in.Pincode = "22600" }, "pincode"},
		{"phone wrong length", func(in *Step1Input) { in.Phone = "98765" }, "phone"},
		{"invalid email", func(in *Step1Input) { in.Email = "not-an-email" }, "email"},
		{"invalid website", func(in *Step1Input) { in.Website = "not a url" }, "website"},
		{"short mohatmim name", func(in *Step1Input) { in.MohatmimName = "Ab" }, "mohatmim_name"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validStep1()
			tc.mutate(&in)
			errs := ValidateStep1(in)
			if _, ok := errs[tc.field]; !ok {
				t.Fatalf("expected error on %q, got %v", tc.field, errs)
			}
		})
	}
}

func TestValidateStep1OptionalFields(t *testing.T) {
	in := validStep1()
	in.AltPhone = "not even a phone"
	in.Website = "https://jamia-ashrafia.example"
	if errs := ValidateStep1(in); len(errs) != 0 {
		t.Fatalf("alt phone is unconstrained and website is valid, got %v", errs)
	}
}

func TestValidateStep2AcceptsCompleteInput(t *testing.T) {
	if errs := ValidateStep2(validStep2()); len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}
}

func TestValidateStep2FieldRules(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Step2Input)
		field  string
	}{
		{"no classes", func(in *Step2Input) { in.Classes = nil }, "classes"},
		{"class off catalog", func(in *Step2Input) { in.Classes = []string{"phd"} }, "classes"},
		{"students not digits", func(in *Step2Input) { in.TotalStudents = "many" }, "total_students"},
		{"students empty", func(in *Step2Input) { in.TotalStudents = "" }, "total_students"},
		{"teachers not digits", func(in *Step2Input) { in.TotalTeachers = "12x" }, "total_teachers"},
		{"staff not digits", func(in *Step2Input) { in.TotalStaff = "a few" }, "total_staff"},
		{"hostel off tri-state", func(in *Step2Input) { in.Hostel = "mixed" }, "hostel"},
		{"facility off catalog", func(in *Step2Input) { in.Facilities = []string{"pool"} }, "facilities"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validStep2()
			tc.mutate(&in)
			errs := ValidateStep2(in)
			if _, ok := errs[tc.field]; !ok {
				t.Fatalf("expected error on %q, got %v", tc.field, errs)
			}
		})
	}
}

func TestValidateStep2StaffOptional(t *testing.T) {
	in := validStep2()
	in.TotalStaff = ""
	in.Hostel = "girls"
	if errs := ValidateStep2(in); len(errs) != 0 {
		t.Fatalf("staff count is optional, got %v", errs)
	}
}

func TestResolvedTypeNeverLiteralOther(t *testing.T) {
	in := validStep1()
	in.Type = "other"
	in.OtherType = "  Islamic Boarding School "
	if got := in.ResolvedType(); got != "Islamic Boarding School" {
		t.Fatalf("expected trimmed override, got %q", got)
	}

	in.Type = "maktab"
	if got := in.ResolvedType(); got != "maktab" {
		t.Fatalf("expected selected type, got %q", got)
	}
}
