package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInstitutionsMigrationContainsConstraints(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_institutions.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no institutions migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CREATE TABLE IF NOT EXISTS institutions",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_institutions_join_code",
		"status verification_status NOT NULL DEFAULT 'pending'",
		"staff_uids uuid[] NOT NULL DEFAULT ARRAY[]::uuid[]",
		"DROP TABLE IF EXISTS institutions",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestStaffProfilesMigrationContainsConstraints(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_staff_profiles.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no staff profiles migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CREATE TABLE IF NOT EXISTS staff_profiles",
		"FOREIGN KEY (institution_id) REFERENCES institutions(id) ON DELETE CASCADE",
		"role staff_role NOT NULL DEFAULT 'teacher'",
		"DROP TABLE IF EXISTS staff_profiles",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}
