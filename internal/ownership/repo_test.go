//go:build db
// +build db

package ownership

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/madarsaconnect/madarsa-backend/pkg/db/models"
	dbtypes "github.com/madarsaconnect/madarsa-backend/pkg/db/types"
	"github.com/madarsaconnect/madarsa-backend/pkg/enums"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := os.Getenv("MADARSA_DB_DSN")
	if dsn == "" {
		t.Skip("MADARSA_DB_DSN is not set")
	}

	conn, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	return conn
}

func seedInstitution(t *testing.T, tx *gorm.DB, createdBy uuid.UUID, staff ...uuid.UUID) *models.Institution {
	t.Helper()
	institution := &models.Institution{
		ID:            uuid.New(),
		JoinCode:      fmt.Sprintf("MDR%s", uuid.NewString()[:4]),
		Name:          "Repo Test Madarsa",
		Established:   1990,
		Type:          "madrasa",
		Address:       "1 Test Street, Old City",
		City:          "Hyderabad",
		State:         "Telangana",
		Pincode:       "500001",
		Phone:         "9000000000",
		Email:         fmt.Sprintf("repo_%s@example.com", uuid.NewString()),
		MohatmimName:  "Test Mohatmim",
		MohatmimEmail: "mohatmim@example.com",
		Classes:       pq.StringArray{"hifz"},
		Gallery:       pq.StringArray{},
		Status:        enums.VerificationStatusPending,
		CreatedBy:     createdBy,
		StaffUIDs:     dbtypes.UUIDArray(staff),
	}
	if err := tx.Create(institution).Error; err != nil {
		t.Fatalf("create institution: %v", err)
	}
	return institution
}

func TestFindOwnedMatchesBothPredicateArms(t *testing.T) {
	conn := openTestDB(t)
	tx := conn.Begin()
	if tx.Error != nil {
		t.Fatalf("begin tx: %v", tx.Error)
	}
	t.Cleanup(func() {
		_ = tx.Rollback()
	})

	repo := NewRepository(tx)
	ctx := context.Background()

	creator := uuid.New()
	staffMember := uuid.New()
	stranger := uuid.New()

	created := seedInstitution(t, tx, creator)
	joined := seedInstitution(t, tx, uuid.New(), staffMember)
	seedInstitution(t, tx, uuid.New())

	byCreator, err := repo.FindOwned(ctx, creator)
	if err != nil {
		t.Fatalf("find by creator: %v", err)
	}
	if len(byCreator) != 1 || byCreator[0].ID != created.ID {
		t.Fatalf("creator arm mismatch: %v", byCreator)
	}

	byStaff, err := repo.FindOwned(ctx, staffMember)
	if err != nil {
		t.Fatalf("find by staff: %v", err)
	}
	if len(byStaff) != 1 || byStaff[0].ID != joined.ID {
		t.Fatalf("staff arm mismatch: %v", byStaff)
	}

	byStranger, err := repo.FindOwned(ctx, stranger)
	if err != nil {
		t.Fatalf("find by stranger: %v", err)
	}
	if len(byStranger) != 0 {
		t.Fatalf("stranger must own nothing, got %d", len(byStranger))
	}
}
