package institutions

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/madarsaconnect/madarsa-backend/pkg/db/models"
	dbtypes "github.com/madarsaconnect/madarsa-backend/pkg/db/types"
	"github.com/madarsaconnect/madarsa-backend/pkg/enums"
	"github.com/madarsaconnect/madarsa-backend/pkg/types"
)

func setupInstitutionsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	schema := `
CREATE TABLE IF NOT EXISTS institutions (
  id TEXT PRIMARY KEY,
  join_code TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  established INTEGER NOT NULL,
  type TEXT NOT NULL,
  address TEXT NOT NULL,
  city TEXT NOT NULL,
  state TEXT NOT NULL,
  pincode TEXT NOT NULL,
  phone TEXT NOT NULL,
  alt_phone TEXT,
  email TEXT NOT NULL,
  website TEXT,
  mohatmim_name TEXT NOT NULL,
  mohatmim_email TEXT NOT NULL,
  classes TEXT NOT NULL,
  total_students INTEGER NOT NULL DEFAULT 0,
  total_teachers INTEGER NOT NULL DEFAULT 0,
  total_staff INTEGER NOT NULL DEFAULT 0,
  facilities TEXT,
  logo_url TEXT,
  cover_url TEXT,
  gallery TEXT,
  about TEXT NOT NULL DEFAULT '',
  status TEXT NOT NULL DEFAULT 'pending',
  created_by TEXT NOT NULL,
  staff_uids TEXT NOT NULL DEFAULT '{}',
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(schema).Error)
	return db
}

func seedInstitutionRecord(joinCode string) *models.Institution {
	return &models.Institution{
		ID:            uuid.New(),
		JoinCode:      joinCode,
		Name:          "Jamia Ashrafia",
		Established:   1962,
		Type:          string(enums.InstitutionTypeJamia),
		Address:       "12 Shah Najaf Road, Hazratganj",
		City:          "Lucknow",
		State:         "Uttar Pradesh",
		Pincode:       "226001",
		Phone:         "9876543210",
		Email:         "office@jamia-ashrafia.example",
		MohatmimName:  "Maulana Sahib",
		MohatmimEmail: "office@jamia-ashrafia.example",
		Classes:       pq.StringArray{"hifz", "alim"},
		TotalStudents: 240,
		TotalTeachers: 12,
		Facilities:    types.Facilities{"library": true, "hostel": "boys"},
		Gallery:       pq.StringArray{},
		Status:        enums.VerificationStatusPending,
		CreatedBy:     uuid.New(),
		StaffUIDs:     dbtypes.UUIDArray{},
	}
}

func TestRepositoryCreateAndFindByID(t *testing.T) {
	db := setupInstitutionsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	record := seedInstitutionRecord("MDRAB12")
	require.NoError(t, repo.Create(ctx, record))

	found, err := repo.FindByID(ctx, record.ID)
	require.NoError(t, err)

	assert.Equal(t, record.Name, found.Name)
	assert.Equal(t, record.JoinCode, found.JoinCode)
	assert.Equal(t, []string{"hifz", "alim"}, []string(found.Classes))
	assert.Equal(t, true, found.Facilities.Has("library"))
	hostel, ok := found.Facilities.Hostel()
	require.True(t, ok)
	assert.Equal(t, "boys", hostel)
	assert.Equal(t, record.CreatedBy, found.CreatedBy)
	assert.Empty(t, found.StaffUIDs)
}

func TestRepositoryFindByJoinCode(t *testing.T) {
	db := setupInstitutionsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	record := seedInstitutionRecord("MDRX9K2")
	require.NoError(t, repo.Create(ctx, record))

	found, err := repo.FindByJoinCode(ctx, "MDRX9K2")
	require.NoError(t, err)
	assert.Equal(t, record.ID, found.ID)

	_, err = repo.FindByJoinCode(ctx, "MDRZZZZ")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryRejectsDuplicateJoinCode(t *testing.T) {
	db := setupInstitutionsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, seedInstitutionRecord("MDRAB12")))

	err := repo.Create(ctx, seedInstitutionRecord("MDRAB12"))
	require.Error(t, err)
}

func TestRepositoryUpdatePersistsStaffUIDs(t *testing.T) {
	db := setupInstitutionsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	record := seedInstitutionRecord("MDRAB12")
	require.NoError(t, repo.Create(ctx, record))

	staffID := uuid.New()
	record.StaffUIDs = dbtypes.UUIDArray{staffID}
	record.About = "Established in the old city."
	require.NoError(t, repo.Update(ctx, record))

	found, err := repo.FindByID(ctx, record.ID)
	require.NoError(t, err)
	assert.True(t, found.StaffUIDs.Contains(staffID))
	assert.Equal(t, "Established in the old city.", found.About)
}

func TestRepositoryListAllOrdersByCreation(t *testing.T) {
	db := setupInstitutionsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	older := seedInstitutionRecord("MDRAB12")
	older.CreatedAt = time.Now().Add(-time.Hour)
	newer := seedInstitutionRecord("MDRCD34")
	newer.CreatedAt = time.Now()

	require.NoError(t, repo.Create(ctx, newer))
	require.NoError(t, repo.Create(ctx, older))

	records, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, older.ID, records[0].ID)
	assert.Equal(t, newer.ID, records[1].ID)
}
