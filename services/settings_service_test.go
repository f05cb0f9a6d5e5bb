package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/matias-herrera/repairshop-api/models"
)

func setupSettingsTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	if err := db.AutoMigrate(&models.Settings{}); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return db
}

func TestInitCreatesSettingsRow(t *testing.T) {
	db := setupSettingsTestDB(t)

	svc, err := InitSettingsService(db)
	require.NoError(t, err)

	settings, err := svc.Get()
	require.NoError(t, err)
	assert.EqualValues(t, models.SettingsID, settings.ID)
	assert.Empty(t, settings.CompanyName)

	var count int64
	db.Model(&models.Settings{}).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestInitIsIdempotent(t *testing.T) {
	db := setupSettingsTestDB(t)

	svc, err := InitSettingsService(db)
	require.NoError(t, err)
	require.NoError(t, svc.Update(&models.Settings{CompanyName: "TecnoFix"}))

	// A second init must not reset or duplicate the row
	_, err = InitSettingsService(db)
	require.NoError(t, err)

	var count int64
	db.Model(&models.Settings{}).Count(&count)
	assert.EqualValues(t, 1, count)

	settings, err := svc.Get()
	require.NoError(t, err)
	assert.Equal(t, "TecnoFix", settings.CompanyName)
}

func TestUpdateSettingsPinsID(t *testing.T) {
	db := setupSettingsTestDB(t)

	svc, err := InitSettingsService(db)
	require.NoError(t, err)

	// Whatever id the caller passes, the single row is the one written
	require.NoError(t, svc.Update(&models.Settings{ID: 42, CompanyName: "TecnoFix"}))

	settings, err := svc.Get()
	require.NoError(t, err)
	assert.Equal(t, "TecnoFix", settings.CompanyName)

	var count int64
	db.Model(&models.Settings{}).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestSetLogo(t *testing.T) {
	db := setupSettingsTestDB(t)

	svc, err := InitSettingsService(db)
	require.NoError(t, err)
	require.NoError(t, svc.SetLogo("logo_ab12.png"))

	settings, err := svc.Get()
	require.NoError(t, err)
	assert.Equal(t, "logo_ab12.png", settings.LogoFilename)
}
