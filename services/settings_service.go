package services

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/matias-herrera/repairshop-api/models"
)

// SettingsService owns the single settings row. The row is created once,
// explicitly, at startup; request handlers only ever read or update it.
type SettingsService struct {
	db *gorm.DB
}

var settingsServiceInstance *SettingsService

// InitSettingsService initializes the settings service and makes sure the
// settings row exists. Call this once at startup, before serving requests.
func InitSettingsService(db *gorm.DB) (*SettingsService, error) {
	s := &SettingsService{db: db}
	if _, err := s.Ensure(); err != nil {
		return nil, err
	}
	settingsServiceInstance = s
	return s, nil
}

// GetSettingsService returns the initialized settings service instance
func GetSettingsService() *SettingsService {
	return settingsServiceInstance
}

// SetSettingsService sets the settings service instance (primarily for testing)
func SetSettingsService(s *SettingsService) {
	settingsServiceInstance = s
}

// Ensure creates the settings row with its fixed id if it does not exist
// yet and returns it.
func (s *SettingsService) Ensure() (*models.Settings, error) {
	settings := models.Settings{ID: models.SettingsID}
	if err := s.db.FirstOrCreate(&settings, models.Settings{ID: models.SettingsID}).Error; err != nil {
		return nil, fmt.Errorf("failed to ensure settings row: %w", err)
	}
	return &settings, nil
}

// Get returns the settings row.
func (s *SettingsService) Get() (*models.Settings, error) {
	var settings models.Settings
	if err := s.db.First(&settings, models.SettingsID).Error; err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	return &settings, nil
}

// Update persists changes to the settings row.
func (s *SettingsService) Update(settings *models.Settings) error {
	settings.ID = models.SettingsID
	if err := s.db.Save(settings).Error; err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}

// SetLogo stores the uploaded logo's filename.
func (s *SettingsService) SetLogo(filename string) error {
	err := s.db.Model(&models.Settings{}).
		Where("id = ?", models.SettingsID).
		Update("logo_filename", filename).Error
	if err != nil {
		return fmt.Errorf("failed to save logo filename: %w", err)
	}
	return nil
}
