package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "spendwise/internal/errors"
	"spendwise/internal/models"
)

// settingsService handles user settings business logic.
type settingsService struct {
	db *gorm.DB
}

// NewSettingsService creates a new SettingsServicer.
func NewSettingsService(db *gorm.DB) SettingsServicer {
	return &settingsService{db: db}
}

// GetSettings returns the user's settings, creating the default row on
// first access. Defaults are no daily limit and USD.
func (s *settingsService) GetSettings(userID string) (*models.UserSettings, error) {
	var settings models.UserSettings
	err := s.db.Where("user_id = ?", userID).First(&settings).Error
	if err == nil {
		return &settings, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	settings = models.UserSettings{
		UserID:     userID,
		DailyLimit: 0,
		Currency:   "USD",
	}
	if err := s.db.Create(&settings).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &settings, nil
}

// UpdateSettings applies partial updates to a user's settings. Nil fields
// are left unchanged.
func (s *settingsService) UpdateSettings(userID string, dailyLimit *int64, currency *string) (*models.UserSettings, error) {
	settings, err := s.GetSettings(userID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if dailyLimit != nil {
		if *dailyLimit < 0 {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "daily limit cannot be negative")
		}
		settings.DailyLimit = *dailyLimit
		updates["daily_limit"] = *dailyLimit
	}
	if currency != nil {
		settings.Currency = *currency
		updates["currency"] = *currency
	}

	if len(updates) == 0 {
		return settings, nil
	}

	if err := s.db.Model(settings).Updates(updates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return settings, nil
}
