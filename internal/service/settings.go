package service

import (
	"context"
	"fmt"

	apperrors "musafir/internal/errors"
	"musafir/internal/models"
	"musafir/internal/repository"
)

type SettingsService struct {
	settingsRepo *repository.SettingsRepository
}

func NewSettingsService(settingsRepo *repository.SettingsRepository) *SettingsService {
	return &SettingsService{settingsRepo: settingsRepo}
}

// PublicSettings is the subset of site settings safe to expose without auth.
type PublicSettings struct {
	SiteName      string              `json:"site_name"`
	Tagline       string              `json:"tagline"`
	LogoURL       string              `json:"logo_url"`
	ContactEmail  string              `json:"contact_email"`
	ContactPhone  string              `json:"contact_phone"`
	RazorpayKeyID string              `json:"razorpay_key_id"`
	SEO           models.SEOSettings  `json:"seo"`
	FeatureFlags  models.FeatureFlags `json:"feature_flags"`
}

// GetPublic returns the public settings view, or 404 before first setup.
func (s *SettingsService) GetPublic(ctx context.Context) (*PublicSettings, error) {
	settings, err := s.getActive(ctx)
	if err != nil {
		return nil, err
	}

	return &PublicSettings{
		SiteName:      settings.SiteName,
		Tagline:       settings.Tagline,
		LogoURL:       settings.LogoURL,
		ContactEmail:  settings.ContactEmail,
		ContactPhone:  settings.ContactPhone,
		RazorpayKeyID: settings.RazorpayKeyID,
		SEO:           models.SEOSettings(settings.SEO),
		FeatureFlags:  settings.FeatureFlags,
	}, nil
}

// Get returns the full settings document for admins.
func (s *SettingsService) Get(ctx context.Context) (*models.SiteSettings, error) {
	return s.getActive(ctx)
}

func (s *SettingsService) getActive(ctx context.Context) (*models.SiteSettings, error) {
	settings, err := s.settingsRepo.GetActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}
	if settings == nil {
		return nil, apperrors.ErrNotFound
	}
	return settings, nil
}

// Save replaces the active settings document.
func (s *SettingsService) Save(ctx context.Context, settings *models.SiteSettings) (*models.SiteSettings, error) {
	if settings.SiteName == "" {
		return nil, apperrors.NewValidation("site_name", "is required")
	}

	if err := s.settingsRepo.Save(ctx, settings); err != nil {
		return nil, fmt.Errorf("failed to save settings: %w", err)
	}
	return settings, nil
}
