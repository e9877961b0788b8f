package repository

import (
	"context"
	"database/sql"

	"musafir/internal/database"
	"musafir/internal/models"
)

const settingsColumns = `id, site_name, tagline, logo_url, contact_email, contact_phone,
       razorpay_key_id, seo, booking_policy, feature_flags, is_active, updated_at`

type SettingsRepository struct {
	db *database.DB
}

func NewSettingsRepository(db *database.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

func scanSettings(row interface{ Scan(...any) error }) (*models.SiteSettings, error) {
	s := &models.SiteSettings{}
	err := row.Scan(
		&s.ID,
		&s.SiteName,
		&s.Tagline,
		&s.LogoURL,
		&s.ContactEmail,
		&s.ContactPhone,
		&s.RazorpayKeyID,
		&s.SEO,
		&s.BookingPolicy,
		&s.FeatureFlags,
		&s.IsActive,
		&s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// GetActive returns the single active settings row, or nil before first setup.
func (r *SettingsRepository) GetActive(ctx context.Context) (*models.SiteSettings, error) {
	settings, err := scanSettings(r.db.QueryRowContext(ctx,
		`SELECT `+settingsColumns+` FROM site_settings WHERE is_active`))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return settings, err
}

// Save updates the active row in place, or inserts the first one. The partial
// unique index on (is_active) WHERE is_active guards against a second active
// row slipping in concurrently.
func (r *SettingsRepository) Save(ctx context.Context, s *models.SiteSettings) error {
	existing, err := r.GetActive(ctx)
	if err != nil {
		return err
	}

	if existing == nil {
		query := `
			INSERT INTO site_settings (site_name, tagline, logo_url, contact_email, contact_phone,
			                           razorpay_key_id, seo, booking_policy, feature_flags, is_active)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, TRUE)
			RETURNING id, updated_at`

		return r.db.QueryRowContext(ctx, query,
			s.SiteName, s.Tagline, s.LogoURL, s.ContactEmail, s.ContactPhone,
			s.RazorpayKeyID, s.SEO, s.BookingPolicy, s.FeatureFlags,
		).Scan(&s.ID, &s.UpdatedAt)
	}

	query := `
		UPDATE site_settings
		SET site_name = $1, tagline = $2, logo_url = $3, contact_email = $4, contact_phone = $5,
		    razorpay_key_id = $6, seo = $7, booking_policy = $8, feature_flags = $9, updated_at = NOW()
		WHERE id = $10
		RETURNING updated_at`

	s.ID = existing.ID
	s.IsActive = true
	return r.db.QueryRowContext(ctx, query,
		s.SiteName, s.Tagline, s.LogoURL, s.ContactEmail, s.ContactPhone,
		s.RazorpayKeyID, s.SEO, s.BookingPolicy, s.FeatureFlags, s.ID,
	).Scan(&s.UpdatedAt)
}
