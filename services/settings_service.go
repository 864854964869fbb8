package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/abdur28/boarding-sky-sub000/models"
)

// SettingsService owns the singleton documents: site config and static pages.
type SettingsService struct {
	DB *gorm.DB
}

func NewSettingsService(db *gorm.DB) *SettingsService {
	return &SettingsService{DB: db}
}

// GetConfig returns the stored config with the Stripe secret masked. A missing
// row reads as defaults.
func (s *SettingsService) GetConfig(ctx context.Context) (models.SiteConfig, error) {
	cfg, err := s.loadConfig(ctx)
	if err != nil {
		return models.SiteConfig{}, err
	}
	return cfg.Masked(), nil
}

// UpdateConfig validates and stores cfg. A secret key left out or submitted
// back in its masked form keeps the stored secret.
func (s *SettingsService) UpdateConfig(ctx context.Context, cfg models.SiteConfig) (models.SiteConfig, error) {
	current, err := s.loadConfig(ctx)
	if err != nil {
		return models.SiteConfig{}, err
	}
	if k := strings.TrimSpace(cfg.StripeSecretKey); k == "" || k == current.Masked().StripeSecretKey {
		cfg.StripeSecretKey = current.StripeSecretKey
	}

	if err := cfg.Normalize(); err != nil {
		return models.SiteConfig{}, err
	}
	if err := cfg.Validate(); err != nil {
		return models.SiteConfig{}, err
	}

	if err := s.DB.WithContext(ctx).Save(&cfg).Error; err != nil {
		return models.SiteConfig{}, fmt.Errorf("failed to save config: %w", err)
	}
	return cfg.Masked(), nil
}

func (s *SettingsService) loadConfig(ctx context.Context) (models.SiteConfig, error) {
	var cfg models.SiteConfig
	err := s.DB.WithContext(ctx).First(&cfg, models.SiteConfigID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.SiteConfig{
			ID:       models.SiteConfigID,
			Currency: "USD",
			Services: datatypes.NewJSONType(models.ServiceSettings{}),
		}, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("failed to retrieve config: %w", err)
	}
	return cfg, nil
}

func knownPage(slug string) bool {
	return slug == models.PagePrivacyPolicy || slug == models.PageTermsAndConditions
}

// GetPage returns an empty page for a known slug that was never written.
func (s *SettingsService) GetPage(ctx context.Context, slug string) (models.Page, error) {
	if !knownPage(slug) {
		return models.Page{}, fmt.Errorf("page %q: %w", slug, ErrNotFound)
	}
	var p models.Page
	err := s.DB.WithContext(ctx).First(&p, "slug = ?", slug).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Page{Slug: slug}, nil
	}
	if err != nil {
		return p, fmt.Errorf("failed to retrieve page %s: %w", slug, err)
	}
	return p, nil
}

// UpdatePage creates the page on first write.
func (s *SettingsService) UpdatePage(ctx context.Context, slug, title, content string) (models.Page, error) {
	if !knownPage(slug) {
		return models.Page{}, fmt.Errorf("page %q: %w", slug, ErrNotFound)
	}
	if strings.TrimSpace(title) == "" {
		return models.Page{}, fmt.Errorf("%w: title is required", ErrInvalid)
	}

	p := models.Page{Slug: slug, Title: strings.TrimSpace(title), Content: content}
	if err := s.DB.WithContext(ctx).Save(&p).Error; err != nil {
		return models.Page{}, fmt.Errorf("failed to save page %s: %w", slug, err)
	}
	return p, nil
}
