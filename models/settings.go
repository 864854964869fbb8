package models

import (
	"strings"
	"time"

	"gorm.io/datatypes"
)

type ServiceSetting struct {
	Enabled  bool   `json:"enabled"`
	Provider string `json:"provider"`
}

type ServiceSettings struct {
	Flight ServiceSetting `json:"flight"`
	Hotel  ServiceSetting `json:"hotel"`
	Car    ServiceSetting `json:"car"`
}

// SiteConfig is a singleton row (ID 1) holding provider and payment configuration.
type SiteConfig struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UpdatedAt time.Time `json:"updatedAt"`

	Services             datatypes.JSONType[ServiceSettings] `json:"services"`
	PaymentsEnabled      bool                                `json:"paymentsEnabled"`
	StripePublishableKey string                              `gorm:"size:255" json:"stripePublishableKey"`
	StripeSecretKey      string                              `gorm:"size:255" json:"stripeSecretKey"`
	Currency             string                              `gorm:"size:3;default:USD" json:"currency"`
	SupportEmail         string                              `gorm:"size:191" json:"supportEmail"`
}

const SiteConfigID = 1

func (c *SiteConfig) Normalize() error {
	c.ID = SiteConfigID
	c.Currency = strings.ToUpper(strings.TrimSpace(c.Currency))
	if c.Currency == "" {
		c.Currency = "USD"
	}
	s := c.Services.Data()
	s.Flight.Provider = strings.TrimSpace(s.Flight.Provider)
	s.Hotel.Provider = strings.TrimSpace(s.Hotel.Provider)
	s.Car.Provider = strings.TrimSpace(s.Car.Provider)
	c.Services = datatypes.NewJSONType(s)
	c.StripePublishableKey = strings.TrimSpace(c.StripePublishableKey)
	c.StripeSecretKey = strings.TrimSpace(c.StripeSecretKey)
	return nil
}

func (c *SiteConfig) Validate() error {
	s := c.Services.Data()
	for _, svc := range []struct {
		name string
		ServiceSetting
	}{{"flight", s.Flight}, {"hotel", s.Hotel}, {"car", s.Car}} {
		if svc.Enabled && svc.Provider == "" {
			return invalid("no provider selected for enabled %s service", svc.name)
		}
	}
	if c.PaymentsEnabled && (c.StripePublishableKey == "" || c.StripeSecretKey == "") {
		return invalid("missing Stripe credentials")
	}
	return nil
}

// Masked returns a copy safe to send to the dashboard.
func (c SiteConfig) Masked() SiteConfig {
	if n := len(c.StripeSecretKey); n > 0 {
		keep := 4
		if n <= keep {
			keep = 0
		}
		c.StripeSecretKey = strings.Repeat("*", n-keep) + c.StripeSecretKey[n-keep:]
	}
	return c
}

const (
	PagePrivacyPolicy      = "privacy-policy"
	PageTermsAndConditions = "terms-and-conditions"
)

// Page is a singleton content document keyed by slug.
type Page struct {
	Slug      string    `gorm:"primaryKey;size:64" json:"slug"`
	Title     string    `gorm:"size:255" json:"title"`
	Content   string    `gorm:"type:longtext" json:"content"`
	UpdatedAt time.Time `json:"updatedAt"`
}
