package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"gorm.io/datatypes"

	"github.com/abdur28/boarding-sky-sub000/access"
	"github.com/abdur28/boarding-sky-sub000/models"
)

func TestSettingsService_UpdateConfigValidation(t *testing.T) {
	svc := NewSettingsService(newTestDB(t))
	ctx := context.Background()

	cfg := models.SiteConfig{
		Services: datatypes.NewJSONType(models.ServiceSettings{
			Flight: models.ServiceSetting{Enabled: true},
		}),
	}
	_, err := svc.UpdateConfig(ctx, cfg)
	if !errors.Is(err, ErrInvalid) || !strings.Contains(err.Error(), "no provider selected for enabled flight service") {
		t.Fatalf("got %v", err)
	}

	cfg = models.SiteConfig{
		Services:             datatypes.NewJSONType(models.ServiceSettings{}),
		PaymentsEnabled:      true,
		StripePublishableKey: "pk_test_1",
	}
	_, err = svc.UpdateConfig(ctx, cfg)
	if !errors.Is(err, ErrInvalid) || !strings.Contains(err.Error(), "missing Stripe credentials") {
		t.Fatalf("got %v", err)
	}

	got, err := svc.GetConfig(ctx)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.PaymentsEnabled {
		t.Fatalf("rejected config was stored")
	}
}

func TestSettingsService_MaskedSecretRoundTrip(t *testing.T) {
	svc := NewSettingsService(newTestDB(t))
	ctx := context.Background()

	cfg := models.SiteConfig{
		Services: datatypes.NewJSONType(models.ServiceSettings{
			Hotel: models.ServiceSetting{Enabled: true, Provider: "amadeus"},
		}),
		PaymentsEnabled:      true,
		StripePublishableKey: "pk_test_1",
		StripeSecretKey:      "sk_test_abcdef1234",
		Currency:             "eur",
	}
	saved, err := svc.UpdateConfig(ctx, cfg)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if saved.StripeSecretKey == "sk_test_abcdef1234" || !strings.HasSuffix(saved.StripeSecretKey, "1234") {
		t.Fatalf("secret not masked: %q", saved.StripeSecretKey)
	}
	if saved.Currency != "EUR" {
		t.Fatalf("currency = %q", saved.Currency)
	}

	// the dashboard posts back what it was shown
	saved.SupportEmail = "help@example.com"
	if _, err := svc.UpdateConfig(ctx, saved); err != nil {
		t.Fatalf("update: %v", err)
	}

	var stored models.SiteConfig
	if err := svc.DB.First(&stored, models.SiteConfigID).Error; err != nil {
		t.Fatalf("load: %v", err)
	}
	if stored.StripeSecretKey != "sk_test_abcdef1234" {
		t.Fatalf("stored secret = %q", stored.StripeSecretKey)
	}
	if stored.SupportEmail != "help@example.com" {
		t.Fatalf("support email = %q", stored.SupportEmail)
	}

	// payments switched off by a form that does not carry the secret at all
	if _, err := svc.UpdateConfig(ctx, models.SiteConfig{
		Services:             datatypes.NewJSONType(models.ServiceSettings{}),
		StripePublishableKey: "pk_test_1",
	}); err != nil {
		t.Fatalf("update: %v", err)
	}
	stored = models.SiteConfig{}
	if err := svc.DB.First(&stored, models.SiteConfigID).Error; err != nil {
		t.Fatalf("load: %v", err)
	}
	if stored.PaymentsEnabled || stored.StripeSecretKey != "sk_test_abcdef1234" {
		t.Fatalf("omitted secret cleared the stored one: enabled=%v secret=%q", stored.PaymentsEnabled, stored.StripeSecretKey)
	}
}

func TestSettingsService_Pages(t *testing.T) {
	svc := NewSettingsService(newTestDB(t))
	ctx := context.Background()

	p, err := svc.GetPage(ctx, models.PagePrivacyPolicy)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if p.Slug != models.PagePrivacyPolicy || p.Content != "" {
		t.Fatalf("got %+v", p)
	}

	if _, err := svc.UpdatePage(ctx, models.PagePrivacyPolicy, "Privacy", "<p>hi</p>"); err != nil {
		t.Fatalf("update: %v", err)
	}
	if _, err := svc.UpdatePage(ctx, models.PagePrivacyPolicy, "Privacy Policy", "<p>v2</p>"); err != nil {
		t.Fatalf("update: %v", err)
	}
	p, err = svc.GetPage(ctx, models.PagePrivacyPolicy)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if p.Title != "Privacy Policy" || p.Content != "<p>v2</p>" {
		t.Fatalf("got %+v", p)
	}

	if _, err := svc.GetPage(ctx, "cookies"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := svc.UpdatePage(ctx, models.PageTermsAndConditions, " ", "x"); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
}

func TestUserService_ResolveActor(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)
	ctx := context.Background()

	u := models.User{Email: "ops@example.com", Role: "manager"}
	if err := db.Create(&u).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}

	actor, err := svc.ResolveActor(ctx, " OPS@example.com ")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if actor.Role != access.RoleManager || actor.Email != "ops@example.com" {
		t.Fatalf("got %+v", actor)
	}

	actor, err = svc.ResolveActor(ctx, "stranger@example.com")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if actor.Role != access.RoleUser {
		t.Fatalf("unknown user role = %s", actor.Role)
	}

	if _, err := svc.SetRole(ctx, u.ID, "superuser"); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
	updated, err := svc.SetRole(ctx, u.ID, "Editor")
	if err != nil {
		t.Fatalf("set role: %v", err)
	}
	if updated.Role != "editor" {
		t.Fatalf("role = %s", updated.Role)
	}
	if _, err := svc.SetRole(ctx, "missing", "admin"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
