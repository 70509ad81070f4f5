package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	if cfg.API.Timeout != 10*time.Second {
		t.Fatalf("expected 10s api timeout, got %v", cfg.API.Timeout)
	}
	if cfg.Pricing.TaxRate != 0.18 {
		t.Fatalf("expected default tax rate 0.18, got %v", cfg.Pricing.TaxRate)
	}
	if cfg.Pricing.FreeShippingThreshold != 25000 || cfg.Pricing.FlatShippingFee != 500 {
		t.Fatalf("unexpected shipping defaults %+v", cfg.Pricing)
	}
	if cfg.Pricing.ConversionRate != 83 {
		t.Fatalf("expected conversion rate 83, got %v", cfg.Pricing.ConversionRate)
	}
	if cfg.Storage.NormalizedDriver() != StorageDriverSQLite {
		t.Fatalf("expected sqlite storage default, got %q", cfg.Storage.Driver)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv(EnvAPIBaseURL, "https://gallery.example.com/api/v1")
	t.Setenv(EnvAPITimeout, "3s")
	t.Setenv(EnvStorageDriver, "REDIS")
	t.Setenv(EnvTaxRate, "0.05")
	t.Setenv(EnvPaymentDelay, "0s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}
	if cfg.API.BaseURL != "https://gallery.example.com/api/v1" {
		t.Fatalf("unexpected base url %q", cfg.API.BaseURL)
	}
	if cfg.API.Timeout != 3*time.Second {
		t.Fatalf("unexpected timeout %v", cfg.API.Timeout)
	}
	if cfg.Storage.NormalizedDriver() != StorageDriverRedis {
		t.Fatalf("unexpected driver %q", cfg.Storage.Driver)
	}
	if cfg.Pricing.TaxRate != 0.05 {
		t.Fatalf("unexpected tax rate %v", cfg.Pricing.TaxRate)
	}
	if cfg.Checkout.PaymentDelay != 0 {
		t.Fatalf("unexpected payment delay %v", cfg.Checkout.PaymentDelay)
	}
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	t.Setenv(EnvStorageDriver, "floppy")
	if _, err := Load(); err == nil {
		t.Fatal("expected unknown storage driver to fail")
	}

	t.Setenv(EnvStorageDriver, "memory")
	t.Setenv(EnvAPIBaseURL, "not a url")
	if _, err := Load(); err == nil {
		t.Fatal("expected relative base url to fail")
	}
}

func TestAppConfigEnvHelpers(t *testing.T) {
	devConfig := AppConfig{Env: "DEV"}
	if !devConfig.IsDev() || devConfig.IsProd() {
		t.Fatalf("unexpected helpers for %q", devConfig.Env)
	}
	prodConfig := AppConfig{Env: "prod"}
	if !prodConfig.IsProd() || prodConfig.IsDev() {
		t.Fatalf("unexpected helpers for %q", prodConfig.Env)
	}
}

func TestJWTConfigTTL(t *testing.T) {
	if got := (JWTConfig{ExpirationMinutes: 15}).TTL(); got != 15*time.Minute {
		t.Fatalf("expected 15m, got %v", got)
	}
	if got := (JWTConfig{}).TTL(); got != 0 {
		t.Fatalf("expected zero ttl, got %v", got)
	}
}
