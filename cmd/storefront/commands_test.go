package main

import (
	"bytes"
	"context"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/angelmondragon/artmarket-storefront/internal/app"
	"github.com/angelmondragon/artmarket-storefront/internal/devapi"
	"github.com/angelmondragon/artmarket-storefront/internal/pricing"
	"github.com/angelmondragon/artmarket-storefront/internal/storage"
	"github.com/angelmondragon/artmarket-storefront/pkg/config"
	pkgerrors "github.com/angelmondragon/artmarket-storefront/pkg/errors"
	"github.com/angelmondragon/artmarket-storefront/pkg/logger"
)

func newStorefront(t *testing.T) *app.Storefront {
	t.Helper()
	cfg := &config.Config{
		API:     config.APIConfig{Timeout: 5 * time.Second, EntryPath: "/login"},
		Storage: config.StorageConfig{Driver: config.StorageDriverMemory},
		Pricing: config.PricingConfig{
			ConversionRate:        83,
			CurrencySymbol:        "₹",
			Locale:                "en-IN",
			TaxRate:               pricing.DefaultTaxRate,
			FreeShippingThreshold: pricing.DefaultFreeShippingThreshold,
			FlatShippingFee:       pricing.DefaultFlatShippingFee,
		},
		Checkout: config.CheckoutConfig{SubmitOrders: true},
		DevAPI:   config.DevAPIConfig{SeedUser: "collector@example.com", SeedPass: "gallery-pass"},
		JWT:      config.JWTConfig{Secret: "cli-secret", Issuer: "cli-test", ExpirationMinutes: 5},
		Password: config.PasswordConfig{ArgonMemoryKB: 8 * 1024, ArgonTime: 1, ArgonParallelism: 1, ArgonSaltLen: 16, ArgonKeyLen: 32},
	}
	srv, err := devapi.NewServer(cfg, logger.Nop())
	if err != nil {
		t.Fatalf("devapi: %v", err)
	}
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	cfg.API.BaseURL = ts.URL + devapi.BasePath

	sf, err := app.Init(context.Background(), cfg, app.WithLogger(logger.Nop()), app.WithCache(storage.NewMemoryStore()))
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	t.Cleanup(func() { _ = sf.Dispose(context.Background()) })
	return sf
}

func exec(t *testing.T, sf *app.Storefront, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := run(context.Background(), sf, args, &out)
	return out.String(), err
}

func mustExec(t *testing.T, sf *app.Storefront, args ...string) string {
	t.Helper()
	out, err := exec(t, sf, args...)
	if err != nil {
		t.Fatalf("%v: %s\n%s", args, describe(err), out)
	}
	return out
}

func TestUnknownCommandPrintsUsage(t *testing.T) {
	sf := newStorefront(t)
	out, err := exec(t, sf, "paint")
	if !errors.Is(err, errUsage) {
		t.Fatalf("expected usage error, got %v", err)
	}
	if !strings.Contains(out, "usage: storefront") {
		t.Fatalf("usage not printed: %q", out)
	}
}

func TestBrowseCommands(t *testing.T) {
	sf := newStorefront(t)

	out := mustExec(t, sf, "artworks", "-category", "sculpture", "-sort", "price", "-order", "asc")
	heron := strings.Index(out, "Backwater Heron")
	nets := strings.Index(out, "Net Menders")
	if heron < 0 || nets < 0 || nets > heron {
		t.Fatalf("expected Net Menders before Backwater Heron:\n%s", out)
	}
	if !strings.Contains(out, "(2 artworks)") {
		t.Fatalf("missing total:\n%s", out)
	}

	out = mustExec(t, sf, "artwork", "art-6")
	if !strings.Contains(out, "price unavailable") {
		t.Fatalf("unpriced artwork should say so:\n%s", out)
	}

	out = mustExec(t, sf, "artwork", "art-1")
	if !strings.Contains(out, "₹9,960") {
		t.Fatalf("expected converted price:\n%s", out)
	}
}

func TestGuestCartAndCheckout(t *testing.T) {
	sf := newStorefront(t)

	mustExec(t, sf, "add", "art-1")
	mustExec(t, sf, "add", "art-1")
	out := mustExec(t, sf, "cart")
	if !strings.Contains(out, "Monsoon Ridge") || !strings.Contains(out, "total") {
		t.Fatalf("cart output:\n%s", out)
	}

	_, err := exec(t, sf, "add", "art-5")
	if !pkgerrors.Is(err, pkgerrors.CodeNotAvailable) {
		t.Fatalf("expected not available, got %v", err)
	}

	_, err = exec(t, sf, "checkout", "-name", "Asha", "-email", "asha@example.com", "-phone", "98765", "-method", "upi")
	if !pkgerrors.Is(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if msg := describe(err); !strings.Contains(msg, "phone:") || !strings.Contains(msg, "postalCode:") {
		t.Fatalf("field errors missing: %s", msg)
	}

	out = mustExec(t, sf, "checkout",
		"-name", "Asha", "-email", "asha@example.com", "-phone", "9876543210",
		"-address", "7 Lake View", "-city", "Pune", "-state", "Maharashtra", "-postal", "411001",
		"-method", "card", "-card-number", "4111 1111 1111 1111", "-expiry", "12/30", "-cvv", "123", "-card-name", "Asha",
	)
	if !strings.Contains(out, "confirmed") || !strings.Contains(out, "ending 1111") {
		t.Fatalf("checkout output:\n%s", out)
	}
	if !sf.Cart.IsEmpty() {
		t.Fatalf("cart should be empty after checkout")
	}
}

func TestAccountCommands(t *testing.T) {
	sf := newStorefront(t)

	if out := mustExec(t, sf, "whoami"); strings.TrimSpace(out) != "guest" {
		t.Fatalf("whoami = %q", out)
	}
	if _, err := exec(t, sf, "favorites"); !pkgerrors.Is(err, pkgerrors.CodeAuthRequired) {
		t.Fatalf("favorites should require a session, got %v", err)
	}

	mustExec(t, sf, "add", "art-3")
	out := mustExec(t, sf, "login", "-email", "collector@example.com", "-password", "gallery-pass")
	if !strings.Contains(out, "moved 1 guest cart item(s)") {
		t.Fatalf("login output:\n%s", out)
	}

	out = mustExec(t, sf, "fav", "art-2")
	if !strings.Contains(out, "added Coffee Estate at Dusk") {
		t.Fatalf("fav output:\n%s", out)
	}
	out = mustExec(t, sf, "favorites")
	if !strings.Contains(out, "art-2") {
		t.Fatalf("favorites output:\n%s", out)
	}

	out = mustExec(t, sf, "like", "art-4")
	if !strings.Contains(out, "liked (13 likes)") {
		t.Fatalf("like output:\n%s", out)
	}

	out = mustExec(t, sf, "addresses")
	if !strings.Contains(out, "default") {
		t.Fatalf("addresses output:\n%s", out)
	}

	out = mustExec(t, sf, "profile", "-name", "Asha Rao")
	if !strings.Contains(out, "Asha Rao") {
		t.Fatalf("profile output:\n%s", out)
	}

	out = mustExec(t, sf, "logout")
	if !strings.Contains(out, "1 item(s) kept in cart") {
		t.Fatalf("logout output:\n%s", out)
	}
	if sf.Session.IsAuthenticated() {
		t.Fatalf("still authenticated after logout")
	}
}

func TestDescribeAddsHintByCode(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{pkgerrors.New(pkgerrors.CodeAuthRequired, "log in to save favorites"), `run "storefront login"`},
		{pkgerrors.New(pkgerrors.CodeSessionExpired, "session ended"), `run "storefront login"`},
		{pkgerrors.New(pkgerrors.CodeNetwork, "dial failed"), "can be retried"},
	}
	for _, tc := range cases {
		if got := describe(tc.err); !strings.Contains(got, tc.want) {
			t.Fatalf("describe(%v) = %q, want it to contain %q", tc.err, got, tc.want)
		}
	}
	if got := describe(pkgerrors.New(pkgerrors.CodeNotAvailable, "not for sale")); strings.Contains(got, "login") || strings.Contains(got, "retried") {
		t.Fatalf("unexpected hint: %q", got)
	}
}
