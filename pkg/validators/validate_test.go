package validators

import (
	"net/http/httptest"
	"strings"
	"testing"

	pkgerrors "github.com/angelmondragon/artmarket-storefront/pkg/errors"
)

type contactForm struct {
	Email      string `json:"email" validate:"required,email"`
	Phone      string `json:"phone" validate:"required,phone"`
	PostalCode string `json:"postalCode" validate:"required,postal"`
}

type cardForm struct {
	Number string `json:"cardNumber" validate:"required,cardnumber"`
	Expiry string `json:"expiry" validate:"required,expiry"`
	CVV    string `json:"cvv" validate:"required,cvv"`
}

func TestStructReportsFieldErrorsByJSONName(t *testing.T) {
	err := Struct(contactForm{Email: "nope", Phone: "987654321", PostalCode: "56001"})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	fields := typed.FieldErrors()
	want := map[string]string{
		"email":      "must be a valid email",
		"phone":      "must be a 10-digit phone number",
		"postalCode": "must be a 6-digit postal code",
	}
	for field, msg := range want {
		if fields[field] != msg {
			t.Fatalf("field %s: expected %q, got %q", field, msg, fields[field])
		}
	}
}

func TestStructAcceptsValidInput(t *testing.T) {
	if err := Struct(contactForm{Email: "a@b.in", Phone: "9876543210", PostalCode: "560001"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCardTags(t *testing.T) {
	cases := []struct {
		name  string
		form  cardForm
		field string
	}{
		{"spaced number ok", cardForm{"4111 1111 1111 1111", "12/29", "123"}, ""},
		{"short number", cardForm{"4111 1111 1111", "12/29", "123"}, "cardNumber"},
		{"month 13", cardForm{"4111111111111111", "13/29", "123"}, "expiry"},
		{"no slash", cardForm{"4111111111111111", "1229", "123"}, "expiry"},
		{"four digit cvv", cardForm{"4111111111111111", "01/30", "1234"}, "cvv"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := Struct(tc.form)
			if tc.field == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			fields := pkgerrors.As(err).FieldErrors()
			if _, ok := fields[tc.field]; !ok || len(fields) != 1 {
				t.Fatalf("expected only %s to fail, got %v", tc.field, fields)
			}
		})
	}
}

func TestDecodeJSONBodyRejectsUnknownFields(t *testing.T) {
	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"email":"a@b.in","extra":1}`))
	var dest contactForm
	if err := DecodeJSONBody(req, &dest); !pkgerrors.Is(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestParseQueryInt(t *testing.T) {
	req := httptest.NewRequest("GET", "/?page=3&limit=500&bad=x", nil)
	if v, err := ParseQueryInt(req, "page", 1, 1, 100); err != nil || v != 3 {
		t.Fatalf("expected 3, got %d (%v)", v, err)
	}
	if v, err := ParseQueryInt(req, "missing", 7, 1, 100); err != nil || v != 7 {
		t.Fatalf("expected default, got %d (%v)", v, err)
	}
	if _, err := ParseQueryInt(req, "limit", 20, 1, 100); err == nil {
		t.Fatalf("expected range error")
	}
	if _, err := ParseQueryInt(req, "bad", 1, 1, 100); err == nil {
		t.Fatalf("expected parse error")
	}
}
