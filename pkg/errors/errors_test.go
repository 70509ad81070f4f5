package errors

import (
	stdErrors "errors"
	"fmt"
	"testing"
)

func TestMetadataForKnownCodes(t *testing.T) {
	tests := []struct {
		code       Code
		surface    Surface
		retryable  bool
		propagates bool
	}{
		{code: CodeValidation, surface: SurfaceField},
		{code: CodeAuthRequired, surface: SurfacePrompt, propagates: true},
		{code: CodeSessionExpired, surface: SurfacePrompt, propagates: true},
		{code: CodeNetwork, surface: SurfaceNotice, retryable: true, propagates: true},
		{code: CodeServer, surface: SurfaceNotice, propagates: true},
		{code: CodeEmptyCart, surface: SurfaceNotice},
		{code: CodeStateConflict, surface: SurfaceNotice},
	}

	for _, tt := range tests {
		meta := MetadataFor(tt.code)
		if meta.Surface != tt.surface {
			t.Fatalf("code %s expected surface %s got %s", tt.code, tt.surface, meta.Surface)
		}
		if meta.Retryable != tt.retryable {
			t.Fatalf("code %s expected retryable %v got %v", tt.code, tt.retryable, meta.Retryable)
		}
		if meta.Propagates != tt.propagates {
			t.Fatalf("code %s expected propagates %v got %v", tt.code, tt.propagates, meta.Propagates)
		}
		if meta.PublicMessage == "" {
			t.Fatalf("code %s missing public message", tt.code)
		}
	}
}

func TestMetadataForUnknownCodeDefaultsToInternal(t *testing.T) {
	meta := MetadataFor("SOMETHING_UNKNOWN")
	if meta != MetadataFor(CodeInternal) {
		t.Fatalf("expected internal metadata, got %+v", meta)
	}
}

func TestErrorConstructors(t *testing.T) {
	base := New(CodeValidation, "missing phone")
	if base.Code() != CodeValidation {
		t.Fatalf("expected validation code, got %s", base.Code())
	}
	if base.Details() != nil {
		t.Fatalf("details should be nil by default")
	}

	base.WithDetails(map[string]string{"phone": "Phone must be 10 digits"})
	if got := base.FieldErrors()["phone"]; got != "Phone must be 10 digits" {
		t.Fatalf("field errors not preserved, got %q", got)
	}

	cause := stdErrors.New("boom")
	wrapped := Wrap(CodeNetwork, cause, "get cart")
	if !stdErrors.Is(wrapped, cause) {
		t.Fatalf("Wrap did not preserve cause")
	}
	if wrapped.Code() != CodeNetwork {
		t.Fatalf("unexpected code %s", wrapped.Code())
	}
}

func TestAsAndIsSeeThroughWrapping(t *testing.T) {
	err := fmt.Errorf("outer: %w", New(CodeAuthRequired, "login first"))
	if got := As(err); got == nil || got.Code() != CodeAuthRequired {
		t.Fatalf("As failed to return typed error")
	}
	if !Is(err, CodeAuthRequired) {
		t.Fatalf("Is should match wrapped code")
	}
	if CodeOf(stdErrors.New("plain")) != CodeInternal {
		t.Fatalf("plain errors should map to internal")
	}
	if As(nil) != nil {
		t.Fatalf("As(nil) should return nil")
	}
}

func TestUserMessage(t *testing.T) {
	if got := UserMessage(New(CodeServer, "Artwork already sold")); got != "Artwork already sold" {
		t.Fatalf("server message should surface verbatim, got %q", got)
	}
	if got := UserMessage(New(CodeNetwork, "dial tcp: refused")); got != MetadataFor(CodeNetwork).PublicMessage {
		t.Fatalf("network errors should use the public message, got %q", got)
	}
	if got := UserMessage(stdErrors.New("x")); got != MetadataFor(CodeInternal).PublicMessage {
		t.Fatalf("untyped errors should use the internal message, got %q", got)
	}
}
