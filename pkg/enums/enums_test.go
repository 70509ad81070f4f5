package enums

import "testing"

func TestCheckoutStepWalk(t *testing.T) {
	step := CheckoutStepCart
	var seen []CheckoutStep
	for {
		seen = append(seen, step)
		next, ok := step.Next()
		if !ok {
			break
		}
		step = next
	}
	if len(seen) != 4 || seen[3] != CheckoutStepConfirmation {
		t.Fatalf("unexpected walk %v", seen)
	}
	if _, ok := CheckoutStepCart.Previous(); ok {
		t.Fatalf("cart has no previous step")
	}
	if prev, ok := CheckoutStepPayment.Previous(); !ok || prev != CheckoutStepShipping {
		t.Fatalf("expected shipping before payment, got %s", prev)
	}
	if CheckoutStep("review").IsValid() {
		t.Fatalf("unknown step should be invalid")
	}
}

func TestParsers(t *testing.T) {
	if got, err := ParseCheckoutStep("payment"); err != nil || got != CheckoutStepPayment {
		t.Fatalf("ParseCheckoutStep: %v %v", got, err)
	}
	if _, err := ParsePaymentMethod("paypal"); err == nil {
		t.Fatalf("expected error for unsupported payment method")
	}
	if got, err := ParsePaymentMethod("upi"); err != nil || got.RequiresCardDetails() {
		t.Fatalf("upi should parse and need no card: %v %v", got, err)
	}
	if !PaymentMethodCard.RequiresCardDetails() {
		t.Fatalf("card requires card details")
	}
	if _, err := ParseSessionState("guest"); err == nil {
		t.Fatalf("expected error for unknown session state")
	}
	if got, err := ParseArtworkSort("likes"); err != nil || got != ArtworkSortLikes {
		t.Fatalf("ParseArtworkSort: %v %v", got, err)
	}
	if _, err := ParseSortOrder("up"); err == nil {
		t.Fatalf("expected error for unknown sort order")
	}
}
