package enums

import "fmt"

// CheckoutStep is a position in the linear checkout flow.
type CheckoutStep string

const (
	CheckoutStepCart         CheckoutStep = "cart"
	CheckoutStepShipping     CheckoutStep = "shipping"
	CheckoutStepPayment      CheckoutStep = "payment"
	CheckoutStepConfirmation CheckoutStep = "confirmation"
)

// validCheckoutSteps is ordered; Index relies on it.
var validCheckoutSteps = []CheckoutStep{
	CheckoutStepCart,
	CheckoutStepShipping,
	CheckoutStepPayment,
	CheckoutStepConfirmation,
}

// String implements fmt.Stringer.
func (s CheckoutStep) String() string {
	return string(s)
}

// IsValid reports whether the value is a known CheckoutStep.
func (s CheckoutStep) IsValid() bool {
	return s.Index() >= 0
}

// Index returns the zero-based position of the step, or -1 when unknown.
func (s CheckoutStep) Index() int {
	for i, candidate := range validCheckoutSteps {
		if candidate == s {
			return i
		}
	}
	return -1
}

// Next returns the following step; confirmation is terminal.
func (s CheckoutStep) Next() (CheckoutStep, bool) {
	i := s.Index()
	if i < 0 || i == len(validCheckoutSteps)-1 {
		return s, false
	}
	return validCheckoutSteps[i+1], true
}

// Previous returns the preceding step; cart has none.
func (s CheckoutStep) Previous() (CheckoutStep, bool) {
	i := s.Index()
	if i <= 0 {
		return s, false
	}
	return validCheckoutSteps[i-1], true
}

// ParseCheckoutStep converts raw input into a CheckoutStep.
func ParseCheckoutStep(value string) (CheckoutStep, error) {
	for _, candidate := range validCheckoutSteps {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid checkout step %q", value)
}
