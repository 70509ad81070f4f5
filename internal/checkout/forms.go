package checkout

import (
	"strings"

	"github.com/angelmondragon/artmarket-storefront/pkg/enums"
	"github.com/angelmondragon/artmarket-storefront/pkg/types"
	"github.com/angelmondragon/artmarket-storefront/pkg/validators"
)

// ShippingForm is the shipping step. Field errors are keyed by the json names.
type ShippingForm struct {
	Name       string `json:"name" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
	Phone      string `json:"phone" validate:"required,phone"`
	Address    string `json:"address" validate:"required"`
	City       string `json:"city" validate:"required"`
	State      string `json:"state" validate:"required"`
	PostalCode string `json:"postalCode" validate:"required,postal"`
}

func (f ShippingForm) trimmed() ShippingForm {
	return ShippingForm{
		Name:       strings.TrimSpace(f.Name),
		Email:      strings.TrimSpace(f.Email),
		Phone:      strings.TrimSpace(f.Phone),
		Address:    strings.TrimSpace(f.Address),
		City:       strings.TrimSpace(f.City),
		State:      strings.TrimSpace(f.State),
		PostalCode: strings.TrimSpace(f.PostalCode),
	}
}

// Details converts the form into the order payload shape.
func (f ShippingForm) Details() types.ShippingDetails {
	t := f.trimmed()
	return types.ShippingDetails{
		Name:       t.Name,
		Email:      t.Email,
		Phone:      t.Phone,
		Address:    t.Address,
		City:       t.City,
		State:      t.State,
		PostalCode: t.PostalCode,
	}
}

// Validate returns VALIDATION_ERROR with per-field messages.
func (f ShippingForm) Validate() error {
	return validators.Struct(f.trimmed())
}

type CardDetails struct {
	Number string `json:"cardNumber" validate:"required,cardnumber"`
	Expiry string `json:"expiry" validate:"required,expiry"`
	CVV    string `json:"cvv" validate:"required,cvv"`
	Holder string `json:"cardName" validate:"required"`
}

// PaymentForm holds the chosen method; Card is only read for card payments.
type PaymentForm struct {
	Method enums.PaymentMethod
	Card   CardDetails
}

func (f PaymentForm) Validate() error {
	if !f.Method.IsValid() {
		return validators.Struct(struct {
			Method string `json:"paymentMethod" validate:"required,oneof=card upi cod"`
		}{Method: string(f.Method)})
	}
	if !f.Method.RequiresCardDetails() {
		return nil
	}
	card := CardDetails{
		Number: strings.TrimSpace(f.Card.Number),
		Expiry: strings.TrimSpace(f.Card.Expiry),
		CVV:    strings.TrimSpace(f.Card.CVV),
		Holder: strings.TrimSpace(f.Card.Holder),
	}
	return validators.Struct(card)
}

// Last4 is the masked card suffix kept on the receipt.
func (c CardDetails) Last4() string {
	digits := validators.StripSpaces(c.Number)
	if len(digits) < 4 {
		return ""
	}
	return digits[len(digits)-4:]
}
