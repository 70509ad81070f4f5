package pricing

import (
	"github.com/angelmondragon/artmarket-storefront/pkg/config"
	"github.com/angelmondragon/artmarket-storefront/pkg/types"
	"github.com/shopspring/decimal"
)

const (
	DefaultTaxRate               = 0.18
	DefaultFreeShippingThreshold = 25000
	DefaultFlatShippingFee       = 500
)

// Totals is the derived order summary. It is never stored.
type Totals struct {
	Subtotal   float64 `json:"subtotal"`
	Tax        float64 `json:"tax"`
	Shipping   float64 `json:"shipping"`
	GrandTotal float64 `json:"grandTotal"`
}

// Policy holds the tax and shipping rules applied by ComputeTotals.
type Policy struct {
	TaxRate               float64
	FreeShippingThreshold float64
	FlatShippingFee       float64
}

// DefaultPolicy returns the storefront's standard rates.
func DefaultPolicy() Policy {
	return Policy{
		TaxRate:               DefaultTaxRate,
		FreeShippingThreshold: DefaultFreeShippingThreshold,
		FlatShippingFee:       DefaultFlatShippingFee,
	}
}

// PolicyFromConfig builds a policy from the pricing config section.
func PolicyFromConfig(cfg config.PricingConfig) Policy {
	return Policy{
		TaxRate:               cfg.TaxRate,
		FreeShippingThreshold: cfg.FreeShippingThreshold,
		FlatShippingFee:       cfg.FlatShippingFee,
	}
}

type Option func(*Policy)

func WithTaxRate(rate float64) Option {
	return func(p *Policy) { p.TaxRate = rate }
}

func WithFreeShippingThreshold(threshold float64) Option {
	return func(p *Policy) { p.FreeShippingThreshold = threshold }
}

func WithFlatShippingFee(fee float64) Option {
	return func(p *Policy) { p.FlatShippingFee = fee }
}

// WithPolicy replaces every rule at once.
func WithPolicy(policy Policy) Option {
	return func(p *Policy) { *p = policy }
}

// ComputeTotals sums price × quantity over the items and applies tax and
// shipping. Accumulation is exact, so the result does not depend on item
// order. Shipping is free only when the subtotal is strictly above the
// threshold. Nothing is rounded here; rounding belongs to display conversion.
func ComputeTotals(items []types.CartLineItem, opts ...Option) Totals {
	policy := DefaultPolicy()
	for _, opt := range opts {
		if opt != nil {
			opt(&policy)
		}
	}

	subtotal := decimal.Zero
	for _, item := range items {
		if item.Quantity <= 0 {
			continue
		}
		line := decimal.NewFromFloat(item.UnitPrice).Mul(decimal.NewFromInt(int64(item.Quantity)))
		subtotal = subtotal.Add(line)
	}

	tax := subtotal.Mul(decimal.NewFromFloat(policy.TaxRate))

	shipping := decimal.NewFromFloat(policy.FlatShippingFee)
	if subtotal.GreaterThan(decimal.NewFromFloat(policy.FreeShippingThreshold)) {
		shipping = decimal.Zero
	}

	grand := subtotal.Add(tax).Add(shipping)

	return Totals{
		Subtotal:   subtotal.InexactFloat64(),
		Tax:        tax.InexactFloat64(),
		Shipping:   shipping.InexactFloat64(),
		GrandTotal: grand.InexactFloat64(),
	}
}
