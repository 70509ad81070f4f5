package pricing

import (
	"math"
	"math/rand"
	"testing"

	"github.com/angelmondragon/artmarket-storefront/pkg/config"
	"github.com/angelmondragon/artmarket-storefront/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func line(id string, price float64, qty int) types.CartLineItem {
	return types.CartLineItem{ID: id, Title: id, UnitPrice: price, Quantity: qty}
}

func TestComputeTotalsEndToEndScenario(t *testing.T) {
	totals := ComputeTotals([]types.CartLineItem{line("a1", 10000, 2)})

	assert.Equal(t, 20000.0, totals.Subtotal)
	assert.Equal(t, 3600.0, totals.Tax)
	assert.Equal(t, 500.0, totals.Shipping)
	assert.Equal(t, 24100.0, totals.GrandTotal)
}

func TestComputeTotalsShippingBoundary(t *testing.T) {
	cases := []struct {
		name     string
		subtotal float64
		shipping float64
	}{
		{"at threshold pays flat fee", 25000, 500},
		{"just above threshold ships free", 25000.01, 0},
		{"below threshold pays flat fee", 100, 500},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			totals := ComputeTotals([]types.CartLineItem{line("a1", tc.subtotal, 1)})
			assert.Equal(t, tc.shipping, totals.Shipping)
			assert.Equal(t, tc.subtotal, totals.Subtotal)
		})
	}
}

func TestComputeTotalsIsPureAndOrderIndependent(t *testing.T) {
	items := []types.CartLineItem{
		line("a1", 0.1, 3),
		line("a2", 0.2, 7),
		line("a3", 1999.99, 1),
		line("a4", 12.34, 5),
		line("a5", 0.07, 11),
	}
	snapshot := append([]types.CartLineItem(nil), items...)

	first := ComputeTotals(items)
	require.Equal(t, snapshot, items, "inputs must not be mutated")
	require.Equal(t, first, ComputeTotals(items), "same input must give same output")

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 20; i++ {
		shuffled := append([]types.CartLineItem(nil), items...)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		require.Equal(t, first, ComputeTotals(shuffled))
	}

	// 0.3 + 1.4 + 1999.99 + 61.7 + 0.77
	assert.Equal(t, 2064.16, first.Subtotal)
}

func TestComputeTotalsEmptyAndOptions(t *testing.T) {
	empty := ComputeTotals(nil)
	assert.Equal(t, Totals{Shipping: 500, GrandTotal: 500}, empty)

	totals := ComputeTotals(
		[]types.CartLineItem{line("a1", 1000, 1)},
		WithTaxRate(0.1),
		WithFreeShippingThreshold(500),
		WithFlatShippingFee(99),
	)
	assert.Equal(t, 100.0, totals.Tax)
	assert.Equal(t, 0.0, totals.Shipping)
	assert.Equal(t, 1100.0, totals.GrandTotal)

	fromCfg := ComputeTotals(
		[]types.CartLineItem{line("a1", 1000, 1)},
		WithPolicy(PolicyFromConfig(config.PricingConfig{TaxRate: 0.05, FreeShippingThreshold: 5000, FlatShippingFee: 10})),
	)
	assert.Equal(t, 50.0, fromCfg.Tax)
	assert.Equal(t, 10.0, fromCfg.Shipping)
}

func TestComputeTotalsSkipsNonPositiveQuantities(t *testing.T) {
	totals := ComputeTotals([]types.CartLineItem{line("a1", 100, 0), line("a2", 100, -2), line("a3", 50, 2)})
	assert.Equal(t, 100.0, totals.Subtotal)
}

func TestConvertForDisplay(t *testing.T) {
	p := func(v float64) *float64 { return &v }

	got := ConvertForDisplay(p(100))
	require.NotNil(t, got)
	assert.Equal(t, int64(8300), got.Amount)
	assert.Equal(t, "₹8,300", got.Text)

	got = ConvertForDisplay(p(12.5))
	require.NotNil(t, got)
	assert.Equal(t, int64(1038), got.Amount, "1037.5 rounds to nearest")
	assert.Equal(t, "₹1,038", got.String())

	assert.Nil(t, ConvertForDisplay(nil))
	assert.Nil(t, ConvertForDisplay(p(0)))
	assert.Nil(t, ConvertForDisplay(p(-5)))
	assert.Nil(t, ConvertForDisplay(p(math.NaN())))
}

func TestFormatterFromConfig(t *testing.T) {
	f := NewFormatter(config.PricingConfig{ConversionRate: 1, CurrencySymbol: "$", Locale: "en-US"})
	p := 1234.4
	got := f.ConvertForDisplay(&p)
	require.NotNil(t, got)
	assert.Equal(t, "$1,234", got.Text)
	assert.Equal(t, "$0", f.FormatAmount(0))

	fallback := NewFormatter(config.PricingConfig{Locale: "not a locale"})
	assert.Equal(t, "₹830", fallback.FormatAmount(10))
}
