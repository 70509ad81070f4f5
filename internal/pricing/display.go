package pricing

import (
	"math"
	"strings"

	"github.com/angelmondragon/artmarket-storefront/pkg/config"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	DefaultConversionRate = 83
	DefaultCurrencySymbol = "₹"
	DefaultLocale         = "en-IN"
)

// DisplayPrice is a base price converted to the display currency.
type DisplayPrice struct {
	Amount int64  `json:"amount"`
	Text   string `json:"text"`
}

func (d DisplayPrice) String() string {
	return d.Text
}

// Formatter converts base prices into display prices.
type Formatter struct {
	rate    decimal.Decimal
	symbol  string
	printer *message.Printer
}

// NewFormatter builds a formatter from the pricing config section. Unknown
// locales fall back to en-IN.
func NewFormatter(cfg config.PricingConfig) *Formatter {
	rate := cfg.ConversionRate
	if rate <= 0 {
		rate = DefaultConversionRate
	}
	symbol := cfg.CurrencySymbol
	if strings.TrimSpace(symbol) == "" {
		symbol = DefaultCurrencySymbol
	}
	tag, err := language.Parse(cfg.Locale)
	if err != nil {
		tag = language.MustParse(DefaultLocale)
	}
	return &Formatter{
		rate:    decimal.NewFromFloat(rate),
		symbol:  symbol,
		printer: message.NewPrinter(tag),
	}
}

var defaultFormatter = NewFormatter(config.PricingConfig{
	ConversionRate: DefaultConversionRate,
	CurrencySymbol: DefaultCurrencySymbol,
	Locale:         DefaultLocale,
})

// ConvertForDisplay uses the default 83× rate, en-IN grouping and the ₹ glyph.
func ConvertForDisplay(price *float64) *DisplayPrice {
	return defaultFormatter.ConvertForDisplay(price)
}

// ConvertForDisplay converts, rounds to the nearest whole unit and formats.
// It returns nil when the price is absent, zero, negative or not a number;
// callers render that as "price unavailable".
func (f *Formatter) ConvertForDisplay(price *float64) *DisplayPrice {
	if price == nil {
		return nil
	}
	p := *price
	if math.IsNaN(p) || math.IsInf(p, 0) || p <= 0 {
		return nil
	}
	amount := decimal.NewFromFloat(p).Mul(f.rate).Round(0).IntPart()
	return &DisplayPrice{
		Amount: amount,
		Text:   f.symbol + f.printer.Sprintf("%d", amount),
	}
}

// FormatAmount converts and formats a base amount such as an order total.
// Unlike ConvertForDisplay, zero renders as a real amount.
func (f *Formatter) FormatAmount(amount float64) string {
	rounded := decimal.NewFromFloat(amount).Mul(f.rate).Round(0).IntPart()
	return f.symbol + f.printer.Sprintf("%d", rounded)
}
