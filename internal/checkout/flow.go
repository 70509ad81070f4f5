// Package checkout is the linear checkout stepper: cart, shipping, payment,
// confirmation. Forward moves are gated on validation; the payment step is
// simulated and always succeeds, after which the cart is cleared.
package checkout

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/angelmondragon/artmarket-storefront/internal/api"
	"github.com/angelmondragon/artmarket-storefront/internal/pricing"
	"github.com/angelmondragon/artmarket-storefront/pkg/enums"
	pkgerrors "github.com/angelmondragon/artmarket-storefront/pkg/errors"
	"github.com/angelmondragon/artmarket-storefront/pkg/logger"
	"github.com/angelmondragon/artmarket-storefront/pkg/types"
	"github.com/google/uuid"
)

const DefaultPaymentDelay = 2 * time.Second

type cartSource interface {
	Items() []types.CartLineItem
	IsEmpty() bool
	ClearCart(ctx context.Context)
}

type orderSubmitter interface {
	Authenticated() bool
	CreateOrder(ctx context.Context, order api.OrderRequest) (types.Order, error)
}

// Receipt is what the confirmation step shows.
type Receipt struct {
	OrderID       string
	Submitted     bool
	Items         []types.CartLineItem
	Totals        pricing.Totals
	PaymentMethod enums.PaymentMethod
	CardLast4     string
	Shipping      types.ShippingDetails
	PlacedAt      time.Time
}

type Flow struct {
	cart   cartSource
	orders orderSubmitter
	logg   *logger.Logger
	policy pricing.Policy
	delay  time.Duration
	now    func() time.Time

	mu         sync.Mutex
	step       enums.CheckoutStep
	shipping   ShippingForm
	payment    PaymentForm
	errors     map[string]string
	processing bool
	receipt    *Receipt
}

type Option func(*Flow)

func WithLogger(logg *logger.Logger) Option {
	return func(f *Flow) {
		if logg != nil {
			f.logg = logg
		}
	}
}

// WithOrderSubmitter enables best-effort order creation for signed-in users.
func WithOrderSubmitter(orders orderSubmitter) Option {
	return func(f *Flow) { f.orders = orders }
}

// WithPaymentDelay sets how long the simulated payment takes. Zero is allowed.
func WithPaymentDelay(delay time.Duration) Option {
	return func(f *Flow) {
		if delay >= 0 {
			f.delay = delay
		}
	}
}

func WithPricingPolicy(policy pricing.Policy) Option {
	return func(f *Flow) { f.policy = policy }
}

func WithClock(now func() time.Time) Option {
	return func(f *Flow) {
		if now != nil {
			f.now = now
		}
	}
}

// NewFlow starts a checkout at the cart step.
func NewFlow(cart cartSource, opts ...Option) (*Flow, error) {
	if cart == nil {
		return nil, fmt.Errorf("checkout cart required")
	}
	f := &Flow{
		cart:   cart,
		logg:   logger.Nop(),
		policy: pricing.DefaultPolicy(),
		delay:  DefaultPaymentDelay,
		now:    time.Now,
		step:   enums.CheckoutStepCart,
		errors: map[string]string{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(f)
		}
	}
	return f, nil
}

func (f *Flow) Step() enums.CheckoutStep {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.step
}

func (f *Flow) IsProcessing() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.processing
}

// Errors returns the field errors from the last rejected transition.
func (f *Flow) Errors() map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]string, len(f.errors))
	for k, v := range f.errors {
		out[k] = v
	}
	return out
}

// Totals are always computed from the cart as it is now.
func (f *Flow) Totals() pricing.Totals {
	return pricing.ComputeTotals(f.cart.Items(), pricing.WithPolicy(f.policy))
}

func (f *Flow) Receipt() (Receipt, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.receipt == nil {
		return Receipt{}, false
	}
	r := *f.receipt
	r.Items = append([]types.CartLineItem(nil), f.receipt.Items...)
	return r, true
}

func (f *Flow) Shipping() ShippingForm {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.shipping
}

func (f *Flow) SetShipping(form ShippingForm) {
	f.mu.Lock()
	f.shipping = form
	f.mu.Unlock()
}

func (f *Flow) SetPayment(form PaymentForm) {
	f.mu.Lock()
	f.payment = form
	f.mu.Unlock()
}

// PrefillShipping fills empty shipping fields from the signed-in user and a
// saved address. Fields the buyer already typed are left alone.
func (f *Flow) PrefillShipping(user types.User, addr *types.Address) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fill := func(dst *string, value string) {
		if *dst == "" {
			*dst = value
		}
	}
	fill(&f.shipping.Name, user.Name)
	fill(&f.shipping.Email, user.Email)
	fill(&f.shipping.Phone, user.Phone)
	if addr == nil {
		return
	}
	fill(&f.shipping.Name, addr.Name)
	fill(&f.shipping.Phone, addr.Phone)
	fill(&f.shipping.Address, addr.Line1)
	fill(&f.shipping.City, addr.City)
	fill(&f.shipping.State, addr.State)
	fill(&f.shipping.PostalCode, addr.PostalCode)
}

// Next attempts the forward transition from the current step.
func (f *Flow) Next(ctx context.Context) error {
	f.mu.Lock()
	if f.processing {
		f.mu.Unlock()
		return pkgerrors.New(pkgerrors.CodeStateConflict, "payment is already being processed")
	}

	switch f.step {
	case enums.CheckoutStepCart:
		defer f.mu.Unlock()
		if f.cart.IsEmpty() {
			return f.emptyCartLocked()
		}
		f.advanceLocked(enums.CheckoutStepShipping)
		return nil

	case enums.CheckoutStepShipping:
		defer f.mu.Unlock()
		if err := f.shipping.Validate(); err != nil {
			f.errors = fieldErrors(err)
			return err
		}
		f.advanceLocked(enums.CheckoutStepPayment)
		return nil

	case enums.CheckoutStepPayment:
		if f.cart.IsEmpty() {
			defer f.mu.Unlock()
			return f.emptyCartLocked()
		}
		if err := f.payment.Validate(); err != nil {
			f.errors = fieldErrors(err)
			f.mu.Unlock()
			return err
		}
		f.errors = map[string]string{}
		f.processing = true
		payment := f.payment
		shipping := f.shipping.Details()
		f.mu.Unlock()
		return f.pay(ctx, payment, shipping)

	default:
		f.mu.Unlock()
		return pkgerrors.New(pkgerrors.CodeStateConflict, "checkout is already complete")
	}
}

func (f *Flow) emptyCartLocked() error {
	f.errors = map[string]string{"cart": "your cart is empty"}
	return pkgerrors.New(pkgerrors.CodeEmptyCart, "your cart is empty")
}

func (f *Flow) advanceLocked(step enums.CheckoutStep) {
	f.step = step
	f.errors = map[string]string{}
}

// pay runs the simulated payment, clears the cart and lands on confirmation.
func (f *Flow) pay(ctx context.Context, payment PaymentForm, shipping types.ShippingDetails) error {
	ctx = f.logg.WithOperation(ctx, "checkout_payment")
	if err := f.wait(ctx); err != nil {
		f.mu.Lock()
		f.processing = false
		f.mu.Unlock()
		return pkgerrors.Wrap(pkgerrors.CodeNetwork, err, "payment was interrupted")
	}

	items := f.cart.Items()
	if len(items) == 0 {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.processing = false
		return f.emptyCartLocked()
	}
	totals := pricing.ComputeTotals(items, pricing.WithPolicy(f.policy))
	f.cart.ClearCart(ctx)

	receipt := &Receipt{
		OrderID:       uuid.NewString(),
		Items:         items,
		Totals:        totals,
		PaymentMethod: payment.Method,
		Shipping:      shipping,
		PlacedAt:      f.now(),
	}
	if payment.Method.RequiresCardDetails() {
		receipt.CardLast4 = payment.Card.Last4()
	}
	f.submitOrder(ctx, receipt)

	f.mu.Lock()
	f.receipt = receipt
	f.step = enums.CheckoutStepConfirmation
	f.processing = false
	f.mu.Unlock()
	f.logg.Info(f.logg.WithField(ctx, "order_id", receipt.OrderID), "checkout confirmed")
	return nil
}

func (f *Flow) wait(ctx context.Context) error {
	if f.delay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(f.delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// submitOrder records the order on the server when a session exists.
// Failures are logged; the confirmation keeps the local order id.
func (f *Flow) submitOrder(ctx context.Context, receipt *Receipt) {
	if f.orders == nil || !f.orders.Authenticated() {
		return
	}
	order, err := f.orders.CreateOrder(ctx, api.OrderRequest{
		Items:         receipt.Items,
		Shipping:      receipt.Shipping,
		PaymentMethod: receipt.PaymentMethod.String(),
		Subtotal:      receipt.Totals.Subtotal,
		Tax:           receipt.Totals.Tax,
		ShippingFee:   receipt.Totals.Shipping,
		GrandTotal:    receipt.Totals.GrandTotal,
	})
	if err != nil {
		f.logg.WarnErr(ctx, "order submission failed", err)
		return
	}
	if order.ID != "" {
		receipt.OrderID = order.ID
	}
	receipt.Submitted = true
}

// Back moves one step back without validating or touching entered data.
func (f *Flow) Back() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.processing {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "payment is already being processed")
	}
	if f.step == enums.CheckoutStepConfirmation {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "checkout is already complete")
	}
	if prev, ok := f.step.Previous(); ok {
		f.step = prev
		f.errors = map[string]string{}
	}
	return nil
}

// Enter re-enters the flow at step, as when a stored location is resumed.
// A step whose prerequisites do not hold falls back to the earliest step
// that is allowed. Confirmation with items still in the cart resets to the
// cart step; the regular flow never hits that because payment clears the
// cart before confirming.
func (f *Flow) Enter(step enums.CheckoutStep) enums.CheckoutStep {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.processing {
		return f.step
	}

	target := enums.CheckoutStepCart
	switch step {
	case enums.CheckoutStepConfirmation:
		if f.cart.IsEmpty() && f.receipt != nil {
			target = enums.CheckoutStepConfirmation
		}
	case enums.CheckoutStepPayment:
		if !f.cart.IsEmpty() {
			target = enums.CheckoutStepShipping
			if f.shipping.Validate() == nil {
				target = enums.CheckoutStepPayment
			}
		}
	case enums.CheckoutStepShipping:
		if !f.cart.IsEmpty() {
			target = enums.CheckoutStepShipping
		}
	}
	f.step = target
	f.errors = map[string]string{}
	return target
}

// Reset discards the flow state for a fresh checkout.
func (f *Flow) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.processing {
		return
	}
	f.step = enums.CheckoutStepCart
	f.shipping = ShippingForm{}
	f.payment = PaymentForm{}
	f.errors = map[string]string{}
	f.receipt = nil
}

func fieldErrors(err error) map[string]string {
	out := map[string]string{}
	if typed := pkgerrors.As(err); typed != nil {
		for k, v := range typed.FieldErrors() {
			out[k] = v
		}
	}
	if len(out) == 0 {
		out["form"] = pkgerrors.UserMessage(err)
	}
	return out
}
