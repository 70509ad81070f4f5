package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/angelmondragon/artmarket-storefront/internal/checkout"
	"github.com/angelmondragon/artmarket-storefront/internal/pricing"
	"github.com/angelmondragon/artmarket-storefront/pkg/enums"
	pkgerrors "github.com/angelmondragon/artmarket-storefront/pkg/errors"
	"github.com/angelmondragon/artmarket-storefront/pkg/types"
)

func (c *cli) printLines(items []types.CartLineItem) {
	w := c.table()
	fmt.Fprintln(w, "ID\tTITLE\tQTY\tUNIT\tLINE")
	for _, it := range items {
		unit := it.UnitPrice
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n", it.ID, it.Title, it.Quantity, c.price(&unit), c.sf.Prices.FormatAmount(unit*float64(it.Quantity)))
	}
	_ = w.Flush()
}

func (c *cli) printTotals(t pricing.Totals) {
	w := c.table()
	fmt.Fprintf(w, "subtotal\t%s\n", c.sf.Prices.FormatAmount(t.Subtotal))
	fmt.Fprintf(w, "tax\t%s\n", c.sf.Prices.FormatAmount(t.Tax))
	shipping := c.sf.Prices.FormatAmount(t.Shipping)
	if t.Shipping == 0 {
		shipping = "free"
	}
	fmt.Fprintf(w, "shipping\t%s\n", shipping)
	fmt.Fprintf(w, "total\t%s\n", c.sf.Prices.FormatAmount(t.GrandTotal))
	_ = w.Flush()
}

func (c *cli) cart(_ context.Context, _ []string) error {
	if c.sf.Cart.IsEmpty() {
		fmt.Fprintln(c.out, "your cart is empty")
		return nil
	}
	c.printLines(c.sf.Cart.Items())
	c.printTotals(c.sf.Cart.Totals())
	return nil
}

func (c *cli) add(ctx context.Context, args []string) error {
	id, err := oneArg(args, "an artwork id")
	if err != nil {
		return err
	}
	art, _, err := c.sf.Catalog.GetArtwork(ctx, id)
	if err != nil {
		return err
	}
	if err := c.sf.Cart.AddItem(ctx, art); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "added %s (%d in cart)\n", art.Title, c.sf.Cart.Quantity(art.ID))
	return nil
}

func (c *cli) set(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("%w: expected an artwork id and a quantity", errUsage)
	}
	qty, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("%w: quantity must be a number", errUsage)
	}
	if err := c.sf.Cart.SetQuantity(ctx, strings.TrimSpace(args[0]), qty); err != nil {
		return err
	}
	return c.cart(ctx, nil)
}

func (c *cli) remove(ctx context.Context, args []string) error {
	id, err := oneArg(args, "an artwork id")
	if err != nil {
		return err
	}
	c.sf.Cart.RemoveItem(ctx, id)
	return c.cart(ctx, nil)
}

func (c *cli) clear(ctx context.Context, _ []string) error {
	c.sf.Cart.ClearCart(ctx)
	fmt.Fprintln(c.out, "cart cleared")
	return nil
}

func (c *cli) favorites(_ context.Context, _ []string) error {
	if !c.sf.Session.IsAuthenticated() {
		return pkgerrors.New(pkgerrors.CodeAuthRequired, "log in to see your favorites")
	}
	entries := c.sf.Favorites.Entries()
	if len(entries) == 0 {
		fmt.Fprintln(c.out, "no favorites yet")
		return nil
	}
	w := c.table()
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", e.ArtworkID, e.Title, e.ArtistName, c.price(e.Price))
	}
	return w.Flush()
}

func (c *cli) fav(ctx context.Context, args []string) error {
	id, err := oneArg(args, "an artwork id")
	if err != nil {
		return err
	}
	art, _, err := c.sf.Catalog.GetArtwork(ctx, id)
	if err != nil {
		return err
	}
	added, err := c.sf.Favorites.Toggle(ctx, art)
	if err != nil {
		return err
	}
	if added {
		fmt.Fprintf(c.out, "added %s to favorites\n", art.Title)
	} else {
		fmt.Fprintf(c.out, "removed %s from favorites\n", art.Title)
	}
	return nil
}

func (c *cli) like(ctx context.Context, args []string) error {
	id, err := oneArg(args, "an artwork id")
	if err != nil {
		return err
	}
	res, err := c.sf.Catalog.ToggleLike(ctx, id)
	if err != nil {
		return err
	}
	verb := "unliked"
	if res.Liked {
		verb = "liked"
	}
	fmt.Fprintf(c.out, "%s (%d likes)\n", verb, res.Likes)
	return nil
}

// checkout walks the whole flow in one go. Flags override the prefilled
// shipping form.
func (c *cli) checkout(ctx context.Context, args []string) error {
	flow, err := c.sf.NewCheckout(ctx)
	if err != nil {
		return err
	}
	ship := flow.Shipping()
	fs := c.flags("checkout")
	fs.StringVar(&ship.Name, "name", ship.Name, "recipient name")
	fs.StringVar(&ship.Email, "email", ship.Email, "contact email")
	fs.StringVar(&ship.Phone, "phone", ship.Phone, "10 digit phone")
	fs.StringVar(&ship.Address, "address", ship.Address, "street address")
	fs.StringVar(&ship.City, "city", ship.City, "city")
	fs.StringVar(&ship.State, "state", ship.State, "state")
	fs.StringVar(&ship.PostalCode, "postal", ship.PostalCode, "6 digit postal code")
	method := fs.String("method", string(enums.PaymentMethodCard), "card|upi|cod")
	var card checkout.CardDetails
	fs.StringVar(&card.Number, "card-number", "", "16 digit card number")
	fs.StringVar(&card.Expiry, "expiry", "", "MM/YY")
	fs.StringVar(&card.CVV, "cvv", "", "3 digit security code")
	fs.StringVar(&card.Holder, "card-name", "", "name on card")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := flow.Next(ctx); err != nil {
		return err
	}
	flow.SetShipping(ship)
	if err := flow.Next(ctx); err != nil {
		return err
	}
	flow.SetPayment(checkout.PaymentForm{Method: enums.PaymentMethod(strings.ToLower(*method)), Card: card})
	fmt.Fprintln(c.out, "processing payment...")
	if err := flow.Next(ctx); err != nil {
		return err
	}

	receipt, ok := flow.Receipt()
	if !ok {
		return pkgerrors.New(pkgerrors.CodeInternal, "checkout finished without a receipt")
	}
	fmt.Fprintf(c.out, "order %s confirmed\n", receipt.OrderID)
	c.printLines(receipt.Items)
	c.printTotals(receipt.Totals)
	paid := receipt.PaymentMethod.String()
	if receipt.CardLast4 != "" {
		paid += " ending " + receipt.CardLast4
	}
	fmt.Fprintf(c.out, "paid by %s, shipping to %s, %s\n", paid, receipt.Shipping.Name, receipt.Shipping.City)
	if !receipt.Submitted && c.sf.Session.IsAuthenticated() {
		fmt.Fprintln(c.out, "note: the order could not be saved to your account history")
	}
	return nil
}

func (c *cli) orders(ctx context.Context, _ []string) error {
	list, err := c.sf.API.ListOrders(ctx)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(c.out, "no orders yet")
		return nil
	}
	w := c.table()
	fmt.Fprintln(w, "ID\tPLACED\tITEMS\tTOTAL\tSTATUS")
	for _, o := range list {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n", o.ID, o.CreatedAt.Format("2006-01-02"), len(o.Items), c.sf.Prices.FormatAmount(o.GrandTotal), o.Status)
	}
	return w.Flush()
}

func (c *cli) order(ctx context.Context, args []string) error {
	id, err := oneArg(args, "an order id")
	if err != nil {
		return err
	}
	o, err := c.sf.API.GetOrder(ctx, id)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "order %s (%s) placed %s\n", o.ID, o.Status, o.CreatedAt.Format("2006-01-02 15:04"))
	c.printLines(o.Items)
	c.printTotals(pricing.Totals{Subtotal: o.Subtotal, Tax: o.Tax, Shipping: o.ShippingFee, GrandTotal: o.GrandTotal})
	return nil
}
