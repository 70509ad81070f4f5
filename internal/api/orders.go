package api

import (
	"context"
	"net/http"

	"github.com/angelmondragon/artmarket-storefront/pkg/types"
)

// OrderRequest is the body of POST /orders.
type OrderRequest struct {
	Items         []types.CartLineItem  `json:"items"`
	Shipping      types.ShippingDetails `json:"shipping"`
	PaymentMethod string                `json:"paymentMethod"`
	Subtotal      float64               `json:"subtotal"`
	Tax           float64               `json:"tax"`
	ShippingFee   float64               `json:"shippingFee"`
	GrandTotal    float64               `json:"grandTotal"`
}

func (c *Client) CreateOrder(ctx context.Context, order OrderRequest) (types.Order, error) {
	if !c.Authenticated() {
		return types.Order{}, errNoSession()
	}
	var out types.Order
	if err := c.do(ctx, request{method: http.MethodPost, endpoint: "POST /orders", path: "/orders", body: order}, &out); err != nil {
		return types.Order{}, err
	}
	return out, nil
}

func (c *Client) ListOrders(ctx context.Context) ([]types.Order, error) {
	if !c.Authenticated() {
		return nil, errNoSession()
	}
	var out []types.Order
	if err := c.do(ctx, request{method: http.MethodGet, endpoint: "GET /orders", path: "/orders"}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetOrder(ctx context.Context, id string) (types.Order, error) {
	if !c.Authenticated() {
		return types.Order{}, errNoSession()
	}
	escaped, err := requireID(id, "order id")
	if err != nil {
		return types.Order{}, err
	}
	var out types.Order
	if err := c.do(ctx, request{method: http.MethodGet, endpoint: "GET /orders/{id}", path: "/orders/" + escaped}, &out); err != nil {
		return types.Order{}, err
	}
	return out, nil
}
