package api

import (
	"context"
	"net/http"

	pkgerrors "github.com/angelmondragon/artmarket-storefront/pkg/errors"
	"github.com/angelmondragon/artmarket-storefront/pkg/types"
)

type cartItemRequest struct {
	ArtworkID string `json:"artworkId,omitempty"`
	Quantity  int    `json:"quantity"`
}

func (c *Client) GetCart(ctx context.Context) (ServerCart, error) {
	var w types.WireCart
	if err := c.do(ctx, request{method: http.MethodGet, endpoint: "GET /cart", path: "/cart"}, &w); err != nil {
		return ServerCart{}, err
	}
	return CartFromWire(w), nil
}

// AddCartItem adds quantity of an artwork to the server cart.
func (c *Client) AddCartItem(ctx context.Context, artworkID string, quantity int) error {
	if _, err := requireID(artworkID, "artwork id"); err != nil {
		return err
	}
	if quantity <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}
	return c.do(ctx, request{
		method:   http.MethodPost,
		endpoint: "POST /cart/items",
		path:     "/cart/items",
		body:     cartItemRequest{ArtworkID: artworkID, Quantity: quantity},
	}, nil)
}

// UpdateCartItem sets the quantity of a server line.
func (c *Client) UpdateCartItem(ctx context.Context, lineID string, quantity int) error {
	escaped, err := requireID(lineID, "cart item id")
	if err != nil {
		return err
	}
	if quantity <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}
	return c.do(ctx, request{
		method:   http.MethodPut,
		endpoint: "PUT /cart/items/{id}",
		path:     "/cart/items/" + escaped,
		body:     cartItemRequest{Quantity: quantity},
	}, nil)
}

func (c *Client) DeleteCartItem(ctx context.Context, lineID string) error {
	escaped, err := requireID(lineID, "cart item id")
	if err != nil {
		return err
	}
	return c.do(ctx, request{method: http.MethodDelete, endpoint: "DELETE /cart/items/{id}", path: "/cart/items/" + escaped}, nil)
}

func (c *Client) ClearCart(ctx context.Context) error {
	return c.do(ctx, request{method: http.MethodDelete, endpoint: "DELETE /cart", path: "/cart"}, nil)
}
