package api

import (
	"context"
	"net/http"

	pkgerrors "github.com/angelmondragon/artmarket-storefront/pkg/errors"
	"github.com/angelmondragon/artmarket-storefront/pkg/types"
)

// ProfileUpdate carries the editable profile fields; nil leaves a field as is.
type ProfileUpdate struct {
	Name         *string `json:"name,omitempty"`
	Phone        *string `json:"phone,omitempty"`
	ProfileImage *string `json:"profileImage,omitempty"`
}

func (c *Client) Me(ctx context.Context) (types.User, error) {
	var w types.WireUser
	if err := c.do(ctx, request{method: http.MethodGet, endpoint: "GET /users/me", path: "/users/me"}, &w); err != nil {
		return types.User{}, err
	}
	return UserFromWire(w), nil
}

func (c *Client) UpdateMe(ctx context.Context, update ProfileUpdate) (types.User, error) {
	var w types.WireUser
	if err := c.do(ctx, request{method: http.MethodPut, endpoint: "PUT /users/me", path: "/users/me", body: update}, &w); err != nil {
		return types.User{}, err
	}
	return UserFromWire(w), nil
}

func (c *Client) Favorites(ctx context.Context) ([]types.FavoriteEntry, error) {
	var ws []types.WireFavorite
	if err := c.do(ctx, request{method: http.MethodGet, endpoint: "GET /users/me/favorites", path: "/users/me/favorites"}, &ws); err != nil {
		return nil, err
	}
	return FavoritesFromWire(ws), nil
}

func (c *Client) AddFavorite(ctx context.Context, artworkID string) error {
	if _, err := requireID(artworkID, "artwork id"); err != nil {
		return err
	}
	return c.do(ctx, request{
		method:   http.MethodPost,
		endpoint: "POST /users/me/favorites",
		path:     "/users/me/favorites",
		body:     map[string]string{"artworkId": artworkID},
	}, nil)
}

func (c *Client) RemoveFavorite(ctx context.Context, artworkID string) error {
	escaped, err := requireID(artworkID, "artwork id")
	if err != nil {
		return err
	}
	return c.do(ctx, request{method: http.MethodDelete, endpoint: "DELETE /users/me/favorites/{id}", path: "/users/me/favorites/" + escaped}, nil)
}

func (c *Client) Addresses(ctx context.Context) ([]types.Address, error) {
	var out []types.Address
	if err := c.do(ctx, request{method: http.MethodGet, endpoint: "GET /users/me/addresses", path: "/users/me/addresses"}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) AddAddress(ctx context.Context, addr types.Address) (types.Address, error) {
	var out types.Address
	if err := c.do(ctx, request{method: http.MethodPost, endpoint: "POST /users/me/addresses", path: "/users/me/addresses", body: addr}, &out); err != nil {
		return types.Address{}, err
	}
	return out, nil
}

func (c *Client) UpdateAddress(ctx context.Context, addr types.Address) (types.Address, error) {
	escaped, err := requireID(addr.ID, "address id")
	if err != nil {
		return types.Address{}, err
	}
	var out types.Address
	if err := c.do(ctx, request{method: http.MethodPut, endpoint: "PUT /users/me/addresses/{id}", path: "/users/me/addresses/" + escaped, body: addr}, &out); err != nil {
		return types.Address{}, err
	}
	return out, nil
}

func (c *Client) DeleteAddress(ctx context.Context, id string) error {
	escaped, err := requireID(id, "address id")
	if err != nil {
		return err
	}
	return c.do(ctx, request{method: http.MethodDelete, endpoint: "DELETE /users/me/addresses/{id}", path: "/users/me/addresses/" + escaped}, nil)
}

func errNoSession() error {
	return pkgerrors.New(pkgerrors.CodeAuthRequired, "log in to continue")
}
