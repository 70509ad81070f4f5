package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	pkgerrors "github.com/angelmondragon/artmarket-storefront/pkg/errors"
	"github.com/angelmondragon/artmarket-storefront/pkg/pagination"
	"github.com/angelmondragon/artmarket-storefront/pkg/types"
)

type ArtistQuery struct {
	Search string
	Area   string
	Page   pagination.Params
}

func (q ArtistQuery) Values() url.Values {
	v := url.Values{}
	p := q.Page.Normalize()
	v.Set("page", strconv.Itoa(p.Page))
	v.Set("limit", strconv.Itoa(p.Limit))
	setIf(v, "search", q.Search)
	setIf(v, "area", q.Area)
	return v
}

func (c *Client) ListArtists(ctx context.Context, q ArtistQuery) (types.Page[types.Artist], error) {
	var wp types.Page[types.WireArtist]
	if err := c.do(ctx, request{method: http.MethodGet, endpoint: "GET /artists", path: "/artists", query: q.Values()}, &wp); err != nil {
		return types.Page[types.Artist]{}, err
	}
	return pageFromWire(wp, ArtistsFromWire), nil
}

func (c *Client) GetArtist(ctx context.Context, id string) (types.Artist, error) {
	escaped, err := requireID(id, "artist id")
	if err != nil {
		return types.Artist{}, err
	}
	var w types.WireArtist
	if err := c.do(ctx, request{method: http.MethodGet, endpoint: "GET /artists/{id}", path: "/artists/" + escaped}, &w); err != nil {
		return types.Artist{}, err
	}
	return ArtistFromWire(w), nil
}

func (c *Client) FeaturedArtists(ctx context.Context) ([]types.Artist, error) {
	var ws []types.WireArtist
	if err := c.do(ctx, request{method: http.MethodGet, endpoint: "GET /artists/featured", path: "/artists/featured"}, &ws); err != nil {
		return nil, err
	}
	return ArtistsFromWire(ws), nil
}

// ArtistsByArea lists artists working in an area.
func (c *Client) ArtistsByArea(ctx context.Context, area string) ([]types.Artist, error) {
	area = strings.TrimSpace(area)
	if area == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "area is required")
	}
	var ws []types.WireArtist
	err := c.do(ctx, request{method: http.MethodGet, endpoint: "GET /artists/by-area", path: "/artists/by-area", query: url.Values{"area": {area}}}, &ws)
	if err != nil {
		return nil, err
	}
	return ArtistsFromWire(ws), nil
}
