package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/angelmondragon/artmarket-storefront/pkg/enums"
	pkgerrors "github.com/angelmondragon/artmarket-storefront/pkg/errors"
	"github.com/angelmondragon/artmarket-storefront/pkg/pagination"
	"github.com/angelmondragon/artmarket-storefront/pkg/types"
)

// ArtworkQuery is the listing request for GET /artworks.
type ArtworkQuery struct {
	Filter    types.ArtworkFilter
	SortBy    enums.ArtworkSort
	SortOrder enums.SortOrder
	Page      pagination.Params
}

// Values encodes the query string.
func (q ArtworkQuery) Values() url.Values {
	v := url.Values{}
	p := q.Page.Normalize()
	v.Set("page", strconv.Itoa(p.Page))
	v.Set("limit", strconv.Itoa(p.Limit))
	if q.SortBy.IsValid() {
		v.Set("sortBy", q.SortBy.String())
	}
	if q.SortOrder.IsValid() {
		v.Set("sortOrder", string(q.SortOrder))
	}
	f := q.Filter
	setIf(v, "category", f.Category)
	setIf(v, "medium", f.Medium)
	setIf(v, "artistId", f.ArtistID)
	setIf(v, "search", f.Search)
	if f.MinPrice != nil {
		v.Set("minPrice", strconv.FormatFloat(*f.MinPrice, 'f', -1, 64))
	}
	if f.MaxPrice != nil {
		v.Set("maxPrice", strconv.FormatFloat(*f.MaxPrice, 'f', -1, 64))
	}
	if f.ForSale != nil {
		v.Set("forSale", strconv.FormatBool(*f.ForSale))
	}
	return v
}

func setIf(v url.Values, key, value string) {
	if trimmed := strings.TrimSpace(value); trimmed != "" {
		v.Set(key, trimmed)
	}
}

func requireID(id, what string) (string, error) {
	trimmed := strings.TrimSpace(id)
	if trimmed == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, what+" is required")
	}
	return url.PathEscape(trimmed), nil
}

func (c *Client) ListArtworks(ctx context.Context, q ArtworkQuery) (types.Page[types.Artwork], error) {
	var page types.Page[types.WireArtwork]
	err := c.do(ctx, request{method: http.MethodGet, endpoint: "GET /artworks", path: "/artworks", query: q.Values()}, &page)
	if err != nil {
		return types.Page[types.Artwork]{}, err
	}
	return pageFromWire(page, ArtworksFromWire), nil
}

func (c *Client) GetArtwork(ctx context.Context, id string) (types.Artwork, error) {
	escaped, err := requireID(id, "artwork id")
	if err != nil {
		return types.Artwork{}, err
	}
	var w types.WireArtwork
	if err := c.do(ctx, request{method: http.MethodGet, endpoint: "GET /artworks/{id}", path: "/artworks/" + escaped}, &w); err != nil {
		return types.Artwork{}, err
	}
	return ArtworkFromWire(w), nil
}

func (c *Client) FeaturedArtworks(ctx context.Context) ([]types.Artwork, error) {
	var ws []types.WireArtwork
	if err := c.do(ctx, request{method: http.MethodGet, endpoint: "GET /artworks/featured", path: "/artworks/featured"}, &ws); err != nil {
		return nil, err
	}
	return ArtworksFromWire(ws), nil
}

func (c *Client) ArtworkCategories(ctx context.Context) ([]string, error) {
	var categories []string
	if err := c.do(ctx, request{method: http.MethodGet, endpoint: "GET /artworks/categories", path: "/artworks/categories"}, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func (c *Client) ArtworksByArtist(ctx context.Context, artistID string, page pagination.Params) (types.Page[types.Artwork], error) {
	escaped, err := requireID(artistID, "artist id")
	if err != nil {
		return types.Page[types.Artwork]{}, err
	}
	p := page.Normalize()
	q := url.Values{"page": {strconv.Itoa(p.Page)}, "limit": {strconv.Itoa(p.Limit)}}
	var wp types.Page[types.WireArtwork]
	if err := c.do(ctx, request{method: http.MethodGet, endpoint: "GET /artworks/artist/{id}", path: "/artworks/artist/" + escaped, query: q}, &wp); err != nil {
		return types.Page[types.Artwork]{}, err
	}
	return pageFromWire(wp, ArtworksFromWire), nil
}

// LikeResult is the like state after a toggle.
type LikeResult struct {
	Liked bool
	Likes int
}

// ToggleLike flips the caller's like on an artwork. Requires a session.
func (c *Client) ToggleLike(ctx context.Context, artworkID string) (LikeResult, error) {
	if !c.Authenticated() {
		return LikeResult{}, pkgerrors.New(pkgerrors.CodeAuthRequired, "log in to like artworks")
	}
	escaped, err := requireID(artworkID, "artwork id")
	if err != nil {
		return LikeResult{}, err
	}
	var w types.WireLike
	if err := c.do(ctx, request{method: http.MethodPost, endpoint: "POST /artworks/{id}/like", path: "/artworks/" + escaped + "/like"}, &w); err != nil {
		return LikeResult{}, err
	}
	return LikeResult{Liked: w.Liked, Likes: w.Likes}, nil
}
