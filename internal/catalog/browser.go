// Package catalog browses artworks and artists. Reads go to the API and fall
// back to the bundled sample catalog when the API cannot be reached.
package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/angelmondragon/artmarket-storefront/internal/api"
	"github.com/angelmondragon/artmarket-storefront/internal/fixtures"
	pkgerrors "github.com/angelmondragon/artmarket-storefront/pkg/errors"
	"github.com/angelmondragon/artmarket-storefront/pkg/logger"
	"github.com/angelmondragon/artmarket-storefront/pkg/pagination"
	"github.com/angelmondragon/artmarket-storefront/pkg/types"
)

// Source says where a result came from.
type Source string

const (
	SourceAPI      Source = "api"
	SourceFixtures Source = "fixtures"
)

type catalogAPI interface {
	ListArtworks(ctx context.Context, q api.ArtworkQuery) (types.Page[types.Artwork], error)
	GetArtwork(ctx context.Context, id string) (types.Artwork, error)
	FeaturedArtworks(ctx context.Context) ([]types.Artwork, error)
	ArtworkCategories(ctx context.Context) ([]string, error)
	ArtworksByArtist(ctx context.Context, artistID string, page pagination.Params) (types.Page[types.Artwork], error)
	ToggleLike(ctx context.Context, artworkID string) (api.LikeResult, error)
	ListArtists(ctx context.Context, q api.ArtistQuery) (types.Page[types.Artist], error)
	GetArtist(ctx context.Context, id string) (types.Artist, error)
	FeaturedArtists(ctx context.Context) ([]types.Artist, error)
	ArtistsByArea(ctx context.Context, area string) ([]types.Artist, error)
}

type Browser struct {
	api      catalogAPI
	logg     *logger.Logger
	artworks func() []types.Artwork
	artists  func() []types.Artist
	fallback bool
}

type Option func(*Browser)

func WithLogger(logg *logger.Logger) Option {
	return func(b *Browser) {
		if logg != nil {
			b.logg = logg
		}
	}
}

// WithoutFallback surfaces network failures instead of serving fixtures.
func WithoutFallback() Option {
	return func(b *Browser) { b.fallback = false }
}

func NewBrowser(client catalogAPI, opts ...Option) (*Browser, error) {
	if client == nil {
		return nil, fmt.Errorf("catalog api client required")
	}
	b := &Browser{
		api:      client,
		logg:     logger.Nop(),
		artworks: fixtures.Artworks,
		artists:  fixtures.Artists,
		fallback: true,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}
	return b, nil
}

// useFixtures decides whether err warrants serving sample data.
func (b *Browser) useFixtures(ctx context.Context, op string, err error) bool {
	if !b.fallback || !pkgerrors.Is(err, pkgerrors.CodeNetwork) {
		return false
	}
	b.logg.WarnErr(b.logg.WithOperation(ctx, op), "api unreachable, serving sample catalog", err)
	return true
}

func (b *Browser) ListArtworks(ctx context.Context, q api.ArtworkQuery) (types.Page[types.Artwork], Source, error) {
	out, err := b.api.ListArtworks(ctx, q)
	if err == nil {
		return out, SourceAPI, nil
	}
	if b.useFixtures(ctx, "list_artworks", err) {
		return QueryArtworks(b.artworks(), q), SourceFixtures, nil
	}
	return types.Page[types.Artwork]{}, SourceAPI, err
}

func (b *Browser) GetArtwork(ctx context.Context, id string) (types.Artwork, Source, error) {
	out, err := b.api.GetArtwork(ctx, id)
	if err == nil {
		return out, SourceAPI, nil
	}
	if b.useFixtures(ctx, "get_artwork", err) {
		for _, a := range b.artworks() {
			if a.ID == strings.TrimSpace(id) {
				return a, SourceFixtures, nil
			}
		}
		return types.Artwork{}, SourceFixtures, notFound("artwork", id)
	}
	return types.Artwork{}, SourceAPI, err
}

func (b *Browser) FeaturedArtworks(ctx context.Context) ([]types.Artwork, Source, error) {
	out, err := b.api.FeaturedArtworks(ctx)
	if err == nil {
		return out, SourceAPI, nil
	}
	if b.useFixtures(ctx, "featured_artworks", err) {
		featured := []types.Artwork{}
		for _, a := range b.artworks() {
			if a.Featured {
				featured = append(featured, a)
			}
		}
		return featured, SourceFixtures, nil
	}
	return nil, SourceAPI, err
}

func (b *Browser) Categories(ctx context.Context) ([]string, Source, error) {
	out, err := b.api.ArtworkCategories(ctx)
	if err == nil {
		return out, SourceAPI, nil
	}
	if b.useFixtures(ctx, "categories", err) {
		return Categories(b.artworks()), SourceFixtures, nil
	}
	return nil, SourceAPI, err
}

func (b *Browser) ArtworksByArtist(ctx context.Context, artistID string, page pagination.Params) (types.Page[types.Artwork], Source, error) {
	out, err := b.api.ArtworksByArtist(ctx, artistID, page)
	if err == nil {
		return out, SourceAPI, nil
	}
	if b.useFixtures(ctx, "artworks_by_artist", err) {
		q := api.ArtworkQuery{Filter: types.ArtworkFilter{ArtistID: artistID}, Page: page}
		return QueryArtworks(b.artworks(), q), SourceFixtures, nil
	}
	return types.Page[types.Artwork]{}, SourceAPI, err
}

// ToggleLike has no offline form; it needs the API and a session.
func (b *Browser) ToggleLike(ctx context.Context, artworkID string) (api.LikeResult, error) {
	return b.api.ToggleLike(ctx, artworkID)
}

func (b *Browser) ListArtists(ctx context.Context, q api.ArtistQuery) (types.Page[types.Artist], Source, error) {
	out, err := b.api.ListArtists(ctx, q)
	if err == nil {
		return out, SourceAPI, nil
	}
	if b.useFixtures(ctx, "list_artists", err) {
		return QueryArtists(b.artists(), q), SourceFixtures, nil
	}
	return types.Page[types.Artist]{}, SourceAPI, err
}

func (b *Browser) GetArtist(ctx context.Context, id string) (types.Artist, Source, error) {
	out, err := b.api.GetArtist(ctx, id)
	if err == nil {
		return out, SourceAPI, nil
	}
	if b.useFixtures(ctx, "get_artist", err) {
		for _, a := range b.artists() {
			if a.ID == strings.TrimSpace(id) {
				return a, SourceFixtures, nil
			}
		}
		return types.Artist{}, SourceFixtures, notFound("artist", id)
	}
	return types.Artist{}, SourceAPI, err
}

func (b *Browser) FeaturedArtists(ctx context.Context) ([]types.Artist, Source, error) {
	out, err := b.api.FeaturedArtists(ctx)
	if err == nil {
		return out, SourceAPI, nil
	}
	if b.useFixtures(ctx, "featured_artists", err) {
		featured := []types.Artist{}
		for _, a := range b.artists() {
			if a.Featured {
				featured = append(featured, a)
			}
		}
		return featured, SourceFixtures, nil
	}
	return nil, SourceAPI, err
}

func (b *Browser) ArtistsByArea(ctx context.Context, area string) ([]types.Artist, Source, error) {
	out, err := b.api.ArtistsByArea(ctx, area)
	if err == nil {
		return out, SourceAPI, nil
	}
	if b.useFixtures(ctx, "artists_by_area", err) {
		page := QueryArtists(b.artists(), api.ArtistQuery{Area: area, Page: pagination.Params{Limit: pagination.MaxLimit}})
		return page.Items, SourceFixtures, nil
	}
	return nil, SourceAPI, err
}

func notFound(what, id string) error {
	return pkgerrors.New(pkgerrors.CodeNotFound, what+" not found").WithDetails(map[string]any{"id": id})
}
