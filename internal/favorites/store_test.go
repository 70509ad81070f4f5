package favorites

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	pkgerrors "github.com/angelmondragon/artmarket-storefront/pkg/errors"
	"github.com/angelmondragon/artmarket-storefront/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAPI struct {
	authenticated bool
	server        []types.FavoriteEntry
	calls         int
	err           error
}

func (f *fakeAPI) Authenticated() bool { return f.authenticated }

func (f *fakeAPI) Favorites(context.Context) ([]types.FavoriteEntry, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return append([]types.FavoriteEntry(nil), f.server...), nil
}

func (f *fakeAPI) AddFavorite(_ context.Context, id string) error {
	f.calls++
	if f.err != nil {
		return f.err
	}
	f.server = append(f.server, types.FavoriteEntry{ArtworkID: id})
	return nil
}

func (f *fakeAPI) RemoveFavorite(_ context.Context, id string) error {
	f.calls++
	if f.err != nil {
		return f.err
	}
	for i, e := range f.server {
		if e.ArtworkID == id {
			f.server = append(f.server[:i], f.server[i+1:]...)
			break
		}
	}
	return nil
}

func artwork(id string) types.Artwork {
	p := 120.0
	return types.Artwork{ID: id, Title: "Work " + id, ArtistName: "Artist", Price: &p, Category: "painting"}
}

func TestAddToFavoritesRequiresSession(t *testing.T) {
	api := &fakeAPI{}
	store, err := NewStore(api)
	require.NoError(t, err)

	err = store.AddToFavorites(context.Background(), artwork("a1"))
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeAuthRequired))
	assert.Zero(t, api.calls, "no request without a session")
	assert.Empty(t, store.Entries())

	err = store.RemoveFromFavorites(context.Background(), "a1")
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeAuthRequired))
	assert.Zero(t, api.calls)
}

func TestAddToFavoritesIsServerFirst(t *testing.T) {
	api := &fakeAPI{authenticated: true, err: errors.New("boom")}
	store, err := NewStore(api)
	require.NoError(t, err)

	require.Error(t, store.AddToFavorites(context.Background(), artwork("a1")))
	assert.False(t, store.IsFavorite("a1"), "nothing changes until the server confirms")

	api.err = nil
	require.NoError(t, store.AddToFavorites(context.Background(), artwork("a1")))
	require.NoError(t, store.AddToFavorites(context.Background(), artwork("a1")))
	assert.True(t, store.IsFavorite("a1"))
	require.Len(t, store.Entries(), 1)
	entry := store.Entries()[0]
	assert.Equal(t, "Work a1", entry.Title)
	assert.Equal(t, "painting", entry.Category)
	require.NotNil(t, entry.Price)
	assert.Equal(t, 120.0, *entry.Price)
}

func TestRemoveFromFavoritesKeepsEntryOnFailure(t *testing.T) {
	api := &fakeAPI{authenticated: true}
	store, err := NewStore(api)
	require.NoError(t, err)
	require.NoError(t, store.AddToFavorites(context.Background(), artwork("a1")))

	api.err = errors.New("boom")
	require.Error(t, store.RemoveFromFavorites(context.Background(), "a1"))
	assert.True(t, store.IsFavorite("a1"))

	api.err = nil
	require.NoError(t, store.RemoveFromFavorites(context.Background(), "a1"))
	assert.False(t, store.IsFavorite("a1"))
}

func TestToggle(t *testing.T) {
	api := &fakeAPI{authenticated: true}
	store, err := NewStore(api)
	require.NoError(t, err)

	on, err := store.Toggle(context.Background(), artwork("a1"))
	require.NoError(t, err)
	assert.True(t, on)

	on, err = store.Toggle(context.Background(), artwork("a1"))
	require.NoError(t, err)
	assert.False(t, on)
	assert.Empty(t, api.server)
}

func TestLoadDedupesAndResetClears(t *testing.T) {
	api := &fakeAPI{authenticated: true, server: []types.FavoriteEntry{
		{ArtworkID: "a1"}, {ArtworkID: "a2"}, {ArtworkID: "a1"}, {ArtworkID: ""},
	}}
	store, err := NewStore(api)
	require.NoError(t, err)

	var notified int
	store.Subscribe(func([]types.FavoriteEntry) { notified++ })

	require.NoError(t, store.Load(context.Background()))
	assert.Equal(t, 2, store.Len())

	store.Reset()
	assert.Zero(t, store.Len())
	assert.Equal(t, 2, notified)
}

func TestLoadRequiresSession(t *testing.T) {
	store, err := NewStore(&fakeAPI{})
	require.NoError(t, err)
	assert.True(t, pkgerrors.Is(store.Load(context.Background()), pkgerrors.CodeAuthRequired))
}

// gatedAPI blocks every call until release is closed.
type gatedAPI struct {
	authenticated atomic.Bool
	started       chan struct{}
	release       chan struct{}
	server        []types.FavoriteEntry
}

func newGatedAPI(server ...types.FavoriteEntry) *gatedAPI {
	g := &gatedAPI{started: make(chan struct{}, 1), release: make(chan struct{}), server: server}
	g.authenticated.Store(true)
	return g
}

func (g *gatedAPI) Authenticated() bool { return g.authenticated.Load() }

func (g *gatedAPI) wait() {
	g.started <- struct{}{}
	<-g.release
}

func (g *gatedAPI) Favorites(context.Context) ([]types.FavoriteEntry, error) {
	g.wait()
	return g.server, nil
}

func (g *gatedAPI) AddFavorite(context.Context, string) error {
	g.wait()
	return nil
}

func (g *gatedAPI) RemoveFavorite(context.Context, string) error {
	g.wait()
	return nil
}

func TestLateResponsesAfterLogoutAreDropped(t *testing.T) {
	tests := []struct {
		name string
		call func(ctx context.Context, s *Store) error
	}{
		{"add", func(ctx context.Context, s *Store) error { return s.AddToFavorites(ctx, artwork("a1")) }},
		{"load", func(ctx context.Context, s *Store) error { return s.Load(ctx) }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			api := newGatedAPI(types.FavoriteFromArtwork(artwork("a1")))
			store, err := NewStore(api)
			require.NoError(t, err)

			done := make(chan error, 1)
			go func() { done <- tc.call(context.Background(), store) }()

			<-api.started
			api.authenticated.Store(false)
			store.Reset()
			close(api.release)

			err = <-done
			assert.True(t, pkgerrors.Is(err, pkgerrors.CodeSessionExpired), "got %v", err)
			assert.Empty(t, store.Entries(), "logout must leave the set empty")
		})
	}
}

func TestLateResponseFromPreviousSessionIsDropped(t *testing.T) {
	api := newGatedAPI(types.FavoriteFromArtwork(artwork("a1")))
	store, err := NewStore(api)
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- store.Load(context.Background()) }()

	<-api.started
	// Logout followed by a new sign-in before the old response lands.
	store.Reset()
	close(api.release)

	require.Error(t, <-done)
	assert.Empty(t, store.Entries())
}
