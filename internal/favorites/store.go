// Package favorites keeps the signed-in user's favourite artworks. It is
// server-first: the local set changes only after the server confirms, and
// there is no guest mode.
package favorites

import (
	"context"
	"fmt"
	"sync"

	pkgerrors "github.com/angelmondragon/artmarket-storefront/pkg/errors"
	"github.com/angelmondragon/artmarket-storefront/pkg/logger"
	"github.com/angelmondragon/artmarket-storefront/pkg/types"
)

type favoritesAPI interface {
	Authenticated() bool
	Favorites(ctx context.Context) ([]types.FavoriteEntry, error)
	AddFavorite(ctx context.Context, artworkID string) error
	RemoveFavorite(ctx context.Context, artworkID string) error
}

// Listener receives the entries after every change.
type Listener func(entries []types.FavoriteEntry)

type Store struct {
	api  favoritesAPI
	logg *logger.Logger

	mu        sync.Mutex
	entries   []types.FavoriteEntry
	listeners map[int]Listener
	nextID    int
	// generation changes on every Reset; responses from an older one are dropped.
	generation uint64
}

type Option func(*Store)

func WithLogger(logg *logger.Logger) Option {
	return func(s *Store) {
		if logg != nil {
			s.logg = logg
		}
	}
}

func NewStore(api favoritesAPI, opts ...Option) (*Store, error) {
	if api == nil {
		return nil, fmt.Errorf("favorites api client required")
	}
	s := &Store{api: api, logg: logger.Nop(), listeners: make(map[int]Listener)}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s, nil
}

func (s *Store) IsFavorite(artworkID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return indexOf(s.entries, artworkID) >= 0
}

// Entries returns a copy of the set in insertion order.
func (s *Store) Entries() []types.FavoriteEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneEntries(s.entries)
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *Store) Subscribe(fn Listener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

// Load replaces the set with the server's.
func (s *Store) Load(ctx context.Context) error {
	if !s.api.Authenticated() {
		return authRequired()
	}
	gen := s.currentGeneration()
	entries, err := s.api.Favorites(ctx)
	if err != nil {
		return err
	}
	if !s.updateIf(gen, func([]types.FavoriteEntry) []types.FavoriteEntry { return dedupe(entries) }) {
		return sessionEnded()
	}
	return nil
}

// AddToFavorites records the artwork on the server, then locally. Anonymous
// callers get AUTHENTICATION_REQUIRED and no request is made.
func (s *Store) AddToFavorites(ctx context.Context, artwork types.Artwork) error {
	if !s.api.Authenticated() {
		return authRequired()
	}
	if artwork.ID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "artwork id is required")
	}
	gen := s.currentGeneration()
	if err := s.api.AddFavorite(ctx, artwork.ID); err != nil {
		s.logg.WarnErr(s.logg.WithArtworkID(s.logg.WithOperation(ctx, "favorites_add"), artwork.ID), "add favorite failed", err)
		return err
	}
	entry := types.FavoriteFromArtwork(artwork)
	applied := s.updateIf(gen, func(entries []types.FavoriteEntry) []types.FavoriteEntry {
		if indexOf(entries, artwork.ID) >= 0 {
			return entries
		}
		return append(entries, entry)
	})
	if !applied {
		return sessionEnded()
	}
	return nil
}

// RemoveFromFavorites deletes on the server, then locally.
func (s *Store) RemoveFromFavorites(ctx context.Context, artworkID string) error {
	if !s.api.Authenticated() {
		return authRequired()
	}
	gen := s.currentGeneration()
	if err := s.api.RemoveFavorite(ctx, artworkID); err != nil {
		s.logg.WarnErr(s.logg.WithArtworkID(s.logg.WithOperation(ctx, "favorites_remove"), artworkID), "remove favorite failed", err)
		return err
	}
	applied := s.updateIf(gen, func(entries []types.FavoriteEntry) []types.FavoriteEntry {
		if i := indexOf(entries, artworkID); i >= 0 {
			return append(entries[:i], entries[i+1:]...)
		}
		return entries
	})
	if !applied {
		return sessionEnded()
	}
	return nil
}

// Toggle adds or removes the artwork and reports whether it is now a favourite.
func (s *Store) Toggle(ctx context.Context, artwork types.Artwork) (bool, error) {
	if s.IsFavorite(artwork.ID) {
		if err := s.RemoveFromFavorites(ctx, artwork.ID); err != nil {
			return true, err
		}
		return false, nil
	}
	if err := s.AddToFavorites(ctx, artwork); err != nil {
		return false, err
	}
	return true, nil
}

// Reset drops every entry. Called on logout and session expiry.
func (s *Store) Reset() {
	s.mu.Lock()
	s.generation++
	s.mu.Unlock()
	s.update(func([]types.FavoriteEntry) []types.FavoriteEntry { return nil })
}

func (s *Store) currentGeneration() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation
}

func (s *Store) update(fn func([]types.FavoriteEntry) []types.FavoriteEntry) {
	s.mu.Lock()
	s.applyLocked(fn)
}

// updateIf applies fn only while the session that issued the request is
// still the live one.
func (s *Store) updateIf(gen uint64, fn func([]types.FavoriteEntry) []types.FavoriteEntry) bool {
	s.mu.Lock()
	if s.generation != gen || !s.api.Authenticated() {
		s.mu.Unlock()
		return false
	}
	s.applyLocked(fn)
	return true
}

// applyLocked runs with s.mu held and releases it before notifying.
func (s *Store) applyLocked(fn func([]types.FavoriteEntry) []types.FavoriteEntry) {
	s.entries = fn(cloneEntries(s.entries))
	snapshot := cloneEntries(s.entries)
	listeners := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.mu.Unlock()

	for _, l := range listeners {
		l(cloneEntries(snapshot))
	}
}

func authRequired() error {
	return pkgerrors.New(pkgerrors.CodeAuthRequired, "log in to save favorites")
}

func sessionEnded() error {
	return pkgerrors.New(pkgerrors.CodeSessionExpired, "session ended before the favorites change was applied")
}

func indexOf(entries []types.FavoriteEntry, artworkID string) int {
	for i, e := range entries {
		if e.ArtworkID == artworkID {
			return i
		}
	}
	return -1
}

func dedupe(entries []types.FavoriteEntry) []types.FavoriteEntry {
	out := make([]types.FavoriteEntry, 0, len(entries))
	for _, e := range entries {
		if e.ArtworkID == "" || indexOf(out, e.ArtworkID) >= 0 {
			continue
		}
		out = append(out, e)
	}
	return out
}

func cloneEntries(entries []types.FavoriteEntry) []types.FavoriteEntry {
	out := make([]types.FavoriteEntry, len(entries))
	copy(out, entries)
	return out
}
