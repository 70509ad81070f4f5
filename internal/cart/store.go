// Package cart is the client cart. Local state is authoritative: every
// mutation commits locally and persists to the durable cache first, then is
// mirrored to the server on a best-effort basis when a session exists.
package cart

import (
	"context"
	"fmt"
	"sync"

	"github.com/angelmondragon/artmarket-storefront/internal/api"
	"github.com/angelmondragon/artmarket-storefront/internal/pricing"
	"github.com/angelmondragon/artmarket-storefront/internal/storage"
	pkgerrors "github.com/angelmondragon/artmarket-storefront/pkg/errors"
	"github.com/angelmondragon/artmarket-storefront/pkg/logger"
	"github.com/angelmondragon/artmarket-storefront/pkg/metrics"
	"github.com/angelmondragon/artmarket-storefront/pkg/types"
)

const (
	opAdd         = "add"
	opSetQuantity = "set_quantity"
	opRemove      = "remove"
	opClear       = "clear"
)

// serverCart is the slice of the REST client the cart mirrors through.
type serverCart interface {
	Authenticated() bool
	GetCart(ctx context.Context) (api.ServerCart, error)
	AddCartItem(ctx context.Context, artworkID string, quantity int) error
	UpdateCartItem(ctx context.Context, lineID string, quantity int) error
	DeleteCartItem(ctx context.Context, lineID string) error
	ClearCart(ctx context.Context) error
}

// Listener receives a snapshot after every change.
type Listener func(items []types.CartLineItem)

// Store owns the local cart.
type Store struct {
	server  serverCart
	cache   storage.Store
	logg    *logger.Logger
	metrics *metrics.ClientMetrics
	policy  pricing.Policy

	mu        sync.Mutex
	items     []types.CartLineItem
	listeners map[int]Listener
	nextID    int
	// generation changes on EndSession; server snapshots from an older
	// session are never installed.
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

func WithMetrics(m *metrics.ClientMetrics) Option {
	return func(s *Store) { s.metrics = m }
}

// WithPricingPolicy sets the rules Totals applies.
func WithPricingPolicy(policy pricing.Policy) Option {
	return func(s *Store) { s.policy = policy }
}

// NewStore builds an empty cart. Call Load to restore the cached cart.
func NewStore(server serverCart, cache storage.Store, opts ...Option) (*Store, error) {
	if server == nil {
		return nil, fmt.Errorf("cart server client required")
	}
	if cache == nil {
		return nil, fmt.Errorf("cart cache required")
	}
	s := &Store{
		server:    server,
		cache:     cache,
		logg:      logger.Nop(),
		policy:    pricing.DefaultPolicy(),
		listeners: make(map[int]Listener),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s, nil
}

// Load restores the cart from the durable cache. A corrupt entry is
// discarded and the cart starts empty.
func (s *Store) Load(ctx context.Context) error {
	items, found, err := storage.GetJSON[[]types.CartLineItem](ctx, s.cache, storage.KeyCart)
	if err != nil {
		s.logg.WarnErr(s.logg.WithOperation(ctx, "load"), "discarding unreadable cached cart", err)
		items = nil
	} else if !found {
		items = nil
	}
	s.replace(ctx, normalize(items))
	return nil
}

// Items returns a copy of the current lines.
func (s *Store) Items() []types.CartLineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneItems(s.items)
}

// Len is the number of distinct lines.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Count is the number of units across all lines.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, it := range s.items {
		n += it.Quantity
	}
	return n
}

func (s *Store) IsEmpty() bool {
	return s.Len() == 0
}

// Quantity returns the quantity held for an artwork, zero when absent.
func (s *Store) Quantity(artworkID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := indexOf(s.items, artworkID); i >= 0 {
		return s.items[i].Quantity
	}
	return 0
}

// Totals computes the order summary for the current lines.
func (s *Store) Totals() pricing.Totals {
	return pricing.ComputeTotals(s.Items(), pricing.WithPolicy(s.policy))
}

// Subscribe registers a listener and returns its cancel func.
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

// AddItem puts one unit of the artwork in the cart. Artworks without a price
// or not for sale are rejected with NOT_AVAILABLE and the cart is untouched.
func (s *Store) AddItem(ctx context.Context, artwork types.Artwork) error {
	if !artwork.Purchasable() {
		return pkgerrors.New(pkgerrors.CodeNotAvailable, "this artwork is not available for purchase").
			WithDetails(map[string]any{"artwork_id": artwork.ID})
	}
	if artwork.ID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "artwork id is required")
	}

	s.commit(ctx, func(items []types.CartLineItem) []types.CartLineItem {
		if i := indexOf(items, artwork.ID); i >= 0 {
			items[i].Quantity++
			return items
		}
		return append(items, types.LineItemFromArtwork(artwork))
	})

	s.mirror(ctx, opAdd, artwork.ID, func(ctx context.Context) error {
		return s.server.AddCartItem(ctx, artwork.ID, 1)
	})
	return nil
}

// SetQuantity sets the quantity of a line already in the cart; a quantity
// of zero or less removes it. An artwork that is not in the cart has no
// snapshot to insert, so raising its quantity reports NOT_FOUND.
func (s *Store) SetQuantity(ctx context.Context, artworkID string, quantity int) error {
	if quantity <= 0 {
		s.RemoveItem(ctx, artworkID)
		return nil
	}

	found := false
	s.commit(ctx, func(items []types.CartLineItem) []types.CartLineItem {
		if i := indexOf(items, artworkID); i >= 0 {
			found = true
			items[i].Quantity = quantity
		}
		return items
	})
	if !found {
		return pkgerrors.New(pkgerrors.CodeNotFound, "artwork is not in the cart").
			WithDetails(map[string]any{"artwork_id": artworkID})
	}

	s.mirror(ctx, opSetQuantity, artworkID, func(ctx context.Context) error {
		remote, err := s.server.GetCart(ctx)
		if err != nil {
			return fmt.Errorf("resolve server line: %w", err)
		}
		if line, ok := remote.LineFor(artworkID); ok {
			return s.server.UpdateCartItem(ctx, line.LineID, quantity)
		}
		return s.server.AddCartItem(ctx, artworkID, quantity)
	})
	return nil
}

// RemoveItem drops the line unconditionally.
func (s *Store) RemoveItem(ctx context.Context, artworkID string) {
	s.commit(ctx, func(items []types.CartLineItem) []types.CartLineItem {
		if i := indexOf(items, artworkID); i >= 0 {
			return append(items[:i], items[i+1:]...)
		}
		return items
	})

	s.mirror(ctx, opRemove, artworkID, func(ctx context.Context) error {
		remote, err := s.server.GetCart(ctx)
		if err != nil {
			return fmt.Errorf("resolve server line: %w", err)
		}
		line, ok := remote.LineFor(artworkID)
		if !ok {
			return nil
		}
		return s.server.DeleteCartItem(ctx, line.LineID)
	})
}

// ClearCart empties the cart.
func (s *Store) ClearCart(ctx context.Context) {
	s.commit(ctx, func([]types.CartLineItem) []types.CartLineItem { return nil })
	s.mirror(ctx, opClear, "", s.server.ClearCart)
}

// Reload replaces the local cart with the server's.
func (s *Store) Reload(ctx context.Context) error {
	if !s.server.Authenticated() {
		return pkgerrors.New(pkgerrors.CodeAuthRequired, "log in to load your cart")
	}
	gen := s.currentGeneration()
	remote, err := s.server.GetCart(ctx)
	if err != nil {
		return err
	}
	if !s.replaceIf(ctx, gen, normalize(remote.Items())) {
		return sessionEnded()
	}
	return nil
}

// EndSession marks the current session as over. The local cart stays for
// guest use; in-flight reloads and merges no longer overwrite it.
func (s *Store) EndSession() {
	s.mu.Lock()
	s.generation++
	s.mu.Unlock()
}

func (s *Store) currentGeneration() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation
}

// OnSessionStarted runs once when a session is established: a non-empty
// guest cart is merged into the server cart, otherwise the server cart is
// loaded.
func (s *Store) OnSessionStarted(ctx context.Context) (MergeReport, error) {
	if s.IsEmpty() {
		return MergeReport{}, s.Reload(ctx)
	}
	return s.MergeGuestCartIntoServer(ctx)
}

// commit applies fn to a private copy of the lines, installs the result,
// persists it and notifies listeners.
func (s *Store) commit(ctx context.Context, fn func([]types.CartLineItem) []types.CartLineItem) {
	s.mu.Lock()
	s.commitLocked(ctx, fn)
}

// commitLocked runs with s.mu held and releases it before notifying.
func (s *Store) commitLocked(ctx context.Context, fn func([]types.CartLineItem) []types.CartLineItem) {
	next := normalize(fn(cloneItems(s.items)))
	s.items = next
	snapshot := cloneItems(next)
	listeners := s.listenerList()
	s.persistLocked(ctx, snapshot)
	s.mu.Unlock()

	for _, l := range listeners {
		l(cloneItems(snapshot))
	}
}

func (s *Store) replace(ctx context.Context, items []types.CartLineItem) {
	s.commit(ctx, func([]types.CartLineItem) []types.CartLineItem { return items })
}

// replaceIf installs a server snapshot only while the session that fetched
// it is still live.
func (s *Store) replaceIf(ctx context.Context, gen uint64, items []types.CartLineItem) bool {
	s.mu.Lock()
	if s.generation != gen || !s.server.Authenticated() {
		s.mu.Unlock()
		return false
	}
	s.commitLocked(ctx, func([]types.CartLineItem) []types.CartLineItem { return items })
	return true
}

func sessionEnded() error {
	return pkgerrors.New(pkgerrors.CodeSessionExpired, "session ended before the server cart arrived")
}

func (s *Store) persistLocked(ctx context.Context, items []types.CartLineItem) {
	if items == nil {
		items = []types.CartLineItem{}
	}
	if err := storage.SetJSON(ctx, s.cache, storage.KeyCart, items); err != nil {
		s.logg.WarnErr(s.logg.WithOperation(ctx, "persist"), "failed to persist cart", err)
	}
}

func (s *Store) listenerList() []Listener {
	out := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		out = append(out, l)
	}
	return out
}

// mirror forwards a committed change to the server when a session exists.
// Failures are logged and counted, never returned.
func (s *Store) mirror(ctx context.Context, op, artworkID string, call func(context.Context) error) {
	if !s.server.Authenticated() {
		return
	}
	if err := call(ctx); err != nil {
		logCtx := s.logg.WithOperation(ctx, "cart_"+op)
		if artworkID != "" {
			logCtx = s.logg.WithArtworkID(logCtx, artworkID)
		}
		s.logg.WarnErr(logCtx, "cart server mirror failed", err)
		s.metrics.IncMirrorFailure(op)
	}
}

func indexOf(items []types.CartLineItem, artworkID string) int {
	for i, it := range items {
		if it.ID == artworkID {
			return i
		}
	}
	return -1
}

// normalize enforces the line invariants: no empty ids, no quantity below
// one and a single line per artwork (duplicates fold into the first).
func normalize(items []types.CartLineItem) []types.CartLineItem {
	if len(items) == 0 {
		return nil
	}
	out := make([]types.CartLineItem, 0, len(items))
	for _, it := range items {
		if it.ID == "" || it.Quantity <= 0 {
			continue
		}
		if i := indexOf(out, it.ID); i >= 0 {
			out[i].Quantity += it.Quantity
			continue
		}
		out = append(out, it)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func cloneItems(items []types.CartLineItem) []types.CartLineItem {
	if len(items) == 0 {
		return []types.CartLineItem{}
	}
	out := make([]types.CartLineItem, len(items))
	copy(out, items)
	return out
}
