// Package session owns the authentication lifecycle and drives the cart and
// favourites stores across session boundaries.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/angelmondragon/artmarket-storefront/internal/api"
	"github.com/angelmondragon/artmarket-storefront/internal/cart"
	"github.com/angelmondragon/artmarket-storefront/internal/storage"
	"github.com/angelmondragon/artmarket-storefront/pkg/auth"
	"github.com/angelmondragon/artmarket-storefront/pkg/enums"
	pkgerrors "github.com/angelmondragon/artmarket-storefront/pkg/errors"
	"github.com/angelmondragon/artmarket-storefront/pkg/logger"
	"github.com/angelmondragon/artmarket-storefront/pkg/types"
)

// DefaultEntryPath is where an expired session is sent to sign in again.
const DefaultEntryPath = "/login"

type authAPI interface {
	Login(ctx context.Context, email, password string) (api.AuthResult, error)
	Register(ctx context.Context, in api.RegisterInput) (api.AuthResult, error)
	Logout(ctx context.Context) error
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, password string) error
	ChangePassword(ctx context.Context, current, next string) error
	UpdateMe(ctx context.Context, update api.ProfileUpdate) (types.User, error)
	SetToken(token string)
	ClearToken()
}

type cartSync interface {
	OnSessionStarted(ctx context.Context) (cart.MergeReport, error)
	Reload(ctx context.Context) error
	EndSession()
}

type favoritesSync interface {
	Load(ctx context.Context) error
	Reset()
}

// Listener observes state changes. user is nil unless authenticated.
type Listener func(state enums.SessionState, user *types.User)

// StartResult describes what happened when a session was established.
type StartResult struct {
	User  types.User
	Merge cart.MergeReport
	// CartErr and FavoritesErr are sync failures that did not block the login.
	CartErr      error
	FavoritesErr error
}

// Gate is the session state machine: anonymous, authenticating, authenticated.
type Gate struct {
	api       authAPI
	cache     storage.Store
	cart      cartSync
	favorites favoritesSync
	logg      *logger.Logger
	now       func() time.Time

	entryPath string
	location  func() string
	redirect  func(ctx context.Context, path string)

	mu        sync.Mutex
	state     enums.SessionState
	user      *types.User
	listeners map[int]Listener
	nextID    int
}

type Option func(*Gate)

func WithLogger(logg *logger.Logger) Option {
	return func(g *Gate) {
		if logg != nil {
			g.logg = logg
		}
	}
}

// WithClock overrides time.Now for token expiry checks.
func WithClock(now func() time.Time) Option {
	return func(g *Gate) {
		if now != nil {
			g.now = now
		}
	}
}

// WithRedirect installs the navigation hooks used when a session expires.
// location reports where the user currently is; redirect is skipped when
// that is already entryPath.
func WithRedirect(entryPath string, location func() string, redirect func(ctx context.Context, path string)) Option {
	return func(g *Gate) {
		if strings.TrimSpace(entryPath) != "" {
			g.entryPath = entryPath
		}
		g.location = location
		g.redirect = redirect
	}
}

func NewGate(client authAPI, cache storage.Store, cartStore cartSync, favoritesStore favoritesSync, opts ...Option) (*Gate, error) {
	if client == nil {
		return nil, fmt.Errorf("session api client required")
	}
	if cache == nil {
		return nil, fmt.Errorf("session cache required")
	}
	if cartStore == nil {
		return nil, fmt.Errorf("session cart store required")
	}
	if favoritesStore == nil {
		return nil, fmt.Errorf("session favorites store required")
	}
	g := &Gate{
		api:       client,
		cache:     cache,
		cart:      cartStore,
		favorites: favoritesStore,
		logg:      logger.Nop(),
		now:       time.Now,
		entryPath: DefaultEntryPath,
		state:     enums.SessionStateAnonymous,
		listeners: make(map[int]Listener),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}
	return g, nil
}

func (g *Gate) State() enums.SessionState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

func (g *Gate) IsAuthenticated() bool {
	return g.State() == enums.SessionStateAuthenticated
}

// User returns the signed-in user.
func (g *Gate) User() (types.User, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.user == nil {
		return types.User{}, false
	}
	return *g.user, true
}

func (g *Gate) Subscribe(fn Listener) func() {
	g.mu.Lock()
	defer g.mu.Unlock()
	id := g.nextID
	g.nextID++
	g.listeners[id] = fn
	return func() {
		g.mu.Lock()
		delete(g.listeners, id)
		g.mu.Unlock()
	}
}

func (g *Gate) Login(ctx context.Context, email, password string) (StartResult, error) {
	return g.authenticate(g.logg.WithOperation(ctx, "login"), func(ctx context.Context) (api.AuthResult, error) {
		return g.api.Login(ctx, email, password)
	})
}

func (g *Gate) Register(ctx context.Context, in api.RegisterInput) (StartResult, error) {
	return g.authenticate(g.logg.WithOperation(ctx, "register"), func(ctx context.Context) (api.AuthResult, error) {
		return g.api.Register(ctx, in)
	})
}

// authenticate runs the anonymous → authenticating → authenticated
// transition. Nothing is stored unless every step up to the state change
// succeeds.
func (g *Gate) authenticate(ctx context.Context, call func(context.Context) (api.AuthResult, error)) (StartResult, error) {
	g.mu.Lock()
	if g.state != enums.SessionStateAnonymous {
		state := g.state
		g.mu.Unlock()
		return StartResult{}, pkgerrors.New(pkgerrors.CodeStateConflict, "already signed in").
			WithDetails(map[string]any{"state": state.String()})
	}
	g.state = enums.SessionStateAuthenticating
	g.mu.Unlock()
	g.notify()

	res, err := call(ctx)
	if err != nil {
		g.setState(enums.SessionStateAnonymous, nil)
		if pkgerrors.As(err) == nil {
			err = pkgerrors.Wrap(pkgerrors.CodeServer, err, "sign in failed")
		}
		return StartResult{}, err
	}

	if err := g.persist(ctx, res.Token, res.User); err != nil {
		g.setState(enums.SessionStateAnonymous, nil)
		g.logg.Error(ctx, "failed to persist session", err)
		return StartResult{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "could not save your session")
	}

	g.api.SetToken(res.Token)
	user := res.User
	g.setState(enums.SessionStateAuthenticated, &user)
	ctx = g.logg.WithUserID(ctx, user.ID)
	g.logg.Info(ctx, "session started")

	out := g.syncStores(ctx, true)
	out.User = user
	if !g.IsAuthenticated() {
		return out, pkgerrors.New(pkgerrors.CodeSessionExpired, "the new session was rejected by the server")
	}
	return out, nil
}

func (g *Gate) syncStores(ctx context.Context, merge bool) StartResult {
	var out StartResult
	if merge {
		out.Merge, out.CartErr = g.cart.OnSessionStarted(ctx)
	} else {
		out.CartErr = g.cart.Reload(ctx)
	}
	if out.CartErr != nil {
		g.logg.WarnErr(ctx, "cart sync failed after sign in", out.CartErr)
	}
	if out.FavoritesErr = g.favorites.Load(ctx); out.FavoritesErr != nil {
		g.logg.WarnErr(ctx, "favorites load failed after sign in", out.FavoritesErr)
	}
	return out
}

// persist stores the token and user together; a failure leaves neither.
func (g *Gate) persist(ctx context.Context, token string, user types.User) error {
	rawUser, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	return storage.SetAll(ctx, g.cache, map[string][]byte{
		storage.KeyToken: []byte(token),
		storage.KeyUser:  rawUser,
	})
}

// Logout ends the session. The server call is best effort; the local
// cascade always runs and the cart is kept for guest use.
func (g *Gate) Logout(ctx context.Context) {
	ctx = g.logg.WithOperation(ctx, "logout")
	if g.IsAuthenticated() {
		if err := g.api.Logout(ctx); err != nil {
			g.logg.WarnErr(ctx, "server logout failed", err)
		}
	}
	g.endSession(ctx)
}

// HandleUnauthorized is the API client's 401 hook. It runs the logout
// cascade without calling the server and sends the user to the entry path
// unless they are already there.
func (g *Gate) HandleUnauthorized(ctx context.Context) {
	ctx = g.logg.WithOperation(ctx, "session_expired")
	g.logg.Warn(ctx, "server rejected the session token")
	g.endSession(ctx)

	if g.redirect == nil {
		return
	}
	if g.location != nil && g.location() == g.entryPath {
		return
	}
	g.redirect(ctx, g.entryPath)
}

func (g *Gate) endSession(ctx context.Context) {
	if err := g.cache.Delete(ctx, storage.KeyToken, storage.KeyUser); err != nil {
		g.logg.WarnErr(ctx, "failed to clear stored session", err)
	}
	g.api.ClearToken()
	g.cart.EndSession()
	g.favorites.Reset()
	g.setState(enums.SessionStateAnonymous, nil)
}

// Restore resumes a stored session at startup. Expired or unreadable
// sessions are discarded. It reports whether a session was resumed.
func (g *Gate) Restore(ctx context.Context) (bool, error) {
	ctx = g.logg.WithOperation(ctx, "restore_session")
	token, found, err := storage.GetString(ctx, g.cache, storage.KeyToken)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "could not read stored session")
	}
	token = strings.TrimSpace(token)
	if !found || token == "" {
		return false, nil
	}
	if auth.IsExpired(token, g.now()) {
		g.logg.Info(ctx, "stored session token expired")
		g.endSession(ctx)
		return false, nil
	}
	user, found, err := storage.GetJSON[types.User](ctx, g.cache, storage.KeyUser)
	if err != nil || !found {
		if err != nil {
			g.logg.WarnErr(ctx, "discarding unreadable stored user", err)
		}
		g.endSession(ctx)
		return false, nil
	}

	g.api.SetToken(token)
	g.setState(enums.SessionStateAuthenticated, &user)
	g.syncStores(g.logg.WithUserID(ctx, user.ID), false)
	return g.IsAuthenticated(), nil
}

func (g *Gate) RequestPasswordReset(ctx context.Context, email string) error {
	return g.api.RequestPasswordReset(ctx, email)
}

func (g *Gate) ResetPassword(ctx context.Context, token, password string) error {
	return g.api.ResetPassword(ctx, token, password)
}

func (g *Gate) ChangePassword(ctx context.Context, current, next string) error {
	if !g.IsAuthenticated() {
		return pkgerrors.New(pkgerrors.CodeAuthRequired, "log in to change your password")
	}
	return g.api.ChangePassword(ctx, current, next)
}

// UpdateProfile saves profile changes and refreshes the stored user.
func (g *Gate) UpdateProfile(ctx context.Context, update api.ProfileUpdate) (types.User, error) {
	if !g.IsAuthenticated() {
		return types.User{}, pkgerrors.New(pkgerrors.CodeAuthRequired, "log in to update your profile")
	}
	user, err := g.api.UpdateMe(ctx, update)
	if err != nil {
		return types.User{}, err
	}
	if err := storage.SetJSON(ctx, g.cache, storage.KeyUser, user); err != nil {
		g.logg.WarnErr(ctx, "failed to persist updated profile", err)
	}
	g.mu.Lock()
	if g.state == enums.SessionStateAuthenticated {
		g.user = &user
	}
	g.mu.Unlock()
	g.notify()
	return user, nil
}

func (g *Gate) setState(state enums.SessionState, user *types.User) {
	g.mu.Lock()
	g.state = state
	g.user = user
	g.mu.Unlock()
	g.notify()
}

func (g *Gate) notify() {
	g.mu.Lock()
	state := g.state
	var user *types.User
	if g.user != nil {
		u := *g.user
		user = &u
	}
	listeners := make([]Listener, 0, len(g.listeners))
	for _, l := range g.listeners {
		listeners = append(listeners, l)
	}
	g.mu.Unlock()

	for _, l := range listeners {
		l(state, user)
	}
}
