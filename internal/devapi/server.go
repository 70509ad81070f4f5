package devapi

import (
	"fmt"
	"net/http"
	"time"

	"github.com/angelmondragon/artmarket-storefront/internal/pricing"
	"github.com/angelmondragon/artmarket-storefront/pkg/config"
	"github.com/angelmondragon/artmarket-storefront/pkg/logger"
	"github.com/angelmondragon/artmarket-storefront/pkg/metrics"
	"github.com/angelmondragon/artmarket-storefront/pkg/security"
	"github.com/angelmondragon/artmarket-storefront/pkg/types"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// BasePath prefixes every storefront route.
const BasePath = "/api/v1"

const resetCodeTTL = 30 * time.Minute

// ResetNotifier receives password reset codes in place of an email sender.
type ResetNotifier func(email, code string)

// Server is an in-memory implementation of the storefront REST API.
type Server struct {
	cfg      *config.Config
	logg     *logger.Logger
	state    *state
	hasher   *security.Hasher
	policy   pricing.Policy
	registry *prometheus.Registry
	metrics  *metrics.HTTPMetrics
	origins  []string
	notify   ResetNotifier
	now      func() time.Time
	router   http.Handler
}

type Option func(*Server)

// WithRegistry records request metrics on reg and serves it on /metrics.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(s *Server) {
		if reg != nil {
			s.registry = reg
		}
	}
}

func WithResetNotifier(fn ResetNotifier) Option {
	return func(s *Server) {
		if fn != nil {
			s.notify = fn
		}
	}
}

func WithAllowedOrigins(origins ...string) Option {
	return func(s *Server) {
		if len(origins) > 0 {
			s.origins = origins
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		if now != nil {
			s.now = now
		}
	}
}

// NewServer builds the router and seeds the demo account from cfg.DevAPI.
func NewServer(cfg *config.Config, logg *logger.Logger, opts ...Option) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	s := &Server{
		cfg:     cfg,
		logg:    logg,
		state:   newState(),
		hasher:  security.NewHasher(cfg.Password),
		policy:  pricing.PolicyFromConfig(cfg.Pricing),
		origins: []string{"*"},
		notify:  func(string, string) {},
		now:     time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.registry == nil {
		s.registry = prometheus.NewRegistry()
	}
	s.metrics = metrics.NewHTTPMetrics(s.registry)

	if err := s.seed(); err != nil {
		return nil, err
	}
	s.router = s.routes()
	return s, nil
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) seed() error {
	if s.cfg.DevAPI.SeedUser == "" {
		return nil
	}
	hash, err := s.hasher.Hash(s.cfg.DevAPI.SeedPass)
	if err != nil {
		return fmt.Errorf("hash seed password: %w", err)
	}
	user, ok := s.state.createAccount(types.User{
		Name:  "Demo Collector",
		Email: s.cfg.DevAPI.SeedUser,
		Phone: "9876543210",
	}, hash)
	if !ok {
		return fmt.Errorf("seed user %q already exists", s.cfg.DevAPI.SeedUser)
	}
	s.state.saveAddress(user.ID, types.Address{
		Label:      "Home",
		Name:       user.Name,
		Phone:      user.Phone,
		Line1:      "12 MG Road",
		City:       "Bengaluru",
		State:      "Karnataka",
		PostalCode: "560001",
		IsDefault:  true,
	})
	return nil
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoverer(s.logg))
	r.Use(requestID(s.logg))
	r.Use(observe(s.logg, s.metrics))
	r.Use(corsPolicy(s.origins))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeSuccess(w, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	r.Route(BasePath, func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", s.handleLogin)
			r.Post("/register", s.handleRegister)
			r.Post("/reset-password", s.handleRequestReset)
			r.Post("/reset-password/confirm", s.handleConfirmReset)
			r.With(s.requireAuth).Post("/logout", s.handleLogout)
			r.With(s.requireAuth).Post("/change-password", s.handleChangePassword)
		})

		r.Route("/artworks", func(r chi.Router) {
			r.Get("/", s.handleListArtworks)
			r.Get("/featured", s.handleFeaturedArtworks)
			r.Get("/categories", s.handleCategories)
			r.Get("/artist/{artistID}", s.handleArtworksByArtist)
			r.Get("/{artworkID}", s.handleGetArtwork)
			r.With(s.requireAuth).Post("/{artworkID}/like", s.handleToggleLike)
		})

		r.Route("/artists", func(r chi.Router) {
			r.Get("/", s.handleListArtists)
			r.Get("/featured", s.handleFeaturedArtists)
			r.Get("/by-area", s.handleArtistsByArea)
			r.Get("/{artistID}", s.handleGetArtist)
		})

		r.Group(func(r chi.Router) {
			r.Use(s.requireAuth)

			r.Get("/cart", s.handleGetCart)
			r.Delete("/cart", s.handleClearCart)
			r.Post("/cart/items", s.handleAddCartItem)
			r.Put("/cart/items/{lineID}", s.handleUpdateCartItem)
			r.Delete("/cart/items/{lineID}", s.handleDeleteCartItem)

			r.Get("/users/me", s.handleMe)
			r.Put("/users/me", s.handleUpdateMe)
			r.Get("/users/me/favorites", s.handleListFavorites)
			r.Post("/users/me/favorites", s.handleAddFavorite)
			r.Delete("/users/me/favorites/{artworkID}", s.handleRemoveFavorite)
			r.Get("/users/me/addresses", s.handleListAddresses)
			r.Post("/users/me/addresses", s.handleAddAddress)
			r.Put("/users/me/addresses/{addressID}", s.handleUpdateAddress)
			r.Delete("/users/me/addresses/{addressID}", s.handleDeleteAddress)

			r.Post("/orders", s.handleCreateOrder)
			r.Get("/orders", s.handleListOrders)
			r.Get("/orders/{orderID}", s.handleGetOrder)
		})
	})
	return r
}
