// Package app wires the storefront engine: config, logging, metrics, the
// durable cache, the REST client and the stores, with an explicit Init and
// Dispose lifecycle.
package app

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"

	"github.com/angelmondragon/artmarket-storefront/internal/api"
	"github.com/angelmondragon/artmarket-storefront/internal/cart"
	"github.com/angelmondragon/artmarket-storefront/internal/catalog"
	"github.com/angelmondragon/artmarket-storefront/internal/checkout"
	"github.com/angelmondragon/artmarket-storefront/internal/favorites"
	"github.com/angelmondragon/artmarket-storefront/internal/pricing"
	"github.com/angelmondragon/artmarket-storefront/internal/session"
	"github.com/angelmondragon/artmarket-storefront/internal/storage"
	"github.com/angelmondragon/artmarket-storefront/pkg/config"
	"github.com/angelmondragon/artmarket-storefront/pkg/logger"
	"github.com/angelmondragon/artmarket-storefront/pkg/metrics"
	"github.com/angelmondragon/artmarket-storefront/pkg/types"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/multierr"
)

const serviceName = "storefront"

// Storefront owns every long-lived piece of client state.
type Storefront struct {
	Config    *config.Config
	Logger    *logger.Logger
	Registry  *prometheus.Registry
	Metrics   *metrics.ClientMetrics
	API       *api.Client
	Cache     storage.Store
	Cart      *cart.Store
	Favorites *favorites.Store
	Session   *session.Gate
	Catalog   *catalog.Browser
	Prices    *pricing.Formatter

	closer      io.Closer
	disposeOnce sync.Once
	disposeErr  error

	navMu    sync.Mutex
	location string
	navigate func(ctx context.Context, path string)
}

type options struct {
	logg       *logger.Logger
	cache      storage.Store
	httpClient *http.Client
	registry   *prometheus.Registry
	navigate   func(ctx context.Context, path string)
}

type Option func(*options)

func WithLogger(logg *logger.Logger) Option {
	return func(o *options) { o.logg = logg }
}

// WithCache supplies the durable cache instead of opening the configured one.
func WithCache(cache storage.Store) Option {
	return func(o *options) { o.cache = cache }
}

func WithHTTPClient(client *http.Client) Option {
	return func(o *options) { o.httpClient = client }
}

func WithRegistry(reg *prometheus.Registry) Option {
	return func(o *options) { o.registry = reg }
}

// WithNavigator is called when the engine needs to move the user, as on
// session expiry.
func WithNavigator(fn func(ctx context.Context, path string)) Option {
	return func(o *options) { o.navigate = fn }
}

// Init builds the storefront, restores the cached cart and resumes a stored
// session when its token is still live.
func Init(ctx context.Context, cfg *config.Config, opts ...Option) (*Storefront, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config required")
	}
	o := options{}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if o.logg == nil {
		o.logg = logger.New(logger.Options{
			ServiceName: serviceName,
			Level:       logger.ParseLevel(cfg.App.LogLevel),
			WarnStack:   cfg.App.LogWarnStack,
			Output:      os.Stderr,
		})
	}
	if o.registry == nil {
		o.registry = prometheus.NewRegistry()
	}

	s := &Storefront{
		Config:   cfg,
		Logger:   o.logg,
		Registry: o.registry,
		Metrics:  metrics.NewClientMetrics(o.registry),
		Prices:   pricing.NewFormatter(cfg.Pricing),
		navigate: o.navigate,
	}

	if o.cache != nil {
		s.Cache = o.cache
	} else {
		cache, closer, err := storage.Open(ctx, cfg, s.Logger)
		if err != nil {
			return nil, fmt.Errorf("open client cache: %w", err)
		}
		s.Cache, s.closer = cache, closer
	}

	if err := s.wire(cfg, o); err != nil {
		_ = s.Dispose(ctx)
		return nil, err
	}

	if err := s.Cart.Load(ctx); err != nil {
		s.Logger.WarnErr(ctx, "failed to load cached cart", err)
	}
	if _, err := s.Session.Restore(ctx); err != nil {
		s.Logger.WarnErr(ctx, "failed to restore session", err)
	}
	s.Logger.Info(s.Logger.WithField(ctx, "storage_driver", cfg.Storage.NormalizedDriver()), "storefront ready")
	return s, nil
}

func (s *Storefront) wire(cfg *config.Config, o options) error {
	clientOpts := []api.Option{
		api.WithLogger(s.Logger),
		api.WithMetrics(s.Metrics),
	}
	if o.httpClient != nil {
		clientOpts = append(clientOpts, api.WithHTTPClient(o.httpClient))
	}
	clientOpts = append(clientOpts, api.WithTimeout(cfg.API.Timeout))
	client, err := api.NewClient(cfg.API.BaseURL, clientOpts...)
	if err != nil {
		return err
	}
	s.API = client

	policy := pricing.PolicyFromConfig(cfg.Pricing)
	s.Cart, err = cart.NewStore(client, s.Cache,
		cart.WithLogger(s.Logger),
		cart.WithMetrics(s.Metrics),
		cart.WithPricingPolicy(policy),
	)
	if err != nil {
		return err
	}
	s.Favorites, err = favorites.NewStore(client, favorites.WithLogger(s.Logger))
	if err != nil {
		return err
	}
	s.Session, err = session.NewGate(client, s.Cache, s.Cart, s.Favorites,
		session.WithLogger(s.Logger),
		session.WithRedirect(cfg.API.EntryPath, s.Location, s.redirect),
	)
	if err != nil {
		return err
	}
	client.SetUnauthorizedHandler(s.Session.HandleUnauthorized)

	s.Catalog, err = catalog.NewBrowser(client, catalog.WithLogger(s.Logger))
	return err
}

// NewCheckout starts a checkout over the current cart. For a signed-in user
// the shipping form is prefilled from the profile and the default address.
func (s *Storefront) NewCheckout(ctx context.Context) (*checkout.Flow, error) {
	opts := []checkout.Option{
		checkout.WithLogger(s.Logger),
		checkout.WithPaymentDelay(s.Config.Checkout.PaymentDelay),
		checkout.WithPricingPolicy(pricing.PolicyFromConfig(s.Config.Pricing)),
	}
	if s.Config.Checkout.SubmitOrders {
		opts = append(opts, checkout.WithOrderSubmitter(s.API))
	}
	flow, err := checkout.NewFlow(s.Cart, opts...)
	if err != nil {
		return nil, err
	}

	user, ok := s.Session.User()
	if !ok {
		return flow, nil
	}
	var preferred *types.Address
	if addresses, err := s.API.Addresses(ctx); err != nil {
		s.Logger.WarnErr(ctx, "could not load saved addresses for prefill", err)
	} else {
		preferred = pickAddress(addresses)
	}
	flow.PrefillShipping(user, preferred)
	return flow, nil
}

func pickAddress(addresses []types.Address) *types.Address {
	if len(addresses) == 0 {
		return nil
	}
	for i := range addresses {
		if addresses[i].IsDefault {
			return &addresses[i]
		}
	}
	return &addresses[0]
}

// Navigate records the user's current location.
func (s *Storefront) Navigate(path string) {
	s.navMu.Lock()
	s.location = path
	s.navMu.Unlock()
}

func (s *Storefront) Location() string {
	s.navMu.Lock()
	defer s.navMu.Unlock()
	return s.location
}

func (s *Storefront) redirect(ctx context.Context, path string) {
	s.Navigate(path)
	if s.navigate != nil {
		s.navigate(ctx, path)
	}
}

// Dispose detaches hooks and releases the cache connection. It is safe to
// call more than once.
func (s *Storefront) Dispose(ctx context.Context) error {
	s.disposeOnce.Do(func() {
		if s.API != nil {
			s.API.SetUnauthorizedHandler(nil)
		}
		if s.closer != nil {
			s.disposeErr = multierr.Append(s.disposeErr, s.closer.Close())
		}
		if s.Logger != nil {
			s.Logger.Info(ctx, "storefront disposed")
		}
	})
	return s.disposeErr
}
