package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App      AppConfig
	API      APIConfig
	Storage  StorageConfig
	DB       DBConfig
	Redis    RedisConfig
	Pricing  PricingConfig
	Checkout CheckoutConfig
	DevAPI   DevAPIConfig
	JWT      JWTConfig
	Password PasswordConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.API.validate(); err != nil {
		return nil, err
	}
	if err := cfg.Storage.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"STOREFRONT_APP_ENV" default:"dev"`
	LogLevel     string `envconfig:"STOREFRONT_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"STOREFRONT_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type APIConfig struct {
	BaseURL string        `envconfig:"STOREFRONT_API_BASE_URL" default:"http://localhost:8080/api/v1"`
	Timeout time.Duration `envconfig:"STOREFRONT_API_TIMEOUT" default:"10s"`
	// EntryPath is the unauthenticated entry point a session expiry redirects to.
	EntryPath string `envconfig:"STOREFRONT_API_ENTRY_PATH" default:"/login"`
}

func (a APIConfig) validate() error {
	parsed, err := url.Parse(a.BaseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("%s must be an absolute url, got %q", EnvAPIBaseURL, a.BaseURL)
	}
	if a.Timeout <= 0 {
		return fmt.Errorf("%s must be positive", EnvAPITimeout)
	}
	return nil
}

type StorageConfig struct {
	Driver    string `envconfig:"STOREFRONT_STORAGE_DRIVER" default:"sqlite"`
	Path      string `envconfig:"STOREFRONT_STORAGE_PATH" default:"storefront.db"`
	Namespace string `envconfig:"STOREFRONT_STORAGE_NAMESPACE" default:"storefront"`
}

func (s StorageConfig) validate() error {
	switch strings.ToLower(s.Driver) {
	case StorageDriverMemory, StorageDriverSQLite, StorageDriverPostgres, StorageDriverRedis:
		return nil
	}
	return fmt.Errorf("%s must be one of memory|sqlite|postgres|redis, got %q", EnvStorageDriver, s.Driver)
}

// NormalizedDriver returns the lower-cased storage driver.
func (s StorageConfig) NormalizedDriver() string {
	return strings.ToLower(strings.TrimSpace(s.Driver))
}

type DBConfig struct {
	DSN string `envconfig:"STOREFRONT_DB_DSN"`

	MaxOpenConns    int           `envconfig:"STOREFRONT_DB_MAX_OPEN_CONNS" default:"4"`
	MaxIdleConns    int           `envconfig:"STOREFRONT_DB_MAX_IDLE_CONNS" default:"2"`
	ConnMaxLifetime time.Duration `envconfig:"STOREFRONT_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"STOREFRONT_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"STOREFRONT_REDIS_URL"`
	Address      string        `envconfig:"STOREFRONT_REDIS_ADDR"`
	Password     string        `envconfig:"STOREFRONT_REDIS_PASSWORD"`
	DB           int           `envconfig:"STOREFRONT_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"STOREFRONT_REDIS_POOL_SIZE" default:"4"`
	MinIdleConns int           `envconfig:"STOREFRONT_REDIS_MIN_IDLE_CONNS" default:"1"`
	DialTimeout  time.Duration `envconfig:"STOREFRONT_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"STOREFRONT_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"STOREFRONT_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type PricingConfig struct {
	ConversionRate        float64 `envconfig:"STOREFRONT_PRICING_CONVERSION_RATE" default:"83"`
	CurrencySymbol        string  `envconfig:"STOREFRONT_PRICING_CURRENCY_SYMBOL" default:"₹"`
	Locale                string  `envconfig:"STOREFRONT_PRICING_LOCALE" default:"en-IN"`
	TaxRate               float64 `envconfig:"STOREFRONT_PRICING_TAX_RATE" default:"0.18"`
	FreeShippingThreshold float64 `envconfig:"STOREFRONT_PRICING_FREE_SHIPPING_THRESHOLD" default:"25000"`
	FlatShippingFee       float64 `envconfig:"STOREFRONT_PRICING_FLAT_SHIPPING_FEE" default:"500"`
}

type CheckoutConfig struct {
	PaymentDelay time.Duration `envconfig:"STOREFRONT_CHECKOUT_PAYMENT_DELAY" default:"2s"`
	SubmitOrders bool          `envconfig:"STOREFRONT_CHECKOUT_SUBMIT_ORDERS" default:"true"`
}

type DevAPIConfig struct {
	Port     string `envconfig:"STOREFRONT_DEVAPI_PORT" default:"8080"`
	SeedUser string `envconfig:"STOREFRONT_DEVAPI_SEED_USER" default:"collector@example.com"`
	SeedPass string `envconfig:"STOREFRONT_DEVAPI_SEED_PASSWORD" default:"gallery-pass"`
}

type JWTConfig struct {
	Secret            string `envconfig:"STOREFRONT_JWT_SECRET" default:"dev-secret"`
	Issuer            string `envconfig:"STOREFRONT_JWT_ISSUER" default:"artmarket-devapi"`
	ExpirationMinutes int    `envconfig:"STOREFRONT_JWT_EXPIRATION_MINUTES" default:"60"`
}

// TTL returns the token lifetime.
func (j JWTConfig) TTL() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"STOREFRONT_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"STOREFRONT_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"STOREFRONT_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"STOREFRONT_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"STOREFRONT_ARGON_KEY_LEN" default:"32"`
}
