package config

const EnvPrefix = "STOREFRONT"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	StorageDriverMemory   = "memory"
	StorageDriverSQLite   = "sqlite"
	StorageDriverPostgres = "postgres"
	StorageDriverRedis    = "redis"
)

const (
	EnvAppEnv        = "STOREFRONT_APP_ENV"
	EnvLogLevel      = "STOREFRONT_LOG_LEVEL"
	EnvAPIBaseURL    = "STOREFRONT_API_BASE_URL"
	EnvAPITimeout    = "STOREFRONT_API_TIMEOUT"
	EnvStorageDriver = "STOREFRONT_STORAGE_DRIVER"
	EnvStoragePath   = "STOREFRONT_STORAGE_PATH"
	EnvDBDSN         = "STOREFRONT_DB_DSN"
	EnvRedisURL      = "STOREFRONT_REDIS_URL"
	EnvTaxRate       = "STOREFRONT_PRICING_TAX_RATE"
	EnvPaymentDelay  = "STOREFRONT_CHECKOUT_PAYMENT_DELAY"
	EnvJWTSecret     = "STOREFRONT_JWT_SECRET"
	EnvDevAPIPort    = "STOREFRONT_DEVAPI_PORT"
)
