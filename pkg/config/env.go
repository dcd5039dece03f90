package config

// EnvPrefix is the envconfig prefix shared by every service binary.
const EnvPrefix = "STOREFRONT"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv   = "STOREFRONT_APP_ENV"
	EnvPort     = "STOREFRONT_APP_PORT"
	EnvLogLevel = "STOREFRONT_LOG_LEVEL"

	EnvDBDSN    = "STOREFRONT_DB_DSN"
	EnvDBDriver = "STOREFRONT_DB_DRIVER"
	EnvDBHost   = "STOREFRONT_DB_HOST"
	EnvDBPort   = "STOREFRONT_DB_PORT"
	EnvDBUser   = "STOREFRONT_DB_USER"
	EnvDBPass   = "STOREFRONT_DB_PASSWORD"
	EnvDBName   = "STOREFRONT_DB_NAME"

	EnvRedisURL = "STOREFRONT_REDIS_URL"

	EnvFirebaseAPIKey            = "STOREFRONT_FIREBASE_API_KEY"
	EnvFirebaseAuthDomain        = "STOREFRONT_FIREBASE_AUTH_DOMAIN"
	EnvFirebaseDatabaseURL       = "STOREFRONT_FIREBASE_DATABASE_URL"
	EnvFirebaseProjectID         = "STOREFRONT_FIREBASE_PROJECT_ID"
	EnvFirebaseStorageBucket     = "STOREFRONT_FIREBASE_STORAGE_BUCKET"
	EnvFirebaseMessagingSenderID = "STOREFRONT_FIREBASE_MESSAGING_SENDER_ID"
	EnvFirebaseAppID             = "STOREFRONT_FIREBASE_APP_ID"
	EnvFirebaseMeasurementID     = "STOREFRONT_FIREBASE_MEASUREMENT_ID"

	EnvOrdersBaseURL = "STOREFRONT_ORDERS_BASE_URL"
	EnvOrdersTimeout = "STOREFRONT_ORDERS_TIMEOUT"

	EnvCheckoutConfirmDelay    = "STOREFRONT_CHECKOUT_CONFIRM_DELAY"
	EnvCheckoutInFlightTTL     = "STOREFRONT_CHECKOUT_IN_FLIGHT_TTL"
	EnvCheckoutFallbackCountry = "STOREFRONT_CHECKOUT_FALLBACK_COUNTRY"
	EnvCheckoutSuccessPath     = "STOREFRONT_CHECKOUT_SUCCESS_PATH"
	EnvCheckoutCartTTL         = "STOREFRONT_CHECKOUT_CART_TTL"

	EnvShippingCacheTTL = "STOREFRONT_SHIPPING_CACHE_TTL"

	EnvCORSAllowedOrigins = "STOREFRONT_CORS_ALLOWED_ORIGINS"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
