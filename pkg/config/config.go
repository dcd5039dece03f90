package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	Firebase     FirebaseConfig
	Orders       OrdersConfig
	Checkout     CheckoutConfig
	Shipping     ShippingConfig
	CORS         CORSConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if err := cfg.Orders.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"STOREFRONT_APP_ENV" required:"true"`
	Port         string `envconfig:"STOREFRONT_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"STOREFRONT_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"STOREFRONT_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"STOREFRONT_DB_DSN"`
	Driver string `envconfig:"STOREFRONT_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"STOREFRONT_DB_HOST"`
	LegacyPort     int    `envconfig:"STOREFRONT_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"STOREFRONT_DB_USER"`
	LegacyPassword string `envconfig:"STOREFRONT_DB_PASSWORD"`
	LegacyName     string `envconfig:"STOREFRONT_DB_NAME"`
	LegacySSLMode  string `envconfig:"STOREFRONT_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"STOREFRONT_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"STOREFRONT_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"STOREFRONT_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"STOREFRONT_DB_CONN_MAX_IDLE_TIME" default:"10m"`

	SlowQueryThreshold time.Duration `envconfig:"STOREFRONT_DB_SLOW_QUERY_THRESHOLD" default:"200ms"`
}

// IsSQLite reports whether the configured driver is the embedded sqlite driver.
func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(strings.TrimSpace(db.Driver), "sqlite")
}

type RedisConfig struct {
	URL          string        `envconfig:"STOREFRONT_REDIS_URL" required:"true"`
	Address      string        `envconfig:"STOREFRONT_REDIS_ADDR"`
	Password     string        `envconfig:"STOREFRONT_REDIS_PASSWORD"`
	DB           int           `envconfig:"STOREFRONT_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"STOREFRONT_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"STOREFRONT_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"STOREFRONT_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"STOREFRONT_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"STOREFRONT_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// FirebaseConfig mirrors the web SDK configuration of the storefront project.
type FirebaseConfig struct {
	APIKey            string `envconfig:"STOREFRONT_FIREBASE_API_KEY"`
	AuthDomain        string `envconfig:"STOREFRONT_FIREBASE_AUTH_DOMAIN"`
	DatabaseURL       string `envconfig:"STOREFRONT_FIREBASE_DATABASE_URL"`
	ProjectID         string `envconfig:"STOREFRONT_FIREBASE_PROJECT_ID"`
	StorageBucket     string `envconfig:"STOREFRONT_FIREBASE_STORAGE_BUCKET"`
	MessagingSenderID string `envconfig:"STOREFRONT_FIREBASE_MESSAGING_SENDER_ID"`
	AppID             string `envconfig:"STOREFRONT_FIREBASE_APP_ID"`
	MeasurementID     string `envconfig:"STOREFRONT_FIREBASE_MEASUREMENT_ID"`
	CertsURL          string `envconfig:"STOREFRONT_FIREBASE_CERTS_URL"`
}

type OrdersConfig struct {
	BaseURL string        `envconfig:"STOREFRONT_ORDERS_BASE_URL" required:"true"`
	Timeout time.Duration `envconfig:"STOREFRONT_ORDERS_TIMEOUT" default:"15s"`
}

func (o OrdersConfig) validate() error {
	parsed, err := url.Parse(strings.TrimSpace(o.BaseURL))
	if err != nil {
		return fmt.Errorf("parsing %s: %w", EnvOrdersBaseURL, err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("%s must be an absolute url", EnvOrdersBaseURL)
	}
	return nil
}

type CheckoutConfig struct {
	ConfirmDelay    time.Duration `envconfig:"STOREFRONT_CHECKOUT_CONFIRM_DELAY" default:"1200ms"`
	InFlightTTL     time.Duration `envconfig:"STOREFRONT_CHECKOUT_IN_FLIGHT_TTL" default:"60s"`
	FallbackCountry string        `envconfig:"STOREFRONT_CHECKOUT_FALLBACK_COUNTRY" default:"UAE"`
	SuccessPath     string        `envconfig:"STOREFRONT_CHECKOUT_SUCCESS_PATH" default:"/order-success"`
	CartTTL         time.Duration `envconfig:"STOREFRONT_CHECKOUT_CART_TTL" default:"720h"`
}

type ShippingConfig struct {
	CacheTTL time.Duration `envconfig:"STOREFRONT_SHIPPING_CACHE_TTL" default:"5m"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"STOREFRONT_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"STOREFRONT_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
