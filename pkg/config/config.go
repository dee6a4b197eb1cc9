package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "INKVAULT"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "INKVAULT_DB_DSN"
	EnvDBHost = "INKVAULT_DB_HOST"
	EnvDBUser = "INKVAULT_DB_USER"
	EnvDBName = "INKVAULT_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	FeatureFlags FeatureFlagsConfig
	Eventing     EventingConfig
	Stripe       StripeConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"INKVAULT_APP_ENV" required:"true"`
	Port         string `envconfig:"INKVAULT_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"INKVAULT_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"INKVAULT_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"INKVAULT_DB_DSN"`
	Driver string `envconfig:"INKVAULT_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"INKVAULT_DB_HOST"`
	LegacyPort     int    `envconfig:"INKVAULT_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"INKVAULT_DB_USER"`
	LegacyPassword string `envconfig:"INKVAULT_DB_PASSWORD"`
	LegacyName     string `envconfig:"INKVAULT_DB_NAME"`
	LegacySSLMode  string `envconfig:"INKVAULT_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"INKVAULT_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"INKVAULT_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"INKVAULT_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"INKVAULT_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"INKVAULT_REDIS_URL" required:"true"`
	Password     string        `envconfig:"INKVAULT_REDIS_PASSWORD"`
	DB           int           `envconfig:"INKVAULT_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"INKVAULT_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"INKVAULT_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"INKVAULT_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"INKVAULT_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"INKVAULT_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret string `envconfig:"INKVAULT_JWT_SECRET" required:"true"`
	Issuer string `envconfig:"INKVAULT_JWT_ISSUER" required:"true"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"INKVAULT_AUTO_MIGRATE" default:"false"`
}

type EventingConfig struct {
	WebhookIdempotencyTTL time.Duration `envconfig:"INKVAULT_EVENTING_IDEMPOTENCY_TTL" default:"720h"`
}

type StripeConfig struct {
	APIKey string `envconfig:"INKVAULT_STRIPE_API_KEY"`
	Secret string `envconfig:"INKVAULT_STRIPE_SECRET"`
	Env    string `envconfig:"INKVAULT_STRIPE_ENV" default:"test"`

	BundlePriceCents int64  `envconfig:"INKVAULT_STRIPE_BUNDLE_PRICE_CENTS" default:"0"`
	BundleShards     int64  `envconfig:"INKVAULT_STRIPE_BUNDLE_SHARDS" default:"0"`
	BundleName       string `envconfig:"INKVAULT_STRIPE_BUNDLE_NAME" default:"Shard Bundle"`
	Currency         string `envconfig:"INKVAULT_STRIPE_CURRENCY" default:"usd"`
	SuccessURL       string `envconfig:"INKVAULT_STRIPE_SUCCESS_URL"`
	CancelURL        string `envconfig:"INKVAULT_STRIPE_CANCEL_URL"`
}

// Environment returns the normalized Stripe environment (test/live).
func (s StripeConfig) Environment() string {
	env := strings.TrimSpace(strings.ToLower(s.Env))
	if env == "" {
		return "test"
	}
	return env
}

// BundleConfigured reports whether the shard bundle catalog entry is usable.
func (s StripeConfig) BundleConfigured() bool {
	return s.BundlePriceCents > 0 && s.BundleShards > 0 && s.SuccessURL != "" && s.CancelURL != ""
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
