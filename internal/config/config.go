package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

const devJWTSecret = "dev-secret-change-in-production"

var (
	ErrProductionSecret   = errors.New("JWT_SECRET must be set in production environment")
	ErrProductionTrust    = errors.New("FEDERATED_MODE=trust is not allowed in production environment")
	ErrUnknownStoreDriver = errors.New("STORE_DRIVER must be mongo, mysql or memory")
	ErrUnknownFederated   = errors.New("FEDERATED_MODE must be oidc or trust")
	ErrJWTExpiry          = errors.New("JWT_EXPIRY must be positive")
	ErrMissingClientID    = errors.New("FEDERATED_CLIENT_ID is required when FEDERATED_MODE=oidc in production environment")
	ErrProductionStorage  = errors.New("MINIO_ENDPOINT must be set in production environment")
	ErrProductionMemory   = errors.New("STORE_DRIVER=memory is not allowed in production environment")
)

// Config holds the API server configuration, read from the environment.
type Config struct {
	Port        string   `env:"PORT" envDefault:"5000"`
	Env         string   `env:"ENV" envDefault:"development"`
	LogLevel    string   `env:"LOG_LEVEL" envDefault:"info"`
	FrontendURL []string `env:"FRONTEND_URL" envDefault:"http://localhost:5173" envSeparator:","`
	TrustProxy  bool     `env:"TRUST_PROXY" envDefault:"false"`

	Store     StoreConfig     `envPrefix:"STORE_"`
	JWT       JWTConfig       `envPrefix:"JWT_"`
	Federated FederatedConfig `envPrefix:"FEDERATED_"`
	Minio     MinioConfig     `envPrefix:"MINIO_"`
	Redis     RedisConfig     `envPrefix:"REDIS_"`
	Throttle  ThrottleConfig  `envPrefix:"THROTTLE_"`
}

// StoreConfig selects and configures the persistence backend.
type StoreConfig struct {
	Driver   string `env:"DRIVER" envDefault:"mongo"`
	MongoURI string `env:"MONGO_URI" envDefault:"mongodb://127.0.0.1:27017"`
	MongoDB  string `env:"MONGO_DB" envDefault:"jobportal"`
	MySQLDSN string `env:"MYSQL_DSN" envDefault:"root:password@tcp(127.0.0.1:3306)/jobportal?parseTime=true"`
}

// JWTConfig configures session tokens.
type JWTConfig struct {
	Secret   string        `env:"SECRET" envDefault:"dev-secret-change-in-production"`
	Expiry   time.Duration `env:"EXPIRY" envDefault:"168h"`
	Issuer   string        `env:"ISSUER" envDefault:"jobportal"`
	Audience string        `env:"AUDIENCE" envDefault:"jobportal-api"`
}

// FederatedConfig selects how federated (Google) logins are trusted.
// Mode "oidc" verifies the ID token against Issuer/ClientID; "trust" accepts
// the caller's asserted name and email as-is. An unset Mode is "oidc" in
// production and "trust" elsewhere.
type FederatedConfig struct {
	Mode     string `env:"MODE"`
	Issuer   string `env:"ISSUER" envDefault:"https://accounts.google.com"`
	ClientID string `env:"CLIENT_ID"`
}

// MinioConfig is optional outside production; an empty Endpoint keeps
// resumes in process memory.
type MinioConfig struct {
	Endpoint  string `env:"ENDPOINT"`
	AccessKey string `env:"ACCESS_KEY"`
	SecretKey string `env:"SECRET_KEY"`
	Bucket    string `env:"BUCKET" envDefault:"resumes"`
	UseSSL    bool   `env:"USE_SSL" envDefault:"false"`
}

// RedisConfig is optional; an empty Addr keeps login throttling in process.
type RedisConfig struct {
	Addr     string `env:"ADDR"`
	Password string `env:"PASSWORD"`
	DB       int    `env:"DB" envDefault:"0"`
}

// ThrottleConfig limits failed logins per email.
type ThrottleConfig struct {
	MaxAttempts int           `env:"MAX_ATTEMPTS" envDefault:"5"`
	Window      time.Duration `env:"WINDOW" envDefault:"15m"`
}

// Load parses the environment into a Config and validates it.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	if cfg.Federated.Mode == "" {
		cfg.Federated.Mode = "trust"
		if cfg.IsProduction() {
			cfg.Federated.Mode = "oidc"
		}
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// IsProduction reports whether ENV is "production".
func (c Config) IsProduction() bool {
	return c.Env == "production"
}

// Validate checks enum values and refuses development settings in production.
func (c Config) Validate() error {
	switch c.Store.Driver {
	case "mongo", "mysql", "memory":
	default:
		return ErrUnknownStoreDriver
	}

	switch c.Federated.Mode {
	case "oidc", "trust":
	default:
		return ErrUnknownFederated
	}

	if c.JWT.Expiry <= 0 {
		return ErrJWTExpiry
	}

	if c.IsProduction() {
		if c.JWT.Secret == devJWTSecret {
			return ErrProductionSecret
		}
		if c.Federated.Mode == "trust" {
			return ErrProductionTrust
		}
		if c.Federated.ClientID == "" {
			return ErrMissingClientID
		}
		if c.Store.Driver == "memory" {
			return ErrProductionMemory
		}
		if c.Minio.Endpoint == "" {
			return ErrProductionStorage
		}
	}

	return nil
}
