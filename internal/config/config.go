// Package config assembles the process configuration into a single immutable
// value. Values are read once at startup: an optional YAML file named by
// CONFIG_FILE is applied first, then environment variables override it.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	envcfg "postboard/pkg/config"
)

const (
	// DefaultTokenTTL is the lifetime of issued bearer tokens.
	DefaultTokenTTL = 24 * time.Hour

	// MinJWTSecretLength is the minimum secret length (256 bits).
	MinJWTSecretLength = 32
)

// Config is the complete process configuration.
type Config struct {
	HTTPAddr    string        `yaml:"http_addr"`
	DatabaseURL string        `yaml:"database_url"`
	JWTSecret   string        `yaml:"jwt_secret"`
	TokenTTL    time.Duration `yaml:"token_ttl"`
	BcryptCost  int           `yaml:"bcrypt_cost"`
	MinPassword int           `yaml:"min_password_length"`
	LogLevel    string        `yaml:"log_level"`
	Version     string        `yaml:"version"`

	AuthRateLimit  int      `yaml:"auth_rate_limit_per_minute"`
	AuthRateBurst  int      `yaml:"auth_rate_burst"`
	TrustedProxies []string `yaml:"trusted_proxies"`

	CORSAllowedOrigins []string `yaml:"cors_allowed_origins"`

	RequestTimeout  time.Duration `yaml:"request_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// TraceSampleRatio is the share of new root traces that are sampled.
	TraceSampleRatio float64       `yaml:"trace_sample_ratio"`
	StatsInterval    time.Duration `yaml:"stats_refresh_interval"`

	ObjectStore ObjectStoreConfig `yaml:"object_store"`
}

// ObjectStoreConfig configures the image hosting backend.
type ObjectStoreConfig struct {
	// Driver is "s3" or "memory".
	Driver        string `yaml:"driver"`
	Bucket        string `yaml:"bucket"`
	Region        string `yaml:"region"`
	Endpoint      string `yaml:"endpoint"`
	AccessKey     string `yaml:"access_key"`
	SecretKey     string `yaml:"secret_key"`
	UsePathStyle  bool   `yaml:"use_path_style"`
	PublicBaseURL string `yaml:"public_base_url"`
	Folder        string `yaml:"folder"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		HTTPAddr:      ":8080",
		TokenTTL:      DefaultTokenTTL,
		BcryptCost:    12,
		MinPassword:   1,
		LogLevel:      "info",
		Version:       "dev",
		AuthRateLimit: 10,
		AuthRateBurst: 5,

		RequestTimeout:  30 * time.Second,
		ShutdownTimeout: 10 * time.Second,

		TraceSampleRatio: 1,
		StatsInterval:    time.Minute,
		ObjectStore: ObjectStoreConfig{
			Driver: "s3",
			Region: "us-east-1",
			Folder: "articles",
		},
	}
}

// Load builds the configuration from CONFIG_FILE (if set) and the environment,
// then validates it.
func Load() (Config, error) {
	cfg := Default()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.applyFile(path); err != nil {
			return Config{}, err
		}
	}
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyFile(path string) error {
	// #nosec G304 -- path comes from the operator, not from request input
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func (c *Config) applyEnv() {
	if port := os.Getenv("PORT"); port != "" {
		c.HTTPAddr = ":" + strings.TrimPrefix(port, ":")
	}
	c.HTTPAddr = envcfg.GetEnvString("HTTP_ADDR", c.HTTPAddr)
	c.DatabaseURL = envcfg.GetEnvString("DATABASE_URL", c.DatabaseURL)
	c.JWTSecret = envcfg.GetEnvString("JWT_SECRET", c.JWTSecret)
	c.TokenTTL = envcfg.GetEnvDuration("TOKEN_TTL", c.TokenTTL)
	c.BcryptCost = envcfg.GetEnvInt("BCRYPT_COST", c.BcryptCost)
	c.MinPassword = envcfg.GetEnvInt("MIN_PASSWORD_LENGTH", c.MinPassword)
	c.LogLevel = envcfg.GetEnvString("LOG_LEVEL", c.LogLevel)
	c.Version = envcfg.GetEnvString("VERSION", c.Version)
	c.AuthRateLimit = envcfg.GetEnvInt("AUTH_RATE_LIMIT_PER_MINUTE", c.AuthRateLimit)
	c.AuthRateBurst = envcfg.GetEnvInt("AUTH_RATE_BURST", c.AuthRateBurst)
	if proxies := os.Getenv("RATE_LIMIT_TRUSTED_PROXIES"); proxies != "" {
		c.TrustedProxies = strings.Split(proxies, ",")
	}
	if origins := os.Getenv("CORS_ALLOWED_ORIGINS"); origins != "" {
		c.CORSAllowedOrigins = strings.Split(origins, ",")
	}
	c.RequestTimeout = envcfg.GetEnvDuration("REQUEST_TIMEOUT", c.RequestTimeout)
	c.ShutdownTimeout = envcfg.GetEnvDuration("SHUTDOWN_TIMEOUT", c.ShutdownTimeout)
	c.TraceSampleRatio = envcfg.GetEnvFloat("TRACE_SAMPLE_RATIO", c.TraceSampleRatio)
	c.StatsInterval = envcfg.GetEnvDuration("STATS_REFRESH_INTERVAL", c.StatsInterval)

	o := &c.ObjectStore
	o.Driver = envcfg.GetEnvString("OBJECT_STORE_DRIVER", o.Driver)
	o.Bucket = envcfg.GetEnvString("OBJECT_STORE_BUCKET", o.Bucket)
	o.Region = envcfg.GetEnvString("OBJECT_STORE_REGION", o.Region)
	o.Endpoint = envcfg.GetEnvString("OBJECT_STORE_ENDPOINT", o.Endpoint)
	o.AccessKey = envcfg.GetEnvString("OBJECT_STORE_ACCESS_KEY", o.AccessKey)
	o.SecretKey = envcfg.GetEnvString("OBJECT_STORE_SECRET_KEY", o.SecretKey)
	o.UsePathStyle = envcfg.GetEnvBool("OBJECT_STORE_PATH_STYLE", o.UsePathStyle)
	o.PublicBaseURL = envcfg.GetEnvString("OBJECT_STORE_PUBLIC_URL", o.PublicBaseURL)
	o.Folder = envcfg.GetEnvString("OBJECT_STORE_FOLDER", o.Folder)
}

// Validate rejects configurations the server must not start with. A missing
// signing secret is fatal; there is no built-in fallback.
func (c Config) Validate() error {
	if c.DatabaseURL == "" {
		return errors.New("DATABASE_URL must be set")
	}
	if err := ValidateJWTSecret(c.JWTSecret); err != nil {
		return err
	}
	if err := envcfg.ValidatePositiveDuration("token_ttl", c.TokenTTL); err != nil {
		return err
	}
	if c.BcryptCost < 4 || c.BcryptCost > 31 {
		return fmt.Errorf("bcrypt_cost must be between 4 and 31, got %d", c.BcryptCost)
	}
	if c.MinPassword < 1 {
		return errors.New("min_password_length must be at least 1")
	}
	if err := envcfg.ValidatePositiveDuration("request_timeout", c.RequestTimeout); err != nil {
		return err
	}
	if err := envcfg.ValidatePositiveDuration("shutdown_timeout", c.ShutdownTimeout); err != nil {
		return err
	}
	if err := envcfg.ValidatePositiveDuration("stats_refresh_interval", c.StatsInterval); err != nil {
		return err
	}
	if c.TraceSampleRatio < 0 || c.TraceSampleRatio > 1 {
		return fmt.Errorf("trace_sample_ratio must be between 0 and 1, got %v", c.TraceSampleRatio)
	}
	if c.AuthRateLimit <= 0 || c.AuthRateBurst <= 0 {
		return errors.New("auth rate limit and burst must be positive")
	}

	switch c.ObjectStore.Driver {
	case "memory":
	case "s3":
		if c.ObjectStore.Bucket == "" {
			return errors.New("OBJECT_STORE_BUCKET must be set for the s3 driver")
		}
	default:
		return fmt.Errorf("unknown object store driver %q", c.ObjectStore.Driver)
	}
	return nil
}

// ValidateJWTSecret enforces presence and minimum length of the signing secret.
func ValidateJWTSecret(secret string) error {
	if secret == "" {
		return errors.New("JWT_SECRET must be set")
	}
	if len(secret) < MinJWTSecretLength {
		return fmt.Errorf("JWT_SECRET must be at least %d characters", MinJWTSecretLength)
	}
	return nil
}
