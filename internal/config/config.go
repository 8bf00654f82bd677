// Package config manages environment variables.
//
// It reads variables from the process environment (and a `.env` file when
// present), loads them into structured Go types and validates that required
// values are present so they can be reused across the application runtime.
//
// Responsibilities:
//   - Load environment variables (optionally from a `.env` file).
//   - Map env vars into a structured Go config (structs).
//   - Validate required values so the app fails fast on bad/missing config.
//   - Provide defaults for optional blocks (observability, uploads, limits).
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	// Side-effect import: if a `.env` file exists it is loaded into the
	// process env before any value is read.
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
	"github.com/rs/zerolog"
)

/*
	Env vars are read using the ROBOSPHERE_ prefix. After the prefix is
	trimmed the key is lowercased and "." is used as the nesting delimiter:

	  ROBOSPHERE_SERVER.PORT      -> server.port      -> Config.Server.Port
	  ROBOSPHERE_AUTH.SECRET_KEY  -> auth.secret_key  -> Config.Auth.SecretKey
*/

// EnvPrefix is the prefix every configuration variable must carry.
const EnvPrefix = "ROBOSPHERE_"

// ServiceName is used to tag logs and APM data.
const ServiceName = "robosphere"

// Config is the root configuration object for the application.
//
// Blocks marked `validate:"required"` must be present. Pointer blocks are
// optional and receive defaults in applyDefaults.
type Config struct {
	Primary       Primary              `koanf:"primary" validate:"required"`
	Server        ServerConfig         `koanf:"server" validate:"required"`
	Database      DatabaseConfig       `koanf:"database" validate:"required"`
	Mongo         MongoConfig          `koanf:"mongo" validate:"required"`
	Redis         RedisConfig          `koanf:"redis" validate:"required"`
	Auth          AuthConfig           `koanf:"auth" validate:"required"`
	Integration   IntegrationConfig    `koanf:"integration"`
	Upload        *UploadConfig        `koanf:"upload"`
	RateLimit     *RateLimitConfig     `koanf:"rate_limit"`
	Cache         *CacheConfig         `koanf:"cache"`
	Observability *ObservabilityConfig `koanf:"observability"`
}

// Primary holds top-level information about the runtime environment.
type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

// ServerConfig groups settings for the HTTP server runtime.
// Timeouts are expressed in seconds.
type ServerConfig struct {
	Port               string   `koanf:"port" validate:"required"`
	ReadTimeout        int      `koanf:"read_timeout" validate:"required"`
	WriteTimeout       int      `koanf:"write_timeout" validate:"required"`
	IdleTimeout        int      `koanf:"idle_timeout" validate:"required"`
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins" validate:"required"`
}

// DatabaseConfig contains PostgreSQL connection parameters and pool tuning.
type DatabaseConfig struct {
	Host            string `koanf:"host" validate:"required"`
	Port            int    `koanf:"port" validate:"required"`
	User            string `koanf:"user" validate:"required"`
	Password        string `koanf:"password" validate:"required"`
	Name            string `koanf:"name" validate:"required"`
	SSLMode         string `koanf:"ssl_mode" validate:"required"`
	MaxOpenConns    int    `koanf:"max_open_conns" validate:"required"`
	MaxIdleConns    int    `koanf:"max_idle_conns" validate:"required"`
	ConnMaxLifetime int    `koanf:"conn_max_lifetime" validate:"required"`
	ConnMaxIdleTime int    `koanf:"conn_max_idle_time" validate:"required"`
}

// MongoConfig points at the document store used for chat conversations.
type MongoConfig struct {
	URI      string `koanf:"uri" validate:"required"`
	Database string `koanf:"database" validate:"required"`
}

// RedisConfig contains Redis connection details ("host:port").
type RedisConfig struct {
	Address string `koanf:"address" validate:"required"`
}

// AuthConfig stores the JWT signing secret and token settings.
//
// TokenTTL accepts Go duration strings ("24h", "90m"); zero means 24h.
type AuthConfig struct {
	SecretKey string        `koanf:"secret_key" validate:"required,min=16"`
	TokenTTL  time.Duration `koanf:"token_ttl"`
	Issuer    string        `koanf:"issuer"`
}

// IntegrationConfig holds API keys for third-party providers.
// Every key is optional; features backed by a missing key degrade.
type IntegrationConfig struct {
	ResendAPIKey string `koanf:"resend_api_key"`
	EmailFrom    string `koanf:"email_from"`
	GeminiAPIKey string `koanf:"gemini_api_key"`
	GeminiModel  string `koanf:"gemini_model"`
}

// UploadConfig controls where uploaded files live and how images are processed.
type UploadConfig struct {
	Dir            string  `koanf:"dir"`
	PublicPath     string  `koanf:"public_path"`
	MaxBytes       int64   `koanf:"max_bytes" validate:"gte=0"`
	ImageMaxWidth  int     `koanf:"image_max_width" validate:"gte=0"`
	ImageMaxHeight int     `koanf:"image_max_height" validate:"gte=0"`
	ImageMaxPixels int     `koanf:"image_max_pixels" validate:"gte=0"`
	WebPQuality    float32 `koanf:"webp_quality" validate:"gte=0,lte=100"`
}

// RateLimitConfig configures the Redis sliding-window limiter.
type RateLimitConfig struct {
	Enabled  bool          `koanf:"enabled"`
	Requests int           `koanf:"requests" validate:"gte=0"`
	Window   time.Duration `koanf:"window"`
}

// CacheConfig configures the Redis response cache for public list endpoints.
type CacheConfig struct {
	Enabled bool          `koanf:"enabled"`
	TTL     time.Duration `koanf:"ttl"`
}

// LoadConfig loads configuration from environment variables, validates it,
// applies defaults and returns the resulting config.
//
// Invalid configuration is fatal: the process exits with a logged reason.
func LoadConfig() (*Config, error) {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	cfg, err := load(EnvPrefix)
	if err != nil {
		logger.Fatal().Err(err).Msg("could not load config")
	}

	return cfg, nil
}

// load does the actual work of LoadConfig and returns errors instead of
// exiting, so tests can exercise it.
func load(prefix string) (*Config, error) {
	k := koanf.New(".")

	err := k.Load(env.Provider(prefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, prefix))
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("loading env variables: %w", err)
	}

	mainConfig := &Config{}
	if err := k.Unmarshal("", mainConfig); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	mainConfig.applyDefaults()

	validate := validator.New()
	if err := validate.Struct(mainConfig); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	if err := mainConfig.Observability.Validate(); err != nil {
		return nil, fmt.Errorf("invalid observability config: %w", err)
	}

	return mainConfig, nil
}

// applyDefaults fills optional blocks and zero values.
func (c *Config) applyDefaults() {
	if c.Observability == nil {
		c.Observability = DefaultObservabilityConfig()
	}
	c.Observability.ServiceName = ServiceName
	c.Observability.Environment = c.Primary.Env

	if c.Auth.TokenTTL <= 0 {
		c.Auth.TokenTTL = 24 * time.Hour
	}
	if c.Auth.Issuer == "" {
		c.Auth.Issuer = ServiceName
	}

	if c.Integration.GeminiModel == "" {
		c.Integration.GeminiModel = "gemini-2.0-flash"
	}
	if c.Integration.EmailFrom == "" {
		c.Integration.EmailFrom = "Robosphere <onboarding@resend.dev>"
	}

	if c.Upload == nil {
		c.Upload = &UploadConfig{}
	}
	if c.Upload.Dir == "" {
		c.Upload.Dir = "uploads"
	}
	if c.Upload.PublicPath == "" {
		c.Upload.PublicPath = "/uploads"
	}
	if c.Upload.MaxBytes == 0 {
		c.Upload.MaxBytes = 10 << 20
	}
	if c.Upload.ImageMaxWidth == 0 {
		c.Upload.ImageMaxWidth = 1600
	}
	if c.Upload.ImageMaxHeight == 0 {
		c.Upload.ImageMaxHeight = 1600
	}
	if c.Upload.ImageMaxPixels == 0 {
		c.Upload.ImageMaxPixels = 40_000_000
	}
	if c.Upload.WebPQuality == 0 {
		c.Upload.WebPQuality = 80
	}

	if c.RateLimit == nil {
		c.RateLimit = &RateLimitConfig{Enabled: true}
	}
	if c.RateLimit.Requests == 0 {
		c.RateLimit.Requests = 30
	}
	if c.RateLimit.Window <= 0 {
		c.RateLimit.Window = time.Minute
	}

	if c.Cache == nil {
		c.Cache = &CacheConfig{Enabled: true}
	}
	if c.Cache.TTL <= 0 {
		c.Cache.TTL = 2 * time.Minute
	}
}

// IsLocal reports whether the app runs on a developer machine.
func (c *Config) IsLocal() bool {
	return c.Primary.Env == "local"
}
