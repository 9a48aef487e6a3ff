package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Auth      AuthConfig
	Frontend  FrontendConfig
	Logging   LoggingConfig
	RateLimit RateLimitConfig
	Seed      SeedConfig
	Tracing   TracingConfig
	Admin     AdminConfig
}

type ServerConfig struct {
	Port                string `envconfig:"SERVER_PORT" default:"8080"`
	Environment         string `envconfig:"ENVIRONMENT" default:"development"`
	ReadTimeoutSeconds  int    `envconfig:"SERVER_READ_TIMEOUT_SECONDS" default:"15"`
	WriteTimeoutSeconds int    `envconfig:"SERVER_WRITE_TIMEOUT_SECONDS" default:"15"`
	IdleTimeoutSeconds  int    `envconfig:"SERVER_IDLE_TIMEOUT_SECONDS" default:"60"`
}

func (s ServerConfig) ReadTimeout() time.Duration {
	return time.Duration(s.ReadTimeoutSeconds) * time.Second
}

func (s ServerConfig) WriteTimeout() time.Duration {
	return time.Duration(s.WriteTimeoutSeconds) * time.Second
}

func (s ServerConfig) IdleTimeout() time.Duration {
	return time.Duration(s.IdleTimeoutSeconds) * time.Second
}

func (s ServerConfig) IsProduction() bool {
	return s.Environment == "production"
}

type DatabaseConfig struct {
	// URL takes precedence over the discrete host/port/user fields when set.
	URL                    string `envconfig:"DB_CONNECTION_STRING"`
	Host                   string `envconfig:"DB_HOST" default:"localhost"`
	Port                   string `envconfig:"DB_PORT" default:"5432"`
	User                   string `envconfig:"DB_USER" default:"postgres"`
	Password               string `envconfig:"DB_PASSWORD" default:"postgres"`
	Name                   string `envconfig:"DB_NAME" default:"starwars"`
	SSLMode                string `envconfig:"DB_SSLMODE" default:"disable"`
	MaxOpenConns           int    `envconfig:"DB_MAX_OPEN_CONNS" default:"25"`
	MaxIdleConns           int    `envconfig:"DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetimeMinutes int    `envconfig:"DB_CONN_MAX_LIFETIME_MINUTES" default:"5"`
}

func (d DatabaseConfig) ConnMaxLifetime() time.Duration {
	return time.Duration(d.ConnMaxLifetimeMinutes) * time.Minute
}

type RedisConfig struct {
	Enabled  bool   `envconfig:"REDIS_ENABLED" default:"false"`
	URL      string `envconfig:"REDIS_URL"`
	Host     string `envconfig:"REDIS_HOST" default:"localhost"`
	Port     string `envconfig:"REDIS_PORT" default:"6379"`
	Password string `envconfig:"REDIS_PASSWORD"`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

type AuthConfig struct {
	JWTSecret            string `envconfig:"JWT_SECRET"`
	TokenExpirationHours int    `envconfig:"JWT_EXPIRATION_HOURS" default:"24"`
	CookieSameSite       string `envconfig:"COOKIE_SAME_SITE" default:"lax"`
	// CookieSecure is derived from the environment, not read directly.
	CookieSecure bool `ignored:"true"`
}

func (a AuthConfig) TokenExpiration() time.Duration {
	return time.Duration(a.TokenExpirationHours) * time.Hour
}

type FrontendConfig struct {
	URL       string `envconfig:"FRONTEND_URL" default:"http://localhost:3000"`
	CORSDebug bool   `envconfig:"CORS_DEBUG" default:"false"`
}

type LoggingConfig struct {
	Level  string `envconfig:"LOG_LEVEL" default:"debug"`
	Format string `envconfig:"LOG_FORMAT"`
	// JSONFormat is resolved from Format and the environment.
	JSONFormat bool `ignored:"true"`
}

type RateLimitConfig struct {
	Enabled           bool    `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
	RequestsPerSecond float64 `envconfig:"RATE_LIMIT_REQUESTS_PER_SECOND" default:"10"`
	BurstSize         int     `envconfig:"RATE_LIMIT_BURST_SIZE" default:"20"`
	TrustProxy        bool    `envconfig:"RATE_LIMIT_TRUST_PROXY" default:"false"`
}

type SeedConfig struct {
	BaseURL        string `envconfig:"SEED_BASE_URL" default:"https://www.swapi.tech/api"`
	PageLimit      int    `envconfig:"SEED_PAGE_LIMIT" default:"20"`
	TimeoutSeconds int    `envconfig:"SEED_TIMEOUT_SECONDS" default:"30"`
}

func (s SeedConfig) Timeout() time.Duration {
	return time.Duration(s.TimeoutSeconds) * time.Second
}

// ImportDeadline bounds one import: the listing plus one detail request per
// item, each limited by Timeout.
func (s SeedConfig) ImportDeadline() time.Duration {
	return time.Duration(s.PageLimit+1) * s.Timeout()
}

type TracingConfig struct {
	Enabled     bool   `envconfig:"OTEL_ENABLED" default:"false"`
	Endpoint    string `envconfig:"OTEL_EXPORTER_OTLP_ENDPOINT" default:"localhost:4317"`
	ServiceName string `envconfig:"OTEL_SERVICE_NAME" default:"starwars-api"`
}

type AdminConfig struct {
	Email    string `envconfig:"ADMIN_EMAIL"`
	Password string `envconfig:"ADMIN_PASSWORD"`
}

func (a AdminConfig) Configured() bool {
	return a.Email != "" && a.Password != ""
}

var GlobalConfig *Config

func Init() error {
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found, using system environment variables")
	}

	config, err := Load()
	if err != nil {
		return err
	}

	GlobalConfig = config
	return nil
}

// Load reads and validates the configuration from the process environment
// without touching GlobalConfig.
func Load() (*Config, error) {
	config, err := load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

func load() (*Config, error) {
	config := &Config{}

	sections := []struct {
		name   string
		target interface{}
	}{
		{"server", &config.Server},
		{"database", &config.Database},
		{"redis", &config.Redis},
		{"auth", &config.Auth},
		{"frontend", &config.Frontend},
		{"logging", &config.Logging},
		{"rate_limit", &config.RateLimit},
		{"seed", &config.Seed},
		{"tracing", &config.Tracing},
		{"admin", &config.Admin},
	}

	for _, section := range sections {
		if err := envconfig.Process("", section.target); err != nil {
			return nil, fmt.Errorf("%s section: %w", section.name, err)
		}
	}

	config.Auth.CookieSecure = config.Server.IsProduction()

	switch config.Logging.Format {
	case "json":
		config.Logging.JSONFormat = true
	case "text":
		config.Logging.JSONFormat = false
	default:
		config.Logging.JSONFormat = config.Server.IsProduction()
	}

	return config, nil
}

func (c *Config) validate() error {
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}

	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 characters long")
	}

	if c.Auth.TokenExpirationHours <= 0 {
		return fmt.Errorf("JWT_EXPIRATION_HOURS must be positive")
	}

	if c.Server.Port == "" {
		return fmt.Errorf("SERVER_PORT is required")
	}

	if c.Database.URL == "" {
		if c.Database.Host == "" {
			return fmt.Errorf("DB_HOST is required")
		}
		if c.Database.Name == "" {
			return fmt.Errorf("DB_NAME is required")
		}
	}

	if c.RateLimit.Enabled && (c.RateLimit.RequestsPerSecond <= 0 || c.RateLimit.BurstSize <= 0) {
		return fmt.Errorf("rate limit values must be positive when RATE_LIMIT_ENABLED is true")
	}

	if c.Seed.PageLimit <= 0 {
		return fmt.Errorf("SEED_PAGE_LIMIT must be positive")
	}

	return nil
}

func (c *Config) ConnectionString() string {
	if c.Database.URL != "" {
		return c.Database.URL
	}

	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// LogValue keeps secrets out of startup logs.
func (c *Config) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("environment", c.Server.Environment),
		slog.String("port", c.Server.Port),
		slog.String("db_host", c.Database.Host),
		slog.String("db_name", c.Database.Name),
		slog.Bool("db_url_set", c.Database.URL != ""),
		slog.Bool("redis_enabled", c.Redis.Enabled),
		slog.Bool("rate_limit_enabled", c.RateLimit.Enabled),
		slog.Bool("tracing_enabled", c.Tracing.Enabled),
		slog.String("seed_base_url", c.Seed.BaseURL),
	)
}
