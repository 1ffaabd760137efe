package config

import (
	"fmt"
	"time"
)

// Default configuration values.
const (
	defaultServiceName  = "engagement-tracker"
	defaultServicePort  = 5000
	defaultVersion      = "0.1.0"
	defaultLoggingLevel = "info"
	defaultLoggingFmt   = "json"
	defaultDBHost       = "localhost"
	defaultDBPort       = 5432
	defaultDBName       = "engagement_tracker"
	defaultDBUser       = "postgres"
	defaultDBSSLMode    = "disable"

	// defaultFallbackURL is where visitors land when no target can be resolved.
	defaultFallbackURL = "https://x.com"

	defaultMaxVisitsPerMinute = 30
	defaultWindowSeconds      = 60
)

// Config holds the application configuration.
type Config struct {
	Service   ServiceConfig   `yaml:"service"`
	Database  DatabaseConfig  `yaml:"database"`
	Tracking  TrackingConfig  `yaml:"tracking"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// ServiceConfig holds service-level configuration.
type ServiceConfig struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
	Port    int    `env:"PORT"      yaml:"port"`
	Debug   bool   `env:"APP_DEBUG" yaml:"debug"`
}

// DatabaseConfig holds PostgreSQL database configuration.
// If URL is set it takes precedence over the individual fields.
type DatabaseConfig struct {
	URL      string `env:"DATABASE_URL"      yaml:"url"`
	Host     string `env:"POSTGRES_HOST"     yaml:"host"`
	Port     int    `env:"POSTGRES_PORT"     yaml:"port"`
	User     string `env:"POSTGRES_USER"     yaml:"user"`
	Password string `env:"POSTGRES_PASSWORD" yaml:"password"`
	Database string `env:"POSTGRES_DB"       yaml:"database"`
	SSLMode  string `env:"POSTGRES_SSLMODE"  yaml:"sslmode"`
}

// DSN returns the PostgreSQL connection string.
func (d *DatabaseConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Database, d.SSLMode,
	)
}

// MigrateURL returns a postgres:// URL for golang-migrate.
func (d *DatabaseConfig) MigrateURL() string {
	if d.URL != "" {
		return d.URL
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Database, d.SSLMode,
	)
}

// TrackingConfig holds click attribution configuration.
type TrackingConfig struct {
	// FallbackURL is the redirect destination used when a visit carries no
	// explicit target and the link cache has nothing for the post.
	FallbackURL string `env:"FALLBACK_URL" yaml:"fallback_url"`
}

// RateLimitConfig holds rate limiting configuration for the visit endpoint.
type RateLimitConfig struct {
	MaxVisitsPerMinute int `yaml:"max_visits_per_minute"`
	WindowSeconds      int `yaml:"window_seconds"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `env:"LOG_LEVEL"  yaml:"level"`
	Format string `env:"LOG_FORMAT" yaml:"format"`
}

// Load loads configuration from the specified path.
func Load(path string) (*Config, error) {
	return loadWithDefaults[Config](path, setDefaults)
}

// setDefaults applies default values to the config.
func setDefaults(cfg *Config) {
	setServiceDefaults(&cfg.Service)
	setDatabaseDefaults(&cfg.Database)
	setTrackingDefaults(&cfg.Tracking)
	setRateLimitDefaults(&cfg.RateLimit)
	setLoggingDefaults(&cfg.Logging)
}

// setServiceDefaults applies default values to ServiceConfig.
func setServiceDefaults(svc *ServiceConfig) {
	if svc.Name == "" {
		svc.Name = defaultServiceName
	}
	if svc.Version == "" {
		svc.Version = defaultVersion
	}
	if svc.Port == 0 {
		svc.Port = defaultServicePort
	}
}

// setDatabaseDefaults applies default values to DatabaseConfig.
func setDatabaseDefaults(db *DatabaseConfig) {
	if db.Host == "" {
		db.Host = defaultDBHost
	}
	if db.Port == 0 {
		db.Port = defaultDBPort
	}
	if db.User == "" {
		db.User = defaultDBUser
	}
	if db.Database == "" {
		db.Database = defaultDBName
	}
	if db.SSLMode == "" {
		db.SSLMode = defaultDBSSLMode
	}
}

// setTrackingDefaults applies default values to TrackingConfig.
func setTrackingDefaults(tr *TrackingConfig) {
	if tr.FallbackURL == "" {
		tr.FallbackURL = defaultFallbackURL
	}
}

// setRateLimitDefaults applies default values to RateLimitConfig.
func setRateLimitDefaults(rl *RateLimitConfig) {
	if rl.MaxVisitsPerMinute == 0 {
		rl.MaxVisitsPerMinute = defaultMaxVisitsPerMinute
	}
	if rl.WindowSeconds == 0 {
		rl.WindowSeconds = defaultWindowSeconds
	}
}

// setLoggingDefaults applies default values to LoggingConfig.
func setLoggingDefaults(log *LoggingConfig) {
	if log.Level == "" {
		log.Level = defaultLoggingLevel
	}
	if log.Format == "" {
		log.Format = defaultLoggingFmt
	}
}

// RateLimitWindow returns the rate limit window as a duration.
func (c *Config) RateLimitWindow() time.Duration {
	return time.Duration(c.RateLimit.WindowSeconds) * time.Second
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := validatePort("service.port", c.Service.Port); err != nil {
		return err
	}
	if c.Tracking.FallbackURL == "" {
		return &ValidationError{
			Field:   "tracking.fallback_url",
			Message: "is required",
		}
	}
	if c.Database.URL == "" && c.Database.Database == "" {
		return &ValidationError{
			Field:   "database.database",
			Message: "is required",
		}
	}
	return nil
}
