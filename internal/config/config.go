package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const defaultShutdownTimeout = 5 * time.Second

// Config is the top-level application configuration.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Routes   RoutesConfig   `koanf:"routes"`
	Database DatabaseConfig `koanf:"database"`
	Log      LogConfig      `koanf:"log"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string `koanf:"host"`
	Port            int    `koanf:"port"`
	Mode            string `koanf:"mode"`
	ShutdownTimeout string `koanf:"shutdown_timeout"`
}

// RoutesConfig controls service discovery and route registration.
type RoutesConfig struct {
	// Dir is the services directory scanned for manifests. Empty disables
	// discovery.
	Dir string `koanf:"dir"`
	// Prefix is prepended verbatim to every registered path.
	Prefix string `koanf:"prefix"`
	// Fallback installs the invalid-call handler for unmatched requests.
	// nil means enabled.
	Fallback *bool `koanf:"fallback"`
}

// FallbackEnabled reports whether the fallback handler should be installed.
func (r RoutesConfig) FallbackEnabled() bool {
	return r.Fallback == nil || *r.Fallback
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	Driver   string         `koanf:"driver"`
	SQLite   SQLiteConfig   `koanf:"sqlite"`
	Postgres PostgresConfig `koanf:"postgres"`
	Pool     PoolConfig     `koanf:"pool"`
}

// SQLiteConfig holds SQLite-specific settings.
type SQLiteConfig struct {
	Path string `koanf:"path"`
}

// PostgresConfig holds PostgreSQL-specific settings.
type PostgresConfig struct {
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	User     string `koanf:"user"`
	Password string `koanf:"password"`
	DBName   string `koanf:"dbname"`
	SSLMode  string `koanf:"sslmode"`
}

// PoolConfig holds database connection pool settings.
type PoolConfig struct {
	MaxIdleConns    int    `koanf:"max_idle_conns"`
	MaxOpenConns    int    `koanf:"max_open_conns"`
	ConnMaxLifetime string `koanf:"conn_max_lifetime"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level           string `koanf:"level"`
	Format          string `koanf:"format"`
	Color           *bool  `koanf:"color"`
	FilePath        string `koanf:"file_path"`
	MaxSizeMB       int    `koanf:"max_size_mb"`
	RetentionDays   int    `koanf:"retention_days"`
	MaxBackups      int    `koanf:"max_backups"`
	CompressRotated *bool  `koanf:"compress_rotated"`
}

// Load reads configuration from a YAML file and overlays environment variables.
// Environment variables use the prefix "APP__" and double-underscore as the
// hierarchy separator. Single underscores are preserved as part of the key name.
// For example, APP__SERVER__PORT=9090 overrides server.port and
// APP__ROUTES__PREFIX=/api overrides routes.prefix.
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
	}

	// APP__DATABASE__POOL__MAX_IDLE_CONNS -> database.pool.max_idle_conns
	if err := k.Load(env.Provider("APP__", ".", func(s string) string {
		key := strings.TrimPrefix(s, "APP__")
		key = strings.ToLower(key)
		key = strings.ReplaceAll(key, "__", ".")
		return key
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks cross-field constraints and supported values.
func (c *Config) Validate() error {
	mode := strings.TrimSpace(c.Server.Mode)
	switch mode {
	case gin.DebugMode, gin.ReleaseMode, gin.TestMode:
		c.Server.Mode = mode
	default:
		return fmt.Errorf("invalid server.mode %q: must be one of %q, %q, %q", c.Server.Mode, gin.DebugMode, gin.ReleaseMode, gin.TestMode)
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port %d: must be between 1 and 65535", c.Server.Port)
	}

	host := strings.TrimSpace(c.Server.Host)
	if host == "" {
		return fmt.Errorf("server.host is required")
	}
	c.Server.Host = host

	c.Server.ShutdownTimeout = strings.TrimSpace(c.Server.ShutdownTimeout)
	if err := validateOptionalDuration("server.shutdown_timeout", c.Server.ShutdownTimeout); err != nil {
		return err
	}

	if err := c.Routes.validate(); err != nil {
		return err
	}

	if err := c.Database.validate(c.Server.Mode); err != nil {
		return err
	}

	level := strings.ToLower(strings.TrimSpace(c.Log.Level))
	switch level {
	case "debug", "info", "warn", "error":
		c.Log.Level = level
	default:
		return fmt.Errorf("invalid log.level %q: must be one of %q, %q, %q, %q", c.Log.Level, "debug", "info", "warn", "error")
	}

	format := strings.ToLower(strings.TrimSpace(c.Log.Format))
	switch format {
	case "text", "json":
		c.Log.Format = format
	default:
		return fmt.Errorf("invalid log.format %q: must be one of %q, %q", c.Log.Format, "text", "json")
	}

	return nil
}

func (r *RoutesConfig) validate() error {
	r.Dir = strings.TrimSpace(r.Dir)

	// The prefix is concatenated with manifest paths as-is, so it has to be
	// either empty or a rooted path without a trailing slash.
	prefix := strings.TrimSpace(r.Prefix)
	if prefix != "" {
		if !strings.HasPrefix(prefix, "/") {
			return fmt.Errorf("invalid routes.prefix %q: must start with '/'", r.Prefix)
		}
		if strings.HasSuffix(prefix, "/") {
			return fmt.Errorf("invalid routes.prefix %q: must not end with '/'", r.Prefix)
		}
	}
	r.Prefix = prefix
	return nil
}

func (d *DatabaseConfig) validate(mode string) error {
	switch d.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("invalid database.driver %q: must be one of %q, %q", d.Driver, "sqlite", "postgres")
	}

	if d.Driver == "sqlite" {
		sqlitePath := strings.TrimSpace(d.SQLite.Path)
		if sqlitePath == "" {
			return fmt.Errorf("database.sqlite.path is required when driver is sqlite")
		}
		d.SQLite.Path = sqlitePath
	}

	if d.Driver == "postgres" {
		pg := &d.Postgres
		pg.Host = strings.TrimSpace(pg.Host)
		pg.User = strings.TrimSpace(pg.User)
		pg.DBName = strings.TrimSpace(pg.DBName)
		pg.SSLMode = strings.TrimSpace(pg.SSLMode)

		if pg.Host == "" {
			return fmt.Errorf("database.postgres.host is required when driver is postgres")
		}
		if pg.Port < 1 || pg.Port > 65535 {
			return fmt.Errorf("invalid database.postgres.port %d: must be between 1 and 65535", pg.Port)
		}
		if pg.User == "" {
			return fmt.Errorf("database.postgres.user is required when driver is postgres")
		}
		if pg.DBName == "" {
			return fmt.Errorf("database.postgres.dbname is required when driver is postgres")
		}
		switch pg.SSLMode {
		case "disable", "allow", "prefer", "require", "verify-ca", "verify-full":
		default:
			return fmt.Errorf("invalid database.postgres.sslmode %q: must be one of %q, %q, %q, %q, %q, %q", pg.SSLMode, "disable", "allow", "prefer", "require", "verify-ca", "verify-full")
		}
		if mode == gin.ReleaseMode {
			switch pg.SSLMode {
			case "require", "verify-ca", "verify-full":
			default:
				return fmt.Errorf("invalid database.postgres.sslmode %q for server.mode %q: must be one of %q, %q, %q", pg.SSLMode, gin.ReleaseMode, "require", "verify-ca", "verify-full")
			}
		}
	}

	d.Pool.ConnMaxLifetime = strings.TrimSpace(d.Pool.ConnMaxLifetime)
	return validateOptionalDuration("database.pool.conn_max_lifetime", d.Pool.ConnMaxLifetime)
}

// validateOptionalDuration accepts an empty value or a positive Go duration.
func validateOptionalDuration(name, value string) error {
	if value == "" {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", name, value, err)
	}
	if d <= 0 {
		return fmt.Errorf("invalid %s %q: must be greater than 0", name, value)
	}
	return nil
}

// ShutdownTimeoutDuration returns the graceful shutdown deadline, 5s when unset.
func (s ServerConfig) ShutdownTimeoutDuration() time.Duration {
	if s.ShutdownTimeout == "" {
		return defaultShutdownTimeout
	}
	d, err := time.ParseDuration(s.ShutdownTimeout)
	if err != nil || d <= 0 {
		return defaultShutdownTimeout
	}
	return d
}
