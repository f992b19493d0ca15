package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// SetupDatabase opens the GORM connection described by cfg ("sqlite" or
// "postgres") and applies the pool settings. SQL statements are logged by
// GORM only when logger has debug enabled.
func SetupDatabase(cfg *DatabaseConfig, logger *slog.Logger) (*gorm.DB, error) {
	if cfg == nil {
		return nil, errors.New("database config is nil")
	}
	if logger == nil {
		return nil, errors.New("logger is nil")
	}

	dialector, err := openDialector(cfg)
	if err != nil {
		return nil, err
	}

	logMode := gormlogger.Warn
	if logger.Enabled(context.Background(), slog.LevelDebug) {
		logMode = gormlogger.Info
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(logMode),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := configurePool(db, &cfg.Pool); err != nil {
		_ = CloseDatabase(db)
		return nil, err
	}

	logger.Info("database connected",
		slog.String("driver", cfg.Driver),
		slog.Int("max_idle_conns", effectiveMaxIdleConns(cfg.Pool.MaxIdleConns)),
		slog.Int("max_open_conns", effectiveMaxOpenConns(cfg.Pool.MaxOpenConns)),
		slog.String("conn_max_lifetime", effectiveConnMaxLifetime(cfg.Pool.ConnMaxLifetime)),
	)

	return db, nil
}

// CloseDatabase closes the connection pool behind db. A nil db is a no-op.
func CloseDatabase(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func openDialector(cfg *DatabaseConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case "sqlite":
		dir := filepath.Dir(cfg.SQLite.Path)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create sqlite directory %q: %w", dir, err)
			}
		}
		return sqlite.Open(cfg.SQLite.Path), nil
	case "postgres":
		return postgres.Open(buildPostgresDSN(&cfg.Postgres)), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.Driver)
	}
}

// configurePool sets connection pool parameters on the underlying sql.DB.
// Zero/empty values are replaced with defaults.
func configurePool(db *gorm.DB, pool *PoolConfig) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	lifetime, err := time.ParseDuration(effectiveConnMaxLifetime(pool.ConnMaxLifetime))
	if err != nil {
		return fmt.Errorf("invalid pool.conn_max_lifetime %q: %w", pool.ConnMaxLifetime, err)
	}
	if lifetime <= 0 {
		return fmt.Errorf("invalid pool.conn_max_lifetime %q: must be greater than 0", pool.ConnMaxLifetime)
	}

	sqlDB.SetMaxIdleConns(effectiveMaxIdleConns(pool.MaxIdleConns))
	sqlDB.SetMaxOpenConns(effectiveMaxOpenConns(pool.MaxOpenConns))
	sqlDB.SetConnMaxLifetime(lifetime)
	return nil
}

func effectiveMaxIdleConns(v int) int {
	if v <= 0 {
		return 10
	}
	return v
}

func effectiveMaxOpenConns(v int) int {
	if v <= 0 {
		return 100
	}
	return v
}

func effectiveConnMaxLifetime(v string) string {
	if v = strings.TrimSpace(v); v == "" {
		return "1h"
	}
	return v
}

func buildPostgresDSN(cfg *PostgresConfig) string {
	if cfg == nil {
		return ""
	}

	u := &url.URL{
		Scheme: "postgres",
		Host:   net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		Path:   cfg.DBName,
	}
	if cfg.User != "" || cfg.Password != "" {
		u.User = url.UserPassword(cfg.User, cfg.Password)
	}

	query := url.Values{}
	if cfg.SSLMode != "" {
		query.Set("sslmode", cfg.SSLMode)
	}
	u.RawQuery = query.Encode()

	return u.String()
}
