// Package sqldb opens the relational store holding documents and text pieces.
package sqldb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Supported drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// ErrUnknownDriver is returned by Open for an unsupported driver name.
var ErrUnknownDriver = errors.New("unknown database driver")

// Config describes a relational store connection.
type Config struct {
	Driver       string
	DSN          string
	MaxOpenConns int
	QueryTimeout time.Duration
}

// Store wraps a *gorm.DB with a per-call timeout.
type Store struct {
	db           *gorm.DB
	queryTimeout time.Duration
}

// Open connects to the relational store.
func Open(cfg Config) (*Store, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case DriverPostgres:
		dialector = postgres.Open(cfg.DSN)
	case DriverSQLite:
		dialector = sqlite.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
	}

	gdb, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Discard,
	})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.Driver, err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("sql handle: %w", err)
	}
	maxOpen := cfg.MaxOpenConns
	if maxOpen <= 0 && cfg.Driver == DriverSQLite {
		// PRAGMA below is per connection; one connection also serializes writers.
		maxOpen = 1
	}
	if maxOpen > 0 {
		sqlDB.SetMaxOpenConns(maxOpen)
	}
	if cfg.Driver == DriverSQLite {
		if err := gdb.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
			return nil, fmt.Errorf("enable foreign keys: %w", err)
		}
	}

	return &Store{db: gdb, queryTimeout: cfg.QueryTimeout}, nil
}

// Conn returns a session bound to ctx, with the query timeout applied.
// The returned cancel must always be called.
func (s *Store) Conn(ctx context.Context) (*gorm.DB, context.CancelFunc) {
	if s.queryTimeout > 0 {
		ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
		return s.db.WithContext(ctx), cancel
	}
	return s.db.WithContext(ctx), func() {}
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	if s.queryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.queryTimeout)
		defer cancel()
	}
	return sqlDB.PingContext(ctx)
}

// Close releases the connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Migrate creates or updates the schema.
func (s *Store) Migrate(ctx context.Context) error {
	conn, cancel := s.Conn(ctx)
	defer cancel()
	if err := conn.AutoMigrate(&DocumentRow{}, &TextPieceRow{}); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
