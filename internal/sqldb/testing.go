package sqldb

import (
	"context"

	"gorm.io/gorm"
)

// NewInMemoryForTest opens a migrated in-memory sqlite store. The pool is
// capped at one connection so every query sees the same database.
func NewInMemoryForTest() (*Store, error) {
	s, err := Open(Config{Driver: DriverSQLite, DSN: "file::memory:", MaxOpenConns: 1})
	if err != nil {
		return nil, err
	}
	if err := s.Migrate(context.Background()); err != nil {
		_ = s.Close()
		return nil, err
	}
	return s, nil
}

// DB exposes the underlying handle for test assertions.
func (s *Store) DB() *gorm.DB { return s.db }
