package db

import "errors"

// Sentinel errors for engine operations.
var (
	ErrIndexNotFound = errors.New("db: index not found")
	ErrIndexExists   = errors.New("db: index already exists")
)

// Op names used for error context. They are engine-neutral; drivers map
// them onto their own commands or endpoints.
const (
	OpPing        = "ping"
	OpCreateIndex = "create_index"
	OpDropIndex   = "drop_index"
	OpIndexInfo   = "index_info"
	OpBulk        = "bulk"
	OpCount       = "count"
	OpSearch      = "search"
	OpScan        = "scan"
)

// Error wraps an underlying error with the operation name for diagnostics.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }
