package piecedex

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	dbDriver     string // "postgres" or "sqlite"
	dsn          string
	autoMigrate  bool
	queryTimeout time.Duration

	engineDriver   string // "elasticsearch" or "redis"
	engineAddrs    []string
	engineUser     string
	enginePassword string
	engineTimeout  time.Duration
	indexPrefix    string

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithPostgres stores documents in PostgreSQL.
func WithPostgres(dsn string) Option {
	return optionFunc(func(c *clientConfig) {
		c.dbDriver = "postgres"
		c.dsn = dsn
	})
}

// WithSQLite stores documents in SQLite (pure Go driver).
func WithSQLite(dsn string) Option {
	return optionFunc(func(c *clientConfig) {
		c.dbDriver = "sqlite"
		c.dsn = dsn
	})
}

// WithAutoMigrate creates or updates the schema on New.
func WithAutoMigrate() Option {
	return optionFunc(func(c *clientConfig) {
		c.autoMigrate = true
	})
}

// WithQueryTimeout bounds every relational store call. Zero (default) leaves
// calls bounded only by the caller's context.
func WithQueryTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.queryTimeout = d
	})
}

// WithElasticsearch uses an Elasticsearch 8 cluster as the search engine.
func WithElasticsearch(addrs ...string) Option {
	return optionFunc(func(c *clientConfig) {
		c.engineDriver = "elasticsearch"
		c.engineAddrs = addrs
	})
}

// WithRedis uses Redis 8 with the query engine as the search engine.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.engineDriver = "redis"
		c.engineAddrs = []string{addr}
		c.enginePassword = password
	})
}

// WithEngineAuth sets search engine credentials.
func WithEngineAuth(username, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.engineUser = username
		c.enginePassword = password
	})
}

// WithEngineTimeout bounds every search engine call. Zero keeps the driver
// default (10s for Elasticsearch, 5s for Redis).
func WithEngineTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.engineTimeout = d
	})
}

// WithIndexPrefix namespaces search collections, e.g. "staging-".
func WithIndexPrefix(prefix string) Option {
	return optionFunc(func(c *clientConfig) {
		c.indexPrefix = prefix
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
