package main

import (
	"fmt"

	"github.com/kailas-cloud/piecedex/internal/config"
	"github.com/kailas-cloud/piecedex/internal/db"
	dbElastic "github.com/kailas-cloud/piecedex/internal/db/elastic"
	dbRedis "github.com/kailas-cloud/piecedex/internal/db/redis"
	"github.com/kailas-cloud/piecedex/internal/sqldb"
)

func openDatabase(cfg config.DatabaseConfig) (*sqldb.Store, error) {
	store, err := sqldb.Open(sqldb.Config{
		Driver:       cfg.Driver,
		DSN:          cfg.DSN,
		MaxOpenConns: cfg.MaxOpenConns,
		QueryTimeout: cfg.QueryTimeout(),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return store, nil
}

// openEngine creates the search engine store for the configured driver.
func openEngine(cfg config.EngineConfig) (db.Engine, error) {
	var (
		engine db.Engine
		err    error
	)
	switch cfg.Driver {
	case config.EngineElasticsearch:
		engine, err = dbElastic.NewStore(dbElastic.Config{
			Addrs:          cfg.Addrs,
			Username:       cfg.Username,
			Password:       cfg.Password,
			RequestTimeout: cfg.RequestTimeout(),
		})
	case config.EngineRedis:
		engine, err = dbRedis.NewStore(dbRedis.Config{
			Addrs:          cfg.Addrs,
			Username:       cfg.Username,
			Password:       cfg.Password,
			DB:             cfg.DB,
			RequestTimeout: cfg.RequestTimeout(),
		})
	default:
		return nil, fmt.Errorf("unknown search engine driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("create search engine store: %w", err)
	}
	return engine, nil
}
