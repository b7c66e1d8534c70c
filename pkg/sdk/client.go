package piecedex

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kailas-cloud/piecedex/internal/db"
	dbElastic "github.com/kailas-cloud/piecedex/internal/db/elastic"
	dbRedis "github.com/kailas-cloud/piecedex/internal/db/redis"
	domdoc "github.com/kailas-cloud/piecedex/internal/domain/document"
	docpatch "github.com/kailas-cloud/piecedex/internal/domain/document/patch"
	domidx "github.com/kailas-cloud/piecedex/internal/domain/indexation"
	"github.com/kailas-cloud/piecedex/internal/domain/search/request"
	"github.com/kailas-cloud/piecedex/internal/domain/search/result"
	domtp "github.com/kailas-cloud/piecedex/internal/domain/textpiece"
	tppatch "github.com/kailas-cloud/piecedex/internal/domain/textpiece/patch"
	collectionrepo "github.com/kailas-cloud/piecedex/internal/repository/collection"
	documentrepo "github.com/kailas-cloud/piecedex/internal/repository/document"
	searchrepo "github.com/kailas-cloud/piecedex/internal/repository/search"
	textpiecerepo "github.com/kailas-cloud/piecedex/internal/repository/textpiece"
	"github.com/kailas-cloud/piecedex/internal/sqldb"
	documentuc "github.com/kailas-cloud/piecedex/internal/usecase/document"
	healthuc "github.com/kailas-cloud/piecedex/internal/usecase/health"
	indexationuc "github.com/kailas-cloud/piecedex/internal/usecase/indexation"
	searchuc "github.com/kailas-cloud/piecedex/internal/usecase/search"
	textpieceuc "github.com/kailas-cloud/piecedex/internal/usecase/textpiece"
)

const defaultReadinessTimeout = 10 * time.Second

// Internal interfaces, swapped for fakes in tests.
type documentUseCase interface {
	Create(ctx context.Context, name, author string) (domdoc.Document, error)
	Get(ctx context.Context, id int64) (domdoc.Document, error)
	Patch(ctx context.Context, id int64, p docpatch.Patch) (domdoc.Document, error)
	Delete(ctx context.Context, id int64) error
}

type textPieceUseCase interface {
	Create(ctx context.Context, in textpieceuc.CreateInput) (domtp.TextPiece, error)
	Get(ctx context.Context, id int64) (domtp.TextPiece, error)
	Patch(ctx context.Context, id int64, p tppatch.Patch) (domtp.TextPiece, error)
	Delete(ctx context.Context, id int64) error
}

type indexUseCase interface {
	IndexDocument(ctx context.Context, documentID int64) (domidx.Report, error)
}

type searchUseCase interface {
	Search(ctx context.Context, collectionID int64, q request.Query) (result.Page, error)
}

type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}

// Client is the piecedex SDK entry point.
type Client struct {
	closers   []func()
	docSvc    documentUseCase
	pieceSvc  textPieceUseCase
	indexSvc  indexUseCase
	searchSvc searchUseCase
	healthSvc healthUseCase
	obs       *observer
}

// New creates a Client, opens the relational store and connects to the
// search engine. The provided context is used for the readiness check and
// the optional migration.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{}
	for _, o := range opts {
		o.apply(cfg)
	}
	if cfg.dbDriver == "" {
		return nil, errors.New("piecedex: relational store required (use WithPostgres or WithSQLite)")
	}
	if len(cfg.engineAddrs) == 0 {
		return nil, errors.New("piecedex: search engine address required (use WithElasticsearch or WithRedis)")
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	store, err := sqldb.Open(sqldb.Config{Driver: cfg.dbDriver, DSN: cfg.dsn, QueryTimeout: cfg.queryTimeout})
	if err != nil {
		return nil, fmt.Errorf("piecedex: open store: %w", err)
	}
	if cfg.autoMigrate {
		if err := store.Migrate(ctx); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("piecedex: migrate: %w", err)
		}
	}

	engine, err := createEngine(cfg)
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	if err := engine.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		engine.Close()
		_ = store.Close()
		return nil, fmt.Errorf("piecedex: search engine not ready: %w", err)
	}

	c := wireClient(store, engine, cfg.indexPrefix, obs)
	c.closers = []func(){engine.Close, func() { _ = store.Close() }}
	return c, nil
}

func createEngine(cfg *clientConfig) (db.Engine, error) {
	switch cfg.engineDriver {
	case "elasticsearch":
		s, err := dbElastic.NewStore(elasticConfig(cfg))
		if err != nil {
			return nil, fmt.Errorf("piecedex: create elasticsearch store: %w", err)
		}
		return s, nil
	case "redis":
		s, err := dbRedis.NewStore(redisConfig(cfg))
		if err != nil {
			return nil, fmt.Errorf("piecedex: create redis store: %w", err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("piecedex: unknown search engine driver %q", cfg.engineDriver)
	}
}

func elasticConfig(cfg *clientConfig) dbElastic.Config {
	return dbElastic.Config{
		Addrs:          cfg.engineAddrs,
		Username:       cfg.engineUser,
		Password:       cfg.enginePassword,
		RequestTimeout: cfg.engineTimeout,
	}
}

func redisConfig(cfg *clientConfig) dbRedis.Config {
	return dbRedis.Config{
		Addrs:          cfg.engineAddrs,
		Username:       cfg.engineUser,
		Password:       cfg.enginePassword,
		RequestTimeout: cfg.engineTimeout,
	}
}

// engine is the part of db.Engine the client wires into repositories.
type engine interface {
	db.Pinger
	db.IndexManager
	db.Bulker
	db.Searcher
	db.Scanner
}

func wireClient(store *sqldb.Store, e engine, prefix string, obs *observer) *Client {
	collRepo := collectionrepo.New(e, prefix)
	docRepo := documentrepo.New(store)
	pieceRepo := textpiecerepo.New(store)
	searchRepo := searchrepo.New(e, prefix)

	return &Client{
		docSvc:    documentuc.New(docRepo, collRepo),
		pieceSvc:  textpieceuc.New(pieceRepo),
		indexSvc:  indexationuc.New(collRepo, pieceRepo, docRepo),
		searchSvc: searchuc.New(searchRepo),
		healthSvc: healthuc.New(store, e),
		obs:       obs,
	}
}

// Close releases all resources.
func (c *Client) Close() {
	for _, f := range c.closers {
		f()
	}
	c.closers = nil
}

// Documents returns the document service.
func (c *Client) Documents() *DocumentService {
	return &DocumentService{svc: c.docSvc, obs: c.obs}
}

// TextPieces returns the text piece service.
func (c *Client) TextPieces() *TextPieceService {
	return &TextPieceService{svc: c.pieceSvc, obs: c.obs}
}

// Collection returns the search collection of the document with the given id.
func (c *Client) Collection(documentID int64) *CollectionService {
	return &CollectionService{
		id:        documentID,
		indexSvc:  c.indexSvc,
		searchSvc: c.searchSvc,
		obs:       c.obs,
	}
}
