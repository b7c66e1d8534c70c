package piecedex

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kailas-cloud/piecedex/internal/sqldb"
)

func TestNew_RequiresStore(t *testing.T) {
	_, err := New(context.Background(), WithElasticsearch("http://localhost:9200"))
	if err == nil || !strings.Contains(err.Error(), "relational store required") {
		t.Fatalf("err = %v", err)
	}
}

func TestNew_RequiresEngine(t *testing.T) {
	_, err := New(context.Background(), WithSQLite("file::memory:"))
	if err == nil || !strings.Contains(err.Error(), "search engine address required") {
		t.Fatalf("err = %v", err)
	}
}

func TestCreateEngine_UnknownDriver(t *testing.T) {
	cfg := &clientConfig{engineDriver: "solr", engineAddrs: []string{"localhost:8983"}}
	if _, err := createEngine(cfg); err == nil {
		t.Fatal("expected error for unknown driver")
	}
}

func TestClientOptions(t *testing.T) {
	cfg := &clientConfig{}
	for _, o := range []Option{
		WithPostgres("postgres://localhost/pieces"),
		WithElasticsearch("http://a:9200", "http://b:9200"),
		WithEngineAuth("elastic", "secret"),
		WithIndexPrefix("test-"),
		WithAutoMigrate(),
		WithQueryTimeout(3 * time.Second),
		WithEngineTimeout(2 * time.Second),
		WithLogger(slog.Default()),
		WithPrometheus(prometheus.NewRegistry()),
	} {
		o.apply(cfg)
	}

	if cfg.dbDriver != "postgres" || cfg.dsn != "postgres://localhost/pieces" {
		t.Errorf("db = %q %q", cfg.dbDriver, cfg.dsn)
	}
	if cfg.engineDriver != "elasticsearch" || len(cfg.engineAddrs) != 2 {
		t.Errorf("engine = %q %v", cfg.engineDriver, cfg.engineAddrs)
	}
	if cfg.engineUser != "elastic" || cfg.enginePassword != "secret" {
		t.Errorf("auth = %q %q", cfg.engineUser, cfg.enginePassword)
	}
	if cfg.indexPrefix != "test-" || !cfg.autoMigrate {
		t.Errorf("prefix = %q, autoMigrate = %v", cfg.indexPrefix, cfg.autoMigrate)
	}
	if cfg.queryTimeout != 3*time.Second || cfg.engineTimeout != 2*time.Second {
		t.Errorf("timeouts = %v %v", cfg.queryTimeout, cfg.engineTimeout)
	}
	if cfg.logger == nil || cfg.metricsReg == nil {
		t.Error("logger and registerer must be set")
	}

	WithSQLite("file:x.db").apply(cfg)
	WithRedis("localhost:6379", "pw").apply(cfg)
	if cfg.dbDriver != "sqlite" || cfg.engineDriver != "redis" || cfg.enginePassword != "pw" {
		t.Errorf("later options must override: %+v", cfg)
	}
}

func TestEngineConfig_PassesTimeout(t *testing.T) {
	cfg := &clientConfig{engineAddrs: []string{"localhost:6379"}, engineUser: "u", enginePassword: "p"}
	WithEngineTimeout(750 * time.Millisecond).apply(cfg)

	es := elasticConfig(cfg)
	if es.RequestTimeout != 750*time.Millisecond || es.Username != "u" || len(es.Addrs) != 1 {
		t.Errorf("elastic config = %+v", es)
	}
	rc := redisConfig(cfg)
	if rc.RequestTimeout != 750*time.Millisecond || rc.Password != "p" || len(rc.Addrs) != 1 {
		t.Errorf("redis config = %+v", rc)
	}
}

func newWiredClient(t *testing.T) (*Client, *memEngine) {
	t.Helper()
	store, err := sqldb.NewInMemoryForTest()
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	e := newMemEngine()
	obs, err := newObserver(nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	return wireClient(store, e, "test-", obs), e
}

func TestClient_EndToEnd(t *testing.T) {
	ctx := context.Background()
	c, e := newWiredClient(t)

	doc, err := c.Documents().Create(ctx, "doc.pdf", "A")
	if err != nil {
		t.Fatalf("create document: %v", err)
	}
	tp, err := c.TextPieces().Create(ctx, NewTextPiece{
		DocumentName: "doc.pdf", Type: TypeTitle, Page: 1, Text: "hello world",
	})
	if err != nil {
		t.Fatalf("create piece: %v", err)
	}
	if tp.Size != 11 || tp.Indexed {
		t.Fatalf("piece = %+v", tp)
	}

	if _, err := c.Collection(doc.ID).Search(ctx, SearchRequest{}); !errors.Is(err, ErrCollectionNotFound) {
		t.Fatalf("search before reindex: err = %v, want ErrCollectionNotFound", err)
	}

	report, err := c.Collection(doc.ID).Reindex(ctx)
	if err != nil {
		t.Fatalf("reindex: %v", err)
	}
	if report.Populated != 1 || report.RunID == "" {
		t.Errorf("report = %+v", report)
	}

	page, err := c.Collection(doc.ID).Search(ctx, SearchRequest{Filters: []Filter{Match("text", "hello")}})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if page.Total != 1 || len(page.Hits) != 1 || page.Hits[0].ID != tp.ID {
		t.Fatalf("page = %+v", page)
	}
	if page.PageNum != 1 || page.PageSize != 15 {
		t.Errorf("pagination = %d/%d", page.PageNum, page.PageSize)
	}

	stored, err := c.TextPieces().Get(ctx, tp.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !stored.Indexed {
		t.Error("piece must be marked indexed after reindex")
	}

	if err := c.Documents().Delete(ctx, doc.ID); err != nil {
		t.Fatalf("delete document: %v", err)
	}
	if _, err := c.TextPieces().Get(ctx, tp.ID); !errors.Is(err, ErrTextPieceNotFound) {
		t.Errorf("piece after document delete: err = %v", err)
	}
	if exists, _ := e.IndexExists(ctx, "test-pieces-1"); exists {
		t.Error("collection must be dropped with its document")
	}
}

func TestClient_Health(t *testing.T) {
	c, e := newWiredClient(t)
	if got := c.Health(context.Background()); !got.Healthy() {
		t.Errorf("status = %+v", got)
	}

	e.pingErr = errors.New("down")
	got := c.Health(context.Background())
	if got.Status != "degraded" || got.Checks["search_engine"] != "error" || got.Checks["database"] != "ok" {
		t.Errorf("status = %+v", got)
	}
}

func TestClient_CloseIdempotent(t *testing.T) {
	calls := 0
	c := &Client{closers: []func(){func() { calls++ }}}
	c.Close()
	c.Close()
	if calls != 1 {
		t.Errorf("closer called %d times, want 1", calls)
	}
}
