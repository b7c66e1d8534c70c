package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func validConfig() Config {
	cfg := Config{
		HTTP:     HTTPConfig{Port: 8080},
		Database: DatabaseConfig{DSN: "file::memory:", Driver: DatabaseSQLite},
		Engine:   EngineConfig{Addrs: []string{"http://localhost:9200"}},
	}
	cfg.ApplyDefaults()
	return cfg
}

func TestApplyDefaults(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()

	if cfg.Database.Driver != DatabasePostgres || cfg.Engine.Driver != EngineElasticsearch {
		t.Errorf("drivers = %q/%q", cfg.Database.Driver, cfg.Engine.Driver)
	}
	if cfg.Database.QueryTimeout() != 5*time.Second {
		t.Errorf("QueryTimeout = %v", cfg.Database.QueryTimeout())
	}
	if cfg.Engine.RequestTimeout() != 10*time.Second {
		t.Errorf("RequestTimeout = %v", cfg.Engine.RequestTimeout())
	}
	if cfg.Search.MaxFilters != 64 {
		t.Errorf("MaxFilters = %d", cfg.Search.MaxFilters)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"bad port", func(c *Config) { c.HTTP.Port = 0 }, "http.port must be between 1 and 65535, got 0"},
		{"bad database driver", func(c *Config) { c.Database.Driver = "mysql" },
			`database.driver must be "postgres" or "sqlite", got "mysql"`},
		{"missing dsn", func(c *Config) { c.Database.DSN = "" }, "database.dsn is required"},
		{"bad engine driver", func(c *Config) { c.Engine.Driver = "solr" },
			`engine.driver must be "elasticsearch" or "redis", got "solr"`},
		{"missing addrs", func(c *Config) { c.Engine.Addrs = nil }, "engine.addrs is required"},
		{"uppercase prefix", func(c *Config) { c.Engine.IndexPrefix = "Prod-" },
			`engine.index_prefix must be lowercase without separators, got "Prod-"`},
		{"prefix with colon", func(c *Config) { c.Engine.IndexPrefix = "a:" },
			`engine.index_prefix must be lowercase without separators, got "a:"`},
		{"redis driver", func(c *Config) { c.Engine.Driver = EngineRedis }, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || err.Error() != tt.wantErr {
				t.Errorf("got %v, want %q", err, tt.wantErr)
			}
		})
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("PIECEDEX_TEST_DSN", "postgres://db")
	got := string(expandEnvVars([]byte("a: ${PIECEDEX_TEST_DSN}\nb: ${PIECEDEX_TEST_UNSET:-fallback}\n")))
	want := "a: postgres://db\nb: fallback\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "config"), 0o755); err != nil {
		t.Fatal(err)
	}
	yaml := []byte(`http:
  port: ${PIECEDEX_TEST_PORT:-9000}
database:
  driver: sqlite
  dsn: "file::memory:"
engine:
  driver: redis
  addrs: ["localhost:6379"]
  index_prefix: "t-"
`)
	if err := os.WriteFile(filepath.Join(dir, "config", "unit.yaml"), yaml, 0o600); err != nil {
		t.Fatal(err)
	}
	t.Chdir(dir)

	cfg, err := Load("unit")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTP.Port != 9000 || cfg.Engine.Driver != EngineRedis || cfg.Engine.IndexPrefix != "t-" {
		t.Errorf("unexpected config %+v", cfg)
	}
	if cfg.Engine.RequestTimeoutSec != 10 {
		t.Errorf("defaults not applied: %+v", cfg.Engine)
	}
}

func TestGetEnv(t *testing.T) {
	t.Setenv("ENV", "")
	if GetEnv() != "local" {
		t.Errorf("GetEnv() = %q", GetEnv())
	}
	t.Setenv("ENV", "prod")
	if GetEnv() != "prod" {
		t.Errorf("GetEnv() = %q", GetEnv())
	}
}
