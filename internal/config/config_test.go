package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("PORT", "")
	path := writeConfig(t, `database:
  driver: sqlite
  url: "file:ww.db"
http:
  port: "9090"
log:
  level: debug
seed:
  path: data/seeds/fixture.yaml
metrics:
  enabled: true
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load error: %v", err)
	}

	checks := []struct {
		name string
		got  any
		want any
	}{
		{"database.driver", cfg.Database.Driver, "sqlite"},
		{"database.url", cfg.Database.URL, "file:ww.db"},
		{"database.max_open_conns", cfg.Database.MaxOpenConns, 10},
		{"http.port", cfg.HTTP.Port, "9090"},
		{"log.level", cfg.Log.Level, "debug"},
		{"seed.path", cfg.Seed.Path, "data/seeds/fixture.yaml"},
		{"metrics.enabled", cfg.Metrics.Enabled, true},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s = %v, want %v", c.name, c.got, c.want)
		}
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	path := writeConfig(t, "database:\n  driver: sqlite\n  url: file:a.db\n")
	t.Setenv("WW_DATABASE__URL", "file:b.db")
	t.Setenv("WW_DATABASE__MAX_OPEN_CONNS", "4")
	t.Setenv("WW_HTTP__PORT", "7070")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	if cfg.Database.URL != "file:b.db" {
		t.Errorf("database.url = %q, want file:b.db", cfg.Database.URL)
	}
	if cfg.Database.MaxOpenConns != 4 {
		t.Errorf("database.max_open_conns = %d, want 4", cfg.Database.MaxOpenConns)
	}
	if cfg.HTTP.Port != "7070" {
		t.Errorf("http.port = %q, want 7070", cfg.HTTP.Port)
	}
}

func TestLoadLegacyEnv(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://ww@localhost/ww")
	t.Setenv("PORT", "8181")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	if cfg.Database.Driver != "pgx" {
		t.Errorf("database.driver = %q, want pgx", cfg.Database.Driver)
	}
	if cfg.Database.URL != "postgres://ww@localhost/ww" {
		t.Errorf("database.url = %q", cfg.Database.URL)
	}
	if cfg.HTTP.Port != "8181" {
		t.Errorf("http.port = %q, want 8181", cfg.HTTP.Port)
	}
}

func TestLoadRejects(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	tests := []struct {
		name string
		data string
	}{
		{"unknown driver", "database:\n  driver: mysql\n  url: x\n"},
		{"missing url", "database:\n  driver: sqlite\n"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, tc.data)); err == nil {
				t.Fatalf("expected error")
			}
		})
	}

	if _, err := Load(filepath.Join(t.TempDir(), "config.toml")); err == nil {
		t.Fatalf("expected error for unsupported format")
	}
}
