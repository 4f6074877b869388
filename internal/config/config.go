package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "WW_"

type Config struct {
	Database DatabaseConfig `json:"database"`
	HTTP     HTTPConfig     `json:"http"`
	Log      LogConfig      `json:"log"`
	Seed     SeedConfig     `json:"seed"`
	Metrics  MetricsConfig  `json:"metrics"`
}

type DatabaseConfig struct {
	// Driver is "pgx" (Postgres) or "sqlite".
	Driver       string `json:"driver"`
	URL          string `json:"url"`
	MaxOpenConns int    `json:"max_open_conns"`
}

type HTTPConfig struct {
	Port string `json:"port"`
}

type LogConfig struct {
	Level string `json:"level"`
}

type SeedConfig struct {
	// Path to a YAML fixture loaded at startup. Empty disables seeding.
	Path string `json:"path"`
}

type MetricsConfig struct {
	Enabled bool `json:"enabled"`
}

// Load reads an optional YAML file at path, then WW_ environment overrides
// (WW_DATABASE__URL sets database.url). A .env file in the working directory
// is loaded first if present. DATABASE_URL and PORT are honoured when the
// WW_ equivalents are unset.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	k := koanf.New(".")
	if path != "" {
		switch ext := strings.ToLower(filepath.Ext(path)); ext {
		case ".yaml", ".yml":
		default:
			return nil, fmt.Errorf("config: unsupported format %q", ext)
		}
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("config: load %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), strings.ToLower(envPrefix))
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("config: load env: %w", err)
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}

	if cfg.Database.URL == "" {
		cfg.Database.URL = os.Getenv("DATABASE_URL")
	}
	if cfg.HTTP.Port == "" {
		cfg.HTTP.Port = os.Getenv("PORT")
	}

	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) SetDefaults() {
	if c.Database.Driver == "" {
		c.Database.Driver = "pgx"
	}
	if c.Database.MaxOpenConns <= 0 {
		c.Database.MaxOpenConns = 10
	}
	if c.HTTP.Port == "" {
		c.HTTP.Port = "8080"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "pgx", "sqlite":
	default:
		return fmt.Errorf("config: unsupported database driver %q", c.Database.Driver)
	}
	if strings.TrimSpace(c.Database.URL) == "" {
		return errors.New("config: database url is required (WW_DATABASE__URL or DATABASE_URL)")
	}
	return nil
}
