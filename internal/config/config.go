package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"dconn.dev/hexboard/internal/generation"
)

// Config holds all application configuration
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Storage    StorageConfig    `yaml:"storage"`
	Generation GenerationConfig `yaml:"generation"`
	Render     RenderConfig     `yaml:"render"`
	Maps       []MapConfig      `yaml:"maps"`
	DataPath   string           `yaml:"data_path"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Addr       string        `yaml:"addr"`
	PublicURL  string        `yaml:"public_url"` // base for share links
	SessionTTL time.Duration `yaml:"session_ttl"`
}

// StorageConfig holds share store settings
type StorageConfig struct {
	DBPath string `yaml:"db_path"` // defaults to <data_path>/hexboard.db
}

// GenerationConfig holds board generator settings
type GenerationConfig struct {
	MaxAttempts int    `yaml:"max_attempts"`
	DefaultMap  string `yaml:"default_map"`
}

// RenderConfig holds PNG output defaults
type RenderConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// MapConfig is a custom map definition
type MapConfig struct {
	Name        string             `yaml:"name"`
	Resources   map[string]int     `yaml:"resources"`
	Numbers     map[int]int        `yaml:"numbers"`
	Coordinates []generation.Point `yaml:"coordinates"`
}

// Default returns the configuration used when no file is given
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads configuration from a YAML file. A missing file is not an
// error; defaults are used. SERVER_ADDR, DATA_PATH and DB_PATH override
// the file.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
			slog.Info("config file not found, using defaults", "path", path)
		case err != nil:
			return nil, fmt.Errorf("failed to read config file: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
		}
	}

	if v := os.Getenv("SERVER_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("DATA_PATH"); v != "" {
		cfg.DataPath = v
	}
	if v := os.Getenv("DB_PATH"); v != "" {
		cfg.Storage.DBPath = v
	}

	cfg.applyDefaults()

	// Fail early on bad custom maps
	if _, err := cfg.Catalog(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.PublicURL == "" {
		c.Server.PublicURL = "http://localhost" + c.Server.Addr + "/"
	}
	if c.Server.SessionTTL == 0 {
		c.Server.SessionTTL = 2 * time.Hour
	}
	if c.DataPath == "" {
		c.DataPath = "data"
	}
	if c.Storage.DBPath == "" {
		c.Storage.DBPath = filepath.Join(c.DataPath, "hexboard.db")
	}
	if c.Generation.MaxAttempts == 0 {
		c.Generation.MaxAttempts = generation.DefaultMaxAttempts
	}
	if c.Generation.DefaultMap == "" {
		c.Generation.DefaultMap = "standard"
	}
	if c.Render.Width == 0 {
		c.Render.Width = 800
	}
	if c.Render.Height == 0 {
		c.Render.Height = 700
	}
}

// Definition converts a custom map to a generator definition
func (m MapConfig) Definition() (*generation.MapDefinition, error) {
	def := &generation.MapDefinition{
		Name:           m.Name,
		ResourceCounts: make(map[generation.Resource]int, len(m.Resources)),
		NumberCounts:   make(map[int]int, len(m.Numbers)),
		Coordinates:    append([]generation.Point(nil), m.Coordinates...),
	}
	for name, n := range m.Resources {
		r, ok := generation.ParseResource(name)
		if !ok || r == generation.ResourceNone {
			return nil, fmt.Errorf("%w: map %q: unknown resource %q", generation.ErrInvalidDefinition, m.Name, name)
		}
		if n < 0 {
			return nil, fmt.Errorf("%w: map %q: negative count for %s", generation.ErrInvalidDefinition, m.Name, name)
		}
		def.ResourceCounts[r] += n
	}
	for number, n := range m.Numbers {
		if number < 2 || number > 12 || number == 7 {
			return nil, fmt.Errorf("%w: map %q: %d is not a number token", generation.ErrInvalidDefinition, m.Name, number)
		}
		if n < 0 {
			return nil, fmt.Errorf("%w: map %q: negative count for number %d", generation.ErrInvalidDefinition, m.Name, number)
		}
		def.NumberCounts[number] = n
	}
	return def, nil
}

// Catalog returns the built-in maps plus every custom map. A custom map
// may replace a built-in one by reusing its name.
func (c *Config) Catalog() (*generation.Catalog, error) {
	catalog := generation.NewCatalog()
	for _, m := range c.Maps {
		def, err := m.Definition()
		if err != nil {
			return nil, err
		}
		if err := catalog.Add(def); err != nil {
			return nil, fmt.Errorf("map %q: %w", m.Name, err)
		}
	}
	if _, ok := catalog.Get(c.Generation.DefaultMap); !ok {
		return nil, fmt.Errorf("%w: default map %q is not defined", generation.ErrInvalidDefinition, c.Generation.DefaultMap)
	}
	return catalog, nil
}
