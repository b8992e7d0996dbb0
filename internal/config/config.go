package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/udisondev/terrainpath/internal/nav"
	"github.com/udisondev/terrainpath/internal/planner"
)

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("config: invalid")

// Map sources.
const (
	MapSourceFiles    = "files"
	MapSourceDatabase = "database"
)

// Planner holds all configuration for the path planner tools.
type Planner struct {
	LogLevel string `yaml:"log_level"`

	// Maps
	MapDir    string `yaml:"map_dir"`
	MapSource string `yaml:"map_source"` // files | database

	// Database
	Database DatabaseConfig `yaml:"database"`

	Search SearchConfig  `yaml:"planner"`
	Cost   nav.CostModel `yaml:"cost"`
}

// SearchConfig tunes request handling.
type SearchConfig struct {
	Workers        int  `yaml:"workers"`          // concurrent searches in a batch (0 = GOMAXPROCS)
	GraphCacheSize int  `yaml:"graph_cache_size"` // built graphs kept in memory (0 = no cache)
	SmoothPath     bool `yaml:"smooth_path"`
}

// DatabaseConfig holds PostgreSQL connection parameters.
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// DefaultPlanner returns Planner config with sensible defaults.
func DefaultPlanner() Planner {
	return Planner{
		LogLevel:  "info",
		MapDir:    "data/maps",
		MapSource: MapSourceFiles,
		Database: DatabaseConfig{
			Host:     "127.0.0.1",
			Port:     5432,
			User:     "terrainpath",
			Password: "terrainpath",
			DBName:   "terrainpath",
			SSLMode:  "disable",
		},
		Search: SearchConfig{
			GraphCacheSize: 16,
		},
		Cost: nav.DefaultCostModel(),
	}
}

// LoadPlanner loads planner config from a YAML file.
// If the file doesn't exist, returns defaults.
func LoadPlanner(path string) (Planner, error) {
	cfg := DefaultPlanner()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects values the planner cannot run with.
func (c Planner) Validate() error {
	switch strings.ToLower(c.LogLevel) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level %q: %w", c.LogLevel, ErrInvalidConfig)
	}
	switch c.MapSource {
	case MapSourceFiles:
		if c.MapDir == "" {
			return fmt.Errorf("map_dir is empty: %w", ErrInvalidConfig)
		}
	case MapSourceDatabase:
	default:
		return fmt.Errorf("map_source %q: %w", c.MapSource, ErrInvalidConfig)
	}
	if c.Search.Workers < 0 {
		return fmt.Errorf("planner.workers = %d: %w", c.Search.Workers, ErrInvalidConfig)
	}
	if c.Search.GraphCacheSize < 0 {
		return fmt.Errorf("planner.graph_cache_size = %d: %w", c.Search.GraphCacheSize, ErrInvalidConfig)
	}
	if err := c.Cost.Validate(); err != nil {
		return fmt.Errorf("cost: %w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// PlannerOptions converts the config into planner.Options.
func (c Planner) PlannerOptions() planner.Options {
	opts := planner.DefaultOptions()
	if c.Search.Workers > 0 {
		opts.Workers = c.Search.Workers
	}
	opts.GraphCacheSize = c.Search.GraphCacheSize
	opts.Smooth = c.Search.SmoothPath
	opts.Cost = c.Cost
	return opts
}

// ParseLogLevel maps a log_level value to a slog level. Unknown values mean info.
func ParseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
