// Package config loads server settings from the environment.
package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/meikuraledutech/flow/layout"
)

// Config holds the server configuration.
type Config struct {
	Addr         string `envconfig:"ADDR" default:":3000"`
	Store        string `envconfig:"STORE" default:"memory"`
	DatabaseURL  string `envconfig:"DATABASE_URL"`
	RedisURL     string `envconfig:"REDIS_URL"`
	HistoryLimit int    `envconfig:"HISTORY_LIMIT" default:"100"`

	LogConfig
	LayoutConfig
}

// LogConfig controls logger output.
type LogConfig struct {
	Level  string `envconfig:"LOG_LEVEL" default:"info"`
	Format string `envconfig:"LOG_FORMAT" default:"json"` // json | console
}

// LayoutConfig sizes the auto-arrange grid.
type LayoutConfig struct {
	NodeWidth     float64 `envconfig:"LAYOUT_NODE_WIDTH" default:"150"`
	NodeHeight    float64 `envconfig:"LAYOUT_NODE_HEIGHT" default:"60"`
	HorizontalGap float64 `envconfig:"LAYOUT_HORIZONTAL_GAP" default:"100"`
	VerticalGap   float64 `envconfig:"LAYOUT_VERTICAL_GAP" default:"50"`
}

// Options converts the layout settings.
func (l LayoutConfig) Options() layout.Options {
	return layout.Options{
		NodeWidth:     l.NodeWidth,
		NodeHeight:    l.NodeHeight,
		HorizontalGap: l.HorizontalGap,
		VerticalGap:   l.VerticalGap,
	}
}

// Load reads a .env file when present and then FLOW_* variables.
// DATABASE_URL and REDIS_URL are also read without the prefix.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("flow", &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that the selected store has what it needs.
func (c *Config) Validate() error {
	switch c.Store {
	case "memory":
	case "postgres":
		if c.DatabaseURL == "" {
			return fmt.Errorf("config: DATABASE_URL is required for the postgres store")
		}
	case "redis":
		if c.RedisURL == "" {
			return fmt.Errorf("config: REDIS_URL is required for the redis store")
		}
	default:
		return fmt.Errorf("config: unknown store %q", c.Store)
	}
	return nil
}
