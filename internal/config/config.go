// Package config reads CLI defaults from the environment.
package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Config holds defaults that command-line flags override.
type Config struct {
	Model   string `envconfig:"TAGSEQ_MODEL"`
	Workers int    `envconfig:"TAGSEQ_WORKERS" default:"1"`
	Jobs    int    `envconfig:"TAGSEQ_JOBS" default:"4"`
}

// Load processes the TAGSEQ_* environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if cfg.Jobs < 1 {
		cfg.Jobs = 1
	}
	return &cfg, nil
}
