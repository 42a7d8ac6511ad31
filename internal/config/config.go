// Package config reads the small amount of environment configuration
// the CLI needs. Experiment definitions themselves live in YAML files
// or the built-in catalog, not in the environment.
package config

import (
	"os"
	"strconv"

	"gomonte/internal/errors"
)

// Config holds process-level settings.
type Config struct {
	// OutputDir receives figures, reports, and workbooks.
	OutputDir string
	// Workers bounds concurrent row evaluation; 1 means sequential.
	Workers int
}

// Load reads configuration from environment variables, applying
// defaults. godotenv is loaded by main before this runs.
func Load() (*Config, error) {
	cfg := &Config{
		OutputDir: "out",
		Workers:   1,
	}
	if dir := os.Getenv("GOMONTE_OUTPUT"); dir != "" {
		cfg.OutputDir = dir
	}
	if w := os.Getenv("GOMONTE_WORKERS"); w != "" {
		n, err := strconv.Atoi(w)
		if err != nil || n < 1 {
			return nil, errors.Newf(errors.CodeConfig, "GOMONTE_WORKERS must be a positive integer, got %q", w)
		}
		cfg.Workers = n
	}
	return cfg, nil
}
