package testsupport

import (
	"path/filepath"
	"testing"

	"easel/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.ImageDir = filepath.Join(base, "images")
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.APIBind = "127.0.0.1:0"

	for _, opt := range opts {
		opt(&cfg)
	}

	return &cfg
}

// WithLeaseSeconds overrides the reservation lease duration on the test config.
func WithLeaseSeconds(seconds int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Queue.LeaseSeconds = seconds
	}
}

// WithTaxonomy sets the label vocabulary on the test config.
func WithTaxonomy(strict bool, categories ...config.Category) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Taxonomy.Strict = strict
		cfg.Taxonomy.Categories = categories
	}
}
