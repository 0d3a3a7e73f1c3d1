package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"easel/internal/config"
)

func TestLoadDefaultsAndExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantImages := filepath.Join(tempHome, ".local", "share", "easel", "images")
	if cfg.Paths.ImageDir != wantImages {
		t.Fatalf("unexpected image dir: got %q want %q", cfg.Paths.ImageDir, wantImages)
	}
	if cfg.Paths.APIBind != "127.0.0.1:7351" {
		t.Fatalf("unexpected api bind: %q", cfg.Paths.APIBind)
	}
	if cfg.Queue.LeaseSeconds != 300 {
		t.Fatalf("unexpected lease seconds: %d", cfg.Queue.LeaseSeconds)
	}
	if cfg.Logging.Format != "console" || cfg.Logging.Level != "info" {
		t.Fatalf("unexpected logging defaults: %+v", cfg.Logging)
	}
	if cfg.Taxonomy.Strict {
		t.Fatal("expected strict taxonomy off by default")
	}
}

func TestLoadParsesExplicitFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "easel.toml")
	content := `
[paths]
image_dir = "` + filepath.Join(dir, "images") + `"
data_dir = "` + filepath.Join(dir, "data") + `"
log_dir = "` + filepath.Join(dir, "logs") + `"
api_bind = "127.0.0.1:0"

[queue]
lease_seconds = 42

[taxonomy]
strict = true

[[taxonomy.categories]]
id = "hands"
labels = [{ id = "extra fingers" }]
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("expected config at %q to be used, got %q exists=%v", path, resolved, exists)
	}
	if cfg.Queue.LeaseSeconds != 42 {
		t.Fatalf("unexpected lease seconds: %d", cfg.Queue.LeaseSeconds)
	}
	if !cfg.Taxonomy.Strict {
		t.Fatal("expected strict taxonomy")
	}
	if len(cfg.Taxonomy.Categories) != 1 || cfg.Taxonomy.Categories[0].ID != "hands" {
		t.Fatalf("unexpected categories: %+v", cfg.Taxonomy.Categories)
	}
	// Display names default to the identifier when omitted.
	if cfg.Taxonomy.Categories[0].Name != "hands" {
		t.Fatalf("expected category name fallback, got %q", cfg.Taxonomy.Categories[0].Name)
	}
}

func TestValidateRejectsBadLease(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.ImageDir = "/tmp/images"
	cfg.Paths.DataDir = "/tmp/data"
	cfg.Queue.LeaseSeconds = -5
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation error for negative lease")
	}
}

func TestValidateRejectsDuplicateLabels(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.ImageDir = "/tmp/images"
	cfg.Paths.DataDir = "/tmp/data"
	cfg.Taxonomy.Categories = []config.Category{
		{
			ID: "hands",
			Labels: []config.Label{
				{ID: "extra fingers"},
				{ID: "extra fingers"},
			},
		},
	}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error for duplicate labels")
	}
	if !strings.Contains(err.Error(), "duplicate label") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCreateSampleWritesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(data), "lease_seconds") {
		t.Fatal("sample config missing lease_seconds")
	}
}
