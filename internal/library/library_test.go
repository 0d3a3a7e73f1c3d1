package library_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"easel/internal/library"
	"easel/internal/queue"
	"easel/internal/testsupport"
)

func TestSyncRegistersImagesWithDimensions(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	testsupport.WriteTestImage(t, cfg.Paths.ImageDir, "b.png")
	testsupport.WriteTestImage(t, cfg.Paths.ImageDir, "a.png")
	if err := os.WriteFile(filepath.Join(cfg.Paths.ImageDir, "notes.txt"), []byte("skip me"), 0o644); err != nil {
		t.Fatalf("write text file: %v", err)
	}

	scanner := library.NewScanner(cfg.Paths.ImageDir, store, nil)
	added, err := scanner.Sync(context.Background())
	if err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if added != 2 {
		t.Fatalf("expected 2 new items, got %d", added)
	}

	item, err := store.GetByName(context.Background(), "a.png")
	if err != nil {
		t.Fatalf("GetByName: %v", err)
	}
	if item == nil {
		t.Fatal("expected a.png registered")
	}
	if item.Width != 4 || item.Height != 3 {
		t.Fatalf("expected probed dimensions 4x3, got %dx%d", item.Width, item.Height)
	}

	unwanted, err := store.GetByName(context.Background(), "notes.txt")
	if err != nil {
		t.Fatalf("GetByName: %v", err)
	}
	if unwanted != nil {
		t.Fatal("non-image file must not be registered")
	}
}

func TestSyncIsAdditive(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	path := testsupport.WriteTestImage(t, cfg.Paths.ImageDir, "a.png")
	scanner := library.NewScanner(cfg.Paths.ImageDir, store, nil)

	if _, err := scanner.Sync(context.Background()); err != nil {
		t.Fatalf("first Sync: %v", err)
	}
	added, err := scanner.Sync(context.Background())
	if err != nil {
		t.Fatalf("second Sync: %v", err)
	}
	if added != 0 {
		t.Fatalf("expected no new items on rescan, got %d", added)
	}

	// Deleting the file does not delete the record.
	if err := os.Remove(path); err != nil {
		t.Fatalf("remove image: %v", err)
	}
	if _, err := scanner.Sync(context.Background()); err != nil {
		t.Fatalf("Sync after removal: %v", err)
	}
	item, err := store.GetByName(context.Background(), "a.png")
	if err != nil {
		t.Fatalf("GetByName: %v", err)
	}
	if item == nil || item.Status != queue.StatusPending {
		t.Fatalf("expected record preserved, got %#v", item)
	}
}

func TestSyncMissingDirectoryIsEmpty(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	scanner := library.NewScanner(filepath.Join(cfg.Paths.ImageDir, "missing"), store, nil)
	added, err := scanner.Sync(context.Background())
	if err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if added != 0 {
		t.Fatalf("expected nothing from a missing directory, got %d", added)
	}
}

func TestSyncRegistersMalformedFilesWithZeroSize(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	if err := os.MkdirAll(cfg.Paths.ImageDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(cfg.Paths.ImageDir, "broken.png"), []byte("not a png"), 0o644); err != nil {
		t.Fatalf("write broken file: %v", err)
	}

	scanner := library.NewScanner(cfg.Paths.ImageDir, store, nil)
	if _, err := scanner.Sync(context.Background()); err != nil {
		t.Fatalf("Sync: %v", err)
	}

	item, err := store.GetByName(context.Background(), "broken.png")
	if err != nil {
		t.Fatalf("GetByName: %v", err)
	}
	if item == nil {
		t.Fatal("expected broken file registered anyway")
	}
	if item.Width != 0 || item.Height != 0 {
		t.Fatalf("expected zero dimensions, got %dx%d", item.Width, item.Height)
	}
}

func TestResolvePathRejectsTraversal(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	testsupport.WriteTestImage(t, cfg.Paths.ImageDir, "a.png")

	path, err := library.ResolvePath(cfg.Paths.ImageDir, "a.png")
	if err != nil {
		t.Fatalf("ResolvePath: %v", err)
	}
	if path != filepath.Join(cfg.Paths.ImageDir, "a.png") {
		t.Fatalf("unexpected path %q", path)
	}

	for _, name := range []string{"", "../a.png", "sub/a.png", "..", ".hidden"} {
		if _, err := library.ResolvePath(cfg.Paths.ImageDir, name); err == nil {
			t.Fatalf("expected rejection for %q", name)
		}
	}

	if _, err := library.ResolvePath(cfg.Paths.ImageDir, "missing.png"); err == nil {
		t.Fatal("expected rejection for missing file")
	}
}
