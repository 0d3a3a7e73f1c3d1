// Package library discovers images on disk and registers them with the
// queue store. Discovery is additive: files already known keep their
// row, files removed from disk keep their record.
package library

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"easel/internal/logging"
	"easel/internal/queue"
)

var allowedExtensions = map[string]struct{}{
	".bmp":  {},
	".gif":  {},
	".jpeg": {},
	".jpg":  {},
	".png":  {},
	".webp": {},
}

// Scanner walks an image directory and enqueues new files.
type Scanner struct {
	dir    string
	store  *queue.Store
	logger *slog.Logger
}

// NewScanner returns a scanner rooted at dir.
func NewScanner(dir string, store *queue.Store, logger *slog.Logger) *Scanner {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Scanner{
		dir:    dir,
		store:  store,
		logger: logging.WithComponent(logger, "library"),
	}
}

// Dir reports the scanned directory.
func (s *Scanner) Dir() string {
	return s.dir
}

// Sync registers every recognized image file in the directory that the
// store does not know yet. It returns the number of newly added items.
// A missing directory is not an error; it simply yields nothing.
func (s *Scanner) Sync(ctx context.Context) (int, error) {
	names, err := s.listImages()
	if err != nil {
		return 0, err
	}

	added := 0
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return added, err
		}
		existing, err := s.store.GetByName(ctx, name)
		if err != nil {
			return added, fmt.Errorf("lookup %s: %w", name, err)
		}
		if existing != nil {
			continue
		}
		width, height := s.probeDimensions(name)
		if _, err := s.store.UpsertIfAbsent(ctx, name, width, height); err != nil {
			return added, fmt.Errorf("register %s: %w", name, err)
		}
		added++
	}
	if added > 0 {
		s.logger.Info("registered new images", logging.Int("count", added))
	}
	return added, nil
}

func (s *Scanner) listImages() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read image directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if _, ok := allowedExtensions[ext]; !ok {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)
	return names, nil
}

// probeDimensions reads just enough of the file to learn its pixel
// size. Unreadable or malformed files are registered with zero
// dimensions rather than skipped.
func (s *Scanner) probeDimensions(name string) (int, int) {
	file, err := os.Open(filepath.Join(s.dir, name))
	if err != nil {
		s.logger.Warn("cannot open image", logging.String("file", name), logging.Error(err))
		return 0, 0
	}
	defer file.Close()

	cfg, _, err := image.DecodeConfig(file)
	if err != nil {
		s.logger.Warn("cannot decode image header", logging.String("file", name), logging.Error(err))
		return 0, 0
	}
	return cfg.Width, cfg.Height
}

// ResolvePath maps an item name to a file path inside dir, refusing
// names that would escape it.
func ResolvePath(dir, name string) (string, error) {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return "", fmt.Errorf("invalid image name %q", name)
	}
	path := filepath.Join(dir, name)
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("stat image: %w", err)
	}
	if !info.Mode().IsRegular() {
		return "", fmt.Errorf("not a regular file: %s", name)
	}
	return path, nil
}
