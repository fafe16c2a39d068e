package imagestore

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/SwapnilSonker/bookstore-backend/internal/models"
)

// URLPrefix is the public path under which stored images are served.
const URLPrefix = "/uploads/"

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// Store keeps uploaded cover images on disk under a single directory and
// hands out URL paths of the form /uploads/<uuid><ext>.
type Store struct {
	dir string
}

// New creates the upload directory if needed.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create upload directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the directory images are stored in.
func (s *Store) Dir() string {
	return s.dir
}

// Save stores an image under a fresh name and returns its public URL path.
// The original filename is only used for its extension.
func (s *Store) Save(filename string, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedExtensions[ext] {
		return "", fmt.Errorf("%w: unsupported image type %q", models.ErrBadRequest, ext)
	}

	name := uuid.New().String() + ext
	dst := filepath.Join(s.dir, name)
	f, err := os.Create(dst)
	if err != nil {
		return "", fmt.Errorf("store image: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(dst)
		return "", fmt.Errorf("store image: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(dst)
		return "", fmt.Errorf("store image: %w", err)
	}
	return URLPrefix + name, nil
}

// Delete removes a stored image by its URL path. Deletion is best effort;
// a failure is logged and never surfaced to the caller.
func (s *Store) Delete(url string) {
	name := path.Base(url)
	if name == "." || name == "/" || name == ".." {
		return
	}
	if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Str("image", url).Msg("Failed to delete stored image")
	}
}

// ListOlderThan returns the URL paths of stored images whose modification
// time is older than the given age. Freshly staged uploads are excluded so
// the sweeper cannot race an in-flight listing creation.
func (s *Store) ListOlderThan(age time.Duration) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("list upload directory: %w", err)
	}

	cutoff := time.Now().Add(-age)
	var urls []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			urls = append(urls, URLPrefix+entry.Name())
		}
	}
	return urls, nil
}
