package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/SwapnilSonker/bookstore-backend/internal/models"
)

// Collection persists a named sequence of records as a single JSON
// document on disk, shaped {"<name>": [ ... ]}. Every Persist replaces the
// whole document; there is no append or patch path.
//
// Consistency model: within this process, Update serializes the whole
// read-modify-write cycle under a per-collection mutex. Across processes
// the file is still last-write-wins.
type Collection[T any] struct {
	mu   sync.Mutex
	path string
	key  string
}

// NewCollection creates a collection stored at <dir>/<name>.json.
func NewCollection[T any](dir, name string) *Collection[T] {
	return &Collection[T]{
		path: filepath.Join(dir, name+".json"),
		key:  name,
	}
}

// Load reads the whole document and returns the named array. A missing
// file is an empty collection; a corrupt or unreadable file is an error.
func (c *Collection[T]) Load() ([]T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.load()
}

// Persist replaces the on-disk document with the given records.
func (c *Collection[T]) Persist(records []T) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.persist(records)
}

// Update runs fn on the current records and persists its result, holding
// the collection lock across the whole load-modify-persist cycle. If fn
// returns an error nothing is written.
func (c *Collection[T]) Update(fn func([]T) ([]T, error)) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	records, err := c.load()
	if err != nil {
		return err
	}
	updated, err := fn(records)
	if err != nil {
		return err
	}
	return c.persist(updated)
}

func (c *Collection[T]) load() ([]T, error) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read %s: %w", c.path, err)
	}

	var doc map[string][]T
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", c.path, err)
	}
	return doc[c.key], nil
}

func (c *Collection[T]) persist(records []T) error {
	if records == nil {
		records = []T{}
	}
	data, err := json.MarshalIndent(map[string][]T{c.key: records}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", c.key, err)
	}

	// Write to a temp file and rename so readers never see a partial document.
	tmp := c.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, c.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replace %s: %w", c.path, err)
	}
	return nil
}

// Store bundles the application's two collections.
type Store struct {
	Users *Collection[models.User]
	Books *Collection[models.Book]
}

// New creates the data directory if needed and opens both collections.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	return &Store{
		Users: NewCollection[models.User](dir, "users"),
		Books: NewCollection[models.Book](dir, "books"),
	}, nil
}
