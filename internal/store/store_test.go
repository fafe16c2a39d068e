package store

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/SwapnilSonker/bookstore-backend/internal/models"
)

func TestCollectionRoundTrip(t *testing.T) {
	dir := t.TempDir()
	users := NewCollection[models.User](dir, "users")

	want := []models.User{
		{ID: "u1", Name: "Alice", Email: "alice@example.com", Role: models.RoleOwner, CreatedAt: time.Now().UTC().Truncate(time.Second)},
		{ID: "u2", Name: "Bob", Email: "bob@example.com", Role: models.RoleSeeker, CreatedAt: time.Now().UTC().Truncate(time.Second)},
	}
	if err := users.Persist(want); err != nil {
		t.Fatalf("Persist: %v", err)
	}

	got, err := users.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("loaded %d users, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].ID != want[i].ID || got[i].Name != want[i].Name ||
			got[i].Email != want[i].Email || got[i].Role != want[i].Role {
			t.Errorf("user %d = %+v, want %+v", i, got[i], want[i])
		}
		if !got[i].CreatedAt.Equal(want[i].CreatedAt) {
			t.Errorf("user %d createdAt = %v, want %v", i, got[i].CreatedAt, want[i].CreatedAt)
		}
	}
}

func TestLoadMissingFileReturnsEmpty(t *testing.T) {
	books := NewCollection[models.Book](t.TempDir(), "books")

	got, err := books.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("loaded %d books from missing file, want 0", len(got))
	}
}

func TestLoadCorruptFileReturnsError(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "books.json"), []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	books := NewCollection[models.Book](dir, "books")

	if _, err := books.Load(); err == nil {
		t.Fatal("Load on corrupt file returned nil error")
	}
}

func TestPersistReplacesWholeDocument(t *testing.T) {
	dir := t.TempDir()
	books := NewCollection[models.Book](dir, "books")

	if err := books.Persist([]models.Book{{ID: "b1"}, {ID: "b2"}}); err != nil {
		t.Fatalf("first Persist: %v", err)
	}
	if err := books.Persist([]models.Book{{ID: "b3"}}); err != nil {
		t.Fatalf("second Persist: %v", err)
	}

	got, err := books.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got) != 1 || got[0].ID != "b3" {
		t.Fatalf("got %+v, want exactly b3", got)
	}

	data, err := os.ReadFile(filepath.Join(dir, "books.json"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"books"`) {
		t.Errorf("document missing collection key: %s", data)
	}
}

func TestUpdateErrorWritesNothing(t *testing.T) {
	dir := t.TempDir()
	books := NewCollection[models.Book](dir, "books")
	if err := books.Persist([]models.Book{{ID: "b1"}}); err != nil {
		t.Fatal(err)
	}

	wantErr := os.ErrPermission
	err := books.Update(func(records []models.Book) ([]models.Book, error) {
		return nil, wantErr
	})
	if err != wantErr {
		t.Fatalf("Update error = %v, want %v", err, wantErr)
	}

	got, err := books.Load()
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].ID != "b1" {
		t.Fatalf("collection changed after failed update: %+v", got)
	}
}

// Concurrent Update calls must not lose writes; the whole read-modify-write
// cycle is serialized per collection.
func TestUpdateSerializesConcurrentWriters(t *testing.T) {
	books := NewCollection[models.Book](t.TempDir(), "books")

	const writers = 20
	var wg sync.WaitGroup
	wg.Add(writers)
	for i := 0; i < writers; i++ {
		go func(n int) {
			defer wg.Done()
			err := books.Update(func(records []models.Book) ([]models.Book, error) {
				return append(records, models.Book{ID: string(rune('a' + n))}), nil
			})
			if err != nil {
				t.Errorf("Update: %v", err)
			}
		}(i)
	}
	wg.Wait()

	got, err := books.Load()
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != writers {
		t.Fatalf("got %d records after %d concurrent updates", len(got), writers)
	}
}
