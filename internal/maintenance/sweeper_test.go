package maintenance

import (
	"os"
	"path"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/SwapnilSonker/bookstore-backend/internal/imagestore"
	"github.com/SwapnilSonker/bookstore-backend/internal/models"
	"github.com/SwapnilSonker/bookstore-backend/internal/store"
)

func TestSweepRemovesOnlyOrphanedImages(t *testing.T) {
	st, err := store.New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	images, err := imagestore.New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	age := func(url string) {
		past := time.Now().Add(-time.Hour)
		if err := os.Chtimes(filepath.Join(images.Dir(), path.Base(url)), past, past); err != nil {
			t.Fatal(err)
		}
	}

	referencedURL, err := images.Save("kept.png", strings.NewReader("x"))
	if err != nil {
		t.Fatal(err)
	}
	age(referencedURL)

	orphanURL, err := images.Save("orphan.png", strings.NewReader("x"))
	if err != nil {
		t.Fatal(err)
	}
	age(orphanURL)

	// A fresh upload is inside the staging grace window and must survive
	// even though nothing references it yet.
	stagedURL, err := images.Save("staged.png", strings.NewReader("x"))
	if err != nil {
		t.Fatal(err)
	}

	err = st.Books.Persist([]models.Book{{ID: "b1", CoverImageURL: referencedURL}})
	if err != nil {
		t.Fatal(err)
	}

	sweeper, err := NewSweeper(st, images, "@hourly")
	if err != nil {
		t.Fatal(err)
	}
	sweeper.sweep()

	exists := func(url string) bool {
		_, err := os.Stat(filepath.Join(images.Dir(), path.Base(url)))
		return err == nil
	}
	if !exists(referencedURL) {
		t.Error("referenced image was swept")
	}
	if exists(orphanURL) {
		t.Error("orphaned image survived the sweep")
	}
	if !exists(stagedURL) {
		t.Error("freshly staged image was swept")
	}
}

func TestNewSweeperRejectsBadSchedule(t *testing.T) {
	st, err := store.New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	images, err := imagestore.New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	if _, err := NewSweeper(st, images, "every sometimes"); err == nil {
		t.Fatal("invalid schedule accepted")
	}
}
