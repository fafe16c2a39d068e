package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/SwapnilSonker/bookstore-backend/internal/auth"
	"github.com/SwapnilSonker/bookstore-backend/internal/models"
	"github.com/SwapnilSonker/bookstore-backend/internal/store"
	ws "github.com/SwapnilSonker/bookstore-backend/internal/websocket"
)

// BookInput carries the fields for a new listing.
type BookInput struct {
	Title       string
	Author      string
	Genre       string
	Location    string
	ContactInfo string
}

// BookUpdate carries partial-update fields. A nil field means "leave the
// stored value alone"; IsAvailable in particular distinguishes absent from
// present-false.
type BookUpdate struct {
	Title       *string
	Author      *string
	Genre       *string
	Location    *string
	ContactInfo *string
	IsAvailable *bool
}

// ImageStore is the artifact store for listing cover images. Deletion is
// fire and forget.
type ImageStore interface {
	Delete(url string)
}

// BookServiceProvider defines the interface for book listing services.
type BookServiceProvider interface {
	GetAllBooks() ([]models.Book, error)
	GetBookByID(id string) (models.Book, error)
	CreateBook(owner models.User, input BookInput, imageURL string) (models.Book, error)
	UpdateBook(user models.User, id string, input BookUpdate, imageURL string) (models.Book, error)
	DeleteBook(user models.User, id string) error
	SearchBooks(query, location, genre string) ([]models.Book, error)
	GetBooksByOwner(ownerID string) ([]models.Book, error)
}

// BookService provides the listing lifecycle on top of the record store.
// Mutations run inside the store's update cycle; authorization runs after
// lookup and before any change is made.
type BookService struct {
	store  *store.Store
	images ImageStore
	hub    *ws.Hub
}

// NewBookService creates a new BookService. hub may be nil when no live
// feed is wired (tests).
func NewBookService(st *store.Store, images ImageStore, hub *ws.Hub) *BookService {
	return &BookService{store: st, images: images, hub: hub}
}

// GetAllBooks returns every listing.
func (s *BookService) GetAllBooks() ([]models.Book, error) {
	books, err := s.store.Books.Load()
	if err != nil {
		return nil, err
	}
	if books == nil {
		books = []models.Book{}
	}
	return books, nil
}

// GetBookByID returns a single listing.
func (s *BookService) GetBookByID(id string) (models.Book, error) {
	books, err := s.store.Books.Load()
	if err != nil {
		return models.Book{}, err
	}
	for _, b := range books {
		if b.ID == id {
			return b, nil
		}
	}
	return models.Book{}, fmt.Errorf("%w: book not found", models.ErrNotFound)
}

// CreateBook creates a listing for the authenticated owner. imageURL is a
// cover image already staged in the artifact store ("" when none); it is
// discarded on every failure path.
func (s *BookService) CreateBook(owner models.User, input BookInput, imageURL string) (models.Book, error) {
	book, err := s.createBook(owner, input, imageURL)
	if err != nil {
		if imageURL != "" {
			s.images.Delete(imageURL)
		}
		return models.Book{}, err
	}
	s.notify("book.created", book)
	return book, nil
}

func (s *BookService) createBook(owner models.User, input BookInput, imageURL string) (models.Book, error) {
	if err := auth.RequireRole(owner, models.RoleOwner); err != nil {
		return models.Book{}, err
	}
	if input.Title == "" || input.Author == "" || input.Location == "" {
		return models.Book{}, fmt.Errorf("%w: title, author, and location are required", models.ErrBadRequest)
	}

	genre := input.Genre
	if genre == "" {
		genre = models.GenreUnspecified
	}
	contact := input.ContactInfo
	if contact == "" {
		contact = owner.Email
	}
	if contact == "" {
		contact = owner.Mobile
	}

	now := time.Now().UTC()
	book := models.Book{
		ID:            uuid.New().String(),
		Title:         input.Title,
		Author:        input.Author,
		Genre:         genre,
		Location:      input.Location,
		ContactInfo:   contact,
		OwnerID:       owner.ID,
		OwnerName:     owner.Name,
		CoverImageURL: imageURL,
		IsAvailable:   true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	err := s.store.Books.Update(func(books []models.Book) ([]models.Book, error) {
		return append(books, book), nil
	})
	if err != nil {
		return models.Book{}, err
	}
	return book, nil
}

// UpdateBook applies a partial update to a listing owned by the caller.
// A newly staged cover image replaces the old artifact; the staged image
// is discarded on every failure path.
func (s *BookService) UpdateBook(user models.User, id string, input BookUpdate, imageURL string) (models.Book, error) {
	var updated models.Book
	err := s.store.Books.Update(func(books []models.Book) ([]models.Book, error) {
		i := findBook(books, id)
		if i < 0 {
			return nil, fmt.Errorf("%w: book not found", models.ErrNotFound)
		}
		if err := auth.RequireOwnership(user, books[i]); err != nil {
			return nil, err
		}

		b := books[i]
		if input.Title != nil {
			b.Title = *input.Title
		}
		if input.Author != nil {
			b.Author = *input.Author
		}
		if input.Genre != nil {
			b.Genre = *input.Genre
		}
		if input.Location != nil {
			b.Location = *input.Location
		}
		if input.ContactInfo != nil {
			b.ContactInfo = *input.ContactInfo
		}
		if input.IsAvailable != nil {
			b.IsAvailable = *input.IsAvailable
		}
		if imageURL != "" {
			if b.CoverImageURL != "" {
				s.images.Delete(b.CoverImageURL)
			}
			b.CoverImageURL = imageURL
		}
		b.UpdatedAt = time.Now().UTC()

		books[i] = b
		updated = b
		return books, nil
	})
	if err != nil {
		if imageURL != "" {
			s.images.Delete(imageURL)
		}
		return models.Book{}, err
	}
	s.notify("book.updated", updated)
	return updated, nil
}

// DeleteBook removes a listing owned by the caller along with its cover
// image artifact.
func (s *BookService) DeleteBook(user models.User, id string) error {
	var removed models.Book
	err := s.store.Books.Update(func(books []models.Book) ([]models.Book, error) {
		i := findBook(books, id)
		if i < 0 {
			return nil, fmt.Errorf("%w: book not found", models.ErrNotFound)
		}
		if err := auth.RequireOwnership(user, books[i]); err != nil {
			return nil, err
		}

		removed = books[i]
		if removed.CoverImageURL != "" {
			s.images.Delete(removed.CoverImageURL)
		}
		return append(books[:i], books[i+1:]...), nil
	})
	if err != nil {
		return err
	}
	s.notify("book.deleted", removed)
	return nil
}

// SearchBooks filters listings with case-insensitive substring matches:
// query against title or author, location against location, genre against
// genre. Filters are conjunctive; an empty parameter applies no filter.
func (s *BookService) SearchBooks(query, location, genre string) ([]models.Book, error) {
	books, err := s.store.Books.Load()
	if err != nil {
		return nil, err
	}

	matched := []models.Book{}
	query = strings.ToLower(query)
	location = strings.ToLower(location)
	genre = strings.ToLower(genre)
	for _, b := range books {
		if query != "" &&
			!strings.Contains(strings.ToLower(b.Title), query) &&
			!strings.Contains(strings.ToLower(b.Author), query) {
			continue
		}
		if location != "" && !strings.Contains(strings.ToLower(b.Location), location) {
			continue
		}
		if genre != "" && !strings.Contains(strings.ToLower(b.Genre), genre) {
			continue
		}
		matched = append(matched, b)
	}
	return matched, nil
}

// GetBooksByOwner returns the listings created by the given user.
func (s *BookService) GetBooksByOwner(ownerID string) ([]models.Book, error) {
	books, err := s.store.Books.Load()
	if err != nil {
		return nil, err
	}
	owned := []models.Book{}
	for _, b := range books {
		if b.OwnerID == ownerID {
			owned = append(owned, b)
		}
	}
	return owned, nil
}

func (s *BookService) notify(action string, book models.Book) {
	if s.hub == nil {
		return
	}
	s.hub.BroadcastEvent(action, book)
	log.Debug().Str("action", action).Str("book_id", book.ID).Msg("Broadcast listing event")
}

func findBook(books []models.Book, id string) int {
	for i, b := range books {
		if b.ID == id {
			return i
		}
	}
	return -1
}
