package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/SwapnilSonker/bookstore-backend/internal/auth"
	"github.com/SwapnilSonker/bookstore-backend/internal/imagestore"
	"github.com/SwapnilSonker/bookstore-backend/internal/models"
	"github.com/SwapnilSonker/bookstore-backend/internal/services"
)

// BookHandler handles HTTP requests for book listings.
type BookHandler struct {
	service   services.BookServiceProvider
	users     services.UserServiceProvider
	images    *imagestore.Store
	maxUpload int64
}

// NewBookHandler creates a new BookHandler.
func NewBookHandler(service services.BookServiceProvider, users services.UserServiceProvider, images *imagestore.Store, maxUpload int64) *BookHandler {
	return &BookHandler{service: service, users: users, images: images, maxUpload: maxUpload}
}

// GetAll handles the request to get all listings.
func (h *BookHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	books, err := h.service.GetAllBooks()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, books)
}

// Get handles the request to get a single listing by its ID.
func (h *BookHandler) Get(w http.ResponseWriter, r *http.Request) {
	book, err := h.service.GetBookByID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, book)
}

// Create handles the request to list a new book. Accepts multipart form
// data with an optional coverImage file, or a plain JSON body.
func (h *BookHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, err := h.currentUser(r)
	if err != nil {
		writeError(w, err)
		return
	}

	input, imageURL, err := h.parseCreateRequest(r)
	if err != nil {
		writeError(w, err)
		return
	}

	book, err := h.service.CreateBook(user, input, imageURL)
	if err != nil {
		log.Warn().Err(err).Str("user_id", user.ID).Msg("Failed to create book listing")
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Book listed successfully",
		"book":    book,
	})
}

// Update handles a partial update of a listing.
func (h *BookHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, err := h.currentUser(r)
	if err != nil {
		writeError(w, err)
		return
	}

	input, imageURL, err := h.parseUpdateRequest(r)
	if err != nil {
		writeError(w, err)
		return
	}

	book, err := h.service.UpdateBook(user, chi.URLParam(r, "id"), input, imageURL)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Book updated successfully",
		"book":    book,
	})
}

// Delete handles the removal of a listing.
func (h *BookHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, err := h.currentUser(r)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.service.DeleteBook(user, chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Book deleted successfully"})
}

// Search filters listings by query, location and genre query parameters.
func (h *BookHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	books, err := h.service.SearchBooks(q.Get("query"), q.Get("location"), q.Get("genre"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, books)
}

// GetByOwner returns the listings created by one user.
func (h *BookHandler) GetByOwner(w http.ResponseWriter, r *http.Request) {
	books, err := h.service.GetBooksByOwner(chi.URLParam(r, "ownerId"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, books)
}

// currentUser resolves the authenticated caller to a full user record.
// A valid token whose user no longer exists is treated as unauthorized.
func (h *BookHandler) currentUser(r *http.Request) (models.User, error) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		return models.User{}, fmt.Errorf("%w: authentication required", models.ErrUnauthorized)
	}
	user, err := h.users.GetUserByID(claims.UserID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.User{}, fmt.Errorf("%w: user not found", models.ErrUnauthorized)
		}
		return models.User{}, err
	}
	return user, nil
}

func isMultipart(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "multipart/form-data"
}

// parseCreateRequest extracts listing fields and stages an uploaded cover
// image, returning its URL ("" when none was sent).
func (h *BookHandler) parseCreateRequest(r *http.Request) (services.BookInput, string, error) {
	if !isMultipart(r) {
		var payload struct {
			Title       string `json:"title"`
			Author      string `json:"author"`
			Genre       string `json:"genre"`
			Location    string `json:"location"`
			ContactInfo string `json:"contactInfo"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			return services.BookInput{}, "", fmt.Errorf("%w: invalid request body", models.ErrBadRequest)
		}
		return services.BookInput{
			Title:       payload.Title,
			Author:      payload.Author,
			Genre:       payload.Genre,
			Location:    payload.Location,
			ContactInfo: payload.ContactInfo,
		}, "", nil
	}

	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		return services.BookInput{}, "", fmt.Errorf("%w: invalid multipart form", models.ErrBadRequest)
	}
	input := services.BookInput{
		Title:       r.FormValue("title"),
		Author:      r.FormValue("author"),
		Genre:       r.FormValue("genre"),
		Location:    r.FormValue("location"),
		ContactInfo: r.FormValue("contactInfo"),
	}
	imageURL, err := h.stageCoverImage(r)
	if err != nil {
		return services.BookInput{}, "", err
	}
	return input, imageURL, nil
}

// parseUpdateRequest extracts partial-update fields. In form bodies an
// empty string counts as absent, matching the PATCH semantics of the
// listing lifecycle; isAvailable is tri-state and only set when present.
func (h *BookHandler) parseUpdateRequest(r *http.Request) (services.BookUpdate, string, error) {
	if !isMultipart(r) {
		var payload struct {
			Title       *string `json:"title"`
			Author      *string `json:"author"`
			Genre       *string `json:"genre"`
			Location    *string `json:"location"`
			ContactInfo *string `json:"contactInfo"`
			IsAvailable *bool   `json:"isAvailable"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			return services.BookUpdate{}, "", fmt.Errorf("%w: invalid request body", models.ErrBadRequest)
		}
		input := services.BookUpdate{
			Title:       nonEmpty(payload.Title),
			Author:      nonEmpty(payload.Author),
			Genre:       nonEmpty(payload.Genre),
			Location:    nonEmpty(payload.Location),
			ContactInfo: nonEmpty(payload.ContactInfo),
			IsAvailable: payload.IsAvailable,
		}
		return input, "", nil
	}

	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		return services.BookUpdate{}, "", fmt.Errorf("%w: invalid multipart form", models.ErrBadRequest)
	}
	input := services.BookUpdate{
		Title:       formPtr(r, "title"),
		Author:      formPtr(r, "author"),
		Genre:       formPtr(r, "genre"),
		Location:    formPtr(r, "location"),
		ContactInfo: formPtr(r, "contactInfo"),
	}
	if values, ok := r.MultipartForm.Value["isAvailable"]; ok && len(values) > 0 {
		avail, err := strconv.ParseBool(values[0])
		if err != nil {
			return services.BookUpdate{}, "", fmt.Errorf("%w: isAvailable must be a boolean", models.ErrBadRequest)
		}
		input.IsAvailable = &avail
	}
	imageURL, err := h.stageCoverImage(r)
	if err != nil {
		return services.BookUpdate{}, "", err
	}
	return input, imageURL, nil
}

func (h *BookHandler) stageCoverImage(r *http.Request) (string, error) {
	file, header, err := r.FormFile("coverImage")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return "", nil
		}
		return "", fmt.Errorf("%w: invalid cover image", models.ErrBadRequest)
	}
	defer file.Close()
	return h.images.Save(header.Filename, file)
}

func nonEmpty(s *string) *string {
	if s != nil && *s == "" {
		return nil
	}
	return s
}

func formPtr(r *http.Request, key string) *string {
	if v := r.FormValue(key); v != "" {
		return &v
	}
	return nil
}
