package auth

import (
	"errors"
	"testing"

	"github.com/SwapnilSonker/bookstore-backend/internal/models"
)

func TestRequireRole(t *testing.T) {
	owner := models.User{ID: "u1", Role: models.RoleOwner}
	seeker := models.User{ID: "u2", Role: models.RoleSeeker}

	if err := RequireRole(owner, models.RoleOwner); err != nil {
		t.Errorf("owner rejected: %v", err)
	}
	if err := RequireRole(seeker, models.RoleOwner); !errors.Is(err, models.ErrForbidden) {
		t.Errorf("seeker error = %v, want ErrForbidden", err)
	}
}

func TestRequireOwnership(t *testing.T) {
	owner := models.User{ID: "u1"}
	stranger := models.User{ID: "u2"}
	book := models.Book{ID: "b1", OwnerID: "u1"}

	if err := RequireOwnership(owner, book); err != nil {
		t.Errorf("owner rejected: %v", err)
	}
	if err := RequireOwnership(stranger, book); !errors.Is(err, models.ErrForbidden) {
		t.Errorf("stranger error = %v, want ErrForbidden", err)
	}
}
