package auth

import (
	"fmt"

	"github.com/SwapnilSonker/bookstore-backend/internal/models"
)

// RequireRole checks that the user holds the given role. Pure predicate,
// no side effects; must run after identity is established and before any
// mutation begins.
func RequireRole(user models.User, role string) error {
	if user.Role != role {
		return fmt.Errorf("%w: only book owners can perform this action", models.ErrForbidden)
	}
	return nil
}

// RequireOwnership checks that the user created the given listing.
func RequireOwnership(user models.User, book models.Book) error {
	if book.OwnerID != user.ID {
		return fmt.Errorf("%w: you can only modify your own book listings", models.ErrForbidden)
	}
	return nil
}
