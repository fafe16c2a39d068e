package models

import "time"

// Roles a user can register with. Only owners may create book listings.
const (
	RoleOwner  = "owner"
	RoleSeeker = "seeker"
)

// User represents a registered account.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Mobile    string    `json:"mobile"`
	Email     string    `json:"email"`
	Password  string    `json:"password,omitempty"` // bcrypt hash; blanked before any API response
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// Sanitized returns a copy of the user safe to send to clients.
func (u User) Sanitized() User {
	u.Password = ""
	return u
}
