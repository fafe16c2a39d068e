package services

import (
	"errors"
	"testing"

	"github.com/SwapnilSonker/bookstore-backend/internal/models"
	"github.com/SwapnilSonker/bookstore-backend/internal/store"
)

func newTestUserService(t *testing.T) *UserService {
	t.Helper()
	st, err := store.New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return NewUserService(st)
}

func TestRegisterAndAuthenticate(t *testing.T) {
	svc := newTestUserService(t)

	user, err := svc.Register("Alice", "555-0100", "alice@example.com", "s3cret", models.RoleOwner)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.ID == "" {
		t.Error("registered user has empty id")
	}
	if user.Password != "" {
		t.Error("registered user response carries a secret")
	}
	if user.CreatedAt.IsZero() {
		t.Error("registered user has zero createdAt")
	}

	// The stored record must hold a hash, never the plain secret.
	stored, err := svc.store.Users.Load()
	if err != nil {
		t.Fatal(err)
	}
	if len(stored) != 1 {
		t.Fatalf("store holds %d users, want 1", len(stored))
	}
	if stored[0].Password == "s3cret" || stored[0].Password == "" {
		t.Errorf("stored password = %q, want a hash", stored[0].Password)
	}

	got, err := svc.Authenticate("alice@example.com", "s3cret")
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if got.ID != user.ID {
		t.Errorf("authenticated id = %s, want %s", got.ID, user.ID)
	}
	if got.Password != "" {
		t.Error("authenticated user response carries a secret")
	}

	if _, err := svc.Authenticate("alice@example.com", "wrong"); !errors.Is(err, models.ErrUnauthorized) {
		t.Errorf("bad password error = %v, want ErrUnauthorized", err)
	}
	if _, err := svc.Authenticate("nobody@example.com", "s3cret"); !errors.Is(err, models.ErrUnauthorized) {
		t.Errorf("unknown email error = %v, want ErrUnauthorized", err)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := newTestUserService(t)

	if _, err := svc.Register("Alice", "555-0100", "alice@example.com", "pw1", models.RoleOwner); err != nil {
		t.Fatalf("first Register: %v", err)
	}
	_, err := svc.Register("Alicia", "555-0101", "alice@example.com", "pw2", models.RoleSeeker)
	if !errors.Is(err, models.ErrConflict) {
		t.Fatalf("duplicate email error = %v, want ErrConflict", err)
	}

	users, err := svc.store.Users.Load()
	if err != nil {
		t.Fatal(err)
	}
	count := 0
	for _, u := range users {
		if u.Email == "alice@example.com" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("store holds %d records for the email, want exactly 1", count)
	}
}

func TestRegisterValidation(t *testing.T) {
	svc := newTestUserService(t)

	cases := []struct {
		name     string
		userName string
		mobile   string
		email    string
		password string
		role     string
	}{
		{"missing name", "", "555", "a@x.com", "pw", models.RoleOwner},
		{"missing mobile", "A", "", "a@x.com", "pw", models.RoleOwner},
		{"missing email", "A", "555", "", "pw", models.RoleOwner},
		{"missing password", "A", "555", "a@x.com", "", models.RoleOwner},
		{"missing role", "A", "555", "a@x.com", "pw", ""},
		{"invalid role", "A", "555", "a@x.com", "pw", "admin"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Register(tc.userName, tc.mobile, tc.email, tc.password, tc.role)
			if !errors.Is(err, models.ErrBadRequest) {
				t.Errorf("error = %v, want ErrBadRequest", err)
			}
		})
	}
}

func TestAuthenticateMissingFields(t *testing.T) {
	svc := newTestUserService(t)

	if _, err := svc.Authenticate("", "pw"); !errors.Is(err, models.ErrBadRequest) {
		t.Errorf("missing email error = %v, want ErrBadRequest", err)
	}
	if _, err := svc.Authenticate("a@x.com", ""); !errors.Is(err, models.ErrBadRequest) {
		t.Errorf("missing password error = %v, want ErrBadRequest", err)
	}
}

func TestGetUserByID(t *testing.T) {
	svc := newTestUserService(t)

	user, err := svc.Register("Bob", "555-0102", "bob@example.com", "pw", models.RoleSeeker)
	if err != nil {
		t.Fatal(err)
	}

	got, err := svc.GetUserByID(user.ID)
	if err != nil {
		t.Fatalf("GetUserByID: %v", err)
	}
	if got.Email != "bob@example.com" {
		t.Errorf("email = %s, want bob@example.com", got.Email)
	}
	if got.Password != "" {
		t.Error("user response carries a secret")
	}

	if _, err := svc.GetUserByID("missing"); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("unknown id error = %v, want ErrNotFound", err)
	}
}
