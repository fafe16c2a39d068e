package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/SwapnilSonker/bookstore-backend/internal/models"
	"github.com/SwapnilSonker/bookstore-backend/internal/store"
)

// UserServiceProvider defines the interface for user services.
type UserServiceProvider interface {
	Register(name, mobile, email, password, role string) (models.User, error)
	Authenticate(email, password string) (models.User, error)
	GetUserByID(id string) (models.User, error)
}

// UserService provides registration and credential verification on top of
// the record store. Passwords are bcrypt-hashed at rest; callers only ever
// see sanitized users.
type UserService struct {
	store *store.Store
}

// NewUserService creates a new UserService.
func NewUserService(st *store.Store) *UserService {
	return &UserService{store: st}
}

// Register creates a new account. Email uniqueness is checked inside the
// store's update cycle so two concurrent registrations cannot both win.
func (s *UserService) Register(name, mobile, email, password, role string) (models.User, error) {
	if name == "" || mobile == "" || email == "" || password == "" || role == "" {
		return models.User{}, fmt.Errorf("%w: all fields are required", models.ErrBadRequest)
	}
	if role != models.RoleOwner && role != models.RoleSeeker {
		return models.User{}, fmt.Errorf("%w: role must be either 'owner' or 'seeker'", models.ErrBadRequest)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		ID:        uuid.New().String(),
		Name:      name,
		Mobile:    mobile,
		Email:     email,
		Password:  string(hashed),
		Role:      role,
		CreatedAt: time.Now().UTC(),
	}

	err = s.store.Users.Update(func(users []models.User) ([]models.User, error) {
		for _, u := range users {
			if u.Email == email {
				return nil, fmt.Errorf("%w: email already registered", models.ErrConflict)
			}
		}
		return append(users, user), nil
	})
	if err != nil {
		return models.User{}, err
	}

	return user.Sanitized(), nil
}

// Authenticate verifies an email/password pair.
func (s *UserService) Authenticate(email, password string) (models.User, error) {
	if email == "" || password == "" {
		return models.User{}, fmt.Errorf("%w: email and password are required", models.ErrBadRequest)
	}

	users, err := s.store.Users.Load()
	if err != nil {
		return models.User{}, err
	}
	for _, u := range users {
		if u.Email != email {
			continue
		}
		if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) != nil {
			break
		}
		return u.Sanitized(), nil
	}
	return models.User{}, fmt.Errorf("%w: invalid credentials", models.ErrUnauthorized)
}

// GetUserByID retrieves a single user by their ID.
func (s *UserService) GetUserByID(id string) (models.User, error) {
	users, err := s.store.Users.Load()
	if err != nil {
		return models.User{}, err
	}
	for _, u := range users {
		if u.ID == id {
			return u.Sanitized(), nil
		}
	}
	return models.User{}, fmt.Errorf("%w: user not found", models.ErrNotFound)
}
