package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"radiology-app-server/internal/models"
	"radiology-app-server/internal/store"
)

const minPasswordLength = 6

// AuthService validates credentials against the user store and establishes
// session principals.
type AuthService struct {
	users store.UserStore
}

// NewAuthService creates an AuthService.
func NewAuthService(users store.UserStore) *AuthService {
	return &AuthService{users: users}
}

// RegisterInput carries the registration form fields.
type RegisterInput struct {
	FullName        string
	Email           string
	Role            string
	Password        string
	ConfirmPassword string
}

// Register creates a new user account. Emails are normalized to lowercase so
// duplicate detection is case-insensitive; the plaintext password is never
// stored, only its bcrypt hash.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	fullName := strings.TrimSpace(in.FullName)
	email := strings.ToLower(strings.TrimSpace(in.Email))
	role := models.Role(strings.TrimSpace(in.Role))

	if fullName == "" || email == "" || role == "" || in.Password == "" || in.ConfirmPassword == "" {
		return nil, validationErrorf("All fields are required!")
	}
	if !models.ValidRegistrationRole(role) {
		return nil, validationErrorf("Invalid role selected!")
	}
	if in.Password != in.ConfirmPassword {
		return nil, validationErrorf("Passwords do not match!")
	}
	if len(in.Password) < minPasswordLength {
		return nil, validationErrorf("Password must be at least %d characters long!", minPasswordLength)
	}

	if _, err := s.users.ByEmail(ctx, email); err == nil {
		return nil, ErrDuplicateEmail
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("checking existing email: %w", err)
	}

	user := &models.User{
		FullName: fullName,
		Email:    email,
		Role:     role,
	}
	if err := user.SetPassword(in.Password); err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	// The unique index on users.email closes the race between the lookup
	// above and this insert.
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("creating user: %w", err)
	}
	return user, nil
}

// Login checks the credentials and returns the session principal. Unknown
// email and wrong password produce the identical error so the response never
// reveals which one failed.
func (s *AuthService) Login(ctx context.Context, email, password string) (models.Principal, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return models.Principal{}, validationErrorf("Email and password are required!")
	}

	user, err := s.users.ByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return models.Principal{}, ErrInvalidCredentials
		}
		return models.Principal{}, fmt.Errorf("looking up user: %w", err)
	}
	if !user.CheckPassword(password) {
		return models.Principal{}, ErrInvalidCredentials
	}
	return user.Principal(), nil
}
