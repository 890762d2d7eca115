package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Role enum
type Role string

const (
	RoleRadiologist Role = "radiologist"
	RoleTechnician  Role = "technician"
	RoleAdmin       Role = "admin"
)

// ValidRegistrationRole reports whether a role may be chosen at registration.
// Admin accounts are provisioned out of band, never through the public form.
func ValidRegistrationRole(r Role) bool {
	return r == RoleRadiologist || r == RoleTechnician
}

// User represents a registered user in the system. Users are created at
// registration and never modified or deleted afterwards.
type User struct {
	BaseModel
	FullName string `gorm:"size:255;not null" json:"fullName"`
	Email    string `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Role     Role   `gorm:"size:20;not null" json:"role"`
	Password string `gorm:"size:255;not null" json:"-"` // Never send password in JSON
}

// Principal is the authenticated identity attached to a session. It is the
// only user information carried through request handling.
type Principal struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   Role   `json:"role"`
}

// Principal builds the session principal for this user.
func (u *User) Principal() Principal {
	return Principal{
		UserID: u.ID,
		Name:   u.FullName,
		Email:  u.Email,
		Role:   u.Role,
	}
}

// UserSanitized represents the user data that is safe to send in API responses.
type UserSanitized struct {
	ID        string    `json:"id"`
	FullName  string    `json:"fullName"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// SetPassword hashes a password and sets it on the user
func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashedPassword)
	return nil
}

// CheckPassword compares a password with the user's hashed password
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
	return err == nil
}

// Sanitize creates a UserSanitized struct from a User model, excluding sensitive data.
func (u *User) Sanitize() UserSanitized {
	return UserSanitized{
		ID:        u.ID,
		FullName:  u.FullName,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}
