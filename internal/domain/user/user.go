package user

import (
	"errors"
	"strings"
	"time"
)

const (
	RoleUser  = "ROLE_USER"
	RoleAdmin = "ROLE_ADMIN"
)

var (
	ErrNotFound         = errors.New("user not found")
	ErrEmailAlreadyUsed = errors.New("email already in use")
	ErrNoRoles          = errors.New("user must have at least one role")
)

type User struct {
	ID                   string     `json:"id"`
	Name                 string     `json:"name"`
	Email                string     `json:"email"`
	PasswordHash         string     `json:"-"` // never expose hash in JSON
	Roles                []string   `json:"roles"`
	EmailActivationToken *string    `json:"-"`
	EmailActivatedAt     *time.Time `json:"emailActivatedAt,omitempty"`
	CreatedAt            time.Time  `json:"createdAt"`
	UpdatedAt            time.Time  `json:"updatedAt"`
}

func (u User) Activated() bool {
	return u.EmailActivatedAt != nil
}

// NormalizeEmail is applied before every lookup and save so the unique
// index compares like with like.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// IsKnownRole reports whether r is one of the roles the authorization gate understands.
func IsKnownRole(r string) bool {
	return r == RoleUser || r == RoleAdmin
}

type RegisterRequest struct {
	Name     string `json:"name" binding:"required,min=3,max=50"`
	Email    string `json:"email" binding:"required,email,max=100"`
	Password string `json:"password" binding:"required,min=6,max=20"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6,max=20"`
}

// UpdateRequest is a partial profile update; empty fields are left untouched.
type UpdateRequest struct {
	Name                 string `json:"name" binding:"omitempty,min=3,max=50"`
	Password             string `json:"password" binding:"omitempty,min=6,max=20"`
	PasswordConfirmation string `json:"passwordConfirmation" binding:"omitempty,min=6,max=20"`
}
