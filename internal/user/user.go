package user

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleCashier Role = "cashier"
)

// MinPasswordLength applies to new accounts.
const MinPasswordLength = 6

var (
	ErrNotFound           = errors.New("user not found")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidInput       = errors.New("invalid user")
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// User is an operator account. Its ID scopes the catalog and sales it owns.
type User struct {
	ID           uuid.UUID
	Username     string
	ShopName     string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
