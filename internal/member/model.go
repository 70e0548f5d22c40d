package member

import (
	"errors"

	"github.com/tiendita/shop-api/internal/audit"
)

type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

var (
	ErrNotFound       = errors.New("member not found")
	ErrDuplicate      = errors.New("member already registered")
	ErrBadCredentials = errors.New("invalid email or password")
	ErrNoSession      = errors.New("session not found or expired")
)

type Member struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	Address      string `json:"address"`
	Role         Role   `json:"role"`
	audit.Fields
}
