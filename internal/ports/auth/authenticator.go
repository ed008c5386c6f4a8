package auth

import (
	"context"
	"errors"
)

// ErrInvalidCredentials: el backend rechazó email/password (401/403).
var ErrInvalidCredentials = errors.New("invalid email or password")

type LoginResult struct {
	Token string
	Email string
}

// Authenticator cambia credenciales por un token del backend.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (LoginResult, error)
}
