package auth

import "time"

// Claims representa la información extraída del token del backend.
type Claims struct {
	Subject   string
	Email     string
	Role      string
	ExpiresAt time.Time // zero => sin exp en el token
}

// Expired reporta si el token ya venció respecto de now.
func (c Claims) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && !now.Before(c.ExpiresAt)
}
