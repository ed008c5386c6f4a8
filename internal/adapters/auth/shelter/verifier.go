package shelter

import (
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"shire-of-paws/internal/ports/auth"
)

var (
	ErrTokenEmpty = errors.New("token is empty")
)

type tokenClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
	// Spring suele emitir "roles" o "authorities" como lista.
	Roles []string `json:"roles,omitempty"`
}

// Inspector implementa auth.TokenInspector leyendo el JWT sin verificar firma.
// La firma la valida el backend en cada request; acá solo nos interesa exp/sub/email.
type Inspector struct {
	parser *jwt.Parser
}

func NewInspector() *Inspector {
	return &Inspector{parser: jwt.NewParser()}
}

func (i *Inspector) Inspect(token string) (auth.Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Claims{}, ErrTokenEmpty
	}

	var tc tokenClaims
	if _, _, err := i.parser.ParseUnverified(token, &tc); err != nil {
		return auth.Claims{}, fmt.Errorf("shelter token: %w", err)
	}

	out := auth.Claims{
		Subject: strings.TrimSpace(tc.Subject),
		Email:   strings.TrimSpace(tc.Email),
		Role:    strings.TrimSpace(tc.Role),
	}
	if out.Role == "" && len(tc.Roles) > 0 {
		out.Role = strings.TrimSpace(tc.Roles[0])
	}
	if out.Email == "" && strings.Contains(out.Subject, "@") {
		out.Email = out.Subject
	}
	if tc.ExpiresAt != nil {
		out.ExpiresAt = tc.ExpiresAt.Time
	}
	return out, nil
}
