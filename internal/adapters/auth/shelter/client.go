package shelter

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"shire-of-paws/internal/platform/httpclient"
	"shire-of-paws/internal/ports/auth"
)

var (
	// ErrInvalidCredentials es el mismo sentinel del port.
	ErrInvalidCredentials = auth.ErrInvalidCredentials
	ErrUpstream           = errors.New("shelter auth upstream error")
)

const loginPath = "/api/auth/login"

// Client llama al login del backend del refugio.
type Client struct {
	http *httpclient.Client
}

func NewClient(hc *httpclient.Client) *Client {
	return &Client{http: hc}
}

type loginResponse struct {
	Token string `json:"token"`
	Email string `json:"email"`
}

// Login devuelve ErrInvalidCredentials ante 401/403.
// El resto de fallos se envuelve en ErrUpstream conservando el HTTPError
// para que el caller pueda mostrar el mensaje del backend.
func (c *Client) Login(ctx context.Context, email, password string) (auth.LoginResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return auth.LoginResult{}, ErrInvalidCredentials
	}

	body := map[string]string{
		"email":    email,
		"password": password,
	}

	var out loginResponse
	ctx = httpclient.WithOperation(ctx, "auth.login")
	if err := c.http.DoJSON(ctx, http.MethodPost, loginPath, nil, body, &out); err != nil {
		if httpclient.IsUnauthorized(err) {
			return auth.LoginResult{}, ErrInvalidCredentials
		}
		return auth.LoginResult{}, fmt.Errorf("%w: %w", ErrUpstream, err)
	}

	res := auth.LoginResult{
		Token: strings.TrimSpace(out.Token),
		Email: strings.TrimSpace(out.Email),
	}
	if res.Token == "" {
		return auth.LoginResult{}, fmt.Errorf("%w: response missing token", ErrUpstream)
	}
	if res.Email == "" {
		res.Email = email
	}
	return res, nil
}
