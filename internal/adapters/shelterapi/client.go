// Package shelterapi implementa los repositorios de dogs, files y adoption
// requests sobre la API REST del refugio.
package shelterapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"shire-of-paws/internal/platform/httpclient"
	"shire-of-paws/internal/ports/auth"
)

// Client es el acceso autenticado al backend. Cada llamada lleva el token
// de la sesión; un 401/403 revoca esa sesión.
type Client struct {
	http *httpclient.Client
}

func New(hc *httpclient.Client) *Client {
	return &Client{http: hc}
}

func headers(b auth.Bearer) map[string]string {
	if b == nil || b.Token() == "" {
		return nil
	}
	return map[string]string{"Authorization": "Bearer " + b.Token()}
}

func (c *Client) call(ctx context.Context, b auth.Bearer, op, method, path string, in, out any) error {
	ctx = httpclient.WithOperation(ctx, op)
	return c.check(b, c.http.DoJSON(ctx, method, path, headers(b), in, out))
}

// check revoca la sesión ante 401/403 y devuelve err tal cual.
func (c *Client) check(b auth.Bearer, err error) error {
	if err != nil && b != nil && httpclient.IsUnauthorized(err) {
		b.Revoke()
	}
	return err
}

// notFound envuelve err con sentinel si el backend respondió 404.
func notFound(err, sentinel error) error {
	if err == nil {
		return nil
	}
	if httpclient.StatusOf(err) == http.StatusNotFound && !errors.Is(err, sentinel) {
		return fmt.Errorf("%w: %w", sentinel, err)
	}
	return err
}

func withQuery(path string, q url.Values) string {
	if len(q) == 0 {
		return path
	}
	return path + "?" + q.Encode()
}

func setInt(q url.Values, k string, v int) {
	q.Set(k, strconv.Itoa(v))
}

func setIf(q url.Values, k, v string) {
	if v != "" {
		q.Set(k, v)
	}
}
