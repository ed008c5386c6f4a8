package roles

import (
	"context"
	"errors"
	"os"
	"strings"

	"shire-of-paws/internal/ports/capabilities"
)

var ErrCapabilityRequired = errors.New("capability required")

// Policy: rol (normalizado, sin prefijo ROLE_) -> capabilities.
type Policy map[string][]capabilities.Capability

// DefaultPolicy: el backend del refugio solo emite tokens a administradores,
// así que un token sin rol se trata como ADMIN.
func DefaultPolicy() Policy {
	all := []capabilities.Capability{
		capabilities.DashboardRead,
		capabilities.DogsWrite,
		capabilities.RequestsTriage,
		capabilities.FilesUpload,
	}
	return Policy{
		"":      all,
		"ADMIN": all,
		"VOLUNTEER": {
			capabilities.DashboardRead,
		},
	}
}

// Resolver implementa capabilities.CapabilitiesResolver a partir del rol del token.
type Resolver struct {
	policy   Policy
	allowAll bool
}

// NewResolver crea un resolver.
// Si ALLOW_ALL_CAPABILITIES=true (env), todo devuelve true (modo dev).
func NewResolver(policy Policy) *Resolver {
	if policy == nil {
		policy = DefaultPolicy()
	}
	allowAll := strings.EqualFold(strings.TrimSpace(os.Getenv("ALLOW_ALL_CAPABILITIES")), "true")
	return &Resolver{
		policy:   policy,
		allowAll: allowAll,
	}
}

func (r *Resolver) HasFeature(_ context.Context, in capabilities.CapabilityCheck) (bool, error) {
	if strings.TrimSpace(string(in.Capability)) == "" {
		return false, ErrCapabilityRequired
	}
	if r.allowAll {
		return true, nil
	}

	for _, c := range r.policy[normalizeRole(in.Role)] {
		if c == in.Capability {
			return true, nil
		}
	}
	return false, nil
}

// Resolve devuelve todas las capabilities del rol (para GET /api/admin/me).
func (r *Resolver) Resolve(_ context.Context, role string) []capabilities.Capability {
	if r.allowAll {
		return DefaultPolicy()["ADMIN"]
	}
	caps := r.policy[normalizeRole(role)]
	out := make([]capabilities.Capability, len(caps))
	copy(out, caps)
	return out
}

func normalizeRole(role string) string {
	role = strings.ToUpper(strings.TrimSpace(role))
	return strings.TrimPrefix(role, "ROLE_")
}
