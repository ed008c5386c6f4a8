package auth

// Bearer es lo que un adapter necesita de la sesión para llamar
// autenticado al backend.
type Bearer interface {
	Token() string
	// Revoke se invoca cuando el backend responde 401/403.
	Revoke()
}

type anonymous struct{}

func (anonymous) Token() string { return "" }
func (anonymous) Revoke()       {}

// Anonymous se usa en llamadas públicas (catálogo, formulario de adopción).
var Anonymous Bearer = anonymous{}
