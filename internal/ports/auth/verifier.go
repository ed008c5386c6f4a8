package auth

// TokenInspector lee los claims de un token emitido por el backend.
// No verifica firma: el backend es quien la valida en cada llamada.
type TokenInspector interface {
	Inspect(token string) (Claims, error)
}
