// Package apierror estandariza las respuestas de error del BFF.
//
//   - errores de validación: 422 {"errors": {campo: mensaje}}
//   - el resto: {"error": {code, message, request_id, redirect}}
package apierror

import (
	"encoding/json"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// Códigos estables para el front.
const (
	CodeInvalidArgument = "invalid_argument"
	CodeValidation      = "validation_failed"
	CodeNotFound        = "not_found"
	CodeConflict        = "conflict"
	CodeUnauthenticated = "unauthenticated"
	CodeForbidden       = "permission_denied"
	CodeRateLimited     = "rate_limited"
	CodeUpstream        = "upstream_error"
	CodeInternal        = "internal"
)

type APIError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
	// Redirect solo en 401: a dónde debe navegar el front.
	Redirect string `json:"redirect,omitempty"`
}

type ErrorResponse struct {
	Error APIError `json:"error"`
}

type ValidationResponse struct {
	Errors map[string]string `json:"errors"`
}

// Write escribe {"error": ...} con el request id de chi, si hay.
func Write(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	WriteAPIError(w, r, status, APIError{Code: code, Message: message})
}

func WriteAPIError(w http.ResponseWriter, r *http.Request, status int, e APIError) {
	if r != nil && e.RequestID == "" {
		e.RequestID = chimw.GetReqID(r.Context())
	}
	writeJSON(w, status, ErrorResponse{Error: e})
}

// WriteValidation escribe 422 con el mapa de errores por campo.
func WriteValidation(w http.ResponseWriter, fields map[string]string) {
	if fields == nil {
		fields = map[string]string{}
	}
	writeJSON(w, http.StatusUnprocessableEntity, ValidationResponse{Errors: fields})
}

// Unauthorized: sesión ausente, vencida o rechazada por el backend.
// El front navega a la landing pública.
func Unauthorized(w http.ResponseWriter, r *http.Request) {
	WriteAPIError(w, r, http.StatusUnauthorized, APIError{
		Code:     CodeUnauthenticated,
		Message:  "session expired or missing",
		Redirect: "/",
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
