package apierror

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/require"
)

func TestUnauthorized_CarriesRedirectAndRequestID(t *testing.T) {
	var got ErrorResponse

	h := chimw.RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		Unauthorized(w, r)
	}))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/admin/me", nil))

	require.Equal(t, http.StatusUnauthorized, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	require.Equal(t, CodeUnauthenticated, got.Error.Code)
	require.Equal(t, "/", got.Error.Redirect)
	require.NotEmpty(t, got.Error.RequestID)
}

func TestWrite_NoRedirectOutsideUnauthorized(t *testing.T) {
	rr := httptest.NewRecorder()
	Write(rr, httptest.NewRequest(http.MethodGet, "/", nil), http.StatusBadGateway, CodeUpstream, "Failed to fetch dogs")

	var got ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	require.Equal(t, http.StatusBadGateway, rr.Code)
	require.Equal(t, "Failed to fetch dogs", got.Error.Message)
	require.Empty(t, got.Error.Redirect)
}

func TestWriteValidation(t *testing.T) {
	rr := httptest.NewRecorder()
	WriteValidation(rr, map[string]string{"photo": "Please upload a photo"})

	require.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	require.JSONEq(t, `{"errors":{"photo":"Please upload a photo"}}`, rr.Body.String())
}
