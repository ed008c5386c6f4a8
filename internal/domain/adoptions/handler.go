package adoptions

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"shire-of-paws/internal/domain/dogs"
	"shire-of-paws/internal/domain/listing"
	"shire-of-paws/internal/domain/session"
	"shire-of-paws/internal/platform/apierror"
	"shire-of-paws/internal/platform/httpclient"
	"shire-of-paws/internal/platform/validation"
	"shire-of-paws/internal/ports/capabilities"
)

const msgFetchRequests = "Failed to fetch adoption requests"

type Guard func(capabilities.Capability) func(http.Handler) http.Handler

// RegisterRoutes monta el formulario público de adopción.
// submitGuard (rate limit) envuelve solo el submit; puede ser nil.
func RegisterRoutes(r chi.Router, svc *Service, submitGuard func(http.Handler) http.Handler) {
	r.Post("/api/catalog/dogs/{dogID}/adoption-forms", openFormHandler(svc))

	r.Route("/api/adoption-forms/{formID}", func(fr chi.Router) {
		fr.Get("/", getFormHandler(svc))
		fr.Patch("/", patchFormHandler(svc))

		submit := http.Handler(submitFormHandler(svc))
		if submitGuard != nil {
			submit = submitGuard(submit)
		}
		fr.Method(http.MethodPost, "/submit", submit)
	})
}

// RegisterAdminRoutes monta las consultas de solicitudes que no pasan por el dashboard.
func RegisterAdminRoutes(ar chi.Router, svc *Service, guard Guard) {
	ar.Group(func(gr chi.Router) {
		if guard != nil {
			gr.Use(guard(capabilities.DashboardRead))
		}
		gr.Get("/dogs/{dogID}/adoption-requests", byDogHandler(svc))
	})
}

// RequestResponse es la solicitud con su etiqueta de badge.
type RequestResponse struct {
	AdoptionRequest
	BadgeLabel string `json:"badgeLabel"`
}

type RequestPage struct {
	Items         []RequestResponse `json:"items"`
	Page          int               `json:"page"`
	TotalPages    int               `json:"totalPages"`
	TotalElements int64             `json:"totalElements"`
}

type submitResponse struct {
	Request AdoptionRequest `json:"request"`
	Form    FormView        `json:"form"`
}

// openFormHandler godoc
// @Summary Abrir formulario de adopción
// @Description Solo para perros AVAILABLE.
// @Tags adoption
// @Produce json
// @Param dogID path string true "ID del perro"
// @Success 201 {object} FormView
// @Failure 404 {object} apierror.ErrorResponse "dog not found"
// @Failure 409 {object} apierror.ErrorResponse "dog is not available for adoption"
// @Router /api/catalog/dogs/{dogID}/adoption-forms [post]
func openFormHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view, err := svc.OpenForm(r.Context(), chi.URLParam(r, "dogID"))
		if err != nil {
			writeError(w, r, err, "Failed to fetch dog")
			return
		}
		writeJSON(w, http.StatusCreated, view)
	}
}

// getFormHandler godoc
// @Summary Estado del formulario de adopción
// @Tags adoption
// @Produce json
// @Param formID path string true "ID del formulario"
// @Success 200 {object} FormView
// @Failure 404 {object} apierror.ErrorResponse "form not found"
// @Router /api/adoption-forms/{formID} [get]
func getFormHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view, err := svc.Form(chi.URLParam(r, "formID"))
		if err != nil {
			writeError(w, r, err, "")
			return
		}
		writeJSON(w, http.StatusOK, view)
	}
}

// patchFormHandler godoc
// @Summary Cambiar campos del formulario de adopción
// @Tags adoption
// @Accept json
// @Produce json
// @Param formID path string true "ID del formulario"
// @Param payload body map[string]string true "campo -> valor"
// @Success 200 {object} FormView
// @Failure 409 {object} apierror.ErrorResponse "application already submitted"
// @Router /api/adoption-forms/{formID} [patch]
func patchFormHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		changes, err := dogs.DecodeChanges(r.Body)
		if err != nil {
			apierror.Write(w, r, http.StatusBadRequest, apierror.CodeInvalidArgument, "invalid json")
			return
		}
		view, err := svc.UpdateForm(chi.URLParam(r, "formID"), changes)
		if err != nil {
			writeError(w, r, err, "")
			return
		}
		writeJSON(w, http.StatusOK, view)
	}
}

// submitFormHandler godoc
// @Summary Enviar la solicitud de adopción
// @Tags adoption
// @Produce json
// @Param formID path string true "ID del formulario"
// @Success 201 {object} submitResponse
// @Failure 409 {object} apierror.ErrorResponse "application already submitted"
// @Failure 422 {object} apierror.ValidationResponse
// @Failure 429 {object} apierror.ErrorResponse "rate limited"
// @Failure 502 {object} apierror.ErrorResponse "Failed to submit application. Please try again."
// @Router /api/adoption-forms/{formID}/submit [post]
func submitFormHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, view, err := svc.SubmitForm(r.Context(), chi.URLParam(r, "formID"))
		if err != nil {
			writeError(w, r, err, SubmitMessage(err))
			return
		}
		writeJSON(w, http.StatusCreated, submitResponse{Request: req, Form: view})
	}
}

// byDogHandler godoc
// @Summary Solicitudes de un perro
// @Tags admin-requests
// @Produce json
// @Param dogID path string true "ID del perro"
// @Param page query int false "página (0..)"
// @Success 200 {object} RequestPage
// @Failure 401 {object} apierror.ErrorResponse
// @Router /api/admin/dogs/{dogID}/adoption-requests [get]
func byDogHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := session.FromContext(r.Context())
		if !ok || !s.Authenticated() {
			apierror.Unauthorized(w, r)
			return
		}
		page := 0
		if v := strings.TrimSpace(r.URL.Query().Get("page")); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				apierror.Write(w, r, http.StatusBadRequest, apierror.CodeInvalidArgument, "page must be an integer")
				return
			}
			page = n
		}

		p, err := svc.ByDog(r.Context(), s, chi.URLParam(r, "dogID"), page)
		if err != nil {
			writeError(w, r, err, msgFetchRequests)
			return
		}
		writeJSON(w, http.StatusOK, ToPage(p))
	}
}

// ToResponse agrega la etiqueta del badge.
func ToResponse(r AdoptionRequest) RequestResponse {
	return RequestResponse{AdoptionRequest: r, BadgeLabel: r.Badge()}
}

// ToPage arma la página de respuesta a partir de una página del backend.
func ToPage(p listing.Page[AdoptionRequest]) RequestPage {
	out := RequestPage{
		Items:         make([]RequestResponse, 0, len(p.Content)),
		Page:          p.Number,
		TotalPages:    p.TotalPages,
		TotalElements: p.TotalElements,
	}
	for _, it := range p.Content {
		out.Items = append(out.Items, ToResponse(it))
	}
	return out
}

func writeError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	if fields, ok := validation.FieldsOf(err); ok {
		apierror.WriteValidation(w, fields)
		return
	}
	switch {
	case errors.Is(err, session.ErrUnauthorized), httpclient.IsUnauthorized(err):
		apierror.Unauthorized(w, r)
	case errors.Is(err, ErrInvalidInput), errors.Is(err, dogs.ErrInvalidInput):
		apierror.Write(w, r, http.StatusBadRequest, apierror.CodeInvalidArgument, err.Error())
	case errors.Is(err, ErrNotFound), errors.Is(err, dogs.ErrNotFound), httpclient.StatusOf(err) == http.StatusNotFound:
		apierror.Write(w, r, http.StatusNotFound, apierror.CodeNotFound, "not found")
	case errors.Is(err, ErrSubmitInProgress), errors.Is(err, ErrFormSubmitted),
		errors.Is(err, ErrDogUnavailable), errors.Is(err, ErrInvalidTransition):
		apierror.Write(w, r, http.StatusConflict, apierror.CodeConflict, err.Error())
	default:
		if fallback == "" {
			fallback = "internal error"
		}
		apierror.Write(w, r, http.StatusBadGateway, apierror.CodeUpstream, httpclient.MessageOf(err, fallback))
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
