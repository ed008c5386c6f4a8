package dashboard

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"shire-of-paws/internal/domain/adoptions"
	"shire-of-paws/internal/domain/dogs"
	"shire-of-paws/internal/domain/listing"
	"shire-of-paws/internal/domain/session"
	"shire-of-paws/internal/platform/apierror"
	"shire-of-paws/internal/platform/httpclient"
	"shire-of-paws/internal/platform/validation"
	"shire-of-paws/internal/ports/capabilities"
)

type Guard func(capabilities.Capability) func(http.Handler) http.Handler

// RegisterAdminRoutes monta el dashboard bajo el subrouter /api/admin.
func RegisterAdminRoutes(ar chi.Router, svc *Service, guard Guard) {
	use := func(gr chi.Router, c capabilities.Capability) {
		if guard != nil {
			gr.Use(guard(c))
		}
	}

	ar.Group(func(gr chi.Router) {
		use(gr, capabilities.DashboardRead)
		gr.Get("/dogs", dogsHandler(svc))
		gr.Get("/adoption-requests", requestsHandler(svc))
		gr.Get("/summary", summaryHandler(svc))
		gr.Delete("/adoption-requests/detail", closeDetailHandler(svc))
		gr.Get("/adoption-requests/{requestID}", detailHandler(svc))
		gr.Get("/confirmations", pendingHandler(svc))
		gr.Post("/confirmations/{confirmationID}/confirm", confirmHandler(svc))
		gr.Post("/confirmations/{confirmationID}/cancel", cancelHandler(svc))
	})

	ar.Group(func(gr chi.Router) {
		use(gr, capabilities.RequestsTriage)
		gr.Post("/adoption-requests/{requestID}/transitions", transitionHandler(svc))
	})

	ar.Group(func(gr chi.Router) {
		use(gr, capabilities.DogsWrite)
		gr.Post("/dogs/{dogID}/deletion", deletionHandler(svc))
	})
}

// RequestsState es el listado de solicitudes con las etiquetas de badge.
type RequestsState struct {
	Items         []adoptions.RequestResponse `json:"items"`
	Loading       bool                        `json:"loading"`
	Error         string                      `json:"error,omitempty"`
	TotalPages    int                         `json:"totalPages"`
	TotalElements int64                       `json:"totalElements"`
}

func toRequestsState(st listing.State[adoptions.AdoptionRequest]) RequestsState {
	out := RequestsState{
		Items:         make([]adoptions.RequestResponse, 0, len(st.Items)),
		Loading:       st.Loading,
		Error:         st.Error,
		TotalPages:    st.TotalPages,
		TotalElements: st.TotalElements,
	}
	for _, it := range st.Items {
		out.Items = append(out.Items, adoptions.ToResponse(it))
	}
	return out
}

type outcomeResponse struct {
	Confirmation Confirmation               `json:"confirmation"`
	Requests     *RequestsState             `json:"requests,omitempty"`
	Dogs         *listing.State[dogs.Dog]   `json:"dogs,omitempty"`
	Detail       *adoptions.RequestResponse `json:"detail,omitempty"`
}

type transitionRequest struct {
	Status adoptions.Status `json:"status"`
}

// dogsHandler godoc
// @Summary Listado de perros del dashboard
// @Tags admin-dashboard
// @Produce json
// @Param page query int false "página (0..)"
// @Param pageSize query int false "tamaño de página"
// @Param sortBy query string false "campo de orden"
// @Param sortDir query string false "ASC o DESC"
// @Param status query string false "AVAILABLE, ADOPTED, ..."
// @Param name query string false "nombre"
// @Param gender query string false "MALE o FEMALE"
// @Param size query string false "SMALL, MEDIUM, LARGE"
// @Success 200 {object} listing.State[dogs.Dog]
// @Failure 401 {object} apierror.ErrorResponse
// @Failure 502 {object} apierror.ErrorResponse "Failed to fetch dogs"
// @Router /api/admin/dogs [get]
func dogsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := currentSession(w, r)
		if !ok {
			return
		}
		q := r.URL.Query()
		page, ok := intQuery(w, r, "page")
		if !ok {
			return
		}
		size, ok := intQuery(w, r, "pageSize")
		if !ok {
			return
		}
		p := dogs.ListParams{
			Page:    page,
			Size:    size,
			SortBy:  q.Get("sortBy"),
			SortDir: q.Get("sortDir"),
			Status:  dogs.Status(q.Get("status")),
			Name:    q.Get("name"),
			Gender:  dogs.Gender(q.Get("gender")),
			DogSize: dogs.Size(q.Get("size")),
		}

		st, err := svc.Dogs(r.Context(), s, p)
		if err != nil {
			writeError(w, r, err, msgFetchDogs)
			return
		}
		writeJSON(w, http.StatusOK, st)
	}
}

// requestsHandler godoc
// @Summary Listado de solicitudes de adopción
// @Tags admin-dashboard
// @Produce json
// @Param page query int false "página (0..)"
// @Param size query int false "tamaño de página"
// @Param status query string false "IN_PROCESS, APPROVED, DENIED"
// @Param dogId query string false "ID del perro"
// @Param requesterName query string false "nombre del solicitante"
// @Success 200 {object} RequestsState
// @Failure 401 {object} apierror.ErrorResponse
// @Failure 502 {object} apierror.ErrorResponse "Failed to fetch adoption requests"
// @Router /api/admin/adoption-requests [get]
func requestsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := currentSession(w, r)
		if !ok {
			return
		}
		q := r.URL.Query()
		page, ok := intQuery(w, r, "page")
		if !ok {
			return
		}
		size, ok := intQuery(w, r, "size")
		if !ok {
			return
		}
		p := adoptions.ListParams{
			Page:          page,
			Size:          size,
			SortBy:        q.Get("sortBy"),
			SortDir:       q.Get("sortDir"),
			Status:        adoptions.Status(q.Get("status")),
			DogID:         q.Get("dogId"),
			RequesterName: q.Get("requesterName"),
		}

		st, err := svc.Requests(r.Context(), s, p)
		if err != nil {
			writeError(w, r, err, msgFetchRequests)
			return
		}
		writeJSON(w, http.StatusOK, toRequestsState(st))
	}
}

// summaryHandler godoc
// @Summary Contadores por estado
// @Tags admin-dashboard
// @Produce json
// @Success 200 {object} Summary
// @Failure 401 {object} apierror.ErrorResponse
// @Router /api/admin/summary [get]
func summaryHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := currentSession(w, r)
		if !ok {
			return
		}
		sum, err := svc.Summary(r.Context(), s)
		if err != nil {
			writeError(w, r, err, "Failed to fetch stats")
			return
		}
		writeJSON(w, http.StatusOK, sum)
	}
}

// detailHandler godoc
// @Summary Abrir el detalle de una solicitud
// @Tags admin-dashboard
// @Produce json
// @Param requestID path string true "ID de la solicitud"
// @Success 200 {object} adoptions.RequestResponse
// @Failure 404 {object} apierror.ErrorResponse
// @Router /api/admin/adoption-requests/{requestID} [get]
func detailHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := currentSession(w, r)
		if !ok {
			return
		}
		req, err := svc.OpenDetail(r.Context(), s, chi.URLParam(r, "requestID"))
		if err != nil {
			writeError(w, r, err, "Failed to fetch adoption request")
			return
		}
		writeJSON(w, http.StatusOK, adoptions.ToResponse(req))
	}
}

// closeDetailHandler godoc
// @Summary Cerrar el detalle abierto
// @Tags admin-dashboard
// @Success 204
// @Router /api/admin/adoption-requests/detail [delete]
func closeDetailHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := currentSession(w, r)
		if !ok {
			return
		}
		svc.CloseDetail(s)
		w.WriteHeader(http.StatusNoContent)
	}
}

// transitionHandler godoc
// @Summary Pedir confirmación para cambiar el estado de una solicitud
// @Description No cambia nada hasta confirmar.
// @Tags admin-dashboard
// @Accept json
// @Produce json
// @Param requestID path string true "ID de la solicitud"
// @Param payload body transitionRequest true "estado destino"
// @Success 201 {object} Confirmation
// @Failure 404 {object} apierror.ErrorResponse "request is not in the current view"
// @Failure 409 {object} apierror.ErrorResponse "invalid transition"
// @Router /api/admin/adoption-requests/{requestID}/transitions [post]
func transitionHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := currentSession(w, r)
		if !ok {
			return
		}
		var in transitionRequest
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			apierror.Write(w, r, http.StatusBadRequest, apierror.CodeInvalidArgument, "invalid json")
			return
		}
		c, err := svc.RequestTransition(s, chi.URLParam(r, "requestID"), in.Status)
		if err != nil {
			writeError(w, r, err, "")
			return
		}
		writeJSON(w, http.StatusCreated, c)
	}
}

// deletionHandler godoc
// @Summary Pedir confirmación para borrar un perro
// @Tags admin-dashboard
// @Produce json
// @Param dogID path string true "ID del perro"
// @Success 201 {object} Confirmation
// @Failure 404 {object} apierror.ErrorResponse "dog is not in the current view"
// @Router /api/admin/dogs/{dogID}/deletion [post]
func deletionHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := currentSession(w, r)
		if !ok {
			return
		}
		c, err := svc.RequestDelete(s, chi.URLParam(r, "dogID"))
		if err != nil {
			writeError(w, r, err, "")
			return
		}
		writeJSON(w, http.StatusCreated, c)
	}
}

// pendingHandler godoc
// @Summary Diálogos de confirmación abiertos
// @Tags admin-dashboard
// @Produce json
// @Success 200 {array} Confirmation
// @Router /api/admin/confirmations [get]
func pendingHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := currentSession(w, r)
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, svc.Pending(s))
	}
}

// confirmHandler godoc
// @Summary Confirmar una acción
// @Description Ejecuta la mutación y devuelve las vistas refrescadas.
// @Tags admin-dashboard
// @Produce json
// @Param confirmationID path string true "ID de la confirmación"
// @Success 200 {object} outcomeResponse
// @Failure 404 {object} apierror.ErrorResponse "confirmation not found"
// @Failure 502 {object} apierror.ErrorResponse
// @Router /api/admin/confirmations/{confirmationID}/confirm [post]
func confirmHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := currentSession(w, r)
		if !ok {
			return
		}
		out, err := svc.Confirm(r.Context(), s, chi.URLParam(r, "confirmationID"))
		if err != nil {
			writeError(w, r, err, failureMessage(out.Confirmation.Action))
			return
		}

		resp := outcomeResponse{Confirmation: out.Confirmation, Dogs: out.Dogs}
		if out.Requests != nil {
			rs := toRequestsState(*out.Requests)
			resp.Requests = &rs
		}
		if out.Detail != nil {
			d := adoptions.ToResponse(*out.Detail)
			resp.Detail = &d
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

// cancelHandler godoc
// @Summary Cancelar una acción
// @Tags admin-dashboard
// @Param confirmationID path string true "ID de la confirmación"
// @Success 204
// @Failure 404 {object} apierror.ErrorResponse "confirmation not found"
// @Router /api/admin/confirmations/{confirmationID}/cancel [post]
func cancelHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := currentSession(w, r)
		if !ok {
			return
		}
		if err := svc.Cancel(s, chi.URLParam(r, "confirmationID")); err != nil {
			writeError(w, r, err, "")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func failureMessage(a Action) string {
	switch a {
	case ActionTransition:
		return "Failed to update adoption request status"
	case ActionDeleteDog:
		return "Failed to delete dog"
	}
	return ""
}

func currentSession(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	s, ok := session.FromContext(r.Context())
	if !ok || !s.Authenticated() {
		apierror.Unauthorized(w, r)
		return nil, false
	}
	return s, true
}

func intQuery(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	v := strings.TrimSpace(r.URL.Query().Get(name))
	if v == "" {
		return 0, true
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		apierror.Write(w, r, http.StatusBadRequest, apierror.CodeInvalidArgument, name+" must be an integer")
		return 0, false
	}
	return n, true
}

func writeError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	if fields, ok := validation.FieldsOf(err); ok {
		apierror.WriteValidation(w, fields)
		return
	}
	switch {
	case errors.Is(err, session.ErrUnauthorized), httpclient.IsUnauthorized(err):
		apierror.Unauthorized(w, r)
	case errors.Is(err, adoptions.ErrInvalidInput), errors.Is(err, dogs.ErrInvalidInput):
		apierror.Write(w, r, http.StatusBadRequest, apierror.CodeInvalidArgument, err.Error())
	case IsNotFound(err), httpclient.StatusOf(err) == http.StatusNotFound:
		apierror.Write(w, r, http.StatusNotFound, apierror.CodeNotFound, err.Error())
	case errors.Is(err, adoptions.ErrInvalidTransition):
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
