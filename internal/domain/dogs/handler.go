package dogs

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"shire-of-paws/internal/domain/session"
	"shire-of-paws/internal/platform/apierror"
	"shire-of-paws/internal/platform/httpclient"
	"shire-of-paws/internal/platform/validation"
	"shire-of-paws/internal/ports/capabilities"
)

const (
	msgFetchDogs = "Failed to fetch dogs"
	msgFetchDog  = "Failed to fetch dog"
	msgStats     = "Failed to fetch stats"
)

// Guard devuelve el middleware que exige una capability. nil => sin guard.
type Guard func(capabilities.Capability) func(http.Handler) http.Handler

// RegisterRoutes monta el catálogo público, stats y el proxy de archivos.
func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/api/catalog/dogs", func(cr chi.Router) {
		cr.Get("/", catalogHandler(svc))
		cr.Get("/{dogID}", detailHandler(svc))
	})
	r.Get("/api/stats", statsHandler(svc))
	r.Get("/files/{fileName}", fileHandler(svc))
}

// RegisterAdminRoutes monta los formularios de perfil sobre /api/admin.
func RegisterAdminRoutes(ar chi.Router, svc *Service, guard Guard) {
	ar.Group(func(gr chi.Router) {
		if guard != nil {
			gr.Use(guard(capabilities.DogsWrite))
		}
		gr.Post("/dog-forms", openCreateFormHandler(svc))
		gr.Post("/dogs/{dogID}/form", openEditFormHandler(svc))

		gr.Route("/dog-forms/{formID}", func(fr chi.Router) {
			fr.Get("/", getFormHandler(svc))
			fr.Patch("/", patchFormHandler(svc))
			fr.Delete("/", discardFormHandler(svc))
			fr.Post("/submit", submitFormHandler(svc))

			fr.Group(func(pr chi.Router) {
				if guard != nil {
					pr.Use(guard(capabilities.FilesUpload))
				}
				pr.Post("/photo", selectPhotoHandler(svc))
				pr.Delete("/photo", clearPhotoHandler(svc))
			})
		})
	})
}

type submitResponse struct {
	Dog  Dog      `json:"dog"`
	Form FormView `json:"form"`
}

// catalogHandler godoc
// @Summary Catálogo público de perros
// @Description Solo perros AVAILABLE. gender y size van al filtro del backend; ageRange (puppy, young, adult, senior) se aplica acá.
// @Tags catalog
// @Produce json
// @Param gender query string false "MALE | FEMALE | UNKNOWN"
// @Param size query string false "SMALL | MEDIUM | LARGE | EXTRA_LARGE"
// @Param ageRange query string false "puppy | young | adult | senior"
// @Param page query int false "página (0..)"
// @Success 200 {object} CatalogPage
// @Failure 400 {object} apierror.ErrorResponse "filtro inválido"
// @Failure 502 {object} apierror.ErrorResponse "Failed to fetch dogs"
// @Router /api/catalog/dogs [get]
func catalogHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		page, err := intParam(q.Get("page"))
		if err != nil {
			apierror.Write(w, r, http.StatusBadRequest, apierror.CodeInvalidArgument, "page must be an integer")
			return
		}

		out, err := svc.Catalog(r.Context(), CatalogQuery{
			Gender:   Gender(q.Get("gender")),
			Size:     Size(q.Get("size")),
			AgeRange: AgeRange(q.Get("ageRange")),
			Page:     page,
		})
		if err != nil {
			writeError(w, r, err, msgFetchDogs)
			return
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// detailHandler godoc
// @Summary Detalle público de un perro
// @Tags catalog
// @Produce json
// @Param dogID path string true "ID del perro"
// @Success 200 {object} CatalogDog
// @Failure 404 {object} apierror.ErrorResponse "dog not found"
// @Router /api/catalog/dogs/{dogID} [get]
func detailHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d, err := svc.Detail(r.Context(), chi.URLParam(r, "dogID"))
		if err != nil {
			writeError(w, r, err, msgFetchDog)
			return
		}
		writeJSON(w, http.StatusOK, d)
	}
}

// statsHandler godoc
// @Summary Contadores de la home
// @Tags catalog
// @Produce json
// @Success 200 {object} Stats
// @Router /api/stats [get]
func statsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st, err := svc.Stats(r.Context())
		if err != nil {
			writeError(w, r, err, msgStats)
			return
		}
		writeJSON(w, http.StatusOK, st)
	}
}

// fileHandler godoc
// @Summary Descarga de una foto
// @Description Proxy de /api/files/download/{fileName} del backend.
// @Tags files
// @Param fileName path string true "nombre del archivo"
// @Success 200 {file} binary
// @Failure 404 {object} apierror.ErrorResponse "file not found"
// @Router /files/{fileName} [get]
func fileHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, ct, err := svc.OpenFile(r.Context(), chi.URLParam(r, "fileName"))
		if err != nil {
			writeError(w, r, err, "Failed to fetch file")
			return
		}
		defer body.Close()

		if ct == "" {
			ct = "application/octet-stream"
		}
		w.Header().Set("Content-Type", ct)
		w.Header().Set("Cache-Control", "public, max-age=3600")
		w.WriteHeader(http.StatusOK)
		_, _ = io.Copy(w, body)
	}
}

// openCreateFormHandler godoc
// @Summary Abrir formulario de alta de perro
// @Tags admin-dogs
// @Produce json
// @Success 201 {object} FormView
// @Failure 401 {object} apierror.ErrorResponse
// @Failure 403 {object} apierror.ErrorResponse
// @Router /api/admin/dog-forms [post]
func openCreateFormHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := currentSession(w, r)
		if !ok {
			return
		}
		_, view := svc.OpenCreateForm(s.ID())
		writeJSON(w, http.StatusCreated, view)
	}
}

// openEditFormHandler godoc
// @Summary Abrir formulario de edición
// @Description Carga el perro del backend y arma un borrador con sus valores.
// @Tags admin-dogs
// @Produce json
// @Param dogID path string true "ID del perro"
// @Success 201 {object} FormView
// @Failure 404 {object} apierror.ErrorResponse "dog not found"
// @Router /api/admin/dogs/{dogID}/form [post]
func openEditFormHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := currentSession(w, r)
		if !ok {
			return
		}
		_, view, err := svc.OpenEditForm(r.Context(), s.ID(), s, chi.URLParam(r, "dogID"))
		if err != nil {
			writeError(w, r, err, msgFetchDog)
			return
		}
		writeJSON(w, http.StatusCreated, view)
	}
}

// getFormHandler godoc
// @Summary Estado del formulario de perfil
// @Tags admin-dogs
// @Produce json
// @Param formID path string true "ID del formulario"
// @Success 200 {object} FormView
// @Failure 404 {object} apierror.ErrorResponse "form not found"
// @Router /api/admin/dog-forms/{formID} [get]
func getFormHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := currentSession(w, r)
		if !ok {
			return
		}
		view, err := svc.Form(s.ID(), chi.URLParam(r, "formID"))
		if err != nil {
			writeError(w, r, err, "")
			return
		}
		writeJSON(w, http.StatusOK, view)
	}
}

// patchFormHandler godoc
// @Summary Cambiar campos del borrador
// @Description Cada campo cambiado pierde su error. No revalida.
// @Tags admin-dogs
// @Accept json
// @Produce json
// @Param formID path string true "ID del formulario"
// @Param payload body map[string]string true "campo -> valor"
// @Success 200 {object} FormView
// @Failure 400 {object} apierror.ErrorResponse "campo desconocido"
// @Failure 409 {object} apierror.ErrorResponse "form already submitted"
// @Router /api/admin/dog-forms/{formID} [patch]
func patchFormHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := currentSession(w, r)
		if !ok {
			return
		}
		changes, err := DecodeChanges(r.Body)
		if err != nil {
			apierror.Write(w, r, http.StatusBadRequest, apierror.CodeInvalidArgument, "invalid json")
			return
		}
		view, err := svc.UpdateForm(s.ID(), chi.URLParam(r, "formID"), changes)
		if err != nil {
			writeError(w, r, err, "")
			return
		}
		writeJSON(w, http.StatusOK, view)
	}
}

// discardFormHandler godoc
// @Summary Descartar borrador
// @Tags admin-dogs
// @Param formID path string true "ID del formulario"
// @Success 204
// @Router /api/admin/dog-forms/{formID} [delete]
func discardFormHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := currentSession(w, r)
		if !ok {
			return
		}
		if err := svc.DiscardForm(s.ID(), chi.URLParam(r, "formID")); err != nil {
			writeError(w, r, err, "")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// selectPhotoHandler godoc
// @Summary Elegir foto
// @Description multipart/form-data, campo `file`. Solo image/*, tamaño máximo configurable.
// @Tags admin-dogs
// @Accept multipart/form-data
// @Produce json
// @Param formID path string true "ID del formulario"
// @Param file formData file true "imagen"
// @Success 200 {object} FormView
// @Failure 422 {object} apierror.ValidationResponse "archivo rechazado"
// @Router /api/admin/dog-forms/{formID}/photo [post]
func selectPhotoHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := currentSession(w, r)
		if !ok {
			return
		}
		maxBytes := svc.MaxImageBytes()
		r.Body = http.MaxBytesReader(w, r.Body, maxBytes+(1<<20))

		f, hdr, err := r.FormFile("file")
		if err != nil {
			var tooBig *http.MaxBytesError
			if errors.As(err, &tooBig) {
				apierror.WriteValidation(w, validation.FieldErrors{"photo": CheckFile("image/*", maxBytes+1, maxBytes)})
				return
			}
			apierror.Write(w, r, http.StatusBadRequest, apierror.CodeInvalidArgument, "multipart field 'file' is required")
			return
		}
		defer f.Close()

		content, err := io.ReadAll(io.LimitReader(f, maxBytes+1))
		if err != nil {
			apierror.Write(w, r, http.StatusBadRequest, apierror.CodeInvalidArgument, "could not read file")
			return
		}
		ct := hdr.Header.Get("Content-Type")
		if ct == "" || ct == "application/octet-stream" {
			ct = http.DetectContentType(content)
		}

		view, accepted, err := svc.SelectPhoto(s.ID(), chi.URLParam(r, "formID"), Upload{
			FileName:    hdr.Filename,
			ContentType: ct,
			Content:     content,
		})
		if err != nil {
			writeError(w, r, err, "")
			return
		}
		if !accepted {
			apierror.WriteValidation(w, view.Errors)
			return
		}
		writeJSON(w, http.StatusOK, view)
	}
}

// clearPhotoHandler godoc
// @Summary Quitar la foto elegida
// @Tags admin-dogs
// @Param formID path string true "ID del formulario"
// @Success 200 {object} FormView
// @Router /api/admin/dog-forms/{formID}/photo [delete]
func clearPhotoHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := currentSession(w, r)
		if !ok {
			return
		}
		view, err := svc.ClearPhoto(s.ID(), chi.URLParam(r, "formID"))
		if err != nil {
			writeError(w, r, err, "")
			return
		}
		writeJSON(w, http.StatusOK, view)
	}
}

// submitFormHandler godoc
// @Summary Enviar el perfil
// @Description Valida; si hay foto nueva la sube y después crea (POST) o actualiza (PUT) el perro.
// @Tags admin-dogs
// @Produce json
// @Param formID path string true "ID del formulario"
// @Success 200 {object} submitResponse
// @Failure 409 {object} apierror.ErrorResponse "submit already in progress"
// @Failure 422 {object} apierror.ValidationResponse
// @Failure 502 {object} apierror.ErrorResponse "Failed to save dog profile. Please try again."
// @Router /api/admin/dog-forms/{formID}/submit [post]
func submitFormHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := currentSession(w, r)
		if !ok {
			return
		}
		dog, view, err := svc.SubmitForm(r.Context(), s.ID(), chi.URLParam(r, "formID"), s)
		if err != nil {
			if errors.Is(err, ErrUploadFailed) || errors.Is(err, ErrSaveFailed) {
				writeError(w, r, err, SubmitMessage(err))
				return
			}
			writeError(w, r, err, "")
			return
		}
		writeJSON(w, http.StatusOK, submitResponse{Dog: dog, Form: view})
	}
}

// DecodeChanges lee {"campo": valor}; números y booleanos se pasan a texto.
func DecodeChanges(body io.Reader) (map[string]string, error) {
	var raw map[string]json.RawMessage
	if err := json.NewDecoder(body).Decode(&raw); err != nil {
		return nil, err
	}
	out := make(map[string]string, len(raw))
	for k, v := range raw {
		v = bytes.TrimSpace(v)
		switch {
		case bytes.Equal(v, []byte("null")):
			out[k] = ""
		case len(v) > 0 && v[0] == '"':
			var s string
			if err := json.Unmarshal(v, &s); err != nil {
				return nil, err
			}
			out[k] = s
		default:
			out[k] = string(v)
		}
	}
	return out, nil
}

func currentSession(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	s, ok := session.FromContext(r.Context())
	if !ok || !s.Authenticated() {
		apierror.Unauthorized(w, r)
		return nil, false
	}
	return s, true
}

func intParam(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}

// writeError traduce errores del dominio y del backend a respuestas HTTP.
func writeError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	if fields, ok := validation.FieldsOf(err); ok {
		apierror.WriteValidation(w, fields)
		return
	}
	switch {
	case errors.Is(err, session.ErrUnauthorized), httpclient.IsUnauthorized(err):
		apierror.Unauthorized(w, r)
	case errors.Is(err, ErrInvalidInput):
		apierror.Write(w, r, http.StatusBadRequest, apierror.CodeInvalidArgument, err.Error())
	case errors.Is(err, ErrNotFound), httpclient.StatusOf(err) == http.StatusNotFound:
		apierror.Write(w, r, http.StatusNotFound, apierror.CodeNotFound, "not found")
	case errors.Is(err, ErrSubmitInProgress), errors.Is(err, ErrFormClosed):
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
