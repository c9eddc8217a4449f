package api

import (
	"context"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"slices"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"product-catalog-admin/internal/domain"
	"product-catalog-admin/internal/form"
	"product-catalog-admin/internal/listing"
)

// RequestedWithHeader marks requests sent by the page script. They get 204
// instead of a redirect.
const RequestedWithHeader = "X-Requested-With"

// HTTPHandler serves the admin UI on top of per-session list controllers.
type HTTPHandler struct {
	sessions *Sessions
	log      zerolog.Logger
	tmpl     *template.Template
}

// NewHTTPHandler creates a new HTTPHandler with dependencies.
func NewHTTPHandler(sessions *Sessions, log zerolog.Logger) *HTTPHandler {
	return &HTTPHandler{
		sessions: sessions,
		log:      log,
		tmpl:     parseTemplates(),
	}
}

// --- Helpers ---

// ErrorResponse defines the structure for JSON error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

func (h *HTTPHandler) respondWithError(w http.ResponseWriter, code int, message string) {
	h.respondWithJSON(w, code, ErrorResponse{Error: message})
}

func (h *HTTPHandler) respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			h.log.Error().Err(err).Msg("failed to encode JSON response")
		}
	}
}

// respond finishes a state-changing request: 204 for the page script,
// otherwise a redirect back to the page.
func respond(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get(RequestedWithHeader) == "fetch" {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// finish maps a controller result to a response. Failures the view already
// reports (validation, backend errors) still redirect so the page shows them.
func (h *HTTPHandler) finish(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case err == nil, errors.Is(err, listing.ErrInvalidForm), errors.Is(err, listing.ErrDiscarded):
	case errors.Is(err, listing.ErrSaveInFlight):
		h.respondWithError(w, http.StatusConflict, "A save is already in progress")
		return
	case errors.Is(err, listing.ErrNoForm):
		h.respondWithError(w, http.StatusConflict, "No form is open")
		return
	case errors.Is(err, listing.ErrProductNotFound):
		h.respondWithError(w, http.StatusNotFound, "Product not found")
		return
	case errors.Is(err, listing.ErrClosed):
		h.respondWithError(w, http.StatusGone, "Session expired")
		return
	default:
		h.log.Warn().Err(err).Str("path", r.URL.Path).Msg("backend call failed")
	}
	respond(w, r)
}

// --- Sessions ---

type controllerKey struct{}

// withSession attaches the caller's controller to the request, creating a
// session and its cookie on first visit or after eviction.
func (h *HTTPHandler) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var ctrl *listing.Controller
		if c, err := r.Cookie(SessionCookie); err == nil {
			ctrl, _ = h.sessions.Get(c.Value)
		}
		if ctrl == nil {
			var id string
			id, ctrl = h.sessions.Create()
			http.SetCookie(w, &http.Cookie{
				Name:     SessionCookie,
				Value:    id,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), controllerKey{}, ctrl)))
	})
}

func controllerFrom(r *http.Request) *listing.Controller {
	return r.Context().Value(controllerKey{}).(*listing.Controller)
}

// RegisterRoutes sets up the routing for the admin UI.
func (h *HTTPHandler) RegisterRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.withSession)

		r.Get("/", h.Index)
		r.Get("/products", h.ProductArea)
		r.Get("/api/view", h.ViewState)
		r.Get("/ws", h.Events)

		r.Post("/search", h.Search)
		r.Post("/search/clear", h.ClearSearch)
		r.Post("/page/{page}", h.SetPage)
		r.Post("/view/{mode}", h.SetViewMode)
		r.Post("/retry", h.Retry)

		r.Route("/form", func(r chi.Router) {
			r.Post("/new", h.OpenCreateForm)
			r.Post("/edit/{productID}", h.OpenEditForm)
			r.Post("/close", h.CloseForm)
			r.Post("/submit", h.SubmitForm)
		})

		r.Post("/products/{productID}/delete", h.DeleteProduct)
	})
}

// --- Views ---

func (h *HTTPHandler) Index(w http.ResponseWriter, r *http.Request) {
	h.render(w, "page", newPageData(controllerFrom(r).View()))
}

// ProductArea renders the list fragment the page script swaps in.
func (h *HTTPHandler) ProductArea(w http.ResponseWriter, r *http.Request) {
	h.render(w, "products", newPageData(controllerFrom(r).View()))
}

func (h *HTTPHandler) ViewState(w http.ResponseWriter, r *http.Request) {
	h.respondWithJSON(w, http.StatusOK, controllerFrom(r).View())
}

// --- List actions ---

func (h *HTTPHandler) Search(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.respondWithError(w, http.StatusBadRequest, "Invalid form data")
		return
	}
	ctrl := controllerFrom(r)
	ctrl.SetSearch(r.PostForm.Get("q"))
	if r.PostForm.Get("commit") == "1" {
		ctrl.FlushSearch()
	}
	respond(w, r)
}

func (h *HTTPHandler) ClearSearch(w http.ResponseWriter, r *http.Request) {
	controllerFrom(r).ClearSearch()
	respond(w, r)
}

func (h *HTTPHandler) SetPage(w http.ResponseWriter, r *http.Request) {
	page, err := strconv.Atoi(chi.URLParam(r, "page"))
	if err != nil {
		h.respondWithError(w, http.StatusBadRequest, "Invalid page number")
		return
	}
	controllerFrom(r).SetPage(page)
	respond(w, r)
}

func (h *HTTPHandler) SetViewMode(w http.ResponseWriter, r *http.Request) {
	mode := listing.ViewMode(chi.URLParam(r, "mode"))
	if !mode.Valid() {
		h.respondWithError(w, http.StatusBadRequest, "Invalid view mode")
		return
	}
	controllerFrom(r).SetViewMode(mode)
	respond(w, r)
}

// Retry reloads the catalog. The load outlives the request so a closed tab
// does not turn into a load failure.
func (h *HTTPHandler) Retry(w http.ResponseWriter, r *http.Request) {
	h.finish(w, r, controllerFrom(r).Reload(context.WithoutCancel(r.Context())))
}

// --- Form actions ---

func (h *HTTPHandler) OpenCreateForm(w http.ResponseWriter, r *http.Request) {
	h.finish(w, r, controllerFrom(r).OpenCreate())
}

func (h *HTTPHandler) OpenEditForm(w http.ResponseWriter, r *http.Request) {
	id := domain.ProductID(chi.URLParam(r, "productID"))
	h.finish(w, r, controllerFrom(r).OpenEdit(id))
}

func (h *HTTPHandler) CloseForm(w http.ResponseWriter, r *http.Request) {
	h.finish(w, r, controllerFrom(r).CloseForm())
}

var draftFields = []string{
	form.FieldName,
	form.FieldPrice,
	form.FieldCategory,
	form.FieldStock,
	form.FieldDescription,
	form.FieldTags,
}

// SubmitForm copies the posted fields into the draft and saves it. A
// category outside the loaded list is treated as unselected.
func (h *HTTPHandler) SubmitForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.respondWithError(w, http.StatusBadRequest, "Invalid form data")
		return
	}
	ctrl := controllerFrom(r)
	categories := ctrl.View().Categories

	for _, field := range draftFields {
		value := r.PostForm.Get(field)
		if field == form.FieldCategory && !slices.Contains(categories, value) {
			value = ""
		}
		if err := ctrl.SetField(field, value); err != nil {
			h.finish(w, r, err)
			return
		}
	}
	active := strconv.FormatBool(r.PostForm.Get(form.FieldIsActive) != "")
	if err := ctrl.SetField(form.FieldIsActive, active); err != nil {
		h.finish(w, r, err)
		return
	}

	h.finish(w, r, ctrl.Submit(context.WithoutCancel(r.Context())))
}

func (h *HTTPHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id := domain.ProductID(chi.URLParam(r, "productID"))
	h.finish(w, r, controllerFrom(r).Delete(context.WithoutCancel(r.Context()), id))
}
