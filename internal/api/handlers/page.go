package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/RMahshie/linkcalc/internal/calculator"
	"github.com/RMahshie/linkcalc/internal/chart"
	"github.com/RMahshie/linkcalc/internal/ui"
	"github.com/RMahshie/linkcalc/pkg/models"
)

// SessionCookie names the cookie holding the calculator session id
const SessionCookie = "linkcalc_session"

// PageHandler serves the interactive calculator page
type PageHandler struct {
	sessions *ui.Sessions
	ttl      time.Duration
}

// NewPageHandler creates a new page handler
func NewPageHandler(sessions *ui.Sessions, ttl time.Duration) *PageHandler {
	return &PageHandler{sessions: sessions, ttl: ttl}
}

// Show renders the page for the caller's session
func (h *PageHandler) Show(w http.ResponseWriter, r *http.Request) {
	ctrl := h.controller(w, r)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if err := ui.RenderPage(w, ctrl.View()); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("Failed to render page")
	}
}

// Calculate recomputes with the submitted fields
func (h *PageHandler) Calculate(w http.ResponseWriter, r *http.Request) {
	form, ok := parseForm(w, r)
	if !ok {
		return
	}
	ctrl := h.controller(w, r)
	if err := ctrl.Calculate(r.Context(), form); err != nil {
		logEventError(r, "calculate", err)
	}
	backToPage(w, r)
}

// Reset restores the default inputs
func (h *PageHandler) Reset(w http.ResponseWriter, r *http.Request) {
	ctrl := h.controller(w, r)
	if err := ctrl.Reset(r.Context()); err != nil {
		logEventError(r, "reset", err)
	}
	backToPage(w, r)
}

// SetMode switches between the single and range panels, keeping whatever
// the user typed
func (h *PageHandler) SetMode(w http.ResponseWriter, r *http.Request) {
	mode := models.Mode(chi.URLParam(r, "mode"))
	if !mode.Valid() {
		http.NotFound(w, r)
		return
	}
	form, ok := parseForm(w, r)
	if !ok {
		return
	}
	ctrl := h.controller(w, r)
	ctrl.UpdateForm(form)
	if err := ctrl.SetMode(mode); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	backToPage(w, r)
}

// Chart streams the session's current chart
func (h *PageHandler) Chart(w http.ResponseWriter, r *http.Request) {
	ctrl := h.controller(w, r)
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	if err := ctrl.WriteChart(w); err != nil {
		if errors.Is(err, chart.ErrNoChart) {
			w.Header().Del("Content-Type")
			http.NotFound(w, r)
			return
		}
		log.Ctx(r.Context()).Error().Err(err).Msg("Failed to write chart")
	}
}

func (h *PageHandler) controller(w http.ResponseWriter, r *http.Request) *ui.Controller {
	var id string
	if c, err := r.Cookie(SessionCookie); err == nil {
		id = c.Value
	}
	ctrl, sessionID := h.sessions.Get(r.Context(), id)
	if sessionID != id {
		http.SetCookie(w, &http.Cookie{
			Name:     SessionCookie,
			Value:    sessionID,
			Path:     "/",
			MaxAge:   int(h.ttl.Seconds()),
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
	return ctrl
}

func parseForm(w http.ResponseWriter, r *http.Request) (models.RawForm, bool) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Malformed form", http.StatusBadRequest)
		return models.RawForm{}, false
	}
	f := r.PostForm
	return models.RawForm{
		PtValue:    f.Get("ptValue"),
		PtUnit:     f.Get("ptUnit"),
		DValue:     f.Get("dValue"),
		DUnit:      f.Get("dUnit"),
		FValue:     f.Get("fValue"),
		FUnit:      f.Get("fUnit"),
		FStart:     f.Get("fStart"),
		FStop:      f.Get("fStop"),
		FStep:      f.Get("fStep"),
		FRangeUnit: f.Get("fRangeUnit"),
		Gt:         f.Get("gt"),
		Gr:         f.Get("gr"),
		Loss:       f.Get("loss"),
	}, true
}

// logEventError logs failures; invalid input is expected and already
// shown to the user.
func logEventError(r *http.Request, event string, err error) {
	if errors.Is(err, calculator.ErrInvalidInput) {
		log.Ctx(r.Context()).Debug().Str("event", event).Str("message", err.Error()).Msg("Invalid calculator input")
		return
	}
	log.Ctx(r.Context()).Error().Str("event", event).Err(err).Msg("Calculator event failed")
}

func backToPage(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
