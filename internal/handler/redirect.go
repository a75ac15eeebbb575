package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Minhaj002/url-shortener-app/internal/service"
)

// RedirectHandler handles redirect requests.
type RedirectHandler struct {
	svc    *service.URLService
	logger *slog.Logger
}

// NewRedirectHandler creates a new RedirectHandler.
func NewRedirectHandler(svc *service.URLService, logger *slog.Logger) *RedirectHandler {
	return &RedirectHandler{
		svc:    svc,
		logger: logger,
	}
}

// Redirect handles GET /{code} for URL redirection. The visit is recorded
// before the redirect is issued; an unknown code redirects to the root
// page without recording anything.
func (h *RedirectHandler) Redirect(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	if code == "" {
		h.redirectHome(w, r)
		return
	}

	start := time.Now()

	longURL, err := h.svc.Resolve(r.Context(), code)
	duration := time.Since(start)

	if err != nil {
		h.handleRedirectError(w, r, code, err, duration)
		return
	}

	h.logger.Info("redirect_success",
		"code", code,
		"duration_ms", float64(duration.Microseconds())/1000,
	)

	setRedirectHeaders(w)
	http.Redirect(w, r, longURL, http.StatusFound)
}

// handleRedirectError handles errors during redirect resolution.
func (h *RedirectHandler) handleRedirectError(w http.ResponseWriter, r *http.Request, code string, err error, duration time.Duration) {
	switch {
	case errors.Is(err, service.ErrURLNotFound):
		h.logger.Info("redirect_not_found",
			"code", code,
			"duration_ms", float64(duration.Microseconds())/1000,
		)
		h.redirectHome(w, r)

	default:
		h.logger.Error("redirect_error",
			"code", code,
			"error", err,
			"duration_ms", float64(duration.Microseconds())/1000,
		)
		setRedirectHeaders(w)
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error": "An internal error occurred",
			"code":  "STORE_UNAVAILABLE",
		})
	}
}

// redirectHome sends the visitor to the root page.
func (h *RedirectHandler) redirectHome(w http.ResponseWriter, r *http.Request) {
	setRedirectHeaders(w)
	http.Redirect(w, r, "/", http.StatusFound)
}

// setRedirectHeaders sets security headers on redirect responses.
func setRedirectHeaders(w http.ResponseWriter) {
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("X-Frame-Options", "DENY")
	w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
	w.Header().Set("Cache-Control", "private, max-age=0")
}
