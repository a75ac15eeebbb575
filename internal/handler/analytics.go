package handler

import (
	"log/slog"
	"net/http"

	"github.com/Minhaj002/url-shortener-app/internal/handler/dto"
	"github.com/Minhaj002/url-shortener-app/internal/service"
)

// AnalyticsHandler serves the analytics listing.
type AnalyticsHandler struct {
	svc    *service.URLService
	logger *slog.Logger
}

// NewAnalyticsHandler creates a new AnalyticsHandler.
func NewAnalyticsHandler(svc *service.URLService, logger *slog.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		svc:    svc,
		logger: logger,
	}
}

// List handles GET /analytics. Every record is returned with its visit
// total and per-day buckets; listing is read-only.
func (h *AnalyticsHandler) List(w http.ResponseWriter, r *http.Request) {
	records, err := h.svc.List(r.Context())
	if err != nil {
		h.logger.Error("analytics_error", "error", err)
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{
			Error: "An internal error occurred",
			Code:  "STORE_UNAVAILABLE",
		})
		return
	}

	writeJSON(w, http.StatusOK, dto.ToURLListResponse(records, h.svc.BaseURL()))
}
