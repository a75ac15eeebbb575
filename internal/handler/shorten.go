package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/Minhaj002/url-shortener-app/internal/handler/dto"
	"github.com/Minhaj002/url-shortener-app/internal/service"
)

// ShortenHandler handles HTTP requests for shortening URLs.
type ShortenHandler struct {
	svc    *service.URLService
	logger *slog.Logger
}

// NewShortenHandler creates a new ShortenHandler.
func NewShortenHandler(svc *service.URLService, logger *slog.Logger) *ShortenHandler {
	return &ShortenHandler{
		svc:    svc,
		logger: logger,
	}
}

// Shorten handles POST /shorten.
//
// Resubmitting a known long URL answers 200 with the existing record;
// a fresh destination answers 201.
func (h *ShortenHandler) Shorten(w http.ResponseWriter, r *http.Request) {
	var req dto.ShortenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	record, created, err := h.svc.Shorten(r.Context(), req.LongURL)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("url_shortened",
		"code", record.Code,
		"created", created,
	)

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}

	writeJSON(w, status, dto.ToShortenResponse(record, h.svc.BaseURL()))
}

// handleServiceError maps service errors to HTTP responses.
func (h *ShortenHandler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidLongURL):
		h.writeError(w, http.StatusBadRequest, "INVALID_URL", "Long URL must be a valid http or https URL")
	case errors.Is(err, service.ErrURLTooLong):
		h.writeError(w, http.StatusBadRequest, "URL_TOO_LONG", "Long URL exceeds maximum length")
	default:
		h.logger.Error("shorten_error", "error", err)
		h.writeError(w, http.StatusInternalServerError, "STORE_UNAVAILABLE", "An internal error occurred")
	}
}

// writeError writes an error response.
func (h *ShortenHandler) writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, dto.ErrorResponse{
		Error: message,
		Code:  code,
	})
}
