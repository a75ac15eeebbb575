// Package dto provides Data Transfer Objects for API requests and responses.
package dto

import (
	"time"

	"github.com/Minhaj002/url-shortener-app/internal/model"
)

// ShortenRequest represents the request body for shortening a URL.
type ShortenRequest struct {
	LongURL string `json:"longUrl"`
}

// ShortenResponse represents a freshly shortened URL.
type ShortenResponse struct {
	Code      string    `json:"code"`
	ShortURL  string    `json:"shortUrl"`
	LongURL   string    `json:"longUrl"`
	CreatedAt time.Time `json:"createdAt"`
}

// URLResponse represents a short URL with its analytics in API responses.
type URLResponse struct {
	Code      string              `json:"code"`
	ShortURL  string              `json:"shortUrl"`
	LongURL   string              `json:"longUrl"`
	Visits    int64               `json:"visits"`
	CreatedAt time.Time           `json:"createdAt"`
	Analytics []model.DailyVisits `json:"analytics"`
}

// URLListResponse represents the analytics listing.
type URLListResponse struct {
	Data []URLResponse `json:"data"`
}

// ErrorResponse represents an API error.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// ToShortenResponse converts a URL model to ShortenResponse DTO.
func ToShortenResponse(record *model.URL, baseURL string) *ShortenResponse {
	return &ShortenResponse{
		Code:      record.Code,
		ShortURL:  baseURL + "/" + record.Code,
		LongURL:   record.LongURL,
		CreatedAt: record.CreatedAt,
	}
}

// ToURLResponse converts a URL model to URLResponse DTO.
func ToURLResponse(record *model.URL, baseURL string) *URLResponse {
	analytics := record.Analytics
	if analytics == nil {
		analytics = []model.DailyVisits{}
	}
	return &URLResponse{
		Code:      record.Code,
		ShortURL:  baseURL + "/" + record.Code,
		LongURL:   record.LongURL,
		Visits:    record.Visits,
		CreatedAt: record.CreatedAt,
		Analytics: analytics,
	}
}

// ToURLListResponse converts a slice of URL models to URLListResponse.
func ToURLListResponse(records []*model.URL, baseURL string) *URLListResponse {
	responses := make([]URLResponse, len(records))
	for i, record := range records {
		responses[i] = *ToURLResponse(record, baseURL)
	}
	return &URLListResponse{Data: responses}
}
