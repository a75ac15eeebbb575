package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Minhaj002/url-shortener-app/internal/handler/dto"
	"github.com/Minhaj002/url-shortener-app/internal/service"
	"github.com/Minhaj002/url-shortener-app/internal/testutil"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newShortenFixture() (*ShortenHandler, *testutil.MemStore) {
	store := testutil.NewMemStore()
	svc := service.NewURLService(store, nil, "http://localhost:8080", nil)
	return NewShortenHandler(svc, discardLogger()), store
}

func postShorten(t *testing.T, h *ShortenHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/shorten", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Shorten(rec, req)
	return rec
}

func TestShorten_CreatesRecord(t *testing.T) {
	h, store := newShortenFixture()

	rec := postShorten(t, h, `{"longUrl":"https://example.com/a"}`)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var response dto.ShortenResponse
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if !service.CodePattern.MatchString(response.Code) {
		t.Errorf("unexpected code %q", response.Code)
	}
	if response.ShortURL != "http://localhost:8080/"+response.Code {
		t.Errorf("unexpected short URL %q", response.ShortURL)
	}
	if response.LongURL != "https://example.com/a" {
		t.Errorf("unexpected long URL %q", response.LongURL)
	}
	if store.Len() != 1 {
		t.Errorf("expected one stored record, got %d", store.Len())
	}
}

func TestShorten_ReusesRecord(t *testing.T) {
	h, store := newShortenFixture()

	first := postShorten(t, h, `{"longUrl":"https://example.com/a"}`)
	if first.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", first.Code)
	}

	second := postShorten(t, h, `{"longUrl":"https://example.com/a"}`)
	if second.Code != http.StatusOK {
		t.Fatalf("expected status 200 on resubmit, got %d", second.Code)
	}

	var firstResp, secondResp dto.ShortenResponse
	if err := json.NewDecoder(first.Body).Decode(&firstResp); err != nil {
		t.Fatalf("decode first: %v", err)
	}
	if err := json.NewDecoder(second.Body).Decode(&secondResp); err != nil {
		t.Fatalf("decode second: %v", err)
	}

	if firstResp.Code != secondResp.Code {
		t.Errorf("expected same code, got %q and %q", firstResp.Code, secondResp.Code)
	}
	if store.Len() != 1 {
		t.Errorf("expected one stored record, got %d", store.Len())
	}
}

func TestShorten_InvalidBody(t *testing.T) {
	h, _ := newShortenFixture()

	rec := postShorten(t, h, `{not json`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}

	var response dto.ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response.Code != "INVALID_JSON" {
		t.Errorf("unexpected error code %q", response.Code)
	}
}

func TestShorten_InvalidLongURL(t *testing.T) {
	h, _ := newShortenFixture()

	tests := []struct {
		name string
		body string
	}{
		{"empty", `{"longUrl":""}`},
		{"bad_scheme", `{"longUrl":"ftp://example.com"}`},
		{"no_host", `{"longUrl":"https://"}`},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			rec := postShorten(t, h, test.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected status 400, got %d", rec.Code)
			}

			var response dto.ErrorResponse
			if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if response.Code != "INVALID_URL" {
				t.Errorf("unexpected error code %q", response.Code)
			}
		})
	}
}

func TestShorten_StoreUnavailable(t *testing.T) {
	h, store := newShortenFixture()
	store.FailWith = errors.New("connection refused")

	rec := postShorten(t, h, `{"longUrl":"https://example.com/a"}`)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", rec.Code)
	}

	var response dto.ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response.Code != "STORE_UNAVAILABLE" {
		t.Errorf("unexpected error code %q", response.Code)
	}
}
