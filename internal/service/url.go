// Package service provides business logic for the application.
package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/Minhaj002/url-shortener-app/internal/metrics"
	"github.com/Minhaj002/url-shortener-app/internal/model"
	"github.com/Minhaj002/url-shortener-app/internal/repository"
)

// Service errors.
var (
	ErrInvalidLongURL = errors.New("invalid long URL")
	ErrURLTooLong     = errors.New("long URL exceeds maximum length")
	ErrURLNotFound    = errors.New("short URL not found")
)

const (
	maxLongURLLength = 2048
	codeLength       = 6
	codeAlphabet     = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	maxCodeRetries   = 3
)

// CodePattern matches every code this service generates.
var CodePattern = regexp.MustCompile(`^[a-zA-Z0-9]{6}$`)

// Store is the persistence layer the service operates on. It is satisfied
// by *repository.Repository; tests substitute an in-memory implementation.
type Store interface {
	CreateURL(ctx context.Context, record *model.URL) error
	GetURLByCode(ctx context.Context, code string) (*model.URL, error)
	GetURLByLongURL(ctx context.Context, longURL string) (*model.URL, error)
	RecordVisit(ctx context.Context, code string, day time.Time) (string, error)
	ListURLs(ctx context.Context) ([]*model.URL, error)
}

// Cache is the optional lookup cache in front of the store. It is satisfied
// by *cache.Cache. A nil Cache disables caching; cache errors degrade to
// store lookups and are never surfaced to callers.
type Cache interface {
	GetDedupCode(ctx context.Context, longURL string) (string, error)
	SetDedupCode(ctx context.Context, longURL, code string) error
	IsNegativelyCached(ctx context.Context, code string) (bool, error)
	SetNegativeCache(ctx context.Context, code string) error
	ClearNegativeCache(ctx context.Context, code string) error
}

// URLService handles shortening, redirect resolution, and analytics listing.
type URLService struct {
	store   Store
	cache   Cache
	baseURL string
	metrics metrics.Recorder
	now     func() time.Time
}

// NewURLService creates a new URLService.
func NewURLService(store Store, cache Cache, baseURL string, recorder metrics.Recorder) *URLService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &URLService{
		store:   store,
		cache:   cache,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		metrics: recorder,
		now:     time.Now,
	}
}

// Shorten returns the record for a long URL, creating one if none exists.
// The second return value reports whether a new record was created.
// Shortening is idempotent per destination: resubmitting a known long URL
// returns the existing code.
func (s *URLService) Shorten(ctx context.Context, longURL string) (*model.URL, bool, error) {
	if err := s.validateLongURL(longURL); err != nil {
		return nil, false, err
	}

	if record := s.lookupDedupCache(ctx, longURL); record != nil {
		return record, false, nil
	}

	record, err := s.store.GetURLByLongURL(ctx, longURL)
	switch {
	case err == nil:
		s.cacheDedup(ctx, longURL, record.Code)
		s.metrics.IncURLReused()
		return record, false, nil
	case !errors.Is(err, repository.ErrURLNotFound):
		return nil, false, fmt.Errorf("lookup long URL: %w", err)
	}

	record, err = s.allocate(ctx, longURL)
	if err != nil {
		return nil, false, err
	}

	s.cacheDedup(ctx, longURL, record.Code)
	s.metrics.IncURLCreated()
	return record, true, nil
}

// Resolve resolves a short code to its long URL, recording the visit in the
// total counter and today's UTC analytics bucket as a side effect. An
// unknown code returns ErrURLNotFound and leaves the store untouched.
func (s *URLService) Resolve(ctx context.Context, code string) (string, error) {
	start := time.Now()
	defer func() {
		s.metrics.ObserveRedirectDuration(time.Since(start))
	}()

	if s.cache != nil {
		if negative, _ := s.cache.IsNegativelyCached(ctx, code); negative {
			s.metrics.IncRedirectNotFound()
			return "", ErrURLNotFound
		}
	}

	longURL, err := s.store.RecordVisit(ctx, code, s.now().UTC())
	if err != nil {
		if errors.Is(err, repository.ErrURLNotFound) {
			if s.cache != nil {
				_ = s.cache.SetNegativeCache(ctx, code)
			}
			s.metrics.IncRedirectNotFound()
			return "", ErrURLNotFound
		}
		return "", fmt.Errorf("record visit: %w", err)
	}

	s.metrics.IncRedirect()
	return longURL, nil
}

// List returns every record with its visit total and per-day analytics.
// Read-only; no side effects.
func (s *URLService) List(ctx context.Context) ([]*model.URL, error) {
	records, err := s.store.ListURLs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list urls: %w", err)
	}
	return records, nil
}

// BaseURL returns the configured base URL.
func (s *URLService) BaseURL() string {
	return s.baseURL
}

// allocate draws random codes until one is free. The conditional create
// detects collisions instead of overwriting; at 62^6 possible codes a retry
// is rare.
func (s *URLService) allocate(ctx context.Context, longURL string) (*model.URL, error) {
	for attempt := 0; attempt < maxCodeRetries; attempt++ {
		code, err := gonanoid.Generate(codeAlphabet, codeLength)
		if err != nil {
			return nil, fmt.Errorf("generate code: %w", err)
		}

		record := &model.URL{
			Code:      code,
			LongURL:   longURL,
			Visits:    0,
			CreatedAt: s.now().UTC(),
			Analytics: []model.DailyVisits{},
		}

		if err := s.store.CreateURL(ctx, record); err != nil {
			if errors.Is(err, repository.ErrCodeExists) {
				continue
			}
			return nil, fmt.Errorf("create url: %w", err)
		}

		if s.cache != nil {
			_ = s.cache.ClearNegativeCache(ctx, code)
		}
		return record, nil
	}

	return nil, errors.New("failed to allocate unique code after retries")
}

// lookupDedupCache probes the dedup cache and re-reads the record from the
// store on a hit. Any cache or store inconsistency falls through to the
// normal path.
func (s *URLService) lookupDedupCache(ctx context.Context, longURL string) *model.URL {
	if s.cache == nil {
		return nil
	}

	code, err := s.cache.GetDedupCode(ctx, longURL)
	if err != nil {
		s.metrics.IncDedupCacheMiss()
		return nil
	}

	record, err := s.store.GetURLByCode(ctx, code)
	if err != nil || record.LongURL != longURL {
		s.metrics.IncDedupCacheMiss()
		return nil
	}

	s.metrics.IncDedupCacheHit()
	s.metrics.IncURLReused()
	return record
}

// cacheDedup stores the destination mapping, best effort.
func (s *URLService) cacheDedup(ctx context.Context, longURL, code string) {
	if s.cache == nil {
		return
	}
	_ = s.cache.SetDedupCode(ctx, longURL, code)
}

// validateLongURL re-validates the destination server-side. The original
// client relied on form validation alone.
func (s *URLService) validateLongURL(longURL string) error {
	if strings.TrimSpace(longURL) == "" {
		return ErrInvalidLongURL
	}

	if len(longURL) > maxLongURLLength {
		return ErrURLTooLong
	}

	parsed, err := url.Parse(longURL)
	if err != nil {
		return ErrInvalidLongURL
	}

	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return ErrInvalidLongURL
	}

	if parsed.Host == "" {
		return ErrInvalidLongURL
	}

	return nil
}
