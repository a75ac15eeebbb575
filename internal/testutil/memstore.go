package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Minhaj002/url-shortener-app/internal/model"
	"github.com/Minhaj002/url-shortener-app/internal/repository"
)

// MemStore is an in-memory implementation of the service store, mirroring
// the repository's semantics: conditional create on code, atomic visit
// accounting, earliest-record dedup, newest-first listing.
type MemStore struct {
	mu      sync.Mutex
	records map[string]*model.URL

	// FailWith, when set, is returned by every operation. Used to simulate
	// an unavailable store.
	FailWith error
}

// NewMemStore creates an empty MemStore.
func NewMemStore() *MemStore {
	return &MemStore{records: make(map[string]*model.URL)}
}

// CreateURL stores a new record, or returns repository.ErrCodeExists when
// the code is taken.
func (s *MemStore) CreateURL(ctx context.Context, record *model.URL) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailWith != nil {
		return s.FailWith
	}

	if _, ok := s.records[record.Code]; ok {
		return repository.ErrCodeExists
	}

	s.records[record.Code] = cloneURL(record)
	return nil
}

// GetURLByCode returns a copy of the record for a code.
func (s *MemStore) GetURLByCode(ctx context.Context, code string) (*model.URL, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailWith != nil {
		return nil, s.FailWith
	}

	record, ok := s.records[code]
	if !ok {
		return nil, repository.ErrURLNotFound
	}
	return cloneURL(record), nil
}

// GetURLByLongURL returns the earliest record for a destination.
func (s *MemStore) GetURLByLongURL(ctx context.Context, longURL string) (*model.URL, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailWith != nil {
		return nil, s.FailWith
	}

	var match *model.URL
	for _, record := range s.records {
		if record.LongURL != longURL {
			continue
		}
		if match == nil || record.CreatedAt.Before(match.CreatedAt) ||
			(record.CreatedAt.Equal(match.CreatedAt) && record.Code < match.Code) {
			match = record
		}
	}

	if match == nil {
		return nil, repository.ErrURLNotFound
	}
	return cloneURL(match), nil
}

// RecordVisit increments the total counter and the day's bucket together,
// returning the long URL. An unknown code changes nothing.
func (s *MemStore) RecordVisit(ctx context.Context, code string, day time.Time) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailWith != nil {
		return "", s.FailWith
	}

	record, ok := s.records[code]
	if !ok {
		return "", repository.ErrURLNotFound
	}

	record.Visits++

	date := model.FormatDay(day)
	for i := range record.Analytics {
		if record.Analytics[i].Date == date {
			record.Analytics[i].Visits++
			return record.LongURL, nil
		}
	}

	record.Analytics = append(record.Analytics, model.DailyVisits{Date: date, Visits: 1})
	sort.Slice(record.Analytics, func(i, j int) bool {
		return record.Analytics[i].Date < record.Analytics[j].Date
	})

	return record.LongURL, nil
}

// ListURLs returns copies of all records, newest first.
func (s *MemStore) ListURLs(ctx context.Context) ([]*model.URL, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailWith != nil {
		return nil, s.FailWith
	}

	records := make([]*model.URL, 0, len(s.records))
	for _, record := range s.records {
		records = append(records, cloneURL(record))
	}
	sort.Slice(records, func(i, j int) bool {
		if !records[i].CreatedAt.Equal(records[j].CreatedAt) {
			return records[i].CreatedAt.After(records[j].CreatedAt)
		}
		return records[i].Code < records[j].Code
	})

	return records, nil
}

// Len returns the number of stored records.
func (s *MemStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

func cloneURL(record *model.URL) *model.URL {
	clone := *record
	clone.Analytics = make([]model.DailyVisits, len(record.Analytics))
	copy(clone.Analytics, record.Analytics)
	return &clone
}
