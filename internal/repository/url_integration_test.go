//go:build integration

package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Minhaj002/url-shortener-app/internal/model"
	"github.com/Minhaj002/url-shortener-app/internal/testutil"
)

func TestIntegrationURLRepository_CreateURL(t *testing.T) {
	ctx, repo := newURLTestEnv(t)

	record := newTestURL("aaa111", testutil.UniqueLongURL("create"))
	if err := repo.CreateURL(ctx, record); err != nil {
		t.Fatalf("CreateURL failed: %v", err)
	}

	retrieved, err := repo.GetURLByCode(ctx, record.Code)
	if err != nil {
		t.Fatalf("GetURLByCode failed: %v", err)
	}

	if retrieved.LongURL != record.LongURL {
		t.Errorf("LongURL mismatch: got %q, want %q", retrieved.LongURL, record.LongURL)
	}
	if retrieved.Visits != 0 {
		t.Errorf("expected zero visits, got %d", retrieved.Visits)
	}
	if len(retrieved.Analytics) != 0 {
		t.Errorf("expected no analytics buckets, got %d", len(retrieved.Analytics))
	}
	if retrieved.CreatedAt.IsZero() {
		t.Error("CreatedAt should be set")
	}
}

func TestIntegrationURLRepository_CreateURL_DuplicateCode(t *testing.T) {
	ctx, repo := newURLTestEnv(t)

	first := newTestURL("dup111", testutil.UniqueLongURL("dup1"))
	second := newTestURL("dup111", testutil.UniqueLongURL("dup2"))

	if err := repo.CreateURL(ctx, first); err != nil {
		t.Fatalf("CreateURL (first) failed: %v", err)
	}

	err := repo.CreateURL(ctx, second)
	if !errors.Is(err, ErrCodeExists) {
		t.Errorf("Expected ErrCodeExists, got: %v", err)
	}

	// The winner's row is untouched
	retrieved, err := repo.GetURLByCode(ctx, "dup111")
	if err != nil {
		t.Fatalf("GetURLByCode failed: %v", err)
	}
	if retrieved.LongURL != first.LongURL {
		t.Errorf("expected first record preserved, got %q", retrieved.LongURL)
	}
}

func TestIntegrationURLRepository_GetURLByCode_NotFound(t *testing.T) {
	ctx, repo := newURLTestEnv(t)

	_, err := repo.GetURLByCode(ctx, "nosuch")
	if !errors.Is(err, ErrURLNotFound) {
		t.Errorf("Expected ErrURLNotFound, got: %v", err)
	}
}

func TestIntegrationURLRepository_GetURLByLongURL(t *testing.T) {
	ctx, repo := newURLTestEnv(t)

	longURL := testutil.UniqueLongURL("bylong")
	record := newTestURL("lng111", longURL)
	if err := repo.CreateURL(ctx, record); err != nil {
		t.Fatalf("CreateURL failed: %v", err)
	}

	retrieved, err := repo.GetURLByLongURL(ctx, longURL)
	if err != nil {
		t.Fatalf("GetURLByLongURL failed: %v", err)
	}
	if retrieved.Code != "lng111" {
		t.Errorf("Code mismatch: got %q, want %q", retrieved.Code, "lng111")
	}
}

func TestIntegrationURLRepository_GetURLByLongURL_PicksEarliest(t *testing.T) {
	ctx, repo := newURLTestEnv(t)

	longURL := testutil.UniqueLongURL("earliest")
	older := newTestURL("old111", longURL)
	older.CreatedAt = time.Now().UTC().Add(-time.Hour)
	newer := newTestURL("new111", longURL)

	if err := repo.CreateURL(ctx, newer); err != nil {
		t.Fatalf("CreateURL (newer) failed: %v", err)
	}
	if err := repo.CreateURL(ctx, older); err != nil {
		t.Fatalf("CreateURL (older) failed: %v", err)
	}

	retrieved, err := repo.GetURLByLongURL(ctx, longURL)
	if err != nil {
		t.Fatalf("GetURLByLongURL failed: %v", err)
	}
	if retrieved.Code != "old111" {
		t.Errorf("expected earliest record, got %q", retrieved.Code)
	}
}

func TestIntegrationURLRepository_RecordVisit(t *testing.T) {
	ctx, repo := newURLTestEnv(t)

	longURL := testutil.UniqueLongURL("visit")
	record := newTestURL("vis111", longURL)
	if err := repo.CreateURL(ctx, record); err != nil {
		t.Fatalf("CreateURL failed: %v", err)
	}

	day := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		got, err := repo.RecordVisit(ctx, "vis111", day)
		if err != nil {
			t.Fatalf("RecordVisit %d failed: %v", i+1, err)
		}
		if got != longURL {
			t.Errorf("RecordVisit returned %q, want %q", got, longURL)
		}
	}

	nextDay := day.Add(24 * time.Hour)
	if _, err := repo.RecordVisit(ctx, "vis111", nextDay); err != nil {
		t.Fatalf("RecordVisit next day failed: %v", err)
	}

	retrieved, err := repo.GetURLByCode(ctx, "vis111")
	if err != nil {
		t.Fatalf("GetURLByCode failed: %v", err)
	}

	if retrieved.Visits != 4 {
		t.Errorf("expected 4 visits, got %d", retrieved.Visits)
	}
	want := []model.DailyVisits{
		{Date: "2024-03-10", Visits: 3},
		{Date: "2024-03-11", Visits: 1},
	}
	if len(retrieved.Analytics) != len(want) {
		t.Fatalf("expected %d buckets, got %d: %+v", len(want), len(retrieved.Analytics), retrieved.Analytics)
	}
	for i, bucket := range want {
		if retrieved.Analytics[i] != bucket {
			t.Errorf("bucket %d = %+v, want %+v", i, retrieved.Analytics[i], bucket)
		}
	}
}

func TestIntegrationURLRepository_RecordVisit_UnknownCode(t *testing.T) {
	ctx, repo := newURLTestEnv(t)

	_, err := repo.RecordVisit(ctx, "nosuch", time.Now().UTC())
	if !errors.Is(err, ErrURLNotFound) {
		t.Errorf("Expected ErrURLNotFound, got: %v", err)
	}

	// The rolled-back transaction must not leave daily rows behind
	var count int
	err = repo.Pool().QueryRow(ctx, "SELECT COUNT(*) FROM url_daily_visits WHERE code = $1", "nosuch").Scan(&count)
	if err != nil {
		t.Fatalf("count daily rows: %v", err)
	}
	if count != 0 {
		t.Errorf("expected no daily rows for unknown code, got %d", count)
	}
}

func TestIntegrationURLRepository_ListURLs(t *testing.T) {
	ctx, repo := newURLTestEnv(t)

	older := newTestURL("lst111", testutil.UniqueLongURL("list1"))
	older.CreatedAt = time.Now().UTC().Add(-time.Hour)
	newer := newTestURL("lst222", testutil.UniqueLongURL("list2"))

	if err := repo.CreateURL(ctx, older); err != nil {
		t.Fatalf("CreateURL (older) failed: %v", err)
	}
	if err := repo.CreateURL(ctx, newer); err != nil {
		t.Fatalf("CreateURL (newer) failed: %v", err)
	}
	if _, err := repo.RecordVisit(ctx, "lst111", time.Now().UTC()); err != nil {
		t.Fatalf("RecordVisit failed: %v", err)
	}

	records, err := repo.ListURLs(ctx)
	if err != nil {
		t.Fatalf("ListURLs failed: %v", err)
	}

	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].Code != "lst222" || records[1].Code != "lst111" {
		t.Errorf("expected newest-first ordering, got %q then %q", records[0].Code, records[1].Code)
	}
	if records[1].Visits != 1 || len(records[1].Analytics) != 1 {
		t.Errorf("expected visited record with one bucket, got %+v", records[1])
	}
}

func newTestURL(code, longURL string) *model.URL {
	return &model.URL{
		Code:      code,
		LongURL:   longURL,
		CreatedAt: time.Now().UTC(),
	}
}

func newURLTestEnv(t *testing.T) (context.Context, *Repository) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration tests in short mode")
	}

	ctx := context.Background()
	dbURL := testutil.RequireEnv(t, "DATABASE_URL")

	repo, err := New(ctx, dbURL)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	t.Cleanup(repo.Close)

	unlock, err := testutil.AcquireDBLock(ctx, repo.Pool())
	if err != nil {
		t.Fatalf("acquire db lock: %v", err)
	}
	t.Cleanup(func() {
		_ = unlock()
	})

	if err := testutil.ResetURLsSchema(ctx, repo.Pool()); err != nil {
		t.Fatalf("reset urls schema: %v", err)
	}

	return ctx, repo
}
