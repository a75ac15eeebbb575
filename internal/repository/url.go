package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/Minhaj002/url-shortener-app/internal/model"
)

// Common errors for URL repository operations.
var (
	ErrURLNotFound = errors.New("url not found")
	ErrCodeExists  = errors.New("short code already exists")
)

// CreateURL inserts a new URL record. The insert is conditional on the code
// being free: a concurrent or earlier record with the same code leaves the
// table untouched and returns ErrCodeExists so the caller can retry with a
// fresh code.
func (r *Repository) CreateURL(ctx context.Context, record *model.URL) error {
	query := `
		INSERT INTO urls (code, long_url, visits, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (code) DO NOTHING
	`

	result, err := r.pool.Exec(ctx, query,
		record.Code,
		record.LongURL,
		record.Visits,
		record.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create url: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrCodeExists
	}

	return nil
}

// GetURLByCode retrieves a URL record, including its per-day analytics.
func (r *Repository) GetURLByCode(ctx context.Context, code string) (*model.URL, error) {
	query := `
		SELECT code, long_url, visits, created_at
		FROM urls
		WHERE code = $1
	`

	record, err := scanURL(r.pool.QueryRow(ctx, query, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrURLNotFound
		}
		return nil, fmt.Errorf("failed to get url by code: %w", err)
	}

	record.Analytics, err = r.loadAnalytics(ctx, code)
	if err != nil {
		return nil, err
	}

	return record, nil
}

// GetURLByLongURL finds the record for a destination, if one exists.
// Duplicate records for one destination can exist after a shorten race;
// ordering by created_at makes every caller converge on the earliest one.
func (r *Repository) GetURLByLongURL(ctx context.Context, longURL string) (*model.URL, error) {
	query := `
		SELECT code, long_url, visits, created_at
		FROM urls
		WHERE long_url = $1
		ORDER BY created_at, code
		LIMIT 1
	`

	record, err := scanURL(r.pool.QueryRow(ctx, query, longURL))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrURLNotFound
		}
		return nil, fmt.Errorf("failed to get url by long url: %w", err)
	}

	record.Analytics, err = r.loadAnalytics(ctx, record.Code)
	if err != nil {
		return nil, err
	}

	return record, nil
}

// RecordVisit bumps the total visit counter and the day's analytics bucket
// in one transaction, and returns the stored long URL. Both increments are
// store-side, so concurrent visits cannot lose updates. An unknown code
// returns ErrURLNotFound and writes nothing.
func (r *Repository) RecordVisit(ctx context.Context, code string, day time.Time) (string, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to begin visit transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var longURL string
	err = tx.QueryRow(ctx,
		`UPDATE urls SET visits = visits + 1 WHERE code = $1 RETURNING long_url`,
		code,
	).Scan(&longURL)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrURLNotFound
		}
		return "", fmt.Errorf("failed to increment visits: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO url_daily_visits (code, date, visits)
		VALUES ($1, $2, 1)
		ON CONFLICT (code, date) DO UPDATE
		SET visits = url_daily_visits.visits + 1
	`, code, day.UTC().Truncate(24*time.Hour))
	if err != nil {
		return "", fmt.Errorf("failed to update daily bucket: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return "", fmt.Errorf("failed to commit visit: %w", err)
	}

	return longURL, nil
}

// ListURLs returns every record with its full analytics sequence,
// newest first.
func (r *Repository) ListURLs(ctx context.Context) ([]*model.URL, error) {
	query := `
		SELECT code, long_url, visits, created_at
		FROM urls
		ORDER BY created_at DESC, code
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list urls: %w", err)
	}
	defer rows.Close()

	var records []*model.URL
	byCode := make(map[string]*model.URL)
	for rows.Next() {
		record, err := scanURL(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan url: %w", err)
		}
		record.Analytics = []model.DailyVisits{}
		records = append(records, record)
		byCode[record.Code] = record
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating urls: %w", err)
	}

	if len(records) == 0 {
		return records, nil
	}

	dailyRows, err := r.pool.Query(ctx, `
		SELECT code, date, visits
		FROM url_daily_visits
		ORDER BY code, date
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list daily visits: %w", err)
	}
	defer dailyRows.Close()

	for dailyRows.Next() {
		var code string
		var date time.Time
		var visits int64
		if err := dailyRows.Scan(&code, &date, &visits); err != nil {
			return nil, fmt.Errorf("failed to scan daily visits: %w", err)
		}
		if record, ok := byCode[code]; ok {
			record.Analytics = append(record.Analytics, model.DailyVisits{
				Date:   date.Format(model.DayFormat),
				Visits: visits,
			})
		}
	}
	if err := dailyRows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating daily visits: %w", err)
	}

	return records, nil
}

// loadAnalytics fetches a record's per-day buckets, ascending by date.
func (r *Repository) loadAnalytics(ctx context.Context, code string) ([]model.DailyVisits, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT date, visits
		FROM url_daily_visits
		WHERE code = $1
		ORDER BY date
	`, code)
	if err != nil {
		return nil, fmt.Errorf("failed to load analytics: %w", err)
	}
	defer rows.Close()

	analytics := []model.DailyVisits{}
	for rows.Next() {
		var date time.Time
		var visits int64
		if err := rows.Scan(&date, &visits); err != nil {
			return nil, fmt.Errorf("failed to scan analytics row: %w", err)
		}
		analytics = append(analytics, model.DailyVisits{
			Date:   date.Format(model.DayFormat),
			Visits: visits,
		})
	}

	return analytics, rows.Err()
}

// scanURL scans a single row into a URL model.
func scanURL(row pgx.Row) (*model.URL, error) {
	var record model.URL
	err := row.Scan(
		&record.Code,
		&record.LongURL,
		&record.Visits,
		&record.CreatedAt,
	)
	return &record, err
}
