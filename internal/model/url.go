// Package model defines domain entities for the application.
package model

import "time"

// DayFormat is the calendar-day layout used for analytics buckets.
// Days are bucketed in UTC, matching how created_at is stored.
const DayFormat = "2006-01-02"

// FormatDay returns the UTC calendar day of t in DayFormat.
func FormatDay(t time.Time) string {
	return t.UTC().Format(DayFormat)
}

// URL represents a shortened URL record.
// The short code is the record's identifier; long_url and created_at are
// immutable after creation.
type URL struct {
	Code      string        `json:"code"`
	LongURL   string        `json:"longUrl"`
	Visits    int64         `json:"visits"`
	CreatedAt time.Time     `json:"createdAt"`
	Analytics []DailyVisits `json:"analytics"`
}

// DailyVisits aggregates the visit count for one UTC calendar day.
// A record holds at most one entry per day, ordered ascending by date.
type DailyVisits struct {
	Date   string `json:"date"`
	Visits int64  `json:"visits"`
}

// AnalyticsTotal sums the per-day buckets. For a consistent record this
// equals Visits.
func (u *URL) AnalyticsTotal() int64 {
	var total int64
	for _, day := range u.Analytics {
		total += day.Visits
	}
	return total
}

// DailyVisitsOn returns the bucket for the given day, or zero if the record
// has no visits on that day.
func (u *URL) DailyVisitsOn(day string) int64 {
	for _, entry := range u.Analytics {
		if entry.Date == day {
			return entry.Visits
		}
	}
	return 0
}
