package visit

import (
	"time"

	"github.com/marcyannick1/roomly-backend-go/internal/domain/visit"
)

// Filter returns the visits matching pred, preserving order. The input slice
// is never mutated.
func Filter(visits []visit.Visit, pred func(visit.Visit) bool) []visit.Visit {
	var out []visit.Visit
	for _, v := range visits {
		if pred(v) {
			out = append(out, v)
		}
	}
	return out
}

// Upcoming matches visits whose proposed date is strictly after now.
func Upcoming(now time.Time) func(visit.Visit) bool {
	return func(v visit.Visit) bool {
		return v.ProposedDate.After(now)
	}
}

// Past matches visits whose proposed date is at or before now.
func Past(now time.Time) func(visit.Visit) bool {
	return func(v visit.Visit) bool {
		return !v.ProposedDate.After(now)
	}
}

// WithStatus matches visits in the given status.
func WithStatus(status visit.Status) func(visit.Visit) bool {
	return func(v visit.Visit) bool {
		return v.Status == status
	}
}

const dayFormat = "2006-01-02"

// BucketByDay groups visits by the calendar date of their proposed time in
// loc. Two visits less than an hour apart can land in different buckets when
// they straddle local midnight; that is the point of bucketing by local date
// rather than UTC date.
func BucketByDay(visits []visit.Visit, loc *time.Location) map[string][]visit.Visit {
	buckets := make(map[string][]visit.Visit)
	for _, v := range visits {
		key := v.ProposedDate.In(loc).Format(dayFormat)
		buckets[key] = append(buckets[key], v)
	}
	return buckets
}

// BuildMonthCalendar produces the month view: one entry per day of the month
// containing the visits whose local date falls on that day.
func BuildMonthCalendar(visits []visit.Visit, month time.Time, loc *time.Location) visit.CalendarMonthResponse {
	first := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, loc)
	next := first.AddDate(0, 1, 0)

	buckets := BucketByDay(visits, loc)

	var days []visit.CalendarDayResponse
	for d := first; d.Before(next); d = d.AddDate(0, 0, 1) {
		key := d.Format(dayFormat)
		bucket := buckets[key]
		day := visit.CalendarDayResponse{
			Date:      key,
			HasVisits: len(bucket) > 0,
		}
		if len(bucket) > 0 {
			day.Visits = visit.ToResponses(bucket)
		}
		days = append(days, day)
	}

	return visit.CalendarMonthResponse{
		Month:    first.Format("2006-01"),
		Timezone: loc.String(),
		Days:     days,
	}
}
