// Package timebucket provides UTC calendar bucket math for trend series.
//
// Buckets are aligned, non-overlapping, gapless intervals: day, ISO week
// (Monday start), calendar month, or calendar quarter. All computation uses
// UTC; callers are expected to pass UTC timestamps.
package timebucket

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Granularity selects the bucket width.
type Granularity string

const (
	GranularityDay     Granularity = "day"
	GranularityWeek    Granularity = "week"
	GranularityMonth   Granularity = "month"
	GranularityQuarter Granularity = "quarter"
)

// MaxBuckets caps generated sequences. Requests implying more buckets are
// silently truncated; this is a documented contract guarding against
// malformed ranges, not an error.
const MaxBuckets = 200

var ErrInvalidGranularity = errors.New("invalid_granularity")

// ParseGranularity normalizes a raw granularity value.
func ParseGranularity(raw string) (Granularity, error) {
	switch Granularity(strings.ToLower(strings.TrimSpace(raw))) {
	case GranularityDay:
		return GranularityDay, nil
	case GranularityWeek:
		return GranularityWeek, nil
	case GranularityMonth:
		return GranularityMonth, nil
	case GranularityQuarter:
		return GranularityQuarter, nil
	default:
		return "", ErrInvalidGranularity
	}
}

// Range is a calendar date range. End is inclusive as supplied by callers and
// treated as exclusive at End+1 day internally.
type Range struct {
	Start time.Time
	End   time.Time
}

// EndExclusive returns the exclusive upper boundary of the range.
func (r Range) EndExclusive() time.Time {
	return truncateToDay(r.End).AddDate(0, 0, 1)
}

// Bucket is one aligned interval. End is exclusive and equals the next
// bucket's Start.
type Bucket struct {
	Start time.Time
	End   time.Time
	Label string
}

// Contains reports whether t falls within [b.Start, b.End).
func (b Bucket) Contains(t time.Time) bool {
	return !t.Before(b.Start) && t.Before(b.End)
}

// Floor aligns t down to the start of its bucket.
func Floor(t time.Time, g Granularity) time.Time {
	t = t.UTC()
	switch g {
	case GranularityWeek:
		day := truncateToDay(t)
		// Monday start: Sunday is weekday 0 in Go.
		offset := (int(day.Weekday()) + 6) % 7
		return day.AddDate(0, 0, -offset)
	case GranularityMonth:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	case GranularityQuarter:
		quarterMonth := time.Month((int(t.Month())-1)/3*3 + 1)
		return time.Date(t.Year(), quarterMonth, 1, 0, 0, 0, 0, time.UTC)
	default:
		return truncateToDay(t)
	}
}

// Next advances t by exactly one bucket unit.
func Next(t time.Time, g Granularity) time.Time {
	switch g {
	case GranularityWeek:
		return t.AddDate(0, 0, 7)
	case GranularityMonth:
		return t.AddDate(0, 1, 0)
	case GranularityQuarter:
		return t.AddDate(0, 3, 0)
	default:
		return t.AddDate(0, 0, 1)
	}
}

// Generate produces the ordered, contiguous bucket sequence covering rng.
// Generation stops at MaxBuckets, and also if Next ever fails to advance.
func Generate(rng Range, g Granularity) []Bucket {
	start := Floor(rng.Start, g)
	endExclusive := rng.EndExclusive()

	buckets := make([]Bucket, 0)
	for start.Before(endExclusive) && len(buckets) < MaxBuckets {
		next := Next(start, g)
		if !next.After(start) {
			break
		}
		buckets = append(buckets, Bucket{
			Start: start,
			End:   next,
			Label: Label(start, g),
		})
		start = next
	}
	return buckets
}

// Label renders a short display label for a bucket start. Labels are
// cosmetic and never used in comparisons.
func Label(start time.Time, g Granularity) string {
	switch g {
	case GranularityMonth:
		return start.Format("Jan 06")
	case GranularityQuarter:
		quarter := (int(start.Month())-1)/3 + 1
		return fmt.Sprintf("Q%d %s", quarter, start.Format("06"))
	default:
		return start.Format("Jan 2")
	}
}

func truncateToDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
