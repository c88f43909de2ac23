package service

import (
	"sort"
	"strings"
	"time"

	"github.com/smallbiznis/tradebeat/internal/insights/domain"
	recorddomain "github.com/smallbiznis/tradebeat/internal/record/domain"
)

// Substrings that mark a quote status as already won; such quotes can
// no longer leak.
var wonLikeMarkers = []string{"approv", "accept", "won", "convert", "book"}

// Statuses that never enter leak detection regardless of sent date.
var leakExcludedStatuses = map[string]struct{}{
	"archived": {},
	"draft":    {},
}

// LeakResult is the quote leakage detection for one window.
type LeakResult struct {
	Count    int
	Amount   int64
	Score    float64
	Severity domain.Severity

	// Candidates lists the leaking quotes, largest amount first.
	Candidates []recorddomain.Quote
}

// DetectLeaks finds quotes sent within [start, endExclusive) that were
// neither won nor archived, i.e. money offered but never captured.
func DetectLeaks(quotes []recorddomain.Quote, start, endExclusive time.Time) LeakResult {
	var res LeakResult
	for _, q := range quotes {
		if q.SentAt == nil {
			continue
		}
		sent := *q.SentAt
		if sent.Before(start) || !sent.Before(endExclusive) {
			continue
		}
		status := strings.ToLower(q.Status)
		if _, excluded := leakExcludedStatuses[status]; excluded {
			continue
		}
		if IsWonLike(status) {
			continue
		}
		res.Count++
		res.Amount += q.TotalAmount
		res.Candidates = append(res.Candidates, q)
	}
	res.Score = clampScore(float64(res.Count) * 8)
	res.Severity = severityForScore(res.Score)
	sort.SliceStable(res.Candidates, func(i, j int) bool {
		return res.Candidates[i].TotalAmount > res.Candidates[j].TotalAmount
	})
	return res
}

// IsWonLike reports whether a quote status signals a won deal. Matching
// is case-insensitive substring containment, so vendor-specific variants
// like "client_approved" or "converted_to_job" classify correctly.
func IsWonLike(status string) bool {
	status = strings.ToLower(status)
	for _, marker := range wonLikeMarkers {
		if strings.Contains(status, marker) {
			return true
		}
	}
	return false
}
