package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/smallbiznis/tradebeat/internal/insights/domain"
	recorddomain "github.com/smallbiznis/tradebeat/internal/record/domain"
)

func TestDetectLeaksArchivedExcluded(t *testing.T) {
	now := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	start := now.AddDate(0, 0, -7)
	quotes := []recorddomain.Quote{
		{QuoteNumber: "Q-1", Status: "archived", SentAt: ptrTime(now.AddDate(0, 0, -3))},
		{QuoteNumber: "Q-2", Status: "awaiting_response", TotalAmount: 4000, SentAt: ptrTime(now.AddDate(0, 0, -3))},
	}

	res := DetectLeaks(quotes, start, now)

	assert.Equal(t, 1, res.Count)
	assert.Equal(t, int64(4000), res.Amount)
	if assert.Len(t, res.Candidates, 1) {
		assert.Equal(t, "Q-2", res.Candidates[0].QuoteNumber)
	}
}

func TestDetectLeaksWindowIsHalfOpen(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC)
	quotes := []recorddomain.Quote{
		{QuoteNumber: "before", Status: "sent", TotalAmount: 100, SentAt: ptrTime(start.Add(-time.Second))},
		{QuoteNumber: "at-start", Status: "sent", TotalAmount: 200, SentAt: ptrTime(start)},
		{QuoteNumber: "inside", Status: "sent", TotalAmount: 400, SentAt: ptrTime(start.AddDate(0, 0, 3))},
		{QuoteNumber: "at-end", Status: "sent", TotalAmount: 800, SentAt: ptrTime(end)},
		{QuoteNumber: "never-sent", Status: "sent", TotalAmount: 1600, SentAt: nil},
	}

	res := DetectLeaks(quotes, start, end)

	assert.Equal(t, 2, res.Count)
	assert.Equal(t, int64(600), res.Amount)
}

func TestDetectLeaksWonLikeExcluded(t *testing.T) {
	now := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	start := now.AddDate(0, 0, -7)
	sent := ptrTime(now.AddDate(0, 0, -2))
	quotes := []recorddomain.Quote{
		{Status: "client_approved", TotalAmount: 100, SentAt: sent},
		{Status: "Accepted", TotalAmount: 100, SentAt: sent},
		{Status: "WON", TotalAmount: 100, SentAt: sent},
		{Status: "converted_to_job", TotalAmount: 100, SentAt: sent},
		{Status: "booked", TotalAmount: 100, SentAt: sent},
		{Status: "draft", TotalAmount: 100, SentAt: sent},
		{Status: "awaiting_response", TotalAmount: 700, SentAt: sent},
	}

	res := DetectLeaks(quotes, start, now)

	assert.Equal(t, 1, res.Count)
	assert.Equal(t, int64(700), res.Amount)
}

func TestDetectLeaksScoreAndSeverity(t *testing.T) {
	now := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	start := now.AddDate(0, 0, -7)
	sent := ptrTime(now.AddDate(0, 0, -1))

	mkQuotes := func(n int) []recorddomain.Quote {
		quotes := make([]recorddomain.Quote, 0, n)
		for i := 0; i < n; i++ {
			quotes = append(quotes, recorddomain.Quote{Status: "sent", TotalAmount: 50, SentAt: sent})
		}
		return quotes
	}

	res := DetectLeaks(mkQuotes(3), start, now)
	assert.Equal(t, float64(24), res.Score)
	assert.Equal(t, domain.SeverityGood, res.Severity)

	res = DetectLeaks(mkQuotes(7), start, now)
	assert.Equal(t, float64(56), res.Score)
	assert.Equal(t, domain.SeverityWarning, res.Severity)

	res = DetectLeaks(mkQuotes(20), start, now)
	assert.Equal(t, float64(100), res.Score)
	assert.Equal(t, domain.SeverityCritical, res.Severity)
}

func TestDetectLeaksCandidatesSortedByAmount(t *testing.T) {
	now := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	start := now.AddDate(0, 0, -7)
	sent := ptrTime(now.AddDate(0, 0, -1))
	quotes := []recorddomain.Quote{
		{QuoteNumber: "Q-small", Status: "sent", TotalAmount: 100, SentAt: sent},
		{QuoteNumber: "Q-big", Status: "sent", TotalAmount: 9000, SentAt: sent},
		{QuoteNumber: "Q-mid", Status: "sent", TotalAmount: 500, SentAt: sent},
	}

	res := DetectLeaks(quotes, start, now)

	if assert.Len(t, res.Candidates, 3) {
		assert.Equal(t, "Q-big", res.Candidates[0].QuoteNumber)
		assert.Equal(t, "Q-mid", res.Candidates[1].QuoteNumber)
		assert.Equal(t, "Q-small", res.Candidates[2].QuoteNumber)
	}
}

func TestIsWonLike(t *testing.T) {
	won := []string{"approved", "client_approved", "Accepted", "WON", "converted_to_job", "booked", "ApprovalPending"}
	for _, status := range won {
		assert.True(t, IsWonLike(status), status)
	}
	open := []string{"sent", "awaiting_response", "changes_requested", "viewed", "expired", ""}
	for _, status := range open {
		assert.False(t, IsWonLike(status), status)
	}
}
