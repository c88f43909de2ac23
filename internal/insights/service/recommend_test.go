package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildRecommendationsEmptyWhenHealthy(t *testing.T) {
	recs := BuildRecommendations(RecommendationInput{
		ARRiskPct:       0.02,
		DaysBookedAhead: 10,
		LeakCount:       2,
	})
	assert.Empty(t, recs)
}

func TestBuildRecommendationsARThresholds(t *testing.T) {
	recs := BuildRecommendations(RecommendationInput{ARRiskPct: 0.16, AROver15d: 250000, DaysBookedAhead: 10})
	if assert.Len(t, recs, 1) {
		assert.Equal(t, priorityHigh, recs[0].Priority)
		assert.Contains(t, recs[0].Text, "$2500.00")
	}

	recs = BuildRecommendations(RecommendationInput{ARRiskPct: 0.09, AROver15d: 100000, DaysBookedAhead: 10})
	if assert.Len(t, recs, 1) {
		assert.Equal(t, priorityMedium, recs[0].Priority)
	}

	recs = BuildRecommendations(RecommendationInput{ARRiskPct: 0.08, DaysBookedAhead: 10})
	assert.Empty(t, recs)
}

func TestBuildRecommendationsCapacityThresholds(t *testing.T) {
	recs := BuildRecommendations(RecommendationInput{DaysBookedAhead: 4})
	if assert.Len(t, recs, 1) {
		assert.Equal(t, priorityHigh, recs[0].Priority)
	}

	recs = BuildRecommendations(RecommendationInput{DaysBookedAhead: 6})
	if assert.Len(t, recs, 1) {
		assert.Equal(t, priorityMedium, recs[0].Priority)
	}

	recs = BuildRecommendations(RecommendationInput{DaysBookedAhead: 22})
	if assert.Len(t, recs, 1) {
		assert.Equal(t, priorityMedium, recs[0].Priority)
		assert.Contains(t, recs[0].Text, "22 days")
	}

	assert.Empty(t, BuildRecommendations(RecommendationInput{DaysBookedAhead: 10}))
}

func TestBuildRecommendationsLeakRecovery(t *testing.T) {
	recs := BuildRecommendations(RecommendationInput{DaysBookedAhead: 10, LeakCount: 6, LeakAmount: 80000})
	if assert.Len(t, recs, 1) {
		assert.Equal(t, priorityMedium, recs[0].Priority)
		// 25% of the leaked amount.
		assert.Contains(t, recs[0].Text, "$200.00")
	}

	assert.Empty(t, BuildRecommendations(RecommendationInput{DaysBookedAhead: 10, LeakCount: 5, LeakAmount: 80000}))
}

func TestBuildRecommendationsChangesRequested(t *testing.T) {
	recs := BuildRecommendations(RecommendationInput{DaysBookedAhead: 10, ChangesRequestedCount: 2})
	if assert.Len(t, recs, 1) {
		assert.Equal(t, priorityHigh, recs[0].Priority)
		assert.True(t, strings.HasPrefix(recs[0].Text, "2 quotes"))
	}
}

func TestBuildRecommendationsMarginNeedsSampleSize(t *testing.T) {
	low := RecommendationInput{DaysBookedAhead: 10, HasMargin: true, ProfitMargin: 0.12, CompletedJobs: 5}
	recs := BuildRecommendations(low)
	if assert.Len(t, recs, 1) {
		assert.Contains(t, recs[0].Text, "12%")
	}

	low.CompletedJobs = 4
	assert.Empty(t, BuildRecommendations(low))

	healthy := RecommendationInput{DaysBookedAhead: 10, HasMargin: true, ProfitMargin: 0.35, CompletedJobs: 9}
	assert.Empty(t, BuildRecommendations(healthy))
}

func TestBuildRecommendationsCapsAtThreeHighestFirst(t *testing.T) {
	recs := BuildRecommendations(RecommendationInput{
		ARRiskPct:             0.2,
		AROver15d:             50000,
		DaysBookedAhead:       3,
		LeakCount:             8,
		LeakAmount:            40000,
		ChangesRequestedCount: 1,
		HasMargin:             true,
		ProfitMargin:          0.1,
		CompletedJobs:         6,
	})

	assert.Len(t, recs, 3)
	for _, r := range recs {
		assert.Equal(t, priorityHigh, r.Priority)
	}
}

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "$0.00", formatMoney(0))
	assert.Equal(t, "$12.05", formatMoney(1205))
	assert.Equal(t, "-$3.50", formatMoney(-350))
}
