package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/smallbiznis/tradebeat/internal/insights/domain"
	recorddomain "github.com/smallbiznis/tradebeat/internal/record/domain"
)

func TestScoreCapacityNoJobs(t *testing.T) {
	now := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	res := ScoreCapacity(nil, now)

	assert.Equal(t, 0, res.DaysBookedAhead)
	assert.Equal(t, domain.CapacityUnderbooked, res.State)
	// (7-0)*14 = 98
	assert.Equal(t, float64(98), res.Score)
	assert.Equal(t, domain.SeverityCritical, res.Severity)
}

func TestScoreCapacityStates(t *testing.T) {
	now := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	cases := []struct {
		name      string
		daysAhead int
		state     domain.CapacityState
		score     float64
	}{
		{"three days out", 3, domain.CapacityUnderbooked, 56},
		{"six days out", 6, domain.CapacityUnderbooked, 14},
		{"seven days out", 7, domain.CapacityBalanced, 0},
		{"fourteen days out", 14, domain.CapacityBalanced, 0},
		{"fifteen days out", 15, domain.CapacityOverbooked, 60},
		{"twentyone days out", 21, domain.CapacityOverbooked, 60},
		{"twentytwo days out", 22, domain.CapacityOverbooked, 90},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			jobs := []recorddomain.Job{
				{Status: "scheduled", ScheduledStartAt: ptrTime(now.AddDate(0, 0, tc.daysAhead))},
			}
			res := ScoreCapacity(jobs, now)
			assert.Equal(t, tc.daysAhead, res.DaysBookedAhead)
			assert.Equal(t, tc.state, res.State)
			assert.Equal(t, tc.score, res.Score)
		})
	}
}

func TestScoreCapacityUsesFurthestStart(t *testing.T) {
	now := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	jobs := []recorddomain.Job{
		{Status: "scheduled", ScheduledStartAt: ptrTime(now.AddDate(0, 0, 2))},
		{Status: "scheduled", ScheduledStartAt: ptrTime(now.AddDate(0, 0, 10))},
		{Status: "scheduled", ScheduledStartAt: ptrTime(now.AddDate(0, 0, 4))},
	}

	res := ScoreCapacity(jobs, now)

	assert.Equal(t, 10, res.DaysBookedAhead)
	assert.Equal(t, domain.CapacityBalanced, res.State)
}

func TestScoreCapacityPastStartsDoNotGoNegative(t *testing.T) {
	now := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	jobs := []recorddomain.Job{
		{Status: "in_progress", ScheduledStartAt: ptrTime(now.AddDate(0, 0, -9))},
	}

	res := ScoreCapacity(jobs, now)

	assert.Equal(t, 0, res.DaysBookedAhead)
	assert.Equal(t, domain.CapacityUnderbooked, res.State)
}

func TestScoreCapacityUnscheduledPenaltyCaps(t *testing.T) {
	now := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	jobs := []recorddomain.Job{
		{Status: "scheduled", ScheduledStartAt: ptrTime(now.AddDate(0, 0, 10))},
	}
	for i := 0; i < 12; i++ {
		jobs = append(jobs, recorddomain.Job{Status: "pending", CreatedAt: now.AddDate(0, 0, -1)})
	}

	res := ScoreCapacity(jobs, now)

	assert.Equal(t, 12, res.UnscheduledCount)
	assert.Len(t, res.Unscheduled, 12)
	// Base 0 (balanced) + penalty capped at 30.
	assert.Equal(t, float64(30), res.Score)
	assert.Equal(t, domain.SeverityGood, res.Severity)
}

func TestScoreCapacityScoreClampedToHundred(t *testing.T) {
	now := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	jobs := make([]recorddomain.Job, 0, 10)
	for i := 0; i < 10; i++ {
		jobs = append(jobs, recorddomain.Job{Status: "pending"})
	}

	res := ScoreCapacity(jobs, now)

	// Base 98 + penalty 30 clamps at 100.
	assert.Equal(t, float64(100), res.Score)
	assert.Equal(t, domain.SeverityCritical, res.Severity)
}
