package service

import (
	"math"
	"time"

	"github.com/smallbiznis/tradebeat/internal/insights/domain"
	recorddomain "github.com/smallbiznis/tradebeat/internal/record/domain"
)

// CapacityResult describes scheduling headroom as of one instant.
type CapacityResult struct {
	DaysBookedAhead  int
	UnscheduledCount int
	State            domain.CapacityState
	Score            float64
	Severity         domain.Severity

	// Unscheduled lists the jobs with no scheduled start.
	Unscheduled []recorddomain.Job
}

// ScoreCapacity derives the booked-ahead horizon from the furthest
// future scheduled start and scores the imbalance. A horizon shorter
// than 7 days reads as underbooked, longer than 14 as overbooked.
func ScoreCapacity(jobs []recorddomain.Job, now time.Time) CapacityResult {
	var res CapacityResult
	var maxStart time.Time
	for _, job := range jobs {
		if job.ScheduledStartAt == nil {
			res.UnscheduledCount++
			res.Unscheduled = append(res.Unscheduled, job)
			continue
		}
		if job.ScheduledStartAt.After(maxStart) {
			maxStart = *job.ScheduledStartAt
		}
	}
	if !maxStart.IsZero() {
		days := int(math.Round(maxStart.Sub(now).Seconds() / 86400))
		if days > 0 {
			res.DaysBookedAhead = days
		}
	}

	switch {
	case res.DaysBookedAhead < 7:
		res.State = domain.CapacityUnderbooked
	case res.DaysBookedAhead <= 14:
		res.State = domain.CapacityBalanced
	default:
		res.State = domain.CapacityOverbooked
	}

	var score float64
	switch d := res.DaysBookedAhead; {
	case d < 7:
		score = float64(7-d) * 14
	case d > 21:
		score = 90
	case d > 14:
		score = 60
	}
	unschedPenalty := math.Min(float64(res.UnscheduledCount)*4, 30)
	res.Score = clampScore(score + unschedPenalty)
	res.Severity = severityForScore(res.Score)
	return res
}
