package service

import (
	"fmt"
	"sort"

	"github.com/smallbiznis/tradebeat/internal/insights/domain"
)

const (
	priorityHigh   = 3
	priorityMedium = 2

	maxRecommendations = 3
)

// RecommendationInput carries the pre-computed signals the rule set
// evaluates. ProfitMargin is only meaningful when HasMargin is true.
type RecommendationInput struct {
	ARRiskPct       float64
	AROver15d       int64
	DaysBookedAhead int
	LeakCount       int
	LeakAmount      int64

	ChangesRequestedCount int
	CompletedJobs         int
	ProfitMargin          float64
	HasMargin             bool
}

// BuildRecommendations evaluates the rule set and returns at most three
// items, highest priority first. Rule order breaks priority ties.
func BuildRecommendations(in RecommendationInput) []domain.Recommendation {
	var recs []domain.Recommendation
	add := func(icon, text string, priority int) {
		recs = append(recs, domain.Recommendation{Icon: icon, Text: text, Priority: priority})
	}

	switch {
	case in.ARRiskPct > 0.15:
		add("alert-triangle", fmt.Sprintf("%s of receivables is more than 15 days overdue. Start collections now.", formatMoney(in.AROver15d)), priorityHigh)
	case in.ARRiskPct > 0.08:
		add("alert-triangle", fmt.Sprintf("%s of receivables is aging past 15 days. Send payment reminders.", formatMoney(in.AROver15d)), priorityMedium)
	}

	switch {
	case in.DaysBookedAhead < 5:
		add("calendar", fmt.Sprintf("Only %d days of work booked ahead. Push quotes out to fill the schedule.", in.DaysBookedAhead), priorityHigh)
	case in.DaysBookedAhead < 7:
		add("calendar", fmt.Sprintf("Schedule runs dry in %d days. Line up the next jobs.", in.DaysBookedAhead), priorityMedium)
	case in.DaysBookedAhead > 21:
		add("calendar", fmt.Sprintf("Booked %d days out. Consider raising prices or adding crew.", in.DaysBookedAhead), priorityMedium)
	}

	if in.LeakCount > 5 {
		recovery := in.LeakAmount / 4
		add("droplet", fmt.Sprintf("%d quotes went quiet after sending. Following up could recover about %s.", in.LeakCount, formatMoney(recovery)), priorityMedium)
	}

	if in.ChangesRequestedCount > 0 {
		add("edit", fmt.Sprintf("%d quotes have change requests waiting. Revise them before the customer cools off.", in.ChangesRequestedCount), priorityHigh)
	}

	if in.HasMargin && in.CompletedJobs >= 5 && in.ProfitMargin < 0.20 {
		add("trending-down", fmt.Sprintf("Profit margin on completed jobs is %.0f%%. Review pricing and job costs.", in.ProfitMargin*100), priorityMedium)
	}

	sort.SliceStable(recs, func(i, j int) bool { return recs[i].Priority > recs[j].Priority })
	if len(recs) > maxRecommendations {
		recs = recs[:maxRecommendations]
	}
	return recs
}

func formatMoney(minor int64) string {
	sign := ""
	if minor < 0 {
		sign = "-"
		minor = -minor
	}
	return fmt.Sprintf("%s$%d.%02d", sign, minor/100, minor%100)
}
