package service

import "github.com/smallbiznis/tradebeat/internal/insights/domain"

const (
	severityWarningThreshold  = 50
	severityCriticalThreshold = 80
)

func severityForScore(score float64) domain.Severity {
	switch {
	case score >= severityCriticalThreshold:
		return domain.SeverityCritical
	case score >= severityWarningThreshold:
		return domain.SeverityWarning
	default:
		return domain.SeverityGood
	}
}

func clampScore(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
