// Package domain defines the request and result types of the metrics and
// trend aggregation engine.
package domain

import (
	"errors"
	"time"

	"github.com/smallbiznis/tradebeat/internal/timebucket"
)

var (
	ErrInvalidAccount = errors.New("invalid_account")
	ErrInvalidRange   = errors.New("invalid_range")
)

// Severity tiers a 0-100 score: >= 80 critical, >= 50 warning, else good.
type Severity string

const (
	SeverityGood     Severity = "good"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// CapacityState describes how far ahead the schedule is booked.
type CapacityState string

const (
	CapacityUnderbooked CapacityState = "underbooked"
	CapacityBalanced    CapacityState = "balanced"
	CapacityOverbooked  CapacityState = "overbooked"
)

// Request scopes one engine evaluation. Start and End are UTC calendar
// dates; End is inclusive. Now overrides the evaluation instant and is
// primarily for tests; the zero value falls back to the service clock.
type Request struct {
	Start       time.Time
	End         time.Time
	Granularity timebucket.Granularity
	Now         time.Time
}

// Range returns the request window as a bucket range.
func (r Request) Range() timebucket.Range {
	return timebucket.Range{Start: r.Start, End: r.End}
}

// Recommendation is one ranked, human-readable action item.
type Recommendation struct {
	Icon     string `json:"icon"`
	Text     string `json:"text"`
	Priority int    `json:"priority"`
}

// MetricSnapshot is the headline KPI set for one account and window.
// Money fields are minor currency units.
type MetricSnapshot struct {
	TotalAR    int64    `json:"total_ar"`
	AROver15d  int64    `json:"ar_over_15d"`
	ARRiskPct  float64  `json:"ar_risk_pct"`
	ARSeverity Severity `json:"ar_severity"`

	DaysBookedAhead  int           `json:"days_booked_ahead"`
	UnscheduledCount int           `json:"unscheduled_count"`
	CapacityState    CapacityState `json:"capacity_state"`
	CapacitySeverity Severity      `json:"capacity_severity"`

	LeakCount    int      `json:"leak_count"`
	LeakAmount   int64    `json:"leak_amount"`
	LeakSeverity Severity `json:"leak_severity"`

	Recommendations []Recommendation `json:"recommendations"`
}

// SeriesPoint is one bucket's value in a trend series.
type SeriesPoint struct {
	Label string `json:"label"`
	Value int64  `json:"value"`
}

// TrendSeries holds the three named trend series. AROver15d and
// Unscheduled are cumulative as-of snapshots per bucket boundary;
// QuoteLeak is a periodic per-bucket flow.
type TrendSeries struct {
	AROver15d   []SeriesPoint `json:"ar_over_15d"`
	QuoteLeak   []SeriesPoint `json:"quote_leak"`
	Unscheduled []SeriesPoint `json:"unscheduled"`
}

// DashboardResponse is the full engine output for one request.
type DashboardResponse struct {
	Snapshot MetricSnapshot `json:"snapshot"`
	Trends   TrendSeries    `json:"trends"`
	HasData  bool           `json:"has_data"`
}

// AgedARRow is one export row of the aged receivables list
// (days overdue >= 15, sorted descending by days overdue).
type AgedARRow struct {
	InvoiceID   string `json:"invoice_id"`
	Status      string `json:"status"`
	TotalAmount int64  `json:"total_amount"`
	DueDate     string `json:"due_date"`
	DaysOverdue int    `json:"days_overdue"`
}

// LeakingQuoteRow is one export row of the top leaking quotes
// (sorted descending by amount, capped to the configured top N).
type LeakingQuoteRow struct {
	QuoteNumber string `json:"quote_number"`
	Title       string `json:"title"`
	Status      string `json:"status"`
	TotalAmount int64  `json:"total_amount"`
	SentDate    string `json:"sent_date"`
}

// UnscheduledJobRow is one export row of jobs without a scheduled start.
type UnscheduledJobRow struct {
	JobNumber   string `json:"job_number"`
	Title       string `json:"title"`
	Status      string `json:"status"`
	CreatedDate string `json:"created_date"`
}
