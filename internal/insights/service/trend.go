package service

import (
	"time"

	"github.com/smallbiznis/tradebeat/internal/insights/domain"
	recorddomain "github.com/smallbiznis/tradebeat/internal/record/domain"
	"github.com/smallbiznis/tradebeat/internal/timebucket"
)

// MetricKind selects which trend series to compute over a bucket run.
type MetricKind string

const (
	// MetricAROver15Cumulative re-runs the receivables classifier as of
	// each bucket boundary and reports the 15+ day amount.
	MetricAROver15Cumulative MetricKind = "ar_over_15d_cumulative"
	// MetricQuoteLeakPeriodic reports the leaked quote amount sent
	// within each bucket.
	MetricQuoteLeakPeriodic MetricKind = "quote_leak_periodic"
	// MetricUnscheduledCumulative reports the unscheduled job backlog
	// that existed at each bucket boundary.
	MetricUnscheduledCumulative MetricKind = "unscheduled_cumulative"
)

// Dataset is the full record set a trend series draws from.
type Dataset struct {
	Invoices []recorddomain.Invoice
	Jobs     []recorddomain.Job
	Quotes   []recorddomain.Quote
}

// BuildSeries evaluates one metric across the bucket run. Cumulative
// kinds snapshot the state as of each bucket end; periodic kinds sum
// the flow inside each bucket.
func BuildSeries(buckets []timebucket.Bucket, data Dataset, kind MetricKind) []domain.SeriesPoint {
	points := make([]domain.SeriesPoint, 0, len(buckets))
	for _, b := range buckets {
		var value int64
		switch kind {
		case MetricAROver15Cumulative:
			value = arOver15AsOf(data.Invoices, b.End)
		case MetricQuoteLeakPeriodic:
			value = DetectLeaks(data.Quotes, b.Start, b.End).Amount
		case MetricUnscheduledCumulative:
			value = unscheduledAsOf(data.Jobs, b.End)
		}
		points = append(points, domain.SeriesPoint{Label: b.Label, Value: value})
	}
	return points
}

func arOver15AsOf(invoices []recorddomain.Invoice, asOf time.Time) int64 {
	return ClassifyAR(invoices, asOf).Bucket15Plus
}

func unscheduledAsOf(jobs []recorddomain.Job, asOf time.Time) int64 {
	var count int64
	for _, job := range jobs {
		if job.ScheduledStartAt != nil {
			continue
		}
		if job.CreatedAt.Before(asOf) {
			count++
		}
	}
	return count
}
