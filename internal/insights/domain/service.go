package domain

import "context"

// Service evaluates operational health metrics for the account carried
// in the request context.
type Service interface {
	GetDashboard(ctx context.Context, req Request) (DashboardResponse, error)
	GetTrends(ctx context.Context, req Request) (TrendSeries, error)

	ListAgedAR(ctx context.Context, req Request) ([]AgedARRow, error)
	ListLeakingQuotes(ctx context.Context, req Request) ([]LeakingQuoteRow, error)
	ListUnscheduledJobs(ctx context.Context, req Request) ([]UnscheduledJobRow, error)
}
