package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/smallbiznis/tradebeat/internal/acctcontext"
	"github.com/smallbiznis/tradebeat/internal/cache"
	"github.com/smallbiznis/tradebeat/internal/clock"
	"github.com/smallbiznis/tradebeat/internal/config"
	"github.com/smallbiznis/tradebeat/internal/insights/domain"
	"github.com/smallbiznis/tradebeat/internal/observability/metrics"
	recorddomain "github.com/smallbiznis/tradebeat/internal/record/domain"
	"github.com/smallbiznis/tradebeat/internal/timebucket"
)

type Params struct {
	fx.In

	Config  config.Config
	Repo    recorddomain.Repository
	Log     *zap.Logger
	Clock   clock.Clock
	Metrics *metrics.Metrics `optional:"true"`
}

type insightService struct {
	cfg     config.Config
	repo    recorddomain.Repository
	log     *zap.Logger
	clock   clock.Clock
	metrics *metrics.Metrics

	snapshots *cache.TTLCache[string, domain.DashboardResponse]
}

func NewService(p Params) domain.Service {
	ttl := time.Duration(p.Config.SnapshotCacheTTLSeconds) * time.Second
	return &insightService{
		cfg:       p.Config,
		repo:      p.Repo,
		log:       p.Log.Named("insights.service"),
		clock:     p.Clock,
		metrics:   p.Metrics,
		snapshots: cache.NewTTLCache[string, domain.DashboardResponse](ttl, p.Clock),
	}
}

func (s *insightService) GetDashboard(ctx context.Context, req domain.Request) (domain.DashboardResponse, error) {
	accountID, err := accountFrom(ctx)
	if err != nil {
		return domain.DashboardResponse{}, err
	}
	if err := validate(req); err != nil {
		return domain.DashboardResponse{}, err
	}

	cacheable := s.cfg.SnapshotCacheTTLSeconds > 0 && req.Now.IsZero()
	key := snapshotKey(accountID, req)
	if cacheable {
		if resp, ok := s.snapshots.Get(key); ok {
			return resp, nil
		}
	}

	data, err := s.load(ctx, accountID)
	if err != nil {
		return domain.DashboardResponse{}, err
	}

	now := s.resolveNow(req)
	resp := s.evaluate(data, req, now)

	if cacheable {
		s.snapshots.Set(key, resp)
	}
	s.metrics.RecordSnapshotComputed(ctx, string(req.Granularity))
	s.log.Debug("dashboard computed",
		zap.String("account_id", accountID.String()),
		zap.String("granularity", string(req.Granularity)),
		zap.Bool("has_data", resp.HasData),
	)
	return resp, nil
}

func (s *insightService) GetTrends(ctx context.Context, req domain.Request) (domain.TrendSeries, error) {
	accountID, err := accountFrom(ctx)
	if err != nil {
		return domain.TrendSeries{}, err
	}
	if err := validate(req); err != nil {
		return domain.TrendSeries{}, err
	}
	data, err := s.load(ctx, accountID)
	if err != nil {
		return domain.TrendSeries{}, err
	}
	buckets := timebucket.Generate(req.Range(), req.Granularity)
	return buildTrends(buckets, data), nil
}

func (s *insightService) ListAgedAR(ctx context.Context, req domain.Request) ([]domain.AgedARRow, error) {
	accountID, err := accountFrom(ctx)
	if err != nil {
		return nil, err
	}
	if err := validate(req); err != nil {
		return nil, err
	}
	data, err := s.load(ctx, accountID)
	if err != nil {
		return nil, err
	}
	aging := ClassifyAR(data.Invoices, s.resolveNow(req))
	rows := make([]domain.AgedARRow, 0, len(aging.Aged))
	for _, aged := range aging.Aged {
		row := domain.AgedARRow{
			InvoiceID:   aged.Invoice.ExternalID,
			Status:      aged.Invoice.Status,
			TotalAmount: aged.Invoice.TotalAmount,
			DaysOverdue: aged.DaysOverdue,
		}
		if aged.Invoice.DueAt != nil {
			row.DueDate = aged.Invoice.DueAt.UTC().Format("2006-01-02")
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (s *insightService) ListLeakingQuotes(ctx context.Context, req domain.Request) ([]domain.LeakingQuoteRow, error) {
	accountID, err := accountFrom(ctx)
	if err != nil {
		return nil, err
	}
	if err := validate(req); err != nil {
		return nil, err
	}
	data, err := s.load(ctx, accountID)
	if err != nil {
		return nil, err
	}
	leak := DetectLeaks(data.Quotes, req.Range().Start, req.Range().EndExclusive())
	top := s.cfg.ExportTopQuotes
	if top <= 0 {
		top = 10
	}
	if len(leak.Candidates) > top {
		leak.Candidates = leak.Candidates[:top]
	}
	rows := make([]domain.LeakingQuoteRow, 0, len(leak.Candidates))
	for _, q := range leak.Candidates {
		row := domain.LeakingQuoteRow{
			QuoteNumber: q.QuoteNumber,
			Title:       q.Title,
			Status:      q.Status,
			TotalAmount: q.TotalAmount,
		}
		if q.SentAt != nil {
			row.SentDate = q.SentAt.UTC().Format("2006-01-02")
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (s *insightService) ListUnscheduledJobs(ctx context.Context, req domain.Request) ([]domain.UnscheduledJobRow, error) {
	accountID, err := accountFrom(ctx)
	if err != nil {
		return nil, err
	}
	if err := validate(req); err != nil {
		return nil, err
	}
	data, err := s.load(ctx, accountID)
	if err != nil {
		return nil, err
	}
	capacity := ScoreCapacity(data.Jobs, s.resolveNow(req))
	rows := make([]domain.UnscheduledJobRow, 0, len(capacity.Unscheduled))
	for _, job := range capacity.Unscheduled {
		rows = append(rows, domain.UnscheduledJobRow{
			JobNumber:   job.JobNumber,
			Title:       job.Title,
			Status:      job.Status,
			CreatedDate: job.CreatedAt.UTC().Format("2006-01-02"),
		})
	}
	return rows, nil
}

func (s *insightService) evaluate(data Dataset, req domain.Request, now time.Time) domain.DashboardResponse {
	aging := ClassifyAR(data.Invoices, now)
	capacity := ScoreCapacity(data.Jobs, now)
	rng := req.Range()
	leak := DetectLeaks(data.Quotes, rng.Start, rng.EndExclusive())

	completed, margin, hasMargin := completedJobMargin(data.Jobs, rng.Start, rng.EndExclusive())
	recs := BuildRecommendations(RecommendationInput{
		ARRiskPct:             aging.RiskPct,
		AROver15d:             aging.Bucket15Plus,
		DaysBookedAhead:       capacity.DaysBookedAhead,
		LeakCount:             leak.Count,
		LeakAmount:            leak.Amount,
		ChangesRequestedCount: countChangesRequested(data.Quotes),
		CompletedJobs:         completed,
		ProfitMargin:          margin,
		HasMargin:             hasMargin,
	})

	buckets := timebucket.Generate(rng, req.Granularity)
	return domain.DashboardResponse{
		Snapshot: domain.MetricSnapshot{
			TotalAR:          aging.Total,
			AROver15d:        aging.Bucket15Plus,
			ARRiskPct:        aging.RiskPct,
			ARSeverity:       aging.Severity,
			DaysBookedAhead:  capacity.DaysBookedAhead,
			UnscheduledCount: capacity.UnscheduledCount,
			CapacityState:    capacity.State,
			CapacitySeverity: capacity.Severity,
			LeakCount:        leak.Count,
			LeakAmount:       leak.Amount,
			LeakSeverity:     leak.Severity,
			Recommendations:  recs,
		},
		Trends:  buildTrends(buckets, data),
		HasData: len(data.Invoices)+len(data.Jobs)+len(data.Quotes) > 0,
	}
}

func (s *insightService) load(ctx context.Context, accountID snowflake.ID) (Dataset, error) {
	invoices, err := s.repo.ListInvoices(ctx, accountID)
	if err != nil {
		return Dataset{}, err
	}
	jobs, err := s.repo.ListJobs(ctx, accountID)
	if err != nil {
		return Dataset{}, err
	}
	quotes, err := s.repo.ListQuotes(ctx, accountID)
	if err != nil {
		return Dataset{}, err
	}
	return Dataset{Invoices: invoices, Jobs: jobs, Quotes: quotes}, nil
}

func (s *insightService) resolveNow(req domain.Request) time.Time {
	if !req.Now.IsZero() {
		return req.Now.UTC()
	}
	return s.clock.Now()
}

func buildTrends(buckets []timebucket.Bucket, data Dataset) domain.TrendSeries {
	return domain.TrendSeries{
		AROver15d:   BuildSeries(buckets, data, MetricAROver15Cumulative),
		QuoteLeak:   BuildSeries(buckets, data, MetricQuoteLeakPeriodic),
		Unscheduled: BuildSeries(buckets, data, MetricUnscheduledCumulative),
	}
}

// completedJobMargin aggregates profit over revenue for jobs completed
// inside the window. Jobs missing either figure are skipped.
func completedJobMargin(jobs []recorddomain.Job, start, endExclusive time.Time) (completed int, margin float64, ok bool) {
	var revenue, profit int64
	for _, job := range jobs {
		if job.CompletedAt == nil {
			continue
		}
		done := *job.CompletedAt
		if done.Before(start) || !done.Before(endExclusive) {
			continue
		}
		completed++
		if job.Revenue == nil || job.Profit == nil {
			continue
		}
		revenue += *job.Revenue
		profit += *job.Profit
	}
	if revenue <= 0 {
		return completed, 0, false
	}
	return completed, float64(profit) / float64(revenue), true
}

func countChangesRequested(quotes []recorddomain.Quote) int {
	var count int
	for _, q := range quotes {
		if strings.EqualFold(strings.TrimSpace(q.Status), "changes_requested") {
			count++
		}
	}
	return count
}

func validate(req domain.Request) error {
	if _, err := timebucket.ParseGranularity(string(req.Granularity)); err != nil {
		return err
	}
	if req.Start.IsZero() || req.End.IsZero() || req.End.Before(req.Start) {
		return domain.ErrInvalidRange
	}
	return nil
}

func accountFrom(ctx context.Context) (snowflake.ID, error) {
	accountID, ok := acctcontext.AccountIDFromContext(ctx)
	if !ok {
		return 0, domain.ErrInvalidAccount
	}
	return accountID, nil
}

func snapshotKey(accountID snowflake.ID, req domain.Request) string {
	return fmt.Sprintf("%s|%s|%s|%s",
		accountID.String(),
		req.Start.UTC().Format("2006-01-02"),
		req.End.UTC().Format("2006-01-02"),
		req.Granularity,
	)
}
