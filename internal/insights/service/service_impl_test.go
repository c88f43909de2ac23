package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/smallbiznis/tradebeat/internal/acctcontext"
	"github.com/smallbiznis/tradebeat/internal/clock"
	"github.com/smallbiznis/tradebeat/internal/config"
	"github.com/smallbiznis/tradebeat/internal/insights/domain"
	recorddomain "github.com/smallbiznis/tradebeat/internal/record/domain"
	recordrepo "github.com/smallbiznis/tradebeat/internal/record/repository"
	"github.com/smallbiznis/tradebeat/internal/timebucket"
)

type fixture struct {
	svc       domain.Service
	repo      recorddomain.Repository
	clock     *clock.FakeClock
	node      *snowflake.Node
	accountID snowflake.ID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&recorddomain.Invoice{},
		&recorddomain.Job{},
		&recorddomain.Quote{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	clk := clock.NewFakeClock(time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC))
	repo := recordrepo.NewRepository(db)
	svc := NewService(Params{
		Config: config.Config{
			ExportTopQuotes:         10,
			SnapshotCacheTTLSeconds: 60,
		},
		Repo:  repo,
		Log:   zap.NewNop(),
		Clock: clk,
	})

	return &fixture{
		svc:       svc,
		repo:      repo,
		clock:     clk,
		node:      node,
		accountID: node.Generate(),
	}
}

func (f *fixture) ctx() context.Context {
	return acctcontext.WithAccountID(context.Background(), int64(f.accountID))
}

func (f *fixture) request() domain.Request {
	now := f.clock.Now()
	return domain.Request{
		Start:       now.AddDate(0, 0, -28),
		End:         now,
		Granularity: timebucket.GranularityWeek,
	}
}

func (f *fixture) seed(t *testing.T) {
	t.Helper()
	now := f.clock.Now()

	invoices := []recorddomain.Invoice{
		{ID: f.node.Generate(), AccountID: f.accountID, ExternalID: "inv-1", Status: "overdue", TotalAmount: 10000, IssuedAt: now.AddDate(0, 0, -40), DueAt: ptrTime(now.AddDate(0, 0, -20))},
		{ID: f.node.Generate(), AccountID: f.accountID, ExternalID: "inv-2", Status: "sent", TotalAmount: 5000, IssuedAt: now.AddDate(0, 0, -10), DueAt: ptrTime(now.AddDate(0, 0, -5))},
		{ID: f.node.Generate(), AccountID: f.accountID, ExternalID: "inv-3", Status: "paid", TotalAmount: 50000, IssuedAt: now.AddDate(0, 0, -40), DueAt: ptrTime(now.AddDate(0, 0, -30))},
	}
	require.NoError(t, f.repo.UpsertInvoices(f.ctx(), invoices))

	jobs := []recorddomain.Job{
		{ID: f.node.Generate(), AccountID: f.accountID, ExternalID: "job-1", JobNumber: "J-100", Title: "Fence repair", Status: "scheduled", CreatedAt: now.AddDate(0, 0, -15), ScheduledStartAt: ptrTime(now.AddDate(0, 0, 10))},
		{ID: f.node.Generate(), AccountID: f.accountID, ExternalID: "job-2", JobNumber: "J-101", Title: "Deck build", Status: "pending", CreatedAt: now.AddDate(0, 0, -12)},
		{ID: f.node.Generate(), AccountID: f.accountID, ExternalID: "job-3", JobNumber: "J-102", Title: "Gutter clean", Status: "completed", CreatedAt: now.AddDate(0, 0, -25), CompletedAt: ptrTime(now.AddDate(0, 0, -3)), Revenue: ptrInt64(20000), Cost: ptrInt64(15000), Profit: ptrInt64(5000)},
	}
	require.NoError(t, f.repo.UpsertJobs(f.ctx(), jobs))

	quotes := []recorddomain.Quote{
		{ID: f.node.Generate(), AccountID: f.accountID, ExternalID: "qt-1", QuoteNumber: "Q-1", Title: "Patio", Status: "awaiting_response", TotalAmount: 4000, SentAt: ptrTime(now.AddDate(0, 0, -3))},
		{ID: f.node.Generate(), AccountID: f.accountID, ExternalID: "qt-2", QuoteNumber: "Q-2", Title: "Shed", Status: "archived", TotalAmount: 9000, SentAt: ptrTime(now.AddDate(0, 0, -3))},
		{ID: f.node.Generate(), AccountID: f.accountID, ExternalID: "qt-3", QuoteNumber: "Q-3", Title: "Driveway", Status: "approved", TotalAmount: 7000, SentAt: ptrTime(now.AddDate(0, 0, -6))},
	}
	require.NoError(t, f.repo.UpsertQuotes(f.ctx(), quotes))
}

func TestGetDashboard(t *testing.T) {
	f := newFixture(t)
	f.seed(t)

	resp, err := f.svc.GetDashboard(f.ctx(), f.request())
	require.NoError(t, err)

	assert.True(t, resp.HasData)
	assert.Equal(t, int64(15000), resp.Snapshot.TotalAR)
	assert.Equal(t, int64(10000), resp.Snapshot.AROver15d)
	assert.InDelta(t, 10000.0/15000.0, resp.Snapshot.ARRiskPct, 0.0001)
	assert.Equal(t, domain.SeverityCritical, resp.Snapshot.ARSeverity)

	assert.Equal(t, 10, resp.Snapshot.DaysBookedAhead)
	assert.Equal(t, 1, resp.Snapshot.UnscheduledCount)
	assert.Equal(t, domain.CapacityBalanced, resp.Snapshot.CapacityState)

	assert.Equal(t, 1, resp.Snapshot.LeakCount)
	assert.Equal(t, int64(4000), resp.Snapshot.LeakAmount)

	assert.NotEmpty(t, resp.Trends.AROver15d)
	assert.Len(t, resp.Trends.QuoteLeak, len(resp.Trends.AROver15d))
	assert.NotEmpty(t, resp.Snapshot.Recommendations)
	assert.LessOrEqual(t, len(resp.Snapshot.Recommendations), 3)
}

func TestGetDashboardEmptyAccount(t *testing.T) {
	f := newFixture(t)

	resp, err := f.svc.GetDashboard(f.ctx(), f.request())
	require.NoError(t, err)

	assert.False(t, resp.HasData)
	assert.Equal(t, int64(0), resp.Snapshot.TotalAR)
	assert.Equal(t, float64(0), resp.Snapshot.ARRiskPct)
	assert.Equal(t, domain.SeverityGood, resp.Snapshot.ARSeverity)
	assert.Equal(t, domain.CapacityUnderbooked, resp.Snapshot.CapacityState)
	assert.NotEmpty(t, resp.Trends.AROver15d)
}

func TestGetDashboardValidation(t *testing.T) {
	f := newFixture(t)
	now := f.clock.Now()

	_, err := f.svc.GetDashboard(f.ctx(), domain.Request{
		Start:       now,
		End:         now.AddDate(0, 0, -7),
		Granularity: timebucket.GranularityDay,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidRange)

	_, err = f.svc.GetDashboard(f.ctx(), domain.Request{
		Start:       now.AddDate(0, 0, -7),
		End:         now,
		Granularity: "hourly",
	})
	assert.ErrorIs(t, err, timebucket.ErrInvalidGranularity)

	_, err = f.svc.GetDashboard(context.Background(), f.request())
	assert.ErrorIs(t, err, domain.ErrInvalidAccount)
}

func TestGetDashboardCachesSnapshot(t *testing.T) {
	f := newFixture(t)
	f.seed(t)

	first, err := f.svc.GetDashboard(f.ctx(), f.request())
	require.NoError(t, err)

	// Mutate underlying data; the cached snapshot must still be served.
	now := f.clock.Now()
	require.NoError(t, f.repo.UpsertInvoices(f.ctx(), []recorddomain.Invoice{
		{ID: f.node.Generate(), AccountID: f.accountID, ExternalID: "inv-9", Status: "overdue", TotalAmount: 99999, IssuedAt: now.AddDate(0, 0, -40), DueAt: ptrTime(now.AddDate(0, 0, -40))},
	}))

	cached, err := f.svc.GetDashboard(f.ctx(), f.request())
	require.NoError(t, err)
	assert.Equal(t, first.Snapshot.TotalAR, cached.Snapshot.TotalAR)

	f.clock.Advance(2 * time.Minute)
	fresh, err := f.svc.GetDashboard(f.ctx(), f.request())
	require.NoError(t, err)
	assert.Equal(t, first.Snapshot.TotalAR+99999, fresh.Snapshot.TotalAR)
}

func TestGetDashboardExplicitNowBypassesCache(t *testing.T) {
	f := newFixture(t)
	f.seed(t)

	req := f.request()
	req.Now = f.clock.Now()

	first, err := f.svc.GetDashboard(f.ctx(), req)
	require.NoError(t, err)

	now := f.clock.Now()
	require.NoError(t, f.repo.UpsertInvoices(f.ctx(), []recorddomain.Invoice{
		{ID: f.node.Generate(), AccountID: f.accountID, ExternalID: "inv-9", Status: "overdue", TotalAmount: 1000, IssuedAt: now.AddDate(0, 0, -40), DueAt: ptrTime(now.AddDate(0, 0, -40))},
	}))

	second, err := f.svc.GetDashboard(f.ctx(), req)
	require.NoError(t, err)
	assert.Equal(t, first.Snapshot.TotalAR+1000, second.Snapshot.TotalAR)
}

func TestGetDashboardIsolatesAccounts(t *testing.T) {
	f := newFixture(t)
	f.seed(t)

	otherAccount := f.node.Generate()
	otherCtx := acctcontext.WithAccountID(context.Background(), int64(otherAccount))

	resp, err := f.svc.GetDashboard(otherCtx, f.request())
	require.NoError(t, err)
	assert.False(t, resp.HasData)
	assert.Equal(t, int64(0), resp.Snapshot.TotalAR)
}

func TestGetTrends(t *testing.T) {
	f := newFixture(t)
	f.seed(t)

	trends, err := f.svc.GetTrends(f.ctx(), f.request())
	require.NoError(t, err)

	assert.NotEmpty(t, trends.AROver15d)
	assert.Len(t, trends.QuoteLeak, len(trends.AROver15d))
	assert.Len(t, trends.Unscheduled, len(trends.AROver15d))

	last := trends.Unscheduled[len(trends.Unscheduled)-1]
	assert.Equal(t, int64(1), last.Value)
}

func TestListAgedAR(t *testing.T) {
	f := newFixture(t)
	f.seed(t)

	rows, err := f.svc.ListAgedAR(f.ctx(), f.request())
	require.NoError(t, err)

	if assert.Len(t, rows, 1) {
		assert.Equal(t, "inv-1", rows[0].InvoiceID)
		assert.Equal(t, 20, rows[0].DaysOverdue)
		assert.Equal(t, int64(10000), rows[0].TotalAmount)
		assert.Regexp(t, `^\d{4}-\d{2}-\d{2}$`, rows[0].DueDate)
	}
}

func TestListLeakingQuotes(t *testing.T) {
	f := newFixture(t)
	f.seed(t)

	rows, err := f.svc.ListLeakingQuotes(f.ctx(), f.request())
	require.NoError(t, err)

	if assert.Len(t, rows, 1) {
		assert.Equal(t, "Q-1", rows[0].QuoteNumber)
		assert.Equal(t, int64(4000), rows[0].TotalAmount)
	}
}

func TestListLeakingQuotesTopNCap(t *testing.T) {
	f := newFixture(t)
	now := f.clock.Now()

	quotes := make([]recorddomain.Quote, 0, 15)
	for i := 0; i < 15; i++ {
		quotes = append(quotes, recorddomain.Quote{
			ID:          f.node.Generate(),
			AccountID:   f.accountID,
			ExternalID:  fmt.Sprintf("qt-%d", i),
			QuoteNumber: fmt.Sprintf("Q-%d", i),
			Status:      "sent",
			TotalAmount: int64(100 * (i + 1)),
			SentAt:      ptrTime(now.AddDate(0, 0, -2)),
		})
	}
	require.NoError(t, f.repo.UpsertQuotes(f.ctx(), quotes))

	rows, err := f.svc.ListLeakingQuotes(f.ctx(), f.request())
	require.NoError(t, err)

	assert.Len(t, rows, 10)
	assert.Equal(t, int64(1500), rows[0].TotalAmount)
}

func TestListUnscheduledJobs(t *testing.T) {
	f := newFixture(t)
	f.seed(t)

	rows, err := f.svc.ListUnscheduledJobs(f.ctx(), f.request())
	require.NoError(t, err)

	if assert.Len(t, rows, 1) {
		assert.Equal(t, "J-101", rows[0].JobNumber)
		assert.Equal(t, "Deck build", rows[0].Title)
	}
}
