package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/tradebeat/internal/acctcontext"
	"github.com/smallbiznis/tradebeat/internal/clock"
	obsmetrics "github.com/smallbiznis/tradebeat/internal/observability/metrics"
	record "github.com/smallbiznis/tradebeat/internal/record/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

type Params struct {
	fx.In

	Repo    record.Repository
	Log     *zap.Logger
	Clock   clock.Clock
	GenID   *snowflake.Node
	Metrics *obsmetrics.Metrics `optional:"true"`
}

type Service struct {
	repo    record.Repository
	log     *zap.Logger
	clock   clock.Clock
	genID   *snowflake.Node
	metrics *obsmetrics.Metrics
}

func NewService(p Params) record.Service {
	return &Service{
		repo:    p.Repo,
		log:     p.Log.Named("record.service"),
		clock:   p.Clock,
		genID:   p.GenID,
		metrics: p.Metrics,
	}
}

func (s *Service) SyncInvoices(ctx context.Context, batch []record.InvoiceInput) (record.SyncResult, error) {
	accountID, ok := acctcontext.AccountIDFromContext(ctx)
	if !ok || accountID == 0 {
		return record.SyncResult{}, record.ErrInvalidAccount
	}

	now := s.clock.Now()
	invoices := make([]record.Invoice, 0, len(batch))
	for _, in := range batch {
		externalID := strings.TrimSpace(in.ExternalID)
		if externalID == "" {
			return record.SyncResult{}, record.ErrMissingExternalID
		}
		invoices = append(invoices, record.Invoice{
			ID:          s.genID.Generate(),
			AccountID:   accountID,
			ExternalID:  externalID,
			Status:      strings.TrimSpace(in.Status),
			TotalAmount: in.TotalAmount,
			DueAt:       normalizeTime(in.DueAt),
			IssuedAt:    orNow(in.IssuedAt, now),
			Metadata:    orEmpty(in.Metadata),
			SyncedAt:    now,
			UpdatedAt:   now,
		})
	}

	if err := s.repo.UpsertInvoices(ctx, invoices); err != nil {
		return record.SyncResult{}, err
	}

	s.metrics.RecordRecordsIngested(ctx, string(record.KindInvoices), len(invoices))
	s.log.Info("sync batch ingested",
		zap.String("kind", string(record.KindInvoices)),
		zap.String("account_id", accountID.String()),
		zap.Int("count", len(invoices)),
	)
	return record.SyncResult{Kind: record.KindInvoices, Count: len(invoices)}, nil
}

func (s *Service) SyncJobs(ctx context.Context, batch []record.JobInput) (record.SyncResult, error) {
	accountID, ok := acctcontext.AccountIDFromContext(ctx)
	if !ok || accountID == 0 {
		return record.SyncResult{}, record.ErrInvalidAccount
	}

	now := s.clock.Now()
	jobs := make([]record.Job, 0, len(batch))
	for _, in := range batch {
		externalID := strings.TrimSpace(in.ExternalID)
		if externalID == "" {
			return record.SyncResult{}, record.ErrMissingExternalID
		}
		jobs = append(jobs, record.Job{
			ID:               s.genID.Generate(),
			AccountID:        accountID,
			ExternalID:       externalID,
			JobNumber:        strings.TrimSpace(in.JobNumber),
			Title:            strings.TrimSpace(in.Title),
			Status:           strings.TrimSpace(in.Status),
			ScheduledStartAt: normalizeTime(in.ScheduledStartAt),
			CompletedAt:      normalizeTime(in.CompletedAt),
			Revenue:          in.Revenue,
			Cost:             in.Cost,
			Profit:           in.Profit,
			CreatedAt:        orNow(in.CreatedAt, now),
			Metadata:         orEmpty(in.Metadata),
			SyncedAt:         now,
			UpdatedAt:        now,
		})
	}

	if err := s.repo.UpsertJobs(ctx, jobs); err != nil {
		return record.SyncResult{}, err
	}

	s.metrics.RecordRecordsIngested(ctx, string(record.KindJobs), len(jobs))
	s.log.Info("sync batch ingested",
		zap.String("kind", string(record.KindJobs)),
		zap.String("account_id", accountID.String()),
		zap.Int("count", len(jobs)),
	)
	return record.SyncResult{Kind: record.KindJobs, Count: len(jobs)}, nil
}

func (s *Service) SyncQuotes(ctx context.Context, batch []record.QuoteInput) (record.SyncResult, error) {
	accountID, ok := acctcontext.AccountIDFromContext(ctx)
	if !ok || accountID == 0 {
		return record.SyncResult{}, record.ErrInvalidAccount
	}

	now := s.clock.Now()
	quotes := make([]record.Quote, 0, len(batch))
	for _, in := range batch {
		externalID := strings.TrimSpace(in.ExternalID)
		if externalID == "" {
			return record.SyncResult{}, record.ErrMissingExternalID
		}
		quotes = append(quotes, record.Quote{
			ID:          s.genID.Generate(),
			AccountID:   accountID,
			ExternalID:  externalID,
			QuoteNumber: strings.TrimSpace(in.QuoteNumber),
			Title:       strings.TrimSpace(in.Title),
			Status:      strings.TrimSpace(in.Status),
			TotalAmount: in.TotalAmount,
			SentAt:      normalizeTime(in.SentAt),
			Metadata:    orEmpty(in.Metadata),
			SyncedAt:    now,
			UpdatedAt:   now,
		})
	}

	if err := s.repo.UpsertQuotes(ctx, quotes); err != nil {
		return record.SyncResult{}, err
	}

	s.metrics.RecordRecordsIngested(ctx, string(record.KindQuotes), len(quotes))
	s.log.Info("sync batch ingested",
		zap.String("kind", string(record.KindQuotes)),
		zap.String("account_id", accountID.String()),
		zap.Int("count", len(quotes)),
	)
	return record.SyncResult{Kind: record.KindQuotes, Count: len(quotes)}, nil
}

func normalizeTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	utc := t.UTC()
	return &utc
}

func orNow(t time.Time, now time.Time) time.Time {
	if t.IsZero() {
		return now
	}
	return t.UTC()
}

func orEmpty(m datatypes.JSONMap) datatypes.JSONMap {
	if m == nil {
		return datatypes.JSONMap{}
	}
	return m
}
