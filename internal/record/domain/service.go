package domain

import (
	"context"
	"errors"
	"time"

	"gorm.io/datatypes"
)

// RecordKind names a synced collection.
type RecordKind string

const (
	KindInvoices RecordKind = "invoices"
	KindJobs     RecordKind = "jobs"
	KindQuotes   RecordKind = "quotes"
)

var (
	ErrInvalidAccount    = errors.New("invalid_account")
	ErrInvalidRecordKind = errors.New("invalid_record_kind")
	ErrMissingExternalID = errors.New("missing_external_id")
)

// InvoiceInput is one invoice in a sync batch.
type InvoiceInput struct {
	ExternalID  string            `json:"external_id"`
	Status      string            `json:"status"`
	TotalAmount int64             `json:"total_amount"`
	DueAt       *time.Time        `json:"due_at"`
	IssuedAt    time.Time         `json:"issued_at"`
	Metadata    datatypes.JSONMap `json:"metadata"`
}

// JobInput is one job in a sync batch.
type JobInput struct {
	ExternalID       string            `json:"external_id"`
	JobNumber        string            `json:"job_number"`
	Title            string            `json:"title"`
	Status           string            `json:"status"`
	ScheduledStartAt *time.Time        `json:"scheduled_start_at"`
	CompletedAt      *time.Time        `json:"completed_at"`
	Revenue          *int64            `json:"revenue"`
	Cost             *int64            `json:"cost"`
	Profit           *int64            `json:"profit"`
	CreatedAt        time.Time         `json:"created_at"`
	Metadata         datatypes.JSONMap `json:"metadata"`
}

// QuoteInput is one quote in a sync batch.
type QuoteInput struct {
	ExternalID  string            `json:"external_id"`
	QuoteNumber string            `json:"quote_number"`
	Title       string            `json:"title"`
	Status      string            `json:"status"`
	TotalAmount int64             `json:"total_amount"`
	SentAt      *time.Time        `json:"sent_at"`
	Metadata    datatypes.JSONMap `json:"metadata"`
}

// SyncResult reports how many records a batch touched.
type SyncResult struct {
	Kind  RecordKind `json:"kind"`
	Count int        `json:"count"`
}

// Service ingests sync batches for the account held in the request context.
type Service interface {
	SyncInvoices(ctx context.Context, batch []InvoiceInput) (SyncResult, error)
	SyncJobs(ctx context.Context, batch []JobInput) (SyncResult, error)
	SyncQuotes(ctx context.Context, batch []QuoteInput) (SyncResult, error)
}
