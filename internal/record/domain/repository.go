package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

// Repository exposes the synced record collections for one account.
type Repository interface {
	ListInvoices(ctx context.Context, accountID snowflake.ID) ([]Invoice, error)
	ListJobs(ctx context.Context, accountID snowflake.ID) ([]Job, error)
	ListQuotes(ctx context.Context, accountID snowflake.ID) ([]Quote, error)

	UpsertInvoices(ctx context.Context, invoices []Invoice) error
	UpsertJobs(ctx context.Context, jobs []Job) error
	UpsertQuotes(ctx context.Context, quotes []Quote) error
}
