package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	record "github.com/smallbiznis/tradebeat/internal/record/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) record.Repository {
	return &Repository{db: db}
}

func (r *Repository) ListInvoices(ctx context.Context, accountID snowflake.ID) ([]record.Invoice, error) {
	var invoices []record.Invoice
	if err := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}

func (r *Repository) ListJobs(ctx context.Context, accountID snowflake.ID) ([]record.Job, error) {
	var jobs []record.Job
	if err := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Find(&jobs).Error; err != nil {
		return nil, err
	}
	return jobs, nil
}

func (r *Repository) ListQuotes(ctx context.Context, accountID snowflake.ID) ([]record.Quote, error) {
	var quotes []record.Quote
	if err := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Find(&quotes).Error; err != nil {
		return nil, err
	}
	return quotes, nil
}

func (r *Repository) UpsertInvoices(ctx context.Context, invoices []record.Invoice) error {
	if len(invoices) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "account_id"}, {Name: "external_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"status", "total_amount", "due_at", "issued_at", "metadata", "updated_at",
		}),
	}).Create(&invoices).Error
}

func (r *Repository) UpsertJobs(ctx context.Context, jobs []record.Job) error {
	if len(jobs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "account_id"}, {Name: "external_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"job_number", "title", "status", "scheduled_start_at", "completed_at",
			"revenue", "cost", "profit", "created_at", "metadata", "updated_at",
		}),
	}).Create(&jobs).Error
}

func (r *Repository) UpsertQuotes(ctx context.Context, quotes []record.Quote) error {
	if len(quotes) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "account_id"}, {Name: "external_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"quote_number", "title", "status", "total_amount", "sent_at", "metadata", "updated_at",
		}),
	}).Create(&quotes).Error
}
