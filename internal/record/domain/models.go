// Package domain contains persistence models for synced business records.
//
// Records are facts mirrored from the upstream field-service vendor. They are
// written only by sync ingestion and read by the insights engine; nothing in
// this service mutates them after upsert.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Invoice is a synced invoice record. TotalAmount is in minor currency
// units. Status is free text from the upstream enum, matched
// case-insensitively.
type Invoice struct {
	ID          snowflake.ID      `gorm:"primaryKey"`
	AccountID   snowflake.ID      `gorm:"not null;index;uniqueIndex:ux_invoice_account_external"`
	ExternalID  string            `gorm:"type:text;not null;uniqueIndex:ux_invoice_account_external"`
	Status      string            `gorm:"type:text;not null"`
	TotalAmount int64             `gorm:"not null;default:0"`
	DueAt       *time.Time        `gorm:""`
	IssuedAt    time.Time         `gorm:"not null"`
	Metadata    datatypes.JSONMap `gorm:"type:jsonb;not null;default:'{}'"`
	SyncedAt    time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt   time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Invoice) TableName() string { return "invoices" }

// Job is a synced job record. A nil ScheduledStartAt means the job is
// unscheduled. Revenue, Cost and Profit are minor units; nil when the
// upstream record carries no financials.
type Job struct {
	ID               snowflake.ID      `gorm:"primaryKey"`
	AccountID        snowflake.ID      `gorm:"not null;index;uniqueIndex:ux_job_account_external"`
	ExternalID       string            `gorm:"type:text;not null;uniqueIndex:ux_job_account_external"`
	JobNumber        string            `gorm:"type:text"`
	Title            string            `gorm:"type:text"`
	Status           string            `gorm:"type:text;not null"`
	ScheduledStartAt *time.Time        `gorm:""`
	CompletedAt      *time.Time        `gorm:""`
	Revenue          *int64            `gorm:""`
	Cost             *int64            `gorm:""`
	Profit           *int64            `gorm:""`
	CreatedAt        time.Time         `gorm:"not null"`
	Metadata         datatypes.JSONMap `gorm:"type:jsonb;not null;default:'{}'"`
	SyncedAt         time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt        time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Job) TableName() string { return "jobs" }

// Quote is a synced sales quote. A nil SentAt means the quote was never
// sent to the customer.
type Quote struct {
	ID          snowflake.ID      `gorm:"primaryKey"`
	AccountID   snowflake.ID      `gorm:"not null;index;uniqueIndex:ux_quote_account_external"`
	ExternalID  string            `gorm:"type:text;not null;uniqueIndex:ux_quote_account_external"`
	QuoteNumber string            `gorm:"type:text"`
	Title       string            `gorm:"type:text"`
	Status      string            `gorm:"type:text;not null"`
	TotalAmount int64             `gorm:"not null;default:0"`
	SentAt      *time.Time        `gorm:""`
	Metadata    datatypes.JSONMap `gorm:"type:jsonb;not null;default:'{}'"`
	SyncedAt    time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt   time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Quote) TableName() string { return "quotes" }
