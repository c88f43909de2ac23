package service

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/smallbiznis/tradebeat/internal/insights/domain"
	recorddomain "github.com/smallbiznis/tradebeat/internal/record/domain"
)

// Statuses that never count toward outstanding receivables.
var arExcludedStatuses = map[string]struct{}{
	"paid":     {},
	"draft":    {},
	"voided":   {},
	"bad_debt": {},
}

// AgedInvoice pairs an outstanding invoice with its overdue age.
type AgedInvoice struct {
	Invoice     recorddomain.Invoice
	DaysOverdue int
}

// ARAgingResult is the receivables classification as of one instant.
// Amounts are minor currency units.
type ARAgingResult struct {
	Bucket0to7   int64
	Bucket8to14  int64
	Bucket15Plus int64
	Total        int64
	RiskPct      float64
	Score        float64
	Severity     domain.Severity

	// Aged lists the 15+ day invoices, most overdue first.
	Aged []AgedInvoice
}

// ClassifyAR buckets outstanding invoices by days overdue at asOf.
// An invoice with no due date counts toward the total but not toward
// any overdue bucket. Invoices issued at or after asOf are invisible,
// which keeps historical replays consistent with the live snapshot.
func ClassifyAR(invoices []recorddomain.Invoice, asOf time.Time) ARAgingResult {
	var res ARAgingResult
	for _, inv := range invoices {
		if _, excluded := arExcludedStatuses[strings.ToLower(inv.Status)]; excluded {
			continue
		}
		if !inv.IssuedAt.Before(asOf) {
			continue
		}
		res.Total += inv.TotalAmount
		if inv.DueAt == nil {
			continue
		}
		days := DaysOverdue(*inv.DueAt, asOf)
		switch {
		case days <= 0:
			// not yet due
		case days <= 7:
			res.Bucket0to7 += inv.TotalAmount
		case days <= 14:
			res.Bucket8to14 += inv.TotalAmount
		default:
			res.Bucket15Plus += inv.TotalAmount
			res.Aged = append(res.Aged, AgedInvoice{Invoice: inv, DaysOverdue: days})
		}
	}
	if res.Total > 0 {
		res.RiskPct = float64(res.Bucket15Plus) / float64(res.Total)
	}
	res.Score = clampScore(res.RiskPct * 120)
	res.Severity = severityForScore(res.Score)
	sort.SliceStable(res.Aged, func(i, j int) bool {
		return res.Aged[i].DaysOverdue > res.Aged[j].DaysOverdue
	})
	return res
}

// DaysOverdue is the rounded whole-day distance from dueAt to asOf.
// Negative values mean the invoice is not yet due.
func DaysOverdue(dueAt, asOf time.Time) int {
	return int(math.Round(asOf.Sub(dueAt).Seconds() / 86400))
}
