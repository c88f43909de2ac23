package server

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

func (s *Server) ExportAgedAR(c *gin.Context) {
	req, err := s.parseInsightRequest(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	rows, err := s.insightsSvc.ListAgedAR(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	records := make([][]string, 0, len(rows)+1)
	records = append(records, []string{"invoice_id", "status", "total_amount", "due_date", "days_overdue"})
	for _, row := range rows {
		records = append(records, []string{
			row.InvoiceID,
			row.Status,
			strconv.FormatInt(row.TotalAmount, 10),
			row.DueDate,
			strconv.Itoa(row.DaysOverdue),
		})
	}
	writeCSV(c, "aged-ar.csv", records)
}

func (s *Server) ExportLeakingQuotes(c *gin.Context) {
	req, err := s.parseInsightRequest(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	rows, err := s.insightsSvc.ListLeakingQuotes(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	records := make([][]string, 0, len(rows)+1)
	records = append(records, []string{"quote_number", "title", "status", "total_amount", "sent_date"})
	for _, row := range rows {
		records = append(records, []string{
			row.QuoteNumber,
			row.Title,
			row.Status,
			strconv.FormatInt(row.TotalAmount, 10),
			row.SentDate,
		})
	}
	writeCSV(c, "leaking-quotes.csv", records)
}

func (s *Server) ExportUnscheduledJobs(c *gin.Context) {
	req, err := s.parseInsightRequest(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	rows, err := s.insightsSvc.ListUnscheduledJobs(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	records := make([][]string, 0, len(rows)+1)
	records = append(records, []string{"job_number", "title", "status", "created_date"})
	for _, row := range rows {
		records = append(records, []string{
			row.JobNumber,
			row.Title,
			row.Status,
			row.CreatedDate,
		})
	}
	writeCSV(c, "unscheduled-jobs.csv", records)
}

func writeCSV(c *gin.Context, filename string, records [][]string) {
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Status(http.StatusOK)

	writer := csv.NewWriter(c.Writer)
	if err := writer.WriteAll(records); err != nil {
		// Headers are already sent; nothing to do but log via gin errors.
		_ = c.Error(err)
	}
}
