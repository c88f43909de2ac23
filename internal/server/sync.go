package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/smallbiznis/tradebeat/internal/acctcontext"
	"github.com/smallbiznis/tradebeat/internal/observability/logger"
	recorddomain "github.com/smallbiznis/tradebeat/internal/record/domain"
)

type syncInvoicesRequest struct {
	Invoices []recorddomain.InvoiceInput `json:"invoices"`
}

type syncJobsRequest struct {
	Jobs []recorddomain.JobInput `json:"jobs"`
}

type syncQuotesRequest struct {
	Quotes []recorddomain.QuoteInput `json:"quotes"`
}

func (s *Server) SyncInvoices(c *gin.Context) {
	var req syncInvoicesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, newValidationError("body", "invalid_json", "request body must be valid JSON"))
		return
	}
	s.syncBatch(c, string(recorddomain.KindInvoices), func() (recorddomain.SyncResult, error) {
		return s.recordSvc.SyncInvoices(c.Request.Context(), req.Invoices)
	})
}

func (s *Server) SyncJobs(c *gin.Context) {
	var req syncJobsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, newValidationError("body", "invalid_json", "request body must be valid JSON"))
		return
	}
	s.syncBatch(c, string(recorddomain.KindJobs), func() (recorddomain.SyncResult, error) {
		return s.recordSvc.SyncJobs(c.Request.Context(), req.Jobs)
	})
}

func (s *Server) SyncQuotes(c *gin.Context) {
	var req syncQuotesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, newValidationError("body", "invalid_json", "request body must be valid JSON"))
		return
	}
	s.syncBatch(c, string(recorddomain.KindQuotes), func() (recorddomain.SyncResult, error) {
		return s.recordSvc.SyncQuotes(c.Request.Context(), req.Quotes)
	})
}

func (s *Server) syncBatch(c *gin.Context, kind string, ingest func() (recorddomain.SyncResult, error)) {
	ctx := c.Request.Context()

	var lockToken string
	var accountKey string
	if s.syncLimiter.Enabled() {
		accountID, ok := acctcontext.AccountIDFromContext(ctx)
		if !ok {
			AbortWithError(c, ErrUnauthorized)
			return
		}
		accountKey = accountID.String()

		token, acquired, err := s.syncLimiter.TryLockBatch(ctx, accountKey, kind)
		if err != nil {
			logger.FromContext(ctx).Warn("sync batch lock failed", zap.Error(err))
			AbortWithError(c, ErrServiceUnavailable)
			return
		}
		if !acquired {
			s.denySync(c, kind, accountKey, "batch-concurrency")
			return
		}
		lockToken = token
	}

	result, err := ingest()

	if lockToken != "" {
		if releaseErr := s.syncLimiter.ReleaseBatch(ctx, accountKey, kind, lockToken); releaseErr != nil {
			logger.FromContext(ctx).Warn("sync batch lock release failed", zap.Error(releaseErr))
		}
	}

	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"kind":  result.Kind,
		"count": result.Count,
	})
}

// SyncIngestRateLimit throttles sync batches per account and endpoint
// before the body is parsed.
func (s *Server) SyncIngestRateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !s.syncLimiter.Enabled() {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		accountID, ok := acctcontext.AccountIDFromContext(ctx)
		if !ok {
			AbortWithError(c, ErrUnauthorized)
			return
		}
		endpoint := normalizeRateLimitEndpoint(c)

		allowed, err := s.syncLimiter.AllowAccount(ctx, accountID.String())
		if err != nil {
			logger.FromContext(ctx).Warn("sync account rate limit check failed", zap.Error(err))
			AbortWithError(c, ErrServiceUnavailable)
			return
		}
		if !allowed {
			s.denySync(c, endpoint, accountID.String(), "account-rate")
			return
		}

		allowed, err = s.syncLimiter.AllowEndpoint(ctx, endpoint)
		if err != nil {
			logger.FromContext(ctx).Warn("sync endpoint rate limit check failed", zap.Error(err))
			AbortWithError(c, ErrServiceUnavailable)
			return
		}
		if !allowed {
			s.denySync(c, endpoint, accountID.String(), "endpoint-rate")
			return
		}

		c.Next()
	}
}

func (s *Server) denySync(c *gin.Context, endpoint, accountID, reason string) {
	s.obsMetrics.RecordRateLimitDenied(c.Request.Context(), accountID, endpoint, reason)
	AbortWithError(c, ErrRateLimited)
}

func normalizeRateLimitEndpoint(c *gin.Context) string {
	route := strings.TrimSpace(c.FullPath())
	if route == "" {
		route = c.Request.URL.Path
	}
	return route
}
