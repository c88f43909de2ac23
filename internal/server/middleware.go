package server

import (
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"

	"github.com/smallbiznis/tradebeat/internal/acctcontext"
	"github.com/smallbiznis/tradebeat/internal/observability/obscontext"
)

const HeaderAccount = "X-Account-ID"

// AccountContext resolves the active account from the request header,
// falling back to the configured default account for single-tenant
// installs. Requests with no resolvable account are rejected.
func (s *Server) AccountContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.GetHeader(HeaderAccount))

		var accountID snowflake.ID
		if raw != "" {
			parsed, err := snowflake.ParseString(raw)
			if err != nil || parsed == 0 {
				AbortWithError(c, ErrUnauthorized)
				return
			}
			accountID = parsed
		} else if s.cfg.DefaultAccountID != 0 {
			accountID = snowflake.ID(s.cfg.DefaultAccountID)
		} else {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		ctx := acctcontext.WithAccountID(c.Request.Context(), int64(accountID))
		ctx = obscontext.WithAccountID(ctx, accountID.String())
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
