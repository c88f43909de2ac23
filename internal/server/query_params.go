package server

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	insightsdomain "github.com/smallbiznis/tradebeat/internal/insights/domain"
	"github.com/smallbiznis/tradebeat/internal/timebucket"
)

const dateOnlyLayout = "2006-01-02"

// parseInsightRequest reads start, end and granularity query params.
// Missing dates default to the trailing 30-day window; missing
// granularity defaults to week.
func (s *Server) parseInsightRequest(c *gin.Context) (insightsdomain.Request, error) {
	now := s.clock.Now()

	start, err := parseDateParam(c.Query("start"), now.AddDate(0, 0, -30))
	if err != nil {
		return insightsdomain.Request{}, newValidationError("start", "invalid_date", "start must be YYYY-MM-DD")
	}
	end, err := parseDateParam(c.Query("end"), now)
	if err != nil {
		return insightsdomain.Request{}, newValidationError("end", "invalid_date", "end must be YYYY-MM-DD")
	}

	rawGranularity := strings.TrimSpace(c.Query("granularity"))
	if rawGranularity == "" {
		rawGranularity = string(timebucket.GranularityWeek)
	}
	granularity, err := timebucket.ParseGranularity(rawGranularity)
	if err != nil {
		return insightsdomain.Request{}, err
	}

	return insightsdomain.Request{
		Start:       start,
		End:         end,
		Granularity: granularity,
	}, nil
}

func parseDateParam(value string, fallback time.Time) (time.Time, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		fallback = fallback.UTC()
		return time.Date(fallback.Year(), fallback.Month(), fallback.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	parsed, err := time.Parse(dateOnlyLayout, trimmed)
	if err != nil {
		return time.Time{}, err
	}
	return parsed, nil
}
