package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) GetDashboard(c *gin.Context) {
	req, err := s.parseInsightRequest(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.insightsSvc.GetDashboard(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) GetTrends(c *gin.Context) {
	req, err := s.parseInsightRequest(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	trends, err := s.insightsSvc.GetTrends(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, trends)
}
