package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/denysvitali/ftptube-go/pkg/youtube"
)

// requireScraper answers 500 when no YouTube API key was configured
func (s *Server) requireScraper(c *gin.Context) bool {
	if s.scraper == nil {
		s.respondError(c, youtube.ErrNotConfigured, "YouTube integration is not configured")
		return false
	}
	return true
}

// handleSearchComments searches videos and returns them with their top comments
func (s *Server) handleSearchComments(c *gin.Context) {
	if !s.requireScraper(c) {
		return
	}

	// Unparseable counts fall back to the default
	count, _ := strconv.Atoi(c.Query("count"))

	resp, err := s.scraper.SearchComments(c.Request.Context(), c.Query("query"), count)
	if err != nil {
		s.respondError(c, err, "Failed to fetch comments")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// handleDeepScrape returns a channel's latest video together with its comments
func (s *Server) handleDeepScrape(c *gin.Context) {
	if !s.requireScraper(c) {
		return
	}

	resp, err := s.scraper.DeepScrape(c.Request.Context(), c.Query("channelId"))
	if err != nil {
		s.respondError(c, err, "Failed to deep scrape channel")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// handleShortComments returns the comments of each channel's latest short video
func (s *Server) handleShortComments(c *gin.Context) {
	if !s.requireScraper(c) {
		return
	}

	resp, err := s.scraper.ShortComments(c.Request.Context(), c.QueryArray("channelId"))
	if err != nil {
		s.respondError(c, err, "Failed to fetch short comments")
		return
	}

	c.JSON(http.StatusOK, resp)
}
