package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/denysvitali/ftptube-go/internal/models"
)

// handleConnectPage renders the connection form
func (s *Server) handleConnectPage(c *gin.Context) {
	c.HTML(http.StatusOK, "connect.html", gin.H{})
}

// handleFilesPage renders the listing of a session. Only reachable through
// the session gate.
func (s *Server) handleFilesPage(c *gin.Context) {
	token := c.Param("sessionId")

	files, err := s.browser.Files(c.Request.Context(), token)
	if err != nil {
		status := http.StatusInternalServerError
		message := "Failed to load files"
		if errors.Is(err, models.ErrUnauthorized) {
			status = http.StatusUnauthorized
			message = "Your session has expired. Please connect again."
		} else {
			s.logger.WithError(err).Error(message)
		}
		c.HTML(status, "files.html", gin.H{"Error": message})
		return
	}

	c.HTML(http.StatusOK, "files.html", gin.H{
		"SessionID": token,
		"Files":     files,
	})
}
