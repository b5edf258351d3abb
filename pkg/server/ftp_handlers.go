package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/denysvitali/ftptube-go/internal/models"
	"github.com/denysvitali/ftptube-go/pkg/telemetry"
)

// handleConnect opens a new browsing session
func (s *Server) handleConnect(c *gin.Context) {
	var req models.ConnectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, fmt.Errorf("%w: %v", models.ErrInvalidInput, err), "")
		return
	}

	span := trace.SpanFromContext(c.Request.Context())
	span.SetAttributes(
		attribute.String("ftp.host", req.Host),
		attribute.Int("ftp.port", req.Port),
	)
	if s.config.Telemetry.Enabled {
		telemetry.ReportJSON(c.Request.Context(), s.logger, "ftp_connect_request", gin.H{
			"host": req.Host,
			"user": req.User,
			"port": req.Port,
			"path": req.Path,
		})
	}

	token, err := s.browser.Connect(c.Request.Context(), req)
	if err != nil {
		s.respondError(c, err, "Failed to connect to FTP server")
		return
	}

	s.respondSession(c, token)
}

// handleListFiles navigates into a folder relative to the session's current path
func (s *Server) handleListFiles(c *gin.Context) {
	var req models.ListFilesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, fmt.Errorf("%w: %v", models.ErrInvalidInput, err), "")
		return
	}

	token, err := s.browser.ListFolder(c.Request.Context(), req.SessionID, req.Path)
	if err != nil {
		s.respondError(c, err, "Failed to list files")
		return
	}

	s.respondSession(c, token)
}

// handleDelete removes a file from the session's current folder
func (s *Server) handleDelete(c *gin.Context) {
	var req models.FileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, fmt.Errorf("%w: %v", models.ErrInvalidInput, err), "")
		return
	}

	token, err := s.browser.Delete(c.Request.Context(), req.SessionID, req.FileName)
	if err != nil {
		s.respondError(c, err, "Failed to delete file")
		return
	}

	s.respondSession(c, token)
}

// handleRead returns a file from the session's current folder. Text files are
// returned inline, everything else as an attachment.
func (s *Server) handleRead(c *gin.Context) {
	var req models.FileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, fmt.Errorf("%w: %v", models.ErrInvalidInput, err), "")
		return
	}

	file, err := s.browser.Read(c.Request.Context(), req.SessionID, req.FileName)
	if err != nil {
		s.respondError(c, err, "Failed to read file")
		return
	}

	if file.Text {
		c.String(http.StatusOK, "%s", strings.ToValidUTF8(string(file.Content), "\uFFFD"))
		return
	}

	c.Header("Content-Disposition", contentDisposition(file.Name))
	c.Data(http.StatusOK, "application/octet-stream", file.Content)
}

// handleUpload stores a multipart file into the session's current folder
func (s *Server) handleUpload(c *gin.Context) {
	if s.config.Server.MaxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.config.Server.MaxUploadBytes)
	}

	header, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, models.ErrorResponse{Error: "File too large"})
			return
		}
		s.respondError(c, fmt.Errorf("%w: missing file or sessionId", models.ErrInvalidInput), "")
		return
	}
	token := c.PostForm("sessionId")
	if token == "" {
		s.respondError(c, fmt.Errorf("%w: missing file or sessionId", models.ErrInvalidInput), "")
		return
	}

	f, err := header.Open()
	if err != nil {
		s.respondError(c, err, "Failed to read upload")
		return
	}
	defer f.Close()

	newToken, err := s.browser.Upload(c.Request.Context(), token, header.Filename, f)
	if err != nil {
		s.respondError(c, err, "Failed to upload file")
		return
	}

	s.respondSession(c, newToken)
}

// handleGetFiles returns the listing stored in a session without touching the FTP server
func (s *Server) handleGetFiles(c *gin.Context) {
	files, err := s.browser.Files(c.Request.Context(), c.Param("sessionId"))
	if err != nil {
		s.respondError(c, err, "Failed to get files")
		return
	}

	c.JSON(http.StatusOK, models.FilesResponse{Files: files})
}

// respondSession sets the session cookie and returns the token
func (s *Server) respondSession(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(SessionCookie, token, s.config.Server.CookieMaxAge, "/", "", s.config.Server.CookieSecure, true)
	c.JSON(http.StatusOK, models.SessionResponse{SessionID: token})
}

func contentDisposition(name string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(name)
	return fmt.Sprintf(`attachment; filename="%s"`, escaped)
}
