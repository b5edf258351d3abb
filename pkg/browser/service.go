// Package browser implements the FTP file browser operations on top of the
// session store. Every operation dials a fresh connection with the
// credentials held by the session and closes it before returning.
package browser

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/denysvitali/ftptube-go/internal/models"
	"github.com/denysvitali/ftptube-go/pkg/ftpclient"
	"github.com/denysvitali/ftptube-go/pkg/metrics"
	"github.com/denysvitali/ftptube-go/pkg/session"
)

// File is the content of a remote file
type File struct {
	Name    string
	Content []byte
	Text    bool
}

// Service performs FTP operations scoped to sessions
type Service struct {
	store  session.Store
	dialer ftpclient.Dialer
	ttl    time.Duration
	logger *logrus.Logger
	tracer trace.Tracer
}

// New creates a browser service
func New(store session.Store, dialer ftpclient.Dialer, ttl time.Duration, logger *logrus.Logger) *Service {
	return &Service{
		store:  store,
		dialer: dialer,
		ttl:    ttl,
		logger: logger,
		tracer: otel.Tracer("ftptube"),
	}
}

// Connect lists req.Path on a new connection and stores the result in a new session
func (s *Service) Connect(ctx context.Context, req models.ConnectRequest) (token string, err error) {
	ctx, span := s.tracer.Start(ctx, "ftp_connect")
	defer span.End()
	defer func() { s.finish(span, "connect", err) }()

	if req.Host == "" || req.User == "" || req.Password == "" || req.Port == 0 {
		return "", fmt.Errorf("%w: missing required FTP credentials", models.ErrInvalidInput)
	}
	if req.Port < 0 || req.Port > 65535 {
		return "", fmt.Errorf("%w: port out of range", models.ErrInvalidInput)
	}

	dir := normalizeDir(req.Path)
	creds := models.Credentials{
		Host:     req.Host,
		User:     req.User,
		Password: req.Password,
		Port:     req.Port,
	}
	span.SetAttributes(attribute.String("ftp.host", creds.Host), attribute.String("ftp.path", dir))

	conn, err := s.dialer.Dial(ctx, creds)
	if err != nil {
		return "", fmt.Errorf("failed to connect to FTP server: %w", err)
	}
	defer s.closeConn(conn)

	s.logger.WithFields(logrus.Fields{"host": creds.Host, "path": dir}).Info("Connected to FTP server")

	return s.relist(ctx, conn, creds, dir)
}

// ListFolder lists path relative to the session's directory and returns a new token
func (s *Service) ListFolder(ctx context.Context, token, path string) (newToken string, err error) {
	ctx, span := s.tracer.Start(ctx, "ftp_list_folder")
	defer span.End()
	defer func() { s.finish(span, "list", err) }()

	if token == "" || path == "" {
		return "", fmt.Errorf("%w: missing sessionId or path", models.ErrInvalidInput)
	}

	sess, err := s.store.Get(ctx, token)
	if err != nil {
		return "", err
	}

	dir := ResolveFolder(sess.CurrentPath, path)
	span.SetAttributes(attribute.String("ftp.path", dir))

	conn, err := s.dialer.Dial(ctx, sess.Credentials)
	if err != nil {
		return "", fmt.Errorf("failed to connect to FTP server: %w", err)
	}
	defer s.closeConn(conn)

	s.logger.WithField("path", dir).Info("Listing folder")
	return s.relist(ctx, conn, sess.Credentials, dir)
}

// Delete removes fileName from the session's directory and returns a new token
func (s *Service) Delete(ctx context.Context, token, fileName string) (newToken string, err error) {
	ctx, span := s.tracer.Start(ctx, "ftp_delete")
	defer span.End()
	defer func() { s.finish(span, "delete", err) }()

	if token == "" || fileName == "" {
		return "", fmt.Errorf("%w: missing sessionId or fileName", models.ErrInvalidInput)
	}
	if err := ValidateFileName(fileName); err != nil {
		return "", err
	}

	sess, err := s.store.Get(ctx, token)
	if err != nil {
		return "", err
	}

	dir := normalizeDir(sess.CurrentPath)
	target := JoinPath(dir, fileName)
	span.SetAttributes(attribute.String("ftp.path", target))

	conn, err := s.dialer.Dial(ctx, sess.Credentials)
	if err != nil {
		return "", fmt.Errorf("failed to connect to FTP server: %w", err)
	}
	defer s.closeConn(conn)

	s.logger.WithField("path", target).Info("Deleting file")
	if err := conn.Delete(target); err != nil {
		return "", err
	}

	return s.relist(ctx, conn, sess.Credentials, dir)
}

// Read downloads fileName from the session's directory
func (s *Service) Read(ctx context.Context, token, fileName string) (file *File, err error) {
	ctx, span := s.tracer.Start(ctx, "ftp_read")
	defer span.End()
	defer func() { s.finish(span, "read", err) }()

	if token == "" || fileName == "" {
		return nil, fmt.Errorf("%w: missing sessionId or fileName", models.ErrInvalidInput)
	}
	if err := ValidateFileName(fileName); err != nil {
		return nil, err
	}

	sess, err := s.store.Get(ctx, token)
	if err != nil {
		return nil, err
	}

	target := JoinPath(normalizeDir(sess.CurrentPath), fileName)
	span.SetAttributes(attribute.String("ftp.path", target))

	conn, err := s.dialer.Dial(ctx, sess.Credentials)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to FTP server: %w", err)
	}
	defer s.closeConn(conn)

	s.logger.WithField("path", target).Info("Reading file")
	content, err := conn.Retrieve(target)
	if err != nil {
		return nil, err
	}
	metrics.RecordFTPDownload(len(content))
	span.SetAttributes(attribute.Int("ftp.bytes", len(content)))

	return &File{
		Name:    fileName,
		Content: content,
		Text:    IsTextFile(fileName),
	}, nil
}

// Upload stores r as fileName in the session's directory and returns a new token
func (s *Service) Upload(ctx context.Context, token, fileName string, r io.Reader) (newToken string, err error) {
	ctx, span := s.tracer.Start(ctx, "ftp_upload")
	defer span.End()
	defer func() { s.finish(span, "upload", err) }()

	if token == "" || fileName == "" || r == nil {
		return "", fmt.Errorf("%w: missing file or sessionId", models.ErrInvalidInput)
	}
	if err := ValidateFileName(fileName); err != nil {
		return "", err
	}

	sess, err := s.store.Get(ctx, token)
	if err != nil {
		return "", err
	}

	content, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read upload: %w", err)
	}
	mime := mimetype.Detect(content).String()

	dir := normalizeDir(sess.CurrentPath)
	target := JoinPath(dir, fileName)
	span.SetAttributes(
		attribute.String("ftp.path", target),
		attribute.Int("ftp.bytes", len(content)),
		attribute.String("ftp.mime", mime),
	)

	conn, err := s.dialer.Dial(ctx, sess.Credentials)
	if err != nil {
		return "", fmt.Errorf("failed to connect to FTP server: %w", err)
	}
	defer s.closeConn(conn)

	s.logger.WithFields(logrus.Fields{
		"path": target,
		"size": len(content),
		"mime": mime,
	}).Info("Uploading file")

	if err := conn.Store(target, bytes.NewReader(content)); err != nil {
		return "", err
	}
	metrics.RecordFTPUpload(mime, len(content))

	return s.relist(ctx, conn, sess.Credentials, dir)
}

// Files returns the listing stored in the session without contacting the server
func (s *Service) Files(ctx context.Context, token string) ([]models.FileEntry, error) {
	if token == "" {
		return nil, fmt.Errorf("%w: missing sessionId", models.ErrInvalidInput)
	}
	sess, err := s.store.Get(ctx, token)
	if err != nil {
		return nil, err
	}
	return sess.Files, nil
}

// relist lists dir and stores the listing as a new session
func (s *Service) relist(ctx context.Context, conn ftpclient.Conn, creds models.Credentials, dir string) (string, error) {
	files, err := conn.List(dir)
	if err != nil {
		return "", err
	}

	token, err := s.store.Create(ctx, files, creds, dir, s.ttl)
	if err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"path":    dir,
		"entries": len(files),
	}).Debug("Stored directory listing")
	return token, nil
}

func (s *Service) closeConn(conn ftpclient.Conn) {
	if err := conn.Close(); err != nil {
		s.logger.Warnf("Failed to close FTP connection: %v", err)
	}
}

func (s *Service) finish(span trace.Span, op string, err error) {
	if err != nil {
		span.RecordError(err)
	}
	metrics.RecordFTPOperation(op, err)
}
