// Package ftpclient is the boundary to remote FTP servers.
package ftpclient

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net"
	"strconv"
	"time"

	"github.com/jlaffaye/ftp"
	"github.com/sirupsen/logrus"

	"github.com/denysvitali/ftptube-go/internal/models"
)

// DefaultDialTimeout bounds connection setup when no timeout is configured
const DefaultDialTimeout = 10 * time.Second

// Conn is one authenticated FTP connection
type Conn interface {
	List(path string) ([]models.FileEntry, error)
	Delete(path string) error
	Retrieve(path string) ([]byte, error)
	Store(path string, r io.Reader) error
	Close() error
}

// Dialer opens authenticated connections
type Dialer interface {
	Dial(ctx context.Context, creds models.Credentials) (Conn, error)
}

// Options configures the FTP dialer
type Options struct {
	DialTimeout time.Duration
	ExplicitTLS bool
}

// ServerDialer dials real FTP servers
type ServerDialer struct {
	opts   Options
	logger *logrus.Logger
}

// NewDialer creates a dialer for real FTP servers
func NewDialer(opts Options, logger *logrus.Logger) *ServerDialer {
	if opts.DialTimeout <= 0 {
		opts.DialTimeout = DefaultDialTimeout
	}
	return &ServerDialer{opts: opts, logger: logger}
}

// Dial connects to the server described by creds and logs in
func (d *ServerDialer) Dial(ctx context.Context, creds models.Credentials) (Conn, error) {
	addr := net.JoinHostPort(creds.Host, strconv.Itoa(creds.Port))

	dialOpts := []ftp.DialOption{
		ftp.DialWithContext(ctx),
		ftp.DialWithTimeout(d.opts.DialTimeout),
	}
	if d.opts.ExplicitTLS {
		dialOpts = append(dialOpts, ftp.DialWithExplicitTLS(&tls.Config{ServerName: creds.Host}))
	}

	sc, err := ftp.Dial(addr, dialOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", addr, err)
	}

	if err := sc.Login(creds.User, creds.Password); err != nil {
		_ = sc.Quit()
		return nil, fmt.Errorf("failed to log in to %s as %s: %w", addr, creds.User, err)
	}

	d.logger.WithFields(logrus.Fields{
		"addr": addr,
		"user": creds.User,
	}).Debug("Connected to FTP server")

	return &serverConn{sc: sc}, nil
}

type serverConn struct {
	sc *ftp.ServerConn
}

func (c *serverConn) List(path string) ([]models.FileEntry, error) {
	entries, err := c.sc.List(path)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", path, err)
	}
	return ConvertEntries(entries), nil
}

func (c *serverConn) Delete(path string) error {
	if err := c.sc.Delete(path); err != nil {
		return fmt.Errorf("failed to delete %s: %w", path, err)
	}
	return nil
}

func (c *serverConn) Retrieve(path string) ([]byte, error) {
	resp, err := c.sc.Retr(path)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve %s: %w", path, err)
	}

	var buf bytes.Buffer
	_, copyErr := io.Copy(&buf, resp)
	// Close must run before the connection can be reused for another command
	if err := resp.Close(); err != nil && copyErr == nil {
		copyErr = err
	}
	if copyErr != nil {
		return nil, fmt.Errorf("failed to download %s: %w", path, copyErr)
	}
	return buf.Bytes(), nil
}

func (c *serverConn) Store(path string, r io.Reader) error {
	if err := c.sc.Stor(path, r); err != nil {
		return fmt.Errorf("failed to upload %s: %w", path, err)
	}
	return nil
}

func (c *serverConn) Close() error {
	return c.sc.Quit()
}

// ConvertEntries maps library entries to listing records. Plain files are
// type 1, everything else type 2. "." and ".." are dropped.
func ConvertEntries(entries []*ftp.Entry) []models.FileEntry {
	files := make([]models.FileEntry, 0, len(entries))
	for _, e := range entries {
		if e == nil || e.Name == "." || e.Name == ".." {
			continue
		}
		entry := models.FileEntry{
			Name: e.Name,
			Type: models.FileTypeDirectory,
		}
		if e.Type == ftp.EntryTypeFile {
			entry.Type = models.FileTypeFile
			entry.Size = int64(e.Size)
		}
		files = append(files, entry)
	}
	return files
}
