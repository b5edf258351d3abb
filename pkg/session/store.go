// Package session keeps the state of FTP browsing sessions keyed by opaque tokens.
//
// A session is an immutable snapshot: every listing operation stores a new
// session under a freshly generated token instead of updating the old one.
// Expired entries are removed lazily on Get and in bulk by Sweep.
package session

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/denysvitali/ftptube-go/internal/models"
)

// DefaultTTL is how long a session stays valid when no TTL is given
const DefaultTTL = time.Hour

// ErrSessionNotFound is returned for unknown and expired tokens
var ErrSessionNotFound = fmt.Errorf("session not found: %w", models.ErrUnauthorized)

// Session is the state stored behind a token
type Session struct {
	Token       string             `json:"-"`
	Files       []models.FileEntry `json:"files"`
	Credentials models.Credentials `json:"credentials"`
	CurrentPath string             `json:"currentPath"`
	Expires     time.Time          `json:"expires"`
}

// Expired reports whether the session is past its expiry at the given time
func (s *Session) Expired(now time.Time) bool {
	return now.After(s.Expires)
}

// Store maps tokens to sessions
type Store interface {
	// Create stores a new session and returns its token.
	Create(ctx context.Context, files []models.FileEntry, creds models.Credentials, path string, ttl time.Duration) (string, error)
	// Get returns the session for token. Expired entries are deleted and
	// reported as ErrSessionNotFound.
	Get(ctx context.Context, token string) (*Session, error)
	// Sweep deletes every expired session and returns how many were removed.
	Sweep(ctx context.Context) (int, error)
	// Len returns the number of sessions currently held, expired ones included.
	Len(ctx context.Context) (int, error)
}

// Option configures a store
type Option func(*options)

type options struct {
	now      func() time.Time
	newToken func() string
}

func defaultOptions() options {
	return options{
		now:      time.Now,
		newToken: uuid.NewString,
	}
}

// WithClock overrides the time source
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// WithTokenGenerator overrides how tokens are generated
func WithTokenGenerator(gen func() string) Option {
	return func(o *options) {
		o.newToken = gen
	}
}

func applyOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func effectiveTTL(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return DefaultTTL
	}
	return ttl
}

func cloneFiles(files []models.FileEntry) []models.FileEntry {
	if files == nil {
		return []models.FileEntry{}
	}
	out := make([]models.FileEntry, len(files))
	copy(out, files)
	return out
}
