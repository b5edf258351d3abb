package session

import (
	"context"
	"sync"
	"time"

	"github.com/denysvitali/ftptube-go/internal/models"
)

// MemoryStore is a process-local Store guarded by a mutex
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]*Session
	opts     options
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore(opts ...Option) *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*Session),
		opts:     applyOptions(opts),
	}
}

// Create implements Store
func (m *MemoryStore) Create(_ context.Context, files []models.FileEntry, creds models.Credentials, path string, ttl time.Duration) (string, error) {
	token := m.opts.newToken()

	m.mu.Lock()
	defer m.mu.Unlock()

	m.sessions[token] = &Session{
		Token:       token,
		Files:       cloneFiles(files),
		Credentials: creds,
		CurrentPath: path,
		Expires:     m.opts.now().Add(effectiveTTL(ttl)),
	}
	return token, nil
}

// Get implements Store
func (m *MemoryStore) Get(_ context.Context, token string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, ok := m.sessions[token]
	if !ok || sess.Expired(m.opts.now()) {
		delete(m.sessions, token)
		return nil, ErrSessionNotFound
	}

	out := *sess
	out.Files = cloneFiles(sess.Files)
	return &out, nil
}

// Sweep implements Store
func (m *MemoryStore) Sweep(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.opts.now()
	removed := 0
	for token, sess := range m.sessions {
		if sess.Expired(now) {
			delete(m.sessions, token)
			removed++
		}
	}
	return removed, nil
}

// Len implements Store
func (m *MemoryStore) Len(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions), nil
}
