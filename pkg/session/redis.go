package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/denysvitali/ftptube-go/internal/models"
)

// DefaultRedisPrefix namespaces session keys in Redis
const DefaultRedisPrefix = "ftptube:session:"

// RedisStore keeps sessions in Redis so several server instances can share them.
// The expiry stored in the value is authoritative; the key TTL only makes
// Redis reclaim abandoned entries on its own.
type RedisStore struct {
	client *redis.Client
	prefix string
	opts   options
}

// NewRedisStore wraps an existing client
func NewRedisStore(client *redis.Client, prefix string, opts ...Option) *RedisStore {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &RedisStore{
		client: client,
		prefix: prefix,
		opts:   applyOptions(opts),
	}
}

// DialRedis parses a redis:// URL, connects and pings the server
func DialRedis(ctx context.Context, redisURL, prefix string, opts ...Option) (*RedisStore, error) {
	redisOpts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}

	client := redis.NewClient(redisOpts)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis unreachable at %s: %w", redisOpts.Addr, err)
	}

	return NewRedisStore(client, prefix, opts...), nil
}

// Close releases the underlying client
func (r *RedisStore) Close() error {
	return r.client.Close()
}

func (r *RedisStore) key(token string) string {
	return r.prefix + token
}

// Create implements Store
func (r *RedisStore) Create(ctx context.Context, files []models.FileEntry, creds models.Credentials, path string, ttl time.Duration) (string, error) {
	ttl = effectiveTTL(ttl)
	token := r.opts.newToken()

	data, err := json.Marshal(&Session{
		Files:       cloneFiles(files),
		Credentials: creds,
		CurrentPath: path,
		Expires:     r.opts.now().Add(ttl),
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode session: %w", err)
	}

	if err := r.client.Set(ctx, r.key(token), data, ttl).Err(); err != nil {
		return "", fmt.Errorf("failed to store session: %w", err)
	}
	return token, nil
}

// Get implements Store
func (r *RedisStore) Get(ctx context.Context, token string) (*Session, error) {
	data, err := r.client.Get(ctx, r.key(token)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil || sess.Expired(r.opts.now()) {
		if delErr := r.client.Del(ctx, r.key(token)).Err(); delErr != nil {
			return nil, fmt.Errorf("failed to delete stale session: %w", delErr)
		}
		return nil, ErrSessionNotFound
	}

	sess.Token = token
	return &sess, nil
}

// Sweep implements Store
func (r *RedisStore) Sweep(ctx context.Context) (int, error) {
	now := r.opts.now()
	removed := 0

	iter := r.client.Scan(ctx, 0, r.prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		data, err := r.client.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			return removed, fmt.Errorf("failed to load %s: %w", key, err)
		}

		var sess Session
		if err := json.Unmarshal(data, &sess); err == nil && !sess.Expired(now) {
			continue
		}
		if err := r.client.Del(ctx, key).Err(); err != nil {
			return removed, fmt.Errorf("failed to delete %s: %w", key, err)
		}
		removed++
	}
	if err := iter.Err(); err != nil {
		return removed, fmt.Errorf("failed to scan sessions: %w", err)
	}
	return removed, nil
}

// Len implements Store
func (r *RedisStore) Len(ctx context.Context) (int, error) {
	n := 0
	iter := r.client.Scan(ctx, 0, r.prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		n++
	}
	if err := iter.Err(); err != nil {
		return 0, fmt.Errorf("failed to scan sessions: %w", err)
	}
	return n, nil
}
