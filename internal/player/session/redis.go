package session

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/tonya-newer/Prompt-2-Pathway-sub000/internal/player/domain"
	"github.com/tonya-newer/Prompt-2-Pathway-sub000/platform/apperr"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "player:session:"

// RedisStore persists traversals as JSON blobs with a TTL. Sessions survive
// process restarts and are shared across API instances.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore connects using a redis URL (redis:// or rediss://).
func NewRedisStore(redisURL string, tlsInsecure bool, ttl time.Duration) (*RedisStore, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	if opt.TLSConfig != nil && tlsInsecure {
		opt.TLSConfig = &tls.Config{InsecureSkipVerify: true}
	}
	return &RedisStore{client: redis.NewClient(opt), ttl: ttl}, nil
}

// NewRedisStoreWithClient wraps an existing client, for tests.
func NewRedisStoreWithClient(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisStore) Close() error { return s.client.Close() }

func (s *RedisStore) Save(ctx context.Context, traversal *domain.Traversal) error {
	payload, err := json.Marshal(traversal)
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "marshal session", err)
	}
	if err := s.client.Set(ctx, key(traversal.SessionID), payload, s.ttl).Err(); err != nil {
		return apperr.Wrap(apperr.KindInternal, "save session", err)
	}
	return nil
}

func (s *RedisStore) Load(ctx context.Context, sessionID uuid.UUID) (*domain.Traversal, error) {
	payload, err := s.client.Get(ctx, key(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionGone()
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "load session", err)
	}

	var traversal domain.Traversal
	if err := json.Unmarshal(payload, &traversal); err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "decode session", err)
	}
	return &traversal, nil
}

func (s *RedisStore) Delete(ctx context.Context, sessionID uuid.UUID) error {
	if err := s.client.Del(ctx, key(sessionID)).Err(); err != nil {
		return apperr.Wrap(apperr.KindInternal, "delete session", err)
	}
	return nil
}

func key(sessionID uuid.UUID) string { return keyPrefix + sessionID.String() }
