package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/cdportal/admin-console/internal/core/ports"
)

// CredentialStore keeps the session token and role in Redis so several
// console processes on one operator account share a single login.
// Key format: <prefix><key>, e.g. admin-console:jwtToken
type CredentialStore struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

var _ ports.CredentialStore = (*CredentialStore)(nil)

// NewCredentialStore wraps client. A zero ttl keeps keys until deleted.
func NewCredentialStore(client redis.UniversalClient, prefix string, ttl time.Duration) *CredentialStore {
	return &CredentialStore{client: client, prefix: prefix, ttl: ttl}
}

func (s *CredentialStore) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := s.client.Get(ctx, s.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("credential get: %w", err)
	}
	return v, true, nil
}

func (s *CredentialStore) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, s.key(key), value, s.ttl).Err(); err != nil {
		return fmt.Errorf("credential set: %w", err)
	}
	return nil
}

func (s *CredentialStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = s.key(k)
	}
	if err := s.client.Del(ctx, full...).Err(); err != nil {
		return fmt.Errorf("credential delete: %w", err)
	}
	return nil
}

func (s *CredentialStore) key(k string) string {
	return s.prefix + k
}
