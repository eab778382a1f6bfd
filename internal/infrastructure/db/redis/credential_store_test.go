package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cdportal/admin-console/internal/core/ports"
	"github.com/cdportal/admin-console/internal/core/ports/portstest"
)

func newTestStore(t *testing.T, prefix string, ttl time.Duration) (*CredentialStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewCredentialStore(client, prefix, ttl), mr
}

func TestCredentialStore_Contract(t *testing.T) {
	s, _ := newTestStore(t, "admin-console:", 0)
	portstest.CredentialStore(t, s)
}

func TestCredentialStore_MissingKeyIsNotAnError(t *testing.T) {
	s, _ := newTestStore(t, "admin-console:", 0)

	v, ok, err := s.Get(context.Background(), ports.KeyRole)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, v)
}

func TestCredentialStore_PrefixesKeys(t *testing.T) {
	s, mr := newTestStore(t, "console-a:", 0)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, ports.KeyToken, "tok"))

	assert.Equal(t, []string{"console-a:jwtToken"}, mr.Keys())
	got, err := mr.Get("console-a:jwtToken")
	require.NoError(t, err)
	assert.Equal(t, "tok", got)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	other := NewCredentialStore(client, "console-b:", 0)
	_, ok, err := other.Get(ctx, ports.KeyToken)
	require.NoError(t, err)
	assert.False(t, ok, "stores with different prefixes do not share entries")
}

func TestCredentialStore_TTL(t *testing.T) {
	s, mr := newTestStore(t, "p:", time.Hour)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, ports.KeyToken, "tok"))
	assert.Equal(t, time.Hour, mr.TTL("p:jwtToken"))

	mr.FastForward(2 * time.Hour)
	_, ok, err := s.Get(ctx, ports.KeyToken)
	require.NoError(t, err)
	assert.False(t, ok, "entry expired")
}

func TestCredentialStore_ZeroTTLPersists(t *testing.T) {
	s, mr := newTestStore(t, "p:", 0)

	require.NoError(t, s.Set(context.Background(), ports.KeyRole, "ADMIN"))
	assert.Zero(t, mr.TTL("p:userRole"))
}

func TestCredentialStore_ServerErrors(t *testing.T) {
	s, mr := newTestStore(t, "p:", 0)
	ctx := context.Background()
	mr.SetError("ERR simulated failure")

	_, _, err := s.Get(ctx, ports.KeyToken)
	assert.ErrorContains(t, err, "credential get")
	assert.ErrorContains(t, s.Set(ctx, ports.KeyToken, "x"), "credential set")
	assert.ErrorContains(t, s.Delete(ctx, ports.KeyToken), "credential delete")
}

func TestConnectAndPinger(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	ctx := context.Background()

	client, err := Connect(ctx, Config{Addr: addr})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	assert.NoError(t, Pinger{Client: client}.Ping(ctx))

	mr.Close()
	assert.Error(t, Pinger{Client: client}.Ping(ctx))

	_, err = Connect(ctx, Config{Addr: addr, Timeout: 200 * time.Millisecond})
	assert.Error(t, err)
}
