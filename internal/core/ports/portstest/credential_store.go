// Package portstest holds contract checks shared by the port adapters' tests.
package portstest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cdportal/admin-console/internal/core/ports"
)

// CredentialStore runs the behavior every ports.CredentialStore must share
// against an empty store s.
func CredentialStore(t *testing.T, s ports.CredentialStore) {
	t.Helper()
	ctx := context.Background()

	_, ok, err := s.Get(ctx, ports.KeyToken)
	require.NoError(t, err)
	assert.False(t, ok, "empty store reports missing")

	require.NoError(t, s.Set(ctx, ports.KeyToken, "tok"))
	require.NoError(t, s.Set(ctx, ports.KeyRole, "ADMIN"))

	v, ok, err := s.Get(ctx, ports.KeyToken)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "tok", v)

	require.NoError(t, s.Set(ctx, ports.KeyRole, "SUPER_ADMIN"))
	v, _, err = s.Get(ctx, ports.KeyRole)
	require.NoError(t, err)
	assert.Equal(t, "SUPER_ADMIN", v, "set overwrites")

	require.NoError(t, s.Delete(ctx))
	require.NoError(t, s.Delete(ctx, ports.KeyToken, ports.KeyRole))
	for _, k := range []string{ports.KeyToken, ports.KeyRole} {
		_, ok, err = s.Get(ctx, k)
		require.NoError(t, err)
		assert.False(t, ok, "%s deleted", k)
	}

	require.NoError(t, s.Delete(ctx, ports.KeyToken), "deleting a missing key is not an error")
}
