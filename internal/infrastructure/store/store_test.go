package store

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cdportal/admin-console/internal/core/ports"
	"github.com/cdportal/admin-console/internal/core/ports/portstest"
)

func TestMemory(t *testing.T) {
	portstest.CredentialStore(t, NewMemory())
}

func TestFile_Plain(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "creds.json")
	portstest.CredentialStore(t, NewFile(path, ""))

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err), "file removed once empty")
}

func TestFile_PersistsAcrossInstances(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "creds.json")

	require.NoError(t, NewFile(path, "").Set(ctx, ports.KeyToken, "abc"))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	v, ok, err := NewFile(path, "").Get(ctx, ports.KeyToken)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "abc", v)
}

func TestFile_Sealed(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "creds.json")

	portstest.CredentialStore(t, NewFile(path, "s3cret"))

	s := NewFile(path, "s3cret")
	require.NoError(t, s.Set(ctx, ports.KeyToken, "header.payload.sig"))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "header.payload.sig")

	var doc fileLayout
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.NotEmpty(t, doc.Salt)

	v, ok, err := NewFile(path, "s3cret").Get(ctx, ports.KeyToken)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "header.payload.sig", v)

	_, _, err = NewFile(path, "wrong").Get(ctx, ports.KeyToken)
	assert.ErrorIs(t, err, ErrSealed)

	_, _, err = NewFile(path, "").Get(ctx, ports.KeyToken)
	assert.ErrorIs(t, err, ErrSealed)
}

func TestFile_CorruptDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "creds.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, _, err := NewFile(path, "").Get(context.Background(), ports.KeyToken)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "parse credential file"))
}
