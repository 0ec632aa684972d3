package file

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emailportal/portal-client/internal/core/domain"
)

func TestStore_SetGetDelete(t *testing.T) {
	ctx := context.Background()
	s, err := New(filepath.Join(t.TempDir(), "session.json"), "")
	require.NoError(t, err)

	_, err = s.Get(ctx, "accessToken")
	require.ErrorIs(t, err, domain.ErrEntryNotFound)

	require.NoError(t, s.Set(ctx, "accessToken", "a1"))
	require.NoError(t, s.Set(ctx, "refreshToken", "r1"))
	require.NoError(t, s.Set(ctx, "accessToken", "a2"))

	v, err := s.Get(ctx, "accessToken")
	require.NoError(t, err)
	assert.Equal(t, "a2", v)

	require.NoError(t, s.Delete(ctx, "accessToken", "missing"))
	_, err = s.Get(ctx, "accessToken")
	assert.ErrorIs(t, err, domain.ErrEntryNotFound)

	v, err = s.Get(ctx, "refreshToken")
	require.NoError(t, err)
	assert.Equal(t, "r1", v)
}

func TestStore_DeleteLastEntryRemovesFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "session.json")
	s, err := New(path, "")
	require.NoError(t, err)

	require.NoError(t, s.Set(ctx, "user", "{}"))
	require.NoError(t, s.Delete(ctx, "user"))

	_, err = os.Stat(path)
	assert.True(t, errors.Is(err, os.ErrNotExist))

	// Deleting again from a missing file is fine.
	require.NoError(t, s.Delete(ctx, "user"))
}

func TestStore_SealedFileIsNotPlaintext(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "session.bin")
	s, err := New(path, "correct horse")
	require.NoError(t, err)

	require.NoError(t, s.Set(ctx, "accessToken", "very-secret-token"))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.False(t, bytes.Contains(raw, []byte("very-secret-token")))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	reopened, err := New(path, "correct horse")
	require.NoError(t, err)
	v, err := reopened.Get(ctx, "accessToken")
	require.NoError(t, err)
	assert.Equal(t, "very-secret-token", v)

	wrong, err := New(path, "wrong")
	require.NoError(t, err)
	_, err = wrong.Get(ctx, "accessToken")
	assert.Error(t, err)
}

func TestStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	s, err := New(path, "")
	require.NoError(t, err)
	_, err = s.Get(context.Background(), "user")
	require.Error(t, err)
	assert.False(t, errors.Is(err, domain.ErrEntryNotFound))
}

func TestStore_Ping(t *testing.T) {
	dir := t.TempDir()
	s, err := New(filepath.Join(dir, "session.json"), "")
	require.NoError(t, err)
	require.NoError(t, s.Ping(context.Background()))

	missing, err := New(filepath.Join(dir, "nope", "session.json"), "")
	require.NoError(t, err)
	assert.Error(t, missing.Ping(context.Background()))
}

func TestNew_RequiresPath(t *testing.T) {
	_, err := New("", "")
	assert.Error(t, err)
}
