package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_SaveLoadClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")
	s := NewFileStore(path)

	_, err := s.Load()
	require.ErrorIs(t, err, ErrNotLoggedIn)

	want := &Session{Server: "127.0.0.1:50051", Email: "a@b.c", UserID: "u1", AccessToken: "A", RefreshToken: "R"}
	require.NoError(t, s.Save(want))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	got, err := s.Load()
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(want, got))

	want.AccessToken = "A2"
	require.NoError(t, s.Save(want))
	got, err = s.Load()
	require.NoError(t, err)
	assert.Equal(t, "A2", got.AccessToken)

	require.NoError(t, s.Clear())
	require.NoError(t, s.Clear())
	_, err = s.Load()
	require.ErrorIs(t, err, ErrNotLoggedIn)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Empty(t, entries, "temp files must not linger")
}

func TestFileStore_LoadErrors(t *testing.T) {
	dir := t.TempDir()

	t.Run("corrupt file", func(t *testing.T) {
		p := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(p, []byte("{"), 0o600))
		_, err := NewFileStore(p).Load()
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrNotLoggedIn)
	})

	t.Run("no tokens", func(t *testing.T) {
		p := filepath.Join(dir, "empty.json")
		require.NoError(t, os.WriteFile(p, []byte(`{"server":"x"}`), 0o600))
		_, err := NewFileStore(p).Load()
		require.ErrorIs(t, err, ErrNotLoggedIn)
	})

	t.Run("unconfigured path", func(t *testing.T) {
		s := NewFileStore("")
		_, err := s.Load()
		require.ErrorIs(t, err, ErrNotLoggedIn)
		require.Error(t, s.Save(&Session{}))
		require.NoError(t, s.Clear())
	})
}
