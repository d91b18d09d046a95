package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/precisionhealth/skinsight-be/internal/apperrors"
	"github.com/precisionhealth/skinsight-be/internal/models"
)

func newTestStore(t *testing.T) *FileStore {
	t.Helper()
	return NewFileStore(filepath.Join(t.TempDir(), "users.json"))
}

func TestLoad_CreatesEmptyFileLazily(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	accounts := s.Load()

	assert.Empty(t, accounts)
	_, err := os.Stat(s.path)
	assert.NoError(t, err, "empty store should be persisted on first load")
}

func TestSaveAndLoad_Roundtrip(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	accounts := map[string]models.Account{
		"alice": {Username: "alice", Email: "alice@example.com", FullName: "Alice A", HashedPassword: "x", Disabled: false},
	}
	require.NoError(t, s.Save(accounts))

	loaded := s.Load()
	require.Len(t, loaded, 1)
	assert.Equal(t, accounts["alice"], loaded["alice"])
}

func TestLoad_FailsSoftOnCorruptFile(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	require.NoError(t, os.WriteFile(s.path, []byte("not json at all"), 0o644))

	accounts := s.Load()
	assert.Empty(t, accounts)
}

func TestSave_FailsHard(t *testing.T) {
	t.Parallel()

	// A directory at the store path makes the rename fail.
	dir := t.TempDir()
	s := NewFileStore(dir)

	err := s.Save(map[string]models.Account{})
	assert.ErrorIs(t, err, apperrors.ErrStorageFailure)
}

func TestFindByUsernameOrEmail(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	require.NoError(t, s.Save(map[string]models.Account{
		"alice": {Username: "alice", Email: "alice@example.com"},
		"bob":   {Username: "bob", Email: "bob@example.com"},
	}))

	byName, ok := s.FindByUsernameOrEmail("alice")
	require.True(t, ok)
	assert.Equal(t, "alice", byName.Username)

	byEmail, ok := s.FindByUsernameOrEmail("bob@example.com")
	require.True(t, ok)
	assert.Equal(t, "bob", byEmail.Username)

	_, ok = s.FindByUsernameOrEmail("nobody")
	assert.False(t, ok)
}

func TestSnapshotTo(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	require.NoError(t, s.Save(map[string]models.Account{
		"alice": {Username: "alice", Email: "alice@example.com"},
	}))

	backupDir := t.TempDir()
	path, err := s.SnapshotTo(backupDir)
	require.NoError(t, err)

	original, err := os.ReadFile(s.path)
	require.NoError(t, err)
	copied, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, original, copied)
}
