package monitoring

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/precisionhealth/skinsight-be/internal/models"
	"github.com/precisionhealth/skinsight-be/internal/services"
	"github.com/precisionhealth/skinsight-be/internal/store"
)

func TestStoreBackup_RunOnceWritesSnapshot(t *testing.T) {
	t.Parallel()

	fileStore := store.NewFileStore(filepath.Join(t.TempDir(), "users.json"))
	require.NoError(t, fileStore.Save(map[string]models.Account{
		"alice": {Username: "alice", Email: "alice@example.com"},
	}))

	backupDir := t.TempDir()
	eventSvc := services.NewEventService(nil, 10)
	backup := NewStoreBackup(fileStore, eventSvc, backupDir, "@hourly", 3)

	backup.RunOnce()

	entries, err := os.ReadDir(backupDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].Name(), "users-")

	events := eventSvc.Recent(10)
	require.Len(t, events, 1)
	assert.Equal(t, "store.backup.success", events[0].Type)
}

func TestStoreBackup_PrunesOldSnapshots(t *testing.T) {
	t.Parallel()

	fileStore := store.NewFileStore(filepath.Join(t.TempDir(), "users.json"))
	require.NoError(t, fileStore.Save(map[string]models.Account{}))

	backupDir := t.TempDir()
	for i := 0; i < 5; i++ {
		name := fmt.Sprintf("users-2026010%dT000000.json", i)
		require.NoError(t, os.WriteFile(filepath.Join(backupDir, name), []byte("{}"), 0o644))
	}

	backup := NewStoreBackup(fileStore, nil, backupDir, "@hourly", 3)
	backup.RunOnce()

	entries, err := os.ReadDir(backupDir)
	require.NoError(t, err)
	assert.Len(t, entries, 3)

	// The oldest snapshots are the ones removed.
	for _, e := range entries {
		assert.NotEqual(t, "users-20260100T000000.json", e.Name())
		assert.NotEqual(t, "users-20260101T000000.json", e.Name())
	}
}

func TestStoreBackup_StartRejectsBadSchedule(t *testing.T) {
	t.Parallel()

	fileStore := store.NewFileStore(filepath.Join(t.TempDir(), "users.json"))
	backup := NewStoreBackup(fileStore, nil, t.TempDir(), "not a schedule", 3)

	assert.Error(t, backup.Start())
}
