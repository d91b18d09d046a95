package monitoring

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/precisionhealth/skinsight-be/internal/services"
)

// Snapshotter is the slice of the account store the backup worker needs.
type Snapshotter interface {
	SnapshotTo(dir string) (string, error)
}

// StoreBackup periodically copies the account store file into a backup
// directory and prunes old copies.
type StoreBackup struct {
	store    Snapshotter
	eventSvc services.EventServiceProvider
	dir      string
	schedule string
	retain   int
	cron     *cron.Cron
}

// NewStoreBackup creates a new backup worker. schedule is a cron expression;
// retain is the number of snapshots to keep.
func NewStoreBackup(store Snapshotter, eventSvc services.EventServiceProvider, dir, schedule string, retain int) *StoreBackup {
	return &StoreBackup{
		store:    store,
		eventSvc: eventSvc,
		dir:      dir,
		schedule: schedule,
		retain:   retain,
	}
}

// Start registers the cron entry and begins running snapshots.
func (b *StoreBackup) Start() error {
	b.cron = cron.New()
	if _, err := b.cron.AddFunc(b.schedule, b.RunOnce); err != nil {
		return fmt.Errorf("invalid backup schedule %q: %w", b.schedule, err)
	}
	b.cron.Start()
	log.Info().Str("schedule", b.schedule).Str("dir", b.dir).Msg("Starting store backup worker")
	return nil
}

// Stop halts the worker, waiting for a running snapshot to finish.
func (b *StoreBackup) Stop() {
	if b.cron != nil {
		<-b.cron.Stop().Done()
		log.Info().Msg("Stopping store backup worker")
	}
}

// RunOnce takes a single snapshot and prunes old ones. Exposed so a snapshot
// can be forced outside the schedule.
func (b *StoreBackup) RunOnce() {
	path, err := b.store.SnapshotTo(b.dir)
	if err != nil {
		log.Error().Err(err).Msg("Store snapshot failed")
		if b.eventSvc != nil {
			b.eventSvc.Record("store.backup.fail", "error", fmt.Sprintf("Store snapshot failed: %v", err))
		}
		return
	}
	log.Info().Str("path", path).Msg("Store snapshot written")
	if b.eventSvc != nil {
		b.eventSvc.Record("store.backup.success", "info", "Store snapshot written: "+filepath.Base(path))
	}
	b.prune()
}

// prune removes the oldest snapshots beyond the retention count. Snapshot
// names embed a sortable UTC timestamp, so lexical order is age order.
func (b *StoreBackup) prune() {
	entries, err := os.ReadDir(b.dir)
	if err != nil {
		log.Error().Err(err).Str("dir", b.dir).Msg("Failed to list backup directory")
		return
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasPrefix(e.Name(), "users-") && strings.HasSuffix(e.Name(), ".json") {
			names = append(names, e.Name())
		}
	}
	if len(names) <= b.retain {
		return
	}

	sort.Strings(names)
	for _, name := range names[:len(names)-b.retain] {
		if err := os.Remove(filepath.Join(b.dir, name)); err != nil {
			log.Error().Err(err).Str("name", name).Msg("Failed to prune old snapshot")
		}
	}
}
