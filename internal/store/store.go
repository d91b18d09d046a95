package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/precisionhealth/skinsight-be/internal/apperrors"
	"github.com/precisionhealth/skinsight-be/internal/models"
)

// AccountStore is a whole-snapshot key-value store of accounts keyed by
// username. It offers no transactional guarantee: callers that need a
// check-then-act sequence must serialize it themselves.
type AccountStore interface {
	// Load returns all accounts. It fails soft: a missing, unreadable or
	// corrupt file yields an empty map, never an error, because an empty
	// store is a safe degraded state.
	Load() map[string]models.Account

	// Save rewrites the whole snapshot. Unlike Load it fails hard, since
	// silently dropping a write would lose user data.
	Save(accounts map[string]models.Account) error

	// FindByUsernameOrEmail looks up an account by username first, then by
	// a linear scan over emails. The login surface accepts either form.
	FindByUsernameOrEmail(key string) (models.Account, bool)

	// SnapshotTo copies the current snapshot file into dir and returns the
	// path of the copy.
	SnapshotTo(dir string) (string, error)
}

// FileStore persists accounts as a single JSON file.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore creates a FileStore backed by the given path. The file is
// created lazily on first Load if it does not exist.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Load() map[string]models.Account {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked()
}

func (s *FileStore) loadLocked() map[string]models.Account {
	accounts := make(map[string]models.Account)

	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		if err := s.writeLocked(accounts); err != nil {
			log.Error().Err(err).Str("path", s.path).Msg("Failed to create empty users file")
		}
		return accounts
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		log.Error().Err(err).Str("path", s.path).Msg("Failed to read users file")
		return make(map[string]models.Account)
	}

	if err := json.Unmarshal(data, &accounts); err != nil {
		log.Error().Err(err).Str("path", s.path).Msg("Failed to decode users file")
		return make(map[string]models.Account)
	}
	return accounts
}

func (s *FileStore) Save(accounts map[string]models.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.writeLocked(accounts); err != nil {
		log.Error().Err(err).Str("path", s.path).Msg("Failed to save users file")
		return fmt.Errorf("%w: %v", apperrors.ErrStorageFailure, err)
	}
	return nil
}

// writeLocked rewrites the snapshot atomically via a temp file and rename, so
// a concurrent Load never observes a partial write.
func (s *FileStore) writeLocked(accounts map[string]models.Account) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(accounts, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".users-*.json")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}

func (s *FileStore) FindByUsernameOrEmail(key string) (models.Account, bool) {
	s.mu.Lock()
	accounts := s.loadLocked()
	s.mu.Unlock()

	if account, ok := accounts[key]; ok {
		return account, true
	}
	for _, account := range accounts {
		if account.Email == key {
			return account, true
		}
	}
	return models.Account{}, false
}

func (s *FileStore) SnapshotTo(dir string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		return "", fmt.Errorf("read snapshot source: %w", err)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	name := fmt.Sprintf("users-%s.json", time.Now().UTC().Format("20060102T150405"))
	dest := filepath.Join(dir, name)
	if err := os.WriteFile(dest, data, 0o644); err != nil {
		return "", err
	}
	return dest, nil
}
