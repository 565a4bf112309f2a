package docs

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/sha1n/mcp-docs-server/internal/domain"
)

// StateFilename is the sync state file kept inside the document root.
const StateFilename = ".sync-state.json"

const stateVersion = 1

// SyncState records whether the local documentation lags its remotes and the
// outcome of the most recent sync. Callers read and update it explicitly;
// nothing mutates it as a side effect of serving requests. Safe for
// concurrent use.
type SyncState struct {
	mu sync.RWMutex

	Version     int                 `json:"version"`
	Outdated    bool                `json:"outdated"`
	LastSync    time.Time           `json:"last_sync"`
	LastResults []domain.SyncResult `json:"last_results,omitempty"`
}

// NewSyncState creates an empty state: never synced, not known outdated.
func NewSyncState() *SyncState {
	return &SyncState{
		Version: stateVersion,
	}
}

// LoadSyncState reads persisted state from the given path. A missing file is
// not an error and yields a fresh state.
func LoadSyncState(path string) (*SyncState, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return NewSyncState(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read sync state: %w", err)
	}

	state := NewSyncState()
	if err := json.Unmarshal(data, state); err != nil {
		return nil, fmt.Errorf("failed to parse sync state: %w", err)
	}

	return state, nil
}

// Save writes the state to the given path atomically via a temp file rename.
func (s *SyncState) Save(path string) error {
	s.mu.RLock()
	data, err := json.MarshalIndent(s, "", "  ")
	s.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("failed to marshal sync state: %w", err)
	}

	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write sync state: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("failed to replace sync state: %w", err)
	}

	return nil
}

// SetOutdated records whether local documentation lags its remotes.
func (s *SyncState) SetOutdated(outdated bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Outdated = outdated
}

// IsOutdated reports the last recorded freshness check.
func (s *SyncState) IsOutdated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Outdated
}

// RecordSync stores the per-repository outcomes of a completed sync and
// stamps the sync time.
func (s *SyncState) RecordSync(results []domain.SyncResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.LastResults = results
	s.LastSync = time.Now().UTC()
}

// LastSyncTime returns the time of the last recorded sync, zero if none.
func (s *SyncState) LastSyncTime() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.LastSync
}

// Results returns the outcomes recorded by the last sync.
func (s *SyncState) Results() []domain.SyncResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.LastResults
}
