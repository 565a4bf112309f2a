package docs

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/sha1n/mcp-docs-server/internal/config"
	"github.com/sha1n/mcp-docs-server/internal/domain"
)

// Service bundles the document store, search engine, syncer, and sync state
// behind one facade consumed by the MCP handlers and the interactive shell.
//
// Construction performs no filesystem writes: until the first sync the
// document root may not exist, and read operations report that instead of
// creating it.
type Service struct {
	settings *config.DocsSettings
	store    *Store
	engine   *Engine
	syncer   *Syncer
	state    *SyncState
}

// NewService creates a documentation service from settings. It loads any
// previously persisted sync state but does not touch the network or create
// directories.
func NewService(settings *config.DocsSettings) (*Service, error) {
	if settings == nil {
		return nil, fmt.Errorf("settings cannot be nil")
	}

	state, err := LoadSyncState(filepath.Join(settings.Path, StateFilename))
	if err != nil {
		return nil, err
	}

	filter := NewFileFilter(settings.Extensions)

	return &Service{
		settings: settings,
		store:    NewStore(settings.Path, filter, settings.MaxFileChars),
		engine:   NewEngine(settings.Path, filter, settings.SnippetLength, settings.MaxResults),
		syncer:   NewSyncer(settings),
		state:    state,
	}, nil
}

// GetSettings returns the documentation settings.
func (s *Service) GetSettings() *config.DocsSettings {
	return s.settings
}

// State returns the sync state shared by handlers and the syncer.
func (s *Service) State() *SyncState {
	return s.state
}

// Syncer returns the repository syncer. For testing.
func (s *Service) Syncer() *Syncer {
	return s.syncer
}

// IsAvailable reports whether the document root exists yet.
func (s *Service) IsAvailable() bool {
	return s.store.IsAvailable()
}

// MaxFileChars returns the default read window, in characters.
func (s *Service) MaxFileChars() int {
	return s.store.MaxFileChars()
}

// Search scans the document tree for the query.
func (s *Service) Search(query string) ([]domain.SearchResult, error) {
	return s.engine.Search(query)
}

// FormatResults renders search results for tool output.
func (s *Service) FormatResults(results []domain.SearchResult) string {
	return s.engine.FormatResults(results)
}

// Read returns a character window of a documentation file along with the
// file's total character count.
func (s *Service) Read(path string, offset, limit int) (string, int, error) {
	return s.store.ReadFile(path, offset, limit)
}

// ReadPage reads one window of a file and appends a pagination footer when
// the window does not cover the whole file.
func (s *Service) ReadPage(path string, offset, limit int) (string, error) {
	content, total, err := s.store.ReadFile(path, offset, limit)
	if err != nil {
		return "", err
	}

	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = s.store.MaxFileChars()
	}
	end := offset + limit

	if offset > 0 || end < total {
		shown := min(end, total)
		content += fmt.Sprintf("\n\n[... Showing characters %d-%d of %d total]", offset, shown, total)
	}

	return content, nil
}

// ListFiles returns the root-relative paths of all supported files.
func (s *Service) ListFiles() ([]string, error) {
	return s.store.ListFiles()
}

// RenderTree renders the document tree with box-drawing connectors, rooted
// at a "<root>/" line.
func (s *Service) RenderTree() (string, error) {
	if err := s.store.RequireAvailable(); err != nil {
		return "", err
	}

	lines := append([]string{s.store.RootName() + "/"}, s.store.BuildTree()...)
	return strings.Join(lines, "\n"), nil
}

// RefreshOutdated re-checks repository freshness and records the answer in
// the sync state. Returns the new value.
func (s *Service) RefreshOutdated(ctx context.Context) bool {
	outdated := s.syncer.CheckIfOutdated(ctx)
	s.state.SetOutdated(outdated)
	return outdated
}

// Sync clones or updates every configured repository, re-checks freshness,
// and persists the resulting state inside the document root. The returned
// bool reports whether any repository is still outdated after the sync.
func (s *Service) Sync(ctx context.Context) ([]domain.SyncResult, bool, error) {
	results, err := s.syncer.SyncAll(ctx)
	if err != nil {
		return nil, false, err
	}

	outdated := s.syncer.CheckIfOutdated(ctx)
	s.state.RecordSync(results)
	s.state.SetOutdated(outdated)

	if err := s.PersistState(); err != nil {
		slog.Warn("Failed to persist sync state", "error", err)
	}

	return results, outdated, nil
}

// PersistState writes the sync state file inside the document root. It is a
// no-op while the root does not exist, since the state file lives there.
func (s *Service) PersistState() error {
	if !s.store.IsAvailable() {
		return nil
	}
	return s.state.Save(filepath.Join(s.settings.Path, StateFilename))
}
