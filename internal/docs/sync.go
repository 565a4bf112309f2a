package docs

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/sha1n/mcp-docs-server/internal/config"
	"github.com/sha1n/mcp-docs-server/internal/domain"
)

const lockFilename = ".sync.lock"

const lockTimeout = 30 * time.Second

// Syncer clones and updates the configured documentation repositories under
// the document root. Sync runs hold a cross-process file lock so concurrent
// server instances sharing a root never interleave git commands.
type Syncer struct {
	root            string
	repos           []config.Repository
	git             *GitClient
	lock            *FileLock
	cloneTimeout    time.Duration
	fetchTimeout    time.Duration
	revParseTimeout time.Duration
}

// NewSyncer creates a syncer for the configured repositories.
func NewSyncer(settings *config.DocsSettings) *Syncer {
	return &Syncer{
		root:            settings.Path,
		repos:           settings.Repositories,
		git:             NewGitClient(),
		lock:            NewFileLock(filepath.Join(settings.Path, lockFilename)),
		cloneTimeout:    settings.CloneTimeout,
		fetchTimeout:    settings.FetchTimeout,
		revParseTimeout: settings.RevParseTimeout,
	}
}

// SetGitClient replaces the git client. For testing.
func (s *Syncer) SetGitClient(client *GitClient) {
	s.git = client
}

// SyncAll clones missing repositories and pulls existing ones, in the
// configured order. A repository failure is recorded in its result and does
// not stop the remaining repositories. The returned error is reserved for
// failures that prevent the sync from running at all, such as another sync
// holding the lock past the wait timeout.
func (s *Syncer) SyncAll(ctx context.Context) ([]domain.SyncResult, error) {
	if err := os.MkdirAll(s.root, 0755); err != nil {
		return nil, fmt.Errorf("failed to create documentation directory: %w", err)
	}

	if err := s.lock.Lock(ctx, lockTimeout); err != nil {
		return nil, fmt.Errorf("another sync appears to be in progress: %w", err)
	}
	defer func() {
		_ = s.lock.Unlock()
	}()

	results := make([]domain.SyncResult, 0, len(s.repos))
	for _, repo := range s.repos {
		results = append(results, s.syncRepository(ctx, repo))
	}

	return results, nil
}

func (s *Syncer) syncRepository(ctx context.Context, repo config.Repository) domain.SyncResult {
	repoDir := filepath.Join(s.root, repo.Name)

	if _, err := os.Stat(repoDir); os.IsNotExist(err) {
		slog.Info("Cloning repository", "name", repo.Name, "url", repo.URL)
		return s.cloneRepository(ctx, repo, repoDir)
	}

	slog.Info("Updating repository", "name", repo.Name)
	return s.updateRepository(ctx, repo, repoDir)
}

func (s *Syncer) cloneRepository(ctx context.Context, repo config.Repository, repoDir string) domain.SyncResult {
	ctx, cancel := context.WithTimeout(ctx, s.cloneTimeout)
	defer cancel()

	sparse := repo.SparsePath != ""
	if err := s.git.Clone(ctx, repo.URL, repoDir, sparse); err != nil {
		slog.Warn("Clone failed", "name", repo.Name, "error", err)
		return domain.SyncResult{
			RepoName: repo.Name,
			Message:  fmt.Sprintf("Clone failed:\n%v", err),
		}
	}

	// Sparse setup runs under the same timeout as the clone itself.
	if sparse {
		if err := s.git.ConfigureSparseCheckout(ctx, repoDir, repo.SparsePath); err != nil {
			slog.Warn("Sparse checkout failed", "name", repo.Name, "error", err)
			return domain.SyncResult{
				RepoName: repo.Name,
				Message:  fmt.Sprintf("Clone failed:\n%v", err),
			}
		}
	}

	return domain.SyncResult{
		RepoName:  repo.Name,
		Success:   true,
		Message:   "Successfully cloned.",
		WasCloned: true,
	}
}

func (s *Syncer) updateRepository(ctx context.Context, repo config.Repository, repoDir string) domain.SyncResult {
	ctx, cancel := context.WithTimeout(ctx, s.cloneTimeout)
	defer cancel()

	output, err := s.git.Pull(ctx, repoDir)
	if err != nil {
		slog.Warn("Update failed", "name", repo.Name, "error", err)
		return domain.SyncResult{
			RepoName: repo.Name,
			Message:  fmt.Sprintf("Update failed:\n%v", err),
		}
	}

	if output == "" {
		output = "Already up to date."
	}

	return domain.SyncResult{
		RepoName:   repo.Name,
		Success:    true,
		Message:    output,
		WasUpdated: true,
	}
}

// CheckIfOutdated reports whether any local checkout lags its upstream. The
// check is best-effort: repositories that are missing, unreachable, or not
// yet valid git checkouts are treated as current rather than failing the
// check.
func (s *Syncer) CheckIfOutdated(ctx context.Context) bool {
	if _, err := os.Stat(s.root); err != nil {
		return false
	}

	for _, repo := range s.repos {
		repoDir := filepath.Join(s.root, repo.Name)
		if _, err := os.Stat(repoDir); err != nil {
			continue
		}
		if s.isRepositoryOutdated(ctx, repoDir) {
			slog.Info("Repository is outdated", "name", repo.Name)
			return true
		}
	}

	return false
}

func (s *Syncer) isRepositoryOutdated(ctx context.Context, repoDir string) bool {
	checkCtx, cancel := context.WithTimeout(ctx, s.revParseTimeout)
	isRepo := s.git.IsGitRepository(checkCtx, repoDir)
	cancel()
	if !isRepo {
		return false
	}

	fetchCtx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
	err := s.git.Fetch(fetchCtx, repoDir)
	cancel()
	if err != nil {
		slog.Warn("Fetch failed during freshness check", "dir", repoDir, "error", err)
		return false
	}

	headCtx, cancel := context.WithTimeout(ctx, s.revParseTimeout)
	local, err := s.git.GetHeadCommit(headCtx, repoDir)
	cancel()
	if err != nil {
		return false
	}

	upstreamCtx, cancel := context.WithTimeout(ctx, s.revParseTimeout)
	upstream, err := s.git.GetUpstreamCommit(upstreamCtx, repoDir)
	cancel()
	if err != nil {
		return false
	}

	return local != upstream
}
