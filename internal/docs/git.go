package docs

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// CommandExecutor abstracts command execution for testing.
type CommandExecutor interface {
	// Run executes a command and returns its standard output.
	Run(ctx context.Context, dir string, name string, args ...string) ([]byte, error)
}

// DefaultExecutor executes commands using os/exec.
type DefaultExecutor struct{}

// Run executes a command and returns its standard output.
func (e *DefaultExecutor) Run(ctx context.Context, dir string, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	if dir != "" {
		cmd.Dir = dir
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		// Include stderr in error message for debugging
		if stderr.Len() > 0 {
			return nil, fmt.Errorf("%w: %s", err, strings.TrimSpace(stderr.String()))
		}
		return nil, err
	}

	return stdout.Bytes(), nil
}

// GitClient executes git commands.
type GitClient struct {
	executor CommandExecutor
}

// NewGitClient creates a new GitClient with the default command executor.
func NewGitClient() *GitClient {
	return &GitClient{
		executor: &DefaultExecutor{},
	}
}

// NewGitClientWithExecutor creates a GitClient with a custom executor (for testing).
func NewGitClientWithExecutor(executor CommandExecutor) *GitClient {
	return &GitClient{
		executor: executor,
	}
}

// Clone performs a shallow clone of the repository.
// With noCheckout the working tree is left empty so a sparse checkout can be
// configured before the first checkout.
func (g *GitClient) Clone(ctx context.Context, url, destDir string, noCheckout bool) error {
	args := []string{"clone", "--depth", "1"}
	if noCheckout {
		args = append(args, "--no-checkout")
	}
	args = append(args, url, destDir)

	_, err := g.executor.Run(ctx, "", "git", args...)
	if err != nil {
		return fmt.Errorf("git clone failed: %w", err)
	}
	return nil
}

// ConfigureSparseCheckout restricts an existing no-checkout clone to the
// given subpath and materializes the working tree.
func (g *GitClient) ConfigureSparseCheckout(ctx context.Context, repoDir, sparsePath string) error {
	if _, err := g.executor.Run(ctx, repoDir, "git", "config", "core.sparseCheckout", "true"); err != nil {
		return fmt.Errorf("git config failed: %w", err)
	}
	if _, err := g.executor.Run(ctx, repoDir, "git", "sparse-checkout", "set", sparsePath); err != nil {
		return fmt.Errorf("git sparse-checkout failed: %w", err)
	}
	if _, err := g.executor.Run(ctx, repoDir, "git", "checkout"); err != nil {
		return fmt.Errorf("git checkout failed: %w", err)
	}
	return nil
}

// Pull updates an existing shallow clone and returns git's output.
func (g *GitClient) Pull(ctx context.Context, repoDir string) (string, error) {
	output, err := g.executor.Run(ctx, repoDir, "git", "pull", "--depth", "1")
	if err != nil {
		return "", fmt.Errorf("git pull failed: %w", err)
	}
	return strings.TrimSpace(string(output)), nil
}

// Fetch fetches remote refs without touching the working tree.
func (g *GitClient) Fetch(ctx context.Context, repoDir string) error {
	_, err := g.executor.Run(ctx, repoDir, "git", "fetch")
	if err != nil {
		return fmt.Errorf("git fetch failed: %w", err)
	}
	return nil
}

// GetHeadCommit returns the current HEAD commit SHA.
func (g *GitClient) GetHeadCommit(ctx context.Context, repoDir string) (string, error) {
	output, err := g.executor.Run(ctx, repoDir, "git", "rev-parse", "HEAD")
	if err != nil {
		return "", fmt.Errorf("git rev-parse failed: %w", err)
	}
	return strings.TrimSpace(string(output)), nil
}

// GetUpstreamCommit returns the commit SHA of the upstream tracking branch.
func (g *GitClient) GetUpstreamCommit(ctx context.Context, repoDir string) (string, error) {
	output, err := g.executor.Run(ctx, repoDir, "git", "rev-parse", "@{u}")
	if err != nil {
		return "", fmt.Errorf("git rev-parse failed: %w", err)
	}
	return strings.TrimSpace(string(output)), nil
}

// IsGitRepository checks if the given directory is a git repository.
func (g *GitClient) IsGitRepository(ctx context.Context, dir string) bool {
	_, err := g.executor.Run(ctx, dir, "git", "rev-parse", "--git-dir")
	return err == nil
}
