package docs

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sha1n/mcp-docs-server/internal/config"
	"github.com/sha1n/mcp-docs-server/internal/domain"
)

func TestNewSyncHandler(t *testing.T) {
	svc := newDocsService(t, t.TempDir())
	if NewSyncHandler(svc, nil) == nil {
		t.Fatal("Expected non-nil handler")
	}
}

func TestSyncHandler_Clone(t *testing.T) {
	svc := newDocsService(t, t.TempDir())
	mock := NewMockExecutor()
	svc.Syncer().SetGitClient(NewGitClientWithExecutor(mock))
	mock.AddResponse("git clone", nil, nil)

	handler := NewSyncHandler(svc, nil)
	result, _, err := handler.Handle(context.Background(), &mcp.CallToolRequest{}, SyncArgument{})
	if err != nil {
		t.Fatalf("Handle returned error: %v", err)
	}
	if result.IsError {
		t.Fatalf("Expected success, got error: %s", resultText(t, result))
	}

	want := "\n--- Syncing klipper ---\n" +
		"Cloning klipper...\n" +
		"Successfully cloned.\n" +
		"\nAll documentation repositories are up to date."
	if got := resultText(t, result); got != want {
		t.Errorf("Result text = %q, want %q", got, want)
	}
}

func TestSyncHandler_SyncError(t *testing.T) {
	root := t.TempDir()
	svc := newDocsService(t, root)

	// Hold the sync lock from the outside, then cancel the context so the
	// handler's wait aborts immediately instead of running out the timeout.
	blocker := NewFileLock(svc.Syncer().lock.Path())
	if acquired, err := blocker.TryLock(); err != nil || !acquired {
		t.Fatalf("Failed to hold the sync lock: %v", err)
	}
	defer unlockQuietly(t, blocker)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	handler := NewSyncHandler(svc, nil)
	result, _, err := handler.Handle(ctx, &mcp.CallToolRequest{}, SyncArgument{})
	if err != nil {
		t.Fatalf("Handle returned error: %v", err)
	}
	if !result.IsError {
		t.Fatal("Expected error result when the sync cannot start")
	}

	text := resultText(t, result)
	if !strings.HasPrefix(text, "Error: another sync appears to be in progress") {
		t.Errorf("Error text = %q", text)
	}
}

func TestSyncHandler_RefreshesResources(t *testing.T) {
	root := t.TempDir()
	svc := newDocsService(t, root)
	mock := NewMockExecutor()
	svc.Syncer().SetGitClient(NewGitClientWithExecutor(mock))
	mock.AddResponse("git clone", nil, nil)

	server := mcp.NewServer(&mcp.Implementation{Name: "test", Version: "0.0.1"}, nil)
	registry := NewResourceRegistry(server, svc)
	registry.Refresh()
	if registry.Count() != 0 {
		t.Fatalf("Expected no resources before sync, got %d", registry.Count())
	}

	// Stand in for the files a real clone would produce.
	writeDocFile(t, root, "klipper/docs/intro.md", "intro")

	handler := NewSyncHandler(svc, registry)
	result, _, err := handler.Handle(context.Background(), &mcp.CallToolRequest{}, SyncArgument{})
	if err != nil {
		t.Fatalf("Handle returned error: %v", err)
	}
	if result.IsError {
		t.Fatalf("Expected success, got error: %s", resultText(t, result))
	}

	if registry.Count() != 1 {
		t.Errorf("Expected 1 registered resource after sync, got %d", registry.Count())
	}
}

func TestFormatSyncOutput(t *testing.T) {
	tests := []struct {
		name     string
		results  []domain.SyncResult
		outdated bool
		want     string
	}{
		{
			name: "clone",
			results: []domain.SyncResult{
				{RepoName: "klipper", Success: true, Message: "Successfully cloned.", WasCloned: true},
			},
			want: "\n--- Syncing klipper ---\nCloning klipper...\nSuccessfully cloned.\n\nAll documentation repositories are up to date.",
		},
		{
			name: "update",
			results: []domain.SyncResult{
				{RepoName: "moonraker", Success: true, Message: "Already up to date.", WasUpdated: true},
			},
			want: "\n--- Syncing moonraker ---\nUpdating moonraker...\nAlready up to date.\n\nAll documentation repositories are up to date.",
		},
		{
			name: "failure suppresses the action line",
			results: []domain.SyncResult{
				{RepoName: "klipper", Message: "Clone failed:\nboom"},
			},
			outdated: true,
			want:     "\n--- Syncing klipper ---\nClone failed:\nboom",
		},
		{
			name: "repositories in order",
			results: []domain.SyncResult{
				{RepoName: "klipper", Success: true, Message: "Successfully cloned.", WasCloned: true},
				{RepoName: "moonraker", Message: "Update failed:\nnetwork unreachable"},
			},
			outdated: true,
			want: "\n--- Syncing klipper ---\nCloning klipper...\nSuccessfully cloned.\n" +
				"\n--- Syncing moonraker ---\nUpdate failed:\nnetwork unreachable",
		},
		{
			name: "no repositories",
			want: "\nAll documentation repositories are up to date.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatSyncOutput(tt.results, tt.outdated); got != tt.want {
				t.Errorf("FormatSyncOutput = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSyncHandler_GetToolDefinition(t *testing.T) {
	settings := &config.DocsSettings{
		Path:            t.TempDir(),
		MaxFileChars:    10000,
		SnippetLength:   200,
		MaxResults:      7,
		Extensions:      []string{".md"},
		CloneTimeout:    time.Minute,
		FetchTimeout:    time.Minute,
		RevParseTimeout: time.Minute,
		Repositories: []config.Repository{
			{Name: "klipper", URL: "https://example.com/klipper.git"},
			{Name: "moonraker", URL: "https://example.com/moonraker.git"},
		},
	}
	svc, err := NewService(settings)
	if err != nil {
		t.Fatalf("NewService failed: %v", err)
	}

	handler := NewSyncHandler(svc, nil)
	tool := handler.GetToolDefinition()

	if tool.Name != "sync_docs" {
		t.Errorf("Tool name = %q, want 'sync_docs'", tool.Name)
	}
	want := "Sync documentation (klipper, moonraker) with remote repositories"
	if tool.Description != want {
		t.Errorf("Description = %q, want %q", tool.Description, want)
	}
}

func TestSyncHandler_GetToolDefinition_Outdated(t *testing.T) {
	svc := newDocsService(t, t.TempDir())
	svc.State().SetOutdated(true)

	tool := NewSyncHandler(svc, nil).GetToolDefinition()
	if !strings.HasSuffix(tool.Description, OutdatedSuffix) {
		t.Errorf("Description should carry the outdated recommendation: %q", tool.Description)
	}
}
