package docs

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sha1n/mcp-docs-server/internal/domain"
)

// OutdatedSuffix is appended to the sync tool description when the startup
// freshness check found local copies lagging their remotes.
const OutdatedSuffix = " (recommended: local copies are outdated)"

// SyncArgument defines sync parameters. The tool takes none.
type SyncArgument struct{}

// SyncHandler handles the sync_docs MCP tool.
type SyncHandler struct {
	service   *Service
	resources *ResourceRegistry
}

// NewSyncHandler creates a new sync handler. The resource registry may be
// nil; when present it is refreshed after every sync so newly fetched files
// become visible as resources.
func NewSyncHandler(service *Service, resources *ResourceRegistry) *SyncHandler {
	return &SyncHandler{
		service:   service,
		resources: resources,
	}
}

// Handle clones or updates every configured repository and reports the
// outcome per repository, in order.
func (h *SyncHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args SyncArgument) (*mcp.CallToolResult, any, error) {
	results, outdated, err := h.service.Sync(ctx)
	if err != nil {
		return &mcp.CallToolResult{
			Content: []mcp.Content{
				&mcp.TextContent{Text: fmt.Sprintf("Error: %v", err)},
			},
			IsError: true,
		}, nil, nil
	}

	if h.resources != nil {
		h.resources.Refresh()
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: FormatSyncOutput(results, outdated)},
		},
	}, nil, nil
}

// FormatSyncOutput renders per-repository sync results in order. The
// all-clear line is appended when nothing is outdated after the sync.
func FormatSyncOutput(results []domain.SyncResult, outdated bool) string {
	var lines []string
	for _, result := range results {
		lines = append(lines, fmt.Sprintf("\n--- Syncing %s ---", result.RepoName))
		if result.Success {
			if result.WasCloned {
				lines = append(lines, fmt.Sprintf("Cloning %s...", result.RepoName))
			} else if result.WasUpdated {
				lines = append(lines, fmt.Sprintf("Updating %s...", result.RepoName))
			}
		}
		lines = append(lines, result.Message)
	}

	if !outdated {
		lines = append(lines, "\nAll documentation repositories are up to date.")
	}

	return strings.Join(lines, "\n")
}

// GetToolDefinition returns the MCP tool definition. The description names
// the configured repositories and, when the startup check found them stale,
// recommends running the tool.
func (h *SyncHandler) GetToolDefinition() *mcp.Tool {
	names := make([]string, 0, len(h.service.GetSettings().Repositories))
	for _, repo := range h.service.GetSettings().Repositories {
		names = append(names, repo.Name)
	}

	description := fmt.Sprintf("Sync documentation (%s) with remote repositories", strings.Join(names, ", "))
	if h.service.State().IsOutdated() {
		description += OutdatedSuffix
	}

	return &mcp.Tool{
		Name:        "sync_docs",
		Description: description,
	}
}

// RegisterSyncTool registers the sync tool with an MCP server.
func RegisterSyncTool(server *mcp.Server, service *Service, resources *ResourceRegistry) {
	handler := NewSyncHandler(service, resources)
	mcp.AddTool(server, handler.GetToolDefinition(), handler.Handle)
}
