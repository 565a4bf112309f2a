package docs

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const resourceURIPrefix = "file://"

// ResourceRegistry mirrors the supported files under the document root as
// MCP resources, one per file. Refresh reconciles the registered set against
// the filesystem; the sync tool calls it after each sync so freshly fetched
// files become visible.
type ResourceRegistry struct {
	server  *mcp.Server
	service *Service

	mu    sync.Mutex
	known map[string]bool
}

// NewResourceRegistry creates a registry bound to a server. Call Refresh to
// perform the initial registration.
func NewResourceRegistry(server *mcp.Server, service *Service) *ResourceRegistry {
	return &ResourceRegistry{
		server:  server,
		service: service,
		known:   make(map[string]bool),
	}
}

// Refresh registers resources for files that appeared and removes resources
// for files that are gone. Before the first sync the document root may not
// exist; that clears the registered set.
func (r *ResourceRegistry) Refresh() {
	files, err := r.service.ListFiles()
	if err != nil {
		files = nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	current := make(map[string]bool, len(files))
	for _, path := range files {
		uri := resourceURIPrefix + path
		current[uri] = true
		if r.known[uri] {
			continue
		}
		r.server.AddResource(&mcp.Resource{
			URI:         uri,
			Name:        path,
			Description: "Documentation: " + path,
			MIMEType:    "text/markdown",
		}, r.handleRead)
		r.known[uri] = true
	}

	var stale []string
	for uri := range r.known {
		if !current[uri] {
			stale = append(stale, uri)
			delete(r.known, uri)
		}
	}
	if len(stale) > 0 {
		r.server.RemoveResources(stale...)
	}

	slog.Debug("Refreshed documentation resources", "registered", len(current), "removed", len(stale))
}

// Count returns the number of currently registered resources.
func (r *ResourceRegistry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.known)
}

// handleRead serves one resource read. Content beyond the default read
// window is cut and the footer reports the file's total size.
func (r *ResourceRegistry) handleRead(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	uri := req.Params.URI
	path := strings.TrimPrefix(uri, resourceURIPrefix)

	content, total, err := r.service.Read(path, 0, 0)
	if err != nil {
		return nil, err
	}

	if total > r.service.MaxFileChars() {
		content += fmt.Sprintf("\n\n[... File truncated (%d total chars)]", total)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{
			{
				URI:      uri,
				MIMEType: "text/markdown",
				Text:     content,
			},
		},
	}, nil
}
