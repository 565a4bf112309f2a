package mcp

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sha1n/mcp-docs-server/internal/docs"
)

// ServerConfig contains configuration for creating an MCP server
type ServerConfig struct {
	Name    string
	Version string
	DocsSvc *docs.Service
}

// CreateServer creates the MCP server, registers the documentation tools,
// and mirrors the current document tree as resources. Run the freshness
// check before calling this: the sync tool bakes the recommendation into its
// description at registration time.
func CreateServer(cfg ServerConfig) *mcp.Server {
	s := mcp.NewServer(&mcp.Implementation{
		Name:    cfg.Name,
		Version: cfg.Version,
	}, nil)

	resources := docs.NewResourceRegistry(s, cfg.DocsSvc)
	resources.Refresh()

	docs.RegisterSearchTool(s, cfg.DocsSvc)
	docs.RegisterReadTool(s, cfg.DocsSvc)
	docs.RegisterListTool(s, cfg.DocsSvc)
	docs.RegisterSyncTool(s, cfg.DocsSvc, resources)

	return s
}
