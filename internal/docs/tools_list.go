package docs

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ListArgument defines list parameters. The tool takes none.
type ListArgument struct{}

// ListHandler handles the list_docs_map MCP tool.
type ListHandler struct {
	service *Service
}

// NewListHandler creates a new list handler.
func NewListHandler(service *Service) *ListHandler {
	return &ListHandler{
		service: service,
	}
}

// Handle renders the documentation tree.
func (h *ListHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args ListArgument) (*mcp.CallToolResult, any, error) {
	tree, err := h.service.RenderTree()
	if err != nil {
		return &mcp.CallToolResult{
			Content: []mcp.Content{
				&mcp.TextContent{Text: err.Error()},
			},
			IsError: true,
		}, nil, nil
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: tree},
		},
	}, nil, nil
}

// GetToolDefinition returns the MCP tool definition.
func (h *ListHandler) GetToolDefinition() *mcp.Tool {
	return &mcp.Tool{
		Name:        "list_docs_map",
		Description: "Show the documentation directory tree. Use it to discover available files before reading them.",
	}
}

// RegisterListTool registers the list tool with an MCP server.
func RegisterListTool(server *mcp.Server, service *Service) {
	handler := NewListHandler(service)
	mcp.AddTool(server, handler.GetToolDefinition(), handler.Handle)
}
