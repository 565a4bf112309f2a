package docs

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ReadArgument defines read parameters. Offset and limit are measured in
// characters, not bytes.
type ReadArgument struct {
	Path   string `json:"path" jsonschema_description:"Path relative to the documentation root (e.g., 'klipper/docs/Config_Reference.md')"`
	Offset int    `json:"offset,omitempty" jsonschema_description:"Character offset to start reading from (default 0)"`
	Limit  int    `json:"limit,omitempty" jsonschema_description:"Maximum characters to return (default: server limit)"`
}

// ReadHandler handles the read_doc MCP tool.
type ReadHandler struct {
	service *Service
}

// NewReadHandler creates a new read handler.
func NewReadHandler(service *Service) *ReadHandler {
	return &ReadHandler{
		service: service,
	}
}

// Handle reads one window of a documentation file. When the window does not
// cover the whole file, a footer reports which characters were shown.
func (h *ReadHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args ReadArgument) (*mcp.CallToolResult, any, error) {
	output, err := h.service.ReadPage(args.Path, args.Offset, args.Limit)
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
			&mcp.TextContent{Text: output},
		},
	}, nil, nil
}

// GetToolDefinition returns the MCP tool definition.
func (h *ReadHandler) GetToolDefinition() *mcp.Tool {
	return &mcp.Tool{
		Name: "read_doc",
		Description: fmt.Sprintf(
			"Read a documentation file by relative path. Returns up to %d characters per call; use offset and limit to page through larger files.",
			h.service.MaxFileChars()),
	}
}

// RegisterReadTool registers the read tool with an MCP server.
func RegisterReadTool(server *mcp.Server, service *Service) {
	handler := NewReadHandler(service)
	mcp.AddTool(server, handler.GetToolDefinition(), handler.Handle)
}
