package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sha1n/mcp-docs-server/internal/config"
	"github.com/sha1n/mcp-docs-server/internal/docs"
	mcputil "github.com/sha1n/mcp-docs-server/internal/mcp"
	"github.com/spf13/pflag"
)

// RunParams contains dependencies for the run function
type RunParams struct {
	LoadSettings      func(*pflag.FlagSet) (*config.Settings, error)
	ValidSettings     func(*config.Settings) error
	StartSSEServer    func(*mcp.Server, *config.Settings) error
	CreateServer      func(*config.Settings) (*mcp.Server, func(), error)
	CustomIOTransport mcp.Transport // Optional: for testing with custom IO
}

// DefaultRunParams returns production dependencies
func DefaultRunParams() RunParams {
	return RunParams{
		LoadSettings:   config.LoadSettingsWithFlags,
		ValidSettings:  config.ValidateSettings,
		StartSSEServer: StartSSEServer,
		CreateServer:   CreateMCPServer,
	}
}

// RunWithDeps executes the server with the provided dependencies
func RunWithDeps(ctx context.Context, params RunParams, flags *pflag.FlagSet, version string) error {
	// Load settings
	settings, err := params.LoadSettings(flags)
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	// Validate settings for conflicting configurations
	if err := params.ValidSettings(settings); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// Configure logging - always use stderr so stdio transport keeps stdout
	// clean for the protocol
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: config.ParseLogLevel(settings.LogLevel),
	})
	slog.SetDefault(slog.New(handler))

	slog.Info("Starting MCP documentation server", "version", version)
	config.Log(settings)

	mcpServer, cleanup, err := params.CreateServer(settings)
	if err != nil {
		return err
	}
	if cleanup != nil {
		defer cleanup()
	}

	// Start server
	if settings.Transport == "stdio" {
		// Use custom transport if provided (for testing), otherwise use stdio
		transport := params.CustomIOTransport
		if transport == nil {
			transport = &mcp.StdioTransport{}
		}
		return mcpServer.Run(ctx, transport)
	} else {
		slog.Info("Starting SSE server", "host", settings.Host, "port", settings.Port)
		return params.StartSSEServer(mcpServer, settings)
	}
}

// CreateMCPServer creates the MCP server with the documentation service and
// registered tools
func CreateMCPServer(settings *config.Settings) (*mcp.Server, func(), error) {
	svc, err := docs.NewService(&settings.Docs)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create documentation service: %w", err)
	}

	// Freshness check on startup. Best-effort: offline hosts still serve
	// whatever documentation they already have.
	if svc.RefreshOutdated(context.Background()) {
		slog.Info("Local documentation is outdated, sync recommended")
	}

	server := mcputil.CreateServer(mcputil.ServerConfig{
		Name:    "docs-mcp",
		Version: "1.0.0",
		DocsSvc: svc,
	})

	// Persist the freshness verdict on shutdown so the next start sees it
	// before its own check completes.
	cleanup := func() {
		if err := svc.PersistState(); err != nil {
			slog.Error("Failed to persist sync state", "error", err)
		}
	}

	return server, cleanup, nil
}
