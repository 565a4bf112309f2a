package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/sha1n/mcp-docs-server/internal/app"
	"github.com/sha1n/mcp-docs-server/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	// Version is injected at build time
	Version = "dev"
	// Build is injected at build time
	Build = "unknown"
	// ProgramName is injected at build time
	ProgramName = "docs-mcp"
)

func main() {
	runMain(os.Args, os.Exit)
}

func runMain(args []string, exit func(int)) {
	if err := Execute(Version, Build, ProgramName, args[1:]); err != nil {
		exit(1)
	}
}

// Execute is the entry point for the CLI, extracted for testing
func Execute(version, build, programName string, args []string) error {
	rootCmd := &cobra.Command{
		Use:     programName,
		Short:   "Documentation MCP Server",
		Long:    "MCP server exposing local documentation mirrors with keyword search, paginated reads, and git-backed sync",
		Version: version,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithFlags(cmd.Flags(), version)
		},
	}

	rootCmd.SetVersionTemplate(`{{.Version}}
`)

	app.RegisterFlags(rootCmd.Flags())
	rootCmd.AddCommand(newShellCommand())
	rootCmd.SetArgs(args)

	return rootCmd.Execute()
}

func runWithFlags(flags *pflag.FlagSet, version string) error {
	return app.RunWithDeps(context.Background(), app.DefaultRunParams(), flags, version)
}

// newShellCommand builds the interactive shell subcommand. It shares the
// root command's configuration surface.
func newShellCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "shell",
		Short: "Interactive documentation shell",
		Long:  "Explore and sync the local documentation interactively, without an MCP client",
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := config.LoadSettingsWithFlags(cmd.Flags())
			if err != nil {
				return fmt.Errorf("failed to load settings: %w", err)
			}
			if err := config.ValidateSettings(settings); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}

			handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				Level: config.ParseLogLevel(settings.LogLevel),
			})
			slog.SetDefault(slog.New(handler))

			return app.RunShell(cmd.Context(), settings, os.Stdin, os.Stdout)
		},
	}

	app.RegisterFlags(cmd.Flags())
	return cmd
}
