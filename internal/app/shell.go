package app

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/sha1n/mcp-docs-server/internal/config"
	"github.com/sha1n/mcp-docs-server/internal/docs"
)

// RunShell starts an interactive shell on the given streams. It drives the
// same service the MCP tools use, so it is a convenient way to poke at a
// document tree without wiring up an MCP client.
func RunShell(ctx context.Context, settings *config.Settings, in io.Reader, out io.Writer) error {
	svc, err := docs.NewService(&settings.Docs)
	if err != nil {
		return err
	}

	return runShellLoop(ctx, svc, in, out)
}

func runShellLoop(ctx context.Context, svc *docs.Service, in io.Reader, out io.Writer) error {
	banner := color.New(color.FgCyan, color.Bold)
	notice := color.New(color.FgYellow)
	failure := color.New(color.FgRed)

	divider := strings.Repeat("=", 50)
	_, _ = banner.Fprintln(out, divider)
	_, _ = banner.Fprintln(out, "DOCUMENTATION SHELL")
	_, _ = banner.Fprintln(out, divider)

	fmt.Fprintf(out, "\nDocs directory: %s\n", svc.GetSettings().Path)
	fmt.Fprintf(out, "Docs exist: %t\n", svc.IsAvailable())
	fmt.Fprintln(out, "\nCommands:")
	printShellHelp(out)
	_, _ = banner.Fprintln(out, divider)

	// Check for updates on startup
	if svc.RefreshOutdated(ctx) {
		_, _ = notice.Fprintln(out, "\n[INFO] Documentation update available!")
	}

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for {
		fmt.Fprint(out, "\n> ")
		if !scanner.Scan() {
			break
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		action, arg, _ := strings.Cut(line, " ")
		action = strings.ToLower(action)
		arg = strings.TrimSpace(arg)

		switch action {
		case "quit", "exit":
			return nil

		case "help":
			printShellHelp(out)

		case "search":
			if arg == "" {
				fmt.Fprintln(out, "Usage: search <query>")
				continue
			}
			results, err := svc.Search(arg)
			if err != nil {
				_, _ = failure.Fprintln(out, err.Error())
				continue
			}
			fmt.Fprintln(out, svc.FormatResults(results))

		case "read":
			if arg == "" {
				fmt.Fprintln(out, "Usage: read <path>")
				continue
			}
			output, err := svc.ReadPage(arg, 0, 0)
			if err != nil {
				_, _ = failure.Fprintln(out, err.Error())
				continue
			}
			fmt.Fprintln(out, output)

		case "list":
			tree, err := svc.RenderTree()
			if err != nil {
				_, _ = failure.Fprintln(out, err.Error())
				continue
			}
			fmt.Fprintln(out, tree)

		case "sync":
			results, outdated, err := svc.Sync(ctx)
			if err != nil {
				_, _ = failure.Fprintf(out, "Error: %v\n", err)
				continue
			}
			fmt.Fprintln(out, docs.FormatSyncOutput(results, outdated))

		case "check":
			if svc.RefreshOutdated(ctx) {
				_, _ = notice.Fprintln(out, "Documentation is OUTDATED")
			} else {
				fmt.Fprintln(out, "Documentation is up to date")
			}

		default:
			fmt.Fprintf(out, "Unknown command: %s\n", action)
		}
	}

	return scanner.Err()
}

func printShellHelp(out io.Writer) {
	fmt.Fprintln(out, "  search <query>     - Search documentation")
	fmt.Fprintln(out, "  read <path>        - Read a file")
	fmt.Fprintln(out, "  list               - Show the docs tree")
	fmt.Fprintln(out, "  sync               - Sync repositories")
	fmt.Fprintln(out, "  check              - Check for updates")
	fmt.Fprintln(out, "  help               - Show this help")
	fmt.Fprintln(out, "  quit               - Exit")
}
