package app

import "github.com/spf13/pflag"

// RegisterFlags registers all CLI flags on the given FlagSet
func RegisterFlags(flags *pflag.FlagSet) {
	flags.StringP("transport", "t", "", "Transport type: stdio or sse")
	flags.StringP("host", "H", "", "Host for SSE transport")
	flags.IntP("port", "p", 0, "Port for SSE transport")
	flags.StringP("log-level", "l", "", "Log level: debug, info, warn, or error")
	flags.StringP("auth-type", "a", "", "Authentication type: none, basic, or apikey")
	flags.StringP("auth-basic-username", "u", "", "Basic auth username")
	flags.StringP("auth-basic-password", "P", "", "Basic auth password")
	flags.StringSliceP("auth-api-keys", "k", nil, "API keys (comma-separated)")

	flags.StringP("docs-path", "d", "", "Documentation root directory")
	flags.StringP("docs-repos-file", "r", "", "YAML file listing documentation repositories")
	flags.Int("docs-max-file-chars", 0, "Default characters returned per read")
	flags.Int("docs-snippet-length", 0, "Characters per search snippet")
	flags.Int("docs-max-results", 0, "Maximum search results")
	flags.StringSlice("docs-extensions", nil, "Supported file extensions (comma-separated)")
	flags.Duration("docs-clone-timeout", 0, "Timeout for git clone and pull")
	flags.Duration("docs-fetch-timeout", 0, "Timeout for git fetch during freshness checks")
	flags.Duration("docs-rev-parse-timeout", 0, "Timeout for local git queries")
}
