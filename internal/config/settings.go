package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Auth type constants
const (
	AuthTypeNone   = "none"
	AuthTypeBasic  = "basic"
	AuthTypeAPIKey = "apikey"
)

// AuthSettings configuration for authentication
type AuthSettings struct {
	Type    string            `mapstructure:"type"` // AuthTypeNone, AuthTypeBasic, or AuthTypeAPIKey
	Basic   BasicAuthSettings `mapstructure:"basic"`
	APIKeys []string          `mapstructure:"api_keys"`
}

// BasicAuthSettings configuration for basic auth
type BasicAuthSettings struct {
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

// DocsSettings configuration for the documentation store, search, and sync.
// Character limits count runes, not bytes.
type DocsSettings struct {
	Path            string        `mapstructure:"path"`
	ReposFile       string        `mapstructure:"repos_file"`
	MaxFileChars    int           `mapstructure:"max_file_chars"`
	SnippetLength   int           `mapstructure:"snippet_length"`
	MaxResults      int           `mapstructure:"max_results"`
	Extensions      []string      `mapstructure:"extensions"`
	CloneTimeout    time.Duration `mapstructure:"clone_timeout"`
	FetchTimeout    time.Duration `mapstructure:"fetch_timeout"`
	RevParseTimeout time.Duration `mapstructure:"rev_parse_timeout"`

	// Repositories is resolved from ReposFile (or the built-in defaults)
	// during LoadSettings, not bound to env or flags directly.
	Repositories []Repository `mapstructure:"-"`
}

// Settings application settings
type Settings struct {
	Transport string       `mapstructure:"transport"`
	Host      string       `mapstructure:"host"`
	Port      int          `mapstructure:"port"`
	LogLevel  string       `mapstructure:"log_level"`
	Auth      AuthSettings `mapstructure:"auth"`
	Docs      DocsSettings `mapstructure:"docs"`
}

// LoadSettings loads settings from environment variables and optional .env file
func LoadSettings() (*Settings, error) {
	return LoadSettingsWithFlags(nil)
}

// LoadSettingsWithFlags loads settings with optional CLI flag overrides.
// Priority: CLI flags > environment variables > .env file > defaults.
// If flags is nil, only env vars and defaults are used.
func LoadSettingsWithFlags(flags *pflag.FlagSet) (*Settings, error) {
	v := viper.New()

	// Default values
	v.SetDefault("transport", "stdio")
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("port", 8080)
	v.SetDefault("log_level", "info")
	v.SetDefault("auth.type", AuthTypeNone)

	// Documentation defaults
	v.SetDefault("docs.path", "./docs")
	v.SetDefault("docs.repos_file", "")
	v.SetDefault("docs.max_file_chars", 10000)
	v.SetDefault("docs.snippet_length", 200)
	v.SetDefault("docs.max_results", 7)
	v.SetDefault("docs.extensions", []string{".md", ".txt"})
	v.SetDefault("docs.clone_timeout", 300*time.Second)
	v.SetDefault("docs.fetch_timeout", 60*time.Second)
	v.SetDefault("docs.rev_parse_timeout", 10*time.Second)

	// Environment variables
	v.SetEnvPrefix("DOCS_MCP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Bind specific env vars for nested config
	_ = v.BindEnv("auth.type", "DOCS_MCP_AUTH_TYPE")
	_ = v.BindEnv("auth.basic.username", "DOCS_MCP_AUTH_BASIC_USERNAME")
	_ = v.BindEnv("auth.basic.password", "DOCS_MCP_AUTH_BASIC_PASSWORD")
	_ = v.BindEnv("auth.api_keys", "DOCS_MCP_AUTH_API_KEYS")

	// Documentation env var bindings
	_ = v.BindEnv("docs.path", "DOCS_MCP_DOCS_PATH")
	_ = v.BindEnv("docs.repos_file", "DOCS_MCP_DOCS_REPOS_FILE")
	_ = v.BindEnv("docs.max_file_chars", "DOCS_MCP_DOCS_MAX_FILE_CHARS")
	_ = v.BindEnv("docs.snippet_length", "DOCS_MCP_DOCS_SNIPPET_LENGTH")
	_ = v.BindEnv("docs.max_results", "DOCS_MCP_DOCS_MAX_RESULTS")
	_ = v.BindEnv("docs.extensions", "DOCS_MCP_DOCS_EXTENSIONS")
	_ = v.BindEnv("docs.clone_timeout", "DOCS_MCP_DOCS_CLONE_TIMEOUT")
	_ = v.BindEnv("docs.fetch_timeout", "DOCS_MCP_DOCS_FETCH_TIMEOUT")
	_ = v.BindEnv("docs.rev_parse_timeout", "DOCS_MCP_DOCS_REV_PARSE_TIMEOUT")

	// Bind CLI flags if provided (highest priority)
	if flags != nil {
		_ = v.BindPFlag("transport", flags.Lookup("transport"))
		_ = v.BindPFlag("host", flags.Lookup("host"))
		_ = v.BindPFlag("port", flags.Lookup("port"))
		_ = v.BindPFlag("log_level", flags.Lookup("log-level"))
		_ = v.BindPFlag("auth.type", flags.Lookup("auth-type"))
		_ = v.BindPFlag("auth.basic.username", flags.Lookup("auth-basic-username"))
		_ = v.BindPFlag("auth.basic.password", flags.Lookup("auth-basic-password"))
		_ = v.BindPFlag("auth.api_keys", flags.Lookup("auth-api-keys"))

		// Documentation CLI flags
		_ = v.BindPFlag("docs.path", flags.Lookup("docs-path"))
		_ = v.BindPFlag("docs.repos_file", flags.Lookup("docs-repos-file"))
		_ = v.BindPFlag("docs.max_file_chars", flags.Lookup("docs-max-file-chars"))
		_ = v.BindPFlag("docs.snippet_length", flags.Lookup("docs-snippet-length"))
		_ = v.BindPFlag("docs.max_results", flags.Lookup("docs-max-results"))
		_ = v.BindPFlag("docs.extensions", flags.Lookup("docs-extensions"))
		_ = v.BindPFlag("docs.clone_timeout", flags.Lookup("docs-clone-timeout"))
		_ = v.BindPFlag("docs.fetch_timeout", flags.Lookup("docs-fetch-timeout"))
		_ = v.BindPFlag("docs.rev_parse_timeout", flags.Lookup("docs-rev-parse-timeout"))
	}

	// Helper to look for .env file
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // Ignore error if .env doesn't exist

	var settings Settings
	if err := v.Unmarshal(&settings); err != nil {
		return nil, err
	}

	// Handle explicit parsing of API keys if provided via env var as comma-separated string
	apiKeysEnv := os.Getenv("DOCS_MCP_AUTH_API_KEYS")
	if apiKeysEnv != "" {
		if len(settings.Auth.APIKeys) == 0 || (len(settings.Auth.APIKeys) == 1 && strings.Contains(settings.Auth.APIKeys[0], ",")) {
			settings.Auth.APIKeys = strings.Split(apiKeysEnv, ",")
		}
	}

	// Trim spaces from API keys
	for i := range settings.Auth.APIKeys {
		settings.Auth.APIKeys[i] = strings.TrimSpace(settings.Auth.APIKeys[i])
	}

	// Handle explicit parsing of extensions if provided via env var as comma-separated string
	extensionsEnv := os.Getenv("DOCS_MCP_DOCS_EXTENSIONS")
	if extensionsEnv != "" {
		if len(settings.Docs.Extensions) == 0 || (len(settings.Docs.Extensions) == 1 && strings.Contains(settings.Docs.Extensions[0], ",")) {
			settings.Docs.Extensions = strings.Split(extensionsEnv, ",")
		}
	}

	// Trim spaces from extensions
	for i := range settings.Docs.Extensions {
		settings.Docs.Extensions[i] = strings.TrimSpace(settings.Docs.Extensions[i])
	}

	// Filter out empty extensions
	settings.Docs.Extensions = filterEmptyStrings(settings.Docs.Extensions)

	// Expand home directory in paths
	settings.Docs.Path = expandHomeDir(settings.Docs.Path)
	settings.Docs.ReposFile = expandHomeDir(settings.Docs.ReposFile)

	// Resolve the repository list
	repos, err := LoadRepositories(settings.Docs.ReposFile)
	if err != nil {
		return nil, err
	}
	settings.Docs.Repositories = repos

	return &settings, nil
}

// expandHomeDir expands ~ to the user's home directory
func expandHomeDir(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	if path == "~" {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return home
	}
	return path
}

// filterEmptyStrings removes empty strings from a slice
func filterEmptyStrings(s []string) []string {
	var result []string
	for _, str := range s {
		if str != "" {
			result = append(result, str)
		}
	}
	return result
}

// ValidateSettings checks for conflicting configurations.
// Returns an error if the settings contain mutually exclusive or incomplete auth config.
func ValidateSettings(s *Settings) error {
	// Validate transport type
	switch s.Transport {
	case "stdio", "sse":
		// valid
	default:
		return errors.New("transport must be 'stdio' or 'sse', got: " + s.Transport)
	}

	switch strings.ToLower(s.LogLevel) {
	case "debug", "info", "warn", "error", "":
		// valid
	default:
		return errors.New("log-level must be one of debug, info, warn, error, got: " + s.LogLevel)
	}

	hasBasicCreds := s.Auth.Basic.Username != "" || s.Auth.Basic.Password != ""
	hasAPIKeys := len(s.Auth.APIKeys) > 0

	switch s.Auth.Type {
	case AuthTypeNone, "":
		if hasBasicCreds || hasAPIKeys {
			return errors.New("auth-type 'none' is incompatible with auth credentials")
		}
	case AuthTypeBasic:
		if hasAPIKeys {
			return errors.New("auth-type 'basic' is mutually exclusive with auth-api-keys")
		}
		if s.Auth.Basic.Username == "" || s.Auth.Basic.Password == "" {
			return errors.New("auth-type 'basic' requires both username and password")
		}
	case AuthTypeAPIKey:
		if hasBasicCreds {
			return errors.New("auth-type 'apikey' is mutually exclusive with basic auth credentials")
		}
		if !hasAPIKeys {
			return errors.New("auth-type 'apikey' requires at least one API key")
		}
	default:
		return errors.New("unknown auth-type: " + s.Auth.Type)
	}

	// Validate documentation settings
	if err := validateDocsSettings(&s.Docs); err != nil {
		return err
	}

	return nil
}

// validateDocsSettings validates the documentation configuration
func validateDocsSettings(d *DocsSettings) error {
	if d.Path == "" {
		return errors.New("docs-path cannot be empty")
	}

	if d.MaxFileChars <= 0 {
		return errors.New("docs-max-file-chars must be positive")
	}

	if d.SnippetLength <= 0 {
		return errors.New("docs-snippet-length must be positive")
	}

	if d.MaxResults <= 0 {
		return errors.New("docs-max-results must be positive")
	}

	if len(d.Extensions) == 0 {
		return errors.New("docs-extensions cannot be empty")
	}

	if d.CloneTimeout <= 0 {
		return errors.New("docs-clone-timeout must be positive")
	}

	if d.FetchTimeout <= 0 {
		return errors.New("docs-fetch-timeout must be positive")
	}

	if d.RevParseTimeout <= 0 {
		return errors.New("docs-rev-parse-timeout must be positive")
	}

	return ValidateRepositories(d.Repositories)
}
