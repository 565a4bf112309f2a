package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Repository is one tracked documentation source. SparsePath, when set,
// restricts the checkout to that subtree (e.g. "docs/").
type Repository struct {
	Name       string `yaml:"name"`
	URL        string `yaml:"url"`
	SparsePath string `yaml:"sparse_path,omitempty"`
}

type repositoriesFile struct {
	Repositories []Repository `yaml:"repositories"`
}

// DefaultRepositories returns the built-in repository set used when no
// repositories file is configured.
func DefaultRepositories() []Repository {
	return []Repository{
		{
			Name:       "klipper",
			URL:        "https://github.com/Klipper3d/klipper.git",
			SparsePath: "docs/",
		},
		{
			Name:       "moonraker",
			URL:        "https://github.com/Arksine/moonraker.git",
			SparsePath: "docs/",
		},
	}
}

// LoadRepositories reads the repository list from a YAML file. An empty path
// selects the built-in defaults. Order is preserved; syncs process
// repositories in file order.
func LoadRepositories(path string) ([]Repository, error) {
	if path == "" {
		return DefaultRepositories(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read repositories file %s: %w", path, err)
	}

	var file repositoriesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse repositories file %s: %w", path, err)
	}

	return file.Repositories, nil
}

// ValidateRepositories checks the repository list for entries that cannot be
// synced safely. Names become directories directly under the document root,
// so they must be plain path segments.
func ValidateRepositories(repos []Repository) error {
	if len(repos) == 0 {
		return errors.New("at least one documentation repository must be configured")
	}

	seen := make(map[string]bool, len(repos))
	for _, repo := range repos {
		if repo.Name == "" {
			return errors.New("repository name cannot be empty")
		}
		if strings.ContainsAny(repo.Name, `/\`) || strings.HasPrefix(repo.Name, ".") {
			return fmt.Errorf("invalid repository name: %s", repo.Name)
		}
		if seen[repo.Name] {
			return fmt.Errorf("duplicate repository name: %s", repo.Name)
		}
		seen[repo.Name] = true

		if repo.URL == "" {
			return fmt.Errorf("repository %s has no url", repo.Name)
		}
		if filepath.IsAbs(repo.SparsePath) || strings.HasPrefix(repo.SparsePath, "..") {
			return fmt.Errorf("repository %s sparse path must stay inside the checkout: %s", repo.Name, repo.SparsePath)
		}
	}

	return nil
}
