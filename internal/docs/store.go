package docs

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"
)

// Store provides read access to the files under the document root. The root
// may not exist yet (nothing has been synced); every operation checks that
// lazily instead of failing at construction time.
type Store struct {
	root         string
	filter       *FileFilter
	maxFileChars int
}

// NewStore creates a Store over root. maxFileChars is the default read
// window applied when a caller does not pass an explicit limit.
func NewStore(root string, filter *FileFilter, maxFileChars int) *Store {
	return &Store{
		root:         root,
		filter:       filter,
		maxFileChars: maxFileChars,
	}
}

// Root returns the document root path.
func (s *Store) Root() string {
	return s.root
}

// RootName returns the base name of the document root, used as the first
// line of the rendered tree.
func (s *Store) RootName() string {
	return filepath.Base(s.root)
}

// MaxFileChars returns the default read window in characters.
func (s *Store) MaxFileChars() int {
	return s.maxFileChars
}

// IsAvailable reports whether the document root exists on disk.
func (s *Store) IsAvailable() bool {
	_, err := os.Stat(s.root)
	return err == nil
}

// RequireAvailable returns ErrDocsNotAvailable when the root is missing.
func (s *Store) RequireAvailable() error {
	if !s.IsAvailable() {
		return ErrDocsNotAvailable
	}
	return nil
}

// ReadFile reads the file at the given root-relative path and returns the
// character slice [offset, offset+limit) of its decoded content plus the
// total character count of the full content. Offsets, limits, and totals are
// in runes, not bytes. A limit <= 0 selects the configured default window.
func (s *Store) ReadFile(path string, offset, limit int) (string, int, error) {
	if err := s.RequireAvailable(); err != nil {
		return "", 0, err
	}
	if limit <= 0 {
		limit = s.maxFileChars
	}
	if offset < 0 {
		offset = 0
	}

	target, err := ValidatePath(s.root, path)
	if err != nil {
		return "", 0, err
	}

	info, err := os.Stat(target)
	if err != nil {
		return "", 0, &NotFoundError{Path: path}
	}
	if info.IsDir() {
		return "", 0, &InvalidPathError{Path: path, Reason: "not a regular file"}
	}

	data, err := os.ReadFile(target)
	if err != nil {
		return "", 0, fmt.Errorf("reading %s: %w", path, err)
	}

	content := []rune(decodePermissive(data))
	total := len(content)

	if offset >= total {
		return "", total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return string(content[offset:end]), total, nil
}

// ListFiles walks the root recursively and returns the root-relative,
// forward-slash paths of every supported file, in lexical walk order.
func (s *Store) ListFiles() ([]string, error) {
	if err := s.RequireAvailable(); err != nil {
		return nil, err
	}

	var files []string
	_ = filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable subtrees contribute nothing.
			return nil
		}
		if d.IsDir() || !s.filter.Supported(d.Name()) {
			return nil
		}
		rel, relErr := filepath.Rel(s.root, path)
		if relErr != nil {
			return nil
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})

	return files, nil
}

// BuildTree renders the directory tree under the root, one line per entry.
// Directories come before files, each group sorted case-insensitively;
// dotfiles are skipped; directory names carry a trailing slash. The root
// itself contributes no line. Unreadable directories are silently rendered
// as empty.
func (s *Store) BuildTree() []string {
	return buildTree(s.root, "")
}

func buildTree(dir, prefix string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	visible := entries[:0]
	for _, e := range entries {
		if !strings.HasPrefix(e.Name(), ".") {
			visible = append(visible, e)
		}
	}
	sort.SliceStable(visible, func(i, j int) bool {
		if visible[i].IsDir() != visible[j].IsDir() {
			return visible[i].IsDir()
		}
		return strings.ToLower(visible[i].Name()) < strings.ToLower(visible[j].Name())
	})

	var lines []string
	for i, entry := range visible {
		isLast := i == len(visible)-1
		connector := "├── "
		if isLast {
			connector = "└── "
		}

		if entry.IsDir() {
			lines = append(lines, prefix+connector+entry.Name()+"/")
			extension := "│   "
			if isLast {
				extension = "    "
			}
			lines = append(lines, buildTree(filepath.Join(dir, entry.Name()), prefix+extension)...)
		} else {
			lines = append(lines, prefix+connector+entry.Name())
		}
	}

	return lines
}

// decodePermissive interprets data as UTF-8, dropping invalid byte sequences
// instead of replacing them, so character offsets stay stable for any byte
// garbage embedded in otherwise-text files.
func decodePermissive(data []byte) string {
	if utf8.Valid(data) {
		return string(data)
	}

	var sb strings.Builder
	sb.Grow(len(data))
	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		if r == utf8.RuneError && size == 1 {
			data = data[1:]
			continue
		}
		sb.WriteRune(r)
		data = data[size:]
	}
	return sb.String()
}
