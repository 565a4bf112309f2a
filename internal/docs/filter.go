package docs

import "strings"

// DefaultExtensions lists the file name suffixes served when no explicit
// configuration is provided.
var DefaultExtensions = []string{".md", ".txt"}

// FileFilter decides which files under the document root are searched,
// listed, and exposed as resources.
type FileFilter struct {
	extensions []string
}

// NewFileFilter creates a FileFilter for the given extensions. Empty input
// falls back to the defaults.
func NewFileFilter(extensions []string) *FileFilter {
	if len(extensions) == 0 {
		extensions = DefaultExtensions
	}
	return &FileFilter{extensions: extensions}
}

// Supported returns true when the file name ends in one of the configured
// extensions. Matching is case-sensitive.
func (f *FileFilter) Supported(name string) bool {
	for _, ext := range f.extensions {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

// Extensions returns the configured extension list.
func (f *FileFilter) Extensions() []string {
	return f.extensions
}
