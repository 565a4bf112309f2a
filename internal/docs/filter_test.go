package docs

import (
	"slices"
	"testing"
)

func TestNewFileFilter_Defaults(t *testing.T) {
	filter := NewFileFilter(nil)

	if !slices.Equal(filter.Extensions(), DefaultExtensions) {
		t.Errorf("Extensions() = %v, want %v", filter.Extensions(), DefaultExtensions)
	}
}

func TestNewFileFilter_Custom(t *testing.T) {
	extensions := []string{".rst", ".adoc"}
	filter := NewFileFilter(extensions)

	if !slices.Equal(filter.Extensions(), extensions) {
		t.Errorf("Extensions() = %v, want %v", filter.Extensions(), extensions)
	}
}

func TestFileFilter_Supported(t *testing.T) {
	filter := NewFileFilter([]string{".md", ".txt"})

	tests := []struct {
		name      string
		supported bool
	}{
		{"README.md", true},
		{"notes.txt", true},
		{"docs/nested/guide.md", true},
		{"nested.name.md", true},
		{"archive.md.bak", false},
		{"main.go", false},
		{"Makefile", false},
		{"md", false},
		{".md", true}, // bare extension is still a matching suffix
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := filter.Supported(tt.name)
			if result != tt.supported {
				t.Errorf("Supported(%q) = %v, want %v", tt.name, result, tt.supported)
			}
		})
	}
}

func TestFileFilter_Supported_CaseSensitive(t *testing.T) {
	filter := NewFileFilter([]string{".md"})

	if filter.Supported("README.MD") {
		t.Error("Supported(README.MD) = true, want false (matching is case-sensitive)")
	}
}

func TestDefaultExtensions(t *testing.T) {
	if len(DefaultExtensions) == 0 {
		t.Fatal("DefaultExtensions should not be empty")
	}

	for _, ext := range []string{".md", ".txt"} {
		if !slices.Contains(DefaultExtensions, ext) {
			t.Errorf("Expected extension %q in DefaultExtensions", ext)
		}
	}
}
