package docs

import (
	"path/filepath"
	"strings"
)

// ValidatePath resolves relative against root and verifies the result stays
// inside root. It returns the canonical absolute path on success. The empty
// string and "." both resolve to the root itself. No existence check is
// performed; callers decide whether the target must exist.
func ValidatePath(root, relative string) (string, error) {
	rootAbs, err := filepath.Abs(root)
	if err != nil {
		return "", &InvalidPathError{Path: relative}
	}
	rootCanon := canonicalize(rootAbs)

	// An absolute relative path overrides the root entirely, the same way
	// joining an absolute path does in most path libraries. It is checked
	// against the root like any other resolution result.
	var target string
	if filepath.IsAbs(relative) {
		target = filepath.Clean(relative)
	} else {
		target = filepath.Join(rootAbs, relative)
	}
	targetCanon := canonicalize(target)

	// Paths on different volumes share no common root at all; that is a
	// distinct condition from traversal.
	if filepath.VolumeName(rootCanon) != filepath.VolumeName(targetCanon) {
		return "", &InvalidPathError{Path: relative}
	}

	if targetCanon != rootCanon &&
		!strings.HasPrefix(targetCanon, rootCanon+string(filepath.Separator)) {
		return "", &PathTraversalError{Path: relative}
	}

	return targetCanon, nil
}

// canonicalize resolves symlinks on the longest existing prefix of path and
// appends the remaining (not yet existing) segments lexically.
func canonicalize(path string) string {
	remainder := ""
	p := path
	for {
		resolved, err := filepath.EvalSymlinks(p)
		if err == nil {
			return filepath.Join(resolved, remainder)
		}

		parent := filepath.Dir(p)
		if parent == p {
			return filepath.Join(p, remainder)
		}
		remainder = filepath.Join(filepath.Base(p), remainder)
		p = parent
	}
}
