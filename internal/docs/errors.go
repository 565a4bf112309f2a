package docs

import "errors"

// Error texts are part of the tool-facing contract: handlers render them
// verbatim to the caller instead of failing the protocol call.

// ErrDocsNotAvailable is returned when the document root does not exist yet.
var ErrDocsNotAvailable = errors.New("Documentation directory not found. Run sync_docs() first.")

// ErrEmptyQuery is returned when a search is invoked with a blank query.
var ErrEmptyQuery = errors.New("Please provide a search query.")

// PathTraversalError reports a relative path that resolved outside the
// document root.
type PathTraversalError struct {
	Path string
}

func (e *PathTraversalError) Error() string {
	return "Access denied: path traversal attempt: " + e.Path
}

// InvalidPathError reports a path that could not be compared against the
// root at all (no shared filesystem root), as opposed to one that escaped it.
type InvalidPathError struct {
	Path   string
	Reason string
}

func (e *InvalidPathError) Error() string {
	reason := e.Reason
	if reason == "" {
		reason = "invalid path"
	}
	return "Access denied: " + reason + ": " + e.Path
}

// NotFoundError reports a validated path that does not exist on disk.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return "Documentation file not found: " + e.Path
}
