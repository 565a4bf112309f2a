package domain

// MatchCategory tells heading hits apart from body hits within a document.
type MatchCategory string

const (
	// MatchHeading marks a hit on a markdown heading line (1-6 leading '#').
	MatchHeading MatchCategory = "heading"

	// MatchBody marks a hit anywhere else in the document content.
	MatchBody MatchCategory = "body"
)

// Search result ranks, ordered by match specificity (lower is better).
const (
	// RankFilename: the query is a substring of the file's relative path.
	RankFilename = 1

	// RankHeading: the query matched a markdown heading, not the path.
	RankHeading = 2

	// RankBody: the query matched body text only.
	RankBody = 3
)

// Match is a single in-file hit recorded while scanning one document.
// Matches are ephemeral: they only exist to pick the result's rank and
// snippet, and are discarded once the SearchResult is built.
type Match struct {
	// Pos is the rune offset of the hit within the decoded content.
	Pos int

	// Category is where the hit landed (heading or body).
	Category MatchCategory

	// Snippet is the trimmed context window around the hit.
	Snippet string
}

// SearchResult is one ranked entry in a search response.
type SearchResult struct {
	// Rank orders results by match specificity. See the Rank constants.
	Rank int `json:"rank"`

	// Path is relative to the document root, forward-slash separated.
	Path string `json:"path"`

	// Snippet is a bounded excerpt around the earliest match, or the start
	// of the file for path-only matches.
	Snippet string `json:"snippet"`
}

// SyncResult describes the outcome of syncing a single repository.
type SyncResult struct {
	// RepoName is the configured repository name.
	RepoName string `json:"repo_name"`

	// Success is false when the underlying git operation failed or timed out.
	Success bool `json:"success"`

	// Message carries the git output or the failure diagnostic.
	Message string `json:"message"`

	// WasCloned is true when the repository was cloned fresh.
	WasCloned bool `json:"was_cloned"`

	// WasUpdated is true when an existing checkout was pulled.
	WasUpdated bool `json:"was_updated"`
}
