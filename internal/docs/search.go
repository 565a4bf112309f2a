package docs

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/sha1n/mcp-docs-server/internal/domain"
)

// headingContext is the number of characters kept on each side of a heading
// match when extracting its snippet. Body matches use half the configured
// snippet length instead.
const headingContext = 50

// Engine scans the document root on every search call. There is no index
// and no cross-call state: results reflect whatever is on disk at call time.
type Engine struct {
	root          string
	filter        *FileFilter
	snippetLength int
	maxResults    int
}

// NewEngine creates an Engine over root. Non-positive snippetLength or
// maxResults fall back to 200 and 7 respectively.
func NewEngine(root string, filter *FileFilter, snippetLength, maxResults int) *Engine {
	if snippetLength <= 0 {
		snippetLength = 200
	}
	if maxResults <= 0 {
		maxResults = 7
	}
	return &Engine{
		root:          root,
		filter:        filter,
		snippetLength: snippetLength,
		maxResults:    maxResults,
	}
}

// Search scans every supported file under the root and returns up to
// maxResults results ordered by rank: path matches first, then heading
// matches, then body matches. Ties keep walk order. Unreadable files are
// skipped.
func (e *Engine) Search(query string) ([]domain.SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}
	if _, err := os.Stat(e.root); err != nil {
		return nil, ErrDocsNotAvailable
	}

	headingRe := regexp.MustCompile(`(?mi)^(#{1,6}\s.*` + regexp.QuoteMeta(query) + `.*)$`)
	bodyRe := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(query))
	queryLower := strings.ToLower(query)

	var results []domain.SearchResult
	_ = filepath.WalkDir(e.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() || !e.filter.Supported(d.Name()) {
			return nil
		}
		rel, relErr := filepath.Rel(e.root, path)
		if relErr != nil {
			return nil
		}

		data, readErr := os.ReadFile(path)
		if readErr != nil {
			return nil
		}

		result, ok := e.scanFile(filepath.ToSlash(rel), decodePermissive(data), queryLower, headingRe, bodyRe)
		if ok {
			results = append(results, result)
		}
		return nil
	})

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Rank < results[j].Rank
	})
	if len(results) > e.maxResults {
		results = results[:e.maxResults]
	}
	return results, nil
}

// scanFile evaluates one document against the query and produces its result,
// if any. Heading matches are collected first so that body occurrences lying
// fully inside a heading line are not reported twice.
func (e *Engine) scanFile(relPath, content, queryLower string, headingRe, bodyRe *regexp.Regexp) (domain.SearchResult, bool) {
	filenameMatch := strings.Contains(strings.ToLower(relPath), queryLower)

	runes := []rune(content)
	conv := runeOffsets{content: content}

	type span struct{ start, end int }
	var headingSpans []span
	var matches []domain.Match

	for _, loc := range headingRe.FindAllStringIndex(content, -1) {
		start := conv.runeIndex(loc[0])
		end := conv.runeIndex(loc[1])
		headingSpans = append(headingSpans, span{start, end})
		matches = append(matches, domain.Match{
			Pos:      start,
			Category: domain.MatchHeading,
			Snippet:  windowSnippet(runes, start, end, headingContext),
		})
	}

	for _, loc := range bodyRe.FindAllStringIndex(content, -1) {
		start := conv.runeIndex(loc[0])
		end := conv.runeIndex(loc[1])

		insideHeading := false
		for _, h := range headingSpans {
			if start >= h.start && end <= h.end {
				insideHeading = true
				break
			}
		}
		if insideHeading {
			continue
		}

		matches = append(matches, domain.Match{
			Pos:      start,
			Category: domain.MatchBody,
			Snippet:  windowSnippet(runes, start, end, e.snippetLength/2),
		})
	}

	if len(matches) == 0 && !filenameMatch {
		return domain.SearchResult{}, false
	}

	rank := domain.RankBody
	if filenameMatch {
		rank = domain.RankFilename
	} else {
		for _, m := range matches {
			if m.Category == domain.MatchHeading {
				rank = domain.RankHeading
				break
			}
		}
	}

	var snippet string
	if len(matches) > 0 {
		sort.SliceStable(matches, func(i, j int) bool {
			return matches[i].Pos < matches[j].Pos
		})
		snippet = matches[0].Snippet
	} else if len(runes) > e.snippetLength {
		snippet = string(runes[:e.snippetLength]) + "..."
	} else {
		snippet = content
	}

	return domain.SearchResult{Rank: rank, Path: relPath, Snippet: snippet}, true
}

// FormatResults renders results for display: a "## path" heading followed by
// the snippet per result, or a fixed message when there are none.
func (e *Engine) FormatResults(results []domain.SearchResult) string {
	if len(results) == 0 {
		return "No results found."
	}

	blocks := make([]string, 0, len(results))
	for _, r := range results {
		blocks = append(blocks, fmt.Sprintf("## %s\n%s\n", r.Path, r.Snippet))
	}
	return strings.Join(blocks, "\n")
}

// windowSnippet extracts the rune range [start-pad, end+pad) clipped to the
// content bounds, trimmed of surrounding whitespace.
func windowSnippet(runes []rune, start, end, pad int) string {
	lo := start - pad
	if lo < 0 {
		lo = 0
	}
	hi := end + pad
	if hi > len(runes) {
		hi = len(runes)
	}
	return strings.TrimSpace(string(runes[lo:hi]))
}

// runeOffsets converts byte offsets (as produced by the regexp package) into
// rune offsets. Lookups are O(1) amortized when offsets arrive in ascending
// order; out-of-order lookups restart the scan.
type runeOffsets struct {
	content string
	byteIdx int
	runeIdx int
}

func (c *runeOffsets) runeIndex(byteOff int) int {
	if byteOff < c.byteIdx {
		c.byteIdx, c.runeIdx = 0, 0
	}
	for c.byteIdx < byteOff {
		_, size := utf8.DecodeRuneInString(c.content[c.byteIdx:])
		c.byteIdx += size
		c.runeIdx++
	}
	return c.runeIdx
}
