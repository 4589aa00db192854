package resolve

import "fmt"

// =============================================================================
// Queries
// =============================================================================

// Query is one external reference to resolve against the corpus.
// Exactly three kinds exist; the marker method keeps the set closed.
type Query interface {
	// Describe returns a short human-readable form for diagnostics.
	Describe() string

	queryKind() // Marker method to distinguish query kinds
}

// KeywordQuery searches the whole corpus for a literal keyword, matching
// either a file name exactly or file content under word-boundary rules.
// Keyword must be non-empty; that is the caller's contract.
type KeywordQuery struct {
	Keyword string
}

func (KeywordQuery) queryKind() {}

// Describe implements Query.
func (q KeywordQuery) Describe() string {
	return fmt.Sprintf("keyword %q", q.Keyword)
}

// FileQuery names one file by its path relative to the project root.
// An empty Keyword accepts the file itself; a non-empty Keyword
// additionally requires a word-boundary content match inside it.
type FileQuery struct {
	Path    string
	Keyword string
}

func (FileQuery) queryKind() {}

// Describe implements Query.
func (q FileQuery) Describe() string {
	if q.Keyword == "" {
		return fmt.Sprintf("file %q", q.Path)
	}
	return fmt.Sprintf("file %q keyword %q", q.Path, q.Keyword)
}

// SearchQuery selects files whose absolute path matches Pattern and
// collects every line matching Keyword across all of them. Keyword is
// mandatory; resolving without one is a contract violation.
type SearchQuery struct {
	Pattern string
	Keyword string
}

func (SearchQuery) queryKind() {}

// Describe implements Query.
func (q SearchQuery) Describe() string {
	return fmt.Sprintf("search %q keyword %q", q.Pattern, q.Keyword)
}

// =============================================================================
// Results
// =============================================================================

// Match is one resolved reference target.
type Match struct {
	// Path is the matched file's path relative to the project root.
	Path string
	// Line is the 1-indexed matching line for content matches. Zero
	// means the file matched by name or path alone.
	Line int
}

// Resolution is the outcome of resolving a query. Keyword and file
// queries produce a Single, search queries a Multiple.
type Resolution interface {
	// Found reports whether the query resolved to at least one match.
	Found() bool

	resolutionKind() // Marker method to distinguish resolution kinds
}

// Single is the resolution of a keyword or file query.
type Single struct {
	// Match is nil when nothing in the corpus satisfied the query.
	// Absence is an expected outcome, not an error.
	Match *Match
}

func (Single) resolutionKind() {}

// Found implements Resolution.
func (s Single) Found() bool { return s.Match != nil }

// Multiple is the resolution of a search query, in corpus-then-line order.
type Multiple struct {
	Matches []Match
}

func (Multiple) resolutionKind() {}

// Found implements Resolution.
func (m Multiple) Found() bool { return len(m.Matches) > 0 }
