// Package resolve locates the evidence behind an item's external
// references. Given a reference query and an ordered corpus of tracked
// files, it finds the file, and where meaningful the exact line, that
// satisfies the reference.
//
// Resolution is scoped to one validation pass over one static snapshot:
// a Resolver is built from a corpus, used for any number of concurrent
// queries, and discarded. "Not found" is an expected outcome and is
// reported as an absent value, never as an error.
package resolve

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/leapstack-labs/leapreq/pkg/core"
)

// ErrKeywordRequired is returned when a search query is resolved without
// its mandatory keyword. This is a contract violation by the caller, not
// a "not found" condition.
var ErrKeywordRequired = errors.New("keyword is required")

// Resolver resolves reference queries against one corpus snapshot.
// All methods are safe for concurrent use.
type Resolver struct {
	root   string
	corpus []core.TrackedFile
	skip   map[string]struct{}
	cache  *lineCache
	logger *slog.Logger
}

// Config holds resolver configuration.
type Config struct {
	// Root is the project root directory. File query paths are resolved
	// against it.
	Root string
	// Corpus is the ordered tracked-file snapshot. Order is significant:
	// the earlier of two candidates wins every tie.
	Corpus []core.TrackedFile
	// SkipExtensions lists file extensions excluded from content
	// scanning. Filename matching is unaffected. Compared
	// case-insensitively, with or without the leading dot.
	SkipExtensions []string
	// Logger is the structured logger (optional, uses discard if nil).
	Logger *slog.Logger
}

// New creates a resolver for one pass over the given corpus.
func New(cfg Config) *Resolver {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	skip := make(map[string]struct{}, len(cfg.SkipExtensions))
	for _, ext := range cfg.SkipExtensions {
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		skip[strings.ToLower(ext)] = struct{}{}
	}
	return &Resolver{
		root:   cfg.Root,
		corpus: cfg.Corpus,
		skip:   skip,
		cache:  newLineCache(logger),
		logger: logger,
	}
}

// Resolve dispatches a query to the matching finder and wraps the
// outcome in its query-kind-specific resolution.
func (r *Resolver) Resolve(q Query, issuerPath string) (Resolution, error) {
	switch q := q.(type) {
	case KeywordQuery:
		return Single{Match: r.FindKeyword(q.Keyword, issuerPath)}, nil
	case FileQuery:
		return Single{Match: r.FindFile(q.Path, q.Keyword, issuerPath)}, nil
	case SearchQuery:
		matches, err := r.FindPattern(q.Pattern, q.Keyword, issuerPath)
		if err != nil {
			return nil, err
		}
		return Multiple{Matches: matches}, nil
	default:
		return nil, fmt.Errorf("unsupported query type %T", q)
	}
}

// FindKeyword resolves a bare keyword reference to a single best match.
// It walks the corpus in order, skipping the issuer's own file. A file
// whose name equals the keyword wins immediately with no line number.
// Otherwise, unless the file's extension is in the skip set, its content
// is scanned and the first word-boundary occurrence wins with its
// 1-indexed line. Returns nil when the corpus is exhausted.
func (r *Resolver) FindKeyword(keyword, issuerPath string) *Match {
	r.logger.Debug("searching for keyword", "keyword", keyword)
	rx := compileKeyword(keyword)
	for _, f := range r.corpus {
		if f.Path == issuerPath {
			continue
		}
		if f.Name == keyword {
			return &Match{Path: f.RelPath}
		}
		if r.skipContent(f.Name) {
			continue
		}
		for i, line := range r.cache.lines(f.Path) {
			if rx.MatchString(line) {
				r.logger.Debug("found keyword", "path", f.RelPath, "line", i+1)
				return &Match{Path: f.RelPath, Line: i + 1}
			}
		}
	}
	r.logger.Debug("keyword not found", "keyword", keyword)
	return nil
}

// FindFile resolves an explicit relative-path reference. The path is
// normalized against the project root once, then the corpus is walked in
// order, skipping the issuer. With an empty keyword the named file
// itself is the match, carrying no line number. With a keyword the
// file's content must contain a word-boundary occurrence; when it does
// not, or the file is unreadable, scanning continues over the remaining
// corpus. Returns nil when no candidate produced a match.
func (r *Resolver) FindFile(relPath, keyword, issuerPath string) *Match {
	r.logger.Debug("searching for file", "path", relPath)
	target := filepath.Clean(filepath.Join(r.root, relPath))

	var rx *regexp.Regexp
	if keyword != "" {
		rx = compileKeyword(keyword)
	}
	for _, f := range r.corpus {
		if f.Path == issuerPath {
			continue
		}
		if f.Path != target {
			continue
		}
		if rx == nil {
			return &Match{Path: f.RelPath}
		}
		for i, line := range r.cache.lines(f.Path) {
			if rx.MatchString(line) {
				r.logger.Debug("found keyword in file", "path", f.RelPath, "line", i+1)
				return &Match{Path: f.RelPath, Line: i + 1}
			}
		}
	}
	r.logger.Debug("file reference not found", "path", relPath)
	return nil
}

// FindPattern resolves a path-pattern reference plus mandatory keyword
// to the complete set of matches. Every corpus file whose absolute path
// matches the pattern, excepting the issuer, contributes every line with
// a word-boundary occurrence of the keyword, in corpus-then-line order.
// A missing keyword returns ErrKeywordRequired; an empty result slice
// means the pattern and keyword simply matched nothing.
func (r *Resolver) FindPattern(pattern, keyword, issuerPath string) ([]Match, error) {
	r.logger.Debug("searching for pattern", "pattern", pattern)
	if keyword == "" {
		return nil, fmt.Errorf("search %q: %w", pattern, ErrKeywordRequired)
	}
	rx, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid search pattern %q: %w", pattern, err)
	}
	kw := compileKeyword(keyword)

	var matches []Match
	for _, f := range r.corpus {
		if f.Path == issuerPath {
			continue
		}
		if !rx.MatchString(f.Path) {
			continue
		}
		for i, line := range r.cache.lines(f.Path) {
			if kw.MatchString(line) {
				r.logger.Debug("found keyword", "path", f.RelPath, "line", i+1)
				matches = append(matches, Match{Path: f.RelPath, Line: i + 1})
			}
		}
	}
	return matches, nil
}

// skipContent reports whether the file name's extension excludes it from
// content scanning.
func (r *Resolver) skipContent(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" {
		return false
	}
	_, ok := r.skip[ext]
	return ok
}

// compileKeyword builds the shared word-boundary matcher: the literal
// keyword, metacharacters escaped, bounded on each side by a word
// boundary or a non-word character. Applied per line, case-sensitively.
// The keyword "id1" matches in "id1,id2" and at line edges, but not
// inside "id10" or "xid1".
func compileKeyword(keyword string) *regexp.Regexp {
	return regexp.MustCompile(`(\b|\W)` + regexp.QuoteMeta(keyword) + `(\b|\W)`)
}
