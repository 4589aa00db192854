// Package publish renders documents to markdown or plain text. Output
// follows the conventional requirements-exchange shape: one section per
// item, resolved references as annotations, links spelled out.
package publish

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/leapstack-labs/leapreq/internal/document"
	"github.com/leapstack-labs/leapreq/internal/item"
	"github.com/leapstack-labs/leapreq/internal/tree"
	"github.com/leapstack-labs/leapreq/pkg/core"
	"github.com/leapstack-labs/leapreq/pkg/resolve"
)

// Publisher renders one document at a time.
type Publisher interface {
	// Extension is the file extension for published output, e.g. ".md".
	Extension() string

	// Publish writes the rendered document.
	Publish(w io.Writer, doc *document.Document) error
}

// Config configures a publisher.
type Config struct {
	// Tree supplies link targets and child links. Without it, links
	// render as bare UIDs and child links are omitted.
	Tree *tree.Tree

	// Resolver renders references resolved against the corpus. Without
	// it, references render in their raw stored form.
	Resolver *resolve.Resolver

	// Linkify turns item links into markdown hyperlinks.
	Linkify bool
}

// ForFormat returns the publisher for a format name.
func ForFormat(format string, cfg Config) (Publisher, error) {
	switch strings.ToLower(format) {
	case "markdown", "md":
		return NewMarkdown(cfg), nil
	case "text", "txt":
		return NewText(cfg), nil
	default:
		return nil, fmt.Errorf("unknown publish format %q", format)
	}
}

// Tree writes one file per document into dir, named after the document
// prefix. It returns the written paths in document order.
func Tree(t *tree.Tree, p Publisher, dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}
	var written []string
	for _, doc := range t.Documents() {
		path := filepath.Join(dir, doc.Prefix+p.Extension())
		f, err := os.Create(path)
		if err != nil {
			return written, fmt.Errorf("creating %s: %w", path, err)
		}
		err = p.Publish(f, doc)
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return written, fmt.Errorf("publishing %s: %w", doc.Prefix, err)
		}
		written = append(written, path)
	}
	return written, nil
}

// FormatLevel renders a level for publication. A trailing zero is kept
// on top levels ("1.0") and trimmed on deeper ones ("1.2.0" -> "1.2").
func FormatLevel(l core.Level) string {
	text := l.String()
	if strings.HasSuffix(text, ".0") && len(text) > 3 {
		text = strings.TrimSuffix(text, ".0")
	}
	return text
}

// writeLines joins rendered lines with newlines and writes them out.
func writeLines(w io.Writer, lines []string) error {
	_, err := io.WriteString(w, strings.Join(lines, "\n")+"\n")
	return err
}

// resolvedRef is one reference rendered against the corpus: a relative
// path plus the 1-indexed line, zero for filename matches.
type resolvedRef struct {
	path string
	line int
}

// resolveReference resolves one stored reference, returning no entries
// when it does not resolve.
func resolveReference(r *resolve.Resolver, ref item.Reference, issuerPath string) []resolvedRef {
	res, err := r.Resolve(ref.Query(), issuerPath)
	if err != nil {
		return nil
	}
	switch v := res.(type) {
	case resolve.Single:
		if v.Match != nil {
			return []resolvedRef{{path: v.Match.Path, line: v.Match.Line}}
		}
	case resolve.Multiple:
		out := make([]resolvedRef, 0, len(v.Matches))
		for _, match := range v.Matches {
			out = append(out, resolvedRef{path: match.Path, line: match.Line})
		}
		return out
	}
	return nil
}

// refRaw is the stored spelling of a reference: its path or pattern.
func refRaw(ref item.Reference) string {
	if ref.Type == "search" {
		return ref.Pattern
	}
	return ref.Path
}

// splitLines splits block text the way YAML stores it, dropping the
// trailing newline.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	return strings.Split(strings.TrimRight(text, "\n"), "\n")
}

// attrValue formats a custom attribute value for publication.
func attrValue(v any) string {
	return strings.TrimSpace(fmt.Sprintf("%v", v))
}
