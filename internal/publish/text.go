package publish

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/leapstack-labs/leapreq/internal/document"
	"github.com/leapstack-labs/leapreq/internal/item"
)

// Text renders documents as plain text: a level gutter on the left,
// body text wrapped and indented beneath it.
type Text struct {
	cfg    Config
	indent int
	width  int
}

// NewText creates a text publisher.
func NewText(cfg Config) *Text {
	return &Text{cfg: cfg, indent: 8, width: 79}
}

// Extension implements Publisher.
func (t *Text) Extension() string { return ".txt" }

// Publish implements Publisher.
func (t *Text) Publish(w io.Writer, doc *document.Document) error {
	return writeLines(w, t.lines(doc))
}

func (t *Text) lines(doc *document.Document) []string {
	var out []string
	for _, it := range doc.Items {
		if !it.Active {
			continue
		}
		out = append(out, t.itemLines(it, doc)...)
		out = append(out, "") // break between items
	}
	return out
}

func (t *Text) itemLines(it *item.Item, doc *document.Document) []string {
	var out []string
	level := FormatLevel(it.Level)

	if it.Heading() {
		textLines := splitLines(it.Text)
		if it.Header != "" {
			textLines = append([]string{it.Header}, textLines...)
		}
		first := ""
		if len(textLines) > 0 {
			first = textLines[0]
		}
		out = append(out, fmt.Sprintf("%-*s%s", t.indent, level, first))
		if len(textLines) > 1 {
			out = append(out, textLines[1:]...)
		}
		return out
	}

	head := it.UID.String()
	if it.Header != "" {
		head = fmt.Sprintf("%s %s", it.UID, it.Header)
	}
	out = append(out, fmt.Sprintf("%-*s%s", t.indent, level, head))

	if it.Text != "" {
		out = append(out, "") // break before text
		for _, line := range splitLines(it.Text) {
			if line == "" {
				out = append(out, "") // break between paragraphs
				continue
			}
			out = append(out, t.chunks(line)...)
		}
	}

	if it.Ref != "" {
		out = append(out, "") // break before reference
		out = append(out, t.chunks(t.formatRef(it))...)
	}

	if len(it.References) > 0 {
		out = append(out, "") // break before references
		out = append(out, t.chunks(t.formatReferences(it))...)
	}

	if len(it.Links) > 0 {
		links := make([]string, 0, len(it.Links))
		for _, link := range it.Links {
			links = append(links, link.String())
		}
		out = append(out, "") // break before links
		out = append(out, t.chunks("Parent links: "+strings.Join(links, ", "))...)
	}

	if t.cfg.Tree != nil {
		if children := t.cfg.Tree.ChildItems(it.UID.String()); len(children) > 0 {
			links := make([]string, 0, len(children))
			for _, child := range children {
				links = append(links, child.UID.String())
			}
			out = append(out, "") // break before links
			out = append(out, t.chunks("Child links: "+strings.Join(links, ", "))...)
		}
	}

	out = append(out, t.attrLines(it, doc)...)
	return out
}

// formatRef renders the legacy ref keyword, resolved against the corpus
// when a resolver is available and falling back to the stored spelling.
func (t *Text) formatRef(it *item.Item) string {
	if t.cfg.Resolver != nil {
		if match := t.cfg.Resolver.FindKeyword(it.Ref, it.Path); match != nil {
			return "Reference: " + refEntry(match.Path, match.Line)
		}
	}
	return fmt.Sprintf("Reference: '%s'", it.Ref)
}

// formatReferences renders the references list as one line, resolved
// locations joined with commas.
func (t *Text) formatReferences(it *item.Item) string {
	var entries []string
	for _, ref := range it.References {
		if t.cfg.Resolver == nil {
			entries = append(entries, fmt.Sprintf("'%s'", refRaw(ref)))
			continue
		}
		resolved := resolveReference(t.cfg.Resolver, ref, it.Path)
		if len(resolved) == 0 {
			entries = append(entries, fmt.Sprintf("'%s'", refRaw(ref)))
			continue
		}
		for _, r := range resolved {
			entries = append(entries, refEntry(r.path, r.line))
		}
	}
	return "Reference: " + strings.Join(entries, ", ")
}

func refEntry(path string, line int) string {
	if line > 0 {
		return fmt.Sprintf("%s (line %d)", path, line)
	}
	return path
}

// attrLines renders the document's publish attributes present on the item.
func (t *Text) attrLines(it *item.Item, doc *document.Document) []string {
	var out []string
	for _, attr := range doc.PublishAttrs {
		v, ok := it.Extra[attr]
		if !ok {
			continue
		}
		value := attrValue(v)
		if value == "" {
			continue
		}
		if len(out) == 0 {
			out = append(out, "") // break before attributes
		}
		out = append(out, t.chunks(fmt.Sprintf("%s: %s", attr, value))...)
	}
	return out
}

// chunks wraps one source line to the publisher width. The gutter
// indent counts against the width, so content wraps at width-indent.
func (t *Text) chunks(line string) []string {
	wrapped := text.WrapSoft(line, t.width-t.indent)
	if wrapped == "" {
		return nil
	}
	pad := strings.Repeat(" ", t.indent)
	var out []string
	for _, chunk := range strings.Split(wrapped, "\n") {
		out = append(out, pad+chunk)
	}
	return out
}
