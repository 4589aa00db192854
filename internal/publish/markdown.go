package publish

import (
	"fmt"
	"io"
	"strings"

	"github.com/leapstack-labs/leapreq/internal/document"
	"github.com/leapstack-labs/leapreq/internal/item"
	"github.com/leapstack-labs/leapreq/pkg/core"
)

// Markdown renders documents as markdown with pandoc-style item anchors.
type Markdown struct {
	cfg Config
}

// NewMarkdown creates a markdown publisher.
func NewMarkdown(cfg Config) *Markdown {
	return &Markdown{cfg: cfg}
}

// Extension implements Publisher.
func (m *Markdown) Extension() string { return ".md" }

// Publish implements Publisher.
func (m *Markdown) Publish(w io.Writer, doc *document.Document) error {
	return writeLines(w, m.lines(doc))
}

func (m *Markdown) lines(doc *document.Document) []string {
	var out []string
	for _, it := range doc.Items {
		if !it.Active {
			continue
		}
		out = append(out, m.itemLines(it, doc)...)
		out = append(out, "") // break between items
	}
	return out
}

func (m *Markdown) itemLines(it *item.Item, doc *document.Document) []string {
	var out []string
	heading := strings.Repeat("#", it.Depth())
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
		out = append(out, fmt.Sprintf("%s %s %s%s", heading, level, first, m.attrList(it)))
		if len(textLines) > 1 {
			out = append(out, textLines[1:]...)
		}
		return out
	}

	uid := it.UID.String()
	if it.Header != "" {
		uid = fmt.Sprintf("%s <small>%s</small>", it.Header, it.UID)
	}
	out = append(out, fmt.Sprintf("%s %s %s%s", heading, level, uid, m.attrList(it)))

	if it.Text != "" {
		out = append(out, "") // break before text
		out = append(out, splitLines(it.Text)...)
	}

	if it.Ref != "" {
		out = append(out, "") // break before reference
		out = append(out, m.formatRef(it))
	}

	if len(it.References) > 0 {
		out = append(out, "") // break before references
		out = append(out, m.formatReferences(it)...)
	}

	if len(it.Links) > 0 {
		out = append(out, "") // break before links
		out = append(out, m.formatLabelLinks("Parent links:", m.formatLinks(it)))
	}

	if m.cfg.Tree != nil {
		if children := m.cfg.Tree.ChildItems(it.UID.String()); len(children) > 0 {
			links := make([]string, 0, len(children))
			for _, child := range children {
				links = append(links, m.itemLink(child))
			}
			out = append(out, "") // break before links
			out = append(out, m.formatLabelLinks("Child links:", strings.Join(links, ", ")))
		}
	}

	out = append(out, m.attrTable(it, doc)...)
	return out
}

// attrList renders the pandoc anchor attached to every item heading.
func (m *Markdown) attrList(it *item.Item) string {
	return fmt.Sprintf(" {#%s }", it.UID)
}

// formatRef renders the legacy ref keyword, resolved against the corpus
// when a resolver is available and falling back to the stored spelling.
func (m *Markdown) formatRef(it *item.Item) string {
	if m.cfg.Resolver != nil {
		if match := m.cfg.Resolver.FindKeyword(it.Ref, it.Path); match != nil {
			return m.refBlockquote(match.Path, match.Line)
		}
	}
	return fmt.Sprintf("> '%s'", it.Ref)
}

// formatReferences renders the references list, one blockquote per
// resolved location.
func (m *Markdown) formatReferences(it *item.Item) []string {
	var out []string
	for _, ref := range it.References {
		if m.cfg.Resolver == nil {
			out = append(out, fmt.Sprintf("> '%s'", refRaw(ref)))
			continue
		}
		resolved := resolveReference(m.cfg.Resolver, ref, it.Path)
		if len(resolved) == 0 {
			out = append(out, fmt.Sprintf("> '%s'", refRaw(ref)))
			continue
		}
		for _, r := range resolved {
			out = append(out, m.refBlockquote(r.path, r.line))
		}
	}
	return out
}

func (m *Markdown) refBlockquote(path string, line int) string {
	if line > 0 {
		if m.cfg.Linkify {
			return fmt.Sprintf("> [%s](../%s) (line %d)", path, path, line)
		}
		return fmt.Sprintf("> %s (line %d)", path, line)
	}
	return fmt.Sprintf("> `%s`", path)
}

// formatLinks joins the item's parent links.
func (m *Markdown) formatLinks(it *item.Item) string {
	links := make([]string, 0, len(it.Links))
	for _, link := range it.Links {
		links = append(links, m.linkTarget(link))
	}
	return strings.Join(links, ", ")
}

// linkTarget renders one link, hyperlinked when the target is known.
func (m *Markdown) linkTarget(link core.UID) string {
	if m.cfg.Tree != nil {
		if target, _, err := m.cfg.Tree.FindItem(link.String()); err == nil {
			return m.itemLink(target)
		}
	}
	return link.String()
}

func (m *Markdown) itemLink(target *item.Item) string {
	if !m.cfg.Linkify {
		return target.UID.String()
	}
	prefix := ""
	if m.cfg.Tree != nil {
		if doc := m.cfg.Tree.DocumentOf(target); doc != nil {
			prefix = doc.Prefix
		}
	}
	if target.Header != "" {
		return fmt.Sprintf("[%s %s](%s.md#%s)", target.UID, target.Header, prefix, target.UID)
	}
	return fmt.Sprintf("[%s](%s.md#%s)", target.UID, prefix, target.UID)
}

func (m *Markdown) formatLabelLinks(label, links string) string {
	if m.cfg.Linkify {
		return fmt.Sprintf("*%s* %s", label, links)
	}
	return fmt.Sprintf("*%s %s*", label, links)
}

// attrTable renders the document's publish attributes present on the item.
func (m *Markdown) attrTable(it *item.Item, doc *document.Document) []string {
	var out []string
	headerPrinted := false
	for _, attr := range doc.PublishAttrs {
		v, ok := it.Extra[attr]
		if !ok {
			continue
		}
		value := attrValue(v)
		if value == "" {
			continue
		}
		if !headerPrinted {
			headerPrinted = true
			out = append(out, "", "| Attribute | Value |", "| --------- | ----- |")
		}
		out = append(out, fmt.Sprintf("| %s | %s |", attr, value))
	}
	if headerPrinted {
		out = append(out, "")
	}
	return out
}
