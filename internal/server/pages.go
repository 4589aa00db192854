package server

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"sort"
	"strings"

	"github.com/leapstack-labs/leapreq/internal/document"
	"github.com/leapstack-labs/leapreq/internal/item"
	"github.com/leapstack-labs/leapreq/internal/publish"
	"github.com/leapstack-labs/leapreq/internal/tree"
	"github.com/leapstack-labs/leapreq/pkg/resolve"
)

//go:embed templates static
var assets embed.FS

var (
	indexPage        = parsePage("index.tmpl")
	documentListPage = parsePage("documents.tmpl")
	documentPage     = parsePage("document.tmpl")
	itemListPage     = parsePage("items.tmpl")
	itemPage         = parsePage("item.tmpl")
	tracePage        = parsePage("traceability.tmpl")
)

func parsePage(name string) *template.Template {
	return template.Must(template.ParseFS(assets, "templates/layout.tmpl", "templates/"+name))
}

// staticHandler serves the embedded stylesheet.
func staticHandler() http.Handler {
	sub, _ := fs.Sub(assets, "static")
	return http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
}

const (
	sessionName = "leapreq"
	maxRecent   = 10
)

// page carries the fields every template needs.
type page struct {
	Title string
	Watch bool
}

func (s *Server) page(title string) page {
	return page{Title: title, Watch: s.watch}
}

// itemRef links to one item. An empty Prefix marks an unknown target.
type itemRef struct {
	UID    string
	Prefix string
}

type docSummary struct {
	Prefix    string
	Parent    string
	ItemCount int
}

type indexData struct {
	page
	Root      string
	VCS       string
	ItemTotal int
	Documents []docSummary
	Recent    []itemRef
}

type documentListData struct {
	page
	Prefixes []string
}

type documentData struct {
	page
	Prefix string
	Parent string
	Items  []itemView
}

type itemListData struct {
	page
	Prefix string
	UIDs   []string
}

type itemData struct {
	page
	Prefix string
	Item   itemView
}

type traceData struct {
	page
	Columns []string
	Rows    [][]itemRef
}

// itemView is the template shape of one item.
type itemView struct {
	UID        string
	Prefix     string
	Level      string
	Heading    bool
	Title      string
	Header     string
	Paragraphs []string
	References []string
	Links      []itemRef
	Children   []itemRef
	Attrs      []attrView
}

type attrView struct {
	Name  string
	Value string
}

func (s *Server) renderPage(w http.ResponseWriter, tmpl *template.Template, data any) {
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout.tmpl", data); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	t := s.snapshot()

	docs := make([]docSummary, 0, len(t.Documents()))
	for _, doc := range t.Documents() {
		docs = append(docs, docSummary{
			Prefix:    doc.Prefix,
			Parent:    doc.Parent,
			ItemCount: len(doc.Items),
		})
	}

	// Items viewed in this browser session, most recent first. Entries
	// gone after a rebuild are dropped silently.
	var recent []itemRef
	for _, uid := range s.recentItems(r) {
		if it, doc, err := t.FindItem(uid); err == nil {
			recent = append(recent, itemRef{UID: it.UID.String(), Prefix: doc.Prefix})
		}
	}

	s.renderPage(w, indexPage, indexData{
		page:      s.page("Overview"),
		Root:      t.Root(),
		VCS:       t.VCSKind(),
		ItemTotal: t.ItemCount(),
		Documents: docs,
		Recent:    recent,
	})
}

func (s *Server) renderDocumentList(w http.ResponseWriter, t *tree.Tree) {
	s.renderPage(w, documentListPage, documentListData{
		page:     s.page("Documents"),
		Prefixes: t.Prefixes(),
	})
}

func (s *Server) renderDocument(w http.ResponseWriter, doc *document.Document) {
	t := s.snapshot()
	items := make([]itemView, 0, len(doc.Items))
	for _, it := range doc.Items {
		if !it.Active {
			continue
		}
		items = append(items, s.itemView(t, doc, it))
	}
	s.renderPage(w, documentPage, documentData{
		page:   s.page(doc.Prefix),
		Prefix: doc.Prefix,
		Parent: doc.Parent,
		Items:  items,
	})
}

func (s *Server) renderItemList(w http.ResponseWriter, doc *document.Document, uids []string) {
	s.renderPage(w, itemListPage, itemListData{
		page:   s.page(doc.Prefix + " items"),
		Prefix: doc.Prefix,
		UIDs:   uids,
	})
}

func (s *Server) renderItem(w http.ResponseWriter, doc *document.Document, it *item.Item) {
	t := s.snapshot()
	view := s.itemView(t, doc, it)
	view.Attrs = attrViews(it)
	s.renderPage(w, itemPage, itemData{
		page:   s.page(it.UID.String()),
		Prefix: doc.Prefix,
		Item:   view,
	})
}

func (s *Server) renderTraceability(w http.ResponseWriter, t *tree.Tree) {
	var rows [][]itemRef
	for _, row := range t.Traceability() {
		cells := make([]itemRef, len(row))
		for i, uid := range row {
			if uid == "" {
				continue
			}
			cells[i] = itemRef{UID: uid}
			if _, doc, err := t.FindItem(uid); err == nil {
				cells[i].Prefix = doc.Prefix
			}
		}
		rows = append(rows, cells)
	}
	s.renderPage(w, tracePage, traceData{
		page:    s.page("Traceability"),
		Columns: t.Prefixes(),
		Rows:    rows,
	})
}

func (s *Server) itemView(t *tree.Tree, doc *document.Document, it *item.Item) itemView {
	v := itemView{
		UID:     it.UID.String(),
		Prefix:  doc.Prefix,
		Level:   publish.FormatLevel(it.Level),
		Heading: it.Heading(),
		Header:  it.Header,
	}

	if v.Heading {
		lines := splitTextLines(it.Text)
		if it.Header != "" {
			lines = append([]string{it.Header}, lines...)
		}
		if len(lines) > 0 {
			v.Title = lines[0]
			v.Paragraphs = paragraphs(strings.Join(lines[1:], "\n"))
		}
		return v
	}

	v.Paragraphs = paragraphs(it.Text)
	v.References = referenceLabels(t, it)

	for _, link := range it.Links {
		ref := itemRef{UID: link.String()}
		if target, targetDoc, err := t.FindItem(link.String()); err == nil {
			ref.UID = target.UID.String()
			ref.Prefix = targetDoc.Prefix
		}
		v.Links = append(v.Links, ref)
	}
	for _, child := range t.ChildItems(it.UID.String()) {
		ref := itemRef{UID: child.UID.String()}
		if childDoc := t.DocumentOf(child); childDoc != nil {
			ref.Prefix = childDoc.Prefix
		}
		v.Children = append(v.Children, ref)
	}
	return v
}

// referenceLabels resolves the item's references for display, one
// label per outcome.
func referenceLabels(t *tree.Tree, it *item.Item) []string {
	var out []string
	for _, q := range it.Queries() {
		res, err := t.Resolver().Resolve(q, it.Path)
		if err != nil {
			out = append(out, fmt.Sprintf("%s: %v", q.Describe(), err))
			continue
		}
		switch v := res.(type) {
		case resolve.Single:
			if v.Match == nil {
				out = append(out, fmt.Sprintf("%s: not found", q.Describe()))
			} else {
				out = append(out, matchLabel(*v.Match))
			}
		case resolve.Multiple:
			if len(v.Matches) == 0 {
				out = append(out, fmt.Sprintf("%s: not found", q.Describe()))
			}
			for _, m := range v.Matches {
				out = append(out, matchLabel(m))
			}
		}
	}
	return out
}

func matchLabel(m resolve.Match) string {
	if m.Line > 0 {
		return fmt.Sprintf("%s (line %d)", m.Path, m.Line)
	}
	return m.Path
}

func attrViews(it *item.Item) []attrView {
	data := it.Data()
	names := make([]string, 0, len(data))
	for name := range data {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]attrView, 0, len(names))
	for _, name := range names {
		out = append(out, attrView{Name: name, Value: attrText(data[name])})
	}
	return out
}

func attrText(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case []string:
		return strings.Join(x, ", ")
	case []any:
		parts := make([]string, 0, len(x))
		for _, e := range x {
			parts = append(parts, fmt.Sprint(e))
		}
		return strings.Join(parts, ", ")
	default:
		return fmt.Sprint(x)
	}
}

// paragraphs splits block text on blank lines, folding soft line breaks.
func paragraphs(text string) []string {
	var out []string
	for _, block := range strings.Split(text, "\n\n") {
		block = strings.TrimSpace(strings.ReplaceAll(block, "\n", " "))
		if block != "" {
			out = append(out, block)
		}
	}
	return out
}

func splitTextLines(text string) []string {
	if text == "" {
		return nil
	}
	return strings.Split(strings.TrimRight(text, "\n"), "\n")
}

// recentItems returns the UIDs stored in the browser session.
func (s *Server) recentItems(r *http.Request) []string {
	session, err := s.sessions.Get(r, sessionName)
	if err != nil {
		return nil
	}
	uids, _ := session.Values["recent"].([]string)
	return uids
}

// rememberItem moves uid to the front of the session's recent list.
func (s *Server) rememberItem(w http.ResponseWriter, r *http.Request, uid string) {
	// Get returns a fresh session when the cookie is missing or stale.
	session, _ := s.sessions.Get(r, sessionName)

	recent, _ := session.Values["recent"].([]string)
	updated := make([]string, 0, maxRecent)
	updated = append(updated, uid)
	for _, seen := range recent {
		if seen != uid && len(updated) < maxRecent {
			updated = append(updated, seen)
		}
	}

	session.Values["recent"] = updated
	if err := session.Save(r, w); err != nil {
		s.logger.Debug("session save failed", "error", err)
	}
}
