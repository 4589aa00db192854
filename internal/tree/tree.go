// Package tree assembles the document hierarchy of a project and wires
// it to the tracked-file corpus for reference resolution.
package tree

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"

	"github.com/leapstack-labs/leapreq/internal/document"
	"github.com/leapstack-labs/leapreq/internal/item"
	"github.com/leapstack-labs/leapreq/internal/vcs"
	"github.com/leapstack-labs/leapreq/pkg/core"
	"github.com/leapstack-labs/leapreq/pkg/resolve"
)

// ErrNotFound reports a failed document or item lookup.
var ErrNotFound = errors.New("not found")

// Config configures a tree build.
type Config struct {
	// Root is the project root directory.
	Root string

	// VCS selects the corpus provider: auto, git, or none.
	VCS string

	// SkipExtensions is handed to the resolver for keyword scans.
	SkipExtensions []string

	// Logger receives build and resolution details. Defaults to discard.
	Logger *slog.Logger
}

// Tree is one immutable snapshot of a project: its documents, their
// items, the link graph between them, and the tracked-file corpus they
// resolve against. A tree is safe for concurrent readers.
type Tree struct {
	root    string
	vcsKind string
	corpus  []core.TrackedFile

	documents []*document.Document // hierarchy order, parents first
	byPrefix  map[string]*document.Document
	byUID     map[string]*item.Item
	docOfUID  map[string]*document.Document

	docGraph  *Graph // document prefixes; edge = parent doc -> child doc
	linkGraph *Graph // item UIDs; edge = linked-to item -> linking item

	resolver *resolve.Resolver
	logger   *slog.Logger
}

// Build discovers the documents under cfg.Root, loads their items,
// assembles the hierarchy and link graph, and takes a corpus snapshot
// from the working copy.
func Build(ctx context.Context, cfg Config) (*Tree, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	root, err := filepath.Abs(cfg.Root)
	if err != nil {
		return nil, fmt.Errorf("resolving project root: %w", err)
	}

	wc, err := vcs.ForKind(cfg.VCS, root, logger)
	if err != nil {
		return nil, err
	}
	corpus, err := wc.Paths(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing tracked files: %w", err)
	}

	t := &Tree{
		root:     root,
		vcsKind:  wc.Kind(),
		corpus:   corpus,
		byPrefix: make(map[string]*document.Document),
		byUID:    make(map[string]*item.Item),
		docOfUID: make(map[string]*document.Document),
		logger:   logger,
	}

	dirs, err := discoverDocuments(root)
	if err != nil {
		return nil, err
	}

	var docs []*document.Document
	for _, dir := range dirs {
		doc, err := document.Load(dir)
		if err != nil {
			return nil, err
		}
		key := strings.ToLower(doc.Prefix)
		if prev, ok := t.byPrefix[key]; ok {
			return nil, fmt.Errorf("duplicate document prefix %s in %s and %s", doc.Prefix, prev.Path, doc.Path)
		}
		if err := doc.LoadItems(); err != nil {
			return nil, err
		}
		t.byPrefix[key] = doc
		docs = append(docs, doc)
	}

	if err := t.buildHierarchy(docs); err != nil {
		return nil, err
	}
	t.buildLinkGraph()

	t.resolver = resolve.New(resolve.Config{
		Root:           root,
		Corpus:         corpus,
		SkipExtensions: cfg.SkipExtensions,
		Logger:         logger,
	})

	logger.Debug("tree built",
		"root", root,
		"vcs", t.vcsKind,
		"documents", len(t.documents),
		"items", t.ItemCount(),
		"corpus", len(corpus))

	return t, nil
}

// buildHierarchy wires parent edges between documents and orders them
// parents first.
func (t *Tree) buildHierarchy(docs []*document.Document) error {
	t.docGraph = NewGraph()
	for _, doc := range docs {
		t.docGraph.AddNode(strings.ToLower(doc.Prefix), doc)
	}
	for _, doc := range docs {
		if doc.Parent == "" {
			continue
		}
		parentKey := strings.ToLower(doc.Parent)
		if _, ok := t.byPrefix[parentKey]; !ok {
			return fmt.Errorf("document %s: parent %s: %w", doc.Prefix, doc.Parent, ErrNotFound)
		}
		if err := t.docGraph.AddEdge(parentKey, strings.ToLower(doc.Prefix)); err != nil {
			return fmt.Errorf("document %s: %w", doc.Prefix, err)
		}
	}

	order, err := t.docGraph.TopologicalSort()
	if err != nil {
		return fmt.Errorf("document hierarchy: %w", err)
	}
	t.documents = make([]*document.Document, 0, len(order))
	for _, key := range order {
		node, _ := t.docGraph.Node(key)
		t.documents = append(t.documents, node.Data.(*document.Document))
	}
	return nil
}

// buildLinkGraph indexes items by UID and records link edges for
// targets that exist. Duplicate UIDs keep the first occurrence; broken
// links are left to validation.
func (t *Tree) buildLinkGraph() {
	t.linkGraph = NewGraph()
	for _, doc := range t.documents {
		for _, it := range doc.Items {
			key := strings.ToLower(it.UID.String())
			if prev, ok := t.byUID[key]; ok {
				t.logger.Warn("duplicate item UID",
					"uid", it.UID.String(),
					"kept", prev.Path,
					"ignored", it.Path)
				continue
			}
			t.byUID[key] = it
			t.docOfUID[key] = doc
			t.linkGraph.AddNode(key, it)
		}
	}
	for _, doc := range t.documents {
		for _, it := range doc.Items {
			key := strings.ToLower(it.UID.String())
			if t.byUID[key] != it {
				continue
			}
			for _, link := range it.Links {
				target := strings.ToLower(link.String())
				if _, ok := t.byUID[target]; ok {
					_ = t.linkGraph.AddEdge(target, key)
				}
			}
		}
	}
}

// Root returns the absolute project root.
func (t *Tree) Root() string { return t.root }

// VCSKind names the corpus provider the snapshot came from.
func (t *Tree) VCSKind() string { return t.vcsKind }

// Corpus returns the tracked-file snapshot, in provider order.
func (t *Tree) Corpus() []core.TrackedFile { return t.corpus }

// Documents returns the documents in hierarchy order, parents first.
func (t *Tree) Documents() []*document.Document { return t.documents }

// Prefixes returns the document prefixes in hierarchy order.
func (t *Tree) Prefixes() []string {
	prefixes := make([]string, len(t.documents))
	for i, doc := range t.documents {
		prefixes[i] = doc.Prefix
	}
	return prefixes
}

// ItemCount returns the total number of items across all documents.
func (t *Tree) ItemCount() int {
	return len(t.byUID)
}

// Resolver returns the reference resolver bound to this snapshot.
func (t *Tree) Resolver() *resolve.Resolver { return t.resolver }

// LinkGraph returns the item link graph. Edges run from the linked-to
// item to the item holding the link.
func (t *Tree) LinkGraph() *Graph { return t.linkGraph }

// FindDocument returns the document with the given prefix.
// Prefix comparison is case-insensitive.
func (t *Tree) FindDocument(prefix string) (*document.Document, error) {
	if doc, ok := t.byPrefix[strings.ToLower(prefix)]; ok {
		return doc, nil
	}
	return nil, fmt.Errorf("document %s: %w", prefix, ErrNotFound)
}

// FindItem returns the item with the given UID and its document.
// UID comparison is case-insensitive.
func (t *Tree) FindItem(uid string) (*item.Item, *document.Document, error) {
	key := strings.ToLower(uid)
	if it, ok := t.byUID[key]; ok {
		return it, t.docOfUID[key], nil
	}
	return nil, nil, fmt.Errorf("item %s: %w", uid, ErrNotFound)
}

// DocumentOf returns the document holding the given item.
func (t *Tree) DocumentOf(it *item.Item) *document.Document {
	return t.docOfUID[strings.ToLower(it.UID.String())]
}

// ParentItems returns the known items the item links to, in link order.
// Links to unknown items are left to validation.
func (t *Tree) ParentItems(it *item.Item) []*item.Item {
	var parents []*item.Item
	for _, link := range it.Links {
		if target, ok := t.byUID[strings.ToLower(link.String())]; ok {
			parents = append(parents, target)
		}
	}
	return parents
}

// ChildItems returns the items that link to uid, in document order.
func (t *Tree) ChildItems(uid string) []*item.Item {
	ids := t.linkGraph.Children(strings.ToLower(uid))
	items := make([]*item.Item, 0, len(ids))
	for _, id := range ids {
		items = append(items, t.byUID[id])
	}
	return items
}

// Traceability returns the requirement traceability matrix. Columns
// follow the document hierarchy order; each row is one slice from a
// top-level item down through the items linking to it, with empty cells
// where the slice does not reach a document.
func (t *Tree) Traceability() [][]string {
	col := make(map[string]int, len(t.documents))
	for i, doc := range t.documents {
		col[strings.ToLower(doc.Prefix)] = i
	}

	seen := make(map[string]bool)
	var rows [][]string
	emit := func(row []string) {
		key := strings.Join(row, "\x00")
		if !seen[key] {
			seen[key] = true
			rows = append(rows, row)
		}
	}

	var walk func(it *item.Item, row []string, onPath map[string]bool)
	walk = func(it *item.Item, row []string, onPath map[string]bool) {
		key := strings.ToLower(it.UID.String())
		next := make([]string, len(row))
		copy(next, row)
		next[col[strings.ToLower(t.docOfUID[key].Prefix)]] = it.UID.String()

		children := t.ChildItems(it.UID.String())
		if len(children) == 0 || onPath[key] {
			emit(next)
			return
		}
		onPath[key] = true
		for _, child := range children {
			walk(child, next, onPath)
		}
		delete(onPath, key)
	}

	for _, doc := range t.documents {
		for _, it := range doc.Items {
			if it.Heading() || !it.Active {
				continue
			}
			if len(t.ParentItems(it)) == 0 {
				walk(it, make([]string, len(t.documents)), make(map[string]bool))
			}
		}
	}

	sort.Slice(rows, func(i, j int) bool { return lessRow(rows[i], rows[j]) })
	return rows
}

// lessRow orders matrix rows column by column, empty cells after items.
func lessRow(a, b []string) bool {
	for i := range a {
		av, bv := a[i], b[i]
		if av == bv {
			continue
		}
		if av == "" {
			return false
		}
		if bv == "" {
			return true
		}
		return av < bv
	}
	return false
}

// discoverDocuments walks root for directories holding a document
// config file. Dot-directories are not descended.
func discoverDocuments(root string) ([]string, error) {
	var dirs []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") && path != root {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Name() == document.ConfigName {
			dirs = append(dirs, filepath.Dir(path))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning for documents: %w", err)
	}
	sort.Strings(dirs)
	return dirs, nil
}
