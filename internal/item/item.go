// Package item loads requirement items from their YAML files.
package item

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/leapstack-labs/leapreq/pkg/core"
	"github.com/leapstack-labs/leapreq/pkg/resolve"
)

// Item is one requirement item.
type Item struct {
	UID  core.UID
	Path string // absolute path of the item file

	Active     bool
	Derived    bool
	Normative  bool
	Header     string
	Level      core.Level
	Text       string
	Links      []core.UID
	Ref        string // legacy bare keyword reference
	References []Reference
	Extra      map[string]any // custom attributes, kept verbatim
}

// Reference is one entry of an item's references list: an explicit file
// path or a search pattern, each optionally narrowed by a keyword.
type Reference struct {
	Type    string // "file" or "search"
	Path    string
	Pattern string
	Keyword string
}

// Query converts the reference into its resolver query. The reference
// type was validated at load time.
func (r Reference) Query() resolve.Query {
	if r.Type == "search" {
		return resolve.SearchQuery{Pattern: r.Pattern, Keyword: r.Keyword}
	}
	return resolve.FileQuery{Path: r.Path, Keyword: r.Keyword}
}

// Queries converts the item's stored references into resolver queries.
// The legacy ref keyword becomes a keyword query and precedes entries
// from the references list.
func (i *Item) Queries() []resolve.Query {
	var queries []resolve.Query
	if i.Ref != "" {
		queries = append(queries, resolve.KeywordQuery{Keyword: i.Ref})
	}
	for _, r := range i.References {
		queries = append(queries, r.Query())
	}
	return queries
}

// HasReferences reports whether the item stores any external reference.
func (i *Item) HasReferences() bool {
	return i.Ref != "" || len(i.References) > 0
}

// Heading reports whether the item renders as a document heading.
// Headings have a level ending in zero and are non-normative.
func (i *Item) Heading() bool {
	return i.Level.Heading() && !i.Normative
}

// Depth returns the heading depth the item publishes at.
func (i *Item) Depth() int {
	return i.Level.Depth()
}

// Data returns the item's attributes as a generic map, the shape the
// REST API surfaces. Custom attributes come through verbatim.
func (i *Item) Data() map[string]any {
	links := make([]string, 0, len(i.Links))
	for _, l := range i.Links {
		links = append(links, l.String())
	}
	data := map[string]any{
		"active":    i.Active,
		"derived":   i.Derived,
		"normative": i.Normative,
		"level":     i.Level.String(),
		"text":      i.Text,
		"links":     links,
	}
	if i.Header != "" {
		data["header"] = i.Header
	}
	if i.Ref != "" {
		data["ref"] = i.Ref
	}
	if len(i.References) > 0 {
		refs := make([]map[string]any, 0, len(i.References))
		for _, r := range i.References {
			ref := map[string]any{"type": r.Type}
			if r.Type == "search" {
				ref["pattern"] = r.Pattern
			} else {
				ref["path"] = r.Path
			}
			if r.Keyword != "" {
				ref["keyword"] = r.Keyword
			}
			refs = append(refs, ref)
		}
		data["references"] = refs
	}
	for k, v := range i.Extra {
		data[k] = v
	}
	return data
}

// referenceYAML is an internal type for YAML unmarshaling.
type referenceYAML struct {
	Type    string `yaml:"type"`
	Path    string `yaml:"path"`
	Pattern string `yaml:"pattern"`
	Keyword string `yaml:"keyword"`
}

// itemYAML is an internal type for YAML unmarshaling. Bool fields use
// pointers so absent keys fall back to their defaults (active and
// normative default to true, derived to false). Level and
// links are raw nodes: levels keep their literal spelling even when
// YAML would read them as numbers, and link entries may be plain UIDs
// or single-key mappings whose value is discarded.
type itemYAML struct {
	Active     *bool           `yaml:"active"`
	Derived    *bool           `yaml:"derived"`
	Normative  *bool           `yaml:"normative"`
	Header     string          `yaml:"header"`
	Level      yaml.Node       `yaml:"level"`
	Text       string          `yaml:"text"`
	Links      []yaml.Node     `yaml:"links"`
	Ref        string          `yaml:"ref"`
	References []referenceYAML `yaml:"references"`
	Extra      map[string]any  `yaml:",inline"`
}

// Load reads and parses one item file. The UID comes from the file name.
func Load(path string) (*Item, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading item: %w", err)
	}
	return Parse(data, path)
}

// Parse parses item file content. The UID comes from the file name.
func Parse(data []byte, path string) (*Item, error) {
	name := filepath.Base(path)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	uid, err := core.ParseUID(name)
	if err != nil {
		return nil, &ParseError{File: path, Message: fmt.Sprintf("file name is not a UID: %v", err)}
	}

	var y itemYAML
	if err := yaml.Unmarshal(data, &y); err != nil {
		return nil, &ParseError{File: path, Message: fmt.Sprintf("invalid YAML: %v", err)}
	}

	it := &Item{
		UID:       uid,
		Path:      path,
		Active:    true,
		Derived:   false,
		Normative: true,
		Header:    y.Header,
		Level:     core.DefaultLevel,
		Text:      y.Text,
		Ref:       y.Ref,
		Extra:     y.Extra,
	}
	if y.Active != nil {
		it.Active = *y.Active
	}
	if y.Derived != nil {
		it.Derived = *y.Derived
	}
	if y.Normative != nil {
		it.Normative = *y.Normative
	}

	if y.Level.Kind != 0 {
		level, err := core.ParseLevel(y.Level.Value)
		if err != nil {
			return nil, &ParseError{File: path, Message: fmt.Sprintf("invalid level: %v", err)}
		}
		it.Level = level
	}

	for n, node := range y.Links {
		uid, err := linkUID(node)
		if err != nil {
			return nil, &ParseError{File: path, Message: fmt.Sprintf("links[%d]: %v", n, err)}
		}
		it.Links = append(it.Links, uid)
	}

	for n, r := range y.References {
		ref := Reference(r)
		switch ref.Type {
		case "file":
			if ref.Path == "" {
				return nil, &ParseError{File: path, Message: fmt.Sprintf("references[%d]: file reference needs a path", n)}
			}
		case "search":
			if ref.Pattern == "" {
				return nil, &ParseError{File: path, Message: fmt.Sprintf("references[%d]: search reference needs a pattern", n)}
			}
		default:
			return nil, &ParseError{File: path, Message: fmt.Sprintf("references[%d]: unknown type %q", n, ref.Type)}
		}
		it.References = append(it.References, ref)
	}

	return it, nil
}

// linkUID extracts the UID from one links entry. Entries written as
// single-key mappings carry a review stamp as the value; only the key
// is kept.
func linkUID(node yaml.Node) (core.UID, error) {
	switch node.Kind {
	case yaml.ScalarNode:
		return core.ParseUID(node.Value)
	case yaml.MappingNode:
		if len(node.Content) >= 2 {
			return core.ParseUID(node.Content[0].Value)
		}
	}
	return core.UID{}, fmt.Errorf("malformed link entry")
}

// Sort orders items by level, then by item number for equal levels.
func Sort(items []*Item) {
	sort.SliceStable(items, func(a, b int) bool {
		if c := items[a].Level.Compare(items[b].Level); c != 0 {
			return c < 0
		}
		return items[a].UID.Number() < items[b].UID.Number()
	})
}

// ParseError describes a malformed item file.
type ParseError struct {
	File    string
	Message string
}

func (e *ParseError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("%s: %s", e.File, e.Message)
	}
	return e.Message
}
