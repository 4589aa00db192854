// Package document models one requirements document: a directory of
// item files governed by a .leapreq.yml configuration.
package document

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/leapstack-labs/leapreq/internal/item"
	"github.com/leapstack-labs/leapreq/pkg/core"
)

// ConfigName is the file that marks a directory as a document.
const ConfigName = ".leapreq.yml"

// defaultDigits is the item number width used when the configuration
// does not set one.
const defaultDigits = 3

// Document is one directory of requirement items.
type Document struct {
	Path   string // absolute path of the document directory
	Prefix string
	Digits int
	Sep    string
	Parent string // prefix of the parent document, empty for roots

	// PublishAttrs lists custom item attributes included in published
	// output, in order.
	PublishAttrs []string

	Items []*item.Item
}

// configYAML is an internal type for YAML unmarshaling.
type configYAML struct {
	Settings struct {
		Prefix string `yaml:"prefix"`
		Digits int    `yaml:"digits"`
		Sep    string `yaml:"sep"`
		Parent string `yaml:"parent"`
	} `yaml:"settings"`
	Attributes struct {
		Publish []string `yaml:"publish"`
	} `yaml:"attributes"`
}

// Load reads the document configuration in dir. Items are not loaded
// until LoadItems is called.
func Load(dir string) (*Document, error) {
	path := filepath.Join(dir, ConfigName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading document config: %w", err)
	}

	var y configYAML
	if err := yaml.Unmarshal(data, &y); err != nil {
		return nil, fmt.Errorf("%s: invalid YAML: %w", path, err)
	}
	if y.Settings.Prefix == "" {
		return nil, fmt.Errorf("%s: document needs a prefix", path)
	}
	digits := y.Settings.Digits
	if digits <= 0 {
		digits = defaultDigits
	}

	return &Document{
		Path:         dir,
		Prefix:       y.Settings.Prefix,
		Digits:       digits,
		Sep:          y.Settings.Sep,
		Parent:       y.Settings.Parent,
		PublishAttrs: y.Attributes.Publish,
	}, nil
}

// LoadItems scans the document directory for item files matching the
// document prefix and parses each. Items end up sorted by level.
func (d *Document) LoadItems() error {
	entries, err := os.ReadDir(d.Path)
	if err != nil {
		return fmt.Errorf("reading document directory: %w", err)
	}

	var items []*item.Item
	for _, entry := range entries {
		if entry.IsDir() || !isItemFile(entry.Name()) {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
		uid, err := core.ParseUID(name)
		if err != nil || !uid.SamePrefix(d.Prefix) {
			continue
		}
		it, err := item.Load(filepath.Join(d.Path, entry.Name()))
		if err != nil {
			return fmt.Errorf("document %s: %w", d.Prefix, err)
		}
		items = append(items, it)
	}
	item.Sort(items)
	d.Items = items
	return nil
}

// isItemFile reports whether the file name can hold an item.
func isItemFile(name string) bool {
	if strings.HasPrefix(name, ".") {
		return false
	}
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".yml" || ext == ".yaml"
}

// FindItem returns the item with the given UID, or nil.
func (d *Document) FindItem(uid string) *item.Item {
	for _, it := range d.Items {
		if strings.EqualFold(it.UID.String(), uid) {
			return it
		}
	}
	return nil
}

// NextNumber returns one more than the highest assigned item number.
func (d *Document) NextNumber() int {
	next := 1
	for _, it := range d.Items {
		if n := it.UID.Number(); n >= next {
			next = n + 1
		}
	}
	return next
}

// NewUID mints the UID an item numbered n would carry in this document.
func (d *Document) NewUID(n int) core.UID {
	return core.NewUID(d.Prefix, d.Sep, n, d.Digits)
}
