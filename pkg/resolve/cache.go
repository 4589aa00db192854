package resolve

import (
	"bytes"
	"log/slog"
	"os"
	"strings"
	"sync"
	"unicode/utf8"
)

// lineCache memoizes the text lines of files by absolute path for the
// lifetime of one resolution pass. Entries are never invalidated; a pass
// runs against a static snapshot. Safe for concurrent use.
type lineCache struct {
	logger *slog.Logger

	mu      sync.Mutex
	entries map[string][]string
}

func newLineCache(logger *slog.Logger) *lineCache {
	return &lineCache{
		logger:  logger,
		entries: make(map[string][]string),
	}
}

// lines returns the 1-indexed text lines of the file at path, loading
// them on first access. Unreadable or non-text files yield nil; the
// verdict is remembered so a bad file is read at most once per pass.
func (c *lineCache) lines(path string) []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if lines, ok := c.entries[path]; ok {
		return lines
	}
	lines := c.read(path)
	c.entries[path] = lines
	return lines
}

// read loads a file and splits it into lines. It returns nil when the
// file cannot be read or does not decode as text, so binary blobs never
// contribute content matches.
func (c *lineCache) read(path string) []string {
	data, err := os.ReadFile(path)
	if err != nil {
		c.logger.Debug("unable to read lines", "path", path, "error", err)
		return nil
	}
	if bytes.IndexByte(data, 0) >= 0 || !utf8.Valid(data) {
		c.logger.Debug("skipping non-text content", "path", path)
		return nil
	}
	return strings.Split(string(data), "\n")
}
