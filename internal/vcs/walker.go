package vcs

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/leapstack-labs/leapreq/pkg/core"
)

// Walker enumerates files by walking the directory tree in lexical
// order. It serves projects that are not under version control.
// Dot-directories (.git and friends) are skipped; hidden files are
// kept, matching what git would track.
type Walker struct {
	root   string
	logger *slog.Logger
}

// NewWalker creates a directory-walking working copy rooted at root.
func NewWalker(root string, logger *slog.Logger) *Walker {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Walker{root: root, logger: logger}
}

// Root implements WorkingCopy.
func (w *Walker) Root() string { return w.root }

// Kind implements WorkingCopy.
func (w *Walker) Kind() string { return "none" }

// Paths implements WorkingCopy.
func (w *Walker) Paths(ctx context.Context) ([]core.TrackedFile, error) {
	var files []core.TrackedFile
	err := filepath.WalkDir(w.root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			if p != w.root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(w.root, p)
		if err != nil {
			return err
		}
		files = append(files, core.TrackedFile{
			Path:    p,
			Name:    d.Name(),
			RelPath: filepath.ToSlash(rel),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", w.root, err)
	}
	w.logger.Debug("enumerated tracked files", "vcs", "none", "count", len(files))
	return files, nil
}
