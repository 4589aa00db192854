package vcs

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"path"
	"path/filepath"
	"strings"

	"github.com/leapstack-labs/leapreq/pkg/core"
)

// Git enumerates tracked files by asking git itself, so ignored and
// untracked files never enter the corpus.
type Git struct {
	root   string
	logger *slog.Logger
}

// NewGit creates a git-backed working copy rooted at root.
func NewGit(root string, logger *slog.Logger) *Git {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Git{root: root, logger: logger}
}

// Root implements WorkingCopy.
func (g *Git) Root() string { return g.root }

// Kind implements WorkingCopy.
func (g *Git) Kind() string { return "git" }

// Paths runs "git ls-files -z" and converts the NUL-delimited output
// into corpus entries. Git's path-sorted output order is the corpus
// order. Tracked files deleted from disk still appear; resolution
// treats them as unreadable.
func (g *Git) Paths(ctx context.Context) ([]core.TrackedFile, error) {
	cmd := exec.CommandContext(ctx, "git", "ls-files", "-z")
	cmd.Dir = g.root
	output, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("git ls-files in %s: %w", g.root, err)
	}
	files := parseLsFiles(g.root, output)
	g.logger.Debug("enumerated tracked files", "vcs", "git", "count", len(files))
	return files, nil
}

// parseLsFiles converts NUL-delimited ls-files output into corpus
// entries. Git reports forward-slash paths relative to the root; the
// relative form is kept as-is.
func parseLsFiles(root string, output []byte) []core.TrackedFile {
	var files []core.TrackedFile
	for _, rel := range strings.Split(string(output), "\x00") {
		if rel == "" {
			continue
		}
		files = append(files, core.TrackedFile{
			Path:    filepath.Join(root, filepath.FromSlash(rel)),
			Name:    path.Base(rel),
			RelPath: rel,
		})
	}
	return files
}
