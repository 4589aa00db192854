// Package vcs enumerates the tracked files of a working copy. The
// resulting snapshot is the corpus that reference resolution runs
// against; its order is stable for the lifetime of one pass.
package vcs

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/leapstack-labs/leapreq/pkg/core"
)

// WorkingCopy supplies the ordered tracked-file corpus for a project.
type WorkingCopy interface {
	// Root returns the absolute project root.
	Root() string
	// Kind names the implementation, e.g. "git" or "none".
	Kind() string
	// Paths returns the ordered tracked-file snapshot. Callers treat the
	// result as immutable for the duration of a pass.
	Paths(ctx context.Context) ([]core.TrackedFile, error)
}

// ForKind returns the working copy for an explicit configuration value:
// "git", "none" (plain directory walk), or "auto" detection.
func ForKind(kind, root string, logger *slog.Logger) (WorkingCopy, error) {
	switch kind {
	case "", "auto":
		return Detect(root, logger), nil
	case "git":
		return NewGit(root, logger), nil
	case "none":
		return NewWalker(root, logger), nil
	default:
		return nil, fmt.Errorf("unknown vcs kind %q", kind)
	}
}

// Detect picks the working-copy implementation for root: Git when the
// directory is inside a git repository, Walker otherwise.
func Detect(root string, logger *slog.Logger) WorkingCopy {
	if isGitRepository(root) {
		return NewGit(root, logger)
	}
	return NewWalker(root, logger)
}

// isGitRepository checks if the given path is inside a git repository.
func isGitRepository(root string) bool {
	cmd := exec.Command("git", "rev-parse", "--git-dir")
	cmd.Dir = root
	return cmd.Run() == nil
}

// FindRoot locates the project root for start: the enclosing git
// top-level when one exists, otherwise the nearest ancestor containing
// one of the anchor files, otherwise start itself.
func FindRoot(start string, anchors ...string) string {
	abs, err := filepath.Abs(start)
	if err != nil {
		return start
	}
	if top, err := gitTopLevel(abs); err == nil {
		return top
	}
	dir := abs
	for {
		for _, anchor := range anchors {
			if _, err := os.Stat(filepath.Join(dir, anchor)); err == nil {
				return dir
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return abs
		}
		dir = parent
	}
}

// gitTopLevel finds the git repository root from the given directory.
func gitTopLevel(dir string) (string, error) {
	cmd := exec.Command("git", "rev-parse", "--show-toplevel")
	cmd.Dir = dir
	output, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("not a git repository: %w", err)
	}
	return strings.TrimSpace(string(output)), nil
}
