package commands

import (
	"embed"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	sharedcfg "github.com/leapstack-labs/leapreq/internal/config"
)

//go:embed all:templates
var templateFS embed.FS

// copyTemplate copies an embedded template directory to the target path.
// Dotfiles are stored undotted (e.g. "gitignore", "document.yml") so the
// embedded tree is never itself discovered as a project;
// renameSpecialFiles restores their real names on the way out.
func copyTemplate(templateName, targetDir string, force bool) error {
	root := filepath.Join("templates", templateName)

	return fs.WalkDir(templateFS, root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		// Calculate relative path from template root
		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}

		// Skip root directory
		if relPath == "." {
			return nil
		}

		targetPath := filepath.Join(targetDir, renameSpecialFiles(relPath))

		if d.IsDir() {
			return os.MkdirAll(targetPath, 0750)
		}

		// Check if file exists
		if !force {
			if _, err := os.Stat(targetPath); err == nil {
				return nil // Skip existing files
			}
		}

		content, err := templateFS.ReadFile(path)
		if err != nil {
			return err
		}

		return os.WriteFile(targetPath, content, 0600)
	})
}

// renameSpecialFiles restores the dotted names of template files.
func renameSpecialFiles(path string) string {
	base := filepath.Base(path)
	dir := filepath.Dir(path)

	switch base {
	case "gitignore":
		return filepath.Join(dir, ".gitignore")
	case "document.yml":
		return filepath.Join(dir, sharedcfg.DocumentConfigName)
	default:
		return path
	}
}

// listTemplateFiles returns all files in a template for display purposes.
func listTemplateFiles(templateName string) ([]string, error) {
	var files []string
	root := filepath.Join("templates", templateName)

	err := fs.WalkDir(templateFS, root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			relPath, _ := filepath.Rel(root, path)
			files = append(files, renameSpecialFiles(relPath))
		}
		return nil
	})

	return files, err
}

// groupTemplateFiles groups files by category for display.
func groupTemplateFiles(files []string) map[string][]string {
	groups := map[string][]string{
		"config":    {},
		"documents": {},
		"sources":   {},
	}

	for _, f := range files {
		switch {
		case strings.HasPrefix(f, "src/") || strings.HasPrefix(f, "src\\"):
			groups["sources"] = append(groups["sources"], f)
		case strings.HasPrefix(f, "reqs/") || strings.HasPrefix(f, "reqs\\"),
			strings.HasPrefix(f, "design/") || strings.HasPrefix(f, "design\\"):
			groups["documents"] = append(groups["documents"], f)
		default:
			groups["config"] = append(groups["config"], f)
		}
	}

	return groups
}
