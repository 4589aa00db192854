package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leapreq/internal/cli/output"
	sharedcfg "github.com/leapstack-labs/leapreq/internal/config"
)

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	var force bool
	var example bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new requirements project",
		Long: `Initialize a new leapreq project with a starter document and configuration.

This creates:
  - leapreq.yaml configuration file
  - reqs/ directory holding the root requirements document
  - a first requirement item to copy from

Use --example to create a working demo project instead: a requirements
document, a design document linking into it, and a source file the demo
references resolve to.`,
		Example: `  # Initialize in the current directory
  leapreq init

  # Initialize with a working demo project
  leapreq init --example

  # Initialize in a new directory
  leapreq init my-project

  # Force overwrite existing configuration
  leapreq init --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			cmdCtx := NewCommandContextWithoutTree(cmd)
			if example {
				return runInitExample(cmdCtx.Renderer, dir, force)
			}
			return runInit(cmdCtx.Renderer, dir, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing configuration")
	cmd.Flags().BoolVar(&example, "example", false, "Create a working demo project with linked documents and sources")

	return cmd
}

func runInit(r *output.Renderer, dir string, force bool) error {
	if err := prepareInitDir(dir, force); err != nil {
		return err
	}

	if err := copyTemplate("minimal", dir, force); err != nil {
		return fmt.Errorf("failed to initialize project: %w", err)
	}

	files, _ := listTemplateFiles("minimal")
	for _, f := range files {
		r.Printf("  %s\n", f)
	}

	r.Println("")
	r.Success("leapreq project initialized!")
	r.Println("")
	r.Println("Next steps:")
	r.Println("  1. State your first requirement in reqs/REQ001.yml")
	r.Println("  2. Add further items as REQ002.yml, REQ003.yml, ...")
	r.Println("  3. Run 'leapreq check' to validate the tree")
	r.Println("  4. Run 'leapreq publish' to render documents")

	return nil
}

func runInitExample(r *output.Renderer, dir string, force bool) error {
	if err := prepareInitDir(dir, force); err != nil {
		return err
	}

	if err := copyTemplate("example", dir, force); err != nil {
		return fmt.Errorf("failed to initialize project: %w", err)
	}

	files, _ := listTemplateFiles("example")
	groups := groupTemplateFiles(files)

	r.Header(2, "Configuration")
	for _, f := range groups["config"] {
		r.Printf("  %s\n", f)
	}

	r.Println("")
	r.Header(2, "Documents")
	for _, f := range groups["documents"] {
		r.Printf("  %s\n", f)
	}

	r.Println("")
	r.Header(2, "Sources")
	for _, f := range groups["sources"] {
		r.Printf("  %s\n", f)
	}

	r.Println("")
	r.Success("leapreq project initialized with a demo tree!")
	r.Println("")
	r.Println("Next steps:")
	r.Println("  leapreq check    Validate items, links, and references")
	r.Println("  leapreq trace    Resolve references into the source corpus")
	r.Println("  leapreq publish  Render documents to markdown")
	r.Println("  leapreq serve    Browse the tree in a web UI")

	return nil
}

// prepareInitDir creates the target directory and refuses to overwrite
// an existing project config unless forced.
func prepareInitDir(dir string, force bool) error {
	if dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	configPath := filepath.Join(dir, sharedcfg.ConfigFileName)
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("%s already exists. Use --force to overwrite", sharedcfg.ConfigFileName)
	}

	return nil
}
