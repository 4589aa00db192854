package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leapreq/internal/document"
	"github.com/leapstack-labs/leapreq/internal/publish"
)

// PublishOptions holds options for the publish command.
type PublishOptions struct {
	Format string // Publish format: markdown, text
	Dir    string // Output directory; stdout when empty
}

// NewPublishCommand creates the publish command.
func NewPublishCommand() *cobra.Command {
	opts := &PublishOptions{}
	cmd := &cobra.Command{
		Use:   "publish [prefix]",
		Short: "Render documents to markdown or text",
		Long: `Render requirement documents for reading outside the tree.

Without arguments every document is published; a prefix publishes one
document. Output goes to stdout unless --dir (or publish.output in
leapreq.yaml) names a directory, in which case one file per document
is written and cross-document item links become hyperlinks.`,
		Example: `  # Publish every document to stdout as markdown
  leapreq publish

  # Publish one document as plain text
  leapreq publish REQ --format text

  # Write one markdown file per document
  leapreq publish --dir ./public`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prefix := ""
			if len(args) > 0 {
				prefix = args[0]
			}
			return runPublish(cmd, prefix, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Publish format: markdown, text")
	cmd.Flags().StringVarP(&opts.Dir, "dir", "d", "", "Write one file per document into dir")
	_ = cmd.RegisterFlagCompletionFunc("format", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return []string{"markdown", "text"}, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func runPublish(cmd *cobra.Command, prefix string, opts *PublishOptions) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}

	t := cmdCtx.Tree
	cfg := cmdCtx.Cfg
	r := cmdCtx.Renderer

	format := cfg.Publish.Format
	if opts.Format != "" {
		format = opts.Format
	}
	dir := cfg.Publish.Output
	if opts.Dir != "" {
		dir = opts.Dir
	}

	pub, err := publish.ForFormat(format, publish.Config{
		Tree:     t,
		Resolver: t.Resolver(),
		Linkify:  dir != "" && isMarkdown(format),
	})
	if err != nil {
		return err
	}

	var docs []*document.Document
	if prefix != "" {
		doc, err := t.FindDocument(prefix)
		if err != nil {
			return err
		}
		docs = []*document.Document{doc}
	} else {
		docs = t.Documents()
	}

	if dir == "" {
		for i, doc := range docs {
			if i > 0 {
				r.Println("")
			}
			if err := pub.Publish(r.Writer(), doc); err != nil {
				return fmt.Errorf("publishing %s: %w", doc.Prefix, err)
			}
		}
		return nil
	}

	if prefix != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
		path := filepath.Join(dir, docs[0].Prefix+pub.Extension())
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("creating %s: %w", path, err)
		}
		err = pub.Publish(f, docs[0])
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return fmt.Errorf("publishing %s: %w", docs[0].Prefix, err)
		}
		r.Success(fmt.Sprintf("Published %s", path))
		return nil
	}

	written, err := publish.Tree(t, pub, dir)
	if err != nil {
		return err
	}
	r.Success(fmt.Sprintf("Published %d documents to %s", len(written), dir))
	if cmdCtx.Cfg.Verbose {
		for _, path := range written {
			r.Printf("  %s\n", path)
		}
	}
	return nil
}

func isMarkdown(format string) bool {
	switch strings.ToLower(format) {
	case "markdown", "md":
		return true
	}
	return false
}
