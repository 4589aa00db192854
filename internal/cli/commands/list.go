package commands

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leapreq/internal/cli/output"
	"github.com/leapstack-labs/leapreq/internal/document"
	"github.com/leapstack-labs/leapreq/internal/tree"
	"github.com/leapstack-labs/leapreq/pkg/core"
)

// NewListCommand creates the list command.
func NewListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list [prefix]",
		Short: "List documents and items",
		Long: `List the documents in the requirement tree, or the items of one
document when a prefix is given.

Output adapts to environment:
  - Terminal: Styled table output
  - Piped/Scripted: Markdown format (agent-friendly)

Use --output to override: auto, text, markdown, json`,
		Example: `  # List all documents
  leapreq list

  # List the items of the REQ document
  leapreq list REQ

  # List items as JSON
  leapreq list REQ --output json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prefix := ""
			if len(args) > 0 {
				prefix = args[0]
			}
			return runList(cmd, prefix)
		},
	}

	return cmd
}

func runList(cmd *cobra.Command, prefix string) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}

	t := cmdCtx.Tree
	r := cmdCtx.Renderer

	if prefix != "" {
		doc, err := t.FindDocument(prefix)
		if err != nil {
			return err
		}
		return listItems(r, t, doc)
	}
	return listDocuments(r, t)
}

func listDocuments(r *output.Renderer, t *tree.Tree) error {
	docs := t.Documents()

	switch r.EffectiveMode() {
	case output.ModeJSON:
		listOutput := output.ListOutput{
			Documents: make([]output.DocumentInfo, 0, len(docs)),
		}
		for _, doc := range docs {
			listOutput.Documents = append(listOutput.Documents, output.DocumentInfo{
				Prefix: doc.Prefix,
				Parent: doc.Parent,
				Path:   relPath(t.Root(), doc.Path),
				Items:  len(doc.Items),
			})
		}
		return r.JSON(listOutput)

	case output.ModeMarkdown:
		r.Println(output.FormatHeader(1, fmt.Sprintf("Documents (%d total)", len(docs))))
		r.Println("")
		for _, doc := range docs {
			r.Println(output.FormatHeader(2, doc.Prefix))
			r.Println(output.FormatKeyValue("Path", relPath(t.Root(), doc.Path)))
			if doc.Parent != "" {
				r.Println(output.FormatKeyValue("Parent", doc.Parent))
			}
			r.Println(output.FormatKeyValue("Items", fmt.Sprintf("%d", len(doc.Items))))
			r.Println("")
		}
		return nil

	default:
		r.Header(1, fmt.Sprintf("Documents (%d total)", len(docs)))

		tw := table.NewWriter()
		tw.SetOutputMirror(r.Writer())
		tw.SetStyle(table.StyleLight)
		tw.AppendHeader(table.Row{"PREFIX", "PATH", "PARENT", "ITEMS"})
		for _, doc := range docs {
			parent := doc.Parent
			if parent == "" {
				parent = "-"
			}
			tw.AppendRow(table.Row{doc.Prefix, relPath(t.Root(), doc.Path), parent, len(doc.Items)})
		}
		tw.Render()
		r.Printf("(%d documents)\n", len(docs))
		return nil
	}
}

func listItems(r *output.Renderer, t *tree.Tree, doc *document.Document) error {
	switch r.EffectiveMode() {
	case output.ModeJSON:
		docOutput := output.DocumentListOutput{
			Prefix: doc.Prefix,
			Items:  make([]output.ItemInfo, 0, len(doc.Items)),
		}
		for _, it := range doc.Items {
			docOutput.Items = append(docOutput.Items, output.ItemInfo{
				UID:       it.UID.String(),
				Level:     it.Level.String(),
				Header:    it.Header,
				Text:      it.Text,
				Links:     linkStrings(it.Links),
				Active:    it.Active,
				Normative: it.Normative,
			})
		}
		return r.JSON(docOutput)

	case output.ModeMarkdown:
		r.Println(output.FormatHeader(1, fmt.Sprintf("%s (%d items)", doc.Prefix, len(doc.Items))))
		r.Println("")
		for _, it := range doc.Items {
			r.Println(output.FormatHeader(2, it.UID.String()))
			r.Println(output.FormatKeyValue("Level", it.Level.String()))
			if it.Header != "" {
				r.Println(output.FormatKeyValue("Header", it.Header))
			}
			if len(it.Links) > 0 {
				r.Println(output.FormatKeyValue("Links", strings.Join(linkStrings(it.Links), ", ")))
			}
			if !it.Active {
				r.Println(output.FormatKeyValue("Active", "false"))
			}
			if !it.Normative {
				r.Println(output.FormatKeyValue("Normative", "false"))
			}
			r.Println("")
		}
		return nil

	default:
		r.Header(1, fmt.Sprintf("%s (%d items)", doc.Prefix, len(doc.Items)))

		tw := table.NewWriter()
		tw.SetOutputMirror(r.Writer())
		tw.SetStyle(table.StyleLight)
		tw.AppendHeader(table.Row{"UID", "LEVEL", "TITLE", "LINKS"})
		for _, it := range doc.Items {
			title := itemTitle(it.Header, it.Text)
			if !it.Active {
				title += " (inactive)"
			}
			links := strings.Join(linkStrings(it.Links), ", ")
			if links == "" {
				links = "-"
			}
			tw.AppendRow(table.Row{it.UID.String(), it.Level.String(), title, links})
		}
		tw.Render()
		r.Printf("(%d items)\n", len(doc.Items))
		return nil
	}
}

func relPath(root, path string) string {
	if rel, err := filepath.Rel(root, path); err == nil {
		return rel
	}
	return path
}

func linkStrings(links []core.UID) []string {
	out := make([]string, 0, len(links))
	for _, l := range links {
		out = append(out, l.String())
	}
	return out
}

// itemTitle returns a one-line label for table rows: the header when
// set, otherwise the first line of the item text.
func itemTitle(header, text string) string {
	title := header
	if title == "" {
		title, _, _ = strings.Cut(strings.TrimSpace(text), "\n")
	}
	if runes := []rune(title); len(runes) > 48 {
		title = string(runes[:45]) + "..."
	}
	return title
}
