package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leapreq/internal/cli/output"
	"github.com/leapstack-labs/leapreq/internal/item"
	"github.com/leapstack-labs/leapreq/pkg/resolve"
)

// TraceOptions holds options for the trace command.
type TraceOptions struct {
	Format string // Output format: text, markdown, json
	All    bool   // Trace every item instead of one UID
}

// NewTraceCommand creates the trace command.
func NewTraceCommand() *cobra.Command {
	opts := &TraceOptions{}
	cmd := &cobra.Command{
		Use:   "trace [uid]",
		Short: "Resolve item references against the corpus",
		Long: `Resolve the external references of an item and show where each
one lands in the version-controlled corpus.

Every reference becomes a query: the legacy ref keyword and file
references resolve to a single best match, search references to every
matching line. Matches report the file path and, for content matches,
the 1-indexed line.`,
		Example: `  # Trace one item
  leapreq trace REQ001

  # Trace every item in the tree
  leapreq trace --all

  # Machine-readable trace of one item
  leapreq trace REQ001 --format json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && !opts.All {
				return fmt.Errorf("a UID argument or --all is required")
			}
			return runTrace(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, markdown, json")
	cmd.Flags().BoolVar(&opts.All, "all", false, "Trace every item in the tree")

	return cmd
}

func runTrace(cmd *cobra.Command, args []string, opts *TraceOptions) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}

	t := cmdCtx.Tree
	r := cmdCtx.Renderer

	// Override renderer if format flag is set
	if opts.Format != "" {
		r = output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(opts.Format))
	}

	var items []*item.Item
	if opts.All {
		for _, doc := range t.Documents() {
			items = append(items, doc.Items...)
		}
	} else {
		it, _, err := t.FindItem(args[0])
		if err != nil {
			return err
		}
		items = []*item.Item{it}
	}

	resolver := t.Resolver()
	traceOutput := output.TraceOutput{Items: make([]output.TraceItem, 0, len(items))}
	for _, it := range items {
		traced := output.TraceItem{UID: it.UID.String()}
		for _, q := range it.Queries() {
			tq := output.TraceQuery{Query: q.Describe()}
			res, err := resolver.Resolve(q, it.Path)
			if err != nil {
				tq.Error = err.Error()
			} else {
				tq.Resolved = res.Found()
				tq.Matches = traceMatches(res)
			}
			traced.Queries = append(traced.Queries, tq)
		}
		traceOutput.Items = append(traceOutput.Items, traced)
	}

	return renderTrace(r, traceOutput)
}

// traceMatches flattens a resolution into match rows.
func traceMatches(res resolve.Resolution) []output.TraceMatch {
	switch res := res.(type) {
	case resolve.Single:
		if res.Match == nil {
			return nil
		}
		return []output.TraceMatch{{Path: res.Match.Path, Line: res.Match.Line}}
	case resolve.Multiple:
		matches := make([]output.TraceMatch, 0, len(res.Matches))
		for _, m := range res.Matches {
			matches = append(matches, output.TraceMatch{Path: m.Path, Line: m.Line})
		}
		return matches
	default:
		return nil
	}
}

func renderTrace(r *output.Renderer, traceOutput output.TraceOutput) error {
	mode := r.EffectiveMode()

	if mode == output.ModeJSON {
		return r.JSON(traceOutput)
	}

	if mode == output.ModeMarkdown {
		for _, it := range traceOutput.Items {
			r.Println(output.FormatHeader(2, it.UID))
			if len(it.Queries) == 0 {
				r.Println("No references.")
				r.Println("")
				continue
			}
			for _, q := range it.Queries {
				r.Println(output.FormatKeyValue(q.Query, traceSummary(q)))
			}
			r.Println("")
		}
		return nil
	}

	for _, it := range traceOutput.Items {
		r.Println(r.Styles().Header2.Render(it.UID))
		if len(it.Queries) == 0 {
			r.Printf("  %s\n", r.Styles().Muted.Render("no references"))
			r.Println("")
			continue
		}
		for _, q := range it.Queries {
			status := r.Styles().StatusSuccess.String()
			if q.Error != "" || !q.Resolved {
				status = r.Styles().StatusFailed.String()
			}
			r.Printf("  %s  %s\n", status, q.Query)
			if q.Error != "" {
				r.Printf("      %s\n", r.Styles().Error.Render(q.Error))
				continue
			}
			for _, m := range q.Matches {
				r.Printf("      %s\n", r.Styles().Path.Render(matchLabel(m)))
			}
		}
		r.Println("")
	}
	return nil
}

// traceSummary renders one query outcome as a single line.
func traceSummary(q output.TraceQuery) string {
	if q.Error != "" {
		return "error: " + q.Error
	}
	if !q.Resolved {
		return "unresolved"
	}
	parts := make([]string, 0, len(q.Matches))
	for _, m := range q.Matches {
		parts = append(parts, matchLabel(m))
	}
	return joinLimited(parts, 5)
}

func matchLabel(m output.TraceMatch) string {
	if m.Line > 0 {
		return fmt.Sprintf("%s:%d", m.Path, m.Line)
	}
	return m.Path
}

// joinLimited joins up to limit entries and notes how many were elided.
func joinLimited(parts []string, limit int) string {
	if len(parts) > limit {
		return fmt.Sprintf("%s, and %d more", strings.Join(parts[:limit], ", "), len(parts)-limit)
	}
	return strings.Join(parts, ", ")
}
