package commands

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leapreq/internal/check"
	"github.com/leapstack-labs/leapreq/internal/cli/config"
	"github.com/leapstack-labs/leapreq/internal/cli/output"
	"github.com/leapstack-labs/leapreq/internal/tree"
	"github.com/leapstack-labs/leapreq/pkg/core"
)

// CheckOptions holds options for the check command.
type CheckOptions struct {
	Format  string   // Output format: text, markdown, json
	Disable []string // Rule IDs to disable
}

// NewCheckCommand creates the check command.
func NewCheckCommand() *cobra.Command {
	opts := &CheckOptions{}
	cmd := &cobra.Command{
		Use:   "check [uid|prefix...]",
		Short: "Validate the requirement tree",
		Long: `Validate every document and item in the requirement tree.

Runs the registered check rules (document, item, link, and reference
groups) and reports any findings. Rules can be disabled or have their
severity overridden in leapreq.yaml.

Without arguments the whole tree is checked. Arguments narrow the
report to the named items or document prefixes; the full rule pass
still runs so cross-document findings stay accurate.

Output adapts to environment:
  - Terminal: Styled output with colors
  - Piped/Scripted: Markdown format
  - JSON: Machine-readable format`,
		Example: `  # Check the whole tree
  leapreq check

  # Check one document and one item
  leapreq check REQ SRD001

  # Output as JSON
  leapreq check --format json

  # Disable specific rules
  leapreq check --disable RF02,IT03

  # Fail only on errors (hints and warnings still print)
  leapreq check --fail-on error`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, markdown, json")
	cmd.Flags().StringSliceVar(&opts.Disable, "disable", nil, "Rule IDs to disable")

	return cmd
}

func runCheck(cmd *cobra.Command, args []string, opts *CheckOptions) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}

	t := cmdCtx.Tree
	cfg := cmdCtx.Cfg
	r := cmdCtx.Renderer

	// Override renderer if format flag is set
	if opts.Format != "" {
		r = output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(opts.Format))
	}

	checker := check.New(buildCheckConfig(cfg, opts, cmdCtx.Logger))
	report, err := checker.Run(cmd.Context(), t)
	if err != nil {
		return fmt.Errorf("check pass failed: %w", err)
	}

	if len(args) > 0 {
		filtered, err := filterDiagnostics(t, report.Diagnostics, args)
		if err != nil {
			return err
		}
		report = check.NewReport(report.PassID, filtered)
	}

	renderCheckReport(r, t, report)

	if report.FailsAt(cfg.FailOn) {
		return fmt.Errorf("check failed: %d findings at or above %s", countAtOrAbove(report, cfg.FailOn), cfg.FailOn)
	}
	return nil
}

// buildCheckConfig merges project config and CLI flags into a checker
// config. CLI flags take precedence.
func buildCheckConfig(cfg *config.Config, opts *CheckOptions, logger *slog.Logger) check.Config {
	checkCfg := check.Config{
		DisabledRules:     make(map[string]bool),
		SeverityOverrides: make(map[string]core.Severity),
		Logger:            logger,
	}

	for _, id := range cfg.Check.Disabled {
		checkCfg.DisabledRules[strings.TrimSpace(id)] = true
	}
	for id, sev := range cfg.Check.Severity {
		if s, ok := core.ParseSeverity(sev); ok {
			checkCfg.SeverityOverrides[id] = s
		}
	}

	for _, id := range opts.Disable {
		checkCfg.DisabledRules[strings.TrimSpace(id)] = true
	}

	return checkCfg
}

// filterDiagnostics keeps the findings attached to the given item UIDs
// or document prefixes. Findings without a location, like link cycles,
// are always kept.
func filterDiagnostics(t *tree.Tree, diags []check.Diagnostic, args []string) ([]check.Diagnostic, error) {
	prefixes := make(map[string]bool)
	uids := make(map[string]bool)
	for _, arg := range args {
		if doc, err := t.FindDocument(arg); err == nil {
			prefixes[doc.Prefix] = true
			continue
		}
		if it, _, err := t.FindItem(arg); err == nil {
			uids[it.UID.String()] = true
			continue
		}
		return nil, fmt.Errorf("no document or item named %q", arg)
	}

	var filtered []check.Diagnostic
	for _, d := range diags {
		if d.UID == "" && d.Document == "" {
			filtered = append(filtered, d)
			continue
		}
		if uids[d.UID] || prefixes[d.Document] {
			filtered = append(filtered, d)
		}
	}
	return filtered, nil
}

func countAtOrAbove(report *check.Report, threshold core.Severity) int {
	n := 0
	for _, d := range report.Diagnostics {
		if d.Severity <= threshold {
			n++
		}
	}
	return n
}

func renderCheckReport(r *output.Renderer, t *tree.Tree, report *check.Report) {
	switch r.EffectiveMode() {
	case output.ModeJSON:
		renderCheckJSON(r, t, report)
	case output.ModeMarkdown:
		renderCheckMarkdown(r, t, report)
	default:
		renderCheckText(r, t, report)
	}
}

func renderCheckJSON(r *output.Renderer, t *tree.Tree, report *check.Report) {
	jsonOutput := output.CheckOutput{
		Summary: output.CheckSummary{
			Documents: len(t.Documents()),
			Items:     t.ItemCount(),
			Findings:  report.Total(),
			Errors:    report.Errors,
			Warnings:  report.Warnings,
			Infos:     report.Infos,
			Hints:     report.Hints,
		},
	}
	for _, d := range report.Diagnostics {
		jsonOutput.Findings = append(jsonOutput.Findings, output.CheckFinding{
			Rule:     d.RuleID,
			Severity: d.Severity.String(),
			UID:      d.UID,
			Document: d.Document,
			Message:  d.Message,
		})
	}
	_ = r.JSON(jsonOutput)
}

func renderCheckText(r *output.Renderer, t *tree.Tree, report *check.Report) {
	if report.Clean() {
		r.Success(fmt.Sprintf("No findings in %d documents, %d items", len(t.Documents()), t.ItemCount()))
		return
	}

	r.Header(1, fmt.Sprintf("Check (%d documents, %d items)", len(t.Documents()), t.ItemCount()))

	tw := table.NewWriter()
	tw.SetOutputMirror(r.Writer())
	tw.SetStyle(table.StyleLight)
	tw.AppendHeader(table.Row{"SEVERITY", "RULE", "LOCATION", "MESSAGE"})
	for _, d := range report.Diagnostics {
		tw.AppendRow(table.Row{severityStyle(r, d.Severity), d.RuleID, checkLocation(d), d.Message})
	}
	tw.Render()
	r.Printf("Summary: %s\n", checkSummaryLine(report))
}

func renderCheckMarkdown(r *output.Renderer, t *tree.Tree, report *check.Report) {
	if report.Clean() {
		r.Success(fmt.Sprintf("No findings in %d documents, %d items", len(t.Documents()), t.ItemCount()))
		return
	}

	r.Println(output.FormatHeader(1, "Check Findings"))
	r.Println("")
	for _, d := range report.Diagnostics {
		r.Printf("- **%s** %s (%s): %s\n", checkLocation(d), d.RuleID, d.Severity, d.Message)
	}
	r.Println("")
	r.Printf("Summary: %s\n", checkSummaryLine(report))
}

// checkLocation names where a finding sits: item UID, document prefix,
// or "-" for tree-wide findings.
func checkLocation(d check.Diagnostic) string {
	if d.UID != "" {
		return d.UID
	}
	if d.Document != "" {
		return d.Document
	}
	return "-"
}

func checkSummaryLine(report *check.Report) string {
	summaryParts := []string{fmt.Sprintf("%d findings", report.Total())}
	if report.Errors > 0 {
		summaryParts = append(summaryParts, fmt.Sprintf("%d errors", report.Errors))
	}
	if report.Warnings > 0 {
		summaryParts = append(summaryParts, fmt.Sprintf("%d warnings", report.Warnings))
	}
	if report.Infos > 0 {
		summaryParts = append(summaryParts, fmt.Sprintf("%d info", report.Infos))
	}
	if report.Hints > 0 {
		summaryParts = append(summaryParts, fmt.Sprintf("%d hints", report.Hints))
	}
	return strings.Join(summaryParts, ", ")
}

func severityStyle(r *output.Renderer, sev core.Severity) string {
	switch sev {
	case core.SeverityError:
		return r.Styles().Error.Render("error  ")
	case core.SeverityWarning:
		return r.Styles().Warning.Render("warning")
	case core.SeverityInfo:
		return r.Styles().Info.Render("info   ")
	case core.SeverityHint:
		return r.Styles().Muted.Render("hint   ")
	default:
		return r.Styles().Muted.Render("unknown")
	}
}
