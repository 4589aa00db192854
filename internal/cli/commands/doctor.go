package commands

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leapreq/internal/check"
	"github.com/leapstack-labs/leapreq/internal/cli/output"
	"github.com/leapstack-labs/leapreq/internal/tree"
	"github.com/leapstack-labs/leapreq/pkg/core"
)

// DoctorOptions holds options for the doctor command.
type DoctorOptions struct {
	Format string // Output format: text, json
}

// NewDoctorCommand creates the doctor command.
func NewDoctorCommand() *cobra.Command {
	opts := &DoctorOptions{}
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Run a comprehensive project health check",
		Long: `Analyze your requirement tree for potential issues.

The doctor command runs every check rule and provides a report
including:
- Project summary (documents, items, corpus, VCS)
- Health checks grouped by category (Document, Item, Link, Reference)
- Health score (0-100)
- Actionable recommendations

Output adapts to environment:
  - Terminal: Styled output with colors
  - Piped/Scripted: Markdown format
  - JSON: Machine-readable format`,
		Example: `  # Run health check
  leapreq doctor

  # Output as JSON
  leapreq doctor --format json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDoctor(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, json")

	return cmd
}

// DoctorOutput is the JSON output for the doctor command.
type DoctorOutput struct {
	Summary         ProjectSummary `json:"summary"`
	HealthChecks    []HealthCheck  `json:"health_checks"`
	Score           int            `json:"score"`
	Recommendations []string       `json:"recommendations"`
	FindingCount    int            `json:"finding_count"`
}

// ProjectSummary contains tree-level statistics.
type ProjectSummary struct {
	Documents      int      `json:"documents"`
	Items          int      `json:"items"`
	CorpusFiles    int      `json:"corpus_files"`
	VCS            string   `json:"vcs"`
	SkipExtensions []string `json:"skip_extensions,omitempty"`
}

// HealthCheck represents a single rule's result over the whole tree.
type HealthCheck struct {
	RuleID       string   `json:"rule_id"`
	Name         string   `json:"name"`
	Group        string   `json:"group"`
	Status       string   `json:"status"` // "pass", "warn", "error"
	FindingCount int      `json:"finding_count"`
	Details      []string `json:"details,omitempty"`
}

func runDoctor(cmd *cobra.Command, opts *DoctorOptions) error {
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

	if len(t.Documents()) == 0 {
		r.Warning("No documents found in project")
		return nil
	}

	// Doctor runs every rule at default severity; project overrides
	// would hide exactly the findings it is meant to surface.
	checker := check.New(check.Config{Logger: cmdCtx.Logger})
	report, err := checker.Run(cmd.Context(), t)
	if err != nil {
		return fmt.Errorf("check pass failed: %w", err)
	}

	doctorOutput := buildDoctorOutput(t, cfg.SkipExtensions, report)

	effectiveMode := r.EffectiveMode()
	switch effectiveMode {
	case output.ModeJSON:
		return r.JSON(doctorOutput)
	case output.ModeMarkdown:
		return renderDoctorMarkdown(r, doctorOutput)
	default:
		return renderDoctorText(r, doctorOutput)
	}
}

func buildDoctorOutput(t *tree.Tree, skipExtensions []string, report *check.Report) *DoctorOutput {
	summary := ProjectSummary{
		Documents:      len(t.Documents()),
		Items:          t.ItemCount(),
		CorpusFiles:    len(t.Corpus()),
		VCS:            t.VCSKind(),
		SkipExtensions: skipExtensions,
	}

	// Group findings by rule
	diagsByRule := make(map[string][]check.Diagnostic)
	for _, d := range report.Diagnostics {
		diagsByRule[d.RuleID] = append(diagsByRule[d.RuleID], d)
	}

	// Build health checks from all registered rules
	rules := check.GetAll()
	healthChecks := make([]HealthCheck, 0, len(rules))

	for _, rule := range rules {
		ruleDiags := diagsByRule[rule.ID]
		status := "pass"
		if len(ruleDiags) > 0 {
			if rule.Severity == core.SeverityError {
				status = "error"
			} else {
				status = "warn"
			}
		}

		details := make([]string, 0, len(ruleDiags))
		for _, d := range ruleDiags {
			detail := d.Message
			if d.UID != "" {
				detail = d.UID + ": " + detail
			}
			details = append(details, detail)
		}

		healthChecks = append(healthChecks, HealthCheck{
			RuleID:       rule.ID,
			Name:         rule.Name,
			Group:        rule.Group,
			Status:       status,
			FindingCount: len(ruleDiags),
			Details:      details,
		})
	}

	// Sort health checks by group then by rule ID
	sort.Slice(healthChecks, func(i, j int) bool {
		if healthChecks[i].Group != healthChecks[j].Group {
			return healthChecks[i].Group < healthChecks[j].Group
		}
		return healthChecks[i].RuleID < healthChecks[j].RuleID
	})

	score := calculateHealthScore(healthChecks, summary.Items)
	recommendations := generateRecommendations(healthChecks)

	return &DoctorOutput{
		Summary:         summary,
		HealthChecks:    healthChecks,
		Score:           score,
		Recommendations: recommendations,
		FindingCount:    report.Total(),
	}
}

// calculateHealthScore computes a health score from 0-100.
// The scoring weights:
// - Each passing rule adds points
// - Each finding reduces points
// - More items means findings have less individual impact
func calculateHealthScore(checks []HealthCheck, itemCount int) int {
	if len(checks) == 0 {
		return 100
	}

	// Base score starts at 100
	score := 100.0

	// Calculate penalty per finding
	// With more items, each individual finding has less impact
	basePenalty := 5.0
	if itemCount > 10 {
		basePenalty = 3.0
	}
	if itemCount > 50 {
		basePenalty = 2.0
	}
	if itemCount > 100 {
		basePenalty = 1.0
	}

	for _, hc := range checks {
		switch hc.Status {
		case "error":
			score -= float64(hc.FindingCount) * basePenalty * 2 // Errors count double
		case "warn":
			score -= float64(hc.FindingCount) * basePenalty
		}
	}

	// Clamp to 0-100
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	return int(score)
}

// generateRecommendations creates actionable recommendations based on findings.
func generateRecommendations(checks []HealthCheck) []string {
	var recommendations []string
	seen := make(map[string]bool)

	for _, hc := range checks {
		if hc.FindingCount == 0 {
			continue
		}

		rec := getRecommendation(hc.RuleID)
		if rec != "" && !seen[rec] {
			recommendations = append(recommendations, rec)
			seen[rec] = true
		}
	}

	// Limit to top 5 recommendations
	if len(recommendations) > 5 {
		recommendations = recommendations[:5]
	}

	return recommendations
}

// getRecommendation returns a recommendation for a specific rule.
func getRecommendation(ruleID string) string {
	switch ruleID {
	case "DC01":
		return "Add items to empty documents or remove the document directory"
	case "IT01":
		return "Write text for every item; empty items say nothing to trace"
	case "IT02":
		return "Link normative items in child documents to their parents"
	case "IT03":
		return "Drop links from non-normative items or mark them normative"
	case "LK01":
		return "Fix links that point at items no document contains"
	case "LK02":
		return "Re-point links at active items or reactivate their targets"
	case "LK03":
		return "Break the link cycle; parent links must flow one way"
	case "RF01":
		return "Update legacy ref keywords to match the tracked corpus"
	case "RF02":
		return "Fix file references to name tracked paths"
	case "RF03":
		return "Adjust search patterns that no tracked file matches"
	case "RF04":
		return "Give search references a keyword to look for"
	default:
		return ""
	}
}

func renderDoctorText(r *output.Renderer, out *DoctorOutput) error {
	styles := r.Styles()

	// Header
	r.Println("")
	r.Println(styles.Header1.Render("leapreq Project Health Report"))
	r.Println(styles.Muted.Render(strings.Repeat("=", 55)))
	r.Println("")

	// Project Summary
	r.Println(styles.Header2.Render("Project Summary"))
	r.Printf("   Documents: %d | Items: %d | Corpus: %d files\n", out.Summary.Documents, out.Summary.Items, out.Summary.CorpusFiles)
	r.Printf("   VCS: %s | Skipped extensions: %d\n", out.Summary.VCS, len(out.Summary.SkipExtensions))
	r.Println("")

	// Health Checks grouped by category
	r.Println(styles.Header2.Render("Health Checks"))
	r.Println("")

	currentGroup := ""
	titleCaser := cases.Title(language.English)
	for _, hc := range out.HealthChecks {
		if hc.Group != currentGroup {
			currentGroup = hc.Group
			r.Println(styles.Bold.Render("   " + titleCaser.String(currentGroup)))
			r.Println(styles.Muted.Render("   " + strings.Repeat("-", 40)))
		}

		icon := styles.StatusSuccess.String()
		switch hc.Status {
		case "warn":
			icon = styles.Warning.Render("!")
		case "error":
			icon = styles.StatusFailed.String()
		}

		status := fmt.Sprintf("%s %s: %s", icon, hc.RuleID, hc.Name)
		if hc.FindingCount > 0 {
			status += fmt.Sprintf(" (%d findings)", hc.FindingCount)
		}
		r.Println("   " + status)

		// Show first 3 details for findings
		for i, detail := range hc.Details {
			if i >= 3 {
				r.Println(styles.Muted.Render(fmt.Sprintf("       ... and %d more", len(hc.Details)-3)))
				break
			}
			r.Println(styles.Muted.Render("       - " + detail))
		}
	}
	r.Println("")

	// Health Score
	r.Println(styles.Muted.Render(strings.Repeat("=", 55)))
	scoreStyle := styles.Success
	if out.Score < 70 {
		scoreStyle = styles.Warning
	}
	if out.Score < 50 {
		scoreStyle = styles.Error
	}
	r.Printf("   Health Score: %s\n", scoreStyle.Render(fmt.Sprintf("%d/100", out.Score)))
	r.Println("")

	// Recommendations
	if len(out.Recommendations) > 0 {
		r.Println(styles.Header2.Render("Recommendations"))
		for i, rec := range out.Recommendations {
			r.Printf("   %d. %s\n", i+1, rec)
		}
		r.Println("")
	}

	return nil
}

func renderDoctorMarkdown(r *output.Renderer, out *DoctorOutput) error {
	r.Println("# leapreq Project Health Report")
	r.Println("")

	// Project Summary
	r.Println("## Project Summary")
	r.Println("")
	r.Printf("- **Documents**: %d\n", out.Summary.Documents)
	r.Printf("- **Items**: %d\n", out.Summary.Items)
	r.Printf("- **Corpus Files**: %d\n", out.Summary.CorpusFiles)
	r.Printf("- **VCS**: %s\n", out.Summary.VCS)
	if len(out.Summary.SkipExtensions) > 0 {
		r.Printf("- **Skipped Extensions**: %s\n", strings.Join(out.Summary.SkipExtensions, ", "))
	}
	r.Println("")

	// Health Checks
	r.Println("## Health Checks")
	r.Println("")

	currentGroup := ""
	titleCaser := cases.Title(language.English)
	for _, hc := range out.HealthChecks {
		if hc.Group != currentGroup {
			currentGroup = hc.Group
			r.Println("### " + titleCaser.String(currentGroup))
			r.Println("")
		}

		status := "PASS"
		switch hc.Status {
		case "warn":
			status = "WARN"
		case "error":
			status = "ERROR"
		}

		r.Printf("- **[%s]** %s: %s", status, hc.RuleID, hc.Name)
		if hc.FindingCount > 0 {
			r.Printf(" (%d findings)", hc.FindingCount)
		}
		r.Println("")

		for _, detail := range hc.Details {
			r.Printf("  - %s\n", detail)
		}
	}
	r.Println("")

	// Health Score
	r.Println("## Health Score")
	r.Println("")
	r.Printf("**%d/100**\n", out.Score)
	r.Println("")

	// Recommendations
	if len(out.Recommendations) > 0 {
		r.Println("## Recommendations")
		r.Println("")
		for i, rec := range out.Recommendations {
			r.Printf("%d. %s\n", i+1, rec)
		}
		r.Println("")
	}

	return nil
}
