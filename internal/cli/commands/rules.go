package commands

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leapreq/internal/check"
	"github.com/leapstack-labs/leapreq/internal/cli/output"
	"github.com/leapstack-labs/leapreq/pkg/core"
)

// RulesOptions holds options for the rules command.
type RulesOptions struct {
	Group  string // Filter by group
	Type   string // Filter by type: item, tree
	Format string // Output format
}

// NewRulesCommand creates the rules command.
func NewRulesCommand() *cobra.Command {
	opts := &RulesOptions{}
	cmd := &cobra.Command{
		Use:   "rules [rule-id]",
		Short: "List available check rules",
		Long: `List all available check rules with their documentation.

Rules are organized by group (document, item, link, reference) and by
type: item rules inspect one item at a time, tree rules inspect the
whole tree. Rule IDs feed --disable and the check section of
leapreq.yaml.

Output adapts to environment:
  - Terminal: Styled output with colors
  - Piped/Scripted: Markdown format
  - JSON: Machine-readable format`,
		Example: `  # List all rules
  leapreq rules

  # Show details for a specific rule
  leapreq rules RF01

  # List rules in the link group
  leapreq rules --group link

  # List tree-level rules only
  leapreq rules --type tree

  # Output as JSON
  leapreq rules --format json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return showRule(cmd, args[0], opts)
			}
			return listRules(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Group, "group", "g", "", "Filter by group")
	cmd.Flags().StringVar(&opts.Type, "type", "", "Filter by type: item, tree")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, json, markdown")

	return cmd
}

func listRules(cmd *cobra.Command, opts *RulesOptions) error {
	cmdCtx := NewCommandContextWithoutTree(cmd)
	r := cmdCtx.Renderer

	// Override renderer if format flag is set
	if opts.Format != "" {
		r = output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(opts.Format))
	}

	rules := ruleInfos()
	rules = filterRulesByOptions(rules, opts)

	// Sort by type, then group, then ID
	sort.Slice(rules, func(i, j int) bool {
		if rules[i].Type != rules[j].Type {
			return rules[i].Type < rules[j].Type
		}
		if rules[i].Group != rules[j].Group {
			return rules[i].Group < rules[j].Group
		}
		return rules[i].ID < rules[j].ID
	})

	mode := r.EffectiveMode()
	switch mode {
	case output.ModeJSON:
		return listRulesJSON(r, rules)
	case output.ModeMarkdown:
		return listRulesMarkdown(r, rules)
	default:
		return listRulesText(r, rules)
	}
}

func ruleInfos() []core.RuleInfo {
	defs := check.GetAll()
	rules := make([]core.RuleInfo, 0, len(defs))
	for _, def := range defs {
		rules = append(rules, def.Info())
	}
	return rules
}

func filterRulesByOptions(rules []core.RuleInfo, opts *RulesOptions) []core.RuleInfo {
	if opts.Group == "" && opts.Type == "" {
		return rules
	}

	var filtered []core.RuleInfo
	for _, r := range rules {
		if opts.Group != "" && r.Group != opts.Group {
			continue
		}
		if opts.Type != "" && r.Type != opts.Type {
			continue
		}
		filtered = append(filtered, r)
	}
	return filtered
}

func showRule(cmd *cobra.Command, ruleID string, opts *RulesOptions) error {
	cmdCtx := NewCommandContextWithoutTree(cmd)
	r := cmdCtx.Renderer

	// Override renderer if format flag is set
	if opts.Format != "" {
		r = output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(opts.Format))
	}

	def, ok := check.GetByID(strings.ToUpper(ruleID))
	if !ok {
		return fmt.Errorf("rule %q not found", ruleID)
	}
	rule := def.Info()

	mode := r.EffectiveMode()
	switch mode {
	case output.ModeJSON:
		return r.JSON(ruleJSON(rule))
	case output.ModeMarkdown:
		return showRuleMarkdown(r, rule)
	default:
		return showRuleText(r, rule)
	}
}

// listRulesText outputs rules in styled text format.
func listRulesText(r *output.Renderer, rules []core.RuleInfo) error {
	styles := r.Styles()

	// Count by type
	itemCount, treeCount := 0, 0
	for _, rule := range rules {
		if rule.Type == "item" {
			itemCount++
		} else {
			treeCount++
		}
	}

	r.Println("")
	r.Println(styles.Header1.Render(fmt.Sprintf("Check Rules (%d item, %d tree)", itemCount, treeCount)))
	r.Println("")

	currentType := ""
	currentGroup := ""

	for _, rule := range rules {
		// Type header
		if rule.Type != currentType {
			currentType = rule.Type
			currentGroup = ""
			typeLabel := "Item Rules"
			if currentType == "tree" {
				typeLabel = "Tree Rules"
			}
			r.Println(styles.Header2.Render(typeLabel))
			r.Println("")
		}

		// Group header
		if rule.Group != currentGroup {
			currentGroup = rule.Group
			r.Println(styles.Bold.Render("  " + capitalizeFirst(currentGroup)))
		}

		// Rule line
		severityStyle := getSeverityStyle(styles, rule.DefaultSeverity)
		r.Printf("    %s  %s - %s\n",
			styles.Muted.Render(rule.ID),
			rule.Name,
			severityStyle.Render(rule.DefaultSeverity.String()),
		)
		r.Println(styles.Muted.Render("        " + rule.Description))
	}

	r.Println("")
	r.Println(styles.Muted.Render("Use 'leapreq rules <rule-id>' for details"))
	r.Println("")

	return nil
}

// listRulesMarkdown outputs rules in markdown format.
func listRulesMarkdown(r *output.Renderer, rules []core.RuleInfo) error {
	r.Println("# Check Rules")
	r.Println("")

	currentType := ""
	currentGroup := ""

	for _, rule := range rules {
		if rule.Type != currentType {
			currentType = rule.Type
			currentGroup = ""
			typeLabel := "Item Rules"
			if currentType == "tree" {
				typeLabel = "Tree Rules"
			}
			r.Println("## " + typeLabel)
			r.Println("")
		}

		if rule.Group != currentGroup {
			currentGroup = rule.Group
			r.Println("### " + capitalizeFirst(currentGroup))
			r.Println("")
		}

		r.Printf("- **%s** - %s (`%s`)\n", rule.ID, rule.Name, rule.DefaultSeverity.String())
		r.Println("  " + rule.Description)
	}

	r.Println("")
	return nil
}

// RuleJSON is one rule in machine-readable form, severity spelled out.
type RuleJSON struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Group       string `json:"group"`
	Description string `json:"description"`
	Severity    string `json:"severity"`
	Type        string `json:"type"`
}

func ruleJSON(rule core.RuleInfo) RuleJSON {
	return RuleJSON{
		ID:          rule.ID,
		Name:        rule.Name,
		Group:       rule.Group,
		Description: rule.Description,
		Severity:    rule.DefaultSeverity.String(),
		Type:        rule.Type,
	}
}

// RulesJSONOutput is the JSON output structure for rules listing.
type RulesJSONOutput struct {
	Rules []RuleJSON `json:"rules"`
	Count struct {
		Item  int `json:"item"`
		Tree  int `json:"tree"`
		Total int `json:"total"`
	} `json:"count"`
}

// listRulesJSON outputs rules in JSON format.
func listRulesJSON(r *output.Renderer, rules []core.RuleInfo) error {
	jsonOutput := RulesJSONOutput{
		Rules: make([]RuleJSON, 0, len(rules)),
	}

	for _, rule := range rules {
		jsonOutput.Rules = append(jsonOutput.Rules, ruleJSON(rule))
		if rule.Type == "item" {
			jsonOutput.Count.Item++
		} else {
			jsonOutput.Count.Tree++
		}
	}
	jsonOutput.Count.Total = len(rules)

	return r.JSON(jsonOutput)
}

// showRuleText displays detailed rule info in text format.
func showRuleText(r *output.Renderer, rule core.RuleInfo) error {
	styles := r.Styles()

	r.Println("")
	r.Println(styles.Header1.Render(fmt.Sprintf("%s - %s", rule.ID, rule.Name)))
	r.Println("")

	r.Printf("  %s: %s\n", styles.Bold.Render("Type"), rule.Type)
	r.Printf("  %s: %s\n", styles.Bold.Render("Group"), rule.Group)
	r.Printf("  %s: %s\n", styles.Bold.Render("Severity"), rule.DefaultSeverity.String())
	r.Println("")

	r.Println(styles.Bold.Render("Description"))
	r.Println("  " + rule.Description)
	r.Println("")

	return nil
}

// showRuleMarkdown displays detailed rule info in markdown format.
func showRuleMarkdown(r *output.Renderer, rule core.RuleInfo) error {
	r.Printf("# %s - %s\n\n", rule.ID, rule.Name)
	r.Printf("**Type:** %s | **Group:** %s | **Severity:** `%s`\n\n", rule.Type, rule.Group, rule.DefaultSeverity.String())
	r.Println(rule.Description)
	r.Println("")
	return nil
}

// Helper functions

func getSeverityStyle(styles output.Styles, sev core.Severity) lipgloss.Style {
	switch sev {
	case core.SeverityError:
		return styles.Error
	case core.SeverityWarning:
		return styles.Warning
	case core.SeverityInfo:
		return styles.Info
	default:
		return styles.Muted
	}
}

func capitalizeFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
