package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/leapstack-labs/leapreq/internal/check"
	_ "github.com/leapstack-labs/leapreq/internal/check/rules"
	"github.com/leapstack-labs/leapreq/pkg/core"
)

// groupDescriptions provides human-readable descriptions for rule groups.
var groupDescriptions = map[string]string{
	"document":  "Rules about document structure and content.",
	"item":      "Rules about the text and linkage of individual items.",
	"link":      "Rules about parent links between items.",
	"reference": "Rules about references into the tracked source corpus.",
}

// groupOrder fixes the order groups appear in on the rules page.
var groupOrder = []string{"document", "item", "link", "reference"}

// generateRuleDocs generates the check rule documentation files.
func generateRuleDocs(outDir string) error {
	log.Printf("Generating rule docs to %s", outDir)

	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	rules := check.GetAll()

	itemCount := 0
	treeCount := 0
	for _, def := range rules {
		if def.Kind() == "tree" {
			treeCount++
		} else {
			itemCount++
		}
	}

	// Generate index page
	if err := generateRuleIndex(outDir, itemCount, treeCount); err != nil {
		return err
	}
	log.Printf("  Generated index.md")

	// Generate rules page
	if err := generateRulesPage(outDir, rules); err != nil {
		return err
	}
	log.Printf("  Generated rules.md")

	return nil
}

// generateRuleIndex generates the checking overview page.
func generateRuleIndex(outDir string, itemCount, treeCount int) error {
	w := NewMarkdownWriter()

	w.Frontmatter("Checking", "Validation rules for leapreq requirement trees")
	w.GeneratedMarker()

	w.Header(1, "Checking")
	w.Paragraph(fmt.Sprintf("leapreq validates requirement trees with **%d item rules** and **%d tree rules**.", itemCount, treeCount))

	w.Header(2, "Rule Types")
	w.BulletList([]string{
		Bold("Item rules") + ": Examine one item at a time; findings name the item UID",
		Bold("Tree rules") + ": Examine the whole tree for structural problems such as link cycles",
	})

	w.Header(2, "Severity Levels")
	w.Table(
		[]string{"Severity", "Description"},
		[][]string{
			{InlineCode("error"), "Broken traceability that must be fixed"},
			{InlineCode("warning"), "Potential gap that should be reviewed"},
			{InlineCode("info"), "Informational feedback"},
			{InlineCode("hint"), "Suggestion for improvement"},
		},
	)

	w.Header(2, "Configuration")
	w.Paragraph("Rules can be disabled or re-ranked in `leapreq.yaml`:")
	w.CodeBlock("yaml", `check:
  disabled:
    - IT03               # skip rule
  severity:
    LK02: error          # override severity`)
	w.Paragraph("A single run can also skip rules with `leapreq check --disable IT03`.")

	w.Header(2, "Rule Groups")
	var rows [][]string
	for _, group := range groupOrder {
		rows = append(rows, []string{
			fmt.Sprintf("[%s](/checking/rules#%s)", capitalizeGroup(group), group),
			groupPrefix(group),
			groupDescriptions[group],
		})
	}
	w.Table([]string{"Group", "Prefix", "Description"}, rows)

	return os.WriteFile(filepath.Join(outDir, "index.md"), w.Bytes(), 0600)
}

// generateRulesPage generates the rule reference page.
func generateRulesPage(outDir string, rules []check.RuleDef) error {
	w := NewMarkdownWriter()

	w.Frontmatter("Check Rules", "Rule reference for leapreq validation")
	w.GeneratedMarker()

	w.Header(1, "Check Rules")
	w.Paragraph(fmt.Sprintf("leapreq ships %d check rules organized into %d groups.", len(rules), len(groupOrder)))

	grouped := make(map[string][]check.RuleDef)
	for _, def := range rules {
		grouped[def.Group] = append(grouped[def.Group], def)
	}

	for _, group := range groupOrder {
		groupRules, ok := grouped[group]
		if !ok || len(groupRules) == 0 {
			continue
		}

		// Write group header with anchor
		w.Line(fmt.Sprintf("## %s {#%s}", capitalizeGroup(group), group))
		w.Newline()

		if desc, ok := groupDescriptions[group]; ok {
			w.Paragraph(desc)
		}

		for _, def := range groupRules {
			writeRuleDoc(w, def.Info())
		}
	}

	return os.WriteFile(filepath.Join(outDir, "rules.md"), w.Bytes(), 0600)
}

// writeRuleDoc writes documentation for a single rule.
func writeRuleDoc(w *MarkdownWriter, info core.RuleInfo) {
	// Rule header with anchor: ### LK01 - unknown-link {#LK01}
	w.Line(fmt.Sprintf("### %s - %s {#%s}", info.ID, info.Name, info.ID))
	w.Newline()

	w.Line(fmt.Sprintf("**Severity:** %s | **Type:** %s",
		InlineCode(info.DefaultSeverity.String()), info.Type))
	w.Newline()

	w.Paragraph(info.Description)

	w.Line("---")
	w.Newline()
}

// groupPrefix returns the rule ID prefix of a group.
func groupPrefix(group string) string {
	switch group {
	case "document":
		return "DC"
	case "item":
		return "IT"
	case "link":
		return "LK"
	case "reference":
		return "RF"
	}
	return ""
}

// capitalizeGroup capitalizes the first letter of a group name.
func capitalizeGroup(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
