package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
)

// generateConfigDocs generates the configuration reference.
func generateConfigDocs(outDir string) error {
	log.Printf("Generating config docs to %s", outDir)

	// Create output directory
	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	// Generate configuration reference
	if err := generateConfigurationDoc(outDir); err != nil {
		return fmt.Errorf("failed to generate configuration.md: %w", err)
	}
	log.Printf("  Generated configuration.md")

	return nil
}

// ConfigField represents a configuration field definition.
type ConfigField struct {
	Name        string
	Type        string
	Required    bool
	Default     string
	Description string
	Category    string // "project", "server", "publish", "check", "document", "item"
}

// getConfigSchema returns the project configuration schema.
// This is based on internal/cli/config/types.go Config.
func getConfigSchema() []ConfigField {
	return []ConfigField{
		// Project settings
		{Name: "root", Type: "string", Description: "Project root override; defaults to the directory holding leapreq.yaml", Category: "project"},
		{Name: "vcs", Type: "string", Default: "auto", Description: "Corpus provider: auto, git, or none", Category: "project"},
		{Name: "fail_on", Type: "string", Default: "warning", Description: "Severity at or above which check exits non-zero: error, warning, info, hint", Category: "project"},
		{Name: "skip_extensions", Type: "[]string", Default: "binary formats", Description: "File extensions excluded from keyword content scanning", Category: "project"},
		{Name: "output", Type: "string", Default: "auto", Description: "Renderer mode: auto, text, markdown, or json", Category: "project"},
		{Name: "verbose", Type: "bool", Default: "false", Description: "Enable debug logging", Category: "project"},

		// Server settings
		{Name: "server.host", Type: "string", Default: "127.0.0.1", Description: "Interface the web server binds to", Category: "server"},
		{Name: "server.port", Type: "int", Default: "7867", Description: "Port the web server listens on", Category: "server"},

		// Publish settings
		{Name: "publish.format", Type: "string", Default: "markdown", Description: "Publisher format: markdown or text", Category: "publish"},
		{Name: "publish.output", Type: "string", Description: "Directory published files are written to; empty publishes to stdout", Category: "publish"},

		// Check settings
		{Name: "check.disabled", Type: "[]string", Description: "Rule IDs to disable, such as IT03", Category: "check"},
		{Name: "check.severity", Type: "map[string]string", Description: "Rule ID to severity override, such as LK02: error", Category: "check"},
	}
}

// getDocumentSchema returns the per-document configuration schema.
// This is based on internal/document/document.go documentYAML.
func getDocumentSchema() []ConfigField {
	return []ConfigField{
		{Name: "settings.prefix", Type: "string", Required: true, Description: "UID prefix for items in this document, such as REQ", Category: "document"},
		{Name: "settings.digits", Type: "int", Default: "3", Description: "Zero-padded width of the numeric UID part", Category: "document"},
		{Name: "settings.sep", Type: "string", Description: "Separator between prefix and number; empty for none", Category: "document"},
		{Name: "settings.parent", Type: "string", Description: "Prefix of the parent document items link up to", Category: "document"},
		{Name: "attributes.publish", Type: "[]string", Description: "Extra item attributes included in published output", Category: "document"},
	}
}

// getItemSchema returns the item file schema.
// This is based on internal/document/item.go itemYAML.
func getItemSchema() []ConfigField {
	return []ConfigField{
		{Name: "active", Type: "bool", Default: "true", Description: "Inactive items are skipped by validation and publishing"},
		{Name: "derived", Type: "bool", Default: "false", Description: "Derived items satisfy their document without tracing to a parent"},
		{Name: "normative", Type: "bool", Default: "true", Description: "Normative items must be linked; non-normative items are headings or notes"},
		{Name: "header", Type: "string", Description: "Short heading shown in listings and published output"},
		{Name: "level", Type: "string | float", Description: "Outline position, such as 1.2 or 2.1.0; trailing zero marks a heading"},
		{Name: "text", Type: "string", Description: "Requirement statement body"},
		{Name: "links", Type: "[]string", Description: "UIDs of parent items this item traces to"},
		{Name: "ref", Type: "string", Description: "Keyword searched across the tracked corpus"},
		{Name: "references", Type: "[]object", Description: "Structured references; see below"},
	}
}

// generateConfigurationDoc generates the configuration reference page.
func generateConfigurationDoc(outDir string) error {
	w := NewMarkdownWriter()

	// Frontmatter
	w.Frontmatter("Configuration", "leapreq configuration reference")
	w.GeneratedMarker()

	// Title and intro
	w.Header(1, "Configuration")
	w.Paragraph("leapreq is configured via `leapreq.yaml` in your project root. Every field is optional; an empty file or no file at all gives a working project.")

	fields := getConfigSchema()

	// Project settings section
	w.Header(2, "Project Settings")
	w.Paragraph("Top-level keys controlling tree discovery and command behavior:")
	w.Table(
		[]string{"Field", "Type", "Default", "Description"},
		fieldRows(fields, "project", true),
	)

	// Server section
	w.Header(2, "Server Settings")
	w.Paragraph("The `server` key configures `leapreq serve`:")
	w.Table(
		[]string{"Field", "Type", "Default", "Description"},
		fieldRows(fields, "server", true),
	)

	// Publish section
	w.Header(2, "Publish Settings")
	w.Paragraph("The `publish` key configures `leapreq publish`:")
	w.Table(
		[]string{"Field", "Type", "Default", "Description"},
		fieldRows(fields, "publish", true),
	)

	// Check section
	w.Header(2, "Check Settings")
	w.Paragraph("The `check` key tunes validation. See [Checking](/checking/) for the rule catalog.")
	w.Table(
		[]string{"Field", "Type", "Description"},
		fieldRows(fields, "check", false),
	)

	// Full project example
	w.Header(2, "Full Configuration Example")
	w.CodeBlock("yaml", `# leapreq.yaml

vcs: auto
fail_on: warning
output: auto

server:
  host: 127.0.0.1
  port: 7867

publish:
  format: markdown
  output: public

check:
  disabled:
    - IT03
  severity:
    LK02: error`)

	// Document configuration section
	w.Header(2, "Document Configuration")
	w.Paragraph("Each document directory holds a `.leapreq.yml` file describing how its items are numbered and where they link to:")

	docHeaders := []string{"Field", "Type", "Required", "Default", "Description"}
	var docRows [][]string
	for _, f := range getDocumentSchema() {
		req := "No"
		if f.Required {
			req = "Yes"
		}
		docRows = append(docRows, []string{
			InlineCode(f.Name),
			f.Type,
			req,
			defaultCell(f.Default),
			f.Description,
		})
	}
	w.Table(docHeaders, docRows)

	w.Header(3, "Document Example")
	w.CodeBlock("yaml", `settings:
  prefix: SRD
  digits: 3
  parent: REQ
attributes:
  publish:
    - rationale`)

	// Item file section
	w.Header(2, "Item Files")
	w.Paragraph("Items are YAML files named by UID, such as `REQ001.yml`. Unknown keys are preserved as custom attributes.")

	itemHeaders := []string{"Field", "Type", "Default", "Description"}
	var itemRows [][]string
	for _, f := range getItemSchema() {
		itemRows = append(itemRows, []string{
			InlineCode(f.Name),
			f.Type,
			defaultCell(f.Default),
			f.Description,
		})
	}
	w.Table(itemHeaders, itemRows)

	w.Header(3, "References")
	w.Paragraph("Each entry under `references` names a file or a corpus-wide search:")
	w.Table(
		[]string{"Field", "Type", "Description"},
		[][]string{
			{InlineCode("type"), "string", "`file` or `search`"},
			{InlineCode("path"), "string", "File path relative to the project root (`file` only)"},
			{InlineCode("pattern"), "string", "Keyword searched across the corpus (`search` only)"},
			{InlineCode("keyword"), "string", "Keyword that must appear in the file (`file` only, optional)"},
		},
	)

	w.Header(3, "Item Example")
	w.CodeBlock("yaml", `active: true
derived: false
normative: true
level: 1.2
header: Token expiry
text: |
  Issued tokens shall expire after the configured lifetime.
links:
  - REQ002
references:
  - type: file
    path: src/auth.c
    keyword: token_lifetime`)

	// Environment variables
	w.Header(2, "Environment Variables")
	w.Paragraph("Every key can be set via the environment with the `LEAPREQ_` prefix. A double underscore descends into nested keys:")
	w.CodeBlock("sh", `LEAPREQ_FAIL_ON=error leapreq check
LEAPREQ_SERVER__PORT=8080 leapreq serve`)
	w.Paragraph("Precedence is flags over environment over config file over defaults.")

	// Write file
	filename := filepath.Join(outDir, "configuration.md")
	return os.WriteFile(filename, w.Bytes(), 0600)
}

// fieldRows builds table rows for fields of one category.
func fieldRows(fields []ConfigField, category string, withDefault bool) [][]string {
	var rows [][]string
	for _, f := range fields {
		if f.Category != category {
			continue
		}
		row := []string{InlineCode(f.Name), f.Type}
		if withDefault {
			row = append(row, defaultCell(f.Default))
		}
		row = append(row, f.Description)
		rows = append(rows, row)
	}
	return rows
}

// defaultCell renders a default value for a table cell.
func defaultCell(def string) string {
	if def == "" {
		return "-"
	}
	return InlineCode(def)
}
