package main

import (
	"fmt"
	"strings"
)

// MarkdownWriter accumulates a markdown document.
type MarkdownWriter struct {
	b strings.Builder
}

// NewMarkdownWriter returns an empty writer.
func NewMarkdownWriter() *MarkdownWriter {
	return &MarkdownWriter{}
}

// Frontmatter writes a YAML frontmatter block.
func (w *MarkdownWriter) Frontmatter(title, description string) {
	w.Line("---")
	w.Line(fmt.Sprintf("title: %s", title))
	w.Line(fmt.Sprintf("description: %s", description))
	w.Line("---")
	w.Newline()
}

// GeneratedMarker writes a comment marking the file as generated.
func (w *MarkdownWriter) GeneratedMarker() {
	w.Line("<!-- Generated by scripts/gendocs. DO NOT EDIT. -->")
	w.Newline()
}

// Header writes a markdown header at the given level.
func (w *MarkdownWriter) Header(level int, text string) {
	w.Line(strings.Repeat("#", level) + " " + text)
	w.Newline()
}

// Paragraph writes a paragraph followed by a blank line.
func (w *MarkdownWriter) Paragraph(text string) {
	w.Line(strings.TrimSpace(text))
	w.Newline()
}

// Table writes a markdown table.
func (w *MarkdownWriter) Table(headers []string, rows [][]string) {
	w.Line("| " + strings.Join(headers, " | ") + " |")
	sep := make([]string, len(headers))
	for i := range sep {
		sep[i] = "---"
	}
	w.Line("| " + strings.Join(sep, " | ") + " |")
	for _, row := range rows {
		w.Line("| " + strings.Join(row, " | ") + " |")
	}
	w.Newline()
}

// BulletList writes one bullet per item.
func (w *MarkdownWriter) BulletList(items []string) {
	for _, item := range items {
		w.Line("- " + item)
	}
	w.Newline()
}

// CodeBlock writes a fenced code block.
func (w *MarkdownWriter) CodeBlock(lang, code string) {
	w.Line("```" + lang)
	w.Line(strings.TrimRight(code, "\n"))
	w.Line("```")
	w.Newline()
}

// Line writes one line.
func (w *MarkdownWriter) Line(s string) {
	w.b.WriteString(s)
	w.b.WriteString("\n")
}

// Newline writes a blank line.
func (w *MarkdownWriter) Newline() {
	w.b.WriteString("\n")
}

// Bytes returns the accumulated document.
func (w *MarkdownWriter) Bytes() []byte {
	return []byte(w.b.String())
}

// Bold wraps text in bold markers.
func Bold(s string) string {
	return "**" + s + "**"
}

// InlineCode wraps text in backticks.
func InlineCode(s string) string {
	return "`" + s + "`"
}

// cleanDescription flattens a description onto one line and escapes
// pipes so it can sit in a table cell.
func cleanDescription(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	return strings.ReplaceAll(s, "|", `\|`)
}
