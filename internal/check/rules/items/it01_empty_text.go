// Package items registers rules over individual item content.
package items

import (
	"strings"

	"github.com/leapstack-labs/leapreq/internal/check"
	"github.com/leapstack-labs/leapreq/pkg/core"
)

func init() {
	check.Register(check.RuleDef{
		ID:          "IT01",
		Name:        "empty-text",
		Group:       "item",
		Description: "Item has no text",
		Severity:    core.SeverityWarning,
		CheckItem:   checkEmptyText,
	})
}

func checkEmptyText(ctx *check.ItemContext) []check.Diagnostic {
	if strings.TrimSpace(ctx.Item.Text) != "" {
		return nil
	}
	return []check.Diagnostic{ctx.Diag("IT01", core.SeverityWarning, "no text")}
}
