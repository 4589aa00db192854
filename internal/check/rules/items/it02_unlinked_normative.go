package items

import (
	"fmt"

	"github.com/leapstack-labs/leapreq/internal/check"
	"github.com/leapstack-labs/leapreq/pkg/core"
)

func init() {
	check.Register(check.RuleDef{
		ID:          "IT02",
		Name:        "unlinked-normative",
		Group:       "item",
		Description: "Normative item in a child document has no links upward",
		Severity:    core.SeverityWarning,
		CheckItem:   checkUnlinkedNormative,
	})
}

// checkUnlinkedNormative wants every normative item of a child document
// to trace to its parent document. Derived items claim satisfaction
// without tracing, so they are exempt.
func checkUnlinkedNormative(ctx *check.ItemContext) []check.Diagnostic {
	if ctx.Document.Parent == "" {
		return nil
	}
	it := ctx.Item
	if !it.Normative || it.Derived || len(it.Links) > 0 {
		return nil
	}
	return []check.Diagnostic{ctx.Diag("IT02", core.SeverityWarning,
		fmt.Sprintf("no links to parent document: %s", ctx.Document.Parent))}
}
