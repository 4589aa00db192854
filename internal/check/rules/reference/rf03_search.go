package reference

import (
	"fmt"

	"github.com/leapstack-labs/leapreq/internal/check"
	"github.com/leapstack-labs/leapreq/pkg/core"
)

func init() {
	check.Register(check.RuleDef{
		ID:          "RF03",
		Name:        "empty-search-ref",
		Group:       "reference",
		Description: "Search reference matched no line in any tracked file",
		Severity:    core.SeverityError,
		CheckItem:   checkSearchRefs,
	})
}

func checkSearchRefs(ctx *check.ItemContext) []check.Diagnostic {
	var diags []check.Diagnostic
	for _, ref := range ctx.Item.References {
		if ref.Type != "search" || ref.Keyword == "" {
			// Missing keywords are RF04's finding.
			continue
		}
		matches, err := ctx.Resolver.FindPattern(ref.Pattern, ref.Keyword, ctx.Item.Path)
		if err != nil {
			diags = append(diags, ctx.Diag("RF03", core.SeverityError,
				fmt.Sprintf("invalid search pattern %q: %v", ref.Pattern, err)))
			continue
		}
		if len(matches) == 0 {
			diags = append(diags, ctx.Diag("RF03", core.SeverityError,
				fmt.Sprintf("external reference not found: pattern %q keyword %q", ref.Pattern, ref.Keyword)))
		}
	}
	return diags
}
