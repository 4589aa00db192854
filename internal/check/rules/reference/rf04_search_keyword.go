package reference

import (
	"fmt"

	"github.com/leapstack-labs/leapreq/internal/check"
	"github.com/leapstack-labs/leapreq/pkg/core"
)

func init() {
	check.Register(check.RuleDef{
		ID:          "RF04",
		Name:        "search-missing-keyword",
		Group:       "reference",
		Description: "Search reference has no keyword to look for",
		Severity:    core.SeverityError,
		CheckItem:   checkSearchKeyword,
	})
}

// checkSearchKeyword surfaces the resolver's keyword contract as a data
// finding: a search pattern without a keyword can never resolve.
func checkSearchKeyword(ctx *check.ItemContext) []check.Diagnostic {
	var diags []check.Diagnostic
	for _, ref := range ctx.Item.References {
		if ref.Type == "search" && ref.Keyword == "" {
			diags = append(diags, ctx.Diag("RF04", core.SeverityError,
				fmt.Sprintf("search reference needs a keyword: pattern %q", ref.Pattern)))
		}
	}
	return diags
}
