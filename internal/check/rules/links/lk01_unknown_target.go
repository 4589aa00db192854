// Package links registers rules over the parent links between items.
package links

import (
	"fmt"

	"github.com/leapstack-labs/leapreq/internal/check"
	"github.com/leapstack-labs/leapreq/pkg/core"
)

func init() {
	check.Register(check.RuleDef{
		ID:          "LK01",
		Name:        "unknown-link",
		Group:       "link",
		Description: "Link points at an item no document contains",
		Severity:    core.SeverityError,
		CheckItem:   checkUnknownLinks,
	})
}

func checkUnknownLinks(ctx *check.ItemContext) []check.Diagnostic {
	var diags []check.Diagnostic
	for _, link := range ctx.Item.Links {
		if _, _, err := ctx.Tree.FindItem(link.String()); err != nil {
			diags = append(diags, ctx.Diag("LK01", core.SeverityError,
				fmt.Sprintf("linked to unknown item: %s", link)))
		}
	}
	return diags
}
