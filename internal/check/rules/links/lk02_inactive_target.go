package links

import (
	"fmt"

	"github.com/leapstack-labs/leapreq/internal/check"
	"github.com/leapstack-labs/leapreq/pkg/core"
)

func init() {
	check.Register(check.RuleDef{
		ID:          "LK02",
		Name:        "inactive-link",
		Group:       "link",
		Description: "Link points at an inactive item",
		Severity:    core.SeverityWarning,
		CheckItem:   checkInactiveLinks,
	})
}

func checkInactiveLinks(ctx *check.ItemContext) []check.Diagnostic {
	var diags []check.Diagnostic
	for _, link := range ctx.Item.Links {
		target, _, err := ctx.Tree.FindItem(link.String())
		if err != nil {
			// LK01's finding.
			continue
		}
		if !target.Active {
			diags = append(diags, ctx.Diag("LK02", core.SeverityWarning,
				fmt.Sprintf("linked to inactive item: %s", link)))
		}
	}
	return diags
}
