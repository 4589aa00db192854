package items

import (
	"github.com/leapstack-labs/leapreq/internal/check"
	"github.com/leapstack-labs/leapreq/pkg/core"
)

func init() {
	check.Register(check.RuleDef{
		ID:          "IT03",
		Name:        "linked-non-normative",
		Group:       "item",
		Description: "Non-normative item carries links",
		Severity:    core.SeverityInfo,
		CheckItem:   checkLinkedNonNormative,
	})
}

func checkLinkedNonNormative(ctx *check.ItemContext) []check.Diagnostic {
	if ctx.Item.Normative || len(ctx.Item.Links) == 0 {
		return nil
	}
	return []check.Diagnostic{ctx.Diag("IT03", core.SeverityInfo,
		"non-normative item has links")}
}
