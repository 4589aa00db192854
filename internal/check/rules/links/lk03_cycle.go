package links

import (
	"strings"

	"github.com/leapstack-labs/leapreq/internal/check"
	"github.com/leapstack-labs/leapreq/pkg/core"
)

func init() {
	check.Register(check.RuleDef{
		ID:          "LK03",
		Name:        "link-cycle",
		Group:       "link",
		Description: "Items link to each other in a cycle",
		Severity:    core.SeverityError,
		CheckTree:   checkLinkCycle,
	})
}

func checkLinkCycle(ctx *check.TreeContext) []check.Diagnostic {
	cyclic, path := ctx.Tree.LinkGraph().HasCycle()
	if !cyclic {
		return nil
	}
	return []check.Diagnostic{{
		RuleID:   "LK03",
		Severity: core.SeverityError,
		Message:  "link cycle: " + strings.Join(path, " -> "),
	}}
}
