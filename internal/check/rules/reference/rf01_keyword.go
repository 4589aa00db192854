// Package reference registers rules that resolve each item's external
// references against the tracked-file corpus.
package reference

import (
	"fmt"

	"github.com/leapstack-labs/leapreq/internal/check"
	"github.com/leapstack-labs/leapreq/pkg/core"
)

func init() {
	check.Register(check.RuleDef{
		ID:          "RF01",
		Name:        "broken-keyword-ref",
		Group:       "reference",
		Description: "Legacy ref keyword matches nothing in the tracked corpus",
		Severity:    core.SeverityError,
		CheckItem:   checkKeywordRef,
	})
}

// checkKeywordRef resolves the legacy ref field. The keyword must match
// a tracked file's name or appear on a line of a scannable file.
func checkKeywordRef(ctx *check.ItemContext) []check.Diagnostic {
	if ctx.Item.Ref == "" {
		return nil
	}
	if match := ctx.Resolver.FindKeyword(ctx.Item.Ref, ctx.Item.Path); match != nil {
		return nil
	}
	return []check.Diagnostic{ctx.Diag("RF01", core.SeverityError,
		fmt.Sprintf("external reference not found: keyword %q", ctx.Item.Ref))}
}
