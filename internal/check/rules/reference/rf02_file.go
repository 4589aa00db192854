package reference

import (
	"fmt"

	"github.com/leapstack-labs/leapreq/internal/check"
	"github.com/leapstack-labs/leapreq/pkg/core"
)

func init() {
	check.Register(check.RuleDef{
		ID:          "RF02",
		Name:        "broken-file-ref",
		Group:       "reference",
		Description: "File reference names an untracked path or its keyword is absent",
		Severity:    core.SeverityError,
		CheckItem:   checkFileRefs,
	})
}

func checkFileRefs(ctx *check.ItemContext) []check.Diagnostic {
	var diags []check.Diagnostic
	for _, ref := range ctx.Item.References {
		if ref.Type != "file" {
			continue
		}
		if match := ctx.Resolver.FindFile(ref.Path, ref.Keyword, ctx.Item.Path); match != nil {
			continue
		}
		msg := fmt.Sprintf("external reference not found: file %q", ref.Path)
		if ref.Keyword != "" {
			msg = fmt.Sprintf("external reference not found: file %q keyword %q", ref.Path, ref.Keyword)
		}
		diags = append(diags, ctx.Diag("RF02", core.SeverityError, msg))
	}
	return diags
}
