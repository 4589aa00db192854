// Package documents registers rules over whole documents.
package documents

import (
	"github.com/leapstack-labs/leapreq/internal/check"
	"github.com/leapstack-labs/leapreq/pkg/core"
)

func init() {
	check.Register(check.RuleDef{
		ID:          "DC01",
		Name:        "empty-document",
		Group:       "document",
		Description: "Document directory holds no items",
		Severity:    core.SeverityInfo,
		CheckTree:   checkEmptyDocuments,
	})
}

func checkEmptyDocuments(ctx *check.TreeContext) []check.Diagnostic {
	var diags []check.Diagnostic
	for _, doc := range ctx.Tree.Documents() {
		if len(doc.Items) == 0 {
			diags = append(diags, check.Diagnostic{
				RuleID:   "DC01",
				Severity: core.SeverityInfo,
				Document: doc.Prefix,
				Path:     doc.Path,
				Message:  "no items",
			})
		}
	}
	return diags
}
