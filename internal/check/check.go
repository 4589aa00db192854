// Package check runs validation rules over a project tree. Rules live
// in the rules subpackages and register themselves via init; importing
// internal/check/rules activates the standard set.
package check

import (
	"github.com/leapstack-labs/leapreq/internal/document"
	"github.com/leapstack-labs/leapreq/internal/item"
	"github.com/leapstack-labs/leapreq/internal/tree"
	"github.com/leapstack-labs/leapreq/pkg/core"
	"github.com/leapstack-labs/leapreq/pkg/resolve"
)

// Diagnostic represents a validation finding.
type Diagnostic struct {
	RuleID   string        `json:"rule"`
	Severity core.Severity `json:"severity"`
	UID      string        `json:"uid,omitempty"`
	Document string        `json:"document,omitempty"`
	Path     string        `json:"path,omitempty"`
	Message  string        `json:"message"`
}

// ItemContext provides access to one item for item-level rule checks.
type ItemContext struct {
	Item     *item.Item
	Document *document.Document
	Tree     *tree.Tree
	Resolver *resolve.Resolver
}

// Diag builds a diagnostic bound to the context's item.
func (c *ItemContext) Diag(ruleID string, severity core.Severity, message string) Diagnostic {
	return Diagnostic{
		RuleID:   ruleID,
		Severity: severity,
		UID:      c.Item.UID.String(),
		Document: c.Document.Prefix,
		Path:     c.Item.Path,
		Message:  message,
	}
}

// TreeContext provides access to the whole tree for tree-level checks.
type TreeContext struct {
	Tree *tree.Tree
}
