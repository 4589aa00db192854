// Package rules registers the standard validation rules.
// Import this package to register all rules with the global registry.
package rules

import (
	// Blank imports trigger init() functions that register rules with the global registry.
	_ "github.com/leapstack-labs/leapreq/internal/check/rules/documents" // registers DC* rules
	_ "github.com/leapstack-labs/leapreq/internal/check/rules/items"     // registers IT* rules
	_ "github.com/leapstack-labs/leapreq/internal/check/rules/links"     // registers LK* rules
	_ "github.com/leapstack-labs/leapreq/internal/check/rules/reference" // registers RF* rules
)
