package check

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/leapreq/internal/tree"
	"github.com/leapstack-labs/leapreq/pkg/core"
)

// Config configures a validation pass.
type Config struct {
	// DisabledRules contains rule IDs to skip.
	DisabledRules map[string]bool

	// SeverityOverrides changes the default severity of rules.
	SeverityOverrides map[string]core.Severity

	// Workers caps concurrent item checks. Defaults to GOMAXPROCS.
	Workers int

	// Logger receives pass progress. Defaults to discard.
	Logger *slog.Logger
}

// Checker runs the registered rules over a tree snapshot. Item rules
// fan out across items; every pass merges results back in document and
// item order, so two passes over the same snapshot report identically.
type Checker struct {
	disabled  map[string]bool
	overrides map[string]core.Severity
	workers   int
	logger    *slog.Logger
}

// New creates a checker.
func New(cfg Config) *Checker {
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	disabled := cfg.DisabledRules
	if disabled == nil {
		disabled = make(map[string]bool)
	}
	overrides := cfg.SeverityOverrides
	if overrides == nil {
		overrides = make(map[string]core.Severity)
	}
	return &Checker{
		disabled:  disabled,
		overrides: overrides,
		workers:   workers,
		logger:    logger,
	}
}

// Run executes one validation pass over the tree.
func (c *Checker) Run(ctx context.Context, t *tree.Tree) (*Report, error) {
	passID := uuid.NewString()
	logger := c.logger.With("pass", passID)
	started := time.Now()

	var itemRules, treeRules []RuleDef
	for _, rule := range GetAll() {
		if c.disabled[rule.ID] {
			continue
		}
		if rule.CheckTree != nil {
			treeRules = append(treeRules, rule)
		} else if rule.CheckItem != nil {
			itemRules = append(itemRules, rule)
		}
	}

	logger.Debug("check pass starting",
		"item_rules", len(itemRules),
		"tree_rules", len(treeRules),
		"items", t.ItemCount(),
		"workers", c.workers)

	// One slot per item keeps the merge order independent of goroutine
	// completion order.
	type slot struct {
		diags []Diagnostic
	}
	var slots []*slot

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.workers)

	for _, doc := range t.Documents() {
		for _, it := range doc.Items {
			ic := &ItemContext{Item: it, Document: doc, Tree: t, Resolver: t.Resolver()}
			s := &slot{}
			slots = append(slots, s)
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				for _, rule := range itemRules {
					diags := rule.CheckItem(ic)
					for i := range diags {
						diags[i].Severity = c.severityFor(diags[i].RuleID, diags[i].Severity)
					}
					s.diags = append(s.diags, diags...)
				}
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var diagnostics []Diagnostic
	for _, s := range slots {
		diagnostics = append(diagnostics, s.diags...)
	}

	tc := &TreeContext{Tree: t}
	for _, rule := range treeRules {
		diags := rule.CheckTree(tc)
		for i := range diags {
			diags[i].Severity = c.severityFor(diags[i].RuleID, diags[i].Severity)
		}
		diagnostics = append(diagnostics, diags...)
	}

	report := NewReport(passID, diagnostics)
	logger.Debug("check pass finished",
		"diagnostics", report.Total(),
		"errors", report.Errors,
		"warnings", report.Warnings,
		"elapsed", time.Since(started))
	return report, nil
}

func (c *Checker) severityFor(ruleID string, fallback core.Severity) core.Severity {
	if sev, ok := c.overrides[ruleID]; ok {
		return sev
	}
	return fallback
}
