package check

import "github.com/leapstack-labs/leapreq/pkg/core"

// Report is the outcome of one validation pass.
type Report struct {
	// PassID tags the pass; the same ID appears in the pass's log lines.
	PassID string `json:"pass_id"`

	Diagnostics []Diagnostic `json:"diagnostics"`

	Errors   int `json:"errors"`
	Warnings int `json:"warnings"`
	Infos    int `json:"infos"`
	Hints    int `json:"hints"`
}

// NewReport assembles a report and tallies severity counts.
func NewReport(passID string, diagnostics []Diagnostic) *Report {
	r := &Report{PassID: passID, Diagnostics: diagnostics}
	for _, d := range diagnostics {
		switch d.Severity {
		case core.SeverityError:
			r.Errors++
		case core.SeverityWarning:
			r.Warnings++
		case core.SeverityInfo:
			r.Infos++
		case core.SeverityHint:
			r.Hints++
		}
	}
	return r
}

// Total returns the number of diagnostics in the report.
func (r *Report) Total() int {
	return len(r.Diagnostics)
}

// Clean reports whether the pass produced no diagnostics.
func (r *Report) Clean() bool {
	return len(r.Diagnostics) == 0
}

// Worst returns the most severe diagnostic severity in the report.
// The second result is false when the report is clean.
func (r *Report) Worst() (core.Severity, bool) {
	if len(r.Diagnostics) == 0 {
		return core.SeverityHint, false
	}
	worst := core.SeverityHint
	for _, d := range r.Diagnostics {
		if d.Severity < worst {
			worst = d.Severity
		}
	}
	return worst, true
}

// FailsAt reports whether any diagnostic is at or above the given
// severity threshold.
func (r *Report) FailsAt(threshold core.Severity) bool {
	worst, ok := r.Worst()
	return ok && worst <= threshold
}
