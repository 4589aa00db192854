package output

// JSON payload types shared by the CLI commands. Severities appear as
// names, not numbers, so scripted consumers never depend on internal
// ordering.

// CheckOutput is the JSON payload of the check command.
type CheckOutput struct {
	Summary  CheckSummary   `json:"summary"`
	Findings []CheckFinding `json:"findings"`
}

// CheckSummary aggregates one validation pass.
type CheckSummary struct {
	Documents int `json:"documents"`
	Items     int `json:"items"`
	Findings  int `json:"findings"`
	Errors    int `json:"errors"`
	Warnings  int `json:"warnings"`
	Infos     int `json:"infos"`
	Hints     int `json:"hints"`
}

// CheckFinding is one diagnostic in JSON output.
type CheckFinding struct {
	Rule     string `json:"rule"`
	Severity string `json:"severity"`
	UID      string `json:"uid,omitempty"`
	Document string `json:"document,omitempty"`
	Message  string `json:"message"`
}

// ListOutput is the JSON payload of the list command without arguments.
type ListOutput struct {
	Documents []DocumentInfo `json:"documents"`
}

// DocumentInfo describes one document in list output.
type DocumentInfo struct {
	Prefix string `json:"prefix"`
	Parent string `json:"parent,omitempty"`
	Path   string `json:"path"`
	Items  int    `json:"items"`
}

// DocumentListOutput is the JSON payload of the list command for one
// document.
type DocumentListOutput struct {
	Prefix string     `json:"prefix"`
	Items  []ItemInfo `json:"items"`
}

// ItemInfo describes one item in list output.
type ItemInfo struct {
	UID       string   `json:"uid"`
	Level     string   `json:"level"`
	Header    string   `json:"header,omitempty"`
	Text      string   `json:"text,omitempty"`
	Links     []string `json:"links,omitempty"`
	Active    bool     `json:"active"`
	Normative bool     `json:"normative"`
}

// TraceOutput is the JSON payload of the trace command.
type TraceOutput struct {
	Items []TraceItem `json:"items"`
}

// TraceItem holds the resolved references of one item.
type TraceItem struct {
	UID     string       `json:"uid"`
	Queries []TraceQuery `json:"queries"`
}

// TraceQuery is the outcome of resolving one reference query.
type TraceQuery struct {
	Query    string       `json:"query"`
	Resolved bool         `json:"resolved"`
	Matches  []TraceMatch `json:"matches,omitempty"`
	Error    string       `json:"error,omitempty"`
}

// TraceMatch is one reference target. Line zero means the file matched
// by name or path alone.
type TraceMatch struct {
	Path string `json:"path"`
	Line int    `json:"line,omitempty"`
}
