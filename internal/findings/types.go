package findings

import "encoding/json"

// Tool identifies which scanner produced a finding.
type Tool string

const (
	ToolFlake8   Tool = "flake8"
	ToolBandit   Tool = "bandit"
	ToolTrivy    Tool = "trivy"
	ToolHadolint Tool = "hadolint"
	ToolCheckov  Tool = "checkov"
)

// ToolOrder is the fixed ordering used wherever findings from multiple tools
// are combined or rendered. Deterministic output depends on it.
var ToolOrder = []Tool{ToolFlake8, ToolBandit, ToolTrivy, ToolHadolint, ToolCheckov}

// ToolLabel returns the display name for a tool.
func ToolLabel(t Tool) string {
	switch t {
	case ToolFlake8:
		return "Flake8"
	case ToolBandit:
		return "Bandit"
	case ToolTrivy:
		return "Trivy"
	case ToolHadolint:
		return "Hadolint"
	case ToolCheckov:
		return "Checkov"
	default:
		return string(t)
	}
}

// Severity represents the normalized severity level of a finding.
type Severity string

const (
	SeverityCritical Severity = "CRITICAL"
	SeverityHigh     Severity = "HIGH"
	SeverityMedium   Severity = "MEDIUM"
	SeverityLow      Severity = "LOW"
	SeverityInfo     Severity = "INFO"
	SeverityError    Severity = "ERROR"
	SeverityWarning  Severity = "WARNING"
)

// SeverityRank returns a numeric rank for comparison (higher = more severe).
func SeverityRank(s Severity) int {
	switch s {
	case SeverityCritical:
		return 7
	case SeverityHigh:
		return 6
	case SeverityError:
		return 5
	case SeverityMedium:
		return 4
	case SeverityWarning:
		return 3
	case SeverityLow:
		return 2
	case SeverityInfo:
		return 1
	default:
		return 0
	}
}

// IsBlocking reports whether a severity counts as a failure for a tool's
// status indicator. CRITICAL, HIGH, and ERROR are blocking.
func IsBlocking(s Severity) bool {
	return SeverityRank(s) >= SeverityRank(SeverityError)
}

// MeetsThreshold returns true if severity is at or above the threshold.
func MeetsThreshold(s Severity, threshold string) bool {
	if threshold == "none" || threshold == "" {
		return false
	}
	return SeverityRank(s) >= SeverityRank(Severity(threshold))
}

// Finding represents a single normalized issue from any scanner.
type Finding struct {
	Tool     Tool     `json:"tool"`
	Path     string   `json:"path"` // repo-relative, no leading "./"
	Line     int      `json:"line"` // 1-based; 0 marks a file-level finding
	Severity Severity `json:"severity"`
	RuleID   string   `json:"ruleId,omitempty"`
	Message  string   `json:"message"`
}

// FileLevel reports whether the finding has no line anchor.
func (f Finding) FileLevel() bool {
	return f.Line <= 0
}

// MarshalJSON emits the persisted artifact shape: file-level findings carry a
// JSON null line, and a missing rule ID is null rather than "".
func (f Finding) MarshalJSON() ([]byte, error) {
	type wire struct {
		Tool     Tool     `json:"tool"`
		Path     string   `json:"path"`
		Line     *int     `json:"line"`
		Severity Severity `json:"severity"`
		RuleID   *string  `json:"ruleId"`
		Message  string   `json:"message"`
	}
	w := wire{Tool: f.Tool, Path: f.Path, Severity: f.Severity, Message: f.Message}
	if f.Line > 0 {
		w.Line = &f.Line
	}
	if f.RuleID != "" {
		w.RuleID = &f.RuleID
	}
	return json.Marshal(w)
}

// ToolMetrics holds per-tool pass/fail/skip counters where the scanner's
// native report provides them (checkov does; the others report failures only).
type ToolMetrics struct {
	Passed  int `json:"passed"`
	Failed  int `json:"failed"`
	Skipped int `json:"skipped"`
}

// Report is the top-level structure handed to the output writers.
type Report struct {
	Repo     string                `json:"repo"` // "owner/name"
	PR       int                   `json:"pr"`
	HeadSHA  string                `json:"headSha"`
	Findings []Finding             `json:"findings"`
	Metrics  map[Tool]ToolMetrics  `json:"metrics,omitempty"`
	// OutsideDiff counts line-scoped findings whose location is not part of
	// the PR diff and therefore could not be annotated inline.
	OutsideDiff int `json:"outsideDiff"`
}

// ByTool groups findings by tool, preserving input order within each group.
func ByTool(fs []Finding) map[Tool][]Finding {
	m := make(map[Tool][]Finding)
	for _, f := range fs {
		m[f.Tool] = append(m[f.Tool], f)
	}
	return m
}

// HasBlocking reports whether any finding in the slice has a blocking severity.
func HasBlocking(fs []Finding) bool {
	for _, f := range fs {
		if IsBlocking(f.Severity) {
			return true
		}
	}
	return false
}
