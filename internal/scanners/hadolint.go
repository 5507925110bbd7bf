package scanners

import (
	"encoding/json"
	"strings"

	"github.com/scanrelay/scanrelay/internal/findings"
)

// hadolint -f json emits a flat array of rule violations.
type hadolintEntry struct {
	File    string `json:"file"`
	Line    int    `json:"line"`
	Code    string `json:"code"`
	Level   string `json:"level"`
	Message string `json:"message"`
}

func parseHadolint(b []byte) ([]findings.Finding, error) {
	var entries []hadolintEntry
	if err := json.Unmarshal(b, &entries); err != nil {
		return nil, err
	}

	out := make([]findings.Finding, 0, len(entries))
	for _, e := range entries {
		out = append(out, findings.Finding{
			Tool:     findings.ToolHadolint,
			Path:     normalizePath(e.File),
			Line:     safeLine(e.Line),
			Severity: hadolintSeverity(e.Level),
			RuleID:   e.Code,
			Message:  e.Message,
		})
	}
	return out, nil
}

func hadolintSeverity(level string) findings.Severity {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "error":
		return findings.SeverityError
	case "warning":
		return findings.SeverityWarning
	default:
		return findings.SeverityInfo
	}
}
