package scanners

import (
	"encoding/json"
	"strings"

	"github.com/scanrelay/scanrelay/internal/findings"
)

type banditJSON struct {
	Results []struct {
		Filename      string `json:"filename"`
		LineNumber    int    `json:"line_number"`
		IssueSeverity string `json:"issue_severity"`
		IssueText     string `json:"issue_text"`
		TestID        string `json:"test_id"`
		TestName      string `json:"test_name"`
	} `json:"results"`
}

func parseBandit(b []byte) ([]findings.Finding, error) {
	var doc banditJSON
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, err
	}

	out := make([]findings.Finding, 0, len(doc.Results))
	for _, r := range doc.Results {
		msg := strings.TrimSpace(r.IssueText)
		if msg == "" {
			msg = r.TestName
		}
		out = append(out, findings.Finding{
			Tool:     findings.ToolBandit,
			Path:     normalizePath(r.Filename),
			Line:     safeLine(r.LineNumber),
			Severity: banditSeverity(r.IssueSeverity),
			RuleID:   r.TestID,
			Message:  msg,
		})
	}
	return out, nil
}

func banditSeverity(s string) findings.Severity {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "HIGH":
		return findings.SeverityHigh
	case "MEDIUM":
		return findings.SeverityMedium
	case "LOW":
		return findings.SeverityLow
	default:
		return findings.SeverityInfo
	}
}
