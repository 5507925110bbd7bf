package scanners

import (
	"encoding/json"
	"strings"

	"github.com/scanrelay/scanrelay/internal/findings"
)

// Matches trivy's misconfiguration report (`trivy config -f json`).
type trivyJSON struct {
	Results []struct {
		Target            string `json:"Target"`
		Misconfigurations []struct {
			ID            string `json:"ID"`
			Title         string `json:"Title"`
			Description   string `json:"Description"`
			Severity      string `json:"Severity"`
			CauseMetadata struct {
				StartLine int `json:"StartLine"`
				EndLine   int `json:"EndLine"`
			} `json:"CauseMetadata"`
		} `json:"Misconfigurations"`
	} `json:"Results"`
}

func parseTrivy(b []byte) ([]findings.Finding, error) {
	var doc trivyJSON
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, err
	}

	var out []findings.Finding
	for _, r := range doc.Results {
		target := normalizePath(r.Target)
		for _, m := range r.Misconfigurations {
			out = append(out, findings.Finding{
				Tool:     findings.ToolTrivy,
				Path:     target,
				Line:     safeLine(m.CauseMetadata.StartLine),
				Severity: trivySeverity(m.Severity),
				RuleID:   m.ID,
				Message:  firstNonEmpty(m.Description, m.Title),
			})
		}
	}
	return out, nil
}

func trivySeverity(s string) findings.Severity {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "CRITICAL":
		return findings.SeverityCritical
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

func firstNonEmpty(a, b string) string {
	if strings.TrimSpace(a) != "" {
		return a
	}
	return b
}
