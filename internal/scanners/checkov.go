package scanners

import (
	"encoding/json"

	"github.com/scanrelay/scanrelay/internal/findings"
)

// SyntheticIaCPath is attributed to infrastructure findings whose resource
// cannot be resolved to a concrete file.
const SyntheticIaCPath = "Terraform/<unknown>"

// checkov emits either a single report object or an array of them (one per
// check_type when several frameworks ran).
type checkovReport struct {
	CheckType string `json:"check_type"`
	Results   struct {
		FailedChecks []struct {
			CheckID       string `json:"check_id"`
			CheckName     string `json:"check_name"`
			FilePath      string `json:"file_path"`
			FileLineRange []int  `json:"file_line_range"`
			Severity      string `json:"severity"`
			Resource      string `json:"resource"`
		} `json:"failed_checks"`
	} `json:"results"`
	Summary struct {
		Passed  int `json:"passed"`
		Failed  int `json:"failed"`
		Skipped int `json:"skipped"`
	} `json:"summary"`
}

// checkovPlan is the plan enrichment document: resource addresses mapped back
// to the configuration file and line that declared them.
type checkovPlan struct {
	Resources []struct {
		Address string `json:"address"`
		File    string `json:"file"`
		Line    int    `json:"line"`
	} `json:"resources"`
}

func parseCheckov(raw, plan []byte) ([]findings.Finding, findings.ToolMetrics, error) {
	var reports []checkovReport
	if err := json.Unmarshal(raw, &reports); err != nil {
		var single checkovReport
		if err2 := json.Unmarshal(raw, &single); err2 != nil {
			return nil, findings.ToolMetrics{}, err
		}
		reports = []checkovReport{single}
	}

	enrich := parseCheckovPlan(plan)

	var (
		out     []findings.Finding
		metrics findings.ToolMetrics
	)
	for _, rep := range reports {
		metrics.Passed += rep.Summary.Passed
		metrics.Failed += rep.Summary.Failed
		metrics.Skipped += rep.Summary.Skipped

		for _, c := range rep.Results.FailedChecks {
			path := normalizePath(c.FilePath)
			line := 0
			if len(c.FileLineRange) > 0 {
				line = safeLine(c.FileLineRange[0])
			}
			if loc, ok := enrich[c.Resource]; ok {
				path = normalizePath(loc.File)
				line = safeLine(loc.Line)
			}
			if path == "" {
				path = SyntheticIaCPath
				line = 0
			}
			out = append(out, findings.Finding{
				Tool:     findings.ToolCheckov,
				Path:     path,
				Line:     line,
				Severity: checkovSeverity(c.Severity),
				RuleID:   c.CheckID,
				Message:  c.CheckName,
			})
		}
	}
	return out, metrics, nil
}

type planLocation struct {
	File string
	Line int
}

// parseCheckovPlan is best-effort: a missing or unreadable plan document
// means findings keep whatever location the report itself carried.
func parseCheckovPlan(b []byte) map[string]planLocation {
	if len(b) == 0 {
		return nil
	}
	var doc checkovPlan
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil
	}
	m := make(map[string]planLocation, len(doc.Resources))
	for _, r := range doc.Resources {
		if r.Address == "" || r.File == "" {
			continue
		}
		m[r.Address] = planLocation{File: r.File, Line: r.Line}
	}
	return m
}

func checkovSeverity(s string) findings.Severity {
	// checkov only reports severities on platform-connected runs; most
	// reports carry null here.
	return trivySeverity(s)
}
