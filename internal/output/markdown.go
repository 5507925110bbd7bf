package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/scanrelay/scanrelay/internal/findings"
)

// MarkdownWriter renders the PR summary comment body.
type MarkdownWriter struct{}

func (m *MarkdownWriter) Write(w io.Writer, report *findings.Report) error {
	ew := &errWriter{w: w}
	byTool := findings.ByTool(report.Findings)

	ew.printf("## ScanRelay Report\n\n")
	if report.Repo != "" && report.PR > 0 {
		ew.printf("Pull request `%s#%d`", report.Repo, report.PR)
		if report.HeadSHA != "" {
			ew.printf(" at `%s`", shortSHA(report.HeadSHA))
		}
		ew.printf("\n\n")
	}

	ew.printf("| Tool | Status | Findings | Passed | Failed | Skipped |\n")
	ew.printf("|------|--------|----------|--------|--------|--------|\n")
	for _, tool := range findings.ToolOrder {
		ff := byTool[tool]
		metrics, hasMetrics := report.Metrics[tool]
		ew.printf("| %s | %s | %d | %s | %s | %s |\n",
			findings.ToolLabel(tool),
			statusIcon(ff),
			len(ff),
			metricCell(metrics.Passed, hasMetrics),
			metricCell(metrics.Failed, hasMetrics),
			metricCell(metrics.Skipped, hasMetrics),
		)
	}
	ew.printf("\n")

	if len(report.Findings) == 0 {
		ew.printf("No findings. :white_check_mark:\n")
		return ew.err
	}

	if report.OutsideDiff > 0 {
		ew.printf("> %d finding(s) are outside the changed lines of this pull request "+
			"and appear only in this summary.\n\n", report.OutsideDiff)
	}

	for _, tool := range findings.ToolOrder {
		ff := byTool[tool]
		if len(ff) == 0 {
			continue
		}
		ew.printf("<details>\n<summary>%s %s (%d)</summary>\n\n",
			statusIcon(ff), findings.ToolLabel(tool), len(ff))
		for _, f := range ff {
			ew.printf("- %s **%s** %s", severityIcon(f.Severity), f.Severity, findingLocation(report, f))
			if f.RuleID != "" {
				ew.printf(" `%s`", f.RuleID)
			}
			ew.printf(" — %s\n", strings.ReplaceAll(f.Message, "\n", " "))
		}
		ew.printf("\n</details>\n\n")
	}

	return ew.err
}

// findingLocation renders a deep link into the head commit when the finding
// is anchored to a line, a file link otherwise.
func findingLocation(report *findings.Report, f findings.Finding) string {
	if report.Repo == "" || report.HeadSHA == "" {
		if f.FileLevel() {
			return fmt.Sprintf("`%s`", f.Path)
		}
		return fmt.Sprintf("`%s:%d`", f.Path, f.Line)
	}
	base := fmt.Sprintf("https://github.com/%s/blob/%s/%s", report.Repo, report.HeadSHA, f.Path)
	if f.FileLevel() {
		return fmt.Sprintf("[`%s`](%s)", f.Path, base)
	}
	return fmt.Sprintf("[`%s:%d`](%s#L%d)", f.Path, f.Line, base, f.Line)
}

func statusIcon(ff []findings.Finding) string {
	if findings.HasBlocking(ff) {
		return ":x:"
	}
	return ":white_check_mark:"
}

func severityIcon(s findings.Severity) string {
	switch s {
	case findings.SeverityCritical:
		return ":red_circle:"
	case findings.SeverityHigh, findings.SeverityError:
		return ":orange_circle:"
	case findings.SeverityMedium, findings.SeverityWarning:
		return ":yellow_circle:"
	case findings.SeverityLow:
		return ":large_blue_circle:"
	default:
		return ":white_circle:"
	}
}

func metricCell(n int, known bool) string {
	if !known {
		return "-"
	}
	return fmt.Sprintf("%d", n)
}

func shortSHA(sha string) string {
	if len(sha) > 7 {
		return sha[:7]
	}
	return sha
}
