package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/logrusorgru/aurora/v4"

	"github.com/scanrelay/scanrelay/internal/findings"
)

// TextWriter outputs a human-readable text report for terminal use.
type TextWriter struct {
	// Color enables ANSI color codes. Off by default so piped output
	// stays clean.
	Color bool
}

func (t *TextWriter) Write(w io.Writer, report *findings.Report) error {
	au := aurora.New(aurora.WithColors(t.Color))
	ew := &errWriter{w: w}
	byTool := findings.ByTool(report.Findings)

	ew.printf("ScanRelay")
	if report.Repo != "" && report.PR > 0 {
		ew.printf(" — %s#%d", report.Repo, report.PR)
	}
	ew.println("")
	ew.println(strings.Repeat("─", 60))
	ew.printf("Findings: %d total", len(report.Findings))
	if report.OutsideDiff > 0 {
		ew.printf(" (%d outside the diff)", report.OutsideDiff)
	}
	ew.println("")
	ew.println(strings.Repeat("─", 60))

	if len(report.Findings) == 0 {
		ew.println("\nNo findings. Looks good!")
		return ew.err
	}

	for _, tool := range findings.ToolOrder {
		ff := byTool[tool]
		if len(ff) == 0 {
			continue
		}
		ew.printf("\n%s (%d)\n", au.Bold(findings.ToolLabel(tool)), len(ff))
		ew.println(strings.Repeat("─", 40))
		for _, f := range ff {
			loc := f.Path
			if !f.FileLevel() {
				loc = fmt.Sprintf("%s:%d", f.Path, f.Line)
			}
			ew.printf("  %s  %s", colorSeverity(au, f.Severity), loc)
			if f.RuleID != "" {
				ew.printf("  [%s]", f.RuleID)
			}
			ew.println("")
			for _, line := range wrapText(f.Message, 70) {
				ew.printf("    %s\n", line)
			}
		}
	}

	if m, ok := report.Metrics[findings.ToolCheckov]; ok {
		ew.printf("\n%s\n", strings.Repeat("─", 60))
		ew.printf("Checkov: %d passed, %d failed, %d skipped\n", m.Passed, m.Failed, m.Skipped)
	}

	return ew.err
}

func colorSeverity(au *aurora.Aurora, s findings.Severity) aurora.Value {
	switch s {
	case findings.SeverityCritical, findings.SeverityHigh, findings.SeverityError:
		return au.Red(string(s))
	case findings.SeverityMedium, findings.SeverityWarning:
		return au.Yellow(string(s))
	case findings.SeverityLow:
		return au.Cyan(string(s))
	default:
		return au.Gray(12, string(s))
	}
}

// errWriter wraps an io.Writer and captures the first error.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...interface{}) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}

func (ew *errWriter) println(s string) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintln(ew.w, s)
}

func wrapText(text string, width int) []string {
	if len(text) <= width {
		return []string{text}
	}
	var lines []string
	words := strings.Fields(text)
	var current strings.Builder
	for _, word := range words {
		if current.Len()+len(word)+1 > width && current.Len() > 0 {
			lines = append(lines, current.String())
			current.Reset()
		}
		if current.Len() > 0 {
			current.WriteString(" ")
		}
		current.WriteString(word)
	}
	if current.Len() > 0 {
		lines = append(lines, current.String())
	}
	return lines
}
