package annotate

import (
	"fmt"

	"github.com/scanrelay/scanrelay/internal/diffmap"
	"github.com/scanrelay/scanrelay/internal/findings"
	"github.com/scanrelay/scanrelay/internal/redact"
)

// Request is one line-anchored review comment waiting to be posted.
type Request struct {
	Path string
	Line int
	Body string
}

// BuildOptions controls comment body construction.
type BuildOptions struct {
	RedactSecrets bool
	RedactPaths   []string
}

// Build intersects findings with the diff index. It returns the ordered
// comment requests for findings anchored to a changed line, plus the count
// of line-bearing findings that fell outside the diff (file-level findings
// are not counted: they were never candidates for inline annotation).
func Build(ff []findings.Finding, m diffmap.LineMap, opts BuildOptions) ([]Request, int) {
	var (
		reqs    []Request
		outside int
	)
	for _, f := range ff {
		if f.FileLevel() {
			continue
		}
		if !m.Eligible(f.Path, f.Line) {
			outside++
			continue
		}
		reqs = append(reqs, Request{
			Path: f.Path,
			Line: f.Line,
			Body: formatComment(f, opts),
		})
	}
	return reqs, outside
}

func formatComment(f findings.Finding, opts BuildOptions) string {
	badge := severityBadge(f.Severity)
	msg := f.Message
	if opts.RedactSecrets {
		msg = redact.Message(msg, f.Path, opts.RedactPaths)
	}
	if f.RuleID == "" {
		return fmt.Sprintf("%s **%s** (%s)\n\n%s", badge, f.Severity, findings.ToolLabel(f.Tool), msg)
	}
	return fmt.Sprintf("%s **%s** `%s` (%s)\n\n%s", badge, f.Severity, f.RuleID, findings.ToolLabel(f.Tool), msg)
}

func severityBadge(sev findings.Severity) string {
	switch sev {
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
