package scanners

import (
	"bufio"
	"bytes"
	"regexp"
	"strconv"
	"strings"

	"github.com/scanrelay/scanrelay/internal/findings"
)

// flake8 default text format: "path:line:col: CODE message"
var flake8Line = regexp.MustCompile(`^(.+?):(\d+):\d+:\s+(\S+)\s+(.*)$`)

func parseFlake8(b []byte) ([]findings.Finding, error) {
	var out []findings.Finding
	sc := bufio.NewScanner(bytes.NewReader(b))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		m := flake8Line.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[2])
		if err != nil {
			continue
		}
		out = append(out, findings.Finding{
			Tool:     findings.ToolFlake8,
			Path:     normalizePath(m[1]),
			Line:     safeLine(n),
			Severity: flake8Severity(m[3]),
			RuleID:   m[3],
			Message:  m[4],
		})
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// flake8 has rule codes rather than severities: F (pyflakes errors) are
// treated as HIGH, E (pycodestyle errors) MEDIUM, W (warnings) LOW.
func flake8Severity(code string) findings.Severity {
	switch {
	case strings.HasPrefix(code, "F"):
		return findings.SeverityHigh
	case strings.HasPrefix(code, "E"):
		return findings.SeverityMedium
	case strings.HasPrefix(code, "W"):
		return findings.SeverityLow
	default:
		return findings.SeverityInfo
	}
}
