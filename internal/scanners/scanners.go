package scanners

import (
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/scanrelay/scanrelay/internal/findings"
)

// Parse converts one tool's raw report bytes into normalized findings. It
// never returns an error: unreadable input yields zero findings and a warning
// so one broken report cannot abort the run. Checkov callers that have a plan
// enrichment file should use ParseCheckov instead.
func Parse(tool findings.Tool, raw []byte, log *zap.SugaredLogger) []findings.Finding {
	var (
		out []findings.Finding
		err error
	)
	switch tool {
	case findings.ToolFlake8:
		out, err = parseFlake8(raw)
	case findings.ToolBandit:
		out, err = parseBandit(raw)
	case findings.ToolTrivy:
		out, err = parseTrivy(raw)
	case findings.ToolHadolint:
		out, err = parseHadolint(raw)
	case findings.ToolCheckov:
		out, _, err = parseCheckov(raw, nil)
	default:
		log.Warnw("unknown tool, report ignored", "tool", tool)
		return nil
	}
	if err != nil {
		log.Warnw("report unreadable, tool contributes no findings",
			"tool", tool, "error", err)
		return nil
	}
	return out
}

// ParseCheckov parses a checkov report with an optional plan enrichment
// document and returns the tool's native pass/fail/skip counters alongside
// the findings.
func ParseCheckov(raw, plan []byte, log *zap.SugaredLogger) ([]findings.Finding, findings.ToolMetrics) {
	out, metrics, err := parseCheckov(raw, plan)
	if err != nil {
		log.Warnw("report unreadable, tool contributes no findings",
			"tool", findings.ToolCheckov, "error", err)
		return nil, findings.ToolMetrics{}
	}
	return out, metrics
}

// normalizePath strips decorations scanners attach to paths (leading "./",
// "../" chains from container mounts, absolute slashes) so every finding uses
// one canonical repo-relative form.
func normalizePath(p string) string {
	p = strings.TrimSpace(filepath.ToSlash(p))
	for strings.HasPrefix(p, "../") {
		p = strings.TrimPrefix(p, "../")
	}
	p = strings.TrimPrefix(p, "./")
	p = strings.TrimPrefix(p, "/")
	return p
}

func safeLine(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
