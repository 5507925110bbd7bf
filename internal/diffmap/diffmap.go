// Package diffmap indexes a pull request's unified diff into the set of
// after-side lines that can carry an inline review comment. The index is the
// single source of truth for annotation eligibility: a file absent from the
// changed-file list has no entry, and every line in it is ineligible.
package diffmap

import (
	"fmt"
	"strconv"
	"strings"
)

// FilePatch is one changed file as reported by the pull request: its
// repo-relative path and the unified-diff patch text for that file.
type FilePatch struct {
	Path  string
	Patch string
}

// LineMap maps file path to the set of after-side line numbers present in
// the diff (added or context lines inside a hunk).
type LineMap map[string]map[int]bool

// Build indexes every file's patch. Files with an empty patch (binary files,
// renames without edits) get an entry with no eligible lines.
func Build(files []FilePatch) LineMap {
	m := make(LineMap, len(files))
	for _, f := range files {
		m[f.Path] = indexPatch(f.Patch)
	}
	return m
}

// Eligible reports whether (path, line) may carry an inline comment.
func (m LineMap) Eligible(path string, line int) bool {
	return m[path][line]
}

func indexPatch(patch string) map[int]bool {
	lines := make(map[int]bool)
	if patch == "" {
		return lines
	}
	current := 0
	inHunk := false
	for _, raw := range strings.Split(strings.TrimSuffix(patch, "\n"), "\n") {
		if strings.HasPrefix(raw, "@@") {
			start, err := parseHunkHeader(raw)
			if err != nil {
				inHunk = false
				continue
			}
			current = start
			inHunk = true
			continue
		}
		if !inHunk {
			continue
		}
		// A context line whose trailing whitespace was stripped arrives
		// empty; it still occupies an after-side line.
		if raw == "" {
			lines[current] = true
			current++
			continue
		}
		switch raw[0] {
		case '+', ' ':
			lines[current] = true
			current++
		case '-':
			// advances only the before-side counter
		case '\\':
			// "\ No newline at end of file"
		default:
			current++
		}
	}
	return lines
}

// parseHunkHeader extracts the after-side starting line from a header of the
// form "@@ -oldStart,oldCount +newStart,newCount @@".
func parseHunkHeader(line string) (int, error) {
	parts := strings.Split(line, "@@")
	if len(parts) < 2 {
		return 0, fmt.Errorf("malformed hunk header: %s", line)
	}
	ranges := strings.Fields(strings.TrimSpace(parts[1]))
	if len(ranges) < 2 {
		return 0, fmt.Errorf("invalid hunk range: %s", line)
	}
	newRange := ranges[1]
	if !strings.HasPrefix(newRange, "+") {
		return 0, fmt.Errorf("new range must start with +: %s", newRange)
	}
	start, err := strconv.Atoi(strings.SplitN(strings.TrimPrefix(newRange, "+"), ",", 2)[0])
	if err != nil {
		return 0, fmt.Errorf("invalid line number in hunk header: %w", err)
	}
	return start, nil
}
