package findings

// Aggregate merges per-tool parser outputs into one sequence. Tools are
// visited in ToolOrder and each tool's findings keep their parser-relative
// order, so identical inputs always produce identical output. A tool with a
// nil or empty slice (including one whose report was malformed) contributes
// nothing; nothing is deduplicated.
func Aggregate(byTool map[Tool][]Finding) []Finding {
	var out []Finding
	for _, t := range ToolOrder {
		out = append(out, byTool[t]...)
	}
	return out
}
