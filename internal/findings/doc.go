// Package findings defines the unified finding model shared by every scanner
// parser and by the annotation and reporting layers.
//
// A Finding carries a tool identifier, a repo-relative path, an optional
// 1-based line number (0 marks a file-level finding that can never receive an
// inline comment), a normalized severity, an optional rule ID, and a message.
// Severities from heterogeneous scanners are mapped onto one enum with a total
// rank order so thresholds and status indicators are comparable across tools.
//
// Aggregation is deterministic: per-tool slices are concatenated in the fixed
// ToolOrder, preserving each parser's own ordering, with no deduplication —
// identical locations reported by different tools are independent analyses.
package findings
