// Package output formats scan reports for display or machine consumption.
//
// Four formats are supported:
//   - text     — human-readable terminal output (default)
//   - json     — full structured JSON report
//   - markdown — the PR summary comment body, also usable standalone
//   - sarif    — SARIF v2.1.0 for upload to GitHub Advanced Security and other CI tools
//
// Use [GetWriter] to obtain a [Writer] for a given format string, then call
// [Writer.Write] with an [io.Writer] and a [*findings.Report]. Rendering is
// pure and deterministic: the same report yields byte-identical output, and
// the input sequence is never mutated or reordered.
package output
