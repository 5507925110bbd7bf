// Package cli wires together the Cobra command tree for the scanrelay
// binary.
//
// It defines the root command and all subcommands (run, report, config,
// version), binds flags, reads configuration, drives the parse/filter/post
// pipeline, and returns deterministic exit codes for CI gating.
package cli
