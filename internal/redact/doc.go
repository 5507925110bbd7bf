// Package redact removes secrets from finding messages before they are
// posted to a pull request as comments or rendered into the summary report.
//
// Detection uses regex heuristics covering common secret shapes: API keys,
// JWTs, private keys, AWS access key IDs and secret access keys, bearer
// tokens, and provider-specific tokens (GitHub, Slack, Anthropic, OpenAI).
// Scanner messages occasionally quote offending source lines verbatim, so
// every message passes through [Secrets] on its way to the comment surface.
//
// Path-based redaction is also supported: findings in files whose paths
// match configured glob patterns have their message replaced entirely with
// [REDACTED] rather than being scanned pattern by pattern.
package redact
