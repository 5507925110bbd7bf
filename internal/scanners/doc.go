// Package scanners converts native scanner reports into unified findings.
//
// One parser exists per tool family: flake8 (code quality, colon-separated
// text), bandit (Python security, JSON), trivy (container misconfiguration,
// JSON), hadolint (Dockerfile lint, JSON), and checkov (IaC compliance, JSON,
// optionally enriched with a Terraform plan resource map). All parsers are
// selected through one Parse entry point keyed by tool identifier so no
// format-specific logic leaks into the pipeline.
//
// Parsers never fail the run: a missing, truncated, or unexpectedly shaped
// report produces zero findings and a logged warning. Severity vocabularies
// are mapped onto the shared enum with unmapped values defaulting to INFO, and
// every reported path is normalized to a single repo-relative form.
package scanners
