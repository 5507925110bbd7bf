// Scanrelay publishes static-analysis findings to pull requests.
//
// It parses native reports from flake8, bandit, trivy, hadolint, and checkov,
// normalizes them into one finding model, filters them against the pull
// request's diff, posts inline review comments in rate-limited batches, and
// maintains exactly one summary comment per pull request across re-runs.
//
// Usage:
//
//	scanrelay run --pr 42 --flake8 flake8.txt --bandit bandit.json   # full pipeline
//	scanrelay report --checkov checkov.json --format markdown        # render locally
//	scanrelay config set reports.trivy trivy.json                    # persist report paths
//
// See https://github.com/scanrelay/scanrelay for full documentation.
package main
