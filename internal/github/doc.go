// Package github wraps the GitHub REST API surface the pipeline consumes:
// the pull request's changed files and head commit, review creation with
// line comments, and the issue-comment operations behind the summary
// comment.
//
// Repository identity can be detected from the local git remote; the token
// comes from the GITHUB_TOKEN environment variable.
package github
