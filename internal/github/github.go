package github

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"strings"

	gogithub "github.com/google/go-github/v68/github"

	"github.com/scanrelay/scanrelay/internal/annotate"
	"github.com/scanrelay/scanrelay/internal/diffmap"
)

// Client provides access to one pull request's API surface.
type Client struct {
	gh    *gogithub.Client
	owner string
	repo  string
	pr    int
}

// NewClient creates a client for the given pull request. Requires the
// GITHUB_TOKEN env var; GITHUB_API_URL overrides the API base for
// enterprise installs.
func NewClient(owner, repo string, pr int) (*Client, error) {
	token := os.Getenv("GITHUB_TOKEN")
	if token == "" {
		return nil, fmt.Errorf("GITHUB_TOKEN environment variable is not set")
	}

	gh := gogithub.NewClient(nil).WithAuthToken(token)
	if base := os.Getenv("GITHUB_API_URL"); base != "" {
		var err error
		gh, err = gh.WithEnterpriseURLs(base, base)
		if err != nil {
			return nil, fmt.Errorf("configuring API base URL: %w", err)
		}
	}

	return &Client{gh: gh, owner: owner, repo: repo, pr: pr}, nil
}

// HeadSHA returns the pull request's head commit, used for deep links and
// anchoring the review.
func (c *Client) HeadSHA(ctx context.Context) (string, error) {
	pr, _, err := c.gh.PullRequests.Get(ctx, c.owner, c.repo, c.pr)
	if err != nil {
		return "", fmt.Errorf("fetching pull request: %w", err)
	}
	return pr.GetHead().GetSHA(), nil
}

// ChangedFiles lists every file in the pull request with its unified-diff
// patch text, following pagination.
func (c *Client) ChangedFiles(ctx context.Context) ([]diffmap.FilePatch, error) {
	opts := &gogithub.ListOptions{PerPage: 100}
	var out []diffmap.FilePatch
	for {
		files, resp, err := c.gh.PullRequests.ListFiles(ctx, c.owner, c.repo, c.pr, opts)
		if err != nil {
			return nil, fmt.Errorf("listing changed files: %w", err)
		}
		for _, f := range files {
			out = append(out, diffmap.FilePatch{
				Path:  f.GetFilename(),
				Patch: f.GetPatch(),
			})
		}
		if resp.NextPage == 0 {
			return out, nil
		}
		opts.Page = resp.NextPage
	}
}

// PostReview submits one review carrying the given line comments as a single
// atomic call.
func (c *Client) PostReview(ctx context.Context, headSHA string, comments []annotate.Request) error {
	draft := make([]*gogithub.DraftReviewComment, len(comments))
	for i, cm := range comments {
		draft[i] = &gogithub.DraftReviewComment{
			Path: gogithub.Ptr(cm.Path),
			Line: gogithub.Ptr(cm.Line),
			Side: gogithub.Ptr("RIGHT"),
			Body: gogithub.Ptr(cm.Body),
		}
	}
	req := &gogithub.PullRequestReviewRequest{
		Event:    gogithub.Ptr("COMMENT"),
		Comments: draft,
	}
	// When the head commit could not be resolved, leave commit_id unset so
	// the API pins the review to the latest commit itself.
	if headSHA != "" {
		req.CommitID = gogithub.Ptr(headSHA)
	}
	_, _, err := c.gh.PullRequests.CreateReview(ctx, c.owner, c.repo, c.pr, req)
	return err
}

// IssueComment is a PR-level (non-review) comment.
type IssueComment struct {
	ID   int64
	Body string
}

// ListIssueComments returns all PR-level comments, following pagination.
func (c *Client) ListIssueComments(ctx context.Context) ([]IssueComment, error) {
	opts := &gogithub.IssueListCommentsOptions{
		ListOptions: gogithub.ListOptions{PerPage: 100},
	}
	var out []IssueComment
	for {
		comments, resp, err := c.gh.Issues.ListComments(ctx, c.owner, c.repo, c.pr, opts)
		if err != nil {
			return nil, fmt.Errorf("listing comments: %w", err)
		}
		for _, cm := range comments {
			out = append(out, IssueComment{ID: cm.GetID(), Body: cm.GetBody()})
		}
		if resp.NextPage == 0 {
			return out, nil
		}
		opts.Page = resp.NextPage
	}
}

// CreateIssueComment posts a new PR-level comment.
func (c *Client) CreateIssueComment(ctx context.Context, body string) error {
	_, _, err := c.gh.Issues.CreateComment(ctx, c.owner, c.repo, c.pr,
		&gogithub.IssueComment{Body: gogithub.Ptr(body)})
	if err != nil {
		return fmt.Errorf("creating comment: %w", err)
	}
	return nil
}

// UpdateIssueComment replaces an existing PR-level comment's body.
func (c *Client) UpdateIssueComment(ctx context.Context, id int64, body string) error {
	_, _, err := c.gh.Issues.EditComment(ctx, c.owner, c.repo, id,
		&gogithub.IssueComment{Body: gogithub.Ptr(body)})
	if err != nil {
		return fmt.Errorf("updating comment %d: %w", id, err)
	}
	return nil
}

var (
	httpsRemoteRe = regexp.MustCompile(`https?://[^/]+/([^/]+)/([^/.\s]+)`)
	sshRemoteRe   = regexp.MustCompile(`[^@]+@[^:]+:([^/]+)/([^/.\s]+)`)
)

// DetectRepo parses owner/repo from the git remote origin URL.
func DetectRepo() (owner, repo string, err error) {
	out, err := exec.Command("git", "remote", "get-url", "origin").Output()
	if err != nil {
		return "", "", fmt.Errorf("cannot detect repo: git remote get-url origin failed: %w", err)
	}
	return ParseRemoteURL(strings.TrimSpace(string(out)))
}

// ParseRemoteURL extracts owner/repo from a git remote URL.
func ParseRemoteURL(url string) (owner, repo string, err error) {
	url = strings.TrimSuffix(url, ".git")

	if m := httpsRemoteRe.FindStringSubmatch(url); len(m) == 3 {
		return m[1], m[2], nil
	}
	if m := sshRemoteRe.FindStringSubmatch(url); len(m) == 3 {
		return m[1], m[2], nil
	}
	return "", "", fmt.Errorf("cannot parse owner/repo from remote URL: %s", url)
}
