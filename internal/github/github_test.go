package github

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	gogithub "github.com/google/go-github/v68/github"

	"github.com/scanrelay/scanrelay/internal/annotate"
)

func testClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	gh := gogithub.NewClient(server.Client())
	base, err := url.Parse(server.URL + "/")
	if err != nil {
		t.Fatal(err)
	}
	gh.BaseURL = base

	return &Client{gh: gh, owner: "owner", repo: "repo", pr: 42}
}

func TestHeadSHA(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/repos/owner/repo/pulls/42" {
			t.Errorf("Path = %q", r.URL.Path)
		}
		fmt.Fprint(w, `{"head": {"sha": "abc123"}}`)
	}))

	sha, err := c.HeadSHA(context.Background())
	if err != nil {
		t.Fatalf("HeadSHA error: %v", err)
	}
	if sha != "abc123" {
		t.Errorf("sha = %q, want abc123", sha)
	}
}

func TestChangedFilesPagination(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/repos/owner/repo/pulls/42/files" {
			t.Errorf("Path = %q", r.URL.Path)
		}
		if r.URL.Query().Get("page") == "" {
			w.Header().Set("Link", fmt.Sprintf(`<%s?page=2>; rel="next"`, "http://"+r.Host+r.URL.Path))
			fmt.Fprint(w, `[{"filename": "a.py", "patch": "@@ -1 +1 @@\n+x"}]`)
			return
		}
		fmt.Fprint(w, `[{"filename": "logo.png"}]`)
	}))

	files, err := c.ChangedFiles(context.Background())
	if err != nil {
		t.Fatalf("ChangedFiles error: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("expected 2 files across pages, got %d", len(files))
	}
	if files[0].Path != "a.py" || files[0].Patch == "" {
		t.Errorf("unexpected first file %+v", files[0])
	}
	if files[1].Path != "logo.png" || files[1].Patch != "" {
		t.Errorf("binary file should have empty patch, got %+v", files[1])
	}
}

func TestPostReview(t *testing.T) {
	var got gogithub.PullRequestReviewRequest
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/repos/owner/repo/pulls/42/reviews" {
			t.Errorf("%s %s", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatal(err)
		}
		fmt.Fprint(w, `{"id": 1}`)
	}))

	err := c.PostReview(context.Background(), "abc123", []annotate.Request{
		{Path: "a.py", Line: 3, Body: "finding"},
	})
	if err != nil {
		t.Fatalf("PostReview error: %v", err)
	}
	if got.GetEvent() != "COMMENT" || got.GetCommitID() != "abc123" {
		t.Errorf("unexpected review envelope: event=%q commit=%q", got.GetEvent(), got.GetCommitID())
	}
	if len(got.Comments) != 1 {
		t.Fatalf("expected 1 comment, got %d", len(got.Comments))
	}
	cm := got.Comments[0]
	if cm.GetPath() != "a.py" || cm.GetLine() != 3 || cm.GetSide() != "RIGHT" {
		t.Errorf("unexpected comment %+v", cm)
	}
}

func TestPostReviewWithoutHeadSHA(t *testing.T) {
	var got map[string]any
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatal(err)
		}
		fmt.Fprint(w, `{"id": 1}`)
	}))

	err := c.PostReview(context.Background(), "", []annotate.Request{
		{Path: "a.py", Line: 3, Body: "finding"},
	})
	if err != nil {
		t.Fatalf("PostReview error: %v", err)
	}
	// An unknown head commit must not be sent as an empty commit_id; the
	// field stays absent so the API pins the latest commit itself.
	if _, present := got["commit_id"]; present {
		t.Errorf("commit_id should be omitted, payload: %v", got)
	}
	if got["event"] != "COMMENT" {
		t.Errorf("event = %v, want COMMENT", got["event"])
	}
}

func TestIssueCommentRoundtrip(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/repos/owner/repo/issues/42/comments":
			fmt.Fprint(w, `[{"id": 7, "body": "hello"}]`)
		case r.Method == http.MethodPost && r.URL.Path == "/repos/owner/repo/issues/42/comments":
			fmt.Fprint(w, `{"id": 8}`)
		case r.Method == http.MethodPatch && r.URL.Path == "/repos/owner/repo/issues/comments/7":
			fmt.Fprint(w, `{"id": 7}`)
		default:
			t.Errorf("unexpected call %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))

	ctx := context.Background()
	comments, err := c.ListIssueComments(ctx)
	if err != nil {
		t.Fatalf("ListIssueComments error: %v", err)
	}
	if len(comments) != 1 || comments[0].ID != 7 || comments[0].Body != "hello" {
		t.Errorf("unexpected comments %+v", comments)
	}
	if err := c.CreateIssueComment(ctx, "new"); err != nil {
		t.Errorf("CreateIssueComment error: %v", err)
	}
	if err := c.UpdateIssueComment(ctx, 7, "edited"); err != nil {
		t.Errorf("UpdateIssueComment error: %v", err)
	}
}

func TestParseRemoteURL(t *testing.T) {
	tests := []struct {
		url       string
		owner     string
		repo      string
		expectErr bool
	}{
		{"https://github.com/acme/widgets.git", "acme", "widgets", false},
		{"https://github.com/acme/widgets", "acme", "widgets", false},
		{"git@github.com:acme/widgets.git", "acme", "widgets", false},
		{"https://gitlab.example.com/team/project.git", "team", "project", false},
		{"not-a-url", "", "", true},
	}

	for _, tt := range tests {
		owner, repo, err := ParseRemoteURL(tt.url)
		if tt.expectErr {
			if err == nil {
				t.Errorf("ParseRemoteURL(%q): expected error", tt.url)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseRemoteURL(%q): %v", tt.url, err)
			continue
		}
		if owner != tt.owner || repo != tt.repo {
			t.Errorf("ParseRemoteURL(%q) = %q/%q, want %q/%q", tt.url, owner, repo, tt.owner, tt.repo)
		}
	}
}
