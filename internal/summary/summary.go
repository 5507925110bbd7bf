// Package summary maintains the single marker-wrapped summary comment on a
// pull request. Re-running the pipeline never produces a second summary: the
// marker is located among existing comments and the comment is updated in
// place, or created once if absent.
package summary

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/scanrelay/scanrelay/internal/annotate"
	"github.com/scanrelay/scanrelay/internal/github"
)

// Marker is embedded invisibly at the top of the summary body and used only
// for idempotent lookup.
const Marker = "<!-- scanrelay:summary -->"

// API is the comment surface the manager drives.
type API interface {
	ListIssueComments(ctx context.Context) ([]github.IssueComment, error)
	CreateIssueComment(ctx context.Context, body string) error
	UpdateIssueComment(ctx context.Context, id int64, body string) error
}

// Action is the outcome of reconciling the rendered body against the PR's
// existing comments.
type Action struct {
	Update bool
	ID     int64
	Body   string
}

// Reconcile decides between updating the first marked comment and creating a
// new one. Pure: callers supply the comment list and apply the action.
func Reconcile(existing []github.IssueComment, rendered string) Action {
	body := rendered
	if !strings.Contains(body, Marker) {
		body = Marker + "\n" + body
	}
	for _, c := range existing {
		if strings.Contains(c.Body, Marker) {
			return Action{Update: true, ID: c.ID, Body: body}
		}
	}
	return Action{Update: false, Body: body}
}

// Manager publishes the summary comment, applying the shared rate-limit
// retry policy to both the list and the create/update calls.
type Manager struct {
	API   API
	Log   *zap.SugaredLogger
	Sleep func(time.Duration) // injectable for tests; nil means real sleep
}

// Publish upserts the rendered report as the PR's summary comment.
func (m *Manager) Publish(ctx context.Context, rendered string) error {
	var existing []github.IssueComment
	err := annotate.Retry(ctx, m.Sleep, func() error {
		var lerr error
		existing, lerr = m.API.ListIssueComments(ctx)
		return lerr
	})
	if err != nil {
		return err
	}

	action := Reconcile(existing, rendered)
	if action.Update {
		m.Log.Infow("updating summary comment", "id", action.ID)
		return annotate.Retry(ctx, m.Sleep, func() error {
			return m.API.UpdateIssueComment(ctx, action.ID, action.Body)
		})
	}
	m.Log.Infow("creating summary comment")
	return annotate.Retry(ctx, m.Sleep, func() error {
		return m.API.CreateIssueComment(ctx, action.Body)
	})
}
