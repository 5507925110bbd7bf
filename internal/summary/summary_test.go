package summary

import (
	"context"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/scanrelay/scanrelay/internal/github"
)

func TestReconcileCreatesWhenNoMarkedComment(t *testing.T) {
	existing := []github.IssueComment{
		{ID: 1, Body: "unrelated human comment"},
		{ID: 2, Body: "another one"},
	}
	a := Reconcile(existing, "# Report")
	if a.Update {
		t.Fatal("expected create, got update")
	}
	if !strings.HasPrefix(a.Body, Marker) {
		t.Error("body must start with the marker")
	}
	if !strings.Contains(a.Body, "# Report") {
		t.Error("body must contain the rendered report")
	}
}

func TestReconcileUpdatesFirstMarkedComment(t *testing.T) {
	existing := []github.IssueComment{
		{ID: 1, Body: "unrelated"},
		{ID: 5, Body: Marker + "\nold report"},
		{ID: 9, Body: Marker + "\nduplicate from a past bug"},
	}
	a := Reconcile(existing, "new report")
	if !a.Update || a.ID != 5 {
		t.Fatalf("expected update of comment 5, got %+v", a)
	}
}

func TestReconcileDoesNotDoubleMarker(t *testing.T) {
	a := Reconcile(nil, Marker+"\nalready wrapped")
	if strings.Count(a.Body, Marker) != 1 {
		t.Errorf("marker should appear exactly once, body:\n%s", a.Body)
	}
}

type fakeAPI struct {
	comments []github.IssueComment
	created  []string
	updated  map[int64]string
	listErr  error
}

func (f *fakeAPI) ListIssueComments(context.Context) ([]github.IssueComment, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.comments, nil
}

func (f *fakeAPI) CreateIssueComment(_ context.Context, body string) error {
	f.created = append(f.created, body)
	return nil
}

func (f *fakeAPI) UpdateIssueComment(_ context.Context, id int64, body string) error {
	if f.updated == nil {
		f.updated = make(map[int64]string)
	}
	f.updated[id] = body
	return nil
}

func newManager(api API) *Manager {
	return &Manager{API: api, Log: zap.NewNop().Sugar(), Sleep: func(time.Duration) {}}
}

func TestPublishCreatesOnFirstRun(t *testing.T) {
	api := &fakeAPI{}
	if err := newManager(api).Publish(context.Background(), "body"); err != nil {
		t.Fatalf("Publish error: %v", err)
	}
	if len(api.created) != 1 || len(api.updated) != 0 {
		t.Errorf("expected one create, got created=%d updated=%d", len(api.created), len(api.updated))
	}
}

func TestPublishIsIdempotent(t *testing.T) {
	api := &fakeAPI{}
	m := newManager(api)
	ctx := context.Background()

	if err := m.Publish(ctx, "first"); err != nil {
		t.Fatal(err)
	}
	// Simulate the PR state after the first run.
	api.comments = []github.IssueComment{{ID: 100, Body: api.created[0]}}

	if err := m.Publish(ctx, "second"); err != nil {
		t.Fatal(err)
	}
	if len(api.created) != 1 {
		t.Errorf("second run must not create another comment, created=%d", len(api.created))
	}
	if body, ok := api.updated[100]; !ok || !strings.Contains(body, "second") {
		t.Errorf("second run should update comment 100 with new body, got %+v", api.updated)
	}
}
