package distribution

import (
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/africagold/goldintel/internal/models"
)

type fakeChannel struct {
	name   string
	result *models.DeliveryResult
	err    error
	calls  int
}

func (f *fakeChannel) Name() string { return f.name }

func (f *fakeChannel) Publish(issue *models.Issue, live bool) (*models.DeliveryResult, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func testIssue() *models.Issue {
	return &models.Issue{Title: "Gold Market Briefing"}
}

func TestDispatcherFirstSuccessIsAuthoritative(t *testing.T) {
	first := &fakeChannel{name: "api", result: &models.DeliveryResult{PostID: "p1", PostURL: "https://example.com/p1"}}
	second := &fakeChannel{name: "browser", result: &models.DeliveryResult{PostID: "p2"}}

	d := NewDispatcher([]Channel{first, second}, zap.NewNop())
	result, attempts, err := d.Publish(testIssue(), false)
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if result.Channel != "api" || result.PostID != "p1" {
		t.Errorf("authoritative result = %+v, want api/p1", result)
	}
	if second.calls != 0 {
		t.Errorf("second channel invoked %d times, want 0", second.calls)
	}
	if len(attempts) != 1 {
		t.Errorf("expected 1 attempt recorded, got %d", len(attempts))
	}
}

func TestDispatcherFallthrough(t *testing.T) {
	first := &fakeChannel{name: "api", err: ErrUnavailable}
	second := &fakeChannel{name: "browser", result: &models.DeliveryResult{PostID: "b1"}}
	third := &fakeChannel{name: "email", result: &models.DeliveryResult{PostID: "e1"}}

	d := NewDispatcher([]Channel{first, second, third}, zap.NewNop())
	result, attempts, err := d.Publish(testIssue(), false)
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if result.Channel != "browser" {
		t.Errorf("authoritative channel = %s, want browser", result.Channel)
	}
	if third.calls != 0 {
		t.Errorf("third channel invoked after success")
	}
	if len(attempts) != 2 {
		t.Fatalf("expected 2 attempts, got %d", len(attempts))
	}
	if attempts[0].Err == "" {
		t.Error("expected first attempt to record failure reason")
	}
}

func TestDispatcherAllFail(t *testing.T) {
	chain := []Channel{
		&fakeChannel{name: "api", err: errors.New("403")},
		&fakeChannel{name: "browser", err: errors.New("session expired")},
		&fakeChannel{name: "email", err: ErrUnavailable},
	}

	d := NewDispatcher(chain, zap.NewNop())
	result, attempts, err := d.Publish(testIssue(), false)
	if err == nil {
		t.Fatal("expected error when every channel fails")
	}
	if result != nil {
		t.Errorf("expected nil result, got %+v", result)
	}
	if len(attempts) != 3 {
		t.Errorf("expected 3 attempts, got %d", len(attempts))
	}
}

func TestDispatcherPartialSuccessKeepsEmptyLocator(t *testing.T) {
	ch := &fakeChannel{name: "browser", result: &models.DeliveryResult{PostID: "browser-post"}}

	d := NewDispatcher([]Channel{ch}, zap.NewNop())
	result, _, err := d.Publish(testIssue(), false)
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if result.PostURL != "" {
		t.Errorf("expected empty locator preserved, got %q", result.PostURL)
	}
}
