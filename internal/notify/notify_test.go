package notify_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/edgard/jobscout/internal/notify"
	"github.com/edgard/jobscout/internal/vacancy"
)

// fakeMessenger records sent messages and can fail on demand.
type fakeMessenger struct {
	err     error
	chatIDs []int64
	texts   []string
}

func (f *fakeMessenger) SendText(_ context.Context, chatID int64, text string) error {
	if f.err != nil {
		return f.err
	}
	f.chatIDs = append(f.chatIDs, chatID)
	f.texts = append(f.texts, text)
	return nil
}

func TestFormatEmpty(t *testing.T) {
	t.Parallel()

	n := notify.NewNotifier(&fakeMessenger{}, nil, 42)

	if got := n.Format(nil); got != notify.NoMatchesMessage {
		t.Errorf("expected no-matches message, got %q", got)
	}
}

func TestFormatRendersRecordsInOrder(t *testing.T) {
	t.Parallel()

	n := notify.NewNotifier(&fakeMessenger{}, nil, 42)

	records := []vacancy.Record{
		{
			Title:          "Senior Go Engineer",
			Company:        "Acme",
			Location:       "Remote",
			Salary:         "$150k",
			Score:          0.85,
			Recommendation: vacancy.RecommendApply,
			MatchReasons:   []string{"go", "remote", "fintech"},
			Concerns:       []string{"on-call", "legacy stack"},
		},
		{
			Title:          "Backend Developer",
			Score:          0.5,
			Recommendation: vacancy.RecommendConsider,
		},
	}

	got := n.Format(records)

	if !strings.Contains(got, "Found 2 matching vacancies") {
		t.Errorf("missing header: %q", got)
	}

	first := strings.Index(got, "Senior Go Engineer")
	second := strings.Index(got, "Backend Developer")
	if first == -1 || second == -1 || first > second {
		t.Errorf("records not rendered in rank order: %q", got)
	}

	if !strings.Contains(got, "🔥 *1. Senior Go Engineer*") {
		t.Errorf("apply recommendation should use the fire marker: %q", got)
	}
	if !strings.Contains(got, "💼 *2. Backend Developer*") {
		t.Errorf("consider recommendation should use the briefcase marker: %q", got)
	}

	if !strings.Contains(got, "Score: 0.85") {
		t.Errorf("missing score line: %q", got)
	}

	// Reasons are capped at two, concerns at one.
	if strings.Contains(got, "fintech") {
		t.Errorf("match reasons not truncated: %q", got)
	}
	if strings.Contains(got, "legacy stack") {
		t.Errorf("concerns not truncated: %q", got)
	}

	// Missing fields fall back to placeholders.
	if !strings.Contains(got, "Unknown Company") || !strings.Contains(got, "Unknown Location") {
		t.Errorf("missing fallbacks for empty fields: %q", got)
	}
	if !strings.Contains(got, "Not specified") {
		t.Errorf("missing salary fallback: %q", got)
	}
}

func TestSend(t *testing.T) {
	t.Parallel()

	messenger := &fakeMessenger{}
	n := notify.NewNotifier(messenger, nil, 42)

	err := n.Send(context.Background(), []vacancy.Record{
		{Title: "Go Dev", Score: 0.9, Recommendation: vacancy.RecommendApply},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(messenger.texts) != 1 {
		t.Fatalf("expected 1 message, got %d", len(messenger.texts))
	}
	if messenger.chatIDs[0] != 42 {
		t.Errorf("expected delivery to target user 42, got %d", messenger.chatIDs[0])
	}
	if !strings.Contains(messenger.texts[0], "Go Dev") {
		t.Errorf("sent text missing vacancy: %q", messenger.texts[0])
	}
}

func TestSendEmptyStillNotifies(t *testing.T) {
	t.Parallel()

	messenger := &fakeMessenger{}
	n := notify.NewNotifier(messenger, nil, 42)

	if err := n.Send(context.Background(), nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(messenger.texts) != 1 || messenger.texts[0] != notify.NoMatchesMessage {
		t.Errorf("expected the fixed no-matches message, got %v", messenger.texts)
	}
}

func TestSendFailure(t *testing.T) {
	t.Parallel()

	n := notify.NewNotifier(&fakeMessenger{err: errors.New("chat not found")}, nil, 42)

	if err := n.Send(context.Background(), nil); err == nil {
		t.Fatal("expected error when messenger fails")
	}
}
