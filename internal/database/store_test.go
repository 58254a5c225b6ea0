package database_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/edgard/jobscout/internal/database"

	_ "modernc.org/sqlite"
)

func newTestStore(t *testing.T) database.Store {
	t.Helper()

	db, err := database.NewDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { database.CloseDB(db) })

	return database.NewStore(db, nil)
}

func TestUpsertChannel(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	ch := &database.Channel{ID: 100, Title: "Go Jobs", IsChannel: true}
	if err := store.UpsertChannel(ctx, ch); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Second upsert with a new title tracks the rename.
	renamed := &database.Channel{ID: 100, Title: "Golang Jobs", IsChannel: true}
	if err := store.UpsertChannel(ctx, renamed); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	channels, err := store.ListChannels(ctx, time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(channels) != 1 {
		t.Fatalf("expected 1 channel, got %d", len(channels))
	}
	if channels[0].Title != "Golang Jobs" {
		t.Errorf("expected renamed title, got %q", channels[0].Title)
	}
}

func TestUpsertChannelValidation(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	if err := store.UpsertChannel(ctx, nil); err == nil {
		t.Error("expected error for nil channel")
	}
	if err := store.UpsertChannel(ctx, &database.Channel{Title: "no id"}); err == nil {
		t.Error("expected error for zero channel id")
	}
}

func TestSaveMessageDeduplicates(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	msg := &database.ArchivedMessage{
		ChannelID: 100,
		MessageID: 7,
		Content:   "Go developer wanted",
		PostedAt:  "2025-06-15T10:00:00Z",
	}
	if err := store.SaveMessage(ctx, msg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Re-archiving the same post is a no-op, not an error.
	dup := &database.ArchivedMessage{
		ChannelID: 100,
		MessageID: 7,
		Content:   "Go developer wanted (edited)",
		PostedAt:  "2025-06-15T10:00:00Z",
	}
	if err := store.SaveMessage(ctx, dup); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	messages, err := store.RecentMessages(ctx, 100, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(messages) != 1 {
		t.Fatalf("expected 1 message after duplicate save, got %d", len(messages))
	}
	if messages[0].Content != "Go developer wanted" {
		t.Errorf("duplicate save must not overwrite, got %q", messages[0].Content)
	}
}

func TestRecentMessagesOrderAndLimit(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	for i := int64(1); i <= 5; i++ {
		msg := &database.ArchivedMessage{
			ChannelID: 200,
			MessageID: i,
			Content:   "post",
			PostedAt:  "2025-06-15T10:00:00Z",
		}
		if err := store.SaveMessage(ctx, msg); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	messages, err := store.RecentMessages(ctx, 200, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(messages) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(messages))
	}
	if messages[0].MessageID != 5 || messages[2].MessageID != 3 {
		t.Errorf("expected newest-first order, got %d..%d", messages[0].MessageID, messages[2].MessageID)
	}
}

func TestLastRunRoundTrip(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	if _, ok, err := store.LastRun(ctx); err != nil || ok {
		t.Fatalf("expected no last run on a fresh database, got ok=%v err=%v", ok, err)
	}

	stamp := time.Date(2025, 6, 15, 14, 0, 0, 0, time.UTC)
	if err := store.SetLastRun(ctx, stamp); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, ok, err := store.LastRun(ctx)
	if err != nil || !ok {
		t.Fatalf("expected last run to be set, got ok=%v err=%v", ok, err)
	}
	if !got.Equal(stamp) {
		t.Errorf("expected %v, got %v", stamp, got)
	}

	// Overwrite on the next cycle.
	later := stamp.Add(6 * time.Hour)
	if err := store.SetLastRun(ctx, later); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, _, _ = store.LastRun(ctx)
	if !got.Equal(later) {
		t.Errorf("expected %v, got %v", later, got)
	}
}

func TestSnapshots(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	if err := store.SaveSnapshot(ctx, "", database.SnapshotKindResults, []byte("x")); err == nil {
		t.Error("expected error for empty snapshot key")
	}

	if err := store.SaveSnapshot(ctx, "vacancy_results_20250615_140000",
		database.SnapshotKindResults, []byte(`{"vacancies":[]}`)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := store.SaveSnapshot(ctx, "pending_vacancies_20250615_140000",
		database.SnapshotKindPending, []byte(`[]`)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	results, err := store.ListSnapshots(ctx, database.SnapshotKindResults, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result snapshot, got %d", len(results))
	}
	if string(results[0].Payload) != `{"vacancies":[]}` {
		t.Errorf("unexpected payload %q", results[0].Payload)
	}

	pending, err := store.ListSnapshots(ctx, database.SnapshotKindPending, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pending) != 1 {
		t.Errorf("expected 1 pending snapshot, got %d", len(pending))
	}
}
