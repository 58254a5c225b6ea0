package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
)

// Store defines the interface for database operations.
// Methods accept context.Context for cancellation and timeouts.
type Store interface {
	// Ping checks the database connection.
	Ping(ctx context.Context) error

	// UpsertChannel inserts or updates a channel directory entry.
	UpsertChannel(ctx context.Context, channel *Channel) error

	// ListChannels returns all known channels. UnreadCount on each entry is
	// the number of archived posts received after 'since'.
	ListChannels(ctx context.Context, since time.Time) ([]Channel, error)

	// SaveMessage archives an incoming channel post. Posts already archived
	// (same channel and message ID) are ignored.
	SaveMessage(ctx context.Context, message *ArchivedMessage) error

	// RecentMessages returns up to 'limit' most recently archived posts for
	// a channel, newest first.
	RecentMessages(ctx context.Context, channelID int64, limit int) ([]ArchivedMessage, error)

	// LastRun returns the timestamp of the last completed check cycle.
	// ok is false when no cycle has completed yet.
	LastRun(ctx context.Context) (t time.Time, ok bool, err error)

	// SetLastRun records the completion time of a check cycle.
	SetLastRun(ctx context.Context, t time.Time) error

	// SaveSnapshot persists a timestamped payload under a unique key.
	SaveSnapshot(ctx context.Context, key, kind string, payload []byte) error

	// ListSnapshots returns snapshots of the given kind, newest first.
	ListSnapshots(ctx context.Context, kind string, limit int) ([]Snapshot, error)
}

// sqlxStore provides an implementation of the Store interface using sqlx.
type sqlxStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewStore creates a new Store implementation backed by sqlx.
// It requires a connected sqlx.DB instance and a logger.
func NewStore(db *sqlx.DB, logger *slog.Logger) Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &sqlxStore{
		db:     db,
		logger: logger.With("component", "store"),
	}
}

func (s *sqlxStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *sqlxStore) UpsertChannel(ctx context.Context, channel *Channel) error {
	if channel == nil {
		return fmt.Errorf("cannot upsert nil channel")
	}
	if channel.ID == 0 {
		return fmt.Errorf("channel must have a non-zero id")
	}

	now := time.Now().UTC()
	channel.UpdatedAt = now
	if channel.CreatedAt.IsZero() {
		channel.CreatedAt = now
	}

	query := `
        INSERT INTO channels (id, title, handle, is_channel, created_at, updated_at)
        VALUES (:id, :title, :handle, :is_channel, :created_at, :updated_at)
        ON CONFLICT(id) DO UPDATE SET
            title = excluded.title,
            handle = excluded.handle,
            is_channel = excluded.is_channel,
            updated_at = excluded.updated_at;
    `
	if _, err := s.db.NamedExecContext(ctx, query, channel); err != nil {
		s.logger.ErrorContext(ctx, "Error upserting channel", "channel_id", channel.ID, "error", err)
		return fmt.Errorf("failed to upsert channel %d: %w", channel.ID, err)
	}
	return nil
}

func (s *sqlxStore) ListChannels(ctx context.Context, since time.Time) ([]Channel, error) {
	query := `
        SELECT c.id, c.title, c.handle, c.is_channel, c.created_at, c.updated_at,
               COUNT(m.id) AS unread_count
        FROM channels c
        LEFT JOIN messages m ON m.channel_id = c.id AND m.created_at > ?
        GROUP BY c.id
        ORDER BY c.title COLLATE NOCASE;
    `
	var channels []Channel
	if err := s.db.SelectContext(ctx, &channels, query, since.UTC()); err != nil {
		s.logger.ErrorContext(ctx, "Error listing channels", "error", err)
		return nil, fmt.Errorf("failed to list channels: %w", err)
	}
	return channels, nil
}

func (s *sqlxStore) SaveMessage(ctx context.Context, message *ArchivedMessage) error {
	if message == nil {
		return fmt.Errorf("cannot save nil message")
	}
	if message.ChannelID == 0 {
		return fmt.Errorf("message must have a non-zero channel_id")
	}
	if message.Content == "" {
		return fmt.Errorf("message must have non-empty content")
	}

	message.CreatedAt = time.Now().UTC()

	query := `
        INSERT INTO messages (channel_id, message_id, sender_id, content, posted_at, forwarded, created_at)
        VALUES (:channel_id, :message_id, :sender_id, :content, :posted_at, :forwarded, :created_at)
        ON CONFLICT(channel_id, message_id) DO NOTHING;
    `
	result, err := s.db.NamedExecContext(ctx, query, message)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error archiving message",
			"channel_id", message.ChannelID, "message_id", message.MessageID, "error", err)
		return fmt.Errorf("failed to archive message (channel %d, message %d): %w",
			message.ChannelID, message.MessageID, err)
	}

	if id, err := result.LastInsertId(); err == nil {
		//nolint:gosec // integer overflow conversion is acceptable here
		message.ID = uint(id)
	}
	return nil
}

func (s *sqlxStore) RecentMessages(ctx context.Context, channelID int64, limit int) ([]ArchivedMessage, error) {
	query := `
        SELECT id, channel_id, message_id, sender_id, content, posted_at, forwarded, created_at
        FROM messages
        WHERE channel_id = ?
        ORDER BY message_id DESC
        LIMIT ?;
    `
	var messages []ArchivedMessage
	if err := s.db.SelectContext(ctx, &messages, query, channelID, limit); err != nil {
		s.logger.ErrorContext(ctx, "Error fetching recent messages", "channel_id", channelID, "error", err)
		return nil, fmt.Errorf("failed to fetch recent messages for channel %d: %w", channelID, err)
	}
	return messages, nil
}

func (s *sqlxStore) LastRun(ctx context.Context) (time.Time, bool, error) {
	var lastRun time.Time
	err := s.db.GetContext(ctx, &lastRun, `SELECT last_run FROM scheduler_state WHERE id = 1;`)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return time.Time{}, false, nil
		}
		s.logger.ErrorContext(ctx, "Error reading last run timestamp", "error", err)
		return time.Time{}, false, fmt.Errorf("failed to read last run: %w", err)
	}
	return lastRun, true, nil
}

func (s *sqlxStore) SetLastRun(ctx context.Context, t time.Time) error {
	query := `
        INSERT INTO scheduler_state (id, last_run)
        VALUES (1, ?)
        ON CONFLICT(id) DO UPDATE SET last_run = excluded.last_run;
    `
	if _, err := s.db.ExecContext(ctx, query, t.UTC()); err != nil {
		s.logger.ErrorContext(ctx, "Error saving last run timestamp", "error", err)
		return fmt.Errorf("failed to save last run: %w", err)
	}
	return nil
}

func (s *sqlxStore) SaveSnapshot(ctx context.Context, key, kind string, payload []byte) error {
	if key == "" {
		return fmt.Errorf("snapshot key must be non-empty")
	}

	snapshot := &Snapshot{
		Key:       key,
		Kind:      kind,
		Payload:   payload,
		CreatedAt: time.Now().UTC(),
	}
	query := `
        INSERT INTO snapshots (key, kind, payload, created_at)
        VALUES (:key, :kind, :payload, :created_at)
        ON CONFLICT(key) DO UPDATE SET
            kind = excluded.kind,
            payload = excluded.payload,
            created_at = excluded.created_at;
    `
	if _, err := s.db.NamedExecContext(ctx, query, snapshot); err != nil {
		s.logger.ErrorContext(ctx, "Error saving snapshot", "key", key, "kind", kind, "error", err)
		return fmt.Errorf("failed to save snapshot %q: %w", key, err)
	}

	s.logger.DebugContext(ctx, "Snapshot saved", "key", key, "kind", kind, "size", len(payload))
	return nil
}

func (s *sqlxStore) ListSnapshots(ctx context.Context, kind string, limit int) ([]Snapshot, error) {
	query := `
        SELECT key, kind, payload, created_at
        FROM snapshots
        WHERE kind = ?
        ORDER BY created_at DESC
        LIMIT ?;
    `
	var snapshots []Snapshot
	if err := s.db.SelectContext(ctx, &snapshots, query, kind, limit); err != nil {
		s.logger.ErrorContext(ctx, "Error listing snapshots", "kind", kind, "error", err)
		return nil, fmt.Errorf("failed to list snapshots of kind %q: %w", kind, err)
	}
	return snapshots, nil
}
