package database

import (
	"database/sql"
	"time"
)

// Channel represents a directory entry for a Telegram channel the bot has
// seen posts from. The row is upserted on every incoming channel post, so
// the title and handle track renames.
type Channel struct {
	ID        int64     `db:"id"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`

	Title     string         `db:"title"`
	Handle    sql.NullString `db:"handle"`
	IsChannel bool           `db:"is_channel"`

	// UnreadCount is the number of archived posts newer than the reference
	// time passed to ListChannels. Not a stored column.
	UnreadCount int `db:"unread_count"`
}

// ArchivedMessage represents a channel post recorded by the ingestion
// listener. PostedAt keeps the raw date string as received so that rows
// with malformed dates survive archival; parsing happens at fetch time.
type ArchivedMessage struct {
	ID        uint      `db:"id"`
	CreatedAt time.Time `db:"created_at"`

	ChannelID int64  `db:"channel_id"`
	MessageID int64  `db:"message_id"`
	SenderID  int64  `db:"sender_id"`
	Content   string `db:"content"`
	PostedAt  string `db:"posted_at"`
	Forwarded bool   `db:"forwarded"`
}

// Snapshot kinds.
const (
	// SnapshotKindResults marks raw classifier output saved for audit.
	SnapshotKindResults = "vacancy_results"
	// SnapshotKindPending marks ranked results withheld from delivery.
	SnapshotKindPending = "pending_vacancies"
)

// Snapshot is a timestamped JSON blob persisted for audit or deferred
// delivery. Kind distinguishes raw classifier output from withheld
// ranked results.
type Snapshot struct {
	Key       string    `db:"key"`
	Kind      string    `db:"kind"`
	Payload   []byte    `db:"payload"`
	CreatedAt time.Time `db:"created_at"`
}
