// Package fetch retrieves messages from monitored channels bounded by a
// time cutoff. Filtering happens client-side after retrieval because
// server-side pagination semantics are unreliable across channel types.
package fetch

import (
	"context"
	"io"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/edgard/jobscout/internal/channel"
)

// DefaultMessageLimit caps how many recent messages are retrieved per channel.
const DefaultMessageLimit = 500

// RawMessage is a channel post as returned by the chat-client collaborator.
// Date is kept as a string so that malformed timestamps can be handled with
// a fail-open policy instead of being dropped at the transport layer.
type RawMessage struct {
	ID        int64
	Date      string
	Text      string
	SenderID  int64
	Forwarded bool
}

// Message is a normalized channel post flowing through the pipeline.
// URLs and Refs are filled by the link enricher; after enrichment the
// message is never mutated.
type Message struct {
	ID        int64     `json:"id"`
	ChannelID int64     `json:"channel_id"`
	Timestamp time.Time `json:"date"`
	Text      string    `json:"text"`
	SenderID  int64     `json:"sender_id,omitempty"`
	Forwarded bool      `json:"is_forwarded"`
	URLs      []string  `json:"extracted_urls"`
	Refs      []string  `json:"telegram_links"`
}

// ChatClient is the external chat-platform collaborator. All operations
// may fail and are not idempotent.
type ChatClient interface {
	// ListChannels returns a directory snapshot of available channels.
	ListChannels(ctx context.Context) ([]channel.Channel, error)

	// IterMessages returns up to 'limit' most recent messages for a channel,
	// newest first.
	IterMessages(ctx context.Context, channelID int64, limit int) ([]RawMessage, error)
}

// timestampLayouts are tried in order when parsing message dates.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// Fetcher accumulates messages across monitored channels.
type Fetcher struct {
	chat   ChatClient
	logger *slog.Logger
	limit  int
	now    func() time.Time
}

// NewFetcher creates a Fetcher reading through the given chat client.
func NewFetcher(chat ChatClient, logger *slog.Logger) *Fetcher {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Fetcher{
		chat:   chat,
		logger: logger.With("component", "fetcher"),
		limit:  DefaultMessageLimit,
		now:    time.Now,
	}
}

// Fetch retrieves messages posted within the last hoursBack hours across the
// given channels. Channels are fetched concurrently, but results are
// concatenated in channel order so output is deterministic. A failure on one
// channel is logged and contributes zero messages; remaining channels are
// still processed. Messages appearing in several channels are not
// deduplicated: a forwarded post in two monitored channels yields two entries.
func (f *Fetcher) Fetch(ctx context.Context, channels []channel.Channel, hoursBack int) []*Message {
	cutoff := f.now().Add(-time.Duration(hoursBack) * time.Hour)
	f.logger.InfoContext(ctx, "Fetching messages", "channels", len(channels), "hours_back", hoursBack)

	perChannel := make([][]*Message, len(channels))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, ch := range channels {
		g.Go(func() error {
			raw, err := f.chat.IterMessages(gCtx, ch.ID, f.limit)
			if err != nil {
				f.logger.WarnContext(ctx, "Failed to fetch channel, skipping",
					"channel_id", ch.ID, "channel_title", ch.Title, "error", err)
				return nil
			}
			perChannel[i] = f.filterByCutoff(ctx, ch.ID, raw, cutoff)
			f.logger.InfoContext(ctx, "Fetched channel",
				"channel_title", ch.Title, "new_messages", len(perChannel[i]), "total_fetched", len(raw))
			return nil
		})
	}
	// Goroutines never return errors; per-channel failures are non-fatal.
	_ = g.Wait()

	var all []*Message
	for _, msgs := range perChannel {
		all = append(all, msgs...)
	}

	f.logger.InfoContext(ctx, "Fetch completed", "total_new_messages", len(all))
	return all
}

// filterByCutoff keeps messages newer than the cutoff. A message whose date
// cannot be parsed is kept anyway: recall matters more than precision here,
// and the classifier tolerates the occasional stale post.
func (f *Fetcher) filterByCutoff(ctx context.Context, channelID int64, raw []RawMessage, cutoff time.Time) []*Message {
	var kept []*Message
	for _, rm := range raw {
		ts, err := ParseTimestamp(rm.Date)
		if err != nil {
			f.logger.WarnContext(ctx, "Failed to parse message date, including message anyway",
				"channel_id", channelID, "message_id", rm.ID, "date", rm.Date, "error", err)
			kept = append(kept, newMessage(channelID, rm, time.Time{}))
			continue
		}
		if ts.After(cutoff) {
			kept = append(kept, newMessage(channelID, rm, ts))
		}
	}
	return kept
}

func newMessage(channelID int64, rm RawMessage, ts time.Time) *Message {
	return &Message{
		ID:        rm.ID,
		ChannelID: channelID,
		Timestamp: ts,
		Text:      rm.Text,
		SenderID:  rm.SenderID,
		Forwarded: rm.Forwarded,
		URLs:      []string{},
		Refs:      []string{},
	}
}

// ParseTimestamp parses a message date string, accepting the common wire
// layouts. The result is normalized to local time for cutoff comparison.
func ParseTimestamp(date string) (time.Time, error) {
	var lastErr error
	for _, layout := range timestampLayouts {
		t, err := time.Parse(layout, date)
		if err == nil {
			return t.Local(), nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
