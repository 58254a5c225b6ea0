// Package telegram implements the chat-platform collaborator on the
// Telegram Bot API. Bot accounts cannot pull channel history, so the client
// continuously ingests channel_post updates into the local archive and
// serves message iteration from it; the fetch contract (messages for a time
// window) is unchanged.
package telegram

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"time"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/jobscout/internal/channel"
	"github.com/edgard/jobscout/internal/database"
	"github.com/edgard/jobscout/internal/fetch"
)

// Client wraps the Telegram bot and the archive it feeds.
type Client struct {
	bot    *tgbot.Bot
	store  database.Store
	logger *slog.Logger
}

// NewClient creates a Telegram client. The returned client ingests channel
// posts once Start is called; additional bot options may be supplied by the
// caller (middlewares and such).
func NewClient(token string, store database.Store, logger *slog.Logger, opts ...tgbot.Option) (*Client, error) {
	if token == "" {
		return nil, fmt.Errorf("telegram token is required")
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	c := &Client{
		store:  store,
		logger: logger.With("component", "telegram"),
	}

	opts = append(opts, tgbot.WithDefaultHandler(c.handleUpdate))
	b, err := tgbot.New(token, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	c.bot = b

	return c, nil
}

// Start begins long-polling for updates. It blocks until ctx is cancelled.
func (c *Client) Start(ctx context.Context) {
	c.logger.Info("Starting Telegram update listener")
	c.bot.Start(ctx)
}

// GetMe fetches the bot's own account info.
func (c *Client) GetMe(ctx context.Context) (*models.User, error) {
	me, err := c.bot.GetMe(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get bot info: %w", err)
	}
	return me, nil
}

// handleUpdate archives channel posts. Everything else is ignored.
func (c *Client) handleUpdate(ctx context.Context, _ *tgbot.Bot, update *models.Update) {
	post := update.ChannelPost
	if post == nil || post.Text == "" {
		return
	}

	ch := &database.Channel{
		ID:        post.Chat.ID,
		Title:     post.Chat.Title,
		IsChannel: post.Chat.Type == models.ChatTypeChannel,
	}
	if post.Chat.Username != "" {
		ch.Handle = sql.NullString{String: post.Chat.Username, Valid: true}
	}
	if err := c.store.UpsertChannel(ctx, ch); err != nil {
		c.logger.WarnContext(ctx, "Failed to record channel", "channel_id", post.Chat.ID, "error", err)
	}

	var senderID int64
	if post.From != nil {
		senderID = post.From.ID
	}

	msg := &database.ArchivedMessage{
		ChannelID: post.Chat.ID,
		MessageID: int64(post.ID),
		SenderID:  senderID,
		Content:   post.Text,
		PostedAt:  time.Unix(int64(post.Date), 0).UTC().Format(time.RFC3339),
		Forwarded: post.ForwardOrigin != nil,
	}
	if err := c.store.SaveMessage(ctx, msg); err != nil {
		c.logger.WarnContext(ctx, "Failed to archive channel post",
			"channel_id", post.Chat.ID, "message_id", post.ID, "error", err)
		return
	}

	c.logger.DebugContext(ctx, "Archived channel post",
		"channel_id", post.Chat.ID, "message_id", post.ID, "chars", len(post.Text))
}

// ListChannels returns the channel directory. Unread counts reflect posts
// archived since the last completed check cycle.
func (c *Client) ListChannels(ctx context.Context) ([]channel.Channel, error) {
	since, ok, err := c.store.LastRun(ctx)
	if err != nil || !ok {
		since = time.Time{}
	}

	rows, err := c.store.ListChannels(ctx, since)
	if err != nil {
		return nil, err
	}

	channels := make([]channel.Channel, 0, len(rows))
	for _, row := range rows {
		channels = append(channels, channel.Channel{
			ID:          row.ID,
			Title:       row.Title,
			Handle:      row.Handle.String,
			UnreadCount: row.UnreadCount,
			IsChannel:   row.IsChannel,
		})
	}
	return channels, nil
}

// IterMessages returns up to 'limit' most recent archived posts for a
// channel, newest first.
func (c *Client) IterMessages(ctx context.Context, channelID int64, limit int) ([]fetch.RawMessage, error) {
	rows, err := c.store.RecentMessages(ctx, channelID, limit)
	if err != nil {
		return nil, err
	}

	messages := make([]fetch.RawMessage, 0, len(rows))
	for _, row := range rows {
		messages = append(messages, fetch.RawMessage{
			ID:        row.MessageID,
			Date:      row.PostedAt,
			Text:      row.Content,
			SenderID:  row.SenderID,
			Forwarded: row.Forwarded,
		})
	}
	return messages, nil
}

// SendText sends a plain text message to a chat.
func (c *Client) SendText(ctx context.Context, chatID int64, text string) error {
	_, err := c.bot.SendMessage(ctx, &tgbot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	})
	if err != nil {
		return fmt.Errorf("failed to send message to chat %d: %w", chatID, err)
	}
	return nil
}
