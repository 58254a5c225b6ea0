// Package notify formats ranked vacancies into a human-readable message and
// delivers it through the messaging collaborator.
package notify

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/edgard/jobscout/internal/vacancy"
)

// NoMatchesMessage is sent when a cycle completes with no matching
// vacancies, so the user knows the check ran.
const NoMatchesMessage = "📭 No matching vacancies found in recent messages."

// Messenger is the external message-sending collaborator.
type Messenger interface {
	SendText(ctx context.Context, chatID int64, text string) error
}

// Notifier delivers formatted vacancy results to a single target user.
type Notifier struct {
	messenger  Messenger
	logger     *slog.Logger
	targetUser int64
	now        func() time.Time
}

// NewNotifier creates a Notifier delivering to targetUser.
func NewNotifier(messenger Messenger, logger *slog.Logger, targetUser int64) *Notifier {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Notifier{
		messenger:  messenger,
		logger:     logger.With("component", "notifier"),
		targetUser: targetUser,
		now:        time.Now,
	}
}

// Send formats and sends the ranked vacancies. Input order is preserved in
// the rendered message; the list is expected to be rank-sorted already.
func (n *Notifier) Send(ctx context.Context, records []vacancy.Record) error {
	text := n.Format(records)
	if err := n.messenger.SendText(ctx, n.targetUser, text); err != nil {
		n.logger.ErrorContext(ctx, "Failed to send vacancy results", "target_user", n.targetUser, "error", err)
		return fmt.Errorf("failed to send vacancy results: %w", err)
	}

	n.logger.InfoContext(ctx, "Vacancy results sent", "target_user", n.targetUser, "vacancies", len(records))
	return nil
}

// Format renders the vacancy list for delivery. Empty input yields the
// fixed no-matches message.
func (n *Notifier) Format(records []vacancy.Record) string {
	if len(records) == 0 {
		return NoMatchesMessage
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "🎯 *Found %d matching vacancies!*\n\n", len(records))

	for i, rec := range records {
		emoji := "💼"
		if rec.Recommendation == vacancy.RecommendApply {
			emoji = "🔥"
		}

		fmt.Fprintf(&sb, "%s *%d. %s*\n", emoji, i+1, rec.Title)
		fmt.Fprintf(&sb, "🏢 %s\n", orUnknown(rec.Company, "Unknown Company"))
		fmt.Fprintf(&sb, "📍 %s\n", orUnknown(rec.Location, "Unknown Location"))
		fmt.Fprintf(&sb, "💰 %s\n", orUnknown(rec.Salary, "Not specified"))
		fmt.Fprintf(&sb, "📊 Score: %.2f\n", rec.Score)

		if len(rec.MatchReasons) > 0 {
			fmt.Fprintf(&sb, "✅ *Matches:* %s\n", strings.Join(truncate(rec.MatchReasons, 2), ", "))
		}
		if len(rec.Concerns) > 0 {
			fmt.Fprintf(&sb, "⚠️ *Concerns:* %s\n", strings.Join(truncate(rec.Concerns, 1), ", "))
		}
		sb.WriteString("\n")
	}

	fmt.Fprintf(&sb, "📊 Generated on %s", n.now().Format("2006-01-02 15:04"))
	return sb.String()
}

func orUnknown(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

func truncate(items []string, max int) []string {
	if len(items) > max {
		return items[:max]
	}
	return items
}
