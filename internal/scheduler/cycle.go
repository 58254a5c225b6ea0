// Package scheduler drives the periodic vacancy check cycle. Each cycle
// walks a fixed state machine (fetching, classifying, ranking, then either
// delivering or deferring) and touches the persisted scheduler state exactly
// once at cycle end. A fatal error at any state abandons the cycle: no
// partial results are delivered and last_run is only advanced once ranking
// is reached, so a transient outage widens the next lookback window instead
// of losing messages.
package scheduler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/edgard/jobscout/internal/channel"
	"github.com/edgard/jobscout/internal/database"
	"github.com/edgard/jobscout/internal/fetch"
	"github.com/edgard/jobscout/internal/links"
	"github.com/edgard/jobscout/internal/profile"
	"github.com/edgard/jobscout/internal/rank"
	"github.com/edgard/jobscout/internal/vacancy"
)

// State identifies a cycle state.
type State int

// Cycle states.
const (
	StateIdle State = iota
	StateFetching
	StateClassifying
	StateRanking
	StateDelivering
	StateDeferred
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateFetching:
		return "fetching"
	case StateClassifying:
		return "classifying"
	case StateRanking:
		return "ranking"
	case StateDelivering:
		return "delivering"
	case StateDeferred:
		return "deferred"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// ErrNoChannels indicates no job channels were selected for monitoring.
// The cycle aborts before fetching; the condition is reported, not retried.
var ErrNoChannels = errors.New("no job channels selected")

// VacancyClassifier scores a message batch against the resume profile.
type VacancyClassifier interface {
	Classify(ctx context.Context, messages []*fetch.Message, resume *profile.Resume) ([]vacancy.Record, error)
}

// ResultSender delivers ranked results to the user.
type ResultSender interface {
	Send(ctx context.Context, records []vacancy.Record) error
}

// Config carries the cycle parameters.
type Config struct {
	ChannelIDs      []int64
	IntervalHours   int
	LookbackHours   int
	QuietStart      string
	QuietEnd        string
	MinScore        float64
	Recommendations []string
	MaxResults      int
}

// Scheduler executes vacancy check cycles. It is single-worker by design:
// one cycle completes fully before the next begins.
type Scheduler struct {
	logger     *slog.Logger
	cfg        Config
	chat       fetch.ChatClient
	fetcher    *fetch.Fetcher
	classifier VacancyClassifier
	sender     ResultSender
	store      database.Store
	resume     *profile.Resume
	now        func() time.Time
}

// New creates a Scheduler.
func New(
	logger *slog.Logger,
	cfg Config,
	chat fetch.ChatClient,
	fetcher *fetch.Fetcher,
	classifier VacancyClassifier,
	sender ResultSender,
	store database.Store,
	resume *profile.Resume,
) *Scheduler {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Scheduler{
		logger:     logger.With("component", "scheduler"),
		cfg:        cfg,
		chat:       chat,
		fetcher:    fetcher,
		classifier: classifier,
		sender:     sender,
		store:      store,
		resume:     resume,
		now:        time.Now,
	}
}

// RunCycle executes one full vacancy check cycle and returns the terminal
// state it reached along with any fatal error. Errors abandon the cycle but
// must never crash the driving loop.
func (s *Scheduler) RunCycle(ctx context.Context) (State, error) {
	started := s.now()
	s.logger.InfoContext(ctx, "Starting vacancy check cycle")

	// FETCHING
	directory, err := s.chat.ListChannels(ctx)
	if err != nil {
		return StateIdle, fmt.Errorf("failed to list channels: %w", err)
	}

	selected := channel.Select(directory, s.cfg.ChannelIDs)
	if len(selected) == 0 {
		return StateIdle, ErrNoChannels
	}
	s.logger.InfoContext(ctx, "Selected job channels", "count", len(selected))

	hoursBack := s.lookbackHours(ctx)
	messages := s.fetcher.Fetch(ctx, selected, hoursBack)
	if len(messages) == 0 {
		s.logger.InfoContext(ctx, "No new messages to process")
		s.advanceLastRun(ctx)
		return StateIdle, nil
	}

	links.Enrich(messages)

	// CLASSIFYING
	records, err := s.classifier.Classify(ctx, messages, s.resume)
	if err != nil {
		// last_run is deliberately not advanced: the next cycle re-covers
		// this window.
		return StateIdle, fmt.Errorf("classification unavailable: %w", err)
	}

	// RANKING
	s.advanceLastRun(ctx)

	minScore := s.resume.MinScore(s.cfg.MinScore)
	top := rank.Rank(records, minScore, s.cfg.Recommendations, s.cfg.MaxResults)
	s.logger.InfoContext(ctx, "Ranked vacancies",
		"classified", len(records), "selected", len(top), "min_score", minScore)

	// DELIVERING or DEFERRED
	state := s.deliver(ctx, top)

	s.logger.InfoContext(ctx, "Vacancy check cycle completed",
		"state", state.String(), "duration", s.now().Sub(started))
	return state, nil
}

// deliver sends ranked results unless quiet hours are in effect. Results
// withheld by quiet hours, and results whose send failed, are persisted
// under a timestamped key for later recovery.
func (s *Scheduler) deliver(ctx context.Context, top []vacancy.Record) State {
	if InQuietHours(s.now(), s.cfg.QuietStart, s.cfg.QuietEnd) {
		s.logger.InfoContext(ctx, "Quiet hours in effect, deferring results", "vacancies", len(top))
		s.persistPending(ctx, top)
		return StateDeferred
	}

	if err := s.sender.Send(ctx, top); err != nil {
		s.logger.ErrorContext(ctx, "Delivery failed, persisting results as deferred", "error", err)
		s.persistPending(ctx, top)
		return StateDeferred
	}

	return StateDelivering
}

// lookbackHours bounds the fetch window: the configured default on the first
// run, afterwards the time since the last run (rounded up to the hour, plus
// one) capped at the configured interval. This avoids re-scanning history
// after long idle periods while still covering gaps after a restart.
func (s *Scheduler) lookbackHours(ctx context.Context) int {
	lastRun, ok, err := s.store.LastRun(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "Failed to read last run, using default lookback", "error", err)
		return s.cfg.LookbackHours
	}
	if !ok {
		return s.cfg.LookbackHours
	}

	hours := int(s.now().Sub(lastRun).Hours()) + 1
	if hours > s.cfg.IntervalHours {
		hours = s.cfg.IntervalHours
	}
	if hours < 1 {
		hours = 1
	}
	return hours
}

func (s *Scheduler) advanceLastRun(ctx context.Context) {
	if err := s.store.SetLastRun(ctx, s.now()); err != nil {
		s.logger.WarnContext(ctx, "Failed to persist last run timestamp", "error", err)
	}
}

func (s *Scheduler) persistPending(ctx context.Context, top []vacancy.Record) {
	payload, err := json.MarshalIndent(top, "", "  ")
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to serialize pending vacancies", "error", err)
		return
	}

	key := fmt.Sprintf("pending_vacancies_%s", s.now().Format("20060102_150405"))
	if err := s.store.SaveSnapshot(ctx, key, database.SnapshotKindPending, payload); err != nil {
		s.logger.ErrorContext(ctx, "Failed to persist pending vacancies", "key", key, "error", err)
	}
}
