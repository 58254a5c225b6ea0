package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// Runner drives RunCycle on a fixed wall-clock interval using gocron.
// The first cycle runs immediately on start; singleton mode guarantees
// cycles never overlap even when one overruns the interval.
type Runner struct {
	scheduler gocron.Scheduler
	cycle     *Scheduler
	logger    *slog.Logger
	interval  time.Duration
	mu        sync.Mutex
	running   bool
}

// NewRunner creates a Runner executing one cycle every intervalHours.
func NewRunner(cycle *Scheduler, logger *slog.Logger, intervalHours int) (*Runner, error) {
	if logger == nil {
		logger = slog.Default()
	}

	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create gocron scheduler: %w", err)
	}

	return &Runner{
		scheduler: s,
		cycle:     cycle,
		logger:    logger.With("component", "runner"),
		interval:  time.Duration(intervalHours) * time.Hour,
	}, nil
}

// Start registers the vacancy check job and starts the scheduler. The given
// context is passed into each cycle so shutdown cancels in-flight work.
// Cycle failures are logged and swallowed: one bad cycle must never stop
// the long-running process.
func (r *Runner) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.running {
		return fmt.Errorf("runner is already started")
	}

	_, err := r.scheduler.NewJob(
		gocron.DurationJob(r.interval),
		gocron.NewTask(func(taskCtx context.Context) {
			started := time.Now()
			state, cycleErr := r.cycle.RunCycle(taskCtx)
			if cycleErr != nil {
				r.logger.Error("Vacancy check cycle failed", "error", cycleErr)
				return
			}
			r.logger.Info("Vacancy check cycle finished",
				"state", state.String(), "duration", time.Since(started))
		}, ctx),
		gocron.WithName("vacancy_check"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		return fmt.Errorf("failed to schedule vacancy check job: %w", err)
	}

	r.scheduler.Start()
	r.running = true
	r.logger.Info("Runner started", "interval", r.interval)
	return nil
}

// Stop gracefully stops the scheduler, waiting for a running cycle to finish.
func (r *Runner) Stop() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.running {
		return nil
	}

	if err := r.scheduler.Shutdown(); err != nil {
		r.logger.Error("Error during runner shutdown", "error", err)
		r.running = false
		return err
	}

	r.running = false
	r.logger.Info("Runner stopped gracefully.")
	return nil
}
