// Package bot implements application lifecycle management, running the
// Telegram update listener and the vacancy check runner side by side.
package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/edgard/jobscout/internal/scheduler"
	"github.com/edgard/jobscout/internal/telegram"
)

// App owns the long-running components.
type App struct {
	logger *slog.Logger
	tg     *telegram.Client
	runner *scheduler.Runner
}

// NewApp creates the application orchestrator.
func NewApp(logger *slog.Logger, tg *telegram.Client, runner *scheduler.Runner) *App {
	return &App{
		logger: logger.With("component", "app"),
		tg:     tg,
		runner: runner,
	}
}

// Run starts all components and blocks until the context is cancelled or a
// component fails.
func (a *App) Run(ctx context.Context) error {
	a.logger.Info("Starting application...")

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.logger.Info("Starting Telegram listener...")
		a.tg.Start(gCtx)
		a.logger.Info("Telegram listener stopped.")

		if gCtx.Err() == nil {
			return fmt.Errorf("telegram listener stopped unexpectedly")
		}
		return nil
	})

	g.Go(func() error {
		if err := a.runner.Start(gCtx); err != nil {
			return fmt.Errorf("failed to start runner: %w", err)
		}

		<-gCtx.Done()
		a.logger.Info("Shutdown signal received, stopping runner...")

		if err := a.runner.Stop(); err != nil {
			a.logger.Error("Error stopping runner", "error", err)
		}
		return nil
	})

	err := g.Wait()
	if err != nil && !errors.Is(err, context.Canceled) {
		a.logger.Error("Application stopped due to error", "error", err)
		return err
	}

	a.logger.Info("Application stopped gracefully.")
	return nil
}
