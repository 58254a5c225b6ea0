// Package main contains the entrypoint for the jobscout application.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/edgard/jobscout/internal/bot"
	"github.com/edgard/jobscout/internal/classifier"
	"github.com/edgard/jobscout/internal/config"
	"github.com/edgard/jobscout/internal/database"
	"github.com/edgard/jobscout/internal/fetch"
	"github.com/edgard/jobscout/internal/gemini"
	"github.com/edgard/jobscout/internal/logger"
	"github.com/edgard/jobscout/internal/notify"
	"github.com/edgard/jobscout/internal/profile"
	"github.com/edgard/jobscout/internal/scheduler"
	"github.com/edgard/jobscout/internal/telegram"
	"github.com/edgard/jobscout/internal/vacancy"

	_ "modernc.org/sqlite"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	exitCode := run(ctx)
	stop()
	os.Exit(exitCode)
}

// run initializes all application components (config, logger, db, profile,
// ai client, telegram client, scheduler), handles graceful shutdown, and
// returns an exit code.
func run(ctx context.Context) int {
	configPath := flag.String("config", "./config.yaml", "Path to configuration file")
	discover := flag.Bool("discover", false, "List known channels and exit")
	pending := flag.Bool("pending", false, "List deferred vacancy results and exit")
	once := flag.Bool("once", false, "Run a single vacancy check cycle and exit")
	dryRun := flag.Bool("dry-run", false, "With -once: rank vacancies but do not send results")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		slog.Error("Failed to load configuration", "path", *configPath, "error", err)
		return 1
	}

	log := logger.NewLogger(cfg.Log.Level, cfg.Log.JSON)
	log.Info("Logger initialized", "level", cfg.Log.Level, "json", cfg.Log.JSON)

	db, err := database.NewDB(cfg.Database.Path)
	if err != nil {
		log.Error("Failed to connect to database", "path", cfg.Database.Path, "error", err)
		return 1
	}
	defer database.CloseDB(db)
	store := database.NewStore(db, log)

	if *pending {
		return runPendingDump(ctx, store, log)
	}

	resume, err := profile.Load(cfg.Profile.ResumePath)
	if err != nil {
		log.Error("Failed to load resume profile", "path", cfg.Profile.ResumePath, "error", err)
		return 1
	}
	log.Info("Resume profile loaded", "path", cfg.Profile.ResumePath)

	tg, err := telegram.NewClient(cfg.Telegram.Token, store, log)
	if err != nil {
		log.Error("Failed to create Telegram client", "error", err)
		return 1
	}

	me, err := tg.GetMe(ctx)
	if err != nil {
		log.Error("Failed to get bot info", "error", err)
		return 1
	}
	log.Info("Connected to Telegram", "bot_id", me.ID, "bot_username", me.Username)

	if *discover {
		return runDiscovery(ctx, tg, log)
	}

	gemClient, err := gemini.NewClient(ctx, cfg.Gemini, log)
	if err != nil {
		log.Error("Failed to initialize Gemini client", "error", err)
		return 1
	}

	vc, err := classifier.New(gemClient, store, log, cfg.Profile.PromptPath)
	if err != nil {
		log.Error("Failed to initialize classifier", "error", err)
		return 1
	}

	var sender scheduler.ResultSender = notify.NewNotifier(tg, log, cfg.Telegram.TargetUser)
	if *dryRun {
		sender = dryRunSender{notifier: notify.NewNotifier(tg, log, cfg.Telegram.TargetUser), log: log}
	}

	cycle := scheduler.New(
		log,
		scheduler.Config{
			ChannelIDs:      cfg.Telegram.ChannelIDs,
			IntervalHours:   cfg.Schedule.IntervalHours,
			LookbackHours:   cfg.Schedule.LookbackHours,
			QuietStart:      cfg.Schedule.QuietStart,
			QuietEnd:        cfg.Schedule.QuietEnd,
			MinScore:        cfg.Filter.MinScore,
			Recommendations: cfg.Filter.Recommendations,
			MaxResults:      cfg.Filter.MaxResults,
		},
		tg,
		fetch.NewFetcher(tg, log),
		vc,
		sender,
		store,
		resume,
	)

	if *once {
		state, err := cycle.RunCycle(ctx)
		if err != nil {
			log.Error("Vacancy check failed", "error", err)
			return 1
		}
		log.Info("Vacancy check completed", "state", state.String())
		return 0
	}

	runner, err := scheduler.NewRunner(cycle, log, cfg.Schedule.IntervalHours)
	if err != nil {
		log.Error("Failed to create runner", "error", err)
		return 1
	}

	app := bot.NewApp(log, tg, runner)

	log.Info("Starting jobscout...")
	if err := app.Run(ctx); err != nil {
		return 1
	}
	return 0
}

// runDiscovery prints the known channel directory, mirroring what the
// selector would see, and exits.
func runDiscovery(ctx context.Context, tg *telegram.Client, log *slog.Logger) int {
	channels, err := tg.ListChannels(ctx)
	if err != nil {
		log.Error("Failed to list channels", "error", err)
		return 1
	}

	if len(channels) == 0 {
		fmt.Println("No channels known yet. Add the bot to job channels and let it run for a while.")
		return 0
	}

	fmt.Println("Known channels:")
	for i, ch := range channels {
		line := fmt.Sprintf("%2d. %s", i+1, ch.Title)
		if ch.Handle != "" {
			line += " @" + ch.Handle
		}
		if ch.UnreadCount > 0 {
			line += fmt.Sprintf(" (%d unread)", ch.UnreadCount)
		}
		fmt.Println(line)
		fmt.Printf("     ID: %d\n", ch.ID)
	}
	fmt.Println("\nUse telegram.channel_ids in config.yaml to pin monitoring to specific IDs.")
	return 0
}

// runPendingDump prints vacancy results that were withheld by quiet hours or
// a failed send, newest first, and exits.
func runPendingDump(ctx context.Context, store database.Store, log *slog.Logger) int {
	snapshots, err := store.ListSnapshots(ctx, database.SnapshotKindPending, 20)
	if err != nil {
		log.Error("Failed to list deferred results", "error", err)
		return 1
	}

	if len(snapshots) == 0 {
		fmt.Println("No deferred vacancy results.")
		return 0
	}

	for _, snap := range snapshots {
		fmt.Printf("== %s (%s)\n%s\n\n", snap.Key, snap.CreatedAt.Format("2006-01-02 15:04"), snap.Payload)
	}
	return 0
}

// dryRunSender prints the formatted results instead of sending them.
type dryRunSender struct {
	notifier *notify.Notifier
	log      *slog.Logger
}

func (d dryRunSender) Send(_ context.Context, records []vacancy.Record) error {
	d.log.Info("Dry run, results not sent", "vacancies", len(records))
	fmt.Println(d.notifier.Format(records))
	return nil
}
