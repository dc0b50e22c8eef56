package commands

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/Vodeneev/leonspider/internal/parser/harvest"
	"github.com/Vodeneev/leonspider/internal/parser/leon"
	"github.com/Vodeneev/leonspider/internal/parser/seed"
	"github.com/Vodeneev/leonspider/internal/pkg/config"
	"github.com/Vodeneev/leonspider/internal/pkg/health"
	"github.com/Vodeneev/leonspider/internal/pkg/logging"
	"github.com/Vodeneev/leonspider/internal/pkg/notify"
	"github.com/Vodeneev/leonspider/internal/pkg/performance"
	"github.com/Vodeneev/leonspider/internal/pkg/retry"
	"github.com/Vodeneev/leonspider/internal/report"
)

// app holds everything a command needs, built once from the config file.
type app struct {
	cfg      *config.Config
	log      *slog.Logger
	tracker  *performance.Tracker
	runs     *health.RunStore
	pipeline *harvest.Pipeline
	closers  []io.Closer
}

func loadApp() (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	log, logCloser, err := logging.Setup(cfg.Logging, serviceName)
	if err != nil {
		return nil, fmt.Errorf("failed to setup logging: %w", err)
	}
	log.Info("Config loaded", "path", configPath)

	a := &app{
		cfg:     cfg,
		log:     log,
		tracker: performance.GetTracker(),
		runs:    health.NewRunStore(),
		closers: []io.Closer{logCloser},
	}

	observers := harvest.Observers{logging.NewHarvestObserver(log), a.tracker, a.runs}
	if cfg.Telegram.Enabled {
		n, err := notify.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
		if err != nil {
			// Notifications are optional; the harvest runs without them.
			log.Warn("Telegram notifier disabled", "error", err)
		} else {
			observers = append(observers, n)
			// Flushed before the log file is closed.
			a.closers = append([]io.Closer{n}, a.closers...)
		}
	}

	policy := retry.New(cfg.Retry.MaxAttempts, cfg.Retry.BaseDelay, leon.IsRetryable)
	logRetry := logging.RetryNotifier(log)
	policy.Notify = func(at retry.Attempt) {
		logRetry(at)
		a.tracker.RecordRetry(at)
	}

	client := leon.NewClient(leon.Options{
		BaseURL:    cfg.Leon.BaseURL,
		EventsPath: cfg.Leon.EventsPath,
		EventPath:  cfg.Leon.EventPath,
		Locale:     cfg.Leon.Locale,
		UserAgent:  cfg.Leon.UserAgent,
		Timeout:    cfg.Leon.Timeout,
		Retry:      policy,
	})

	harvester := harvest.NewHarvester(client, cfg.Harvest.MatchesPerLeague, observers)
	a.pipeline = harvest.NewPipeline(
		harvester,
		seed.Pages(cfg.Harvest.SeedDir, cfg.Harvest.SportPages),
		cfg.Harvest.Workers,
		report.NewWriter(cfg.Report.FilePath),
		observers,
	)
	return a, nil
}

func (a *app) Close() error {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}
