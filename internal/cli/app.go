package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"mission-control/internal/config"
	"mission-control/internal/metrics"
	"mission-control/internal/repository"
	"mission-control/internal/services"
)

// timeNow is a variable that can be replaced in tests
var timeNow = time.Now

// TableOpener opens the configured table backend.
type TableOpener func(ctx context.Context, cfg *config.Config, logger *zap.Logger) (repository.Table, error)

// App holds everything a command needs once configuration is final.
type App struct {
	Services *services.ServiceContainer
	Config   *config.Config
	Logger   *zap.Logger
	Metrics  *metrics.Metrics

	table    repository.Table
	location *time.Location
	out      io.Writer
}

// NewApp wires the services over table.
func NewApp(table repository.Table, cfg *config.Config, logger *zap.Logger, out io.Writer) (*App, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, fmt.Errorf("invalid reminders.timezone: %w", err)
	}

	m := metrics.NewMetrics()
	notifier, err := newNotifier(cfg, logger)
	if err != nil {
		return nil, err
	}

	return &App{
		Services: &services.ServiceContainer{
			Credentials: services.NewCredentialService(table, cfg.Server.ResetTTL, logger),
			Missions:    services.NewMissionService(table, cfg, logger),
			Reminders: services.NewReminderService(table, notifier, services.ReminderOptions{
				Window:   cfg.Reminders.Window,
				Location: loc,
				Metrics:  m,
				Logger:   logger,
			}),
		},
		Config:   cfg,
		Logger:   logger,
		Metrics:  m,
		table:    table,
		location: loc,
		out:      out,
	}, nil
}

// newNotifier always logs and also posts to Telegram when a bot token is set.
func newNotifier(cfg *config.Config, logger *zap.Logger) (services.Notifier, error) {
	notifiers := services.MultiNotifier{services.NewLogNotifier(logger)}
	if cfg.Reminders.TelegramToken != "" {
		tg, err := services.NewTelegramNotifierFromToken(cfg.Reminders.TelegramToken, cfg.Reminders.TelegramChatID)
		if err != nil {
			return nil, err
		}
		notifiers = append(notifiers, tg)
	}
	return notifiers, nil
}

// Today returns the current date in the configured zone.
func (a *App) Today() string {
	return timeNow().In(a.location).Format("2006-01-02")
}

// Close releases the table.
func (a *App) Close() error {
	if a.table == nil {
		return nil
	}
	return a.table.Close()
}
