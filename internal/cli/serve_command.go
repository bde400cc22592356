package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"mission-control/internal/services"
	"mission-control/internal/session"
	"mission-control/internal/web"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand(r *RootCommand) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the mission control JSON API",
		Long: `Serve the JSON API until interrupted.

When reminders.enabled is set, alarms are checked every reminders.interval
and the digest is sent daily at reminders.digest_time.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := r.appFor(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			return serve(ctx, app)
		},
	}
}

func sessionSecret(app *App) []byte {
	if s := app.Config.Server.SessionSecret; s != "" {
		return []byte(s)
	}
	app.Logger.Warn("server.session_secret is not set, sessions will not survive a restart")
	return []byte(uuid.NewString() + uuid.NewString())
}

func serve(ctx context.Context, app *App) error {
	sessions, err := session.NewManager(session.OptionsFromConfig(app.Config, sessionSecret(app)))
	if err != nil {
		return err
	}

	server, err := web.NewServer(web.Deps{
		Services: app.Services,
		Sessions: sessions,
		Config:   app.Config,
		Metrics:  app.Metrics,
		Logger:   app.Logger,
	})
	if err != nil {
		return err
	}

	if app.Config.Reminders.Enabled {
		scheduler, err := startReminders(app)
		if err != nil {
			return err
		}
		defer scheduler.Stop()
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down http server: %w", err)
	}
	return <-errCh
}

// startReminders schedules the alarm check and the daily digest
func startReminders(app *App) (*services.SchedulerService, error) {
	scheduler := services.NewSchedulerService(app.location, app.Config.Application.Timeout, app.Logger)
	reminders := app.Services.Reminders

	if _, err := scheduler.ScheduleInterval("alarms", app.Config.Reminders.Interval, func(ctx context.Context) error {
		_, err := reminders.CheckAlarms(ctx, timeNow())
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to schedule alarms: %w", err)
	}

	if _, err := scheduler.ScheduleDaily("digest", app.Config.Reminders.DigestTime, func(ctx context.Context) error {
		_, err := reminders.DailyDigest(ctx, timeNow())
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to schedule digest: %w", err)
	}

	scheduler.Start()
	app.Logger.Info("reminders scheduled",
		zap.Duration("interval", app.Config.Reminders.Interval),
		zap.String("digest_time", app.Config.Reminders.DigestTime))
	return scheduler, nil
}
