package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"mission-control/internal/config"
	"mission-control/internal/logging"
)

// RootOptions are the collaborators injected by main and by tests.
type RootOptions struct {
	Loader    *config.Loader
	OpenTable TableOpener
	// Logger overrides the logger built from configuration.
	Logger *zap.Logger
}

// RootCommand represents the base command when called without any subcommands
type RootCommand struct {
	cmd        *cobra.Command
	opts       RootOptions
	configPath string

	config *config.Config
	logger *zap.Logger
	app    *App
}

// NewRootCommand creates the root cobra command with global flags
func NewRootCommand(opts RootOptions) *RootCommand {
	if opts.Loader == nil {
		opts.Loader = config.NewLoader()
	}
	root := &RootCommand{opts: opts}

	root.cmd = &cobra.Command{
		Use:   "mc",
		Short: "Mission control for a commander's daily missions",
		Long: `Mission Control (mc) keeps a commander's daily missions in a shared table.

EXAMPLES:
  mc serve                                   # Serve the JSON API
  mc register ada --password 'Launch#2024' --question 'Favourite planet?' --answer Mars
  mc available ada                           # Check whether a username is free
  mc missions add "Launch" --user ada --time 09:00
  mc missions list --user ada                # Today's missions and progress
  mc missions done rec0123456789abcd         # Mark a mission complete
  mc missions export --user ada > day.csv    # Export a day as CSV
  mc remind                                  # Send due alarms and the daily digest

CONFIGURATION:
  Configuration follows this priority order:
  command-line flags > MC_* environment variables > YAML file > .env > defaults

  MC_TABLE_BACKEND                           airtable, sqlite or memory (default: airtable)
  MC_TABLE_BASE_ID, MC_TABLE_TABLE_NAME      Airtable base and table
  MC_TABLE_API_TOKEN                         Airtable token
  MC_DATABASE_DIR, MC_DATABASE_FILENAME      SQLite location (default: ~/.mission-control/mc.db)
  MC_SERVER_HOST, MC_SERVER_PORT             HTTP listen address (default: 127.0.0.1:8080)
  MC_SERVER_SESSION_SECRET                   Cookie signing secret
  MC_REMINDERS_ENABLED                       Run alarms and digest inside serve
  MC_REMINDERS_TELEGRAM_TOKEN                Also post reminders to Telegram
  MC_LOG_LEVEL, MC_LOG_FORMAT                Logging (default: info, console)`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.addGlobalFlags()
	root.addSubcommands()

	return root
}

// Command exposes the underlying cobra command
func (r *RootCommand) Command() *cobra.Command {
	return r.cmd
}

// Execute runs the root command
func (r *RootCommand) Execute() error {
	return r.ExecuteContext(context.Background())
}

// ExecuteContext runs the root command with ctx available to subcommands.
// The table is closed afterwards whether or not the command failed.
func (r *RootCommand) ExecuteContext(ctx context.Context) error {
	err := r.cmd.ExecuteContext(ctx)
	if closeErr := r.teardown(); err == nil {
		err = closeErr
	}
	return err
}

// addGlobalFlags adds global configuration flags
func (r *RootCommand) addGlobalFlags() {
	flags := r.cmd.PersistentFlags()

	flags.StringVar(&r.configPath, "config", "", "YAML configuration file")

	// Table configuration
	flags.String("backend", "", "Table backend: airtable, sqlite or memory (overrides MC_TABLE_BACKEND)")
	flags.String("base-id", "", "Airtable base id (overrides MC_TABLE_BASE_ID)")
	flags.String("table-name", "", "Airtable table name (overrides MC_TABLE_TABLE_NAME)")

	// Database configuration
	flags.String("db-dir", "", "Database directory (overrides MC_DATABASE_DIR)")
	flags.String("db-filename", "", "Database filename (overrides MC_DATABASE_FILENAME)")

	// Server configuration
	flags.String("host", "", "HTTP listen host (overrides MC_SERVER_HOST)")
	flags.Int("port", 0, "HTTP listen port (overrides MC_SERVER_PORT)")

	// Logging configuration
	flags.String("log-level", "", "Log level (overrides MC_LOG_LEVEL)")
	flags.String("log-format", "", "Log format: json or console (overrides MC_LOG_FORMAT)")

	// Application configuration
	flags.Duration("app-timeout", 0, "Per-command timeout (overrides MC_APP_TIMEOUT)")
	flags.Bool("verbose", false, "Enable verbose output (overrides MC_APP_VERBOSE)")
}

// addSubcommands adds all CLI subcommands to the root command
func (r *RootCommand) addSubcommands() {
	r.cmd.AddCommand(
		newServeCommand(r),
		newRegisterCommand(r),
		newAvailableCommand(r),
		newMissionsCommand(r),
		newRemindCommand(r),
	)
}

// overridesFromFlags collects the global flags that were set explicitly
func (r *RootCommand) overridesFromFlags() *config.ConfigOverrides {
	flags := r.cmd.PersistentFlags()
	overrides := &config.ConfigOverrides{}

	str := func(name string) *string {
		if !flags.Changed(name) {
			return nil
		}
		v, _ := flags.GetString(name)
		return &v
	}

	overrides.Backend = str("backend")
	overrides.BaseID = str("base-id")
	overrides.TableName = str("table-name")
	overrides.DBDir = str("db-dir")
	overrides.DBFilename = str("db-filename")
	overrides.Host = str("host")
	overrides.LogLevel = str("log-level")
	overrides.LogFormat = str("log-format")

	if flags.Changed("port") {
		port, _ := flags.GetInt("port")
		overrides.Port = &port
	}
	if flags.Changed("app-timeout") {
		timeout, _ := flags.GetDuration("app-timeout")
		overrides.Timeout = &timeout
	}
	if flags.Changed("verbose") {
		verbose, _ := flags.GetBool("verbose")
		overrides.Verbose = &verbose
	}

	return overrides
}

// appFor loads configuration and opens the table on first use. Commands
// that never touch the table (help, completion) skip it entirely.
func (r *RootCommand) appFor(cmd *cobra.Command) (*App, error) {
	if r.app != nil {
		return r.app, nil
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if err := r.setup(ctx); err != nil {
		return nil, err
	}
	return r.app, nil
}

// setup loads configuration, builds the logger and opens the table
func (r *RootCommand) setup(ctx context.Context) error {
	cfg, err := r.opts.Loader.LoadWithOverrides(r.configPath, r.overridesFromFlags())
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	r.config = cfg

	logger := r.opts.Logger
	if logger == nil {
		logger, err = logging.New(logging.Options{Level: cfg.Log.Level, Format: cfg.Log.Format})
		if err != nil {
			return fmt.Errorf("failed to create logger: %w", err)
		}
	}
	r.logger = logger

	if r.opts.OpenTable == nil {
		return fmt.Errorf("no table backend available")
	}
	table, err := r.opts.OpenTable(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to open %s table: %w", cfg.Table.Backend, err)
	}

	app, err := NewApp(table, cfg, logger, r.cmd.OutOrStdout())
	if err != nil {
		_ = table.Close()
		return err
	}
	r.app = app

	logger.Debug("configuration loaded",
		zap.String("backend", cfg.Table.Backend),
		zap.Bool("verbose", cfg.Application.Verbose))
	return nil
}

func (r *RootCommand) teardown() error {
	if r.logger != nil && r.opts.Logger == nil {
		logging.Sync(r.logger)
	}
	if r.app == nil {
		return nil
	}
	err := r.app.Close()
	r.app = nil
	return err
}

// commandContext bounds a command by the configured application timeout
func (r *RootCommand) commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(ctx, r.getAppTimeout())
}

// getAppTimeout returns the configured application timeout
func (r *RootCommand) getAppTimeout() time.Duration {
	if r.config != nil && r.config.Application.Timeout > 0 {
		return r.config.Application.Timeout
	}
	return 30 * time.Second
}
