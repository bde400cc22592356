package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"mission-control/internal/domain"
	"mission-control/internal/services"
)

// dayFlags are shared by the missions subcommands that work on one day.
type dayFlags struct {
	user string
	date string
}

func (f *dayFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.user, "user", "", "Commander whose missions to use")
	cmd.Flags().StringVar(&f.date, "date", "", "Day as YYYY-MM-DD (default: today)")
	_ = cmd.MarkFlagRequired("user")
}

func (f *dayFlags) day(app *App) string {
	if d := strings.TrimSpace(f.date); d != "" {
		return d
	}
	return app.Today()
}

func newMissionsCommand(r *RootCommand) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "missions",
		Short: "Manage a commander's daily missions",
	}
	cmd.AddCommand(
		newMissionsListCommand(r),
		newMissionsAddCommand(r),
		newMissionsCompleteCommand(r, "done", true),
		newMissionsCompleteCommand(r, "undo", false),
		newMissionsDeleteCommand(r),
		newExportCommand(r),
	)
	return cmd
}

func newMissionsListCommand(r *RootCommand) *cobra.Command {
	var flags dayFlags
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List a day's missions with progress",
		Long: `List a day's missions, timed missions first.

Missions with the same text (ignoring case and spaces) are shown once.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := r.appFor(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := r.commandContext(cmd)
			defer cancel()

			view, err := app.Services.Missions.View(ctx, flags.user, flags.day(app))
			if err != nil {
				return NewErrorHandler().Handle("list missions", err)
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(view)
			}
			printView(cmd.OutOrStdout(), view)
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the view as JSON")
	return cmd
}

func newMissionsAddCommand(r *RootCommand) *cobra.Command {
	var flags dayFlags
	var slot string

	cmd := &cobra.Command{
		Use:   "add [mission text]",
		Short: "Add a mission",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := r.appFor(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := r.commandContext(cmd)
			defer cancel()

			mission, err := app.Services.Missions.AddMission(ctx, services.MissionInput{
				User:     flags.user,
				Date:     flags.day(app),
				Text:     strings.Join(args, " "),
				TimeSlot: slot,
			})
			if err != nil {
				return NewErrorHandler().Handle("add mission", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s (%s)\n", mission.Text, mission.ID)
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&slot, "time", "", "Optional time such as 09:30 or \"after lunch\"")
	return cmd
}

func newMissionsCompleteCommand(r *RootCommand, name string, completed bool) *cobra.Command {
	short := "Mark a mission complete"
	if !completed {
		short = "Mark a mission pending again"
	}

	return &cobra.Command{
		Use:   name + " [mission id]",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := r.appFor(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := r.commandContext(cmd)
			defer cancel()

			mission, err := app.Services.Missions.SetCompleted(ctx, args[0], completed)
			if err != nil {
				return NewErrorHandler().Handle("update mission", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", checkbox(mission.Completed), mission.Text)
			return nil
		},
	}
}

func newMissionsDeleteCommand(r *RootCommand) *cobra.Command {
	return &cobra.Command{
		Use:   "delete [mission id]",
		Short: "Delete a mission",
		Long:  "Delete a mission row. This cannot be undone.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := r.appFor(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := r.commandContext(cmd)
			defer cancel()

			if err := app.Services.Missions.DeleteMission(ctx, args[0]); err != nil {
				return NewErrorHandler().Handle("delete mission", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
			return nil
		},
	}
}

func checkbox(done bool) string {
	if done {
		return "[x]"
	}
	return "[ ]"
}

// printView prints one line per mission followed by the day's progress
func printView(w io.Writer, view *services.MissionsView) {
	fmt.Fprintf(w, "Missions for %s on %s\n", view.Username, view.Date)
	if len(view.Missions) == 0 {
		fmt.Fprintln(w, "No missions found")
		return
	}

	width := 0
	for _, m := range view.Missions {
		if n := len([]rune(m.TimeSlot)); n > width {
			width = n
		}
	}
	for _, m := range view.Missions {
		fmt.Fprintf(w, "%s %-*s %s  (%s)\n", checkbox(m.Completed), width, m.TimeSlot, m.Text, m.ID)
	}
	fmt.Fprintln(w, progressLine(view.Progress))
}

func progressLine(p domain.DayProgress) string {
	return fmt.Sprintf("Progress: %d/%d complete (%d%%)", p.Completed, p.Total, p.Percent())
}
