package cli

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"mission-control/internal/errors"
	"mission-control/internal/services"
)

// supported export formats
const formatCSV = "csv"

func newExportCommand(r *RootCommand) *cobra.Command {
	var flags dayFlags
	var format string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a day's missions",
		Long: `Export a day's missions in the specified format.

Supported formats:
  csv - Comma-separated values format

Example:
  mc missions export --user ada --date 2024-05-01 > day.csv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := r.appFor(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := r.commandContext(cmd)
			defer cancel()

			if format != formatCSV {
				return errors.NewInvalidInputError("format", format, "unsupported format")
			}
			return exportCSV(ctx, app.Services.Missions, flags.user, flags.day(app), cmd.OutOrStdout())
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&format, "format", formatCSV, "Output format")
	return cmd
}

// exportCSV writes the day's listing, in display order, as CSV
func exportCSV(ctx context.Context, missions services.MissionService, user, date string, w io.Writer) error {
	list, err := missions.ListMissions(ctx, user, date)
	if err != nil {
		return NewErrorHandler().Handle("export missions", err)
	}

	writer := csv.NewWriter(w)

	header := []string{"ID", "Date", "Time", "Mission", "Status"}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, m := range list {
		row := []string{m.ID, m.Date, m.TimeSlot, m.Text, string(m.Status())}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}
