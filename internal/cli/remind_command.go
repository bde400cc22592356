package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRemindCommand(r *RootCommand) *cobra.Command {
	var skipAlarms, skipDigest bool

	cmd := &cobra.Command{
		Use:   "remind",
		Short: "Send due alarms and the daily digest once",
		Long: `Run one alarm check and one daily digest, then exit.

Alarms cover incomplete missions of today whose time fell due within the
configured reminders.window. Suitable for an external cron job.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := r.appFor(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := r.commandContext(cmd)
			defer cancel()

			eh := NewErrorHandler()
			now := timeNow()
			reminders := app.Services.Reminders

			if !skipAlarms {
				sent, err := reminders.CheckAlarms(ctx, now)
				if err != nil {
					return eh.Handle("send alarms", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Alarms sent: %d\n", sent)
			}
			if !skipDigest {
				sent, err := reminders.DailyDigest(ctx, now)
				if err != nil {
					return eh.Handle("send digest", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Digests sent: %d\n", sent)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&skipAlarms, "skip-alarms", false, "Do not send alarms")
	cmd.Flags().BoolVar(&skipDigest, "skip-digest", false, "Do not send the digest")
	return cmd
}
