package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"mission-control/internal/services"
)

func newRegisterCommand(r *RootCommand) *cobra.Command {
	var in services.RegistrationInput

	cmd := &cobra.Command{
		Use:   "register [username]",
		Short: "Register a new commander",
		Long: `Register a new commander account.

The password needs at least 8 characters with an upper case letter, a lower
case letter, a digit and a symbol. The security answer is matched ignoring
case and surrounding spaces when resetting a forgotten password.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := r.appFor(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := r.commandContext(cmd)
			defer cancel()

			in.Username = args[0]
			if in.ConfirmPassword == "" {
				in.ConfirmPassword = in.Password
			}

			account, err := app.Services.Credentials.Register(ctx, in)
			if err != nil {
				return NewErrorHandler().Handle("register", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Commander %s registered\n", account.Username)
			return nil
		},
	}

	cmd.Flags().StringVar(&in.Password, "password", "", "Account password")
	cmd.Flags().StringVar(&in.ConfirmPassword, "confirm", "", "Password confirmation (defaults to --password)")
	cmd.Flags().StringVar(&in.SecurityQuestion, "question", "", "Security question for password resets")
	cmd.Flags().StringVar(&in.SecurityAnswer, "answer", "", "Answer to the security question")
	_ = cmd.MarkFlagRequired("password")
	_ = cmd.MarkFlagRequired("question")
	_ = cmd.MarkFlagRequired("answer")

	return cmd
}

func newAvailableCommand(r *RootCommand) *cobra.Command {
	return &cobra.Command{
		Use:   "available [username]",
		Short: "Check whether a username is free",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := r.appFor(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := r.commandContext(cmd)
			defer cancel()

			username := strings.TrimSpace(args[0])
			exists, err := app.Services.Credentials.UsernameExists(ctx, username)
			if err != nil {
				return NewErrorHandler().Handle("check username", err)
			}
			if exists {
				fmt.Fprintf(cmd.OutOrStdout(), "%s is taken\n", username)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "%s is available\n", username)
			}
			return nil
		},
	}
}
