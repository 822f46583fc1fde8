package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/moneymentor/advisor/internal/cli/formatter"
)

func newAskCmd(app *App) *cobra.Command {
	var sessionID string

	cmd := &cobra.Command{
		Use:   "ask QUESTION",
		Short: "Ask a single question and print the reply",
		Long: "Runs one dialogue turn and prints the reply. Without --session a new\n" +
			"session is created and its ID printed, so a follow-up answer can be\n" +
			"sent with ask --session ID.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			question := strings.Join(args, " ")

			newSession := sessionID == ""
			if newSession {
				sess, _, err := app.Advisor.StartSession(ctx)
				if err != nil {
					return err
				}
				sessionID = sess.ID
			}

			stopSpinner := formatter.StartSpinner("Thinking...")
			result, err := app.Advisor.ProcessTurn(ctx, sessionID, question)
			stopSpinner()
			if result == nil && err != nil {
				return err
			}

			fmt.Println(formatter.FormatAssistant(result.Reply))
			if newSession || result.Awaiting != "" {
				fmt.Println(formatter.Dim(fmt.Sprintf("session %s", sessionID)))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&sessionID, "session", "", "Continue an existing session by ID")

	return cmd
}
