package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/moneymentor/advisor/internal/cli/formatter"
	"github.com/moneymentor/advisor/internal/domain"
)

func newSessionsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "Manage saved conversations",
	}

	cmd.AddCommand(
		newSessionsListCmd(app),
		newSessionsShowCmd(app),
		newSessionsRemoveCmd(app),
	)

	return cmd
}

func newSessionsListCmd(app *App) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			sessions, err := app.Advisor.ListSessions(context.Background(), limit)
			if err != nil {
				return err
			}
			if len(sessions) == 0 {
				fmt.Println("No sessions found.")
				return nil
			}

			headers := []string{"ID", "INTENT", "AWAITING", "UPDATED"}
			rows := make([][]string, 0, len(sessions))
			for _, s := range sessions {
				awaiting := string(s.AwaitingVariable)
				if awaiting == "" {
					awaiting = formatter.Dim("-")
				}
				rows = append(rows, []string{
					s.ID,
					string(s.Intent),
					awaiting,
					formatter.Dim(s.UpdatedAt.Local().Format("2006-01-02 15:04")),
				})
			}

			fmt.Print(formatter.RenderTable(headers, rows))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of sessions to show")

	return cmd
}

func newSessionsShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Print a session transcript",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			transcript, err := app.Advisor.Transcript(context.Background(), args[0])
			if err != nil {
				return err
			}
			if len(transcript) == 0 {
				fmt.Println("Empty transcript.")
				return nil
			}

			for _, m := range transcript {
				if m.Role == domain.RoleUser {
					fmt.Println(formatter.FormatUser(m.Content))
				} else {
					fmt.Println(formatter.FormatAssistant(m.Content))
				}
			}
			return nil
		},
	}
}

func newSessionsRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove ID",
		Short: "Delete a session and its transcript",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Advisor.DeleteSession(context.Background(), args[0]); err != nil {
				return err
			}
			fmt.Printf("Removed session %s\n", args[0])
			return nil
		},
	}
}
