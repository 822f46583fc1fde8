package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/moneymentor/advisor/internal/cli/formatter"
)

func newChatCmd(app *App) *cobra.Command {
	var sessionID string

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive advice conversation",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			welcome, resumedID, err := openChatSession(ctx, app, sessionID)
			if err != nil {
				return err
			}

			if app.IsInteractive != nil && !app.IsInteractive() {
				return runPlainChat(ctx, app, resumedID, welcome)
			}

			model := newChatModel(app.Advisor, resumedID, welcome)
			_, err = tea.NewProgram(model).Run()
			return err
		},
	}

	cmd.Flags().StringVar(&sessionID, "session", "", "Resume an existing session by ID")

	return cmd
}

// openChatSession starts a new session, or resumes an existing one by
// replaying its last assistant message as the opening line.
func openChatSession(ctx context.Context, app *App, sessionID string) (welcome, id string, err error) {
	if sessionID == "" {
		sess, welcome, err := app.Advisor.StartSession(ctx)
		if err != nil {
			return "", "", err
		}
		return welcome, sess.ID, nil
	}

	transcript, err := app.Advisor.Transcript(ctx, sessionID)
	if err != nil {
		return "", "", err
	}
	welcome = "Welcome back. Where were we?"
	if len(transcript) > 0 {
		welcome = transcript[len(transcript)-1].Content
	}
	return welcome, sessionID, nil
}

// runPlainChat is the non-TTY fallback: one line in, one reply out,
// until stdin closes.
func runPlainChat(ctx context.Context, app *App, sessionID, welcome string) error {
	fmt.Println(welcome)

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		switch strings.ToLower(input) {
		case "/quit", "/exit", "/q", "quit", "exit":
			return nil
		}

		result, err := app.Advisor.ProcessTurn(ctx, sessionID, input)
		if result == nil && err != nil {
			return err
		}
		fmt.Println(result.Reply)
		if err != nil {
			fmt.Fprintln(os.Stderr, formatter.Dim(fmt.Sprintf("turn error: %v", err)))
		}
	}
	return scanner.Err()
}
