package cli

import (
	"github.com/spf13/cobra"

	"github.com/moneymentor/advisor/internal/funds"
	"github.com/moneymentor/advisor/internal/service"
)

// App holds the service interfaces used by CLI commands.
type App struct {
	Advisor service.AdvisorService
	Funds   *funds.Table

	// IsInteractive reports whether stdin is attached to a terminal.
	// The chat command falls back to a line-based loop when it isn't.
	IsInteractive func() bool
}

// NewRootCmd creates the top-level "advisor" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "advisor",
		Short: "Superannuation projection and fee comparison assistant",
	}

	root.AddCommand(
		newChatCmd(app),
		newAskCmd(app),
		newFundsCmd(app),
		newSessionsCmd(app),
	)

	return root
}
