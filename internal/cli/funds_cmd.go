package cli

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/moneymentor/advisor/internal/cli/formatter"
	"github.com/moneymentor/advisor/internal/finance"
	"github.com/moneymentor/advisor/internal/schema"
)

func newFundsCmd(app *App) *cobra.Command {
	var age int
	var balance float64

	cmd := &cobra.Command{
		Use:   "funds",
		Short: "List super funds and their annual fees",
		RunE: func(cmd *cobra.Command, args []string) error {
			rows := app.Funds.RowsFor(age)
			if len(rows) == 0 {
				fmt.Printf("No funds cover age %d.\n", age)
				return nil
			}

			type entry struct {
				name      string
				breakdown finance.FeeBreakdown
			}
			entries := make([]entry, 0, len(rows))
			for _, row := range rows {
				entries = append(entries, entry{
					name:      row.FundName,
					breakdown: finance.ComputeFeeBreakdown(row, balance),
				})
			}
			sort.Slice(entries, func(i, j int) bool {
				return entries[i].breakdown.Total < entries[j].breakdown.Total
			})

			headers := []string{"FUND", "INVESTMENT", "ADMIN", "MEMBER", "TOTAL", "% OF BALANCE"}
			tableRows := make([][]string, 0, len(entries))
			for i, e := range entries {
				name := e.name
				if i == 0 {
					name = formatter.StyleGreen.Render(name)
				}
				tableRows = append(tableRows, []string{
					name,
					dollars(e.breakdown.InvestmentFee),
					dollars(e.breakdown.AdminFee),
					dollars(e.breakdown.MemberFee),
					formatter.Bold(dollars(e.breakdown.Total)),
					fmt.Sprintf("%.2f%%", e.breakdown.Total/balance*100),
				})
			}

			fmt.Println(formatter.Header(fmt.Sprintf("Annual fees at age %d on a %s balance", age, dollars(balance))))
			fmt.Print(formatter.RenderTable(headers, tableRows))
			return nil
		},
	}

	cmd.Flags().IntVar(&age, "age", 40, "Member age used to select fee bands")
	cmd.Flags().Float64Var(&balance, "balance", 50_000, "Balance the percentage fees apply to")

	cmd.AddCommand(newFundsCompareCmd(app))

	return cmd
}

func newFundsCompareCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "compare",
		Short: "Compare annual fees for two funds side by side",
		RunE: func(cmd *cobra.Command, args []string) error {
			names := app.Funds.Names()
			if len(names) < 2 {
				return fmt.Errorf("fee table has fewer than two funds")
			}

			var current, nominated string
			ageStr, balanceStr := "40", "50000"

			form := huh.NewForm(
				huh.NewGroup(
					fundSelect("Your current fund", names, &current),
					fundSelect("Fund to compare against", names, &nominated),
					ageInput("Your age", &ageStr),
					balanceInput("Your balance", &balanceStr),
				),
			).WithTheme(advisorHuhTheme()).WithShowHelp(false)

			if err := form.Run(); err != nil {
				return err
			}

			age, _ := strconv.Atoi(strings.TrimSpace(ageStr))
			balance, _ := schema.ParseCurrency(balanceStr)

			headers := []string{"FUND", "INVESTMENT", "ADMIN", "MEMBER", "TOTAL"}
			rows := make([][]string, 0, 2)
			for _, name := range []string{current, nominated} {
				row, err := app.Funds.FeeRowFor(name, age)
				if err != nil {
					return err
				}
				b := finance.ComputeFeeBreakdown(row, balance)
				rows = append(rows, []string{
					name,
					dollars(b.InvestmentFee),
					dollars(b.AdminFee),
					dollars(b.MemberFee),
					formatter.Bold(dollars(b.Total)),
				})
			}

			fmt.Println(formatter.Header(fmt.Sprintf("Annual fees at age %d on a %s balance", age, dollars(balance))))
			fmt.Print(formatter.RenderTable(headers, rows))
			return nil
		},
	}
}

// dollars formats a whole-dollar amount with thousands separators.
func dollars(v float64) string {
	neg := v < 0
	if neg {
		v = -v
	}
	s := fmt.Sprintf("%.0f", v)

	var b strings.Builder
	if neg {
		b.WriteString("-")
	}
	b.WriteString("$")
	for i, d := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteString(",")
		}
		b.WriteRune(d)
	}
	return b.String()
}
