package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/moneymentor/advisor/internal/cli/formatter"
	"github.com/moneymentor/advisor/internal/schema"
)

func advisorHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	// Focused state: orange accent
	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	// Blurred state: dimmed
	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// fundSelect returns a huh.Select over every fund name in the table.
func fundSelect(title string, names []string, value *string) *huh.Select[string] {
	options := make([]huh.Option[string], 0, len(names))
	for _, name := range names {
		options = append(options, huh.NewOption(name, name))
	}
	return huh.NewSelect[string]().
		Title(title).
		Options(options...).
		Value(value)
}

// ageInput returns a huh.Input for an age within the supported range.
func ageInput(title string, value *string) *huh.Input {
	return huh.NewInput().
		Title(title).
		Placeholder("40").
		Value(value).
		Validate(validateAgeField)
}

// balanceInput returns a huh.Input for a dollar balance. Shorthand such
// as 150k is accepted.
func balanceInput(title string, value *string) *huh.Input {
	return huh.NewInput().
		Title(title).
		Placeholder("50000").
		Value(value).
		Validate(validateBalanceField)
}

func validateAgeField(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("enter a whole number")
	}
	if n < schema.MinValidAge || n > schema.MaxValidAge {
		return fmt.Errorf("age must be between %d and %d", schema.MinValidAge, schema.MaxValidAge)
	}
	return nil
}

func validateBalanceField(s string) error {
	v, err := schema.ParseCurrency(s)
	if err != nil {
		return fmt.Errorf("enter a dollar amount, e.g. 150000 or 150k")
	}
	if v < 0 {
		return fmt.Errorf("balance cannot be negative")
	}
	return nil
}
