package service

import (
	"fmt"
	"strings"

	"github.com/moneymentor/advisor/internal/convo"
)

// WelcomeMessage opens every new session.
const WelcomeMessage = "G'day! I'm your superannuation assistant. I can project your super balance " +
	"at retirement, compare fund fees, find the cheapest fund for you, estimate how long " +
	"your savings will last, and check your age pension entitlement. What would you like to know?"

const unknownReply = "I'm not sure what you'd like me to work out. You can ask me to project " +
	"your super balance, compare fund fees, find the cheapest fund, estimate how long your " +
	"savings will last in retirement, or check your age pension entitlement."

// renderAnswer turns a structured answer into the assistant's reply text.
// Styling stays in the CLI layer; this is plain prose.
func renderAnswer(a *convo.Answer) string {
	var b strings.Builder

	switch p := a.Payload.(type) {
	case convo.ProjectionPayload:
		fmt.Fprintf(&b, "Based on your details with %s, your super balance is projected to be around %s when you retire at age %d.",
			p.FundName, formatMoney(p.ProjectedBalance), p.RetirementAge)
		fmt.Fprintf(&b, " That assumes %.1f%% investment returns, %.1f%% inflation and %.1f%% wage growth, with today's fee structure.",
			p.Assumptions.InvestmentReturnPct, p.Assumptions.InflationPct, p.Assumptions.WageGrowthPct)

	case convo.FeeComparisonPayload:
		fmt.Fprintf(&b, "On a balance of %s, %s charges about %s a year (%.2f%% of your balance) and %s charges about %s (%.2f%%).",
			formatMoney(p.Balance),
			p.Current.Name, formatMoney(p.Current.Breakdown.Total), p.Current.PctOfBalance,
			p.Nominated.Name, formatMoney(p.Nominated.Breakdown.Total), p.Nominated.PctOfBalance)
		diff := p.Current.Breakdown.Total - p.Nominated.Breakdown.Total
		switch {
		case diff > 0.005:
			fmt.Fprintf(&b, " %s is cheaper by %s a year.", p.Nominated.Name, formatMoney(diff))
		case diff < -0.005:
			fmt.Fprintf(&b, " %s is cheaper by %s a year.", p.Current.Name, formatMoney(-diff))
		default:
			b.WriteString(" They cost about the same.")
		}

	case convo.FeeRankingPayload:
		fmt.Fprintf(&b, "I compared %d funds on a balance of %s. The cheapest is %s at %s a year.",
			len(p.Funds), formatMoney(p.Balance), p.Funds[0].Name, formatMoney(p.Funds[0].Breakdown.Total))
		if p.CurrentRank > 1 {
			fmt.Fprintf(&b, " Your fund %s ranks %s at %s a year.",
				p.CurrentFund, ordinal(p.CurrentRank), formatMoney(feeForRank(p)))
		} else if p.CurrentRank == 1 {
			fmt.Fprintf(&b, " That's your fund, so you're already in the cheapest option I can see.")
		}

	case convo.CheapestPayload:
		fmt.Fprintf(&b, "Of the %d funds I compared on a balance of %s, %s has the lowest annual fees at %s (%.2f%% of your balance).",
			p.Compared, formatMoney(p.Balance), p.Fund.Name,
			formatMoney(p.Fund.Breakdown.Total), p.Fund.PctOfBalance)

	case convo.CompareProjectionPayload:
		fmt.Fprintf(&b, "Staying with %s, you'd retire at %d with around %s. With %s it would be around %s.",
			p.Current.FundName, p.Current.RetirementAge, formatMoney(p.Current.ProjectedBalance),
			p.Nominated.FundName, formatMoney(p.Nominated.ProjectedBalance))
		diff := p.Nominated.ProjectedBalance - p.Current.ProjectedBalance
		switch {
		case diff > 0.5:
			fmt.Fprintf(&b, " Switching would leave you about %s better off.", formatMoney(diff))
		case diff < -0.5:
			fmt.Fprintf(&b, " Switching would leave you about %s worse off.", formatMoney(-diff))
		default:
			b.WriteString(" There's essentially no difference.")
		}

	case convo.OutcomePayload:
		fmt.Fprintf(&b, "With a retirement balance of %s at age %d, drawing %s a year (%s),",
			formatMoney(p.RetirementBalance), p.RetirementAge,
			formatMoney(p.AnnualIncome), p.IncomeLabel)
		if p.NeverDepletes {
			b.WriteString(" your savings are projected to outlast you. Investment returns keep pace with your drawdown.")
		} else {
			fmt.Fprintf(&b, " your savings are projected to last until age %d.", p.DepletionAge)
		}

	case convo.PensionPayload:
		if p.Result.AnnualPension <= 0 {
			b.WriteString("Based on your assets and income, you wouldn't currently qualify for the age pension.")
		} else {
			fmt.Fprintf(&b, "You could be entitled to an age pension of around %s a year (%s a fortnight).",
				formatMoney(p.Result.AnnualPension), formatMoney(p.Result.AnnualPension/26))
			if p.Result.AssetsTestAnnual < p.Result.IncomeTestAnnual {
				b.WriteString(" The assets test is what limits your entitlement.")
			} else if p.Result.IncomeTestAnnual < p.Result.AssetsTestAnnual {
				b.WriteString(" The income test is what limits your entitlement.")
			}
		}

	case convo.FundNotFoundPayload:
		fmt.Fprintf(&b, "Sorry, I couldn't find a super fund matching %q in my fee tables, so I can't run that calculation. Could you double-check the fund name?", p.Name)

	default:
		return unknownReply
	}

	if a.SuggestionLead != "" {
		b.WriteString(" ")
		b.WriteString(a.SuggestionLead)
	}
	return b.String()
}

// formatMoney renders a dollar amount rounded to whole dollars with
// thousands separators.
func formatMoney(v float64) string {
	neg := v < 0
	if neg {
		v = -v
	}
	whole := int64(v + 0.5)

	s := fmt.Sprintf("%d", whole)
	var out strings.Builder
	if neg {
		out.WriteString("-")
	}
	out.WriteString("$")
	for i, d := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			out.WriteString(",")
		}
		out.WriteRune(d)
	}
	return out.String()
}

func ordinal(n int) string {
	switch n % 10 {
	case 1:
		if n%100 != 11 {
			return fmt.Sprintf("%dst", n)
		}
	case 2:
		if n%100 != 12 {
			return fmt.Sprintf("%dnd", n)
		}
	case 3:
		if n%100 != 13 {
			return fmt.Sprintf("%drd", n)
		}
	}
	return fmt.Sprintf("%dth", n)
}

func feeForRank(p convo.FeeRankingPayload) float64 {
	if p.CurrentRank < 1 || p.CurrentRank > len(p.Funds) {
		return 0
	}
	return p.Funds[p.CurrentRank-1].Breakdown.Total
}
