package finance

import "github.com/moneymentor/advisor/internal/domain"

// FeeBreakdown is the annual dollar cost of holding a balance in a fund.
type FeeBreakdown struct {
	InvestmentFee float64
	AdminFee      float64
	MemberFee     float64
	Total         float64
}

// ComputeFeeBreakdown prices a balance against a fund's fee row.
// The admin fee is balance-tiered: each tier charges its rate on the part of
// the balance falling inside the tier, and tiers above the balance are
// skipped.
func ComputeFeeBreakdown(row domain.FeeRow, balance float64) FeeBreakdown {
	b := FeeBreakdown{
		InvestmentFee: balance * row.InvestmentPct / 100,
		AdminFee:      tieredAdminFee(row.AdminTiers, balance),
		MemberFee:     row.MemberFee,
	}
	b.Total = b.InvestmentFee + b.AdminFee + b.MemberFee
	return b
}

func tieredAdminFee(tiers []domain.AdminFeeTier, balance float64) float64 {
	var fee float64
	for _, tier := range tiers {
		if balance <= tier.MinBalance {
			break
		}
		applicable := min(balance, tier.MaxBalance) - tier.MinBalance
		if applicable < 0 {
			applicable = 0
		}
		fee += applicable * tier.Rate / 100
	}
	return fee
}
