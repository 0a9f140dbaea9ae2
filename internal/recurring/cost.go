package recurring

import "github.com/shopspring/decimal"

var (
	weeksPerYear  = decimal.NewFromInt(52)
	monthsPerYear = decimal.NewFromInt(12)
	two           = decimal.NewFromInt(2)
)

// MonthlyCost estimates what the candidate costs per month.
// Irregular candidates are assumed to bill monthly.
func (c Candidate) MonthlyCost() decimal.Decimal {
	avg := decimal.NewFromInt(c.AverageAmount)
	switch c.Rhythm {
	case RhythmWeekly:
		return avg.Mul(weeksPerYear).Div(monthsPerYear).Round(2)
	case RhythmBiMonthly:
		return avg.Div(two).Round(2)
	default:
		return avg.Round(2)
	}
}

// AnnualCost estimates what the candidate costs per year.
func (c Candidate) AnnualCost() decimal.Decimal {
	return c.MonthlyCost().Mul(monthsPerYear).Round(2)
}

// SavingsSummary totals the estimated cost of a selection of candidates.
type SavingsSummary struct {
	Monthly decimal.Decimal `json:"monthly"`
	Annual  decimal.Decimal `json:"annual"`
	Count   int             `json:"count"`
}

// Savings totals the candidates whose IDs are in selected. Unknown IDs are
// ignored and an ID repeated in selected counts once.
func Savings(candidates []Candidate, selected []string) SavingsSummary {
	want := make(map[string]bool, len(selected))
	for _, id := range selected {
		want[id] = true
	}

	summary := SavingsSummary{Monthly: decimal.Zero, Annual: decimal.Zero}
	for _, c := range candidates {
		if !want[c.ID] {
			continue
		}
		summary.Count++
		summary.Monthly = summary.Monthly.Add(c.MonthlyCost())
		summary.Annual = summary.Annual.Add(c.AnnualCost())
	}
	return summary
}
