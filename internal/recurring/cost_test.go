package recurring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCandidate_Costs(t *testing.T) {
	tests := []struct {
		name        string
		rhythm      Rhythm
		wantMonthly string
		wantAnnual  string
		average     int64
	}{
		{name: "monthly", rhythm: RhythmMonthly, average: 1000, wantMonthly: "1000", wantAnnual: "12000"},
		{name: "weekly", rhythm: RhythmWeekly, average: 10, wantMonthly: "43.33", wantAnnual: "519.96"},
		{name: "bi-monthly", rhythm: RhythmBiMonthly, average: 999, wantMonthly: "499.5", wantAnnual: "5994"},
		{name: "unknown treated as monthly", rhythm: RhythmUnknown, average: 250, wantMonthly: "250", wantAnnual: "3000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Candidate{Rhythm: tt.rhythm, AverageAmount: tt.average}
			assert.Equal(t, tt.wantMonthly, c.MonthlyCost().String())
			assert.Equal(t, tt.wantAnnual, c.AnnualCost().String())
		})
	}
}

func TestSavings(t *testing.T) {
	candidates := []Candidate{
		{ID: "a", Rhythm: RhythmMonthly, AverageAmount: 1000},
		{ID: "b", Rhythm: RhythmBiMonthly, AverageAmount: 600},
		{ID: "c", Rhythm: RhythmWeekly, AverageAmount: 30},
	}

	got := Savings(candidates, []string{"a", "b", "a", "missing"})

	assert.Equal(t, 2, got.Count)
	assert.Equal(t, "1300", got.Monthly.String())
	assert.Equal(t, "15600", got.Annual.String())

	empty := Savings(candidates, nil)
	assert.Equal(t, 0, empty.Count)
	assert.True(t, empty.Monthly.IsZero())
	assert.True(t, empty.Annual.IsZero())
}
