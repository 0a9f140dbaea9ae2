package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTransaction_GenerateHash(t *testing.T) {
	base := Transaction{
		ID:        "txn1",
		Date:      time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
		Memo:      "NETFLIX.COM",
		Amount:    15,
		AccountID: "acc1",
		Direction: DirectionExpense,
	}

	tests := []struct {
		name     string
		mutate   func(*Transaction)
		wantSame bool
	}{
		{
			name:     "identical transactions have same hash",
			mutate:   func(*Transaction) {},
			wantSame: true,
		},
		{
			name:     "time of day does not matter",
			mutate:   func(t *Transaction) { t.Date = t.Date.Add(3 * time.Hour) },
			wantSame: true,
		},
		{
			name:     "id does not matter",
			mutate:   func(t *Transaction) { t.ID = "other" },
			wantSame: true,
		},
		{
			name:     "different amount",
			mutate:   func(t *Transaction) { t.Amount = 16 },
			wantSame: false,
		},
		{
			name:     "different direction",
			mutate:   func(t *Transaction) { t.Direction = DirectionIncome },
			wantSame: false,
		},
		{
			name:     "different memo",
			mutate:   func(t *Transaction) { t.Memo = "SPOTIFY" },
			wantSame: false,
		},
		{
			name:     "different day",
			mutate:   func(t *Transaction) { t.Date = t.Date.AddDate(0, 0, 1) },
			wantSame: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			other := base
			tt.mutate(&other)
			if tt.wantSame {
				assert.Equal(t, base.GenerateHash(), other.GenerateHash())
			} else {
				assert.NotEqual(t, base.GenerateHash(), other.GenerateHash())
			}
		})
	}
}

func TestTransactionDirection_IsValid(t *testing.T) {
	assert.True(t, DirectionExpense.IsValid())
	assert.True(t, DirectionIncome.IsValid())
	assert.True(t, DirectionTransfer.IsValid())
	assert.False(t, TransactionDirection("").IsValid())
	assert.False(t, TransactionDirection("refund").IsValid())
}

func TestCalendarDay(t *testing.T) {
	loc := time.FixedZone("UTC+9", 9*3600)
	ts := time.Date(2024, 3, 5, 23, 30, 0, 0, loc)

	day := CalendarDay(ts)

	assert.Equal(t, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), day)
	assert.Equal(t, day, Transaction{Date: ts}.Day())
}
