package testutil

import (
	"fmt"
	"time"

	"github.com/Veraticus/the-spice-must-recur/internal/model"
)

// Series describes a run of payments spaced EveryDays apart, the last one on End.
type Series struct {
	End       time.Time
	Memo      string
	Category  string
	Account   string
	Amount    int64
	EveryDays int
	Count     int
}

// Build returns the series oldest first. IDs and hashes are filled in.
func (s Series) Build() []model.Transaction {
	account := s.Account
	if account == "" {
		account = "test-account"
	}

	txns := make([]model.Transaction, 0, s.Count)
	for i := s.Count - 1; i >= 0; i-- {
		txn := model.Transaction{
			ID:            fmt.Sprintf("%s-%d-%d", s.Memo, s.Amount, i),
			Date:          s.End.AddDate(0, 0, -s.EveryDays*i),
			Memo:          s.Memo,
			CategoryLabel: s.Category,
			AccountID:     account,
			Amount:        s.Amount,
			Direction:     model.DirectionExpense,
		}
		txn.Hash = txn.GenerateHash()
		txns = append(txns, txn)
	}
	return txns
}

// Monthly is count payments of amount, 30 days apart, ending on end.
func Monthly(memo string, amount int64, count int, end time.Time) []model.Transaction {
	return Series{Memo: memo, Amount: amount, EveryDays: 30, Count: count, End: end}.Build()
}

// Weekly is count payments of amount, 7 days apart, ending on end.
func Weekly(memo string, amount int64, count int, end time.Time) []model.Transaction {
	return Series{Memo: memo, Amount: amount, EveryDays: 7, Count: count, End: end}.Build()
}
