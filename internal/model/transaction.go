package model

import (
	"crypto/sha256"
	"fmt"
	"time"
)

// TransactionDirection describes which way money moved.
type TransactionDirection string

const (
	// DirectionExpense is money leaving the account.
	DirectionExpense TransactionDirection = "expense"
	// DirectionIncome is money entering the account.
	DirectionIncome TransactionDirection = "income"
	// DirectionTransfer is money moving between the user's own accounts.
	DirectionTransfer TransactionDirection = "transfer"
)

// IsValid reports whether d is one of the known directions.
func (d TransactionDirection) IsValid() bool {
	switch d {
	case DirectionExpense, DirectionIncome, DirectionTransfer:
		return true
	}
	return false
}

// Transaction represents a single entry from the user's transaction log.
// Amounts are whole currency units and never negative; the sign lives in Direction.
type Transaction struct {
	Date          time.Time
	ID            string
	Memo          string // Optional free text, empty when absent
	CategoryLabel string // Optional display category, empty when absent
	AccountID     string
	Hash          string
	Direction     TransactionDirection
	Amount        int64
}

// GenerateHash creates a unique hash for duplicate detection.
func (t *Transaction) GenerateHash() string {
	data := fmt.Sprintf("%s:%d:%s:%s:%s",
		t.Date.Format("2006-01-02"),
		t.Amount,
		t.Direction,
		t.Memo,
		t.AccountID)
	hash := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", hash)
}

// Day returns the transaction date truncated to its UTC calendar day.
func (t Transaction) Day() time.Time {
	return CalendarDay(t.Date)
}

// CalendarDay truncates ts to midnight UTC of the same calendar date.
func CalendarDay(ts time.Time) time.Time {
	y, m, d := ts.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
