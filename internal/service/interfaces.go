// Package service defines the interfaces shared by the command-line and HTTP surfaces.
package service

import (
	"context"
	"time"

	"github.com/Veraticus/the-spice-must-recur/internal/model"
)

// TransactionStore defines the contract for our persistence layer.
type TransactionStore interface {
	// SaveTransactions stores new transactions and reports how many were inserted.
	// Records whose ID or hash already exists are skipped.
	SaveTransactions(ctx context.Context, transactions []model.Transaction) (int, error)
	// GetExpensesSince returns expenses on or after since's calendar day, oldest first.
	GetExpensesSince(ctx context.Context, since time.Time) ([]model.Transaction, error)
	GetTransactionCount(ctx context.Context) (int, error)

	Migrate(ctx context.Context) error
	Close() error
}

// ExpenseReader is the read side of TransactionStore used by detection.
type ExpenseReader interface {
	GetExpensesSince(ctx context.Context, since time.Time) ([]model.Transaction, error)
}
