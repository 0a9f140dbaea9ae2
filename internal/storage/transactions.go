package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Veraticus/the-spice-must-recur/internal/model"
)

const dateLayout = "2006-01-02"

// SaveTransactions stores transactions, skipping any whose ID or hash is
// already present. It returns how many rows were inserted.
func (s *SQLStorage) SaveTransactions(ctx context.Context, transactions []model.Transaction) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	if err := validateTransactions(transactions); err != nil {
		return 0, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	inserted, err := s.saveTransactionsTx(ctx, tx, transactions)
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transactions: %w", err)
	}
	return inserted, nil
}

func (s *SQLStorage) saveTransactionsTx(ctx context.Context, tx *sql.Tx, transactions []model.Transaction) (int, error) {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO transactions (
			id, hash, posted_on, direction, amount, memo, category_label, account_id
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT DO NOTHING
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	inserted := 0
	for _, txn := range transactions {
		if txn.Hash == "" {
			txn.Hash = txn.GenerateHash()
		}

		res, err := stmt.ExecContext(ctx,
			txn.ID,
			txn.Hash,
			txn.Day().Format(dateLayout),
			string(txn.Direction),
			txn.Amount,
			nullString(txn.Memo),
			nullString(txn.CategoryLabel),
			txn.AccountID,
		)
		if err != nil {
			return 0, fmt.Errorf("failed to insert transaction %s: %w", txn.ID, err)
		}

		n, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("failed to read rows affected: %w", err)
		}
		inserted += int(n)
	}

	return inserted, nil
}

// GetExpensesSince returns expenses posted on or after since's calendar day,
// oldest first.
func (s *SQLStorage) GetExpensesSince(ctx context.Context, since time.Time) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, hash, posted_on, direction, amount, memo, category_label, account_id
		FROM transactions
		WHERE direction = $1 AND posted_on >= $2
		ORDER BY posted_on, id
	`, string(model.DirectionExpense), model.CalendarDay(since).Format(dateLayout))
	if err != nil {
		return nil, fmt.Errorf("failed to query expenses: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanTransactions(rows)
}

// GetTransactionCount returns the number of stored transactions.
func (s *SQLStorage) GetTransactionCount(ctx context.Context) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}

	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM transactions`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count transactions: %w", err)
	}
	return count, nil
}

func scanTransactions(rows *sql.Rows) ([]model.Transaction, error) {
	var transactions []model.Transaction
	for rows.Next() {
		var (
			txn       model.Transaction
			postedOn  string
			direction string
			memo      sql.NullString
			category  sql.NullString
		)
		if err := rows.Scan(&txn.ID, &txn.Hash, &postedOn, &direction, &txn.Amount, &memo, &category, &txn.AccountID); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}

		date, err := time.Parse(dateLayout, postedOn)
		if err != nil {
			return nil, fmt.Errorf("transaction %s has invalid date %q: %w", txn.ID, postedOn, err)
		}
		txn.Date = date
		txn.Direction = model.TransactionDirection(direction)
		txn.Memo = memo.String
		txn.CategoryLabel = category.String

		transactions = append(transactions, txn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}
	return transactions, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
