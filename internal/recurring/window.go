package recurring

import (
	"log/slog"
	"time"

	"github.com/Veraticus/the-spice-must-recur/internal/model"
)

// windowStart returns the first calendar day inside the detection window.
func windowStart(now time.Time, weeks int) time.Time {
	return model.CalendarDay(now).AddDate(0, 0, -weeks*7)
}

// selectWindow keeps well-formed expenses dated on or after the window start.
// The input slice is not modified.
func selectWindow(txns []model.Transaction, now time.Time, weeks int) []model.Transaction {
	start := windowStart(now, weeks)

	kept := make([]model.Transaction, 0, len(txns))
	for _, txn := range txns {
		if txn.Direction != model.DirectionExpense {
			continue
		}
		if txn.Date.IsZero() || txn.Amount < 0 {
			slog.Debug("Skipping malformed transaction",
				"id", txn.ID,
				"amount", txn.Amount,
				"date", txn.Date)
			continue
		}
		if txn.Day().Before(start) {
			continue
		}
		kept = append(kept, txn)
	}
	return kept
}
