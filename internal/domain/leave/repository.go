package leave

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// LeaveRepository is the leave ledger.
type LeaveRepository interface {
	// HasSundayCredit reports whether a Sunday credit already exists for the date.
	HasSundayCredit(ctx context.Context, employeeID string, date time.Time) (bool, error)

	// InsertSundayCredit stores a credit row. Callers check HasSundayCredit first.
	InsertSundayCredit(ctx context.Context, entry LedgerEntry) (LedgerEntry, error)

	// SumLeaveTaken sums days of non-credit rows with from <= date <= to.
	SumLeaveTaken(ctx context.Context, employeeID string, from, to time.Time) (decimal.Decimal, error)
}
