package payroll

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// SalaryRepository stores computed salary records keyed by employee and month.
type SalaryRepository interface {
	// Upsert inserts or replaces the record for (EmployeeID, Month).
	Upsert(ctx context.Context, record SalaryRecord) (SalaryRecord, error)
	GetByEmployeeMonth(ctx context.Context, employeeID string, month Month) (SalaryRecord, error)
	ListByMonth(ctx context.Context, month Month) ([]SalaryRecord, error)
}

// LedgerRepository reads advance and night-shift ledgers. Ranges are inclusive.
type LedgerRepository interface {
	SumAdvances(ctx context.Context, employeeID string, from, to time.Time) (decimal.Decimal, error)
	SumNightShifts(ctx context.Context, employeeID string, from, to time.Time) (int, error)
}
