package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/factory-payroll/internal/domain/attendance"
	"github.com/cmlabs-hris/factory-payroll/internal/domain/payroll"
	"github.com/cmlabs-hris/factory-payroll/internal/pkg/database"
	"github.com/shopspring/decimal"
)

type ledgerRepository struct {
	db *database.DB
}

func NewLedgerRepository(db *database.DB) payroll.LedgerRepository {
	return &ledgerRepository{db: db}
}

// SumAdvances implements payroll.LedgerRepository.
func (r *ledgerRepository) SumAdvances(ctx context.Context, employeeID string, from, to time.Time) (decimal.Decimal, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM advance_ledger
		WHERE employee_id = $1 AND date BETWEEN $2 AND $3
	`

	var total decimal.Decimal
	if err := q.QueryRow(ctx, query, employeeID, attendance.DateOnly(from), attendance.DateOnly(to)).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum advances: %w", err)
	}

	return total, nil
}

// SumNightShifts implements payroll.LedgerRepository.
func (r *ledgerRepository) SumNightShifts(ctx context.Context, employeeID string, from, to time.Time) (int, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT COALESCE(SUM(nights), 0)::int
		FROM night_shift_ledger
		WHERE employee_id = $1 AND date BETWEEN $2 AND $3
	`

	var nights int
	if err := q.QueryRow(ctx, query, employeeID, attendance.DateOnly(from), attendance.DateOnly(to)).Scan(&nights); err != nil {
		return 0, fmt.Errorf("failed to sum night shifts: %w", err)
	}

	return nights, nil
}
