package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/factory-payroll/internal/domain/attendance"
	"github.com/cmlabs-hris/factory-payroll/internal/domain/leave"
	"github.com/cmlabs-hris/factory-payroll/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type leaveRepositoryImpl struct {
	db *database.DB
}

func NewLeaveRepository(db *database.DB) leave.LeaveRepository {
	return &leaveRepositoryImpl{db: db}
}

// HasSundayCredit implements leave.LeaveRepository.
func (r *leaveRepositoryImpl) HasSundayCredit(ctx context.Context, employeeID string, date time.Time) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT EXISTS (
			SELECT 1 FROM leave_ledger
			WHERE employee_id = $1 AND date = $2 AND remark = $3
		)
	`

	var exists bool
	if err := q.QueryRow(ctx, query, employeeID, attendance.DateOnly(date), leave.RemarkSundayCredit).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check sunday credit: %w", err)
	}

	return exists, nil
}

// InsertSundayCredit implements leave.LeaveRepository.
func (r *leaveRepositoryImpl) InsertSundayCredit(ctx context.Context, entry leave.LedgerEntry) (leave.LedgerEntry, error) {
	q := GetQuerier(ctx, r.db)

	id, err := uuid.NewV7()
	if err != nil {
		return leave.LedgerEntry{}, fmt.Errorf("failed to generate ledger id: %w", err)
	}

	query := `
		INSERT INTO leave_ledger (id, employee_id, date, days, remark, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		RETURNING id, employee_id, date, days, remark, created_at
	`

	var e leave.LedgerEntry
	err = q.QueryRow(ctx, query,
		id.String(), entry.EmployeeID, attendance.DateOnly(entry.Date), entry.Days, leave.RemarkSundayCredit,
	).Scan(&e.ID, &e.EmployeeID, &e.Date, &e.Days, &e.Remark, &e.CreatedAt)
	if err != nil {
		return leave.LedgerEntry{}, fmt.Errorf("failed to insert sunday credit: %w", err)
	}

	e.Date = attendance.DateOnly(e.Date)
	return e, nil
}

// SumLeaveTaken implements leave.LeaveRepository.
func (r *leaveRepositoryImpl) SumLeaveTaken(ctx context.Context, employeeID string, from, to time.Time) (decimal.Decimal, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT COALESCE(SUM(days), 0)
		FROM leave_ledger
		WHERE employee_id = $1 AND date BETWEEN $2 AND $3 AND remark <> $4
	`

	var total decimal.Decimal
	err := q.QueryRow(ctx, query, employeeID, attendance.DateOnly(from), attendance.DateOnly(to), leave.RemarkSundayCredit).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum leave taken: %w", err)
	}

	return total, nil
}
