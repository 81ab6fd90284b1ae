package leave

import (
	"time"

	"github.com/shopspring/decimal"
)

// RemarkSundayCredit tags ledger rows earned by working a Sunday.
// Rows with any other remark are ordinary leave taken by the employee.
const RemarkSundayCredit = "Sunday Credit"

// LedgerEntry is one row of the leave ledger.
type LedgerEntry struct {
	ID         string
	EmployeeID string
	Date       time.Time
	Days       decimal.Decimal
	Remark     string
	CreatedAt  time.Time
}

// NewSundayCredit builds the one-day credit for a worked Sunday.
func NewSundayCredit(employeeID string, date time.Time) LedgerEntry {
	return LedgerEntry{
		EmployeeID: employeeID,
		Date:       date,
		Days:       decimal.NewFromInt(1),
		Remark:     RemarkSundayCredit,
	}
}

func (e LedgerEntry) IsSundayCredit() bool {
	return e.Remark == RemarkSundayCredit
}
