package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// Basis records which formula produced a salary record.
type Basis string

const (
	BasisMonthly    Basis = "monthly"
	BasisDihadi     Basis = "dihadi"
	BasisFullSalary Basis = "full_salary"
)

// SalaryRecord is the persisted payroll result, unique per employee and month.
type SalaryRecord struct {
	EmployeeID string
	Month      Month
	Basis      Basis
	Gross      decimal.Decimal
	Deduction  decimal.Decimal
	Net        decimal.Decimal
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Breakdown explains how a SalaryRecord was reached. It is returned to callers
// and never persisted.
type Breakdown struct {
	DailyRate       decimal.Decimal
	HourlyRate      decimal.Decimal
	AbsentDays      decimal.Decimal // after leave offset
	HalfDayDeduct   decimal.Decimal
	LeaveTaken      decimal.Decimal
	ExtraPay        decimal.Decimal
	NightsWorked    int
	Advances        decimal.Decimal
	TotalHours      decimal.Decimal
	CreditedSundays []time.Time
}

// Result pairs the stored record with its breakdown.
type Result struct {
	Record    SalaryRecord
	Breakdown Breakdown
}
