package employee

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Employee struct {
	ID                  string
	EmployeeCode        string
	FullName            string
	WageType            WageType
	BaseSalary          decimal.Decimal
	AllottedHours       *decimal.Decimal // nil means "not configured"
	PaidSundayAllowance int
	PaySunday           bool
	Department          string
	SupervisorName      string
	DateOfJoining       *time.Time
	EmploymentStatus    EmploymentStatus
	CreatedAt           time.Time
	UpdatedAt           time.Time
	DeletedAt           *time.Time
}

// WageType decides which payroll formula applies to the employee.
type WageType string

const (
	WageTypeMonthly WageType = "monthly"
	WageTypeDihadi  WageType = "dihadi"
)

// ParseWageType normalizes the value stored by the ingestion side.
// Anything other than dihadi is paid monthly.
func ParseWageType(s string) WageType {
	if strings.EqualFold(strings.TrimSpace(s), string(WageTypeDihadi)) {
		return WageTypeDihadi
	}
	return WageTypeMonthly
}

type EmploymentStatus string

const (
	EmploymentStatusActive     EmploymentStatus = "active"
	EmploymentStatusResigned   EmploymentStatus = "resigned"
	EmploymentStatusTerminated EmploymentStatus = "terminated"
)

// Allotted returns the allotted hours, zero when not configured.
func (e Employee) Allotted() decimal.Decimal {
	if e.AllottedHours == nil {
		return decimal.Zero
	}
	return *e.AllottedHours
}

// HasAllottedHours reports whether a positive allotted hours target is set.
func (e Employee) HasAllottedHours() bool {
	return e.Allotted().IsPositive()
}
