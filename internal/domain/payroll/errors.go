package payroll

import "errors"

var (
	ErrSalaryRecordNotFound = errors.New("salary record not found")
	ErrInvalidMonth         = errors.New("invalid payroll month, expected YYYY-MM")
	ErrRecomputeInProgress  = errors.New("payroll recomputation already running for this employee")
)
