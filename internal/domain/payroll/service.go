package payroll

import "context"

type PayrollService interface {
	// Compute recomputes one employee-month. It returns (nil, nil) when the
	// employee does not exist.
	Compute(ctx context.Context, employeeID string, month Month) (*Result, error)

	// ComputeMonth recomputes many employees concurrently.
	ComputeMonth(ctx context.Context, req ComputePayrollRequest) (ComputePayrollResponse, error)

	GetRecord(ctx context.Context, employeeID string, month string) (SalaryRecordResponse, error)
	ListRecords(ctx context.Context, month string) ([]SalaryRecordResponse, error)

	// DailyStatus labels every day of the month without persisting anything.
	DailyStatus(ctx context.Context, employeeID string, month string) (MonthlyStatusResponse, error)
}
