package cron

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cmlabs-hris/factory-payroll/internal/domain/payroll"
)

type PayrollJobs struct {
	payrollService payroll.PayrollService
	now            func() time.Time

	mu      sync.Mutex
	lastRun payroll.Month
}

func NewPayrollJobs(payrollService payroll.PayrollService) *PayrollJobs {
	return &PayrollJobs{
		payrollService: payrollService,
		now:            time.Now,
	}
}

func (j *PayrollJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("close_previous_month_payroll", 1*time.Hour, j.ClosePreviousMonth)
}

// ClosePreviousMonth recomputes the previous month for every active employee.
// It only fires on the first day of a month (UTC) and at most once per month
// per process once every employee succeeded.
func (j *PayrollJobs) ClosePreviousMonth(ctx context.Context) error {
	today := j.now().UTC()
	if today.Day() != 1 {
		return nil
	}

	target := payroll.MonthOf(today).Prev()

	j.mu.Lock()
	if j.lastRun == target {
		j.mu.Unlock()
		return nil
	}
	j.mu.Unlock()

	slog.Info("Cron: Starting monthly payroll run", "month", target.String())

	result, err := j.payrollService.ComputeMonth(ctx, payroll.ComputePayrollRequest{Month: target.String()})
	if err != nil {
		return fmt.Errorf("failed to compute payroll for %s: %w", target, err)
	}

	for _, f := range result.Failed {
		slog.Warn("Cron: Payroll failed for employee", "employee_id", f.EmployeeID, "month", target.String(), "error", f.Error)
	}

	// Failed employees are retried on the next tick of the same day.
	if len(result.Failed) == 0 {
		j.mu.Lock()
		j.lastRun = target
		j.mu.Unlock()
	}

	slog.Info("Cron: Monthly payroll run finished",
		"month", target.String(),
		"computed", len(result.Records),
		"skipped", len(result.Skipped),
		"failed", len(result.Failed),
	)
	return nil
}
