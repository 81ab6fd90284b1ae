package payroll

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/factory-payroll/internal/domain/employee"
	"github.com/cmlabs-hris/factory-payroll/internal/domain/leave"
	"github.com/cmlabs-hris/factory-payroll/internal/domain/payroll"
	"github.com/shopspring/decimal"
)

// computeMonthly runs the attendance based formula for a monthly employee.
// ctx carries the transaction.
func (s *PayrollServiceImpl) computeMonthly(ctx context.Context, emp employee.Employee, month payroll.Month, policy payroll.Policy) (*payroll.Result, error) {
	sheet, err := s.loadSheet(ctx, emp, month, policy)
	if err != nil {
		return nil, err
	}
	tally := sheet.Tally()

	for _, date := range tally.CreditDates {
		exists, err := s.repos.Leave.HasSundayCredit(ctx, emp.ID, date)
		if err != nil {
			return nil, fmt.Errorf("failed to check sunday credit: %w", err)
		}
		if exists {
			continue
		}
		if _, err := s.repos.Leave.InsertSundayCredit(ctx, leave.NewSundayCredit(emp.ID, date)); err != nil {
			return nil, fmt.Errorf("failed to insert sunday credit: %w", err)
		}
		slog.Debug("sunday credit granted", "employee_id", emp.ID, "date", date.Format("2006-01-02"))
	}

	leaveTaken, err := s.repos.Leave.SumLeaveTaken(ctx, emp.ID, month.Start(), month.End())
	if err != nil {
		return nil, fmt.Errorf("failed to sum leave taken: %w", err)
	}
	nights, err := s.repos.Ledger.SumNightShifts(ctx, emp.ID, month.Start(), month.End())
	if err != nil {
		return nil, fmt.Errorf("failed to sum night shifts: %w", err)
	}
	advances, err := s.repos.Ledger.SumAdvances(ctx, emp.ID, month.Start(), month.End())
	if err != nil {
		return nil, fmt.Errorf("failed to sum advances: %w", err)
	}

	absent := tally.AbsentDays.Sub(leaveTaken)
	if absent.IsNegative() {
		absent = decimal.Zero
	}

	dailyRate := emp.BaseSalary.Div(decimal.NewFromInt(int64(month.Days())))
	extraPay := dailyRate.Mul(decimal.NewFromInt(int64(tally.PaidSundays + nights)))

	gross := emp.BaseSalary.Add(extraPay).Round(2)
	deduction := absent.Add(tally.HalfDayDeduct).Mul(dailyRate).Add(advances).Round(2)

	record, err := s.repos.Salaries.Upsert(ctx, payroll.SalaryRecord{
		EmployeeID: emp.ID,
		Month:      month,
		Basis:      payroll.BasisMonthly,
		Gross:      gross,
		Deduction:  deduction,
		Net:        gross.Sub(deduction),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upsert salary record: %w", err)
	}

	return &payroll.Result{
		Record: record,
		Breakdown: payroll.Breakdown{
			DailyRate:       dailyRate.Round(2),
			HourlyRate:      decimal.Zero,
			AbsentDays:      absent,
			HalfDayDeduct:   tally.HalfDayDeduct,
			LeaveTaken:      leaveTaken,
			ExtraPay:        extraPay.Round(2),
			NightsWorked:    nights,
			Advances:        advances,
			TotalHours:      sheet.totalHours(),
			CreditedSundays: tally.CreditDates,
		},
	}, nil
}

// computeDihadi pays hours worked in the month. Every day with both punches
// counts on its own; absences and Sundays play no part.
func (s *PayrollServiceImpl) computeDihadi(ctx context.Context, emp employee.Employee, month payroll.Month) (*payroll.Result, error) {
	rows, err := s.repos.Attendance.ListByEmployeeRange(ctx, emp.ID, month.Start(), month.End())
	if err != nil {
		return nil, fmt.Errorf("failed to load attendance: %w", err)
	}
	advances, err := s.repos.Ledger.SumAdvances(ctx, emp.ID, month.Start(), month.End())
	if err != nil {
		return nil, fmt.Errorf("failed to sum advances: %w", err)
	}

	totalHours := decimal.Zero
	for _, row := range rows {
		if row.HasPunches() {
			totalHours = totalHours.Add(EffectiveHours(*row.PunchIn, *row.PunchOut, employee.WageTypeDihadi))
		}
	}

	hourlyRate := decimal.Zero
	if emp.HasAllottedHours() {
		hourlyRate = emp.BaseSalary.Div(emp.Allotted())
	}

	gross := totalHours.Mul(hourlyRate).Round(2)
	deduction := advances.Round(2)

	record, err := s.repos.Salaries.Upsert(ctx, payroll.SalaryRecord{
		EmployeeID: emp.ID,
		Month:      month,
		Basis:      payroll.BasisDihadi,
		Gross:      gross,
		Deduction:  deduction,
		Net:        gross.Sub(deduction),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upsert salary record: %w", err)
	}

	return &payroll.Result{
		Record: record,
		Breakdown: payroll.Breakdown{
			DailyRate:     decimal.Zero,
			HourlyRate:    hourlyRate.Round(2),
			AbsentDays:    decimal.Zero,
			HalfDayDeduct: decimal.Zero,
			LeaveTaken:    decimal.Zero,
			ExtraPay:      decimal.Zero,
			Advances:      advances,
			TotalHours:    totalHours,
		},
	}, nil
}

// computeFullSalary pays base salary with no deductions.
func (s *PayrollServiceImpl) computeFullSalary(ctx context.Context, emp employee.Employee, month payroll.Month) (*payroll.Result, error) {
	base := emp.BaseSalary.Round(2)
	record, err := s.repos.Salaries.Upsert(ctx, payroll.SalaryRecord{
		EmployeeID: emp.ID,
		Month:      month,
		Basis:      payroll.BasisFullSalary,
		Gross:      base,
		Deduction:  decimal.Zero,
		Net:        base,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upsert salary record: %w", err)
	}

	return &payroll.Result{
		Record: record,
		Breakdown: payroll.Breakdown{
			DailyRate:     decimal.Zero,
			HourlyRate:    decimal.Zero,
			AbsentDays:    decimal.Zero,
			HalfDayDeduct: decimal.Zero,
			LeaveTaken:    decimal.Zero,
			ExtraPay:      decimal.Zero,
			Advances:      decimal.Zero,
			TotalHours:    decimal.Zero,
		},
	}, nil
}

func (s MonthSheet) totalHours() decimal.Decimal {
	total := decimal.Zero
	for _, v := range s.Days {
		total = total.Add(v.Hours)
	}
	return total
}
