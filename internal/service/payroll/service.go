package payroll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/factory-payroll/internal/domain/attendance"
	"github.com/cmlabs-hris/factory-payroll/internal/domain/calendar"
	"github.com/cmlabs-hris/factory-payroll/internal/domain/employee"
	"github.com/cmlabs-hris/factory-payroll/internal/domain/leave"
	"github.com/cmlabs-hris/factory-payroll/internal/domain/payroll"
	"github.com/cmlabs-hris/factory-payroll/internal/pkg/database"
	"github.com/cmlabs-hris/factory-payroll/internal/pkg/lock"
	"golang.org/x/sync/errgroup"
)

const (
	defaultWorkers     = 4
	defaultLockTimeout = 30 * time.Second
)

// Repositories groups the stores a payroll run reads and writes.
type Repositories struct {
	Employees  employee.EmployeeRepository
	Attendance attendance.AttendanceRepository
	Calendar   calendar.CalendarRepository
	Leave      leave.LeaveRepository
	Salaries   payroll.SalaryRepository
	Ledger     payroll.LedgerRepository
}

// Options tunes a PayrollServiceImpl. Zero values fall back to defaults.
type Options struct {
	Policy      payroll.Policy
	Workers     int
	LockTimeout time.Duration
}

type PayrollServiceImpl struct {
	db          database.Transactor
	repos       Repositories
	locker      lock.Locker
	policy      payroll.Policy
	workers     int
	lockTimeout time.Duration
}

func NewPayrollService(db database.Transactor, repos Repositories, locker lock.Locker, opts Options) payroll.PayrollService {
	if opts.Workers <= 0 {
		opts.Workers = defaultWorkers
	}
	if opts.LockTimeout <= 0 {
		opts.LockTimeout = defaultLockTimeout
	}
	if locker == nil {
		locker = lock.NewLocalLocker()
	}
	return &PayrollServiceImpl{
		db:          db,
		repos:       repos,
		locker:      locker,
		policy:      opts.Policy,
		workers:     opts.Workers,
		lockTimeout: opts.LockTimeout,
	}
}

// ========== COMPUTE ==========

func (s *PayrollServiceImpl) Compute(ctx context.Context, employeeID string, month payroll.Month) (*payroll.Result, error) {
	return s.compute(ctx, employeeID, month, s.policy)
}

func (s *PayrollServiceImpl) compute(ctx context.Context, employeeID string, month payroll.Month, policy payroll.Policy) (*payroll.Result, error) {
	release, err := s.acquire(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	defer release()

	var result *payroll.Result
	err = s.db.WithinTransaction(ctx, func(txCtx context.Context) error {
		emp, err := s.repos.Employees.GetByID(txCtx, employeeID)
		if err != nil {
			if errors.Is(err, employee.ErrEmployeeNotFound) {
				slog.Warn("payroll skipped, employee not found", "employee_id", employeeID, "month", month.String())
				return nil
			}
			return fmt.Errorf("failed to load employee: %w", err)
		}

		switch {
		case emp.WageType == employee.WageTypeDihadi:
			result, err = s.computeDihadi(txCtx, emp, month)
		case policy.IsFullSalary(emp.ID):
			result, err = s.computeFullSalary(txCtx, emp, month)
		default:
			result, err = s.computeMonthly(txCtx, emp, month, policy)
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	if result != nil {
		slog.Info("payroll computed",
			"employee_id", employeeID,
			"month", month.String(),
			"basis", result.Record.Basis,
			"net", result.Record.Net.String(),
		)
	}
	return result, nil
}

// acquire takes the per-employee lock. A lock that stays busy past the
// timeout means another recomputation owns the employee.
func (s *PayrollServiceImpl) acquire(ctx context.Context, employeeID string) (func(), error) {
	lockCtx, cancel := context.WithTimeout(ctx, s.lockTimeout)
	defer cancel()

	release, err := s.locker.Acquire(lockCtx, employeeID)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %s", payroll.ErrRecomputeInProgress, employeeID)
		}
		return nil, fmt.Errorf("failed to acquire payroll lock: %w", err)
	}
	return release, nil
}

func (s *PayrollServiceImpl) ComputeMonth(ctx context.Context, req payroll.ComputePayrollRequest) (payroll.ComputePayrollResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.ComputePayrollResponse{}, err
	}
	month, err := payroll.ParseMonth(req.Month)
	if err != nil {
		return payroll.ComputePayrollResponse{}, err
	}

	ids := dedupe(req.EmployeeIDs)
	if len(ids) == 0 {
		employees, err := s.repos.Employees.ListActive(ctx)
		if err != nil {
			return payroll.ComputePayrollResponse{}, fmt.Errorf("failed to list active employees: %w", err)
		}
		for _, emp := range employees {
			ids = append(ids, emp.ID)
		}
	}

	results := make([]*payroll.Result, len(ids))
	errs := make([]error, len(ids))

	// Employees are independent; a failure is reported per employee and
	// never cancels the others.
	var g errgroup.Group
	g.SetLimit(s.workers)
	for i, id := range ids {
		g.Go(func() error {
			results[i], errs[i] = s.compute(ctx, id, month, s.policy)
			return nil
		})
	}
	_ = g.Wait()

	resp := payroll.ComputePayrollResponse{
		Month:   month.String(),
		Records: make([]payroll.SalaryRecordResponse, 0, len(ids)),
	}
	for i, id := range ids {
		switch {
		case errs[i] != nil:
			slog.Error("payroll computation failed", "employee_id", id, "month", month.String(), "error", errs[i])
			resp.Failed = append(resp.Failed, payroll.ComputeFailure{EmployeeID: id, Error: errs[i].Error()})
		case results[i] == nil:
			resp.Skipped = append(resp.Skipped, id)
		default:
			resp.Records = append(resp.Records, payroll.ToSalaryRecordResponse(results[i].Record, &results[i].Breakdown))
		}
	}

	slog.Info("payroll run finished",
		"month", month.String(),
		"computed", len(resp.Records),
		"skipped", len(resp.Skipped),
		"failed", len(resp.Failed),
	)
	return resp, nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// ========== RECORDS ==========

func (s *PayrollServiceImpl) GetRecord(ctx context.Context, employeeID string, month string) (payroll.SalaryRecordResponse, error) {
	m, err := payroll.ParseMonth(month)
	if err != nil {
		return payroll.SalaryRecordResponse{}, err
	}

	rec, err := s.repos.Salaries.GetByEmployeeMonth(ctx, employeeID, m)
	if err != nil {
		return payroll.SalaryRecordResponse{}, err
	}
	return payroll.ToSalaryRecordResponse(rec, nil), nil
}

func (s *PayrollServiceImpl) ListRecords(ctx context.Context, month string) ([]payroll.SalaryRecordResponse, error) {
	m, err := payroll.ParseMonth(month)
	if err != nil {
		return nil, err
	}

	records, err := s.repos.Salaries.ListByMonth(ctx, m)
	if err != nil {
		return nil, err
	}

	resp := make([]payroll.SalaryRecordResponse, 0, len(records))
	for _, rec := range records {
		resp = append(resp, payroll.ToSalaryRecordResponse(rec, nil))
	}
	return resp, nil
}

// ========== DAILY STATUS ==========

func (s *PayrollServiceImpl) DailyStatus(ctx context.Context, employeeID string, month string) (payroll.MonthlyStatusResponse, error) {
	m, err := payroll.ParseMonth(month)
	if err != nil {
		return payroll.MonthlyStatusResponse{}, err
	}

	emp, err := s.repos.Employees.GetByID(ctx, employeeID)
	if err != nil {
		return payroll.MonthlyStatusResponse{}, err
	}

	sheet, err := s.loadSheet(ctx, emp, m, s.policy)
	if err != nil {
		return payroll.MonthlyStatusResponse{}, err
	}

	resp := payroll.MonthlyStatusResponse{
		EmployeeID: emp.ID,
		Month:      m.String(),
		Days:       make([]payroll.DailyStatusResponse, 0, len(sheet.Days)),
	}
	for _, v := range sheet.Days {
		resp.Days = append(resp.Days, toDailyStatusResponse(v))
	}
	return resp, nil
}

// loadSheet reads the month plus its two boundary days and evaluates it.
func (s *PayrollServiceImpl) loadSheet(ctx context.Context, emp employee.Employee, month payroll.Month, policy payroll.Policy) (MonthSheet, error) {
	rows, err := s.repos.Attendance.ListByEmployeeRange(ctx, emp.ID, month.Start().AddDate(0, 0, -1), month.End().AddDate(0, 0, 1))
	if err != nil {
		return MonthSheet{}, fmt.Errorf("failed to load attendance: %w", err)
	}

	sandwich, err := s.repos.Calendar.ListSandwichDates(ctx, month.Start(), month.End())
	if err != nil {
		return MonthSheet{}, fmt.Errorf("failed to load sandwich dates: %w", err)
	}

	return BuildMonthSheet(emp, month, rows, sandwich, policy), nil
}

func toDailyStatusResponse(v DayVerdict) payroll.DailyStatusResponse {
	resp := payroll.DailyStatusResponse{
		Date:                  v.Day.Key(),
		Weekday:               v.Day.Date.Weekday().String(),
		Status:                string(v.Day.Status),
		Label:                 v.Label,
		EffectiveHours:        v.Hours,
		LunchDeductionMinutes: v.LunchMinutes,
		SandwichDate:          v.SandwichDate,
	}
	if v.Day.PunchIn != nil {
		str := v.Day.PunchIn.String()
		resp.PunchIn = &str
	}
	if v.Day.PunchOut != nil {
		str := v.Day.PunchOut.String()
		resp.PunchOut = &str
	}
	return resp
}
