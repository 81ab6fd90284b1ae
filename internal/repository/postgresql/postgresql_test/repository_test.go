package postgresql_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/factory-payroll/internal/domain/attendance"
	"github.com/cmlabs-hris/factory-payroll/internal/domain/employee"
	"github.com/cmlabs-hris/factory-payroll/internal/domain/leave"
	"github.com/cmlabs-hris/factory-payroll/internal/domain/payroll"
	"github.com/cmlabs-hris/factory-payroll/internal/pkg/lock"
	"github.com/cmlabs-hris/factory-payroll/internal/repository/postgresql"
	payrollsvc "github.com/cmlabs-hris/factory-payroll/internal/service/payroll"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var june = payroll.Month{Year: 2024, Month: time.June}

func juneDay(day int) time.Time {
	return time.Date(2024, time.June, day, 0, 0, 0, 0, time.UTC)
}

func setupTest(t *testing.T) (*TestDatabaseSetup, context.Context) {
	t.Helper()
	setup := NewTestDatabase(t)
	ctx := context.Background()
	require.NoError(t, setup.TruncateAllTables(ctx))
	return setup, ctx
}

func createTestEmployee(t *testing.T, ctx context.Context, setup *TestDatabaseSetup, code, wageType, status string) string {
	t.Helper()
	id := uuid.Must(uuid.NewV7()).String()
	_, err := setup.DB.Exec(ctx, `
		INSERT INTO employees (id, employee_code, full_name, wage_type, base_salary, allotted_hours,
			paid_sunday_allowance, pay_sunday, department, supervisor_name, employment_status)
		VALUES ($1, $2, $3, $4, 30000, 9, 1, TRUE, 'Assembly', 'R. Mehta', $5)
	`, id, code, "Worker "+code, wageType, status)
	require.NoError(t, err)
	return id
}

func insertAttendance(t *testing.T, ctx context.Context, setup *TestDatabaseSetup, employeeID string, date time.Time, status string, in, out *string) {
	t.Helper()
	_, err := setup.DB.Exec(ctx, `
		INSERT INTO attendances (employee_id, date, status, punch_in, punch_out)
		VALUES ($1, $2, $3, $4::time, $5::time)
	`, employeeID, date, status, in, out)
	require.NoError(t, err)
}

func strPtr(s string) *string {
	return &s
}

// ===== EMPLOYEES =====

func TestEmployeeRepository_GetByID(t *testing.T) {
	setup, ctx := setupTest(t)
	repo := postgresql.NewEmployeeRepository(setup.DB)
	id := createTestEmployee(t, ctx, setup, "EMP-001", "Dihadi", "active")

	emp, err := repo.GetByID(ctx, id)

	require.NoError(t, err)
	assert.Equal(t, id, emp.ID)
	assert.Equal(t, employee.WageTypeDihadi, emp.WageType)
	assert.True(t, decimal.NewFromInt(30000).Equal(emp.BaseSalary))
	require.NotNil(t, emp.AllottedHours)
	assert.True(t, decimal.NewFromInt(9).Equal(*emp.AllottedHours))
	assert.Equal(t, 1, emp.PaidSundayAllowance)
	assert.True(t, emp.PaySunday)
	assert.Equal(t, "R. Mehta", emp.SupervisorName)
	assert.Nil(t, emp.DateOfJoining)

	_, err = repo.GetByID(ctx, uuid.Must(uuid.NewV7()).String())
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestEmployeeRepository_ListActive(t *testing.T) {
	setup, ctx := setupTest(t)
	repo := postgresql.NewEmployeeRepository(setup.DB)
	createTestEmployee(t, ctx, setup, "EMP-002", "monthly", "active")
	createTestEmployee(t, ctx, setup, "EMP-001", "monthly", "active")
	createTestEmployee(t, ctx, setup, "EMP-003", "monthly", "resigned")

	employees, err := repo.ListActive(ctx)

	require.NoError(t, err)
	require.Len(t, employees, 2)
	assert.Equal(t, "EMP-001", employees[0].EmployeeCode)
	assert.Equal(t, "EMP-002", employees[1].EmployeeCode)
}

// ===== ATTENDANCE =====

func TestAttendanceRepository_ListByEmployeeRange(t *testing.T) {
	setup, ctx := setupTest(t)
	repo := postgresql.NewAttendanceRepository(setup.DB)
	id := createTestEmployee(t, ctx, setup, "EMP-001", "monthly", "active")
	insertAttendance(t, ctx, setup, id, juneDay(3), "Present", strPtr("09:02:30"), strPtr("18:00"))
	insertAttendance(t, ctx, setup, id, juneDay(4), "one punch only", strPtr("09:00"), nil)
	insertAttendance(t, ctx, setup, id, juneDay(10), "absent", nil, nil)

	days, err := repo.ListByEmployeeRange(ctx, id, juneDay(3), juneDay(4))

	require.NoError(t, err)
	require.Len(t, days, 2)
	assert.True(t, days[0].Date.Equal(juneDay(3)))
	assert.Equal(t, attendance.StatusPresent, days[0].Status)
	require.NotNil(t, days[0].PunchIn)
	assert.Equal(t, "09:02", days[0].PunchIn.String())
	assert.Equal(t, "18:00", days[0].PunchOut.String())
	assert.Equal(t, attendance.StatusOnePunch, days[1].Status)
	assert.Nil(t, days[1].PunchOut)
}

// ===== LEAVE LEDGER =====

func TestLeaveRepository_SundayCredits(t *testing.T) {
	setup, ctx := setupTest(t)
	repo := postgresql.NewLeaveRepository(setup.DB)
	id := createTestEmployee(t, ctx, setup, "EMP-001", "monthly", "active")

	exists, err := repo.HasSundayCredit(ctx, id, juneDay(9))
	require.NoError(t, err)
	assert.False(t, exists)

	entry, err := repo.InsertSundayCredit(ctx, leave.NewSundayCredit(id, juneDay(9)))
	require.NoError(t, err)
	assert.NotEmpty(t, entry.ID)
	assert.Equal(t, leave.RemarkSundayCredit, entry.Remark)
	assert.True(t, entry.Date.Equal(juneDay(9)))

	exists, err = repo.HasSundayCredit(ctx, id, juneDay(9))
	require.NoError(t, err)
	assert.True(t, exists)

	_, err = repo.InsertSundayCredit(ctx, leave.NewSundayCredit(id, juneDay(9)))
	assert.Error(t, err, "one credit per employee and date")
}

func TestLeaveRepository_SumLeaveTaken(t *testing.T) {
	setup, ctx := setupTest(t)
	repo := postgresql.NewLeaveRepository(setup.DB)
	id := createTestEmployee(t, ctx, setup, "EMP-001", "monthly", "active")
	_, err := setup.DB.Exec(ctx, `
		INSERT INTO leave_ledger (id, employee_id, date, days, remark) VALUES
			($1, $4, '2024-06-05', 1.5, 'Casual leave'),
			($2, $4, '2024-07-01', 1, 'Casual leave'),
			($3, $4, '2024-06-09', 1, 'Sunday Credit')
	`, uuid.Must(uuid.NewV7()), uuid.Must(uuid.NewV7()), uuid.Must(uuid.NewV7()), id)
	require.NoError(t, err)

	total, err := repo.SumLeaveTaken(ctx, id, june.Start(), june.End())

	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("1.5").Equal(total), "got %s", total)
}

// ===== SALARY RECORDS =====

func TestSalaryRepository_Upsert(t *testing.T) {
	setup, ctx := setupTest(t)
	repo := postgresql.NewSalaryRepository(setup.DB)
	id := createTestEmployee(t, ctx, setup, "EMP-001", "monthly", "active")

	first, err := repo.Upsert(ctx, payroll.SalaryRecord{
		EmployeeID: id, Month: june, Basis: payroll.BasisMonthly,
		Gross: decimal.NewFromInt(30000), Deduction: decimal.NewFromInt(2500), Net: decimal.NewFromInt(27500),
	})
	require.NoError(t, err)
	assert.Equal(t, june, first.Month)

	second, err := repo.Upsert(ctx, payroll.SalaryRecord{
		EmployeeID: id, Month: june, Basis: payroll.BasisMonthly,
		Gross: decimal.NewFromInt(30000), Deduction: decimal.NewFromInt(1000), Net: decimal.NewFromInt(29000),
	})
	require.NoError(t, err)
	assert.Equal(t, first.CreatedAt, second.CreatedAt)

	got, err := repo.GetByEmployeeMonth(ctx, id, june)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(29000).Equal(got.Net))

	records, err := repo.ListByMonth(ctx, june)
	require.NoError(t, err)
	assert.Len(t, records, 1)

	_, err = repo.GetByEmployeeMonth(ctx, id, june.Next())
	assert.ErrorIs(t, err, payroll.ErrSalaryRecordNotFound)
}

// ===== LEDGERS =====

func TestLedgerRepository_Sums(t *testing.T) {
	setup, ctx := setupTest(t)
	repo := postgresql.NewLedgerRepository(setup.DB)
	id := createTestEmployee(t, ctx, setup, "EMP-001", "monthly", "active")
	_, err := setup.DB.Exec(ctx, `
		INSERT INTO advance_ledger (id, employee_id, date, amount) VALUES
			($1, $3, '2024-06-10', 500.25), ($2, $3, '2024-05-31', 999)
	`, uuid.Must(uuid.NewV7()), uuid.Must(uuid.NewV7()), id)
	require.NoError(t, err)
	_, err = setup.DB.Exec(ctx, `
		INSERT INTO night_shift_ledger (id, employee_id, date, nights) VALUES
			($1, $3, '2024-06-10', 1), ($2, $3, '2024-06-30', 2)
	`, uuid.Must(uuid.NewV7()), uuid.Must(uuid.NewV7()), id)
	require.NoError(t, err)

	advances, err := repo.SumAdvances(ctx, id, june.Start(), june.End())
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("500.25").Equal(advances))

	nights, err := repo.SumNightShifts(ctx, id, june.Start(), june.End())
	require.NoError(t, err)
	assert.Equal(t, 3, nights)
}

// ===== TRANSACTIONS =====

func TestTransactor_RollsBackOnError(t *testing.T) {
	setup, ctx := setupTest(t)
	leaveRepo := postgresql.NewLeaveRepository(setup.DB)
	id := createTestEmployee(t, ctx, setup, "EMP-001", "monthly", "active")
	boom := errors.New("boom")

	err := postgresql.NewTransactor(setup.DB).WithinTransaction(ctx, func(txCtx context.Context) error {
		if _, err := leaveRepo.InsertSundayCredit(txCtx, leave.NewSundayCredit(id, juneDay(9))); err != nil {
			return err
		}
		return boom
	})

	assert.ErrorIs(t, err, boom)
	exists, err := leaveRepo.HasSundayCredit(ctx, id, juneDay(9))
	require.NoError(t, err)
	assert.False(t, exists)
}

// ===== END TO END =====

func TestPayrollService_ComputeAgainstPostgres(t *testing.T) {
	setup, ctx := setupTest(t)
	id := createTestEmployee(t, ctx, setup, "EMP-001", "monthly", "active")
	_, err := setup.DB.Exec(ctx, `UPDATE employees SET paid_sunday_allowance = 0, pay_sunday = FALSE, department = 'Packing' WHERE id = $1`, id)
	require.NoError(t, err)

	// Monday to Saturday 09:00-18:00 plus both boundary days; June 9 worked.
	for d := june.Start().AddDate(0, 0, -1); !d.After(june.End().AddDate(0, 0, 1)); d = d.AddDate(0, 0, 1) {
		switch {
		case d.Equal(juneDay(4)):
			insertAttendance(t, ctx, setup, id, d, "absent", nil, nil)
		case d.Weekday() == time.Sunday && !d.Equal(juneDay(9)):
			continue
		default:
			insertAttendance(t, ctx, setup, id, d, "present", strPtr("09:00"), strPtr("18:00"))
		}
	}

	svc := payrollsvc.NewPayrollService(
		postgresql.NewTransactor(setup.DB),
		payrollsvc.Repositories{
			Employees:  postgresql.NewEmployeeRepository(setup.DB),
			Attendance: postgresql.NewAttendanceRepository(setup.DB),
			Calendar:   postgresql.NewCalendarRepository(setup.DB),
			Leave:      postgresql.NewLeaveRepository(setup.DB),
			Salaries:   postgresql.NewSalaryRepository(setup.DB),
			Ledger:     postgresql.NewLedgerRepository(setup.DB),
		},
		lock.NewLocalLocker(),
		payrollsvc.Options{Policy: payroll.Policy{SpecialDepartments: []string{"packing"}}},
	)

	for i := 0; i < 2; i++ {
		result, err := svc.Compute(ctx, id, june)
		require.NoError(t, err)
		require.NotNil(t, result)
		assert.True(t, decimal.NewFromInt(1000).Equal(result.Record.Deduction), "got %s", result.Record.Deduction)
		assert.True(t, decimal.NewFromInt(29000).Equal(result.Record.Net), "got %s", result.Record.Net)
	}

	var credits int
	err = setup.DB.QueryRow(ctx, `SELECT COUNT(*) FROM leave_ledger WHERE employee_id = $1 AND remark = 'Sunday Credit'`, id).Scan(&credits)
	require.NoError(t, err)
	assert.Equal(t, 1, credits)

	status, err := svc.DailyStatus(ctx, id, "2024-06")
	require.NoError(t, err)
	assert.Equal(t, payrollsvc.LabelLeaveCredited, status.Days[8].Label)
	assert.Equal(t, payrollsvc.LabelAbsent, status.Days[3].Label)
}
