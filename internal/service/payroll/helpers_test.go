package payroll

import (
	"time"

	"github.com/cmlabs-hris/factory-payroll/internal/domain/attendance"
	"github.com/cmlabs-hris/factory-payroll/internal/domain/employee"
	"github.com/cmlabs-hris/factory-payroll/internal/domain/payroll"
	"github.com/shopspring/decimal"
)

// June 2024 has 30 days and starts on a Saturday. Sundays: 2, 9, 16, 23, 30.
var june = payroll.Month{Year: 2024, Month: time.June}

func juneDay(day int) time.Time {
	return time.Date(2024, time.June, day, 0, 0, 0, 0, time.UTC)
}

func clock(s string) attendance.TimeOfDay {
	t, err := attendance.ParseTimeOfDay(s)
	if err != nil {
		panic(err)
	}
	return t
}

func punchPtr(s string) *attendance.TimeOfDay {
	t := clock(s)
	return &t
}

func presentDay(employeeID string, date time.Time, in, out string) attendance.Day {
	return attendance.Day{
		EmployeeID: employeeID,
		Date:       date,
		Status:     attendance.StatusPresent,
		PunchIn:    punchPtr(in),
		PunchOut:   punchPtr(out),
	}
}

func absentDay(employeeID string, date time.Time) attendance.Day {
	return attendance.AbsentDay(employeeID, date)
}

func onePunchDay(employeeID string, date time.Time, in string) attendance.Day {
	return attendance.Day{
		EmployeeID: employeeID,
		Date:       date,
		Status:     attendance.StatusOnePunch,
		PunchIn:    punchPtr(in),
	}
}

// workMonth returns rows for the month and both boundary days: Monday to
// Saturday worked 09:00-18:00 (8h effective), Sundays absent. overrides
// replace the row on the same date.
func workMonth(employeeID string, month payroll.Month, overrides ...attendance.Day) []attendance.Day {
	byDate := make(map[string]attendance.Day, len(overrides))
	for _, o := range overrides {
		byDate[o.Key()] = o
	}

	var rows []attendance.Day
	for d := month.Start().AddDate(0, 0, -1); !d.After(month.End().AddDate(0, 0, 1)); d = d.AddDate(0, 0, 1) {
		if o, ok := byDate[attendance.DateKey(d)]; ok {
			rows = append(rows, o)
			continue
		}
		if d.Weekday() == time.Sunday {
			rows = append(rows, absentDay(employeeID, d))
			continue
		}
		rows = append(rows, presentDay(employeeID, d, "09:00", "18:00"))
	}
	return rows
}

func monthlyEmployee(id string) employee.Employee {
	allotted := decimal.NewFromInt(9)
	return employee.Employee{
		ID:               id,
		EmployeeCode:     "EMP-" + id,
		FullName:         "Worker " + id,
		WageType:         employee.WageTypeMonthly,
		BaseSalary:       decimal.NewFromInt(30000),
		AllottedHours:    &allotted,
		Department:       "Assembly",
		SupervisorName:   "R. Mehta",
		EmploymentStatus: employee.EmploymentStatusActive,
	}
}

func verdictOn(sheet MonthSheet, date time.Time) DayVerdict {
	for _, v := range sheet.Days {
		if v.Day.Date.Equal(date) {
			return v
		}
	}
	panic("no verdict for " + attendance.DateKey(date))
}
