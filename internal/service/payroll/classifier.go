package payroll

import (
	"time"

	"github.com/cmlabs-hris/factory-payroll/internal/domain/attendance"
	"github.com/cmlabs-hris/factory-payroll/internal/domain/calendar"
	"github.com/cmlabs-hris/factory-payroll/internal/domain/employee"
	"github.com/cmlabs-hris/factory-payroll/internal/domain/payroll"
	"github.com/shopspring/decimal"
)

// Day labels shown on the monthly status sheet.
const (
	LabelPaidDueToSunday  = "Paid due to Sunday work"
	LabelAbsentSandwich   = "Absent (Sandwich)"
	LabelAbsentMandatory  = "Absent (Mandatory)"
	LabelLeaveCredited    = "Leave credited"
	LabelWorkedSunday     = "Worked Sunday"
	LabelPaidSunday       = "Paid Sunday"
	LabelAbsentShortHours = "Absent (Short hours)"
	LabelHalfDay          = "Half Day"
	LabelPresent          = "Present"
	LabelAbsent           = "Absent"
	LabelMissingPunch     = "Missing punch"
)

// Effect is what a day contributes to the payroll totals.
type Effect int

const (
	EffectNone Effect = iota
	EffectForgiven
	EffectAbsent
	EffectHalfDay
	EffectExtraPay
	EffectCreditLeave
)

func (e Effect) String() string {
	switch e {
	case EffectForgiven:
		return "forgiven"
	case EffectAbsent:
		return "absent"
	case EffectHalfDay:
		return "half_day"
	case EffectExtraPay:
		return "extra_pay"
	case EffectCreditLeave:
		return "credit_leave"
	default:
		return "none"
	}
}

var (
	shortHoursRatio = decimal.RequireFromString("0.40")
	halfDayRatio    = decimal.RequireFromString("0.85")
	halfDay         = decimal.RequireFromString("0.5")
)

// DayState is the accumulator carried from one day to the next.
type DayState struct {
	MandatoryUsed int
}

// Decision is the verdict for one day.
type Decision struct {
	Label  string
	Effect Effect
	// Unskip lists dates that lose their forgiveness. The walk applies it
	// before any later day is decided.
	Unskip []time.Time
}

// DayVerdict is a decided day together with the figures behind it.
type DayVerdict struct {
	Day          attendance.Day
	Hours        decimal.Decimal
	LunchMinutes int
	SandwichDate bool
	State        DayState // accumulator after this day
	Decision
}

type dayRules struct {
	employee          employee.Employee
	book              DayBook
	sandwich          map[string]bool
	specialSupervisor bool
	specialDepartment bool
}

func (r dayRules) allowanceLeft(state DayState) bool {
	return state.MandatoryUsed < r.employee.PaidSundayAllowance
}

// decide is a pure function of the day, the current skip set and the
// accumulator so far.
func (r dayRules) decide(day attendance.Day, skip SkipSet, state DayState) (Decision, DayState) {
	if skip.Has(day.Date) {
		return Decision{Label: LabelPaidDueToSunday, Effect: EffectForgiven}, state
	}

	hours := dayHours(day, r.employee.WageType)
	present := day.Status.IsPresent()
	previous := day.Date.AddDate(0, 0, -1)
	next := day.Date.AddDate(0, 0, 1)
	prevMissing := r.book.neighborMissing(previous)
	nextMissing := r.book.neighborMissing(next)

	if day.IsSunday() {
		worked := present && day.HasPunches() && hours.IsPositive()

		if r.specialSupervisor {
			switch {
			case !present && prevMissing && nextMissing:
				return Decision{Label: LabelAbsentSandwich, Effect: EffectAbsent}, state
			case worked:
				return Decision{Label: LabelPaidSunday, Effect: EffectExtraPay}, state
			}
			return Decision{Label: day.Status.Label()}, state
		}

		switch {
		case !present && (prevMissing || nextMissing):
			return Decision{Label: LabelAbsentSandwich, Effect: EffectAbsent}, state
		case !r.specialDepartment && !present && r.allowanceLeft(state):
			state.MandatoryUsed++
			return Decision{Label: LabelAbsentMandatory, Effect: EffectAbsent}, state
		case worked:
			return r.decideWorkedSunday(day, skip, state)
		}
		return Decision{Label: day.Status.Label()}, state
	}

	if r.sandwich[day.Key()] {
		if prevMissing || nextMissing {
			return Decision{Label: LabelAbsentSandwich, Effect: EffectAbsent}, state
		}
		// A sandwich date with no missing neighbour is a holiday. It keeps
		// its ordinary label but costs nothing.
		d := r.decideOrdinary(day, hours)
		d.Effect = EffectNone
		return d, state
	}

	return r.decideOrdinary(day, hours), state
}

func (r dayRules) decideWorkedSunday(day attendance.Day, skip SkipSet, state DayState) (Decision, DayState) {
	saturday := day.Date.AddDate(0, 0, -1)
	monday := day.Date.AddDate(0, 0, 1)
	bothSkipped := skip.Has(saturday) && skip.Has(monday)
	neitherSkipped := !skip.Has(saturday) && !skip.Has(monday)

	paidSunday := func() (Decision, DayState) {
		d := Decision{Label: LabelPaidSunday, Effect: EffectExtraPay}
		if skip.Has(monday) {
			d.Unskip = []time.Time{monday}
		}
		return d, state
	}

	switch {
	case r.specialDepartment:
		switch {
		case bothSkipped:
			return Decision{Label: LabelWorkedSunday}, state
		case r.employee.PaySunday && !r.allowanceLeft(state):
			// Cash instead of a credit once the allowance is gone.
			return paidSunday()
		}
		return Decision{Label: LabelLeaveCredited, Effect: EffectCreditLeave}, state
	case r.allowanceLeft(state):
		state.MandatoryUsed++
		return Decision{Label: LabelWorkedSunday, Effect: EffectExtraPay}, state
	case r.employee.PaySunday:
		return paidSunday()
	case neitherSkipped:
		return Decision{Label: LabelLeaveCredited, Effect: EffectCreditLeave}, state
	}
	return Decision{Label: LabelWorkedSunday}, state
}

func (r dayRules) decideOrdinary(day attendance.Day, hours decimal.Decimal) Decision {
	if day.Status.IsPresent() && day.HasPunches() && r.employee.HasAllottedHours() {
		allotted := r.employee.Allotted()
		switch {
		case hours.LessThan(allotted.Mul(shortHoursRatio)):
			return Decision{Label: LabelAbsentShortHours, Effect: EffectAbsent}
		case hours.LessThan(allotted.Mul(halfDayRatio)):
			return Decision{Label: LabelHalfDay, Effect: EffectHalfDay}
		}
		return Decision{Label: LabelPresent}
	}

	switch day.Status {
	case attendance.StatusAbsent:
		return Decision{Label: LabelAbsent, Effect: EffectAbsent}
	case attendance.StatusOnePunch, attendance.StatusMissingPunch:
		return Decision{Label: LabelMissingPunch, Effect: EffectAbsent}
	}
	return Decision{Label: day.Status.Label()}
}

// MonthSheet is the evaluated month of one employee. Both the status sheet
// and the salary computation are read from it.
type MonthSheet struct {
	Employee employee.Employee
	Month    payroll.Month
	// Skip is the skip set as resolved, before any Paid Sunday unskips.
	Skip SkipSet
	Days []DayVerdict
}

// BuildMonthSheet evaluates every day of the month in date order. rows may
// include the last day of the previous month and the first day of the next.
func BuildMonthSheet(emp employee.Employee, month payroll.Month, rows []attendance.Day, sandwichDates []calendar.SandwichDate, policy payroll.Policy) MonthSheet {
	book := NewDayBook(rows)
	book.backfill(emp.ID, month.Start().AddDate(0, 0, -1), month.End().AddDate(0, 0, 1))

	sandwich := make(map[string]bool, len(sandwichDates))
	for _, sd := range sandwichDates {
		sandwich[attendance.DateKey(sd.Date)] = true
	}

	rules := dayRules{
		employee:          emp,
		book:              book,
		sandwich:          sandwich,
		specialSupervisor: policy.IsSpecialSupervisor(emp),
		specialDepartment: policy.IsSpecialDepartment(emp.Department),
	}

	resolved := ResolveSkipSet(book, rules.specialSupervisor)
	skip := resolved.clone()
	state := DayState{}

	dates := month.Dates()
	days := make([]DayVerdict, 0, len(dates))
	for _, date := range dates {
		day := book.Day(emp.ID, date)

		var decision Decision
		decision, state = rules.decide(day, skip, state)
		for _, d := range decision.Unskip {
			skip.remove(d)
		}

		verdict := DayVerdict{
			Day:          day,
			Hours:        dayHours(day, emp.WageType),
			SandwichDate: sandwich[day.Key()],
			State:        state,
			Decision:     decision,
		}
		if day.HasPunches() {
			verdict.LunchMinutes = LunchDeduction(*day.PunchIn, *day.PunchOut, emp.WageType)
		}
		days = append(days, verdict)
	}

	return MonthSheet{
		Employee: emp,
		Month:    month,
		Skip:     resolved,
		Days:     days,
	}
}

// Tally is the attendance side of a monthly salary.
type Tally struct {
	AbsentDays    decimal.Decimal
	HalfDayDeduct decimal.Decimal
	PaidSundays   int
	CreditDates   []time.Time
}

func (s MonthSheet) Tally() Tally {
	t := Tally{AbsentDays: decimal.Zero, HalfDayDeduct: decimal.Zero}
	for _, v := range s.Days {
		switch v.Effect {
		case EffectAbsent:
			t.AbsentDays = t.AbsentDays.Add(decimal.NewFromInt(1))
		case EffectHalfDay:
			t.HalfDayDeduct = t.HalfDayDeduct.Add(halfDay)
		case EffectExtraPay:
			t.PaidSundays++
		case EffectCreditLeave:
			t.CreditDates = append(t.CreditDates, v.Day.Date)
		}
	}
	return t
}
