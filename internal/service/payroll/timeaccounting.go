package payroll

import (
	"github.com/cmlabs-hris/factory-payroll/internal/domain/attendance"
	"github.com/cmlabs-hris/factory-payroll/internal/domain/employee"
	"github.com/shopspring/decimal"
)

const (
	maxEffectiveMinutes       = 660 // 11 hours
	lateArrivalPenaltyMinutes = 60
)

var (
	// Punches inside these bands are read as the 09:00-21:00 shift.
	canonicalIn     = attendance.Clock(9, 0)
	canonicalInMax  = attendance.Clock(9, 10)
	canonicalOut    = attendance.Clock(21, 0)
	canonicalOutMax = attendance.Clock(21, 10)

	lateArrivalAfter = attendance.Clock(9, 15)

	minutesPerHour = decimal.NewFromInt(60)
)

// lunchTier is one step of a lunch schedule. A tier applies while the
// measured value (span or punch-out clock) is at most upTo.
type lunchTier struct {
	upTo    int
	minutes int
}

var (
	// monthly: measured on the worked span.
	monthlyLunchTiers = []lunchTier{
		{upTo: 4 * 60, minutes: 0},
		{upTo: 8 * 60, minutes: 30},
		{upTo: 24 * 60, minutes: 60},
	}
	// dihadi: measured on the punch-out clock.
	dihadiLunchTiers = []lunchTier{
		{upTo: attendance.Clock(13, 10).Minutes(), minutes: 0},
		{upTo: attendance.Clock(18, 10).Minutes(), minutes: 30},
		{upTo: 24 * 60, minutes: 60},
	}
)

func canonicalWindow(punchIn, punchOut attendance.TimeOfDay) (attendance.TimeOfDay, attendance.TimeOfDay) {
	if punchIn >= canonicalIn && punchIn <= canonicalInMax &&
		punchOut >= canonicalOut && punchOut <= canonicalOutMax {
		return canonicalIn, canonicalOut
	}
	return punchIn, punchOut
}

func lunchMeasure(punchIn, punchOut attendance.TimeOfDay, wageType employee.WageType) (int, []lunchTier) {
	if wageType == employee.WageTypeDihadi {
		return punchOut.Minutes(), dihadiLunchTiers
	}
	return punchOut.Minutes() - punchIn.Minutes(), monthlyLunchTiers
}

// LunchDeduction returns the lunch break in minutes for a day, by tier.
func LunchDeduction(punchIn, punchOut attendance.TimeOfDay, wageType employee.WageType) int {
	punchIn, punchOut = canonicalWindow(punchIn, punchOut)
	measure, tiers := lunchMeasure(punchIn, punchOut, wageType)
	for _, tier := range tiers {
		if measure <= tier.upTo {
			return tier.minutes
		}
	}
	return tiers[len(tiers)-1].minutes
}

// EffectiveMinutes converts one day's punches into paid minutes in [0, 660]:
// the span less the lunch tier, less the late penalty for dihadi.
func EffectiveMinutes(punchIn, punchOut attendance.TimeOfDay, wageType employee.WageType) int {
	punchIn, punchOut = canonicalWindow(punchIn, punchOut)

	minutes := punchOut.Minutes() - punchIn.Minutes()
	minutes -= LunchDeduction(punchIn, punchOut, wageType)
	if wageType == employee.WageTypeDihadi && punchIn > lateArrivalAfter {
		minutes -= lateArrivalPenaltyMinutes
	}

	return max(0, min(minutes, maxEffectiveMinutes))
}

// EffectiveHours is EffectiveMinutes expressed in hours.
func EffectiveHours(punchIn, punchOut attendance.TimeOfDay, wageType employee.WageType) decimal.Decimal {
	return decimal.NewFromInt(int64(EffectiveMinutes(punchIn, punchOut, wageType))).Div(minutesPerHour)
}

// dayHours returns effective hours for a row, zero when a punch is missing.
func dayHours(day attendance.Day, wageType employee.WageType) decimal.Decimal {
	if !day.HasPunches() {
		return decimal.Zero
	}
	return EffectiveHours(*day.PunchIn, *day.PunchOut, wageType)
}
