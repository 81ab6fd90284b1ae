package payroll

import (
	"sort"
	"time"

	"github.com/cmlabs-hris/factory-payroll/internal/domain/attendance"
)

// SkipSet holds the dates forgiven because of work on a neighbouring Sunday.
type SkipSet map[string]struct{}

func (s SkipSet) Has(date time.Time) bool {
	_, ok := s[attendance.DateKey(date)]
	return ok
}

func (s SkipSet) add(date time.Time) {
	s[attendance.DateKey(date)] = struct{}{}
}

func (s SkipSet) remove(date time.Time) {
	delete(s, attendance.DateKey(date))
}

func (s SkipSet) clone() SkipSet {
	out := make(SkipSet, len(s))
	for k := range s {
		out[k] = struct{}{}
	}
	return out
}

// Dates returns the members in ascending order.
func (s SkipSet) Dates() []string {
	out := make([]string, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// DayBook indexes an employee's attendance rows by date.
type DayBook map[string]attendance.Day

// NewDayBook indexes rows as they are. Use backfill to add synthesized absences.
func NewDayBook(rows []attendance.Day) DayBook {
	book := make(DayBook, len(rows))
	for _, row := range rows {
		row.Date = attendance.DateOnly(row.Date)
		book[row.Key()] = row
	}
	return book
}

// backfill adds an absent row for every date in [from, to] that has none.
func (b DayBook) backfill(employeeID string, from, to time.Time) {
	for d := attendance.DateOnly(from); !d.After(to); d = d.AddDate(0, 0, 1) {
		if _, ok := b[attendance.DateKey(d)]; !ok {
			b[attendance.DateKey(d)] = attendance.AbsentDay(employeeID, d)
		}
	}
}

// Day returns the row for date, or an absent row when there is none.
func (b DayBook) Day(employeeID string, date time.Time) attendance.Day {
	if day, ok := b[attendance.DateKey(date)]; ok {
		return day
	}
	return attendance.AbsentDay(employeeID, date)
}

// neighborMissing reports whether date holds an absent or one-punch row.
// A date with no row at all counts as present.
func (b DayBook) neighborMissing(date time.Time) bool {
	day, ok := b[attendance.DateKey(date)]
	return ok && day.Status.IsMissing()
}

// ResolveSkipSet forgives the Saturday and the Monday around every worked
// Sunday when that neighbour is missing. The sides are independent. Special
// supervisors get no forgiveness here; their Sundays are gated by both
// neighbours instead.
func ResolveSkipSet(book DayBook, specialSupervisor bool) SkipSet {
	skip := SkipSet{}
	if specialSupervisor {
		return skip
	}

	for _, day := range book {
		if !day.IsSunday() || !day.Status.IsPresent() {
			continue
		}
		saturday := day.Date.AddDate(0, 0, -1)
		monday := day.Date.AddDate(0, 0, 1)
		if book.neighborMissing(saturday) {
			skip.add(saturday)
		}
		if book.neighborMissing(monday) {
			skip.add(monday)
		}
	}

	return skip
}
