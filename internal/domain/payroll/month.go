package payroll

import (
	"fmt"
	"time"
)

// MonthLayout is the wire format of a payroll month.
const MonthLayout = "2006-01"

// Month is a calendar month in UTC.
type Month struct {
	Year  int
	Month time.Month
}

func ParseMonth(s string) (Month, error) {
	t, err := time.Parse(MonthLayout, s)
	if err != nil {
		return Month{}, fmt.Errorf("%w: %q", ErrInvalidMonth, s)
	}
	return MonthOf(t), nil
}

func MonthOf(t time.Time) Month {
	return Month{Year: t.Year(), Month: t.Month()}
}

// Start is the first day of the month.
func (m Month) Start() time.Time {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC)
}

// End is the last day of the month.
func (m Month) End() time.Time {
	return m.Next().Start().AddDate(0, 0, -1)
}

func (m Month) Next() Month {
	return MonthOf(m.Start().AddDate(0, 1, 0))
}

func (m Month) Prev() Month {
	return MonthOf(m.Start().AddDate(0, -1, 0))
}

// Days is the number of calendar days in the month.
func (m Month) Days() int {
	return m.End().Day()
}

// Dates lists every day of the month in order.
func (m Month) Dates() []time.Time {
	dates := make([]time.Time, 0, 31)
	for d := m.Start(); d.Month() == m.Month; d = d.AddDate(0, 0, 1) {
		dates = append(dates, d)
	}
	return dates
}

func (m Month) String() string {
	return m.Start().Format(MonthLayout)
}
