package attendance

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the key format used for attendance dates.
const DateLayout = "2006-01-02"

// Status is the raw punch-clock status written by the ingestion process.
type Status string

const (
	StatusPresent  Status = "present"
	StatusAbsent   Status = "absent"
	StatusOnePunch Status = "one punch only"
	// StatusMissingPunch is written by older imports for what is now "one punch only".
	StatusMissingPunch Status = "missing punch"
)

// ParseStatus normalizes a stored status value.
func ParseStatus(s string) Status {
	return Status(strings.ToLower(strings.TrimSpace(s)))
}

func (s Status) IsPresent() bool {
	return s == StatusPresent
}

// IsMissing reports whether the day counts as not worked for adjacency rules.
func (s Status) IsMissing() bool {
	return s == StatusAbsent || s == StatusOnePunch || s == StatusMissingPunch
}

// Label returns the status with its first letter upper-cased, e.g. "One punch only".
func (s Status) Label() string {
	if s == "" {
		return ""
	}
	return strings.ToUpper(string(s[:1])) + string(s[1:])
}

// TimeOfDay is a wall-clock time expressed in minutes after midnight.
type TimeOfDay int

// Clock builds a TimeOfDay from hour and minute.
func Clock(hour, minute int) TimeOfDay {
	return TimeOfDay(hour*60 + minute)
}

// ParseTimeOfDay accepts "15:04" and "15:04:05".
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"15:04", "15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return Clock(t.Hour(), t.Minute()), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidPunch, s)
}

func (t TimeOfDay) Minutes() int {
	return int(t)
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(t)/60, int(t)%60)
}

// Day is one attendance row for an employee.
type Day struct {
	EmployeeID string
	Date       time.Time
	Status     Status
	PunchIn    *TimeOfDay
	PunchOut   *TimeOfDay
}

// AbsentDay is the record synthesized for a calendar day with no row.
func AbsentDay(employeeID string, date time.Time) Day {
	return Day{
		EmployeeID: employeeID,
		Date:       DateOnly(date),
		Status:     StatusAbsent,
	}
}

// HasPunches reports whether both punches are recorded.
func (d Day) HasPunches() bool {
	return d.PunchIn != nil && d.PunchOut != nil
}

func (d Day) Key() string {
	return DateKey(d.Date)
}

func (d Day) IsSunday() bool {
	return d.Date.Weekday() == time.Sunday
}

// DateOnly drops the clock part and pins the date to UTC.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func DateKey(t time.Time) string {
	return t.Format(DateLayout)
}
