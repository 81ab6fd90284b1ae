package calendar

import (
	"context"
	"time"
)

type CalendarRepository interface {
	// ListSandwichDates returns sandwich dates with from <= date <= to.
	ListSandwichDates(ctx context.Context, from, to time.Time) ([]SandwichDate, error)
}
