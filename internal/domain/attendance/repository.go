package attendance

import (
	"context"
	"time"
)

// AttendanceRepository reads punch-clock rows produced by the ingestion process.
type AttendanceRepository interface {
	// ListByEmployeeRange returns rows with from <= date <= to ordered by date.
	// Dates without a row are simply missing from the result.
	ListByEmployeeRange(ctx context.Context, employeeID string, from, to time.Time) ([]Day, error)
}
