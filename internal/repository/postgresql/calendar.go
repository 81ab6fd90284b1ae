package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/factory-payroll/internal/domain/attendance"
	"github.com/cmlabs-hris/factory-payroll/internal/domain/calendar"
	"github.com/cmlabs-hris/factory-payroll/internal/pkg/database"
)

type calendarRepositoryImpl struct {
	db *database.DB
}

func NewCalendarRepository(db *database.DB) calendar.CalendarRepository {
	return &calendarRepositoryImpl{db: db}
}

// ListSandwichDates implements calendar.CalendarRepository.
func (r *calendarRepositoryImpl) ListSandwichDates(ctx context.Context, from, to time.Time) ([]calendar.SandwichDate, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT date, description
		FROM sandwich_dates
		WHERE date BETWEEN $1 AND $2
		ORDER BY date
	`

	rows, err := q.Query(ctx, query, attendance.DateOnly(from), attendance.DateOnly(to))
	if err != nil {
		return nil, fmt.Errorf("failed to list sandwich dates: %w", err)
	}
	defer rows.Close()

	var dates []calendar.SandwichDate
	for rows.Next() {
		var sd calendar.SandwichDate
		if err := rows.Scan(&sd.Date, &sd.Description); err != nil {
			return nil, fmt.Errorf("failed to scan sandwich date: %w", err)
		}
		sd.Date = attendance.DateOnly(sd.Date)
		dates = append(dates, sd)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sandwich dates: %w", err)
	}

	return dates, nil
}
