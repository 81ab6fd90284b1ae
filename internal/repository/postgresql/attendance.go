package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/factory-payroll/internal/domain/attendance"
	"github.com/cmlabs-hris/factory-payroll/internal/pkg/database"
	"github.com/jackc/pgx/v5/pgtype"
)

const microsecondsPerMinute = int64(time.Minute / time.Microsecond)

type attendanceRepositoryImpl struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepositoryImpl{db: db}
}

// ListByEmployeeRange implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) ListByEmployeeRange(ctx context.Context, employeeID string, from, to time.Time) ([]attendance.Day, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT employee_id, date, status, punch_in, punch_out
		FROM attendances
		WHERE employee_id = $1 AND date BETWEEN $2 AND $3
		ORDER BY date
	`

	rows, err := q.Query(ctx, query, employeeID, attendance.DateOnly(from), attendance.DateOnly(to))
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}
	defer rows.Close()

	var days []attendance.Day
	for rows.Next() {
		var (
			day               attendance.Day
			status            string
			punchIn, punchOut pgtype.Time
		)
		if err := rows.Scan(&day.EmployeeID, &day.Date, &status, &punchIn, &punchOut); err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		day.Date = attendance.DateOnly(day.Date)
		day.Status = attendance.ParseStatus(status)
		day.PunchIn = toTimeOfDay(punchIn)
		day.PunchOut = toTimeOfDay(punchOut)
		days = append(days, day)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating attendance: %w", err)
	}

	return days, nil
}

// toTimeOfDay drops seconds; punches are recorded to the minute.
func toTimeOfDay(t pgtype.Time) *attendance.TimeOfDay {
	if !t.Valid {
		return nil
	}
	tod := attendance.TimeOfDay(t.Microseconds / microsecondsPerMinute)
	return &tod
}
