package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/factory-payroll/internal/domain/payroll"
	"github.com/cmlabs-hris/factory-payroll/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type salaryRepository struct {
	db *database.DB
}

func NewSalaryRepository(db *database.DB) payroll.SalaryRepository {
	return &salaryRepository{db: db}
}

const salaryColumns = `employee_id, month, basis, gross, deduction, net, created_at, updated_at`

func scanSalaryRecord(row pgx.Row) (payroll.SalaryRecord, error) {
	var (
		rec   payroll.SalaryRecord
		month time.Time
	)
	err := row.Scan(
		&rec.EmployeeID, &month, &rec.Basis, &rec.Gross, &rec.Deduction, &rec.Net, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		return payroll.SalaryRecord{}, err
	}
	rec.Month = payroll.MonthOf(month)
	return rec, nil
}

// Upsert implements payroll.SalaryRepository.
func (r *salaryRepository) Upsert(ctx context.Context, record payroll.SalaryRecord) (payroll.SalaryRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO salary_records (employee_id, month, basis, gross, deduction, net, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		ON CONFLICT (employee_id, month) DO UPDATE SET
			basis = EXCLUDED.basis,
			gross = EXCLUDED.gross,
			deduction = EXCLUDED.deduction,
			net = EXCLUDED.net,
			updated_at = NOW()
		RETURNING ` + salaryColumns

	rec, err := scanSalaryRecord(q.QueryRow(ctx, query,
		record.EmployeeID, record.Month.Start(), record.Basis, record.Gross, record.Deduction, record.Net,
	))
	if err != nil {
		return payroll.SalaryRecord{}, fmt.Errorf("failed to upsert salary record: %w", err)
	}

	return rec, nil
}

// GetByEmployeeMonth implements payroll.SalaryRepository.
func (r *salaryRepository) GetByEmployeeMonth(ctx context.Context, employeeID string, month payroll.Month) (payroll.SalaryRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + salaryColumns + `
		FROM salary_records
		WHERE employee_id = $1 AND month = $2
	`

	rec, err := scanSalaryRecord(q.QueryRow(ctx, query, employeeID, month.Start()))
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.SalaryRecord{}, payroll.ErrSalaryRecordNotFound
		}
		return payroll.SalaryRecord{}, fmt.Errorf("failed to get salary record: %w", err)
	}

	return rec, nil
}

// ListByMonth implements payroll.SalaryRepository.
func (r *salaryRepository) ListByMonth(ctx context.Context, month payroll.Month) ([]payroll.SalaryRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + salaryColumns + `
		FROM salary_records
		WHERE month = $1
		ORDER BY employee_id
	`

	rows, err := q.Query(ctx, query, month.Start())
	if err != nil {
		return nil, fmt.Errorf("failed to list salary records: %w", err)
	}
	defer rows.Close()

	records := make([]payroll.SalaryRecord, 0)
	for rows.Next() {
		rec, err := scanSalaryRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan salary record: %w", err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating salary records: %w", err)
	}

	return records, nil
}
