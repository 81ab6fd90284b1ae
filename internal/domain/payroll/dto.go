package payroll

import (
	"time"

	"github.com/cmlabs-hris/factory-payroll/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type ComputePayrollRequest struct {
	Month       string   `json:"month"`
	EmployeeIDs []string `json:"employee_ids,omitempty"` // Empty = all active employees
}

func (r *ComputePayrollRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Month) {
		errs = append(errs, validator.ValidationError{Field: "month", Message: "is required"})
	} else if _, ok := validator.IsValidMonth(r.Month); !ok {
		errs = append(errs, validator.ValidationError{Field: "month", Message: "must be in YYYY-MM format"})
	}
	for _, id := range r.EmployeeIDs {
		if !validator.IsValidUUID(id) {
			errs = append(errs, validator.ValidationError{Field: "employee_ids", Message: "must contain valid UUIDs"})
			break
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type BreakdownResponse struct {
	DailyRate       decimal.Decimal `json:"daily_rate"`
	HourlyRate      decimal.Decimal `json:"hourly_rate"`
	AbsentDays      decimal.Decimal `json:"absent_days"`
	HalfDayDeduct   decimal.Decimal `json:"half_day_deduct"`
	LeaveTaken      decimal.Decimal `json:"leave_taken"`
	ExtraPay        decimal.Decimal `json:"extra_pay"`
	NightsWorked    int             `json:"nights_worked"`
	Advances        decimal.Decimal `json:"advances"`
	TotalHours      decimal.Decimal `json:"total_hours"`
	CreditedSundays []string        `json:"credited_sundays,omitempty"`
}

type SalaryRecordResponse struct {
	EmployeeID string             `json:"employee_id"`
	Month      string             `json:"month"`
	Basis      string             `json:"basis"`
	Gross      decimal.Decimal    `json:"gross"`
	Deduction  decimal.Decimal    `json:"deduction"`
	Net        decimal.Decimal    `json:"net"`
	UpdatedAt  *string            `json:"updated_at,omitempty"`
	Breakdown  *BreakdownResponse `json:"breakdown,omitempty"`
}

type ComputeFailure struct {
	EmployeeID string `json:"employee_id"`
	Error      string `json:"error"`
}

type ComputePayrollResponse struct {
	Month   string                 `json:"month"`
	Records []SalaryRecordResponse `json:"records"`
	Skipped []string               `json:"skipped,omitempty"` // ids missing from the directory
	Failed  []ComputeFailure       `json:"failed,omitempty"`
}

type DailyStatusResponse struct {
	Date                  string          `json:"date"`
	Weekday               string          `json:"weekday"`
	Status                string          `json:"status"`
	Label                 string          `json:"label"`
	PunchIn               *string         `json:"punch_in,omitempty"`
	PunchOut              *string         `json:"punch_out,omitempty"`
	EffectiveHours        decimal.Decimal `json:"effective_hours"`
	LunchDeductionMinutes int             `json:"lunch_deduction_minutes"`
	SandwichDate          bool            `json:"sandwich_date"`
}

type MonthlyStatusResponse struct {
	EmployeeID string                `json:"employee_id"`
	Month      string                `json:"month"`
	Days       []DailyStatusResponse `json:"days"`
}

func ToSalaryRecordResponse(rec SalaryRecord, breakdown *Breakdown) SalaryRecordResponse {
	resp := SalaryRecordResponse{
		EmployeeID: rec.EmployeeID,
		Month:      rec.Month.String(),
		Basis:      string(rec.Basis),
		Gross:      rec.Gross,
		Deduction:  rec.Deduction,
		Net:        rec.Net,
	}
	if !rec.UpdatedAt.IsZero() {
		str := rec.UpdatedAt.Format(time.RFC3339)
		resp.UpdatedAt = &str
	}
	if breakdown != nil {
		credited := make([]string, 0, len(breakdown.CreditedSundays))
		for _, d := range breakdown.CreditedSundays {
			credited = append(credited, d.Format("2006-01-02"))
		}
		resp.Breakdown = &BreakdownResponse{
			DailyRate:       breakdown.DailyRate,
			HourlyRate:      breakdown.HourlyRate,
			AbsentDays:      breakdown.AbsentDays,
			HalfDayDeduct:   breakdown.HalfDayDeduct,
			LeaveTaken:      breakdown.LeaveTaken,
			ExtraPay:        breakdown.ExtraPay,
			NightsWorked:    breakdown.NightsWorked,
			Advances:        breakdown.Advances,
			TotalHours:      breakdown.TotalHours,
			CreditedSundays: credited,
		}
	}
	return resp
}
