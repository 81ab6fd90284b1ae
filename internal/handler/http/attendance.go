package http

import (
	"net/http"

	"github.com/cmlabs-hris/factory-payroll/internal/domain/payroll"
	"github.com/cmlabs-hris/factory-payroll/internal/handler/http/response"
	"github.com/cmlabs-hris/factory-payroll/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
)

type AttendanceHandler interface {
	DailyStatus(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	payrollService payroll.PayrollService
}

func NewAttendanceHandler(payrollService payroll.PayrollService) AttendanceHandler {
	return &attendanceHandlerImpl{
		payrollService: payrollService,
	}
}

// DailyStatus implements AttendanceHandler.
func (h *attendanceHandlerImpl) DailyStatus(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "employeeID")
	if !validator.IsValidUUID(employeeID) {
		response.BadRequest(w, "Invalid employee ID", nil)
		return
	}

	month := r.URL.Query().Get("month")
	if month == "" {
		response.BadRequest(w, "Query parameter 'month' is required", nil)
		return
	}

	result, err := h.payrollService.DailyStatus(r.Context(), employeeID, month)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
