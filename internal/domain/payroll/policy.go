package payroll

import (
	"strings"

	"github.com/cmlabs-hris/factory-payroll/internal/domain/employee"
)

// Policy holds the factory allow-lists that alter Sunday and salary rules.
// It is passed into every computation so callers can vary it per run.
type Policy struct {
	// SpecialDepartments credit leave for worked Sundays instead of paying cash.
	SpecialDepartments []string
	// SpecialSupervisors forgive a Sunday only when both neighbors are missing.
	SpecialSupervisors []string
	// FullSalaryEmployeeIDs are paid base salary regardless of attendance.
	FullSalaryEmployeeIDs []string
}

func (p Policy) IsSpecialDepartment(department string) bool {
	return containsFold(p.SpecialDepartments, department)
}

func (p Policy) IsFullSalary(employeeID string) bool {
	for _, id := range p.FullSalaryEmployeeIDs {
		if strings.TrimSpace(id) == employeeID {
			return true
		}
	}
	return false
}

// IsSpecialSupervisor applies the stricter Sunday rule: the supervisor is on
// the allow-list and the employee is not on the full-salary list.
func (p Policy) IsSpecialSupervisor(emp employee.Employee) bool {
	return containsFold(p.SpecialSupervisors, emp.SupervisorName) && !p.IsFullSalary(emp.ID)
}

func containsFold(list []string, value string) bool {
	value = strings.TrimSpace(value)
	if value == "" {
		return false
	}
	for _, item := range list {
		if strings.EqualFold(strings.TrimSpace(item), value) {
			return true
		}
	}
	return false
}
