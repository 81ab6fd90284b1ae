package payroll

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/cmlabs-hris/factory-payroll/internal/domain/attendance"
	"github.com/cmlabs-hris/factory-payroll/internal/domain/calendar"
	"github.com/cmlabs-hris/factory-payroll/internal/domain/employee"
	"github.com/cmlabs-hris/factory-payroll/internal/domain/leave"
	"github.com/cmlabs-hris/factory-payroll/internal/domain/payroll"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var errInjected = errors.New("injected failure")

// memStore backs every repository with maps. Transactions are serialized
// and roll back to a snapshot on error.
type memStore struct {
	txMu sync.Mutex
	mu   sync.Mutex

	employees  map[string]employee.Employee
	attendance map[string][]attendance.Day
	sandwich   []calendar.SandwichDate
	leaves     []leave.LedgerEntry
	salaries   map[string]payroll.SalaryRecord
	advances   map[string]decimal.Decimal
	nights     map[string]int

	failUpsert    bool
	failEmployees map[string]bool
}

func newMemStore() *memStore {
	return &memStore{
		employees:     map[string]employee.Employee{},
		attendance:    map[string][]attendance.Day{},
		salaries:      map[string]payroll.SalaryRecord{},
		advances:      map[string]decimal.Decimal{},
		nights:        map[string]int{},
		failEmployees: map[string]bool{},
	}
}

func (m *memStore) repositories() Repositories {
	return Repositories{
		Employees:  memEmployees{m},
		Attendance: memAttendance{m},
		Calendar:   memCalendar{m},
		Leave:      memLeave{m},
		Salaries:   memSalaries{m},
		Ledger:     memLedger{m},
	}
}

type memSnapshot struct {
	leaves   []leave.LedgerEntry
	salaries map[string]payroll.SalaryRecord
}

func (m *memStore) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.txMu.Lock()
	defer m.txMu.Unlock()

	m.mu.Lock()
	snap := memSnapshot{
		leaves:   append([]leave.LedgerEntry(nil), m.leaves...),
		salaries: make(map[string]payroll.SalaryRecord, len(m.salaries)),
	}
	for k, v := range m.salaries {
		snap.salaries[k] = v
	}
	m.mu.Unlock()

	if err := fn(ctx); err != nil {
		m.mu.Lock()
		m.leaves = snap.leaves
		m.salaries = snap.salaries
		m.mu.Unlock()
		return err
	}
	return nil
}

func (m *memStore) addEmployee(emp employee.Employee) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.employees[emp.ID] = emp
}

// addDays inserts rows, replacing any row already stored for the same date.
func (m *memStore) addDays(days ...attendance.Day) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, d := range days {
		rows := m.attendance[d.EmployeeID]
		replaced := false
		for i := range rows {
			if rows[i].Key() == d.Key() {
				rows[i] = d
				replaced = true
			}
		}
		if !replaced {
			rows = append(rows, d)
		}
		m.attendance[d.EmployeeID] = rows
	}
}

func (m *memStore) creditsFor(employeeID string) []leave.LedgerEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []leave.LedgerEntry
	for _, e := range m.leaves {
		if e.EmployeeID == employeeID && e.IsSundayCredit() {
			out = append(out, e)
		}
	}
	return out
}

func inRange(d, from, to time.Time) bool {
	d = attendance.DateOnly(d)
	return !d.Before(attendance.DateOnly(from)) && !d.After(attendance.DateOnly(to))
}

func salaryKey(employeeID string, month payroll.Month) string {
	return employeeID + "/" + month.String()
}

type memEmployees struct{ m *memStore }

func (r memEmployees) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if r.m.failEmployees[id] {
		return employee.Employee{}, errInjected
	}
	emp, ok := r.m.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return emp, nil
}

func (r memEmployees) ListActive(ctx context.Context) ([]employee.Employee, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	out := make([]employee.Employee, 0, len(r.m.employees))
	for _, emp := range r.m.employees {
		if emp.EmploymentStatus == employee.EmploymentStatusActive {
			out = append(out, emp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type memAttendance struct{ m *memStore }

func (r memAttendance) ListByEmployeeRange(ctx context.Context, employeeID string, from, to time.Time) ([]attendance.Day, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []attendance.Day
	for _, d := range r.m.attendance[employeeID] {
		if inRange(d.Date, from, to) {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

type memCalendar struct{ m *memStore }

func (r memCalendar) ListSandwichDates(ctx context.Context, from, to time.Time) ([]calendar.SandwichDate, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []calendar.SandwichDate
	for _, sd := range r.m.sandwich {
		if inRange(sd.Date, from, to) {
			out = append(out, sd)
		}
	}
	return out, nil
}

type memLeave struct{ m *memStore }

func (r memLeave) HasSundayCredit(ctx context.Context, employeeID string, date time.Time) (bool, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, e := range r.m.leaves {
		if e.EmployeeID == employeeID && e.IsSundayCredit() && e.Date.Equal(attendance.DateOnly(date)) {
			return true, nil
		}
	}
	return false, nil
}

func (r memLeave) InsertSundayCredit(ctx context.Context, entry leave.LedgerEntry) (leave.LedgerEntry, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	entry.ID = uuid.NewString()
	entry.Date = attendance.DateOnly(entry.Date)
	entry.CreatedAt = time.Now()
	r.m.leaves = append(r.m.leaves, entry)
	return entry, nil
}

func (r memLeave) SumLeaveTaken(ctx context.Context, employeeID string, from, to time.Time) (decimal.Decimal, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	total := decimal.Zero
	for _, e := range r.m.leaves {
		if e.EmployeeID == employeeID && !e.IsSundayCredit() && inRange(e.Date, from, to) {
			total = total.Add(e.Days)
		}
	}
	return total, nil
}

type memSalaries struct{ m *memStore }

func (r memSalaries) Upsert(ctx context.Context, record payroll.SalaryRecord) (payroll.SalaryRecord, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if r.m.failUpsert {
		return payroll.SalaryRecord{}, errInjected
	}
	key := salaryKey(record.EmployeeID, record.Month)
	now := time.Now()
	if prev, ok := r.m.salaries[key]; ok {
		record.CreatedAt = prev.CreatedAt
	} else {
		record.CreatedAt = now
	}
	record.UpdatedAt = now
	r.m.salaries[key] = record
	return record, nil
}

func (r memSalaries) GetByEmployeeMonth(ctx context.Context, employeeID string, month payroll.Month) (payroll.SalaryRecord, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	rec, ok := r.m.salaries[salaryKey(employeeID, month)]
	if !ok {
		return payroll.SalaryRecord{}, payroll.ErrSalaryRecordNotFound
	}
	return rec, nil
}

func (r memSalaries) ListByMonth(ctx context.Context, month payroll.Month) ([]payroll.SalaryRecord, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []payroll.SalaryRecord
	for _, rec := range r.m.salaries {
		if rec.Month == month {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EmployeeID < out[j].EmployeeID })
	return out, nil
}

type memLedger struct{ m *memStore }

func (r memLedger) SumAdvances(ctx context.Context, employeeID string, from, to time.Time) (decimal.Decimal, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if v, ok := r.m.advances[employeeID]; ok {
		return v, nil
	}
	return decimal.Zero, nil
}

func (r memLedger) SumNightShifts(ctx context.Context, employeeID string, from, to time.Time) (int, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	return r.m.nights[employeeID], nil
}
