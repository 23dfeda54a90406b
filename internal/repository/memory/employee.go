package memory

import (
	"context"
	"sort"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/employee"
)

type employeeRepository struct {
	store *Store
}

func NewEmployeeRepository(store *Store) employee.EmployeeRepository {
	return &employeeRepository{store: store}
}

func (r *employeeRepository) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	emp, ok := r.store.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return r.withDepartment(emp), nil
}

func (r *employeeRepository) ListDailyAttendance(ctx context.Context) ([]employee.Employee, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var out []employee.Employee
	for _, emp := range r.store.employees {
		if emp.CheckDailyAttendance && emp.EmploymentStatus == employee.EmploymentStatusActive {
			out = append(out, r.withDepartment(emp))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *employeeRepository) withDepartment(emp employee.Employee) employee.Employee {
	if emp.DepartmentID != nil {
		if name, ok := r.store.departments[*emp.DepartmentID]; ok {
			emp.DepartmentName = &name
		}
	}
	return emp
}
