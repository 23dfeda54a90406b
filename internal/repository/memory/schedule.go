package memory

import (
	"context"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/schedule"
)

type workScheduleTimeRepository struct {
	store *Store
}

func NewWorkScheduleTimeRepository(store *Store) schedule.WorkScheduleTimeRepository {
	return &workScheduleTimeRepository{store: store}
}

func (r *workScheduleTimeRepository) GetByWorkScheduleID(ctx context.Context, workScheduleID string) ([]schedule.WorkScheduleTime, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	return append([]schedule.WorkScheduleTime(nil), r.store.scheduleTimes[workScheduleID]...), nil
}

type employeeScheduleAssignmentRepository struct {
	store *Store
}

func NewEmployeeScheduleAssignmentRepository(store *Store) schedule.EmployeeScheduleAssignmentRepository {
	return &employeeScheduleAssignmentRepository{store: store}
}

func (r *employeeScheduleAssignmentRepository) GetScheduleAssignments(ctx context.Context, employeeID string, startDate, endDate time.Time) ([]schedule.EmployeeScheduleAssignment, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var out []schedule.EmployeeScheduleAssignment
	for _, a := range r.store.assignments[employeeID] {
		if a.StartDate.After(endDate) || a.EndDate.Before(startDate) {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}
