package memory

import (
	"context"
	"sort"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
)

type intervalRepository struct {
	store *Store
}

func NewIntervalRepository(store *Store) attendance.IntervalRepository {
	return &intervalRepository{store: store}
}

func (r *intervalRepository) withEmployeeName(iv attendance.Interval) attendance.Interval {
	if emp, ok := r.store.employees[iv.EmployeeID]; ok {
		name := emp.FullName
		iv.EmployeeName = &name
	}
	return iv
}

func (r *intervalRepository) Create(ctx context.Context, iv attendance.Interval) (attendance.Interval, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	now := time.Now().UTC()
	iv.ID = newID()
	iv.CreatedAt = now
	iv.UpdatedAt = now
	iv.EmployeeName = nil
	r.store.intervals[iv.ID] = iv
	return iv, nil
}

func (r *intervalRepository) GetByID(ctx context.Context, id string, companyID string) (attendance.Interval, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	iv, ok := r.store.intervals[id]
	if !ok || iv.CompanyID != companyID {
		return attendance.Interval{}, attendance.ErrIntervalNotFound
	}
	return r.withEmployeeName(iv), nil
}

func (r *intervalRepository) Update(ctx context.Context, iv attendance.Interval) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	existing, ok := r.store.intervals[iv.ID]
	if !ok || existing.CompanyID != iv.CompanyID {
		return attendance.ErrIntervalNotFound
	}
	existing.EmployeeID = iv.EmployeeID
	existing.CheckIn = iv.CheckIn
	existing.CheckOut = iv.CheckOut
	existing.ManualExtraHours = iv.ManualExtraHours
	existing.UpdatedAt = time.Now().UTC()
	r.store.intervals[iv.ID] = existing
	return nil
}

func (r *intervalRepository) UpdateDerived(ctx context.Context, id string, netWorkingTime, breakDeduction, workedHours float64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	existing, ok := r.store.intervals[id]
	if !ok {
		return attendance.ErrIntervalNotFound
	}
	existing.NetWorkingTime = netWorkingTime
	existing.BreakDeduction = breakDeduction
	existing.WorkedHours = workedHours
	existing.UpdatedAt = time.Now().UTC()
	r.store.intervals[id] = existing
	return nil
}

func (r *intervalRepository) Delete(ctx context.Context, id string, companyID string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	existing, ok := r.store.intervals[id]
	if !ok || existing.CompanyID != companyID {
		return attendance.ErrIntervalNotFound
	}
	delete(r.store.intervals, id)
	return nil
}

func (r *intervalRepository) ListByEmployeeBetween(ctx context.Context, employeeID string, from, to time.Time) ([]attendance.Interval, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var out []attendance.Interval
	for _, iv := range r.store.intervals {
		if iv.EmployeeID == employeeID && !iv.CheckIn.Before(from) && iv.CheckIn.Before(to) {
			out = append(out, r.withEmployeeName(iv))
		}
	}
	sortIntervals(out)
	return out, nil
}

func (r *intervalRepository) ExistsBetween(ctx context.Context, employeeID string, from, to time.Time) (bool, error) {
	day, err := r.ListByEmployeeBetween(ctx, employeeID, from, to)
	return len(day) > 0, err
}

func (r *intervalRepository) List(ctx context.Context, filter attendance.IntervalFilter) ([]attendance.Interval, int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var start, end *time.Time
	if filter.StartDate != nil && *filter.StartDate != "" {
		if t, err := time.Parse(time.DateOnly, *filter.StartDate); err == nil {
			start = &t
		}
	}
	if filter.EndDate != nil && *filter.EndDate != "" {
		if t, err := time.Parse(time.DateOnly, *filter.EndDate); err == nil {
			t = t.AddDate(0, 0, 1)
			end = &t
		}
	}

	var matched []attendance.Interval
	for _, iv := range r.store.intervals {
		if iv.CompanyID != filter.CompanyID {
			continue
		}
		if filter.EmployeeID != nil && *filter.EmployeeID != "" && iv.EmployeeID != *filter.EmployeeID {
			continue
		}
		if start != nil && iv.CheckIn.Before(*start) {
			continue
		}
		if end != nil && !iv.CheckIn.Before(*end) {
			continue
		}
		matched = append(matched, r.withEmployeeName(iv))
	}

	sortIntervals(matched)
	// newest first, like the SQL listing
	for i, j := 0, len(matched)-1; i < j; i, j = i+1, j-1 {
		matched[i], matched[j] = matched[j], matched[i]
	}

	return paginate(matched, filter.Page, filter.Limit), int64(len(matched)), nil
}

// LockEmployeeDay is a no-op: the transactor already runs one writer at a time.
func (r *intervalRepository) LockEmployeeDay(ctx context.Context, employeeID string, date time.Time) error {
	return nil
}

func sortIntervals(intervals []attendance.Interval) {
	sort.Slice(intervals, func(i, j int) bool {
		if !intervals[i].CheckIn.Equal(intervals[j].CheckIn) {
			return intervals[i].CheckIn.Before(intervals[j].CheckIn)
		}
		return intervals[i].ID < intervals[j].ID
	})
}

func paginate[T any](items []T, page, limit int) []T {
	if limit <= 0 {
		limit = 20
	}
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * limit
	if offset >= len(items) {
		return []T{}
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}
