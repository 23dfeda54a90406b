package memory

import (
	"context"
	"sort"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/overtime"
)

type overtimeRepository struct {
	store *Store
}

func NewOvertimeRepository(store *Store) overtime.OvertimeRepository {
	return &overtimeRepository{store: store}
}

func (r *overtimeRepository) withEmployeeName(rec overtime.Record) overtime.Record {
	if emp, ok := r.store.employees[rec.EmployeeID]; ok {
		name := emp.FullName
		rec.EmployeeName = &name
	}
	return rec
}

// dayTaken mirrors the partial unique index on non-adjustment records.
func (r *overtimeRepository) dayTaken(rec overtime.Record) bool {
	if rec.IsAdjustment {
		return false
	}
	for _, other := range r.store.overtimes {
		if other.ID != rec.ID && !other.IsAdjustment && other.EmployeeID == rec.EmployeeID && other.Date.Equal(rec.Date) {
			return true
		}
	}
	return false
}

func (r *overtimeRepository) Create(ctx context.Context, rec overtime.Record) (overtime.Record, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if r.dayTaken(rec) {
		return overtime.Record{}, overtime.ErrDayRecordExists
	}

	now := time.Now().UTC()
	rec.ID = newID()
	rec.CreatedAt = now
	rec.UpdatedAt = now
	rec.EmployeeName = nil
	r.store.overtimes[rec.ID] = rec
	return r.withEmployeeName(rec), nil
}

func (r *overtimeRepository) GetByID(ctx context.Context, id string) (overtime.Record, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	rec, ok := r.store.overtimes[id]
	if !ok {
		return overtime.Record{}, overtime.ErrOvertimeNotFound
	}
	return r.withEmployeeName(rec), nil
}

func (r *overtimeRepository) GetDayRecord(ctx context.Context, employeeID string, date time.Time) (*overtime.Record, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, rec := range r.store.overtimes {
		if !rec.IsAdjustment && rec.EmployeeID == employeeID && rec.Date.Equal(date) {
			found := r.withEmployeeName(rec)
			return &found, nil
		}
	}
	return nil, nil
}

func (r *overtimeRepository) Update(ctx context.Context, rec overtime.Record) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	existing, ok := r.store.overtimes[rec.ID]
	if !ok {
		return overtime.ErrOvertimeNotFound
	}
	if r.dayTaken(rec) {
		return overtime.ErrDayRecordExists
	}

	rec.IsAdjustment = existing.IsAdjustment
	rec.CreatedAt = existing.CreatedAt
	rec.UpdatedAt = time.Now().UTC()
	rec.EmployeeName = nil
	r.store.overtimes[rec.ID] = rec
	return nil
}

func (r *overtimeRepository) Delete(ctx context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.overtimes[id]; !ok {
		return overtime.ErrOvertimeNotFound
	}
	delete(r.store.overtimes, id)

	// ON DELETE SET NULL on leave_requests.overtime_id
	for lid, lr := range r.store.leaveRequests {
		if lr.OvertimeID != nil && *lr.OvertimeID == id {
			lr.OvertimeID = nil
			r.store.leaveRequests[lid] = lr
		}
	}
	return nil
}

func (r *overtimeRepository) GetByIDs(ctx context.Context, ids []string) ([]overtime.Record, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var out []overtime.Record
	for _, id := range ids {
		if rec, ok := r.store.overtimes[id]; ok {
			out = append(out, r.withEmployeeName(rec))
		}
	}
	sortRecords(out)
	return out, nil
}

func (r *overtimeRepository) List(ctx context.Context, filter overtime.OvertimeFilter) ([]overtime.Record, int64, error) {
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
			end = &t
		}
	}

	var matched []overtime.Record
	for _, rec := range r.store.overtimes {
		if rec.CompanyID != filter.CompanyID {
			continue
		}
		if filter.EmployeeID != nil && *filter.EmployeeID != "" && rec.EmployeeID != *filter.EmployeeID {
			continue
		}
		if start != nil && rec.Date.Before(*start) {
			continue
		}
		if end != nil && rec.Date.After(*end) {
			continue
		}
		if filter.IsAdjustment != nil && rec.IsAdjustment != *filter.IsAdjustment {
			continue
		}
		matched = append(matched, r.withEmployeeName(rec))
	}

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].Date.Equal(matched[j].Date) {
			return matched[i].Date.After(matched[j].Date)
		}
		return matched[i].ID > matched[j].ID
	})

	return paginate(matched, filter.Page, filter.Limit), int64(len(matched)), nil
}

func (r *overtimeRepository) ListDayRecordsBetween(ctx context.Context, employeeID string, from, to time.Time) ([]overtime.Record, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var out []overtime.Record
	for _, rec := range r.store.overtimes {
		if rec.IsAdjustment || rec.EmployeeID != employeeID {
			continue
		}
		if rec.Date.Before(from) || rec.Date.After(to) {
			continue
		}
		out = append(out, r.withEmployeeName(rec))
	}
	sortRecords(out)
	return out, nil
}

func (r *overtimeRepository) ListIDs(ctx context.Context) ([]string, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	all := make([]overtime.Record, 0, len(r.store.overtimes))
	for _, rec := range r.store.overtimes {
		all = append(all, rec)
	}
	sortRecords(all)

	ids := make([]string, 0, len(all))
	for _, rec := range all {
		ids = append(ids, rec.ID)
	}
	return ids, nil
}

func (r *overtimeRepository) SumDurationByEmployee(ctx context.Context, employeeID string) (float64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	total := 0.0
	for _, rec := range r.store.overtimes {
		if rec.EmployeeID == employeeID {
			total += rec.Duration
		}
	}
	return total, nil
}

func sortRecords(records []overtime.Record) {
	sort.Slice(records, func(i, j int) bool {
		if !records[i].Date.Equal(records[j].Date) {
			return records[i].Date.Before(records[j].Date)
		}
		return records[i].ID < records[j].ID
	})
}
