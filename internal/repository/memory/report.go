package memory

import (
	"context"
	"sort"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/overtime"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/report"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/timemath"
)

type reportRepository struct {
	store *Store
}

func NewReportRepository(store *Store) report.ReportRepository {
	return &reportRepository{store: store}
}

// GetAttendanceRows keeps the most recently updated day record per employee-day
// and adds every adjustment on its request date.
func (r *reportRepository) GetAttendanceRows(ctx context.Context, filter report.AttendanceReportRequest) ([]report.AttendanceRow, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	type dayKey struct {
		employeeID string
		date       string
	}
	latest := make(map[dayKey]overtime.Record)
	var adjustments []overtime.Record

	for _, rec := range r.store.overtimes {
		if rec.CompanyID != filter.CompanyID {
			continue
		}
		if filter.EmployeeID != nil && *filter.EmployeeID != "" && rec.EmployeeID != *filter.EmployeeID {
			continue
		}
		date := reportDate(rec)
		if date.Before(filter.From) || date.After(filter.To) {
			continue
		}
		if rec.IsAdjustment {
			adjustments = append(adjustments, rec)
			continue
		}
		key := dayKey{rec.EmployeeID, date.Format(timemath.DateLayout)}
		current, ok := latest[key]
		if !ok || rec.UpdatedAt.After(current.UpdatedAt) || (rec.UpdatedAt.Equal(current.UpdatedAt) && rec.ID > current.ID) {
			latest[key] = rec
		}
	}

	var rows []report.AttendanceRow
	appendRow := func(rec overtime.Record, workedHours float64) {
		emp := r.store.employees[rec.EmployeeID]
		if filter.DepartmentID != nil && *filter.DepartmentID != "" {
			if emp.DepartmentID == nil || *emp.DepartmentID != *filter.DepartmentID {
				return
			}
		}
		row := report.AttendanceRow{
			EmployeeID:    rec.EmployeeID,
			EmployeeName:  emp.FullName,
			Date:          reportDate(rec).Format(timemath.DateLayout),
			WorkedHours:   workedHours,
			OvertimeHours: rec.Duration,
			IsAdjustment:  rec.IsAdjustment,
			DepartmentID:  emp.DepartmentID,
		}
		if emp.DepartmentID != nil {
			if name, ok := r.store.departments[*emp.DepartmentID]; ok {
				row.DepartmentName = &name
			}
		}
		rows = append(rows, row)
	}
	for _, rec := range latest {
		appendRow(rec, rec.WorkedHours)
	}
	sortRecords(adjustments)
	for _, rec := range adjustments {
		appendRow(rec, 0)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].EmployeeName != rows[j].EmployeeName {
			return rows[i].EmployeeName < rows[j].EmployeeName
		}
		if rows[i].Date != rows[j].Date {
			return rows[i].Date < rows[j].Date
		}
		return !rows[i].IsAdjustment && rows[j].IsAdjustment
	})
	return rows, nil
}

// reportDate dates adjustments by their request date, falling back to the record date.
func reportDate(rec overtime.Record) time.Time {
	if rec.IsAdjustment && !rec.RequestDate.IsZero() {
		return rec.RequestDate
	}
	return rec.Date
}
