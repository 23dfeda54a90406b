package attendance

import (
	"context"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/employee"
)

// AttendanceService defines business logic for attendance intervals
type AttendanceService interface {
	// Create stores an interval and recomputes its day
	Create(ctx context.Context, req CreateIntervalRequest) (IntervalResponse, error)

	// BatchCreate stores several intervals in one transaction
	BatchCreate(ctx context.Context, req BatchCreateIntervalRequest) ([]IntervalResponse, error)

	// Update corrects an interval; the old and new day are both recomputed
	Update(ctx context.Context, req UpdateIntervalRequest) (IntervalResponse, error)

	Get(ctx context.Context, id string, companyID string) (IntervalResponse, error)

	List(ctx context.Context, filter IntervalFilter) (ListIntervalResponse, error)

	// Delete removes an interval and recomputes the remaining day
	Delete(ctx context.Context, id string, companyID string) error

	// AddManualHours records extra (or deducted) hours on a day without attendance
	AddManualHours(ctx context.Context, req ManualHoursRequest) (IntervalResponse, error)

	// RecomputeDay reruns break, worked-hours and overtime computation for an employee-day
	RecomputeDay(ctx context.Context, employeeID string, date time.Time) error
}

// MissingAttendanceScanner finds working days without attendance.
type MissingAttendanceScanner interface {
	// Eligible reports whether the employee owes attendance on date and logged none
	Eligible(ctx context.Context, emp employee.Employee, date time.Time) (bool, error)

	// Backfill creates 04:00 placeholder intervals for every gap in [from, to]
	Backfill(ctx context.Context, from, to time.Time) (BackfillResponse, error)

	// NotifyToday mails employees and managers about today's gaps
	NotifyToday(ctx context.Context) (NotifyResponse, error)
}
