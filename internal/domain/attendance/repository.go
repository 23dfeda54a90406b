package attendance

import (
	"context"
	"time"
)

// IntervalRepository defines data access methods for attendance intervals.
type IntervalRepository interface {
	// Create inserts an interval and returns it with generated fields set
	Create(ctx context.Context, interval Interval) (Interval, error)

	// GetByID retrieves an interval with company isolation
	GetByID(ctx context.Context, id string, companyID string) (Interval, error)

	// Update writes employee, check-in, check-out and manual extra hours
	Update(ctx context.Context, interval Interval) error

	// UpdateDerived writes the computed net, break and worked hours
	UpdateDerived(ctx context.Context, id string, netWorkingTime, breakDeduction, workedHours float64) error

	Delete(ctx context.Context, id string, companyID string) error

	// ListByEmployeeBetween returns intervals whose check-in is in [from, to),
	// ordered by check-in then ID
	ListByEmployeeBetween(ctx context.Context, employeeID string, from, to time.Time) ([]Interval, error)

	// ExistsBetween reports whether any interval has its check-in in [from, to)
	ExistsBetween(ctx context.Context, employeeID string, from, to time.Time) (bool, error)

	// List retrieves intervals with filters and pagination
	List(ctx context.Context, filter IntervalFilter) ([]Interval, int64, error)

	// LockEmployeeDay serialises writers of one employee-day for the rest of the transaction
	LockEmployeeDay(ctx context.Context, employeeID string, date time.Time) error
}
