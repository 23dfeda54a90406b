package overtime

import (
	"context"
	"time"
)

type OvertimeService interface {
	// ReconcileDay upserts the non-adjustment record of an employee-day
	ReconcileDay(ctx context.Context, employeeID string, date time.Time) (Record, error)

	// Create upserts a day record, or stores an adjustment linked to a leave request
	Create(ctx context.Context, req CreateOvertimeRequest) (OvertimeResponse, error)

	Update(ctx context.Context, req UpdateOvertimeRequest) (OvertimeResponse, error)
	Delete(ctx context.Context, id string, companyID string) error
	Get(ctx context.Context, id string, companyID string) (OvertimeResponse, error)
	List(ctx context.Context, filter OvertimeFilter) (ListOvertimeResponse, error)

	// Balance sums every record of the employee
	Balance(ctx context.Context, employeeID string, companyID string) (BalanceResponse, error)

	// RefreshDays reconciles existing day records of the employee in [from, to]
	RefreshDays(ctx context.Context, employeeID string, from, to time.Time) error

	// RecomputeAll refreshes every stored record and returns how many were processed
	RecomputeAll(ctx context.Context) (int, error)
}
