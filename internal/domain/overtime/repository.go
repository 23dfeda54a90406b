package overtime

import (
	"context"
	"time"
)

type OvertimeRepository interface {
	Create(ctx context.Context, record Record) (Record, error)
	GetByID(ctx context.Context, id string) (Record, error)

	// GetDayRecord returns the non-adjustment record of an employee-day, or nil
	GetDayRecord(ctx context.Context, employeeID string, date time.Time) (*Record, error)

	Update(ctx context.Context, record Record) error
	Delete(ctx context.Context, id string) error

	GetByIDs(ctx context.Context, ids []string) ([]Record, error)
	List(ctx context.Context, filter OvertimeFilter) ([]Record, int64, error)

	// ListDayRecordsBetween returns non-adjustment records with Date in [from, to]
	ListDayRecordsBetween(ctx context.Context, employeeID string, from, to time.Time) ([]Record, error)

	// ListIDs returns every record ID ordered by date
	ListIDs(ctx context.Context) ([]string, error)

	SumDurationByEmployee(ctx context.Context, employeeID string) (float64, error)
}
