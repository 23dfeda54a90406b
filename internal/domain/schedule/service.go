package schedule

import (
	"context"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/employee"
)

// Provider answers how many hours an employee is expected to work.
type Provider interface {
	// RequiredHours sums the scheduled hours of every local date whose midnight
	// falls in [from, to). With leaveAware set, dates excused by approved
	// non-deductible leave contribute nothing. No schedule means 0.
	RequiredHours(ctx context.Context, emp employee.Employee, from, to time.Time, leaveAware bool) (float64, error)
}
