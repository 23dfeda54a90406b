package employee

import "context"

type EmployeeRepository interface {
	GetByID(ctx context.Context, id string) (Employee, error)

	// ListDailyAttendance returns active employees flagged for mandatory daily attendance
	ListDailyAttendance(ctx context.Context) ([]Employee, error)
}
