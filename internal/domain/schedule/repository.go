package schedule

import (
	"context"
	"time"
)

type WorkScheduleTimeRepository interface {
	GetByWorkScheduleID(ctx context.Context, workScheduleID string) ([]WorkScheduleTime, error)
}

type EmployeeScheduleAssignmentRepository interface {
	// GetScheduleAssignments returns assignments touching the calendar dates [startDate, endDate]
	GetScheduleAssignments(ctx context.Context, employeeID string, startDate, endDate time.Time) ([]EmployeeScheduleAssignment, error)
}
