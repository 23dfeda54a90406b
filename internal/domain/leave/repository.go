package leave

import (
	"context"
	"time"
)

// LeaveTypeRepository - interface for leave_types table
type LeaveTypeRepository interface {
	GetByID(ctx context.Context, id string) (LeaveType, error)
}

// LeaveRequestRepository - interface for leave_requests table
type LeaveRequestRepository interface {
	GetByID(ctx context.Context, id string) (LeaveRequest, error)

	// ListApprovedBetween returns approved requests of the employee whose span
	// touches the calendar dates [from, to]
	ListApprovedBetween(ctx context.Context, employeeID string, from, to time.Time) ([]LeaveRequest, error)

	UpdateStatus(ctx context.Context, id string, status LeaveRequestStatus, actedBy *string, rejectionReason *string) error
	SetOvertimeID(ctx context.Context, id string, overtimeID *string) error
}
