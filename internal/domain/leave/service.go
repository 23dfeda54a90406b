package leave

import (
	"context"
	"time"
)

type LeaveService interface {
	// ApproveLeaveRequest approves a request. Overtime-deductible requests get a
	// negative adjustment overtime record linked back to them.
	ApproveLeaveRequest(ctx context.Context, req ApproveLeaveRequest) (LeaveRequestResponse, error)

	// RefuseLeaveRequest rejects a request. The linked adjustment overtime is
	// removed only when the caller may cancel extra hours.
	RefuseLeaveRequest(ctx context.Context, req RefuseLeaveRequest) (LeaveRequestResponse, error)

	GetLeaveRequest(ctx context.Context, requestID string) (LeaveRequestResponse, error)
}

// OverlapResolver finds approved leave covering a window of calendar dates.
type OverlapResolver interface {
	// Overlapping returns the employee's approved requests sharing at least one
	// calendar day with [from, to], without duplicates
	Overlapping(ctx context.Context, employeeID string, from, to time.Time) ([]LeaveRequest, error)
}
