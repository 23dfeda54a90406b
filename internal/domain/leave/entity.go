package leave

import (
	"time"
)

// LeaveType entity
type LeaveType struct {
	ID        string
	CompanyID string
	Name      string
	Code      *string
	IsActive  *bool

	// OvertimeDeductible marks compensation leave paid out of the overtime balance
	OvertimeDeductible bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

type LeaveRequestStatus string

const (
	LeaveRequestStatusWaitingApproval LeaveRequestStatus = "waiting_approval"
	LeaveRequestStatusApproved        LeaveRequestStatus = "approved"
	LeaveRequestStatusRejected        LeaveRequestStatus = "rejected"
	LeaveRequestStatusCancelled       LeaveRequestStatus = "cancelled"
)

// LeaveRequest entity. StartDate and EndDate are calendar dates, both inclusive.
type LeaveRequest struct {
	ID          string
	CompanyID   string
	EmployeeID  string
	LeaveTypeID string

	StartDate time.Time
	EndDate   time.Time

	// TotalHours overrides the scheduled hours of the span when set
	TotalHours *float64
	Reason     string

	Status          LeaveRequestStatus
	ApprovedBy      *string
	ApprovedAt      *time.Time
	RejectionReason *string

	// OvertimeID links the adjustment overtime record paying for this leave
	OvertimeID *string

	SubmittedAt time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Relationships (for responses)
	LeaveTypeName      *string
	EmployeeName       *string
	OvertimeDeductible bool
}

// OverlapDays counts the calendar days shared by [startA, endA] and [startB, endB],
// both inclusive. A non-positive result means the ranges do not overlap.
func OverlapDays(startA, endA, startB, endB time.Time) int {
	latestStart := startA
	if startB.After(latestStart) {
		latestStart = startB
	}
	earliestEnd := endA
	if endB.Before(earliestEnd) {
		earliestEnd = endB
	}
	return int(dateOnly(earliestEnd).Sub(dateOnly(latestStart)).Hours()/24) + 1
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
