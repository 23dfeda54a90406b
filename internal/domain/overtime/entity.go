package overtime

import (
	"time"
)

// Record is a signed overtime balance entry. Non-adjustment records are
// computed once per employee-day; adjustment records carry a duration set by
// whoever created them and are tied to a leave request.
type Record struct {
	ID           string
	CompanyID    string
	EmployeeID   string
	Date         time.Time // calendar date, midnight UTC
	Duration     float64
	IsAdjustment bool
	LeaveID      *string

	// RequestDate is the linked leave's start date for adjustments, Date otherwise
	RequestDate time.Time
	// WorkedHours snapshots the day's attendance total
	WorkedHours float64

	CreatedAt time.Time
	UpdatedAt time.Time

	// DTO
	EmployeeName *string
}

// DayDuration computes a non-adjustment duration. leaveHours is the summed
// duration of adjustments linked to overlapping deductible leave, or
// -required when only non-deductible leave overlaps the day.
func DayDuration(logged, required, leaveHours float64) float64 {
	return logged - required - leaveHours
}
