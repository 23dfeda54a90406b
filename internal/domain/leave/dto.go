package leave

import (
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/validator"
)

type ApproveLeaveRequest struct {
	ID        string `json:"-"`
	CompanyID string `json:"-"`
	ActorID   string `json:"-"`
}

func (r *ApproveLeaveRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "leave request id is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type RefuseLeaveRequest struct {
	ID        string `json:"-"`
	CompanyID string `json:"-"`
	ActorID   string `json:"-"`
	// CanCancelExtraHours is resolved from the caller's permissions
	CanCancelExtraHours bool   `json:"-"`
	Reason              string `json:"reason"`
}

func (r *RefuseLeaveRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "leave request id is required",
		})
	}

	if validator.IsEmpty(r.Reason) {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: "rejection reason is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type LeaveRequestResponse struct {
	ID                 string   `json:"id"`
	EmployeeID         string   `json:"employee_id"`
	EmployeeName       *string  `json:"employee_name,omitempty"`
	LeaveTypeID        string   `json:"leave_type_id"`
	LeaveTypeName      *string  `json:"leave_type_name,omitempty"`
	StartDate          string   `json:"start_date"`
	EndDate            string   `json:"end_date"`
	TotalHours         *float64 `json:"total_hours,omitempty"`
	Status             string   `json:"status"`
	RejectionReason    *string  `json:"rejection_reason,omitempty"`
	OvertimeDeductible bool     `json:"overtime_deductible"`
	OvertimeID         *string  `json:"overtime_id,omitempty"`
}

func (l LeaveRequest) ToResponse() LeaveRequestResponse {
	return LeaveRequestResponse{
		ID:                 l.ID,
		EmployeeID:         l.EmployeeID,
		EmployeeName:       l.EmployeeName,
		LeaveTypeID:        l.LeaveTypeID,
		LeaveTypeName:      l.LeaveTypeName,
		StartDate:          l.StartDate.Format(time.DateOnly),
		EndDate:            l.EndDate.Format(time.DateOnly),
		TotalHours:         l.TotalHours,
		Status:             string(l.Status),
		RejectionReason:    l.RejectionReason,
		OvertimeDeductible: l.OvertimeDeductible,
		OvertimeID:         l.OvertimeID,
	}
}
