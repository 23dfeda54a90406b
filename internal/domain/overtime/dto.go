package overtime

import (
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/timemath"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/validator"
)

type CreateOvertimeRequest struct {
	CompanyID    string   `json:"-"`
	EmployeeID   string   `json:"employee_id"`
	Date         string   `json:"date"` // YYYY-MM-DD
	IsAdjustment bool     `json:"is_adjustment"`
	Duration     *float64 `json:"duration,omitempty"`
	LeaveID      *string  `json:"leave_id,omitempty"`
}

func (r *CreateOvertimeRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	if _, valid := validator.IsValidDate(r.Date); !valid {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		})
	}

	if r.IsAdjustment {
		if r.Duration == nil {
			errs = append(errs, validator.ValidationError{
				Field:   "duration",
				Message: "duration is required for adjustments",
			})
		} else if !validator.IsFiniteHours(*r.Duration) {
			errs = append(errs, validator.ValidationError{
				Field:   "duration",
				Message: "duration must be a finite number",
			})
		}
		if r.LeaveID == nil || validator.IsEmpty(*r.LeaveID) {
			errs = append(errs, validator.ValidationError{
				Field:   "leave_id",
				Message: ErrAdjustmentRequiresLeave.Error(),
			})
		}
	} else if r.Duration != nil {
		errs = append(errs, validator.ValidationError{
			Field:   "duration",
			Message: ErrDurationNotEditable.Error(),
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type UpdateOvertimeRequest struct {
	ID         string   `json:"-"`
	CompanyID  string   `json:"-"`
	EmployeeID *string  `json:"employee_id,omitempty"`
	Date       *string  `json:"date,omitempty"`
	Duration   *float64 `json:"duration,omitempty"`
}

func (r *UpdateOvertimeRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.EmployeeID != nil && validator.IsEmpty(*r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id must not be empty",
		})
	}

	if r.Date != nil {
		if _, valid := validator.IsValidDate(*r.Date); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "date",
				Message: "date must be in YYYY-MM-DD format",
			})
		}
	}

	if r.Duration != nil && !validator.IsFiniteHours(*r.Duration) {
		errs = append(errs, validator.ValidationError{
			Field:   "duration",
			Message: "duration must be a finite number",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type OvertimeFilter struct {
	CompanyID    string  `json:"-"`
	EmployeeID   *string `json:"employee_id,omitempty"`
	StartDate    *string `json:"start_date,omitempty"`
	EndDate      *string `json:"end_date,omitempty"`
	IsAdjustment *bool   `json:"is_adjustment,omitempty"`
	Page         int     `json:"page"`
	Limit        int     `json:"limit"`
}

func (f *OvertimeFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = 20
	}
	if f.Limit > 100 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must not exceed 100",
		})
	}

	if f.StartDate != nil && *f.StartDate != "" {
		if _, valid := validator.IsValidDate(*f.StartDate); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "start_date",
				Message: "start_date must be in YYYY-MM-DD format",
			})
		}
	}

	if f.EndDate != nil && *f.EndDate != "" {
		if _, valid := validator.IsValidDate(*f.EndDate); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must be in YYYY-MM-DD format",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type OvertimeResponse struct {
	ID           string  `json:"id"`
	EmployeeID   string  `json:"employee_id"`
	EmployeeName *string `json:"employee_name,omitempty"`
	Date         string  `json:"date"`
	RequestDate  string  `json:"request_date"`
	Duration     float64 `json:"duration"`
	WorkedHours  float64 `json:"worked_hours"`
	IsAdjustment bool    `json:"is_adjustment"`
	LeaveID      *string `json:"leave_id,omitempty"`
}

type ListOvertimeResponse struct {
	TotalCount int64              `json:"total_count"`
	Page       int                `json:"page"`
	Limit      int                `json:"limit"`
	TotalPages int                `json:"total_pages"`
	Overtimes  []OvertimeResponse `json:"overtimes"`
}

type BalanceResponse struct {
	EmployeeID string  `json:"employee_id"`
	Balance    float64 `json:"balance"`
}

func (r Record) ToResponse() OvertimeResponse {
	return OvertimeResponse{
		ID:           r.ID,
		EmployeeID:   r.EmployeeID,
		EmployeeName: r.EmployeeName,
		Date:         r.Date.Format(time.DateOnly),
		RequestDate:  r.RequestDate.Format(time.DateOnly),
		Duration:     timemath.RoundHours(r.Duration),
		WorkedHours:  timemath.RoundHours(r.WorkedHours),
		IsAdjustment: r.IsAdjustment,
		LeaveID:      r.LeaveID,
	}
}
