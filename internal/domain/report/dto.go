package report

import (
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/validator"
)

// ========================================
// ATTENDANCE REPORT
// ========================================

type AttendanceReportRequest struct {
	CompanyID    string  `json:"-"`
	StartDate    string  `json:"start_date"` // YYYY-MM-DD
	EndDate      string  `json:"end_date"`   // YYYY-MM-DD
	EmployeeID   *string `json:"employee_id,omitempty"`
	DepartmentID *string `json:"department_id,omitempty"`

	From time.Time `json:"-"`
	To   time.Time `json:"-"`
}

func (r *AttendanceReportRequest) Validate() error {
	var errs validator.ValidationErrors

	start, validStart := validator.IsValidDate(r.StartDate)
	if !validStart {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date must be in YYYY-MM-DD format",
		})
	}

	end, validEnd := validator.IsValidDate(r.EndDate)
	if !validEnd {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must be in YYYY-MM-DD format",
		})
	}

	if validStart && validEnd && end.Before(start) {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: ErrInvalidDateRange.Error(),
		})
	}

	if len(errs) > 0 {
		return errs
	}

	r.From, r.To = start, end
	return nil
}

type AttendanceReport struct {
	PeriodStart string `json:"period_start"`
	PeriodEnd   string `json:"period_end"`
	GeneratedAt string `json:"generated_at"`

	TotalWorkedHours   float64 `json:"total_worked_hours"`
	TotalOvertimeHours float64 `json:"total_overtime_hours"`

	Rows []AttendanceRow `json:"rows"`
}

// AttendanceRow is the latest day record of one employee-day, or a leave
// adjustment dated by its request date.
type AttendanceRow struct {
	EmployeeID     string  `json:"employee_id"`
	EmployeeName   string  `json:"employee_name"`
	Date           string  `json:"date"`
	WorkedHours    float64 `json:"worked_hours"`
	OvertimeHours  float64 `json:"overtime_hours"`
	IsAdjustment   bool    `json:"is_adjustment"`
	DepartmentID   *string `json:"department_id,omitempty"`
	DepartmentName *string `json:"department_name,omitempty"`
}
