package employee

import (
	"time"
)

type Employee struct {
	ID                        string
	UserID                    *string
	CompanyID                 string
	ManagerID                 *string
	DepartmentID              *string
	WorkScheduleID            *string
	FullName                  string
	Email                     string
	Timezone                  string
	CheckDailyAttendance      bool
	SendMissingAttendanceMail bool
	FirstContractDate         *time.Time
	EmploymentStatus          EmploymentStatus
	CreatedAt                 time.Time
	UpdatedAt                 time.Time

	// DTO
	DepartmentName *string
}

type EmploymentStatus string

const (
	EmploymentStatusActive     EmploymentStatus = "active"
	EmploymentStatusResigned   EmploymentStatus = "resigned"
	EmploymentStatusTerminated EmploymentStatus = "terminated"
)

// ContractStartedBy reports whether the employee's first contract began on or before date.
// Employees without a contract date are treated as not yet started.
func (e Employee) ContractStartedBy(date time.Time) bool {
	if e.FirstContractDate == nil {
		return false
	}
	return !e.FirstContractDate.After(date)
}

func (e Employee) HasManager() bool {
	return e.ManagerID != nil && *e.ManagerID != ""
}
