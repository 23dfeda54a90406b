package fixtures

import (
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/schedule"
)

func boolPtr(b bool) *bool    { return &b }
func strPtr(s string) *string { return &s }

func clock(hour, minute int) time.Time {
	return time.Date(2000, 1, 1, hour, minute, 0, 0, time.UTC)
}

// ==========================================
// DEFAULT LEAVE TYPES
// ==========================================

// GetDefaultLeaveTypes returns the leave types every company starts with.
// Only compensation leave is paid out of the overtime balance.
func GetDefaultLeaveTypes(companyID string) []leave.LeaveType {
	return []leave.LeaveType{
		{
			CompanyID: companyID,
			Name:      "Cuti Tahunan",
			Code:      strPtr("ANNUAL"),
			IsActive:  boolPtr(true),
		},
		{
			CompanyID: companyID,
			Name:      "Cuti Sakit",
			Code:      strPtr("SICK"),
			IsActive:  boolPtr(true),
		},
		{
			CompanyID:          companyID,
			Name:               "Cuti Pengganti Lembur",
			Code:               strPtr("COMPENSATION"),
			IsActive:           boolPtr(true),
			OvertimeDeductible: true,
		},
		{
			CompanyID: companyID,
			Name:      "Cuti Tanpa Gaji",
			Code:      strPtr("UNPAID"),
			IsActive:  boolPtr(true),
		},
	}
}

// ==========================================
// DEFAULT WORK SCHEDULES
// ==========================================

// GetDefaultWorkSchedule returns the standard office schedule for a new company
func GetDefaultWorkSchedule(companyID string) schedule.WorkSchedule {
	return schedule.WorkSchedule{
		CompanyID: companyID,
		Name:      "Standard Office Hours",
	}
}

// GetDefaultWorkScheduleTimes returns Mon-Fri 08:00-17:00 with a one hour lunch break, 8 required hours a day
func GetDefaultWorkScheduleTimes(workScheduleID string) []schedule.WorkScheduleTime {
	breakStart := clock(12, 0)
	breakEnd := clock(13, 0)

	times := make([]schedule.WorkScheduleTime, 0, 5)
	for day := 1; day <= 5; day++ {
		times = append(times, schedule.WorkScheduleTime{
			WorkScheduleID: workScheduleID,
			DayOfWeek:      day,
			ClockInTime:    clock(8, 0),
			BreakStartTime: &breakStart,
			BreakEndTime:   &breakEnd,
			ClockOutTime:   clock(17, 0),
		})
	}
	return times
}

// GetNightShiftWorkSchedule returns an overnight shift schedule (22:00-06:00)
func GetNightShiftWorkSchedule(companyID string) schedule.WorkSchedule {
	return schedule.WorkSchedule{
		CompanyID: companyID,
		Name:      "Night Shift",
	}
}

// GetNightShiftWorkScheduleTimes returns Mon-Fri 22:00-06:00 with a break at 02:00, 7 required hours a night
func GetNightShiftWorkScheduleTimes(workScheduleID string) []schedule.WorkScheduleTime {
	breakStart := clock(2, 0)
	breakEnd := clock(3, 0)

	times := make([]schedule.WorkScheduleTime, 0, 5)
	for day := 1; day <= 5; day++ {
		times = append(times, schedule.WorkScheduleTime{
			WorkScheduleID:    workScheduleID,
			DayOfWeek:         day,
			ClockInTime:       clock(22, 0),
			BreakStartTime:    &breakStart,
			BreakEndTime:      &breakEnd,
			ClockOutTime:      clock(6, 0),
			IsNextDayCheckout: true,
		})
	}
	return times
}

// WorkScheduleDefinition holds a schedule and its time generator
type WorkScheduleDefinition struct {
	Schedule    schedule.WorkSchedule
	TimesGetter func(workScheduleID string) []schedule.WorkScheduleTime
}

// GetAllDefaultWorkSchedules returns all default work schedules for a new company
func GetAllDefaultWorkSchedules(companyID string) []WorkScheduleDefinition {
	return []WorkScheduleDefinition{
		{
			Schedule:    GetDefaultWorkSchedule(companyID),
			TimesGetter: GetDefaultWorkScheduleTimes,
		},
		{
			Schedule:    GetNightShiftWorkSchedule(companyID),
			TimesGetter: GetNightShiftWorkScheduleTimes,
		},
	}
}
