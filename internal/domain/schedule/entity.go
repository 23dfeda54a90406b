package schedule

import "time"

type WorkSchedule struct {
	ID        string
	CompanyID string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time

	Times []WorkScheduleTime
}

// WorkScheduleTime is the shift of one weekday. Clock fields only carry a time of day.
type WorkScheduleTime struct {
	ID                string
	WorkScheduleID    string
	DayOfWeek         int // 1=Monday, ..., 7=Sunday
	ClockInTime       time.Time
	BreakStartTime    *time.Time
	BreakEndTime      *time.Time
	ClockOutTime      time.Time
	IsNextDayCheckout bool // Indicates if checkout is on the next day
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// EmployeeScheduleAssignment overrides the employee's default schedule for a date span.
type EmployeeScheduleAssignment struct {
	ID             string
	EmployeeID     string
	WorkScheduleID string
	StartDate      time.Time
	EndDate        time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// RequiredHours is the scheduled shift length minus the scheduled break.
func (t WorkScheduleTime) RequiredHours() float64 {
	in := clockOffset(t.ClockInTime)
	out := clockOffset(t.ClockOutTime)
	if t.IsNextDayCheckout || out < in {
		out += 24 * time.Hour
	}
	shift := out - in
	if t.BreakStartTime != nil && t.BreakEndTime != nil {
		bs := clockOffset(*t.BreakStartTime)
		be := clockOffset(*t.BreakEndTime)
		if be < bs {
			be += 24 * time.Hour
		}
		shift -= be - bs
	}
	if shift < 0 {
		return 0
	}
	return shift.Hours()
}

// Covers reports whether the assignment applies on the calendar date.
func (a EmployeeScheduleAssignment) Covers(date time.Time) bool {
	return !date.Before(a.StartDate) && !date.After(a.EndDate)
}

// ISOWeekday maps time.Weekday to 1=Monday, ..., 7=Sunday.
func ISOWeekday(d time.Weekday) int {
	if d == time.Sunday {
		return 7
	}
	return int(d)
}

func clockOffset(t time.Time) time.Duration {
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute + time.Duration(t.Second())*time.Second
}
