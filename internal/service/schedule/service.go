package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/schedule"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/timemath"
)

type providerImpl struct {
	workScheduleTimeRepo       schedule.WorkScheduleTimeRepository
	employeeScheduleAssignRepo schedule.EmployeeScheduleAssignmentRepository
	overlapResolver            leave.OverlapResolver
}

func NewProvider(
	workScheduleTimeRepo schedule.WorkScheduleTimeRepository,
	employeeScheduleAssignRepo schedule.EmployeeScheduleAssignmentRepository,
	overlapResolver leave.OverlapResolver,
) schedule.Provider {
	return &providerImpl{
		workScheduleTimeRepo:       workScheduleTimeRepo,
		employeeScheduleAssignRepo: employeeScheduleAssignRepo,
		overlapResolver:            overlapResolver,
	}
}

// RequiredHours implements schedule.Provider.
func (p *providerImpl) RequiredHours(ctx context.Context, emp employee.Employee, from, to time.Time, leaveAware bool) (float64, error) {
	loc := timemath.LoadLocation(emp.Timezone)
	dates := localDatesStartingIn(from, to, loc)
	if len(dates) == 0 {
		return 0, nil
	}
	first, last := dates[0], dates[len(dates)-1]

	assignments, err := p.employeeScheduleAssignRepo.GetScheduleAssignments(ctx, emp.ID, first, last)
	if err != nil {
		return 0, fmt.Errorf("failed to get schedule assignments: %w", err)
	}

	excused := make(map[time.Time]bool)
	if leaveAware && p.overlapResolver != nil {
		leaves, err := p.overlapResolver.Overlapping(ctx, emp.ID, first, last)
		if err != nil {
			return 0, fmt.Errorf("failed to get employee leave: %w", err)
		}
		for _, l := range leaves {
			// compensation leave is paid from the overtime balance, the day stays required
			if l.OvertimeDeductible {
				continue
			}
			for _, d := range timemath.Dates(l.StartDate, l.EndDate) {
				excused[d] = true
			}
		}
	}

	timesBySchedule := make(map[string][]schedule.WorkScheduleTime)
	total := 0.0
	for _, date := range dates {
		if excused[date] {
			continue
		}

		scheduleID := scheduleFor(emp, assignments, date)
		if scheduleID == "" {
			continue
		}

		times, ok := timesBySchedule[scheduleID]
		if !ok {
			times, err = p.workScheduleTimeRepo.GetByWorkScheduleID(ctx, scheduleID)
			if err != nil {
				return 0, fmt.Errorf("failed to get work schedule times: %w", err)
			}
			timesBySchedule[scheduleID] = times
		}

		weekday := schedule.ISOWeekday(date.Weekday())
		for _, t := range times {
			if t.DayOfWeek == weekday {
				total += t.RequiredHours()
				break
			}
		}
	}

	return total, nil
}

// scheduleFor picks the assignment covering date, falling back to the employee's default schedule.
func scheduleFor(emp employee.Employee, assignments []schedule.EmployeeScheduleAssignment, date time.Time) string {
	for _, a := range assignments {
		if a.Covers(date) {
			return a.WorkScheduleID
		}
	}
	if emp.WorkScheduleID != nil {
		return *emp.WorkScheduleID
	}
	return ""
}

// localDatesStartingIn lists the local calendar dates whose midnight in loc lies in [from, to).
func localDatesStartingIn(from, to time.Time, loc *time.Location) []time.Time {
	var dates []time.Time
	date := timemath.DateOf(from, loc)
	for {
		start, _ := timemath.LocalDayBounds(date, loc)
		if !start.Before(to) {
			break
		}
		if !start.Before(from) {
			dates = append(dates, date)
		}
		date = date.AddDate(0, 0, 1)
	}
	return dates
}
