package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/activity"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/overtime"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/timemath"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/validator"
)

const messageTimeLayout = "2006-01-02 15:04:05"

type AttendanceServiceImpl struct {
	attendance.IntervalRepository
	employeeRepo    employee.EmployeeRepository
	messageRepo     activity.MessageRepository
	overtimeService overtime.OvertimeService
	tx              database.Transactor
}

func NewAttendanceService(
	intervalRepo attendance.IntervalRepository,
	employeeRepo employee.EmployeeRepository,
	messageRepo activity.MessageRepository,
	overtimeService overtime.OvertimeService,
	tx database.Transactor,
) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		IntervalRepository: intervalRepo,
		employeeRepo:       employeeRepo,
		messageRepo:        messageRepo,
		overtimeService:    overtimeService,
		tx:                 tx,
	}
}

// Create implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) Create(ctx context.Context, req attendance.CreateIntervalRequest) (attendance.IntervalResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.IntervalResponse{}, err
	}

	emp, err := a.resolveEmployee(ctx, req.EmployeeID, req.CompanyID)
	if err != nil {
		return attendance.IntervalResponse{}, err
	}

	var created attendance.Interval
	err = a.tx.WithinTx(ctx, func(ctx context.Context) error {
		created, err = a.createInterval(ctx, emp, req.ToInterval())
		return err
	})
	if err != nil {
		return attendance.IntervalResponse{}, err
	}

	return created.ToResponse(), nil
}

// BatchCreate implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) BatchCreate(ctx context.Context, req attendance.BatchCreateIntervalRequest) ([]attendance.IntervalResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	employees := make(map[string]employee.Employee)
	for _, item := range req.Intervals {
		if _, ok := employees[item.EmployeeID]; ok {
			continue
		}
		emp, err := a.resolveEmployee(ctx, item.EmployeeID, req.CompanyID)
		if err != nil {
			return nil, err
		}
		employees[item.EmployeeID] = emp
	}

	type employeeDay struct {
		employeeID string
		date       time.Time
	}

	var ids []string
	err := a.tx.WithinTx(ctx, func(ctx context.Context) error {
		days := make(map[employeeDay]struct{})
		var order []employeeDay
		for _, item := range req.Intervals {
			emp := employees[item.EmployeeID]
			interval := item.ToInterval()
			interval.CompanyID = emp.CompanyID

			created, err := a.IntervalRepository.Create(ctx, interval)
			if err != nil {
				return fmt.Errorf("failed to create attendance interval: %w", err)
			}
			ids = append(ids, created.ID)

			key := employeeDay{employeeID: emp.ID, date: timemath.DateOf(created.CheckIn, timemath.LoadLocation(emp.Timezone))}
			if _, seen := days[key]; !seen {
				days[key] = struct{}{}
				order = append(order, key)
			}
		}

		// Each affected day is recomputed once, after all of its intervals exist.
		for _, key := range order {
			if err := a.recomputeDay(ctx, employees[key.employeeID], key.date); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	responses := make([]attendance.IntervalResponse, 0, len(ids))
	for _, id := range ids {
		interval, err := a.IntervalRepository.GetByID(ctx, id, req.CompanyID)
		if err != nil {
			return nil, fmt.Errorf("failed to reload attendance interval: %w", err)
		}
		responses = append(responses, interval.ToResponse())
	}
	return responses, nil
}

// Update implements attendance.AttendanceService.
// Changing the employee or moving the check-in to another day recomputes both days.
func (a *AttendanceServiceImpl) Update(ctx context.Context, req attendance.UpdateIntervalRequest) (attendance.IntervalResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.IntervalResponse{}, err
	}

	existing, err := a.IntervalRepository.GetByID(ctx, req.ID, req.CompanyID)
	if err != nil {
		return attendance.IntervalResponse{}, err
	}

	oldEmp, err := a.resolveEmployee(ctx, existing.EmployeeID, req.CompanyID)
	if err != nil {
		return attendance.IntervalResponse{}, err
	}

	updated := existing
	newEmp := oldEmp
	if req.EmployeeID != nil && *req.EmployeeID != existing.EmployeeID {
		newEmp, err = a.resolveEmployee(ctx, *req.EmployeeID, req.CompanyID)
		if err != nil {
			return attendance.IntervalResponse{}, err
		}
		updated.EmployeeID = newEmp.ID
	}
	if req.CheckIn != nil {
		checkIn, _ := validator.IsValidDateTime(*req.CheckIn)
		updated.CheckIn = checkIn.UTC()
	}
	if req.CheckOut != nil {
		if *req.CheckOut == "" {
			updated.CheckOut = nil
		} else {
			checkOut, _ := validator.IsValidDateTime(*req.CheckOut)
			checkOut = checkOut.UTC()
			updated.CheckOut = &checkOut
		}
	}
	if req.ManualExtraHours != nil {
		updated.ManualExtraHours = *req.ManualExtraHours
	}

	err = a.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := a.IntervalRepository.Update(ctx, updated); err != nil {
			return fmt.Errorf("failed to update attendance interval: %w", err)
		}

		if body, changed := intervalChangeMessage(req.ActorName, existing, updated, timemath.LoadLocation(newEmp.Timezone)); changed {
			if _, err := a.messageRepo.Post(ctx, activity.Message{
				EmployeeID: newEmp.ID,
				AuthorName: req.ActorName,
				Body:       body,
			}); err != nil {
				return fmt.Errorf("failed to post activity message: %w", err)
			}
		}

		oldDate := timemath.DateOf(existing.CheckIn, timemath.LoadLocation(oldEmp.Timezone))
		newDate := timemath.DateOf(updated.CheckIn, timemath.LoadLocation(newEmp.Timezone))

		if err := a.recomputeDay(ctx, oldEmp, oldDate); err != nil {
			return err
		}
		if oldEmp.ID != newEmp.ID || !oldDate.Equal(newDate) {
			if err := a.recomputeDay(ctx, newEmp, newDate); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return attendance.IntervalResponse{}, err
	}

	return a.Get(ctx, req.ID, req.CompanyID)
}

// Get implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) Get(ctx context.Context, id string, companyID string) (attendance.IntervalResponse, error) {
	interval, err := a.IntervalRepository.GetByID(ctx, id, companyID)
	if err != nil {
		return attendance.IntervalResponse{}, err
	}
	return interval.ToResponse(), nil
}

// List implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) List(ctx context.Context, filter attendance.IntervalFilter) (attendance.ListIntervalResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.ListIntervalResponse{}, err
	}

	intervals, total, err := a.IntervalRepository.List(ctx, filter)
	if err != nil {
		return attendance.ListIntervalResponse{}, fmt.Errorf("failed to list attendance intervals: %w", err)
	}

	responses := make([]attendance.IntervalResponse, 0, len(intervals))
	for _, interval := range intervals {
		responses = append(responses, interval.ToResponse())
	}

	return attendance.ListIntervalResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: int(math.Ceil(float64(total) / float64(filter.Limit))),
		Intervals:  responses,
	}, nil
}

// Delete implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) Delete(ctx context.Context, id string, companyID string) error {
	existing, err := a.IntervalRepository.GetByID(ctx, id, companyID)
	if err != nil {
		return err
	}

	emp, err := a.resolveEmployee(ctx, existing.EmployeeID, companyID)
	if err != nil {
		return err
	}

	return a.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := a.IntervalRepository.Delete(ctx, id, companyID); err != nil {
			if errors.Is(err, attendance.ErrIntervalNotFound) {
				return err
			}
			return fmt.Errorf("failed to delete attendance interval: %w", err)
		}
		return a.recomputeDay(ctx, emp, timemath.DateOf(existing.CheckIn, timemath.LoadLocation(emp.Timezone)))
	})
}

// AddManualHours implements attendance.AttendanceService.
// The hours are stored on a zero-length interval at 06:00 local time.
func (a *AttendanceServiceImpl) AddManualHours(ctx context.Context, req attendance.ManualHoursRequest) (attendance.IntervalResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.IntervalResponse{}, err
	}

	emp, err := a.resolveEmployee(ctx, req.EmployeeID, req.CompanyID)
	if err != nil {
		return attendance.IntervalResponse{}, err
	}

	date, _ := time.Parse(timemath.DateLayout, req.Date)
	loc := timemath.LoadLocation(emp.Timezone)
	dayStart, dayEnd := timemath.LocalDayBounds(date, loc)

	var created attendance.Interval
	err = a.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := a.IntervalRepository.LockEmployeeDay(ctx, emp.ID, date); err != nil {
			return err
		}

		logged, err := a.IntervalRepository.ExistsBetween(ctx, emp.ID, dayStart, dayEnd)
		if err != nil {
			return fmt.Errorf("failed to check day attendance: %w", err)
		}
		if logged {
			return attendance.ErrAttendanceAlreadyLogged
		}

		if _, err := a.messageRepo.Post(ctx, activity.Message{
			EmployeeID: emp.ID,
			AuthorName: req.ActorName,
			Body:       fmt.Sprintf("%s logged %s extra hours on %s.", req.ActorName, formatHours(req.Hours), req.Date),
		}); err != nil {
			return fmt.Errorf("failed to post activity message: %w", err)
		}

		at := timemath.AtLocalClock(date, 6, 0, loc)
		created, err = a.createInterval(ctx, emp, attendance.Interval{
			CheckIn:          at,
			CheckOut:         &at,
			ManualExtraHours: req.Hours,
		})
		return err
	})
	if err != nil {
		return attendance.IntervalResponse{}, err
	}

	return created.ToResponse(), nil
}

// RecomputeDay implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) RecomputeDay(ctx context.Context, employeeID string, date time.Time) error {
	emp, err := a.resolveEmployee(ctx, employeeID, "")
	if err != nil {
		return err
	}
	return a.tx.WithinTx(ctx, func(ctx context.Context) error {
		return a.recomputeDay(ctx, emp, timemath.TruncateDate(date))
	})
}

// createInterval inserts the interval for emp and recomputes its day. Must run inside a transaction.
func (a *AttendanceServiceImpl) createInterval(ctx context.Context, emp employee.Employee, interval attendance.Interval) (attendance.Interval, error) {
	interval.EmployeeID = emp.ID
	interval.CompanyID = emp.CompanyID

	created, err := a.IntervalRepository.Create(ctx, interval)
	if err != nil {
		return attendance.Interval{}, fmt.Errorf("failed to create attendance interval: %w", err)
	}

	if err := a.recomputeDay(ctx, emp, timemath.DateOf(created.CheckIn, timemath.LoadLocation(emp.Timezone))); err != nil {
		return attendance.Interval{}, err
	}

	reloaded, err := a.IntervalRepository.GetByID(ctx, created.ID, emp.CompanyID)
	if err != nil {
		return attendance.Interval{}, fmt.Errorf("failed to reload attendance interval: %w", err)
	}
	return reloaded, nil
}

// recomputeDay runs break time, worked hours and the day's overtime, in that
// order, for one employee-day. date is the local calendar date.
func (a *AttendanceServiceImpl) recomputeDay(ctx context.Context, emp employee.Employee, date time.Time) error {
	loc := timemath.LoadLocation(emp.Timezone)
	dayStart, dayEnd := timemath.LocalDayBounds(date, loc)

	if err := a.IntervalRepository.LockEmployeeDay(ctx, emp.ID, date); err != nil {
		return err
	}

	day, err := a.IntervalRepository.ListByEmployeeBetween(ctx, emp.ID, dayStart, dayEnd)
	if err != nil {
		return fmt.Errorf("failed to list day attendance: %w", err)
	}

	stored := make(map[string]attendance.Interval, len(day))
	for _, iv := range day {
		stored[iv.ID] = iv
	}

	for _, iv := range ComputeDay(day, dayEnd) {
		prev := stored[iv.ID]
		if prev.NetWorkingTime == iv.NetWorkingTime &&
			prev.BreakDeduction == iv.BreakDeduction &&
			prev.WorkedHours == iv.WorkedHours {
			continue
		}
		if err := a.IntervalRepository.UpdateDerived(ctx, iv.ID, iv.NetWorkingTime, iv.BreakDeduction, iv.WorkedHours); err != nil {
			return fmt.Errorf("failed to store computed hours: %w", err)
		}
	}

	if _, err := a.overtimeService.ReconcileDay(ctx, emp.ID, date); err != nil {
		return fmt.Errorf("failed to reconcile day overtime: %w", err)
	}

	slog.Debug("attendance day recomputed", "employee_id", emp.ID, "date", date.Format(timemath.DateLayout), "intervals", len(day))
	return nil
}

func (a *AttendanceServiceImpl) resolveEmployee(ctx context.Context, employeeID, companyID string) (employee.Employee, error) {
	emp, err := a.employeeRepo.GetByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return employee.Employee{}, err
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee: %w", err)
	}
	if companyID != "" && emp.CompanyID != companyID {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return emp, nil
}

// intervalChangeMessage describes edits of an already set check-in or check-out.
func intervalChangeMessage(actor string, before, after attendance.Interval, loc *time.Location) (string, bool) {
	var lines []string
	if !before.CheckIn.IsZero() && !before.CheckIn.Equal(after.CheckIn) {
		lines = append(lines, fmt.Sprintf("Check in: %s → %s",
			before.CheckIn.In(loc).Format(messageTimeLayout),
			after.CheckIn.In(loc).Format(messageTimeLayout),
		))
	}
	if before.CheckOut != nil && after.CheckOut != nil && !before.CheckOut.Equal(*after.CheckOut) {
		lines = append(lines, fmt.Sprintf("Check out: %s → %s",
			before.CheckOut.In(loc).Format(messageTimeLayout),
			after.CheckOut.In(loc).Format(messageTimeLayout),
		))
	}
	if len(lines) == 0 {
		return "", false
	}
	return actor + " changed Attendance Data:\n" + strings.Join(lines, "\n"), true
}

func formatHours(h float64) string {
	return fmt.Sprintf("%g", timemath.RoundHours(h))
}
