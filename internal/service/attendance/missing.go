package attendance

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/schedule"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/email"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/timemath"
	"golang.org/x/sync/errgroup"
)

// Local clock times of generated placeholder intervals.
const (
	backfillPlaceholderHour = 4
	notifyPlaceholderHour   = 6
)

type MissingScannerImpl struct {
	intervalRepo      attendance.IntervalRepository
	employeeRepo      employee.EmployeeRepository
	attendanceService attendance.AttendanceService
	scheduleProvider  schedule.Provider
	overlapResolver   leave.OverlapResolver
	emailService      email.EmailService
	tx                database.Transactor

	workers           int
	notifyPlaceholder bool
	now               func() time.Time
}

type MissingScannerOptions struct {
	// Workers bounds how many days Backfill processes at once
	Workers int
	// NotifyPlaceholder also records a 06:00 placeholder for every gap NotifyToday reports
	NotifyPlaceholder bool
	// Now overrides the clock, mainly for tests
	Now func() time.Time
}

func NewMissingAttendanceScanner(
	intervalRepo attendance.IntervalRepository,
	employeeRepo employee.EmployeeRepository,
	attendanceService attendance.AttendanceService,
	scheduleProvider schedule.Provider,
	overlapResolver leave.OverlapResolver,
	emailService email.EmailService,
	tx database.Transactor,
	opts MissingScannerOptions,
) attendance.MissingAttendanceScanner {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &MissingScannerImpl{
		intervalRepo:      intervalRepo,
		employeeRepo:      employeeRepo,
		attendanceService: attendanceService,
		scheduleProvider:  scheduleProvider,
		overlapResolver:   overlapResolver,
		emailService:      emailService,
		tx:                tx,
		workers:           opts.Workers,
		notifyPlaceholder: opts.NotifyPlaceholder,
		now:               opts.Now,
	}
}

// Eligible implements attendance.MissingAttendanceScanner.
// A day is missing when the schedule requires hours, no approved leave covers
// it and no interval was logged.
func (s *MissingScannerImpl) Eligible(ctx context.Context, emp employee.Employee, date time.Time) (bool, error) {
	date = timemath.TruncateDate(date)
	loc := timemath.LoadLocation(emp.Timezone)
	dayStart, dayEnd := timemath.LocalDayBounds(date, loc)

	required, err := s.scheduleProvider.RequiredHours(ctx, emp, dayStart, dayEnd, true)
	if err != nil {
		return false, fmt.Errorf("failed to get required hours: %w", err)
	}
	if required <= 0 {
		return false, nil
	}

	leaves, err := s.overlapResolver.Overlapping(ctx, emp.ID, date, date)
	if err != nil {
		return false, fmt.Errorf("failed to check employee leave: %w", err)
	}
	if len(leaves) > 0 {
		return false, nil
	}

	logged, err := s.intervalRepo.ExistsBetween(ctx, emp.ID, dayStart, dayEnd)
	if err != nil {
		return false, fmt.Errorf("failed to check day attendance: %w", err)
	}
	return !logged, nil
}

// Backfill implements attendance.MissingAttendanceScanner.
// Every day runs in its own transaction, so an interrupted run can be resumed
// from any day without duplicating placeholders. An employee's current local
// day is never filled here; NotifyToday owns it.
func (s *MissingScannerImpl) Backfill(ctx context.Context, from, to time.Time) (attendance.BackfillResponse, error) {
	dates := timemath.Dates(from, to)
	if len(dates) == 0 {
		return attendance.BackfillResponse{}, nil
	}

	employees, err := s.employeeRepo.ListDailyAttendance(ctx)
	if err != nil {
		return attendance.BackfillResponse{}, fmt.Errorf("failed to list employees: %w", err)
	}

	slog.Info("Missing attendance backfill started",
		"from", dates[0].Format(timemath.DateLayout),
		"to", dates[len(dates)-1].Format(timemath.DateLayout),
		"employees", len(employees),
		"workers", s.workers,
	)

	var created atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for _, date := range dates {
		g.Go(func() error {
			n, err := s.backfillDay(gctx, employees, date)
			if err != nil {
				return fmt.Errorf("backfill %s: %w", date.Format(timemath.DateLayout), err)
			}
			created.Add(int64(n))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return attendance.BackfillResponse{Days: len(dates), Created: int(created.Load())}, err
	}

	resp := attendance.BackfillResponse{Days: len(dates), Created: int(created.Load())}
	slog.Info("Missing attendance backfill finished", "days", resp.Days, "created", resp.Created)
	return resp, nil
}

func (s *MissingScannerImpl) backfillDay(ctx context.Context, employees []employee.Employee, date time.Time) (int, error) {
	created := 0
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		created = 0
		for _, emp := range employees {
			if !emp.CheckDailyAttendance || !emp.ContractStartedBy(date) {
				continue
			}
			if !date.Before(timemath.DateOf(s.now(), timemath.LoadLocation(emp.Timezone))) {
				continue
			}

			missing, err := s.Eligible(ctx, emp, date)
			if err != nil {
				return err
			}
			if !missing {
				continue
			}

			if err := s.createPlaceholder(ctx, emp, date, backfillPlaceholderHour); err != nil {
				return err
			}
			created++
		}
		return nil
	})
	return created, err
}

// NotifyToday implements attendance.MissingAttendanceScanner.
func (s *MissingScannerImpl) NotifyToday(ctx context.Context) (attendance.NotifyResponse, error) {
	employees, err := s.employeeRepo.ListDailyAttendance(ctx)
	if err != nil {
		return attendance.NotifyResponse{}, fmt.Errorf("failed to list employees: %w", err)
	}

	var resp attendance.NotifyResponse
	now := s.now()

	for _, emp := range employees {
		if !emp.CheckDailyAttendance || !emp.HasManager() {
			continue
		}
		resp.Checked++

		today := timemath.DateOf(now, timemath.LoadLocation(emp.Timezone))
		missing, err := s.Eligible(ctx, emp, today)
		if err != nil {
			return resp, err
		}
		if !missing {
			continue
		}
		resp.Missing++

		if s.notifyPlaceholder {
			if err := s.createPlaceholder(ctx, emp, today, notifyPlaceholderHour); err != nil {
				return resp, err
			}
			resp.Placeholders++
		}

		if !emp.SendMissingAttendanceMail {
			continue
		}
		if err := s.notify(ctx, emp, today); err != nil {
			slog.Error("Failed to send missing attendance notification",
				"employee_id", emp.ID,
				"date", today.Format(timemath.DateLayout),
				"error", err,
			)
			continue
		}
		resp.Notified++
	}

	return resp, nil
}

func (s *MissingScannerImpl) notify(ctx context.Context, emp employee.Employee, date time.Time) error {
	manager, err := s.employeeRepo.GetByID(ctx, *emp.ManagerID)
	if err != nil {
		return fmt.Errorf("failed to get manager: %w", err)
	}

	if err := s.emailService.SendMissingAttendanceManager(manager.Email, manager.FullName, emp.FullName, date); err != nil {
		return err
	}
	return s.emailService.SendMissingAttendanceEmployee(emp.Email, emp.FullName, date)
}

// createPlaceholder stores a zero-length interval at hour:00 local time through the attendance pipeline.
func (s *MissingScannerImpl) createPlaceholder(ctx context.Context, emp employee.Employee, date time.Time, hour int) error {
	at := timemath.AtLocalClock(date, hour, 0, timemath.LoadLocation(emp.Timezone)).Format(time.RFC3339)
	_, err := s.attendanceService.Create(ctx, attendance.CreateIntervalRequest{
		EmployeeID: emp.ID,
		CheckIn:    at,
		CheckOut:   &at,
	})
	if err != nil {
		return fmt.Errorf("failed to create placeholder attendance for employee %s: %w", emp.ID, err)
	}
	return nil
}
