package overtime

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/overtime"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/schedule"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/timemath"
)

type OvertimeServiceImpl struct {
	overtime.OvertimeRepository
	intervalRepo     attendance.IntervalRepository
	employeeRepo     employee.EmployeeRepository
	leaveRequestRepo leave.LeaveRequestRepository
	scheduleProvider schedule.Provider
	overlapResolver  leave.OverlapResolver
	tx               database.Transactor
}

func NewOvertimeService(
	overtimeRepo overtime.OvertimeRepository,
	intervalRepo attendance.IntervalRepository,
	employeeRepo employee.EmployeeRepository,
	leaveRequestRepo leave.LeaveRequestRepository,
	scheduleProvider schedule.Provider,
	overlapResolver leave.OverlapResolver,
	tx database.Transactor,
) overtime.OvertimeService {
	return &OvertimeServiceImpl{
		OvertimeRepository: overtimeRepo,
		intervalRepo:       intervalRepo,
		employeeRepo:       employeeRepo,
		leaveRequestRepo:   leaveRequestRepo,
		scheduleProvider:   scheduleProvider,
		overlapResolver:    overlapResolver,
		tx:                 tx,
	}
}

// ReconcileDay implements overtime.OvertimeService.
// The day record is created with a zero duration when missing, then recomputed.
func (s *OvertimeServiceImpl) ReconcileDay(ctx context.Context, employeeID string, date time.Time) (overtime.Record, error) {
	date = timemath.TruncateDate(date)

	emp, err := s.resolveEmployee(ctx, employeeID, "")
	if err != nil {
		return overtime.Record{}, err
	}

	var record overtime.Record
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.intervalRepo.LockEmployeeDay(ctx, emp.ID, date); err != nil {
			return err
		}

		existing, err := s.OvertimeRepository.GetDayRecord(ctx, emp.ID, date)
		if err != nil {
			return fmt.Errorf("failed to get day overtime: %w", err)
		}
		if existing == nil {
			created, err := s.OvertimeRepository.Create(ctx, overtime.Record{
				CompanyID:   emp.CompanyID,
				EmployeeID:  emp.ID,
				Date:        date,
				RequestDate: date,
				Duration:    0,
			})
			if err != nil {
				return fmt.Errorf("failed to create day overtime: %w", err)
			}
			existing = &created
		}

		record = *existing
		if err := s.computeDayRecord(ctx, emp, &record); err != nil {
			return err
		}
		if err := s.OvertimeRepository.Update(ctx, record); err != nil {
			return fmt.Errorf("failed to update day overtime: %w", err)
		}
		return nil
	})
	if err != nil {
		return overtime.Record{}, err
	}

	return record, nil
}

// computeDayRecord sets duration, worked hours and request date of a non-adjustment record.
func (s *OvertimeServiceImpl) computeDayRecord(ctx context.Context, emp employee.Employee, record *overtime.Record) error {
	loc := timemath.LoadLocation(emp.Timezone)
	dayStart, dayEnd := timemath.LocalDayBounds(record.Date, loc)

	required, err := s.scheduleProvider.RequiredHours(ctx, emp, dayStart, dayEnd, true)
	if err != nil {
		return fmt.Errorf("failed to get required hours: %w", err)
	}

	logged, err := s.loggedHours(ctx, emp.ID, dayStart, dayEnd)
	if err != nil {
		return err
	}

	leaves, err := s.overlapResolver.Overlapping(ctx, emp.ID, record.Date, record.Date)
	if err != nil {
		return fmt.Errorf("failed to get overlapping leave: %w", err)
	}

	leaveHours, err := s.leaveHours(ctx, leaves, required)
	if err != nil {
		return err
	}

	record.Duration = overtime.DayDuration(logged, required, leaveHours)
	record.WorkedHours = logged
	record.RequestDate = record.Date
	return nil
}

// computeAdjustment refreshes the derived fields of an adjustment record. Its duration is left as set.
func (s *OvertimeServiceImpl) computeAdjustment(ctx context.Context, emp employee.Employee, record *overtime.Record) error {
	requestDate := record.Date
	if record.LeaveID != nil {
		req, err := s.leaveRequestRepo.GetByID(ctx, *record.LeaveID)
		if err != nil && !errors.Is(err, leave.ErrLeaveRequestNotFound) {
			return fmt.Errorf("failed to get linked leave request: %w", err)
		}
		if err == nil {
			requestDate = timemath.TruncateDate(req.StartDate)
		}
	}

	dayStart, dayEnd := timemath.LocalDayBounds(requestDate, timemath.LoadLocation(emp.Timezone))
	logged, err := s.loggedHours(ctx, emp.ID, dayStart, dayEnd)
	if err != nil {
		return err
	}

	record.RequestDate = requestDate
	record.WorkedHours = logged
	return nil
}

// leaveHours sums the adjustments linked to overlapping deductible leave. When
// leave overlaps but none of it is backed by an adjustment, the whole
// requirement is excused.
func (s *OvertimeServiceImpl) leaveHours(ctx context.Context, leaves []leave.LeaveRequest, required float64) (float64, error) {
	seen := make(map[string]struct{})
	var ids []string
	for _, l := range leaves {
		if !l.OvertimeDeductible || l.OvertimeID == nil {
			continue
		}
		if _, dup := seen[*l.OvertimeID]; dup {
			continue
		}
		seen[*l.OvertimeID] = struct{}{}
		ids = append(ids, *l.OvertimeID)
	}

	if len(leaves) > 0 && len(ids) == 0 {
		return -required, nil
	}
	if len(ids) == 0 {
		return 0, nil
	}

	records, err := s.OvertimeRepository.GetByIDs(ctx, ids)
	if err != nil {
		return 0, fmt.Errorf("failed to get leave overtime: %w", err)
	}
	if len(leaves) > 0 && len(records) == 0 {
		return -required, nil
	}

	total := 0.0
	for _, r := range records {
		total += r.Duration
	}
	return total, nil
}

func (s *OvertimeServiceImpl) loggedHours(ctx context.Context, employeeID string, from, to time.Time) (float64, error) {
	day, err := s.intervalRepo.ListByEmployeeBetween(ctx, employeeID, from, to)
	if err != nil {
		return 0, fmt.Errorf("failed to list day attendance: %w", err)
	}
	total := 0.0
	for _, iv := range day {
		total += iv.WorkedHours
	}
	return total, nil
}

// Create implements overtime.OvertimeService.
// Day records go through the upsert, so repeated creates never duplicate them.
func (s *OvertimeServiceImpl) Create(ctx context.Context, req overtime.CreateOvertimeRequest) (overtime.OvertimeResponse, error) {
	if err := req.Validate(); err != nil {
		return overtime.OvertimeResponse{}, err
	}

	emp, err := s.resolveEmployee(ctx, req.EmployeeID, req.CompanyID)
	if err != nil {
		return overtime.OvertimeResponse{}, err
	}
	date, _ := time.Parse(timemath.DateLayout, req.Date)

	if !req.IsAdjustment {
		record, err := s.ReconcileDay(ctx, emp.ID, date)
		if err != nil {
			return overtime.OvertimeResponse{}, err
		}
		return record.ToResponse(), nil
	}

	var created overtime.Record
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		leaveReq, err := s.leaveRequestRepo.GetByID(ctx, *req.LeaveID)
		if err != nil {
			return err
		}
		if leaveReq.EmployeeID != emp.ID {
			return overtime.ErrOvertimeEmployeeMismatch
		}
		if leaveReq.OvertimeID != nil {
			return overtime.ErrLeaveAlreadyHasOvertime
		}

		record := overtime.Record{
			CompanyID:    emp.CompanyID,
			EmployeeID:   emp.ID,
			Date:         date,
			Duration:     *req.Duration,
			IsAdjustment: true,
			LeaveID:      req.LeaveID,
		}
		if err := s.computeAdjustment(ctx, emp, &record); err != nil {
			return err
		}

		created, err = s.OvertimeRepository.Create(ctx, record)
		if err != nil {
			return fmt.Errorf("failed to create overtime adjustment: %w", err)
		}

		if err := s.leaveRequestRepo.SetOvertimeID(ctx, leaveReq.ID, &created.ID); err != nil {
			return fmt.Errorf("failed to link leave request to overtime: %w", err)
		}

		return s.RefreshDays(ctx, emp.ID, leaveReq.StartDate, leaveReq.EndDate)
	})
	if err != nil {
		return overtime.OvertimeResponse{}, err
	}

	slog.Info("Overtime adjustment created", "overtime_id", created.ID, "employee_id", emp.ID, "leave_id", *req.LeaveID, "duration", created.Duration)
	return created.ToResponse(), nil
}

// Update implements overtime.OvertimeService.
func (s *OvertimeServiceImpl) Update(ctx context.Context, req overtime.UpdateOvertimeRequest) (overtime.OvertimeResponse, error) {
	if err := req.Validate(); err != nil {
		return overtime.OvertimeResponse{}, err
	}

	existing, err := s.getForCompany(ctx, req.ID, req.CompanyID)
	if err != nil {
		return overtime.OvertimeResponse{}, err
	}

	if !existing.IsAdjustment && req.Duration != nil {
		return overtime.OvertimeResponse{}, overtime.ErrDurationNotEditable
	}

	updated := existing
	if req.EmployeeID != nil {
		updated.EmployeeID = *req.EmployeeID
	}
	if req.Date != nil {
		updated.Date, _ = time.Parse(timemath.DateLayout, *req.Date)
	}
	if req.Duration != nil {
		updated.Duration = *req.Duration
	}

	emp, err := s.resolveEmployee(ctx, updated.EmployeeID, req.CompanyID)
	if err != nil {
		return overtime.OvertimeResponse{}, err
	}
	updated.CompanyID = emp.CompanyID

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if updated.IsAdjustment {
			if err := s.computeAdjustment(ctx, emp, &updated); err != nil {
				return err
			}
			if err := s.OvertimeRepository.Update(ctx, updated); err != nil {
				return fmt.Errorf("failed to update overtime adjustment: %w", err)
			}
			return s.refreshLinkedLeave(ctx, updated)
		}

		moved := updated.EmployeeID != existing.EmployeeID || !updated.Date.Equal(existing.Date)
		if moved {
			if err := s.intervalRepo.LockEmployeeDay(ctx, emp.ID, updated.Date); err != nil {
				return err
			}
			other, err := s.OvertimeRepository.GetDayRecord(ctx, emp.ID, updated.Date)
			if err != nil {
				return fmt.Errorf("failed to get day overtime: %w", err)
			}
			if other != nil && other.ID != updated.ID {
				return overtime.ErrDayRecordExists
			}
		}

		if err := s.computeDayRecord(ctx, emp, &updated); err != nil {
			return err
		}
		if err := s.OvertimeRepository.Update(ctx, updated); err != nil {
			return fmt.Errorf("failed to update day overtime: %w", err)
		}
		return nil
	})
	if err != nil {
		return overtime.OvertimeResponse{}, err
	}

	return updated.ToResponse(), nil
}

// Delete implements overtime.OvertimeService.
// Deleting an adjustment unlinks its leave request and refreshes the leave's days.
func (s *OvertimeServiceImpl) Delete(ctx context.Context, id string, companyID string) error {
	existing, err := s.getForCompany(ctx, id, companyID)
	if err != nil {
		return err
	}

	return s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if existing.IsAdjustment && existing.LeaveID != nil {
			if err := s.leaveRequestRepo.SetOvertimeID(ctx, *existing.LeaveID, nil); err != nil && !errors.Is(err, leave.ErrLeaveRequestNotFound) {
				return fmt.Errorf("failed to unlink leave request: %w", err)
			}
		}

		if err := s.OvertimeRepository.Delete(ctx, id); err != nil {
			if errors.Is(err, overtime.ErrOvertimeNotFound) {
				return err
			}
			return fmt.Errorf("failed to delete overtime: %w", err)
		}

		if existing.IsAdjustment {
			return s.refreshLinkedLeave(ctx, existing)
		}
		return nil
	})
}

// Get implements overtime.OvertimeService.
func (s *OvertimeServiceImpl) Get(ctx context.Context, id string, companyID string) (overtime.OvertimeResponse, error) {
	record, err := s.getForCompany(ctx, id, companyID)
	if err != nil {
		return overtime.OvertimeResponse{}, err
	}
	return record.ToResponse(), nil
}

// List implements overtime.OvertimeService.
func (s *OvertimeServiceImpl) List(ctx context.Context, filter overtime.OvertimeFilter) (overtime.ListOvertimeResponse, error) {
	if err := filter.Validate(); err != nil {
		return overtime.ListOvertimeResponse{}, err
	}

	records, total, err := s.OvertimeRepository.List(ctx, filter)
	if err != nil {
		return overtime.ListOvertimeResponse{}, fmt.Errorf("failed to list overtime: %w", err)
	}

	responses := make([]overtime.OvertimeResponse, 0, len(records))
	for _, r := range records {
		responses = append(responses, r.ToResponse())
	}

	return overtime.ListOvertimeResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: int(math.Ceil(float64(total) / float64(filter.Limit))),
		Overtimes:  responses,
	}, nil
}

// Balance implements overtime.OvertimeService.
func (s *OvertimeServiceImpl) Balance(ctx context.Context, employeeID string, companyID string) (overtime.BalanceResponse, error) {
	emp, err := s.resolveEmployee(ctx, employeeID, companyID)
	if err != nil {
		return overtime.BalanceResponse{}, err
	}

	total, err := s.OvertimeRepository.SumDurationByEmployee(ctx, emp.ID)
	if err != nil {
		return overtime.BalanceResponse{}, fmt.Errorf("failed to sum overtime: %w", err)
	}

	return overtime.BalanceResponse{
		EmployeeID: emp.ID,
		Balance:    timemath.RoundHours(total),
	}, nil
}

// RefreshDays implements overtime.OvertimeService.
// Only days that already have a record are touched.
func (s *OvertimeServiceImpl) RefreshDays(ctx context.Context, employeeID string, from, to time.Time) error {
	records, err := s.OvertimeRepository.ListDayRecordsBetween(ctx, employeeID, timemath.TruncateDate(from), timemath.TruncateDate(to))
	if err != nil {
		return fmt.Errorf("failed to list day overtime: %w", err)
	}
	for _, r := range records {
		if _, err := s.ReconcileDay(ctx, r.EmployeeID, r.Date); err != nil {
			return err
		}
	}
	return nil
}

// RecomputeAll implements overtime.OvertimeService.
// Each record is refreshed in its own transaction.
func (s *OvertimeServiceImpl) RecomputeAll(ctx context.Context) (int, error) {
	ids, err := s.OvertimeRepository.ListIDs(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list overtime: %w", err)
	}

	processed := 0
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return processed, err
		}

		record, err := s.OvertimeRepository.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, overtime.ErrOvertimeNotFound) {
				continue
			}
			return processed, fmt.Errorf("failed to get overtime %s: %w", id, err)
		}

		if record.IsAdjustment {
			err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
				emp, err := s.resolveEmployee(ctx, record.EmployeeID, "")
				if err != nil {
					return err
				}
				if err := s.computeAdjustment(ctx, emp, &record); err != nil {
					return err
				}
				return s.OvertimeRepository.Update(ctx, record)
			})
		} else {
			_, err = s.ReconcileDay(ctx, record.EmployeeID, record.Date)
		}
		if err != nil {
			return processed, fmt.Errorf("failed to recompute overtime %s: %w", id, err)
		}
		processed++
	}

	slog.Info("Overtime records recomputed", "count", processed)
	return processed, nil
}

func (s *OvertimeServiceImpl) refreshLinkedLeave(ctx context.Context, record overtime.Record) error {
	if record.LeaveID == nil {
		return nil
	}
	leaveReq, err := s.leaveRequestRepo.GetByID(ctx, *record.LeaveID)
	if err != nil {
		if errors.Is(err, leave.ErrLeaveRequestNotFound) {
			return nil
		}
		return fmt.Errorf("failed to get linked leave request: %w", err)
	}
	return s.RefreshDays(ctx, leaveReq.EmployeeID, leaveReq.StartDate, leaveReq.EndDate)
}

func (s *OvertimeServiceImpl) getForCompany(ctx context.Context, id, companyID string) (overtime.Record, error) {
	record, err := s.OvertimeRepository.GetByID(ctx, id)
	if err != nil {
		return overtime.Record{}, err
	}
	if companyID != "" && record.CompanyID != companyID {
		return overtime.Record{}, overtime.ErrOvertimeNotFound
	}
	return record, nil
}

func (s *OvertimeServiceImpl) resolveEmployee(ctx context.Context, employeeID, companyID string) (employee.Employee, error) {
	emp, err := s.employeeRepo.GetByID(ctx, employeeID)
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
