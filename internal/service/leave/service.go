package leave

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/overtime"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/schedule"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/timemath"
)

type LeaveServiceImpl struct {
	leave.LeaveRequestRepository
	leaveTypeRepo    leave.LeaveTypeRepository
	employeeRepo     employee.EmployeeRepository
	overtimeService  overtime.OvertimeService
	scheduleProvider schedule.Provider
	tx               database.Transactor
}

func NewLeaveService(
	leaveRequestRepo leave.LeaveRequestRepository,
	leaveTypeRepo leave.LeaveTypeRepository,
	employeeRepo employee.EmployeeRepository,
	overtimeService overtime.OvertimeService,
	scheduleProvider schedule.Provider,
	tx database.Transactor,
) leave.LeaveService {
	return &LeaveServiceImpl{
		LeaveRequestRepository: leaveRequestRepo,
		leaveTypeRepo:          leaveTypeRepo,
		employeeRepo:           employeeRepo,
		overtimeService:        overtimeService,
		scheduleProvider:       scheduleProvider,
		tx:                     tx,
	}
}

// GetLeaveRequest implements leave.LeaveService.
func (l *LeaveServiceImpl) GetLeaveRequest(ctx context.Context, requestID string) (leave.LeaveRequestResponse, error) {
	request, err := l.LeaveRequestRepository.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, leave.ErrLeaveRequestNotFound) {
			return leave.LeaveRequestResponse{}, err
		}
		return leave.LeaveRequestResponse{}, fmt.Errorf("failed to get leave request: %w", err)
	}
	return request.ToResponse(), nil
}

// ApproveLeaveRequest implements leave.LeaveService.
func (l *LeaveServiceImpl) ApproveLeaveRequest(ctx context.Context, req leave.ApproveLeaveRequest) (leave.LeaveRequestResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	request, err := l.getForCompany(ctx, req.ID, req.CompanyID)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	if request.Status != leave.LeaveRequestStatusWaitingApproval {
		return leave.LeaveRequestResponse{}, leave.ErrLeaveRequestAlreadyProcessed
	}

	leaveType, err := l.leaveTypeRepo.GetByID(ctx, request.LeaveTypeID)
	if err != nil {
		if errors.Is(err, leave.ErrLeaveTypeNotFound) {
			return leave.LeaveRequestResponse{}, err
		}
		return leave.LeaveRequestResponse{}, fmt.Errorf("failed to get leave type: %w", err)
	}

	emp, err := l.employeeRepo.GetByID(ctx, request.EmployeeID)
	if err != nil {
		return leave.LeaveRequestResponse{}, fmt.Errorf("failed to get employee: %w", err)
	}

	var actor *string
	if req.ActorID != "" {
		actor = &req.ActorID
	}

	err = l.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := l.LeaveRequestRepository.UpdateStatus(ctx, request.ID, leave.LeaveRequestStatusApproved, actor, nil); err != nil {
			return fmt.Errorf("failed to approve leave request: %w", err)
		}

		if !leaveType.OvertimeDeductible || request.OvertimeID != nil {
			return l.overtimeService.RefreshDays(ctx, emp.ID, request.StartDate, request.EndDate)
		}

		hours, err := l.leaveHours(ctx, emp, request)
		if err != nil {
			return err
		}
		duration := -hours
		leaveID := request.ID

		// Creating the adjustment also refreshes the day records of the leave span.
		_, err = l.overtimeService.Create(ctx, overtime.CreateOvertimeRequest{
			CompanyID:    emp.CompanyID,
			EmployeeID:   emp.ID,
			Date:         request.StartDate.Format(timemath.DateLayout),
			IsAdjustment: true,
			Duration:     &duration,
			LeaveID:      &leaveID,
		})
		if err != nil {
			return fmt.Errorf("failed to create leave overtime adjustment: %w", err)
		}
		return nil
	})
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	slog.Info("Leave request approved", "leave_request_id", request.ID, "employee_id", emp.ID, "overtime_deductible", leaveType.OvertimeDeductible)
	return l.GetLeaveRequest(ctx, request.ID)
}

// RefuseLeaveRequest implements leave.LeaveService.
// Without the cancel-extra-hours permission the refusal still goes through and
// the linked adjustment is kept.
func (l *LeaveServiceImpl) RefuseLeaveRequest(ctx context.Context, req leave.RefuseLeaveRequest) (leave.LeaveRequestResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	request, err := l.getForCompany(ctx, req.ID, req.CompanyID)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	if request.Status == leave.LeaveRequestStatusRejected || request.Status == leave.LeaveRequestStatusCancelled {
		return leave.LeaveRequestResponse{}, leave.ErrLeaveRequestAlreadyProcessed
	}

	var actor *string
	if req.ActorID != "" {
		actor = &req.ActorID
	}
	reason := req.Reason

	err = l.tx.WithinTx(ctx, func(ctx context.Context) error {
		if request.OvertimeID != nil {
			if req.CanCancelExtraHours {
				err := l.overtimeService.Delete(ctx, *request.OvertimeID, "")
				if err != nil && !errors.Is(err, overtime.ErrOvertimeNotFound) {
					return fmt.Errorf("failed to delete leave overtime adjustment: %w", err)
				}
			} else {
				slog.Warn("Leave refused without permission to cancel extra hours, adjustment kept",
					"leave_request_id", request.ID,
					"overtime_id", *request.OvertimeID,
				)
			}
		}

		if err := l.LeaveRequestRepository.UpdateStatus(ctx, request.ID, leave.LeaveRequestStatusRejected, actor, &reason); err != nil {
			return fmt.Errorf("failed to refuse leave request: %w", err)
		}

		return l.overtimeService.RefreshDays(ctx, request.EmployeeID, request.StartDate, request.EndDate)
	})
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	slog.Info("Leave request refused", "leave_request_id", request.ID, "employee_id", request.EmployeeID)
	return l.GetLeaveRequest(ctx, request.ID)
}

// leaveHours is the requested number of hours, or the scheduled hours of the span when none was given.
func (l *LeaveServiceImpl) leaveHours(ctx context.Context, emp employee.Employee, request leave.LeaveRequest) (float64, error) {
	if request.TotalHours != nil {
		return *request.TotalHours, nil
	}

	loc := timemath.LoadLocation(emp.Timezone)
	from, _ := timemath.LocalDayBounds(request.StartDate, loc)
	_, to := timemath.LocalDayBounds(request.EndDate, loc)

	hours, err := l.scheduleProvider.RequiredHours(ctx, emp, from, to, false)
	if err != nil {
		return 0, fmt.Errorf("failed to get scheduled leave hours: %w", err)
	}
	return hours, nil
}

func (l *LeaveServiceImpl) getForCompany(ctx context.Context, id, companyID string) (leave.LeaveRequest, error) {
	request, err := l.LeaveRequestRepository.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, leave.ErrLeaveRequestNotFound) {
			return leave.LeaveRequest{}, err
		}
		return leave.LeaveRequest{}, fmt.Errorf("failed to get leave request: %w", err)
	}
	if companyID != "" && request.CompanyID != companyID {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
	}
	return request, nil
}
