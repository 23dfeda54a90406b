package memory

import (
	"context"
	"sort"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/leave"
)

type leaveTypeRepository struct {
	store *Store
}

func NewLeaveTypeRepository(store *Store) leave.LeaveTypeRepository {
	return &leaveTypeRepository{store: store}
}

func (r *leaveTypeRepository) GetByID(ctx context.Context, id string) (leave.LeaveType, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	lt, ok := r.store.leaveTypes[id]
	if !ok {
		return leave.LeaveType{}, leave.ErrLeaveTypeNotFound
	}
	return lt, nil
}

type leaveRequestRepository struct {
	store *Store
}

func NewLeaveRequestRepository(store *Store) leave.LeaveRequestRepository {
	return &leaveRequestRepository{store: store}
}

// joined fills the relationship fields the SQL repository selects through joins.
func (r *leaveRequestRepository) joined(lr leave.LeaveRequest) leave.LeaveRequest {
	if lt, ok := r.store.leaveTypes[lr.LeaveTypeID]; ok {
		name := lt.Name
		lr.LeaveTypeName = &name
		lr.OvertimeDeductible = lt.OvertimeDeductible
	}
	if emp, ok := r.store.employees[lr.EmployeeID]; ok {
		name := emp.FullName
		lr.EmployeeName = &name
	}
	return lr
}

func (r *leaveRequestRepository) GetByID(ctx context.Context, id string) (leave.LeaveRequest, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	lr, ok := r.store.leaveRequests[id]
	if !ok {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
	}
	return r.joined(lr), nil
}

func (r *leaveRequestRepository) ListApprovedBetween(ctx context.Context, employeeID string, from, to time.Time) ([]leave.LeaveRequest, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var out []leave.LeaveRequest
	for _, lr := range r.store.leaveRequests {
		if lr.EmployeeID != employeeID || lr.Status != leave.LeaveRequestStatusApproved {
			continue
		}
		if lr.StartDate.After(to) || lr.EndDate.Before(from) {
			continue
		}
		out = append(out, r.joined(lr))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartDate.Equal(out[j].StartDate) {
			return out[i].StartDate.Before(out[j].StartDate)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *leaveRequestRepository) UpdateStatus(ctx context.Context, id string, status leave.LeaveRequestStatus, actedBy *string, rejectionReason *string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	lr, ok := r.store.leaveRequests[id]
	if !ok {
		return leave.ErrLeaveRequestNotFound
	}
	now := time.Now().UTC()
	lr.Status = status
	if status == leave.LeaveRequestStatusApproved {
		lr.ApprovedBy = actedBy
		lr.ApprovedAt = &now
	}
	lr.RejectionReason = rejectionReason
	lr.UpdatedAt = now
	r.store.leaveRequests[id] = lr
	return nil
}

func (r *leaveRequestRepository) SetOvertimeID(ctx context.Context, id string, overtimeID *string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	lr, ok := r.store.leaveRequests[id]
	if !ok {
		return leave.ErrLeaveRequestNotFound
	}
	lr.OvertimeID = overtimeID
	lr.UpdatedAt = time.Now().UTC()
	r.store.leaveRequests[id] = lr
	return nil
}
