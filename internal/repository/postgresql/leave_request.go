package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type leaveRequestRepositoryImpl struct {
	db *database.DB
}

func NewLeaveRequestRepository(db *database.DB) leave.LeaveRequestRepository {
	return &leaveRequestRepositoryImpl{db: db}
}

const leaveRequestColumns = `
	lr.id, lr.company_id, lr.employee_id, lr.leave_type_id, lr.start_date, lr.end_date,
	lr.total_hours, lr.reason, lr.status, lr.approved_by, lr.approved_at, lr.rejection_reason,
	lr.overtime_id, lr.submitted_at, lr.created_at, lr.updated_at,
	lt.name, e.full_name, COALESCE(lt.overtime_deductible, FALSE)`

func scanLeaveRequest(row pgx.Row) (leave.LeaveRequest, error) {
	var lr leave.LeaveRequest
	err := row.Scan(
		&lr.ID, &lr.CompanyID, &lr.EmployeeID, &lr.LeaveTypeID, &lr.StartDate, &lr.EndDate,
		&lr.TotalHours, &lr.Reason, &lr.Status, &lr.ApprovedBy, &lr.ApprovedAt, &lr.RejectionReason,
		&lr.OvertimeID, &lr.SubmittedAt, &lr.CreatedAt, &lr.UpdatedAt,
		&lr.LeaveTypeName, &lr.EmployeeName, &lr.OvertimeDeductible,
	)
	return lr, err
}

// GetByID implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) GetByID(ctx context.Context, id string) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + leaveRequestColumns + `
		FROM leave_requests lr
		LEFT JOIN leave_types lt ON lt.id = lr.leave_type_id
		LEFT JOIN employees e ON e.id = lr.employee_id
		WHERE lr.id = $1
	`

	lr, err := scanLeaveRequest(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
		}
		return leave.LeaveRequest{}, fmt.Errorf("failed to get leave request: %w", err)
	}
	return lr, nil
}

// ListApprovedBetween implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) ListApprovedBetween(ctx context.Context, employeeID string, from, to time.Time) ([]leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + leaveRequestColumns + `
		FROM leave_requests lr
		LEFT JOIN leave_types lt ON lt.id = lr.leave_type_id
		LEFT JOIN employees e ON e.id = lr.employee_id
		WHERE lr.employee_id = $1
		  AND lr.status = $2
		  AND lr.start_date <= $4
		  AND lr.end_date >= $3
		ORDER BY lr.start_date, lr.id
	`

	rows, err := q.Query(ctx, query, employeeID, leave.LeaveRequestStatusApproved, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query approved leave: %w", err)
	}
	defer rows.Close()

	var requests []leave.LeaveRequest
	for rows.Next() {
		lr, err := scanLeaveRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leave request: %w", err)
		}
		requests = append(requests, lr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate leave requests: %w", err)
	}

	return requests, nil
}

// UpdateStatus implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) UpdateStatus(ctx context.Context, id string, status leave.LeaveRequestStatus, actedBy *string, rejectionReason *string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leave_requests
		SET status = $1,
			approved_by = CASE WHEN $1 = 'approved' THEN $2::uuid ELSE approved_by END,
			approved_at = CASE WHEN $1 = 'approved' THEN NOW() ELSE approved_at END,
			rejection_reason = $3,
			updated_at = NOW()
		WHERE id = $4
	`

	tag, err := q.Exec(ctx, query, status, actedBy, rejectionReason, id)
	if err != nil {
		return fmt.Errorf("failed to update leave request status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return leave.ErrLeaveRequestNotFound
	}
	return nil
}

// SetOvertimeID implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) SetOvertimeID(ctx context.Context, id string, overtimeID *string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `UPDATE leave_requests SET overtime_id = $1, updated_at = NOW() WHERE id = $2`, overtimeID, id)
	if err != nil {
		return fmt.Errorf("failed to link leave request overtime: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return leave.ErrLeaveRequestNotFound
	}
	return nil
}
