package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/schedule"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
)

type employeeScheduleAssignmentRepositoryImpl struct {
	db *database.DB
}

func NewEmployeeScheduleAssignmentRepository(db *database.DB) schedule.EmployeeScheduleAssignmentRepository {
	return &employeeScheduleAssignmentRepositoryImpl{db: db}
}

// GetScheduleAssignments implements schedule.EmployeeScheduleAssignmentRepository.
func (r *employeeScheduleAssignmentRepositoryImpl) GetScheduleAssignments(ctx context.Context, employeeID string, startDate, endDate time.Time) ([]schedule.EmployeeScheduleAssignment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, work_schedule_id, start_date, end_date, created_at, updated_at
		FROM employee_schedule_assignments
		WHERE employee_id = $1
		  AND start_date <= $3
		  AND end_date >= $2
		ORDER BY start_date DESC
	`

	rows, err := q.Query(ctx, query, employeeID, startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("failed to get schedule assignments: %w", err)
	}
	defer rows.Close()

	var assignments []schedule.EmployeeScheduleAssignment
	for rows.Next() {
		var a schedule.EmployeeScheduleAssignment
		if err := rows.Scan(&a.ID, &a.EmployeeID, &a.WorkScheduleID, &a.StartDate, &a.EndDate, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan schedule assignment: %w", err)
		}
		assignments = append(assignments, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate schedule assignments: %w", err)
	}

	return assignments, nil
}
