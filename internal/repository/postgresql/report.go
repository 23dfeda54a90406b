package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/report"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/timemath"
)

type reportRepositoryImpl struct {
	db *database.DB
}

func NewReportRepository(db *database.DB) report.ReportRepository {
	return &reportRepositoryImpl{db: db}
}

// GetAttendanceRows implements report.ReportRepository.
func (r *reportRepositoryImpl) GetAttendanceRows(ctx context.Context, filter report.AttendanceReportRequest) ([]report.AttendanceRow, error) {
	q := GetQuerier(ctx, r.db)

	where := "ar.company_id = $1 AND ar.date BETWEEN $2 AND $3"
	args := []interface{}{filter.CompanyID, filter.From, filter.To}
	argIdx := 4

	if filter.EmployeeID != nil && *filter.EmployeeID != "" {
		where += fmt.Sprintf(" AND ar.employee_id = $%d", argIdx)
		args = append(args, *filter.EmployeeID)
		argIdx++
	}
	if filter.DepartmentID != nil && *filter.DepartmentID != "" {
		where += fmt.Sprintf(" AND e.department_id = $%d", argIdx)
		args = append(args, *filter.DepartmentID)
	}

	query := `
		SELECT ar.employee_id, e.full_name, ar.date, ar.worked_hours, ar.overtime_hours,
			   ar.is_adjustment, e.department_id, d.name
		FROM attendance_report ar
		JOIN employees e ON e.id = ar.employee_id
		LEFT JOIN departments d ON d.id = e.department_id
		WHERE ` + where + `
		ORDER BY e.full_name, ar.date, ar.is_adjustment
	`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query attendance report: %w", err)
	}
	defer rows.Close()

	var result []report.AttendanceRow
	for rows.Next() {
		var row report.AttendanceRow
		var date time.Time
		if err := rows.Scan(&row.EmployeeID, &row.EmployeeName, &date, &row.WorkedHours, &row.OvertimeHours, &row.IsAdjustment, &row.DepartmentID, &row.DepartmentName); err != nil {
			return nil, fmt.Errorf("failed to scan attendance report row: %w", err)
		}
		row.Date = date.Format(timemath.DateLayout)
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate attendance report: %w", err)
	}

	return result, nil
}
