package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/timemath"
	"github.com/jackc/pgx/v5"
)

type intervalRepository struct {
	db *database.DB
}

func NewIntervalRepository(db *database.DB) attendance.IntervalRepository {
	return &intervalRepository{db: db}
}

const intervalColumns = `
	a.id, a.company_id, a.employee_id, a.check_in, a.check_out,
	a.net_working_time, a.break_deduction, a.manual_extra_hours, a.worked_hours,
	a.created_at, a.updated_at, e.full_name`

func scanInterval(row pgx.Row) (attendance.Interval, error) {
	var iv attendance.Interval
	err := row.Scan(
		&iv.ID, &iv.CompanyID, &iv.EmployeeID, &iv.CheckIn, &iv.CheckOut,
		&iv.NetWorkingTime, &iv.BreakDeduction, &iv.ManualExtraHours, &iv.WorkedHours,
		&iv.CreatedAt, &iv.UpdatedAt, &iv.EmployeeName,
	)
	if err != nil {
		return attendance.Interval{}, err
	}
	iv.CheckIn = iv.CheckIn.UTC()
	if iv.CheckOut != nil {
		out := iv.CheckOut.UTC()
		iv.CheckOut = &out
	}
	return iv, nil
}

// Create implements attendance.IntervalRepository.
func (r *intervalRepository) Create(ctx context.Context, iv attendance.Interval) (attendance.Interval, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO attendance_intervals (
			id, company_id, employee_id, check_in, check_out,
			net_working_time, break_deduction, manual_extra_hours, worked_hours
		) VALUES (
			uuidv7(), $1, $2, $3, $4, $5, $6, $7, $8
		) RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		iv.CompanyID,
		iv.EmployeeID,
		iv.CheckIn,
		iv.CheckOut,
		iv.NetWorkingTime,
		iv.BreakDeduction,
		iv.ManualExtraHours,
		iv.WorkedHours,
	).Scan(&iv.ID, &iv.CreatedAt, &iv.UpdatedAt)
	if err != nil {
		return attendance.Interval{}, fmt.Errorf("failed to create attendance interval: %w", err)
	}

	return iv, nil
}

// GetByID implements attendance.IntervalRepository.
func (r *intervalRepository) GetByID(ctx context.Context, id string, companyID string) (attendance.Interval, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + intervalColumns + `
		FROM attendance_intervals a
		LEFT JOIN employees e ON e.id = a.employee_id
		WHERE a.id = $1 AND a.company_id = $2
	`

	iv, err := scanInterval(q.QueryRow(ctx, query, id, companyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Interval{}, attendance.ErrIntervalNotFound
		}
		return attendance.Interval{}, fmt.Errorf("failed to get attendance interval: %w", err)
	}

	return iv, nil
}

// Update implements attendance.IntervalRepository.
func (r *intervalRepository) Update(ctx context.Context, iv attendance.Interval) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendance_intervals
		SET employee_id = $1, check_in = $2, check_out = $3, manual_extra_hours = $4, updated_at = NOW()
		WHERE id = $5 AND company_id = $6
	`

	tag, err := q.Exec(ctx, query, iv.EmployeeID, iv.CheckIn, iv.CheckOut, iv.ManualExtraHours, iv.ID, iv.CompanyID)
	if err != nil {
		return fmt.Errorf("failed to update attendance interval: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrIntervalNotFound
	}
	return nil
}

// UpdateDerived implements attendance.IntervalRepository.
func (r *intervalRepository) UpdateDerived(ctx context.Context, id string, netWorkingTime, breakDeduction, workedHours float64) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendance_intervals
		SET net_working_time = $1, break_deduction = $2, worked_hours = $3, updated_at = NOW()
		WHERE id = $4
	`

	tag, err := q.Exec(ctx, query, netWorkingTime, breakDeduction, workedHours, id)
	if err != nil {
		return fmt.Errorf("failed to update attendance derived hours: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrIntervalNotFound
	}
	return nil
}

// Delete implements attendance.IntervalRepository.
func (r *intervalRepository) Delete(ctx context.Context, id string, companyID string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM attendance_intervals WHERE id = $1 AND company_id = $2`, id, companyID)
	if err != nil {
		return fmt.Errorf("failed to delete attendance interval: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrIntervalNotFound
	}
	return nil
}

// ListByEmployeeBetween implements attendance.IntervalRepository.
func (r *intervalRepository) ListByEmployeeBetween(ctx context.Context, employeeID string, from, to time.Time) ([]attendance.Interval, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + intervalColumns + `
		FROM attendance_intervals a
		LEFT JOIN employees e ON e.id = a.employee_id
		WHERE a.employee_id = $1 AND a.check_in >= $2 AND a.check_in < $3
		ORDER BY a.check_in, a.id
	`

	rows, err := q.Query(ctx, query, employeeID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query day attendance: %w", err)
	}
	defer rows.Close()

	var intervals []attendance.Interval
	for rows.Next() {
		iv, err := scanInterval(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance interval: %w", err)
		}
		intervals = append(intervals, iv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate attendance intervals: %w", err)
	}

	return intervals, nil
}

// ExistsBetween implements attendance.IntervalRepository.
func (r *intervalRepository) ExistsBetween(ctx context.Context, employeeID string, from, to time.Time) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT EXISTS(
			SELECT 1 FROM attendance_intervals
			WHERE employee_id = $1 AND check_in >= $2 AND check_in < $3
		)
	`

	var exists bool
	if err := q.QueryRow(ctx, query, employeeID, from, to).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check day attendance: %w", err)
	}
	return exists, nil
}

// List implements attendance.IntervalRepository.
func (r *intervalRepository) List(ctx context.Context, filter attendance.IntervalFilter) ([]attendance.Interval, int64, error) {
	q := GetQuerier(ctx, r.db)

	baseWhere := "a.company_id = $1"
	args := []interface{}{filter.CompanyID}
	argIdx := 2

	if filter.EmployeeID != nil && *filter.EmployeeID != "" {
		baseWhere += fmt.Sprintf(" AND a.employee_id = $%d", argIdx)
		args = append(args, *filter.EmployeeID)
		argIdx++
	}

	// Date range filters, inclusive, on the UTC check-in date
	if filter.StartDate != nil && *filter.StartDate != "" {
		start, _ := time.Parse(timemath.DateLayout, *filter.StartDate)
		baseWhere += fmt.Sprintf(" AND a.check_in >= $%d", argIdx)
		args = append(args, start)
		argIdx++
	}
	if filter.EndDate != nil && *filter.EndDate != "" {
		end, _ := time.Parse(timemath.DateLayout, *filter.EndDate)
		baseWhere += fmt.Sprintf(" AND a.check_in < $%d", argIdx)
		args = append(args, end.AddDate(0, 0, 1))
		argIdx++
	}

	countQuery := `SELECT COUNT(*) FROM attendance_intervals a WHERE ` + baseWhere
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count attendance intervals: %w", err)
	}

	selectQuery := fmt.Sprintf(`SELECT %s
		FROM attendance_intervals a
		LEFT JOIN employees e ON e.id = a.employee_id
		WHERE %s
		ORDER BY a.check_in DESC, a.id DESC
		LIMIT $%d OFFSET $%d
	`, intervalColumns, baseWhere, argIdx, argIdx+1)

	limit := filter.Limit
	if limit == 0 {
		limit = 20
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	args = append(args, limit, (page-1)*limit)

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query attendance intervals: %w", err)
	}
	defer rows.Close()

	var intervals []attendance.Interval
	for rows.Next() {
		iv, err := scanInterval(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan attendance interval: %w", err)
		}
		intervals = append(intervals, iv)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate attendance intervals: %w", err)
	}

	return intervals, total, nil
}

// LockEmployeeDay implements attendance.IntervalRepository.
func (r *intervalRepository) LockEmployeeDay(ctx context.Context, employeeID string, date time.Time) error {
	return lockEmployeeDay(ctx, GetQuerier(ctx, r.db), employeeID, date.Format(timemath.DateLayout))
}
