package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/overtime"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type overtimeRepositoryImpl struct {
	db *database.DB
}

func NewOvertimeRepository(db *database.DB) overtime.OvertimeRepository {
	return &overtimeRepositoryImpl{db: db}
}

const overtimeColumns = `
	o.id, o.company_id, o.employee_id, o.date, o.duration, o.is_adjustment, o.leave_id,
	o.request_date, o.worked_hours, o.created_at, o.updated_at, e.full_name`

func scanOvertime(row pgx.Row) (overtime.Record, error) {
	var r overtime.Record
	err := row.Scan(
		&r.ID, &r.CompanyID, &r.EmployeeID, &r.Date, &r.Duration, &r.IsAdjustment, &r.LeaveID,
		&r.RequestDate, &r.WorkedHours, &r.CreatedAt, &r.UpdatedAt, &r.EmployeeName,
	)
	return r, err
}

func (o *overtimeRepositoryImpl) queryRecords(ctx context.Context, where string, args ...interface{}) ([]overtime.Record, error) {
	q := GetQuerier(ctx, o.db)

	query := `SELECT ` + overtimeColumns + `
		FROM attendance_overtimes o
		LEFT JOIN employees e ON e.id = o.employee_id
		WHERE ` + where + `
		ORDER BY o.date, o.id
	`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query overtime: %w", err)
	}
	defer rows.Close()

	var records []overtime.Record
	for rows.Next() {
		r, err := scanOvertime(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan overtime: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate overtime: %w", err)
	}
	return records, nil
}

// Create implements overtime.OvertimeRepository.
func (o *overtimeRepositoryImpl) Create(ctx context.Context, record overtime.Record) (overtime.Record, error) {
	q := GetQuerier(ctx, o.db)

	query := `
		INSERT INTO attendance_overtimes (
			id, company_id, employee_id, date, duration, is_adjustment, leave_id, request_date, worked_hours
		) VALUES (
			uuidv7(), $1, $2, $3, $4, $5, $6, $7, $8
		) RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		record.CompanyID,
		record.EmployeeID,
		record.Date,
		record.Duration,
		record.IsAdjustment,
		record.LeaveID,
		record.RequestDate,
		record.WorkedHours,
	).Scan(&record.ID, &record.CreatedAt, &record.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return overtime.Record{}, overtime.ErrDayRecordExists
		}
		return overtime.Record{}, fmt.Errorf("failed to create overtime: %w", err)
	}

	return record, nil
}

// GetByID implements overtime.OvertimeRepository.
func (o *overtimeRepositoryImpl) GetByID(ctx context.Context, id string) (overtime.Record, error) {
	q := GetQuerier(ctx, o.db)

	query := `SELECT ` + overtimeColumns + `
		FROM attendance_overtimes o
		LEFT JOIN employees e ON e.id = o.employee_id
		WHERE o.id = $1
	`

	r, err := scanOvertime(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return overtime.Record{}, overtime.ErrOvertimeNotFound
		}
		return overtime.Record{}, fmt.Errorf("failed to get overtime: %w", err)
	}
	return r, nil
}

// GetDayRecord implements overtime.OvertimeRepository.
func (o *overtimeRepositoryImpl) GetDayRecord(ctx context.Context, employeeID string, date time.Time) (*overtime.Record, error) {
	q := GetQuerier(ctx, o.db)

	query := `SELECT ` + overtimeColumns + `
		FROM attendance_overtimes o
		LEFT JOIN employees e ON e.id = o.employee_id
		WHERE o.employee_id = $1 AND o.date = $2 AND NOT o.is_adjustment
		LIMIT 1
	`

	r, err := scanOvertime(q.QueryRow(ctx, query, employeeID, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get day overtime: %w", err)
	}
	return &r, nil
}

// Update implements overtime.OvertimeRepository.
func (o *overtimeRepositoryImpl) Update(ctx context.Context, record overtime.Record) error {
	q := GetQuerier(ctx, o.db)

	query := `
		UPDATE attendance_overtimes
		SET company_id = $1, employee_id = $2, date = $3, duration = $4, leave_id = $5,
			request_date = $6, worked_hours = $7, updated_at = NOW()
		WHERE id = $8
	`

	tag, err := q.Exec(ctx, query,
		record.CompanyID,
		record.EmployeeID,
		record.Date,
		record.Duration,
		record.LeaveID,
		record.RequestDate,
		record.WorkedHours,
		record.ID,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return overtime.ErrDayRecordExists
		}
		return fmt.Errorf("failed to update overtime: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return overtime.ErrOvertimeNotFound
	}
	return nil
}

// Delete implements overtime.OvertimeRepository.
func (o *overtimeRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, o.db)

	tag, err := q.Exec(ctx, `DELETE FROM attendance_overtimes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete overtime: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return overtime.ErrOvertimeNotFound
	}
	return nil
}

// GetByIDs implements overtime.OvertimeRepository.
func (o *overtimeRepositoryImpl) GetByIDs(ctx context.Context, ids []string) ([]overtime.Record, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return o.queryRecords(ctx, "o.id = ANY($1::uuid[])", ids)
}

// ListDayRecordsBetween implements overtime.OvertimeRepository.
func (o *overtimeRepositoryImpl) ListDayRecordsBetween(ctx context.Context, employeeID string, from, to time.Time) ([]overtime.Record, error) {
	return o.queryRecords(ctx, "o.employee_id = $1 AND o.date BETWEEN $2 AND $3 AND NOT o.is_adjustment", employeeID, from, to)
}

// List implements overtime.OvertimeRepository.
func (o *overtimeRepositoryImpl) List(ctx context.Context, filter overtime.OvertimeFilter) ([]overtime.Record, int64, error) {
	q := GetQuerier(ctx, o.db)

	baseWhere := "o.company_id = $1"
	args := []interface{}{filter.CompanyID}
	argIdx := 2

	if filter.EmployeeID != nil && *filter.EmployeeID != "" {
		baseWhere += fmt.Sprintf(" AND o.employee_id = $%d", argIdx)
		args = append(args, *filter.EmployeeID)
		argIdx++
	}
	if filter.StartDate != nil && *filter.StartDate != "" {
		baseWhere += fmt.Sprintf(" AND o.date >= $%d", argIdx)
		args = append(args, *filter.StartDate)
		argIdx++
	}
	if filter.EndDate != nil && *filter.EndDate != "" {
		baseWhere += fmt.Sprintf(" AND o.date <= $%d", argIdx)
		args = append(args, *filter.EndDate)
		argIdx++
	}
	if filter.IsAdjustment != nil {
		baseWhere += fmt.Sprintf(" AND o.is_adjustment = $%d", argIdx)
		args = append(args, *filter.IsAdjustment)
		argIdx++
	}

	var total int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM attendance_overtimes o WHERE `+baseWhere, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count overtime: %w", err)
	}

	selectQuery := fmt.Sprintf(`SELECT %s
		FROM attendance_overtimes o
		LEFT JOIN employees e ON e.id = o.employee_id
		WHERE %s
		ORDER BY o.date DESC, o.id DESC
		LIMIT $%d OFFSET $%d
	`, overtimeColumns, baseWhere, argIdx, argIdx+1)

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
		return nil, 0, fmt.Errorf("failed to query overtime: %w", err)
	}
	defer rows.Close()

	var records []overtime.Record
	for rows.Next() {
		r, err := scanOvertime(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan overtime: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate overtime: %w", err)
	}

	return records, total, nil
}

// ListIDs implements overtime.OvertimeRepository.
func (o *overtimeRepositoryImpl) ListIDs(ctx context.Context) ([]string, error) {
	q := GetQuerier(ctx, o.db)

	rows, err := q.Query(ctx, `SELECT id FROM attendance_overtimes ORDER BY date, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list overtime ids: %w", err)
	}
	defer rows.Close()

	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("failed to collect overtime ids: %w", err)
	}
	return ids, nil
}

// SumDurationByEmployee implements overtime.OvertimeRepository.
func (o *overtimeRepositoryImpl) SumDurationByEmployee(ctx context.Context, employeeID string) (float64, error) {
	q := GetQuerier(ctx, o.db)

	var total float64
	err := q.QueryRow(ctx, `SELECT COALESCE(SUM(duration), 0) FROM attendance_overtimes WHERE employee_id = $1`, employeeID).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to sum overtime: %w", err)
	}
	return total, nil
}
