package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/schedule"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
)

type workScheduleTimeRepositoryImpl struct {
	db *database.DB
}

func NewWorkScheduleTimeRepository(db *database.DB) schedule.WorkScheduleTimeRepository {
	return &workScheduleTimeRepositoryImpl{db: db}
}

// GetByWorkScheduleID implements schedule.WorkScheduleTimeRepository.
// Clock columns are anchored on a fixed date so they scan as timestamps.
func (r *workScheduleTimeRepositoryImpl) GetByWorkScheduleID(ctx context.Context, workScheduleID string) ([]schedule.WorkScheduleTime, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT wst.id, wst.work_schedule_id, wst.day_of_week,
			   DATE '2000-01-01' + wst.clock_in_time,
			   DATE '2000-01-01' + wst.break_start_time,
			   DATE '2000-01-01' + wst.break_end_time,
			   DATE '2000-01-01' + wst.clock_out_time,
			   wst.is_next_day_checkout, wst.created_at, wst.updated_at
		FROM work_schedule_times wst
		JOIN work_schedules ws ON wst.work_schedule_id = ws.id
		WHERE wst.work_schedule_id = $1 AND ws.deleted_at IS NULL
		ORDER BY wst.day_of_week
	`

	rows, err := q.Query(ctx, query, workScheduleID)
	if err != nil {
		return nil, fmt.Errorf("failed to get work schedule times: %w", err)
	}
	defer rows.Close()

	var times []schedule.WorkScheduleTime
	for rows.Next() {
		var t schedule.WorkScheduleTime
		err := rows.Scan(
			&t.ID, &t.WorkScheduleID, &t.DayOfWeek,
			&t.ClockInTime, &t.BreakStartTime, &t.BreakEndTime, &t.ClockOutTime,
			&t.IsNextDayCheckout, &t.CreatedAt, &t.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan work schedule time: %w", err)
		}
		times = append(times, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate work schedule times: %w", err)
	}

	return times, nil
}
