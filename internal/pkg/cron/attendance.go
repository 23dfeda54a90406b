package cron

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
)

type AttendanceJobs struct {
	scanner attendance.MissingAttendanceScanner
	spec    string
}

func NewAttendanceJobs(scanner attendance.MissingAttendanceScanner, spec string) *AttendanceJobs {
	return &AttendanceJobs{
		scanner: scanner,
		spec:    spec,
	}
}

func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler) error {
	return scheduler.AddJob("missing_attendance", j.spec, j.NotifyMissingAttendance)
}

// NotifyMissingAttendance reports today's missing attendance to employees and their managers.
func (j *AttendanceJobs) NotifyMissingAttendance(ctx context.Context) error {
	slog.Info("Cron: Starting missing attendance job")

	resp, err := j.scanner.NotifyToday(ctx)
	if err != nil {
		return fmt.Errorf("failed to scan missing attendance: %w", err)
	}

	slog.Info("Cron: Missing attendance job finished",
		"checked", resp.Checked,
		"missing", resp.Missing,
		"notified", resp.Notified,
		"placeholders", resp.Placeholders,
	)
	return nil
}
