package report

import "context"

// ReportRepository defines the interface for report data access
type ReportRepository interface {
	// GetAttendanceRows reads the attendance report view, one row per employee-day
	GetAttendanceRows(ctx context.Context, filter AttendanceReportRequest) ([]AttendanceRow, error)
}
