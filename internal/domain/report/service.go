package report

import (
	"context"
	"io"
)

// ReportService defines the interface for report generation
type ReportService interface {
	// Generate Attendance Report
	GenerateAttendanceReport(ctx context.Context, req AttendanceReportRequest) (AttendanceReport, error)

	// ExportAttendanceReport writes the report as an XLSX workbook
	ExportAttendanceReport(ctx context.Context, req AttendanceReportRequest, w io.Writer) error
}
