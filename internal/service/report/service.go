package report

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/report"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/timemath"
	"github.com/xuri/excelize/v2"
)

const attendanceSheet = "Attendance"

type ReportServiceImpl struct {
	reportRepo report.ReportRepository
	now        func() time.Time
}

func NewReportService(reportRepo report.ReportRepository) report.ReportService {
	return &ReportServiceImpl{
		reportRepo: reportRepo,
		now:        time.Now,
	}
}

// GenerateAttendanceReport implements report.ReportService.
func (s *ReportServiceImpl) GenerateAttendanceReport(ctx context.Context, req report.AttendanceReportRequest) (report.AttendanceReport, error) {
	if err := req.Validate(); err != nil {
		return report.AttendanceReport{}, err
	}

	rows, err := s.reportRepo.GetAttendanceRows(ctx, req)
	if err != nil {
		return report.AttendanceReport{}, fmt.Errorf("failed to get attendance data: %w", err)
	}

	result := report.AttendanceReport{
		PeriodStart: req.From.Format(timemath.DateLayout),
		PeriodEnd:   req.To.Format(timemath.DateLayout),
		GeneratedAt: s.now().Format(time.RFC3339),
		Rows:        make([]report.AttendanceRow, 0, len(rows)),
	}

	var worked, overtime float64
	for _, row := range rows {
		worked += row.WorkedHours
		overtime += row.OvertimeHours
		row.WorkedHours = timemath.RoundHours(row.WorkedHours)
		row.OvertimeHours = timemath.RoundHours(row.OvertimeHours)
		result.Rows = append(result.Rows, row)
	}
	result.TotalWorkedHours = timemath.RoundHours(worked)
	result.TotalOvertimeHours = timemath.RoundHours(overtime)

	return result, nil
}

// ExportAttendanceReport implements report.ReportService.
func (s *ReportServiceImpl) ExportAttendanceReport(ctx context.Context, req report.AttendanceReportRequest, w io.Writer) error {
	data, err := s.GenerateAttendanceReport(ctx, req)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(attendanceSheet)
	if err != nil {
		return fmt.Errorf("%w: %v", report.ErrReportGenerationFailed, err)
	}
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	f.SetColWidth(attendanceSheet, "A", "A", 28)
	f.SetColWidth(attendanceSheet, "B", "B", 22)
	f.SetColWidth(attendanceSheet, "C", "C", 12)
	f.SetColWidth(attendanceSheet, "D", "E", 16)
	f.SetColWidth(attendanceSheet, "F", "F", 12)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#D9E1F2"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	f.SetCellValue(attendanceSheet, "A1", fmt.Sprintf("Attendance %s - %s", data.PeriodStart, data.PeriodEnd))
	f.MergeCell(attendanceSheet, "A1", "F1")

	headers := []string{"Employee", "Department", "Date", "Worked Hours", "Overtime Hours", "Adjustment"}
	for i, h := range headers {
		c, _ := excelize.CoordinatesToCellName(i+1, 2)
		f.SetCellValue(attendanceSheet, c, h)
	}
	f.SetCellStyle(attendanceSheet, "A2", "F2", headerStyle)

	row := 3
	for _, r := range data.Rows {
		department := ""
		if r.DepartmentName != nil {
			department = *r.DepartmentName
		}
		adjustment := ""
		if r.IsAdjustment {
			adjustment = "Leave"
		}
		values := []interface{}{r.EmployeeName, department, r.Date, r.WorkedHours, r.OvertimeHours, adjustment}
		for i, v := range values {
			c, _ := excelize.CoordinatesToCellName(i+1, row)
			f.SetCellValue(attendanceSheet, c, v)
		}
		row++
	}

	totalCell, _ := excelize.CoordinatesToCellName(1, row)
	f.SetCellValue(attendanceSheet, totalCell, "Total")
	workedCell, _ := excelize.CoordinatesToCellName(4, row)
	f.SetCellValue(attendanceSheet, workedCell, data.TotalWorkedHours)
	overtimeCell, _ := excelize.CoordinatesToCellName(5, row)
	f.SetCellValue(attendanceSheet, overtimeCell, data.TotalOvertimeHours)
	f.SetCellStyle(attendanceSheet, totalCell, overtimeCell, headerStyle)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("%w: %v", report.ErrReportGenerationFailed, err)
	}
	return nil
}
