package http

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/report"
	"github.com/cmlabs-hris/hris-attendance-go/internal/handler/http/response"
)

type ReportHandler interface {
	// Attendance report as JSON rows
	GetAttendanceReport(w http.ResponseWriter, r *http.Request)

	// Attendance report as an XLSX workbook
	ExportAttendanceReport(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	reportService report.ReportService
}

func NewReportHandler(reportService report.ReportService) ReportHandler {
	return &reportHandlerImpl{
		reportService: reportService,
	}
}

func attendanceReportRequest(r *http.Request, companyID string) report.AttendanceReportRequest {
	return report.AttendanceReportRequest{
		CompanyID:    companyID,
		StartDate:    r.URL.Query().Get("start_date"),
		EndDate:      r.URL.Query().Get("end_date"),
		EmployeeID:   queryPtr(r, "employee_id"),
		DepartmentID: queryPtr(r, "department_id"),
	}
}

// GetAttendanceReport handles GET /reports/attendance
func (h *reportHandlerImpl) GetAttendanceReport(w http.ResponseWriter, r *http.Request) {
	claims, ok := callerClaims(w, r)
	if !ok {
		return
	}

	result, err := h.reportService.GenerateAttendanceReport(r.Context(), attendanceReportRequest(r, claims.CompanyID))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ExportAttendanceReport handles GET /reports/attendance/export
func (h *reportHandlerImpl) ExportAttendanceReport(w http.ResponseWriter, r *http.Request) {
	claims, ok := callerClaims(w, r)
	if !ok {
		return
	}

	req := attendanceReportRequest(r, claims.CompanyID)

	// buffered so a failed export still gets a JSON error
	var buf bytes.Buffer
	if err := h.reportService.ExportAttendanceReport(r.Context(), req, &buf); err != nil {
		response.HandleError(w, err)
		return
	}

	filename := fmt.Sprintf("attendance_%s_%s.xlsx", req.StartDate, req.EndDate)
	response.File(w, response.ContentTypeXLSX, filename, buf.Bytes())
}
