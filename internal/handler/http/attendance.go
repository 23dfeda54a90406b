package http

import (
	"encoding/json"
	"net/http"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-attendance-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type AttendanceHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	BatchCreate(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	AddManualHours(w http.ResponseWriter, r *http.Request)
	Backfill(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
	missingScanner    attendance.MissingAttendanceScanner
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService, missingScanner attendance.MissingAttendanceScanner) AttendanceHandler {
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
		missingScanner:    missingScanner,
	}
}

// Create implements AttendanceHandler.
// Without attendance.manage callers may only log their own attendance.
func (h *attendanceHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := callerClaims(w, r)
	if !ok {
		return
	}

	var req attendance.CreateIntervalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.CompanyID = claims.CompanyID
	req.ActorName = claims.ActorName()

	if req.EmployeeID == "" {
		req.EmployeeID = ownEmployeeID(claims)
	}
	if !claims.Can(user.PermissionAttendanceManage) && req.EmployeeID != ownEmployeeID(claims) {
		response.HandleError(w, attendance.ErrUnauthorized)
		return
	}

	result, err := h.attendanceService.Create(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Attendance created successfully", result)
}

// BatchCreate implements AttendanceHandler.
func (h *attendanceHandlerImpl) BatchCreate(w http.ResponseWriter, r *http.Request) {
	claims, ok := callerClaims(w, r)
	if !ok {
		return
	}

	var req attendance.BatchCreateIntervalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.CompanyID = claims.CompanyID
	req.ActorName = claims.ActorName()

	result, err := h.attendanceService.BatchCreate(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Attendances created successfully", result)
}

// Update implements AttendanceHandler.
func (h *attendanceHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	claims, ok := callerClaims(w, r)
	if !ok {
		return
	}

	var req attendance.UpdateIntervalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")
	req.CompanyID = claims.CompanyID
	req.ActorName = claims.ActorName()

	result, err := h.attendanceService.Update(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Attendance updated successfully", result)
}

// Get implements AttendanceHandler.
func (h *attendanceHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	claims, ok := callerClaims(w, r)
	if !ok {
		return
	}

	result, err := h.attendanceService.Get(r.Context(), chi.URLParam(r, "id"), claims.CompanyID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	if !claims.Can(user.PermissionAttendanceViewAll) && result.EmployeeID != ownEmployeeID(claims) {
		response.HandleError(w, attendance.ErrUnauthorized)
		return
	}

	response.Success(w, result)
}

// List implements AttendanceHandler.
// Callers limited to their own attendance always get their own rows.
func (h *attendanceHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	claims, ok := callerClaims(w, r)
	if !ok {
		return
	}

	filter := attendance.IntervalFilter{
		CompanyID:  claims.CompanyID,
		EmployeeID: queryPtr(r, "employee_id"),
		StartDate:  queryPtr(r, "start_date"),
		EndDate:    queryPtr(r, "end_date"),
	}
	filter.Page, filter.Limit = queryPage(r)

	if !claims.Can(user.PermissionAttendanceViewAll) {
		own := ownEmployeeID(claims)
		filter.EmployeeID = &own
	}

	results, err := h.attendanceService.List(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, results)
}

// Delete implements AttendanceHandler.
func (h *attendanceHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	claims, ok := callerClaims(w, r)
	if !ok {
		return
	}

	if err := h.attendanceService.Delete(r.Context(), chi.URLParam(r, "id"), claims.CompanyID); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Attendance deleted successfully", nil)
}

// AddManualHours implements AttendanceHandler.
func (h *attendanceHandlerImpl) AddManualHours(w http.ResponseWriter, r *http.Request) {
	claims, ok := callerClaims(w, r)
	if !ok {
		return
	}

	var req attendance.ManualHoursRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.CompanyID = claims.CompanyID
	req.ActorName = claims.ActorName()

	result, err := h.attendanceService.AddManualHours(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Extra hours logged successfully", result)
}

// Backfill implements AttendanceHandler.
func (h *attendanceHandlerImpl) Backfill(w http.ResponseWriter, r *http.Request) {
	var req attendance.BackfillRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	from, to := req.Range()
	result, err := h.missingScanner.Backfill(r.Context(), from, to)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Missing attendance backfilled", result)
}
