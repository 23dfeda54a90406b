package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/overtime"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-attendance-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type OvertimeHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	Balance(w http.ResponseWriter, r *http.Request)
}

type overtimeHandlerImpl struct {
	overtimeService overtime.OvertimeService
}

func NewOvertimeHandler(overtimeService overtime.OvertimeService) OvertimeHandler {
	return &overtimeHandlerImpl{
		overtimeService: overtimeService,
	}
}

// Create implements OvertimeHandler.
func (h *overtimeHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := callerClaims(w, r)
	if !ok {
		return
	}

	var req overtime.CreateOvertimeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.CompanyID = claims.CompanyID

	result, err := h.overtimeService.Create(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Overtime saved successfully", result)
}

// Update implements OvertimeHandler.
func (h *overtimeHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	claims, ok := callerClaims(w, r)
	if !ok {
		return
	}

	var req overtime.UpdateOvertimeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")
	req.CompanyID = claims.CompanyID

	result, err := h.overtimeService.Update(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Overtime updated successfully", result)
}

// Get implements OvertimeHandler.
func (h *overtimeHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	claims, ok := callerClaims(w, r)
	if !ok {
		return
	}

	result, err := h.overtimeService.Get(r.Context(), chi.URLParam(r, "id"), claims.CompanyID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	if !claims.Can(user.PermissionOvertimeViewAll) && result.EmployeeID != ownEmployeeID(claims) {
		response.HandleError(w, overtime.ErrUnauthorized)
		return
	}

	response.Success(w, result)
}

// List implements OvertimeHandler.
func (h *overtimeHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	claims, ok := callerClaims(w, r)
	if !ok {
		return
	}

	filter := overtime.OvertimeFilter{
		CompanyID:  claims.CompanyID,
		EmployeeID: queryPtr(r, "employee_id"),
		StartDate:  queryPtr(r, "start_date"),
		EndDate:    queryPtr(r, "end_date"),
	}
	filter.Page, filter.Limit = queryPage(r)

	if adj := r.URL.Query().Get("is_adjustment"); adj != "" {
		isAdjustment, err := strconv.ParseBool(adj)
		if err != nil {
			response.BadRequest(w, "invalid is_adjustment parameter", nil)
			return
		}
		filter.IsAdjustment = &isAdjustment
	}

	if !claims.Can(user.PermissionOvertimeViewAll) {
		own := ownEmployeeID(claims)
		filter.EmployeeID = &own
	}

	results, err := h.overtimeService.List(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, results)
}

// Delete implements OvertimeHandler.
func (h *overtimeHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	claims, ok := callerClaims(w, r)
	if !ok {
		return
	}

	if err := h.overtimeService.Delete(r.Context(), chi.URLParam(r, "id"), claims.CompanyID); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Overtime deleted successfully", nil)
}

// Balance implements OvertimeHandler.
func (h *overtimeHandlerImpl) Balance(w http.ResponseWriter, r *http.Request) {
	claims, ok := callerClaims(w, r)
	if !ok {
		return
	}

	employeeID := chi.URLParam(r, "employeeID")
	if !claims.Can(user.PermissionOvertimeViewAll) && employeeID != ownEmployeeID(claims) {
		response.HandleError(w, overtime.ErrUnauthorized)
		return
	}

	result, err := h.overtimeService.Balance(r.Context(), employeeID, claims.CompanyID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
