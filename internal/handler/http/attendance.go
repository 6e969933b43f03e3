package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sitework-erp/labour-ledger-go/internal/domain/attendance"
	"github.com/sitework-erp/labour-ledger-go/internal/handler/http/response"
	"github.com/sitework-erp/labour-ledger-go/internal/pkg/jwt"
	"github.com/sitework-erp/labour-ledger-go/internal/pkg/validator"
)

type AttendanceHandler interface {
	Mark(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Confirm(w http.ResponseWriter, r *http.Request)
	ConfirmBulk(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService) AttendanceHandler {
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
	}
}

// Mark implements AttendanceHandler.
func (h *attendanceHandlerImpl) Mark(w http.ResponseWriter, r *http.Request) {
	actor, err := jwt.ActorFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req attendance.MarkAttendanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.MarkedBy = actor.UserID

	result, err := h.attendanceService.MarkAttendance(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Attendance marked successfully", result)
}

// List implements AttendanceHandler.
func (h *attendanceHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter := attendance.AttendanceFilter{
		WorkerID:  optionalQuery(r, "worker_id"),
		ProjectID: optionalQuery(r, "project_id"),
		State:     optionalQuery(r, "state"),
	}

	var errs validator.ValidationErrors
	filter.StartDate, errs = optionalDateQuery(r, "start_date", errs)
	filter.EndDate, errs = optionalDateQuery(r, "end_date", errs)
	if len(errs) > 0 {
		response.HandleError(w, errs)
		return
	}
	filter.Page, filter.Limit = pagination(r)

	results, err := h.attendanceService.ListAttendance(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, results)
}

// Get implements AttendanceHandler.
func (h *attendanceHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	result, err := h.attendanceService.GetAttendance(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Confirm implements AttendanceHandler.
func (h *attendanceHandlerImpl) Confirm(w http.ResponseWriter, r *http.Request) {
	actor, err := jwt.ActorFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	id := chi.URLParam(r, "id")
	result, err := h.attendanceService.ConfirmAttendance(r.Context(), id, actor.UserID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Attendance confirmed", result)
}

// ConfirmBulk implements AttendanceHandler.
func (h *attendanceHandlerImpl) ConfirmBulk(w http.ResponseWriter, r *http.Request) {
	actor, err := jwt.ActorFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req attendance.ConfirmBulkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.ConfirmedBy = actor.UserID

	result, err := h.attendanceService.ConfirmBulk(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
