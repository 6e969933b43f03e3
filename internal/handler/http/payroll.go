package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sitework-erp/labour-ledger-go/internal/domain/payroll"
	"github.com/sitework-erp/labour-ledger-go/internal/handler/http/response"
	"github.com/sitework-erp/labour-ledger-go/internal/pkg/jwt"
	"github.com/sitework-erp/labour-ledger-go/internal/pkg/validator"
)

type PayrollHandler interface {
	// Payments
	RecordPayment(w http.ResponseWriter, r *http.Request)
	ListPayments(w http.ResponseWriter, r *http.Request)
	GetPayment(w http.ResponseWriter, r *http.Request)

	// Worker ledger views
	WorkerBalance(w http.ResponseWriter, r *http.Request)
	WagePreview(w http.ResponseWriter, r *http.Request)
}

type payrollHandlerImpl struct {
	payrollService payroll.PayrollService
}

func NewPayrollHandler(payrollService payroll.PayrollService) PayrollHandler {
	return &payrollHandlerImpl{
		payrollService: payrollService,
	}
}

// RecordPayment implements PayrollHandler.
func (h *payrollHandlerImpl) RecordPayment(w http.ResponseWriter, r *http.Request) {
	actor, err := jwt.ActorFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req payroll.RecordPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.CreatedBy = actor.UserID

	result, err := h.payrollService.RecordPayment(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Payment recorded successfully", result)
}

// ListPayments implements PayrollHandler.
func (h *payrollHandlerImpl) ListPayments(w http.ResponseWriter, r *http.Request) {
	filter := payroll.PaymentFilter{
		WorkerID:  optionalQuery(r, "worker_id"),
		ProjectID: optionalQuery(r, "project_id"),
		Kind:      optionalQuery(r, "kind"),
	}

	var errs validator.ValidationErrors
	filter.StartDate, errs = optionalDateQuery(r, "start_date", errs)
	filter.EndDate, errs = optionalDateQuery(r, "end_date", errs)
	if len(errs) > 0 {
		response.HandleError(w, errs)
		return
	}
	filter.Page, filter.Limit = pagination(r)

	results, err := h.payrollService.ListPayments(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, results)
}

// GetPayment implements PayrollHandler.
func (h *payrollHandlerImpl) GetPayment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	result, err := h.payrollService.GetPayment(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// WorkerBalance implements PayrollHandler.
func (h *payrollHandlerImpl) WorkerBalance(w http.ResponseWriter, r *http.Request) {
	workerID := chi.URLParam(r, "workerId")
	projectID := chi.URLParam(r, "projectId")

	result, err := h.payrollService.WorkerBalance(r.Context(), workerID, projectID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// WagePreview implements PayrollHandler.
func (h *payrollHandlerImpl) WagePreview(w http.ResponseWriter, r *http.Request) {
	req := payroll.WagePreviewRequest{
		WorkerID:  chi.URLParam(r, "workerId"),
		ProjectID: chi.URLParam(r, "projectId"),
		UpTo:      r.URL.Query().Get("up_to"),
	}

	result, err := h.payrollService.PreviewWages(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
