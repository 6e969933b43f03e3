package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sitework-erp/labour-ledger-go/internal/domain/report"
	"github.com/sitework-erp/labour-ledger-go/internal/handler/http/response"
)

type ReportHandler interface {
	ProjectLabourCost(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	reportService report.ReportService
}

func NewReportHandler(reportService report.ReportService) ReportHandler {
	return &reportHandlerImpl{
		reportService: reportService,
	}
}

// ProjectLabourCost implements ReportHandler.
func (h *reportHandlerImpl) ProjectLabourCost(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "projectId")

	result, err := h.reportService.ProjectLabourCost(r.Context(), projectID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
