package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/sitework-erp/labour-ledger-go/internal/domain/penalty"
	"github.com/sitework-erp/labour-ledger-go/internal/handler/http/response"
	"github.com/sitework-erp/labour-ledger-go/internal/pkg/jwt"
)

type PenaltyHandler interface {
	Record(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
}

type penaltyHandlerImpl struct {
	penaltyService penalty.PenaltyService
}

func NewPenaltyHandler(penaltyService penalty.PenaltyService) PenaltyHandler {
	return &penaltyHandlerImpl{
		penaltyService: penaltyService,
	}
}

// Record implements PenaltyHandler.
func (h *penaltyHandlerImpl) Record(w http.ResponseWriter, r *http.Request) {
	actor, err := jwt.ActorFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req penalty.RecordPenaltyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.CreatedBy = actor.UserID

	result, err := h.penaltyService.RecordPenalty(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Penalty recorded successfully", result)
}

// List implements PenaltyHandler.
func (h *penaltyHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter := penalty.PenaltyFilter{
		WorkerID:  optionalQuery(r, "worker_id"),
		ProjectID: optionalQuery(r, "project_id"),
	}
	if outstanding := r.URL.Query().Get("outstanding"); outstanding != "" {
		only, err := strconv.ParseBool(outstanding)
		if err != nil {
			response.BadRequest(w, "outstanding must be true or false", nil)
			return
		}
		filter.OutstandingOnly = only
	}

	results, err := h.penaltyService.ListPenalties(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, results)
}
