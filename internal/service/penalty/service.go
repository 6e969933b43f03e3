package penalty

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sitework-erp/labour-ledger-go/internal/domain/audit"
	"github.com/sitework-erp/labour-ledger-go/internal/domain/common"
	"github.com/sitework-erp/labour-ledger-go/internal/domain/penalty"
	"github.com/sitework-erp/labour-ledger-go/internal/domain/uow"
	"github.com/sitework-erp/labour-ledger-go/internal/domain/worker"
	"github.com/sitework-erp/labour-ledger-go/internal/pkg/validator"
)

type PenaltyServiceImpl struct {
	tx       uow.Transactor
	recorder audit.Recorder
	calendar common.Calendar
}

// RecordPenalty implements penalty.PenaltyService.
func (s *PenaltyServiceImpl) RecordPenalty(ctx context.Context, req penalty.RecordPenaltyRequest) (penalty.PenaltyResponse, error) {
	if err := req.Validate(); err != nil {
		return penalty.PenaltyResponse{}, err
	}

	date, err := time.Parse(common.DateLayout, req.Date)
	if err != nil {
		return penalty.PenaltyResponse{}, validator.ValidationErrors{{Field: "date", Message: "must be a valid date (YYYY-MM-DD)"}}
	}
	if date.After(s.calendar.Today()) {
		return penalty.PenaltyResponse{}, penalty.ErrFutureDate
	}

	newPenalty := penalty.Penalty{
		ID:        uuid.Must(uuid.NewV7()).String(),
		WorkerID:  req.WorkerID,
		ProjectID: req.ProjectID,
		Date:      date,
		Kind:      req.Kind,
		Amount:    req.Amount,
		Reason:    req.Reason,
		CreatedBy: req.CreatedBy,
	}

	var created penalty.Penalty
	err = s.tx.Do(ctx, func(ctx context.Context, u uow.UnitOfWork) error {
		if _, err := worker.RequireActive(ctx, u.Workers(), req.WorkerID); err != nil {
			return err
		}
		created, err = u.Penalties().Create(ctx, newPenalty)
		return err
	})
	if err != nil {
		return penalty.PenaltyResponse{}, err
	}

	response := penalty.ToResponse(created)
	slog.InfoContext(ctx, "Penalty recorded", "penalty_id", created.ID, "worker_id", created.WorkerID, "project_id", created.ProjectID, "amount", created.Amount.StringFixed(2))
	if err := s.recorder.Record(ctx, audit.Event{
		ActorID:    req.CreatedBy,
		Action:     audit.ActionPenaltyRecorded,
		EntityType: "penalty",
		EntityID:   created.ID,
		After:      response,
	}); err != nil {
		slog.WarnContext(ctx, "Failed to record audit event", "action", audit.ActionPenaltyRecorded, "entity_id", created.ID, "error", err)
	}

	return response, nil
}

// ListPenalties implements penalty.PenaltyService.
func (s *PenaltyServiceImpl) ListPenalties(ctx context.Context, filter penalty.PenaltyFilter) ([]penalty.PenaltyResponse, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	var penalties []penalty.Penalty
	err := s.tx.View(ctx, func(ctx context.Context, u uow.UnitOfWork) error {
		var err error
		penalties, err = u.Penalties().List(ctx, filter)
		return err
	})
	if err != nil {
		return nil, err
	}

	responses := make([]penalty.PenaltyResponse, 0, len(penalties))
	for _, p := range penalties {
		responses = append(responses, penalty.ToResponse(p))
	}
	return responses, nil
}

// Outstanding implements penalty.PenaltyService.
func (s *PenaltyServiceImpl) Outstanding(ctx context.Context, workerID, projectID string) (decimal.Decimal, error) {
	var errs validator.ValidationErrors
	errs = validator.RequiredUUID(errs, "worker_id", workerID)
	errs = validator.RequiredUUID(errs, "project_id", projectID)
	if len(errs) > 0 {
		return decimal.Zero, errs
	}

	var total decimal.Decimal
	err := s.tx.View(ctx, func(ctx context.Context, u uow.UnitOfWork) error {
		var err error
		total, err = s.OutstandingTotal(ctx, u, workerID, projectID)
		return err
	})
	return total, err
}

// OutstandingTotal sums penalties not yet deducted, inside the caller's unit of work.
func (s *PenaltyServiceImpl) OutstandingTotal(ctx context.Context, u uow.UnitOfWork, workerID, projectID string) (decimal.Decimal, error) {
	total, err := u.Penalties().OutstandingTotal(ctx, workerID, projectID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to get outstanding penalties: %w", err)
	}
	return total, nil
}

// MarkDeducted flips every currently outstanding penalty to deducted by
// paymentID. Penalties recorded afterwards stay outstanding.
func (s *PenaltyServiceImpl) MarkDeducted(ctx context.Context, u uow.UnitOfWork, workerID, projectID, paymentID string) (int64, error) {
	marked, err := u.Penalties().MarkDeducted(ctx, workerID, projectID, paymentID)
	if err != nil {
		return 0, fmt.Errorf("failed to mark penalties deducted: %w", err)
	}
	return marked, nil
}

func NewPenaltyService(tx uow.Transactor, recorder audit.Recorder, calendar common.Calendar) *PenaltyServiceImpl {
	return &PenaltyServiceImpl{
		tx:       tx,
		recorder: recorder,
		calendar: calendar,
	}
}

var _ penalty.PenaltyService = (*PenaltyServiceImpl)(nil)
