package memory

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sitework-erp/labour-ledger-go/internal/domain/penalty"
)

type penaltyRepository struct {
	data *data
	now  func() time.Time
}

func (r *penaltyRepository) Create(ctx context.Context, p penalty.Penalty) (penalty.Penalty, error) {
	p.CreatedAt = r.now()
	p.IsDeducted = false
	p.DeductedByPaymentID = nil
	r.data.penalties[p.ID] = p
	return p, nil
}

func (r *penaltyRepository) GetByID(ctx context.Context, id string) (penalty.Penalty, error) {
	p, ok := r.data.penalties[id]
	if !ok {
		return penalty.Penalty{}, penalty.ErrPenaltyNotFound
	}
	return p, nil
}

func (r *penaltyRepository) OutstandingTotal(ctx context.Context, workerID, projectID string) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, p := range r.data.penalties {
		if p.WorkerID == workerID && p.ProjectID == projectID && !p.IsDeducted {
			total = total.Add(p.Amount)
		}
	}
	return total, nil
}

func (r *penaltyRepository) MarkDeducted(ctx context.Context, workerID, projectID, paymentID string) (int64, error) {
	var marked int64
	for id, p := range r.data.penalties {
		if p.WorkerID != workerID || p.ProjectID != projectID || p.IsDeducted {
			continue
		}
		pid := paymentID
		p.IsDeducted = true
		p.DeductedByPaymentID = &pid
		r.data.penalties[id] = p
		marked++
	}
	return marked, nil
}

func (r *penaltyRepository) List(ctx context.Context, filter penalty.PenaltyFilter) ([]penalty.Penalty, error) {
	var penalties []penalty.Penalty
	for _, p := range r.data.penalties {
		if filter.WorkerID != nil && *filter.WorkerID != "" && p.WorkerID != *filter.WorkerID {
			continue
		}
		if filter.ProjectID != nil && *filter.ProjectID != "" && p.ProjectID != *filter.ProjectID {
			continue
		}
		if filter.OutstandingOnly && p.IsDeducted {
			continue
		}
		penalties = append(penalties, p)
	}
	sort.Slice(penalties, func(i, j int) bool {
		if !penalties[i].Date.Equal(penalties[j].Date) {
			return penalties[i].Date.Before(penalties[j].Date)
		}
		return penalties[i].CreatedAt.Before(penalties[j].CreatedAt)
	})
	return penalties, nil
}
