package penalty

import (
	"context"

	"github.com/shopspring/decimal"
)

type PenaltyService interface {
	RecordPenalty(ctx context.Context, req RecordPenaltyRequest) (PenaltyResponse, error)
	ListPenalties(ctx context.Context, filter PenaltyFilter) ([]PenaltyResponse, error)
	Outstanding(ctx context.Context, workerID, projectID string) (decimal.Decimal, error)
}
