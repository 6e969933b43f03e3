package penalty

import (
	"context"

	"github.com/shopspring/decimal"
)

type PenaltyRepository interface {
	Create(ctx context.Context, p Penalty) (Penalty, error)
	GetByID(ctx context.Context, id string) (Penalty, error)

	// OutstandingTotal sums penalties not yet deducted for the worker and project.
	OutstandingTotal(ctx context.Context, workerID, projectID string) (decimal.Decimal, error)

	// MarkDeducted flags every outstanding penalty for the worker and project as
	// deducted by paymentID. Returns the number of penalties flipped.
	MarkDeducted(ctx context.Context, workerID, projectID, paymentID string) (int64, error)

	List(ctx context.Context, filter PenaltyFilter) ([]Penalty, error)
}
