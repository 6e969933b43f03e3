// Package advance tracks how much of each cash advance has been recovered from
// later wage payments.
package advance

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sitework-erp/labour-ledger-go/internal/domain/payroll"
	"github.com/sitework-erp/labour-ledger-go/internal/domain/uow"
)

type Engine struct{}

func NewEngine() *Engine {
	return &Engine{}
}

// OutstandingTotal sums net - settled over the worker's advances on the project.
func (e *Engine) OutstandingTotal(ctx context.Context, u uow.UnitOfWork, workerID, projectID string) (decimal.Decimal, error) {
	total, err := u.Payments().OutstandingAdvanceTotal(ctx, workerID, projectID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to get outstanding advances: %w", err)
	}
	return total, nil
}

// Settle recovers amount from the worker's advances, oldest first, and records
// each allocation against settledByPaymentID. It fails with
// ErrSettlementExceedsDue rather than settle part of amount.
func (e *Engine) Settle(ctx context.Context, u uow.UnitOfWork, workerID, projectID string, amount decimal.Decimal, settledByPaymentID string) ([]payroll.Allocation, error) {
	if !amount.IsPositive() {
		return nil, nil
	}

	advances, err := u.Payments().ListOutstandingAdvancesForUpdate(ctx, workerID, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to get outstanding advances: %w", err)
	}

	allocations, remainder := payroll.AllocateFIFO(advances, amount)
	if remainder.IsPositive() {
		return nil, fmt.Errorf("%w: %s requested, %s outstanding",
			payroll.ErrSettlementExceedsDue, amount.StringFixed(2), payroll.TotalOutstanding(advances).StringFixed(2))
	}

	for _, allocation := range allocations {
		if _, err := u.Payments().ApplySettlement(ctx, allocation.AdvanceID, allocation.Amount); err != nil {
			return nil, err
		}

		_, err := u.Payments().RecordSettlement(ctx, payroll.AdvanceSettlement{
			ID:                 uuid.Must(uuid.NewV7()).String(),
			AdvanceID:          allocation.AdvanceID,
			SettledByPaymentID: settledByPaymentID,
			Amount:             allocation.Amount,
		})
		if err != nil {
			return nil, err
		}

		slog.DebugContext(ctx, "Advance settled",
			"advance_id", allocation.AdvanceID,
			"payment_id", settledByPaymentID,
			"amount", allocation.Amount.StringFixed(2),
			"settled_after", allocation.SettledAfter.StringFixed(2),
		)
	}

	return allocations, nil
}
