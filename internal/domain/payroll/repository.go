package payroll

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// PaymentRepository defines data access for payment records. Payments are
// append-only: there is no Update or Delete beyond advance settlement.
type PaymentRepository interface {
	// Create inserts a payment. Returns ErrDuplicatePayment when a non-advance
	// payment already exists for the same worker, project, date and kind.
	Create(ctx context.Context, p Payment) (Payment, error)

	GetByID(ctx context.Context, id string) (Payment, error)

	ExistsForSlot(ctx context.Context, workerID, projectID string, date time.Time, kind PaymentKind) (bool, error)

	// OutstandingAdvanceTotal sums net - settled over the worker's advances on
	// the project. It takes no locks and is safe in a read-only unit of work.
	OutstandingAdvanceTotal(ctx context.Context, workerID, projectID string) (decimal.Decimal, error)

	// ListOutstandingAdvancesForUpdate returns ADVANCE payments with a positive
	// remainder, oldest payment date first, locked until the unit of work ends.
	ListOutstandingAdvancesForUpdate(ctx context.Context, workerID, projectID string) ([]Payment, error)

	// ApplySettlement adds delta to an advance's settled amount. Returns
	// ErrAdvanceOverSettled if that would push it past the net amount.
	ApplySettlement(ctx context.Context, advanceID string, delta decimal.Decimal) (Payment, error)

	// RecordSettlement appends an allocation to the settlement trail and
	// returns it with the storage timestamp.
	RecordSettlement(ctx context.Context, s AdvanceSettlement) (AdvanceSettlement, error)

	// ListSettlements returns the trail rows touching a payment: recoveries it
	// made when it is a wage payment, recoveries made from it when it is an advance.
	ListSettlements(ctx context.Context, paymentID string) ([]AdvanceSettlement, error)

	List(ctx context.Context, filter PaymentFilter) ([]Payment, int64, error)
}
