package payroll

import (
	"fmt"

	"github.com/sitework-erp/labour-ledger-go/internal/domain/common"
)

var (
	ErrPaymentNotFound      = fmt.Errorf("%w: payment not found", common.ErrNotFound)
	ErrDuplicatePayment     = fmt.Errorf("%w: duplicate payment", common.ErrStateConflict)
	ErrFuturePaymentDate    = fmt.Errorf("%w: payment date cannot be in the future", common.ErrValidation)
	ErrSettlementExceedsDue = fmt.Errorf("%w: settlement exceeds outstanding advances", common.ErrInvariantViolation)
	ErrAdvanceOverSettled   = fmt.Errorf("%w: advance settled amount would exceed its net amount", common.ErrInvariantViolation)
)

// NegativeNetError is returned when a computed net amount comes out below zero.
// It carries the full breakdown so the discrepancy can be reviewed by a person.
type NegativeNetError struct {
	Breakdown DeductionBreakdown
}

func (e *NegativeNetError) Error() string {
	b := e.Breakdown
	return fmt.Sprintf("net amount %s is negative (gross %s, penalty deduction %s, advance deduction %s)",
		b.Net.StringFixed(2), b.Gross.StringFixed(2), b.PenaltyDeduction.StringFixed(2), b.AdvanceDeduction.StringFixed(2))
}

func (e *NegativeNetError) Unwrap() error {
	return common.ErrInvariantViolation
}

// Details returns the numeric breakdown keyed for an API error body.
func (e *NegativeNetError) Details() map[string]string {
	b := e.Breakdown
	return map[string]string{
		"gross_amount":      b.Gross.StringFixed(2),
		"penalty_total":     b.PenaltyTotal.StringFixed(2),
		"advance_total":     b.AdvanceTotal.StringFixed(2),
		"penalty_deduction": b.PenaltyDeduction.StringFixed(2),
		"advance_deduction": b.AdvanceDeduction.StringFixed(2),
		"deduction_amount":  b.Deduction().StringFixed(2),
		"net_amount":        b.Net.StringFixed(2),
	}
}
