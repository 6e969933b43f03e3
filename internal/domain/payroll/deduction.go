package payroll

import "github.com/shopspring/decimal"

// DeductionBreakdown is the result of netting a gross wage against what the
// worker owes.
type DeductionBreakdown struct {
	Gross            decimal.Decimal
	PenaltyTotal     decimal.Decimal
	AdvanceTotal     decimal.Decimal
	PenaltyDeduction decimal.Decimal
	AdvanceDeduction decimal.Decimal
	Net              decimal.Decimal
}

func (b DeductionBreakdown) Deduction() decimal.Decimal {
	return b.PenaltyDeduction.Add(b.AdvanceDeduction)
}

// Verify asserts the accounting identities of a breakdown. It never clamps.
func (b DeductionBreakdown) Verify() error {
	if b.Net.IsNegative() || !b.Net.Equal(b.Gross.Sub(b.Deduction())) {
		return &NegativeNetError{Breakdown: b}
	}
	return nil
}

// ComputeDeductions applies the deduction priority: outstanding penalties take
// the first claim on gross, outstanding advances take what remains, and any
// advance balance beyond that stays outstanding for the next payroll run.
func ComputeDeductions(gross, penaltyTotal, advanceTotal decimal.Decimal) (DeductionBreakdown, error) {
	b := DeductionBreakdown{
		Gross:        gross,
		PenaltyTotal: penaltyTotal,
		AdvanceTotal: advanceTotal,
	}

	b.PenaltyDeduction = nonNegative(decimal.Min(penaltyTotal, gross))
	remaining := gross.Sub(b.PenaltyDeduction)
	b.AdvanceDeduction = nonNegative(decimal.Min(advanceTotal, remaining))
	b.Net = gross.Sub(b.Deduction())

	if err := b.Verify(); err != nil {
		return b, err
	}
	return b, nil
}

func nonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
