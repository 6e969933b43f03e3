package payroll

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Allocation is the share of a deduction applied to one advance.
type Allocation struct {
	AdvanceID     string          `json:"advance_id"`
	Amount        decimal.Decimal `json:"amount"`
	SettledBefore decimal.Decimal `json:"settled_before"`
	SettledAfter  decimal.Decimal `json:"settled_after"`
}

// AllocateFIFO spreads amount across advances, oldest payment date first, never
// taking more from an advance than it still has outstanding. It returns the
// allocations and whatever part of amount could not be placed.
func AllocateFIFO(advances []Payment, amount decimal.Decimal) ([]Allocation, decimal.Decimal) {
	if !amount.IsPositive() {
		return nil, decimal.Zero
	}

	ordered := make([]Payment, len(advances))
	copy(ordered, advances)
	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		if !a.PaymentDate.Equal(b.PaymentDate) {
			return a.PaymentDate.Before(b.PaymentDate)
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})

	remaining := amount
	var allocations []Allocation
	for _, adv := range ordered {
		if !remaining.IsPositive() {
			break
		}
		outstanding := adv.Outstanding()
		if !outstanding.IsPositive() {
			continue
		}

		delta := decimal.Min(outstanding, remaining)
		allocations = append(allocations, Allocation{
			AdvanceID:     adv.ID,
			Amount:        delta,
			SettledBefore: adv.SettledAmount,
			SettledAfter:  adv.SettledAmount.Add(delta),
		})
		remaining = remaining.Sub(delta)
	}

	return allocations, remaining
}

// TotalOutstanding sums the unrecovered balance of the given advances.
func TotalOutstanding(advances []Payment) decimal.Decimal {
	total := decimal.Zero
	for _, adv := range advances {
		if o := adv.Outstanding(); o.IsPositive() {
			total = total.Add(o)
		}
	}
	return total
}
