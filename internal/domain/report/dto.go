package report

import "github.com/shopspring/decimal"

// ProjectLabourTotals are the raw sums a labour cost report is built from.
type ProjectLabourTotals struct {
	// Σ(base + overtime + bonus) over WAGES and FINAL_SETTLEMENT payments
	GrossWages decimal.Decimal
	// Σ amount over penalties already deducted from a payment
	AppliedPenalties decimal.Decimal
	// Σ net over every payment, advances included
	CashPaid decimal.Decimal
	// Σ(net - settled) over advances
	AdvancesOutstanding decimal.Decimal
	WagePayments        int64
}

type ProjectLabourCost struct {
	ProjectID        string          `json:"project_id"`
	GrossCost        decimal.Decimal `json:"gross_cost"`
	AppliedPenalties decimal.Decimal `json:"applied_penalties"`
	NetLabourCost    decimal.Decimal `json:"net_labour_cost"`
	WagePayments     int64           `json:"wage_payments"`

	// Cash-flow figures, reported alongside and never part of the cost.
	CashPaid            decimal.Decimal `json:"cash_paid"`
	AdvancesOutstanding decimal.Decimal `json:"advances_outstanding"`
}
