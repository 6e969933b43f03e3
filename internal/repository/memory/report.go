package memory

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/sitework-erp/labour-ledger-go/internal/domain/payroll"
	"github.com/sitework-erp/labour-ledger-go/internal/domain/report"
)

type reportRepository struct {
	data *data
}

func (r *reportRepository) GetProjectLabourTotals(ctx context.Context, projectID string) (report.ProjectLabourTotals, error) {
	totals := report.ProjectLabourTotals{
		GrossWages:          decimal.Zero,
		AppliedPenalties:    decimal.Zero,
		CashPaid:            decimal.Zero,
		AdvancesOutstanding: decimal.Zero,
	}

	for _, p := range r.data.payments {
		if p.ProjectID != projectID {
			continue
		}
		totals.CashPaid = totals.CashPaid.Add(p.NetAmount)
		if p.Kind == payroll.PaymentKindAdvance {
			totals.AdvancesOutstanding = totals.AdvancesOutstanding.Add(p.Outstanding())
			continue
		}
		totals.GrossWages = totals.GrossWages.Add(p.GrossAmount())
		totals.WagePayments++
	}

	for _, p := range r.data.penalties {
		if p.ProjectID == projectID && p.IsDeducted {
			totals.AppliedPenalties = totals.AppliedPenalties.Add(p.Amount)
		}
	}

	return totals, nil
}
