package postgresql

import (
	"context"
	"fmt"

	"github.com/sitework-erp/labour-ledger-go/internal/domain/report"
	"github.com/sitework-erp/labour-ledger-go/internal/pkg/database"
)

type reportRepository struct {
	q database.Querier
}

func NewReportRepository(q database.Querier) report.ReportRepository {
	return &reportRepository{q: q}
}

// GetProjectLabourTotals implements report.ReportRepository.
func (r *reportRepository) GetProjectLabourTotals(ctx context.Context, projectID string) (report.ProjectLabourTotals, error) {
	query := `
		SELECT
			COALESCE(SUM(base_amount + overtime_amount + bonus_amount) FILTER (WHERE kind <> 'ADVANCE'), 0) AS gross_wages,
			COUNT(*) FILTER (WHERE kind <> 'ADVANCE') AS wage_payments,
			COALESCE(SUM(net_amount), 0) AS cash_paid,
			COALESCE(SUM(net_amount - settled_amount) FILTER (WHERE kind = 'ADVANCE'), 0) AS advances_outstanding,
			(
				SELECT COALESCE(SUM(amount), 0)
				FROM penalty_records
				WHERE project_id = $1 AND is_deducted = TRUE
			) AS applied_penalties
		FROM payment_records
		WHERE project_id = $1
	`

	var t report.ProjectLabourTotals
	err := r.q.QueryRow(ctx, query, projectID).Scan(
		&t.GrossWages, &t.WagePayments, &t.CashPaid, &t.AdvancesOutstanding, &t.AppliedPenalties,
	)
	if err != nil {
		return report.ProjectLabourTotals{}, fmt.Errorf("failed to get project labour totals: %w", err)
	}
	return t, nil
}
