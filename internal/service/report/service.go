package report

import (
	"context"

	"github.com/sitework-erp/labour-ledger-go/internal/domain/report"
	"github.com/sitework-erp/labour-ledger-go/internal/domain/uow"
	"github.com/sitework-erp/labour-ledger-go/internal/pkg/validator"
)

type ReportServiceImpl struct {
	tx uow.Transactor
}

func NewReportService(tx uow.Transactor) report.ReportService {
	return &ReportServiceImpl{
		tx: tx,
	}
}

// ProjectLabourCost implements report.ReportService.
//
// Labour cost is accrued on wages earned: gross of every non-advance payment
// less the penalties applied against them. Net cash paid is reported but never
// enters the cost, since an advance is a receivable on the worker until it is
// recovered from wages.
func (s *ReportServiceImpl) ProjectLabourCost(ctx context.Context, projectID string) (report.ProjectLabourCost, error) {
	if errs := validator.RequiredUUID(nil, "project_id", projectID); len(errs) > 0 {
		return report.ProjectLabourCost{}, errs
	}

	var totals report.ProjectLabourTotals
	err := s.tx.View(ctx, func(ctx context.Context, u uow.UnitOfWork) error {
		var err error
		totals, err = u.Reports().GetProjectLabourTotals(ctx, projectID)
		return err
	})
	if err != nil {
		return report.ProjectLabourCost{}, err
	}

	return report.ProjectLabourCost{
		ProjectID:           projectID,
		GrossCost:           totals.GrossWages,
		AppliedPenalties:    totals.AppliedPenalties,
		NetLabourCost:       totals.GrossWages.Sub(totals.AppliedPenalties),
		WagePayments:        totals.WagePayments,
		CashPaid:            totals.CashPaid,
		AdvancesOutstanding: totals.AdvancesOutstanding,
	}, nil
}
