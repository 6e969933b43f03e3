package memory

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sitework-erp/labour-ledger-go/internal/domain/payroll"
)

type paymentRepository struct {
	data     *data
	now      func() time.Time
	readOnly bool
}

func (r *paymentRepository) Create(ctx context.Context, p payroll.Payment) (payroll.Payment, error) {
	if p.Kind != payroll.PaymentKindAdvance {
		exists, _ := r.ExistsForSlot(ctx, p.WorkerID, p.ProjectID, p.PaymentDate, p.Kind)
		if exists {
			return payroll.Payment{}, payroll.ErrDuplicatePayment
		}
	}
	p.CreatedAt = r.now()
	r.data.payments[p.ID] = p
	return p, nil
}

func (r *paymentRepository) GetByID(ctx context.Context, id string) (payroll.Payment, error) {
	p, ok := r.data.payments[id]
	if !ok {
		return payroll.Payment{}, payroll.ErrPaymentNotFound
	}
	return p, nil
}

func (r *paymentRepository) ExistsForSlot(ctx context.Context, workerID, projectID string, date time.Time, kind payroll.PaymentKind) (bool, error) {
	for _, p := range r.data.payments {
		if p.WorkerID == workerID && p.ProjectID == projectID && p.PaymentDate.Equal(date) && p.Kind == kind {
			return true, nil
		}
	}
	return false, nil
}

func (r *paymentRepository) OutstandingAdvanceTotal(ctx context.Context, workerID, projectID string) (decimal.Decimal, error) {
	return payroll.TotalOutstanding(r.outstandingAdvances(workerID, projectID)), nil
}

func (r *paymentRepository) ListOutstandingAdvancesForUpdate(ctx context.Context, workerID, projectID string) ([]payroll.Payment, error) {
	if r.readOnly {
		return nil, ErrLockInReadOnly
	}
	return r.outstandingAdvances(workerID, projectID), nil
}

func (r *paymentRepository) outstandingAdvances(workerID, projectID string) []payroll.Payment {
	var advances []payroll.Payment
	for _, p := range r.data.payments {
		if p.WorkerID == workerID && p.ProjectID == projectID && p.Outstanding().IsPositive() {
			advances = append(advances, p)
		}
	}
	sort.Slice(advances, func(i, j int) bool {
		a, b := advances[i], advances[j]
		if !a.PaymentDate.Equal(b.PaymentDate) {
			return a.PaymentDate.Before(b.PaymentDate)
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
	return advances
}

func (r *paymentRepository) ApplySettlement(ctx context.Context, advanceID string, delta decimal.Decimal) (payroll.Payment, error) {
	p, ok := r.data.payments[advanceID]
	if !ok || p.Kind != payroll.PaymentKindAdvance {
		return payroll.Payment{}, payroll.ErrAdvanceOverSettled
	}
	settled := p.SettledAmount.Add(delta)
	if settled.IsNegative() || settled.GreaterThan(p.NetAmount) {
		return payroll.Payment{}, payroll.ErrAdvanceOverSettled
	}
	p.SettledAmount = settled
	r.data.payments[advanceID] = p
	return p, nil
}

func (r *paymentRepository) RecordSettlement(ctx context.Context, s payroll.AdvanceSettlement) (payroll.AdvanceSettlement, error) {
	s.CreatedAt = r.now()
	r.data.settlements = append(r.data.settlements, s)
	return s, nil
}

func (r *paymentRepository) ListSettlements(ctx context.Context, paymentID string) ([]payroll.AdvanceSettlement, error) {
	var settlements []payroll.AdvanceSettlement
	for _, s := range r.data.settlements {
		if s.SettledByPaymentID == paymentID || s.AdvanceID == paymentID {
			settlements = append(settlements, s)
		}
	}
	return settlements, nil
}

func (r *paymentRepository) List(ctx context.Context, filter payroll.PaymentFilter) ([]payroll.Payment, int64, error) {
	var payments []payroll.Payment
	for _, p := range r.data.payments {
		if filter.WorkerID != nil && *filter.WorkerID != "" && p.WorkerID != *filter.WorkerID {
			continue
		}
		if filter.ProjectID != nil && *filter.ProjectID != "" && p.ProjectID != *filter.ProjectID {
			continue
		}
		if filter.Kind != nil && *filter.Kind != "" && string(p.Kind) != *filter.Kind {
			continue
		}
		if filter.StartDate != nil && p.PaymentDate.Before(*filter.StartDate) {
			continue
		}
		if filter.EndDate != nil && p.PaymentDate.After(*filter.EndDate) {
			continue
		}
		payments = append(payments, p)
	}
	sort.Slice(payments, func(i, j int) bool {
		if !payments[i].PaymentDate.Equal(payments[j].PaymentDate) {
			return payments[i].PaymentDate.After(payments[j].PaymentDate)
		}
		return payments[i].CreatedAt.After(payments[j].CreatedAt)
	})

	total := int64(len(payments))
	return paginate(payments, filter.Page, filter.Limit), total, nil
}
