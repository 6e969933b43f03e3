package payroll

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sitework-erp/labour-ledger-go/internal/domain/audit"
	"github.com/sitework-erp/labour-ledger-go/internal/domain/common"
	"github.com/sitework-erp/labour-ledger-go/internal/domain/payroll"
	"github.com/sitework-erp/labour-ledger-go/internal/domain/uow"
	"github.com/sitework-erp/labour-ledger-go/internal/domain/worker"
	"github.com/sitework-erp/labour-ledger-go/internal/pkg/lock"
	"github.com/sitework-erp/labour-ledger-go/internal/pkg/validator"
)

// AttendanceLinker marks attendance as paid by a payment.
type AttendanceLinker interface {
	LinkToPayment(ctx context.Context, u uow.UnitOfWork, workerID, projectID string, upTo time.Time, paymentID string) (int64, error)
}

// PenaltyLedger exposes the outstanding penalties of a worker on a project.
type PenaltyLedger interface {
	OutstandingTotal(ctx context.Context, u uow.UnitOfWork, workerID, projectID string) (decimal.Decimal, error)
	MarkDeducted(ctx context.Context, u uow.UnitOfWork, workerID, projectID, paymentID string) (int64, error)
}

// AdvanceLedger exposes the unrecovered advances of a worker on a project.
type AdvanceLedger interface {
	OutstandingTotal(ctx context.Context, u uow.UnitOfWork, workerID, projectID string) (decimal.Decimal, error)
	Settle(ctx context.Context, u uow.UnitOfWork, workerID, projectID string, amount decimal.Decimal, settledByPaymentID string) ([]payroll.Allocation, error)
}

// Rates turn attendance into money for wage previews.
type Rates struct {
	ShiftHours         decimal.Decimal
	OvertimeMultiplier decimal.Decimal
}

type PayrollServiceImpl struct {
	tx         uow.Transactor
	attendance AttendanceLinker
	penalties  PenaltyLedger
	advances   AdvanceLedger
	locker     lock.Locker
	recorder   audit.Recorder
	calendar   common.Calendar
	rates      Rates
}

func NewPayrollService(
	tx uow.Transactor,
	attendance AttendanceLinker,
	penalties PenaltyLedger,
	advances AdvanceLedger,
	locker lock.Locker,
	recorder audit.Recorder,
	calendar common.Calendar,
	rates Rates,
) *PayrollServiceImpl {
	if locker == nil {
		locker = lock.NewNoop()
	}
	return &PayrollServiceImpl{
		tx:         tx,
		attendance: attendance,
		penalties:  penalties,
		advances:   advances,
		locker:     locker,
		recorder:   recorder,
		calendar:   calendar,
		rates:      rates,
	}
}

var _ payroll.PayrollService = (*PayrollServiceImpl)(nil)

// RecordPayment implements payroll.PayrollService. The duplicate check, the
// deduction computation and every write run in a single unit of work holding
// the worker's ledger lock.
func (s *PayrollServiceImpl) RecordPayment(ctx context.Context, req payroll.RecordPaymentRequest) (payroll.RecordPaymentResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.RecordPaymentResponse{}, err
	}

	date, err := time.Parse(common.DateLayout, req.Date)
	if err != nil {
		return payroll.RecordPaymentResponse{}, validator.ValidationErrors{{Field: "date", Message: "must be a valid date (YYYY-MM-DD)"}}
	}
	if date.After(s.calendar.Today()) {
		return payroll.RecordPaymentResponse{}, payroll.ErrFuturePaymentDate
	}

	release, err := s.locker.Acquire(ctx, ledgerKey(req.WorkerID, req.ProjectID))
	if err != nil {
		return payroll.RecordPaymentResponse{}, err
	}
	defer release()

	var (
		result  payroll.RecordPaymentResponse
		created payroll.Payment
	)
	err = s.tx.Do(ctx, func(ctx context.Context, u uow.UnitOfWork) error {
		var err error
		created, result, err = s.recordPayment(ctx, u, req, date)
		return err
	})
	if err != nil {
		return payroll.RecordPaymentResponse{}, err
	}

	slog.InfoContext(ctx, "Payment recorded",
		"payment_id", result.ID,
		"worker_id", req.WorkerID,
		"project_id", req.ProjectID,
		"kind", result.Kind,
		"gross_amount", result.GrossAmount.StringFixed(2),
		"penalties_deducted", result.PenaltiesDeducted.StringFixed(2),
		"advances_deducted", result.AdvancesDeducted.StringFixed(2),
		"net_amount", result.NetAmount.StringFixed(2),
		"attendance_linked", result.AttendanceLinked,
	)
	if err := s.recorder.Record(ctx, audit.Event{
		ActorID:    req.CreatedBy,
		Action:     audit.ActionPaymentRecorded,
		EntityType: "payment",
		EntityID:   created.ID,
		After:      payroll.ToResponse(created),
	}); err != nil {
		slog.WarnContext(ctx, "Failed to record audit event", "action", audit.ActionPaymentRecorded, "entity_id", created.ID, "error", err)
	}

	return result, nil
}

// recordPayment is the body of the payment unit of work. It may run more than
// once when the store retries a serialization conflict.
func (s *PayrollServiceImpl) recordPayment(ctx context.Context, u uow.UnitOfWork, req payroll.RecordPaymentRequest, date time.Time) (payroll.Payment, payroll.RecordPaymentResponse, error) {
	if err := u.LockWorker(ctx, req.WorkerID, req.ProjectID); err != nil {
		return payroll.Payment{}, payroll.RecordPaymentResponse{}, err
	}
	if _, err := worker.RequireActive(ctx, u.Workers(), req.WorkerID); err != nil {
		return payroll.Payment{}, payroll.RecordPaymentResponse{}, err
	}

	kind := payroll.PaymentKind(req.Kind)
	if kind.SettlesAttendance() {
		exists, err := u.Payments().ExistsForSlot(ctx, req.WorkerID, req.ProjectID, date, kind)
		if err != nil {
			return payroll.Payment{}, payroll.RecordPaymentResponse{}, err
		}
		if exists {
			return payroll.Payment{}, payroll.RecordPaymentResponse{}, payroll.ErrDuplicatePayment
		}
	}

	gross := req.Gross()
	payment := payroll.Payment{
		ID:              uuid.Must(uuid.NewV7()).String(),
		WorkerID:        req.WorkerID,
		ProjectID:       req.ProjectID,
		PaymentDate:     date,
		Kind:            kind,
		BaseAmount:      req.BaseAmount,
		OvertimeAmount:  req.OvertimeAmount,
		BonusAmount:     req.BonusAmount,
		DeductionAmount: decimal.Zero,
		NetAmount:       gross,
		SettledAmount:   decimal.Zero,
		Method:          payroll.PaymentMethod(req.Method),
		Notes:           req.Notes,
		CreatedBy:       req.CreatedBy,
	}

	// Advances never deduct from themselves and never pay attendance.
	if kind == payroll.PaymentKindAdvance {
		created, err := u.Payments().Create(ctx, payment)
		if err != nil {
			return payroll.Payment{}, payroll.RecordPaymentResponse{}, err
		}
		return created, payroll.RecordPaymentResponse{
			ID:                created.ID,
			Kind:              string(created.Kind),
			GrossAmount:       gross,
			DeductionAmount:   decimal.Zero,
			NetAmount:         created.NetAmount,
			AdvancesDeducted:  decimal.Zero,
			PenaltiesDeducted: decimal.Zero,
		}, nil
	}

	penaltyTotal, err := s.penalties.OutstandingTotal(ctx, u, req.WorkerID, req.ProjectID)
	if err != nil {
		return payroll.Payment{}, payroll.RecordPaymentResponse{}, err
	}
	advanceTotal, err := s.advances.OutstandingTotal(ctx, u, req.WorkerID, req.ProjectID)
	if err != nil {
		return payroll.Payment{}, payroll.RecordPaymentResponse{}, err
	}

	breakdown, err := payroll.ComputeDeductions(gross, penaltyTotal, advanceTotal)
	if err != nil {
		slog.ErrorContext(ctx, "Deduction breakdown failed verification",
			"worker_id", req.WorkerID,
			"project_id", req.ProjectID,
			"gross_amount", breakdown.Gross.StringFixed(2),
			"penalty_deduction", breakdown.PenaltyDeduction.StringFixed(2),
			"advance_deduction", breakdown.AdvanceDeduction.StringFixed(2),
			"net_amount", breakdown.Net.StringFixed(2),
		)
		return payroll.Payment{}, payroll.RecordPaymentResponse{}, err
	}

	payment.DeductionAmount = breakdown.Deduction()
	payment.NetAmount = breakdown.Net

	created, err := u.Payments().Create(ctx, payment)
	if err != nil {
		return payroll.Payment{}, payroll.RecordPaymentResponse{}, err
	}

	linked, err := s.attendance.LinkToPayment(ctx, u, req.WorkerID, req.ProjectID, date, created.ID)
	if err != nil {
		return payroll.Payment{}, payroll.RecordPaymentResponse{}, err
	}

	var allocations []payroll.Allocation
	if breakdown.AdvanceDeduction.IsPositive() {
		allocations, err = s.advances.Settle(ctx, u, req.WorkerID, req.ProjectID, breakdown.AdvanceDeduction, created.ID)
		if err != nil {
			return payroll.Payment{}, payroll.RecordPaymentResponse{}, err
		}
	}

	if breakdown.PenaltyDeduction.IsPositive() {
		if _, err := s.penalties.MarkDeducted(ctx, u, req.WorkerID, req.ProjectID, created.ID); err != nil {
			return payroll.Payment{}, payroll.RecordPaymentResponse{}, err
		}
	}

	return created, payroll.RecordPaymentResponse{
		ID:                created.ID,
		Kind:              string(created.Kind),
		GrossAmount:       breakdown.Gross,
		DeductionAmount:   breakdown.Deduction(),
		NetAmount:         breakdown.Net,
		AdvancesDeducted:  breakdown.AdvanceDeduction,
		PenaltiesDeducted: breakdown.PenaltyDeduction,
		AttendanceLinked:  linked,
		Settlements:       allocations,
	}, nil
}

// GetPayment implements payroll.PayrollService. The response carries the
// settlement trail: what a wage payment recovered, or how an advance was recovered.
func (s *PayrollServiceImpl) GetPayment(ctx context.Context, id string) (payroll.PaymentResponse, error) {
	if !validator.IsUUID(id) {
		return payroll.PaymentResponse{}, payroll.ErrPaymentNotFound
	}

	var (
		payment     payroll.Payment
		settlements []payroll.AdvanceSettlement
	)
	err := s.tx.View(ctx, func(ctx context.Context, u uow.UnitOfWork) error {
		var err error
		payment, err = u.Payments().GetByID(ctx, id)
		if err != nil {
			return err
		}
		settlements, err = u.Payments().ListSettlements(ctx, id)
		return err
	})
	if err != nil {
		return payroll.PaymentResponse{}, err
	}

	resp := payroll.ToResponse(payment)
	for _, settlement := range settlements {
		resp.Settlements = append(resp.Settlements, payroll.ToSettlementResponse(settlement))
	}
	return resp, nil
}

// ListPayments implements payroll.PayrollService.
func (s *PayrollServiceImpl) ListPayments(ctx context.Context, filter payroll.PaymentFilter) (payroll.ListPaymentResponse, error) {
	if err := filter.Validate(); err != nil {
		return payroll.ListPaymentResponse{}, err
	}
	filter.Normalize()

	var (
		payments []payroll.Payment
		total    int64
	)
	err := s.tx.View(ctx, func(ctx context.Context, u uow.UnitOfWork) error {
		var err error
		payments, total, err = u.Payments().List(ctx, filter)
		return err
	})
	if err != nil {
		return payroll.ListPaymentResponse{}, err
	}

	data := make([]payroll.PaymentResponse, 0, len(payments))
	for _, p := range payments {
		data = append(data, payroll.ToResponse(p))
	}

	return payroll.ListPaymentResponse{
		Data:       data,
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
	}, nil
}

// PreviewWages implements payroll.PayrollService.
//
// base     = daily rate x day units
// overtime = overtime hours x (daily rate / shift hours) x multiplier
//
// Deductions follow the same rule RecordPayment applies, against today's
// outstanding balances. Nothing is written.
func (s *PayrollServiceImpl) PreviewWages(ctx context.Context, req payroll.WagePreviewRequest) (payroll.WagePreviewResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.WagePreviewResponse{}, err
	}
	upTo, err := time.Parse(common.DateLayout, req.UpTo)
	if err != nil {
		return payroll.WagePreviewResponse{}, validator.ValidationErrors{{Field: "up_to", Message: "must be a valid date (YYYY-MM-DD)"}}
	}

	resp := payroll.WagePreviewResponse{
		WorkerID:  req.WorkerID,
		ProjectID: req.ProjectID,
		UpTo:      req.UpTo,
	}

	err = s.tx.View(ctx, func(ctx context.Context, u uow.UnitOfWork) error {
		w, err := u.Workers().GetByID(ctx, req.WorkerID)
		if err != nil {
			return err
		}

		records, err := u.Attendance().ListPayable(ctx, req.WorkerID, req.ProjectID, upTo)
		if err != nil {
			return fmt.Errorf("failed to list payable attendance: %w", err)
		}

		units := decimal.Zero
		overtimeHours := decimal.Zero
		for _, record := range records {
			units = units.Add(record.DayUnits(s.rates.ShiftHours))
			overtimeHours = overtimeHours.Add(record.OvertimeHours)
		}

		base := w.DailyRate.Mul(units).Round(2)
		overtime := decimal.Zero
		if s.rates.ShiftHours.IsPositive() {
			hourly := w.DailyRate.Div(s.rates.ShiftHours)
			overtime = overtimeHours.Mul(hourly).Mul(s.rates.OvertimeMultiplier).Round(2)
		}
		gross := base.Add(overtime)

		penaltyTotal, err := s.penalties.OutstandingTotal(ctx, u, req.WorkerID, req.ProjectID)
		if err != nil {
			return err
		}
		advanceTotal, err := s.advances.OutstandingTotal(ctx, u, req.WorkerID, req.ProjectID)
		if err != nil {
			return err
		}
		breakdown, err := payroll.ComputeDeductions(gross, penaltyTotal, advanceTotal)
		if err != nil {
			return err
		}

		resp.AttendanceCount = len(records)
		resp.DayUnits = units
		resp.OvertimeHours = overtimeHours
		resp.BaseAmount = base
		resp.OvertimeAmount = overtime
		resp.GrossAmount = gross
		resp.PenaltyDeduction = breakdown.PenaltyDeduction
		resp.AdvanceDeduction = breakdown.AdvanceDeduction
		resp.NetAmount = breakdown.Net
		return nil
	})
	if err != nil {
		return payroll.WagePreviewResponse{}, err
	}

	return resp, nil
}

// WorkerBalance implements payroll.PayrollService.
func (s *PayrollServiceImpl) WorkerBalance(ctx context.Context, workerID, projectID string) (payroll.WorkerBalanceResponse, error) {
	var errs validator.ValidationErrors
	errs = validator.RequiredUUID(errs, "worker_id", workerID)
	errs = validator.RequiredUUID(errs, "project_id", projectID)
	if len(errs) > 0 {
		return payroll.WorkerBalanceResponse{}, errs
	}

	resp := payroll.WorkerBalanceResponse{WorkerID: workerID, ProjectID: projectID}

	err := s.tx.View(ctx, func(ctx context.Context, u uow.UnitOfWork) error {
		if _, err := u.Workers().GetByID(ctx, workerID); err != nil {
			return err
		}

		advances, err := s.advances.OutstandingTotal(ctx, u, workerID, projectID)
		if err != nil {
			return err
		}
		penalties, err := s.penalties.OutstandingTotal(ctx, u, workerID, projectID)
		if err != nil {
			return err
		}

		resp.AdvancesOutstanding = advances
		resp.PenaltiesPending = penalties
		return nil
	})
	if err != nil {
		return payroll.WorkerBalanceResponse{}, err
	}

	return resp, nil
}

func ledgerKey(workerID, projectID string) string {
	return "labour-ledger:" + workerID + ":" + projectID
}
