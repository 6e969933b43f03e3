package postgresql

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"

	"github.com/sitework-erp/labour-ledger-go/internal/domain/attendance"
	"github.com/sitework-erp/labour-ledger-go/internal/domain/payroll"
	"github.com/sitework-erp/labour-ledger-go/internal/domain/penalty"
	"github.com/sitework-erp/labour-ledger-go/internal/domain/report"
	"github.com/sitework-erp/labour-ledger-go/internal/domain/uow"
	"github.com/sitework-erp/labour-ledger-go/internal/domain/worker"
	"github.com/sitework-erp/labour-ledger-go/internal/pkg/database"
)

type unitOfWork struct {
	tx         pgx.Tx
	workers    worker.WorkerRepository
	attendance attendance.AttendanceRepository
	penalties  penalty.PenaltyRepository
	payments   payroll.PaymentRepository
	reports    report.ReportRepository
}

func newUnitOfWork(tx pgx.Tx) *unitOfWork {
	return &unitOfWork{
		tx:         tx,
		workers:    NewWorkerRepository(tx),
		attendance: NewAttendanceRepository(tx),
		penalties:  NewPenaltyRepository(tx),
		payments:   NewPaymentRepository(tx),
		reports:    NewReportRepository(tx),
	}
}

func (u *unitOfWork) Workers() worker.WorkerRepository           { return u.workers }
func (u *unitOfWork) Attendance() attendance.AttendanceRepository { return u.attendance }
func (u *unitOfWork) Penalties() penalty.PenaltyRepository        { return u.penalties }
func (u *unitOfWork) Payments() payroll.PaymentRepository         { return u.payments }
func (u *unitOfWork) Reports() report.ReportRepository            { return u.reports }

// LockWorker takes a transaction-scoped advisory lock keyed on worker and project.
func (u *unitOfWork) LockWorker(ctx context.Context, workerID, projectID string) error {
	key := "labour-ledger:" + workerID + ":" + projectID
	if _, err := u.tx.Exec(ctx, "SELECT pg_advisory_xact_lock(hashtextextended($1, 0))", key); err != nil {
		return fmt.Errorf("failed to lock worker ledger: %w", err)
	}
	return nil
}

// Transactor runs units of work as SERIALIZABLE Postgres transactions and
// reruns them when Postgres reports a serialization failure or deadlock.
type Transactor struct {
	db          *database.DB
	maxAttempts int
}

func NewTransactor(db *database.DB, maxAttempts int) *Transactor {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &Transactor{db: db, maxAttempts: maxAttempts}
}

var _ uow.Transactor = (*Transactor)(nil)

func (t *Transactor) Do(ctx context.Context, fn func(ctx context.Context, u uow.UnitOfWork) error) error {
	return t.run(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable}, fn)
}

func (t *Transactor) View(ctx context.Context, fn func(ctx context.Context, u uow.UnitOfWork) error) error {
	return t.run(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly}, fn)
}

func (t *Transactor) run(ctx context.Context, opts pgx.TxOptions, fn func(ctx context.Context, u uow.UnitOfWork) error) error {
	for attempt := 1; ; attempt++ {
		err := WithTransaction(ctx, t.db, opts, func(tx pgx.Tx) error {
			return fn(ctx, newUnitOfWork(tx))
		})
		if err == nil || !database.IsRetryable(err) || attempt >= t.maxAttempts {
			return err
		}
		if ctx.Err() != nil {
			return err
		}
		slog.WarnContext(ctx, "Retrying transaction after serialization conflict", "attempt", attempt, "error", err)
	}
}
