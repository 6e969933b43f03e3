package uow

import (
	"context"

	"github.com/sitework-erp/labour-ledger-go/internal/domain/attendance"
	"github.com/sitework-erp/labour-ledger-go/internal/domain/payroll"
	"github.com/sitework-erp/labour-ledger-go/internal/domain/penalty"
	"github.com/sitework-erp/labour-ledger-go/internal/domain/report"
	"github.com/sitework-erp/labour-ledger-go/internal/domain/worker"
)

// UnitOfWork exposes repositories bound to one storage transaction. Every read
// and write made through it commits or rolls back together.
type UnitOfWork interface {
	Workers() worker.WorkerRepository
	Attendance() attendance.AttendanceRepository
	Penalties() penalty.PenaltyRepository
	Payments() payroll.PaymentRepository
	Reports() report.ReportRepository

	// LockWorker serialises ledger writes for one worker on one project until
	// the unit of work ends.
	LockWorker(ctx context.Context, workerID, projectID string) error
}

// Transactor runs functions inside units of work.
type Transactor interface {
	// Do runs fn in a read-write unit of work. fn may be run more than once if
	// the storage layer has to retry a serialization conflict, so it must not
	// have side effects outside the unit of work.
	Do(ctx context.Context, fn func(ctx context.Context, u UnitOfWork) error) error

	// View runs fn in a read-only unit of work.
	View(ctx context.Context, fn func(ctx context.Context, u UnitOfWork) error) error
}
