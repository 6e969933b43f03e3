// Package memory is an in-process storage backend. Units of work run one at a
// time against a private copy of the data, which replaces the shared copy only
// when the unit of work succeeds.
package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sitework-erp/labour-ledger-go/internal/domain/attendance"
	"github.com/sitework-erp/labour-ledger-go/internal/domain/payroll"
	"github.com/sitework-erp/labour-ledger-go/internal/domain/penalty"
	"github.com/sitework-erp/labour-ledger-go/internal/domain/report"
	"github.com/sitework-erp/labour-ledger-go/internal/domain/uow"
	"github.com/sitework-erp/labour-ledger-go/internal/domain/worker"
)

type data struct {
	workers     map[string]worker.Worker
	attendance  map[string]attendance.Attendance
	penalties   map[string]penalty.Penalty
	payments    map[string]payroll.Payment
	settlements []payroll.AdvanceSettlement
}

func newData() *data {
	return &data{
		workers:    make(map[string]worker.Worker),
		attendance: make(map[string]attendance.Attendance),
		penalties:  make(map[string]penalty.Penalty),
		payments:   make(map[string]payroll.Payment),
	}
}

// clone copies every table. Records are values, so a shallow copy of each map
// is enough; pointer fields are never mutated in place.
func (d *data) clone() *data {
	c := &data{
		workers:     make(map[string]worker.Worker, len(d.workers)),
		attendance:  make(map[string]attendance.Attendance, len(d.attendance)),
		penalties:   make(map[string]penalty.Penalty, len(d.penalties)),
		payments:    make(map[string]payroll.Payment, len(d.payments)),
		settlements: append([]payroll.AdvanceSettlement(nil), d.settlements...),
	}
	for k, v := range d.workers {
		c.workers[k] = v
	}
	for k, v := range d.attendance {
		c.attendance[k] = v
	}
	for k, v := range d.penalties {
		c.penalties[k] = v
	}
	for k, v := range d.payments {
		c.payments[k] = v
	}
	return c
}

// ErrLockInReadOnly mirrors Postgres refusing SELECT ... FOR UPDATE in a
// read-only transaction, so locking reads behind View fail here too.
var ErrLockInReadOnly = errors.New("memory: locking read in a read-only unit of work")

// Store is a uow.Transactor backed by process memory.
type Store struct {
	mu   sync.Mutex
	data *data
	now  func() time.Time
}

var _ uow.Transactor = (*Store)(nil)

func NewStore() *Store {
	return &Store{data: newData(), now: time.Now}
}

// PutWorker seeds or replaces a worker in the externally owned worker master.
func (s *Store) PutWorker(w worker.Worker) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.workers[w.ID] = w
}

func (s *Store) Do(ctx context.Context, fn func(ctx context.Context, u uow.UnitOfWork) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	working := s.data.clone()
	if err := fn(ctx, &unitOfWork{data: working, now: s.now}); err != nil {
		return err
	}
	s.data = working
	return nil
}

func (s *Store) View(ctx context.Context, fn func(ctx context.Context, u uow.UnitOfWork) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(ctx, &unitOfWork{data: s.data.clone(), now: s.now, readOnly: true})
}

type unitOfWork struct {
	data     *data
	now      func() time.Time
	readOnly bool
}

func (u *unitOfWork) Workers() worker.WorkerRepository    { return &workerRepository{data: u.data} }
func (u *unitOfWork) Penalties() penalty.PenaltyRepository { return &penaltyRepository{data: u.data, now: u.now} }
func (u *unitOfWork) Reports() report.ReportRepository     { return &reportRepository{data: u.data} }

func (u *unitOfWork) Attendance() attendance.AttendanceRepository {
	return &attendanceRepository{data: u.data, now: u.now, readOnly: u.readOnly}
}

func (u *unitOfWork) Payments() payroll.PaymentRepository {
	return &paymentRepository{data: u.data, now: u.now, readOnly: u.readOnly}
}

// LockWorker is a no-op: units of work are already serialised by Store.
func (u *unitOfWork) LockWorker(ctx context.Context, workerID, projectID string) error {
	return nil
}
