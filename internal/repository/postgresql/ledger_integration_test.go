package postgresql_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sitework-erp/labour-ledger-go/internal/domain/attendance"
	"github.com/sitework-erp/labour-ledger-go/internal/domain/audit"
	"github.com/sitework-erp/labour-ledger-go/internal/domain/common"
	"github.com/sitework-erp/labour-ledger-go/internal/domain/payroll"
	"github.com/sitework-erp/labour-ledger-go/internal/domain/penalty"
	"github.com/sitework-erp/labour-ledger-go/internal/pkg/database"
	"github.com/sitework-erp/labour-ledger-go/internal/pkg/lock"
	"github.com/sitework-erp/labour-ledger-go/internal/repository/postgresql"
	"github.com/sitework-erp/labour-ledger-go/internal/service/advance"
	attendancesvc "github.com/sitework-erp/labour-ledger-go/internal/service/attendance"
	payrollsvc "github.com/sitework-erp/labour-ledger-go/internal/service/payroll"
	penaltysvc "github.com/sitework-erp/labour-ledger-go/internal/service/penalty"
	reportsvc "github.com/sitework-erp/labour-ledger-go/internal/service/report"
)

type ledger struct {
	db         *database.DB
	attendance *attendancesvc.AttendanceServiceImpl
	penalties  *penaltysvc.PenaltyServiceImpl
	payroll    *payrollsvc.PayrollServiceImpl
	workerID   string
	projectID  string
}

// newLedger connects to TEST_DATABASE_URL, migrates it and wipes ledger tables.
func newLedger(t *testing.T) *ledger {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	db, err := database.NewPostgreSQLDB(dsn)
	require.NoError(t, err)
	t.Cleanup(db.Close)

	require.NoError(t, database.Migrate(ctx, db))
	_, err = db.Exec(ctx, "TRUNCATE advance_settlements, penalty_records, attendance_records, payment_records, workers CASCADE")
	require.NoError(t, err)

	l := &ledger{db: db, workerID: uuid.NewString(), projectID: uuid.NewString()}
	_, err = db.Exec(ctx, "INSERT INTO workers (id, full_name, daily_rate, is_active) VALUES ($1, $2, $3, TRUE)",
		l.workerID, "Ravi Kumar", decimal.NewFromInt(800))
	require.NoError(t, err)

	tx := postgresql.NewTransactor(db, 5)
	recorder := audit.NewLogRecorder(slog.New(slog.NewTextHandler(io.Discard, nil)))
	calendar := common.Calendar{
		Location: time.UTC,
		Clock:    func() time.Time { return time.Date(2025, 1, 20, 10, 0, 0, 0, time.UTC) },
	}
	shift := decimal.NewFromInt(8)

	l.attendance = attendancesvc.NewAttendanceService(tx, recorder, calendar, shift)
	l.penalties = penaltysvc.NewPenaltyService(tx, recorder, calendar)
	l.payroll = payrollsvc.NewPayrollService(tx, l.attendance, l.penalties, advance.NewEngine(), lock.NewNoop(), recorder, calendar,
		payrollsvc.Rates{ShiftHours: shift, OvertimeMultiplier: decimal.RequireFromString("1.5")})

	return l
}

func (l *ledger) payment(date string, kind payroll.PaymentKind, base int64) payroll.RecordPaymentRequest {
	return payroll.RecordPaymentRequest{
		WorkerID:   l.workerID,
		ProjectID:  l.projectID,
		Date:       date,
		Kind:       string(kind),
		BaseAmount: decimal.NewFromInt(base),
		Method:     string(payroll.PaymentMethodCash),
		CreatedBy:  "accountant-1",
	}
}

func TestLedger_WagesSettleAdvancesAndPenalties(t *testing.T) {
	l := newLedger(t)
	ctx := context.Background()

	marked, err := l.attendance.MarkAttendance(ctx, attendance.MarkAttendanceRequest{
		WorkerID:  l.workerID,
		ProjectID: l.projectID,
		Date:      "2025-01-15",
		Kind:      string(attendance.KindFull),
		MarkedBy:  "supervisor-1",
	})
	require.NoError(t, err)
	_, err = l.attendance.ConfirmAttendance(ctx, marked.ID, "supervisor-1")
	require.NoError(t, err)

	_, err = l.payroll.RecordPayment(ctx, l.payment("2025-01-05", payroll.PaymentKindAdvance, 500))
	require.NoError(t, err)
	_, err = l.payroll.RecordPayment(ctx, l.payment("2025-01-08", payroll.PaymentKindAdvance, 300))
	require.NoError(t, err)
	_, err = l.penalties.RecordPenalty(ctx, penalty.RecordPenaltyRequest{
		WorkerID:  l.workerID,
		ProjectID: l.projectID,
		Date:      "2025-01-16",
		Kind:      "LATE",
		Amount:    decimal.NewFromInt(100),
		Reason:    "Late to site",
		CreatedBy: "accountant-1",
	})
	require.NoError(t, err)

	resp, err := l.payroll.RecordPayment(ctx, l.payment("2025-01-20", payroll.PaymentKindWages, 800))
	require.NoError(t, err)

	assert.True(t, decimal.NewFromInt(100).Equal(resp.PenaltiesDeducted))
	assert.True(t, decimal.NewFromInt(700).Equal(resp.AdvancesDeducted))
	assert.True(t, decimal.Zero.Equal(resp.NetAmount))
	assert.Equal(t, int64(1), resp.AttendanceLinked)

	balance, err := l.payroll.WorkerBalance(ctx, l.workerID, l.projectID)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(100).Equal(balance.AdvancesOutstanding))
	assert.True(t, balance.PenaltiesPending.IsZero())

	var settled decimal.Decimal
	err = l.db.QueryRow(ctx, "SELECT COALESCE(SUM(amount), 0) FROM advance_settlements WHERE settled_by_payment_id = $1", resp.ID).Scan(&settled)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(700).Equal(settled))

	got, err := l.payroll.GetPayment(ctx, resp.ID)
	require.NoError(t, err)
	require.Len(t, got.Settlements, 2)
	for _, entry := range got.Settlements {
		assert.Equal(t, resp.ID, entry.SettledByPaymentID)
		assert.WithinDuration(t, time.Now(), entry.CreatedAt, 5*time.Minute)
	}

	// read-only paths must not take row locks
	preview, err := l.payroll.PreviewWages(ctx, payroll.WagePreviewRequest{WorkerID: l.workerID, ProjectID: l.projectID, UpTo: "2025-01-20"})
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(100).Equal(preview.AdvanceDeduction))

	cost, err := reportsvc.NewReportService(postgresql.NewTransactor(l.db, 1)).ProjectLabourCost(ctx, l.projectID)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(700).Equal(cost.NetLabourCost))
}

func TestLedger_PenaltiesExceedGross(t *testing.T) {
	l := newLedger(t)
	ctx := context.Background()

	for _, amount := range []int64{600, 400} {
		_, err := l.penalties.RecordPenalty(ctx, penalty.RecordPenaltyRequest{
			WorkerID:  l.workerID,
			ProjectID: l.projectID,
			Date:      "2025-01-10",
			Kind:      "DAMAGE",
			Amount:    decimal.NewFromInt(amount),
			Reason:    "Broken formwork",
			CreatedBy: "accountant-1",
		})
		require.NoError(t, err)
	}

	resp, err := l.payroll.RecordPayment(ctx, l.payment("2025-01-15", payroll.PaymentKindWages, 800))
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(800).Equal(resp.PenaltiesDeducted))
	assert.True(t, resp.NetAmount.IsZero())

	var pending int
	err = l.db.QueryRow(ctx, "SELECT COUNT(*) FROM penalty_records WHERE worker_id = $1 AND (NOT is_deducted OR deducted_by_payment_id IS DISTINCT FROM $2)",
		l.workerID, resp.ID).Scan(&pending)
	require.NoError(t, err)
	assert.Zero(t, pending)

	cost, err := reportsvc.NewReportService(postgresql.NewTransactor(l.db, 1)).ProjectLabourCost(ctx, l.projectID)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(1000).Equal(cost.AppliedPenalties))
	assert.True(t, decimal.NewFromInt(-200).Equal(cost.NetLabourCost))

	_, err = l.payroll.GetPayment(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, payroll.ErrPaymentNotFound)
}

func TestLedger_ConcurrentDuplicateWages(t *testing.T) {
	l := newLedger(t)
	ctx := context.Background()

	_, err := l.payroll.RecordPayment(ctx, l.payment("2025-01-05", payroll.PaymentKindAdvance, 300))
	require.NoError(t, err)

	const attempts = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		failures  []error
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := l.payroll.RecordPayment(ctx, l.payment("2025-01-20", payroll.PaymentKindWages, 800))
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failures = append(failures, err)
				return
			}
			successes++
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	require.Len(t, failures, attempts-1)
	for _, err := range failures {
		assert.True(t, errors.Is(err, common.ErrStateConflict), "unexpected error: %v", err)
	}

	balance, err := l.payroll.WorkerBalance(ctx, l.workerID, l.projectID)
	require.NoError(t, err)
	assert.True(t, balance.AdvancesOutstanding.IsZero())
}
