package penalty

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sitework-erp/labour-ledger-go/internal/domain/audit"
	"github.com/sitework-erp/labour-ledger-go/internal/domain/common"
	"github.com/sitework-erp/labour-ledger-go/internal/domain/penalty"
	"github.com/sitework-erp/labour-ledger-go/internal/domain/uow"
	"github.com/sitework-erp/labour-ledger-go/internal/domain/worker"
	"github.com/sitework-erp/labour-ledger-go/internal/pkg/validator"
	"github.com/sitework-erp/labour-ledger-go/internal/repository/memory"
)

const (
	testWorkerID  = "01940000-0000-7000-8000-000000000007"
	testProjectID = "01940000-0000-7000-9000-000000000003"

	unknownWorkerID = "01940000-0000-7000-8000-000000000404"
)

func newTestService(t *testing.T) (*PenaltyServiceImpl, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	store.PutWorker(worker.Worker{ID: testWorkerID, DailyRate: decimal.NewFromInt(800), IsActive: true})
	calendar := common.Calendar{Location: time.UTC, Clock: func() time.Time { return time.Date(2025, 1, 20, 9, 0, 0, 0, time.UTC) }}
	recorder := audit.NewLogRecorder(slog.New(slog.NewTextHandler(io.Discard, nil)))
	return NewPenaltyService(store, recorder, calendar), store
}

func penaltyReq(date, amount string) penalty.RecordPenaltyRequest {
	return penalty.RecordPenaltyRequest{
		WorkerID:  testWorkerID,
		ProjectID: testProjectID,
		Date:      date,
		Kind:      "LATE",
		Amount:    decimal.RequireFromString(amount),
		Reason:    "arrived after roll call",
		CreatedBy: "supervisor-1",
	}
}

func TestRecordPenalty(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	resp, err := svc.RecordPenalty(ctx, penaltyReq("2025-01-15", "120.50"))
	require.NoError(t, err)
	assert.NotEmpty(t, resp.ID)
	assert.False(t, resp.IsDeducted)
	assert.Nil(t, resp.DeductedByPaymentID)

	total, err := svc.Outstanding(ctx, testWorkerID, testProjectID)
	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.RequireFromString("120.50")))
}

func TestRecordPenalty_Rejections(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.RecordPenalty(ctx, penaltyReq("2025-01-21", "10"))
	assert.ErrorIs(t, err, penalty.ErrFutureDate)

	unknown := penaltyReq("2025-01-15", "10")
	unknown.WorkerID = unknownWorkerID
	_, err = svc.RecordPenalty(ctx, unknown)
	assert.ErrorIs(t, err, worker.ErrWorkerInactive)

	for _, amount := range []string{"0", "-5", "10.001"} {
		_, err = svc.RecordPenalty(ctx, penaltyReq("2025-01-15", amount))
		var verrs validator.ValidationErrors
		require.ErrorAs(t, err, &verrs, amount)
		assert.Contains(t, verrs.ToMap(), "amount")
	}
}

func TestPenalty_MalformedIDs(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	req := penaltyReq("2025-01-15", "10")
	req.ProjectID = "tower-b"
	_, err := svc.RecordPenalty(ctx, req)
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "must be a valid UUID", verrs.ToMap()["project_id"])

	_, err = svc.Outstanding(ctx, "worker-7", testProjectID)
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.ToMap(), "worker_id")

	workerID := "worker-7"
	_, err = svc.ListPenalties(ctx, penalty.PenaltyFilter{WorkerID: &workerID})
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.ToMap(), "worker_id")
}

func TestMarkDeducted_OnlyCurrentlyOutstanding(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	_, err := svc.RecordPenalty(ctx, penaltyReq("2025-01-10", "50"))
	require.NoError(t, err)
	_, err = svc.RecordPenalty(ctx, penaltyReq("2025-01-11", "25"))
	require.NoError(t, err)

	err = store.Do(ctx, func(ctx context.Context, u uow.UnitOfWork) error {
		marked, err := svc.MarkDeducted(ctx, u, testWorkerID, testProjectID, "payment-1")
		assert.Equal(t, int64(2), marked)
		return err
	})
	require.NoError(t, err)

	_, err = svc.RecordPenalty(ctx, penaltyReq("2025-01-12", "30"))
	require.NoError(t, err)

	all, err := svc.ListPenalties(ctx, penalty.PenaltyFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)

	outstanding, err := svc.ListPenalties(ctx, penalty.PenaltyFilter{OutstandingOnly: true})
	require.NoError(t, err)
	require.Len(t, outstanding, 1)
	assert.Equal(t, "2025-01-12", outstanding[0].Date)

	for _, p := range all {
		if p.IsDeducted {
			require.NotNil(t, p.DeductedByPaymentID)
			assert.Equal(t, "payment-1", *p.DeductedByPaymentID)
		}
	}

	// a second run must not re-stamp already deducted penalties
	err = store.Do(ctx, func(ctx context.Context, u uow.UnitOfWork) error {
		marked, err := svc.MarkDeducted(ctx, u, testWorkerID, testProjectID, "payment-2")
		assert.Equal(t, int64(1), marked)
		return err
	})
	require.NoError(t, err)
}
