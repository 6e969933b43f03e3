package advance

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sitework-erp/labour-ledger-go/internal/domain/common"
	"github.com/sitework-erp/labour-ledger-go/internal/domain/payroll"
	"github.com/sitework-erp/labour-ledger-go/internal/domain/uow"
	"github.com/sitework-erp/labour-ledger-go/internal/repository/memory"
)

const (
	testWorkerID  = "01940000-0000-7000-8000-000000000007"
	testProjectID = "01940000-0000-7000-9000-000000000003"
)

func seedAdvances(t *testing.T, store *memory.Store, amounts map[string]string) {
	t.Helper()
	err := store.Do(context.Background(), func(ctx context.Context, u uow.UnitOfWork) error {
		for date, amount := range amounts {
			paymentDate, err := time.Parse(common.DateLayout, date)
			require.NoError(t, err)
			_, err = u.Payments().Create(ctx, payroll.Payment{
				ID:          "adv-" + date,
				WorkerID:    testWorkerID,
				ProjectID:   testProjectID,
				PaymentDate: paymentDate,
				Kind:        payroll.PaymentKindAdvance,
				BaseAmount:  decimal.RequireFromString(amount),
				NetAmount:   decimal.RequireFromString(amount),
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	require.NoError(t, err)
}

func TestEngine_SettleOldestFirst(t *testing.T) {
	store := memory.NewStore()
	seedAdvances(t, store, map[string]string{"2025-01-10": "300", "2025-01-01": "500"})
	engine := NewEngine()
	ctx := context.Background()

	var allocations []payroll.Allocation
	err := store.Do(ctx, func(ctx context.Context, u uow.UnitOfWork) error {
		var err error
		allocations, err = engine.Settle(ctx, u, testWorkerID, testProjectID, decimal.NewFromInt(600), "wages-1")
		return err
	})
	require.NoError(t, err)
	require.Len(t, allocations, 2)
	assert.Equal(t, "adv-2025-01-01", allocations[0].AdvanceID)
	assert.Equal(t, "adv-2025-01-10", allocations[1].AdvanceID)

	err = store.View(ctx, func(ctx context.Context, u uow.UnitOfWork) error {
		total, err := engine.OutstandingTotal(ctx, u, testWorkerID, testProjectID)
		require.NoError(t, err)
		assert.True(t, total.Equal(decimal.NewFromInt(200)), "got %s", total)

		jan10, err := u.Payments().GetByID(ctx, "adv-2025-01-10")
		require.NoError(t, err)
		assert.True(t, jan10.Outstanding().Equal(decimal.NewFromInt(200)))

		trail, err := u.Payments().ListSettlements(ctx, "wages-1")
		require.NoError(t, err)
		sum := decimal.Zero
		for _, s := range trail {
			sum = sum.Add(s.Amount)
		}
		assert.True(t, sum.Equal(decimal.NewFromInt(600)))
		return nil
	})
	require.NoError(t, err)
}

func TestEngine_SettleRefusesMoreThanOutstanding(t *testing.T) {
	store := memory.NewStore()
	seedAdvances(t, store, map[string]string{"2025-01-01": "100"})
	engine := NewEngine()
	ctx := context.Background()

	err := store.Do(ctx, func(ctx context.Context, u uow.UnitOfWork) error {
		_, err := engine.Settle(ctx, u, testWorkerID, testProjectID, decimal.NewFromInt(150), "wages-1")
		return err
	})
	assert.ErrorIs(t, err, payroll.ErrSettlementExceedsDue)
	assert.ErrorIs(t, err, common.ErrInvariantViolation)

	err = store.View(ctx, func(ctx context.Context, u uow.UnitOfWork) error {
		total, err := engine.OutstandingTotal(ctx, u, testWorkerID, testProjectID)
		require.NoError(t, err)
		assert.True(t, total.Equal(decimal.NewFromInt(100)))
		return nil
	})
	require.NoError(t, err)
}

func TestEngine_SettleZeroIsNoop(t *testing.T) {
	store := memory.NewStore()
	engine := NewEngine()

	err := store.Do(context.Background(), func(ctx context.Context, u uow.UnitOfWork) error {
		allocations, err := engine.Settle(ctx, u, testWorkerID, testProjectID, decimal.Zero, "wages-1")
		assert.Empty(t, allocations)
		return err
	})
	require.NoError(t, err)
}
