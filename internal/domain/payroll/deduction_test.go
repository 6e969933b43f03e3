package payroll

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sitework-erp/labour-ledger-go/internal/domain/common"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestComputeDeductions(t *testing.T) {
	tests := []struct {
		name             string
		gross            string
		penaltyTotal     string
		advanceTotal     string
		penaltyDeduction string
		advanceDeduction string
		net              string
	}{
		{"nothing owed", "1000", "0", "0", "0", "0", "1000"},
		{"penalty first then capped advance", "300", "100", "400", "100", "200", "0"},
		{"both fully covered", "1000", "150", "250.50", "150", "250.50", "599.50"},
		{"penalty exceeds gross", "80", "100", "50", "80", "0", "0"},
		{"advance only", "500", "0", "1200", "0", "500", "0"},
		{"zero gross", "0", "100", "100", "0", "0", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := ComputeDeductions(d(tt.gross), d(tt.penaltyTotal), d(tt.advanceTotal))
			require.NoError(t, err)

			assert.True(t, d(tt.penaltyDeduction).Equal(b.PenaltyDeduction), "penalty deduction: got %s", b.PenaltyDeduction)
			assert.True(t, d(tt.advanceDeduction).Equal(b.AdvanceDeduction), "advance deduction: got %s", b.AdvanceDeduction)
			assert.True(t, d(tt.net).Equal(b.Net), "net: got %s", b.Net)
			assert.True(t, b.Gross.Equal(b.Net.Add(b.Deduction())))
			assert.False(t, b.Net.IsNegative())
		})
	}
}

func TestDeductionBreakdown_VerifyRejectsNegativeNet(t *testing.T) {
	b := DeductionBreakdown{
		Gross:            d("100"),
		PenaltyDeduction: d("80"),
		AdvanceDeduction: d("50"),
		Net:              d("-30"),
	}

	err := b.Verify()
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrInvariantViolation))

	var negErr *NegativeNetError
	require.True(t, errors.As(err, &negErr))
	assert.True(t, negErr.Breakdown.Net.Equal(d("-30")), "breakdown must not be clamped")
	assert.Equal(t, "-30.00", negErr.Details()["net_amount"])
	assert.Equal(t, "130.00", negErr.Details()["deduction_amount"])
}

func TestDeductionBreakdown_VerifyRejectsInconsistentNet(t *testing.T) {
	b := DeductionBreakdown{
		Gross:            d("100"),
		PenaltyDeduction: d("10"),
		AdvanceDeduction: d("10"),
		Net:              d("90"),
	}
	assert.ErrorIs(t, b.Verify(), common.ErrInvariantViolation)
}

func TestComputeDeductions_NegativeGross(t *testing.T) {
	b, err := ComputeDeductions(d("-10"), d("0"), d("0"))
	require.Error(t, err)

	var negErr *NegativeNetError
	require.ErrorAs(t, err, &negErr)
	assert.True(t, b.Net.Equal(d("-10")))
}
