package validator

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsEmpty(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"", true},
		{"   ", true},
		{"abc", false},
		{" abc ", false},
	}
	for _, c := range cases {
		got := IsEmpty(c.input)
		if got != c.want {
			t.Errorf("IsEmpty(%q) = %v, want %v", c.input, got, c.want)
		}
	}
}

func TestIsValidDate(t *testing.T) {
	valid := []string{"2023-01-01", "2000-12-31"}
	invalid := []string{"2023-13-01", "2023-01-32", "2023/01/01", "01-01-2023", ""}
	for _, s := range valid {
		_, ok := IsValidDate(s)
		if !ok {
			t.Errorf("IsValidDate(%q) = false, want true", s)
		}
	}
	for _, s := range invalid {
		_, ok := IsValidDate(s)
		if ok {
			t.Errorf("IsValidDate(%q) = true, want false", s)
		}
	}
}

type sampleRequest struct {
	WorkerID string `json:"worker_id" validate:"required"`
	Kind     string `json:"kind" validate:"required,oneof=FULL HALF"`
	Date     string `json:"date" validate:"required,datetime=2006-01-02"`
	Internal string `json:"-"`
}

func TestValidateStruct_UsesJSONFieldNames(t *testing.T) {
	errs := ValidateStruct(sampleRequest{Kind: "NIGHT", Date: "15-01-2025"})
	require.Len(t, errs, 3)

	m := errs.ToMap()
	assert.Equal(t, "is required", m["worker_id"])
	assert.Equal(t, "must be one of: FULL, HALF", m["kind"])
	assert.Equal(t, "must be a date in YYYY-MM-DD format", m["date"])
}

func TestValidateStruct_Valid(t *testing.T) {
	errs := ValidateStruct(sampleRequest{WorkerID: "w-1", Kind: "FULL", Date: "2025-01-15"})
	assert.Nil(t, errs)
}

func TestAmountHelpers(t *testing.T) {
	var errs ValidationErrors
	errs = NonNegative(errs, "base_amount", decimal.NewFromInt(-1))
	errs = NonNegative(errs, "bonus_amount", decimal.Zero)
	errs = Positive(errs, "amount", decimal.Zero)
	errs = AtMostTwoDecimals(errs, "overtime_amount", decimal.RequireFromString("10.005"))

	m := errs.ToMap()
	assert.Len(t, m, 3)
	assert.Contains(t, m, "base_amount")
	assert.Contains(t, m, "amount")
	assert.Contains(t, m, "overtime_amount")
	assert.Equal(t, "base_amount: must be non-negative; amount: must be greater than zero; overtime_amount: must have at most two decimal places", errs.Error())
}

func TestIsUUID(t *testing.T) {
	assert.True(t, IsUUID("01940000-0000-7000-8000-000000000007"))
	assert.False(t, IsUUID("worker-7"))
	assert.False(t, IsUUID("{01940000-0000-7000-8000-000000000007}"))
	assert.False(t, IsUUID("0194000000007000800000000000000007"))
	assert.False(t, IsUUID(""))
}

func TestUUIDFields(t *testing.T) {
	bad := "site-9"
	var errs ValidationErrors
	errs = RequiredUUID(errs, "worker_id", "")
	errs = RequiredUUID(errs, "project_id", "p-1")
	errs = OptionalUUID(errs, "substitute_worker_id", &bad)
	errs = OptionalUUID(errs, "worker_id_filter", nil)

	assert.Equal(t, map[string]string{
		"worker_id":            "is required",
		"project_id":           "must be a valid UUID",
		"substitute_worker_id": "must be a valid UUID",
	}, errs.ToMap())
}

func TestOptionalOneOf(t *testing.T) {
	state := "PAID"
	errs := OptionalOneOf(nil, "state", &state, []string{"DRAFT", "CONFIRMED"})
	require.Len(t, errs, 1)
	assert.Equal(t, "must be one of: DRAFT, CONFIRMED", errs[0].Message)

	state = "DRAFT"
	assert.Empty(t, OptionalOneOf(nil, "state", &state, []string{"DRAFT", "CONFIRMED"}))
}
