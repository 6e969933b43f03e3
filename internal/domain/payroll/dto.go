package payroll

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/sitework-erp/labour-ledger-go/internal/pkg/validator"
)

// ========== PAYMENT DTOs ==========

type RecordPaymentRequest struct {
	WorkerID       string          `json:"worker_id" validate:"required,uuid"`
	ProjectID      string          `json:"project_id" validate:"required,uuid"`
	Date           string          `json:"date" validate:"required,datetime=2006-01-02"`
	Kind           string          `json:"kind" validate:"required,oneof=ADVANCE WAGES FINAL_SETTLEMENT"`
	BaseAmount     decimal.Decimal `json:"base_amount"`
	OvertimeAmount decimal.Decimal `json:"overtime_amount"`
	BonusAmount    decimal.Decimal `json:"bonus_amount"`
	Method         string          `json:"method" validate:"required,oneof=CASH BANK_TRANSFER UPI CHEQUE"`
	Notes          *string         `json:"notes,omitempty" validate:"omitempty,max=1000"`
	CreatedBy      string          `json:"-"`
}

func (r *RecordPaymentRequest) Validate() error {
	errs := validator.ValidateStruct(r)

	errs = validator.NonNegative(errs, "base_amount", r.BaseAmount)
	errs = validator.NonNegative(errs, "overtime_amount", r.OvertimeAmount)
	errs = validator.NonNegative(errs, "bonus_amount", r.BonusAmount)
	errs = validator.AtMostTwoDecimals(errs, "base_amount", r.BaseAmount)
	errs = validator.AtMostTwoDecimals(errs, "overtime_amount", r.OvertimeAmount)
	errs = validator.AtMostTwoDecimals(errs, "bonus_amount", r.BonusAmount)

	if PaymentKind(r.Kind) == PaymentKindAdvance && !r.Gross().IsPositive() {
		errs = append(errs, validator.ValidationError{Field: "base_amount", Message: "advance amount must be greater than zero"})
	}
	if validator.IsEmpty(r.CreatedBy) {
		errs = append(errs, validator.ValidationError{Field: "created_by", Message: "is required"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (r *RecordPaymentRequest) Gross() decimal.Decimal {
	return r.BaseAmount.Add(r.OvertimeAmount).Add(r.BonusAmount)
}

type RecordPaymentResponse struct {
	ID                string          `json:"id"`
	Kind              string          `json:"kind"`
	GrossAmount       decimal.Decimal `json:"gross_amount"`
	DeductionAmount   decimal.Decimal `json:"deduction_amount"`
	NetAmount         decimal.Decimal `json:"net_amount"`
	AdvancesDeducted  decimal.Decimal `json:"advances_deducted"`
	PenaltiesDeducted decimal.Decimal `json:"penalties_deducted"`
	AttendanceLinked  int64           `json:"attendance_linked"`
	Settlements       []Allocation    `json:"settlements,omitempty"`
}

type PaymentResponse struct {
	ID              string           `json:"id"`
	WorkerID        string           `json:"worker_id"`
	ProjectID       string           `json:"project_id"`
	PaymentDate     string           `json:"payment_date"`
	Kind            string           `json:"kind"`
	BaseAmount      decimal.Decimal  `json:"base_amount"`
	OvertimeAmount  decimal.Decimal  `json:"overtime_amount"`
	BonusAmount     decimal.Decimal  `json:"bonus_amount"`
	GrossAmount     decimal.Decimal  `json:"gross_amount"`
	DeductionAmount decimal.Decimal  `json:"deduction_amount"`
	NetAmount       decimal.Decimal  `json:"net_amount"`
	SettledAmount   *decimal.Decimal `json:"settled_amount,omitempty"`
	Method          string           `json:"method"`
	Notes           *string          `json:"notes,omitempty"`
	CreatedBy       string           `json:"created_by"`
	CreatedAt       time.Time        `json:"created_at"`

	// Settlement trail, filled on single-payment reads only
	Settlements []SettlementResponse `json:"settlements,omitempty"`
}

type SettlementResponse struct {
	ID                 string          `json:"id"`
	AdvanceID          string          `json:"advance_id"`
	SettledByPaymentID string          `json:"settled_by_payment_id"`
	Amount             decimal.Decimal `json:"amount"`
	CreatedAt          time.Time       `json:"created_at"`
}

func ToSettlementResponse(s AdvanceSettlement) SettlementResponse {
	return SettlementResponse{
		ID:                 s.ID,
		AdvanceID:          s.AdvanceID,
		SettledByPaymentID: s.SettledByPaymentID,
		Amount:             s.Amount,
		CreatedAt:          s.CreatedAt,
	}
}

func ToResponse(p Payment) PaymentResponse {
	resp := PaymentResponse{
		ID:              p.ID,
		WorkerID:        p.WorkerID,
		ProjectID:       p.ProjectID,
		PaymentDate:     p.PaymentDate.Format("2006-01-02"),
		Kind:            string(p.Kind),
		BaseAmount:      p.BaseAmount,
		OvertimeAmount:  p.OvertimeAmount,
		BonusAmount:     p.BonusAmount,
		GrossAmount:     p.GrossAmount(),
		DeductionAmount: p.DeductionAmount,
		NetAmount:       p.NetAmount,
		Method:          string(p.Method),
		Notes:           p.Notes,
		CreatedBy:       p.CreatedBy,
		CreatedAt:       p.CreatedAt,
	}
	// settled_amount only means something on advances
	if p.Kind == PaymentKindAdvance {
		settled := p.SettledAmount
		resp.SettledAmount = &settled
	}
	return resp
}

type PaymentFilter struct {
	WorkerID  *string
	ProjectID *string
	Kind      *string
	StartDate *time.Time
	EndDate   *time.Time
	Page      int
	Limit     int
}

var paymentKinds = []string{string(PaymentKindAdvance), string(PaymentKindWages), string(PaymentKindFinalSettlement)}

// Validate rejects filter values the ledger could never match.
func (f *PaymentFilter) Validate() error {
	var errs validator.ValidationErrors
	errs = validator.OptionalUUID(errs, "worker_id", f.WorkerID)
	errs = validator.OptionalUUID(errs, "project_id", f.ProjectID)
	errs = validator.OptionalOneOf(errs, "kind", f.Kind, paymentKinds)
	if f.StartDate != nil && f.EndDate != nil && f.EndDate.Before(*f.StartDate) {
		errs = append(errs, validator.ValidationError{Field: "end_date", Message: "must not be before start_date"})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Normalize applies paging defaults.
func (f *PaymentFilter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 || f.Limit > 200 {
		f.Limit = 50
	}
}

type ListPaymentResponse struct {
	Data       []PaymentResponse `json:"data"`
	TotalCount int64             `json:"total_count"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
}

// ========== PREVIEW / BALANCE DTOs ==========

type WagePreviewRequest struct {
	WorkerID  string `json:"worker_id" validate:"required,uuid"`
	ProjectID string `json:"project_id" validate:"required,uuid"`
	UpTo      string `json:"up_to" validate:"required,datetime=2006-01-02"`
}

func (r *WagePreviewRequest) Validate() error {
	if errs := validator.ValidateStruct(r); len(errs) > 0 {
		return errs
	}
	return nil
}

type WagePreviewResponse struct {
	WorkerID         string          `json:"worker_id"`
	ProjectID        string          `json:"project_id"`
	UpTo             string          `json:"up_to"`
	AttendanceCount  int             `json:"attendance_count"`
	DayUnits         decimal.Decimal `json:"day_units"`
	OvertimeHours    decimal.Decimal `json:"overtime_hours"`
	BaseAmount       decimal.Decimal `json:"base_amount"`
	OvertimeAmount   decimal.Decimal `json:"overtime_amount"`
	GrossAmount      decimal.Decimal `json:"gross_amount"`
	PenaltyDeduction decimal.Decimal `json:"penalty_deduction"`
	AdvanceDeduction decimal.Decimal `json:"advance_deduction"`
	NetAmount        decimal.Decimal `json:"net_amount"`
}

type WorkerBalanceResponse struct {
	WorkerID            string          `json:"worker_id"`
	ProjectID           string          `json:"project_id"`
	AdvancesOutstanding decimal.Decimal `json:"advances_outstanding"`
	PenaltiesPending    decimal.Decimal `json:"penalties_pending"`
}
