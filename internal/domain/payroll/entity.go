package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentKind enum
type PaymentKind string

const (
	PaymentKindAdvance         PaymentKind = "ADVANCE"
	PaymentKindWages           PaymentKind = "WAGES"
	PaymentKindFinalSettlement PaymentKind = "FINAL_SETTLEMENT"
)

func (k PaymentKind) IsValid() bool {
	switch k {
	case PaymentKindAdvance, PaymentKindWages, PaymentKindFinalSettlement:
		return true
	}
	return false
}

// SettlesAttendance reports whether a payment of this kind pays for attendance
// and so takes deductions and links attendance records.
func (k PaymentKind) SettlesAttendance() bool {
	return k == PaymentKindWages || k == PaymentKindFinalSettlement
}

// PaymentMethod enum
type PaymentMethod string

const (
	PaymentMethodCash         PaymentMethod = "CASH"
	PaymentMethodBankTransfer PaymentMethod = "BANK_TRANSFER"
	PaymentMethodUPI          PaymentMethod = "UPI"
	PaymentMethodCheque       PaymentMethod = "CHEQUE"
)

// Payment is an append-only payroll event. The only column that ever moves
// after insert is SettledAmount on ADVANCE rows.
type Payment struct {
	ID              string
	WorkerID        string
	ProjectID       string
	PaymentDate     time.Time
	Kind            PaymentKind
	BaseAmount      decimal.Decimal
	OvertimeAmount  decimal.Decimal
	BonusAmount     decimal.Decimal
	DeductionAmount decimal.Decimal
	NetAmount       decimal.Decimal
	SettledAmount   decimal.Decimal
	Method          PaymentMethod
	Notes           *string
	CreatedBy       string
	CreatedAt       time.Time
}

// GrossAmount is base + overtime + bonus, before any deduction.
func (p Payment) GrossAmount() decimal.Decimal {
	return p.BaseAmount.Add(p.OvertimeAmount).Add(p.BonusAmount)
}

// Outstanding is the unrecovered part of an advance. Zero for other kinds.
func (p Payment) Outstanding() decimal.Decimal {
	if p.Kind != PaymentKindAdvance {
		return decimal.Zero
	}
	return p.NetAmount.Sub(p.SettledAmount)
}

// AdvanceSettlement records one FIFO allocation of a wage deduction to an advance.
type AdvanceSettlement struct {
	ID                 string
	AdvanceID          string
	SettledByPaymentID string
	Amount             decimal.Decimal
	CreatedAt          time.Time
}
