package penalty

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/sitework-erp/labour-ledger-go/internal/pkg/validator"
)

type RecordPenaltyRequest struct {
	WorkerID  string          `json:"worker_id" validate:"required,uuid"`
	ProjectID string          `json:"project_id" validate:"required,uuid"`
	Date      string          `json:"date" validate:"required,datetime=2006-01-02"`
	Kind      string          `json:"kind" validate:"required,max=50"`
	Amount    decimal.Decimal `json:"amount"`
	Reason    string          `json:"reason" validate:"required,max=500"`
	CreatedBy string          `json:"-"`
}

func (r *RecordPenaltyRequest) Validate() error {
	errs := validator.ValidateStruct(r)
	errs = validator.Positive(errs, "amount", r.Amount)
	errs = validator.AtMostTwoDecimals(errs, "amount", r.Amount)
	if validator.IsEmpty(r.CreatedBy) {
		errs = append(errs, validator.ValidationError{Field: "created_by", Message: "is required"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type PenaltyFilter struct {
	WorkerID        *string
	ProjectID       *string
	OutstandingOnly bool
}

func (f *PenaltyFilter) Validate() error {
	var errs validator.ValidationErrors
	errs = validator.OptionalUUID(errs, "worker_id", f.WorkerID)
	errs = validator.OptionalUUID(errs, "project_id", f.ProjectID)
	if len(errs) > 0 {
		return errs
	}
	return nil
}

type PenaltyResponse struct {
	ID                  string          `json:"id"`
	WorkerID            string          `json:"worker_id"`
	ProjectID           string          `json:"project_id"`
	Date                string          `json:"date"`
	Kind                string          `json:"kind"`
	Amount              decimal.Decimal `json:"amount"`
	Reason              string          `json:"reason"`
	IsDeducted          bool            `json:"is_deducted"`
	DeductedByPaymentID *string         `json:"deducted_by_payment_id,omitempty"`
	CreatedBy           string          `json:"created_by"`
	CreatedAt           time.Time       `json:"created_at"`
}

func ToResponse(p Penalty) PenaltyResponse {
	return PenaltyResponse{
		ID:                  p.ID,
		WorkerID:            p.WorkerID,
		ProjectID:           p.ProjectID,
		Date:                p.Date.Format("2006-01-02"),
		Kind:                p.Kind,
		Amount:              p.Amount,
		Reason:              p.Reason,
		IsDeducted:          p.IsDeducted,
		DeductedByPaymentID: p.DeductedByPaymentID,
		CreatedBy:           p.CreatedBy,
		CreatedAt:           p.CreatedAt,
	}
}
