package penalty

import (
	"time"

	"github.com/shopspring/decimal"
)

// Penalty is a disciplinary deduction waiting to be applied against the next
// wage payment for the same worker and project.
type Penalty struct {
	ID                  string
	WorkerID            string
	ProjectID           string
	Date                time.Time
	Kind                string
	Amount              decimal.Decimal
	Reason              string
	IsDeducted          bool
	DeductedByPaymentID *string
	CreatedBy           string
	CreatedAt           time.Time
}
