package attendance

import (
	"time"

	"github.com/shopspring/decimal"
)

// Kind describes how much of the day a worker put in.
type Kind string

const (
	KindFull   Kind = "FULL"
	KindHalf   Kind = "HALF"
	KindHourly Kind = "HOURLY"
	KindAbsent Kind = "ABSENT"
)

func (k Kind) IsValid() bool {
	switch k {
	case KindFull, KindHalf, KindHourly, KindAbsent:
		return true
	}
	return false
}

// State is the confirmation state. Payment linkage is tracked separately
// through LinkedPaymentID and freezes the record whatever its state.
type State string

const (
	StateDraft     State = "DRAFT"
	StateConfirmed State = "CONFIRMED"
)

// Attendance is one attendance fact for a worker on a project for a day.
type Attendance struct {
	ID                 string
	WorkerID           string
	ProjectID          string
	Date               time.Time
	Kind               Kind
	HoursWorked        decimal.Decimal
	OvertimeHours      decimal.Decimal
	SubstituteWorkerID *string
	State              State
	LinkedPaymentID    *string
	MarkedBy           string
	ConfirmedBy        *string
	ConfirmedAt        *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// IsPaid reports whether a payment already covers this record.
func (a Attendance) IsPaid() bool {
	return a.LinkedPaymentID != nil
}

// DayUnits converts the attendance kind into paid day units against a
// standard shift length.
func (a Attendance) DayUnits(shiftHours decimal.Decimal) decimal.Decimal {
	switch a.Kind {
	case KindFull:
		return decimal.NewFromInt(1)
	case KindHalf:
		return decimal.NewFromFloat(0.5)
	case KindHourly:
		if shiftHours.IsZero() {
			return decimal.Zero
		}
		return a.HoursWorked.Div(shiftHours)
	default:
		return decimal.Zero
	}
}
