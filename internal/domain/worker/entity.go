package worker

import "github.com/shopspring/decimal"

// Worker is owned by the workforce master module; the ledger only reads it.
type Worker struct {
	ID        string
	FullName  string
	DailyRate decimal.Decimal
	IsActive  bool
}
