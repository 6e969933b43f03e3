package penalty

import (
	"fmt"

	"github.com/sitework-erp/labour-ledger-go/internal/domain/common"
)

var (
	ErrPenaltyNotFound = fmt.Errorf("%w: penalty not found", common.ErrNotFound)
	ErrFutureDate      = fmt.Errorf("%w: penalty date cannot be in the future", common.ErrValidation)
)
