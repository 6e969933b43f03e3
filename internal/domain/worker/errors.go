package worker

import (
	"fmt"

	"github.com/sitework-erp/labour-ledger-go/internal/domain/common"
)

var (
	ErrWorkerNotFound = fmt.Errorf("%w: worker not found", common.ErrNotFound)
	ErrWorkerInactive = fmt.Errorf("%w: worker does not exist or is inactive", common.ErrValidation)
)
