package attendance

import (
	"fmt"

	"github.com/sitework-erp/labour-ledger-go/internal/domain/common"
)

// Attendance domain errors
var (
	ErrAttendanceNotFound  = fmt.Errorf("%w: attendance record not found", common.ErrNotFound)
	ErrDuplicateAttendance = fmt.Errorf("%w: attendance already marked for this worker, project and date", common.ErrStateConflict)
	ErrFutureDate          = fmt.Errorf("%w: attendance date cannot be in the future", common.ErrValidation)
	ErrAlreadyPaid         = fmt.Errorf("%w: attendance is already linked to a payment and cannot change", common.ErrStateConflict)
	ErrSubstituteInactive  = fmt.Errorf("%w: substitute worker does not exist or is inactive", common.ErrValidation)
)
