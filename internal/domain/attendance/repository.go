package attendance

import (
	"context"
	"time"
)

// AttendanceRepository defines data access methods for attendance records.
// Implementations are bound to a unit of work; see package uow.
type AttendanceRepository interface {
	// Create inserts a DRAFT record. Returns ErrDuplicateAttendance when the
	// (worker, project, date) slot is taken.
	Create(ctx context.Context, attendance Attendance) (Attendance, error)

	GetByID(ctx context.Context, id string) (Attendance, error)

	// GetByIDForUpdate reads the record and locks it until the unit of work ends.
	GetByIDForUpdate(ctx context.Context, id string) (Attendance, error)

	ExistsForDay(ctx context.Context, workerID, projectID string, date time.Time) (bool, error)

	// Confirm moves an unlinked DRAFT record to CONFIRMED.
	Confirm(ctx context.Context, id string, confirmedBy string, confirmedAt time.Time) error

	// LinkToPayment stamps paymentID on every CONFIRMED, unlinked record for the
	// worker and project dated on or before upTo. Returns the number linked.
	LinkToPayment(ctx context.Context, workerID, projectID string, upTo time.Time, paymentID string) (int64, error)

	// ListPayable returns CONFIRMED, unlinked records dated on or before upTo, oldest first.
	ListPayable(ctx context.Context, workerID, projectID string, upTo time.Time) ([]Attendance, error)

	List(ctx context.Context, filter AttendanceFilter) ([]Attendance, int64, error)
}
