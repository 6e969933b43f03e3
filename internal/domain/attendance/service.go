package attendance

import "context"

// AttendanceService defines business logic for the attendance ledger
type AttendanceService interface {
	// MarkAttendance records a DRAFT attendance fact
	MarkAttendance(ctx context.Context, req MarkAttendanceRequest) (AttendanceResponse, error)

	// ConfirmAttendance moves a DRAFT record to CONFIRMED; confirming twice is a no-op
	ConfirmAttendance(ctx context.Context, id string, userID string) (AttendanceResponse, error)

	// ConfirmBulk confirms every unpaid record in the batch and skips paid ones
	ConfirmBulk(ctx context.Context, req ConfirmBulkRequest) (BulkConfirmResponse, error)

	GetAttendance(ctx context.Context, id string) (AttendanceResponse, error)
	ListAttendance(ctx context.Context, filter AttendanceFilter) (ListAttendanceResponse, error)
}
