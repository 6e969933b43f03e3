package payroll

import "context"

// PayrollService records payroll payments and settles deductions against them.
type PayrollService interface {
	// RecordPayment persists a payment and, for wage payments, applies penalty
	// and advance deductions and links the covered attendance, atomically.
	RecordPayment(ctx context.Context, req RecordPaymentRequest) (RecordPaymentResponse, error)

	GetPayment(ctx context.Context, id string) (PaymentResponse, error)
	ListPayments(ctx context.Context, filter PaymentFilter) (ListPaymentResponse, error)

	// PreviewWages estimates the next wage payment from payable attendance.
	PreviewWages(ctx context.Context, req WagePreviewRequest) (WagePreviewResponse, error)

	// WorkerBalance reports what the worker still owes on a project.
	WorkerBalance(ctx context.Context, workerID, projectID string) (WorkerBalanceResponse, error)
}
