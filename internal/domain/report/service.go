package report

import "context"

// ReportService defines the interface for read-only financial reports
type ReportService interface {
	// Accrual-based labour cost of a project
	ProjectLabourCost(ctx context.Context, projectID string) (ProjectLabourCost, error)
}
