package report

import "context"

// ReportRepository defines the interface for report data access
type ReportRepository interface {
	// Labour cost figures for one project, summed from payments and penalties
	GetProjectLabourTotals(ctx context.Context, projectID string) (ProjectLabourTotals, error)
}
