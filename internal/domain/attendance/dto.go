package attendance

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/sitework-erp/labour-ledger-go/internal/pkg/validator"
)

// ========================================
// ATTENDANCE DTOs
// ========================================

type MarkAttendanceRequest struct {
	WorkerID           string           `json:"worker_id" validate:"required,uuid"`
	ProjectID          string           `json:"project_id" validate:"required,uuid"`
	Date               string           `json:"date" validate:"required,datetime=2006-01-02"`
	Kind               string           `json:"kind" validate:"required,oneof=FULL HALF HOURLY ABSENT"`
	HoursWorked        *decimal.Decimal `json:"hours_worked,omitempty"`
	OvertimeHours      *decimal.Decimal `json:"overtime_hours,omitempty"`
	SubstituteWorkerID *string          `json:"substitute_worker_id,omitempty" validate:"omitempty,uuid"`
	MarkedBy           string           `json:"-"`
}

var maxHoursPerDay = decimal.NewFromInt(24)

func (r *MarkAttendanceRequest) Validate() error {
	errs := validator.ValidateStruct(r)

	if r.HoursWorked != nil {
		if r.HoursWorked.IsNegative() || r.HoursWorked.GreaterThan(maxHoursPerDay) {
			errs = append(errs, validator.ValidationError{Field: "hours_worked", Message: "must be between 0 and 24"})
		}
	}
	if Kind(r.Kind) == KindHourly && (r.HoursWorked == nil || !r.HoursWorked.IsPositive()) {
		errs = append(errs, validator.ValidationError{Field: "hours_worked", Message: "is required for HOURLY attendance"})
	}
	if r.OvertimeHours != nil {
		if r.OvertimeHours.IsNegative() || r.OvertimeHours.GreaterThan(maxHoursPerDay) {
			errs = append(errs, validator.ValidationError{Field: "overtime_hours", Message: "must be between 0 and 24"})
		}
	}
	if r.SubstituteWorkerID != nil && *r.SubstituteWorkerID == r.WorkerID {
		errs = append(errs, validator.ValidationError{Field: "substitute_worker_id", Message: "must differ from worker_id"})
	}
	if validator.IsEmpty(r.MarkedBy) {
		errs = append(errs, validator.ValidationError{Field: "marked_by", Message: "is required"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ConfirmBulkRequest struct {
	IDs         []string `json:"ids" validate:"required,min=1,dive,required"`
	ConfirmedBy string   `json:"-"`
}

func (r *ConfirmBulkRequest) Validate() error {
	errs := validator.ValidateStruct(r)
	if validator.IsEmpty(r.ConfirmedBy) {
		errs = append(errs, validator.ValidationError{Field: "confirmed_by", Message: "is required"})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

type AttendanceFilter struct {
	WorkerID  *string
	ProjectID *string
	State     *string
	StartDate *time.Time
	EndDate   *time.Time
	Page      int
	Limit     int
}

var attendanceStates = []string{string(StateDraft), string(StateConfirmed)}

// Validate rejects filter values the ledger could never match.
func (f *AttendanceFilter) Validate() error {
	var errs validator.ValidationErrors
	errs = validator.OptionalUUID(errs, "worker_id", f.WorkerID)
	errs = validator.OptionalUUID(errs, "project_id", f.ProjectID)
	errs = validator.OptionalOneOf(errs, "state", f.State, attendanceStates)
	if f.StartDate != nil && f.EndDate != nil && f.EndDate.Before(*f.StartDate) {
		errs = append(errs, validator.ValidationError{Field: "end_date", Message: "must not be before start_date"})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Normalize applies paging defaults.
func (f *AttendanceFilter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 || f.Limit > 200 {
		f.Limit = 50
	}
}

type AttendanceResponse struct {
	ID                 string          `json:"id"`
	WorkerID           string          `json:"worker_id"`
	ProjectID          string          `json:"project_id"`
	Date               string          `json:"date"`
	Kind               string          `json:"kind"`
	HoursWorked        decimal.Decimal `json:"hours_worked"`
	OvertimeHours      decimal.Decimal `json:"overtime_hours"`
	SubstituteWorkerID *string         `json:"substitute_worker_id,omitempty"`
	State              string          `json:"state"`
	LinkedPaymentID    *string         `json:"linked_payment_id,omitempty"`
	MarkedBy           string          `json:"marked_by"`
	ConfirmedBy        *string         `json:"confirmed_by,omitempty"`
	ConfirmedAt        *time.Time      `json:"confirmed_at,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

func ToResponse(a Attendance) AttendanceResponse {
	return AttendanceResponse{
		ID:                 a.ID,
		WorkerID:           a.WorkerID,
		ProjectID:          a.ProjectID,
		Date:               a.Date.Format("2006-01-02"),
		Kind:               string(a.Kind),
		HoursWorked:        a.HoursWorked,
		OvertimeHours:      a.OvertimeHours,
		SubstituteWorkerID: a.SubstituteWorkerID,
		State:              string(a.State),
		LinkedPaymentID:    a.LinkedPaymentID,
		MarkedBy:           a.MarkedBy,
		ConfirmedBy:        a.ConfirmedBy,
		ConfirmedAt:        a.ConfirmedAt,
		CreatedAt:          a.CreatedAt,
		UpdatedAt:          a.UpdatedAt,
	}
}

type ListAttendanceResponse struct {
	Data       []AttendanceResponse `json:"data"`
	TotalCount int64                `json:"total_count"`
	Page       int                  `json:"page"`
	Limit      int                  `json:"limit"`
}

type BulkConfirmResponse struct {
	Confirmed []string `json:"confirmed"`
	Skipped   []string `json:"skipped"`
}
