package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sitework-erp/labour-ledger-go/internal/domain/attendance"
	"github.com/sitework-erp/labour-ledger-go/internal/domain/audit"
	"github.com/sitework-erp/labour-ledger-go/internal/domain/common"
	"github.com/sitework-erp/labour-ledger-go/internal/domain/uow"
	"github.com/sitework-erp/labour-ledger-go/internal/domain/worker"
	"github.com/sitework-erp/labour-ledger-go/internal/pkg/validator"
)

type AttendanceServiceImpl struct {
	tx         uow.Transactor
	recorder   audit.Recorder
	calendar   common.Calendar
	shiftHours decimal.Decimal
}

// MarkAttendance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) MarkAttendance(ctx context.Context, req attendance.MarkAttendanceRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	date, err := time.Parse(common.DateLayout, req.Date)
	if err != nil {
		return attendance.AttendanceResponse{}, validator.ValidationErrors{{Field: "date", Message: "must be a valid date (YYYY-MM-DD)"}}
	}
	if date.After(s.calendar.Today()) {
		return attendance.AttendanceResponse{}, attendance.ErrFutureDate
	}

	kind := attendance.Kind(req.Kind)
	hours, overtime := s.resolveHours(kind, req.HoursWorked, req.OvertimeHours)

	record := attendance.Attendance{
		ID:                 uuid.Must(uuid.NewV7()).String(),
		WorkerID:           req.WorkerID,
		ProjectID:          req.ProjectID,
		Date:               date,
		Kind:               kind,
		HoursWorked:        hours,
		OvertimeHours:      overtime,
		SubstituteWorkerID: req.SubstituteWorkerID,
		State:              attendance.StateDraft,
		MarkedBy:           req.MarkedBy,
	}

	var created attendance.Attendance
	err = s.tx.Do(ctx, func(ctx context.Context, u uow.UnitOfWork) error {
		if _, err := worker.RequireActive(ctx, u.Workers(), req.WorkerID); err != nil {
			return err
		}
		if req.SubstituteWorkerID != nil {
			if _, err := worker.RequireActive(ctx, u.Workers(), *req.SubstituteWorkerID); err != nil {
				if errors.Is(err, worker.ErrWorkerInactive) {
					return attendance.ErrSubstituteInactive
				}
				return err
			}
		}

		exists, err := u.Attendance().ExistsForDay(ctx, req.WorkerID, req.ProjectID, date)
		if err != nil {
			return err
		}
		if exists {
			return attendance.ErrDuplicateAttendance
		}

		created, err = u.Attendance().Create(ctx, record)
		return err
	})
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	slog.InfoContext(ctx, "Attendance marked", "attendance_id", created.ID, "worker_id", created.WorkerID, "project_id", created.ProjectID, "date", req.Date, "kind", created.Kind)
	s.audit(ctx, req.MarkedBy, audit.ActionAttendanceMarked, created)

	return attendance.ToResponse(created), nil
}

// resolveHours fills in the hours a kind implies when the caller left them out.
func (s *AttendanceServiceImpl) resolveHours(kind attendance.Kind, hoursWorked, overtimeHours *decimal.Decimal) (decimal.Decimal, decimal.Decimal) {
	hours := decimal.Zero
	if hoursWorked != nil {
		hours = *hoursWorked
	}
	overtime := decimal.Zero
	if overtimeHours != nil {
		overtime = *overtimeHours
	}

	switch kind {
	case attendance.KindAbsent:
		return decimal.Zero, decimal.Zero
	case attendance.KindFull:
		if hoursWorked == nil {
			hours = s.shiftHours
		}
	case attendance.KindHalf:
		if hoursWorked == nil {
			hours = s.shiftHours.Div(decimal.NewFromInt(2))
		}
	}
	return hours, overtime
}

// ConfirmAttendance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ConfirmAttendance(ctx context.Context, id string, userID string) (attendance.AttendanceResponse, error) {
	var errs validator.ValidationErrors
	if validator.IsEmpty(id) {
		errs = append(errs, validator.ValidationError{Field: "id", Message: "is required"})
	}
	if validator.IsEmpty(userID) {
		errs = append(errs, validator.ValidationError{Field: "confirmed_by", Message: "is required"})
	}
	if len(errs) > 0 {
		return attendance.AttendanceResponse{}, errs
	}
	if !validator.IsUUID(id) {
		return attendance.AttendanceResponse{}, attendance.ErrAttendanceNotFound
	}

	var (
		record  attendance.Attendance
		changed bool
	)
	err := s.tx.Do(ctx, func(ctx context.Context, u uow.UnitOfWork) error {
		changed = false

		current, err := u.Attendance().GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		confirmed, ok, err := confirmLocked(ctx, u, current, userID, s.calendar.Now())
		if err != nil {
			return err
		}
		record, changed = confirmed, ok
		return nil
	})
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	if changed {
		slog.InfoContext(ctx, "Attendance confirmed", "attendance_id", record.ID, "confirmed_by", userID)
		s.audit(ctx, userID, audit.ActionAttendanceConfirmed, record)
	}

	return attendance.ToResponse(record), nil
}

// confirmLocked applies the DRAFT -> CONFIRMED transition to a row already
// locked by the unit of work. Re-confirming is a no-op; a paid row is frozen.
func confirmLocked(ctx context.Context, u uow.UnitOfWork, current attendance.Attendance, userID string, now time.Time) (attendance.Attendance, bool, error) {
	if current.IsPaid() {
		return attendance.Attendance{}, false, attendance.ErrAlreadyPaid
	}
	if current.State == attendance.StateConfirmed {
		return current, false, nil
	}

	if err := u.Attendance().Confirm(ctx, current.ID, userID, now); err != nil {
		return attendance.Attendance{}, false, err
	}
	updated, err := u.Attendance().GetByID(ctx, current.ID)
	if err != nil {
		return attendance.Attendance{}, false, err
	}
	return updated, true, nil
}

// ConfirmBulk implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ConfirmBulk(ctx context.Context, req attendance.ConfirmBulkRequest) (attendance.BulkConfirmResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.BulkConfirmResponse{}, err
	}

	var (
		result  attendance.BulkConfirmResponse
		changed []attendance.Attendance
	)
	err := s.tx.Do(ctx, func(ctx context.Context, u uow.UnitOfWork) error {
		result = attendance.BulkConfirmResponse{Confirmed: []string{}, Skipped: []string{}}
		changed = nil
		now := s.calendar.Now()
		seen := make(map[string]struct{}, len(req.IDs))

		for _, id := range req.IDs {
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}

			// a malformed id cannot name a record, and must not abort the batch
			if !validator.IsUUID(id) {
				result.Skipped = append(result.Skipped, id)
				continue
			}

			current, err := u.Attendance().GetByIDForUpdate(ctx, id)
			if err != nil {
				if errors.Is(err, attendance.ErrAttendanceNotFound) {
					result.Skipped = append(result.Skipped, id)
					continue
				}
				return err
			}

			record, ok, err := confirmLocked(ctx, u, current, req.ConfirmedBy, now)
			if err != nil {
				if errors.Is(err, attendance.ErrAlreadyPaid) {
					result.Skipped = append(result.Skipped, id)
					continue
				}
				return err
			}
			result.Confirmed = append(result.Confirmed, id)
			if ok {
				changed = append(changed, record)
			}
		}
		return nil
	})
	if err != nil {
		return attendance.BulkConfirmResponse{}, err
	}

	slog.InfoContext(ctx, "Attendance bulk confirmed", "confirmed", len(result.Confirmed), "skipped", len(result.Skipped), "confirmed_by", req.ConfirmedBy)
	for _, record := range changed {
		s.audit(ctx, req.ConfirmedBy, audit.ActionAttendanceConfirmed, record)
	}

	return result, nil
}

// LinkToPayment stamps paymentID on the worker's confirmed, unpaid attendance up
// to and including upTo. It runs inside the caller's unit of work and must only
// be called for payments that settle attendance.
func (s *AttendanceServiceImpl) LinkToPayment(ctx context.Context, u uow.UnitOfWork, workerID, projectID string, upTo time.Time, paymentID string) (int64, error) {
	linked, err := u.Attendance().LinkToPayment(ctx, workerID, projectID, upTo, paymentID)
	if err != nil {
		return 0, fmt.Errorf("failed to link attendance: %w", err)
	}
	return linked, nil
}

// GetAttendance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetAttendance(ctx context.Context, id string) (attendance.AttendanceResponse, error) {
	if !validator.IsUUID(id) {
		return attendance.AttendanceResponse{}, attendance.ErrAttendanceNotFound
	}

	var record attendance.Attendance
	err := s.tx.View(ctx, func(ctx context.Context, u uow.UnitOfWork) error {
		var err error
		record, err = u.Attendance().GetByID(ctx, id)
		return err
	})
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	return attendance.ToResponse(record), nil
}

// ListAttendance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ListAttendance(ctx context.Context, filter attendance.AttendanceFilter) (attendance.ListAttendanceResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.ListAttendanceResponse{}, err
	}
	filter.Normalize()

	var (
		records []attendance.Attendance
		total   int64
	)
	err := s.tx.View(ctx, func(ctx context.Context, u uow.UnitOfWork) error {
		var err error
		records, total, err = u.Attendance().List(ctx, filter)
		return err
	})
	if err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	data := make([]attendance.AttendanceResponse, 0, len(records))
	for _, record := range records {
		data = append(data, attendance.ToResponse(record))
	}

	return attendance.ListAttendanceResponse{
		Data:       data,
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
	}, nil
}

func (s *AttendanceServiceImpl) audit(ctx context.Context, actorID, action string, record attendance.Attendance) {
	err := s.recorder.Record(ctx, audit.Event{
		ActorID:    actorID,
		Action:     action,
		EntityType: "attendance",
		EntityID:   record.ID,
		After:      attendance.ToResponse(record),
	})
	if err != nil {
		slog.WarnContext(ctx, "Failed to record audit event", "action", action, "entity_id", record.ID, "error", err)
	}
}

func NewAttendanceService(tx uow.Transactor, recorder audit.Recorder, calendar common.Calendar, shiftHours decimal.Decimal) *AttendanceServiceImpl {
	return &AttendanceServiceImpl{
		tx:         tx,
		recorder:   recorder,
		calendar:   calendar,
		shiftHours: shiftHours,
	}
}

var _ attendance.AttendanceService = (*AttendanceServiceImpl)(nil)
