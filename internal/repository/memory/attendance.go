package memory

import (
	"context"
	"sort"
	"time"

	"github.com/sitework-erp/labour-ledger-go/internal/domain/attendance"
)

type attendanceRepository struct {
	data     *data
	now      func() time.Time
	readOnly bool
}

func (r *attendanceRepository) Create(ctx context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	exists, _ := r.ExistsForDay(ctx, a.WorkerID, a.ProjectID, a.Date)
	if exists {
		return attendance.Attendance{}, attendance.ErrDuplicateAttendance
	}
	now := r.now()
	a.CreatedAt = now
	a.UpdatedAt = now
	r.data.attendance[a.ID] = a
	return a, nil
}

func (r *attendanceRepository) GetByID(ctx context.Context, id string) (attendance.Attendance, error) {
	a, ok := r.data.attendance[id]
	if !ok {
		return attendance.Attendance{}, attendance.ErrAttendanceNotFound
	}
	return a, nil
}

func (r *attendanceRepository) GetByIDForUpdate(ctx context.Context, id string) (attendance.Attendance, error) {
	if r.readOnly {
		return attendance.Attendance{}, ErrLockInReadOnly
	}
	return r.GetByID(ctx, id)
}

func (r *attendanceRepository) ExistsForDay(ctx context.Context, workerID, projectID string, date time.Time) (bool, error) {
	for _, a := range r.data.attendance {
		if a.WorkerID == workerID && a.ProjectID == projectID && a.Date.Equal(date) {
			return true, nil
		}
	}
	return false, nil
}

func (r *attendanceRepository) Confirm(ctx context.Context, id string, confirmedBy string, confirmedAt time.Time) error {
	a, ok := r.data.attendance[id]
	if !ok {
		return attendance.ErrAttendanceNotFound
	}
	if a.State != attendance.StateDraft || a.IsPaid() {
		return attendance.ErrAlreadyPaid
	}
	a.State = attendance.StateConfirmed
	a.ConfirmedBy = &confirmedBy
	a.ConfirmedAt = &confirmedAt
	a.UpdatedAt = confirmedAt
	r.data.attendance[id] = a
	return nil
}

func (r *attendanceRepository) LinkToPayment(ctx context.Context, workerID, projectID string, upTo time.Time, paymentID string) (int64, error) {
	var linked int64
	for id, a := range r.data.attendance {
		if !isPayable(a, workerID, projectID, upTo) {
			continue
		}
		pid := paymentID
		a.LinkedPaymentID = &pid
		a.UpdatedAt = r.now()
		r.data.attendance[id] = a
		linked++
	}
	return linked, nil
}

func (r *attendanceRepository) ListPayable(ctx context.Context, workerID, projectID string, upTo time.Time) ([]attendance.Attendance, error) {
	var records []attendance.Attendance
	for _, a := range r.data.attendance {
		if isPayable(a, workerID, projectID, upTo) {
			records = append(records, a)
		}
	}
	sort.Slice(records, func(i, j int) bool { return records[i].Date.Before(records[j].Date) })
	return records, nil
}

func (r *attendanceRepository) List(ctx context.Context, filter attendance.AttendanceFilter) ([]attendance.Attendance, int64, error) {
	var records []attendance.Attendance
	for _, a := range r.data.attendance {
		if filter.WorkerID != nil && *filter.WorkerID != "" && a.WorkerID != *filter.WorkerID {
			continue
		}
		if filter.ProjectID != nil && *filter.ProjectID != "" && a.ProjectID != *filter.ProjectID {
			continue
		}
		if filter.State != nil && *filter.State != "" && string(a.State) != *filter.State {
			continue
		}
		if filter.StartDate != nil && a.Date.Before(*filter.StartDate) {
			continue
		}
		if filter.EndDate != nil && a.Date.After(*filter.EndDate) {
			continue
		}
		records = append(records, a)
	}
	sort.Slice(records, func(i, j int) bool {
		if !records[i].Date.Equal(records[j].Date) {
			return records[i].Date.After(records[j].Date)
		}
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})

	total := int64(len(records))
	return paginate(records, filter.Page, filter.Limit), total, nil
}

func isPayable(a attendance.Attendance, workerID, projectID string, upTo time.Time) bool {
	return a.WorkerID == workerID &&
		a.ProjectID == projectID &&
		!a.Date.After(upTo) &&
		a.State == attendance.StateConfirmed &&
		a.LinkedPaymentID == nil
}

func paginate[T any](items []T, page, limit int) []T {
	if limit <= 0 {
		return items
	}
	if page < 1 {
		page = 1
	}
	start := (page - 1) * limit
	if start >= len(items) {
		return nil
	}
	end := start + limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
