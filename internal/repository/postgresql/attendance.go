package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/sitework-erp/labour-ledger-go/internal/domain/attendance"
	"github.com/sitework-erp/labour-ledger-go/internal/pkg/database"
)

type attendanceRepository struct {
	q database.Querier
}

func NewAttendanceRepository(q database.Querier) attendance.AttendanceRepository {
	return &attendanceRepository{q: q}
}

const attendanceColumns = `
	id, worker_id, project_id, date, kind, hours_worked, overtime_hours,
	substitute_worker_id, state, linked_payment_id, marked_by,
	confirmed_by, confirmed_at, created_at, updated_at`

func scanAttendance(row pgx.Row) (attendance.Attendance, error) {
	var a attendance.Attendance
	err := row.Scan(
		&a.ID, &a.WorkerID, &a.ProjectID, &a.Date, &a.Kind, &a.HoursWorked, &a.OvertimeHours,
		&a.SubstituteWorkerID, &a.State, &a.LinkedPaymentID, &a.MarkedBy,
		&a.ConfirmedBy, &a.ConfirmedAt, &a.CreatedAt, &a.UpdatedAt,
	)
	return a, err
}

// Create implements attendance.AttendanceRepository.
func (r *attendanceRepository) Create(ctx context.Context, newAttendance attendance.Attendance) (attendance.Attendance, error) {
	query := `
		INSERT INTO attendance_records (
			id, worker_id, project_id, date, kind, hours_worked, overtime_hours,
			substitute_worker_id, state, marked_by
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10
		) RETURNING created_at, updated_at
	`

	err := r.q.QueryRow(ctx, query,
		newAttendance.ID,
		newAttendance.WorkerID,
		newAttendance.ProjectID,
		newAttendance.Date,
		newAttendance.Kind,
		newAttendance.HoursWorked,
		newAttendance.OvertimeHours,
		newAttendance.SubstituteWorkerID,
		newAttendance.State,
		newAttendance.MarkedBy,
	).Scan(&newAttendance.CreatedAt, &newAttendance.UpdatedAt)

	if err != nil {
		if database.IsUniqueViolation(err, "uk_attendance_worker_project_date") {
			return attendance.Attendance{}, attendance.ErrDuplicateAttendance
		}
		return attendance.Attendance{}, fmt.Errorf("failed to create attendance: %w", err)
	}

	return newAttendance, nil
}

// GetByID implements attendance.AttendanceRepository.
func (r *attendanceRepository) GetByID(ctx context.Context, id string) (attendance.Attendance, error) {
	query := `SELECT ` + attendanceColumns + ` FROM attendance_records WHERE id = $1`

	att, err := scanAttendance(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, fmt.Errorf("failed to get attendance by ID: %w", err)
	}

	return att, nil
}

// GetByIDForUpdate implements attendance.AttendanceRepository.
func (r *attendanceRepository) GetByIDForUpdate(ctx context.Context, id string) (attendance.Attendance, error) {
	query := `SELECT ` + attendanceColumns + ` FROM attendance_records WHERE id = $1 FOR UPDATE`

	att, err := scanAttendance(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, fmt.Errorf("failed to lock attendance: %w", err)
	}

	return att, nil
}

// ExistsForDay implements attendance.AttendanceRepository.
func (r *attendanceRepository) ExistsForDay(ctx context.Context, workerID, projectID string, date time.Time) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM attendance_records
			WHERE worker_id = $1 AND project_id = $2 AND date = $3
		)
	`

	var exists bool
	if err := r.q.QueryRow(ctx, query, workerID, projectID, date).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check existing attendance: %w", err)
	}
	return exists, nil
}

// Confirm implements attendance.AttendanceRepository.
func (r *attendanceRepository) Confirm(ctx context.Context, id string, confirmedBy string, confirmedAt time.Time) error {
	query := `
		UPDATE attendance_records
		SET state = 'CONFIRMED', confirmed_by = $2, confirmed_at = $3, updated_at = $3
		WHERE id = $1 AND state = 'DRAFT' AND linked_payment_id IS NULL
	`

	tag, err := r.q.Exec(ctx, query, id, confirmedBy, confirmedAt)
	if err != nil {
		return fmt.Errorf("failed to confirm attendance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrAlreadyPaid
	}
	return nil
}

// LinkToPayment implements attendance.AttendanceRepository.
func (r *attendanceRepository) LinkToPayment(ctx context.Context, workerID, projectID string, upTo time.Time, paymentID string) (int64, error) {
	query := `
		UPDATE attendance_records
		SET linked_payment_id = $4, updated_at = now()
		WHERE worker_id = $1
		  AND project_id = $2
		  AND date <= $3
		  AND state = 'CONFIRMED'
		  AND linked_payment_id IS NULL
	`

	tag, err := r.q.Exec(ctx, query, workerID, projectID, upTo, paymentID)
	if err != nil {
		return 0, fmt.Errorf("failed to link attendance to payment: %w", err)
	}
	return tag.RowsAffected(), nil
}

// ListPayable implements attendance.AttendanceRepository.
func (r *attendanceRepository) ListPayable(ctx context.Context, workerID, projectID string, upTo time.Time) ([]attendance.Attendance, error) {
	query := `SELECT ` + attendanceColumns + `
		FROM attendance_records
		WHERE worker_id = $1
		  AND project_id = $2
		  AND date <= $3
		  AND state = 'CONFIRMED'
		  AND linked_payment_id IS NULL
		ORDER BY date ASC
	`

	return r.queryList(ctx, query, workerID, projectID, upTo)
}

// List implements attendance.AttendanceRepository.
func (r *attendanceRepository) List(ctx context.Context, filter attendance.AttendanceFilter) ([]attendance.Attendance, int64, error) {
	where := "1 = 1"
	args := []interface{}{}
	argIdx := 1

	if filter.WorkerID != nil && *filter.WorkerID != "" {
		where += fmt.Sprintf(" AND worker_id = $%d", argIdx)
		args = append(args, *filter.WorkerID)
		argIdx++
	}
	if filter.ProjectID != nil && *filter.ProjectID != "" {
		where += fmt.Sprintf(" AND project_id = $%d", argIdx)
		args = append(args, *filter.ProjectID)
		argIdx++
	}
	if filter.State != nil && *filter.State != "" {
		where += fmt.Sprintf(" AND state = $%d", argIdx)
		args = append(args, *filter.State)
		argIdx++
	}
	if filter.StartDate != nil {
		where += fmt.Sprintf(" AND date >= $%d", argIdx)
		args = append(args, *filter.StartDate)
		argIdx++
	}
	if filter.EndDate != nil {
		where += fmt.Sprintf(" AND date <= $%d", argIdx)
		args = append(args, *filter.EndDate)
		argIdx++
	}

	var total int64
	if err := r.q.QueryRow(ctx, "SELECT COUNT(*) FROM attendance_records WHERE "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count attendance: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s FROM attendance_records WHERE %s ORDER BY date DESC, created_at DESC LIMIT $%d OFFSET $%d`,
		attendanceColumns, where, argIdx, argIdx+1)
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	records, err := r.queryList(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

func (r *attendanceRepository) queryList(ctx context.Context, query string, args ...interface{}) ([]attendance.Attendance, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}
	defer rows.Close()

	var records []attendance.Attendance
	for rows.Next() {
		att, err := scanAttendance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		records = append(records, att)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate attendance: %w", err)
	}
	return records, nil
}
