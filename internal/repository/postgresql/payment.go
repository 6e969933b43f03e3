package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/sitework-erp/labour-ledger-go/internal/domain/payroll"
	"github.com/sitework-erp/labour-ledger-go/internal/pkg/database"
)

type paymentRepository struct {
	q database.Querier
}

func NewPaymentRepository(q database.Querier) payroll.PaymentRepository {
	return &paymentRepository{q: q}
}

const paymentColumns = `
	id, worker_id, project_id, payment_date, kind,
	base_amount, overtime_amount, bonus_amount, deduction_amount, net_amount, settled_amount,
	method, notes, created_by, created_at`

func scanPayment(row pgx.Row) (payroll.Payment, error) {
	var p payroll.Payment
	err := row.Scan(
		&p.ID, &p.WorkerID, &p.ProjectID, &p.PaymentDate, &p.Kind,
		&p.BaseAmount, &p.OvertimeAmount, &p.BonusAmount, &p.DeductionAmount, &p.NetAmount, &p.SettledAmount,
		&p.Method, &p.Notes, &p.CreatedBy, &p.CreatedAt,
	)
	return p, err
}

func (r *paymentRepository) Create(ctx context.Context, p payroll.Payment) (payroll.Payment, error) {
	query := `
		INSERT INTO payment_records (
			id, worker_id, project_id, payment_date, kind,
			base_amount, overtime_amount, bonus_amount, deduction_amount, net_amount, settled_amount,
			method, notes, created_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING created_at
	`

	err := r.q.QueryRow(ctx, query,
		p.ID, p.WorkerID, p.ProjectID, p.PaymentDate, p.Kind,
		p.BaseAmount, p.OvertimeAmount, p.BonusAmount, p.DeductionAmount, p.NetAmount, p.SettledAmount,
		p.Method, p.Notes, p.CreatedBy,
	).Scan(&p.CreatedAt)
	if err != nil {
		if database.IsUniqueViolation(err, "uk_payment_worker_project_date_kind") {
			return payroll.Payment{}, payroll.ErrDuplicatePayment
		}
		return payroll.Payment{}, fmt.Errorf("failed to create payment: %w", err)
	}

	return p, nil
}

func (r *paymentRepository) GetByID(ctx context.Context, id string) (payroll.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payment_records WHERE id = $1`

	p, err := scanPayment(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.Payment{}, payroll.ErrPaymentNotFound
		}
		return payroll.Payment{}, fmt.Errorf("failed to get payment by ID: %w", err)
	}
	return p, nil
}

func (r *paymentRepository) ExistsForSlot(ctx context.Context, workerID, projectID string, date time.Time, kind payroll.PaymentKind) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM payment_records
			WHERE worker_id = $1 AND project_id = $2 AND payment_date = $3 AND kind = $4
		)
	`

	var exists bool
	if err := r.q.QueryRow(ctx, query, workerID, projectID, date, kind).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check existing payment: %w", err)
	}
	return exists, nil
}

func (r *paymentRepository) OutstandingAdvanceTotal(ctx context.Context, workerID, projectID string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(net_amount - settled_amount), 0)
		FROM payment_records
		WHERE worker_id = $1
		  AND project_id = $2
		  AND kind = 'ADVANCE'
		  AND settled_amount < net_amount
	`

	var total decimal.Decimal
	if err := r.q.QueryRow(ctx, query, workerID, projectID).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum outstanding advances: %w", err)
	}
	return total, nil
}

func (r *paymentRepository) ListOutstandingAdvancesForUpdate(ctx context.Context, workerID, projectID string) ([]payroll.Payment, error) {
	query := `SELECT ` + paymentColumns + `
		FROM payment_records
		WHERE worker_id = $1
		  AND project_id = $2
		  AND kind = 'ADVANCE'
		  AND settled_amount < net_amount
		ORDER BY payment_date ASC, created_at ASC, id ASC
		FOR UPDATE
	`

	return r.queryList(ctx, query, workerID, projectID)
}

func (r *paymentRepository) ApplySettlement(ctx context.Context, advanceID string, delta decimal.Decimal) (payroll.Payment, error) {
	query := `
		UPDATE payment_records
		SET settled_amount = settled_amount + $2
		WHERE id = $1
		  AND kind = 'ADVANCE'
		  AND settled_amount + $2 <= net_amount
		RETURNING ` + paymentColumns

	p, err := scanPayment(r.q.QueryRow(ctx, query, advanceID, delta))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || database.IsCheckViolation(err, "ck_payment_settled_range") {
			return payroll.Payment{}, payroll.ErrAdvanceOverSettled
		}
		return payroll.Payment{}, fmt.Errorf("failed to apply advance settlement: %w", err)
	}
	return p, nil
}

func (r *paymentRepository) RecordSettlement(ctx context.Context, s payroll.AdvanceSettlement) (payroll.AdvanceSettlement, error) {
	query := `
		INSERT INTO advance_settlements (id, advance_id, settled_by_payment_id, amount)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`

	if err := r.q.QueryRow(ctx, query, s.ID, s.AdvanceID, s.SettledByPaymentID, s.Amount).Scan(&s.CreatedAt); err != nil {
		return payroll.AdvanceSettlement{}, fmt.Errorf("failed to record advance settlement: %w", err)
	}
	return s, nil
}

func (r *paymentRepository) ListSettlements(ctx context.Context, paymentID string) ([]payroll.AdvanceSettlement, error) {
	query := `
		SELECT id, advance_id, settled_by_payment_id, amount, created_at
		FROM advance_settlements
		WHERE settled_by_payment_id = $1 OR advance_id = $1
		ORDER BY created_at ASC, id ASC
	`

	rows, err := r.q.Query(ctx, query, paymentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list advance settlements: %w", err)
	}
	defer rows.Close()

	var settlements []payroll.AdvanceSettlement
	for rows.Next() {
		var s payroll.AdvanceSettlement
		if err := rows.Scan(&s.ID, &s.AdvanceID, &s.SettledByPaymentID, &s.Amount, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan advance settlement: %w", err)
		}
		settlements = append(settlements, s)
	}
	return settlements, rows.Err()
}

func (r *paymentRepository) List(ctx context.Context, filter payroll.PaymentFilter) ([]payroll.Payment, int64, error) {
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
	if filter.Kind != nil && *filter.Kind != "" {
		where += fmt.Sprintf(" AND kind = $%d", argIdx)
		args = append(args, *filter.Kind)
		argIdx++
	}
	if filter.StartDate != nil {
		where += fmt.Sprintf(" AND payment_date >= $%d", argIdx)
		args = append(args, *filter.StartDate)
		argIdx++
	}
	if filter.EndDate != nil {
		where += fmt.Sprintf(" AND payment_date <= $%d", argIdx)
		args = append(args, *filter.EndDate)
		argIdx++
	}

	var total int64
	if err := r.q.QueryRow(ctx, "SELECT COUNT(*) FROM payment_records WHERE "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count payments: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s FROM payment_records WHERE %s ORDER BY payment_date DESC, created_at DESC LIMIT $%d OFFSET $%d`,
		paymentColumns, where, argIdx, argIdx+1)
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	payments, err := r.queryList(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return payments, total, nil
}

func (r *paymentRepository) queryList(ctx context.Context, query string, args ...interface{}) ([]payroll.Payment, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	defer rows.Close()

	var payments []payroll.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		payments = append(payments, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate payments: %w", err)
	}
	return payments, nil
}
