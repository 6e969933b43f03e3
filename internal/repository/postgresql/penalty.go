package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/sitework-erp/labour-ledger-go/internal/domain/penalty"
	"github.com/sitework-erp/labour-ledger-go/internal/pkg/database"
)

type penaltyRepository struct {
	q database.Querier
}

func NewPenaltyRepository(q database.Querier) penalty.PenaltyRepository {
	return &penaltyRepository{q: q}
}

const penaltyColumns = `
	id, worker_id, project_id, date, kind, amount, reason,
	is_deducted, deducted_by_payment_id, created_by, created_at`

func scanPenalty(row pgx.Row) (penalty.Penalty, error) {
	var p penalty.Penalty
	err := row.Scan(
		&p.ID, &p.WorkerID, &p.ProjectID, &p.Date, &p.Kind, &p.Amount, &p.Reason,
		&p.IsDeducted, &p.DeductedByPaymentID, &p.CreatedBy, &p.CreatedAt,
	)
	return p, err
}

func (r *penaltyRepository) Create(ctx context.Context, p penalty.Penalty) (penalty.Penalty, error) {
	query := `
		INSERT INTO penalty_records (id, worker_id, project_id, date, kind, amount, reason, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at
	`

	err := r.q.QueryRow(ctx, query,
		p.ID, p.WorkerID, p.ProjectID, p.Date, p.Kind, p.Amount, p.Reason, p.CreatedBy,
	).Scan(&p.CreatedAt)
	if err != nil {
		return penalty.Penalty{}, fmt.Errorf("failed to create penalty: %w", err)
	}

	return p, nil
}

func (r *penaltyRepository) GetByID(ctx context.Context, id string) (penalty.Penalty, error) {
	query := `SELECT ` + penaltyColumns + ` FROM penalty_records WHERE id = $1`

	p, err := scanPenalty(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return penalty.Penalty{}, penalty.ErrPenaltyNotFound
		}
		return penalty.Penalty{}, fmt.Errorf("failed to get penalty by ID: %w", err)
	}
	return p, nil
}

func (r *penaltyRepository) OutstandingTotal(ctx context.Context, workerID, projectID string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM penalty_records
		WHERE worker_id = $1 AND project_id = $2 AND is_deducted = FALSE
	`

	var total decimal.Decimal
	if err := r.q.QueryRow(ctx, query, workerID, projectID).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum outstanding penalties: %w", err)
	}
	return total, nil
}

func (r *penaltyRepository) MarkDeducted(ctx context.Context, workerID, projectID, paymentID string) (int64, error) {
	query := `
		UPDATE penalty_records
		SET is_deducted = TRUE, deducted_by_payment_id = $3
		WHERE worker_id = $1
		  AND project_id = $2
		  AND is_deducted = FALSE
		  AND deducted_by_payment_id IS NULL
	`

	tag, err := r.q.Exec(ctx, query, workerID, projectID, paymentID)
	if err != nil {
		return 0, fmt.Errorf("failed to mark penalties deducted: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *penaltyRepository) List(ctx context.Context, filter penalty.PenaltyFilter) ([]penalty.Penalty, error) {
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
	}
	if filter.OutstandingOnly {
		where += " AND is_deducted = FALSE"
	}

	rows, err := r.q.Query(ctx, `SELECT `+penaltyColumns+` FROM penalty_records WHERE `+where+` ORDER BY date ASC, created_at ASC`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list penalties: %w", err)
	}
	defer rows.Close()

	var penalties []penalty.Penalty
	for rows.Next() {
		p, err := scanPenalty(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan penalty: %w", err)
		}
		penalties = append(penalties, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate penalties: %w", err)
	}
	return penalties, nil
}
