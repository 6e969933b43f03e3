package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/sitework-erp/labour-ledger-go/internal/domain/worker"
	"github.com/sitework-erp/labour-ledger-go/internal/pkg/database"
)

type workerRepository struct {
	q database.Querier
}

func NewWorkerRepository(q database.Querier) worker.WorkerRepository {
	return &workerRepository{q: q}
}

// GetByID implements worker.WorkerRepository.
func (r *workerRepository) GetByID(ctx context.Context, id string) (worker.Worker, error) {
	query := `
		SELECT id, full_name, daily_rate, is_active
		FROM workers
		WHERE id = $1
	`

	var w worker.Worker
	err := r.q.QueryRow(ctx, query, id).Scan(&w.ID, &w.FullName, &w.DailyRate, &w.IsActive)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return worker.Worker{}, worker.ErrWorkerNotFound
		}
		return worker.Worker{}, fmt.Errorf("failed to get worker by ID: %w", err)
	}

	return w, nil
}
