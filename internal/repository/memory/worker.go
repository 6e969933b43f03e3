package memory

import (
	"context"

	"github.com/sitework-erp/labour-ledger-go/internal/domain/worker"
)

type workerRepository struct {
	data *data
}

func (r *workerRepository) GetByID(ctx context.Context, id string) (worker.Worker, error) {
	w, ok := r.data.workers[id]
	if !ok {
		return worker.Worker{}, worker.ErrWorkerNotFound
	}
	return w, nil
}
