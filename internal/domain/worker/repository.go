package worker

import (
	"context"
	"errors"
	"fmt"
)

// WorkerRepository gives read access to the externally owned worker master.
type WorkerRepository interface {
	// GetByID returns ErrWorkerNotFound when no such worker exists.
	GetByID(ctx context.Context, id string) (Worker, error)
}

// RequireActive loads a worker and fails with ErrWorkerInactive unless it
// exists and is active.
func RequireActive(ctx context.Context, repo WorkerRepository, id string) (Worker, error) {
	w, err := repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrWorkerNotFound) {
			return Worker{}, ErrWorkerInactive
		}
		return Worker{}, fmt.Errorf("failed to get worker: %w", err)
	}
	if !w.IsActive {
		return Worker{}, ErrWorkerInactive
	}
	return w, nil
}
