package memory

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/shopspring/decimal"

	"github.com/sitework-erp/labour-ledger-go/internal/domain/worker"
	"github.com/sitework-erp/labour-ledger-go/internal/pkg/validator"
)

type seedWorker struct {
	ID        string          `json:"id"`
	FullName  string          `json:"full_name"`
	DailyRate decimal.Decimal `json:"daily_rate"`
	IsActive  bool            `json:"is_active"`
}

// LoadWorkers seeds the worker master from a JSON array. The memory backend
// has no workforce module behind it, so this is how a dev server gets workers.
func (s *Store) LoadWorkers(r io.Reader) (int, error) {
	var seeds []seedWorker
	if err := json.NewDecoder(r).Decode(&seeds); err != nil {
		return 0, fmt.Errorf("decode worker seed: %w", err)
	}
	for i, seed := range seeds {
		if seed.ID == "" {
			return 0, fmt.Errorf("worker seed %d: id is required", i)
		}
		if !validator.IsUUID(seed.ID) {
			return 0, fmt.Errorf("worker seed %d: id %q is not a UUID", i, seed.ID)
		}
		if seed.DailyRate.IsNegative() {
			return 0, fmt.Errorf("worker seed %s: daily_rate cannot be negative", seed.ID)
		}
	}

	for _, seed := range seeds {
		s.PutWorker(worker.Worker{
			ID:        seed.ID,
			FullName:  seed.FullName,
			DailyRate: seed.DailyRate,
			IsActive:  seed.IsActive,
		})
	}
	return len(seeds), nil
}
