package audit

import (
	"context"
	"log/slog"
)

// Event is a ledger mutation attributed to an authenticated actor.
type Event struct {
	ActorID    string
	Action     string
	EntityType string
	EntityID   string
	After      any
}

// Recorder ships audit events to the audit log owned by another module.
type Recorder interface {
	Record(ctx context.Context, event Event) error
}

type logRecorder struct {
	logger *slog.Logger
}

// NewLogRecorder returns a Recorder that writes events to a structured logger.
// Used until the audit module exposes an ingestion endpoint.
func NewLogRecorder(logger *slog.Logger) Recorder {
	if logger == nil {
		logger = slog.Default()
	}
	return &logRecorder{logger: logger}
}

func (r *logRecorder) Record(ctx context.Context, event Event) error {
	r.logger.InfoContext(ctx, "audit",
		slog.String("actor_id", event.ActorID),
		slog.String("action", event.Action),
		slog.String("entity_type", event.EntityType),
		slog.String("entity_id", event.EntityID),
		slog.Any("after", event.After),
	)
	return nil
}

// Actions recorded by the labour ledger
const (
	ActionAttendanceMarked    = "attendance.marked"
	ActionAttendanceConfirmed = "attendance.confirmed"
	ActionPaymentRecorded     = "payment.recorded"
	ActionPenaltyRecorded     = "penalty.recorded"
)
