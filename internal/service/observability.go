package service

import (
	"context"
	"io"
	"log/slog"
	"time"
)

// MutationEvent captures one hierarchy mutation for the structured log sink:
// which operation ran, on which workgroup, by which actor. Deletes add
// children_promoted and assets_reassigned counts through Fields.
type MutationEvent struct {
	Operation   string
	WorkgroupID string
	ActorID     string
	Duration    time.Duration
	Success     bool
	Err         error
	Fields      map[string]any
	StartedAt   time.Time
}

// MutationObserver receives mutation events. Reads are never reported.
type MutationObserver interface {
	ObserveMutation(ctx context.Context, event MutationEvent)
}

// NoopMutationObserver ignores all events.
type NoopMutationObserver struct{}

func (NoopMutationObserver) ObserveMutation(context.Context, MutationEvent) {}

type logMutationObserver struct {
	logger *slog.Logger
}

// NewLogMutationObserver writes mutation events to the provided writer.
func NewLogMutationObserver(w io.Writer) MutationObserver {
	if w == nil {
		return NoopMutationObserver{}
	}
	return &logMutationObserver{
		logger: slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})),
	}
}

func (o *logMutationObserver) ObserveMutation(ctx context.Context, event MutationEvent) {
	attrs := make([]any, 0, 10+len(event.Fields)*2)
	attrs = append(attrs,
		"operation", event.Operation,
		"workgroup_id", event.WorkgroupID,
		"actor_id", event.ActorID,
		"duration_ms", event.Duration.Milliseconds(),
		"success", event.Success,
	)
	for k, v := range event.Fields {
		attrs = append(attrs, k, v)
	}
	if event.Err != nil {
		attrs = append(attrs, "error", event.Err.Error())
		o.logger.ErrorContext(ctx, "workgroup_mutation", attrs...)
		return
	}
	o.logger.InfoContext(ctx, "workgroup_mutation", attrs...)
}

func mutationObserverOrNoop(observers []MutationObserver) MutationObserver {
	for _, obs := range observers {
		if obs != nil {
			return obs
		}
	}
	return NoopMutationObserver{}
}
