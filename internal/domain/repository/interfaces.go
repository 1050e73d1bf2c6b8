package repository

import (
	"context"
	"time"

	"vakil-core/internal/domain/entity"
)

// Completer is the hosted model. Complete blocks until the provider answers.
type Completer interface {
	Complete(ctx context.Context, req entity.CompletionRequest) (string, error)
}

type DocumentInspector interface {
	PageCount(data []byte) (int, error)
}

// Recorder receives per-request outcomes for observability.
type Recorder interface {
	ObserveRequest(frontend, kind, outcome string)
	ObserveCompletion(kind string, d time.Duration)
	ObservePages(pages int)
}
