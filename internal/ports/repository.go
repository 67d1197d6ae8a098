package ports

import (
	"context"
	"time"

	"signalAnalytics/internal/domain"
)

// ExecutionRepository defines the interface for storing and retrieving raw
// execution/signal records. Reads are ordered ascending by execution time
// (ties by insertion order) so that downstream FIFO matching is deterministic.
type ExecutionRepository interface {
	// CreateExecution saves a new raw record and returns its assigned ID.
	CreateExecution(ctx context.Context, ev *domain.RawEvent) (int64, error)
	// FindByProvider retrieves all records for a provider executed at or
	// after the given cutoff (zero cutoff means everything).
	FindByProvider(ctx context.Context, provider string, since time.Time) ([]*domain.RawEvent, error)
	// FindByStrategy retrieves all records for one strategy of a provider.
	FindByStrategy(ctx context.Context, provider, strategy string, since time.Time) ([]*domain.RawEvent, error)
	// ListProviders returns the distinct providers present in the log.
	ListProviders(ctx context.Context) ([]string, error)
}
