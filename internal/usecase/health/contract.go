package health

import "context"

// IndexPinger checks search index store availability.
type IndexPinger interface {
	Ping(ctx context.Context) error
}

// EmbedderChecker checks embedding provider availability.
type EmbedderChecker interface {
	HealthCheck(ctx context.Context) error
}
