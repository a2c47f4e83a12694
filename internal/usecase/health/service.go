package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates the semantic path is impaired but metadata search
	// still works.
	Degraded Status = "degraded"
	// Unhealthy indicates the search index is unreachable and no
	// recommendations can be served.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks. The index store is a hard dependency;
// the embedding provider is soft because metadata lookups survive without it.
type Service struct {
	index    IndexPinger
	embedder EmbedderChecker
}

// New creates a Service. embedder can be nil when no provider is configured.
func New(index IndexPinger, embedder EmbedderChecker) *Service {
	return &Service{index: index, embedder: embedder}
}

// Check probes each component and folds the results into one status.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)
	status := Healthy

	if err := s.index.Ping(ctx); err != nil {
		checks["index"] = CheckError
		status = Unhealthy
	} else {
		checks["index"] = CheckOK
	}

	if s.embedder != nil {
		if err := s.embedder.HealthCheck(ctx); err != nil {
			checks["embedding_provider"] = CheckError
			if status == Healthy {
				status = Degraded
			}
		} else {
			checks["embedding_provider"] = CheckOK
		}
	}

	return Report{Status: status, Checks: checks}
}
