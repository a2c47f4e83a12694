package health

import (
	"context"
	"errors"
	"testing"
)

// --- Mocks ---

type mockIndexPinger struct {
	err error
}

func (m *mockIndexPinger) Ping(_ context.Context) error { return m.err }

type mockEmbedderChecker struct {
	err error
}

func (m *mockEmbedderChecker) HealthCheck(_ context.Context) error { return m.err }

// --- Tests ---

func TestCheck_AllHealthy(t *testing.T) {
	svc := New(&mockIndexPinger{}, &mockEmbedderChecker{})
	r := svc.Check(context.Background())

	if r.Status != Healthy {
		t.Errorf("expected %q, got %q", Healthy, r.Status)
	}
	if r.Checks["index"] != CheckOK {
		t.Errorf("expected index %q, got %q", CheckOK, r.Checks["index"])
	}
	if r.Checks["embedding_provider"] != CheckOK {
		t.Errorf("expected embedding_provider %q, got %q", CheckOK, r.Checks["embedding_provider"])
	}
}

func TestCheck_IndexDownIsUnhealthy(t *testing.T) {
	svc := New(&mockIndexPinger{err: errors.New("conn refused")}, &mockEmbedderChecker{})
	r := svc.Check(context.Background())

	if r.Status != Unhealthy {
		t.Errorf("expected %q, got %q", Unhealthy, r.Status)
	}
	if r.Checks["index"] != CheckError {
		t.Errorf("expected index %q, got %q", CheckError, r.Checks["index"])
	}
	if r.Checks["embedding_provider"] != CheckOK {
		t.Errorf("expected embedding_provider %q, got %q", CheckOK, r.Checks["embedding_provider"])
	}
}

func TestCheck_EmbedderDownIsDegraded(t *testing.T) {
	svc := New(&mockIndexPinger{}, &mockEmbedderChecker{err: errors.New("timeout")})
	r := svc.Check(context.Background())

	if r.Status != Degraded {
		t.Errorf("expected %q, got %q", Degraded, r.Status)
	}
	if r.Checks["index"] != CheckOK {
		t.Errorf("expected index %q, got %q", CheckOK, r.Checks["index"])
	}
	if r.Checks["embedding_provider"] != CheckError {
		t.Errorf("expected embedding_provider %q, got %q", CheckError, r.Checks["embedding_provider"])
	}
}

func TestCheck_BothDownIsUnhealthy(t *testing.T) {
	svc := New(
		&mockIndexPinger{err: errors.New("db down")},
		&mockEmbedderChecker{err: errors.New("emb down")},
	)
	r := svc.Check(context.Background())

	if r.Status != Unhealthy {
		t.Errorf("expected %q, got %q", Unhealthy, r.Status)
	}
	if r.Checks["index"] != CheckError {
		t.Error("expected index error")
	}
	if r.Checks["embedding_provider"] != CheckError {
		t.Error("expected embedding_provider error")
	}
}

func TestCheck_NoEmbedder(t *testing.T) {
	svc := New(&mockIndexPinger{}, nil)
	r := svc.Check(context.Background())

	if r.Status != Healthy {
		t.Errorf("expected %q, got %q", Healthy, r.Status)
	}
	if r.Checks["index"] != CheckOK {
		t.Errorf("expected index %q, got %q", CheckOK, r.Checks["index"])
	}
	if _, ok := r.Checks["embedding_provider"]; ok {
		t.Error("embedding_provider check should be absent when no provider is wired")
	}
}
