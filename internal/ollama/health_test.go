// File: internal/ollama/health_test.go
package ollama

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/claudiorodrigues01/bycrr-ai/internal/config"
)

func newTestMonitor(t *testing.T, serverURL string, mutate func(*config.AgentConfig)) *Monitor {
	t.Helper()
	cfg := config.AgentConfig{
		OllamaURL:           serverURL + "/api/chat",
		OllamaCheckInterval: time.Minute,
	}
	if mutate != nil {
		mutate(&cfg)
	}
	m := NewMonitor(cfg, zap.NewNop())
	t.Cleanup(m.http.GetClient().CloseIdleConnections)
	return m
}

func TestMonitor_HealthyCachesProbe(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/tags", r.URL.Path)
		hits.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	m := newTestMonitor(t, srv.URL, nil)
	ctx := context.Background()

	assert.True(t, m.Healthy(ctx, false))
	assert.True(t, m.Healthy(ctx, false))
	assert.Equal(t, int32(1), hits.Load())

	// Forcing bypasses the cache.
	assert.True(t, m.Healthy(ctx, true))
	assert.Equal(t, int32(2), hits.Load())
}

func TestMonitor_OfflineModeIsNeverHealthy(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer srv.Close()

	m := newTestMonitor(t, srv.URL, func(cfg *config.AgentConfig) { cfg.OfflineMode = true })
	assert.False(t, m.Healthy(context.Background(), true))
	assert.Zero(t, hits.Load())
}

func TestMonitor_MarkUnavailableOverridesCache(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	m := newTestMonitor(t, srv.URL, nil)
	require.True(t, m.Healthy(context.Background(), false))

	m.MarkUnavailable()
	assert.False(t, m.Healthy(context.Background(), false))
}

func TestMonitor_EnsureServerWithoutCLI(t *testing.T) {
	m := newTestMonitor(t, "http://127.0.0.1:0", func(cfg *config.AgentConfig) {
		cfg.OllamaAutostart = true
	})
	m.lookPath = func(string) (string, error) { return "", errors.New("not found") }
	started := false
	m.startServer = func() error { started = true; return nil }

	assert.False(t, m.EnsureServer(context.Background()))
	assert.False(t, started)
}

func TestMonitor_EnsureServerAutostarts(t *testing.T) {
	var up atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if up.Load() {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	m := newTestMonitor(t, srv.URL, func(cfg *config.AgentConfig) {
		cfg.OllamaAutostart = true
	})
	m.lookPath = func(string) (string, error) { return "/usr/bin/ollama", nil }
	m.startServer = func() error {
		up.Store(true)
		return nil
	}

	assert.True(t, m.EnsureServer(context.Background()))
}

func TestMonitor_EnsureModelPullsMissingModel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"models":[{"name":"llama3:latest"}]}`))
	}))
	defer srv.Close()

	m := newTestMonitor(t, srv.URL, nil)
	var pulled string
	m.pullModel = func(model string) error { pulled = model; return nil }

	m.EnsureModel(context.Background(), "phi4")
	assert.Equal(t, "phi4:latest", pulled)
}

func TestMonitor_EnsureModelSkipsInstalledAndMock(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"models":[{"name":"phi4:latest"}]}`))
	}))
	defer srv.Close()

	m := newTestMonitor(t, srv.URL, nil)
	m.pullModel = func(model string) error {
		t.Fatalf("unexpected pull of %s", model)
		return nil
	}

	m.EnsureModel(context.Background(), "phi4")
	m.EnsureModel(context.Background(), "mock-model")
}

func TestBaseURL(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"http://localhost:11434/api/chat", "http://localhost:11434"},
		{"https://ollama.example.com/api/chat", "https://ollama.example.com"},
		{"not a url", "http://localhost:11434"},
		{"", "http://localhost:11434"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, BaseURL(tc.raw), "raw=%q", tc.raw)
	}
}

func TestCanonicalModel(t *testing.T) {
	assert.Equal(t, "phi4:latest", CanonicalModel("phi4"))
	assert.Equal(t, "phi4:14b", CanonicalModel("phi4:14b"))
	assert.Equal(t, "phi4:latest", CanonicalModel(""))
}

func TestStepBackOff_WalksSequenceThenStops(t *testing.T) {
	b := newStepBackOff([]time.Duration{time.Second, 2 * time.Second})
	assert.Equal(t, time.Second, b.NextBackOff())
	assert.Equal(t, 2*time.Second, b.NextBackOff())
	assert.Less(t, b.NextBackOff(), time.Duration(0))

	b.Reset()
	assert.Equal(t, time.Second, b.NextBackOff())
}
