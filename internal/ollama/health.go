// File: internal/ollama/health.go
package ollama

import (
	"context"
	"fmt"
	"net/url"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/claudiorodrigues01/bycrr-ai/internal/config"
)

const probeTimeout = 3 * time.Second

// autostartWaits is the fixed poll sequence after launching the server,
// 15 seconds in total.
var autostartWaits = []time.Duration{
	1 * time.Second, 2 * time.Second, 3 * time.Second, 4 * time.Second, 5 * time.Second,
}

// Monitor tracks the reachability of the inference service with a cached
// liveness probe and an optional autostart-and-retry sequence.
type Monitor struct {
	logger    *zap.Logger
	http      *resty.Client
	baseURL   string
	interval  time.Duration
	autostart bool
	offline   bool

	group singleflight.Group

	mu        sync.Mutex
	available bool
	lastCheck time.Time

	// Seams for tests; default to the real implementations.
	lookPath    func(string) (string, error)
	startServer func() error
	pullModel   func(string) error
}

// NewMonitor returns a Monitor for the service behind cfg.OllamaURL.
func NewMonitor(cfg config.AgentConfig, logger *zap.Logger) *Monitor {
	m := &Monitor{
		logger:    logger.Named("ollama_health"),
		http:      resty.New().SetTimeout(probeTimeout),
		baseURL:   BaseURL(cfg.OllamaURL),
		interval:  cfg.OllamaCheckInterval,
		autostart: cfg.OllamaAutostart,
		offline:   cfg.OfflineMode,
		lookPath:  exec.LookPath,
	}
	m.startServer = m.launchServer
	m.pullModel = func(model string) error {
		return exec.Command("ollama", "pull", model).Run()
	}
	return m
}

// BaseURL extracts scheme://host from the configured chat endpoint URL,
// falling back to the default local server.
func BaseURL(rawURL string) string {
	if u, err := url.Parse(rawURL); err == nil && u.Scheme != "" && u.Host != "" {
		return u.Scheme + "://" + u.Host
	}
	return "http://localhost:11434"
}

// CanonicalModel normalizes a model name to its tagged form, appending
// ":latest" when no tag is present.
func CanonicalModel(name string) string {
	if name == "" {
		return "phi4:latest"
	}
	if strings.Contains(name, ":") {
		return name
	}
	return name + ":latest"
}

// Healthy reports whether the inference service is reachable. The result is
// cached for the configured interval; pass force to bypass the cache.
// Concurrent callers share a single probe. Offline mode is never healthy.
func (m *Monitor) Healthy(ctx context.Context, force bool) bool {
	if m.offline {
		return false
	}

	m.mu.Lock()
	if !force && time.Since(m.lastCheck) < m.interval && !m.lastCheck.IsZero() {
		available := m.available
		m.mu.Unlock()
		return available
	}
	m.mu.Unlock()

	v, _, _ := m.group.Do("probe", func() (interface{}, error) {
		available := m.probe(ctx)
		m.mu.Lock()
		m.available = available
		m.lastCheck = time.Now()
		m.mu.Unlock()
		return available, nil
	})
	return v.(bool)
}

// MarkUnavailable flips the cached state to unavailable immediately, e.g.
// after a network-level failure on the chat endpoint.
func (m *Monitor) MarkUnavailable() {
	m.mu.Lock()
	m.available = false
	m.lastCheck = time.Now()
	m.mu.Unlock()
}

// probe performs a direct liveness check on the tag-listing endpoint.
func (m *Monitor) probe(ctx context.Context) bool {
	resp, err := m.http.R().SetContext(ctx).Get(m.baseURL + "/api/tags")
	if err != nil {
		return false
	}
	return resp.StatusCode() == 200
}

// EnsureServer makes sure the inference service is running. When unhealthy
// and autostart is enabled, it launches the server process once and polls
// with the fixed backoff sequence, bounded to ~15s. Returns the final
// reachability state.
func (m *Monitor) EnsureServer(ctx context.Context) bool {
	if m.Healthy(ctx, true) {
		return true
	}
	if !m.autostart || m.offline {
		return false
	}
	if _, err := m.lookPath("ollama"); err != nil {
		m.logger.Warn("Ollama CLI not found on PATH; cannot autostart server.")
		return false
	}
	if err := m.startServer(); err != nil {
		m.logger.Warn("Failed to launch Ollama server process", zap.Error(err))
		return false
	}
	m.logger.Info("Launched Ollama server; waiting for it to become ready.")

	err := backoff.Retry(func() error {
		if m.Healthy(ctx, true) {
			return nil
		}
		return fmt.Errorf("ollama server not ready yet")
	}, backoff.WithContext(newStepBackOff(autostartWaits), ctx))
	if err != nil {
		m.logger.Warn("Ollama server did not become ready within the retry budget.")
		return false
	}
	return true
}

// launchServer starts `ollama serve` detached; the process outlives us.
func (m *Monitor) launchServer() error {
	cmd := exec.Command("ollama", "serve")
	cmd.Stdout = nil
	cmd.Stderr = nil
	return cmd.Start()
}

// EnsureModel verifies the canonical model tag is installed, pulling it via
// the CLI when missing. Models containing "mock" are skipped so tests never
// shell out.
func (m *Monitor) EnsureModel(ctx context.Context, model string) {
	if strings.Contains(strings.ToLower(model), "mock") {
		return
	}
	canonical := CanonicalModel(model)

	var tagList struct {
		Models []struct {
			Name string `json:"name"`
		} `json:"models"`
	}
	resp, err := m.http.R().SetContext(ctx).SetResult(&tagList).Get(m.baseURL + "/api/tags")
	if err != nil || resp.StatusCode() != 200 {
		return
	}
	for _, installed := range tagList.Models {
		if installed.Name == canonical {
			return
		}
	}
	m.logger.Info("Model not installed; pulling.", zap.String("model", canonical))
	if err := m.pullModel(canonical); err != nil {
		m.logger.Warn("Model pull failed", zap.String("model", canonical), zap.Error(err))
	}
}

// stepBackOff walks a fixed wait sequence, then stops.
type stepBackOff struct {
	steps []time.Duration
	next  int
}

func newStepBackOff(steps []time.Duration) *stepBackOff {
	return &stepBackOff{steps: steps}
}

func (b *stepBackOff) NextBackOff() time.Duration {
	if b.next >= len(b.steps) {
		return backoff.Stop
	}
	d := b.steps[b.next]
	b.next++
	return d
}

func (b *stepBackOff) Reset() { b.next = 0 }
