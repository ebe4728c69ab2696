// File: internal/agent/engine.go
package agent

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/claudiorodrigues01/bycrr-ai/internal/ollama"
	"github.com/claudiorodrigues01/bycrr-ai/internal/planner"
	"github.com/claudiorodrigues01/bycrr-ai/internal/session"
)

// RemoteDecider produces a decision from the inference service.
type RemoteDecider interface {
	Decide(ctx context.Context, history []session.Message, task string) (string, error)
}

// HealthReporter tracks whether the inference service is reachable.
type HealthReporter interface {
	Healthy(ctx context.Context, force bool) bool
}

// Engine selects the decision strategy per turn: command-library matches and
// active plans always go to the offline planner; otherwise the remote model
// decides when healthy, with the planner as fallback on any failure.
type Engine struct {
	logger  *zap.Logger
	remote  RemoteDecider
	planner *planner.Planner
	health  HealthReporter
	offline bool
}

// NewEngine wires the two decision strategies.
func NewEngine(remote RemoteDecider, pl *planner.Planner, health HealthReporter, offline bool, logger *zap.Logger) *Engine {
	return &Engine{
		logger:  logger.Named("engine"),
		remote:  remote,
		planner: pl,
		health:  health,
		offline: offline,
	}
}

// Offline reports whether remote decisions are disabled entirely.
func (e *Engine) Offline() bool { return e.offline }

// DecidesOffline reports whether the next decision would come from the
// offline planner, either by configuration or because the service is down.
func (e *Engine) DecidesOffline(ctx context.Context) bool {
	return e.offline || e.remote == nil || e.health == nil || !e.health.Healthy(ctx, false)
}

// Decide returns the raw JSON of the next decision. It never fails: every
// degraded path lands in the offline planner, which always answers.
func (e *Engine) Decide(ctx context.Context, history []session.Message, task string) string {
	if e.planner.ActivePlan() != nil || e.planner.HasLibraryMatch(task) {
		return e.planner.Decide(task)
	}
	if e.offline || e.remote == nil || e.health == nil || !e.health.Healthy(ctx, false) {
		return e.planner.Decide(task)
	}

	raw, err := e.remote.Decide(ctx, history, task)
	if err != nil {
		if errors.Is(err, ollama.ErrServiceUnavailable) {
			e.logger.Info("Inference service unavailable; deciding offline.")
		} else {
			e.logger.Warn("Remote decision failed; deciding offline.", zap.Error(err))
		}
		return e.planner.Decide(task)
	}
	return raw
}
