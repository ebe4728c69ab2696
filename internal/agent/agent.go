// File: internal/agent/agent.go

// Package agent hosts the autonomous task loop: decisions are produced by
// the engine (remote model or offline planner), executed by the dispatcher,
// and their results fed back as context for the next decision until a final
// answer, the iteration cap or the runtime budget ends the task.
package agent

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/claudiorodrigues01/bycrr-ai/internal/action"
	"github.com/claudiorodrigues01/bycrr-ai/internal/config"
	"github.com/claudiorodrigues01/bycrr-ai/internal/knowledge"
	"github.com/claudiorodrigues01/bycrr-ai/internal/ollama"
	"github.com/claudiorodrigues01/bycrr-ai/internal/planner"
	"github.com/claudiorodrigues01/bycrr-ai/internal/session"
)

const offlineIterationFloor = 6

// Agent drives tasks end to end and owns the conversation, memory and
// learning state backing them.
type Agent struct {
	logger     *zap.Logger
	cfg        config.AgentConfig
	engine     *Engine
	dispatcher *Dispatcher
	sessions   *session.Store
	memory     *Memory
	patterns   *Patterns

	conversation *session.Session

	// Progress, when set, is called at the start of every loop iteration.
	Progress func(iteration int)
}

// New assembles a fully wired agent from the configuration. When not in
// offline mode it tries to ensure the inference server and model are up,
// tolerating failure: the offline planner covers for an absent service.
func New(ctx context.Context, cfg *config.Config, confirm ConfirmFunc, logger *zap.Logger) (*Agent, error) {
	sessions, err := session.NewStore(cfg.Paths.Sessions(), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open session store: %w", err)
	}

	kb := knowledge.New(cfg.Paths.Knowledge(), logger)
	gate := NewGate(cfg.Agent.ConfirmSensitiveCommands, confirm)
	patterns := LoadPatterns(cfg.Paths.LearningPatterns())
	history := NewCommandLog(cfg.Paths.CommandHistory())
	memory := LoadMemory(cfg.Paths.Memory())
	dispatcher := NewDispatcher(cfg.Agent, gate, kb, patterns, history, logger)

	library := planner.LoadLibrary(cfg.Paths.CommandLibrary())
	pl := planner.NewPlanner(library, logger)

	monitor := ollama.NewMonitor(cfg.Agent, logger)
	var remote RemoteDecider
	if !cfg.Agent.OfflineMode {
		if monitor.EnsureServer(ctx) {
			monitor.EnsureModel(ctx, cfg.Agent.LLMModel)
		}
		remote = ollama.NewClient(cfg.Agent, monitor, logger)
	}
	engine := NewEngine(remote, pl, monitor, cfg.Agent.OfflineMode, logger)

	return &Agent{
		logger:     logger.Named("agent"),
		cfg:        cfg.Agent,
		engine:     engine,
		dispatcher: dispatcher,
		sessions:   sessions,
		memory:     memory,
		patterns:   patterns,
	}, nil
}

// StartSession begins a fresh conversation thread.
func (a *Agent) StartSession(name string) error {
	sess, err := a.sessions.StartNew(name)
	if err != nil {
		return err
	}
	a.conversation = sess
	return nil
}

// LoadSession resumes a persisted conversation by id.
func (a *Agent) LoadSession(id string) error {
	sess, err := a.sessions.Load(id)
	if err != nil {
		return err
	}
	a.conversation = sess
	return nil
}

// Sessions lists the persisted conversations, newest first.
func (a *Agent) Sessions() []session.Meta { return a.sessions.List() }

// CurrentSession returns the active conversation, or nil.
func (a *Agent) CurrentSession() *session.Session { return a.conversation }

// RunTask executes one task to completion. It returns the final answer and
// the result of the last non-terminal action. The loop ends on a final
// answer, on the iteration cap, or when the runtime budget is exhausted;
// every outcome yields an answer, never an error.
func (a *Agent) RunTask(ctx context.Context, task string) (string, string) {
	start := time.Now()

	maxIterations := a.cfg.MaxIterations
	if a.engine.DecidesOffline(ctx) && maxIterations < offlineIterationFloor {
		// Multi-step offline plans need more turns than a single remote
		// decision usually does.
		maxIterations = offlineIterationFloor
	}

	a.appendMessage("user", task)

	currentTask := task
	lastResult := ""
	for i := 0; i < maxIterations; i++ {
		if a.Progress != nil {
			a.Progress(i + 1)
		}
		a.logger.Info("Task iteration", zap.Int("iteration", i+1))

		raw := a.engine.Decide(ctx, a.history(), currentTask)
		a.appendMessage("assistant", raw)
		if decision, err := action.Decode(raw); err == nil && decision.Thought != "" {
			a.memory.Remember(decision.Thought)
		}

		result := a.dispatcher.Dispatch(ctx, raw)
		if strings.HasPrefix(result, FinalAnswerPrefix) {
			final := strings.TrimSpace(strings.TrimPrefix(result, FinalAnswerPrefix))
			return a.finish(final, lastResult, true, true)
		}

		lastResult = result
		currentTask = fmt.Sprintf(
			"%s%s\n\nCom base nisso, qual o próximo passo para completar a tarefa original: '%s'?",
			planner.FeedbackPrefix, result, task)
		a.appendMessage("user", currentTask)

		if time.Since(start) > a.cfg.MaxRuntime {
			final := "Tempo limite excedido ao tentar concluir a tarefa."
			return a.finish(final, lastResult, false, true)
		}
	}

	final := "Não foi possível concluir a tarefa após o número máximo de iterações."
	return a.finish(final, lastResult, false, false)
}

// finish persists the terminal answer and memory state.
func (a *Agent) finish(final, lastResult string, success, persistToSession bool) (string, string) {
	if success {
		a.memory.Remember("Tarefa concluída: " + final)
		a.patterns.LastSuccess = &final
	} else {
		a.memory.Remember(final)
	}
	if err := a.memory.Save(); err != nil {
		a.logger.Warn("Failed to persist memory", zap.Error(err))
	}
	if err := a.patterns.Save(); err != nil {
		a.logger.Warn("Failed to persist learning patterns", zap.Error(err))
	}
	if persistToSession {
		a.appendMessage("assistant", final)
	}
	return final, lastResult
}

// appendMessage records a conversation entry and persists the session.
func (a *Agent) appendMessage(role, content string) {
	if a.conversation == nil {
		return
	}
	a.conversation.Messages = append(a.conversation.Messages, session.Message{Role: role, Content: content})
	if err := a.sessions.Save(a.conversation); err != nil {
		a.logger.Warn("Failed to persist session", zap.Error(err))
	}
}

// history returns the conversation entries, or nil without a session.
func (a *Agent) history() []session.Message {
	if a.conversation == nil {
		return nil
	}
	return a.conversation.Messages
}
