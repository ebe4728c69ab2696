// File: internal/agent/dispatcher.go
package agent

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/claudiorodrigues01/bycrr-ai/internal/action"
	"github.com/claudiorodrigues01/bycrr-ai/internal/config"
	"github.com/claudiorodrigues01/bycrr-ai/internal/knowledge"
)

// FinalAnswerPrefix marks a dispatch result that terminates the task loop.
const FinalAnswerPrefix = "FINAL_ANSWER:"

const windowsOnlyResult = "Ação suportada apenas em Windows."

const browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 Chrome/120.0 Safari/537.36"

// handlerFunc executes one action. The returned string is the user-facing
// result; ok feeds the learning statistics.
type handlerFunc func(ctx context.Context, params action.Params) (result string, ok bool)

// Dispatcher maps decoded decisions onto their handlers, guarding sensitive
// ones behind the confirmation gate and recording every dispatch in the
// audit log and learning patterns.
type Dispatcher struct {
	logger    *zap.Logger
	cfg       config.AgentConfig
	gate      *Gate
	knowledge *knowledge.Base
	patterns  *Patterns
	history   *CommandLog
	http      *resty.Client

	// limiter throttles outbound web requests (search, fetch, download).
	limiter *rate.Limiter

	// windows is split out of runtime.GOOS so tests can exercise both
	// branches of platform-dependent handlers.
	windows bool

	handlers map[action.Kind]handlerFunc
}

// NewDispatcher wires the full action vocabulary.
func NewDispatcher(cfg config.AgentConfig, gate *Gate, kb *knowledge.Base, patterns *Patterns, history *CommandLog, logger *zap.Logger) *Dispatcher {
	d := &Dispatcher{
		logger:    logger.Named("dispatcher"),
		cfg:       cfg,
		gate:      gate,
		knowledge: kb,
		patterns:  patterns,
		history:   history,
		http:      resty.New().SetTimeout(30 * time.Second).SetHeader("User-Agent", browserUserAgent),
		limiter:   rate.NewLimiter(rate.Limit(2), 4),
		windows:   runtime.GOOS == "windows",
	}
	d.handlers = map[action.Kind]handlerFunc{
		action.KindExecuteCommand: d.handleExecuteCommand,

		action.KindReadFile:   d.handleReadFile,
		action.KindIngestFile: d.handleIngestFile,
		action.KindWriteFile:  d.handleWriteFile,
		action.KindCreateFile: d.handleCreateFile,
		action.KindAppendFile: d.handleAppendFile,
		action.KindDeleteFile: d.handleDeleteFile,
		action.KindCopyFile:   d.handleCopyFile,
		action.KindMoveFile:   d.handleMoveFile,
		action.KindRenameFile: d.handleRenameFile,
		action.KindFileHash:   d.handleFileHash,
		action.KindZipCreate:  d.handleZipCreate,
		action.KindZipExtract: d.handleZipExtract,
		action.KindDownload:   d.handleDownloadFile,

		action.KindListDir:   d.handleListDir,
		action.KindCreateDir: d.handleCreateDir,
		action.KindDeleteDir: d.handleDeleteDir,

		action.KindSearchFiles:   d.handleSearchFiles,
		action.KindSearchContent: d.handleSearchContent,
		action.KindSearchRegex:   d.handleSearchRegex,

		action.KindListProcesses: d.handleListProcesses,
		action.KindKillProcess:   d.handleKillProcess,

		action.KindListServices:       d.handleListServices,
		action.KindStartService:       d.handleStartService,
		action.KindStopService:        d.handleStopService,
		action.KindListScheduledTasks: d.handleListScheduledTasks,

		action.KindListNetworkConnections: d.handleListNetworkConnections,
		action.KindOpenPorts:              d.handleOpenPorts,
		action.KindFirewallState:          d.handleFirewallState,
		action.KindPingHost:               d.handlePingHost,
		action.KindTracerouteHost:         d.handleTracerouteHost,

		action.KindGetEnv: d.handleGetEnv,
		action.KindSetEnv: d.handleSetEnv,

		action.KindReadRegistry:  d.handleReadRegistry,
		action.KindWriteRegistry: d.handleWriteRegistry,

		action.KindAnalyzeSystem: d.handleAnalyzeSystem,

		action.KindWebSearch:       d.handleWebSearch,
		action.KindFetchURL:        d.handleFetchURL,
		action.KindKnowledgeSearch: d.handleKnowledgeSearch,

		action.KindAnswer: d.handleAnswer,
	}
	return d
}

// Dispatch decodes a raw decision payload and executes it. Payloads without a
// JSON object become a final answer verbatim; unknown kinds produce an error
// result without terminating the loop. A panicking handler is reported as an
// execution error, never crashes the loop.
func (d *Dispatcher) Dispatch(ctx context.Context, raw string) (result string) {
	decision, err := action.Decode(raw)
	if err != nil {
		var unknown *action.UnknownKindError
		if errors.As(err, &unknown) {
			return fmt.Sprintf("Erro: Ação '%s' desconhecida.", unknown.Kind)
		}
		return FinalAnswerPrefix + strings.TrimSpace(raw)
	}

	d.patterns.RecordDispatch()

	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("Action handler panicked",
				zap.String("action", string(decision.Kind)), zap.Any("panic", r))
			d.patterns.Record(decision.Kind, false)
			result = fmt.Sprintf("Erro ao executar a ação: %v", r)
			d.history.Append(decision, result)
		}
	}()

	handler := d.handlers[decision.Kind]
	res, ok := handler(ctx, decision.Params)
	d.patterns.Record(decision.Kind, ok)
	d.history.Append(decision, res)
	d.logger.Debug("Dispatched action",
		zap.String("action", string(decision.Kind)), zap.Bool("success", ok))
	return res
}

func (d *Dispatcher) handleAnswer(_ context.Context, params action.Params) (string, bool) {
	return FinalAnswerPrefix + params.StringOr("answer", ""), true
}
