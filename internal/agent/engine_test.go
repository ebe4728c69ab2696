// File: internal/agent/engine_test.go
package agent_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/claudiorodrigues01/bycrr-ai/internal/action"
	"github.com/claudiorodrigues01/bycrr-ai/internal/agent"
	"github.com/claudiorodrigues01/bycrr-ai/internal/ollama"
	"github.com/claudiorodrigues01/bycrr-ai/internal/planner"
	"github.com/claudiorodrigues01/bycrr-ai/internal/session"
)

type fakeRemote struct {
	raw   string
	err   error
	calls int
}

func (f *fakeRemote) Decide(_ context.Context, _ []session.Message, _ string) (string, error) {
	f.calls++
	return f.raw, f.err
}

type fakeHealth struct{ healthy bool }

func (f fakeHealth) Healthy(context.Context, bool) bool { return f.healthy }

func emptyPlanner(t *testing.T) *planner.Planner {
	t.Helper()
	return planner.NewPlanner(planner.LoadLibrary(filepath.Join(t.TempDir(), "missing.json")), zap.NewNop())
}

func TestEngine_RemoteDecidesWhenHealthy(t *testing.T) {
	remote := &fakeRemote{raw: `{"action":"answer","parameters":{"answer":"do modelo"}}`}
	e := agent.NewEngine(remote, emptyPlanner(t), fakeHealth{healthy: true}, false, zap.NewNop())

	raw := e.Decide(context.Background(), nil, "qualquer tarefa")
	assert.Equal(t, remote.raw, raw)
	assert.Equal(t, 1, remote.calls)
	assert.False(t, e.DecidesOffline(context.Background()))
}

func TestEngine_UnhealthyServiceFallsBackToPlanner(t *testing.T) {
	remote := &fakeRemote{raw: `{"action":"answer","parameters":{"answer":"do modelo"}}`}
	e := agent.NewEngine(remote, emptyPlanner(t), fakeHealth{healthy: false}, false, zap.NewNop())

	raw := e.Decide(context.Background(), nil, "xyzzy")
	d, err := action.Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, action.KindAnswer, d.Kind)
	assert.Zero(t, remote.calls)
	assert.True(t, e.DecidesOffline(context.Background()))
}

func TestEngine_RemoteErrorFallsBackToPlanner(t *testing.T) {
	remote := &fakeRemote{err: ollama.ErrServiceUnavailable}
	e := agent.NewEngine(remote, emptyPlanner(t), fakeHealth{healthy: true}, false, zap.NewNop())

	raw := e.Decide(context.Background(), nil, "xyzzy")
	d, err := action.Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, action.KindAnswer, d.Kind)
	assert.Equal(t, 1, remote.calls)
}

func TestEngine_OfflineModeNeverCallsRemote(t *testing.T) {
	remote := &fakeRemote{raw: `{"action":"answer","parameters":{"answer":"do modelo"}}`}
	e := agent.NewEngine(remote, emptyPlanner(t), fakeHealth{healthy: true}, true, zap.NewNop())

	e.Decide(context.Background(), nil, "xyzzy")
	assert.Zero(t, remote.calls)
	assert.True(t, e.Offline())
	assert.True(t, e.DecidesOffline(context.Background()))
}

func TestEngine_LibraryMatchBypassesRemote(t *testing.T) {
	dir := t.TempDir()
	libPath := filepath.Join(dir, "command_library.json")
	libJSON := `{"commands":[{"id":"limpeza","title":"Limpeza","aliases":["limpeza de disco"],
		"plan":[{"label":"passo","powershell":false,"command":"ls /tmp"}]}]}`
	require.NoError(t, os.WriteFile(libPath, []byte(libJSON), 0o644))
	pl := planner.NewPlanner(planner.LoadLibrary(libPath), zap.NewNop())

	remote := &fakeRemote{raw: `{"action":"answer","parameters":{"answer":"do modelo"}}`}
	e := agent.NewEngine(remote, pl, fakeHealth{healthy: true}, false, zap.NewNop())

	raw := e.Decide(context.Background(), nil, "fazer limpeza de disco")
	d, err := action.Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, action.KindExecuteCommand, d.Kind)
	assert.Zero(t, remote.calls)

	// The active plan keeps routing follow-up turns offline too.
	require.NotNil(t, pl.ActivePlan())
	e.Decide(context.Background(), nil, planner.FeedbackPrefix+"saida\n\nCom base nisso, qual o próximo passo para completar a tarefa original: 'fazer limpeza de disco'?")
	assert.Zero(t, remote.calls)
}
