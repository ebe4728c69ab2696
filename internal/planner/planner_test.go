// File: internal/planner/planner_test.go
package planner_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/claudiorodrigues01/bycrr-ai/internal/action"
	"github.com/claudiorodrigues01/bycrr-ai/internal/planner"
)

func newTestPlanner(t *testing.T) *planner.Planner {
	t.Helper()
	return planner.NewPlanner(planner.LoadLibrary(filepath.Join(t.TempDir(), "missing.json")), zap.NewNop())
}

func decide(t *testing.T, p *planner.Planner, task string) *action.Decision {
	t.Helper()
	d, err := action.Decode(p.Decide(task))
	require.NoError(t, err)
	return d
}

func feedback(result, task string) string {
	return planner.FeedbackPrefix + result +
		"\n\nCom base nisso, qual o próximo passo para completar a tarefa original: '" + task + "'?"
}

func TestPlanner_HardwareAuditPlan(t *testing.T) {
	p := newTestPlanner(t)
	task := "quais as características da máquina e o ano de fabricação?"

	// Three collection steps, each a PowerShell command.
	d := decide(t, p, task)
	require.Equal(t, action.KindExecuteCommand, d.Kind)
	cmd1 := d.Params.StringOr("command", "")
	assert.Contains(t, cmd1, "systeminfo")
	assert.Contains(t, cmd1, "Win32_Processor")
	assert.True(t, d.Params.Bool("powershell"))

	d = decide(t, p, feedback("saida do passo 1", task))
	require.Equal(t, action.KindExecuteCommand, d.Kind)
	assert.Contains(t, d.Params.StringOr("command", ""), "Win32_DiskDrive")

	d = decide(t, p, feedback("saida do passo 2", task))
	require.Equal(t, action.KindExecuteCommand, d.Kind)
	assert.Contains(t, d.Params.StringOr("command", ""), "Win32_BIOS")

	// Final feedback completes the plan with a summary and year estimate.
	d = decide(t, p, feedback("Manufacturer: Dell\nReleaseDate : 2021-03-04", task))
	require.Equal(t, action.KindAnswer, d.Kind)
	answer := d.Params.StringOr("answer", "")
	assert.Contains(t, answer, "Características detalhadas da máquina")
	assert.Contains(t, answer, "Ano de fabricação (estimado): 2021")
	assert.Contains(t, answer, "saida do passo 1")
	assert.Nil(t, p.ActivePlan())
}

func TestPlanner_FeedbackWithoutPlanFinalizes(t *testing.T) {
	p := newTestPlanner(t)

	d := decide(t, p, feedback("Comando executado com sucesso.", "qualquer tarefa"))
	require.Equal(t, action.KindAnswer, d.Kind)
	assert.Equal(t, "Ação executada com sucesso. Verifique o resultado acima.", d.Params.StringOr("answer", ""))
}

func TestPlanner_CommandLibraryPlan(t *testing.T) {
	dir := t.TempDir()
	libPath := filepath.Join(dir, "command_library.json")
	libJSON := `{"commands":[{"id":"limpeza_temp","title":"Limpeza","aliases":["limpeza de temporários"],
		"confirmation":false,
		"plan":[{"label":"listar temporários","powershell":false,"command":"ls /tmp"},
		        {"label":"contar itens","powershell":false,"command":"ls /tmp | wc -l"}]}]}`
	require.NoError(t, os.WriteFile(libPath, []byte(libJSON), 0o644))

	p := planner.NewPlanner(planner.LoadLibrary(libPath), zap.NewNop())
	task := "fazer uma limpeza de temporários agora"
	require.True(t, p.HasLibraryMatch(task))

	d := decide(t, p, task)
	require.Equal(t, action.KindExecuteCommand, d.Kind)
	assert.Equal(t, "ls /tmp", d.Params.StringOr("command", ""))
	require.NotNil(t, p.ActivePlan())
	assert.Equal(t, "limpeza_temp", p.ActivePlan().Name)

	d = decide(t, p, feedback("a b c", task))
	require.Equal(t, action.KindExecuteCommand, d.Kind)
	assert.Equal(t, "ls /tmp | wc -l", d.Params.StringOr("command", ""))

	d = decide(t, p, feedback("3", task))
	require.Equal(t, action.KindAnswer, d.Kind)
	assert.Contains(t, d.Params.StringOr("answer", ""), "Plano concluído com sucesso")
	assert.Nil(t, p.ActivePlan())
}

func TestPlanner_SingleShotRules(t *testing.T) {
	tests := []struct {
		name     string
		task     string
		wantKind action.Kind
		check    func(t *testing.T, d *action.Decision)
	}{
		{
			name: "create file with path and content", task: `criar arquivo "/tmp/novo.txt" "olá"`,
			wantKind: action.KindCreateFile,
			check: func(t *testing.T, d *action.Decision) {
				assert.Equal(t, "/tmp/novo.txt", d.Params.StringOr("path", ""))
				assert.Equal(t, "olá", d.Params.StringOr("content", ""))
			},
		},
		{
			name: "create file without path asks for one", task: "criar arquivo novo por favor",
			wantKind: action.KindAnswer,
			check: func(t *testing.T, d *action.Decision) {
				assert.Contains(t, d.Params.StringOr("answer", ""), "entre aspas")
			},
		},
		{
			name: "delete file", task: `deletar arquivo "/tmp/antigo.log"`,
			wantKind: action.KindDeleteFile,
			check: func(t *testing.T, d *action.Decision) {
				assert.Equal(t, "/tmp/antigo.log", d.Params.StringOr("path", ""))
			},
		},
		{
			name: "copy file needs two paths", task: `copiar arquivo "/tmp/a.txt" "/tmp/b.txt"`,
			wantKind: action.KindCopyFile,
			check: func(t *testing.T, d *action.Decision) {
				assert.Equal(t, "/tmp/a.txt", d.Params.StringOr("src", ""))
				assert.Equal(t, "/tmp/b.txt", d.Params.StringOr("dst", ""))
			},
		},
		{
			name: "hash picks algorithm from text", task: `calcule o checksum md5 de "/tmp/a.txt"`,
			wantKind: action.KindFileHash,
			check: func(t *testing.T, d *action.Decision) {
				assert.Equal(t, "md5", d.Params.StringOr("algorithm", ""))
			},
		},
		{
			name: "extract zip routes to extraction", task: `extrair zip "/tmp/b.zip" "/tmp/out"`,
			wantKind: action.KindZipExtract,
			check: func(t *testing.T, d *action.Decision) {
				assert.Equal(t, "/tmp/b.zip", d.Params.StringOr("zip_path", ""))
				assert.Equal(t, "/tmp/out", d.Params.StringOr("dest", ""))
			},
		},
		{
			name: "list processes", task: "listar processos por favor",
			wantKind: action.KindListProcesses,
			check: func(t *testing.T, d *action.Decision) {
				assert.Equal(t, 20, d.Params.Int("top_n", 0))
			},
		},
		{
			name: "kill process by pid", task: "matar processo pid 4321",
			wantKind: action.KindKillProcess,
			check: func(t *testing.T, d *action.Decision) {
				assert.Equal(t, 4321, d.Params.Int("pid", 0))
			},
		},
		{
			name: "traceroute by bare host", task: "qual a rota para example.com?",
			wantKind: action.KindTracerouteHost,
			check: func(t *testing.T, d *action.Decision) {
				assert.Equal(t, "example.com", d.Params.StringOr("host", ""))
			},
		},
		{
			name: "fetch url from free text", task: "veja https://example.com/page por favor",
			wantKind: action.KindFetchURL,
			check: func(t *testing.T, d *action.Decision) {
				assert.Equal(t, "https://example.com/page", d.Params.StringOr("url", ""))
			},
		},
		{
			name: "knowledge lookup", task: "preciso de ajuda com um manual",
			wantKind: action.KindKnowledgeSearch,
			check: func(t *testing.T, d *action.Decision) {
				assert.Equal(t, 5, d.Params.Int("top_k", 0))
			},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := newTestPlanner(t)
			d := decide(t, p, tc.task)
			require.Equal(t, tc.wantKind, d.Kind)
			tc.check(t, d)
		})
	}
}

func TestPlanner_DefaultAnswer(t *testing.T) {
	p := newTestPlanner(t)
	d := decide(t, p, "xyzzy")
	require.Equal(t, action.KindAnswer, d.Kind)
	assert.Contains(t, d.Params.StringOr("answer", ""), "Ative o Ollama")
}

func TestLibrary_MatchIsCaseInsensitive(t *testing.T) {
	lib := &planner.Library{Commands: []planner.LibraryItem{
		{ID: "x", Aliases: []string{"Backup Completo"}},
	}}
	assert.NotNil(t, lib.Match("fazer backup completo hoje"))
	assert.Nil(t, lib.Match("outra coisa"))
}
