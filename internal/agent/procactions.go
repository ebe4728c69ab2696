// File: internal/agent/procactions.go
package agent

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/shirou/gopsutil/v3/process"

	"github.com/claudiorodrigues01/bycrr-ai/internal/action"
)

type processInfo struct {
	pid  int32
	name string
	cpu  float64
	mem  float32
}

func (d *Dispatcher) handleListProcesses(ctx context.Context, params action.Params) (string, bool) {
	topN := params.Int("top_n", 20)
	if topN <= 0 {
		topN = 20
	}

	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return fmt.Sprintf("Erro ao listar processos: %v", err), false
	}

	infos := make([]processInfo, 0, len(procs))
	for _, p := range procs {
		name, err := p.NameWithContext(ctx)
		if err != nil {
			continue
		}
		cpu, _ := p.CPUPercentWithContext(ctx)
		mem, _ := p.MemoryPercentWithContext(ctx)
		infos = append(infos, processInfo{pid: p.Pid, name: name, cpu: cpu, mem: mem})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].cpu > infos[j].cpu })
	if len(infos) > topN {
		infos = infos[:topN]
	}

	lines := make([]string, 0, len(infos))
	for _, info := range infos {
		lines = append(lines, fmt.Sprintf("PID %d %s | CPU %.1f%% | MEM %.2f%%", info.pid, info.name, info.cpu, info.mem))
	}
	return "Processos (top CPU):\n" + strings.Join(lines, "\n"), true
}

func (d *Dispatcher) handleKillProcess(ctx context.Context, params action.Params) (string, bool) {
	pid := params.Int("pid", 0)
	name := params.StringOr("name", "")

	label := fmt.Sprintf("Encerrar processo '%s'", name)
	if pid > 0 {
		label = fmt.Sprintf("Encerrar processo PID %d", pid)
	}
	if !d.gate.Confirm(label, "Encerramento de processo") {
		return "Ação sensível não confirmada: kill de processo.", false
	}

	var killed []int32
	switch {
	case pid > 0:
		if p, err := process.NewProcessWithContext(ctx, int32(pid)); err == nil {
			if err := p.TerminateWithContext(ctx); err == nil {
				killed = append(killed, int32(pid))
			}
		}
	case name != "":
		procs, err := process.ProcessesWithContext(ctx)
		if err != nil {
			return fmt.Sprintf("Erro ao encerrar processo: %v", err), false
		}
		for _, p := range procs {
			pname, err := p.NameWithContext(ctx)
			if err != nil || !strings.EqualFold(pname, name) {
				continue
			}
			if err := p.TerminateWithContext(ctx); err == nil {
				killed = append(killed, p.Pid)
			}
		}
	}

	if len(killed) == 0 {
		return "Nenhum processo encerrado.", false
	}
	return fmt.Sprintf("Processos encerrados: %v", killed), true
}
