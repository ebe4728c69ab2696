// File: internal/agent/sysactions.go
package agent

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
	gopsnet "github.com/shirou/gopsutil/v3/net"
	"github.com/shirou/gopsutil/v3/process"

	"github.com/claudiorodrigues01/bycrr-ai/internal/action"
)

func (d *Dispatcher) handleGetEnv(_ context.Context, params action.Params) (string, bool) {
	name, ok := params.String("name")
	if !ok {
		return "Erro ao obter variável: nome não informado.", false
	}
	return fmt.Sprintf("Variável '%s': %s", name, os.Getenv(name)), true
}

func (d *Dispatcher) handleSetEnv(_ context.Context, params action.Params) (string, bool) {
	name, ok := params.String("name")
	if !ok {
		return "Erro ao definir variável: nome não informado.", false
	}
	value := params.StringOr("value", "")

	if !d.gate.Confirm(name+"="+value, "Definir variável de ambiente") {
		return "Ação sensível não confirmada: set de variável.", false
	}
	if err := os.Setenv(name, value); err != nil {
		return fmt.Sprintf("Erro ao definir variável: %v", err), false
	}
	return fmt.Sprintf("Variável definida: %s=%s (escopo do processo)", name, value), true
}

func (d *Dispatcher) handleReadRegistry(ctx context.Context, params action.Params) (string, bool) {
	if !d.windows {
		return windowsOnlyResult, false
	}
	path := params.StringOr("path", "")
	out, err := d.runPowershell(ctx,
		fmt.Sprintf("Get-ItemProperty -Path '%s' -ErrorAction SilentlyContinue | Format-List | Out-String", path))
	if err != nil {
		return fmt.Sprintf("Erro ao ler registro: %v", err), false
	}
	return out, true
}

func (d *Dispatcher) handleWriteRegistry(ctx context.Context, params action.Params) (string, bool) {
	if !d.windows {
		return windowsOnlyResult, false
	}
	path := params.StringOr("path", "")
	name := params.StringOr("name", "")
	value := params.StringOr("value", "")
	dtype := params.StringOr("type", "String")

	if !d.gate.Confirm(fmt.Sprintf("%s::%s=%s (%s)", path, name, value, dtype), "Escrita no registro") {
		return "Ação sensível não confirmada: escrita no registro.", false
	}

	script := fmt.Sprintf(
		"New-Item -Path '%s' -Force | Out-Null; New-ItemProperty -Path '%s' -Name '%s' -Value '%s' -PropertyType %s -Force",
		path, path, name, value, dtype)
	out, err := d.runPowershell(ctx, script)
	if err != nil {
		return fmt.Sprintf("Erro ao escrever no registro: %v", err), false
	}
	if out == "" {
		out = "Registro atualizado com sucesso."
	}
	return out, true
}

func (d *Dispatcher) handleListServices(ctx context.Context, params action.Params) (string, bool) {
	if !d.windows {
		return windowsOnlyResult, false
	}
	script := "Get-Service"
	if filter := params.StringOr("filter", ""); filter != "" {
		script += fmt.Sprintf(" | Where-Object {$_.Name -like '*%s*' -or $_.DisplayName -like '*%s*'}", filter, filter)
	}
	script += " | Select-Object Name, DisplayName, Status, StartType | Format-Table -AutoSize | Out-String"
	out, err := d.runPowershell(ctx, script)
	if err != nil {
		return fmt.Sprintf("Erro ao listar serviços: %v", err), false
	}
	return out, true
}

func (d *Dispatcher) handleStartService(ctx context.Context, params action.Params) (string, bool) {
	if !d.windows {
		return windowsOnlyResult, false
	}
	name := params.StringOr("name", "")
	out, err := d.runPowershell(ctx, fmt.Sprintf("Start-Service -Name '%s' -ErrorAction SilentlyContinue", name))
	if err != nil {
		return fmt.Sprintf("Erro ao iniciar serviço: %v", err), false
	}
	if out == "" {
		out = fmt.Sprintf("Serviço '%s' acionado para iniciar.", name)
	}
	return out, true
}

func (d *Dispatcher) handleStopService(ctx context.Context, params action.Params) (string, bool) {
	if !d.windows {
		return windowsOnlyResult, false
	}
	name := params.StringOr("name", "")
	if !d.gate.Confirm(name, "Parar serviço") {
		return "Ação sensível não confirmada: parar serviço.", false
	}
	out, err := d.runPowershell(ctx, fmt.Sprintf("Stop-Service -Name '%s' -Force -ErrorAction SilentlyContinue", name))
	if err != nil {
		return fmt.Sprintf("Erro ao parar serviço: %v", err), false
	}
	if out == "" {
		out = fmt.Sprintf("Serviço '%s' acionado para parar.", name)
	}
	return out, true
}

func (d *Dispatcher) handleListScheduledTasks(ctx context.Context, params action.Params) (string, bool) {
	if !d.windows {
		return windowsOnlyResult, false
	}
	script := "Get-ScheduledTask"
	if path := params.StringOr("path", ""); path != "" {
		script += fmt.Sprintf(" -TaskPath '%s'", path)
	}
	script += " | Select-Object TaskName, TaskPath, State | Format-Table -AutoSize | Out-String"
	out, err := d.runPowershell(ctx, script)
	if err != nil {
		return fmt.Sprintf("Erro ao listar tarefas agendadas: %v", err), false
	}
	return out, true
}

// handleAnalyzeSystem assembles a full local audit: OS identity, CPU, memory,
// disks, IPv4 addresses, top processes and the working directory listing. On
// Windows it appends a telemetry survey of services, CEIP tasks and registry
// data-collection keys.
func (d *Dispatcher) handleAnalyzeSystem(ctx context.Context, params action.Params) (string, bool) {
	var lines []string

	if info, err := host.InfoWithContext(ctx); err == nil {
		lines = append(lines,
			fmt.Sprintf("- SO: %s %s (%s)", info.Platform, info.PlatformVersion, info.KernelVersion),
			fmt.Sprintf("- Build: %s/%s", info.OS, info.PlatformFamily),
			fmt.Sprintf("- Arquitetura: %s", runtime.GOARCH),
			fmt.Sprintf("- Hostname: %s", info.Hostname),
		)
	}

	cpuLine := "- CPU: N/D"
	if percents, err := cpu.PercentWithContext(ctx, 500*time.Millisecond, false); err == nil && len(percents) > 0 {
		cpuLine = fmt.Sprintf("- CPU: %.1f%% uso", percents[0])
		cores, _ := cpu.CountsWithContext(ctx, false)
		threads, _ := cpu.CountsWithContext(ctx, true)
		cpuLine += fmt.Sprintf(" | Cores: %d | Threads: %d", cores, threads)
		if infos, err := cpu.InfoWithContext(ctx); err == nil && len(infos) > 0 && infos[0].Mhz > 0 {
			cpuLine += fmt.Sprintf(" | Freq: %d MHz", int(infos[0].Mhz))
		}
	}
	lines = append(lines, cpuLine)

	if vm, err := mem.VirtualMemoryWithContext(ctx); err == nil {
		lines = append(lines, fmt.Sprintf("- Memória: %.1f%% uso | Total: %d GB | Livre: %d GB",
			vm.UsedPercent, vm.Total/(1<<30), vm.Available/(1<<30)))
	}

	if parts, err := disk.PartitionsWithContext(ctx, false); err == nil {
		var diskLines []string
		for _, p := range parts {
			u, err := disk.UsageWithContext(ctx, p.Mountpoint)
			if err != nil {
				continue
			}
			diskLines = append(diskLines, fmt.Sprintf("%s (%s) %.1f%% usado de %d GB",
				p.Device, p.Mountpoint, u.UsedPercent, u.Total/(1<<30)))
		}
		if len(diskLines) > 0 {
			lines = append(lines, "- Discos:\n  "+strings.Join(diskLines, "\n  "))
		}
	}

	if ifaces, err := gopsnet.InterfacesWithContext(ctx); err == nil {
		var addrLines []string
		for _, iface := range ifaces {
			for _, addr := range iface.Addrs {
				ip := strings.Split(addr.Addr, "/")[0]
				if !strings.Contains(ip, ".") || strings.HasPrefix(ip, "127.") {
					continue
				}
				addrLines = append(addrLines, fmt.Sprintf("%s: %s", iface.Name, ip))
			}
		}
		if len(addrLines) > 0 {
			lines = append(lines, "- Endereços IPv4:\n  "+strings.Join(addrLines, "\n  "))
		}
	}

	if procLines := topProcessLines(ctx, 8); len(procLines) > 0 {
		lines = append(lines, "- Processos (top CPU):\n  "+strings.Join(procLines, "\n  "))
	}

	if entries, err := os.ReadDir("."); err == nil {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		lines = append(lines, "- Arquivos no diretório atual:\n  "+strings.Join(names, "\n  "))
	}

	report := "Análise detalhada do Sistema:\n" + strings.Join(lines, "\n")
	if d.windows {
		if telemetry := d.collectTelemetry(ctx); telemetry != "" {
			report += "\n\nTelemetria (Windows):\n" + telemetry
		}
	}
	return report, true
}

func topProcessLines(ctx context.Context, n int) []string {
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return nil
	}
	infos := make([]processInfo, 0, len(procs))
	for _, p := range procs {
		name, err := p.NameWithContext(ctx)
		if err != nil {
			continue
		}
		cpuPct, _ := p.CPUPercentWithContext(ctx)
		memPct, _ := p.MemoryPercentWithContext(ctx)
		infos = append(infos, processInfo{pid: p.Pid, name: name, cpu: cpuPct, mem: memPct})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].cpu > infos[j].cpu })
	if len(infos) > n {
		infos = infos[:n]
	}
	lines := make([]string, 0, len(infos))
	for _, info := range infos {
		lines = append(lines, fmt.Sprintf("PID %d %s | CPU %.1f%% | MEM %.2f%%", info.pid, info.name, info.cpu, info.mem))
	}
	return lines
}

// collectTelemetry surveys the Windows telemetry surface: DiagTrack services,
// CEIP and Application Experience scheduled tasks, and the DataCollection and
// Privacy registry keys.
func (d *Dispatcher) collectTelemetry(ctx context.Context) string {
	script := strings.Join([]string{
		"$svc = Get-Service diagtrack, dmwappushservice -ErrorAction SilentlyContinue | Select-Object Name, Status, StartType | Format-Table -AutoSize | Out-String",
		"$tele = Get-Service | Where-Object {$_.Name -like '*telemetry*' -or $_.Name -like '*diagtrack*' -or $_.Name -like '*dmwappush*'} | Select-Object Name, Status, StartType | Format-Table -AutoSize | Out-String",
		"$tasks1 = Get-ScheduledTask -TaskPath '\\Microsoft\\Windows\\Customer Experience Improvement Program\\' -ErrorAction SilentlyContinue | Select-Object TaskName, State | Format-Table -AutoSize | Out-String",
		"$tasks2 = Get-ScheduledTask -TaskPath '\\Microsoft\\Windows\\Application Experience\\' -ErrorAction SilentlyContinue | Select-Object TaskName, State | Format-Table -AutoSize | Out-String",
		"$reg1 = (Get-ItemProperty -Path 'HKLM:\\SOFTWARE\\Policies\\Microsoft\\Windows\\DataCollection' -ErrorAction SilentlyContinue | Format-List | Out-String)",
		"$reg2 = (Get-ItemProperty -Path 'HKCU:\\Software\\Microsoft\\Windows\\CurrentVersion\\Privacy' -ErrorAction SilentlyContinue | Format-List | Out-String)",
		"Write-Output '--- Telemetria: Serviços (DiagTrack/dmwappush) ---'",
		"Write-Output $svc",
		"Write-Output '--- Telemetria: Serviços relacionados ---'",
		"Write-Output $tele",
		"Write-Output '--- Telemetria: Tarefas CEIP ---'",
		"Write-Output $tasks1",
		"Write-Output '--- Telemetria: Tarefas App Experience ---'",
		"Write-Output $tasks2",
		"Write-Output '--- Telemetria: Registro (DataCollection) ---'",
		"Write-Output $reg1",
		"Write-Output '--- Telemetria: Registro (Privacy) ---'",
		"Write-Output $reg2",
	}, "; ")

	out, err := d.runPowershell(ctx, script)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(out)
}
