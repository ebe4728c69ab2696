// File: internal/agent/netactions.go
package agent

import (
	"context"
	"fmt"
	"strings"
	"time"

	gopsnet "github.com/shirou/gopsutil/v3/net"

	"github.com/claudiorodrigues01/bycrr-ai/internal/action"
)

func (d *Dispatcher) handleListNetworkConnections(ctx context.Context, params action.Params) (string, bool) {
	conns, err := gopsnet.ConnectionsWithContext(ctx, "inet")
	if err != nil {
		return fmt.Sprintf("Erro ao listar conexões: %v", err), false
	}
	if len(conns) > 200 {
		conns = conns[:200]
	}
	lines := make([]string, 0, len(conns))
	for _, c := range conns {
		laddr := ""
		if c.Laddr.IP != "" || c.Laddr.Port != 0 {
			laddr = fmt.Sprintf("%s:%d", c.Laddr.IP, c.Laddr.Port)
		}
		raddr := ""
		if c.Raddr.IP != "" || c.Raddr.Port != 0 {
			raddr = fmt.Sprintf("%s:%d", c.Raddr.IP, c.Raddr.Port)
		}
		lines = append(lines, fmt.Sprintf("%d %s %s -> %s", c.Type, c.Status, laddr, raddr))
	}
	return "Conexões de rede (amostra):\n" + strings.Join(lines, "\n"), true
}

func (d *Dispatcher) handleOpenPorts(ctx context.Context, params action.Params) (string, bool) {
	conns, err := gopsnet.ConnectionsWithContext(ctx, "inet")
	if err != nil {
		return fmt.Sprintf("Erro ao listar portas: %v", err), false
	}
	var lines []string
	for _, c := range conns {
		if c.Status != "LISTEN" {
			continue
		}
		lines = append(lines, fmt.Sprintf("%s:%d", c.Laddr.IP, c.Laddr.Port))
		if len(lines) >= 100 {
			break
		}
	}
	return "Portas em escuta:\n" + strings.Join(lines, "\n"), true
}

func (d *Dispatcher) handleFirewallState(ctx context.Context, params action.Params) (string, bool) {
	if !d.windows {
		return windowsOnlyResult, false
	}
	out, err := d.runPowershell(ctx, "netsh advfirewall show allprofiles | Select-String 'State'")
	if err != nil {
		return fmt.Sprintf("Erro ao checar firewall: %v", err), false
	}
	return out, true
}

func (d *Dispatcher) handlePingHost(ctx context.Context, params action.Params) (string, bool) {
	host, ok := params.String("host")
	if !ok {
		return "Erro no ping: host não informado.", false
	}
	count := params.Int("count", 4)
	if count <= 0 {
		count = 4
	}

	cmd := fmt.Sprintf("ping -c %d %s", count, host)
	if d.windows {
		cmd = fmt.Sprintf("ping -n %d %s", count, host)
	}
	stdout, _, err := d.runShell(ctx, cmd, false, d.cfg.CommandTimeout)
	if err != nil {
		return fmt.Sprintf("Erro no ping: %v", err), false
	}
	return stdout, true
}

func (d *Dispatcher) handleTracerouteHost(ctx context.Context, params action.Params) (string, bool) {
	host, ok := params.String("host")
	if !ok {
		return "Erro no traceroute: host não informado.", false
	}

	cmd := "traceroute " + host
	if d.windows {
		cmd = "tracert " + host
	}
	// Route traces run long; never cut them below a minute.
	timeout := d.cfg.CommandTimeout
	if timeout < time.Minute {
		timeout = time.Minute
	}
	stdout, _, err := d.runShell(ctx, cmd, false, timeout)
	if err != nil {
		return fmt.Sprintf("Erro no traceroute: %v", err), false
	}
	return stdout, true
}
