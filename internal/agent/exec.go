// File: internal/agent/exec.go
package agent

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"

	"github.com/claudiorodrigues01/bycrr-ai/internal/action"
)

// handleExecuteCommand runs a shell command, gating it on the sensitivity
// denylist first. A non-zero exit is still a successful execution; only a
// failure to run the command at all (or a timeout) is an error.
func (d *Dispatcher) handleExecuteCommand(ctx context.Context, params action.Params) (string, bool) {
	command, okParam := params.String("command")
	if !okParam {
		return "Erro ao executar comando: comando vazio.", false
	}

	if reason := ClassifySensitive(command); reason != "" && d.gate.Enabled() {
		if !d.gate.Confirm(command, reason) {
			return "Comando sensível detectado e NÃO confirmado pelo usuário. Motivo: " + reason, false
		}
	}

	powershell := params.BoolOr("powershell", d.cfg.UsePowershell)
	stdout, stderr, err := d.runShell(ctx, command, powershell, d.cfg.CommandTimeout)
	if err != nil {
		return fmt.Sprintf("Erro ao executar comando: %v", err), false
	}
	return "Comando executado com sucesso.\nStdout:\n" + stdout + "\nStderr:\n" + stderr, true
}

// runShell executes command under a bounded context. PowerShell is honored on
// Windows only; elsewhere the command always goes through sh.
func (d *Dispatcher) runShell(ctx context.Context, command string, powershell bool, timeout time.Duration) (string, string, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	var cmd *exec.Cmd
	switch {
	case d.windows && powershell:
		cmd = exec.CommandContext(ctx, "powershell", "-NoProfile", "-ExecutionPolicy", "Bypass", "-Command", command)
	case d.windows:
		cmd = exec.CommandContext(ctx, "cmd", "/C", command)
	default:
		cmd = exec.CommandContext(ctx, "sh", "-c", command)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()

	var exitErr *exec.ExitError
	if err != nil && errors.As(err, &exitErr) && ctx.Err() == nil {
		// Non-zero exit: the command ran, its stderr tells the story.
		err = nil
	}
	if ctx.Err() != nil {
		err = fmt.Errorf("tempo limite de %s excedido", timeout)
	}
	return stdout.String(), stderr.String(), err
}

// runPowershell runs a PowerShell one-liner on Windows, used by the service,
// scheduled-task, firewall and registry handlers.
func (d *Dispatcher) runPowershell(ctx context.Context, script string) (string, error) {
	stdout, _, err := d.runShell(ctx, script, true, d.cfg.CommandTimeout)
	return stdout, err
}
