// File: internal/agent/sensitive_test.go
package agent_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/claudiorodrigues01/bycrr-ai/internal/agent"
)

func TestClassifySensitive(t *testing.T) {
	tests := []struct {
		name      string
		command   string
		sensitive bool
	}{
		{"empty", "", false},
		{"plain listing", "dir", false},
		{"plain ls", "ls -la /tmp/data", false},
		{"systeminfo", "systeminfo", false},
		{"rm -rf", "rm -rf /var/data", true},
		{"uppercase variant", "RM -RF /var/data", true},
		{"del", "del c:\\temp\\x.txt", true},
		{"format", "format d:", true},
		{"shutdown", "shutdown /s /t 0", true},
		{"stop-service cmdlet", "Stop-Service -Name DiagTrack", true},
		{"remove-item cmdlet", "Remove-Item -Recurse pasta", true},
		{"netsh", "netsh advfirewall set allprofiles state off", true},
		{"taskkill", "taskkill /IM notepad.exe", true},
		{"critical path", "copy payload.exe c:\\windows\\system32", true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			reason := agent.ClassifySensitive(tc.command)
			if tc.sensitive {
				assert.NotEmpty(t, reason)
			} else {
				assert.Empty(t, reason)
			}
		})
	}
}

func TestClassifySensitive_ReasonNamesThePattern(t *testing.T) {
	assert.Equal(t, "Correspondência ao padrão 'rm -rf'", agent.ClassifySensitive("rm -rf /tmp/x"))
	assert.Equal(t, "Atinge caminho crítico 'c:/windows'", agent.ClassifySensitive("type c:/windows/win.ini"))
}

func TestGate_DisabledAlwaysApproves(t *testing.T) {
	g := agent.NewGate(false, nil)
	assert.True(t, g.Confirm("alvo", "motivo"))
}

func TestGate_EnabledWithoutHandlerDeclines(t *testing.T) {
	g := agent.NewGate(true, nil)
	assert.False(t, g.Confirm("alvo", "motivo"))
}

func TestGate_HandlerDecides(t *testing.T) {
	var gotTarget, gotReason string
	g := agent.NewGate(true, func(target, reason string) bool {
		gotTarget, gotReason = target, reason
		return true
	})
	assert.True(t, g.Confirm("c:/x", "Deleção de arquivo"))
	assert.Equal(t, "c:/x", gotTarget)
	assert.Equal(t, "Deleção de arquivo", gotReason)
}

func TestGate_PanickingHandlerDeclines(t *testing.T) {
	g := agent.NewGate(true, func(string, string) bool { panic("boom") })
	assert.False(t, g.Confirm("alvo", "motivo"))
}
