// File: internal/agent/sensitive.go
package agent

import "strings"

// sensitivePatterns are substrings that mark a shell command as destructive
// or privilege-altering. Matching is case-insensitive; trailing spaces keep
// short tokens from matching inside unrelated words.
var sensitivePatterns = []string{
	// Windows
	"shutdown", "format", "bcdedit", "reg add", "reg delete", "diskpart",
	"del ", "erase ", "rmdir /s", "rd /s", "cipher /w", "sdelete",
	"net user", "net localgroup", "netsh ", "sc stop", "sc delete", "taskkill",
	"wmic shadowcopy", "wmic process delete", "takeown", "icacls",
	"remove-appxpackage",
	// PowerShell
	"remove-item", "clear-content", "stop-service", "disable-windowsoptionalfeature",
	// Unix-like
	"rm -rf", "mkfs", "mount ", "umount ", "useradd ", "groupadd ", "chmod -r", "chown -r",
}

// criticalPaths flag commands touching system directories.
var criticalPaths = []string{"c:/windows", "c:\\windows", "/windows", "c:/", "c:\\"}

// ClassifySensitive returns a human-readable reason when the command matches
// the sensitivity denylist or touches a critical path, or "" when it is safe.
func ClassifySensitive(command string) string {
	if command == "" {
		return ""
	}
	lower := strings.ToLower(command)
	for _, p := range sensitivePatterns {
		if strings.Contains(lower, p) {
			return "Correspondência ao padrão '" + p + "'"
		}
	}
	for _, cp := range criticalPaths {
		if strings.Contains(lower, cp) {
			return "Atinge caminho crítico '" + cp + "'"
		}
	}
	return ""
}

// ConfirmFunc asks the user to approve a sensitive action. target describes
// what will be affected, reason why approval is needed.
type ConfirmFunc func(target, reason string) bool

// Gate guards sensitive actions behind an optional confirmation callback.
// With confirmation disabled every action passes; with it enabled and no
// callback installed, every sensitive action is declined.
type Gate struct {
	enabled bool
	confirm ConfirmFunc
}

// NewGate returns a Gate. confirm may be nil.
func NewGate(enabled bool, confirm ConfirmFunc) *Gate {
	return &Gate{enabled: enabled, confirm: confirm}
}

// Enabled reports whether sensitive actions require confirmation.
func (g *Gate) Enabled() bool { return g.enabled }

// Confirm runs the callback and reports approval. A panicking callback
// counts as a decline.
func (g *Gate) Confirm(target, reason string) (ok bool) {
	if !g.enabled {
		return true
	}
	if g.confirm == nil {
		return false
	}
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	return g.confirm(target, reason)
}
