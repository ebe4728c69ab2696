// File: internal/agent/learning.go
package agent

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/claudiorodrigues01/bycrr-ai/internal/action"
)

// ActionStats counts dispatches of one action kind.
type ActionStats struct {
	Count   int `json:"count"`
	Success int `json:"success"`
	Failure int `json:"failure"`
}

// Patterns aggregates per-kind success statistics across runs.
type Patterns struct {
	UsageCount  int                     `json:"usage_count"`
	Actions     map[string]*ActionStats `json:"actions"`
	LastSuccess *string                 `json:"last_success"`

	path string
}

// LoadPatterns reads the learning-pattern document at path, starting fresh
// when it is missing or corrupt.
func LoadPatterns(path string) *Patterns {
	p := &Patterns{Actions: map[string]*ActionStats{}, path: path}
	data, err := os.ReadFile(path)
	if err != nil {
		return p
	}
	if err := json.Unmarshal(data, p); err != nil {
		return &Patterns{Actions: map[string]*ActionStats{}, path: path}
	}
	if p.Actions == nil {
		p.Actions = map[string]*ActionStats{}
	}
	return p
}

// RecordDispatch bumps the global usage counter; call once per dispatched
// decision, before the handler runs.
func (p *Patterns) RecordDispatch() { p.UsageCount++ }

// Record tallies one action outcome.
func (p *Patterns) Record(kind action.Kind, success bool) {
	stats := p.Actions[string(kind)]
	if stats == nil {
		stats = &ActionStats{}
		p.Actions[string(kind)] = stats
	}
	stats.Count++
	if success {
		stats.Success++
	} else {
		stats.Failure++
	}
}

// Save rewrites the pattern document.
func (p *Patterns) Save() error {
	if err := os.MkdirAll(filepath.Dir(p.path), 0o755); err != nil {
		return fmt.Errorf("failed to create learning directory: %w", err)
	}
	data, err := json.MarshalIndent(p, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to marshal learning patterns: %w", err)
	}
	if err := os.WriteFile(p.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write learning patterns: %w", err)
	}
	return nil
}

// historyEntry is one audit-log record of a dispatched action.
type historyEntry struct {
	Command interface{} `json:"command"`
	Result  string      `json:"result"`
}

// CommandLog is an append-style audit log of every dispatched decision and
// its result, stored as one JSON array.
type CommandLog struct {
	path string
}

// NewCommandLog returns a CommandLog writing to path.
func NewCommandLog(path string) *CommandLog {
	return &CommandLog{path: path}
}

// Append records one decision/result pair. Failures are swallowed; the audit
// log never blocks action execution.
func (l *CommandLog) Append(decision *action.Decision, result string) {
	var entries []historyEntry
	if data, err := os.ReadFile(l.path); err == nil {
		_ = json.Unmarshal(data, &entries)
	}
	entries = append(entries, historyEntry{Command: decision, Result: result})
	data, err := json.MarshalIndent(entries, "", "    ")
	if err != nil {
		return
	}
	_ = os.MkdirAll(filepath.Dir(l.path), 0o755)
	_ = os.WriteFile(l.path, data, 0o644)
}
