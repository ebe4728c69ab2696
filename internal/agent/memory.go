// File: internal/agent/memory.go
package agent

import (
	"fmt"
	"os"
	"path/filepath"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Memory is the agent's persistent scratchpad: a short-term list of thoughts
// and outcomes, plus arbitrary long-term facts.
type Memory struct {
	ShortTerm []string               `json:"short_term"`
	LongTerm  map[string]interface{} `json:"long_term"`

	path string
}

// LoadMemory reads the memory document at path, returning an empty memory
// when the file is missing or corrupt.
func LoadMemory(path string) *Memory {
	m := &Memory{ShortTerm: []string{}, LongTerm: map[string]interface{}{}, path: path}
	data, err := os.ReadFile(path)
	if err != nil {
		return m
	}
	if err := json.Unmarshal(data, m); err != nil {
		return &Memory{ShortTerm: []string{}, LongTerm: map[string]interface{}{}, path: path}
	}
	if m.ShortTerm == nil {
		m.ShortTerm = []string{}
	}
	if m.LongTerm == nil {
		m.LongTerm = map[string]interface{}{}
	}
	return m
}

// Remember appends a note to short-term memory.
func (m *Memory) Remember(note string) {
	m.ShortTerm = append(m.ShortTerm, note)
}

// Save rewrites the memory document.
func (m *Memory) Save() error {
	if err := os.MkdirAll(filepath.Dir(m.path), 0o755); err != nil {
		return fmt.Errorf("failed to create memory directory: %w", err)
	}
	data, err := json.MarshalIndent(m, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to marshal memory: %w", err)
	}
	if err := os.WriteFile(m.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write memory: %w", err)
	}
	return nil
}
