// File: internal/planner/library.go
package planner

import (
	"os"
	"strings"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// LibraryStep is one command of a library plan.
type LibraryStep struct {
	Label      string `json:"label"`
	Powershell bool   `json:"powershell"`
	Command    string `json:"command"`
}

// LibraryItem is a reusable multi-step plan keyed by alias phrases.
type LibraryItem struct {
	ID           string        `json:"id"`
	Title        string        `json:"title"`
	Aliases      []string      `json:"aliases"`
	Confirmation bool          `json:"confirmation"`
	Plan         []LibraryStep `json:"plan"`
}

// Library holds user-defined command plans loaded from a JSON document.
type Library struct {
	Commands []LibraryItem `json:"commands"`
}

// LoadLibrary reads the command library at path. A missing or corrupt file
// yields an empty library, never an error; the planner works without one.
func LoadLibrary(path string) *Library {
	data, err := os.ReadFile(path)
	if err != nil {
		return &Library{}
	}
	var lib Library
	if err := json.Unmarshal(data, &lib); err != nil {
		return &Library{}
	}
	return &lib
}

// Match returns the first item with an alias contained in the lowercased
// task text, or nil.
func (l *Library) Match(textLower string) *LibraryItem {
	if l == nil {
		return nil
	}
	for i := range l.Commands {
		for _, alias := range l.Commands[i].Aliases {
			if alias != "" && strings.Contains(textLower, strings.ToLower(alias)) {
				return &l.Commands[i]
			}
		}
	}
	return nil
}
