// File: internal/action/decision.go
package action

import (
	"errors"
	"strings"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Decision is one decoded decision from the inference service or the offline
// planner: a thought, an action kind and its parameters. Immutable once
// produced; consumed exactly once by the dispatcher.
type Decision struct {
	Thought string `json:"thought,omitempty"`
	Kind    Kind   `json:"action"`
	Params  Params `json:"parameters,omitempty"`
}

// ErrNotObject reports that the payload contained no JSON object at all. The
// dispatcher treats such payloads as a plain final answer.
var ErrNotObject = errors.New("action: payload is not a JSON object")

// Decode parses a wire payload into a Decision. It tolerates markdown code
// fences and leading/trailing prose around the JSON object, and rejects
// unknown action kinds at decode time with *UnknownKindError.
func Decode(raw string) (*Decision, error) {
	candidate := ExtractObject(raw)
	if candidate == "" {
		return nil, ErrNotObject
	}

	var d Decision
	if err := json.UnmarshalFromString(candidate, &d); err != nil {
		return nil, ErrNotObject
	}
	if d.Kind == "" {
		return nil, ErrNotObject
	}
	if !d.Kind.Known() {
		return nil, &UnknownKindError{Kind: string(d.Kind)}
	}
	if d.Params == nil {
		d.Params = Params{}
	}
	return &d, nil
}

// Encode renders the decision back to its wire JSON form.
func (d *Decision) Encode() string {
	out, err := json.MarshalToString(d)
	if err != nil {
		// Decisions are plain data; marshaling them cannot realistically fail.
		return `{"action":"answer","parameters":{"answer":""}}`
	}
	return out
}

// ExtractObject returns the first balanced JSON object inside text, with any
// surrounding prose or markdown code fence stripped. Returns "" when no
// object can be located.
func ExtractObject(text string) string {
	text = stripFences(strings.TrimSpace(text))

	start := strings.Index(text, "{")
	if start == -1 {
		return ""
	}
	candidate := balancedObject(text[start:])
	if candidate == "" || !json.Valid([]byte(candidate)) {
		return ""
	}
	return candidate
}

// balancedObject returns the shortest prefix of text forming a complete
// {...} block. Braces inside string values do not count toward the balance.
func balancedObject(text string) string {
	depth := 0
	inString := false
	escaped := false
	for i, r := range text {
		if escaped {
			escaped = false
			continue
		}
		switch r {
		case '\\':
			if inString {
				escaped = true
			}
		case '"':
			inString = !inString
		case '{':
			if !inString {
				depth++
			}
		case '}':
			if !inString {
				depth--
				if depth == 0 {
					return text[:i+1]
				}
			}
		}
	}
	return ""
}

// stripFences removes a surrounding markdown code fence, if present.
func stripFences(text string) string {
	if strings.HasPrefix(text, "```json") {
		text = text[len("```json"):]
	} else if strings.HasPrefix(text, "```") {
		text = text[len("```"):]
	}
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	return strings.TrimSpace(text)
}
