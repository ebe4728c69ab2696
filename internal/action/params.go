// File: internal/action/params.go
package action

import (
	"strconv"
	"strings"
)

// Params carries the free-form parameter object of a decision. Values arrive
// from JSON, so numbers may be float64, int or string depending on the model.
type Params map[string]interface{}

// String returns the parameter as a non-empty string.
func (p Params) String(key string) (string, bool) {
	v, ok := p[key]
	if !ok || v == nil {
		return "", false
	}
	s, ok := v.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return "", false
	}
	return s, true
}

// StringOr returns the parameter as a string, or def when absent or empty.
func (p Params) StringOr(key, def string) string {
	if s, ok := p.String(key); ok {
		return s
	}
	return def
}

// Int returns the parameter as an int, tolerating the numeric type variance
// of JSON unmarshaling, or def when absent or unparseable.
func (p Params) Int(key string, def int) int {
	v, ok := p[key]
	if !ok || v == nil {
		return def
	}
	switch n := v.(type) {
	case float64:
		return int(n)
	case float32:
		return int(n)
	case int:
		return n
	case int64:
		return int(n)
	case string:
		if i, err := strconv.Atoi(strings.TrimSpace(n)); err == nil {
			return i
		}
	}
	return def
}

// Bool returns the parameter as a bool; absent or foreign types are false.
func (p Params) Bool(key string) bool {
	v, ok := p[key]
	if !ok || v == nil {
		return false
	}
	switch b := v.(type) {
	case bool:
		return b
	case string:
		parsed, err := strconv.ParseBool(strings.TrimSpace(b))
		return err == nil && parsed
	case float64:
		return b != 0
	case int:
		return b != 0
	}
	return false
}

// BoolOr returns the parameter as a bool, or def when absent.
func (p Params) BoolOr(key string, def bool) bool {
	if _, ok := p[key]; !ok {
		return def
	}
	return p.Bool(key)
}
