package normalize

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

func object(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok && m != nil
}

func array(v any) ([]any, bool) {
	a, ok := v.([]any)
	return a, ok
}

// str returns a trimmed string for string and numeric values.
func str(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	}
	return ""
}

func number(v any) (int, bool) {
	switch t := v.(type) {
	case float64:
		return int(t), true
	case int:
		return t, true
	case int64:
		return int(t), true
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return int(n), true
		}
		if f, err := t.Float64(); err == nil {
			return int(f), true
		}
	}
	return 0, false
}

func boolean(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		b, _ := strconv.ParseBool(strings.TrimSpace(t))
		return b
	}
	return false
}

// firstStr returns the first non-empty string among keys of m.
func firstStr(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if s := str(m[k]); s != "" {
			return s
		}
	}
	return ""
}

func firstNumber(m map[string]any, keys ...string) (int, bool) {
	for _, k := range keys {
		if n, ok := number(m[k]); ok {
			return n, true
		}
	}
	return 0, false
}

// stringList collects string elements, or the "url" of object elements.
func stringList(v any) []string {
	items, ok := array(v)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		s := str(it)
		if s == "" {
			if m, ok := object(it); ok {
				s = firstStr(m, "url", "uri", "src")
			}
		}
		if s != "" {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func timestamp(m map[string]any, keys ...string) time.Time {
	for _, k := range keys {
		s := str(m[k])
		if s == "" {
			continue
		}
		if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// extra copies the fields of raw that are not in known.
func extra(raw map[string]any, known map[string]struct{}) map[string]any {
	var out map[string]any
	for k, v := range raw {
		if _, ok := known[k]; ok {
			continue
		}
		if out == nil {
			out = make(map[string]any)
		}
		out[k] = v
	}
	return out
}

func keySet(keys ...string) map[string]struct{} {
	s := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		s[k] = struct{}{}
	}
	return s
}
