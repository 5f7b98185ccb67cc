package mcvm

import (
	"encoding/json"
	"strconv"
	"strings"
)

// render flattens a JSON text component into plain text, resolving score
// components against the current scores. Unset scores render empty.
func (m *Machine) render(raw string) (string, error) {
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return "", err
	}
	var sb strings.Builder
	m.component(&sb, v)
	return sb.String(), nil
}

func (m *Machine) component(sb *strings.Builder, v any) {
	switch t := v.(type) {
	case string:
		sb.WriteString(t)
	case float64:
		sb.WriteString(strconv.FormatFloat(t, 'f', -1, 64))
	case bool:
		sb.WriteString(strconv.FormatBool(t))
	case []any:
		for _, c := range t {
			m.component(sb, c)
		}
	case map[string]any:
		if text, ok := t["text"].(string); ok {
			sb.WriteString(text)
		}
		if s, ok := t["score"].(map[string]any); ok {
			holder, _ := s["name"].(string)
			obj, _ := s["objective"].(string)
			if n, ok := m.Score(holder, obj); ok {
				sb.WriteString(strconv.FormatInt(int64(n), 10))
			}
		}
		if extra, ok := t["extra"].([]any); ok {
			for _, c := range extra {
				m.component(sb, c)
			}
		}
	}
}
