package render

import (
	"encoding/json"
	"fmt"
	"html/template"
	"sort"
)

// TemplateFuncs are the helpers available to component templates.
func TemplateFuncs() template.FuncMap {
	return template.FuncMap{
		"str":        str,
		"obj":        obj,
		"list":       list,
		"sortedKeys": sortedKeys,
		"toJSON":     toJSON,
		"default": func(def, val any) any {
			if val == nil {
				return def
			}
			if v, ok := val.(string); ok && v == "" {
				return def
			}
			return val
		},
	}
}

// str returns m[key] formatted as a string, or "" when missing. It accepts
// the map[string]any values found inside props.
func str(m any, key string) string {
	mm, ok := m.(map[string]any)
	if !ok {
		return ""
	}
	switch v := mm[key].(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

func obj(m any, key string) map[string]any {
	mm, ok := m.(map[string]any)
	if !ok {
		return nil
	}
	o, _ := mm[key].(map[string]any)
	return o
}

func list(m any, key string) []any {
	mm, ok := m.(map[string]any)
	if !ok {
		return nil
	}
	l, _ := mm[key].([]any)
	return l
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func toJSON(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(b)
}
