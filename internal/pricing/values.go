package pricing

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"
)

// serviceKeys служебные ключи ответов провайдера, которые не являются данными каталога.
var serviceKeys = map[string]struct{}{
	"status":  {},
	"success": {},
	"message": {},
	"error":   {},
}

func isServiceKey(k string) bool {
	_, ok := serviceKeys[strings.ToLower(k)]
	return ok
}

// scalar приводит скалярное JSON значение к строке. Для объектов и массивов возвращает false.
func scalar(v any) (string, bool) {
	switch x := v.(type) {
	case nil:
		return "", false
	case string:
		return strings.TrimSpace(x), true
	case json.Number:
		return x.String(), true
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), true
	case int:
		return strconv.Itoa(x), true
	case int64:
		return strconv.FormatInt(x, 10), true
	case bool:
		return strconv.FormatBool(x), true
	default:
		return "", false
	}
}

func firstScalar(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := scalar(m[k]); ok && s != "" {
			return s
		}
	}
	return ""
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
