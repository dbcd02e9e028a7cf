package remote

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Error error de la API remota. Unwrap devuelve el sentinel de domain
// (ErrRemoteRejected, ErrRemoteUnreachable, ErrNotFound, ErrUnauthorized).
type Error struct {
	Op         string
	StatusCode int                 // 0 si no hubo respuesta
	Message    string              // mensaje del servidor tal cual
	Fields     map[string][]string // errores por campo (DRF)
	Err        error
}

func (e *Error) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("remote %s: %v: %s", e.Op, e.Err, e.Message)
	}
	return fmt.Sprintf("remote %s: %d: %s", e.Op, e.StatusCode, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// ServerMessage mensaje del servidor sin el prefijo de la operación.
func (e *Error) ServerMessage() string { return e.Message }

// FieldErrors errores por campo devueltos por la API (nil si no hubo).
func (e *Error) FieldErrors() map[string][]string { return e.Fields }

// parseErrorBody extrae el mensaje de un cuerpo de error de Django REST Framework.
// Formas soportadas: {"detail": "..."}, {"error": "..."}, {"campo": ["...", ...]}, ["..."].
func parseErrorBody(body []byte) (string, map[string][]string) {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return "", nil
	}

	var list []any
	if err := json.Unmarshal(body, &list); err == nil {
		return strings.Join(flatten(list), "; "), nil
	}

	var obj map[string]any
	if err := json.Unmarshal(body, &obj); err != nil {
		return trimmed, nil
	}
	for _, key := range []string{"detail", "error", "message"} {
		if s, ok := obj[key].(string); ok && s != "" {
			return s, nil
		}
	}

	fields := make(map[string][]string, len(obj))
	keys := make([]string, 0, len(obj))
	for k, v := range obj {
		msgs := flatten(v)
		if len(msgs) == 0 {
			continue
		}
		fields[k] = msgs
		keys = append(keys, k)
	}
	if len(keys) == 0 {
		return trimmed, nil
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		msg := strings.Join(fields[k], " ")
		if k == "non_field_errors" {
			parts = append(parts, msg)
			continue
		}
		parts = append(parts, k+": "+msg)
	}
	return strings.Join(parts, "; "), fields
}

func flatten(v any) []string {
	switch t := v.(type) {
	case string:
		return []string{t}
	case []any:
		var out []string
		for _, item := range t {
			out = append(out, flatten(item)...)
		}
		return out
	case map[string]any:
		var out []string
		for _, item := range t {
			out = append(out, flatten(item)...)
		}
		sort.Strings(out)
		return out
	case nil:
		return nil
	default:
		return []string{fmt.Sprint(t)}
	}
}
