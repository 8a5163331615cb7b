package session

import (
	"encoding/json"
	"errors"
)

// normalize flattens value into its JSON form: objects become map[string]any,
// numbers become float64, slices become []any. Structures are rebuilt, so the
// result never shares memory with the input.
func normalize(value any) (any, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, errors.Join(ErrNotRepresentable, err)
	}

	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, errors.Join(ErrNotRepresentable, err)
	}
	return out, nil
}

// normalizeMap applies normalize to a whole key/value set at once.
func normalizeMap(values map[string]any) (map[string]any, error) {
	if len(values) == 0 {
		return make(map[string]any), nil
	}

	raw, err := json.Marshal(values)
	if err != nil {
		return nil, errors.Join(ErrNotRepresentable, err)
	}

	out := make(map[string]any, len(values))
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, errors.Join(ErrNotRepresentable, err)
	}
	return out, nil
}

// clone deep-copies a normalized value. Only maps and slices need copying,
// scalars are immutable.
func clone(value any) any {
	switch v := value.(type) {
	case map[string]any:
		return cloneMap(v)
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = clone(item)
		}
		return out
	default:
		return v
	}
}

func cloneMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = clone(v)
	}
	return out
}
