package store

import (
	"encoding/json"
	"fmt"

	"github.com/xavierca1/clientbook/internal/entity"
)

// Normalize round-trips fields through JSON so every backend hands out the
// same value shapes (float64 numbers, []any, map[string]any).
func Normalize(fields entity.Fields) (entity.Fields, error) {
	if fields == nil {
		return entity.Fields{}, nil
	}
	b, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("fields are not JSON compatible: %w", err)
	}
	var out entity.Fields
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Merge applies patch onto dst with shallow key semantics. A nil value deletes the key.
func Merge(dst, patch entity.Fields) entity.Fields {
	out := make(entity.Fields, len(dst)+len(patch))
	for k, v := range dst {
		out[k] = v
	}
	for k, v := range patch {
		if v == nil {
			delete(out, k)
			continue
		}
		out[k] = v
	}
	return out
}

// CopyCollection deep-copies a collection so subscribers never share maps with the store.
func CopyCollection(src map[string]entity.Fields) entity.RawCollection {
	out := make(entity.RawCollection, len(src))
	for id, f := range src {
		out[id] = copyFields(f)
	}
	return out
}

func copyFields(f entity.Fields) entity.Fields {
	out := make(entity.Fields, len(f))
	for k, v := range f {
		out[k] = copyValue(v)
	}
	return out
}

func copyValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(t))
		for k, vv := range t {
			m[k] = copyValue(vv)
		}
		return m
	case []any:
		s := make([]any, len(t))
		for i, vv := range t {
			s[i] = copyValue(vv)
		}
		return s
	default:
		return v
	}
}
